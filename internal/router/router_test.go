package router

import (
	"context"
	"net/http"
	"os"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/noah-isme/school-portal-api/api/swagger"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/pkg/config"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type stubProfiles struct{}

func (stubProfiles) StudentHome(ctx context.Context, id int64) (*dto.StudentHome, error) {
	if id != 2 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	return &dto.StudentHome{Student: dto.StudentProfile{Student: models.Student{ID: 2, FirstName: "Ada"}}, GuardianName: "Guardian", ActivePage: dto.PageHome}, nil
}

func (stubProfiles) StudentAbout(ctx context.Context, id int64) (*dto.StudentAbout, error) {
	return &dto.StudentAbout{ActivePage: dto.PageAbout}, nil
}

func (stubProfiles) StudentReports(ctx context.Context, id int64) (*dto.StudentReports, error) {
	return &dto.StudentReports{Reports: []dto.ReportLink{}, ActivePage: dto.PageReports}, nil
}

func (stubProfiles) StudentTimetable(ctx context.Context, id int64) (*dto.StudentTimetable, error) {
	return &dto.StudentTimetable{ActivePage: dto.PageTimetable}, nil
}

func (stubProfiles) GuardianInfo(ctx context.Context, id int64) (*dto.GuardianInfo, error) {
	return &dto.GuardianInfo{GuardianID: id, ActivePage: dto.PagePI}, nil
}

func (stubProfiles) GuardianChildren(ctx context.Context, id int64) (*dto.GuardianChildren, error) {
	return &dto.GuardianChildren{Students: []dto.ChildSummary{}}, nil
}

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, req models.LoginRequest) (*dto.LoginResponse, error) {
	return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
}

func (stubAuth) ChangePassword(ctx context.Context, id int64, req models.ChangePasswordRequest) (*dto.ChangePasswordResponse, error) {
	return &dto.ChangePasswordResponse{GuardianID: id}, nil
}

func (stubAuth) ValidateToken(token string) (*models.GuardianClaims, error) {
	switch token {
	case "guardian-9":
		return &models.GuardianClaims{GuardianID: 9}, nil
	case "guardian-8":
		return &models.GuardianClaims{GuardianID: 8}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

type stubStudents struct{}

func (stubStudents) List(ctx context.Context, f models.StudentFilter) ([]dto.StudentResponse, *models.Pagination, error) {
	return []dto.StudentResponse{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (stubStudents) Get(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	return &dto.StudentResponse{ID: id}, nil
}

func (stubStudents) Create(ctx context.Context, req dto.StudentRequest) (*dto.StudentResponse, error) {
	return &dto.StudentResponse{ID: 1}, nil
}

func (stubStudents) Update(ctx context.Context, id int64, req dto.StudentRequest) (*dto.StudentResponse, error) {
	return &dto.StudentResponse{ID: id}, nil
}

func (stubStudents) Delete(ctx context.Context, id int64) error {
	return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
}

type stubGuardians struct{}

func (stubGuardians) Get(ctx context.Context, id int64) (*dto.GuardianResponse, error) {
	return &dto.GuardianResponse{ID: id}, nil
}

func (stubGuardians) Create(ctx context.Context, req dto.CreateGuardianRequest) (*dto.GuardianResponse, error) {
	return &dto.GuardianResponse{ID: 1}, nil
}

func (stubGuardians) Update(ctx context.Context, id int64, req dto.UpdateGuardianRequest) (*dto.GuardianResponse, error) {
	return &dto.GuardianResponse{ID: id}, nil
}

func (stubGuardians) Delete(ctx context.Context, id int64) error { return nil }

func newTestRouter(opts Options) (*gin.Engine, *service.MetricsService) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	h := Handlers{
		Profile:   handler.NewProfileHandler(stubProfiles{}),
		Auth:      handler.NewAuthHandler(stubAuth{}),
		Students:  handler.NewStudentHandler(stubStudents{}),
		Guardians: handler.NewGuardianHandler(stubGuardians{}),
		Exports:   handler.NewExportHandler(nil, false),
		Metrics:   handler.NewMetricsHandler(metrics.Handler(), nil),
	}
	return New(opts, h, stubAuth{}, metrics, nil), metrics
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouteTable(t *testing.T) {
	r, _ := newTestRouter(Options{APIPrefix: "/api/v1"})
	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/students/2/home", http.StatusOK},
		{http.MethodGet, "/api/v1/students/3/home", http.StatusNotFound},
		{http.MethodGet, "/api/v1/students/abc/home", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/students/2/about", http.StatusOK},
		{http.MethodGet, "/api/v1/students/2/reports", http.StatusOK},
		{http.MethodGet, "/api/v1/students/2/reports/export", http.StatusNotFound},
		{http.MethodGet, "/api/v1/students/2/timetable", http.StatusOK},
		{http.MethodGet, "/api/v1/students", http.StatusOK},
		{http.MethodGet, "/api/v1/students/2", http.StatusOK},
		{http.MethodDelete, "/api/v1/students/2", http.StatusNotFound},
		{http.MethodGet, "/api/v1/guardians/9", http.StatusOK},
		{http.MethodGet, "/api/v1/guardians/9/students", http.StatusOK},
		{http.MethodGet, "/api/v1/guardians/9/pi", http.StatusOK},
		{http.MethodPost, "/api/v1/auth/login", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/files/anything", http.StatusNotFound},
		{http.MethodGet, "/docs/index.html", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := do(r, tc.method, tc.path, "")
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGuardianRoutesRequireMatchingToken(t *testing.T) {
	r, _ := newTestRouter(Options{APIPrefix: "/api/v1", AuthRequired: true})

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/guardians/9/students", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/guardians/9/students", "bogus").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/guardians/9/pi", "guardian-8").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/guardians/9/pi", "guardian-9").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/guardians/9/students", "guardian-9").Code)

	// student composites and login stay public
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/students/2/home", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/v1/auth/login", "").Code)
}

func TestDefaultConfigGuardsGuardianRoutes(t *testing.T) {
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })

	cfg, err := config.Load()
	require.NoError(t, err)
	r, _ := newTestRouter(Options{APIPrefix: cfg.APIPrefix, AuthRequired: cfg.Auth.Required})

	body := `{"new_password":"secret123","confirm_password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/guardians/5/change-password", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/guardians/5/pi", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/guardians/5/students", "").Code)
}

func TestRequestIDAndMetrics(t *testing.T) {
	r, _ := newTestRouter(Options{APIPrefix: "api/v1/"})

	rec := do(r, http.MethodGet, "/api/v1/students/2/home", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	metrics := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.True(t, strings.Contains(metrics.Body.String(), `path="/api/v1/students/:id/home"`))
}

func TestDocsMountedOnRequest(t *testing.T) {
	r, _ := newTestRouter(Options{EnableDocs: true})
	rec := do(r, http.MethodGet, "/docs/doc.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/students/2/home", "").Code)
}
