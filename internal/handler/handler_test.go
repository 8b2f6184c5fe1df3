package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type profileServiceMock struct {
	home      *dto.StudentHome
	about     *dto.StudentAbout
	reports   *dto.StudentReports
	timetable *dto.StudentTimetable
	info      *dto.GuardianInfo
	children  *dto.GuardianChildren
	err       error
	gotID     int64
}

func (m *profileServiceMock) StudentHome(ctx context.Context, id int64) (*dto.StudentHome, error) {
	m.gotID = id
	return m.home, m.err
}

func (m *profileServiceMock) StudentAbout(ctx context.Context, id int64) (*dto.StudentAbout, error) {
	m.gotID = id
	return m.about, m.err
}

func (m *profileServiceMock) StudentReports(ctx context.Context, id int64) (*dto.StudentReports, error) {
	m.gotID = id
	return m.reports, m.err
}

func (m *profileServiceMock) StudentTimetable(ctx context.Context, id int64) (*dto.StudentTimetable, error) {
	m.gotID = id
	return m.timetable, m.err
}

func (m *profileServiceMock) GuardianInfo(ctx context.Context, id int64) (*dto.GuardianInfo, error) {
	m.gotID = id
	return m.info, m.err
}

func (m *profileServiceMock) GuardianChildren(ctx context.Context, id int64) (*dto.GuardianChildren, error) {
	m.gotID = id
	return m.children, m.err
}

func TestProfileHandlerHomeRendersNullPhoto(t *testing.T) {
	gid := int64(9)
	svc := &profileServiceMock{home: &dto.StudentHome{
		Student:      dto.StudentProfile{Student: models.Student{ID: 2, FirstName: "Ada"}},
		GuardianID:   &gid,
		GuardianName: "Mary",
		ActivePage:   dto.PageHome,
	}}
	h := NewProfileHandler(svc)

	c, w := newGinContext(http.MethodGet, "/students/2/home", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Home(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), svc.gotID)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	student := data["student"].(map[string]interface{})
	assert.Contains(t, student, "signed_photo_url")
	assert.Nil(t, student["signed_photo_url"])
	assert.Equal(t, "Ada", student["student_name"])
	assert.Equal(t, float64(9), data["guardianId"])
	assert.Equal(t, "home", data["activePage"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestProfileHandlerRejectsBadID(t *testing.T) {
	svc := &profileServiceMock{}
	h := NewProfileHandler(svc)
	calls := map[string]func(*gin.Context){
		"home": h.Home, "about": h.About, "reports": h.Reports,
		"timetable": h.Timetable, "pi": h.GuardianInfo, "children": h.Children,
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			for _, raw := range []string{"abc", "0", "-3"} {
				c, w := newGinContext(http.MethodGet, "/x", nil)
				c.Params = gin.Params{{Key: "id", Value: raw}}
				call(c)
				assert.Equal(t, http.StatusBadRequest, w.Code, raw)
			}
			assert.Zero(t, svc.gotID)
		})
	}
}

func TestProfileHandlerPropagatesErrors(t *testing.T) {
	svc := &profileServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "Student not found")}
	h := NewProfileHandler(svc)

	c, w := newGinContext(http.MethodGet, "/students/404/about", nil)
	c.Params = gin.Params{{Key: "id", Value: "404"}}
	h.About(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Student not found", decode(t, w).Error.Message)

	svc.err = appErrors.Clone(appErrors.ErrReportLinkUnavailable, "Error loading student reports")
	c, w = newGinContext(http.MethodGet, "/students/2/reports", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Reports(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, "REPORT_LINK_UNAVAILABLE", env.Error.Code)
	assert.Equal(t, "Error loading student reports", env.Error.Message)
}

func TestProfileHandlerChildrenEmptyList(t *testing.T) {
	svc := &profileServiceMock{children: &dto.GuardianChildren{Students: []dto.ChildSummary{}}}
	h := NewProfileHandler(svc)

	c, w := newGinContext(http.MethodGet, "/guardians/77/students", nil)
	c.Params = gin.Params{{Key: "id", Value: "77"}}
	h.Children(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"students":[]}`, string(decode(t, w).Data))
}

type authServiceMock struct {
	loginReq  models.LoginRequest
	loginResp *dto.LoginResponse
	changeID  int64
	changeReq models.ChangePasswordRequest
	err       error
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*dto.LoginResponse, error) {
	m.loginReq = req
	return m.loginResp, m.err
}

func (m *authServiceMock) ChangePassword(ctx context.Context, id int64, req models.ChangePasswordRequest) (*dto.ChangePasswordResponse, error) {
	m.changeID, m.changeReq = id, req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ChangePasswordResponse{GuardianID: id, Next: "/guardians/9/students"}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := &authServiceMock{loginResp: &dto.LoginResponse{AccessToken: "tok", GuardianID: 9, Next: "/guardians/9/students"}}
	h := NewAuthHandler(svc)

	payload, _ := json.Marshal(models.LoginRequest{Email: "mary@school.test", Password: "secret1"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mary@school.test", svc.loginReq.Email)
	var data dto.LoginResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "tok", data.AccessToken)
}

func TestAuthHandlerLoginMalformedBody(t *testing.T) {
	svc := &authServiceMock{}
	h := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte("{not json"))
	h.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Message, decode(t, w).Error.Message)
	assert.Empty(t, svc.loginReq.Email)
}

func TestAuthHandlerChangePassword(t *testing.T) {
	svc := &authServiceMock{}
	h := NewAuthHandler(svc)

	body := []byte(`{"new_password":"better1","confirm_password":"better1"}`)
	c, w := newGinContext(http.MethodPost, "/guardians/9/change-password", body)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.ChangePassword(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), svc.changeID)
	assert.Equal(t, "better1", svc.changeReq.NewPassword)

	svc.err = appErrors.Clone(appErrors.ErrValidation, "Passwords do not match.")
	c, w = newGinContext(http.MethodPost, "/guardians/9/change-password", body)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.ChangePassword(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match.", decode(t, w).Error.Message)
}

type studentServiceMock struct {
	created dto.StudentRequest
	deleted int64
	err     error
}

func (m *studentServiceMock) List(ctx context.Context, filter models.StudentFilter) ([]dto.StudentResponse, *models.Pagination, error) {
	return []dto.StudentResponse{{ID: 1, Name: "Ada"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, m.err
}

func (m *studentServiceMock) Get(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.StudentResponse{ID: id, Name: "Ada"}, nil
}

func (m *studentServiceMock) Create(ctx context.Context, req dto.StudentRequest) (*dto.StudentResponse, error) {
	m.created = req
	return &dto.StudentResponse{ID: 3, Name: req.Name, Email: req.Email}, m.err
}

func (m *studentServiceMock) Update(ctx context.Context, id int64, req dto.StudentRequest) (*dto.StudentResponse, error) {
	return &dto.StudentResponse{ID: id, Name: req.Name, Email: req.Email}, m.err
}

func (m *studentServiceMock) Delete(ctx context.Context, id int64) error {
	m.deleted = id
	return m.err
}

func TestStudentHandlerCRUD(t *testing.T) {
	svc := &studentServiceMock{}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/students?page=2&limit=5", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, 2, listed.Pagination.Page)
	assert.Equal(t, 5, listed.Pagination.PageSize)

	c, w = newGinContext(http.MethodPost, "/students", []byte(`{"name":"Grace","email":"grace@school.test"}`))
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Grace", svc.created.Name)

	c, w = newGinContext(http.MethodDelete, "/students/3", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	h.Delete(c)
	require.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, int64(3), svc.deleted)

	svc.err = appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	c, w = newGinContext(http.MethodGet, "/students/8", nil)
	c.Params = gin.Params{{Key: "id", Value: "8"}}
	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

type guardianServiceMock struct {
	created dto.CreateGuardianRequest
}

func (m *guardianServiceMock) Get(ctx context.Context, id int64) (*dto.GuardianResponse, error) {
	return &dto.GuardianResponse{ID: id, Name: "Mary"}, nil
}

func (m *guardianServiceMock) Create(ctx context.Context, req dto.CreateGuardianRequest) (*dto.GuardianResponse, error) {
	m.created = req
	return &dto.GuardianResponse{ID: 1, Name: req.Name, Email: req.Email, MustChangePassword: true}, nil
}

func (m *guardianServiceMock) Update(ctx context.Context, id int64, req dto.UpdateGuardianRequest) (*dto.GuardianResponse, error) {
	return &dto.GuardianResponse{ID: id, Name: req.Name, Email: req.Email}, nil
}

func (m *guardianServiceMock) Delete(ctx context.Context, id int64) error {
	return nil
}

func TestGuardianHandler(t *testing.T) {
	svc := &guardianServiceMock{}
	h := NewGuardianHandler(svc)

	c, w := newGinContext(http.MethodPost, "/guardians", []byte(`{"name":"Mary","email":"mary@school.test","password":"secret1","studentId":2}`))
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created.StudentID)
	assert.Equal(t, int64(2), *svc.created.StudentID)

	c, w = newGinContext(http.MethodPut, "/guardians/1", []byte(`{bad`))
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Update(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/guardians/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
}

type exportServiceMock struct {
	format dto.ExportFormat
}

func (m *exportServiceMock) ReportSummary(ctx context.Context, id int64, format dto.ExportFormat) (*dto.ExportFile, error) {
	m.format = format
	return &dto.ExportFile{FileName: "student-2-reports.csv", ContentType: "text/csv", Content: []byte("Student,Ada\n")}, nil
}

func TestExportHandler(t *testing.T) {
	svc := &exportServiceMock{}

	c, w := newGinContext(http.MethodGet, "/students/2/reports/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	NewExportHandler(svc, false).ReportSummary(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "FEATURE_DISABLED", decode(t, w).Error.Code)

	c, w = newGinContext(http.MethodGet, "/students/2/reports/export?format=CSV", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	NewExportHandler(svc, true).ReportSummary(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ExportFormatCSV, svc.format)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "student-2-reports.csv")
	assert.Equal(t, "Student,Ada\n", w.Body.String())
}

func TestFilesHandlerDownload(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("pdfs", "2024/report1.pdf", []byte("%PDF-1.3")))
	backend := storage.NewLocalBackend(storage.NewSignedURLSigner("secret", time.Hour), store, "http://api.test/files")
	h := NewFilesHandler(backend, store, nil)

	link, err := backend.CreateSignedURL(context.Background(), "pdfs", "2024/report1.pdf", time.Hour, true)
	require.NoError(t, err)
	token, err := url.PathUnescape(strings.TrimPrefix(link, "http://api.test/files/"))
	require.NoError(t, err)

	c, w := newGinContext(http.MethodGet, "/files/"+token, nil)
	c.Params = gin.Params{{Key: "token", Value: token}}
	h.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.3", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment;"))

	c, w = newGinContext(http.MethodGet, "/files/forged", nil)
	c.Params = gin.Params{{Key: "token", Value: token + "x"}}
	h.Download(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, store.Delete("pdfs", "2024/report1.pdf"))
	c, w = newGinContext(http.MethodGet, "/files/"+token, nil)
	c.Params = gin.Params{{Key: "token", Value: token}}
	h.Download(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilesHandlerQuotesFilename(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("pdfs", `2024/q"1;x.pdf`, []byte("%PDF-1.3")))
	backend := storage.NewLocalBackend(storage.NewSignedURLSigner("secret", time.Hour), store, "http://api.test/files")
	h := NewFilesHandler(backend, store, nil)

	link, err := backend.CreateSignedURL(context.Background(), "pdfs", `2024/q"1;x.pdf`, time.Hour, true)
	require.NoError(t, err)
	token, err := url.PathUnescape(strings.TrimPrefix(link, "http://api.test/files/"))
	require.NoError(t, err)

	c, w := newGinContext(http.MethodGet, "/files/"+token, nil)
	c.Params = gin.Params{{Key: "token", Value: token}}
	h.Download(c)
	require.Equal(t, http.StatusOK, w.Code)

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `q"1;x.pdf`, params["filename"])
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestMetricsHandlerReady(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("refused") })

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, map[string]Pinger{"database": up, "redis": up}).Ready(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"database":"up","redis":"up"}}`, w.Body.String())

	c, w = newGinContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, map[string]Pinger{"database": down, "redis": up}).Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"down","redis":"up"}}`, w.Body.String())

	c, w = newGinContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	c, w = newGinContext(http.MethodGet, "/health", nil)
	NewMetricsHandler(nil, nil).Health(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
