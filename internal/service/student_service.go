package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Create(ctx context.Context, name, email string) (*models.Student, error)
	Update(ctx context.Context, id int64, name, email string) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// StudentService exposes plain CRUD over students.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns a page of students.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]dto.StudentResponse, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	out := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, toStudentResponse(&students[i]))
	}
	return out, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "failed to load student")
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

// Create inserts a student.
func (s *StudentService) Create(ctx context.Context, req dto.StudentRequest) (*dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.Create(ctx, req.Name, req.Email)
	if err != nil {
		return nil, s.translate(err, "failed to create student")
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

// Update changes a student's name and email.
func (s *StudentService) Update(ctx context.Context, id int64, req dto.StudentRequest) (*dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.Update(ctx, id, req.Name, req.Email)
	if err != nil {
		return nil, s.translate(err, "failed to update student")
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "failed to delete student")
	}
	return nil
}

func (s *StudentService) translate(err error, message string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, msgStudentNotFound)
	case database.IsUniqueViolation(err):
		return appErrors.Clone(appErrors.ErrConflict, "student email already exists")
	default:
		s.logger.Error(message, zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}

func toStudentResponse(student *models.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:    student.ID,
		Name:  student.FirstName,
		Email: deref(student.Email),
	}
}
