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

type guardianRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Guardian, error)
	Create(ctx context.Context, name, email, hash string, studentID *int64) (*models.Guardian, error)
	Update(ctx context.Context, id int64, name, email string, studentID *int64) (*models.Guardian, error)
	Delete(ctx context.Context, id int64) error
}

type passwordHasher interface {
	HashPassword(password string) (string, error)
}

// GuardianService exposes plain CRUD over guardians.
type GuardianService struct {
	repo      guardianRepository
	hasher    passwordHasher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuardianService constructs a GuardianService.
func NewGuardianService(repo guardianRepository, hasher passwordHasher, validate *validator.Validate, logger *zap.Logger) *GuardianService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuardianService{repo: repo, hasher: hasher, validator: validate, logger: logger}
}

// Get returns a guardian without its secret.
func (s *GuardianService) Get(ctx context.Context, id int64) (*dto.GuardianResponse, error) {
	guardian, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "failed to load guardian")
	}
	resp := toGuardianResponse(guardian)
	return &resp, nil
}

// Create registers a guardian. The initial password is hashed and must be changed at first login.
func (s *GuardianService) Create(ctx context.Context, req dto.CreateGuardianRequest) (*dto.GuardianResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guardian payload")
	}
	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	guardian, err := s.repo.Create(ctx, req.Name, req.Email, hash, req.StudentID)
	if err != nil {
		return nil, s.translate(err, "failed to create guardian")
	}
	resp := toGuardianResponse(guardian)
	return &resp, nil
}

// Update edits a guardian's contact fields and student link.
func (s *GuardianService) Update(ctx context.Context, id int64, req dto.UpdateGuardianRequest) (*dto.GuardianResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guardian payload")
	}
	guardian, err := s.repo.Update(ctx, id, req.Name, req.Email, req.StudentID)
	if err != nil {
		return nil, s.translate(err, "failed to update guardian")
	}
	resp := toGuardianResponse(guardian)
	return &resp, nil
}

// Delete removes a guardian.
func (s *GuardianService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "failed to delete guardian")
	}
	return nil
}

func (s *GuardianService) translate(err error, message string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, msgGuardianNotFound)
	case database.IsUniqueViolation(err):
		return appErrors.Clone(appErrors.ErrConflict, "guardian email already exists")
	default:
		s.logger.Error(message, zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}

func toGuardianResponse(g *models.Guardian) dto.GuardianResponse {
	return dto.GuardianResponse{
		ID:                 g.ID,
		Name:               g.Name,
		Email:              g.Email,
		StudentID:          g.StudentID,
		MustChangePassword: g.MustChangePassword,
	}
}
