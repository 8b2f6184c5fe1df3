package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const (
	msgPasswordsMismatch     = "Passwords do not match."
	msgPasswordUpdateFailed  = "Failed to update password. Please try again."
	msgInvalidPasswordFormat = "Password must be at least 6 characters."
)

type guardianCredentialRepository interface {
	FindCredentials(ctx context.Context, email string) (*models.GuardianCredentials, error)
	UpdateSecret(ctx context.Context, id int64, hash string) error
}

// AuthConfig defines configuration for guardian authentication.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	HashCost          int
}

// AuthService checks guardian credentials and issues access tokens.
type AuthService struct {
	repo      guardianCredentialRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo guardianCredentialRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	if config.HashCost == 0 {
		config.HashCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, validator: validate, metrics: metrics, logger: logger, config: config}
}

// Login authenticates a guardian. Missing fields, an unknown email, a wrong password
// and a store failure all produce the same error so callers cannot tell them apart.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*dto.LoginResponse, error) {
	invalid := appErrors.Clone(appErrors.ErrInvalidCredentials, "")

	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordLogin("invalid")
		return nil, invalid
	}

	creds, err := s.repo.FindCredentials(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordLogin("invalid")
			return nil, invalid
		}
		s.metrics.RecordLogin("error")
		s.logger.Error("authentication lookup failed", zap.Error(err))
		return nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordLogin("invalid")
		return nil, invalid
	}

	accessToken, err := s.generateAccessToken(creds)
	if err != nil {
		s.metrics.RecordLogin("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.metrics.RecordLogin("success")

	next := childrenPath(creds.ID)
	if creds.MustChangePassword {
		next = fmt.Sprintf("/guardians/%d/change-password", creds.ID)
	}

	return &dto.LoginResponse{
		AccessToken:        accessToken,
		ExpiresIn:          int64(s.config.AccessTokenExpiry.Seconds()),
		GuardianID:         creds.ID,
		MustChangePassword: creds.MustChangePassword,
		Next:               next,
	}, nil
}

// ChangePassword stores a new secret for the guardian and clears the must-change flag.
func (s *AuthService) ChangePassword(ctx context.Context, guardianID int64, req models.ChangePasswordRequest) (*dto.ChangePasswordResponse, error) {
	if req.NewPassword != req.ConfirmPassword {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgPasswordsMismatch)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgInvalidPasswordFormat)
	}

	hash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgPasswordUpdateFailed)
	}

	if err := s.repo.UpdateSecret(ctx, guardianID, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgGuardianNotFound)
		}
		s.logger.Error("password update failed", zap.Int64("guardian_id", guardianID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgPasswordUpdateFailed)
	}

	return &dto.ChangePasswordResponse{GuardianID: guardianID, Next: childrenPath(guardianID)}, nil
}

// HashPassword returns a bcrypt hash at the configured cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.GuardianClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.GuardianClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.GuardianClaims)
	if !ok || !token.Valid || claims.GuardianID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(creds *models.GuardianCredentials) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.GuardianClaims{
		GuardianID: creds.ID,
		Email:      creds.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(creds.ID, 10),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

func childrenPath(guardianID int64) string {
	return fmt.Sprintf("/guardians/%d/students", guardianID)
}
