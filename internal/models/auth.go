package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds guardian credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest replaces a guardian's secret.
type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// GuardianClaims represents the JWT payload for guardian access tokens.
type GuardianClaims struct {
	GuardianID int64  `json:"guardian_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}
