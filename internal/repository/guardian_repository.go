package repository

import (
	"context"
	"database/sql"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
)

const guardianColumns = "id, name_guardians, email_guardians, change_password, fk_students_id"

// GuardianRepository reads and writes the guardians table.
type GuardianRepository struct {
	gw *database.Gateway
}

// NewGuardianRepository constructs a GuardianRepository.
func NewGuardianRepository(gw *database.Gateway) *GuardianRepository {
	return &GuardianRepository{gw: gw}
}

// FindByID returns the guardian without its secret.
func (r *GuardianRepository) FindByID(ctx context.Context, id int64) (*models.Guardian, error) {
	var guardian models.Guardian
	query := `SELECT ` + guardianColumns + ` FROM guardians WHERE id = $1`
	if err := r.gw.Get(ctx, "guardians.find_by_id", &guardian, query, id); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// FindByStudent returns the first guardian pointing back at the student.
func (r *GuardianRepository) FindByStudent(ctx context.Context, studentID int64) (*models.GuardianLink, error) {
	var link models.GuardianLink
	query := `SELECT id, name_guardians FROM guardians WHERE fk_students_id = $1 ORDER BY id ASC LIMIT 1`
	if err := r.gw.Get(ctx, "guardians.find_by_student", &link, query, studentID); err != nil {
		return nil, err
	}
	return &link, nil
}

// FindEmailByID projects only the login email.
func (r *GuardianRepository) FindEmailByID(ctx context.Context, id int64) (string, error) {
	var email string
	if err := r.gw.Get(ctx, "guardians.find_email", &email, `SELECT email_guardians FROM guardians WHERE id = $1`, id); err != nil {
		return "", err
	}
	return email, nil
}

// FindCredentials returns the login projection for an email.
func (r *GuardianRepository) FindCredentials(ctx context.Context, email string) (*models.GuardianCredentials, error) {
	var creds models.GuardianCredentials
	query := `SELECT id, email_guardians, password_guardians, change_password FROM guardians WHERE email_guardians = $1`
	if err := r.gw.Get(ctx, "guardians.find_credentials", &creds, query, email); err != nil {
		return nil, err
	}
	return &creds, nil
}

// UpdateSecret stores a new password hash and clears the must-change flag.
func (r *GuardianRepository) UpdateSecret(ctx context.Context, id int64, hash string) error {
	query := `UPDATE guardians SET password_guardians = $1, change_password = FALSE WHERE id = $2`
	affected, err := r.gw.Exec(ctx, "guardians.update_secret", query, hash, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Create inserts a guardian whose first login must change the password.
func (r *GuardianRepository) Create(ctx context.Context, name, email, hash string, studentID *int64) (*models.Guardian, error) {
	var guardian models.Guardian
	query := `INSERT INTO guardians (name_guardians, email_guardians, password_guardians, change_password, fk_students_id)
        VALUES ($1, $2, $3, TRUE, $4) RETURNING ` + guardianColumns
	if err := r.gw.Get(ctx, "guardians.create", &guardian, query, name, email, hash, studentID); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// Update edits contact fields. sql.ErrNoRows when absent.
func (r *GuardianRepository) Update(ctx context.Context, id int64, name, email string, studentID *int64) (*models.Guardian, error) {
	var guardian models.Guardian
	query := `UPDATE guardians SET name_guardians = $1, email_guardians = $2, fk_students_id = $3 WHERE id = $4 RETURNING ` + guardianColumns
	if err := r.gw.Get(ctx, "guardians.update", &guardian, query, name, email, studentID, id); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// Delete removes a guardian. sql.ErrNoRows when absent.
func (r *GuardianRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.gw.Exec(ctx, "guardians.delete", `DELETE FROM guardians WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
