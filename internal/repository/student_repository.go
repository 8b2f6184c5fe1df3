package repository

import (
	"context"
	"database/sql"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
)

const studentColumns = `id, student_name, student_last_name, student_email, student_photo, academic_year, houses, tutors, timetables,
        benes, sanctions, total, benes_note, sanction_note, total_note`

// StudentRepository reads and writes the students table.
type StudentRepository struct {
	gw *database.Gateway
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(gw *database.Gateway) *StudentRepository {
	return &StudentRepository{gw: gw}
}

// FindByID returns the full student row. sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	if err := r.gw.Get(ctx, "students.find_by_id", &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindBehaviour returns the narrow projection used by the reports view.
func (r *StudentRepository) FindBehaviour(ctx context.Context, id int64) (*models.StudentBehaviour, error) {
	var student models.StudentBehaviour
	query := `SELECT id, benes, sanctions, total, student_photo, benes_note, sanction_note, total_note
        FROM students WHERE id = $1`
	if err := r.gw.Get(ctx, "students.find_behaviour", &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns a page of students ordered by id together with the total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	var students []models.Student
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id ASC LIMIT $1 OFFSET $2`
	if err := r.gw.Select(ctx, "students.list", &students, query, size, (page-1)*size); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.gw.Get(ctx, "students.count", &total, `SELECT COUNT(*) FROM students`); err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ListByGuardianEmail returns every student whose guardian row carries the given login email.
func (r *StudentRepository) ListByGuardianEmail(ctx context.Context, email string) ([]models.StudentSummary, error) {
	var students []models.StudentSummary
	query := `SELECT s.id, s.student_name, s.student_last_name, s.student_photo
        FROM students s
        INNER JOIN guardians g ON g.fk_students_id = s.id
        WHERE g.email_guardians = $1`
	if err := r.gw.Select(ctx, "students.list_by_guardian_email", &students, query, email); err != nil {
		return nil, err
	}
	return students, nil
}

// Create inserts a student with the minimal CRUD fields.
func (r *StudentRepository) Create(ctx context.Context, name, email string) (*models.Student, error) {
	var student models.Student
	query := `INSERT INTO students (student_name, student_email) VALUES ($1, $2) RETURNING ` + studentColumns
	if err := r.gw.Get(ctx, "students.create", &student, query, name, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// Update changes a student's name and email. sql.ErrNoRows when absent.
func (r *StudentRepository) Update(ctx context.Context, id int64, name, email string) (*models.Student, error) {
	var student models.Student
	query := `UPDATE students SET student_name = $1, student_email = $2 WHERE id = $3 RETURNING ` + studentColumns
	if err := r.gw.Get(ctx, "students.update", &student, query, name, email, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes a student. sql.ErrNoRows when absent.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.gw.Exec(ctx, "students.delete", `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
