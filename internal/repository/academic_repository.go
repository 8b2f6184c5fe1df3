package repository

import (
	"context"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
)

// AcademicRepository reads the reference tables a student points at.
type AcademicRepository struct {
	gw *database.Gateway
}

// NewAcademicRepository constructs an AcademicRepository.
func NewAcademicRepository(gw *database.Gateway) *AcademicRepository {
	return &AcademicRepository{gw: gw}
}

// AcademicYearByID returns the form and year code row.
func (r *AcademicRepository) AcademicYearByID(ctx context.Context, id int64) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := r.gw.Get(ctx, "academic_year.find", &year, `SELECT id, form, year_code FROM academic_year WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// HouseByID returns a house row.
func (r *AcademicRepository) HouseByID(ctx context.Context, id int64) (*models.House, error) {
	var house models.House
	if err := r.gw.Get(ctx, "houses.find", &house, `SELECT id, house_name FROM houses WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &house, nil
}

// TeachersByStudent returns the roster joined through academic_relationship.
func (r *AcademicRepository) TeachersByStudent(ctx context.Context, studentID int64) ([]models.Teacher, error) {
	teachers := []models.Teacher{}
	query := `SELECT t.id, t.teacher_name, t.teacher_last_name, t.teacher_email, t.subject
        FROM teachers t
        INNER JOIN academic_relationship ar ON ar.teachers_id = t.id
        WHERE ar.students_id = $1
        ORDER BY t.id ASC`
	if err := r.gw.Select(ctx, "teachers.by_student", &teachers, query, studentID); err != nil {
		return nil, err
	}
	return teachers, nil
}

// TutorByID returns a tutor row.
func (r *AcademicRepository) TutorByID(ctx context.Context, id int64) (*models.Tutor, error) {
	var tutor models.Tutor
	query := `SELECT id, tutor_name, tutor_last_name, tutor_email FROM tutors WHERE id = $1`
	if err := r.gw.Get(ctx, "tutors.find", &tutor, query, id); err != nil {
		return nil, err
	}
	return &tutor, nil
}
