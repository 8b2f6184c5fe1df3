package repository

import (
	"context"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
)

// ReportRepository reads report card rows.
type ReportRepository struct {
	gw *database.Gateway
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(gw *database.Gateway) *ReportRepository {
	return &ReportRepository{gw: gw}
}

// ListByStudent returns a student's reports, newest year first, then newest quarter.
func (r *ReportRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error) {
	reports := []models.Report{}
	query := `SELECT quarter, year, file_name, file_url
        FROM reports
        WHERE student_id = $1
        ORDER BY year DESC, quarter DESC`
	if err := r.gw.Select(ctx, "reports.by_student", &reports, query, studentID); err != nil {
		return nil, err
	}
	return reports, nil
}
