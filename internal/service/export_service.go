package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/export"
)

const msgExportFailed = "Error exporting student reports"

type exportStudentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// ExportService renders a student's behaviour summary and report list as CSV or PDF.
type ExportService struct {
	students exportStudentReader
	reports  reportReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(students exportStudentReader, reports reportReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students: students,
		reports:  reports,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// ReportSummary renders the summary for studentID in the requested format.
func (s *ExportService) ReportSummary(ctx context.Context, studentID int64, format dto.ExportFormat) (*dto.ExportFile, error) {
	if format == "" {
		format = dto.ExportFormatCSV
	}
	if format != dto.ExportFormatCSV && format != dto.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	subject := zap.Int64("student_id", studentID)
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, primaryError(s.logger, err, msgStudentNotFound, msgExportFailed, subject)
	}
	reports, err := s.reports.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, primaryError(s.logger, err, msgStudentNotFound, msgExportFailed, subject)
	}

	data := reportDataset(student, reports)
	base := fmt.Sprintf("student-%d-reports", student.ID)

	switch format {
	case dto.ExportFormatPDF:
		content, err := s.pdf.Render(data, "Report summary")
		if err != nil {
			s.logger.Error("render report pdf", subject, zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgExportFailed)
		}
		return &dto.ExportFile{FileName: base + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		content, err := s.csv.Render(data)
		if err != nil {
			s.logger.Error("render report csv", subject, zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgExportFailed)
		}
		return &dto.ExportFile{FileName: base + ".csv", ContentType: "text/csv", Content: content}, nil
	}
}

func reportDataset(student *models.Student, reports []models.Report) export.Dataset {
	name := strings.TrimSpace(student.FirstName + " " + deref(student.LastName))
	data := export.Dataset{
		Summary: []export.Field{
			{Label: "Student", Value: name},
			{Label: "Benes", Value: formatCount(student.Benes)},
			{Label: "Benes note", Value: deref(student.BenesNote)},
			{Label: "Sanctions", Value: formatCount(student.Sanctions)},
			{Label: "Sanction note", Value: deref(student.SanctionNote)},
			{Label: "Total", Value: formatCount(student.Total)},
			{Label: "Total note", Value: deref(student.TotalNote)},
		},
		Headers: []string{"Year", "Quarter", "File"},
		Rows:    make([]map[string]string, 0, len(reports)),
	}
	for _, r := range reports {
		data.Rows = append(data.Rows, map[string]string{
			"Year":    strconv.Itoa(r.Year),
			"Quarter": r.Quarter,
			"File":    r.FileName,
		})
	}
	return data
}

func formatCount(v *int64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatInt(*v, 10)
}
