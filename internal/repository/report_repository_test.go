package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepositoryListByStudentOrdersNewestFirst(t *testing.T) {
	gw, mock, cleanup := newMockGateway(t)
	defer cleanup()
	repo := NewReportRepository(gw)

	rows := sqlmock.NewRows([]string{"quarter", "year", "file_name", "file_url"}).
		AddRow("Q2", 2025, "2025 Q2", "pdfs/r3.pdf").
		AddRow("Q3", 2024, "2024 Q3", "/pdfs/r2.pdf").
		AddRow("Q1", 2024, "2024 Q1", "r1.pdf")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY year DESC, quarter DESC")).
		WithArgs(int64(2)).
		WillReturnRows(rows)

	reports, err := repo.ListByStudent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, 2025, reports[0].Year)
	assert.Equal(t, "Q3", reports[1].Quarter)
	assert.Equal(t, "r1.pdf", reports[2].FileURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
