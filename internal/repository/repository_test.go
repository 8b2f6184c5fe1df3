package repository

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/pkg/database"
)

func newMockGateway(t *testing.T) (*database.Gateway, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return database.NewGateway(sqlx.NewDb(db, "sqlmock"), nil), mock, func() { db.Close() }
}

var studentRowColumns = []string{
	"id", "student_name", "student_last_name", "student_email", "student_photo", "academic_year", "houses", "tutors", "timetables",
	"benes", "sanctions", "total", "benes_note", "sanction_note", "total_note",
}
