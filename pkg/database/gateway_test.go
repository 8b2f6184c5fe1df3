package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	labels []string
}

func (o *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.labels = append(o.labels, label)
}

func newGatewayMock(t *testing.T) (*Gateway, sqlmock.Sqlmock, *recordingObserver) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	obs := &recordingObserver{}
	return NewGateway(sqlx.NewDb(db, "sqlmock"), obs), mock, obs
}

func TestGatewayGetBindsArguments(t *testing.T) {
	gw, mock, obs := newGatewayMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT form FROM academic_year WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"form"}).AddRow("Year 10"))

	var form string
	err := gw.Get(context.Background(), "academic_year.form", &form, "SELECT form FROM academic_year WHERE id = $1", int64(7))
	require.NoError(t, err)
	assert.Equal(t, "Year 10", form)
	assert.Equal(t, []string{"academic_year.form"}, obs.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewayGetPassesNoRowsThrough(t *testing.T) {
	gw, mock, _ := newGatewayMock(t)
	mock.ExpectQuery("SELECT id FROM students").WillReturnError(sql.ErrNoRows)

	var id int64
	err := gw.Get(context.Background(), "students.id", &id, "SELECT id FROM students WHERE id = $1", 1)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.False(t, IsStoreError(err))
}

func TestGatewayWrapsBackendFailures(t *testing.T) {
	gw, mock, _ := newGatewayMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT t.id").WillReturnError(boom)

	var rows []struct {
		ID int64 `db:"id"`
	}
	err := gw.Select(context.Background(), "teachers.by_student", &rows, "SELECT t.id FROM teachers t WHERE t.id = $1", 1)
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "teachers.by_student")
}

func TestGatewayExecReturnsAffectedRows(t *testing.T) {
	gw, mock, _ := newGatewayMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := gw.Exec(context.Background(), "students.delete", "DELETE FROM students WHERE id = $1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := &StoreError{Op: "students.create", Err: &pq.Error{Code: "23505"}}
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(&StoreError{Op: "x", Err: &pq.Error{Code: "23503"}}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}
