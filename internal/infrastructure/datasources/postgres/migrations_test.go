package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestStatements_OrderedAndClean(t *testing.T) {
	stmts, err := Statements()
	require.NoError(t, err)
	require.NotEmpty(t, stmts)
	require.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS users")
	for _, stmt := range stmts {
		require.NotContains(t, stmt, "--")
		require.NotContains(t, stmt, ";")
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- comment\nCREATE TABLE a (id INT);\n\n  \nCREATE INDEX i ON a(id);\n-- trailing\n")
	require.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX i ON a(id)"}, got)
}

func TestApply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stmts, err := Statements()
	require.NoError(t, err)
	for range stmts {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Apply(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_StopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(".*").WillReturnError(errors.New("boom"))

	err = Apply(context.Background(), db)
	require.Error(t, err)
	require.Contains(t, err.Error(), "migration statement 2 failed")
	require.NoError(t, mock.ExpectationsWereMet())
}
