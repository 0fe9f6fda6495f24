package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func lockedRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"?column?"}).AddRow(1)
}

func noRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"?column?"})
}
