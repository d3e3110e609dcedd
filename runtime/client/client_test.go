package client

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

func newMock(t *testing.T, opts ...Option) (*Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return New(db, opts...), mock
}

func TestDriverName(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{"postgres", "postgres", false},
		{"postgresql", "postgres", false},
		{"pgx", "pgx", false},
		{"sqlite", "sqlite3", false},
		{"mysql", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got, err := DriverName(tt.provider)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(context.Background(), WithProvider("oracle"), WithDatabaseURL("x"))
	assert.ErrorContains(t, err, "unsupported provider")

	_, err = Open(context.Background(), WithProvider("sqlite"))
	assert.ErrorContains(t, err, "database url is required")
}

func TestOpen_SQLiteMemory(t *testing.T) {
	c, err := Open(context.Background(), WithProvider("sqlite"), WithDatabaseURL(":memory:"), WithMaxOpenConns(1))
	require.NoError(t, err)
	defer c.Close()

	rows, err := c.Query(context.Background(), sqlgen.Raw("SELECT 1 AS one, 'x' AS s;"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["one"])
	assert.Equal(t, "x", rows[0]["s"])
}

func TestQuery_MapsRows(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectQuery(`SELECT "main"."id" AS "id" FROM "users" AS "main" WHERE ("main"."name" = $1);`).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio"}).
			AddRow(int64(1), []byte("ada"), nil).
			AddRow(int64(2), "bob", "hi"))

	rows, err := c.Query(context.Background(), sqlgen.Raw(`SELECT "main"."id" AS "id" FROM "users" AS "main" WHERE ("main"."name" = $1);`, "ada"))
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"id": int64(1), "name": "ada", "bio": nil},
		{"id": int64(2), "name": "bob", "bio": "hi"},
	}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_EmptyResultIsEmptySlice(t *testing.T) {
	c, mock := newMock(t)
	mock.ExpectQuery("SELECT 1;").WillReturnRows(sqlmock.NewRows([]string{"x"}))

	rows, err := c.Query(context.Background(), sqlgen.Raw("SELECT 1;"))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQuery_WrapsDriverError(t *testing.T) {
	c, mock := newMock(t)
	driverErr := errors.New("duplicate key value violates unique constraint")
	mock.ExpectQuery("INSERT INTO x;").WillReturnError(driverErr)

	_, err := c.Query(context.Background(), sqlgen.Raw("INSERT INTO x;"))
	require.Error(t, err)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "INSERT INTO x;", execErr.SQL)
	assert.ErrorIs(t, err, driverErr)
	assert.True(t, IsExecution(err))
}

func TestTransaction_Commit(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1;").WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))
	mock.ExpectCommit()

	err := c.Transaction(context.Background(), func(tx Executor) error {
		_, err := tx.Query(context.Background(), sqlgen.Raw("SELECT 1;"))
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_RollbackOnError(t *testing.T) {
	c, mock := newMock(t)
	failure := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := c.Transaction(context.Background(), func(tx Executor) error {
		return failure
	})
	assert.ErrorIs(t, err, failure)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_RollbackOnPanic(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = c.Transaction(context.Background(), func(tx Executor) error {
			panic("kaboom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_BeginFailure(t *testing.T) {
	c, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	called := false
	err := c.Transaction(context.Background(), func(tx Executor) error {
		called = true
		return nil
	})
	assert.True(t, IsExecution(err))
	assert.False(t, called)
}

func TestTransaction_NestedUsesSavepoints(t *testing.T) {
	c, mock := newMock(t)
	failure := errors.New("inner failed")

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT sp_2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT sp_3").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT sp_3").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT sp_2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := c.Transaction(context.Background(), func(tx Executor) error {
		err := tx.Transaction(context.Background(), func(Executor) error { return failure })
		require.ErrorIs(t, err, failure)

		return tx.Transaction(context.Background(), func(inner Executor) error {
			return inner.Transaction(context.Background(), func(Executor) error { return nil })
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMiddleware_Order(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return func(ctx context.Context, info QueryInfo, next Next) QueryResult {
			order = append(order, name+"-before")
			res := next(ctx, info)
			order = append(order, name+"-after")
			return res
		}
	}

	c, mock := newMock(t, WithMiddleware(record("mw1")))
	c.Use(record("mw2"))
	mock.ExpectQuery("SELECT 1;").WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))

	_, err := c.Query(context.Background(), sqlgen.Raw("SELECT 1;"))
	require.NoError(t, err)
	assert.Equal(t, []string{"mw1-before", "mw2-before", "mw2-after", "mw1-after"}, order)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, mock := newMock(t, WithMiddleware(LoggingMiddleware(logger)))
	mock.ExpectQuery("SELECT 1;").WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))
	mock.ExpectQuery("SELECT 2;").WillReturnError(errors.New("relation does not exist"))

	_, err := c.Query(context.Background(), sqlgen.Raw("SELECT 1;"))
	require.NoError(t, err)
	_, err = c.Query(context.Background(), sqlgen.Raw("SELECT 2;"))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg=query sql="SELECT 1;"`)
	assert.Contains(t, out, "rows=1")
	assert.Contains(t, out, `msg="query failed"`)
	assert.Contains(t, out, "relation does not exist")
}
