package dynsql_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dynsql "github.com/dynsql/go-dynsql"
)

func init() {
	// A scalar function standing in for the server-side routine: it
	// receives the encoded envelope and returns it unchanged, so tests can
	// assert on what the database saw.
	sql.Register("sqlite3_echo_routine", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("EXECUTE_DYNAMIC_SQL", func(payload string) string {
				return payload
			}, true)
		},
	})
}

func newRoutineDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3_echo_routine", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestDBInvoker_ScalarFunction(t *testing.T) {
	db := newRoutineDB(t)
	invoker := dynsql.NewDBInvoker(db, dynsql.WithCallStyle(dynsql.CallScalarFunction))

	executor, err := dynsql.NewExecutor(invoker, dynsql.DefaultConfig(), dynsql.WithLogFunc(noLog))
	require.NoError(t, err)

	echoed := ""
	err = executor.Query("GET_USERS").
		Param("cityId", 23).
		ExecuteOne(context.Background(), &echoed)
	require.NoError(t, err)
	assert.Equal(t, `{"queryName":"GET_USERS","params":{"cityId":23}}`, echoed)
}

func TestDBInvoker_InvokeError(t *testing.T) {
	db := newRoutineDB(t)
	// Table-function style is not valid sqlite syntax for a scalar
	// function, so the database rejects the statement.
	invoker := dynsql.NewDBInvoker(db)

	_, err := invoker.Invoke(context.Background(), dynsql.Call{
		Routine: "NO_SUCH_ROUTINE",
		Payload: "{}",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_SUCH_ROUTINE")
}

func TestDBInvoker_WaitReady(t *testing.T) {
	db := newRoutineDB(t)
	invoker := dynsql.NewDBInvoker(db,
		dynsql.WithReadyRetryLimit(2),
		dynsql.WithReadyBackoff(time.Millisecond, 10*time.Millisecond))

	assert.NoError(t, invoker.WaitReady(context.Background()))
}

func TestDBInvoker_WaitReadyFailure(t *testing.T) {
	db, err := sqlx.Open("sqlite3", "file:/nonexistent-dir/db.sqlite?mode=ro")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	invoker := dynsql.NewDBInvoker(db,
		dynsql.WithReadyRetryLimit(1),
		dynsql.WithReadyBackoff(time.Millisecond, 2*time.Millisecond))

	assert.Error(t, invoker.WaitReady(context.Background()))
}
