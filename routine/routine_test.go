package routine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dynsql "github.com/dynsql/go-dynsql"
	"github.com/dynsql/go-dynsql/routine"
)

type user struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	CityID int64  `db:"city_id"`
}

var testRegistry = routine.Registry{
	"GET_USERS":   "SELECT id, name, city_id FROM users WHERE city_id = :cityId ORDER BY id",
	"GET_USER":    "SELECT id, name, city_id FROM users WHERE id = :id",
	"ADD_USER":    "INSERT INTO users (name, city_id) VALUES (:name, :cityId)",
	"COUNT_USERS": "SELECT COUNT(*) FROM users",
}

func newUserDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// In-memory sqlite is per-connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, city_id INTEGER)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO users (name, city_id) VALUES ('alice', 23), ('bob', 23), ('carol', 5)")
	require.NoError(t, err)

	return db
}

func newExecutor(t *testing.T, invoker dynsql.Invoker) *dynsql.Executor {
	t.Helper()

	executor, err := dynsql.NewExecutor(invoker, dynsql.DefaultConfig(),
		dynsql.WithLogFunc(func(l dynsql.LogLevel, format string, a ...interface{}) {}))
	require.NoError(t, err)

	return executor
}

func TestInvoker_List(t *testing.T) {
	executor := newExecutor(t, routine.NewInvoker(newUserDB(t), testRegistry))

	users := []user{}
	err := executor.Query("GET_USERS").
		Param("cityId", 23).
		ExecuteList(context.Background(), &users)
	require.NoError(t, err)
	assert.Equal(t, []user{{1, "alice", 23}, {2, "bob", 23}}, users)
}

func TestInvoker_One(t *testing.T) {
	executor := newExecutor(t, routine.NewInvoker(newUserDB(t), testRegistry))

	count := 0
	err := executor.Query("COUNT_USERS").ExecuteOne(context.Background(), &count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestInvoker_Exec(t *testing.T) {
	db := newUserDB(t)
	executor := newExecutor(t, routine.NewInvoker(db, testRegistry))

	err := executor.Query("ADD_USER").
		Param("name", "dave").
		Param("cityId", 5).
		Execute(context.Background())
	require.NoError(t, err)

	count := 0
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users WHERE city_id = 5"))
	assert.Equal(t, 2, count)
}

func TestInvoker_NoRow(t *testing.T) {
	executor := newExecutor(t, routine.NewInvoker(newUserDB(t), testRegistry))

	u := user{}
	err := executor.Query("GET_USER").Param("id", 999).ExecuteOne(context.Background(), &u)
	require.NoError(t, err)
	assert.Equal(t, user{}, u)
}

func TestInvoker_UnknownQuery(t *testing.T) {
	executor := newExecutor(t, routine.NewInvoker(newUserDB(t), testRegistry))

	err := executor.Query("NOT_REGISTERED").Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, dynsql.ErrDispatch))
	assert.Contains(t, err.Error(), "NOT_REGISTERED")
}

func TestInvoker_CatalogRouting(t *testing.T) {
	main := newUserDB(t)
	archive := newUserDB(t)
	_, err := archive.Exec("DELETE FROM users WHERE name != 'carol'")
	require.NoError(t, err)

	invoker := routine.NewInvoker(main, testRegistry, routine.WithCatalog("ARCHIVE", archive))
	executor := newExecutor(t, invoker)

	count := 0
	require.NoError(t, executor.Query("COUNT_USERS").ExecuteOne(context.Background(), &count))
	assert.Equal(t, 3, count)

	require.NoError(t, executor.Query("COUNT_USERS").Catalog("ARCHIVE").ExecuteOne(context.Background(), &count))
	assert.Equal(t, 1, count)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := `
GET_USERS: |
  SELECT id, name FROM users WHERE city_id = :cityId
ADD_USER: INSERT INTO users (name) VALUES (:name)
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	registry, err := routine.LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, registry, 2)
	assert.Contains(t, registry["GET_USERS"], "city_id = :cityId")
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := routine.LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
