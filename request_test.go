package dynsql_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dynsql "github.com/dynsql/go-dynsql"
)

func newTestExecutor(t *testing.T, config dynsql.Config) (*dynsql.Executor, *fakeInvoker) {
	t.Helper()

	invoker := &fakeInvoker{}
	executor, err := dynsql.NewExecutor(invoker, config, dynsql.WithLogFunc(noLog))
	require.NoError(t, err)

	return executor, invoker
}

func dispatchedParams(t *testing.T, invoker *fakeInvoker) map[string]interface{} {
	t.Helper()

	require.Len(t, invoker.calls, 1)
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(invoker.calls[0].Payload), &payload))
	return payload["params"].(map[string]interface{})
}

func TestQueryBuilder_DefaultCatalog(t *testing.T) {
	config := dynsql.DefaultConfig()
	config.DefaultCatalog = "LOYALTY"
	executor, invoker := newTestExecutor(t, config)

	require.NoError(t, executor.Query("GET_USERS").Execute(context.Background()))
	assert.Equal(t, "LOYALTY", invoker.calls[0].Catalog)
}

func TestQueryBuilder_CatalogOverride(t *testing.T) {
	config := dynsql.DefaultConfig()
	config.DefaultCatalog = "LOYALTY"
	executor, invoker := newTestExecutor(t, config)

	err := executor.Query("GET_USERS").
		Param("a", 1).
		Catalog("REPORTS").
		Params(map[string]interface{}{"b": 2}).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "REPORTS", invoker.calls[0].Catalog)
}

func TestQueryBuilder_LastCatalogWins(t *testing.T) {
	executor, invoker := newTestExecutor(t, dynsql.DefaultConfig())

	err := executor.QueryCatalog("GET_USERS", "FIRST").
		Catalog("SECOND").
		Catalog("THIRD").
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "THIRD", invoker.calls[0].Catalog)
}

func TestQueryBuilder_ParamOverwrite(t *testing.T) {
	executor, invoker := newTestExecutor(t, dynsql.DefaultConfig())

	err := executor.Query("GET_USERS").
		Param("cityId", 1).
		Param("cityId", 23).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"cityId": float64(23)}, dispatchedParams(t, invoker))
}

func TestQueryBuilder_ParamsMerge(t *testing.T) {
	executor, invoker := newTestExecutor(t, dynsql.DefaultConfig())

	err := executor.Query("GET_USERS").
		Params(map[string]interface{}{"a": 1, "b": "old"}).
		Params(map[string]interface{}{"b": "new", "c": nil}).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"a": float64(1),
		"b": "new",
		"c": nil,
	}, dispatchedParams(t, invoker))
}

func TestQueryBuilder_NilParamsIsNoop(t *testing.T) {
	executor, invoker := newTestExecutor(t, dynsql.DefaultConfig())

	err := executor.Query("GET_USERS").
		Param("kept", true).
		Params(nil).
		Params(map[string]interface{}{}).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"kept": true}, dispatchedParams(t, invoker))
}

func TestQueryBuilder_EmptyValues(t *testing.T) {
	executor, invoker := newTestExecutor(t, dynsql.DefaultConfig())

	err := executor.Query("").
		Param("empty", "").
		Param("null", nil).
		Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, invoker.calls[0].Payload, `"queryName":""`)
	assert.Equal(t, map[string]interface{}{"empty": "", "null": nil}, dispatchedParams(t, invoker))
}

func TestQueryBuilder_SingleUse(t *testing.T) {
	executor, invoker := newTestExecutor(t, dynsql.DefaultConfig())

	builder := executor.Query("GET_USERS")
	require.NoError(t, builder.Execute(context.Background()))

	err := builder.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, dynsql.ErrBuilderConsumed))
	assert.Len(t, invoker.calls, 1)
}
