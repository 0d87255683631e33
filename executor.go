// Package dynsql dispatches named, pre-registered SQL operations through a
// single central database routine. Callers build a request with a fluent
// builder, and the executor serializes it as a JSON envelope, invokes the
// routine, and maps the result set into caller-supplied values:
//
//	users := []User{}
//	err := executor.Query("GET_USERS_LIST").
//		Param("categoryId", 1).
//		Param("cityId", 23).
//		ExecuteList(ctx, &users)
package dynsql

import (
	"context"
	"errors"

	"github.com/dynsql/go-dynsql/internal/envelope"
	"github.com/dynsql/go-dynsql/internal/rowmap"
	"github.com/dynsql/go-dynsql/logging"
)

// Executor dispatches queries through the central database routine. A single
// Executor holds one configuration and one invocation collaborator for its
// whole lifetime and is safe for concurrent use.
type Executor struct {
	invoker Invoker
	config  Config
	log     logging.Func
}

// NewExecutor creates an Executor using the given invocation collaborator
// and configuration. It fails with ErrConfiguration when the routine name is
// missing; this is checked once here, never per call.
func NewExecutor(invoker Invoker, config Config, options ...Option) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, option := range options {
		option(o)
	}

	executor := &Executor{
		invoker: invoker,
		config:  config,
		log:     o.Log,
	}

	executor.log(logging.Info, "executor initialized - routine: %s, schema: %q",
		config.RoutineName, config.DefaultSchema)

	return executor, nil
}

// Query starts building a query execution. The builder's catalog defaults to
// the configured default catalog.
func (e *Executor) Query(queryName string) *QueryBuilder {
	return e.QueryCatalog(queryName, e.config.DefaultCatalog)
}

// QueryCatalog starts building a query execution targeting the given
// catalog instead of the configured default.
func (e *Executor) QueryCatalog(queryName, catalog string) *QueryBuilder {
	return &QueryBuilder{
		executor:  e,
		queryName: queryName,
		catalog:   catalog,
		params:    map[string]interface{}{},
	}
}

type resultShape int

const (
	shapeList resultShape = iota
	shapeOne
	shapeVoid
)

func (e *Executor) dispatch(ctx context.Context, queryName, catalog string, params map[string]interface{}, shape resultShape, dest interface{}) error {
	payload, err := envelope.Encode(queryName, params)
	if err != nil {
		return errors.Join(ErrSerialization, err)
	}

	e.logQuery(queryName, params, payload)

	rows, err := e.invoker.Invoke(ctx, Call{
		Catalog: catalog,
		Schema:  e.config.DefaultSchema,
		Routine: e.config.RoutineName,
		Payload: payload,
	})
	if err != nil {
		return errors.Join(ErrDispatch, err)
	}
	if rows == nil {
		return nil
	}
	defer rows.Close()

	switch shape {
	case shapeList:
		if err := rowmap.List(rows, dest); err != nil {
			return errors.Join(ErrMapping, err)
		}
	case shapeOne:
		if err := rowmap.One(rows, dest); err != nil {
			return errors.Join(ErrMapping, err)
		}
	case shapeVoid:
		if err := rowmap.Discard(rows); err != nil {
			return errors.Join(ErrDispatch, err)
		}
	}

	return nil
}

func (e *Executor) logQuery(queryName string, params map[string]interface{}, payload string) {
	if !e.config.LogQueries {
		return
	}
	// A panicking log function must not abort the dispatch.
	defer func() {
		_ = recover()
	}()
	e.log(logging.Info, "executing query %s with params %v", queryName, params)
	e.log(logging.Debug, "payload: %s", payload)
}
