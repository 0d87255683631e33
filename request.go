package dynsql

import "context"

// QueryBuilder accumulates the name, parameters and target catalog of one
// query execution. All mutators return the builder itself for chaining. A
// builder is meant for a single goroutine and a single execution; terminal
// operations after the first fail with ErrBuilderConsumed.
type QueryBuilder struct {
	executor  *Executor
	queryName string
	catalog   string
	params    map[string]interface{}
	consumed  bool
}

// Catalog overrides the target catalog for this query only. The last value
// set before execution wins; the executor configuration is never mutated.
func (b *QueryBuilder) Catalog(name string) *QueryBuilder {
	b.catalog = name
	return b
}

// Param adds a parameter to the query, overwriting any previous value for
// the same name. Nil values and empty strings are accepted and preserved.
func (b *QueryBuilder) Param(name string, value interface{}) *QueryBuilder {
	b.params[name] = value
	return b
}

// Params adds multiple parameters at once, entry by entry with the same
// overwrite semantics as Param. A nil or empty map is a no-op.
func (b *QueryBuilder) Params(params map[string]interface{}) *QueryBuilder {
	for name, value := range params {
		b.params[name] = value
	}
	return b
}

// ExecuteList dispatches the query and scans every result row into dest,
// which must be a pointer to a slice. Rows come back in the order the
// routine produced them.
func (b *QueryBuilder) ExecuteList(ctx context.Context, dest interface{}) error {
	return b.execute(ctx, shapeList, dest)
}

// ExecuteOne dispatches the query and scans at most one result row into
// dest. When the routine returns no row, dest keeps its zero value and no
// error is reported.
func (b *QueryBuilder) ExecuteOne(ctx context.Context, dest interface{}) error {
	return b.execute(ctx, shapeOne, dest)
}

// Execute dispatches the query discarding any result, for operations that
// don't return data.
func (b *QueryBuilder) Execute(ctx context.Context) error {
	return b.execute(ctx, shapeVoid, nil)
}

func (b *QueryBuilder) execute(ctx context.Context, shape resultShape, dest interface{}) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	b.consumed = true

	return b.executor.dispatch(ctx, b.queryName, b.catalog, b.params, shape, dest)
}
