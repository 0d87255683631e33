// Package routine provides an in-process implementation of the central
// routine contract, backed by a registry of named SQL statements. It lets
// the executor run against databases that have no server-side routine
// installed: the envelope is decoded locally and its parameters are bound to
// the registered statement for the requested query name.
package routine

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	dynsql "github.com/dynsql/go-dynsql"
	"github.com/dynsql/go-dynsql/internal/envelope"
)

// Registry maps query names to named-parameter SQL statements, e.g.
//
//	GET_USERS_LIST: SELECT id, name FROM users WHERE city_id = :cityId
type Registry map[string]string

// Invoker interprets routine calls against a registry of named statements.
// It implements dynsql.Invoker.
type Invoker struct {
	db       *sqlx.DB
	registry Registry
	catalogs map[string]*sqlx.DB
}

// Option can be used to tweak invoker parameters.
type Option func(*Invoker)

// WithCatalog routes calls targeting the given catalog name to a separate
// database handle. Calls with an empty or unknown catalog use the default
// handle.
func WithCatalog(name string, db *sqlx.DB) Option {
	return func(invoker *Invoker) {
		invoker.catalogs[name] = db
	}
}

// NewInvoker creates an Invoker executing registered statements on the
// given database handle. Handles are borrowed, not owned.
func NewInvoker(db *sqlx.DB, registry Registry, options ...Option) *Invoker {
	invoker := &Invoker{
		db:       db,
		registry: registry,
		catalogs: map[string]*sqlx.DB{},
	}

	for _, option := range options {
		option(invoker)
	}

	return invoker
}

// Invoke decodes the call's envelope, looks up the statement registered for
// its query name, and executes it with the envelope parameters bound by
// name.
func (i *Invoker) Invoke(ctx context.Context, call dynsql.Call) (*sqlx.Rows, error) {
	e, err := envelope.Decode(call.Payload)
	if err != nil {
		return nil, err
	}

	statement, ok := i.registry[e.QueryName]
	if !ok {
		return nil, errors.Errorf("no statement registered for query %q", e.QueryName)
	}

	db := i.db
	if call.Catalog != "" {
		if catalogDB, ok := i.catalogs[call.Catalog]; ok {
			db = catalogDB
		}
	}

	rows, err := db.NamedQueryContext(ctx, statement, e.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "execute query %q", e.QueryName)
	}

	return rows, nil
}
