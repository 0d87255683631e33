package dynsql

import (
	"context"
	"strings"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Call describes a single invocation of the central routine.
type Call struct {
	// Catalog is the target catalog, or empty for the connection default.
	Catalog string

	// Schema is the target schema, or empty for the connection default.
	Schema string

	// Routine is the name of the routine to invoke.
	Routine string

	// Payload is the encoded envelope, passed as the routine's single
	// input parameter.
	Payload string
}

// Invoker is the collaborator that executes routine calls against a
// database. Implementations must return the routine's result set, or nil
// when the routine produces no rows.
type Invoker interface {
	Invoke(ctx context.Context, call Call) (*sqlx.Rows, error)
}

// CallStyle selects the SQL statement shape used to invoke the routine.
type CallStyle int

const (
	// CallTableFunction invokes the routine as a table-valued function:
	// SELECT * FROM routine(?). This is the default.
	CallTableFunction CallStyle = iota

	// CallScalarFunction invokes the routine as a scalar function:
	// SELECT routine(?).
	CallScalarFunction

	// CallProcedure invokes the routine as a procedure: CALL routine(?).
	CallProcedure
)

// DBInvoker is the default Invoker, executing routine calls over a live
// database handle. It performs no pooling, retrying or transaction
// management of its own; the handle's settings apply.
type DBInvoker struct {
	db            *sqlx.DB
	style         CallStyle
	retryLimit    uint
	backoffFactor time.Duration
	backoffCap    time.Duration
}

// InvokerOption can be used to tweak invoker parameters.
type InvokerOption func(*DBInvoker)

// WithCallStyle sets the statement shape used to invoke the routine. The
// default is CallTableFunction.
func WithCallStyle(style CallStyle) InvokerOption {
	return func(invoker *DBInvoker) {
		invoker.style = style
	}
}

// WithReadyRetryLimit sets the maximum number of ping retries performed by
// WaitReady, or 0 for unlimited.
func WithReadyRetryLimit(limit uint) InvokerOption {
	return func(invoker *DBInvoker) {
		invoker.retryLimit = limit
	}
}

// WithReadyBackoff sets the exponential backoff factor and cap used between
// WaitReady ping attempts.
func WithReadyBackoff(factor, cap time.Duration) InvokerOption {
	return func(invoker *DBInvoker) {
		invoker.backoffFactor = factor
		invoker.backoffCap = cap
	}
}

// NewDBInvoker creates an Invoker executing routine calls on the given
// database handle. The handle is borrowed, not owned: closing it is the
// caller's responsibility.
func NewDBInvoker(db *sqlx.DB, options ...InvokerOption) *DBInvoker {
	invoker := &DBInvoker{
		db:            db,
		style:         CallTableFunction,
		retryLimit:    6,
		backoffFactor: 50 * time.Millisecond,
		backoffCap:    time.Second,
	}

	for _, option := range options {
		option(invoker)
	}

	return invoker
}

// Invoke executes the routine call and returns its result set.
func (i *DBInvoker) Invoke(ctx context.Context, call Call) (*sqlx.Rows, error) {
	statement := i.db.Rebind(callStatement(i.style, qualifiedName(call)))

	rows, err := i.db.QueryxContext(ctx, statement, call.Payload)
	if err != nil {
		return nil, errors.Wrapf(err, "invoke routine %q", call.Routine)
	}

	return rows, nil
}

// WaitReady pings the database until it responds or the context expires,
// backing off between attempts. It is meant for process startup, before the
// first dispatch.
func (i *DBInvoker) WaitReady(ctx context.Context) error {
	err := retry.Retry(func(attempt uint) error {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				// Stop retrying
				return nil
			default:
			}
		}
		return i.db.PingContext(ctx)
	}, i.retryStrategies()...)

	if err != nil {
		return errors.Wrap(err, "database not ready")
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "database not ready")
	}

	return nil
}

func (i *DBInvoker) retryStrategies() (strategies []strategy.Strategy) {
	limit, factor, cap := i.retryLimit, i.backoffFactor, i.backoffCap
	// Fix for change in behavior: https://github.com/Rican7/retry/pull/12
	if limit++; limit > 1 {
		strategies = append(strategies, strategy.Limit(limit))
	}
	backoffFunc := backoff.BinaryExponential(factor)
	strategies = append(strategies,
		func(attempt uint) bool {
			if attempt > 0 {
				duration := backoffFunc(attempt)
				// Duration might be negative in case of integer overflow.
				if !(0 < duration && duration <= cap) {
					duration = cap
				}
				time.Sleep(duration)
			}
			return true
		},
	)
	return
}

// qualifiedName joins the non-empty catalog, schema and routine parts of a
// call. Empty parts are omitted entirely so the connection's ambient
// namespace applies.
func qualifiedName(call Call) string {
	parts := make([]string, 0, 3)
	if call.Catalog != "" {
		parts = append(parts, call.Catalog)
	}
	if call.Schema != "" {
		parts = append(parts, call.Schema)
	}
	parts = append(parts, call.Routine)
	return strings.Join(parts, ".")
}

func callStatement(style CallStyle, name string) string {
	switch style {
	case CallScalarFunction:
		return "SELECT " + name + "(?)"
	case CallProcedure:
		return "CALL " + name + "(?)"
	default:
		return "SELECT * FROM " + name + "(?)"
	}
}
