package dynsql

import "errors"

var (
	// ErrConfiguration means the executor was created with an invalid or
	// incomplete configuration.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrSerialization means a parameter value could not be encoded into
	// the routine payload.
	ErrSerialization = errors.New("cannot serialize payload")

	// ErrDispatch means the underlying routine invocation failed.
	ErrDispatch = errors.New("routine invocation failed")

	// ErrMapping means the routine result could not be converted into the
	// requested destination type.
	ErrMapping = errors.New("cannot map result")

	// ErrBuilderConsumed means a query builder was executed more than once.
	ErrBuilderConsumed = errors.New("query builder already executed")
)
