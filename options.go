package dynsql

import "github.com/dynsql/go-dynsql/logging"

// Option can be used to tweak executor parameters.
type Option func(*options)

// WithLogFunc sets a custom log function.
func WithLogFunc(log LogFunc) Option {
	return func(options *options) {
		options.Log = log
	}
}

type options struct {
	Log logging.Func
}

// Create an options object with sane defaults.
func defaultOptions() *options {
	return &options{
		Log: DefaultLogFunc,
	}
}
