package dynsql

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dynsql/go-dynsql/logging"
)

// LogFunc is a function that can be used for logging.
type LogFunc = logging.Func

// LogLevel defines the logging level.
type LogLevel = logging.Level

// Available logging levels.
const (
	LogNone  = logging.None
	LogDebug = logging.Debug
	LogInfo  = logging.Info
	LogWarn  = logging.Warn
	LogError = logging.Error
)

// DefaultLogFunc emits messages of any level to the standard logger.
func DefaultLogFunc(l LogLevel, format string, a ...interface{}) {
	log.Printf(fmt.Sprintf("[%s] dynsql: %s", l.String(), format), a...)
}

// NewLogFunc returns a LogFunc that writes messages at or above the given
// level to w, prefixed with prefix. A nil writer means standard output.
func NewLogFunc(level LogLevel, prefix string, w io.Writer) LogFunc {
	if w == nil {
		w = os.Stdout
	}
	logger := log.New(w, prefix, log.LstdFlags)
	return func(l LogLevel, format string, a ...interface{}) {
		if l < level {
			return
		}
		logger.Printf(fmt.Sprintf("[%s] %s", l.String(), format), a...)
	}
}

// NewLogLevel converts a level name such as "debug" into a LogLevel.
func NewLogLevel(name string) (LogLevel, error) {
	return logging.ParseLevel(name)
}
