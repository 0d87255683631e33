package logging

import "fmt"

// Func is a function that can be used for logging.
type Func func(l Level, format string, a ...interface{})

// Level defines the logging level.
type Level int

// Available logging levels.
const (
	None Level = iota
	Debug
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name such as "debug" or "ERROR" into a Level.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "none", "NONE":
		return None, nil
	case "debug", "DEBUG":
		return Debug, nil
	case "info", "INFO":
		return Info, nil
	case "warn", "WARN":
		return Warn, nil
	case "error", "ERROR":
		return Error, nil
	default:
		return None, fmt.Errorf("unknown log level %q", name)
	}
}
