package dynsql

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// DefaultRoutineName is the routine invoked when no name is configured
// explicitly.
const DefaultRoutineName = "EXECUTE_DYNAMIC_SQL"

// Config holds the parameters of an Executor. It is immutable for the
// lifetime of the Executor it is given to.
type Config struct {
	// RoutineName is the name of the central database routine that all
	// queries are dispatched through. Required.
	RoutineName string `json:"routineName" yaml:"routineName"`

	// DefaultSchema qualifies the routine name on every invocation. Empty
	// means the connection's ambient schema.
	DefaultSchema string `json:"defaultSchema,omitempty" yaml:"defaultSchema,omitempty"`

	// DefaultCatalog is the catalog used by queries that don't override it.
	DefaultCatalog string `json:"defaultCatalog,omitempty" yaml:"defaultCatalog,omitempty"`

	// LogQueries enables logging of query names and parameters before each
	// invocation.
	LogQueries bool `json:"logQueries,omitempty" yaml:"logQueries,omitempty"`
}

// DefaultConfig returns a Config with the default routine name and no
// schema or catalog qualification.
func DefaultConfig() Config {
	return Config{RoutineName: DefaultRoutineName}
}

// Validate checks that the configuration is complete enough to create an
// Executor.
func (c Config) Validate() error {
	if c.RoutineName == "" {
		return errors.Wrap(ErrConfiguration, "routine name must not be empty")
	}
	return nil
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "parse config file %s", path)
	}

	return config, nil
}

// LoadConfigFromEnv builds a Config from DYNSQL_* environment variables,
// loading a .env file first when one is present. Unset variables keep their
// defaults.
func LoadConfigFromEnv() Config {
	// A missing .env file is not an error, the process environment wins.
	_ = godotenv.Load()

	config := DefaultConfig()
	if name := os.Getenv("DYNSQL_ROUTINE_NAME"); name != "" {
		config.RoutineName = name
	}
	if schema := os.Getenv("DYNSQL_DEFAULT_SCHEMA"); schema != "" {
		config.DefaultSchema = schema
	}
	if catalog := os.Getenv("DYNSQL_DEFAULT_CATALOG"); catalog != "" {
		config.DefaultCatalog = catalog
	}
	if v := os.Getenv("DYNSQL_LOG_QUERIES"); v == "true" || v == "1" {
		config.LogQueries = true
	}

	return config
}
