package main

import (
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/mattn/go-sqlite3"

	dynsql "github.com/dynsql/go-dynsql"
	"github.com/dynsql/go-dynsql/routine"
)

type demoFlags struct {
	dsn      string
	driver   string
	config   string
	registry string
	verbose  bool
}

func main() {
	flags := &demoFlags{}

	cmd := &cobra.Command{
		Use:   "dynsql-demo",
		Short: "Demo application dispatching queries through a central routine",
		Long: `This demo emulates the central routine in-process: a YAML registry maps
query names to named-parameter SQL statements executed on a plain database.

Complete documentation is available at https://github.com/dynsql/go-dynsql`,
	}

	persistent := cmd.PersistentFlags()
	persistent.StringVarP(&flags.dsn, "dsn", "D", "demo.db", "database DSN")
	persistent.StringVarP(&flags.driver, "driver", "d", "sqlite3", "database driver (sqlite3 or sqlserver)")
	persistent.StringVarP(&flags.config, "config", "c", "", "executor config YAML file")
	persistent.StringVarP(&flags.registry, "registry", "r", "registry.yaml", "query registry YAML file")
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newInitCommand(flags))
	cmd.AddCommand(newQueryCommand(flags))
	cmd.AddCommand(newExecCommand(flags))
	cmd.AddCommand(newServeCommand(flags))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newExecutor wires the demo executor: config from file or environment, a
// registry-backed invoker, and query logging when verbose.
func newExecutor(flags *demoFlags) (*dynsql.Executor, func(), error) {
	cfg := dynsql.LoadConfigFromEnv()
	if flags.config != "" {
		loaded, err := dynsql.LoadConfig(flags.config)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	cfg.LogQueries = cfg.LogQueries || flags.verbose

	statements, err := routine.LoadRegistry(flags.registry)
	if err != nil {
		return nil, nil, err
	}

	db, err := sqlx.Open(flags.driver, flags.dsn)
	if err != nil {
		return nil, nil, err
	}

	executor, err := dynsql.NewExecutor(routine.NewInvoker(db, statements), cfg)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return executor, func() { db.Close() }, nil
}
