package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/mattn/go-sqlite3"

	dynsql "github.com/dynsql/go-dynsql"
	"github.com/dynsql/go-dynsql/internal/shell"
	"github.com/dynsql/go-dynsql/routine"
)

func main() {
	var config string
	var registry string
	var driver string
	var format string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "dynsql <dsn>",
		Short: "Interactive shell for dispatching registered queries",
		Long: `Opens a database and dispatches queries through the central routine.

With --registry the routine is emulated in-process from a YAML file of named
statements, so any plain database works. Without it the configured routine is
invoked server-side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := dynsql.LoadConfigFromEnv()
			if config != "" {
				loaded, err := dynsql.LoadConfig(config)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			db, err := sqlx.Open(driver, args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			var invoker dynsql.Invoker
			if registry != "" {
				statements, err := routine.LoadRegistry(registry)
				if err != nil {
					return err
				}
				invoker = routine.NewInvoker(db, statements)
			} else {
				dbInvoker := dynsql.NewDBInvoker(db)
				if err := dbInvoker.WaitReady(context.Background()); err != nil {
					return err
				}
				invoker = dbInvoker
			}

			logFunc := func(l dynsql.LogLevel, format string, a ...interface{}) {
				if !verbose {
					return
				}
				dynsql.DefaultLogFunc(l, format, a...)
			}

			executor, err := dynsql.NewExecutor(invoker, cfg, dynsql.WithLogFunc(logFunc))
			if err != nil {
				return err
			}

			sh := shell.New(executor, shell.WithFormat(format))

			line := liner.NewLiner()
			defer line.Close()

			for {
				input, err := line.Prompt("dynsql> ")
				if err != nil {
					if err == io.EOF {
						break
					}
					return err
				}

				result, err := sh.Process(context.Background(), input)
				if err != nil {
					fmt.Println("Error: ", err)
				} else if result != "" {
					fmt.Println(result)
					line.AppendHistory(input)
				}
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&config, "config", "c", "", "executor config YAML file")
	flags.StringVarP(&registry, "registry", "r", "", "query registry YAML file (emulate the routine in-process)")
	flags.StringVarP(&driver, "driver", "d", "sqlite3", "database driver (sqlite3 or sqlserver)")
	flags.StringVarP(&format, "format", "f", "tabular", "output format (tabular or json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
