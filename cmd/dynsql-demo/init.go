package main

import (
	"fmt"

	"github.com/spf13/cobra"

	dynsql "github.com/dynsql/go-dynsql"
)

func newInitCommand(flags *demoFlags) *cobra.Command {
	var routineName string
	var schema string
	var catalog string
	var logQueries bool

	cmd := &cobra.Command{
		Use:   "init <config-file>",
		Short: "Write an executor config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := dynsql.NewYamlConfigStore(args[0])
			if err != nil {
				return err
			}

			config := store.Get()
			if routineName != "" {
				config.RoutineName = routineName
			}
			if schema != "" {
				config.DefaultSchema = schema
			}
			if catalog != "" {
				config.DefaultCatalog = catalog
			}
			config.LogQueries = logQueries

			if err := config.Validate(); err != nil {
				return err
			}
			if err := store.Set(config); err != nil {
				return err
			}

			fmt.Printf("wrote %s (routine %s)\n", args[0], config.RoutineName)
			return nil
		},
	}

	cmd.Flags().StringVar(&routineName, "routine", "", "routine name (default "+dynsql.DefaultRoutineName+")")
	cmd.Flags().StringVar(&schema, "schema", "", "default schema")
	cmd.Flags().StringVar(&catalog, "catalog", "", "default catalog")
	cmd.Flags().BoolVar(&logQueries, "log-queries", false, "log query names and parameters")

	return cmd
}
