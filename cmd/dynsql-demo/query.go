package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dynsql/go-dynsql/internal/shell"
)

func newQueryCommand(flags *demoFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query <name> [param=value ...]",
		Short: "Dispatch a registered query and print its rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executor, cleanup, err := newExecutor(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			sh := shell.New(executor, shell.WithFormat("json"))

			result, err := sh.Process(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(result)

			return nil
		},
	}
}

func newExecCommand(flags *demoFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <name> [param=value ...]",
		Short: "Dispatch a registered statement, discarding any result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executor, cleanup, err := newExecutor(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			sh := shell.New(executor)

			_, err = sh.Process(context.Background(), "exec "+strings.Join(args, " "))
			return err
		},
	}
}
