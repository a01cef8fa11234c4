package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/wire"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show every column with its tasks in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.BoardAdapter().Board(commandContext())
			return err
		},
	}
}

// ColumnCmd returns the column command
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Inspect board columns",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List columns ordered by position",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.BoardAdapter().Columns(commandContext())
			return err
		},
	})
	return cmd
}

// commandContext tags CLI requests so service logs attribute writes to the CLI.
func commandContext() context.Context {
	return ctxutil.WithActor(context.Background(), ctxutil.ActorCLI)
}
