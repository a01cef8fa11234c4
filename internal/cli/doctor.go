package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/wire"
)

// DoctorCmd returns the doctor command for board validation
func DoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that every column is ordered 1..N",
		Long: `Check the store and the ordering of every column.

A healthy column holds its active tasks at positions 1..N with no gaps and
no duplicates. --fix renumbers broken columns, keeping their current order.

Examples:
  taskboard doctor         # report only
  taskboard doctor --fix   # renumber broken columns`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext()
			if err := wire.Init(); err != nil {
				return err
			}

			database, dialect := wire.Database()
			if err := database.PingContext(ctx); err != nil {
				return fmt.Errorf("store unreachable: %w", err)
			}
			fmt.Printf("✓ %s store reachable\n", dialect)

			_, err := wire.BoardAdapter().Doctor(ctx, fix)
			return err
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Renumber broken columns")
	return cmd
}
