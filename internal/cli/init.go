package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the taskboard config and database",
		Long: `Write the config file (when missing) and create the database with the
default columns: To Do, In Progress, Review and Done.

--demo also loads a handful of sample tasks into an empty board.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext()
			cfg, err := wire.Config()
			if err != nil {
				return err
			}

			path := wire.ConfigPath()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := cfg.Save(path); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", path)
			}

			fmt.Printf("Initializing %s database at %s\n", cfg.Database.Driver, cfg.Database.DSN)
			if err := wire.Init(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Println("✓ Database initialized successfully")

			if demo {
				database, dialect := wire.Database()
				if err := db.SeedFixtures(ctx, database, dialect, cfg.Tasks.IDPrefix); err != nil {
					return fmt.Errorf("failed to load demo tasks: %w", err)
				}
				fmt.Println("✓ Demo tasks loaded")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println(`  taskboard task create "My first task"`)
			fmt.Println("  taskboard board")
			fmt.Println("  taskboard serve")
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Load sample tasks")
	return cmd
}
