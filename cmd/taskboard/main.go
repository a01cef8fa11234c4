package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/cli"
	"github.com/example/taskboard/internal/version"
	"github.com/example/taskboard/internal/wire"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "taskboard",
		Short:   "Kanban task board with REST and MCP front ends",
		Version: version.String(),
		Long: `taskboard keeps a Kanban board of tasks in fixed columns. Tasks are ordered
1..N inside each column and addressed by labels such as DEV-101.

The same board is served to people (CLI, web UI, REST) and to agents (MCP).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetConfigPath(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.taskboard/config.yaml)")

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	// Board
	rootCmd.AddCommand(cli.BoardCmd())
	rootCmd.AddCommand(cli.ColumnCmd())
	rootCmd.AddCommand(cli.TaskCmd())

	// Servers
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.MCPCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		wire.Close()
		os.Exit(1)
	}
	wire.Close()
}
