package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage board tasks",
	Long:  "Create, list, show, update, move and delete tasks on the board",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a task at the end of a column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")
		columnID, _ := cmd.Flags().GetInt64("column")

		if columnID == 0 {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			columnID = cfg.Tasks.DefaultColumnID
		}

		_, err := wire.BoardAdapter().Create(ctx, primary.CreateTaskRequest{
			Title:       args[0],
			Description: description,
			ColumnID:    columnID,
			Priority:    priority,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active tasks in board order",
	RunE: func(cmd *cobra.Command, args []string) error {
		columnID, _ := cmd.Flags().GetInt64("column")
		_, err := wire.BoardAdapter().List(commandContext(), columnID)
		return err
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.BoardAdapter().Show(commandContext(), args[0])
		return err
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task's title, description or priority",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := primary.UpdateTaskRequest{TaskID: args[0]}
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			req.Title = &title
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			req.Description = &description
		}
		if cmd.Flags().Changed("priority") {
			priority, _ := cmd.Flags().GetString("priority")
			req.Priority = &priority
		}

		if _, err := wire.BoardAdapter().Update(commandContext(), req); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move [task-id]",
	Short: "Move a task within its column or to another column",
	Long: `Move a task to a column and optionally a 1-based position.

Without --position a task moved to another column is appended, and a task
kept in its own column stays where it is. Positions past the end of the
column are clamped to the end.

Examples:
  taskboard task move DEV-104 --column 2
  taskboard task move DEV-104 --column 2 --position 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		columnID, _ := cmd.Flags().GetInt64("column")
		req := primary.MoveTaskRequest{TaskID: args[0], NewColumnID: columnID}
		if cmd.Flags().Changed("position") {
			pos, _ := cmd.Flags().GetInt("position")
			req.NewPosition = &pos
		}

		if _, err := wire.BoardAdapter().Move(commandContext(), req); err != nil {
			return fmt.Errorf("failed to move task: %w", err)
		}
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task and close the gap it leaves",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := wire.BoardAdapter().Delete(commandContext(), args[0]); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	},
}

func init() {
	// task create flags
	taskCreateCmd.Flags().StringP("description", "d", "", "Task description")
	taskCreateCmd.Flags().StringP("priority", "p", "", "Priority: low, medium (default) or high")
	taskCreateCmd.Flags().Int64P("column", "c", 0, "Column ID (default from config)")

	// task list flags
	taskListCmd.Flags().Int64P("column", "c", 0, "Only list tasks in this column")

	// task update flags
	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().StringP("description", "d", "", "New description")
	taskUpdateCmd.Flags().StringP("priority", "p", "", "New priority: low, medium or high")

	// task move flags
	taskMoveCmd.Flags().Int64P("column", "c", 0, "Target column ID")
	taskMoveCmd.Flags().Int("position", 0, "Target 1-based position")
	_ = taskMoveCmd.MarkFlagRequired("column")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	return taskCmd
}
