package models

import "time"

// Column represents a board column. Columns are seeded, never created by callers.
type Column struct {
	ID        int64
	Name      string
	Position  int
	Color     string
	CreatedAt time.Time
}

// DefaultColumns is the column set a fresh board starts with.
var DefaultColumns = []Column{
	{ID: 1, Name: "To Do", Position: 1, Color: "#6b7280"},
	{ID: 2, Name: "In Progress", Position: 2, Color: "#3b82f6"},
	{ID: 3, Name: "Review", Position: 3, Color: "#f59e0b"},
	{ID: 4, Name: "Done", Position: 4, Color: "#10b981"},
}
