// Package models contains domain types for taskboard entities.
// SQL persistence lives in internal/adapters/sqlstore.
package models

import "time"

// Task represents a task entity.
// This is the domain type used within the models package.
// For persistence, use the repository interfaces in ports/secondary.
type Task struct {
	ID          int64
	TaskID      string
	Title       string
	Description string
	ColumnID    int64
	Position    int
	Priority    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Task status constants
const (
	TaskStatusActive   = "active"
	TaskStatusArchived = "archived"
)

// Task priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultPriority is applied when a task is created without one.
const DefaultPriority = PriorityMedium

// ValidPriority reports whether p is one of the accepted priority values.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
