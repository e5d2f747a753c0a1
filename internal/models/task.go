package models

import (
	"database/sql"
	"time"
)

// Task status constants
const (
	TaskStatusTodo       = "Todo"
	TaskStatusInProgress = "InProgress"
	TaskStatusDone       = "Done"
)

// Priority constants
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task is the sqlx row mapping for the tasks table, used by tooling
// that reads the store directly (the migrate command's status report).
type Task struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Priority    string         `db:"priority"`
	Status      string         `db:"status"`
	DueDate     sql.NullTime   `db:"due_date"`
	IsDeleted   bool           `db:"is_deleted"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

// StatusCount is one row of the per-status breakdown reported after
// migrations.
type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}
