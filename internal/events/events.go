// Package events provides event types and utilities for the Taskdeck event system.
package events

// Event types for boards
const (
	BoardCreated = "board.created"
	BoardUpdated = "board.updated"
	BoardDeleted = "board.deleted"
)

// Event types for columns
const (
	ColumnCreated = "column.created"
	ColumnUpdated = "column.updated"
	ColumnDeleted = "column.deleted"
)

// Event types for tasks
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// Event types for subtasks
const (
	SubtaskCreated = "subtask.created"
	SubtaskUpdated = "subtask.updated"
	SubtaskDeleted = "subtask.deleted"
)

// Event types for users
const (
	UserRegistered = "user.registered"
)

// AllSubjects matches every entity lifecycle event.
const AllSubjects = "*.*"
