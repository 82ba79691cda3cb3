// Package sample is a small Task/Project application implementing the command, query
// and subscription ports of the web module. It keeps entity state in memory per tenant.
package sample

import (
	"firebase-web/internal/web/domain/model"
)

// Entity types.
const (
	TypeTask    = "Task"
	TypeProject = "Project"
)

// Command types.
const (
	CommandCreateTask    = "CreateTask"
	CommandRenameTask    = "RenameTask"
	CommandCreateProject = "CreateProject"
)

// Event names carried by EntityStateChanged.
const (
	EventTaskCreated    = "TaskCreated"
	EventTaskRenamed    = "TaskRenamed"
	EventProjectCreated = "ProjectCreated"
)

// Error and rejection types reported in acks.
const (
	ErrorTypeDuplicateEntity = "DuplicateEntity"
	RejectionTaskNotFound    = "TaskNotFound"

	errorCodeDuplicateEntity = 1
)

// Task is the state of a task aggregate.
type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is the state of a project aggregate.
type Project struct {
	ID string `json:"id"`
}

// CreateTask creates a task.
type CreateTask struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RenameTask changes the name of an existing task.
type RenameTask struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateProject creates a project.
type CreateProject struct {
	ID string `json:"id"`
}

// EntityStateChanged is published on the event bus after an entity was created or updated.
type EntityStateChanged struct {
	Tenant model.TenantID
	Event  string
	Entity model.EntityState
}
