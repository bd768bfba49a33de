package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus tracks a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Priority orders tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Task is a follow-up item about a rider and/or a vehicle.
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title" validate:"required"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	RiderID     string             `json:"rider_id,omitempty" bson:"rider_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID   string             `json:"vehicle_id,omitempty" bson:"vehicle_id,omitempty" validate:"omitempty,mongodb"`
	TaskType    string             `json:"task_type" bson:"task_type" validate:"oneof=general maintenance fault_followup insurance documents other"`
	Priority    Priority           `json:"priority" bson:"priority" validate:"oneof=low medium high urgent"`
	Status      TaskStatus         `json:"status" bson:"status" validate:"oneof=pending in_progress completed cancelled"`
	DueDate     *time.Time         `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Assignee    string             `json:"assignee,omitempty" bson:"assignee,omitempty"`
	SourceType  string             `json:"source_type,omitempty" bson:"source_type,omitempty" validate:"omitempty,oneof=fault maintenance insurance"`
	SourceID    string             `json:"source_id,omitempty" bson:"source_id,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Audit       `bson:",inline"`
}

// checkReferences enforces that a task points at a rider, a vehicle or
// both, and that a source type comes with a source id.
func (t *Task) checkReferences() map[string]string {
	fields := map[string]string{}
	if t.RiderID == "" && t.VehicleID == "" {
		fields["rider_id"] = "a task must reference a rider or a vehicle"
		fields["vehicle_id"] = "a task must reference a rider or a vehicle"
	}
	if t.SourceType != "" && t.SourceID == "" {
		fields["source_id"] = "is required when source_type is set"
	}
	return fields
}

// ApplyDefaults fills type, priority and status of a new task.
func (t *Task) ApplyDefaults() {
	if t.TaskType == "" {
		t.TaskType = "general"
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = TaskPending
	}
}
