package models

import (
	"fmt"
	"slices"

	"github.com/ukydev/fleet-crm/internal/apperr"
)

func canTransition[S ~string](table map[S][]S, from, to S) bool {
	if from == "" || from == to {
		return true
	}
	return slices.Contains(table[from], to)
}

func checkTransition[S ~string](entity string, table map[S][]S, from, to S) error {
	if canTransition(table, from, to) {
		return nil
	}
	return apperr.Validation("invalid status transition", map[string]string{
		"status": fmt.Sprintf("%s cannot move from %q to %q", entity, from, to),
	})
}

var monthlyCheckTransitions = map[CheckStatus][]CheckStatus{
	CheckPending: {CheckCompleted, CheckOverdue, CheckExempted},
	CheckOverdue: {CheckCompleted, CheckExempted},
}

var faultTransitions = map[FaultStatus][]FaultStatus{
	FaultOpen:       {FaultInProgress, FaultResolved, FaultClosed},
	FaultInProgress: {FaultOpen, FaultResolved, FaultClosed},
	FaultResolved:   {FaultClosed, FaultOpen},
	FaultClosed:     {FaultOpen},
}

var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceScheduled:  {MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled},
	MaintenanceInProgress: {MaintenanceCompleted, MaintenanceCancelled},
}

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskInProgress, TaskCompleted, TaskCancelled},
	TaskInProgress: {TaskPending, TaskCompleted, TaskCancelled},
}

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentActive: {AssignmentEnded},
}

// CheckTransition validates a monthly check status change.
func (s CheckStatus) CheckTransition(next CheckStatus) error {
	return checkTransition("monthly check", monthlyCheckTransitions, s, next)
}

// CheckTransition validates a fault status change.
func (s FaultStatus) CheckTransition(next FaultStatus) error {
	return checkTransition("fault", faultTransitions, s, next)
}

// CheckTransition validates a maintenance status change.
func (s MaintenanceStatus) CheckTransition(next MaintenanceStatus) error {
	return checkTransition("maintenance", maintenanceTransitions, s, next)
}

// CheckTransition validates a task status change.
func (s TaskStatus) CheckTransition(next TaskStatus) error {
	return checkTransition("task", taskTransitions, s, next)
}

// CheckTransition validates an assignment status change.
func (s AssignmentStatus) CheckTransition(next AssignmentStatus) error {
	return checkTransition("assignment", assignmentTransitions, s, next)
}
