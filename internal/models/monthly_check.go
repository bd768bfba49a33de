package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckStatus is the state of a monthly vehicle check.
type CheckStatus string

const (
	CheckPending   CheckStatus = "pending"
	CheckCompleted CheckStatus = "completed"
	CheckOverdue   CheckStatus = "overdue"
	CheckExempted  CheckStatus = "exempted"
)

// OverdueGraceDays is how many whole days a check may stay pending.
const OverdueGraceDays = 7

// CheckItem is one line of the monthly checklist.
type CheckItem struct {
	Name   string `json:"name" bson:"name" validate:"required"`
	Status string `json:"status" bson:"status" validate:"oneof=ok needs_attention faulty not_checked"`
	Notes  string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// MonthlyCheck is the monthly inspection of a vehicle held by a rider.
type MonthlyCheck struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RiderID       string             `json:"rider_id" bson:"rider_id" validate:"required,mongodb"`
	VehicleID     string             `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	Month         int                `json:"month" bson:"month" validate:"required,min=1,max=12"`
	Year          int                `json:"year" bson:"year" validate:"required,min=2000,max=2100"`
	CheckDate     *time.Time         `json:"check_date,omitempty" bson:"check_date,omitempty"`
	Items         []CheckItem        `json:"items,omitempty" bson:"items,omitempty" validate:"dive"`
	IsOperational bool               `json:"is_operational" bson:"is_operational"`
	Status        CheckStatus        `json:"status" bson:"status" validate:"oneof=pending completed overdue exempted"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	FaultID       string             `json:"fault_id,omitempty" bson:"fault_id,omitempty" validate:"omitempty,mongodb"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Audit         `bson:",inline"`
}

// ApplyDefaults fills the status a new check starts with.
func (c *MonthlyCheck) ApplyDefaults() {
	if c.Status == "" {
		c.Status = CheckPending
	}
	for i := range c.Items {
		if c.Items[i].Status == "" {
			c.Items[i].Status = "not_checked"
		}
	}
}

// ReferenceDate is the date the grace period counts from: the explicit
// check date when set, otherwise the first day of the check's month.
func (c *MonthlyCheck) ReferenceDate() time.Time {
	if c.CheckDate != nil {
		return *c.CheckDate
	}
	return time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC)
}

// OverdueCutoff is the latest reference date a check can have and still
// be overdue at now.
func OverdueCutoff(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -OverdueGraceDays)
}

// IsOverdue reports whether a pending check has exceeded its grace period
// at now.
func (c *MonthlyCheck) IsOverdue(now time.Time) bool {
	if c.Status != CheckPending {
		return false
	}
	days := int(now.Sub(c.ReferenceDate()).Hours() / 24)
	return days > OverdueGraceDays
}

// EvaluateOverdue moves the check to overdue when IsOverdue holds and
// reports whether it did.
func EvaluateOverdue(c *MonthlyCheck, now time.Time) bool {
	if !c.IsOverdue(now) {
		return false
	}
	c.Status = CheckOverdue
	return true
}
