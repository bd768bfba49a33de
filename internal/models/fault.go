package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FaultStatus tracks a fault from report to closure.
type FaultStatus string

const (
	FaultOpen       FaultStatus = "open"
	FaultInProgress FaultStatus = "in_progress"
	FaultResolved   FaultStatus = "resolved"
	FaultClosed     FaultStatus = "closed"
)

// Severity grades how urgent a fault is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Fault is a defect reported on a vehicle.
type Fault struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SequenceNumber string             `json:"sequence_number" bson:"sequence_number,omitempty"`
	VehicleID      string             `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	RiderID        string             `json:"rider_id,omitempty" bson:"rider_id,omitempty" validate:"omitempty,mongodb"`
	FaultType      string             `json:"fault_type" bson:"fault_type" validate:"required,oneof=mechanical electrical tires brakes accident body other"`
	Severity       Severity           `json:"severity" bson:"severity" validate:"required,oneof=low medium high critical"`
	Description    string             `json:"description" bson:"description" validate:"required"`
	IsOperational  bool               `json:"is_operational" bson:"is_operational"`
	Status         FaultStatus        `json:"status" bson:"status" validate:"oneof=open in_progress resolved closed"`
	ReportedAt     *time.Time         `json:"reported_at,omitempty" bson:"reported_at,omitempty"`
	MaintenanceID  string             `json:"maintenance_id,omitempty" bson:"maintenance_id,omitempty" validate:"omitempty,mongodb"`
	ResolvedAt     *time.Time         `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	Notes          string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Audit          `bson:",inline"`
}

// ApplyDefaults fills the status and report time of a new fault.
func (f *Fault) ApplyDefaults(now time.Time) {
	if f.Status == "" {
		f.Status = FaultOpen
	}
	if f.ReportedAt == nil {
		f.ReportedAt = &now
	}
}

// MatchesSearch reports whether term occurs in the sequence number or the
// description, ignoring case.
func (f Fault) MatchesSearch(term string) bool {
	return containsFold(f.SequenceNumber, term) || containsFold(f.Description, term)
}
