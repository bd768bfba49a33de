package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceStatus tracks a service visit.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

// Maintenance represents a vehicle maintenance record.
type Maintenance struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SequenceNumber   string             `json:"sequence_number" bson:"sequence_number,omitempty"`
	VehicleID        string             `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	MaintenanceType  string             `json:"maintenance_type" bson:"maintenance_type" validate:"required,oneof=routine repair inspection tires accident other"`
	ServiceDate      time.Time          `json:"service_date" bson:"service_date" validate:"required"`
	Odometer         float64            `json:"odometer" bson:"odometer" validate:"gte=0"` // in kilometers
	LaborCost        float64            `json:"labor_cost" bson:"labor_cost" validate:"gte=0"`
	PartsCost        float64            `json:"parts_cost" bson:"parts_cost" validate:"gte=0"`
	OtherCost        float64            `json:"other_cost" bson:"other_cost" validate:"gte=0"`
	TotalCost        float64            `json:"total_cost" bson:"total_cost"`
	Garage           string             `json:"garage,omitempty" bson:"garage,omitempty"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	Status           MaintenanceStatus  `json:"status" bson:"status" validate:"oneof=scheduled in_progress completed cancelled"`
	FaultID          string             `json:"fault_id,omitempty" bson:"fault_id,omitempty" validate:"omitempty,mongodb"`
	InsuranceClaimID string             `json:"insurance_claim_id,omitempty" bson:"insurance_claim_id,omitempty"`
	Notes            string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Audit            `bson:",inline"`
}

// ApplyDefaults fills the status a new maintenance record starts with.
func (m *Maintenance) ApplyDefaults() {
	if m.Status == "" {
		m.Status = MaintenanceScheduled
	}
}

// RecomputeTotal sets TotalCost to the sum of its three components.
func (m *Maintenance) RecomputeTotal() {
	m.TotalCost = m.LaborCost + m.PartsCost + m.OtherCost
}
