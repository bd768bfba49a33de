package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus mirrors the active flag of an assignment.
type AssignmentStatus string

const (
	AssignmentActive AssignmentStatus = "active"
	AssignmentEnded  AssignmentStatus = "ended"
)

// EquipmentItem is one piece of gear handed to the rider with the vehicle.
type EquipmentItem struct {
	Item         string `json:"item" bson:"item" validate:"required"`
	Quantity     int    `json:"quantity" bson:"quantity" validate:"gte=0"`
	SerialNumber string `json:"serial_number,omitempty" bson:"serial_number,omitempty"`
}

// Assignment issues a vehicle to a rider for a period of time.
type Assignment struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RiderID         string             `json:"rider_id" bson:"rider_id" validate:"required,mongodb"`
	VehicleID       string             `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	StartDate       time.Time          `json:"start_date" bson:"start_date" validate:"required"`
	EndDate         *time.Time         `json:"end_date,omitempty" bson:"end_date,omitempty"`
	StartOdometer   float64            `json:"start_odometer" bson:"start_odometer" validate:"gte=0"`
	EndOdometer     *float64           `json:"end_odometer,omitempty" bson:"end_odometer,omitempty" validate:"omitempty,gte=0"`
	Active          *bool              `json:"active" bson:"active"`
	Status          AssignmentStatus   `json:"status" bson:"status" validate:"oneof=active ended"`
	IssuedEquipment []EquipmentItem    `json:"issued_equipment,omitempty" bson:"issued_equipment,omitempty" validate:"dive"`
	RiderSignature  string             `json:"rider_signature,omitempty" bson:"rider_signature,omitempty"`
	IssuerSignature string             `json:"issuer_signature,omitempty" bson:"issuer_signature,omitempty"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Audit           `bson:",inline"`
}

// IsActive reports the active flag; an unset flag counts as active.
func (a *Assignment) IsActive() bool {
	return a.Active == nil || *a.Active
}

// ApplyDefaults sets the active flag on a new assignment and derives its
// status.
func (a *Assignment) ApplyDefaults() {
	active := a.IsActive()
	a.Active = &active
	a.DeriveStatus()
}

// DeriveStatus keeps Status in step with the active flag.
func (a *Assignment) DeriveStatus() {
	if a.IsActive() {
		a.Status = AssignmentActive
	} else {
		a.Status = AssignmentEnded
	}
}

// End closes the assignment at the given time. A nil odometer keeps the
// stored end odometer.
func (a *Assignment) End(at time.Time, odometer *float64) {
	inactive := false
	a.Active = &inactive
	a.EndDate = &at
	if odometer != nil {
		a.EndOdometer = odometer
	}
	a.DeriveStatus()
}
