package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RiderStatus is the employment state of a rider.
type RiderStatus string

const (
	RiderActive     RiderStatus = "active"
	RiderInactive   RiderStatus = "inactive"
	RiderSuspended  RiderStatus = "suspended"
	RiderTerminated RiderStatus = "terminated"
)

// RiderAssignmentStatus tells whether a rider currently holds a vehicle.
type RiderAssignmentStatus string

const (
	RiderAssigned   RiderAssignmentStatus = "assigned"
	RiderUnassigned RiderAssignmentStatus = "unassigned"
)

// Rider represents a delivery rider.
type Rider struct {
	ID               primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	FirstName        string                `json:"first_name" bson:"first_name" validate:"required"`
	LastName         string                `json:"last_name" bson:"last_name" validate:"required"`
	IDNumber         string                `json:"id_number" bson:"id_number" validate:"required"`
	Phone            string                `json:"phone" bson:"phone" validate:"required"`
	Email            string                `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Region           string                `json:"region,omitempty" bson:"region,omitempty"`
	Address          string                `json:"address,omitempty" bson:"address,omitempty"`
	LicenseNumber    string                `json:"license_number,omitempty" bson:"license_number,omitempty"`
	LicenseExpiry    *time.Time            `json:"license_expiry,omitempty" bson:"license_expiry,omitempty"`
	RiderStatus      RiderStatus           `json:"rider_status" bson:"rider_status" validate:"oneof=active inactive suspended terminated"`
	AssignmentStatus RiderAssignmentStatus `json:"assignment_status" bson:"assignment_status" validate:"oneof=assigned unassigned"`
	Notes            string                `json:"notes,omitempty" bson:"notes,omitempty"`
	Audit            `bson:",inline"`
}

// ApplyDefaults fills the status fields a new rider starts with.
func (r *Rider) ApplyDefaults() {
	if r.RiderStatus == "" {
		r.RiderStatus = RiderActive
	}
	if r.AssignmentStatus == "" {
		r.AssignmentStatus = RiderUnassigned
	}
}

// MatchesSearch reports whether term occurs in the rider's names
// (case-insensitive), ID number or phone.
func (r Rider) MatchesSearch(term string) bool {
	return containsFold(r.FirstName, term) ||
		containsFold(r.LastName, term) ||
		strings.Contains(r.IDNumber, term) ||
		strings.Contains(r.Phone, term)
}
