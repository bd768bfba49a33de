package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleStatus is the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleAvailable    VehicleStatus = "available"
	VehicleAssigned     VehicleStatus = "assigned"
	VehicleMaintenance  VehicleStatus = "maintenance"
	VehicleOutOfService VehicleStatus = "out_of_service"
	VehicleRetired      VehicleStatus = "retired"
)

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	LicensePlate    string             `json:"license_plate" bson:"license_plate" validate:"required"`
	InternalNumber  string             `json:"internal_number,omitempty" bson:"internal_number,omitempty"`
	Manufacturer    string             `json:"manufacturer" bson:"manufacturer" validate:"required"`
	Model           string             `json:"model" bson:"model" validate:"required"`
	Year            int                `json:"year,omitempty" bson:"year,omitempty" validate:"omitempty,min=1950,max=2100"`
	Color           string             `json:"color,omitempty" bson:"color,omitempty"`
	VIN             string             `json:"vin,omitempty" bson:"vin,omitempty"`
	Status          VehicleStatus      `json:"status" bson:"status" validate:"oneof=available assigned maintenance out_of_service retired"`
	InsuranceExpiry *time.Time         `json:"insurance_expiry,omitempty" bson:"insurance_expiry,omitempty"`
	LicenseExpiry   *time.Time         `json:"license_expiry,omitempty" bson:"license_expiry,omitempty"`
	CurrentOdometer float64            `json:"current_odometer,omitempty" bson:"current_odometer,omitempty" validate:"gte=0"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Audit           `bson:",inline"`
}

// ApplyDefaults fills the status a new vehicle starts with.
func (v *Vehicle) ApplyDefaults() {
	if v.Status == "" {
		v.Status = VehicleAvailable
	}
}

// MatchesSearch reports whether term occurs in the plate, internal number,
// manufacturer or model, ignoring case.
func (v Vehicle) MatchesSearch(term string) bool {
	return containsFold(v.LicensePlate, term) ||
		containsFold(v.InternalNumber, term) ||
		containsFold(v.Manufacturer, term) ||
		containsFold(v.Model, term)
}
