package db

import (
	"context"
	"time"

	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RiderFilter selects riders. Empty fields match everything.
type RiderFilter struct {
	RiderStatus      string
	AssignmentStatus string
	Region           string
	Search           string
}

// RiderCollection defines the interface for rider data operations.
type RiderCollection interface {
	InsertRider(ctx context.Context, rider *models.Rider, actor string) error
	FindRiders(ctx context.Context, filter RiderFilter) ([]models.Rider, error)
	FindRiderByID(ctx context.Context, id string) (*models.Rider, error)
	UpdateRider(ctx context.Context, id string, patch []byte, actor string) (*models.Rider, error)
	DeleteRider(ctx context.Context, id string) error
}

// VehicleFilter selects vehicles.
type VehicleFilter struct {
	Status       string
	Manufacturer string
	Search       string
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle *models.Vehicle, actor string) error
	FindVehicles(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, patch []byte, actor string) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
}

// AssignmentFilter selects assignments. A nil Active matches both states.
type AssignmentFilter struct {
	RiderID   string
	VehicleID string
	Active    *bool
}

// EndAssignment carries the optional values recorded when an assignment
// is closed.
type EndAssignment struct {
	EndDate     *time.Time `json:"end_date,omitempty"`
	EndOdometer *float64   `json:"end_odometer,omitempty" validate:"omitempty,gte=0"`
	Notes       string     `json:"notes,omitempty"`
}

// AssignmentCollection defines the interface for assignment data operations.
type AssignmentCollection interface {
	InsertAssignment(ctx context.Context, assignment *models.Assignment, actor string) error
	FindAssignments(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error)
	FindAssignmentByID(ctx context.Context, id string) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, id string, patch []byte, actor string) (*models.Assignment, error)
	EndAssignment(ctx context.Context, id string, end EndAssignment, actor string) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
}

// FaultFilter selects faults.
type FaultFilter struct {
	Status    string
	Severity  string
	RiderID   string
	VehicleID string
	Search    string
}

// FaultCollection defines the interface for fault data operations.
type FaultCollection interface {
	InsertFault(ctx context.Context, fault *models.Fault, actor string) error
	FindFaults(ctx context.Context, filter FaultFilter) ([]models.Fault, error)
	FindFaultByID(ctx context.Context, id string) (*models.Fault, error)
	UpdateFault(ctx context.Context, id string, patch []byte, actor string) (*models.Fault, error)
	DeleteFault(ctx context.Context, id string) error
}

// MaintenanceFilter selects maintenance records.
type MaintenanceFilter struct {
	Status    string
	VehicleID string
	FaultID   string
}

// MaintenanceCollection defines the interface for maintenance data operations.
type MaintenanceCollection interface {
	InsertMaintenance(ctx context.Context, record *models.Maintenance, actor string) error
	FindMaintenance(ctx context.Context, filter MaintenanceFilter) ([]models.Maintenance, error)
	FindMaintenanceByID(ctx context.Context, id string) (*models.Maintenance, error)
	UpdateMaintenance(ctx context.Context, id string, patch []byte, actor string) (*models.Maintenance, error)
	DeleteMaintenance(ctx context.Context, id string) error
}

// MonthlyCheckFilter selects monthly checks. Zero Month or Year match all.
type MonthlyCheckFilter struct {
	Status    string
	RiderID   string
	VehicleID string
	Month     int
	Year      int
}

// MonthlyCheckCollection defines the interface for monthly check data
// operations.
type MonthlyCheckCollection interface {
	InsertMonthlyCheck(ctx context.Context, check *models.MonthlyCheck, actor string) error
	FindMonthlyChecks(ctx context.Context, filter MonthlyCheckFilter) ([]models.MonthlyCheck, error)
	FindMonthlyCheckByID(ctx context.Context, id string) (*models.MonthlyCheck, error)
	UpdateMonthlyCheck(ctx context.Context, id string, patch []byte, actor string) (*models.MonthlyCheck, error)
	DeleteMonthlyCheck(ctx context.Context, id string) error
	FindPendingChecks(ctx context.Context, now time.Time) ([]models.MonthlyCheck, error)
	MarkCheckOverdue(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// TaskFilter selects tasks.
type TaskFilter struct {
	Status    string
	Priority  string
	Assignee  string
	RiderID   string
	VehicleID string
}

// TaskCollection defines the interface for task data operations.
type TaskCollection interface {
	InsertTask(ctx context.Context, task *models.Task, actor string) error
	FindTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	FindTaskByID(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch []byte, actor string) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
