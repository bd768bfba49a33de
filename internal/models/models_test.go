package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-crm/internal/apperr"
)

const (
	riderHex   = "507f1f77bcf86cd799439011"
	vehicleHex = "507f1f77bcf86cd799439012"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected an AppError, got %T", err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	return appErr.Fields
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		record  any
		missing []string
	}{
		{"rider", &Rider{RiderStatus: RiderActive, AssignmentStatus: RiderUnassigned}, []string{"first_name", "last_name", "id_number", "phone"}},
		{"vehicle", &Vehicle{Status: VehicleAvailable}, []string{"license_plate", "manufacturer", "model"}},
		{"assignment", &Assignment{Status: AssignmentActive}, []string{"rider_id", "vehicle_id", "start_date"}},
		{"fault", &Fault{Status: FaultOpen}, []string{"vehicle_id", "fault_type", "severity", "description"}},
		{"maintenance", &Maintenance{Status: MaintenanceScheduled}, []string{"vehicle_id", "maintenance_type", "service_date"}},
		{"monthly check", &MonthlyCheck{Status: CheckPending}, []string{"rider_id", "vehicle_id", "month", "year"}},
		{"task", &Task{TaskType: "general", Priority: PriorityMedium, Status: TaskPending}, []string{"title", "rider_id", "vehicle_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validationFields(t, Validate(tt.record))
			for _, f := range tt.missing {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestValidate_EnumDomain(t *testing.T) {
	f := &Fault{
		VehicleID:   vehicleHex,
		FaultType:   "mechanical",
		Severity:    "apocalyptic",
		Description: "chain snapped",
		Status:      FaultOpen,
	}
	fields := validationFields(t, Validate(f))
	assert.Equal(t, "must be one of: low, medium, high, critical", fields["severity"])
}

func TestValidate_ReferenceFormat(t *testing.T) {
	c := &MonthlyCheck{RiderID: "nope", VehicleID: vehicleHex, Month: 1, Year: 2025, Status: CheckPending}
	fields := validationFields(t, Validate(c))
	assert.Equal(t, "must be a valid identifier", fields["rider_id"])
}

func TestValidate_TaskReferences(t *testing.T) {
	t.Run("neither rider nor vehicle", func(t *testing.T) {
		task := &Task{Title: "renew insurance"}
		task.ApplyDefaults()
		fields := validationFields(t, Validate(task))
		assert.Contains(t, fields, "rider_id")
		assert.Contains(t, fields, "vehicle_id")
	})

	t.Run("vehicle only", func(t *testing.T) {
		task := &Task{Title: "renew insurance", VehicleID: vehicleHex}
		task.ApplyDefaults()
		assert.NoError(t, Validate(task))
	})

	t.Run("rider only", func(t *testing.T) {
		task := &Task{Title: "collect documents", RiderID: riderHex}
		task.ApplyDefaults()
		assert.NoError(t, Validate(task))
	})

	t.Run("source type without id", func(t *testing.T) {
		task := &Task{Title: "follow up", RiderID: riderHex, SourceType: "fault"}
		task.ApplyDefaults()
		fields := validationFields(t, Validate(task))
		assert.Contains(t, fields, "source_id")
	})
}

func TestValidate_NestedItems(t *testing.T) {
	c := &MonthlyCheck{
		RiderID: riderHex, VehicleID: vehicleHex, Month: 3, Year: 2025,
		Items: []CheckItem{{Name: "brakes", Status: "wobbly"}},
	}
	c.ApplyDefaults()
	fields := validationFields(t, Validate(c))
	assert.Contains(t, fields, "items[0].status")
}

func TestMaintenance_RecomputeTotal(t *testing.T) {
	m := &Maintenance{LaborCost: 100, PartsCost: 50}
	m.RecomputeTotal()
	assert.Equal(t, 150.0, m.TotalCost)

	m.PartsCost = 75
	m.RecomputeTotal()
	assert.Equal(t, 175.0, m.TotalCost)

	m.TotalCost = 9999
	m.RecomputeTotal()
	assert.Equal(t, 175.0, m.TotalCost)
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		seq  string
		want int64
		ok   bool
	}{
		{"F-2025-00007", 7, true},
		{"F-2025-123456", 123456, true},
		{"F-2024-00007", 0, false},
		{"M-2025-00007", 0, false},
		{"F-2025-", 0, false},
		{"F-2025-7a", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.seq, func(t *testing.T) {
			n, ok := ParseSequence(SequenceFault, 2025, tt.seq)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, n)
		})
	}
	n, ok := ParseSequence(SequenceFault, 2025, FormatSequence(SequenceFault, 2025, 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)
}

func TestFormatSequence(t *testing.T) {
	assert.Equal(t, "F-2025-00001", FormatSequence(SequenceFault, 2025, 1))
	assert.Equal(t, "M-2024-00123", FormatSequence(SequenceMaintenance, 2024, 123))
	assert.Equal(t, "F-2025-123456", FormatSequence(SequenceFault, 2025, 123456))
}

func TestYearBounds(t *testing.T) {
	start, end := YearBounds(2025)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestAssignment_End(t *testing.T) {
	a := &Assignment{RiderID: riderHex, VehicleID: vehicleHex, StartDate: time.Now(), StartOdometer: 1200}
	a.ApplyDefaults()
	require.True(t, a.IsActive())
	assert.Equal(t, AssignmentActive, a.Status)

	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	odo := 1500.0
	a.End(end, &odo)
	assert.False(t, a.IsActive())
	assert.Equal(t, AssignmentEnded, a.Status)
	assert.Equal(t, end, *a.EndDate)
	assert.Equal(t, 1500.0, *a.EndOdometer)
}

func TestAssignment_EndOdometerBelowStartIsAccepted(t *testing.T) {
	a := &Assignment{RiderID: riderHex, VehicleID: vehicleHex, StartDate: time.Now(), StartOdometer: 1200}
	a.ApplyDefaults()
	odo := 10.0
	a.End(time.Now(), &odo)
	assert.NoError(t, Validate(a))
}
