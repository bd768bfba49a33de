package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func one[T any](args mock.Arguments) (*T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func many[T any](args mock.Arguments) ([]T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

// MockRiderCollection is a mock implementation of db.RiderCollection
type MockRiderCollection struct {
	mock.Mock
}

func (m *MockRiderCollection) InsertRider(ctx context.Context, rec *models.Rider, actor string) error {
	args := m.Called(ctx, rec, actor)
	return args.Error(0)
}

func (m *MockRiderCollection) FindRiders(ctx context.Context, filter db.RiderFilter) ([]models.Rider, error) {
	return many[models.Rider](m.Called(ctx, filter))
}

func (m *MockRiderCollection) FindRiderByID(ctx context.Context, id string) (*models.Rider, error) {
	return one[models.Rider](m.Called(ctx, id))
}

func (m *MockRiderCollection) UpdateRider(ctx context.Context, id string, patch []byte, actor string) (*models.Rider, error) {
	return one[models.Rider](m.Called(ctx, id, patch, actor))
}

func (m *MockRiderCollection) DeleteRider(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVehicleCollection is a mock implementation of db.VehicleCollection
type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, rec *models.Vehicle, actor string) error {
	args := m.Called(ctx, rec, actor)
	return args.Error(0)
}

func (m *MockVehicleCollection) FindVehicles(ctx context.Context, filter db.VehicleFilter) ([]models.Vehicle, error) {
	return many[models.Vehicle](m.Called(ctx, filter))
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return one[models.Vehicle](m.Called(ctx, id))
}

func (m *MockVehicleCollection) UpdateVehicle(ctx context.Context, id string, patch []byte, actor string) (*models.Vehicle, error) {
	return one[models.Vehicle](m.Called(ctx, id, patch, actor))
}

func (m *MockVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAssignmentCollection is a mock implementation of db.AssignmentCollection
type MockAssignmentCollection struct {
	mock.Mock
}

func (m *MockAssignmentCollection) InsertAssignment(ctx context.Context, rec *models.Assignment, actor string) error {
	args := m.Called(ctx, rec, actor)
	return args.Error(0)
}

func (m *MockAssignmentCollection) FindAssignments(ctx context.Context, filter db.AssignmentFilter) ([]models.Assignment, error) {
	return many[models.Assignment](m.Called(ctx, filter))
}

func (m *MockAssignmentCollection) FindAssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	return one[models.Assignment](m.Called(ctx, id))
}

func (m *MockAssignmentCollection) UpdateAssignment(ctx context.Context, id string, patch []byte, actor string) (*models.Assignment, error) {
	return one[models.Assignment](m.Called(ctx, id, patch, actor))
}

func (m *MockAssignmentCollection) DeleteAssignment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFaultCollection is a mock implementation of db.FaultCollection
type MockFaultCollection struct {
	mock.Mock
}

func (m *MockFaultCollection) InsertFault(ctx context.Context, rec *models.Fault, actor string) error {
	args := m.Called(ctx, rec, actor)
	return args.Error(0)
}

func (m *MockFaultCollection) FindFaults(ctx context.Context, filter db.FaultFilter) ([]models.Fault, error) {
	return many[models.Fault](m.Called(ctx, filter))
}

func (m *MockFaultCollection) FindFaultByID(ctx context.Context, id string) (*models.Fault, error) {
	return one[models.Fault](m.Called(ctx, id))
}

func (m *MockFaultCollection) UpdateFault(ctx context.Context, id string, patch []byte, actor string) (*models.Fault, error) {
	return one[models.Fault](m.Called(ctx, id, patch, actor))
}

func (m *MockFaultCollection) DeleteFault(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMaintenanceCollection is a mock implementation of db.MaintenanceCollection
type MockMaintenanceCollection struct {
	mock.Mock
}

func (m *MockMaintenanceCollection) InsertMaintenance(ctx context.Context, rec *models.Maintenance, actor string) error {
	args := m.Called(ctx, rec, actor)
	return args.Error(0)
}

func (m *MockMaintenanceCollection) FindMaintenance(ctx context.Context, filter db.MaintenanceFilter) ([]models.Maintenance, error) {
	return many[models.Maintenance](m.Called(ctx, filter))
}

func (m *MockMaintenanceCollection) FindMaintenanceByID(ctx context.Context, id string) (*models.Maintenance, error) {
	return one[models.Maintenance](m.Called(ctx, id))
}

func (m *MockMaintenanceCollection) UpdateMaintenance(ctx context.Context, id string, patch []byte, actor string) (*models.Maintenance, error) {
	return one[models.Maintenance](m.Called(ctx, id, patch, actor))
}

func (m *MockMaintenanceCollection) DeleteMaintenance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMonthlyCheckCollection is a mock implementation of db.MonthlyCheckCollection
type MockMonthlyCheckCollection struct {
	mock.Mock
}

func (m *MockMonthlyCheckCollection) InsertMonthlyCheck(ctx context.Context, rec *models.MonthlyCheck, actor string) error {
	args := m.Called(ctx, rec, actor)
	return args.Error(0)
}

func (m *MockMonthlyCheckCollection) FindMonthlyChecks(ctx context.Context, filter db.MonthlyCheckFilter) ([]models.MonthlyCheck, error) {
	return many[models.MonthlyCheck](m.Called(ctx, filter))
}

func (m *MockMonthlyCheckCollection) FindMonthlyCheckByID(ctx context.Context, id string) (*models.MonthlyCheck, error) {
	return one[models.MonthlyCheck](m.Called(ctx, id))
}

func (m *MockMonthlyCheckCollection) UpdateMonthlyCheck(ctx context.Context, id string, patch []byte, actor string) (*models.MonthlyCheck, error) {
	return one[models.MonthlyCheck](m.Called(ctx, id, patch, actor))
}

func (m *MockMonthlyCheckCollection) DeleteMonthlyCheck(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTaskCollection is a mock implementation of db.TaskCollection
type MockTaskCollection struct {
	mock.Mock
}

func (m *MockTaskCollection) InsertTask(ctx context.Context, rec *models.Task, actor string) error {
	args := m.Called(ctx, rec, actor)
	return args.Error(0)
}

func (m *MockTaskCollection) FindTasks(ctx context.Context, filter db.TaskFilter) ([]models.Task, error) {
	return many[models.Task](m.Called(ctx, filter))
}

func (m *MockTaskCollection) FindTaskByID(ctx context.Context, id string) (*models.Task, error) {
	return one[models.Task](m.Called(ctx, id))
}

func (m *MockTaskCollection) UpdateTask(ctx context.Context, id string, patch []byte, actor string) (*models.Task, error) {
	return one[models.Task](m.Called(ctx, id, patch, actor))
}

func (m *MockTaskCollection) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentCollection) EndAssignment(ctx context.Context, id string, end db.EndAssignment, actor string) (*models.Assignment, error) {
	return one[models.Assignment](m.Called(ctx, id, end, actor))
}

func (m *MockMonthlyCheckCollection) FindPendingChecks(ctx context.Context, now time.Time) ([]models.MonthlyCheck, error) {
	return many[models.MonthlyCheck](m.Called(ctx, now))
}

func (m *MockMonthlyCheckCollection) MarkCheckOverdue(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() {}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
