package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	RidersCollection          = "riders"
	VehiclesCollection        = "vehicles"
	AssignmentsCollection     = "assignments"
	FaultsCollection          = "faults"
	MaintenanceCollectionName = "maintenance"
	MonthlyChecksCollection   = "monthly_checks"
	TasksCollection           = "tasks"
	CountersCollection        = "counters"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Store groups the record collections of one database.
type Store struct {
	Riders        *MongoRiderCollection
	Vehicles      *MongoVehicleCollection
	Assignments   *MongoAssignmentCollection
	Faults        *MongoFaultCollection
	Maintenance   *MongoMaintenanceCollection
	MonthlyChecks *MongoMonthlyCheckCollection
	Tasks         *MongoTaskCollection

	database *mongo.Database
}

// NewStore wires every collection of database to the lifecycle pipeline.
func NewStore(database *mongo.Database, p *lifecycle.Pipeline) *Store {
	assignments := database.Collection(AssignmentsCollection)
	return &Store{
		Riders: &MongoRiderCollection{
			docs:        documents[models.Rider]{coll: database.Collection(RidersCollection), name: "rider"},
			assignments: assignments,
			pipeline:    p,
		},
		Vehicles: &MongoVehicleCollection{
			docs:        documents[models.Vehicle]{coll: database.Collection(VehiclesCollection), name: "vehicle"},
			assignments: assignments,
			pipeline:    p,
		},
		Assignments: &MongoAssignmentCollection{
			docs:     documents[models.Assignment]{coll: assignments, name: "assignment"},
			pipeline: p,
		},
		Faults: &MongoFaultCollection{
			docs:     documents[models.Fault]{coll: database.Collection(FaultsCollection), name: "fault"},
			pipeline: p,
		},
		Maintenance: &MongoMaintenanceCollection{
			docs:     documents[models.Maintenance]{coll: database.Collection(MaintenanceCollectionName), name: "maintenance record"},
			pipeline: p,
		},
		MonthlyChecks: &MongoMonthlyCheckCollection{
			docs:     documents[models.MonthlyCheck]{coll: database.Collection(MonthlyChecksCollection), name: "monthly check"},
			pipeline: p,
		},
		Tasks: &MongoTaskCollection{
			docs:     documents[models.Task]{coll: database.Collection(TasksCollection), name: "task"},
			pipeline: p,
		},
		database: database,
	}
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.database.Client().Ping(ctx, readpref.Primary())
}

var (
	_ RiderCollection        = (*MongoRiderCollection)(nil)
	_ VehicleCollection      = (*MongoVehicleCollection)(nil)
	_ AssignmentCollection   = (*MongoAssignmentCollection)(nil)
	_ FaultCollection        = (*MongoFaultCollection)(nil)
	_ MaintenanceCollection  = (*MongoMaintenanceCollection)(nil)
	_ MonthlyCheckCollection = (*MongoMonthlyCheckCollection)(nil)
	_ TaskCollection         = (*MongoTaskCollection)(nil)
)
