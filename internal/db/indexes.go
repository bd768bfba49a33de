package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexSpecs() map[string][]mongo.IndexModel {
	createdAt := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}}
	uniqueSequence := mongo.IndexModel{
		Keys:    bson.D{{Key: "sequence_number", Value: 1}},
		Options: options.Index().SetName("unique_sequence_number").SetUnique(true).SetSparse(true),
	}
	return map[string][]mongo.IndexModel{
		RidersCollection: {
			createdAt,
			{Keys: bson.D{{Key: "rider_status", Value: 1}}},
			{Keys: bson.D{{Key: "id_number", Value: 1}}},
		},
		VehiclesCollection: {
			createdAt,
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "license_plate", Value: 1}}},
		},
		AssignmentsCollection: {
			createdAt,
			{Keys: bson.D{{Key: "rider_id", Value: 1}, {Key: "active", Value: 1}}},
			{
				Keys: bson.D{{Key: "vehicle_id", Value: 1}},
				Options: options.Index().
					SetName("one_active_assignment_per_vehicle").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
		},
		FaultsCollection: {
			createdAt,
			uniqueSequence,
			{Keys: bson.D{{Key: "vehicle_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		MaintenanceCollectionName: {
			createdAt,
			uniqueSequence,
			{Keys: bson.D{{Key: "vehicle_id", Value: 1}}},
		},
		MonthlyChecksCollection: {
			createdAt,
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}}},
			{
				Keys: bson.D{
					{Key: "rider_id", Value: 1},
					{Key: "vehicle_id", Value: 1},
					{Key: "month", Value: 1},
					{Key: "year", Value: 1},
				},
				Options: options.Index().SetName("one_check_per_month").SetUnique(true),
			},
		},
		TasksCollection: {
			createdAt,
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
		},
	}
}

// EnsureIndexes creates the indexes every collection relies on. It is
// idempotent.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for name, specs := range indexSpecs() {
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
