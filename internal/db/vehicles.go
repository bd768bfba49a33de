package db

import (
	"context"

	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoVehicleCollection implements VehicleCollection.
type MongoVehicleCollection struct {
	docs        documents[models.Vehicle]
	assignments *mongo.Collection
	pipeline    *lifecycle.Pipeline
}

// InsertVehicle runs the create pipeline and stores the vehicle.
func (c *MongoVehicleCollection) InsertVehicle(ctx context.Context, vehicle *models.Vehicle, actor string) error {
	if err := c.pipeline.CreateVehicle(vehicle, actor); err != nil {
		return err
	}
	vehicle.ID = newID()
	return c.docs.insert(ctx, vehicle)
}

// FindVehicles returns vehicles matching filter.
func (c *MongoVehicleCollection) FindVehicles(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error) {
	q := bson.M{}
	setIf(q, "status", filter.Status)
	setIf(q, "manufacturer", filter.Manufacturer)
	vehicles, err := c.docs.find(ctx, q)
	if err != nil {
		return nil, err
	}
	return models.FilterBySearch(vehicles, filter.Search), nil
}

// FindVehicleByID returns one vehicle.
func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return c.docs.findByID(ctx, id)
}

// UpdateVehicle merges patch onto the stored vehicle and replaces it.
func (c *MongoVehicleCollection) UpdateVehicle(ctx context.Context, id string, patch []byte, actor string) (*models.Vehicle, error) {
	prev, err := c.docs.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.Merge(prev, patch)
	if err != nil {
		return nil, err
	}
	if err := c.pipeline.UpdateVehicle(prev, next, actor); err != nil {
		return nil, err
	}
	if err := c.docs.replace(ctx, prev.ID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// DeleteVehicle removes a vehicle that is not actively assigned.
func (c *MongoVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	oid, err := c.docs.objectID(id)
	if err != nil {
		return err
	}
	busy, err := exists(ctx, c.assignments, activeAssignmentFilter("vehicle_id", oid))
	if err != nil {
		return err
	}
	if busy {
		return apperr.ErrActiveAssignmentExists
	}
	return c.docs.delete(ctx, oid.Hex())
}
