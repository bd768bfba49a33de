package db

import (
	"context"

	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// MongoMaintenanceCollection implements MaintenanceCollection.
type MongoMaintenanceCollection struct {
	docs     documents[models.Maintenance]
	pipeline *lifecycle.Pipeline
}

// InsertMaintenance numbers and stores a new maintenance record.
func (c *MongoMaintenanceCollection) InsertMaintenance(ctx context.Context, record *models.Maintenance, actor string) error {
	if err := c.pipeline.CreateMaintenance(ctx, record, actor); err != nil {
		return err
	}
	record.ID = newID()
	return c.docs.insert(ctx, record)
}

// FindMaintenance returns maintenance records matching filter.
func (c *MongoMaintenanceCollection) FindMaintenance(ctx context.Context, filter MaintenanceFilter) ([]models.Maintenance, error) {
	q := bson.M{}
	setIf(q, "status", filter.Status)
	setRef(q, "vehicle_id", filter.VehicleID)
	setRef(q, "fault_id", filter.FaultID)
	return c.docs.find(ctx, q)
}

// FindMaintenanceByID returns one maintenance record.
func (c *MongoMaintenanceCollection) FindMaintenanceByID(ctx context.Context, id string) (*models.Maintenance, error) {
	return c.docs.findByID(ctx, id)
}

// UpdateMaintenance merges patch onto the stored record and replaces it.
func (c *MongoMaintenanceCollection) UpdateMaintenance(ctx context.Context, id string, patch []byte, actor string) (*models.Maintenance, error) {
	prev, err := c.docs.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.Merge(prev, patch)
	if err != nil {
		return nil, err
	}
	if err := c.pipeline.UpdateMaintenance(prev, next, actor); err != nil {
		return nil, err
	}
	if err := c.docs.replace(ctx, prev.ID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// DeleteMaintenance removes a maintenance record.
func (c *MongoMaintenanceCollection) DeleteMaintenance(ctx context.Context, id string) error {
	return c.docs.delete(ctx, id)
}
