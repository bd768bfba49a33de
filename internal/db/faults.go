package db

import (
	"context"

	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// MongoFaultCollection implements FaultCollection.
type MongoFaultCollection struct {
	docs     documents[models.Fault]
	pipeline *lifecycle.Pipeline
}

// InsertFault numbers and stores a new fault.
func (c *MongoFaultCollection) InsertFault(ctx context.Context, fault *models.Fault, actor string) error {
	if err := c.pipeline.CreateFault(ctx, fault, actor); err != nil {
		return err
	}
	fault.ID = newID()
	return c.docs.insert(ctx, fault)
}

// FindFaults returns faults matching filter.
func (c *MongoFaultCollection) FindFaults(ctx context.Context, filter FaultFilter) ([]models.Fault, error) {
	q := bson.M{}
	setIf(q, "status", filter.Status)
	setIf(q, "severity", filter.Severity)
	setRef(q, "rider_id", filter.RiderID)
	setRef(q, "vehicle_id", filter.VehicleID)
	faults, err := c.docs.find(ctx, q)
	if err != nil {
		return nil, err
	}
	return models.FilterBySearch(faults, filter.Search), nil
}

// FindFaultByID returns one fault.
func (c *MongoFaultCollection) FindFaultByID(ctx context.Context, id string) (*models.Fault, error) {
	return c.docs.findByID(ctx, id)
}

// UpdateFault merges patch onto the stored fault and replaces it.
func (c *MongoFaultCollection) UpdateFault(ctx context.Context, id string, patch []byte, actor string) (*models.Fault, error) {
	prev, err := c.docs.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.Merge(prev, patch)
	if err != nil {
		return nil, err
	}
	if err := c.pipeline.UpdateFault(prev, next, actor); err != nil {
		return nil, err
	}
	if err := c.docs.replace(ctx, prev.ID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// DeleteFault removes a fault.
func (c *MongoFaultCollection) DeleteFault(ctx context.Context, id string) error {
	return c.docs.delete(ctx, id)
}
