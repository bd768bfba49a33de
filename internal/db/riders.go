package db

import (
	"context"

	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRiderCollection implements RiderCollection.
type MongoRiderCollection struct {
	docs        documents[models.Rider]
	assignments *mongo.Collection
	pipeline    *lifecycle.Pipeline
}

// InsertRider runs the create pipeline and stores the rider. On success
// rider carries its new ID.
func (c *MongoRiderCollection) InsertRider(ctx context.Context, rider *models.Rider, actor string) error {
	if err := c.pipeline.CreateRider(rider, actor); err != nil {
		return err
	}
	rider.ID = newID()
	return c.docs.insert(ctx, rider)
}

// FindRiders returns riders matching filter. The free-text term is
// applied in memory.
func (c *MongoRiderCollection) FindRiders(ctx context.Context, filter RiderFilter) ([]models.Rider, error) {
	q := bson.M{}
	setIf(q, "rider_status", filter.RiderStatus)
	setIf(q, "assignment_status", filter.AssignmentStatus)
	setIf(q, "region", filter.Region)
	riders, err := c.docs.find(ctx, q)
	if err != nil {
		return nil, err
	}
	return models.FilterBySearch(riders, filter.Search), nil
}

// FindRiderByID returns one rider.
func (c *MongoRiderCollection) FindRiderByID(ctx context.Context, id string) (*models.Rider, error) {
	return c.docs.findByID(ctx, id)
}

// UpdateRider merges patch onto the stored rider and replaces it.
func (c *MongoRiderCollection) UpdateRider(ctx context.Context, id string, patch []byte, actor string) (*models.Rider, error) {
	prev, err := c.docs.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.Merge(prev, patch)
	if err != nil {
		return nil, err
	}
	if err := c.pipeline.UpdateRider(prev, next, actor); err != nil {
		return nil, err
	}
	if err := c.docs.replace(ctx, prev.ID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// DeleteRider removes a rider that holds no active assignment.
func (c *MongoRiderCollection) DeleteRider(ctx context.Context, id string) error {
	oid, err := c.docs.objectID(id)
	if err != nil {
		return err
	}
	busy, err := exists(ctx, c.assignments, activeAssignmentFilter("rider_id", oid))
	if err != nil {
		return err
	}
	if busy {
		return apperr.ErrActiveAssignmentExists
	}
	return c.docs.delete(ctx, oid.Hex())
}
