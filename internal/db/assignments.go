package db

import (
	"context"

	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAssignmentCollection implements AssignmentCollection. At most one
// active assignment exists per vehicle; the unique partial index on
// vehicle_id settles races the pre-check cannot see.
type MongoAssignmentCollection struct {
	docs     documents[models.Assignment]
	pipeline *lifecycle.Pipeline
}

// InsertAssignment runs the create pipeline and stores the assignment.
func (c *MongoAssignmentCollection) InsertAssignment(ctx context.Context, assignment *models.Assignment, actor string) error {
	if err := c.pipeline.CreateAssignment(assignment, actor); err != nil {
		return err
	}
	if assignment.IsActive() {
		if err := c.ensureVehicleFree(ctx, assignment.VehicleID, primitive.NilObjectID); err != nil {
			return err
		}
	}
	assignment.ID = newID()
	return assignmentWriteError(c.docs.insert(ctx, assignment))
}

// FindAssignments returns assignments matching filter.
func (c *MongoAssignmentCollection) FindAssignments(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error) {
	q := bson.M{}
	setRef(q, "rider_id", filter.RiderID)
	setRef(q, "vehicle_id", filter.VehicleID)
	if filter.Active != nil {
		q["active"] = *filter.Active
	}
	return c.docs.find(ctx, q)
}

// FindAssignmentByID returns one assignment.
func (c *MongoAssignmentCollection) FindAssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	return c.docs.findByID(ctx, id)
}

// UpdateAssignment merges patch onto the stored assignment and replaces it.
func (c *MongoAssignmentCollection) UpdateAssignment(ctx context.Context, id string, patch []byte, actor string) (*models.Assignment, error) {
	prev, err := c.docs.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.Merge(prev, patch)
	if err != nil {
		return nil, err
	}
	if err := c.pipeline.UpdateAssignment(prev, next, actor); err != nil {
		return nil, err
	}
	if err := c.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// EndAssignment closes an active assignment. The end date defaults to now.
func (c *MongoAssignmentCollection) EndAssignment(ctx context.Context, id string, end EndAssignment, actor string) (*models.Assignment, error) {
	if end.EndOdometer != nil && *end.EndOdometer < 0 {
		return nil, apperr.Validation("validation failed", map[string]string{"end_odometer": "must be greater than or equal to 0"})
	}
	prev, err := c.docs.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !prev.IsActive() {
		return nil, apperr.Conflict("assignment already ended", nil)
	}
	next, err := lifecycle.Merge(prev, []byte("{}"))
	if err != nil {
		return nil, err
	}
	at := c.pipeline.Now()
	if end.EndDate != nil {
		at = *end.EndDate
	}
	next.End(at, end.EndOdometer)
	if end.Notes != "" {
		next.Notes = end.Notes
	}
	if err := c.pipeline.UpdateAssignment(prev, next, actor); err != nil {
		return nil, err
	}
	if err := c.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// DeleteAssignment removes an assignment.
func (c *MongoAssignmentCollection) DeleteAssignment(ctx context.Context, id string) error {
	return c.docs.delete(ctx, id)
}

func (c *MongoAssignmentCollection) save(ctx context.Context, next *models.Assignment) error {
	if next.IsActive() {
		if err := c.ensureVehicleFree(ctx, next.VehicleID, next.ID); err != nil {
			return err
		}
	}
	return assignmentWriteError(c.docs.replace(ctx, next.ID, next))
}

// ensureVehicleFree fails when another active assignment holds vehicleID.
func (c *MongoAssignmentCollection) ensureVehicleFree(ctx context.Context, vehicleID string, self primitive.ObjectID) error {
	q := bson.M{"vehicle_id": vehicleID, "active": true}
	if !self.IsZero() {
		q["_id"] = bson.M{"$ne": self}
	}
	taken, err := exists(ctx, c.docs.coll, q)
	if err != nil {
		return err
	}
	if taken {
		return apperr.ErrVehicleAlreadyAssigned
	}
	return nil
}

func assignmentWriteError(err error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return apperr.ErrVehicleAlreadyAssigned
	}
	return err
}
