package db

import (
	"context"

	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// MongoTaskCollection implements TaskCollection.
type MongoTaskCollection struct {
	docs     documents[models.Task]
	pipeline *lifecycle.Pipeline
}

func (c *MongoTaskCollection) InsertTask(ctx context.Context, task *models.Task, actor string) error {
	if err := c.pipeline.CreateTask(task, actor); err != nil {
		return err
	}
	task.ID = newID()
	return c.docs.insert(ctx, task)
}

func (c *MongoTaskCollection) FindTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	q := bson.M{}
	setIf(q, "status", filter.Status)
	setIf(q, "priority", filter.Priority)
	setIf(q, "assignee", filter.Assignee)
	setRef(q, "rider_id", filter.RiderID)
	setRef(q, "vehicle_id", filter.VehicleID)
	return c.docs.find(ctx, q)
}

func (c *MongoTaskCollection) FindTaskByID(ctx context.Context, id string) (*models.Task, error) {
	return c.docs.findByID(ctx, id)
}

func (c *MongoTaskCollection) UpdateTask(ctx context.Context, id string, patch []byte, actor string) (*models.Task, error) {
	prev, err := c.docs.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.Merge(prev, patch)
	if err != nil {
		return nil, err
	}
	if err := c.pipeline.UpdateTask(prev, next, actor); err != nil {
		return nil, err
	}
	if err := c.docs.replace(ctx, prev.ID, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (c *MongoTaskCollection) DeleteTask(ctx context.Context, id string) error {
	return c.docs.delete(ctx, id)
}
