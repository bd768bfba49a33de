package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoMonthlyCheckCollection implements MonthlyCheckCollection and the
// sweeper's PendingCheckStore.
type MongoMonthlyCheckCollection struct {
	docs     documents[models.MonthlyCheck]
	pipeline *lifecycle.Pipeline
}

// InsertMonthlyCheck stores a new check. Only one check may exist per
// rider, vehicle and month.
func (c *MongoMonthlyCheckCollection) InsertMonthlyCheck(ctx context.Context, check *models.MonthlyCheck, actor string) error {
	if err := c.pipeline.CreateMonthlyCheck(check, actor); err != nil {
		return err
	}
	if err := c.ensureUnique(ctx, check); err != nil {
		return err
	}
	check.ID = newID()
	return checkWriteError(c.docs.insert(ctx, check))
}

// FindMonthlyChecks returns checks matching filter.
func (c *MongoMonthlyCheckCollection) FindMonthlyChecks(ctx context.Context, filter MonthlyCheckFilter) ([]models.MonthlyCheck, error) {
	q := bson.M{}
	setIf(q, "status", filter.Status)
	setRef(q, "rider_id", filter.RiderID)
	setRef(q, "vehicle_id", filter.VehicleID)
	if filter.Month != 0 {
		q["month"] = filter.Month
	}
	if filter.Year != 0 {
		q["year"] = filter.Year
	}
	return c.docs.find(ctx, q)
}

// FindMonthlyCheckByID returns one check.
func (c *MongoMonthlyCheckCollection) FindMonthlyCheckByID(ctx context.Context, id string) (*models.MonthlyCheck, error) {
	return c.docs.findByID(ctx, id)
}

// UpdateMonthlyCheck merges patch onto the stored check and replaces it.
func (c *MongoMonthlyCheckCollection) UpdateMonthlyCheck(ctx context.Context, id string, patch []byte, actor string) (*models.MonthlyCheck, error) {
	prev, err := c.docs.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.Merge(prev, patch)
	if err != nil {
		return nil, err
	}
	if err := c.pipeline.UpdateMonthlyCheck(prev, next, actor); err != nil {
		return nil, err
	}
	if err := c.ensureUnique(ctx, next); err != nil {
		return nil, err
	}
	if err := checkWriteError(c.docs.replace(ctx, prev.ID, next)); err != nil {
		return nil, err
	}
	return next, nil
}

// DeleteMonthlyCheck removes a check.
func (c *MongoMonthlyCheckCollection) DeleteMonthlyCheck(ctx context.Context, id string) error {
	return c.docs.delete(ctx, id)
}

// FindPendingChecks returns the pending checks that may be overdue at
// now. Checks whose month starts after the grace cutoff are left out unless
// an earlier check date brings them in.
func (c *MongoMonthlyCheckCollection) FindPendingChecks(ctx context.Context, now time.Time) ([]models.MonthlyCheck, error) {
	return c.docs.find(ctx, pendingDueFilter(now))
}

func pendingDueFilter(now time.Time) bson.M {
	cutoff := models.OverdueCutoff(now)
	return bson.M{
		"status": models.CheckPending,
		"$or": bson.A{
			bson.M{"check_date": bson.M{"$lte": cutoff}},
			bson.M{"year": bson.M{"$lt": cutoff.Year()}},
			bson.M{"year": cutoff.Year(), "month": bson.M{"$lte": int(cutoff.Month())}},
		},
	}
}

// MarkCheckOverdue moves a pending check to overdue. It reports false when
// the check left pending in the meantime.
func (c *MongoMonthlyCheckCollection) MarkCheckOverdue(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := c.docs.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.CheckPending},
		bson.M{"$set": bson.M{"status": models.CheckOverdue, "updated_at": at}},
	)
	if err != nil {
		return false, fmt.Errorf("mark check %s overdue: %w", id.Hex(), err)
	}
	return res.ModifiedCount == 1, nil
}

func (c *MongoMonthlyCheckCollection) ensureUnique(ctx context.Context, check *models.MonthlyCheck) error {
	q := bson.M{
		"rider_id":   check.RiderID,
		"vehicle_id": check.VehicleID,
		"month":      check.Month,
		"year":       check.Year,
	}
	if !check.ID.IsZero() {
		q["_id"] = bson.M{"$ne": check.ID}
	}
	dup, err := exists(ctx, c.docs.coll, q)
	if err != nil {
		return err
	}
	if dup {
		return apperr.ErrDuplicateMonthlyCheck
	}
	return nil
}

func checkWriteError(err error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return apperr.ErrDuplicateMonthlyCheck
	}
	return err
}
