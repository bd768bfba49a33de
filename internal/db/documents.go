package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/ukydev/fleet-crm/internal/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// documents holds the CRUD plumbing shared by every record collection.
type documents[T any] struct {
	coll *mongo.Collection
	name string
}

func (d documents[T]) notFound(err error) error {
	return apperr.NotFound(d.name+" not found", err)
}

// objectID parses a hex identifier. A malformed id cannot resolve to a
// record and is reported as not found.
func (d documents[T]) objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, d.notFound(err)
	}
	return oid, nil
}

func (d documents[T]) findByID(ctx context.Context, id string) (*T, error) {
	oid, err := d.objectID(id)
	if err != nil {
		return nil, err
	}
	var doc T
	err = d.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, d.notFound(nil)
		}
		return nil, fmt.Errorf("find %s %s: %w", d.name, id, err)
	}
	return &doc, nil
}

// find returns the matching documents newest first.
func (d documents[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := d.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", d.name, err)
	}
	defer cursor.Close(ctx)
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.name, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (d documents[T]) insert(ctx context.Context, doc *T) error {
	if _, err := d.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", d.name, err)
	}
	return nil
}

func (d documents[T]) replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	res, err := d.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replace %s %s: %w", d.name, id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return d.notFound(nil)
	}
	return nil
}

func (d documents[T]) delete(ctx context.Context, id string) error {
	oid, err := d.objectID(id)
	if err != nil {
		return err
	}
	res, err := d.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", d.name, id, err)
	}
	if res.DeletedCount == 0 {
		return d.notFound(nil)
	}
	return nil
}

// exists reports whether any document matches filter.
func exists(ctx context.Context, coll *mongo.Collection, filter bson.M) (bool, error) {
	err := coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// setIf adds key=value to filter when value is not empty.
func setIf(filter bson.M, key, value string) {
	if value != "" {
		filter[key] = value
	}
}

// refID returns the canonical lowercase form of a record reference. Values
// that are not ObjectIDs are returned unchanged so they simply match nothing.
func refID(value string) string {
	if oid, err := primitive.ObjectIDFromHex(value); err == nil {
		return oid.Hex()
	}
	return value
}

// setRef adds a reference filter on key in canonical form.
func setRef(filter bson.M, key, value string) {
	setIf(filter, key, refID(value))
}

// activeAssignmentFilter matches the active assignment referencing id
// through field.
func activeAssignmentFilter(field string, id primitive.ObjectID) bson.M {
	return bson.M{field: id.Hex(), "active": true}
}

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}
