package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type counterDoc struct {
	ID   string `bson:"_id"`
	Seq  int64  `bson:"seq"`
	Kind string `bson:"kind"`
	Year int    `bson:"year"`
}

// Counters allocates per-year sequence numbers from the counters
// collection. Each allocation is a single atomic $inc.
type Counters struct {
	counters *mongo.Collection
	sources  map[models.SequenceKind]*mongo.Collection
}

// NewCounters creates a sequencer over database.
func NewCounters(database *mongo.Database) *Counters {
	return &Counters{
		counters: database.Collection(CountersCollection),
		sources: map[models.SequenceKind]*mongo.Collection{
			models.SequenceFault:       database.Collection(FaultsCollection),
			models.SequenceMaintenance: database.Collection(MaintenanceCollectionName),
		},
	}
}

func counterKey(kind models.SequenceKind, year int) string {
	return fmt.Sprintf("%s:%d", kind, year)
}

// Next returns the next number of kind in year, starting at 1.
func (c *Counters) Next(ctx context.Context, kind models.SequenceKind, year int) (int64, error) {
	key := counterKey(kind, year)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	for attempt := 0; attempt < 2; attempt++ {
		var doc counterDoc
		err := c.counters.FindOneAndUpdate(ctx, bson.M{"_id": key}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
		if err == nil {
			return doc.Seq, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("increment counter %s: %w", key, err)
		}
		if err := c.seed(ctx, kind, year); err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("counter %s missing after seeding", key)
}

// seed creates the counter at the last number already issued in year.
// Losing the insert race to another seeder is fine.
func (c *Counters) seed(ctx context.Context, kind models.SequenceKind, year int) error {
	n, err := c.LastIssued(ctx, kind, year)
	if err != nil {
		return err
	}
	doc := counterDoc{ID: counterKey(kind, year), Seq: n, Kind: string(kind), Year: year}
	if _, err := c.counters.InsertOne(ctx, doc); err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("seed counter %s: %w", doc.ID, err)
	}
	return nil
}

// LastIssued returns the value a fresh counter for kind in year starts
// from: the larger of the records created in year and the highest number
// already stored. Deleted records leave gaps the count alone would reuse.
func (c *Counters) LastIssued(ctx context.Context, kind models.SequenceKind, year int) (int64, error) {
	n, err := c.CountCreatedInYear(ctx, kind, year)
	if err != nil {
		return 0, err
	}
	highest, err := c.HighestInYear(ctx, kind, year)
	if err != nil {
		return 0, err
	}
	return max(n, highest), nil
}

// HighestInYear returns the highest stored sequence number of kind in
// year, or 0 when there is none. Longer numbers sort first so counters past
// the zero padding still compare numerically.
func (c *Counters) HighestInYear(ctx context.Context, kind models.SequenceKind, year int) (int64, error) {
	coll, ok := c.sources[kind]
	if !ok {
		return 0, fmt.Errorf("unknown sequence kind %q", kind)
	}
	cursor, err := coll.Aggregate(ctx, highestSequencePipeline(kind, year))
	if err != nil {
		return 0, fmt.Errorf("find highest %s number in %d: %w", kind, year, err)
	}
	var docs []struct {
		SequenceNumber string `bson:"sequence_number"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return 0, fmt.Errorf("decode highest %s number in %d: %w", kind, year, err)
	}
	numbers := make([]string, 0, len(docs))
	for _, d := range docs {
		numbers = append(numbers, d.SequenceNumber)
	}
	return highestSequence(kind, year, numbers), nil
}

func highestSequencePipeline(kind models.SequenceKind, year int) mongo.Pipeline {
	pattern := "^" + regexp.QuoteMeta(models.SequencePrefix(kind, year)) + `\d+$`
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"sequence_number": bson.M{"$regex": pattern}}}},
		{{Key: "$project", Value: bson.M{
			"sequence_number": 1,
			"length":          bson.M{"$strLenCP": "$sequence_number"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "length", Value: -1}, {Key: "sequence_number", Value: -1}}}},
		{{Key: "$limit", Value: 1}},
	}
}

// highestSequence returns the largest counter among numbers of kind in
// year, ignoring anything that does not parse.
func highestSequence(kind models.SequenceKind, year int, numbers []string) int64 {
	var highest int64
	for _, seq := range numbers {
		if n, ok := models.ParseSequence(kind, year, seq); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// CountCreatedInYear counts the records of kind created in year.
func (c *Counters) CountCreatedInYear(ctx context.Context, kind models.SequenceKind, year int) (int64, error) {
	coll, ok := c.sources[kind]
	if !ok {
		return 0, fmt.Errorf("unknown sequence kind %q", kind)
	}
	start, end := models.YearBounds(year)
	n, err := coll.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": start, "$lt": end}})
	if err != nil {
		return 0, fmt.Errorf("count %s records in %d: %w", kind, year, err)
	}
	return n, nil
}
