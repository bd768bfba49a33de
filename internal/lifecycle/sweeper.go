package lifecycle

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingCheckStore is the part of the storage layer the sweeper needs.
type PendingCheckStore interface {
	// FindPendingChecks may return more than the overdue checks; each one
	// is evaluated again before it is marked.
	FindPendingChecks(ctx context.Context, now time.Time) ([]models.MonthlyCheck, error)
	// MarkCheckOverdue flips a check to overdue only if it is still
	// pending, and reports whether it did.
	MarkCheckOverdue(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// Sweeper moves pending monthly checks past their grace period to overdue.
type Sweeper struct {
	store     PendingCheckStore
	publisher events.Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewSweeper creates a sweeper using the pipeline's clock.
func NewSweeper(store PendingCheckStore, p *Pipeline, publisher events.Publisher, log logrus.FieldLogger) *Sweeper {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Sweeper{store: store, publisher: publisher, log: log, now: p.now}
}

// Sweep runs one pass and returns how many checks became overdue.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	checks, err := s.store.FindPendingChecks(ctx, now)
	if err != nil {
		return 0, err
	}
	marked := 0
	for i := range checks {
		c := &checks[i]
		if !models.EvaluateOverdue(c, now) {
			continue
		}
		ok, err := s.store.MarkCheckOverdue(ctx, c.ID, now)
		if err != nil {
			return marked, err
		}
		if !ok {
			// completed or exempted since it was read
			continue
		}
		marked++
		ev := events.Event{Type: events.TypeOverdue, Resource: "monthly-checks", ID: c.ID.Hex(), At: now}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.log.WithError(err).WithField("check_id", c.ID.Hex()).Warn("Failed to publish overdue event")
		}
	}
	return marked, nil
}

// Run sweeps immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	s.sweepAndLog(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweepAndLog(ctx)
		}
	}
}

func (s *Sweeper) sweepAndLog(ctx context.Context) {
	n, err := s.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.WithError(err).Error("Overdue sweep failed")
		}
		return
	}
	if n > 0 {
		s.log.WithField("overdue", n).Info("Marked monthly checks overdue")
	}
}
