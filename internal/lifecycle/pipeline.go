// Package lifecycle holds the pre-persist steps every record goes through
// before the storage layer writes it: defaults, validation, sequence
// allocation, derived fields and audit stamps.
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/models"
)

// Sequencer hands out the next counter value of a (kind, year) pair. Each
// call must return a distinct value even under concurrent use.
type Sequencer interface {
	Next(ctx context.Context, kind models.SequenceKind, year int) (int64, error)
}

// Pipeline runs the create and update steps of every record type.
type Pipeline struct {
	seq Sequencer
	now func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a pipeline allocating sequence numbers from seq.
func NewPipeline(seq Sequencer, opts ...Option) *Pipeline {
	p := &Pipeline{
		seq: seq,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Now returns the pipeline clock's current time.
func (p *Pipeline) Now() time.Time {
	return p.now()
}

// Merge applies a JSON patch on a deep copy of prev. Fields absent from the
// patch keep their stored values.
func Merge[T any](prev *T, patch []byte) (*T, error) {
	raw, err := json.Marshal(prev)
	if err != nil {
		return nil, fmt.Errorf("copy %T: %w", prev, err)
	}
	next := new(T)
	if err := json.Unmarshal(raw, next); err != nil {
		return nil, fmt.Errorf("copy %T: %w", prev, err)
	}
	if err := json.Unmarshal(patch, next); err != nil {
		return nil, apperr.BadRequest("invalid JSON body", err)
	}
	return next, nil
}

func (p *Pipeline) stampCreate(rec models.Audited, actor string) {
	a := rec.AuditFields()
	now := p.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.CreatedBy = actor
	a.UpdatedBy = actor
}

// stampUpdate restores the creation fields from prev and stamps the update.
func (p *Pipeline) stampUpdate(prev, next models.Audited, actor string) {
	pa, na := prev.AuditFields(), next.AuditFields()
	na.CreatedAt = pa.CreatedAt
	na.CreatedBy = pa.CreatedBy
	na.UpdatedAt = p.now()
	na.UpdatedBy = actor
}

// allocate returns current when it is already set, otherwise the next
// sequence number of kind for the current year.
func (p *Pipeline) allocate(ctx context.Context, kind models.SequenceKind, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	year := p.now().Year()
	n, err := p.seq.Next(ctx, kind, year)
	if err != nil {
		return "", fmt.Errorf("allocate %s sequence: %w", kind, err)
	}
	return models.FormatSequence(kind, year, n), nil
}
