package lifecycle

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

type MockPendingCheckStore struct {
	mock.Mock
}

func (m *MockPendingCheckStore) FindPendingChecks(ctx context.Context, now time.Time) ([]models.MonthlyCheck, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthlyCheck), args.Error(1)
}

func (m *MockPendingCheckStore) MarkCheckOverdue(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() {}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSweeper_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	p := NewPipeline(&memorySequencer{}, fixedClock(now))

	stale := models.MonthlyCheck{ID: primitive.NewObjectID(), Month: 1, Year: 2025, Status: models.CheckPending}
	raced := models.MonthlyCheck{ID: primitive.NewObjectID(), Month: 1, Year: 2025, Status: models.CheckPending}
	fresh := models.MonthlyCheck{ID: primitive.NewObjectID(), Month: 1, Year: 2025, CheckDate: &now, Status: models.CheckPending}

	store := new(MockPendingCheckStore)
	store.On("FindPendingChecks", mock.Anything, now).Return([]models.MonthlyCheck{stale, raced, fresh}, nil)
	store.On("MarkCheckOverdue", mock.Anything, stale.ID, now).Return(true, nil)
	store.On("MarkCheckOverdue", mock.Anything, raced.ID, now).Return(false, nil)

	pub := &recordingPublisher{}
	s := NewSweeper(store, p, pub, quietLogger())

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "MarkCheckOverdue", mock.Anything, fresh.ID, mock.Anything)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeOverdue, pub.events[0].Type)
	assert.Equal(t, stale.ID.Hex(), pub.events[0].ID)
}

func TestSweeper_SweepStoreError(t *testing.T) {
	store := new(MockPendingCheckStore)
	store.On("FindPendingChecks", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	s := NewSweeper(store, NewPipeline(&memorySequencer{}), nil, quietLogger())

	_, err := s.Sweep(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := new(MockPendingCheckStore)
	store.On("FindPendingChecks", mock.Anything, mock.Anything).Return([]models.MonthlyCheck{}, nil)
	s := NewSweeper(store, NewPipeline(&memorySequencer{}), nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx, 5*time.Millisecond) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	store.AssertCalled(t, "FindPendingChecks", mock.Anything, mock.Anything)
}
