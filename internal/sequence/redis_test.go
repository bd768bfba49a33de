package sequence

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-crm/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type staticCounter struct {
	n   int64
	err error
}

func (c staticCounter) LastIssued(context.Context, models.SequenceKind, int) (int64, error) {
	return c.n, c.err
}

func TestKey(t *testing.T) {
	s := NewRedisSequencer(nil, staticCounter{})
	assert.Equal(t, "seq:maintenance:2025", s.Key(models.SequenceMaintenance, 2025))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	client, err := NewRedisClient(context.Background(), Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, client)
}

// testSequencer returns a sequencer on REDIS_ADDR using a unique key prefix.
func testSequencer(t *testing.T, counter YearCounter) *RedisSequencer {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}
	client, err := NewRedisClient(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	s := NewRedisSequencer(client, counter)
	s.prefix = "test:" + primitive.NewObjectID().Hex()
	t.Cleanup(func() {
		ctx := context.Background()
		for _, kind := range []models.SequenceKind{models.SequenceFault, models.SequenceMaintenance} {
			client.Del(ctx, s.Key(kind, 2025))
		}
		_ = client.Close()
	})
	return s
}

func TestRedisSequencer_SeedsAndIncrements(t *testing.T) {
	s := testSequencer(t, staticCounter{n: 41})
	ctx := context.Background()

	v, err := s.Next(ctx, models.SequenceFault, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = s.Next(ctx, models.SequenceFault, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(43), v)
}

func TestRedisSequencer_SeedError(t *testing.T) {
	s := testSequencer(t, staticCounter{err: errors.New("mongo down")})

	_, err := s.Next(context.Background(), models.SequenceMaintenance, 2025)
	assert.ErrorContains(t, err, "mongo down")
}

func TestRedisSequencer_ConcurrentAllocationIsUnique(t *testing.T) {
	s := testSequencer(t, staticCounter{})
	ctx := context.Background()

	const n = 50
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = map[int64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Next(ctx, models.SequenceFault, 2025)
			assert.NoError(t, err)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}
