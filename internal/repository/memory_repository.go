package repository

import (
	"context"
	"slices"
	"sync"

	"chat-relay/bot/internal/model"
)

const defaultShardCount = 32

// MemoryRepository is the default HistoryStore. Histories live in a map split
// into shards, each guarded by its own mutex, so users on different shards
// never contend and operations on one user are serialized.
type MemoryRepository struct {
	maxHistory int
	shards     []*historyShard
}

type historyShard struct {
	mu   sync.Mutex
	logs map[model.UserID][]model.Turn
}

// NewMemoryRepository creates an in-memory history store bounded to
// maxHistory turns per user.
func NewMemoryRepository(maxHistory int) *MemoryRepository {
	shards := make([]*historyShard, defaultShardCount)
	for i := range shards {
		shards[i] = &historyShard{logs: make(map[model.UserID][]model.Turn)}
	}
	return &MemoryRepository{maxHistory: normalizeMax(maxHistory), shards: shards}
}

func (r *MemoryRepository) shard(user model.UserID) *historyShard {
	return r.shards[uint64(user)%uint64(len(r.shards))]
}

// Get returns a copy of the user's history.
func (r *MemoryRepository) Get(_ context.Context, user model.UserID) ([]model.Turn, error) {
	s := r.shard(user)
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTurns(s.logs[user]), nil
}

// Append adds the turn and keeps only the most recent maxHistory turns.
func (r *MemoryRepository) Append(_ context.Context, user model.UserID, turn model.Turn) ([]model.Turn, error) {
	s := r.shard(user)
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.logs[user], turn)
	if over := len(history) - r.maxHistory; over > 0 {
		// Copy so the dropped prefix does not keep the backing array alive.
		history = slices.Clone(history[over:])
	}
	s.logs[user] = history
	return cloneTurns(history), nil
}

// Clear resets the user's history to an empty sequence.
func (r *MemoryRepository) Clear(_ context.Context, user model.UserID) error {
	s := r.shard(user)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, user)
	return nil
}

// Users returns the number of users with a non-empty history.
func (r *MemoryRepository) Users(_ context.Context) (int, error) {
	total := 0
	for _, s := range r.shards {
		s.mu.Lock()
		total += len(s.logs)
		s.mu.Unlock()
	}
	return total, nil
}

func cloneTurns(turns []model.Turn) []model.Turn {
	out := make([]model.Turn, len(turns))
	copy(out, turns)
	return out
}
