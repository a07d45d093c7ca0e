package service

import (
	"fmt"
	"sync"

	app_errors "chat-relay/bot/internal/errors"
	"chat-relay/bot/internal/model"
)

const selectorShardCount = 16

// ModelSelector keeps each user's backend tier. Users that never switched get
// model.DefaultChoice. State lives for the process lifetime.
type ModelSelector struct {
	shards []*choiceShard
}

type choiceShard struct {
	mu      sync.RWMutex
	choices map[model.UserID]model.Choice
}

// NewModelSelector creates an empty selector.
func NewModelSelector() *ModelSelector {
	shards := make([]*choiceShard, selectorShardCount)
	for i := range shards {
		shards[i] = &choiceShard{choices: make(map[model.UserID]model.Choice)}
	}
	return &ModelSelector{shards: shards}
}

func (s *ModelSelector) shard(user model.UserID) *choiceShard {
	return s.shards[uint64(user)%uint64(len(s.shards))]
}

// Get returns the user's tier, or the default when none was set.
func (s *ModelSelector) Get(user model.UserID) model.Choice {
	sh := s.shard(user)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	if c, ok := sh.choices[user]; ok {
		return c
	}
	return model.DefaultChoice
}

// Toggle flips the user's tier and returns the new value. It is only allowed
// in private chats; elsewhere the state is left unchanged.
func (s *ModelSelector) Toggle(user model.UserID, chatType model.ChatType) (model.Choice, error) {
	sh := s.shard(user)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	current, ok := sh.choices[user]
	if !ok {
		current = model.DefaultChoice
	}
	if !chatType.IsPrivate() {
		return current, fmt.Errorf("%w: switch requires a private chat, got %q", app_errors.ErrInvalidContext, chatType)
	}
	next := current.Toggle()
	sh.choices[user] = next
	return next, nil
}

// Users returns the number of users with an explicit tier.
func (s *ModelSelector) Users() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.choices)
		sh.mu.RUnlock()
	}
	return total
}
