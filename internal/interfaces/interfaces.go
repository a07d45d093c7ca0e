package interfaces

import (
	"context"

	"chat-relay/bot/internal/llm"
	"chat-relay/bot/internal/model"
)

// This file defines the contracts between the bot's components. The
// dispatcher, the poller and the admin API depend on these interfaces rather
// than on concrete implementations, which keeps them testable with the mocks
// in the mocks sub-package.

// HistoryStore keeps a bounded, per-user conversation log.
// Implementations must be safe for concurrent use and serialize operations
// on the same user.
type HistoryStore interface {
	// Get returns a copy of the user's history, oldest first. Unknown users
	// have an empty history.
	Get(ctx context.Context, user model.UserID) ([]model.Turn, error)
	// Append adds a turn, drops the oldest turns beyond the bound and returns
	// the resulting history as one atomic step.
	Append(ctx context.Context, user model.UserID, turn model.Turn) ([]model.Turn, error)
	// Clear resets the user's history to empty.
	Clear(ctx context.Context, user model.UserID) error
	// Users returns the number of users with a recorded history.
	Users(ctx context.Context) (int, error)
}

// ModelSelector keeps each user's backend tier. The tier changes only
// through Toggle, which backs the /switch command.
type ModelSelector interface {
	Get(user model.UserID) model.Choice
	// Toggle flips the user's tier. Outside private chats it returns
	// errors.ErrInvalidContext and leaves the state untouched.
	Toggle(user model.UserID, chatType model.ChatType) (model.Choice, error)
	Users() int
}

// Generator turns a conversation request into text without blocking the
// caller's goroutine on the backend call itself.
type Generator interface {
	Generate(ctx context.Context, req *llm.GenerateRequest) (string, error)
	Stats() model.GenerationStats
}

// Transport is the capability set the bot consumes from the messaging layer.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) (model.MessageHandle, error)
	EditText(ctx context.Context, handle model.MessageHandle, text string) error
	// DownloadPhoto returns the bytes of a photo and their MIME type.
	DownloadPhoto(ctx context.Context, ref model.PhotoRef) ([]byte, string, error)
}

// Dispatcher handles one inbound event end to end.
type Dispatcher interface {
	Handle(ctx context.Context, event model.Event)
}
