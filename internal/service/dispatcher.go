package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	app_errors "chat-relay/bot/internal/errors"
	"chat-relay/bot/internal/interfaces"
	"chat-relay/bot/internal/llm"
	"chat-relay/bot/internal/model"
)

// Dispatcher runs one inbound event through its flow: a command, a text
// conversation round, or a photo request. Each call is independent; failures
// in one flow are logged and reported to that user only.
type Dispatcher struct {
	history   interfaces.HistoryStore
	selector  interfaces.ModelSelector
	generator interfaces.Generator
	transport interfaces.Transport
	profiles  *llm.ProfileSet
}

// NewDispatcher wires a dispatcher to its collaborators.
func NewDispatcher(
	history interfaces.HistoryStore,
	selector interfaces.ModelSelector,
	generator interfaces.Generator,
	transport interfaces.Transport,
	profiles *llm.ProfileSet,
) *Dispatcher {
	return &Dispatcher{
		history:   history,
		selector:  selector,
		generator: generator,
		transport: transport,
		profiles:  profiles,
	}
}

// Handle processes a single event. It never panics and never returns an
// error: whatever happens stays inside this event's flow.
func (d *Dispatcher) Handle(ctx context.Context, ev model.Event) {
	logger := slog.With(
		"request_id", uuid.NewString(),
		"user_id", int64(ev.UserID),
		"chat_id", ev.ChatID,
		"chat_type", string(ev.ChatType),
	)
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Recovered from panic while handling event", "panic", p, "stack", string(debug.Stack()))
		}
	}()

	switch {
	case ev.Command != "":
		d.handleCommand(ctx, ev, logger.With("flow", "command", "command", ev.Command))
	case ev.HasPhoto():
		d.handlePhoto(ctx, ev, logger.With("flow", "photo"))
	case strings.TrimSpace(ev.Text) != "":
		d.handleText(ctx, ev, logger.With("flow", "text"))
	default:
		logger.Debug("Ignoring event without text, command or photo", "update_id", ev.UpdateID)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, ev model.Event, logger *slog.Logger) {
	switch ev.Command {
	case CommandStart:
		d.send(ctx, ev.ChatID, WelcomeText, logger)

	case CommandClear:
		if err := d.history.Clear(ctx, ev.UserID); err != nil {
			logger.Error("Failed to clear history", "error", err)
			d.send(ctx, ev.ChatID, ErrorNotice, logger)
			return
		}
		logger.Info("History cleared")
		d.send(ctx, ev.ChatID, HistoryClearedText, logger)

	case CommandSwitch:
		choice, err := d.selector.Toggle(ev.UserID, ev.ChatType)
		if errors.Is(err, app_errors.ErrInvalidContext) {
			logger.Info("Rejected switch outside private chat")
			d.send(ctx, ev.ChatID, SwitchRejectedText, logger)
			return
		}
		if err != nil {
			logger.Error("Failed to switch model", "error", err)
			d.send(ctx, ev.ChatID, ErrorNotice, logger)
			return
		}
		logger.Info("Switched model", "profile", string(choice))
		d.send(ctx, ev.ChatID, fmt.Sprintf(SwitchConfirmFormat, d.profiles.ModelName(choice), choice), logger)

	default:
		logger.Debug("Ignoring unknown command")
	}
}

// handleText runs one conversation round: record the user turn, show a
// placeholder, generate from the full history, then record the model turn
// and replace the placeholder with the answer. On failure the user turn
// stays in the history and a fixed notice is sent as a new message.
func (d *Dispatcher) handleText(ctx context.Context, ev model.Event, logger *slog.Logger) {
	text := strings.TrimSpace(ev.Text)

	history, err := d.history.Append(ctx, ev.UserID, model.UserTurn(text))
	if err != nil {
		logger.Error("Failed to append user turn", "error", err)
		d.send(ctx, ev.ChatID, ErrorNotice, logger)
		return
	}

	placeholder, placeholderErr := d.transport.SendText(ctx, ev.ChatID, GeneratingNotice)
	if placeholderErr != nil {
		logger.Warn("Failed to send placeholder", "error", placeholderErr)
	}

	choice := d.selector.Get(ev.UserID)
	last := len(history) - 1
	req := &llm.GenerateRequest{
		Choice:  choice,
		History: history[:last],
		Input:   history[last].Content,
	}
	logger.Debug("Generating reply", "profile", string(choice), "history_len", len(history))

	reply, err := d.generator.Generate(ctx, req)
	if err != nil {
		logger.Error("Generation failed", "profile", string(choice), "error", err)
		d.send(ctx, ev.ChatID, ErrorNotice, logger)
		return
	}
	reply = strings.TrimSpace(reply)

	if _, err := d.history.Append(ctx, ev.UserID, model.ModelTurn(reply)); err != nil {
		logger.Error("Failed to append model turn", "error", err)
	}

	if placeholderErr != nil {
		d.send(ctx, ev.ChatID, reply, logger)
		return
	}
	d.edit(ctx, placeholder, reply, logger)
	logger.Info("Replied", "profile", string(choice))
}

// handlePhoto answers a photo in a single request. Photos are never added to
// the conversation history and the tier depends on the chat type only.
func (d *Dispatcher) handlePhoto(ctx context.Context, ev model.Event, logger *slog.Logger) {
	ack, ackErr := d.transport.SendText(ctx, ev.ChatID, ImageReceivedNotice)
	if ackErr != nil {
		logger.Warn("Failed to send image acknowledgment", "error", ackErr)
	}

	ref, _ := ev.LargestPhoto()
	data, mimeType, err := d.transport.DownloadPhoto(ctx, ref)
	if err != nil {
		logger.Error("Failed to download photo", "file_id", ref.FileID, "error", err)
		d.send(ctx, ev.ChatID, ErrorNotice, logger)
		return
	}

	prompt := imageCaptionLabel + strings.TrimSpace(ev.Caption) + "\n"
	choice := model.ImageChoice(ev.ChatType)

	if ackErr == nil {
		if err := d.transport.EditText(ctx, ack, GeneratingNotice); err != nil {
			logger.Warn("Failed to update image acknowledgment", "error", err)
		}
	}

	reply, err := d.generator.Generate(ctx, &llm.GenerateRequest{
		Choice: choice,
		Input:  model.ImageContent(data, mimeType, prompt),
	})
	if err != nil {
		logger.Error("Image generation failed", "profile", string(choice), "error", err)
		d.send(ctx, ev.ChatID, ErrorNotice, logger)
		return
	}
	reply = strings.TrimSpace(reply)

	if ackErr != nil {
		d.send(ctx, ev.ChatID, reply, logger)
		return
	}
	d.edit(ctx, ack, reply, logger)
	logger.Info("Replied to photo", "profile", string(choice), "bytes", len(data), "mime_type", mimeType)
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string, logger *slog.Logger) {
	if _, err := d.transport.SendText(ctx, chatID, text); err != nil {
		logger.Warn("Failed to send message", "error", err)
	}
}

// edit replaces a message's text. If the edit fails the text is sent as a new
// message so the answer is not lost.
func (d *Dispatcher) edit(ctx context.Context, handle model.MessageHandle, text string, logger *slog.Logger) {
	if err := d.transport.EditText(ctx, handle, text); err != nil {
		logger.Warn("Failed to edit message, sending a new one", "message_id", handle.MessageID, "error", err)
		d.send(ctx, handle.ChatID, text, logger)
	}
}
