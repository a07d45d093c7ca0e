// Package telegram adapts the Telegram Bot API to the bot's transport
// contract and turns long-polled updates into model events.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app_errors "chat-relay/bot/internal/errors"
	"chat-relay/bot/internal/interfaces"
	"chat-relay/bot/internal/model"
)

const (
	// MaxMessageLength is Telegram's limit for one text message, in runes.
	MaxMessageLength = 4096
	// maxDownloadSize is the largest file the Bot API lets bots download.
	maxDownloadSize = 20 << 20

	fallbackImageMIME = "image/jpeg"
	notModifiedError  = "message is not modified"
)

var _ interfaces.Transport = (*Bot)(nil)

// Options overrides the Bot API endpoints. Zero values select the public API.
type Options struct {
	APIEndpoint  string
	FileEndpoint string
	Client       *http.Client
}

// Bot is the Telegram implementation of interfaces.Transport.
type Bot struct {
	api          *tgbotapi.BotAPI
	client       *http.Client
	fileEndpoint string
}

// NewBot authenticates against the Bot API with the given token.
func NewBot(token string, opts Options) (*Bot, error) {
	if opts.APIEndpoint == "" {
		opts.APIEndpoint = tgbotapi.APIEndpoint
	}
	if opts.FileEndpoint == "" {
		opts.FileEndpoint = tgbotapi.FileEndpoint
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 90 * time.Second}
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, opts.APIEndpoint, opts.Client)
	if err != nil {
		return nil, fmt.Errorf("%w: could not authenticate bot: %v", app_errors.ErrTransport, err)
	}

	return &Bot{api: api, client: opts.Client, fileEndpoint: opts.FileEndpoint}, nil
}

// Username returns the bot's account name as reported by getMe.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// SendText sends text to a chat. Texts over MaxMessageLength are split and
// the handle of the first message is returned.
func (b *Bot) SendText(ctx context.Context, chatID int64, text string) (model.MessageHandle, error) {
	var first model.MessageHandle
	for i, chunk := range splitText(text, MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return first, err
		}
		msg, err := b.api.Send(tgbotapi.NewMessage(chatID, chunk))
		if err != nil {
			return first, fmt.Errorf("%w: send message: %v", app_errors.ErrTransport, err)
		}
		if i == 0 {
			first = model.MessageHandle{ChatID: chatID, MessageID: msg.MessageID}
		}
	}
	return first, nil
}

// EditText replaces the text of a sent message. Text beyond the first chunk
// is sent as follow-up messages. Editing to identical text is not an error.
func (b *Bot) EditText(ctx context.Context, handle model.MessageHandle, text string) error {
	chunks := splitText(text, MaxMessageLength)
	if err := ctx.Err(); err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(handle.ChatID, handle.MessageID, chunks[0])
	if _, err := b.api.Request(edit); err != nil && !strings.Contains(err.Error(), notModifiedError) {
		return fmt.Errorf("%w: edit message: %v", app_errors.ErrTransport, err)
	}

	for _, chunk := range chunks[1:] {
		if _, err := b.SendText(ctx, handle.ChatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// DownloadPhoto fetches the file behind ref and sniffs its MIME type.
func (b *Bot) DownloadPhoto(ctx context.Context, ref model.PhotoRef) ([]byte, string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: ref.FileID})
	if err != nil {
		return nil, "", fmt.Errorf("%w: get file %s: %v", app_errors.ErrTransport, ref.FileID, err)
	}

	url := fmt.Sprintf(b.fileEndpoint, b.api.Token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: build download request: %v", app_errors.ErrTransport, err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: download file: %v", app_errors.ErrTransport, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close download body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: download file: unexpected status %d", app_errors.ErrTransport, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read file: %v", app_errors.ErrTransport, err)
	}
	if len(data) > maxDownloadSize {
		return nil, "", fmt.Errorf("%w: file %s exceeds %d bytes", app_errors.ErrTransport, ref.FileID, maxDownloadSize)
	}

	return data, detectImageMIME(data), nil
}

func detectImageMIME(data []byte) string {
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "image/") {
		return mt.String()
	}
	return fallbackImageMIME
}

// splitText cuts text into chunks of at most limit runes. It always returns
// at least one chunk.
func splitText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		n := min(limit, len(runes))
		// Prefer breaking at the last newline of the chunk.
		if n < len(runes) {
			for i := n - 1; i >= n/2; i-- {
				if runes[i] == '\n' {
					n = i + 1
					break
				}
			}
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
