package telegram

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// slogAdapter routes the Bot API library's log output through slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Println(v ...interface{}) {
	a.logger.Warn(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (a slogAdapter) Printf(format string, v ...interface{}) {
	a.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// UseSlog makes the Bot API library log through the default slog logger.
func UseSlog() error {
	return tgbotapi.SetLogger(slogAdapter{logger: slog.Default().With("component", "telegram")})
}
