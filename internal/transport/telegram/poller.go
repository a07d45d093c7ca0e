package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chat-relay/bot/internal/interfaces"
)

// Poller long-polls the Bot API and hands every event to the dispatcher on
// its own goroutine, so one slow flow never delays the next update.
type Poller struct {
	bot        *Bot
	dispatcher interfaces.Dispatcher
	timeout    int
	flows      sync.WaitGroup
}

// NewPoller creates a poller. timeout is the long-poll timeout in seconds.
func NewPoller(bot *Bot, dispatcher interfaces.Dispatcher, timeout int) *Poller {
	return &Poller{bot: bot, dispatcher: dispatcher, timeout: timeout}
}

// Run polls until ctx is cancelled, then stops fetching and waits for the
// flows already started to finish.
func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout

	slog.Info("Starting update polling", "bot", p.bot.Username(), "timeout", p.timeout)
	updates := p.bot.api.GetUpdatesChan(cfg)
	go func() {
		<-ctx.Done()
		p.bot.api.StopReceivingUpdates()
	}()

	p.consume(ctx, updates)
	return nil
}

func (p *Poller) consume(ctx context.Context, updates <-chan tgbotapi.Update) {
	// Flows outlive the poll loop so replies in progress are still delivered.
	flowCtx := context.WithoutCancel(ctx)
	defer p.flows.Wait()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping update polling, waiting for in-flight flows")
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := eventFromUpdate(u, p.bot.Username())
			if !ok {
				slog.Debug("Skipping update", "update_id", u.UpdateID)
				continue
			}
			p.flows.Add(1)
			go func() {
				defer p.flows.Done()
				p.dispatcher.Handle(flowCtx, ev)
			}()
		}
	}
}
