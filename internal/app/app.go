package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"chat-relay/bot/internal/api"
	"chat-relay/bot/internal/config"
	"chat-relay/bot/internal/database"
	"chat-relay/bot/internal/gateway"
	"chat-relay/bot/internal/interfaces"
	"chat-relay/bot/internal/llm"
	"chat-relay/bot/internal/repository"
	"chat-relay/bot/internal/service"
	"chat-relay/bot/internal/transport/telegram"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired components of the bot.
type App struct {
	DB         *sql.DB
	History    interfaces.HistoryStore
	Selector   *service.ModelSelector
	Gateway    *gateway.Gateway
	Dispatcher *service.Dispatcher
	Bot        *telegram.Bot
	Poller     *telegram.Poller
	Server     *http.Server
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()
	if err := telegram.UseSlog(); err != nil {
		slog.Warn("Failed to route Bot API logs through slog", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		slog.Error("Application stopped with error", "error", err)
		return 1
	}

	slog.Info("Shutdown complete")
	return 0
}

// NewApp builds every component from the configuration. It contacts the Bot
// API once to authenticate the token.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{}

	switch cfg.HistoryBackend {
	case "sqlite":
		db, err := database.InitDB(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db
		a.History = repository.NewSQLiteRepository(db, cfg.MaxHistory)
		slog.Info("Using SQLite history store", "dsn", cfg.DatabasePath, "max_history", cfg.MaxHistory)
	default:
		a.History = repository.NewMemoryRepository(cfg.MaxHistory)
		slog.Info("Using in-memory history store", "max_history", cfg.MaxHistory)
	}

	profiles, err := llm.NewProfileSet(cfg.FastModel, cfg.CapableModel, cfg.SystemInstruction)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Selector = service.NewModelSelector()
	a.Gateway = gateway.NewGateway(
		llm.NewGeminiProvider(cfg.GeminiAPIURL, cfg.GeminiAPIKey),
		profiles,
		gateway.Options{
			Workers:   cfg.WorkerPoolSize,
			QueueSize: cfg.WorkerQueueSize,
			Timeout:   cfg.GenerationTimeout,
		},
	)

	baseURL := strings.TrimRight(cfg.TelegramAPIURL, "/")
	a.Bot, err = telegram.NewBot(cfg.TelegramBotToken, telegram.Options{
		APIEndpoint:  baseURL + "/bot%s/%s",
		FileEndpoint: baseURL + "/file/bot%s/%s",
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	slog.Info("Authenticated with the Bot API", "bot", a.Bot.Username())

	a.Dispatcher = service.NewDispatcher(a.History, a.Selector, a.Gateway, a.Bot, profiles)
	a.Poller = telegram.NewPoller(a.Bot, a.Dispatcher, cfg.PollTimeout)

	if cfg.HTTPAddr != "" {
		router := api.NewRouter(
			api.NewAdminHandler(a.History, a.Selector, a.Gateway),
			api.NewModelHandler(a.Selector, profiles),
		)
		a.Server = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 20 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
	}

	return a, nil
}

// Start runs the poller and the admin server until ctx is cancelled or one of
// them fails. In-flight flows finish before the generation pool is stopped.
func (a *App) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Poller.Run(gctx)
	})

	if a.Server != nil {
		g.Go(func() error {
			slog.Info("Starting admin server", "addr", a.Server.Addr)
			if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return a.Server.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	a.Gateway.Stop()
	return err
}

// Close releases the resources held by the app. It is safe to call after Start.
func (a *App) Close() {
	if a.Gateway != nil {
		a.Gateway.Stop()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
