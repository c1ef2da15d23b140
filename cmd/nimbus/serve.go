package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/nimbusbot/nimbus/internal/ai"
	"github.com/nimbusbot/nimbus/internal/bot"
	"github.com/nimbusbot/nimbus/internal/config"
	"github.com/nimbusbot/nimbus/internal/db"
	"github.com/nimbusbot/nimbus/internal/history"
	"github.com/nimbusbot/nimbus/internal/logger"
	"github.com/nimbusbot/nimbus/internal/search"
	"github.com/nimbusbot/nimbus/internal/sentiment"
	"github.com/nimbusbot/nimbus/internal/server"
	"github.com/nimbusbot/nimbus/internal/users"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDBConn,
			provideAIGateway,
			provideSearchGateway,
			provideHistoryService,
			provideUserService,
			provideBotAPI,
			provideBot,
			provideServer,
		),
		fx.Invoke(
			startServer,
			startBot,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

// loadConfig reads .env (if present), then the TOML config with env
// overlay. Validation is left to callers that need the full credential
// set.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideConfig() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.Postgres); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { conn.Close(); return nil }})
	return conn, nil
}

func provideAIGateway(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (ai.Gateway, error) {
	gateway, err := ai.NewGeminiGateway(context.Background(), log, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("create ai gateway: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return gateway.Close() }})
	return gateway, nil
}

func provideSearchGateway(log *slog.Logger, cfg config.Config) search.Gateway {
	return search.NewSerperClient(log, cfg.Search.APIKey, cfg.Search.BaseURL)
}

func provideHistoryService(log *slog.Logger, conn *pgxpool.Pool) *history.Service {
	return history.NewService(log, conn)
}

func provideUserService(log *slog.Logger, conn *pgxpool.Pool) *users.Service {
	return users.NewService(log, conn)
}

func provideBotAPI(cfg config.Config) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return api, nil
}

func provideBot(log *slog.Logger, api *tgbotapi.BotAPI, aiGateway ai.Gateway, searchGateway search.Gateway, historyService *history.Service, userService *users.Service) *bot.Bot {
	return bot.New(log, api, bot.Deps{
		AI:       aiGateway,
		Search:   searchGateway,
		Activity: historyService,
		Users:    userService,
		Classify: sentiment.Classify,
	})
}

func provideServer(log *slog.Logger, cfg config.Config, historyService *history.Service, userService *users.Service) *server.Server {
	return server.NewServer(log, cfg.Server.Addr, historyService, userService)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func startBot(lc fx.Lifecycle, log *slog.Logger, b *bot.Bot, shutdowner fx.Shutdowner) {
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := b.Run(runCtx); err != nil {
					log.Error("bot stopped", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}
