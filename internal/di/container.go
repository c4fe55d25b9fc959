package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/redis/go-redis/v9"
	alertRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/repository"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/sender"
	alertService "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/service"
	chatRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/repository"
	chatService "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/service"
	feedService "github.com/reshetovitsme/chat-alert-bot/internal/modules/feed/service"
	subscriberRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/repository"
	subscriberService "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/service"
	"github.com/reshetovitsme/chat-alert-bot/internal/shared/config"
	httpServer "github.com/reshetovitsme/chat-alert-bot/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/chat-alert-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Redis client (only invoked when the redis backend is selected)
	do.Provide(injector, func(i do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, oops.With("redis_addr", cfg.RedisAddr, "context", "failed to connect to redis").Wrap(err)
		}
		return client, nil
	})

	// Register Chat Repository
	do.Provide(injector, func(i do.Injector) (chatRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.StorageBackend == config.StorageBackendRedis {
			client := do.MustInvoke[*redis.Client](i)
			return chatRepo.NewRedisStorage(client), nil
		}
		repo, err := chatRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize chat repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Subscriber Repository
	do.Provide(injector, func(i do.Injector) (subscriberRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.StorageBackend == config.StorageBackendRedis {
			client := do.MustInvoke[*redis.Client](i)
			return subscriberRepo.NewRedisStorage(client), nil
		}
		repo, err := subscriberRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize subscriber repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Alert Repository
	do.Provide(injector, func(i do.Injector) (alertRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.StorageBackend == config.StorageBackendRedis {
			client := do.MustInvoke[*redis.Client](i)
			return alertRepo.NewRedisStorage(client), nil
		}
		repo, err := alertRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize alert repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Chat Service
	do.Provide(injector, func(i do.Injector) (*chatService.Service, error) {
		repo := do.MustInvoke[chatRepo.Repository](i)
		return chatService.New(repo), nil
	})

	// Register Subscriber Service
	do.Provide(injector, func(i do.Injector) (*subscriberService.Service, error) {
		repo := do.MustInvoke[subscriberRepo.Repository](i)
		return subscriberService.New(repo), nil
	})

	// Register Telegram Sender (the bot instance is injected after bot.New)
	do.Provide(injector, func(i do.Injector) (*sender.TelegramSender, error) {
		return sender.NewTelegramSender(), nil
	})

	// Register Voice Call Sender
	do.Provide(injector, func(i do.Injector) (*sender.VoiceCallSender, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return sender.NewVoiceCallSender(cfg.CallAPIURL, cfg.CallAPIParams(), cfg.CallTimeout()), nil
	})

	// Register Alert Service
	do.Provide(injector, func(i do.Injector) (*alertService.Service, error) {
		subscribers := do.MustInvoke[*subscriberService.Service](i)
		repo := do.MustInvoke[alertRepo.Repository](i)
		messageSender := do.MustInvoke[*sender.TelegramSender](i)
		voiceSender := do.MustInvoke[*sender.VoiceCallSender](i)
		return alertService.New(subscribers, repo, messageSender, voiceSender), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		chats := do.MustInvoke[chatRepo.Repository](i)
		alerts := do.MustInvoke[alertRepo.Repository](i)
		return feedService.New(chats, alerts), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		chats := do.MustInvoke[*chatService.Service](i)
		subscribers := do.MustInvoke[*subscriberService.Service](i)
		dispatcher := do.MustInvoke[*alertService.Service](i)
		return telegramHandler.New(cfg, chats, subscribers, dispatcher), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		chats := do.MustInvoke[*chatService.Service](i)
		subscribers := do.MustInvoke[*subscriberService.Service](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		server := httpServer.New(cfg, chats, subscribers, feeds)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)

		// In-app notifications go out through the same bot instance
		messageSender := do.MustInvoke[*sender.TelegramSender](i)
		messageSender.SetBot(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	// Close redis only when that backend is configured; invoking the
	// provider otherwise would lazily open a connection just to close it
	if cfg, err := do.Invoke[*config.Config](injector); err == nil && cfg.StorageBackend == config.StorageBackendRedis {
		if client, err := do.Invoke[*redis.Client](injector); err == nil && client != nil {
			client.Close()
		}
	}

	return nil
}
