package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mkorobov/playtime-bot/internal/access"
	"github.com/mkorobov/playtime-bot/internal/commands"
	"github.com/mkorobov/playtime-bot/internal/config"
	"github.com/mkorobov/playtime-bot/internal/handlers"
	"github.com/mkorobov/playtime-bot/internal/middleware"
	"github.com/mkorobov/playtime-bot/store"
)

func main() {
	_ = config.LoadEnvFile("config.env")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "playtime_bot")
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	pgStore, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()

	cached := store.NewCachedStore(pgStore, pgStore, rdb, cfg.CacheTTL)

	gate := access.NewGate(cached, cached, cfg.OwnerID)
	dispatcher := commands.NewDispatcher(gate, cached, cached)
	h := handlers.NewHandlers(dispatcher, cached)

	httpClient := &http.Client{
		Timeout: time.Minute,
	}
	pollTimeout := 50 * time.Second

	b, err := bot.New(
		cfg.BotToken,
		bot.WithHTTPClient(pollTimeout, httpClient),
	)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	handlerChain := middleware.RequestID(
		middleware.Logger(
			h.HandleUpdate,
		),
	)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil || update.MyChatMember != nil
	}, handlerChain)

	log.Println("Bot started. Press Ctrl+C to stop.")
	b.Start(ctx)
}
