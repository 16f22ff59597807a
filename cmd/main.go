package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/commonbase/backlog"
	"github.com/w-h-a/commonbase/embedder"
	googleembedder "github.com/w-h-a/commonbase/embedder/google"
	openaiembedder "github.com/w-h-a/commonbase/embedder/openai"
	"github.com/w-h-a/commonbase/gateway/telegram"
	httpserver "github.com/w-h-a/commonbase/server/http"
	"github.com/w-h-a/commonbase/store"
	memorystore "github.com/w-h-a/commonbase/store/memory"
	postgresstore "github.com/w-h-a/commonbase/store/postgres"

	"github.com/w-h-a/commonbase/internal/service/chat"
	"github.com/w-h-a/commonbase/internal/service/engine"
)

var (
	cfg struct {
		// Store config
		StoreLocation string `help:"Postgres DSN for the corpus store; empty runs the in-memory store" env:"STORE_LOCATION" default:""`

		// Embedder config
		EmbedderProvider string `help:"Embedding provider (openai or google)" env:"EMBEDDER_PROVIDER" default:"openai"`
		EmbedderModel    string `help:"Model identifier for vector embeddings" env:"EMBEDDER_MODEL" default:"text-embedding-3-small"`
		APIKey           string `help:"API key for the embedding provider" env:"EMBEDDER_API_KEY" default:""`

		// Retrieval policy
		DefaultThreshold float64       `help:"Similarity bar for first-attempt queries" env:"DEFAULT_THRESHOLD" default:"0.5"`
		ExpandThreshold  float64       `help:"Relaxed similarity bar for /expand" env:"EXPAND_THRESHOLD" default:"0.3"`
		BacklogTTL       time.Duration `help:"Interval of the global backlog sweep" env:"BACKLOG_TTL" default:"24h"`
		CallTimeout      time.Duration `help:"Timeout for embedding and store calls" env:"CALL_TIMEOUT" default:"15s"`

		// Transports
		TelegramToken string `help:"Telegram bot token; empty disables the telegram gateway" env:"TELEGRAM_BOT_TOKEN" default:""`
		HTTPAddress   string `help:"Listen address for the HTTP gateway" env:"HTTP_ADDRESS" default:":8080"`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Corpus store
	var st store.Store
	if len(cfg.StoreLocation) > 0 {
		st = postgresstore.NewStore(
			store.WithLocation(cfg.StoreLocation),
		)
	} else {
		st = memorystore.NewStore()
		slog.WarnContext(ctx, "no store location configured, records will not survive a restart")
	}

	// Embedding provider
	var emb embedder.Embedder
	switch cfg.EmbedderProvider {
	case "google":
		emb = googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.APIKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
	default:
		emb = openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.APIKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
	}

	// Pending query backlog with its periodic sweep
	buffer := backlog.NewBuffer(
		backlog.WithTTL(cfg.BacklogTTL),
	)
	buffer.Start(ctx)

	// Core engine + chat dispatch
	eng := engine.New(
		emb,
		st,
		buffer,
		engine.WithDefaultThreshold(cfg.DefaultThreshold),
		engine.WithExpandThreshold(cfg.ExpandThreshold),
		engine.WithTimeout(cfg.CallTimeout),
	)
	svc := chat.New(eng, st)

	errCh := make(chan error, 2)

	srv := httpserver.NewServer(
		svc,
		httpserver.WithAddress(cfg.HTTPAddress),
	)
	go func() {
		errCh <- srv.Run(ctx)
	}()

	if len(cfg.TelegramToken) > 0 {
		gw, err := telegram.NewGateway(
			svc,
			telegram.WithToken(cfg.TelegramToken),
		)
		if err != nil {
			log.Fatalf("failed to create telegram gateway: %v", err)
		}
		go func() {
			errCh <- gw.Run(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.ErrorContext(ctx, "transport stopped", "error", err)
		}
	}
}
