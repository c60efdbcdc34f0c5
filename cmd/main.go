package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"

	"github.com/Vovarama1992/intickets-support/internal/ai"
	"github.com/Vovarama1992/intickets-support/internal/config"
	"github.com/Vovarama1992/intickets-support/internal/dialog"
	"github.com/Vovarama1992/intickets-support/internal/intent"
	"github.com/Vovarama1992/intickets-support/internal/operator"
	"github.com/Vovarama1992/intickets-support/internal/phrases"
	"github.com/Vovarama1992/intickets-support/internal/support"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	repo := openRepo(ctx, cfg.DatabaseURL)

	// --- phrases ---
	phraseSource, err := phrases.NewSource(cfg.PhrasesFile)
	if err != nil {
		log.Fatalf("phrases error: %v", err)
	}
	defer phraseSource.Close()
	go phraseSource.Watch(ctx)

	// --- Telegram outbound + operator queue ---
	telegram := support.NewTelegramOutbound(cfg.BotToken, cfg.TelegramURL)

	if cfg.OperatorChatID == 0 {
		log.Println("[operator] OPERATOR_CHAT_ID is not set, operator notifications disabled")
	}
	dispatcher := operator.NewDispatcher(telegram, cfg.OperatorChatID, cfg.OperatorQueueSize)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// --- AI ---
	contexts := openContextStore(ctx, cfg)
	assistant := ai.NewAssistant(ai.NewOpenAIClient(cfg.DeepSeekKey, cfg.DeepSeekURL, cfg.DeepSeekModel), contexts)

	// --- cascade ---
	handlers := intent.NewHandlers(dialog.Deps{
		Phrases:  phraseSource,
		Notifier: dispatcher,
		Requests: repo,
	})
	router := intent.NewRouter(intent.Config{
		Phrases:   phraseSource,
		Handlers:  handlers,
		Assistant: assistant,
		Notifier:  dispatcher,
		Typer:     telegram,
	})
	log.Printf("[router] stages: %v", router.Stages())

	// --- HTTP ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Telegram-Bot-Api-Secret-Token"},
	}))

	supportService := support.NewService(repo, router, telegram)
	supportHandler := support.NewHandler(supportService, cfg.WebhookSecret)
	support.RegisterRoutes(r, supportHandler)

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// openRepo: без DATABASE_URL бот работает без журнала.
func openRepo(ctx context.Context, dsn string) support.Repo {
	if dsn == "" {
		return support.NewNopRepo()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	repo := support.NewRepo(db)
	if err := repo.EnsureSchema(pingCtx); err != nil {
		log.Printf("[store] %v", err)
	}
	return repo
}

func openContextStore(ctx context.Context, cfg config.Config) ai.ContextStore {
	if cfg.RedisAddr == "" {
		log.Println("[ai] REDIS_ADDR is not set, AI context kept in memory")
		return ai.NewMemoryStore()
	}

	store := ai.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Printf("[ai] redis %s unavailable, falling back to memory: %v", cfg.RedisAddr, err)
		store.Close()
		return ai.NewMemoryStore()
	}
	return store
}
