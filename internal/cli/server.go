package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizmaster/internal/app"
	"quizmaster/internal/bank"
	"quizmaster/internal/config"
	pgloader "quizmaster/internal/infra/postgres"
	redisstate "quizmaster/internal/infra/redis"
	"quizmaster/internal/infra/memory"
	"quizmaster/internal/registry"
	transport "quizmaster/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz administration server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var state app.StateRepository = memory.NewStateStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		state = redisstate.NewStateStore(client)
	}

	var loader bank.Loader = bank.NewStaticLoader()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		loader = pgloader.NewBankLoader(pool)
	}
	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	banks := bank.NewRepository(loader, bankTTL)

	business := registry.NewBusiness(state)
	reading := registry.NewReading(state)
	attempts := app.NewAttemptService(state)
	engine := app.NewEngine(attempts, banks, state)
	gate := app.NewAccessGate(business, reading, attempts, engine, state)
	admin := app.NewAdminService(app.Credentials{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, attempts, business, reading, state)

	sessionHandler := transport.NewSessionHandler(gate)
	adminHandler := transport.NewAdminHandler(admin, state)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws/quiz", sessionHandler.ServeWS)
	mux.HandleFunc("/ws/admin", adminHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizmaster on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
