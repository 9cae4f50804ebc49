package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"quizmaster/internal/app"
	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
	pgloader "quizmaster/internal/infra/postgres"
	pgmigrations "quizmaster/internal/infra/postgres/migrations"
	infraredis "quizmaster/internal/infra/redis"
	"quizmaster/internal/registry"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedBank(t, ctx, pgURL, sampleBank())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	store := infraredis.NewStateStore(redisClient)
	attempts := app.NewAttemptService(store)
	banks := bank.NewRepository(pgloader.NewBankLoader(pool), 5*time.Minute)
	identities := []domain.ParticipantIdentity{
		{ID: "p1", DisplayName: "Alice", AccessCode: "AAAA1111"},
	}
	business := registry.NewWithIdentities(bank.TrackBusiness, identities, store)
	reading := registry.NewWithIdentities(bank.TrackReading, identities, store)
	engine := app.NewEngine(attempts, banks, store)
	gate := app.NewAccessGate(business, reading, attempts, engine, store)
	admin := app.NewAdminService(app.Credentials{Email: "admin@quiz.com", Password: "admin123"}, attempts, business, reading, store)

	session, err := gate.LoginBusiness(ctx, "aaaa1111", domain.Profile{CollegeName: "Test College", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer session.Close()

	session.Select("4")
	session.Next(ctx)
	session.Select("7")

	result, err := session.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 1 || result.TotalQuestions != 2 {
		t.Fatalf("expected score 1 of 2, got %+v", result)
	}

	dashboard, err := admin.Dashboard(ctx, bank.TrackBusiness, app.Query{})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.Stats.Total != 1 || dashboard.Stats.HighScore != 1 {
		t.Fatalf("unexpected stats: %+v", dashboard.Stats)
	}
	attemptID := dashboard.Attempts[0].ID

	// Two-press delete removes the attempt and bans the owner.
	if pending, err := admin.DeleteAttempt(ctx, bank.TrackBusiness, attemptID); err != nil || !pending {
		t.Fatalf("arm delete: pending=%v err=%v", pending, err)
	}
	if pending, err := admin.DeleteAttempt(ctx, bank.TrackBusiness, attemptID); err != nil || pending {
		t.Fatalf("confirm delete: pending=%v err=%v", pending, err)
	}
	if _, err := gate.LoginBusiness(ctx, "AAAA1111", domain.Profile{}); err != domain.ErrAccessRevoked {
		t.Fatalf("expected revoked access after deletion, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedBank(t *testing.T, ctx context.Context, dsn string, questions domain.QuestionBank) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(questions)
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO question_banks (id, data) VALUES (? , ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, questions.ID, string(data)); err != nil {
		t.Fatalf("insert bank: %v", err)
	}
}

func sampleBank() domain.QuestionBank {
	return domain.QuestionBank{
		ID: "quiz1",
		Questions: []domain.Question{
			{ID: 1, Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, CorrectAnswer: "4"},
			{ID: 2, Prompt: "What is 3 + 3?", Options: []string{"5", "6", "7"}, CorrectAnswer: "6"},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
