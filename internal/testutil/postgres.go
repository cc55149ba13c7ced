// Package testutil provides test helpers including container management.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/deltaland/internal/config"
	"github.com/cory-johannsen/deltaland/internal/storage/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// NewPostgresContainer starts a PostgreSQL test container and returns
// a connected Pool.
//
// Precondition: Docker must be available.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	dbCfg := config.DatabaseConfig{
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v [%s]", err, time.Since(start))
	}

	t.Logf("postgres container started [%s]", time.Since(start))

	pc := &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}

	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(ctx)
	})

	return pc
}

// ApplyMigrations runs the schema creation SQL directly for tests.
// This avoids requiring the migrate tool in the test environment.
//
// Precondition: Pool must be connected.
// Postcondition: The game tables exist in the test database.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	schema := `
		CREATE TABLE IF NOT EXISTS players (
			id          BIGINT PRIMARY KEY,
			name        VARCHAR(100) NOT NULL DEFAULT '',
			level       INTEGER NOT NULL,
			exp         INTEGER NOT NULL DEFAULT 0,
			attack      INTEGER NOT NULL,
			defense     INTEGER NOT NULL,
			hp          INTEGER NOT NULL,
			max_hp      INTEGER NOT NULL,
			mana        INTEGER NOT NULL DEFAULT 0,
			max_mana    INTEGER NOT NULL DEFAULT 0,
			stamina     INTEGER NOT NULL,
			max_stamina INTEGER NOT NULL,
			gold        INTEGER NOT NULL DEFAULT 0,
			inv_size    INTEGER NOT NULL,
			state       INTEGER NOT NULL DEFAULT 0,
			thief_id    BIGINT NOT NULL DEFAULT 0,
			birthday    BIGINT NOT NULL,
			last_seen   BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_players_state ON players (state);

		CREATE TABLE IF NOT EXISTS cooldowns (
			player_id BIGINT NOT NULL,
			kind      INTEGER NOT NULL,
			ends_at   BIGINT NOT NULL,
			PRIMARY KEY (player_id, kind)
		);
		CREATE INDEX IF NOT EXISTS idx_cooldowns_ends_at ON cooldowns (ends_at);
		CREATE INDEX IF NOT EXISTS idx_cooldowns_kind ON cooldowns (kind);

		CREATE TABLE IF NOT EXISTS battle_tactics (
			player_id BIGINT PRIMARY KEY,
			tactic    INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS battle_reports (
			id             UUID NOT NULL,
			player_id      BIGINT PRIMARY KEY,
			tactic         INTEGER NOT NULL,
			monster_tactic INTEGER NOT NULL,
			exp            INTEGER NOT NULL DEFAULT 0,
			gold           INTEGER NOT NULL DEFAULT 0,
			hp             INTEGER NOT NULL DEFAULT 0,
			victory        BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE TABLE IF NOT EXISTS dice_ranks (
			player_id BIGINT PRIMARY KEY,
			gold      INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS battle_ranks (
			player_id BIGINT PRIMARY KEY,
			victories INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS sentinel_ranks (
			player_id BIGINT PRIMARY KEY,
			stopped   INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS items (
			id        BIGSERIAL PRIMARY KEY,
			player_id BIGINT NOT NULL,
			name      VARCHAR(100) NOT NULL,
			attack    INTEGER NOT NULL DEFAULT 0,
			defense   INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_items_player ON items (player_id);
	`

	_, err := pc.RawPool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	t.Logf("migrations applied [%s]", time.Since(start))
}

// NewPool starts a PostgreSQL container with the game schema applied
// and returns the connected pool. Cleanup is registered on t.
func NewPool(t *testing.T) *postgres.Pool {
	t.Helper()
	pc := NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pc.Pool
}

// DSN returns the connection string for the test database.
func (pc *PostgresContainer) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Config.User, pc.Config.Password,
		pc.Config.Host, pc.Config.Port,
		pc.Config.Name, pc.Config.SSLMode,
	)
}
