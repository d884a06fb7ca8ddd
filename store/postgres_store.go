package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mkorobov/playtime-bot/types"
)

const queryTimeout = 5 * time.Second

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = buildPostgresDSNFromEnv()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	if port == "" {
		port = "5432"
	}
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if db == "" {
		db = "playtime_bot"
	}
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	if user == "" {
		user = "playtime_bot"
	}
	pass := os.Getenv("POSTGRES_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", urlEscape(user), urlEscape(pass), host, port, db)
}

func urlEscape(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		":", "%3A",
		"/", "%2F",
		"@", "%40",
		"?", "%3F",
		"#", "%23",
		"[", "%5B",
		"]", "%5D",
	)
	return r.Replace(s)
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// CreateSubscription inserts a zero-day subscription for the guild. The
// primary key on guild_id makes duplicate join notifications a no-op.
func (s *PostgresStore) CreateSubscription(ctx context.Context, guildID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `
INSERT INTO subscriptions (guild_id)
VALUES ($1)
ON CONFLICT (guild_id) DO NOTHING
`, guildID)
	if err != nil {
		return false, fmt.Errorf("create subscription: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) GetSubscription(ctx context.Context, guildID int64) (*types.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var sub types.Subscription
	err := s.pool.QueryRow(ctx, `
SELECT guild_id, start_date, duration_days, created_at, updated_at
FROM subscriptions
WHERE guild_id = $1
`, guildID).Scan(&sub.GuildID, &sub.StartDate, &sub.DurationDays, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}

// ExtendSubscription adds days to the guild's duration as a single
// in-database increment, so concurrent extensions never lose an update.
func (s *PostgresStore) ExtendSubscription(ctx context.Context, guildID int64, days int) (*types.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var sub types.Subscription
	err := s.pool.QueryRow(ctx, `
UPDATE subscriptions
SET duration_days = duration_days + $2, updated_at = NOW()
WHERE guild_id = $1
RETURNING guild_id, start_date, duration_days, created_at, updated_at
`, guildID, days).Scan(&sub.GuildID, &sub.StartDate, &sub.DurationDays, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("extend subscription: %w", err)
	}
	return &sub, nil
}

func (s *PostgresStore) UpsertPermission(ctx context.Context, perm types.Permission) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO permissions (guild_id, user_id, can_add_time, can_remove_time)
VALUES ($1, $2, $3, $4)
ON CONFLICT (guild_id, user_id) DO UPDATE SET
  can_add_time = EXCLUDED.can_add_time,
  can_remove_time = EXCLUDED.can_remove_time,
  updated_at = NOW()
`, perm.GuildID, perm.UserID, perm.CanAddTime, perm.CanRemoveTime)
	if err != nil {
		return fmt.Errorf("upsert permission: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPermission(ctx context.Context, guildID, userID int64) (*types.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var perm types.Permission
	err := s.pool.QueryRow(ctx, `
SELECT guild_id, user_id, can_add_time, can_remove_time, created_at, updated_at
FROM permissions
WHERE guild_id = $1 AND user_id = $2
`, guildID, userID).Scan(&perm.GuildID, &perm.UserID, &perm.CanAddTime, &perm.CanRemoveTime, &perm.CreatedAt, &perm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return &perm, nil
}

func (s *PostgresStore) DeletePermission(ctx context.Context, guildID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
DELETE FROM permissions
WHERE guild_id = $1 AND user_id = $2
`, guildID, userID)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}
