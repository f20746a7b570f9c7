package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Options struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Connect opens the Postgres pool and applies migrations.
func Connect(ctx context.Context, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            phone TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            avatar TEXT NOT NULL DEFAULT '👤',
            status TEXT NOT NULL DEFAULT '',
            last_seen TIMESTAMP WITH TIME ZONE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
	`CREATE TABLE IF NOT EXISTS chats (
            id SERIAL PRIMARY KEY,
            name TEXT,
            is_group BOOLEAN NOT NULL DEFAULT FALSE,
            dm_low_id INT REFERENCES users(id),
            dm_high_id INT REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CHECK (dm_low_id IS NULL OR dm_low_id < dm_high_id),
            UNIQUE (dm_low_id, dm_high_id)
        );`,
	`CREATE TABLE IF NOT EXISTS chat_members (
            chat_id INT NOT NULL REFERENCES chats(id),
            user_id INT NOT NULL REFERENCES users(id),
            joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (chat_id, user_id)
        );`,
	`CREATE INDEX IF NOT EXISTS chat_members_user_idx ON chat_members (user_id, chat_id);`,
	`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            chat_id INT NOT NULL REFERENCES chats(id),
            sender_id INT NOT NULL REFERENCES users(id),
            text TEXT NOT NULL,
            encrypted BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
	`CREATE INDEX IF NOT EXISTS messages_chat_created_idx ON messages (chat_id, created_at, id);`,
}

// Migrate creates missing tables and indexes. Existing data is kept.
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	slog.InfoContext(ctx, "database migrations applied", slog.Int("statements", len(migrations)))
	return nil
}
