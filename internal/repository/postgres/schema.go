package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"clubsphere-backend/internal/logger"
)

const (
	usersEmailKey         = "users_email_key"
	pendingRequestKey     = "membership_requests_pending_key"
	clubMembersPrimaryKey = "club_members_pkey"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		user_name     TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'member',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + usersEmailKey + ` ON users (LOWER(email))`,

	// created_by carries no foreign key: a deleted creator resolves to a placeholder.
	`CREATE TABLE IF NOT EXISTS clubs (
		id               TEXT PRIMARY KEY,
		club_name        TEXT NOT NULL,
		club_description TEXT NOT NULL,
		created_by       TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS club_members (
		club_id   TEXT NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
		user_id   TEXT NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ` + clubMembersPrimaryKey + ` PRIMARY KEY (club_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS club_members_user_idx ON club_members (user_id)`,

	`CREATE TABLE IF NOT EXISTS membership_requests (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		club_id     TEXT NOT NULL,
		message     TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'rejected')),
		reviewed_by TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		reviewed_at TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + pendingRequestKey + `
		ON membership_requests (user_id, club_id) WHERE status = 'pending'`,
	`CREATE INDEX IF NOT EXISTS membership_requests_status_idx ON membership_requests (status, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		location    TEXT NOT NULL,
		club_name   TEXT NOT NULL,
		date        TEXT NOT NULL,
		time        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	logger.Info("Database schema ensured", "statements", len(schema))
	return nil
}
