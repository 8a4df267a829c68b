package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const dropAllFile = "000_drop_all.sql"

// migrationConn is the subset of *pgxpool.Pool used by the migration runner.
type migrationConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// upMigrations は .up.sql ファイル名をソート済みで返す
func upMigrations() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func ensureSchemaMigrations(ctx context.Context, conn migrationConn) error {
	_, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// ApplyMigrations runs every embedded .up.sql file not yet recorded in
// schema_migrations and returns how many were applied.
func ApplyMigrations(ctx context.Context, conn migrationConn) (int, error) {
	if err := ensureSchemaMigrations(ctx, conn); err != nil {
		return 0, err
	}

	files, err := upMigrations()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, filename := range files {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := conn.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name,
		).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		sql, err := migrationFS.ReadFile("migrations/" + filename)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx, string(sql)); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		// Two processes may race on startup; the DDL is IF NOT EXISTS so only the record can collide.
		if _, err := conn.Exec(ctx,
			"INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name,
		); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", name, err)
		}
		applied++
		slog.Info("migration applied", "migration", name)
	}
	return applied, nil
}

// DropAll removes every table the migrations create, including schema_migrations.
func DropAll(ctx context.Context, conn migrationConn) error {
	sql, err := migrationFS.ReadFile("migrations/" + dropAllFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", dropAllFile, err)
	}
	if _, err := conn.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("drop all: %w", err)
	}
	return nil
}
