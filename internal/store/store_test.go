// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"myweblog/internal/database"
	"myweblog/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "myweblog")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "myweblog")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testWebLog creates a throwaway web log with one author. Everything it
// owns is removed by cascade when the test finishes.
func testWebLog(t *testing.T, db *sql.DB) (*models.WebLog, *models.WebLogUser) {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	wl, err := NewWebLogStore(db).Create(ctx, &models.WebLog{
		Name:         "Store Test " + suffix,
		Slug:         "store-test-" + suffix,
		DefaultPage:  "posts",
		PostsPerPage: 10,
		URLBase:      "https://" + suffix + ".store-test.local",
		TimeZone:     "UTC",
		ThemeID:      "default",
		Rss:          models.RssOptions{IsFeedEnabled: true, FeedName: "feed.xml"},
	})
	if err != nil {
		t.Fatalf("create web log: %v", err)
	}
	t.Cleanup(func() { NewWebLogStore(db).Delete(context.Background(), wl.ID) })

	user, err := NewUserStore(db).Create(ctx, &models.WebLogUser{
		WebLogID: wl.ID, Email: "author@" + suffix + ".local", FirstName: "Pat", LastName: "Author",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return wl, user
}
