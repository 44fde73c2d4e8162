// README: Test helpers for packages that talk to a real Postgres; skipped unless TAXI_DB_DSN is set.
package testutil

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"taxi/internal/migrations"
)

// Postgres connects to TAXI_DB_DSN, applies the migrations and closes the
// pool when the test ends. Tests are skipped when no DSN is configured.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	loadDotEnv()

	dsn := strings.TrimSpace(os.Getenv("TAXI_DB_DSN"))
	if dsn == "" {
		t.Skip("TAXI_DB_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrations.Up(ctx, dsn); err != nil {
		t.Fatalf("migrate %s: %v", RedactedDSN(dsn), err)
	}
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("%s -> new pool: %v", RedactedDSN(dsn), err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		t.Fatalf("%s -> ping: %v", RedactedDSN(dsn), err)
	}
	t.Cleanup(db.Close)
	return db
}

// RedactedDSN hides the password of a URL-style DSN.
func RedactedDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

// loadDotEnv loads the nearest .env walking up from the working directory.
// Variables already in the environment win.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
