// README: Embedded schema migrations applied with golang-migrate over the pgx/v5 driver.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// DatabaseURL rewrites a postgres:// DSN to the scheme the pgx/v5 driver registers.
func DatabaseURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}

func newMigrate(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", src, DatabaseURL(dsn))
}

// Up applies every pending migration, retrying the connection until ctx ends
// so it can run while the database container is still starting.
func Up(ctx context.Context, dsn string) error {
	var m *migrate.Migrate
	var err error
	for attempt := 1; ; attempt++ {
		m, err = newMigrate(dsn)
		if err == nil {
			break
		}
		log.Printf("migrations: waiting for database (attempt %d): %v", attempt, err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("could not start migrations: %w", err)
		case <-time.After(3 * time.Second):
		}
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	v, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	log.Printf("migrations applied, version=%d dirty=%v", v, dirty)
	return nil
}

// Down rolls back every migration.
func Down(dsn string) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return fmt.Errorf("could not start migrations: %w", err)
	}
	defer m.Close()
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

var createTable = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

// Tables lists the tables created by the up migrations, sorted.
func Tables() ([]string, error) {
	names, err := fs.Glob(files, "sql/*.up.sql")
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, n := range names {
		b, err := fs.ReadFile(files, n)
		if err != nil {
			return nil, err
		}
		for _, m := range createTable.FindAllStringSubmatch(string(b), -1) {
			tables = append(tables, m[1])
		}
	}
	sort.Strings(tables)
	return tables, nil
}
