package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledgerpress/ledgerpress/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB wraps database/sql so that queries can be written once with "?"
// placeholders and rebound for Postgres when pgx is the active driver.
type DB struct {
	*sql.DB
	dialect string
}

// Dialect reports the goose dialect name of the active driver.
func (d *DB) Dialect() string { return d.dialect }

// Query rebinds placeholders for the active driver before querying.
func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return d.DB.Query(d.Rebind(query), args...)
}

// QueryRow rebinds placeholders for the active driver before querying.
func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.DB.QueryRow(d.Rebind(query), args...)
}

// Exec rebinds placeholders for the active driver before executing.
func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.DB.Exec(d.Rebind(query), args...)
}

// Rebind converts "?" placeholders to "$1, $2, ..." for Postgres. SQLite
// queries pass through untouched.
func (d *DB) Rebind(query string) string {
	if d.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Open creates a database connection: Postgres via pgx when cfg.DBURL is set,
// otherwise a local SQLite file with WAL mode and foreign keys enabled.
func Open(cfg config.Config) (*DB, error) {
	if cfg.DBURL != "" {
		pg, err := sql.Open("pgx", cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres database: %w", err)
		}
		if err := pg.Ping(); err != nil {
			return nil, fmt.Errorf("pinging postgres database: %w", err)
		}
		slog.Info("database connected", "driver", "pgx")
		return &DB{DB: pg, dialect: "postgres"}, nil
	}

	// Ensure the directory exists
	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	lite, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := lite.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	slog.Info("database connected", "driver", "sqlite", "path", cfg.DBPath)
	return &DB{DB: lite, dialect: "sqlite3"}, nil
}

// OpenMemory returns an in-memory SQLite database, used by tests.
func OpenMemory() (*DB, error) {
	lite, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Each pooled connection would otherwise see its own empty memory db.
	lite.SetMaxOpenConns(1)
	return &DB{DB: lite, dialect: "sqlite3"}, nil
}
