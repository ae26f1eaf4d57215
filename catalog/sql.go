package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema is portable between SQLite and MySQL.
const schema = `
CREATE TABLE IF NOT EXISTS bodies (
    name        VARCHAR(64) NOT NULL PRIMARY KEY,
    mass        DOUBLE NOT NULL,
    radius      DOUBLE NOT NULL,
    apoapsis    DOUBLE NOT NULL DEFAULT 0,
    periapsis   DOUBLE NOT NULL DEFAULT 0,
    host        VARCHAR(64) NOT NULL DEFAULT '',
    inclination DOUBLE NOT NULL DEFAULT 0,
    colour      VARCHAR(32) NOT NULL DEFAULT '',
    altitude    DOUBLE NOT NULL DEFAULT 0
)`

const columns = "name, mass, radius, apoapsis, periapsis, host, inclination, colour, altitude"

// SQLProvider serves records from the `bodies` table of a SQL database.
type SQLProvider struct {
	db *sql.DB
}

// OpenSQL opens the database with the provided driver ("sqlite" or "mysql").
// The mysql driver must be registered by the caller.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLProvider, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}
	if driver == "sqlite" {
		// SQLite only supports a single writer.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: set busy timeout: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: ping database: %w", err)
	}
	return &SQLProvider{db: db}, nil
}

// Close closes the database.
func (p *SQLProvider) Close() error {
	return p.db.Close()
}

// Migrate creates the bodies table if needed.
func (p *SQLProvider) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("catalog: create schema: %w", err)
	}
	return nil
}

// Lookup implements Provider.
func (p *SQLProvider) Lookup(ctx context.Context, name string) (Record, error) {
	var r Record
	err := p.db.QueryRowContext(ctx, "SELECT "+columns+" FROM bodies WHERE name = ?", name).Scan(
		&r.Name, &r.Mass, &r.Radius, &r.Apoapsis, &r.Periapsis, &r.Host, &r.Inclination, &r.Colour, &r.Altitude)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("catalog: lookup %s: %w", name, err)
	}
	return r, nil
}

// Names implements Provider.
func (p *SQLProvider) Names(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT name FROM bodies ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("catalog: list bodies: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("catalog: scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Put inserts or replaces a record.
func (p *SQLProvider) Put(ctx context.Context, r Record) error {
	return put(ctx, p.db, r)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func put(ctx context.Context, db execer, r Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	_, err := db.ExecContext(ctx, "REPLACE INTO bodies ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.Name, r.Mass, r.Radius, r.Apoapsis, r.Periapsis, r.Host, r.Inclination, r.Colour, r.Altitude)
	if err != nil {
		return fmt.Errorf("catalog: store %s: %w", r.Name, err)
	}
	return nil
}

// Import copies every record of src into the database in a single transaction and returns the
// number of records copied.
func (p *SQLProvider) Import(ctx context.Context, src Provider) (int, error) {
	records, err := All(ctx, src)
	if err != nil {
		return 0, err
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("catalog: begin import: %w", err)
	}
	for _, r := range records {
		if err := put(ctx, tx, r); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("catalog: commit import: %w", err)
	}
	return len(records), nil
}
