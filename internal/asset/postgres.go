package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB is the query surface PostgresStore needs. *sql.DB satisfies it.
type DB interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore reads asset records and the project template from Postgres.
//
// Expected tables:
//
//	projects(name text primary key, publish_template text not null)
//	assets(project text, name text, silo text, primary key (project, name))
type PostgresStore struct {
	db      DB
	project string
}

// NewPostgresStore returns a store scoped to project.
func NewPostgresStore(db DB, project string) *PostgresStore {
	if db == nil {
		return nil
	}
	return &PostgresStore{db: db, project: strings.TrimSpace(project)}
}

// OpenPostgres opens a pgx-backed database handle and verifies it responds.
func OpenPostgres(ctx context.Context, url string, pingTimeout time.Duration) (*sql.DB, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("database url is required")
	}
	if pingTimeout <= 0 {
		pingTimeout = 2 * time.Second
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) FindAsset(ctx context.Context, name string) (Record, error) {
	if s == nil || s.db == nil {
		return Record{}, fmt.Errorf("asset store not initialized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, fmt.Errorf("asset name is required")
	}

	var rec Record
	err := s.db.QueryRowContext(
		ctx,
		`SELECT name, silo FROM assets WHERE project = $1 AND name = $2`,
		s.project,
		name,
	).Scan(&rec.Name, &rec.Silo)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	if err != nil {
		return Record{}, fmt.Errorf("select asset: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) PublishTemplate(ctx context.Context) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("asset store not initialized")
	}

	var tmpl string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT publish_template FROM projects WHERE name = $1`,
		s.project,
	).Scan(&tmpl)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("project %q not found", s.project)
	}
	if err != nil {
		return "", fmt.Errorf("select project: %w", err)
	}
	return tmpl, nil
}
