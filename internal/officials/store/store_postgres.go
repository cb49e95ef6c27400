package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"represent/internal/officials/models"
	"represent/pkg/platform/sentinel"
)

// PostgresStore persists officials in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE officials (
//	    id           TEXT PRIMARY KEY,
//	    name         TEXT NOT NULL,
//	    office       TEXT NOT NULL,
//	    party        TEXT NOT NULL DEFAULT '',
//	    state        TEXT NOT NULL,
//	    division_id  TEXT NOT NULL,
//	    jurisdiction TEXT NOT NULL,
//	    email        TEXT NOT NULL DEFAULT '',
//	    phone        TEXT NOT NULL DEFAULT '',
//	    address      TEXT NOT NULL DEFAULT '',
//	    website      TEXT NOT NULL DEFAULT '',
//	    photo_url    TEXT NOT NULL DEFAULT '',
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX officials_division_idx ON officials (division_id);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pooled Postgres officials store.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Health checks database connectivity.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const officialColumns = `id, name, office, party, state, division_id, jurisdiction,
	email, phone, address, website, photo_url, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, o *models.Official) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO officials (`+officialColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.Name, o.Office, o.Party, o.State, o.DivisionID, o.Jurisdiction,
		o.Email, o.Phone, o.Address, o.Website, o.PhotoURL, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create official: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Official, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+officialColumns+` FROM officials WHERE id = $1`, id)
	official, err := scanOfficial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get official: %w", err)
	}
	return official, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Official, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+officialColumns+` FROM officials ORDER BY division_id, name`)
	if err != nil {
		return nil, fmt.Errorf("list officials: %w", err)
	}
	defer rows.Close()
	return collectOfficials(rows)
}

func (s *PostgresStore) ListByDivisions(ctx context.Context, divisionIDs []string) ([]*models.Official, error) {
	if len(divisionIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+officialColumns+` FROM officials
		 WHERE division_id = ANY($1)
		 ORDER BY division_id, name`, divisionIDs)
	if err != nil {
		return nil, fmt.Errorf("list officials by division: %w", err)
	}
	defer rows.Close()
	return collectOfficials(rows)
}

func (s *PostgresStore) Update(ctx context.Context, o *models.Official) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE officials
		SET name = $2, office = $3, party = $4, state = $5, division_id = $6,
		    jurisdiction = $7, email = $8, phone = $9, address = $10,
		    website = $11, photo_url = $12, updated_at = $13
		WHERE id = $1`,
		o.ID, o.Name, o.Office, o.Party, o.State, o.DivisionID, o.Jurisdiction,
		o.Email, o.Phone, o.Address, o.Website, o.PhotoURL, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update official: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM officials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete official: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanOfficial(row pgx.Row) (*models.Official, error) {
	var o models.Official
	err := row.Scan(&o.ID, &o.Name, &o.Office, &o.Party, &o.State, &o.DivisionID,
		&o.Jurisdiction, &o.Email, &o.Phone, &o.Address, &o.Website, &o.PhotoURL,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOfficials(rows pgx.Rows) ([]*models.Official, error) {
	var out []*models.Official
	for rows.Next() {
		official, err := scanOfficial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan official: %w", err)
		}
		out = append(out, official)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate officials: %w", err)
	}
	return out, nil
}

var _ Store = (*PostgresStore)(nil)
