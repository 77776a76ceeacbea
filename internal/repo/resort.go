// Package repo contains all database access logic for the ski weather API.
// The only table is the resort cache. No business logic lives here; only SQL
// and type mapping.
package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/ski-weather/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ResortRepo defines the persistence operations for cached resorts.
// The service layer depends on this interface so it can be tested without a database.
type ResortRepo interface {
	// Create inserts a resort and returns the persisted record with its
	// generated id. If a resort with the same external id is already cached,
	// the existing row is returned unchanged: cached resorts are immutable.
	Create(ctx context.Context, resort domain.Resort) (domain.Resort, error)

	// SearchByName returns up to limit cached resorts whose name contains name,
	// case-insensitively, ordered by name.
	SearchByName(ctx context.Context, name string, limit int) ([]domain.Resort, error)
}

// pgResortRepo is the Postgres implementation of ResortRepo.
type pgResortRepo struct {
	db db
}

// NewResortRepo constructs a ResortRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewResortRepo(db db) ResortRepo {
	return &pgResortRepo{db: db}
}

// Create inserts a resort or returns the existing row on external_id conflict.
// DO UPDATE SET with the same value makes RETURNING fire on conflict without
// modifying the stored row.
func (r *pgResortRepo) Create(ctx context.Context, resort domain.Resort) (domain.Resort, error) {
	const q = `
		INSERT INTO resorts (external_id, name, latitude, longitude, country, region, slug)
		VALUES (@external_id, @name, @latitude, @longitude, @country, @region, @slug)
		ON CONFLICT (external_id) DO UPDATE SET external_id = EXCLUDED.external_id
		RETURNING id, external_id, name, latitude, longitude, country, region, slug`

	args := pgx.NamedArgs{
		"external_id": pgtype.Text{String: resort.ExternalID, Valid: resort.ExternalID != ""}, // "" becomes NULL
		"name":        resort.Name,
		"latitude":    resort.Latitude,
		"longitude":   resort.Longitude,
		"country":     resort.Country,
		"region":      resort.Region,
		"slug":        resort.Slug,
	}

	result, err := scanResort(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Resort{}, fmt.Errorf("repo.ResortRepo.Create: %w", err)
	}
	return result, nil
}

// SearchByName runs an ILIKE substring match. LIKE wildcards in name are
// escaped so "%" and "_" match literally.
func (r *pgResortRepo) SearchByName(ctx context.Context, name string, limit int) ([]domain.Resort, error) {
	const q = `
		SELECT id, external_id, name, latitude, longitude, country, region, slug
		FROM resorts
		WHERE name ILIKE '%' || @name || '%'
		ORDER BY name, id
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"name": escapeLike(name), "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.ResortRepo.SearchByName: %w", err)
	}
	defer rows.Close()

	resorts := []domain.Resort{}
	for rows.Next() {
		resort, err := scanResort(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ResortRepo.SearchByName: scan: %w", err)
		}
		resorts = append(resorts, resort)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ResortRepo.SearchByName: rows: %w", err)
	}
	return resorts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanResort maps a single database row into a domain.Resort.
func scanResort(s scanner) (domain.Resort, error) {
	var (
		r          domain.Resort
		id         pgtype.UUID
		externalID pgtype.Text
	)
	err := s.Scan(&id, &externalID, &r.Name, &r.Latitude, &r.Longitude, &r.Country, &r.Region, &r.Slug)
	if err != nil {
		return domain.Resort{}, err
	}
	r.ID = uuid.UUID(id.Bytes)
	r.ExternalID = externalID.String
	return r, nil
}
