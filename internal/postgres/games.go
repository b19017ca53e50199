package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/retrogamecloud/scoreboard/internal/domain"
)

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	var description *string
	if err := row.Scan(&g.ID, &g.Slug, &g.Name, &description); err != nil {
		return nil, err
	}
	if description != nil {
		g.Description = *description
	}
	return &g, nil
}

// GameBySlug retrieves a game by its slug
func (r *Repository) GameBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	query := `SELECT id, slug, name, description FROM games WHERE slug = $1`
	game, err := scanGame(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("getting game: %w", err)
	}
	return game, nil
}

// GetOrCreateGame resolves a game by the slug derived from name, creating
// it when unseen. A losing insert race falls back to the existing row.
func (r *Repository) GetOrCreateGame(ctx context.Context, name string) (*domain.Game, error) {
	slug := domain.Slugify(name)

	game, err := r.GameBySlug(ctx, slug)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, domain.ErrGameNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO games (slug, name, description)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (slug) DO NOTHING
		RETURNING id, slug, name, description
	`
	game, err = scanGame(r.pool.QueryRow(ctx, query, slug, name, ""))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Another submission created it first
			return r.GameBySlug(ctx, slug)
		}
		return nil, fmt.Errorf("creating game: %w", err)
	}

	r.logger.Info("game created", "slug", slug, "name", name)
	return game, nil
}
