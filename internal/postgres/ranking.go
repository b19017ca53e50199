package postgres

import (
	"context"
	"fmt"

	"github.com/retrogamecloud/scoreboard/internal/domain"
)

// GameRanking retrieves the top scores for a game, joined to active users
// only. Rank is the 1-based row number ordered by score descending; ties
// are broken by score row id, so the first-submitted score wins. An
// unknown slug yields an empty slice.
func (r *Repository) GameRanking(ctx context.Context, gameSlug string, limit int) ([]domain.RankEntry, error) {
	query := `
		SELECT
			ROW_NUMBER() OVER (ORDER BY s.score DESC, s.id ASC) AS rank,
			u.id,
			u.username,
			COALESCE(u.display_name, ''),
			COALESCE(u.avatar_url, ''),
			s.score,
			s.updated_at
		FROM scores s
		JOIN users u ON s.user_id = u.id
		JOIN games g ON s.game_id = g.id
		WHERE g.slug = $1 AND u.is_active = true
		ORDER BY s.score DESC, s.id ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, gameSlug, limit)
	if err != nil {
		return nil, fmt.Errorf("getting game ranking: %w", err)
	}
	defer rows.Close()

	entries := []domain.RankEntry{}
	for rows.Next() {
		var e domain.RankEntry
		err := rows.Scan(&e.Rank, &e.UserID, &e.Username, &e.DisplayName, &e.AvatarURL, &e.Score, &e.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning rank entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GlobalRanking aggregates every active user's best scores across all
// games, ordered by total score descending. The earliest score row id
// serves as the deterministic tie-break.
func (r *Repository) GlobalRanking(ctx context.Context, limit int) ([]domain.GlobalRankEntry, error) {
	query := `
		SELECT
			ROW_NUMBER() OVER (ORDER BY SUM(s.score) DESC, MIN(s.id) ASC) AS rank,
			u.id,
			u.username,
			COALESCE(u.display_name, ''),
			COALESCE(u.avatar_url, ''),
			SUM(s.score) AS total_score,
			COUNT(DISTINCT s.game_id) AS games_played,
			MAX(s.score) AS highest_score
		FROM scores s
		JOIN users u ON s.user_id = u.id
		WHERE u.is_active = true
		GROUP BY u.id, u.username, u.display_name, u.avatar_url
		ORDER BY total_score DESC, MIN(s.id) ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting global ranking: %w", err)
	}
	defer rows.Close()

	entries := []domain.GlobalRankEntry{}
	for rows.Next() {
		var e domain.GlobalRankEntry
		err := rows.Scan(&e.Rank, &e.UserID, &e.Username, &e.DisplayName, &e.AvatarURL, &e.TotalScore, &e.GamesPlayed, &e.HighestScore)
		if err != nil {
			return nil, fmt.Errorf("scanning global rank entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
