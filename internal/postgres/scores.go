package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/retrogamecloud/scoreboard/internal/domain"
)

func scanScore(row pgx.Row) (*domain.Score, error) {
	var s domain.Score
	var metadataJSON []byte
	err := row.Scan(&s.ID, &s.UserID, &s.GameID, &s.Score, &metadataJSON, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &s.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	return &s, nil
}

// SubmitScore records a score for a (user, game) pair with keep-best
// semantics: the stored row always holds the maximum ever submitted.
// Returns the stored best and whether this submission improved it.
//
// The read-check-write sequence runs inside a transaction that locks the
// existing row with SELECT ... FOR UPDATE. Two submissions racing on an
// absent row can still both reach the insert; the loser's unique-key
// violation is retried once, at which point the row exists and the
// update path applies.
func (r *Repository) SubmitScore(ctx context.Context, userID, gameID, score int64, metadata map[string]interface{}) (*domain.Score, bool, error) {
	var metadataJSON []byte
	var err error
	if metadata != nil {
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return nil, false, fmt.Errorf("marshaling metadata: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		stored, improved, err := r.submitScoreTx(ctx, userID, gameID, score, metadataJSON)
		if err != nil && isUniqueViolation(err) && attempt == 0 {
			continue
		}
		if err != nil {
			if isUniqueViolation(err) {
				return nil, false, domain.ErrScorePairConflict
			}
			return nil, false, fmt.Errorf("submitting score: %w", err)
		}
		return stored, improved, nil
	}
}

func (r *Repository) submitScoreTx(ctx context.Context, userID, gameID, score int64, metadataJSON []byte) (*domain.Score, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	const scoreColumns = `id, user_id, game_id, score, metadata, created_at, updated_at`

	existing, err := scanScore(tx.QueryRow(ctx,
		`SELECT `+scoreColumns+` FROM scores WHERE user_id = $1 AND game_id = $2 FOR UPDATE`,
		userID, gameID,
	))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	if existing == nil {
		inserted, err := scanScore(tx.QueryRow(ctx,
			`INSERT INTO scores (user_id, game_id, score, metadata)
			 VALUES ($1, $2, $3, $4)
			 RETURNING `+scoreColumns,
			userID, gameID, score, metadataJSON,
		))
		if err != nil {
			return nil, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
		return inserted, true, nil
	}

	if score <= existing.Score {
		// Keep-best contract: a lower or equal score never mutates state
		return existing, false, nil
	}

	updated, err := scanScore(tx.QueryRow(ctx,
		`UPDATE scores
		 SET score = $1, metadata = COALESCE($2, metadata), updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3
		 RETURNING `+scoreColumns,
		score, metadataJSON, existing.ID,
	))
	if err != nil {
		return nil, false, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO score_history (score_id, old_score, new_score) VALUES ($1, $2, $3)`,
		existing.ID, existing.Score, score,
	)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// UserScores retrieves a user's best score for every game played, highest
// first. A user with no scores yields an empty slice.
func (r *Repository) UserScores(ctx context.Context, userID int64) ([]domain.UserScore, error) {
	query := `
		SELECT g.slug, g.name, s.score, s.created_at, s.updated_at
		FROM scores s
		JOIN games g ON s.game_id = g.id
		WHERE s.user_id = $1
		ORDER BY s.score DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user scores: %w", err)
	}
	defer rows.Close()

	scores := []domain.UserScore{}
	for rows.Next() {
		var s domain.UserScore
		if err := rows.Scan(&s.GameSlug, &s.GameName, &s.Score, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// ScoreHistory retrieves the audit trail for a score, oldest first
func (r *Repository) ScoreHistory(ctx context.Context, scoreID int64) ([]domain.ScoreHistoryEntry, error) {
	query := `
		SELECT id, score_id, old_score, new_score, recorded_at
		FROM score_history
		WHERE score_id = $1
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query, scoreID)
	if err != nil {
		return nil, fmt.Errorf("getting score history: %w", err)
	}
	defer rows.Close()

	entries := []domain.ScoreHistoryEntry{}
	for rows.Next() {
		var e domain.ScoreHistoryEntry
		if err := rows.Scan(&e.ID, &e.ScoreID, &e.OldScore, &e.NewScore, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
