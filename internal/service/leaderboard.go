package service

import (
	"context"
	"log/slog"

	"github.com/retrogamecloud/scoreboard/internal/domain"
)

// LeaderboardService provides score submission and ranking reads.
//
// Game resolution runs under two policies, exposed as distinct
// operations: SubmitScore requires a pre-existing game and is the
// canonical API path; IngestScore lazily creates unseen games and is
// the bulk-ingestion path.
type LeaderboardService struct {
	store        ScoreStore
	defaultLimit int
	logger       *slog.Logger
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(store ScoreStore, defaultLimit int, logger *slog.Logger) *LeaderboardService {
	if defaultLimit <= 0 || defaultLimit > domain.MaxRankingLimit {
		defaultLimit = 10
	}
	return &LeaderboardService{
		store:        store,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// SubmitScore records a score for an existing game, identified by slug.
// An unknown slug fails with domain.ErrGameNotFound. The stored value
// only ever increases; resubmitting a lower or equal score is a no-op.
// The result carries the caller's position in the current top window.
func (s *LeaderboardService) SubmitScore(ctx context.Context, userID int64, gameSlug string, score int64, metadata map[string]interface{}) (*domain.SubmissionResult, error) {
	if score < 0 {
		return nil, domain.ErrInvalidScore
	}
	if gameSlug == "" {
		return nil, domain.ErrInvalidRequest
	}

	game, err := s.store.GameBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}

	stored, improved, err := s.store.SubmitScore(ctx, userID, game.ID, score, metadata)
	if err != nil {
		return nil, err
	}

	if improved {
		s.logger.Info("new high score",
			"user_id", userID,
			"game", game.Slug,
			"score", stored.Score,
		)
	}

	result := &domain.SubmissionResult{
		Score:          stored,
		Accepted:       improved,
		IsNewHighScore: improved,
	}

	ranking, err := s.store.GameRanking(ctx, game.Slug, s.defaultLimit)
	if err != nil {
		// The submission is committed; rank enrichment is best effort
		s.logger.Warn("failed to compute rank after submission", "error", err)
		return result, nil
	}
	result.TotalPlayers = int64(len(ranking))
	for _, entry := range ranking {
		if entry.UserID == userID {
			result.Rank = entry.Rank
			break
		}
	}

	return result, nil
}

// IngestScore records a score for a game named by its display name,
// creating the game on first sight. Used by the Kafka ingestion path.
func (s *LeaderboardService) IngestScore(ctx context.Context, userID int64, gameName string, score int64, metadata map[string]interface{}) (*domain.SubmissionResult, error) {
	if score < 0 {
		return nil, domain.ErrInvalidScore
	}
	if gameName == "" {
		return nil, domain.ErrInvalidRequest
	}

	game, err := s.store.GetOrCreateGame(ctx, gameName)
	if err != nil {
		return nil, err
	}

	stored, improved, err := s.store.SubmitScore(ctx, userID, game.ID, score, metadata)
	if err != nil {
		return nil, err
	}

	return &domain.SubmissionResult{
		Score:          stored,
		Accepted:       improved,
		IsNewHighScore: improved,
	}, nil
}

// UserScores returns a user's best score per game, highest first
func (s *LeaderboardService) UserScores(ctx context.Context, userID int64) ([]domain.UserScore, error) {
	return s.store.UserScores(ctx, userID)
}

// GameRanking returns the top entries for a game. The limit must be
// within [1, 100]; an unknown slug yields an empty ranking, not an error.
func (s *LeaderboardService) GameRanking(ctx context.Context, gameSlug string, limit int) ([]domain.RankEntry, error) {
	if !domain.ValidateLimit(limit) {
		return nil, domain.ErrInvalidLimit
	}
	return s.store.GameRanking(ctx, gameSlug, limit)
}

// GlobalRanking returns the cross-game ranking by total score
func (s *LeaderboardService) GlobalRanking(ctx context.Context, limit int) ([]domain.GlobalRankEntry, error) {
	if !domain.ValidateLimit(limit) {
		return nil, domain.ErrInvalidLimit
	}
	return s.store.GlobalRanking(ctx, limit)
}

// DefaultLimit returns the configured default ranking window
func (s *LeaderboardService) DefaultLimit() int {
	return s.defaultLimit
}
