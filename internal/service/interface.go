package service

import (
	"context"

	"github.com/retrogamecloud/scoreboard/internal/domain"
)

// UserStore persists user accounts
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash, displayName, avatarURL, bio string) (*domain.User, error)
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, update domain.ProfileUpdate) (*domain.User, error)
	DeactivateUser(ctx context.Context, userID int64) error
}

// ScoreStore persists per-(user, game) best scores and serves ranking
// queries. Ranking reads never mutate store state.
type ScoreStore interface {
	GameBySlug(ctx context.Context, slug string) (*domain.Game, error)
	GetOrCreateGame(ctx context.Context, name string) (*domain.Game, error)
	SubmitScore(ctx context.Context, userID, gameID, score int64, metadata map[string]interface{}) (*domain.Score, bool, error)
	UserScores(ctx context.Context, userID int64) ([]domain.UserScore, error)
	GameRanking(ctx context.Context, gameSlug string, limit int) ([]domain.RankEntry, error)
	GlobalRanking(ctx context.Context, limit int) ([]domain.GlobalRankEntry, error)
}
