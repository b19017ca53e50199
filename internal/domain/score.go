package domain

import "time"

// Score holds a user's personal best for a game. The (UserID, GameID)
// pair is unique: there is never more than one row per user per game.
type Score struct {
	ID        int64                  `json:"id"`
	UserID    int64                  `json:"user_id"`
	GameID    int64                  `json:"game_id"`
	Score     int64                  `json:"score"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ScoreHistoryEntry is an append-only audit record written once per
// accepted improvement of an existing score.
type ScoreHistoryEntry struct {
	ID         int64     `json:"id"`
	ScoreID    int64     `json:"score_id"`
	OldScore   int64     `json:"old_score"`
	NewScore   int64     `json:"new_score"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ScoreSubmission represents a request to submit a score
type ScoreSubmission struct {
	UserID   int64                  `json:"user_id"`
	Game     string                 `json:"game"`
	Score    int64                  `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SubmissionResult is returned from a score submission. Accepted is true
// when the submission mutated stored state (first score or improvement).
type SubmissionResult struct {
	Score          *Score `json:"score"`
	Accepted       bool   `json:"accepted"`
	IsNewHighScore bool   `json:"is_new_high_score"`
	Rank           int64  `json:"rank,omitempty"`
	TotalPlayers   int64  `json:"total_players"`
}

// UserScore is a user's best score for one game
type UserScore struct {
	GameSlug  string    `json:"game_slug"`
	GameName  string    `json:"game_name"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RankEntry is a single row of a per-game ranking
type RankEntry struct {
	Rank        int64     `json:"rank"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Score       int64     `json:"score"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// GlobalRankEntry is a single row of the cross-game ranking, aggregated
// over all of a user's best scores.
type GlobalRankEntry struct {
	Rank         int64  `json:"rank"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	TotalScore   int64  `json:"total_score"`
	GamesPlayed  int64  `json:"games_played"`
	HighestScore int64  `json:"highest_score"`
}

// RankingLimit bounds for ranking queries
const (
	MinRankingLimit = 1
	MaxRankingLimit = 100
)

// ValidateLimit checks a ranking window size
func ValidateLimit(limit int) bool {
	return limit >= MinRankingLimit && limit <= MaxRankingLimit
}
