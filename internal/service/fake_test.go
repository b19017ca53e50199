package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/retrogamecloud/scoreboard/internal/domain"
)

// fakeStore is an in-memory implementation of UserStore and ScoreStore
// with the same observable semantics as the SQL repository: unique
// usernames and emails, one score row per (user, game) pair, keep-best
// updates with a history append per improvement, and rankings ordered
// by score with row id as the tie-break.
type fakeStore struct {
	mu sync.Mutex

	nextUserID  int64
	nextGameID  int64
	nextScoreID int64

	users   map[int64]*domain.User
	games   map[string]*domain.Game
	scores  []*domain.Score
	history map[int64][]domain.ScoreHistoryEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[int64]*domain.User{},
		games:   map[string]*domain.Game{},
		history: map[int64][]domain.ScoreHistoryEntry{},
	}
}

// --- UserStore ---

func (f *fakeStore) CreateUser(_ context.Context, username, email, passwordHash, displayName, avatarURL, bio string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return nil, domain.ErrUsernameTaken
		}
	}

	f.nextUserID++
	now := time.Now()
	user := &domain.User{
		ID:           f.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		AvatarURL:    avatarURL,
		Bio:          bio,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[user.ID] = user
	copied := *user
	return &copied, nil
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok || !u.IsActive {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID int64, update domain.ProfileUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok || !u.IsActive {
		return nil, domain.ErrUserNotFound
	}
	if update.DisplayName != nil {
		u.DisplayName = *update.DisplayName
	}
	if update.AvatarURL != nil {
		u.AvatarURL = *update.AvatarURL
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

func (f *fakeStore) DeactivateUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok || !u.IsActive {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

// --- ScoreStore ---

func (f *fakeStore) GameBySlug(_ context.Context, slug string) (*domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.games[slug]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeStore) GetOrCreateGame(_ context.Context, name string) (*domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slug := domain.Slugify(name)
	if g, ok := f.games[slug]; ok {
		copied := *g
		return &copied, nil
	}

	f.nextGameID++
	game := &domain.Game{ID: f.nextGameID, Slug: slug, Name: name}
	f.games[slug] = game
	copied := *game
	return &copied, nil
}

func (f *fakeStore) SubmitScore(_ context.Context, userID, gameID, score int64, metadata map[string]interface{}) (*domain.Score, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.scores {
		if s.UserID == userID && s.GameID == gameID {
			if score <= s.Score {
				copied := *s
				return &copied, false, nil
			}
			f.history[s.ID] = append(f.history[s.ID], domain.ScoreHistoryEntry{
				ScoreID:    s.ID,
				OldScore:   s.Score,
				NewScore:   score,
				RecordedAt: time.Now(),
			})
			s.Score = score
			s.UpdatedAt = time.Now()
			if metadata != nil {
				s.Metadata = metadata
			}
			copied := *s
			return &copied, true, nil
		}
	}

	f.nextScoreID++
	now := time.Now()
	s := &domain.Score{
		ID:        f.nextScoreID,
		UserID:    userID,
		GameID:    gameID,
		Score:     score,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.scores = append(f.scores, s)
	copied := *s
	return &copied, true, nil
}

func (f *fakeStore) UserScores(_ context.Context, userID int64) ([]domain.UserScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	gamesByID := map[int64]*domain.Game{}
	for _, g := range f.games {
		gamesByID[g.ID] = g
	}

	result := []domain.UserScore{}
	for _, s := range f.scores {
		if s.UserID != userID {
			continue
		}
		g := gamesByID[s.GameID]
		result = append(result, domain.UserScore{
			GameSlug:  g.Slug,
			GameName:  g.Name,
			Score:     s.Score,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Score > result[j].Score })
	return result, nil
}

func (f *fakeStore) GameRanking(_ context.Context, gameSlug string, limit int) ([]domain.RankEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	game, ok := f.games[gameSlug]
	if !ok {
		return []domain.RankEntry{}, nil
	}

	var rows []*domain.Score
	for _, s := range f.scores {
		u, userOK := f.users[s.UserID]
		if s.GameID == game.ID && userOK && u.IsActive {
			rows = append(rows, s)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].ID < rows[j].ID
	})

	entries := []domain.RankEntry{}
	for i, s := range rows {
		if i >= limit {
			break
		}
		u := f.users[s.UserID]
		entries = append(entries, domain.RankEntry{
			Rank:        int64(i + 1),
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Score:       s.Score,
			RecordedAt:  s.UpdatedAt,
		})
	}
	return entries, nil
}

func (f *fakeStore) GlobalRanking(_ context.Context, limit int) ([]domain.GlobalRankEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	type agg struct {
		user    *domain.User
		total   int64
		games   int64
		highest int64
		minID   int64
	}
	byUser := map[int64]*agg{}
	for _, s := range f.scores {
		u, ok := f.users[s.UserID]
		if !ok || !u.IsActive {
			continue
		}
		a, ok := byUser[s.UserID]
		if !ok {
			a = &agg{user: u, minID: s.ID}
			byUser[s.UserID] = a
		}
		a.total += s.Score
		a.games++
		if s.Score > a.highest {
			a.highest = s.Score
		}
		if s.ID < a.minID {
			a.minID = s.ID
		}
	}

	aggs := make([]*agg, 0, len(byUser))
	for _, a := range byUser {
		aggs = append(aggs, a)
	}
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].total != aggs[j].total {
			return aggs[i].total > aggs[j].total
		}
		return aggs[i].minID < aggs[j].minID
	})

	entries := []domain.GlobalRankEntry{}
	for i, a := range aggs {
		if i >= limit {
			break
		}
		entries = append(entries, domain.GlobalRankEntry{
			Rank:         int64(i + 1),
			UserID:       a.user.ID,
			Username:     a.user.Username,
			DisplayName:  a.user.DisplayName,
			AvatarURL:    a.user.AvatarURL,
			TotalScore:   a.total,
			GamesPlayed:  a.games,
			HighestScore: a.highest,
		})
	}
	return entries, nil
}

// --- test helpers ---

func (f *fakeStore) addUser(username string) *domain.User {
	u, err := f.CreateUser(context.Background(), username, domain.DefaultEmail(username), "hash", "", "", "")
	if err != nil {
		panic(err)
	}
	return u
}

func (f *fakeStore) addGame(name string) *domain.Game {
	g, err := f.GetOrCreateGame(context.Background(), name)
	if err != nil {
		panic(err)
	}
	return g
}

func (f *fakeStore) scoreRowCount(userID, gameID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.scores {
		if s.UserID == userID && s.GameID == gameID {
			count++
		}
	}
	return count
}

func (f *fakeStore) historyFor(userID, gameID int64) []domain.ScoreHistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.scores {
		if s.UserID == userID && s.GameID == gameID {
			return f.history[s.ID]
		}
	}
	return nil
}
