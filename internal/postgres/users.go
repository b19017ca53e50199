package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/retrogamecloud/scoreboard/internal/domain"
)

const userColumns = `id, username, email, password_hash, display_name, avatar_url, bio, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var displayName, avatarURL, bio *string
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&displayName,
		&avatarURL,
		&bio,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if displayName != nil {
		u.DisplayName = *displayName
	}
	if avatarURL != nil {
		u.AvatarURL = *avatarURL
	}
	if bio != nil {
		u.Bio = *bio
	}
	return &u, nil
}

// CreateUser inserts a new user row. A duplicate username or email
// surfaces as domain.ErrUsernameTaken.
func (r *Repository) CreateUser(ctx context.Context, username, email, passwordHash, displayName, avatarURL, bio string) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, display_name, avatar_url, bio)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
		RETURNING ` + userColumns
	user, err := scanUser(r.pool.QueryRow(ctx, query, username, email, passwordHash, displayName, avatarURL, bio))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// UserByUsername retrieves an active user by username
func (r *Repository) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND is_active = true`
	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return user, nil
}

// UserByID retrieves an active user by id
func (r *Repository) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active = true`
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user by id: %w", err)
	}
	return user, nil
}

// UpdateProfile updates the mutable display fields of a user. Nil fields
// keep their current value.
func (r *Repository) UpdateProfile(ctx context.Context, userID int64, update domain.ProfileUpdate) (*domain.User, error) {
	query := `
		UPDATE users
		SET display_name = COALESCE($1, display_name),
		    avatar_url = COALESCE($2, avatar_url),
		    bio = COALESCE($3, bio),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND is_active = true
		RETURNING ` + userColumns
	user, err := scanUser(r.pool.QueryRow(ctx, query, update.DisplayName, update.AvatarURL, update.Bio, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

// DeactivateUser soft-deletes a user. Deactivated users are excluded from
// lookups and from every ranking; their rows are never hard-deleted.
func (r *Repository) DeactivateUser(ctx context.Context, userID int64) error {
	query := `UPDATE users SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1 AND is_active = true`
	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
