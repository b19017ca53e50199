package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrUsernameTaken      = errors.New("username or email already exists")
	ErrScorePairConflict  = errors.New("score already exists for user and game")
	ErrInvalidScore       = errors.New("score must be a non-negative integer")
	ErrInvalidLimit       = errors.New("limit must be between 1 and 100")
	ErrInvalidUsername    = errors.New("username must be 3-20 alphanumeric or underscore characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("password must be between 6 and 100 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInternalError      = errors.New("internal server error")
)

// IsNotFound checks if an error is a not-found type error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrGameNotFound)
}

// IsValidation checks if an error is a bad-input type error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidScore) ||
		errors.Is(err, ErrInvalidLimit) ||
		errors.Is(err, ErrInvalidUsername) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsConflict checks if an error is a duplicate unique-key type error
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrScorePairConflict)
}
