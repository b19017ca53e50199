package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/retrogamecloud/scoreboard/internal/auth"
	"github.com/retrogamecloud/scoreboard/internal/domain"
	"github.com/retrogamecloud/scoreboard/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

// Handler provides HTTP handlers for the scoreboard API
type Handler struct {
	auth        *service.AuthService
	leaderboard *service.LeaderboardService
	logger      *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(authService *service.AuthService, leaderboard *service.LeaderboardService, logger *slog.Logger) *Handler {
	return &Handler{
		auth:        authService,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/auth/profile", h.GetProfile)
			r.Put("/auth/profile", h.UpdateProfile)
			r.Delete("/auth/profile", h.DeactivateAccount)

			r.Post("/scores", h.SubmitScore)
			r.Get("/scores/me", h.GetMyScores)
		})

		r.Get("/users/{username}", h.GetUser)
		r.Get("/scores/user/{userID}", h.GetUserScores)

		r.Get("/rankings/games/{gameSlug}", h.GetGameRanking)
		r.Get("/rankings/global", h.GetGlobalRanking)
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuth verifies the bearer token and stores the authenticated
// principal on the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			h.writeError(w, http.StatusUnauthorized, domain.ErrInvalidToken)
			return
		}

		claims, err := h.auth.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			h.writeError(w, http.StatusUnauthorized, domain.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// writeDomainError maps a domain error onto an HTTP status. Store
// failures never leak details to the caller.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		h.writeError(w, http.StatusBadRequest, err)
	case domain.IsNotFound(err):
		h.writeError(w, http.StatusNotFound, err)
	case domain.IsConflict(err):
		h.writeError(w, http.StatusConflict, err)
	default:
		h.logger.Error("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ok", "service": "scoreboard"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}

// Register handles account creation
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: result})
}

// Login handles credential verification
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			h.writeError(w, http.StatusUnauthorized, err)
			return
		}
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, result)
}

// GetProfile returns the authenticated user's account
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	user, err := h.auth.Profile(r.Context(), claims.UserID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, user)
}

// UpdateProfile updates the authenticated user's display fields
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), claims.UserID, update)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, user)
}

// DeactivateAccount soft-deletes the authenticated user's account
func (h *Handler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	if err := h.auth.Deactivate(r.Context(), claims.UserID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, map[string]string{"status": "deactivated"})
}

// GetUser returns a public user profile by username
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.auth.UserByUsername(r.Context(), username)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, user)
}

type submitScoreRequest struct {
	Game     string                 `json:"game"`
	Score    *int64                 `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SubmitScore records a score for the authenticated user
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}
	if req.Game == "" || req.Score == nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.leaderboard.SubmitScore(r.Context(), claims.UserID, req.Game, *req.Score, req.Metadata)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: result})
}

// GetMyScores returns the authenticated user's best scores
func (h *Handler) GetMyScores(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	scores, err := h.leaderboard.UserScores(r.Context(), claims.UserID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, scores)
}

// GetUserScores returns a user's best scores by user id
func (h *Handler) GetUserScores(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	scores, err := h.leaderboard.UserScores(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, scores)
}

// limitParam parses the limit query parameter, falling back to the
// service default when absent. Out-of-range values are rejected by the
// service, not clamped.
func (h *Handler) limitParam(r *http.Request) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return h.leaderboard.DefaultLimit(), nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, domain.ErrInvalidLimit
	}
	return limit, nil
}

// GetGameRanking returns the top entries for a game
func (h *Handler) GetGameRanking(w http.ResponseWriter, r *http.Request) {
	gameSlug := chi.URLParam(r, "gameSlug")

	limit, err := h.limitParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	entries, err := h.leaderboard.GameRanking(r.Context(), gameSlug, limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, entries)
}

// GetGlobalRanking returns the cross-game ranking
func (h *Handler) GetGlobalRanking(w http.ResponseWriter, r *http.Request) {
	limit, err := h.limitParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	entries, err := h.leaderboard.GlobalRanking(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, entries)
}
