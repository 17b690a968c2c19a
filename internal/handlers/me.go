package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recipebox/auth-service/internal/logger"
	"github.com/recipebox/auth-service/internal/middlewares"
	"github.com/recipebox/auth-service/internal/models"
	"github.com/recipebox/auth-service/internal/services"
)

// ProfileGetter defines the interface that the service must implement.
type ProfileGetter interface {
	GetProfile(ctx context.Context, id int64) (models.UserPublic, error)
}

// MeResponse represents the current-user response
// swagger:model MeResponse
type MeResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Public user fields
	User models.UserPublic `json:"user"`
}

// MeErrorResponse represents an error response for the current-user endpoint
// swagger:model MeErrorResponse
type MeErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewMeHandler returns an HTTP handler for the current user's profile.
// @Summary Current user profile
// @Description Returns the profile of the user identified by the bearer token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.MeResponse "Current user"
// @Failure 401 {object} handlers.MeErrorResponse "Missing, malformed or expired token"
// @Failure 404 {object} handlers.MeErrorResponse "User no longer exists"
// @Router /auth/me [get]
func NewMeHandler(svc ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(MeErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		user, err := svc.GetProfile(r.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(MeErrorResponse{
					Error: "User not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(MeErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MeResponse{
			Success: true,
			User:    user,
		})
	}
}
