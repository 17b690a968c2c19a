package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recipebox/auth-service/internal/logger"
	"github.com/recipebox/auth-service/internal/services"
)

// PasswordResetter defines the interface that the service must implement.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}

// ResetPasswordRequest represents the JSON body for completing a password
// reset
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Reset token from the emailed link
	// required: true
	Token string `json:"token"`

	// Replacement password
	// required: true
	// default: newsecret123
	Password string `json:"password"`
}

// ResetPasswordResponse represents a successful reset response
// swagger:model ResetPasswordResponse
type ResetPasswordResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: Password has been reset
	Message string `json:"message"`
}

// ResetPasswordErrorResponse represents an error response for a reset
// swagger:model ResetPasswordErrorResponse
type ResetPasswordErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: Invalid token or email
	Error string `json:"error"`

	// Field-keyed validation violations, present on validation failure only
	Violations map[string]string `json:"violations,omitempty"`
}

// NewResetPasswordHandler returns an HTTP handler that completes a password
// reset.
// @Summary Reset password
// @Description Consumes a reset token and overwrites the account password. Tokens are single use and expire after an hour.
// @Tags auth
// @Accept json
// @Produce json
// @Param resetRequest body handlers.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} handlers.ResetPasswordResponse "Password reset"
// @Failure 400 {object} handlers.ResetPasswordErrorResponse "Invalid token, expired token or invalid password"
// @Router /auth/reset-password [post]
func NewResetPasswordHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if err := svc.ResetPassword(r.Context(), req.Email, req.Token, req.Password); err != nil {
			var verr *services.ValidationError
			switch {
			case errors.As(err, &verr):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Error:      "validation failed",
					Violations: verr.Violations,
				})
			case errors.Is(err, services.ErrInvalidTokenOrEmail):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Error: "Invalid token or email",
				})
			case errors.Is(err, services.ErrTokenExpired):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Error: "Reset token has expired",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ResetPasswordResponse{
			Success: true,
			Message: "Password has been reset",
		})
	}
}
