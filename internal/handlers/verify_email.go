package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recipebox/auth-service/internal/logger"
	"github.com/recipebox/auth-service/internal/services"
)

// EmailVerifier defines the interface that the service must implement.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, token, email string) error
}

// VerifyEmailResponse represents a successful verification response
// swagger:model VerifyEmailResponse
type VerifyEmailResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: Email verified successfully
	Message string `json:"message"`
}

// VerifyEmailErrorResponse represents an error response for verification
// swagger:model VerifyEmailErrorResponse
type VerifyEmailErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: Invalid or expired verification token
	Error string `json:"error"`
}

// NewVerifyEmailHandler returns an HTTP handler for email verification.
// @Summary Verify email address
// @Description Confirms the verification token emailed at registration. The token is single use.
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Param email query string true "Email address"
// @Success 200 {object} handlers.VerifyEmailResponse "Email verified"
// @Failure 400 {object} handlers.VerifyEmailErrorResponse "Invalid or expired verification token"
// @Router /auth/verify-email [get]
func NewVerifyEmailHandler(svc EmailVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		email := r.URL.Query().Get("email")

		if token == "" || email == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(VerifyEmailErrorResponse{
				Error: "token and email are required",
			})
			return
		}

		if err := svc.VerifyEmail(r.Context(), token, email); err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidOrExpiredToken):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(VerifyEmailErrorResponse{
					Error: "Invalid or expired verification token",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(VerifyEmailErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(VerifyEmailResponse{
			Success: true,
			Message: "Email verified successfully",
		})
	}
}
