package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recipebox/auth-service/internal/logger"
	"github.com/recipebox/auth-service/internal/services"
)

// VerificationResender defines the interface that the service must implement.
type VerificationResender interface {
	ResendVerification(ctx context.Context, email string) error
}

// ResendVerificationRequest represents the JSON body for resending a
// verification email
// swagger:model ResendVerificationRequest
type ResendVerificationRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`
}

// ResendVerificationResponse represents a successful resend response
// swagger:model ResendVerificationResponse
type ResendVerificationResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: Verification email sent
	Message string `json:"message"`
}

// ResendVerificationErrorResponse represents an error response for resending
// swagger:model ResendVerificationErrorResponse
type ResendVerificationErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: Email is already verified
	Error string `json:"error"`
}

// NewResendVerificationHandler returns an HTTP handler that resends the
// verification email.
// @Summary Resend verification email
// @Description Rotates the verification token of an unverified account and resends the email.
// @Tags auth
// @Accept json
// @Produce json
// @Param resendRequest body handlers.ResendVerificationRequest true "Resend request"
// @Success 200 {object} handlers.ResendVerificationResponse "Verification email sent"
// @Failure 400 {object} handlers.ResendVerificationErrorResponse "Email is already verified"
// @Failure 404 {object} handlers.ResendVerificationErrorResponse "No account with that email"
// @Router /auth/resend-verification [post]
func NewResendVerificationHandler(svc VerificationResender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResendVerificationRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResendVerificationErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if err := svc.ResendVerification(r.Context(), req.Email); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ResendVerificationErrorResponse{
					Error: "No account with that email",
				})
			case errors.Is(err, services.ErrAlreadyVerified):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ResendVerificationErrorResponse{
					Error: "Email is already verified",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ResendVerificationErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ResendVerificationResponse{
			Success: true,
			Message: "Verification email sent",
		})
	}
}
