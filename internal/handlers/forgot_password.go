package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/recipebox/auth-service/internal/logger"
)

// forgotPasswordMessage is returned whether or not the email belongs to an
// account, to resist account enumeration.
const forgotPasswordMessage = "If the email exists, a password reset link has been sent"

// PasswordForgetter defines the interface that the service must implement.
type PasswordForgetter interface {
	ForgotPassword(ctx context.Context, email string) error
}

// ForgotPasswordRequest represents the JSON body for a password reset request
// swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`
}

// ForgotPasswordResponse represents the forgot-password response
// swagger:model ForgotPasswordResponse
type ForgotPasswordResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Generic message, identical for known and unknown emails
	// default: If the email exists, a password reset link has been sent
	Message string `json:"message"`
}

// ForgotPasswordErrorResponse represents an error response
// swagger:model ForgotPasswordErrorResponse
type ForgotPasswordErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: invalid request body
	Error string `json:"error"`
}

// NewForgotPasswordHandler returns an HTTP handler that starts a password
// reset.
// @Summary Request a password reset
// @Description Emails a reset link when the address belongs to an account. The response is identical either way.
// @Tags auth
// @Accept json
// @Produce json
// @Param forgotRequest body handlers.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} handlers.ForgotPasswordResponse "Generic acknowledgement"
// @Failure 400 {object} handlers.ForgotPasswordErrorResponse "Malformed request body"
// @Router /auth/forgot-password [post]
func NewForgotPasswordHandler(svc PasswordForgetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotPasswordRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ForgotPasswordErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if err := svc.ForgotPassword(r.Context(), req.Email); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ForgotPasswordErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ForgotPasswordResponse{
			Success: true,
			Message: forgotPasswordMessage,
		})
	}
}
