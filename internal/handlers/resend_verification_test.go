package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/recipebox/auth-service/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestResendVerificationHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockVerificationResender)
		expectedCode int
		expectedBody string
	}{
		{
			name: "success",
			body: `{"email":"alice@x.com"}`,
			mockSetup: func(m *MockVerificationResender) {
				m.EXPECT().
					ResendVerification(gomock.Any(), "alice@x.com").
					Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"message":"Verification email sent"}`,
		},
		{
			name: "unknown email",
			body: `{"email":"ghost@x.com"}`,
			mockSetup: func(m *MockVerificationResender) {
				m.EXPECT().
					ResendVerification(gomock.Any(), "ghost@x.com").
					Return(services.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"success":false,"error":"No account with that email"}`,
		},
		{
			name: "already verified",
			body: `{"email":"bob@x.com"}`,
			mockSetup: func(m *MockVerificationResender) {
				m.EXPECT().
					ResendVerification(gomock.Any(), "bob@x.com").
					Return(services.ErrAlreadyVerified)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"success":false,"error":"Email is already verified"}`,
		},
		{
			name: "internal server error",
			body: `{"email":"alice@x.com"}`,
			mockSetup: func(m *MockVerificationResender) {
				m.EXPECT().
					ResendVerification(gomock.Any(), "alice@x.com").
					Return(errors.New("database failure"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"success":false,"error":"Internal server error"}`,
		},
		{
			name:         "invalid json",
			body:         "{not json",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"success":false,"error":"invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockVerificationResender(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/resend-verification", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			NewResendVerificationHandler(mockSvc)(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}
