package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/recipebox/auth-service/internal/jwt"
	"github.com/recipebox/auth-service/internal/middlewares"
	"github.com/recipebox/auth-service/internal/models"
	"github.com/recipebox/auth-service/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	claims := &jwt.Claims{UserID: 1, Username: "alice", Email: "alice@x.com"}

	tests := []struct {
		name         string
		claims       *jwt.Claims
		mockSetup    func(m *MockProfileGetter)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "success",
			claims: claims,
			mockSetup: func(m *MockProfileGetter) {
				m.EXPECT().
					GetProfile(gomock.Any(), int64(1)).
					Return(models.UserPublic{ID: 1, Username: "alice", Email: "alice@x.com"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"user":{"id":1,"username":"alice","email":"alice@x.com"}}`,
		},
		{
			name:         "missing claims",
			claims:       nil,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"success":false,"error":"Unauthorized"}`,
		},
		{
			name:   "user no longer exists",
			claims: claims,
			mockSetup: func(m *MockProfileGetter) {
				m.EXPECT().
					GetProfile(gomock.Any(), int64(1)).
					Return(models.UserPublic{}, services.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"success":false,"error":"User not found"}`,
		},
		{
			name:   "internal server error",
			claims: claims,
			mockSetup: func(m *MockProfileGetter) {
				m.EXPECT().
					GetProfile(gomock.Any(), int64(1)).
					Return(models.UserPublic{}, errors.New("database failure"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"success":false,"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockProfileGetter(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.claims != nil {
				req = req.WithContext(middlewares.SetClaimsToContext(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()

			NewMeHandler(mockSvc)(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}
