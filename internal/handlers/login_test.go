package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/recipebox/auth-service/internal/models"
	"github.com/recipebox/auth-service/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockLoginer)
		expectedCode int
		expectedBody string
	}{
		{
			name: "success",
			body: `{"username":"alice","password":"secret1"}`,
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "secret1").
					Return("token123", models.UserPublic{ID: 1, Username: "alice", Email: "alice@x.com"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"token":"token123","user":{"id":1,"username":"alice","email":"alice@x.com"}}`,
		},
		{
			name: "invalid credentials",
			body: `{"username":"alice","password":"wrong"}`,
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "wrong").
					Return("", models.UserPublic{}, services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"success":false,"error":"Invalid username or password"}`,
		},
		{
			name: "unverified email",
			body: `{"username":"bob","password":"secret1"}`,
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "bob", "secret1").
					Return("", models.UserPublic{}, services.ErrEmailNotVerified)
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"success":false,"error":"Please verify your email before logging in"}`,
		},
		{
			name: "internal server error",
			body: `{"username":"alice","password":"secret1"}`,
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "secret1").
					Return("", models.UserPublic{}, errors.New("database failure"))
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
			mockSvc := NewMockLoginer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			NewLoginHandler(mockSvc)(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}

// Unknown-user and wrong-password responses must be byte identical.
func TestLoginHandler_EnumerationResistance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)
	mockSvc.EXPECT().
		Login(gomock.Any(), "nouser", "x").
		Return("", models.UserPublic{}, services.ErrInvalidCredentials)
	mockSvc.EXPECT().
		Login(gomock.Any(), "realuser", "wrongpass").
		Return("", models.UserPublic{}, services.ErrInvalidCredentials)

	handler := NewLoginHandler(mockSvc)

	recNoUser := httptest.NewRecorder()
	handler(recNoUser, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		bytes.NewBufferString(`{"username":"nouser","password":"x"}`)))

	recWrongPass := httptest.NewRecorder()
	handler(recWrongPass, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		bytes.NewBufferString(`{"username":"realuser","password":"wrongpass"}`)))

	assert.Equal(t, recNoUser.Code, recWrongPass.Code)
	assert.Equal(t, recNoUser.Body.Bytes(), recWrongPass.Body.Bytes())
}
