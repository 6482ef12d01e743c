package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	apperrors "github.com/yourusername/qbank-api/internal/pkg/errors"
	"github.com/yourusername/qbank-api/internal/service"
	"github.com/yourusername/qbank-api/pkg/auth"
)

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByResetToken(tokenHash string, now time.Time) (*entity.User, error) {
	args := m.Called(tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) SetResetToken(userID uuid.UUID, tokenHash string, expires time.Time) error {
	args := m.Called(userID, tokenHash, expires)
	return args.Error(0)
}

func (m *MockUserRepository) ClearResetToken(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(userID uuid.UUID, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

// setupAuthRouter регистрирует маршруты аутентификации так же, как cmd/api/main.go
func setupAuthRouter(t *testing.T, userRepo *MockUserRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService, err := auth.NewJWTService("test-secret", 24)
	require.NoError(t, err)

	authService, err := service.NewAuthService(userRepo, jwtService, &service.NoopEmailService{}, "http://localhost:8080")
	require.NoError(t, err)

	authHandler := NewAuthHandler(authService)

	router := gin.New()
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password/:token", authHandler.ResetPassword)
	}
	return router
}

func TestAuthRoutes_ResetPassword_PostMethod(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	user := &entity.User{ID: uuid.New(), Email: "student@example.com"}
	rawToken := "deadbeefcafe"

	mockUserRepo.On("GetByResetToken", service.HashResetToken(rawToken), mock.AnythingOfType("time.Time")).
		Return(user, nil)
	mockUserRepo.On("UpdatePassword", user.ID, "newPassword123").Return(nil)

	router := setupAuthRouter(t, mockUserRepo)

	body := strings.NewReader(`{"password": "newPassword123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/"+rawToken, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert: сброс пароля выполняется POST-запросом по токену из письма
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password reset successful")
	mockUserRepo.AssertExpectations(t)
}

func TestAuthRoutes_ResetPassword_InvalidToken(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByResetToken", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound)

	router := setupAuthRouter(t, mockUserRepo)

	body := strings.NewReader(`{"password": "newPassword123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/bogus-token", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code, "Неизвестный токен — ошибка валидации")
	mockUserRepo.AssertNotCalled(t, "UpdatePassword")
}
