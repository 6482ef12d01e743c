package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	"github.com/yourusername/qbank-api/internal/domain/repository"
	apperrors "github.com/yourusername/qbank-api/internal/pkg/errors"
	"github.com/yourusername/qbank-api/pkg/auth"
)

// Время жизни токена сброса пароля
const resetTokenTTL = 10 * time.Minute

// AuthService предоставляет методы для регистрации, входа и сброса пароля
type AuthService struct {
	userRepo     repository.UserRepository
	jwtService   *auth.JWTService
	emailService EmailService
	resetURLBase string
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	emailService EmailService,
	resetURLBase string,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if emailService == nil {
		return nil, fmt.Errorf("EmailService is required for AuthService")
	}
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		emailService: emailService,
		resetURLBase: resetURLBase,
	}, nil
}

// RegisterUser регистрирует нового пользователя с ролью "user"
func (s *AuthService) RegisterUser(username, email, password string) (*entity.User, error) {
	// Проверяем, что email еще не занят
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password, // Хешируется в BeforeSave
		Role:     entity.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login проверяет учетные данные и возвращает подписанный access-токен
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, что именно неверно: email или пароль
			return "", nil, apperrors.ErrUnauthorized
		}
		return "", nil, err
	}

	if !user.CheckPassword(password) {
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// ForgotPassword генерирует токен сброса пароля и отправляет ссылку на email.
// В базе хранится только sha256-хеш токена; сырой токен уходит в письмо.
// Если письмо отправить не удалось, токен стирается и возвращается ошибка.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}

	rawToken, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expires := time.Now().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(user.ID, HashResetToken(rawToken), expires); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/api/auth/reset-password/%s", s.resetURLBase, rawToken)
	if err := s.emailService.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		log.Printf("[AuthService] Ошибка отправки письма сброса пароля для %s: %v", user.Email, err)
		// Стираем токен, чтобы не оставлять в базе хеш, который никто не получил
		if clearErr := s.userRepo.ClearResetToken(user.ID); clearErr != nil {
			log.Printf("[AuthService] Не удалось стереть токен сброса после ошибки отправки: %v", clearErr)
		}
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword устанавливает новый пароль по токену из письма
func (s *AuthService) ResetPassword(rawToken, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(HashResetToken(rawToken), time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired token", apperrors.ErrValidation)
		}
		return err
	}

	// UpdatePassword хеширует пароль и стирает токен сброса
	return s.userRepo.UpdatePassword(user.ID, newPassword)
}

// HashResetToken возвращает sha256-хеш сырого токена в hex-виде.
// Экспортирована для использования в тестах и фикстурах.
func HashResetToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// generateResetToken возвращает криптографически случайный токен в hex-виде
func generateResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
