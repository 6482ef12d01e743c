package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uuid.UUID) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)

	// GetByResetToken ищет пользователя по sha256-хешу токена сброса пароля
	// с непросроченным сроком действия.
	GetByResetToken(tokenHash string, now time.Time) (*entity.User, error)

	// SetResetToken сохраняет хеш токена сброса и срок его действия.
	SetResetToken(userID uuid.UUID, tokenHash string, expires time.Time) error

	// ClearResetToken стирает токен сброса (после использования или неудачной отправки письма).
	ClearResetToken(userID uuid.UUID) error

	// UpdatePassword безопасно обновляет пароль, хешируя его на месте.
	UpdatePassword(userID uuid.UUID, newPassword string) error
}
