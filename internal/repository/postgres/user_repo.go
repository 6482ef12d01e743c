package postgres

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	apperrors "github.com/yourusername/qbank-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByResetToken ищет пользователя по хешу токена сброса с непросроченным сроком действия
func (r *UserRepo) GetByResetToken(tokenHash string, now time.Time) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("reset_password_token = ? AND reset_password_expires > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetResetToken сохраняет хеш токена сброса и срок его действия
func (r *UserRepo) SetResetToken(userID uuid.UUID, tokenHash string, expires time.Time) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_password_token":   tokenHash,
			"reset_password_expires": expires,
			"updated_at":             time.Now(),
		}).Error
}

// ClearResetToken стирает токен сброса
func (r *UserRepo) ClearResetToken(userID uuid.UUID) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_password_token":   "",
			"reset_password_expires": nil,
			"updated_at":             time.Now(),
		}).Error
}

// UpdatePassword безопасно обновляет пароль пользователя.
// Хеширует пароль непосредственно здесь и пишет его прямым SQL-запросом,
// чтобы обойти хук BeforeSave и предотвратить двойное хеширование.
func (r *UserRepo) UpdatePassword(userID uuid.UUID, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при хешировании пароля: %v", err)
		return err
	}

	result := r.db.Exec(
		"UPDATE users SET password = ?, reset_password_token = '', reset_password_expires = NULL, updated_at = ? WHERE id = ?",
		string(hashedPassword),
		time.Now(),
		userID,
	)
	if result.Error != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при обновлении пароля для пользователя ID=%s: %v", userID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
