package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту.
// Пароль и поля токена сброса наружу не отдаются.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse создает DTO для пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
