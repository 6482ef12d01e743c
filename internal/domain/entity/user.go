package entity

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User представляет пользователя в системе
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email    string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"size:100;not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'user'" json:"-"` // "user" или "admin"

	// Токен сброса пароля хранится в виде sha256-хеша, сырой токен уходит только в письмо
	ResetPasswordToken   string     `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time `gorm:"type:timestamp" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsAdmin возвращает true, если пользователь — администратор
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeCreate генерирует UUID, если он не был задан явно
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой
	// 2. Не является уже bcrypt-хешем (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
