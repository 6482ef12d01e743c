package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject представляет предмет — верхний уровень группировки вопросов.
type Subject struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Subject) TableName() string {
	return "subjects"
}

// BeforeCreate генерирует UUID, если он не был задан явно
func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
