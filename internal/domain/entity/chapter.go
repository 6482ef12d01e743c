package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chapter представляет главу внутри предмета.
// Через этот API главы только читаются (для выборки вопросов), но не изменяются.
type Chapter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Chapter) TableName() string {
	return "chapters"
}

// BeforeCreate генерирует UUID, если он не был задан явно
func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
