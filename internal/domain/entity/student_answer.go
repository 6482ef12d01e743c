package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentAnswer представляет зафиксированный ответ студента на вопрос.
// Логика банка вопросов только читает эти записи; удаляются они каскадно
// вместе с вопросом, на который ссылаются.
type StudentAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (StudentAnswer) TableName() string {
	return "student_answers"
}

// BeforeCreate генерирует UUID, если он не был задан явно
func (a *StudentAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
