package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Типы вопросов
const (
	QuestionTypeMCQ  = "mcq"  // вопрос с вариантами ответа
	QuestionTypeOpen = "open" // открытый вопрос с развернутым ответом
)

// Уровни сложности
const (
	LevelEasy   = "easy"
	LevelMedium = "medium"
	LevelHard   = "hard"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос в банке вопросов
type Question struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionText  string      `gorm:"size:2000;not null" json:"question_text"`
	Type          string      `gorm:"size:20;not null;default:'mcq'" json:"type"` // "mcq" или "open"
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer string      `gorm:"size:500" json:"-"` // Скрыто от клиента, раскрывается только админу через DTO
	ModelAnswer   string      `gorm:"size:2000" json:"-"`
	Points        int         `gorm:"not null;default:1" json:"points"`
	Level         string      `gorm:"size:10;not null;index" json:"level"` // easy, medium, hard
	ChapterID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"chapter_id"`
	SubjectID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"subject_id"`
	Image         string      `gorm:"size:500;default:''" json:"image,omitempty"`
	AnswerImage   string      `gorm:"size:500;default:''" json:"answer_image,omitempty"`
	YoutubeLink   string      `gorm:"size:500;default:''" json:"youtube_link,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// BeforeCreate генерирует UUID, если он не был задан явно
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// IsMCQ возвращает true, если вопрос с вариантами ответа
func (q *Question) IsMCQ() bool {
	return q.Type == QuestionTypeMCQ
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidLevel проверяет, является ли строка допустимым уровнем сложности
func IsValidLevel(level string) bool {
	return level == LevelEasy || level == LevelMedium || level == LevelHard
}

// IsValidQuestionType проверяет, является ли строка допустимым типом вопроса
func IsValidQuestionType(t string) bool {
	return t == QuestionTypeMCQ || t == QuestionTypeOpen
}
