package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// QuestionFilters содержит фильтры для поиска вопросов.
// Явный список полей заменяет динамическую фильтрацию по произвольным
// query-параметрам: всё, что не перечислено здесь, в запрос к хранилищу не попадает.
type QuestionFilters struct {
	ChapterID *uuid.UUID
	SubjectID *uuid.UUID
	Level     string // easy, medium, hard
	Type      string // mcq, open
}

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uuid.UUID) (*entity.Question, error)
	GetByChapterID(chapterID uuid.UUID) ([]entity.Question, error)
	Find(filters QuestionFilters, limit int) ([]entity.Question, error)

	// FindBySpec возвращает не более limit вопросов, подходящих под
	// главу/уровень/тип и, если задан, глобальный фильтр по предмету.
	// Используется исполнителем спецификаций выборки.
	FindBySpec(chapterID uuid.UUID, level, questionType string, subjectID *uuid.UUID, limit int) ([]entity.Question, error)

	// DeleteWithAnswers удаляет вопрос и все ссылающиеся на него записи
	// student_answers в одной транзакции.
	DeleteWithAnswers(id uuid.UUID) error
}
