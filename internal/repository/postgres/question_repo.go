package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	"github.com/yourusername/qbank-api/internal/domain/repository"
	apperrors "github.com/yourusername/qbank-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uuid.UUID) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByChapterID возвращает все вопросы главы
func (r *QuestionRepo) GetByChapterID(chapterID uuid.UUID) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("chapter_id = ?", chapterID).Order("created_at").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Find возвращает вопросы по явным фильтрам.
// limit <= 0 означает выборку без ограничения.
func (r *QuestionRepo) Find(filters repository.QuestionFilters, limit int) ([]entity.Question, error) {
	var questions []entity.Question

	query := r.db.Model(&entity.Question{})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if filters.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filters.ChapterID)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.Level != "" {
		query = query.Where("level = ?", filters.Level)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}

	err := query.Order("created_at").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// FindBySpec возвращает не более limit вопросов, подходящих под спецификацию выборки
func (r *QuestionRepo) FindBySpec(chapterID uuid.UUID, level, questionType string, subjectID *uuid.UUID, limit int) ([]entity.Question, error) {
	var questions []entity.Question

	query := r.db.Where("chapter_id = ? AND level = ? AND type = ?", chapterID, level, questionType)
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}

	err := query.Order("created_at").Limit(limit).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// DeleteWithAnswers удаляет вопрос и все ссылающиеся на него записи student_answers.
// Обе операции выполняются в одной транзакции: частичное удаление оставило бы
// осиротевшие записи истории ответов.
func (r *QuestionRepo) DeleteWithAnswers(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&entity.StudentAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Question{}, "id = ?", id).Error
	})
}
