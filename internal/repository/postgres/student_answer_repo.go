package postgres

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// StudentAnswerRepo реализует repository.StudentAnswerRepository
type StudentAnswerRepo struct {
	db *gorm.DB
}

// NewStudentAnswerRepo создает новый репозиторий ответов студентов
func NewStudentAnswerRepo(db *gorm.DB) *StudentAnswerRepo {
	return &StudentAnswerRepo{db: db}
}

// GetByStudentID возвращает всю историю ответов студента
func (r *StudentAnswerRepo) GetByStudentID(studentID uuid.UUID) ([]entity.StudentAnswer, error) {
	var answers []entity.StudentAnswer
	err := r.db.Where("student_id = ?", studentID).Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// CountByQuestionID возвращает количество записей истории, ссылающихся на вопрос
func (r *StudentAnswerRepo) CountByQuestionID(questionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&entity.StudentAnswer{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	return count, err
}
