package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// StudentAnswerRepository определяет методы для работы с историей ответов студентов.
// Из логики банка вопросов история только читается; удаление выполняется
// каскадно внутри QuestionRepository.DeleteWithAnswers.
type StudentAnswerRepository interface {
	GetByStudentID(studentID uuid.UUID) ([]entity.StudentAnswer, error)
	CountByQuestionID(questionID uuid.UUID) (int64, error)
}
