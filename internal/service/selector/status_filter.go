package selector

import (
	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// FilterByStatus фильтрует набор вопросов по истории ответов студента.
//
//   - status == "" — набор возвращается без изменений;
//   - status == "wrong" — остаются только вопросы, на которые есть хотя бы один
//     неправильный ответ. Вопрос, отвеченный и верно, и неверно (несколько
//     попыток), считается "с неправильным ответом" — любой неверной записи
//     достаточно;
//   - status == "not answered" — остаются только вопросы без единой записи в истории.
//
// Неизвестный статус трактуется как отсутствие фильтрации.
func FilterByStatus(questions []entity.Question, answers []entity.StudentAnswer, status string) []entity.Question {
	switch status {
	case StatusWrong:
		wrongIDs := make(map[uuid.UUID]struct{})
		for _, answer := range answers {
			if !answer.IsCorrect {
				wrongIDs[answer.QuestionID] = struct{}{}
			}
		}

		filtered := make([]entity.Question, 0, len(questions))
		for _, q := range questions {
			if _, ok := wrongIDs[q.ID]; ok {
				filtered = append(filtered, q)
			}
		}
		return filtered

	case StatusNotAnswered:
		answeredIDs := make(map[uuid.UUID]struct{})
		for _, answer := range answers {
			answeredIDs[answer.QuestionID] = struct{}{}
		}

		filtered := make([]entity.Question, 0, len(questions))
		for _, q := range questions {
			if _, ok := answeredIDs[q.ID]; !ok {
				filtered = append(filtered, q)
			}
		}
		return filtered

	default:
		return questions
	}
}
