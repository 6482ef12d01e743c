package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// CorrectAnswer и ModelAnswer — указатели: для непривилегированных вызывающих
// они остаются nil и вообще не попадают в сериализованный ответ.
type QuestionResponse struct {
	ID            uuid.UUID `json:"id"`
	QuestionText  string    `json:"question_text"`
	Type          string    `json:"type"`
	Options       []string  `json:"options"`
	CorrectAnswer *string   `json:"correct_answer,omitempty"`
	ModelAnswer   *string   `json:"model_answer,omitempty"`
	Points        int       `json:"points"`
	Level         string    `json:"level"`
	ChapterID     uuid.UUID `json:"chapter_id"`
	SubjectID     uuid.UUID `json:"subject_id"`
	Image         string    `json:"image,omitempty"`
	AnswerImage   string    `json:"answer_image,omitempty"`
	YoutubeLink   string    `json:"youtube_link,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewQuestionResponse создает DTO для вопроса.
// includeAnswers=true (администратор) раскрывает правильный и модельный ответы.
// Доменная сущность при этом не изменяется: редактирование выполняется
// на создаваемом представлении.
func NewQuestionResponse(q *entity.Question, includeAnswers bool) *QuestionResponse {
	if q == nil {
		return nil
	}

	resp := &QuestionResponse{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Type:         q.Type,
		Options:      []string(q.Options),
		Points:       q.Points,
		Level:        q.Level,
		ChapterID:    q.ChapterID,
		SubjectID:    q.SubjectID,
		Image:        q.Image,
		AnswerImage:  q.AnswerImage,
		YoutubeLink:  q.YoutubeLink,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}

	if includeAnswers {
		if q.CorrectAnswer != "" {
			correct := q.CorrectAnswer
			resp.CorrectAnswer = &correct
		}
		if q.ModelAnswer != "" {
			model := q.ModelAnswer
			resp.ModelAnswer = &model
		}
	}

	return resp
}

// NewListQuestionResponse создает слайс DTO для списка вопросов
func NewListQuestionResponse(questions []entity.Question, includeAnswers bool) []*QuestionResponse {
	list := make([]*QuestionResponse, len(questions))
	for i := range questions {
		list[i] = NewQuestionResponse(&questions[i], includeAnswers)
	}
	return list
}
