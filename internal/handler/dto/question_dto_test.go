package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

func makeQuestion() *entity.Question {
	return &entity.Question{
		ID:            uuid.New(),
		QuestionText:  "Столица Франции?",
		Type:          entity.QuestionTypeMCQ,
		Options:       entity.StringArray{"Париж", "Лион", "Марсель", "Ницца"},
		CorrectAnswer: "Париж",
		ModelAnswer:   "Париж — столица Франции",
		Points:        1,
		Level:         entity.LevelEasy,
		ChapterID:     uuid.New(),
		SubjectID:     uuid.New(),
	}
}

func TestNewQuestionResponse_HidesAnswersFromNonAdmin(t *testing.T) {
	// Arrange
	question := makeQuestion()

	// Act
	resp := NewQuestionResponse(question, false)

	// Assert
	require.NotNil(t, resp)
	assert.Nil(t, resp.CorrectAnswer, "Правильный ответ не должен отдаваться непривилегированному вызывающему")
	assert.Nil(t, resp.ModelAnswer)

	// Поля должны полностью отсутствовать в сериализованном ответе, а не быть пустыми
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "correct_answer")
	assert.NotContains(t, string(data), "model_answer")
}

func TestNewQuestionResponse_RevealsAnswersToAdmin(t *testing.T) {
	// Arrange
	question := makeQuestion()

	// Act
	resp := NewQuestionResponse(question, true)

	// Assert
	require.NotNil(t, resp.CorrectAnswer)
	require.NotNil(t, resp.ModelAnswer)
	assert.Equal(t, "Париж", *resp.CorrectAnswer)
}

func TestNewQuestionResponse_DoesNotMutateEntity(t *testing.T) {
	// Arrange
	question := makeQuestion()

	// Act: редактирование выполняется на представлении
	_ = NewQuestionResponse(question, false)

	// Assert: доменная сущность не изменяется
	assert.Equal(t, "Париж", question.CorrectAnswer)
	assert.Equal(t, "Париж — столица Франции", question.ModelAnswer)
}

func TestNewQuestionResponse_Nil(t *testing.T) {
	assert.Nil(t, NewQuestionResponse(nil, true))
}

func TestNewListQuestionResponse(t *testing.T) {
	// Arrange
	questions := []entity.Question{*makeQuestion(), *makeQuestion()}

	// Act
	list := NewListQuestionResponse(questions, false)

	// Assert
	require.Len(t, list, 2)
	for _, resp := range list {
		assert.Nil(t, resp.CorrectAnswer)
	}
}
