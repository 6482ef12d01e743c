package selector

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	"github.com/yourusername/qbank-api/internal/domain/repository"
)

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uuid.UUID) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByChapterID(chapterID uuid.UUID) ([]entity.Question, error) {
	args := m.Called(chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Find(filters repository.QuestionFilters, limit int) ([]entity.Question, error) {
	args := m.Called(filters, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindBySpec(chapterID uuid.UUID, level, questionType string, subjectID *uuid.UUID, limit int) ([]entity.Question, error) {
	args := m.Called(chapterID, level, questionType, subjectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) DeleteWithAnswers(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func makeQuestions(chapterID uuid.UUID, n int) []entity.Question {
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{ID: uuid.New(), ChapterID: chapterID}
	}
	return questions
}

// ============================================================================
// Тесты для Executor.Execute
// ============================================================================

func TestExecutor_Execute_EmptySpecs(t *testing.T) {
	// Arrange
	mockRepo := new(MockQuestionRepository)
	executor := NewExecutor(mockRepo)

	// Act
	result, err := executor.Execute(nil, nil, true)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, result, "Без спецификаций результат должен быть пустым")
	mockRepo.AssertNotCalled(t, "FindBySpec")
}

func TestExecutor_Execute_PreservesSpecOrder(t *testing.T) {
	// Arrange
	mockRepo := new(MockQuestionRepository)
	chapterA := uuid.New()
	chapterB := uuid.New()
	questionsA := makeQuestions(chapterA, 2)
	questionsB := makeQuestions(chapterB, 2)

	mockRepo.On("FindBySpec", chapterA, "easy", "mcq", (*uuid.UUID)(nil), 2).Return(questionsA, nil)
	mockRepo.On("FindBySpec", chapterB, "hard", "open", (*uuid.UUID)(nil), 2).Return(questionsB, nil)

	executor := NewExecutor(mockRepo)
	specs := []QuerySpec{
		{ChapterID: chapterA, Level: "easy", Type: "mcq", Count: 2},
		{ChapterID: chapterB, Level: "hard", Type: "open", Count: 2},
	}

	// Act
	result, err := executor.Execute(specs, nil, true)

	// Assert
	require.NoError(t, err)
	require.Len(t, result, 4)
	// Результаты идут в порядке спецификаций, а не в порядке завершения запросов
	assert.Equal(t, questionsA[0].ID, result[0].ID)
	assert.Equal(t, questionsA[1].ID, result[1].ID)
	assert.Equal(t, questionsB[0].ID, result[2].ID)
	assert.Equal(t, questionsB[1].ID, result[3].ID)
	mockRepo.AssertExpectations(t)
}

func TestExecutor_Execute_DedupKeepsFirstOccurrence(t *testing.T) {
	// Arrange: две спецификации возвращают пересекающиеся наборы
	mockRepo := new(MockQuestionRepository)
	chapterID := uuid.New()
	shared := entity.Question{ID: uuid.New(), ChapterID: chapterID}
	unique := entity.Question{ID: uuid.New(), ChapterID: chapterID}

	mockRepo.On("FindBySpec", chapterID, "easy", "mcq", (*uuid.UUID)(nil), 2).
		Return([]entity.Question{shared, unique}, nil).Once()
	mockRepo.On("FindBySpec", chapterID, "easy", "open", (*uuid.UUID)(nil), 1).
		Return([]entity.Question{shared}, nil).Once()

	executor := NewExecutor(mockRepo)
	specs := []QuerySpec{
		{ChapterID: chapterID, Level: "easy", Type: "mcq", Count: 2},
		{ChapterID: chapterID, Level: "easy", Type: "open", Count: 1},
	}

	// Act
	result, err := executor.Execute(specs, nil, true)

	// Assert
	require.NoError(t, err)
	require.Len(t, result, 2, "Повторный вопрос должен быть включен один раз")
	assert.Equal(t, shared.ID, result[0].ID, "Вопрос остается на первой встреченной позиции")
	assert.Equal(t, unique.ID, result[1].ID)
}

func TestExecutor_Execute_NoDedupConcatenates(t *testing.T) {
	// Arrange: batch-режим — пересечения между спецификациями допустимы
	mockRepo := new(MockQuestionRepository)
	chapterID := uuid.New()
	questions := makeQuestions(chapterID, 3)

	mockRepo.On("FindBySpec", chapterID, "easy", "mcq", (*uuid.UUID)(nil), 2).
		Return([]entity.Question{questions[0], questions[1]}, nil)
	mockRepo.On("FindBySpec", chapterID, "easy", "open", (*uuid.UUID)(nil), 2).
		Return([]entity.Question{questions[1], questions[2]}, nil)

	executor := NewExecutor(mockRepo)
	specs := []QuerySpec{
		{ChapterID: chapterID, Level: "easy", Type: "mcq", Count: 2},
		{ChapterID: chapterID, Level: "easy", Type: "open", Count: 2},
	}

	// Act
	result, err := executor.Execute(specs, nil, false)

	// Assert
	require.NoError(t, err)
	assert.Len(t, result, 4, "Без дедупликации результаты просто конкатенируются, повторы остаются")
}

func TestExecutor_Execute_EmptyMatchDoesNotAbort(t *testing.T) {
	// Arrange: первая спецификация ничего не находит
	mockRepo := new(MockQuestionRepository)
	emptyChapter := uuid.New()
	fullChapter := uuid.New()
	questions := makeQuestions(fullChapter, 2)

	mockRepo.On("FindBySpec", emptyChapter, "hard", "open", (*uuid.UUID)(nil), 3).
		Return([]entity.Question{}, nil)
	mockRepo.On("FindBySpec", fullChapter, "easy", "mcq", (*uuid.UUID)(nil), 2).
		Return(questions, nil)

	executor := NewExecutor(mockRepo)
	specs := []QuerySpec{
		{ChapterID: emptyChapter, Level: "hard", Type: "open", Count: 3},
		{ChapterID: fullChapter, Level: "easy", Type: "mcq", Count: 2},
	}

	// Act
	result, err := executor.Execute(specs, nil, true)

	// Assert
	require.NoError(t, err, "Спецификация без совпадений не должна прерывать остальные")
	assert.Len(t, result, 2)
}

func TestExecutor_Execute_StoreErrorAborts(t *testing.T) {
	// Arrange
	mockRepo := new(MockQuestionRepository)
	okChapter := uuid.New()
	badChapter := uuid.New()
	storeErr := errors.New("connection reset")

	mockRepo.On("FindBySpec", okChapter, "easy", "mcq", (*uuid.UUID)(nil), 1).
		Return(makeQuestions(okChapter, 1), nil).Maybe()
	mockRepo.On("FindBySpec", badChapter, "easy", "mcq", (*uuid.UUID)(nil), 1).
		Return(nil, storeErr)

	executor := NewExecutor(mockRepo)
	specs := []QuerySpec{
		{ChapterID: okChapter, Level: "easy", Type: "mcq", Count: 1},
		{ChapterID: badChapter, Level: "easy", Type: "mcq", Count: 1},
	}

	// Act
	result, err := executor.Execute(specs, nil, true)

	// Assert
	require.Error(t, err, "Ошибка хранилища должна прерывать весь запрос")
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, result)
}

func TestExecutor_Execute_PassesSubjectFilter(t *testing.T) {
	// Arrange
	mockRepo := new(MockQuestionRepository)
	chapterID := uuid.New()
	subjectID := uuid.New()

	mockRepo.On("FindBySpec", chapterID, "easy", "mcq", &subjectID, 1).
		Return(makeQuestions(chapterID, 1), nil)

	executor := NewExecutor(mockRepo)
	specs := []QuerySpec{{ChapterID: chapterID, Level: "easy", Type: "mcq", Count: 1}}

	// Act
	_, err := executor.Execute(specs, &subjectID, true)

	// Assert
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
