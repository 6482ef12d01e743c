package selector

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

func makeChapters(n int) []entity.Chapter {
	chapters := make([]entity.Chapter, n)
	for i := range chapters {
		chapters[i] = entity.Chapter{ID: uuid.New()}
	}
	return chapters
}

// ============================================================================
// Тесты для Normalize: авторазворачивание пустого списка критериев
// ============================================================================

func TestNormalize_EmptySpecs_ExpandsOverChapters(t *testing.T) {
	// Arrange
	chapters := makeChapters(3)

	// Act
	specs := Normalize(nil, chapters, Defaults{})

	// Assert
	require.Len(t, specs, 3, "Должна быть одна спецификация на каждую главу")
	for i, spec := range specs {
		assert.Equal(t, chapters[i].ID, spec.ChapterID, "Порядок спецификаций должен соответствовать порядку глав")
		assert.Equal(t, DefaultLevel, spec.Level)
		assert.Equal(t, DefaultType, spec.Type)
		assert.Equal(t, DefaultCount, spec.Count)
	}
}

func TestNormalize_EmptySpecs_UsesProvidedDefaults(t *testing.T) {
	// Arrange
	chapters := makeChapters(2)
	defaults := Defaults{Level: "hard", Type: "open", Count: 5}

	// Act
	specs := Normalize(nil, chapters, defaults)

	// Assert
	require.Len(t, specs, 2)
	for _, spec := range specs {
		assert.Equal(t, "hard", spec.Level, "Уровень должен браться из глобальных значений запроса")
		assert.Equal(t, "open", spec.Type)
		assert.Equal(t, 5, spec.Count)
	}
}

func TestNormalize_EmptySpecs_NoChapters(t *testing.T) {
	// Act
	specs := Normalize(nil, nil, Defaults{})

	// Assert
	assert.Empty(t, specs, "Без глав разворачивать нечего")
}

// ============================================================================
// Тесты для Normalize: явные критерии умолчаниями не дополняются
// ============================================================================

func TestNormalize_ExplicitSpecs_SkipsIncomplete(t *testing.T) {
	// Arrange
	validChapter := uuid.New()
	raw := []RawSpec{
		{ChapterID: uuidPtr(validChapter), Level: "medium", Type: "mcq", Count: 2}, // валидный
		{ChapterID: nil, Level: "easy", Type: "mcq", Count: 1},                     // нет главы
		{ChapterID: uuidPtr(uuid.New()), Level: "", Type: "mcq", Count: 1},         // нет уровня
		{ChapterID: uuidPtr(uuid.New()), Level: "easy", Type: "", Count: 1},        // нет типа
		{ChapterID: uuidPtr(uuid.New()), Level: "easy", Type: "mcq", Count: 0},     // count не положителен
		{ChapterID: uuidPtr(uuid.New()), Level: "easy", Type: "mcq", Count: -3},
	}

	// Act
	specs := Normalize(raw, nil, Defaults{Level: "hard", Type: "open", Count: 9})

	// Assert
	require.Len(t, specs, 1, "Неполные критерии должны молча пропускаться")
	assert.Equal(t, validChapter, specs[0].ChapterID)
	assert.Equal(t, "medium", specs[0].Level, "Явный критерий не должен дополняться умолчаниями")
	assert.Equal(t, 2, specs[0].Count)
}

func TestNormalize_ExplicitSpecs_PreservesOrder(t *testing.T) {
	// Arrange
	first := uuid.New()
	second := uuid.New()
	raw := []RawSpec{
		{ChapterID: uuidPtr(first), Level: "easy", Type: "mcq", Count: 1},
		{ChapterID: nil, Level: "easy", Type: "mcq", Count: 1}, // пропускается
		{ChapterID: uuidPtr(second), Level: "hard", Type: "open", Count: 3},
	}

	// Act
	specs := Normalize(raw, nil, Defaults{})

	// Assert
	require.Len(t, specs, 2)
	assert.Equal(t, first, specs[0].ChapterID)
	assert.Equal(t, second, specs[1].ChapterID, "Порядок оставшихся критериев должен сохраняться")
}

func TestNormalize_AllSpecsInvalid(t *testing.T) {
	// Arrange
	raw := []RawSpec{
		{ChapterID: nil, Level: "easy", Type: "mcq", Count: 1},
		{ChapterID: uuidPtr(uuid.New()), Level: "", Type: "", Count: 0},
	}

	// Act
	specs := Normalize(raw, makeChapters(2), Defaults{})

	// Assert
	assert.Empty(t, specs, "Непустой список критериев не должен разворачиваться по главам, даже если все критерии невалидны")
}
