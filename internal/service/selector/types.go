// Package selector реализует логику отбора вопросов из банка:
// нормализацию критериев выборки, исполнение спецификаций с ограничением
// количества и фильтрацию по статусу ответов студента.
package selector

import (
	"github.com/google/uuid"
)

// Жестко заданные значения по умолчанию для неполных спецификаций
const (
	DefaultLevel = "easy"
	DefaultType  = "mcq"
	DefaultCount = 1
)

// RawSpec — частично заполненный критерий выборки, как его прислал клиент.
// Любое поле может отсутствовать.
type RawSpec struct {
	ChapterID *uuid.UUID
	Level     string
	Type      string
	Count     int
}

// QuerySpec — полностью заполненная спецификация выборки:
// из главы ChapterID берется не более Count вопросов уровня Level и типа Type.
type QuerySpec struct {
	ChapterID uuid.UUID
	Level     string
	Type      string
	Count     int
}

// Defaults — глобальные значения из верхнего уровня запроса,
// которыми заполняются пропуски в отдельных спецификациях.
type Defaults struct {
	Level string
	Type  string
	Count int
}

// Статусы для фильтрации по истории ответов
const (
	StatusWrong       = "wrong"
	StatusNotAnswered = "not answered"
)

// IsValidStatus проверяет, является ли строка поддерживаемым статусом.
// Пустая строка означает отсутствие фильтрации и тоже валидна.
func IsValidStatus(status string) bool {
	return status == "" || status == StatusWrong || status == StatusNotAnswered
}
