package selector

import (
	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// Normalize превращает частично заполненные критерии клиента в канонический
// упорядоченный список спецификаций выборки.
//
// Если список критериев пуст, он разворачивается по одной спецификации на каждую
// переданную главу (вызывающий код подставляет все главы нужного предмета либо
// вообще все главы); уровень, тип и количество берутся из defaults, а при их
// отсутствии — из жестких значений по умолчанию (easy / mcq / 1).
//
// Явно переданные критерии умолчаниями не дополняются: критерий без главы,
// уровня, типа или с неположительным count молча пропускается, обработка
// остальных продолжается. Функция никогда не возвращает ошибку.
func Normalize(raw []RawSpec, chapters []entity.Chapter, defaults Defaults) []QuerySpec {
	// Пустой список критериев разворачиваем по всем переданным главам
	if len(raw) == 0 {
		level := defaults.Level
		if level == "" {
			level = DefaultLevel
		}
		questionType := defaults.Type
		if questionType == "" {
			questionType = DefaultType
		}
		count := defaults.Count
		if count <= 0 {
			count = DefaultCount
		}

		specs := make([]QuerySpec, 0, len(chapters))
		for _, chapter := range chapters {
			specs = append(specs, QuerySpec{
				ChapterID: chapter.ID,
				Level:     level,
				Type:      questionType,
				Count:     count,
			})
		}
		return specs
	}

	specs := make([]QuerySpec, 0, len(raw))
	for _, item := range raw {
		if item.ChapterID == nil || item.Level == "" || item.Type == "" || item.Count <= 0 {
			continue
		}
		specs = append(specs, QuerySpec{
			ChapterID: *item.ChapterID,
			Level:     item.Level,
			Type:      item.Type,
			Count:     item.Count,
		})
	}
	return specs
}
