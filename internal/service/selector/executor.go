package selector

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	"github.com/yourusername/qbank-api/internal/domain/repository"
)

// Executor исполняет спецификации выборки против хранилища вопросов
type Executor struct {
	questionRepo repository.QuestionRepository
}

// NewExecutor создает новый исполнитель спецификаций
func NewExecutor(questionRepo repository.QuestionRepository) *Executor {
	return &Executor{questionRepo: questionRepo}
}

// Execute выполняет по одному ограниченному запросу на каждую спецификацию и
// склеивает результаты в один список.
//
// Запросы к хранилищу независимы и выполняются параллельно, но итоговый порядок
// определяется порядком спецификаций, а не порядком завершения: частичные
// результаты буферизуются по индексу спецификации и склеиваются последовательно.
//
// При dedup=true вопрос, попавший под несколько спецификаций, включается один
// раз — на первой встреченной позиции (эндпоинт select). При dedup=false
// результаты просто конкатенируются и повторы допустимы (эндпоинт batch).
// Эта асимметрия — зафиксированное поведение двух разных эндпоинтов,
// унифицировать ее нельзя.
//
// Спецификация без единого совпадения не прерывает обработку остальных.
// Ошибка хранилища прерывает весь запрос.
func (e *Executor) Execute(specs []QuerySpec, subjectID *uuid.UUID, dedup bool) ([]entity.Question, error) {
	if len(specs) == 0 {
		return []entity.Question{}, nil
	}

	// Буферы частичных результатов, по одному на спецификацию
	partial := make([][]entity.Question, len(specs))
	errs := make([]error, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec QuerySpec) {
			defer wg.Done()
			questions, err := e.questionRepo.FindBySpec(spec.ChapterID, spec.Level, spec.Type, subjectID, spec.Count)
			if err != nil {
				errs[i] = err
				return
			}
			partial[i] = questions
		}(i, spec)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// Склейка в порядке спецификаций
	result := make([]entity.Question, 0)
	if dedup {
		seen := make(map[uuid.UUID]struct{})
		for _, questions := range partial {
			for _, q := range questions {
				if _, ok := seen[q.ID]; ok {
					continue
				}
				seen[q.ID] = struct{}{}
				result = append(result, q)
			}
		}
		return result, nil
	}

	for _, questions := range partial {
		result = append(result, questions...)
	}
	return result, nil
}
