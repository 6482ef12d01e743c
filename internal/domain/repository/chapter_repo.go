package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// ChapterRepository определяет методы для чтения глав.
// Главы через этот API не изменяются.
type ChapterRepository interface {
	GetByID(id uuid.UUID) (*entity.Chapter, error)

	// GetAll возвращает все главы; если subjectID задан — только главы этого предмета.
	GetAll(subjectID *uuid.UUID) ([]entity.Chapter, error)
}
