package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
)

// SubjectRepository определяет методы для чтения предметов
type SubjectRepository interface {
	GetByID(id uuid.UUID) (*entity.Subject, error)
}
