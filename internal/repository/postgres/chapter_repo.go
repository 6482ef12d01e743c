package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	apperrors "github.com/yourusername/qbank-api/internal/pkg/errors"
)

// ChapterRepo реализует repository.ChapterRepository
type ChapterRepo struct {
	db *gorm.DB
}

// NewChapterRepo создает новый репозиторий глав
func NewChapterRepo(db *gorm.DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

// GetByID возвращает главу по ID
func (r *ChapterRepo) GetByID(id uuid.UUID) (*entity.Chapter, error) {
	var chapter entity.Chapter
	err := r.db.First(&chapter, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &chapter, nil
}

// GetAll возвращает все главы, опционально ограниченные предметом
func (r *ChapterRepo) GetAll(subjectID *uuid.UUID) ([]entity.Chapter, error) {
	var chapters []entity.Chapter

	query := r.db.Order("created_at")
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}

	err := query.Find(&chapters).Error
	if err != nil {
		return nil, err
	}
	return chapters, nil
}
