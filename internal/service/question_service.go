package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	"github.com/yourusername/qbank-api/internal/domain/repository"
	apperrors "github.com/yourusername/qbank-api/internal/pkg/errors"
	"github.com/yourusername/qbank-api/internal/service/selector"
)

// Ключи и TTL кеша списка глав. Главы через этот API не изменяются,
// поэтому короткого TTL достаточно вместо инвалидации.
const (
	chapterCacheKeyAll    = "chapters:all"
	chapterCacheKeyPrefix = "chapters:subject:"
	chapterCacheTTL       = 5 * time.Minute
)

// Папки Cloudinary для изображений вопросов и ответов
const (
	questionImageFolder = "questions"
	answerImageFolder   = "answers"
)

// QuestionService предоставляет методы для работы с банком вопросов
type QuestionService struct {
	questionRepo repository.QuestionRepository
	chapterRepo  repository.ChapterRepository
	subjectRepo  repository.SubjectRepository
	answerRepo   repository.StudentAnswerRepository
	cacheRepo    repository.CacheRepository
	mediaService MediaService
	executor     *selector.Executor
}

// NewQuestionService создает новый сервис банка вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	chapterRepo repository.ChapterRepository,
	subjectRepo repository.SubjectRepository,
	answerRepo repository.StudentAnswerRepository,
	cacheRepo repository.CacheRepository,
	mediaService MediaService,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		chapterRepo:  chapterRepo,
		subjectRepo:  subjectRepo,
		answerRepo:   answerRepo,
		cacheRepo:    cacheRepo,
		mediaService: mediaService,
		executor:     selector.NewExecutor(questionRepo),
	}
}

// GetQuestions возвращает вопросы по явным фильтрам с опциональной фильтрацией
// по статусу ответов студента. Limit применяется после статусной фильтрации.
func (s *QuestionService) GetQuestions(filters repository.QuestionFilters, status string, studentID uuid.UUID, limit int) ([]entity.Question, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive number", apperrors.ErrValidation)
	}

	// Без ограничения: статусная фильтрация выполняется над полным набором,
	// limit срезает уже отфильтрованный список
	questions, err := s.questionRepo.Find(filters, 0)
	if err != nil {
		return nil, err
	}

	if status != "" {
		answers, err := s.answerRepo.GetByStudentID(studentID)
		if err != nil {
			return nil, err
		}
		questions = selector.FilterByStatus(questions, answers, status)
	}

	if len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// GetQuestionByID возвращает вопрос по ID
func (s *QuestionService) GetQuestionByID(id uuid.UUID) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// GetQuestionsByChapter возвращает все вопросы главы
func (s *QuestionService) GetQuestionsByChapter(chapterID uuid.UUID) ([]entity.Question, error) {
	return s.questionRepo.GetByChapterID(chapterID)
}

// GetAllQuestions возвращает весь банк вопросов (для экспорта)
func (s *QuestionService) GetAllQuestions() ([]entity.Question, error) {
	return s.questionRepo.Find(repository.QuestionFilters{}, 0)
}

// SelectQuestions нормализует критерии клиента и выполняет выборку с дедупликацией.
// Пустой список критериев разворачивается по всем главам предмета subjectID
// (или вообще всем главам, если предмет не задан).
func (s *QuestionService) SelectQuestions(raw []selector.RawSpec, subjectID *uuid.UUID, defaults selector.Defaults) ([]entity.Question, error) {
	var chapters []entity.Chapter
	if len(raw) == 0 {
		var err error
		chapters, err = s.getChapters(subjectID)
		if err != nil {
			return nil, err
		}
	}

	specs := selector.Normalize(raw, chapters, defaults)
	return s.executor.Execute(specs, subjectID, true)
}

// BatchQuestions выполняет полностью явные спецификации клиента без дедупликации:
// результаты конкатенируются и повторы между спецификациями допустимы.
// Неполные спецификации молча пропускаются.
func (s *QuestionService) BatchQuestions(raw []selector.RawSpec, subjectID *uuid.UUID) ([]entity.Question, error) {
	specs := selector.Normalize(raw, nil, selector.Defaults{})
	return s.executor.Execute(specs, subjectID, false)
}

// CreateQuestionInput содержит данные для создания вопроса
type CreateQuestionInput struct {
	QuestionText  string
	Type          string
	Options       []string
	CorrectAnswer string
	ModelAnswer   string
	Points        int
	Level         string
	ChapterID     uuid.UUID
	SubjectID     uuid.UUID
	YoutubeLink   string
}

// CreateQuestion создает вопрос, проверив существование предмета и главы и
// загрузив приложенные изображения во внешнее медиахранилище.
func (s *QuestionService) CreateQuestion(ctx context.Context, input CreateQuestionInput, image, answerImage *multipart.FileHeader) (*entity.Question, error) {
	if _, err := s.subjectRepo.GetByID(input.SubjectID); err != nil {
		return nil, fmt.Errorf("subject not found: %w", err)
	}
	// Несуществующая глава — ошибка входных данных (400), в отличие от предмета (404)
	if _, err := s.chapterRepo.GetByID(input.ChapterID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: chapter not found", apperrors.ErrValidation)
		}
		return nil, err
	}

	question := &entity.Question{
		QuestionText:  input.QuestionText,
		Type:          input.Type,
		Options:       entity.StringArray(input.Options),
		CorrectAnswer: input.CorrectAnswer,
		ModelAnswer:   input.ModelAnswer,
		Points:        input.Points,
		Level:         input.Level,
		ChapterID:     input.ChapterID,
		SubjectID:     input.SubjectID,
		YoutubeLink:   input.YoutubeLink,
	}

	if image != nil {
		url, err := s.uploadImage(ctx, image, questionImageFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload question image: %w", err)
		}
		question.Image = url
	}
	if answerImage != nil {
		url, err := s.uploadImage(ctx, answerImage, answerImageFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload answer image: %w", err)
		}
		question.AnswerImage = url
	}

	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// DeleteQuestion удаляет вопрос вместе со всеми ссылающимися на него
// записями истории ответов (одной транзакцией)
func (s *QuestionService) DeleteQuestion(id uuid.UUID) error {
	// Убеждаемся, что вопрос существует, чтобы вернуть клиенту 404, а не молчаливый успех
	if _, err := s.questionRepo.GetByID(id); err != nil {
		return err
	}

	answerCount, err := s.answerRepo.CountByQuestionID(id)
	if err != nil {
		return err
	}

	if err := s.questionRepo.DeleteWithAnswers(id); err != nil {
		return err
	}

	log.Printf("[QuestionService] Вопрос %s удален вместе с %d записями истории ответов", id, answerCount)
	return nil
}

func (s *QuestionService) uploadImage(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return s.mediaService.UploadImage(ctx, file, folder)
}

// getChapters возвращает список глав, используя кеш с коротким TTL:
// авторазворачивание пустого списка критериев читает главы на каждый запрос select.
func (s *QuestionService) getChapters(subjectID *uuid.UUID) ([]entity.Chapter, error) {
	cacheKey := chapterCacheKeyAll
	if subjectID != nil {
		cacheKey = chapterCacheKeyPrefix + subjectID.String()
	}

	if s.cacheRepo != nil {
		var cached []entity.Chapter
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	chapters, err := s.chapterRepo.GetAll(subjectID)
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(cacheKey, chapters, chapterCacheTTL); err != nil {
			// Кеш не критичен для корректности, ошибку только логируем
			log.Printf("[QuestionService] Не удалось закешировать список глав: %v", err)
		}
	}
	return chapters, nil
}
