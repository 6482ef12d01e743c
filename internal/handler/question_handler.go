package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/qbank-api/internal/domain/entity"
	"github.com/yourusername/qbank-api/internal/domain/repository"
	"github.com/yourusername/qbank-api/internal/handler/dto"
	apperrors "github.com/yourusername/qbank-api/internal/pkg/errors"
	"github.com/yourusername/qbank-api/internal/service"
	"github.com/yourusername/qbank-api/internal/service/selector"
)

// Лимит по умолчанию для GET /api/questions
const defaultQuestionLimit = 1000

// QuestionHandler обрабатывает запросы, связанные с банком вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик банка вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ChapterSpecRequest представляет один критерий выборки в запросе select.
// Любое поле может отсутствовать: неполные критерии пропускаются на нормализации.
type ChapterSpecRequest struct {
	ChapterID string `json:"chapterId"`
	Level     string `json:"level"`
	Type      string `json:"type"`
	Count     int    `json:"count"`
}

// SelectQuestionsRequest представляет запрос на выборку вопросов по главам и уровням
type SelectQuestionsRequest struct {
	Chapters []ChapterSpecRequest `json:"chapters"`
	Subject  string               `json:"subject" binding:"omitempty,uuid"`
	Type     string               `json:"type"`
	Level    string               `json:"level"`
	Count    int                  `json:"count"`
}

// BatchItemRequest представляет одну спецификацию в batch-запросе
type BatchItemRequest struct {
	ChapterID    string `json:"chapterId"`
	QuestionType string `json:"questionType"`
	Difficulty   string `json:"difficulty"`
	Count        int    `json:"count"`
}

// BatchQuestionsRequest представляет batch-запрос с полностью явными спецификациями
type BatchQuestionsRequest struct {
	Requests []BatchItemRequest `json:"requests" binding:"required,min=1"`
	Subject  string             `json:"subject" binding:"omitempty,uuid"`
}

// GetQuestions возвращает вопросы по фильтрам из query-параметров.
// Опциональный параметр status (wrong / not answered) фильтрует по истории
// ответов вызывающего; limit по умолчанию 1000 и обязан быть положительным.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	limit := defaultQuestionLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter. It must be a positive number."})
			return
		}
		limit = parsed
	}

	filters, err := parseQuestionFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := c.Query("status")
	userID := c.MustGet("user_id").(uuid.UUID)

	questions, err := h.questionService.GetQuestions(filters, status, userID, limit)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	includeAnswers := c.GetBool("is_admin")
	c.JSON(http.StatusOK, gin.H{
		"count": len(questions),
		"data":  dto.NewListQuestionResponse(questions, includeAnswers),
	})
}

// GetQuestion возвращает один вопрос по ID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uuid.UUID) // Получаем из контекста

	question, err := h.questionService.GetQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Question not found with id of %s", questionID)})
			return
		}
		h.handleQuestionError(c, err)
		return
	}

	includeAnswers := c.GetBool("is_admin")
	c.JSON(http.StatusOK, gin.H{"data": dto.NewQuestionResponse(question, includeAnswers)})
}

// CreateQuestion обрабатывает создание вопроса (multipart-форма с опциональными
// изображениями вопроса и ответа)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	subjectIDStr := c.PostForm("subjectId")
	if subjectIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject ID is required"})
		return
	}
	subjectID, err := uuid.Parse(subjectIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID format"})
		return
	}

	level := c.PostForm("level")
	if level == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty level is required"})
		return
	}
	if !entity.IsValidLevel(level) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Level must be one of: easy, medium, hard"})
		return
	}

	chapterID, err := uuid.Parse(c.PostForm("chapterId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chapter ID format"})
		return
	}

	questionType := c.PostForm("type")
	if questionType == "" {
		questionType = entity.QuestionTypeMCQ
	}
	if !entity.IsValidQuestionType(questionType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type must be one of: mcq, open"})
		return
	}

	// Варианты ответа приходят JSON-строкой в поле формы
	var options []string
	if optionsStr := c.PostForm("options"); optionsStr != "" {
		if err := json.Unmarshal([]byte(optionsStr), &options); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Options must be a JSON array of strings"})
			return
		}
	}

	points := 1
	if pointsStr := c.PostForm("points"); pointsStr != "" {
		points, err = strconv.Atoi(pointsStr)
		if err != nil || points <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Points must be a positive number"})
			return
		}
	}

	input := service.CreateQuestionInput{
		QuestionText:  c.PostForm("questionText"),
		Type:          questionType,
		Options:       options,
		CorrectAnswer: c.PostForm("correctAnswer"),
		ModelAnswer:   c.PostForm("modelAnswer"),
		Points:        points,
		Level:         level,
		ChapterID:     chapterID,
		SubjectID:     subjectID,
		YoutubeLink:   c.PostForm("youtubeLink"),
	}
	if input.QuestionText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question text is required"})
		return
	}

	// Изображения опциональны
	image, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}
	answerImage, err := c.FormFile("answerImage")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read answer image file"})
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), input, image, answerImage)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	// Создает только администратор, поэтому ответы не скрываем
	c.JSON(http.StatusCreated, gin.H{"data": dto.NewQuestionResponse(question, true)})
}

// DeleteQuestion удаляет вопрос вместе с зависимой историей ответов
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uuid.UUID) // Получаем из контекста

	if err := h.questionService.DeleteQuestion(questionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Question not found with id of %s", questionID)})
			return
		}
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// SelectQuestions возвращает вопросы по нескольким главам и уровням с дедупликацией.
// Пустой список chapters разворачивается по всем главам предмета (или всем вообще).
func (h *QuestionHandler) SelectQuestions(c *gin.Context) {
	var req SelectQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subjectID, err := parseOptionalUUID(req.Subject)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID format"})
		return
	}

	raw := make([]selector.RawSpec, 0, len(req.Chapters))
	for _, item := range req.Chapters {
		spec := selector.RawSpec{
			Level: item.Level,
			Type:  item.Type,
			Count: item.Count,
		}
		// Главу с нечитаемым ID трактуем как отсутствующую: критерий будет пропущен
		if chapterID, parseErr := uuid.Parse(item.ChapterID); parseErr == nil {
			spec.ChapterID = &chapterID
		}
		raw = append(raw, spec)
	}

	defaults := selector.Defaults{
		Level: req.Level,
		Type:  req.Type,
		Count: req.Count,
	}

	questions, err := h.questionService.SelectQuestions(raw, subjectID, defaults)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	includeAnswers := c.GetBool("is_admin")
	c.JSON(http.StatusOK, gin.H{
		"count": len(questions),
		"data":  dto.NewListQuestionResponse(questions, includeAnswers),
	})
}

// BatchQuestions возвращает вопросы по полностью явным спецификациям без
// дедупликации: результаты конкатенируются, повторы между спецификациями
// допустимы — в отличие от SelectQuestions
func (h *QuestionHandler) BatchQuestions(c *gin.Context) {
	var req BatchQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requests array is required"})
		return
	}

	subjectID, err := parseOptionalUUID(req.Subject)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID format"})
		return
	}

	raw := make([]selector.RawSpec, 0, len(req.Requests))
	for _, item := range req.Requests {
		spec := selector.RawSpec{
			Level: item.Difficulty,
			Type:  item.QuestionType,
			Count: item.Count,
		}
		if chapterID, parseErr := uuid.Parse(item.ChapterID); parseErr == nil {
			spec.ChapterID = &chapterID
		}
		raw = append(raw, spec)
	}

	questions, err := h.questionService.BatchQuestions(raw, subjectID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	includeAnswers := c.GetBool("is_admin")
	c.JSON(http.StatusOK, gin.H{
		"count": len(questions),
		"data":  dto.NewListQuestionResponse(questions, includeAnswers),
	})
}

// GetQuestionsByChapter возвращает все вопросы главы
func (h *QuestionHandler) GetQuestionsByChapter(c *gin.Context) {
	chapterID := c.MustGet("chapterID").(uuid.UUID) // Получаем из контекста

	questions, err := h.questionService.GetQuestionsByChapter(chapterID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	includeAnswers := c.GetBool("is_admin")
	c.JSON(http.StatusOK, gin.H{
		"count": len(questions),
		"data":  dto.NewListQuestionResponse(questions, includeAnswers),
	})
}

// ExportQuestions экспортирует банк вопросов в CSV или Excel формате
// GET /api/questions/export?format=csv|xlsx
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	questions, err := h.questionService.GetAllQuestions()
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	filename := fmt.Sprintf("question_bank_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, questions, filename)
	default:
		h.exportCSV(c, questions, filename)
	}
}

// exportCSV экспортирует вопросы в CSV с правильным экранированием спецсимволов
func (h *QuestionHandler) exportCSV(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"ID", "Вопрос", "Тип", "Уровень", "Баллы", "Правильный ответ", "Модельный ответ", "Глава", "Предмет"})

	for _, q := range questions {
		writer.Write([]string{
			q.ID.String(),
			q.QuestionText,
			q.Type,
			q.Level,
			strconv.Itoa(q.Points),
			q.CorrectAnswer,
			q.ModelAnswer,
			q.ChapterID.String(),
			q.SubjectID.String(),
		})
	}
}

// exportXLSX экспортирует вопросы в Excel с использованием StreamWriter
func (h *QuestionHandler) exportXLSX(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Вопросы"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuestionHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"ID", "Вопрос", "Тип", "Уровень", "Баллы", "Правильный ответ", "Модельный ответ", "Глава", "Предмет"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи заголовков: %v", err)
	}

	for i, q := range questions {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)
		row := []interface{}{
			q.ID.String(),
			q.QuestionText,
			q.Type,
			q.Level,
			q.Points,
			q.CorrectAnswer,
			q.ModelAnswer,
			q.ChapterID.String(),
			q.SubjectID.String(),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[QuestionHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuestionHandler] Ошибка завершения StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuestionHandler] Ошибка отправки Excel файла: %v", err)
	}
}

// parseQuestionFilters собирает явные фильтры из query-параметров.
// Параметры select/sort/status/limit фильтрами не являются и сюда не попадают.
func parseQuestionFilters(c *gin.Context) (repository.QuestionFilters, error) {
	var filters repository.QuestionFilters

	if chapterStr := c.Query("chapterId"); chapterStr != "" {
		chapterID, err := uuid.Parse(chapterStr)
		if err != nil {
			return filters, errors.New("Invalid chapterId format")
		}
		filters.ChapterID = &chapterID
	}
	if subjectStr := c.Query("subjectId"); subjectStr != "" {
		subjectID, err := uuid.Parse(subjectStr)
		if err != nil {
			return filters, errors.New("Invalid subjectId format")
		}
		filters.SubjectID = &subjectID
	}
	filters.Level = c.Query("level")
	filters.Type = c.Query("type")

	return filters, nil
}

// parseOptionalUUID разбирает опциональный UUID из строки
func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// handleQuestionError отображает ошибки сервисов на HTTP-статусы
func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		// Ошибка хранилища: логируем детали, клиенту — непрозрачный 500
		log.Printf("[QuestionHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
