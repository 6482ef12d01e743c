package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUUIDParam_ValidUUID(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var extracted uuid.UUID
	router.GET("/questions/:id", ExtractUUIDParam("id", "questionID"), func(c *gin.Context) {
		extracted = c.MustGet("questionID").(uuid.UUID)
		c.Status(http.StatusOK)
	})

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/questions/"+id.String(), nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, extracted, "Распарсенный UUID должен попадать в контекст")
}

func TestExtractUUIDParam_MalformedID(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlerCalled := false
	router.GET("/questions/:id", ExtractUUIDParam("id", "questionID"), func(c *gin.Context) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/questions/not-a-uuid", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert: синтаксически неверный ID — 400 до обращения к хранилищу
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, handlerCalled, "Обработчик не должен вызываться при неверном формате ID")
	assert.Contains(t, w.Body.String(), "Invalid id format")
}
