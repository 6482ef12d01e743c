package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/qbank-api/internal/config"
	domainrepo "github.com/yourusername/qbank-api/internal/domain/repository"
	"github.com/yourusername/qbank-api/internal/handler"
	"github.com/yourusername/qbank-api/internal/middleware"
	pgRepo "github.com/yourusername/qbank-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/qbank-api/internal/repository/redis"
	"github.com/yourusername/qbank-api/internal/service"
	"github.com/yourusername/qbank-api/pkg/auth"
	"github.com/yourusername/qbank-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	chapterRepo := pgRepo.NewChapterRepo(db)
	subjectRepo := pgRepo.NewSubjectRepo(db)
	answerRepo := pgRepo.NewStudentAnswerRepo(db)

	// Redis опционален: без него список глав просто не кешируется
	var cacheRepo domainrepo.CacheRepository
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Не удалось подключиться к Redis, кеширование отключено: %v", err)
	} else {
		log.Println("Successfully connected to Redis")
		repo, err := redisRepo.NewCacheRepo(redisClient)
		if err != nil {
			log.Printf("Failed to initialize CacheRepo: %v", err)
			os.Exit(1)
		}
		cacheRepo = repo
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Отправка почты: Resend в проде, заглушка без API-ключа
	var emailService service.EmailService
	if cfg.Email.ResendAPIKey != "" {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("RESEND_API_KEY не задан, письма сброса пароля отправляться не будут")
		emailService = &service.NoopEmailService{}
	}

	// Медиахранилище: Cloudinary, без URL — заглушка, отклоняющая загрузки
	var mediaService service.MediaService
	if cfg.Cloudinary.URL != "" {
		mediaService, err = service.NewCloudinaryMediaService(cfg.Cloudinary.URL)
		if err != nil {
			log.Printf("Failed to initialize CloudinaryMediaService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("CLOUDINARY_URL не задан, загрузка изображений недоступна")
		mediaService = &service.NoopMediaService{}
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService, emailService, cfg.App.BaseURL)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	questionService := service.NewQuestionService(questionRepo, chapterRepo, subjectRepo, answerRepo, cacheRepo, mediaService)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	questionHandler := handler.NewQuestionHandler(questionService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password/:token", authHandler.ResetPassword)
		}

		// Банк вопросов (все маршруты требуют аутентификации)
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth())
		{
			questions.GET("", questionHandler.GetQuestions)
			questions.POST("/select", questionHandler.SelectQuestions)
			questions.POST("/batch", questionHandler.BatchQuestions)

			// Маршруты для администраторов
			adminQuestions := questions.Group("")
			adminQuestions.Use(authMiddleware.AdminOnly())
			{
				adminQuestions.POST("", questionHandler.CreateQuestion)
				adminQuestions.GET("/export", questionHandler.ExportQuestions)
			}

			// Группа маршрутов, требующих questionID
			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUUIDParam("id", "questionID"))
			{
				questionWithID.GET("", questionHandler.GetQuestion)
				questionWithID.DELETE("", authMiddleware.AdminOnly(), questionHandler.DeleteQuestion)
			}

			// Вопросы главы
			chapterQuestions := questions.Group("/chapter/:chapterId")
			chapterQuestions.Use(middleware.ExtractUUIDParam("chapterId", "chapterID"))
			{
				chapterQuestions.GET("", questionHandler.GetQuestionsByChapter)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Закрываем Redis, если он был подключен
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
