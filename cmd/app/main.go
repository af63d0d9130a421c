package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/smarttasker/taskmaster-api/internal/config"
	"github.com/smarttasker/taskmaster-api/internal/handler"
	"github.com/smarttasker/taskmaster-api/internal/oracle"
	"github.com/smarttasker/taskmaster-api/internal/repo"
	"github.com/smarttasker/taskmaster-api/internal/service"
	"github.com/smarttasker/taskmaster-api/internal/worker"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to Database.") // Fatal потому что дальнейшая работа теряет смысл
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	// Оракул: без ключа API работаем только через запасной извлекатель
	var gen oracle.Generator = oracle.Disabled{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := oracle.NewGemini(context.Background(), oracle.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.OracleTimeout,
		})
		if err != nil {
			logger.Fatal("Failed to create gemini client", zap.Error(err))
		}
		defer gemini.Close()
		gen = gemini
	} else {
		logger.Warn("GEMINI_API_KEY is not set, running with fallback extraction only")
	}

	taskRepo := repo.NewTaskRepo(pool)
	assistant := service.NewAssistant(taskRepo, gen, logger)
	assistantHandler := handler.NewAssistantHandler(assistant, logger)

	janitor := worker.NewJanitor(pool, logger, cfg.RetentionDays)
	janitor.Start(context.Background())
	defer janitor.Stop()

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Post("/api/tasks/ai", assistantHandler.Process)
	r.Get("/admin-users", assistantHandler.Users)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // Вызов модели может занять заметное время
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	logger.Info("Server stopped succsessfully!")
}
