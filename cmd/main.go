package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/database"
	"github.com/lshigami/Margays/internal/cache"
	userctrl "github.com/lshigami/Margays/internal/controller/user"
	"github.com/lshigami/Margays/internal/logger"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/lshigami/Margays/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Exam Attempt Grading API
// @version 1.0
// @description Submission and grading engine for exam-preparation packages: exactly-once attempt completion, package leaderboards, author royalties and user streaks.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewQuestionRepository,
			repository.NewPackageRepository,
			repository.NewLeaderboardRepository,
			repository.NewRoyaltyRepository,
			repository.NewStreakRepository,
		),

		// Caching Layer
		fx.Provide(NewPackageCache),

		// Collaborators (notification/email/badge subsystems are out of
		// scope; log-backed defaults keep the contracts exercised).
		fx.Provide(
			service.NewLogNotificationSink,
			service.NewLogEmailSender,
			service.NewLogBadgeEvaluator,
			service.NewNoopUserDirectory,
			service.NewAsyncTaskRunner,
		),

		// Services Layer
		fx.Provide(
			service.NewGraderService,
			service.NewAggregatorService,
			service.NewSubmissionService,
			service.NewResultService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewAttemptController,
			userctrl.NewProgressController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Zerolog-backed request logging instead of Gin's default logger.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// NewPackageCache wires the question-graph cache with a fixed TTL; package
// content changes rarely relative to submission volume.
func NewPackageCache(packages repository.PackageRepository) *cache.PackageCache {
	return cache.NewPackageCache(packages, 10*time.Minute)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	attemptCtrl *userctrl.AttemptController,
	progressCtrl *userctrl.ProgressController,
) {
	api := router.Group("/api/v1")
	{
		attempts := api.Group("/attempts")
		attempts.POST("/:attempt_id/submit", attemptCtrl.SubmitAttempt)
		attempts.GET("/:attempt_id", attemptCtrl.GetAttemptDetails)

		users := api.Group("/users")
		users.GET("/:user_id/attempts", attemptCtrl.GetUserAttempts)
		users.GET("/:user_id/streak", progressCtrl.GetStreak)

		packages := api.Group("/packages")
		packages.GET("/:package_id/leaderboard", progressCtrl.GetLeaderboard)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Grading API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.ExamPackage{},
		&model.Question{},
		&model.QuestionOption{},
		&model.ExamAttempt{},
		&model.Answer{},
		&model.LeaderboardEntry{},
		&model.RoyaltyLedgerEntry{},
		&model.UserStreakProfile{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
