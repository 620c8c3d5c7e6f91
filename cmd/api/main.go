package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"appeals-portal/appeals-casework-backend/internal/appeals"
	"appeals-portal/appeals-casework-backend/internal/auth"
	"appeals-portal/appeals-casework-backend/internal/comments"
	"appeals-portal/appeals-casework-backend/internal/config"
	"appeals-portal/appeals-casework-backend/internal/questionnaires"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to DB", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&appeals.AppealCase{},
		&appeals.CaseStatus{},
		&appeals.CaseLink{},
		&appeals.CaseAudit{},
		&questionnaires.LPAQuestionnaire{},
		&comments.CaseComment{},
	); err != nil {
		logger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	r := gin.Default()

	// ---------------- AUTH ----------------
	authHandler := auth.NewHandler(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	auth.RegisterRoutes(r, authHandler)

	// ---------------- API ----------------
	api := r.Group("/api/v1")
	api.Use(auth.Middleware(cfg.Security.JWTSecret))

	caseRepo := appeals.NewRepository(db)
	caseService := appeals.NewService(caseRepo)
	appeals.NewHandler(caseService, logger).RegisterRoutes(api)

	questionnaireRepo := questionnaires.NewRepository(db)
	questionnaireService := questionnaires.NewService(questionnaireRepo, caseService)
	questionnaires.NewHandler(questionnaireService, logger).RegisterRoutes(api)

	commentRepo := comments.NewRepository(db)
	commentService := comments.NewService(commentRepo)
	comments.NewHandler(commentService, logger).RegisterRoutes(api)

	// ---------------- PING ----------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API alive!"})
	})

	logger.Info("Server running", zap.String("addr", cfg.Server.GetServerAddr()))
	if err := r.Run(cfg.Server.GetServerAddr()); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	if level == "debug" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
