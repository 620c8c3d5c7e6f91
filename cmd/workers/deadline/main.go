package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"appeals-portal/appeals-casework-backend/internal/appeals"
	"appeals-portal/appeals-casework-backend/internal/config"
)

// systemUser stamps audit entries written by the sweep rather than a person.
var systemUser = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// DeadlineWorker flips the event-elapsed flag on cases whose scheduled
// hearing/inquiry/site-visit date has passed. The lifecycle machine only ever
// reads the stored flag; this sweep is the single place it is computed.
type DeadlineWorker struct {
	repo   appeals.Repository
	logger *zap.Logger
	config config.WorkerConfig
}

func NewDeadlineWorker(repo appeals.Repository, logger *zap.Logger, cfg config.WorkerConfig) *DeadlineWorker {
	return &DeadlineWorker{repo: repo, logger: logger, config: cfg}
}

// Sweep processes one batch of overdue cases.
func (w *DeadlineWorker) Sweep(ctx context.Context) {
	now := time.Now()
	cases, err := w.repo.ListDueForElapse(ctx, now, w.config.BatchSize)
	if err != nil {
		w.logger.Error("Failed to list overdue cases", zap.Error(err))
		return
	}

	for _, kase := range cases {
		if err := w.repo.MarkEventElapsed(ctx, kase.ID); err != nil {
			w.logger.Error("Failed to mark event elapsed",
				zap.Error(err), zap.Int64("appeal_id", kase.ID))
			continue
		}
		w.repo.AppendAudit(ctx, &appeals.CaseAudit{
			AppealID: kase.ID,
			UserID:   systemUser,
			Message:  fmt.Sprintf("Event date %s passed", kase.EventDate.Format("2006-01-02")),
		})
		w.logger.Info("Event date elapsed",
			zap.Int64("appeal_id", kase.ID),
			zap.String("reference", kase.Reference))
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to DB", zap.Error(err))
	}

	worker := NewDeadlineWorker(appeals.NewRepository(db), logger, cfg.Worker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.Worker.PollInterval), func() {
		worker.Sweep(ctx)
	})
	if err != nil {
		logger.Fatal("Failed to schedule sweep", zap.Error(err))
	}

	logger.Info("Starting deadline worker",
		zap.Duration("poll_interval", cfg.Worker.PollInterval),
		zap.Int("batch_size", cfg.Worker.BatchSize))
	scheduler.Start()

	// Run one sweep immediately rather than waiting a full interval.
	worker.Sweep(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down deadline worker")
	cancel()
	<-scheduler.Stop().Done()
}
