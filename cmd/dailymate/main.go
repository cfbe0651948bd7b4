package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"dailymate/internal/board"
	"dailymate/internal/config"
	"dailymate/internal/model"
	"dailymate/internal/repository"
	"dailymate/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flagSet := pflag.NewFlagSet("dailymate", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a config file (yaml, json, toml or env)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	tracker, err := service.NewTracker(db, log.Named("live"))
	if err != nil {
		return fmt.Errorf("tracker: %w", err)
	}

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	taskSvc := service.NewTaskService(taskRepo, categoryRepo, tracker)
	categorySvc := service.NewCategoryService(categoryRepo, tracker)
	reminderSvc := service.NewReminderService(taskRepo, categoryRepo)

	reminders, err := reminderSvc.ActiveReminders(ctx)
	if err != nil {
		return fmt.Errorf("restore reminders: %w", err)
	}
	for _, task := range reminders {
		log.Info("reminder pending",
			zap.String("task", task.ID),
			zap.String("title", task.Title),
			zap.Time("at", *task.ReminderAt))
	}

	scheduler := service.NewSchedulerService(time.Local, log)
	if _, err := scheduler.ScheduleClock(cfg.ClockInterval, tracker); err != nil {
		return fmt.Errorf("schedule clock: %w", err)
	}
	if cfg.ReportTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.ReportTime, func() {
			jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			summary, err := reminderSvc.DailySummary(jobCtx, time.Now())
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Error("daily summary", zap.Error(err))
				}
				return
			}
			log.Info("daily summary\n" + summary)
		}); err != nil {
			return fmt.Errorf("schedule report: %w", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	watch(ctx, board.New(taskSvc, categorySvc, cfg.HighPriorityLimit), log)

	log.Info("dailymate started", zap.String("db", cfg.DatabaseURL))
	<-ctx.Done()
	log.Info("shutdown complete")
	return nil
}

// watch logs board changes until ctx ends.
func watch(ctx context.Context, b *board.Board, log *zap.Logger) {
	stats := b.Stats(ctx)
	overdue := b.Overdue(ctx)
	go func() {
		for {
			select {
			case s, ok := <-stats:
				if !ok {
					return
				}
				log.Info("stats",
					zap.Int64("total", s.Total),
					zap.Int64("done", s.Done),
					zap.Int64("open", s.NotDone),
					zap.Int64("open_high", s.HighNotDone))
			case tasks, ok := <-overdue:
				if !ok {
					return
				}
				log.Info("overdue", zap.Int("count", len(tasks)), zap.Strings("titles", titles(tasks)))
			}
		}
	}()
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}
