package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"taskmaster/internal/auth"
	"taskmaster/internal/config"
	"taskmaster/internal/db"
	"taskmaster/internal/errors"
	"taskmaster/internal/logger"
	"taskmaster/internal/model"
	"taskmaster/internal/repository"
	"taskmaster/internal/service"
)

type seedUser struct {
	Username string
	Password string
	Tasks    []service.NewTask
}

var demoUsers = []seedUser{
	{
		Username: "alice",
		Password: "alice-password",
		Tasks: []service.NewTask{
			{Text: "Plan sprint review", Category: "Work"},
			{Text: "Book dentist appointment", Category: "Personal"},
			{Text: "Water the plants", IsCompleted: true},
		},
	},
	{
		Username: "bob",
		Password: "bob-password",
		Tasks: []service.NewTask{
			{Text: "Buy milk", Category: "Shopping"},
			{Text: "Check the weekend forecast"},
		},
	},
}

func main() {
	if err := seed(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %s\n", err)
		os.Exit(1)
	}
}

func seed() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New("taskmaster-seed", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gormDB) }()
	log.Infow("connected to database", "driver", cfg.DBDriver)

	if err := db.Migrate(gormDB, false, &model.User{}, &model.Task{}); err != nil {
		return err
	}

	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	authService, err := service.NewAuthService(log, repository.NewUserRepository(gormDB), hasher, auth.NewTokenService(cfg.JWTSecret))
	if err != nil {
		return err
	}
	taskService := service.NewTaskService(log, repository.NewTaskRepository(gormDB))

	created, skipped, err := seedUsers(context.Background(), log, authService, taskService, demoUsers)
	if err != nil {
		return err
	}

	log.Infow("seed completed", "users_created", created, "users_skipped", skipped)
	return nil
}

// seedUsers registers each demo user and adds their tasks. Users that already
// exist are left untouched, tasks included, so the seeder can be rerun.
func seedUsers(ctx context.Context, log *zap.SugaredLogger, authService service.AuthService, taskService service.TaskService, users []seedUser) (created, skipped int, err error) {
	for _, u := range users {
		if _, err := authService.Register(ctx, u.Username, u.Password); err != nil {
			if errors.Is(err, errors.ErrUsernameTaken) {
				log.Infow("user exists, skipping", "username", u.Username)
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("register %s: %w", u.Username, err)
		}

		for _, t := range u.Tasks {
			if _, err := taskService.Add(ctx, u.Username, t); err != nil {
				return created, skipped, fmt.Errorf("add task for %s: %w", u.Username, err)
			}
		}
		created++
	}
	return created, skipped, nil
}
