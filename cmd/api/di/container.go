package di

import (
	"fmt"
	"time"

	"github-user-service/cmd/api/infrastructure"
	"github-user-service/internal/adapter/db/postgres"
	"github-user-service/internal/adapter/github"
	ginhandler "github-user-service/internal/adapter/gin/handler"
	"github-user-service/internal/config"
	"github-user-service/internal/usecase/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *gorm.DB
	GitHub     *github.Client
	UserUC     user.Usecase
	GinHandler *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	githubClient := github.NewClient(github.Config{
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.BaseURL,
		Timeout: time.Duration(cfg.GitHub.TimeoutSeconds) * time.Second,
	}, l)

	repo := postgres.NewUserRepoPG(db, l)
	userUC := user.New(repo, githubClient, l)
	ginHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:     cfg,
		Logger:     l,
		DB:         db,
		GitHub:     githubClient,
		UserUC:     userUC,
		GinHandler: ginHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
