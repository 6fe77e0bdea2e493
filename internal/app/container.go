package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/database"
	dbpostgres "hireflow/internal/database/postgres"
	"hireflow/internal/delivery/http/handler"
	"hireflow/internal/delivery/http/middleware"
	v1 "hireflow/internal/delivery/http/routes/v1"
	"hireflow/internal/infrastructure/ai/gemini"
	"hireflow/internal/infrastructure/cache"
	"hireflow/internal/infrastructure/events"
	"hireflow/internal/infrastructure/notify"
	"hireflow/internal/infrastructure/pdf"
	"hireflow/internal/infrastructure/scraper"
	"hireflow/internal/pkg/jwt"
	"hireflow/internal/repository"
	"hireflow/internal/usecase"
	"hireflow/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	NATS   *events.NATSPublisher
	Mail   *notify.Queue
	Hub    *ws.Hub

	Identity *usecase.Identity
	JWT      jwt.Service

	Handlers  v1.Handlers
	Health    *handler.HealthHandler
	Events    *ws.Handler
	AuthMw    *middleware.AuthMiddleware
	ErrorMw   *middleware.ErrorMiddleware
	AccessLog *middleware.AccessLogMiddleware
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout+5*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	c.Cache = cache.NewRedis(cfg.Redis, logger.Named("redis"))

	generator, err := gemini.NewGenerator(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	ai := gemini.NewService(generator, logger.Named("gemini"), cfg.AI.Timeout, cfg.AI.MaxLogLength)

	var delivery usecase.Notifier = notify.NewLog(logger.Named("mail"))
	if cfg.Mail.Enabled() {
		delivery = notify.NewSMTP(cfg.Mail, logger.Named("mail"))
	}
	c.Mail = notify.NewQueue(delivery, notify.QueueOptions{
		Workers:       cfg.Mail.Workers,
		Buffer:        cfg.Mail.QueueSize,
		RatePerSecond: cfg.Mail.RatePerSecond,
		SendTimeout:   cfg.Mail.SendTimeout,
	}, logger.Named("mail"))
	notifier := usecase.Notifier(c.Mail)

	c.Hub = ws.NewHub(logger.Named("ws"))
	publishers := events.Multi{ws.NewPublisher(c.Hub)}
	if cfg.NATS.Enabled() {
		nc, err := events.NewNATSPublisher(cfg.NATS, logger.Named("nats"))
		if err != nil {
			logger.Warn("nats unavailable, events stay in-process", zap.Error(err))
		} else {
			c.NATS = nc
			publishers = append(publishers, nc)
		}
	}

	var renderer usecase.DocumentRenderer
	if cfg.PDF.Enabled {
		renderer = pdf.NewRenderer(cfg.PDF.Timeout, logger.Named("pdf"))
	}

	userRepo := repository.NewPostgresUserRepository(db)
	jobRepo := repository.NewPostgresJobRepository(db)
	candRepo := repository.NewPostgresCandidateRepository(db)
	appRepo := repository.NewPostgresApplicationRepository(db)
	contractRepo := repository.NewPostgresContractRepository(db)

	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)
	c.Identity = usecase.NewIdentityUsecase(userRepo)

	authUC := usecase.NewAuthUsecase(userRepo, c.JWT)
	userUC := usecase.NewUserUsecase(userRepo)
	jobUC := usecase.NewJobUsecase(jobRepo, ai, scraper.NewCompanyInfo(0, logger.Named("scraper")), c.Cache, cfg.Redis.TTL, logger.Named("jobs"))
	candUC := usecase.NewCandidateUsecase(candRepo, ai, logger.Named("candidates"))
	appUC := usecase.NewApplicationUsecase(appRepo, jobRepo, candRepo, userRepo, ai, notifier, publishers, logger.Named("applications"))
	contractUC := usecase.NewContractUsecase(usecase.ContractDeps{
		Contracts:    contractRepo,
		Applications: appRepo,
		Jobs:         jobRepo,
		Candidates:   candRepo,
		Users:        userRepo,
		AI:           ai,
		Lock:         c.Cache,
		Renderer:     renderer,
		Notifier:     notifier,
		Publisher:    publishers,
		Logger:       logger.Named("contracts"),
	})
	workflowUC := usecase.NewWorkflowUsecase(contractUC)

	c.Handlers = v1.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Users:        handler.NewUserHandler(userUC),
		Candidates:   handler.NewCandidateHandler(candUC),
		Jobs:         handler.NewJobsHandler(jobUC),
		Applications: handler.NewApplicationHandler(appUC, workflowUC, contractUC),
		Contracts:    handler.NewContractHandler(contractUC),
	}
	c.Health = handler.NewHealthHandler(db, c.Cache)
	c.Events = ws.NewHandler(c.Hub, c.JWT, c.Identity, logger.Named("ws"))
	c.AuthMw = middleware.NewAuthMiddleware(c.JWT, c.Identity)
	c.ErrorMw = middleware.NewErrorMiddleware(logger.Named("http"))
	c.AccessLog = middleware.NewAccessLogMiddleware(logger.Named("http"))

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Mail != nil {
		c.Mail.Close()
	}
	if c.NATS != nil {
		errs = append(errs, c.NATS.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
