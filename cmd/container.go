// container.go
package main

import (
	"context"

	"github.com/Abraxas-365/careerpath/pkg/config"
	"github.com/Abraxas-365/careerpath/pkg/iam/auth"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile/profileapi"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile/profileinfra"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile/profilesrv"
	"github.com/Abraxas-365/careerpath/pkg/iam/role/roleinfra"
	"github.com/Abraxas-365/careerpath/pkg/logx"
	"github.com/Abraxas-365/careerpath/pkg/notify"
	"github.com/Abraxas-365/careerpath/pkg/ratelimit"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate/candidateinfra"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate/candidatesrv"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process/processapi"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process/processinfra"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process/processsrv"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *sqlx.DB
	Redis       *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *asynq.Server

	// Services
	TokenService     auth.TokenService
	UserService      *profilesrv.UserService
	ProcessService   *processsrv.ProcessService
	CandidateService *candidatesrv.CandidateService

	// API Handlers
	UserHandlers      *profileapi.UserHandlers
	ProcessHandlers   *processapi.ProcessHandlers
	CandidateHandlers *candidateapi.CandidateHandlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
	RateLimiter    *ratelimit.RedisLimiter

	// Background Services
	NotificationWorker *notify.NotificationWorker
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initRepositories()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required for the notification queue)", err)
	} else {
		logx.Info("✅ Redis connected")
	}

	// 3. Asynq client + in-process worker server over the same Redis
	redisOpt := asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
	c.AsynqClient = asynq.NewClient(redisOpt)
	c.AsynqServer = asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: c.Config.Notify.Concurrency,
		Queues: map[string]int{
			c.Config.Notify.Queue: 1,
		},
	})
	logx.Infof("✅ Task queue configured (queue: %s)", c.Config.Notify.Queue)

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initRepositories() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Repositories ---
	roleRepo := roleinfra.NewPostgresRoleRepository(c.DB)
	profileRepo := profileinfra.NewPostgresProfileRepository(c.DB)
	processRepo := processinfra.NewPostgresProcessRepository(c.DB)
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)

	// --- Token Service ---
	c.TokenService = auth.NewJWTServiceFromConfig(&c.Config.Auth.JWT)

	// --- Mailer (console in development, SMTP otherwise) ---
	var mailer notify.Mailer
	if c.Config.IsDevelopment() && c.Config.Email.SMTPHost == "" {
		mailer = notify.NewConsoleMailer()
		logx.Warn("⚠️  Using console mailer (emails are logged, not sent)")
	} else {
		mailer = notify.NewSMTPMailer(&c.Config.Email)
		logx.Infof("✅ SMTP mailer configured (host: %s)", c.Config.Email.SMTPHost)
	}

	// --- Notifier (enqueues, worker delivers) ---
	notifier := notify.NewAsynqNotifier(c.AsynqClient, c.Config.Notify.Queue, c.Config.Notify.MaxRetry)

	// --- Domain Services ---
	c.UserService = profilesrv.NewUserService(profileRepo, roleRepo)
	c.ProcessService = processsrv.NewProcessService(processRepo, candidateRepo)
	c.CandidateService = candidatesrv.NewCandidateService(candidateRepo, c.ProcessService, notifier)

	// --- API Handlers ---
	c.UserHandlers = profileapi.NewUserHandlers(c.UserService)
	c.ProcessHandlers = processapi.NewProcessHandlers(c.ProcessService)
	c.CandidateHandlers = candidateapi.NewCandidateHandlers(c.CandidateService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService, roleRepo, profileRepo)
	c.RateLimiter = ratelimit.NewRedisLimiter(c.Redis)

	// --- Background Services ---
	c.NotificationWorker = notify.NewNotificationWorker(c.UserService, mailer)

	logx.Info("✅ All services and handlers initialized")
}

// StartBackgroundServices starts the notification worker
func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")

	go func() {
		if err := c.AsynqServer.Run(c.NotificationWorker.Handler()); err != nil {
			logx.Errorf("Notification worker stopped: %v", err)
		}
	}()
	logx.Info("✅ Notification worker started")

	go func() {
		<-ctx.Done()
		c.AsynqServer.Shutdown()
	}()
}

// Cleanup closes all connections and stops workers
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	// Close asynq client
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logx.Errorf("Error closing task queue client: %v", err)
		} else {
			logx.Info("✅ Task queue client closed")
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	// Close Redis connection
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
