// Package main runs the community events HTTP API with the live notification socket and graceful shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/frontend-leeds/backend/config"
	"github.com/frontend-leeds/backend/internal/auth"
	"github.com/frontend-leeds/backend/internal/calendar"
	"github.com/frontend-leeds/backend/internal/events"
	"github.com/frontend-leeds/backend/internal/middleware"
	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/notifications"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/internal/realtime"
	"github.com/frontend-leeds/backend/internal/rsvp"
	"github.com/frontend-leeds/backend/internal/speakers"
	"github.com/frontend-leeds/backend/internal/users"
	"github.com/frontend-leeds/backend/internal/worker"
	"github.com/frontend-leeds/backend/pkg/database"
	"github.com/frontend-leeds/backend/pkg/obs"
	"github.com/frontend-leeds/backend/pkg/queue"
	"github.com/frontend-leeds/backend/pkg/redis"
	"github.com/frontend-leeds/backend/pkg/response"
	"github.com/frontend-leeds/backend/pkg/storage"
)

const version = "1.0.0"

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	shutdownTracer, err := obs.InitTracer(ctx, obs.TracerConfig{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.OTLPEndpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version,
		Environment: cfg.Environment,
	}, logger)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var images events.ImageStore
	if cfg.AWS.Enabled() {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ImagesBucket:         cfg.AWS.ImagesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			images = s3Client
		}
	} else {
		logger.Warn("s3 not configured, image uploads disabled")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth and user administration
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(auth.NewService(authRepo, jwtService, logger), middleware.AuthFrom, logger)
	userHandler := users.NewHandler(users.NewService(authRepo, logger), logger)

	// Events and RSVPs
	eventRepo := events.NewRepository(pool)
	rsvpService := rsvp.NewService(rsvp.NewRepository(pool), eventRepo, logger)
	rsvpHandler := rsvp.NewHandler(rsvpService, logger)
	eventHandler := events.NewHandler(events.NewService(eventRepo, rsvpService, logger), logger)
	imageHandler := events.NewImageHandler(images, logger)

	// Notifications
	notificationRepo := notifications.NewRepository(pool)
	notificationHandler := notifications.NewHandler(notifications.NewService(notificationRepo, logger), logger)
	dispatcher := notifications.NewDispatcher(notificationRepo, authRepo, hub, jobQueue, logger)

	// Speaker applications
	speakerHandler := speakers.NewHandler(speakers.NewService(speakers.NewRepository(pool), eventRepo, logger, dispatcher), logger)

	// Calendar export
	calendarHandler := calendar.NewHandler(calendar.NewService(eventRepo, rsvpService, calendar.NewRepository(pool), calendar.Options{
		PublicBaseURL: cfg.Server.PublicBaseURL,
		UIDDomain:     cfg.Site.UIDDomain,
	}, logger), logger)

	validateToken := func(token string) (policy.AuthContext, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return policy.AuthContext{}, err
		}
		return claims.AuthContext(), nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Tracing())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", middleware.JWT(jwtService), authHandler.Me)
	}

	// Public reads; a token, when present, personalises the response
	public := router.Group("")
	public.Use(middleware.OptionalJWT(jwtService))
	{
		public.GET("/events", eventHandler.List)
		public.GET("/events/:id", eventHandler.Get)
		public.GET("/events/:id/attendance", rsvpHandler.Attendance)
		public.GET("/events/:id/calendar", calendarHandler.Links)
		public.GET("/events/:id/calendar.ics", calendarHandler.Download)
	}

	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.POST("/events", eventHandler.Create)
		api.PUT("/events/:id", eventHandler.Update)
		api.DELETE("/events/:id", eventHandler.Delete)
		api.POST("/events/:id/delete", eventHandler.Delete)
		api.POST("/events/images", middleware.RequireRole(models.RoleAdmin), imageHandler.Upload)
		api.POST("/events/images/upload-url", middleware.RequireRole(models.RoleAdmin), imageHandler.UploadURL)

		api.POST("/events/rsvp", rsvpHandler.Set)
		api.GET("/events/:id/rsvp", rsvpHandler.Mine)

		api.POST("/events/calendar-tracking", calendarHandler.Track)
		api.GET("/events/calendar-tracking", calendarHandler.Tracked)

		api.POST("/speaker-applications", speakerHandler.Submit)
		api.GET("/speaker-applications", speakerHandler.List)
		api.GET("/speaker-applications/my-applications", speakerHandler.Mine)
		api.GET("/speaker-applications/:id", speakerHandler.Get)
		api.PATCH("/speaker-applications/:id", speakerHandler.UpdateStatus)

		api.GET("/notifications", notificationHandler.List)
		api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		api.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		api.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.JWT(jwtService), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/events", eventHandler.ListMine)
		admin.GET("/users", userHandler.List)
		admin.GET("/users/:id", userHandler.Get)
		admin.POST("/users/:id", userHandler.Update)
		admin.PATCH("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)
		admin.POST("/users/:id/delete", userHandler.Delete)
	}

	// WebSocket (token in query or Authorization header)
	router.GET("/ws", realtime.ServeWs(hub, logger, validateToken))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// In-process email worker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.RunWorker {
		mailer := &worker.LogMailer{From: fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromAddress), Logger: logger}
		processor := worker.NewEmailProcessor(jobQueue, mailer, cfg.Site.Name, cfg.Server.PublicBaseURL, logger)
		go processor.Run(workerCtx)
		logger.Info("email worker started")
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	hub.Close()
	if shutdownTracer != nil {
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
