package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"moiport/config"
	"moiport/docs"

	"moiport/internal/init/cache"
	"moiport/internal/init/database"
	s3init "moiport/internal/init/s3"

	notifC "moiport/internal/modules/notification/controller"
	notifDispatch "moiport/internal/modules/notification/dispatcher"
	notifRp "moiport/internal/modules/notification/repo"
	notifCacheRepo "moiport/internal/modules/notification/repo/cache"
	notifDbRepo "moiport/internal/modules/notification/repo/database"
	notifUC "moiport/internal/modules/notification/usecase"

	userRp "moiport/internal/modules/user/repo"
	userDbRepo "moiport/internal/modules/user/repo/database"

	authC "moiport/internal/modules/user/auth/controller"
	authUC "moiport/internal/modules/user/auth/usecase"

	tenantC "moiport/internal/modules/tenant/controller"
	tenantRp "moiport/internal/modules/tenant/repo"
	tenantDbRepo "moiport/internal/modules/tenant/repo/database"
	tenantS3Repo "moiport/internal/modules/tenant/repo/s3"
	tenantUC "moiport/internal/modules/tenant/usecase"

	planC "moiport/internal/modules/socialmedia/controller"
	planRp "moiport/internal/modules/socialmedia/repo"
	planDbRepo "moiport/internal/modules/socialmedia/repo/database"
	planUC "moiport/internal/modules/socialmedia/usecase"

	dentalC "moiport/internal/modules/dental/controller"
	dentalRp "moiport/internal/modules/dental/repo"
	dentalDbRepo "moiport/internal/modules/dental/repo/database"
	dentalUC "moiport/internal/modules/dental/usecase"

	healthC "moiport/internal/modules/healthtourism/controller"
	healthRp "moiport/internal/modules/healthtourism/repo"
	healthDbRepo "moiport/internal/modules/healthtourism/repo/database"
	healthUC "moiport/internal/modules/healthtourism/usecase"

	"moiport/pkg/lib/emailsender"
	"moiport/pkg/lib/pushsender"
	"moiport/pkg/lib/pushsender/fcm"
	appMiddleware "moiport/pkg/middleware/jwt"
	"moiport/pkg/middleware/logger"
)

type App struct {
	Storage     *database.Storage
	Cache       *cache.Cache
	S3          *s3init.S3Storage
	EmailSender *emailsender.EmailSender
	PushSender  pushsender.Sender
	Router      chi.Router
	Log         *slog.Logger
	Cfg         *config.Config
	Cron        *cron.Cron

	deadlineSweep func(ctx context.Context) error
}

func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	storage, err := database.NewStorage(cfg.DbConfig)
	if err != nil {
		return nil, fmt.Errorf("db init failed: %w", err)
	}

	appCache, err := cache.NewCache(cfg.CacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}

	s3s, err := s3init.NewS3Storage(cfg.S3Config)
	if err != nil {
		return nil, fmt.Errorf("s3 init failed: %w", err)
	}

	var eSender *emailsender.EmailSender
	if cfg.SMTPConfig.Host != "" {
		eSender, err = emailsender.New(cfg.SMTPConfig)
		if err != nil {
			return nil, fmt.Errorf("email sender init failed: %w", err)
		}
	} else {
		log.Warn("SMTP is not configured, invite emails are disabled")
	}

	var pSender pushsender.Sender
	if cfg.FCMConfig.ProjectID != "" || cfg.FCMConfig.ServiceAccountKeyJSONPath != "" {
		fcmSender, err := fcm.NewFCMSender(context.Background(), cfg.FCMConfig, log)
		if err != nil {
			return nil, fmt.Errorf("fcm init failed: %w", err)
		}
		pSender = fcmSender
	} else {
		log.Warn("FCM is not configured, push delivery is disabled")
	}

	return &App{
		Storage:     storage,
		Cache:       appCache,
		S3:          s3s,
		EmailSender: eSender,
		PushSender:  pSender,
		Router:      chi.NewRouter(),
		Log:         log,
		Cfg:         cfg,
		Cron:        cron.New(),
	}, nil
}

func (app *App) Start() error {
	srv := &http.Server{
		Addr:         app.Cfg.HttpServerConfig.Address,
		Handler:      app.Router,
		ReadTimeout:  app.Cfg.HttpServerConfig.Timeout,
		WriteTimeout: app.Cfg.HttpServerConfig.Timeout,
		IdleTimeout:  app.Cfg.HttpServerConfig.IdleTimeout,
	}

	protocol := "http"
	if app.Cfg.HttpServerConfig.TLS.Enabled {
		protocol = "https"
	}
	swaggerHost := app.Cfg.HttpServerConfig.Address
	if strings.HasPrefix(swaggerHost, "0.0.0.0:") {
		swaggerHost = "localhost" + swaggerHost[len("0.0.0.0"):]
	} else if strings.HasPrefix(swaggerHost, ":") {
		swaggerHost = "localhost" + swaggerHost
	}

	docs.SwaggerInfo.Host = swaggerHost
	docs.SwaggerInfo.Schemes = []string{protocol}

	// The deadline sweep runs on the cron spec from config; by default once
	// a day at midnight server time.
	_, err := app.Cron.AddFunc(app.Cfg.SchedulerConfig.DeadlineSweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := app.deadlineSweep(ctx); err != nil {
			app.Log.Error("deadline sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("cron init failed: %w", err)
	}
	app.Cron.Start()

	serverShutdown := make(chan error, 1)
	go func() {
		var err error
		addr := app.Cfg.HttpServerConfig.Address
		if app.Cfg.HttpServerConfig.TLS.Enabled {
			certFile := app.Cfg.HttpServerConfig.TLS.CertFile
			keyFile := app.Cfg.HttpServerConfig.TLS.KeyFile
			app.Log.Info("HTTPS server starting", slog.String("address", addr))
			if _, errStat := os.Stat(certFile); os.IsNotExist(errStat) {
				serverShutdown <- fmt.Errorf("TLS cert_file not found: %s", certFile)
				return
			}
			if _, errStat := os.Stat(keyFile); os.IsNotExist(errStat) {
				serverShutdown <- fmt.Errorf("TLS key_file not found: %s", keyFile)
				return
			}
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			app.Log.Info("HTTP server starting", slog.String("address", addr))
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverShutdown <- err
		} else {
			serverShutdown <- nil
		}
	}()

	app.Log.Info(fmt.Sprintf("Swagger docs available at %s://%s%s/swagger/index.html",
		protocol, docs.SwaggerInfo.Host, docs.SwaggerInfo.BasePath))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			app.Cron.Stop()
			return fmt.Errorf("server runtime error: %w", err)
		}
	case sig := <-quit:
		app.Log.Info("Received OS signal, initiating graceful shutdown...", slog.String("signal", sig.String()))
	}

	app.Log.Info("Stopping cron scheduler...")
	cronCtx := app.Cron.Stop()
	select {
	case <-cronCtx.Done():
		app.Log.Info("Cron scheduler stopped.")
	case <-time.After(3 * time.Second):
		app.Log.Warn("Cron scheduler stop timed out.")
	}

	app.Log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.Log.Info("Server stopped gracefully")
	return nil
}

func (app *App) SetupRoutes() {
	app.Router.Use(
		middleware.Recoverer,
		middleware.RequestID,
		logger.New(app.Log),
		cors.Handler(cors.Options{
			AllowedOrigins:   app.Cfg.HttpServerConfig.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "Cookie"},
			ExposedHeaders:   []string{"Link", "Set-Cookie"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	app.Router.Get("/swagger/*", httpSwagger.Handler())

	apiVersion := "/v1"
	AuthUserMiddleware := appMiddleware.NewUserAuth(app.Log)
	AdminAuthMiddleware := appMiddleware.NewAdminAuth(app.Log)

	// --- User store (shared) ---
	userDBImpl := userDbRepo.NewUserDatabase(app.Storage.Db, app.Log)
	userRepoImpl := userRp.NewRepo(userDBImpl)

	// --- Notification Module ---
	notifDBImpl := notifDbRepo.NewNotificationDatabase(app.Storage.Db, app.Log)
	notifCacheImpl := notifCacheRepo.NewNotificationCache(app.Cache, app.Log, app.Cfg.CacheConfig.UnreadCountTtl)
	notifRepoImpl := notifRp.NewRepo(notifDBImpl, notifCacheImpl)
	dispatcher := notifDispatch.New(notifRepoImpl, userRepoImpl, app.PushSender, app.Log)
	notifUseCaseImpl := notifUC.NewNotificationUseCase(notifRepoImpl, app.Log)
	notifCtrl := notifC.NewNotificationController(notifUseCaseImpl, app.Log)

	app.Router.Route(apiVersion+"/notifications", func(r chi.Router) {
		r.Use(AuthUserMiddleware)
		r.Get("/", notifCtrl.GetNotifications)
		r.Get("/unread-count", notifCtrl.GetUnreadCount)
		r.Patch("/{notificationID}/read", notifCtrl.MarkRead)
		r.Patch("/read-all", notifCtrl.MarkAllRead)
	})

	// --- Tenant Module ---
	tenantDBImpl := tenantDbRepo.NewTenantDatabase(app.Storage.Db, app.Log)
	tenantS3Impl := tenantS3Repo.NewTenantS3(app.Log, app.S3, app.Cfg.S3Config)
	tenantRepoImpl := tenantRp.NewRepo(tenantDBImpl, tenantS3Impl)
	tenantUseCaseImpl := tenantUC.NewTenantUseCase(tenantRepoImpl, app.EmailSender, app.Cfg.AppConfig, app.Log)
	tenantCtrl := tenantC.NewTenantController(tenantUseCaseImpl, app.Log)

	app.Router.Route(apiVersion+"/tenant", func(r chi.Router) {
		r.Use(AuthUserMiddleware)
		r.Get("/", tenantCtrl.GetTenant)
		r.Patch("/", tenantCtrl.UpdateTenant)
		r.Put("/logo", tenantCtrl.UploadLogo)
		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware)
			r.Use(httprate.Limit(10, 1*time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
			r.Post("/invites", tenantCtrl.InviteStaff)
		})
	})

	// --- Auth Module ---
	authUseCaseImpl := authUC.NewAuthUseCase(app.Log, userRepoImpl, tenantUseCaseImpl, dispatcher)
	authCtrl := authC.NewAuthController(authUseCaseImpl, app.Log, app.Cfg.JWTConfig)

	app.Router.Route(apiVersion+"/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(10, 1*time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
			r.Post("/sign-up", authCtrl.SignUp)
			r.Post("/sign-in", authCtrl.SignIn)
			r.Post("/join", authCtrl.Join)
		})
		r.Post("/refresh-token", authCtrl.RefreshToken)
		r.With(AuthUserMiddleware).Post("/logout", authCtrl.Logout)
		r.With(AuthUserMiddleware).Post("/device-tokens", authCtrl.RegisterDeviceToken)
	})

	// --- Social Media Module ---
	planDBImpl := planDbRepo.NewPlanDatabase(app.Storage.Db, app.Log)
	planRepoImpl := planRp.NewRepo(planDBImpl)
	planUseCaseImpl := planUC.NewPlanUseCase(planRepoImpl, dispatcher, app.Log)
	planCtrl := planC.NewPlanController(planUseCaseImpl, app.Log)

	app.deadlineSweep = planUseCaseImpl.ProcessDeadlineChecks

	app.Router.Route(apiVersion+"/social-media/plans", func(r chi.Router) {
		r.Use(AuthUserMiddleware)
		r.Post("/", planCtrl.CreatePlan)
		r.Get("/", planCtrl.GetPlans)
		r.Get("/{planID}", planCtrl.GetPlan)
		r.Patch("/{planID}", planCtrl.UpdatePlan)
		r.Delete("/{planID}", planCtrl.DeletePlan)
	})

	// --- Dental Module ---
	dentalDBImpl := dentalDbRepo.NewDentalDatabase(app.Storage.Db, app.Log)
	dentalRepoImpl := dentalRp.NewRepo(dentalDBImpl)
	dentalUseCaseImpl := dentalUC.NewDentalUseCase(dentalRepoImpl, dispatcher, app.Log)
	dentalCtrl := dentalC.NewDentalController(dentalUseCaseImpl, app.Log)

	app.Router.Route(apiVersion+"/dental", func(r chi.Router) {
		r.Use(AuthUserMiddleware)
		r.Post("/patients", dentalCtrl.CreatePatient)
		r.Get("/patients", dentalCtrl.GetPatients)
		r.Get("/patients/{patientID}", dentalCtrl.GetPatient)
		r.Patch("/patients/{patientID}", dentalCtrl.UpdatePatient)
		r.Get("/patients/{patientID}/treatments", dentalCtrl.GetTreatments)
		r.Post("/treatments", dentalCtrl.CreateTreatment)
	})

	// --- Health Tourism Module ---
	healthDBImpl := healthDbRepo.NewHealthDatabase(app.Storage.Db, app.Log)
	healthRepoImpl := healthRp.NewRepo(healthDBImpl)
	healthUseCaseImpl := healthUC.NewHealthUseCase(healthRepoImpl, dispatcher, app.Log)
	healthCtrl := healthC.NewHealthController(healthUseCaseImpl, app.Log)

	app.Router.Route(apiVersion+"/health-tourism", func(r chi.Router) {
		r.Use(AuthUserMiddleware)
		r.Post("/patients", healthCtrl.CreatePatient)
		r.Get("/patients", healthCtrl.GetPatients)
		r.Get("/patients/{patientID}", healthCtrl.GetPatient)
		r.Patch("/patients/{patientID}", healthCtrl.UpdatePatient)
	})
}

// @title MOI Port API
// @version 1.0.0
// @description Multi-tenant agency management API

// @host localhost:8080
// @BasePath /v1
// @Schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg := config.MustLoad()
	log := SetupLogger(cfg.Env)
	slog.SetDefault(log)

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Error("app init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app.SetupRoutes()

	if err := app.Start(); err != nil {
		log.Error("application terminated with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func SetupLogger(env string) *slog.Logger {
	var log *slog.Logger
	level := slog.LevelInfo
	switch strings.ToLower(env) {
	case "local", "dev", "development":
		level = slog.LevelDebug
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
	case "prod", "production":
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
	default:
		level = slog.LevelDebug
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
		slog.Warn("Unknown environment in SetupLogger, defaulting to text debug logger", slog.String("env", env))
	}
	return log
}
