package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	authPostgres "github.com/frahmantamala/training-management/internal/auth/postgres"
	"github.com/frahmantamala/training-management/internal/core/cache"
	"github.com/frahmantamala/training-management/internal/core/events"
	"github.com/frahmantamala/training-management/internal/course"
	coursePostgres "github.com/frahmantamala/training-management/internal/course/postgres"
	"github.com/frahmantamala/training-management/internal/department"
	departmentPostgres "github.com/frahmantamala/training-management/internal/department/postgres"
	"github.com/frahmantamala/training-management/internal/eid"
	"github.com/frahmantamala/training-management/internal/mailer"
	"github.com/frahmantamala/training-management/internal/media"
	mediaS3 "github.com/frahmantamala/training-management/internal/media/s3"
	"github.com/frahmantamala/training-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/training-management/internal/permission/postgres"
	"github.com/frahmantamala/training-management/internal/report"
	reportPostgres "github.com/frahmantamala/training-management/internal/report/postgres"
	"github.com/frahmantamala/training-management/internal/request"
	requestPostgres "github.com/frahmantamala/training-management/internal/request/postgres"
	"github.com/frahmantamala/training-management/internal/role"
	rolePostgres "github.com/frahmantamala/training-management/internal/role/postgres"
	"github.com/frahmantamala/training-management/internal/transport/middleware"
	"github.com/frahmantamala/training-management/internal/transport/rest"
	"github.com/frahmantamala/training-management/internal/user"
	userPostgres "github.com/frahmantamala/training-management/internal/user/postgres"
	"github.com/frahmantamala/training-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Bus    *events.EventBus
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "base_path", deps.Config.Server.BasePath)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.Bus.Drain(ctx); err != nil {
			deps.Logger.Error("Event drain error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	gdb, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	roleIDs, err := cache.NewRoleIDs(cfg.Security.RoleCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create role cache: %w", err)
	}

	bus := events.NewEventBus(lg)
	sender := mailer.NewGomailSender(cfg.Mail, lg)
	auth.NewEventHandler(sender, cfg.Mail.ResetPasswordURL, lg).Register(bus)
	user.NewEventHandler(sender, lg).Register(bus)

	tokens := auth.NewJWTTokenGenerator(auth.TokenConfig{
		AccessSecret:  cfg.Security.AccessTokenSecret,
		RefreshSecret: cfg.Security.RefreshTokenSecret,
		ResetSecret:   cfg.Security.ResetTokenSecret,
		AccessTTL:     cfg.Security.AccessTokenDuration,
		RefreshTTL:    cfg.Security.RefreshTokenDuration,
		ResetTTL:      cfg.Security.ResetTokenDuration,
	})
	authService := auth.NewService(authPostgres.NewRepository(gdb), tokens, bus, cfg.Security.BCryptCost, lg)
	gate := auth.NewAccessGate(tokens, authPostgres.NewResolver(db), cfg.Server.BasePath, lg)

	storage, err := mediaS3.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	mediaService := media.NewService(storage,
		media.Limits{MaxSize: cfg.Storage.MaxImageSize, PresignExpiry: cfg.Storage.ImagePresignExpiry},
		media.Limits{MaxSize: cfg.Storage.MaxDocumentSize, PresignExpiry: cfg.Storage.DocumentPresignExpiry},
		lg)

	userRepo := userPostgres.NewUserRepository(gdb, eid.NewGenerator(gdb))
	handlers := &rest.Handlers{
		Auth:        auth.NewHandler(authService, lg),
		Roles:       role.NewHandler(role.NewService(rolePostgres.NewRoleRepository(gdb), roleIDs, lg), lg),
		Permissions: permission.NewHandler(permission.NewService(permissionPostgres.NewPermissionRepository(gdb), lg), lg),
		Users:       user.NewHandler(user.NewService(userRepo, roleIDs, bus, cfg.Security.BCryptCost, lg), lg),
		Departments: department.NewHandler(department.NewService(departmentPostgres.NewDepartmentRepository(gdb), lg), lg),
		Courses:     course.NewHandler(course.NewService(coursePostgres.NewCourseRepository(gdb), lg), lg),
		Reports:     report.NewHandler(report.NewService(reportPostgres.NewReportRepository(gdb), lg), lg),
		Requests:    request.NewHandler(request.NewService(requestPostgres.NewRequestRepository(gdb), lg), lg),
		Media:       media.NewHandler(mediaService, lg),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, "postgres"),
	)

	validator, err := middleware.NewRequestValidator(ctx, cfg.Server.OpenAPIPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load request validator: %w", err)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, handlers, rest.Options{
		BasePath:    cfg.Server.BasePath,
		OpenAPIPath: cfg.Server.OpenAPIPath,
		Health:      rest.NewHealthHandler(rest.PingCheck("postgres", db), rest.Check{Name: "storage", Probe: storage.Ping}),
		Gate:        gate,
		Metrics:     middleware.NewMetrics(registry),
		Gatherer:    registry,
		Validator:   validator,
	})

	return &Dependencies{
		Config: cfg,
		DB:     db,
		Gorm:   gdb,
		Bus:    bus,
		Router: router,
		Logger: lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
