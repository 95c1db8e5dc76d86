package main

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

	"github.com/cmlabs-hris/attendance-payroll-go/internal/config"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/attendance-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/repository/postgresql"
	activityService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/activity"
	attendanceService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-payroll-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/employee"
	reportService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/report"
	salaryService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/salary"
	"github.com/go-chi/httplog/v3"
)

const appVersion = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-payroll"),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
		slog.Info("Database schema ensured")
	}

	var appCache cache.Cache
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr(),
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		appCache = cache.NewRedisCache(rdb, cfg.Cache.Prefix, cfg.Cache.TTL)
		slog.Info("Using redis cache", "addr", cfg.RedisAddr())
	} else {
		appCache = cache.NewMemoryCache(cfg.Cache.TTL)
		slog.Info("Using in-memory cache")
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	clk := clock.New(loc)

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	activityRepo := postgresql.NewActivityRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	if _, err := fixtures.SeedAdmin(ctx, userRepo, cfg.Bootstrap); err != nil {
		return err
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("error creating jwt service: %w", err)
	}

	activityHub := sse.NewHub(32)
	activitySvc := activityService.NewActivityService(activityRepo, appCache, activityHub, cfg.App.ItemsPerPage)
	authSvc := serviceAuth.NewAuthService(tx, userRepo, JWTService, refreshTokenRepo, activitySvc, clk)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, appCache, activitySvc, cfg.Payroll.DefaultWorkHours, cfg.App.ItemsPerPage)
	attendanceSvc := attendanceService.NewAttendanceService(
		tx,
		attendanceRepo,
		employeeRepo,
		appCache,
		activitySvc,
		clk,
		cfg.Payroll.DefaultWorkHours,
		cfg.App.ItemsPerPage,
	)
	salarySvc := salaryService.NewSalaryService(
		salaryRepo,
		employeeRepo,
		attendanceRepo,
		appCache,
		activitySvc,
		clk,
		salaryService.Options{
			OvertimeMultiplier: cfg.Payroll.OvertimeMultiplier,
			StrictTransitions:  cfg.Payroll.StrictTransitions,
			CurrencyCode:       cfg.Payroll.CurrencyCode,
			DefaultPageSize:    cfg.App.ItemsPerPage,
		},
	)
	reportSvc := reportService.NewReportService(reportRepo, employeeRepo, clk, cfg.Payroll.CurrencyCode)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, attendanceRepo, activitySvc, appCache, clk)

	scheduler := cron.NewScheduler(ctx)
	cron.RegisterMaintenance(scheduler, appCache, refreshTokenRepo, cfg.Cache.SweepInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(logger, cfg.App.CORSOrigins, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc),
		User:       appHTTP.NewUserHandler(authSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Salary:     appHTTP.NewSalaryHandler(salarySvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Activity:   appHTTP.NewActivityHandler(activitySvc),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	// Open activity streams only end when their feed closes.
	httpServer.RegisterOnShutdown(activityHub.Close)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
