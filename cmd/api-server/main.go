package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dentaworks/practice-api/internal/analytics"
	"github.com/dentaworks/practice-api/internal/api"
	"github.com/dentaworks/practice-api/internal/appointment"
	"github.com/dentaworks/practice-api/internal/catalog"
	"github.com/dentaworks/practice-api/internal/config"
	"github.com/dentaworks/practice-api/internal/db"
	"github.com/dentaworks/practice-api/internal/invoice"
	"github.com/dentaworks/practice-api/internal/logger"
	"github.com/dentaworks/practice-api/internal/patient"
	"github.com/dentaworks/practice-api/internal/redisclient"
	"github.com/dentaworks/practice-api/internal/staff"
)

var version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	locker := redisclient.NewRedisScheduleLocker(rdb, cfg.LockTTL)
	sessions := staff.NewSessionStore(rdb, cfg.SessionTTL)

	apptSvc := appointment.NewService(appointment.NewPgRepository(pgPool), locker, cfg, zlog)
	patientSvc := patient.NewService(patient.NewPgRepository(pgPool), zlog)
	catalogSvc := catalog.NewSvc(catalog.NewPgRepository(pgPool), zlog)
	invoiceSvc := invoice.NewService(invoice.NewPgRepository(pgPool), zlog)
	staffSvc := staff.NewService(staff.NewPgRepository(pgPool), sessions, zlog)
	analyticsSvc := analytics.NewService(pgPool)

	router := api.NewRouter(api.RouterConfig{
		Appointments: apptSvc,
		Patients:     patientSvc,
		Catalog:      catalogSvc,
		Invoices:     invoiceSvc,
		Staff:        staffSvc,
		Analytics:    analyticsSvc,
		PgPool:       pgPool,
		Redis:        rdb,
		Log:          zlog,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		log.Printf("http server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}

	log.Println("api-server stopped")
}
