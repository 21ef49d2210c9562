package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school-management/backend/internal/audit"
	auditrepo "school-management/backend/internal/audit/repository"
	authservice "school-management/backend/internal/auth/service"
	"school-management/backend/internal/config"
	"school-management/backend/internal/db"
	"school-management/backend/internal/devcode"
	"school-management/backend/internal/notify"
	"school-management/backend/internal/passwordreset"
	resetrepo "school-management/backend/internal/passwordreset/repository"
	schoolrepo "school-management/backend/internal/school/repository"
	"school-management/backend/internal/security"
	"school-management/backend/internal/server"
	staffrepo "school-management/backend/internal/staff/repository"
	"school-management/backend/internal/telemetry/otel"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "school-backend", false)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	staffRepo := staffrepo.NewPostgresRepository(conn)
	schoolRepo := schoolrepo.NewPostgresRepository(conn)
	resetRepo := resetrepo.NewPostgresRepository(conn)
	auditRepo := auditrepo.NewPostgresRepository(conn)

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenProvider([]byte(cfg.SessionSecret), cfg.SessionIssuer, cfg.SessionTTL())
	ledger := passwordreset.NewLedger(resetRepo, cfg.ResetTTL())

	var notifier notify.Notifier
	var devCodes devcode.Store
	if cfg.ResetCodeReturnToClient {
		// Dev reset mode: codes are captured for GET /dev/reset-code, no email goes out.
		devCodes = devcode.NewMemoryStore()
		log.Println("dev reset mode enabled: codes served at GET /dev/reset-code")
	} else if cfg.MailAPIKey != "" {
		notifier = notify.NewMailerClient(cfg.MailAPIKey, cfg.MailAPIBaseURL, cfg.MailSender)
	} else {
		log.Println("MAIL_API_KEY not set: reset codes will not be delivered")
	}

	authSvc := authservice.NewAuthService(staffRepo, ledger, hasher, tokens, notifier)
	auditLogger := audit.NewLogger(auditRepo, server.ClientIPFromContext)

	router := server.NewRouter(server.Deps{
		Auth:         authSvc,
		Tokens:       tokens,
		SchoolRepo:   schoolRepo,
		AuditLogger:  auditLogger,
		DevCodes:     devCodes,
		HealthPinger: conn,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
