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

	"blog-backend/internal/audit"
	auditrepo "blog-backend/internal/audit/repository"
	authhandler "blog-backend/internal/auth/handler"
	authservice "blog-backend/internal/auth/service"
	"blog-backend/internal/config"
	"blog-backend/internal/db"
	"blog-backend/internal/mailer"
	postrepo "blog-backend/internal/post/repository"
	"blog-backend/internal/security"
	"blog-backend/internal/server"
	"blog-backend/internal/server/middleware"
	"blog-backend/internal/telemetry"
	"blog-backend/internal/telemetry/otel"
	"blog-backend/internal/telemetry/producer"
	userrepo "blog-backend/internal/user/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	secret, generated, err := security.ResolveSecret(cfg.AuthSecret)
	if err != nil {
		log.Fatalf("auth secret: %v", err)
	}
	if generated {
		log.Println("AUTH_SECRET not set; using a random per-process secret (tokens will not survive restarts)")
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("config: DATABASE_URL must be set")
	}
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "blog-backend", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	var emitter telemetry.EventEmitter
	if brokers := cfg.TelemetryKafkaBrokersList(); len(brokers) > 0 {
		p := producer.New(producer.NewKafkaWriter(brokers, cfg.TelemetryKafkaTopic))
		defer func() {
			if err := p.Close(); err != nil {
				log.Printf("kafka producer close: %v", err)
			}
		}()
		emitter = p
		log.Printf("telemetry: emitting to Kafka topic %s", cfg.TelemetryKafkaTopic)
	} else if providers.LoggerProvider != nil {
		emitter = otel.NewEventEmitter(providers.LoggerProvider)
		log.Println("telemetry: emitting to OTel logs")
	}

	tokens := security.NewTokenProvider(secret, cfg.Domain, cfg.AccessTTL(), cfg.RefreshTTL(), cfg.VerifyTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	var mail mailer.Mailer
	if cfg.ResendAPIKey != "" {
		mail = mailer.NewResendClient(cfg.ResendAPIKey, cfg.ResendBaseURL, cfg.MailFrom)
	} else {
		log.Println("RESEND_API_KEY not set; verification emails disabled")
	}

	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(database), middleware.ClientIP)

	users := userrepo.NewPostgresRepository(database)
	posts := postrepo.NewPostgresRepository(database)
	auth := authservice.NewAuthService(users, hasher, tokens, mail, auditor, cfg.PublicBaseURL)

	router := server.NewRouter(server.Deps{
		Auth:    auth,
		Tokens:  tokens,
		Users:   users,
		Posts:   posts,
		Auditor: auditor,
		Emitter: emitter,
		Cookies: authhandler.CookieConfig{
			Secure:     cfg.CookieSecure,
			AccessTTL:  cfg.AccessTTL(),
			RefreshTTL: cfg.RefreshTTL(),
		},
		DBPinger: database,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
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
	// Give in-flight async telemetry emits time to complete before the
	// deferred exporter shutdowns run.
	time.Sleep(telemetry.ShutdownDrainDuration)
	log.Println("HTTP server stopped")
}
