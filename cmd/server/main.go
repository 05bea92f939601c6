package main

import (
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	"eventrsvp/config"
	_ "eventrsvp/docs"
	authadapter "eventrsvp/internal/adapters/auth"
	emailadapter "eventrsvp/internal/adapters/email"
	"eventrsvp/internal/adapters/storage"
	httpdelivery "eventrsvp/internal/delivery/http"
	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/repository/postgres"
	"eventrsvp/internal/services"
)

// @title Event RSVP API
// @version 1.0
// @description Organizers create events and share links; guests respond without an account.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRsvpRepository(db)
	rsvpUserRepo := postgres.NewRsvpUserRepository(db)
	tokenRepo := postgres.NewVerificationTokenRepository(db)
	notificationRepo := postgres.NewEmailNotificationRepository(db)

	// Adapters
	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	}, logger)
	if err != nil {
		log.Fatalf("create mailer: %v", err)
	}
	renderer, err := emailadapter.NewTemplateRenderer()
	if err != nil {
		log.Fatalf("parse email templates: %v", err)
	}
	tokens := authadapter.NewJWTManager(cfg.SessionSecret)
	blobStore := storage.NewLocalBlobStore(cfg.UploadDir, cfg.UploadPublicBase)
	sessions := &middleware.Sessions{Secure: cfg.IsProduction()}

	// Services
	emailService := services.NewEmailService(mailer, renderer)
	eventService := services.NewEventService(eventRepo, rsvpRepo)
	rsvpService := services.NewRsvpService(eventRepo, rsvpRepo)
	rsvpUserService := services.NewRsvpUserService(rsvpUserRepo, tokenRepo, rsvpRepo, emailService, cfg.BaseURL)
	notificationService := services.NewNotificationService(eventRepo, rsvpRepo, notificationRepo, emailService, logger, cfg.BaseURL)
	uploadService := services.NewUploadService(blobStore)

	// Delivery
	ctrls := httpdelivery.Controllers{
		Events:        controllers.NewEventController(logger, eventService, uploadService),
		Rsvps:         controllers.NewRsvpController(logger, rsvpService, sessions),
		RsvpUsers:     controllers.NewRsvpUserController(logger, rsvpUserService, tokens, sessions),
		Notifications: controllers.NewNotificationController(logger, notificationService),
	}
	mux := httpdelivery.NewRouter(ctrls, tokens, tokens, cfg.UploadDir, cfg.UploadPublicBase)

	handler := middleware.LoggingMiddleware(logger, mux)
	if len(cfg.CORSOrigins) > 0 {
		handler = middleware.CORS(cfg.CORSOrigins, handler)
	}

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
