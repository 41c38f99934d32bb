package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/atelier-dev/portfolio-server-go/internal/config"
	"github.com/atelier-dev/portfolio-server-go/internal/database"
	"github.com/atelier-dev/portfolio-server-go/internal/events"
	"github.com/atelier-dev/portfolio-server-go/internal/handler"
	"github.com/atelier-dev/portfolio-server-go/internal/middleware"
	"github.com/atelier-dev/portfolio-server-go/internal/password"
	"github.com/atelier-dev/portfolio-server-go/internal/redis"
	"github.com/atelier-dev/portfolio-server-go/internal/repository"
	"github.com/atelier-dev/portfolio-server-go/internal/service"
	"github.com/atelier-dev/portfolio-server-go/internal/storage"
	"github.com/atelier-dev/portfolio-server-go/internal/token"
	"github.com/atelier-dev/portfolio-server-go/internal/web"
)

type stores struct {
	admins   repository.AdminRepository
	contacts repository.ContactRepository
	projects repository.ProjectRepository
	pinger   handler.Pinger
	close    func()
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), config.StartupTimeout)
	defer cancel()

	st, err := openStores(startupCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open stores")
	}
	defer st.close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(startupCtx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		publisher = events.NewRedisPublisher(redisClient, redis.EventsChannel)
		log.Info().Str("channel", redis.EventsChannel).Msg("redis connected")
	}

	images, err := openImageStore(startupCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up image storage")
	}

	hasher := password.NewHasher(password.Options{
		Preferred:    password.Scheme(cfg.PasswordScheme),
		BcryptCost:   cfg.BcryptCost,
		PBKDF2Rounds: cfg.PBKDF2Rounds,
	})
	log.Info().Str("scheme", string(hasher.Scheme())).Msg("password hashing ready")

	tokens, err := token.NewService(token.Options{
		Secret:     cfg.SecretKey,
		Algorithm:  cfg.Algorithm,
		DefaultTTL: cfg.AccessTokenTTL(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up token service")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	authService := service.NewAuthService(st.admins, hasher, tokens)
	contactService := service.NewContactService(st.contacts, publisher)
	projectService := service.NewProjectService(st.projects, images, publisher)

	if err := authService.EnsureAdmin(startupCtx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}

	sessionGate := middleware.NewSessionGate(tokens, st.admins, handler.UnauthorizedPage(renderer))
	csrfMiddleware := middleware.NewCSRFMiddleware(cfg.CookieSecure)
	tooLarge := handler.TooLargePage(renderer)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(config.DefaultMaxBodySize, tooLarge)
	uploadLimitMiddleware := middleware.NewBodyLimitMiddleware(cfg.MaxUploadBytes, tooLarge)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.CookieSecure)

	publicHandler := handler.NewPublicHandler(contactService, projectService, renderer, st.pinger)
	adminHandler := handler.NewAdminHandler(
		authService, contactService, projectService, renderer,
		handler.SessionOptions{TTL: tokens.DefaultTTL(), Secure: cfg.CookieSecure},
		sessionGate.Handler,
	)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeadersMiddleware.Handler)

	if cfg.StorageDriver == config.StorageDriverLocal {
		r.Handle(cfg.UploadURLPrefix+"/*", handler.NewStaticHandler(cfg.UploadDir))
	}
	r.Handle("/static/*", handler.NewStaticHandler(cfg.StaticDir))

	r.Route("/admin", func(r chi.Router) {
		r.Use(uploadLimitMiddleware.Handler)
		r.Use(csrfMiddleware.Handler)
		r.Mount("/", adminHandler.Routes())
	})

	r.Group(func(r chi.Router) {
		r.Use(bodyLimitMiddleware.Handler)
		r.Mount("/", publicHandler.Routes())
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		return &stores{
			admins:   repository.NewMemoryAdminRepository(),
			contacts: repository.NewMemoryContactRepository(),
			projects: repository.NewMemoryProjectRepository(),
			close:    func() {},
		}, nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.DBPingTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Msg("database connected")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		admins:   repository.NewAdminRepository(db.DB),
		contacts: repository.NewContactRepository(db.DB),
		projects: repository.NewProjectRepository(db.DB),
		pinger:   db,
		close: func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close database")
			}
		},
	}, nil
}

func openImageStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.StorageDriverS3 {
		log.Info().Str("bucket", cfg.S3Bucket).Msg("storing uploads in s3")
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	}

	log.Info().Str("dir", cfg.UploadDir).Msg("storing uploads on disk")
	return storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
