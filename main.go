package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo/gridfs"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/auth"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/config"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/database"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/database/inmemory"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/handlers"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/middleware"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/routes"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/services"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/upload"
)

func setupLogging(cfg config.Config) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.Release() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

type repositories struct {
	admins services.AccountRepository
	users  services.AccountRepository
	blogs  services.BlogRepository
	bucket func() (*gridfs.Bucket, error)
	close  func(context.Context) error
}

func openStorage(ctx context.Context, cfg config.Config) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &repositories{
			admins: inmemory.NewAccountStore(),
			users:  inmemory.NewAccountStore(),
			blogs:  inmemory.NewBlogStore(),
			close:  func(context.Context) error { return nil },
		}, nil
	}

	store, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	indexCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(indexCtx, store.DB); err != nil {
		_ = store.Disconnect(context.Background())
		return nil, err
	}
	return &repositories{
		admins: database.NewAccountRepo(store.Admins()),
		users:  database.NewAccountRepo(store.Users()),
		blogs:  database.NewBlogRepo(store.Blogs()),
		bucket: store.UploadBucket,
		close:  store.Disconnect,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)
	log.Info().Str("storage", cfg.Storage).Str("uploads", cfg.UploadBackend).Msg("starting SSRSS backend")

	ctx := context.Background()
	repos, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}

	admins := services.NewAccounts(models.KindAdmin, repos.admins)
	users := services.NewAccounts(models.KindUser, repos.users)
	blogs := services.NewBlogs(repos.blogs)
	tokens := auth.NewTokenService(cfg.JWTSecret)

	seedCtx, cancelSeed := context.WithTimeout(ctx, 10*time.Second)
	created, err := admins.EnsureDefault(seedCtx, cfg.DefaultAdminName, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword)
	cancelSeed()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to ensure default admin")
	}
	if created {
		log.Info().Str("email", cfg.DefaultAdminEmail).Msg("default admin created")
	}

	uploader, err := upload.New(ctx, upload.Options{
		Backend:       cfg.UploadBackend,
		Dir:           cfg.UploadDir,
		BaseURL:       cfg.PublicBaseURL,
		CloudinaryURL: cfg.CloudinaryURL,
		S3Bucket:      cfg.S3Bucket,
		AWSRegion:     cfg.AWSRegion,
		GridFSBucket:  repos.bucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure uploads")
	}
	mounter, _ := uploader.(upload.Mounter)

	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := routes.SetupRouter(routes.Options{
		AllowedOrigins: cfg.CorsAllowedOrigins,
		Authenticator:  middleware.NewAuthenticator(tokens, admins, users),
		Handler:        handlers.New(admins, users, blogs, tokens, uploader),
		Uploads:        mounter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := repos.close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close storage")
	}
	log.Info().Msg("server stopped")
}
