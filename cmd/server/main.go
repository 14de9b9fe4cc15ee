package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tunevault/internal/cache"
	"tunevault/internal/config"
	"tunevault/internal/handlers"
	"tunevault/internal/models"
	"tunevault/internal/repositories"
	"tunevault/internal/services"
	"tunevault/internal/storage"
	"tunevault/internal/textnorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Relational backend
	dsn := cfg.SQLitePath
	if cfg.DatabaseType == "postgres" {
		dsn = cfg.PostgresDSN()
	}
	db, err := models.OpenRelational(cfg.DatabaseType, dsn)
	if err != nil {
		logger.Error("failed to open relational database", "error", err)
		os.Exit(1)
	}
	if err := db.Use(&textnorm.Plugin{}); err != nil {
		logger.Error("failed to register normalization plugin", "error", err)
		os.Exit(1)
	}
	logger.Info("relational database ready", "type", cfg.DatabaseType)

	// Document backend
	database, err := models.NewDatabase(ctx, cfg.MongodbURL, cfg.MongodbName)
	if err != nil {
		logger.Error("failed to connect to document database", "error", err)
		os.Exit(1)
	}
	defer database.Close(context.Background())
	if err := database.CreateIndexes(ctx); err != nil {
		logger.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}
	logger.Info("document database ready", "database", cfg.MongodbName)

	// Cache: valkey when configured, in-process otherwise
	var mediaCache cache.Cache
	if cfg.ValkeyURL != "" {
		mediaCache, err = cache.NewValkeyCache(cfg.ValkeyURL)
		if err != nil {
			logger.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		logger.Info("valkey cache connected")
	} else {
		mediaCache = cache.NewMemoryCache()
		logger.Info("using in-memory cache")
	}
	defer mediaCache.Close()

	files, err := storage.NewFileStore(cfg.MediaRoot)
	if err != nil {
		logger.Error("failed to prepare media storage", "error", err)
		os.Exit(1)
	}

	// Relational repositories and services
	userRepo := repositories.NewUserRepository(db)
	artistRepo := repositories.NewGormRepository[models.Artist](db, nil)
	albumRepo := repositories.NewGormRepository[models.Album](db, nil)
	mediaRepo := repositories.NewGormRepository[models.Media](db, nil)

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiryMinutes)
	relAuth := services.NewRelationalAuthService(userRepo, tokens, logger)
	relCatalog := services.NewRelationalCatalogService(db, userRepo, artistRepo, albumRepo, mediaRepo, files, logger)
	relLinks := services.NewRelationalLinkService(db, logger)

	// Document repositories and services
	docUserRepo := repositories.NewMongoRepository[models.DocUser](database, nil)
	docArtistRepo := repositories.NewMongoRepository[models.DocArtist](database, nil)
	docAlbumRepo := repositories.NewMongoRepository[models.DocAlbum](database, nil)
	docMediaRepo := repositories.NewCachedMediaRepository(
		repositories.NewMongoRepository[models.DocMedia](database, nil), mediaCache, logger)

	docAuth := services.NewDocumentAuthService(docUserRepo, tokens, logger)
	docCatalog := services.NewDocumentCatalogService(docUserRepo, docArtistRepo, docAlbumRepo, docMediaRepo, files, logger)
	docLinks := services.NewDocumentLinkService(docUserRepo, docArtistRepo, docMediaRepo, logger)

	if err := relAuth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("failed to ensure relational admin", "error", err)
		os.Exit(1)
	}
	if err := docAuth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("failed to ensure document admin", "error", err)
		os.Exit(1)
	}

	router := handlers.NewRouter(tokens,
		&handlers.RelationalAPI{
			Users:   handlers.NewRelationalUserHandlers(relAuth, relCatalog, files),
			Artists: handlers.NewRelationalArtistHandlers(relCatalog, files),
			Albums:  handlers.NewRelationalAlbumHandlers(relCatalog, files),
			Medias:  handlers.NewRelationalMediaHandlers(relCatalog, files),
			Links:   handlers.NewRelationalLinkHandlers(relLinks),
		},
		&handlers.DocumentAPI{
			Users:   handlers.NewDocumentUserHandlers(docAuth, docCatalog, files),
			Artists: handlers.NewDocumentArtistHandlers(docCatalog, files),
			Albums:  handlers.NewDocumentAlbumHandlers(docCatalog, files),
			Medias:  handlers.NewDocumentMediaHandlers(docCatalog, files),
			Links:   handlers.NewDocumentLinkHandlers(docLinks),
		},
	)

	logger.Info("starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
