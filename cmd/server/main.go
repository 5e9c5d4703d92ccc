// Package main is the entry point for the AskDoc Selection Service.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/clipask/askdoc-service/internal/api/handlers"
	"github.com/clipask/askdoc-service/internal/api/middleware"
	"github.com/clipask/askdoc-service/internal/api/routes"
	"github.com/clipask/askdoc-service/internal/config"
	"github.com/clipask/askdoc-service/internal/core/blobstore"
	"github.com/clipask/askdoc-service/internal/core/docdb"
	redisstore "github.com/clipask/askdoc-service/internal/infrastructure/blobstore/redis"
	"github.com/clipask/askdoc-service/internal/infrastructure/docdb/mongodb"
	"github.com/clipask/askdoc-service/internal/pkg/encryption"
	"github.com/clipask/askdoc-service/internal/services/auth"
	"github.com/clipask/askdoc-service/internal/services/notify"
	"github.com/clipask/askdoc-service/internal/services/query"
	"github.com/clipask/askdoc-service/internal/services/remote"
	"github.com/clipask/askdoc-service/internal/services/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	setupLogging(cfg.Log)

	ctx := context.Background()

	// Initialize blob store using factory pattern
	store, err := createBlobStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to initialize blob store: %v", err)
	}
	defer store.Close()

	// Initialize document db client using factory pattern
	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Fatalf("failed to initialize document db client: %v", err)
	}
	defer docDBClient.Close(ctx)

	// Ensure database indexes
	if err := docDBClient.EnsureIndexes(ctx); err != nil {
		log.Printf("warning: failed to ensure indexes: %v", err)
	}

	encryptor, err := createEncryptor(cfg)
	if err != nil {
		log.Fatalf("failed to initialize encryptor: %v", err)
	}

	// Initialize remote vendor client
	remoteClient, err := remote.NewClient(&remote.ClientConfig{
		APIBaseURL:    cfg.Remote.APIBaseURL,
		UploadBaseURL: cfg.Remote.UploadBaseURL,
		OAuthBaseURL:  cfg.Remote.OAuthBaseURL,
		ClientID:      cfg.Remote.ClientID,
		ClientSecret:  cfg.Remote.ClientSecret,
		Timeout:       cfg.Remote.Timeout,
	})
	if err != nil {
		log.Fatalf("failed to initialize remote client: %v", err)
	}

	// Initialize credential manager
	authManager, err := auth.NewManager(&auth.Config{
		Store:     store,
		Encryptor: encryptor,
		Tokens:    remoteClient,
	})
	if err != nil {
		log.Fatalf("failed to initialize credential manager: %v", err)
	}

	// Initialize notice bus
	bus := notify.NewBus()

	// Initialize query engine
	engine, err := query.NewEngine(&query.Config{
		Tokens:   authManager,
		Client:   remoteClient,
		Notifier: bus,
	})
	if err != nil {
		log.Fatalf("failed to initialize query engine: %v", err)
	}

	// Initialize session manager
	sessionManager, err := session.NewManager(&session.Config{
		Store:     store,
		Encryptor: encryptor,
		Presets:   docDBClient.Presets(),
		Settings:  docDBClient.Settings(),
		Tokens:    authManager,
		Gateway:   remoteClient,
		Engine:    engine,
		Notifier:  bus,
	})
	if err != nil {
		log.Fatalf("failed to initialize session manager: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(store, docDBClient, authManager, remoteClient, sessionManager, bus)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// createEncryptor creates an encryptor based on the configuration. An
// explicit key wins; otherwise the key is derived from the vendor client
// credentials, so a credential rotation invalidates stored blobs instead
// of leaking them.
func createEncryptor(cfg *config.Config) (encryption.Encryptor, error) {
	if cfg.Store.EncryptionKey != "" {
		return encryption.NewAESEncryptor(cfg.Store.EncryptionKey)
	}
	return encryption.NewDerivedEncryptor(cfg.Remote.ClientID, cfg.Remote.ClientSecret)
}

// createBlobStore creates a blob store based on the configuration.
func createBlobStore(cfg config.StoreConfig) (blobstore.Store, error) {
	storeType := blobstore.Type(cfg.Type)

	switch storeType {
	case blobstore.TypeRedis:
		return redisstore.NewStore(redisstore.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	default:
		log.Fatalf("unsupported store type: %s", cfg.Type)
		return nil, nil
	}
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	docDBType := docdb.Type(cfg.Type)

	switch docDBType {
	case docdb.TypeMongoDB:
		return mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		log.Fatalf("unsupported docdb type: %s", cfg.Type)
		return nil, nil
	}
}

// setupRouter creates and configures the Gin router.
func setupRouter(
	store blobstore.Store,
	docDBClient docdb.Client,
	authManager *auth.Manager,
	remoteClient *remote.Client,
	sessionManager *session.Manager,
	bus *notify.Bus,
) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	corsCfg := middleware.DefaultCORSConfig()
	router.Use(middleware.NewCORSMiddleware(corsCfg))

	// Create handlers
	routesCfg := &routes.Config{
		HealthHandler:   handlers.NewHealthHandler(store, docDBClient),
		AuthHandler:     handlers.NewAuthHandler(authManager),
		PresetsHandler:  handlers.NewPresetsHandler(docDBClient.Presets()),
		SettingsHandler: handlers.NewSettingsHandler(docDBClient.Settings()),
		ModelsHandler:   handlers.NewModelsHandler(authManager, remoteClient),
		ContextsHandler: handlers.NewContextsHandler(sessionManager, bus),
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)

	return router
}
