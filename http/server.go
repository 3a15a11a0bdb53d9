package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/krishisetu/agri-advisor/config"
	"github.com/krishisetu/agri-advisor/db"
	"github.com/krishisetu/agri-advisor/recommend"
)

// farmerIDKey is the gin context key holding the verified caller identity.
const farmerIDKey = "farmer_id"

// Recommender is the orchestrator surface consumed by the handlers.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	InvalidateCache(ctx context.Context, farmerID string) error
	LastCached(ctx context.Context, farmerID string) (*recommend.CacheEntry, error)
}

// ProfileStore is the farmer-profile collaborator consumed by the handlers.
type ProfileStore interface {
	GetFarmer(ctx context.Context, farmerID string) (*db.Farmer, error)
	UpsertFarmer(ctx context.Context, f db.Farmer) error
	UpdateFarmer(ctx context.Context, farmerID string, u db.FarmerUpdate) error
	DeleteFarmer(ctx context.Context, farmerID string) error
	AddCropHistory(ctx context.Context, farmerID string, entry db.CropHistoryEntry) error
	RecentCropNames(ctx context.Context, farmerID string, limit int) ([]string, error)
	InsertFeedback(ctx context.Context, farmerID, cropName string, rating int, comment *string) (string, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    config.Config
	store  ProfileStore
	svc    Recommender
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, store ProfileStore, svc Recommender) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(corsMiddleware())

	if len(cfg.AuthTokens) > 0 {
		engine.Use(bearerAuthMiddleware(cfg.AuthTokens))
	}

	server := &Server{cfg: cfg, store: store, svc: svc, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// bearerAuthMiddleware resolves the bearer token to a farmer identity.
// The handlers check that the identity matches the requested farmer id.
func bearerAuthMiddleware(tokens map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/healthz" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		farmerID, ok := tokens[token]
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(farmerIDKey, farmerID)
		c.Next()
	}
}

// authorize rejects callers whose verified identity differs from the
// requested farmer id. Runs before any data access.
func (s *Server) authorize(c *gin.Context, farmerID string) bool {
	verified, exists := c.Get(farmerIDKey)
	if !exists {
		// Auth disabled (no tokens configured): trust the path identity.
		return true
	}
	if verified != farmerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this farmer"})
		return false
	}
	return true
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
