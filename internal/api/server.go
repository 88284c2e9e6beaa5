package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/scholargate/scholargate/internal/auth"
	"github.com/scholargate/scholargate/internal/config"
	"github.com/scholargate/scholargate/internal/dataset"
	"github.com/scholargate/scholargate/internal/models"
)

// AuthService is the auth gateway surface the API consumes. It is an
// interface so handler tests can stub credentials without a database.
type AuthService interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p models.Profile) error
	SaveScholarship(ctx context.Context, userID uuid.UUID, scholarshipID string) error
	UnsaveScholarship(ctx context.Context, userID uuid.UUID, scholarshipID string) error
	ListSavedScholarships(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// Asker relays a chat message grounded on a context document.
type Asker interface {
	Ask(ctx context.Context, message, contextDoc string) (string, error)
}

// DatasetLoader refreshes the catalog from the configured sources.
type DatasetLoader interface {
	Load(ctx context.Context) error
}

type Server struct {
	Echo      *echo.Echo
	Auth      AuthService
	Assistant Asker
	Catalog   *dataset.Catalog
	Loader    DatasetLoader

	adminSecret string
	log         *zap.Logger
}

func NewServer(cfg *config.Config, authSvc AuthService, assistant Asker, catalog *dataset.Catalog, loader DatasetLoader, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		Echo:        e,
		Auth:        authSvc,
		Assistant:   assistant,
		Catalog:     catalog,
		Loader:      loader,
		adminSecret: cfg.AdminSecret,
		log:         log,
	}

	s.routes(cfg.JWTSecret)
	return s
}

func (s *Server) routes(jwtSecret string) {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api")
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/chat", s.handleChat)

	// Browsing is public; filtering is gated behind authentication at
	// the route so the filter engine itself stays auth-unaware.
	api.GET("/scholarships", s.handleListScholarships)
	api.GET("/schemes", s.handleListSchemes)

	authed := api.Group("", auth.Middleware([]byte(jwtSecret)))
	authed.POST("/scholarships/search", s.handleSearchScholarships)
	authed.GET("/profile", s.handleGetProfile)
	authed.PUT("/profile", s.handleUpdateProfile)
	authed.POST("/saved/:id", s.handleSaveScholarship)
	authed.DELETE("/saved/:id", s.handleUnsaveScholarship)
	authed.GET("/saved", s.handleGetSavedScholarships)
	authed.GET("/stats", s.handleStats)

	admin := api.Group("/admin", s.adminMiddleware)
	admin.POST("/dataset/reload", s.handleReloadDataset)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// adminMiddleware accepts the configured secret via X-Admin-Secret or a
// bearer token. With no secret configured, admin routes stay closed.
func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.adminSecret == "" {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "Admin access is disabled"})
		}

		if c.Request().Header.Get("X-Admin-Secret") == s.adminSecret {
			return next(c)
		}
		authHeader := c.Request().Header.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " && authHeader[7:] == s.adminSecret {
			return next(c)
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized admin access"})
	}
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
