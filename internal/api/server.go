package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/content"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/db"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/listing"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/notify"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/render"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/rendercache"
	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/utils"
)

const (
	DefaultAppName = "PostKit"
	DefaultPort    = 8080
)

type ServerConfig struct {
	Database          *db.DB
	Content           *content.Store
	RenderCache       *rendercache.Service
	Listing           *listing.Service
	Renderer          *render.Renderer
	Hub               *notify.Hub
	JwtSecret         string
	JwksURL           string
	JwtIssuer         string
	AppName           string
	Production        bool
	TrustProxyHeaders bool
	Port              int
}

// Server represents the main application server.
type Server struct {
	api         huma.API
	jwks        keyfunc.Keyfunc
	db          *db.DB
	router      *http.ServeMux
	content     *content.Store
	renderCache *rendercache.Service
	listing     *listing.Service
	renderer    *render.Renderer
	hub         *notify.Hub
	httpServer  *http.Server
	port        int

	jwksURL        string
	externalIssuer string

	AppName     string
	LocalIssuer string

	jwtSecret []byte

	production        bool
	trustProxyHeaders bool
}

// isExternalIDPEnabled returns true if external IDP support is configured.
func (s *Server) isExternalIDPEnabled() bool {
	return s.jwksURL != ""
}

// NewServer creates a new instance of the server.
func NewServer(
	config ServerConfig,
) (*Server, error) {
	router := http.NewServeMux()

	localIssuer := utils.ToKebabCase(config.AppName)

	humaConfig := huma.DefaultConfig(config.AppName+" API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	api := humago.New(router, humaConfig)

	server := &Server{
		db:                config.Database,
		router:            router,
		api:               api,
		content:           config.Content,
		renderCache:       config.RenderCache,
		listing:           config.Listing,
		renderer:          config.Renderer,
		hub:               config.Hub,
		jwtSecret:         []byte(config.JwtSecret),
		AppName:           config.AppName,
		LocalIssuer:       localIssuer,
		jwksURL:           config.JwksURL,
		externalIssuer:    config.JwtIssuer,
		production:        config.Production,
		trustProxyHeaders: config.TrustProxyHeaders,
		port:              config.Port,
	}

	if config.JwksURL != "" {
		jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{config.JwksURL})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWKS from %s: %w", config.JwksURL, err)
		}

		server.jwks = jwks
	}

	server.registerPostRoutes()
	server.registerRenderRoutes()
	server.registerCacheRoutes()
	server.registerEventRoutes()
	server.registerLogRoutes()

	return server, nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	handler := s.hardeningMiddleware(s.router)
	handler = s.LoggerMiddleware(handler)
	handler = s.authMiddleware(handler)
	handler = s.contextMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: handler,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}
