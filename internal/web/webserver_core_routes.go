// Package web provides the HTTP server and web interface for go-pugtodo
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pugtodo/internal/config"
	"github.com/go-while/go-pugtodo/internal/database"
	"github.com/go-while/go-pugtodo/internal/models"
	"github.com/tdewolff/minify/v2"
)

// WebServer represents the web server
type WebServer struct {
	DB     database.Store
	Router *gin.Engine
	Config *config.WebConfig

	templates *Templates
	minifier  *minify.M
	apiDocs   *openapi3.T
	static    *staticAssets
	httpSrv   *http.Server
}

// NewServer creates a new web server instance serving items from db
func NewServer(db database.Store, webconfig *config.WebConfig) (*WebServer, error) {
	if webconfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Configure Gin to trust reverse proxy headers
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self'; form-action 'self'",
	}
	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	router.Use(secure.New(secureConfig))

	templates, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	minifier := newMinifier()
	static, err := loadStaticAssets(minifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}
	apiDocs, err := LoadAPIDocs(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load api docs: %w", err)
	}

	server := &WebServer{
		DB:        db,
		Router:    router,
		Config:    webconfig,
		templates: templates,
		static:    static,
		apiDocs:   apiDocs,
	}
	if webconfig.Minify {
		server.minifier = minifier
	}
	if webconfig.AccessLog {
		router.Use(server.ApacheLogFormat())
	}
	server.httpSrv = &http.Server{
		Addr:              ":" + strconv.Itoa(webconfig.ListenPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	server.setupRoutes()
	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first (highest priority)
	s.Router.GET("/static/*filepath", s.static.Handler("/static"))
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	s.Router.GET("/api-docs", s.apiDocsHandler)

	// Item routes
	s.Router.GET("/", s.listPage)
	s.Router.POST("/", s.createItem)
	s.Router.POST("/deleteItem/:itemId", s.deleteItem)
	s.Router.GET("/updateItem/:itemId", s.updatePage)
	s.Router.POST("/updateItem/:itemId", s.updateItem)

	s.Router.NoRoute(func(c *gin.Context) {
		s.renderError(c, &models.Error{Kind: models.KindNotFound, Op: "route", Err: fmt.Errorf("no route for %s %s", c.Request.Method, c.Request.URL.Path)})
	})
}

// Start starts the web server with SSL support if configured.
// It blocks until the server stops and returns http.ErrServerClosed after Shutdown.
func (s *WebServer) Start() error {
	addr := s.httpSrv.Addr
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return s.httpSrv.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight requests
func (s *WebServer) Shutdown(ctx context.Context) error {
	log.Printf("[WEB]: Shutting down HTTP server")
	return s.httpSrv.Shutdown(ctx)
}

// ApacheLogFormat logs every request in Apache combined log format
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
