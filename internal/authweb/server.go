// Package authweb runs a local hand-off server that receives NotebookLM
// session credentials from the browser and writes them to the auth store.
// The user triggers the hand-off manually with a bookmarklet on the
// NotebookLM tab; nothing here drives the browser.
package authweb

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/kazuph/nlm/internal/authstore"
	"github.com/kazuph/nlm/internal/observability"
)

const notebookOrigin = "https://notebooklm.google.com"

// Server accepts credential hand-offs guarded by a shared key.
type Server struct {
	storePath  string
	handoffKey string
	router     *gin.Engine
	started    time.Time
}

// NewServer wires routes, logging, metrics and CORS. The handoff key must be
// non-empty; it is embedded in the bookmarklet and checked on every POST so a
// stray page on localhost cannot overwrite stored credentials.
func NewServer(storePath, handoffKey string) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware("nlm-authd"))
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{notebookOrigin},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		storePath:  storePath,
		handoffKey: handoffKey,
		router:     r,
		started:    time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Str("store", s.storePath).Msg("auth hand-off server listening")
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/v1/credentials", s.handleCredentials)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(s.started).String(),
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

type credentialRequest struct {
	Key            string `json:"key" binding:"required"`
	AuthToken      string `json:"auth_token" binding:"required"`
	Cookies        string `json:"cookies" binding:"required"`
	BrowserProfile string `json:"browser_profile"`
}

func (s *Server) handleCredentials(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.keyMatches(req.Key) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid hand-off key"})
		return
	}

	creds := authstore.Credentials{
		AuthToken:      req.AuthToken,
		Cookies:        req.Cookies,
		BrowserProfile: req.BrowserProfile,
	}
	if err := authstore.Save(s.storePath, creds); err != nil {
		log.Error().Err(err).Str("store", s.storePath).Msg("credential save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist credentials"})
		return
	}

	log.Info().Str("store", s.storePath).Msg("credentials stored")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "path": s.storePath})
}

func (s *Server) keyMatches(key string) bool {
	if s.handoffKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.handoffKey), []byte(key)) == 1
}
