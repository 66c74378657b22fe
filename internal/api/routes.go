package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"medicine-verify/internal/logsink"
	"medicine-verify/internal/store"
	"medicine-verify/internal/verdict"
	"medicine-verify/internal/verify"
)

const (
	defaultLogsLimit         = 50
	maxLogsLimit             = 500
	defaultManufacturerLimit = 25
	streamPath               = "/api/medicine/stream"
	requestIDHeader          = "X-Request-ID"
)

// Verifier produces verdicts.
type Verifier interface {
	Verify(ctx context.Context, req verify.Request) (verdict.Result, error)
}

// Directory serves the read-only listings next to the verification endpoint.
type Directory interface {
	RecentLogs(ctx context.Context, limit int) ([]store.VerificationLog, error)
	Manufacturers(ctx context.Context, query string, limit int) ([]store.Manufacturer, error)
}

// Config defines server settings.
type Config struct {
	AllowedOrigins []string
	StoreBackend   string
	Classifiers    []string
}

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Engine    Verifier
	Directory Directory
	Sinks     *logsink.Multi
}

// Server wires HTTP handlers to the verification engine.
type Server struct {
	engine         Verifier
	directory      Directory
	sinks          *logsink.Multi
	notifier       *VerificationNotifier
	allowedOrigins []string
	storeBackend   string
	classifiers    []string
}

// NewServer constructs the API server. The websocket feed is registered as an extra log
// sink so every recorded verification is broadcast.
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Engine == nil {
		return nil, errors.New("verification engine required")
	}
	if deps.Directory == nil {
		return nil, errors.New("directory required")
	}
	notifier := NewVerificationNotifier()
	if deps.Sinks != nil {
		deps.Sinks.Add(notifier)
	}
	return &Server{
		engine:         deps.Engine,
		directory:      deps.Directory,
		sinks:          deps.Sinks,
		notifier:       notifier,
		allowedOrigins: cfg.AllowedOrigins,
		storeBackend:   cfg.StoreBackend,
		classifiers:    cfg.Classifiers,
	}, nil
}

// Notifier exposes the websocket broadcaster.
func (s *Server) Notifier() *VerificationNotifier {
	return s.notifier
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsCfg))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{streamPath, "/metrics"})))

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/healthz", s.handleHealthz)
	r.GET("/api/config", s.handleConfig)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/medicine/verify", s.handleVerify)
		api.GET("/medicine/logs", s.handleLogs)
		api.GET("/medicine/stream", s.handleStream)
		api.GET("/manufacturers", s.handleManufacturers)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Fake Medicine Detection API is running (Health Check)"})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	classifiers := s.classifiers
	if classifiers == nil {
		classifiers = []string{}
	}
	sinks := []string{}
	if s.sinks != nil {
		sinks = s.sinks.Names()
	}
	c.JSON(http.StatusOK, ConfigResponse{
		StoreBackend: s.storeBackend,
		Classifiers:  classifiers,
		Sinks:        sinks,
	})
}

func (s *Server) handleVerify(c *gin.Context) {
	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}

	result, err := s.engine.Verify(c.Request.Context(), req.toEngine())
	if err != nil {
		status := MapHTTPStatus(err)
		if status != http.StatusInternalServerError {
			s.renderError(c, status, err)
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"medicine": req.MedicineInput,
			"batch":    req.BatchNumber,
		}).Error("verification failed")
		captureError(c, err)
		c.JSON(http.StatusInternalServerError, internalErrorResponse())
		return
	}

	c.Header(requestIDHeader, result.RequestID)
	c.JSON(http.StatusOK, NewVerificationResponse(result))
}

func (s *Server) handleLogs(c *gin.Context) {
	limit := defaultLogsLimit
	if value := strings.TrimSpace(c.Query("limit")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid limit: %s", value))
			return
		}
		limit = parsed
	}
	if limit > maxLogsLimit {
		limit = maxLogsLimit
	}

	logs, err := s.directory.RecentLogs(c.Request.Context(), limit)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	if logs == nil {
		logs = []store.VerificationLog{}
	}
	c.JSON(http.StatusOK, LogsResponse{Items: logs, Count: len(logs)})
}

func (s *Server) handleManufacturers(c *gin.Context) {
	items, err := s.directory.Manufacturers(c.Request.Context(), c.Query("q"), defaultManufacturerLimit)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	if items == nil {
		items = []store.Manufacturer{}
	}
	c.JSON(http.StatusOK, ManufacturersResponse{Items: items, Count: len(items)})
}

func (s *Server) handleStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout: 5 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("verification websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("verification websocket closed")
			} else {
				logrus.WithError(err).Warn("verification websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
