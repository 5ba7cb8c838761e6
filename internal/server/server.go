// Package server exposes the prediction pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cardioscan/heartrisk/internal/common"
	"github.com/cardioscan/heartrisk/internal/pipeline"
)

type Server struct {
	svc    *pipeline.Service
	cfg    common.ServerConfig
	logger *slog.Logger
}

func New(svc *pipeline.Service, cfg common.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, cfg: cfg, logger: logger}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(s.requestID())
	r.Use(s.recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Request-ID")
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	{
		api.POST("/predict", s.handlePredict)
		api.POST("/upload", s.handleUpload)
		api.GET("/health", s.handleHealth)
		api.GET("/model-info", s.handleModelInfo)
	}
	return r
}

// requestID attaches a fresh ID to the request context and echoes it back.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = common.NewRequestID()
		}
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), id))
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// recovery converts panics into a safe 500 without leaking internals.
func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("server.panic",
					"request_id", common.RequestIDFromContext(c.Request.Context()),
					"panic", r,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
					Error: "an unexpected error occurred",
					Code:  common.CodeInternal,
				})
			}
		}()
		c.Next()
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps the error taxonomy onto HTTP statuses. Only the kind and a
// safe message go out; internal detail stays in the logs.
func (s *Server) writeError(c *gin.Context, err error) {
	code := common.Kind(err)
	status := http.StatusInternalServerError
	switch code {
	case common.CodeValidation, common.CodeUnknownCategory, common.CodeUnsupportedFormat:
		status = http.StatusBadRequest
	case common.CodeExtraction:
		status = http.StatusUnprocessableEntity
	case common.CodeTimeout:
		status = http.StatusGatewayTimeout
	case common.CodeModelUnavailable:
		status = http.StatusInternalServerError
	}

	if status >= 500 {
		s.logger.Error("server.request.failed",
			"request_id", common.RequestIDFromContext(c.Request.Context()),
			"code", code,
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, errorBody{Error: common.SafeMessage(err), Code: code})
}
