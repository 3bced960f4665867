package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"repairdesk/internal/auth"
	"repairdesk/internal/repository"
	"repairdesk/internal/service"
)

// Services сервисы, которые обслуживает HTTP-слой
type Services struct {
	Products *service.ProductService
	Devices  *service.DeviceService
	Quotes   *service.QuoteService
	Orders   *service.OrderService
}

type Server struct {
	engine   *gin.Engine
	svc      Services
	verifier auth.Verifier
	log      *zap.Logger
	metrics  http.Handler
	started  time.Time
	now      func() time.Time
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithPrometheus mounts h at GET /prometheus, outside authentication.
func WithPrometheus(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(svc Services, verifier auth.Verifier, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		verifier: verifier,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()

	r := gin.New()
	// handlers pass *gin.Context on as context.Context; keep the request's span and deadline reachable
	r.ContextWithFallback = true
	r.Use(requestLogger(s.log), gin.Recovery())
	s.engine = r
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if s.metrics != nil {
		s.engine.GET("/prometheus", gin.WrapH(s.metrics))
	}

	authed := s.engine.Group("", auth.RequireToken(s.verifier))
	authed.GET("/status", s.status)
	authed.GET("/metrics", s.uptime)

	v1 := authed.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.POST("", s.createProduct)
		products.GET(":id", s.getProduct)
		products.PUT(":id", s.updateProduct)
		products.DELETE(":id", s.deleteProduct)
		products.GET("", s.listProducts)

		devices := v1.Group("/unlock-devices")
		devices.POST("", s.createDevice)
		devices.GET(":id", s.getDevice)
		devices.PUT(":id", s.updateDevice)
		devices.GET("", s.listDevices)
		v1.GET("/brands", s.listBrands)

		quotes := v1.Group("/quotes")
		quotes.POST("", s.createQuote)
		quotes.GET(":id", s.getQuote)
		quotes.PUT(":id", s.updateQuote)
		quotes.GET("", s.listQuotes)

		orders := v1.Group("/orders")
		orders.POST("", s.createOrder)
		orders.GET("", s.listOrders)
		orders.GET("board", s.orderBoard)
		orders.GET(":id", s.getOrder)
		orders.PATCH(":id", s.patchOrder)
		orders.PUT(":id/status", s.updateOrderStatus)
		orders.POST(":id/comments", s.addOrderComment)
		orders.POST(":id/cancel", s.cancelOrder)
	}
}

// requestLogger пишет одну строку на запрос через zap
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if user := auth.User(c); user != "" {
			fields = append(fields, zap.String("user", user))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

type statusResp struct {
	Status string `json:"status"`
}

// @Summary Service status
// @Tags system
// @Produce json
// @Success 200 {object} statusResp
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /status [get]
func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResp{Status: "operational"})
}

type uptimeResp struct {
	Uptime    float64 `json:"uptime"`
	Timestamp int64   `json:"timestamp"`
}

// @Summary Uptime and server time
// @Tags system
// @Produce json
// @Success 200 {object} uptimeResp
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /metrics [get]
func (s *Server) uptime(c *gin.Context) {
	now := s.now()
	c.JSON(http.StatusOK, uptimeResp{
		Uptime:    now.Sub(s.started).Seconds(),
		Timestamp: now.UnixMilli(),
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidInput
	}
	return id, nil
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail отвечает ошибкой; детали 500 уходят только в лог
func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	body := gin.H{"error": err.Error()}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		body["field"] = verr.Field
	}
	c.JSON(status, body)
}

func (s *Server) badJSON(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
}
