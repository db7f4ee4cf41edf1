package webhook

import (
	"io"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SummitSummer/Botishe/internal/database"
	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/logger"
	"github.com/SummitSummer/Botishe/internal/service"
)

// Server receives gateway webhooks. Auth uses the same two static headers
// as the outbound API calls; anything authenticated is acknowledged with
// 200 no matter how processing went, so the gateway does not retry-storm
// over internal errors unrelated to delivery.
type Server struct {
	engine     *gin.Engine
	shopID     string
	secret     string
	reconciler service.ReconcileService
	snap       database.Service
}

func NewServer(shopID, secret string, reconciler service.ReconcileService, snap database.Service) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:     gin.New(),
		shopID:     shopID,
		secret:     secret,
		reconciler: reconciler,
		snap:       snap,
	}
	s.engine.Use(gin.Recovery(), cors.Default())
	s.engine.GET("/", s.handleRoot)
	s.engine.POST("/webhook/platega", s.handleWebhook)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "Blesk Spotify Bot is running!",
		"snapshot": s.snap.Health(),
	})
}

func (s *Server) handleWebhook(c *gin.Context) {
	if !s.authorized(c.Request.Header) {
		logger.Logger.Warn().
			Str("remote", c.ClientIP()).
			Msg("webhook with bad credentials rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	logger.Logger.Info().Str("body", string(body)).Msg("webhook received")

	if n, err := domain.ParseNotification(body); err != nil {
		logger.Logger.Warn().Err(err).Msg("webhook body not parseable")
	} else {
		s.process(n)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// process shields the acknowledgment from reconciliation panics.
func (s *Server) process(n *domain.Notification) {
	defer func() {
		if r := recover(); r != nil {
			logger.Logger.Error().Any("panic", r).Msg("webhook processing panicked")
		}
	}()
	s.reconciler.HandleNotification(n)
}

// authorized matches the credential headers case-insensitively and accepts
// the X-Merchant-Id spelling some gateway versions send.
func (s *Server) authorized(h http.Header) bool {
	merchant := h.Get("X-MerchantId")
	if merchant == "" {
		merchant = h.Get("X-Merchant-Id")
	}
	secret := h.Get("X-Secret")
	return merchant != "" && merchant == s.shopID && secret == s.secret
}
