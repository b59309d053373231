package websocket

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authUseCase "github.com/vendora/realtime/application/usecases/auth"
	infraAuth "github.com/vendora/realtime/infrastructure/auth"
	"github.com/vendora/realtime/infrastructure/logger"
	"github.com/vendora/realtime/infrastructure/metrics"
	"github.com/vendora/realtime/infrastructure/websocket"
	"go.uber.org/zap"
)

type WebSocketController interface {
	HandleConnection(ctx *gin.Context)
}

type webSocketController struct {
	authUseCase authUseCase.AuthUseCase
	hub         *websocket.Hub
	logger      *logger.Logger
}

func NewWebSocketController(
	authUseCase authUseCase.AuthUseCase,
	hub *websocket.Hub,
	logger *logger.Logger,
) WebSocketController {
	return &webSocketController{
		authUseCase: authUseCase,
		hub:         hub,
		logger:      logger,
	}
}

// HandleConnection authenticates the handshake and hands the connection to
// the hub. Authentication happens before the upgrade so that rejected
// clients get a plain HTTP status instead of a half-open socket.
func (c *webSocketController) HandleConnection(ctx *gin.Context) {
	credential := credentialFromRequest(ctx.Request)

	identity, err := c.authUseCase.Authenticate(ctx.Request.Context(), credential)
	if err != nil {
		metrics.HandshakesRefusedTotal.Inc()
		status, message := refusalResponse(err)
		c.logger.Warn("websocket handshake refused",
			zap.String("ip", ctx.ClientIP()),
			zap.Error(err),
		)
		ctx.JSON(status, gin.H{
			"error":   "unauthorized",
			"message": message,
		})
		return
	}

	conn, err := c.hub.Upgrade(ctx.Writer, ctx.Request)
	if err != nil {
		c.logger.Error("websocket upgrade failed",
			zap.String("userId", identity.UserID),
			zap.Error(err),
		)
		return
	}

	client := websocket.NewClient(conn, identity, c.logger.Log)
	c.hub.Register() <- client

	go client.WritePump()
	go client.ReadPump(c.hub)
}

// credentialFromRequest prefers the token query parameter, which browser
// WebSocket clients can always set, and falls back to a bearer header.
func credentialFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

func refusalResponse(err error) (int, string) {
	switch {
	case errors.Is(err, infraAuth.ErrTokenMissing):
		return http.StatusUnauthorized, "authentication token is required"
	case errors.Is(err, infraAuth.ErrTokenExpired):
		return http.StatusUnauthorized, "token has expired"
	case errors.Is(err, authUseCase.ErrCustomerNotFound):
		return http.StatusUnauthorized, "customer account not found"
	default:
		return http.StatusUnauthorized, "invalid token"
	}
}
