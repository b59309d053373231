package dependency

import (
	"context"

	authUseCase "github.com/vendora/realtime/application/usecases/auth"
	chatUseCase "github.com/vendora/realtime/application/usecases/chat"
	infraAuth "github.com/vendora/realtime/infrastructure/auth"
	"github.com/vendora/realtime/infrastructure/websocket"
	wsCtrl "github.com/vendora/realtime/presentation/controllers/websocket"
)

func (c *Container) initUseCases() {
	verifier := infraAuth.NewTokenVerifier(c.Config.JWT)

	c.Rooms = chatUseCase.NewRoomRegistry()
	c.AuthUC = authUseCase.NewAuthUseCase(verifier, c.CustomerRepo, c.Logger)
	c.ChatUC = chatUseCase.NewChatUseCase(c.Rooms, c.TenantRepo, c.UserRepo, c.MessageRepo, c.Logger)

	c.Logger.Info("Use cases initialized successfully")
}

func (c *Container) initWebSocket() {
	c.Hub = websocket.NewHub(c.ChatUC, c.Logger)

	c.ctx, c.cancel = context.WithCancel(context.Background())

	go c.Hub.Run(c.ctx)

	c.Logger.Info("WebSocket hub initialized successfully")
}

func (c *Container) initControllers() {
	c.WebsocketController = wsCtrl.NewWebSocketController(c.AuthUC, c.Hub, c.Logger)

	c.Logger.Info("Controllers initialized successfully")
}
