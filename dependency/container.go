package dependency

import (
	"context"
	"fmt"

	authUseCase "github.com/vendora/realtime/application/usecases/auth"
	chatUseCase "github.com/vendora/realtime/application/usecases/chat"
	"github.com/vendora/realtime/domain/repository"
	"github.com/vendora/realtime/infrastructure/cache"
	"github.com/vendora/realtime/infrastructure/config"
	"github.com/vendora/realtime/infrastructure/logger"
	"github.com/vendora/realtime/infrastructure/websocket"
	wsCtrl "github.com/vendora/realtime/presentation/controllers/websocket"
	"go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

type Container struct {
	Config *config.Config
	Logger *logger.Logger

	TracerProvider *trace.TracerProvider
	Database       *gorm.DB

	UserRepo     repository.UserRepository
	CustomerRepo repository.CustomerRepository
	TenantRepo   repository.TenantRepository
	MessageRepo  repository.MessageRepository

	Rooms *chatUseCase.RoomRegistry
	Hub   *websocket.Hub

	AuthUC authUseCase.AuthUseCase
	ChatUC chatUseCase.ChatUseCase

	WebsocketController wsCtrl.WebSocketController

	ctx    context.Context
	cancel context.CancelFunc
}

func NewContainer() (*Container, error) {
	c := &Container{}

	c.Config = config.GetConfig()

	loggerInstance, err := logger.NewLogger(c.Config)
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	c.Logger = loggerInstance

	c.Logger.Info("Initializing realtime service dependencies")
	if err := cache.InitRedis(c.Config); err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("error initializing infrastructure: %w", err)
	}

	c.initRepositories()

	c.initUseCases()

	c.initWebSocket()

	c.initControllers()

	c.Logger.Info("All dependencies initialized successfully")

	return c, nil
}
