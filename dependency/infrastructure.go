package dependency

import (
	"github.com/vendora/realtime/infrastructure/persistence/database"
	"github.com/vendora/realtime/infrastructure/persistence/repository"
	"github.com/vendora/realtime/infrastructure/tracing"
	"go.uber.org/zap"
)

func (c *Container) initInfrastructure() error {
	tracerProvider, err := tracing.InitJaegerExporter(c.Config)
	if err != nil {
		// Tracing is best effort; the service runs without it.
		c.Logger.Error("failed to initialize Jaeger exporter", zap.Error(err))
	} else {
		c.TracerProvider = tracerProvider
		c.Logger.Info("Jaeger exporter initialized successfully",
			zap.String("endpoint", c.Config.Jaeger.Endpoint),
			zap.String("service", c.Config.Jaeger.ServiceName),
		)
	}

	db, err := database.Open(c.Config, c.Logger)
	if err != nil {
		return err
	}
	c.Database = db

	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repository.NewUserRepository(c.Database)
	c.CustomerRepo = repository.NewCustomerRepository(c.Database)
	c.TenantRepo = repository.NewTenantRepository(c.Database)
	c.MessageRepo = repository.NewMessageRepository(c.Database)

	c.Logger.Info("Repositories initialized successfully")
}
