package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshua-takyi/eventhub/internal/config"
	"github.com/joshua-takyi/eventhub/internal/connect"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/models"
	"github.com/joshua-takyi/eventhub/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	TokenValidator *helpers.TokenValidator
	// Database clients, nil unless the matching backend is selected
	MongoDBClient *mongo.Client
	SQLiteDB      *sql.DB
	EventService  *services.EventService
}

// NewContainer connects the configured event backend and wires the services.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	repo, err := c.openEventRepo(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Event store ready", "backend", cfg.StoreBackend)

	tv, err := helpers.NewTokenValidator(ctx, cfg.JWKSURL, cfg.JWTSecret, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.TokenValidator = tv
	c.EventService = services.NewEventService(repo, logger)
	return c, nil
}

func (c *Container) openEventRepo(ctx context.Context) (models.EventRepo, error) {
	switch c.Config.StoreBackend {
	case config.BackendSQLite:
		db, err := connect.SQLiteOpen(ctx, c.Config.SQLitePath)
		if err != nil {
			return nil, err
		}
		c.SQLiteDB = db
		repo, err := models.SqliteNewRepo(ctx, db)
		if err != nil {
			c.Close()
			return nil, err
		}
		return repo, nil
	case config.BackendMongo:
		client, err := connect.MongoDBConnect(ctx, c.Config.MongoDBURI, c.Config.MongoDBPassword)
		if err != nil {
			return nil, err
		}
		c.MongoDBClient = client
		return models.MongodbNewRepo(client, c.Config.MongoDBDatabase), nil
	case config.BackendMemory, "":
		return models.NewMemoryRepo(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", c.Config.StoreBackend)
	}
}

// Close releases backend connections and background key refresh.
func (c *Container) Close() error {
	if c.TokenValidator != nil {
		c.TokenValidator.Close()
	}
	return errors.Join(
		connect.SQLiteClose(c.SQLiteDB),
		connect.MongoDBDisconnect(c.MongoDBClient),
	)
}
