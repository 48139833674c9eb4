package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/config"
	"github.com/oksasatya/user-profile-service/db"
	"github.com/oksasatya/user-profile-service/internal/application"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/community"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/media"
	pginfra "github.com/oksasatya/user-profile-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/search"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
)

// Container holds the components constructed at startup so the router
// can wire modules from them.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Rabbit *helpers.RabbitPublisher
	JWT    *helpers.JWTManager

	Media      *media.Store
	Dispatcher *application.Dispatcher
	Service    *application.Service

	gcs *storage.Client
}

// Build connects every backing service and assembles the application layer.
// Optional peers (RabbitMQ, Elasticsearch, community service) degrade to
// no-ops when unreachable or unconfigured.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.Pool = pool

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
		c.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.GeographySeedEnabled {
		seeded, err := pginfra.SeedGeography(ctx, pool, db.Reference)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("seed geography: %w", err)
		}
		if seeded {
			logger.Info("geography reference data seeded")
		}
	}

	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		helpers.LogError(logger, "redis unavailable, profile cache and rate limits degrade", err, logrus.Fields{"addr": cfg.RedisAddr})
	}

	objects, err := c.objectStorage(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Media = media.NewStore(objects, media.Config{
		AvatarsBucket:  cfg.BucketAvatars,
		BackPadsBucket: cfg.BucketBackPads,
		AvatarsLink:    cfg.AvatarsLink,
		BackPadsLink:   cfg.BackPadsLink,
	}, logger)

	var publisher application.Publisher
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.AppName, cfg.RabbitMQEmailQueue, cfg.RabbitMQNotificationQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable, events will not be published", err, nil)
		} else {
			c.Rabbit = pub
			publisher = pub
		}
	}

	var indexer application.ProfileIndexer
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			helpers.LogError(logger, "elasticsearch unavailable, search disabled", err, nil)
		} else {
			indexer = search.NewProfileIndex(es, cfg.ESProfilesIndex)
		}
	}

	var registrar application.CommunityRegistrar
	if cc := community.NewClient(cfg.CommunityServiceURL, cfg.CommunityServiceToken, cfg.PropagationMaxRetries); cc.Enabled() {
		registrar = cc
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, 0)
	c.Dispatcher = application.NewDispatcher(publisher, registrar, indexer, application.DispatcherConfig{
		EmailQueue:        cfg.RabbitMQEmailQueue,
		NotificationQueue: cfg.RabbitMQNotificationQueue,
		Timeout:           cfg.PropagationTimeout,
	}, logger)

	repo := pginfra.NewAccountRepository(pool, c.Media)
	reader := application.NewProfileReader(repo, c.Redis, cfg.ProfileCacheTTL, logger)
	c.Service = application.NewService(repo, reader, c.Media, c.Dispatcher, indexer, logger)
	return c, nil
}

func (c *Container) objectStorage(ctx context.Context) (helpers.ObjectStorage, error) {
	cfg := c.Config
	if cfg.StorageBackend == "gcs" {
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("init gcs: %w", err)
		}
		c.gcs = client
		return helpers.NewGCSStorage(client), nil
	}
	s3, err := helpers.NewS3Storage(ctx, cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		return nil, fmt.Errorf("init s3: %w", err)
	}
	return s3, nil
}

// Close releases connections. Wait for the dispatcher before calling it.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.gcs != nil {
		_ = c.gcs.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
