package dependency_container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	"github.com/NeuralTrust/TrustCloak/pkg/app/decision"
	"github.com/NeuralTrust/TrustCloak/pkg/app/heuristic"
	"github.com/NeuralTrust/TrustCloak/pkg/app/routing"
	"github.com/NeuralTrust/TrustCloak/pkg/config"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	handlers "github.com/NeuralTrust/TrustCloak/pkg/handlers/http"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/channel"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/event"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/cache/subscriber"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/classifier"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/database"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/dispatch"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/prometheus"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/repository"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/snapshot"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/TrustCloak/pkg/server/middleware"
	"github.com/NeuralTrust/TrustCloak/pkg/version"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	storeFile  = "file"
	storeRedis = "redis"
	storeNone  = "none"
)

type Container struct {
	Config              *config.Config
	Logger              *logrus.Logger
	Cache               botcache.Cache
	Orchestrator        decision.Orchestrator
	Worker              dispatch.Worker
	HandlerTransport    handlers.HandlerTransport
	MiddlewareTransport *middleware.Transport
	JWTManager          jwt.Manager
	RedisClient         *redis.Client
	DB                  *database.DB
	KafkaExporter       *kafka.Exporter
	EventListener       cache.EventListener
}

func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if cfg.Redirect.HumanURL == "" || cfg.Redirect.BotURL == "" {
		return nil, errors.New("redirect.human_url and redirect.bot_url are required")
	}

	c := &Container{Config: cfg, Logger: logger}

	if cfg.Metrics.Enabled {
		prometheus.Initialize(prometheus.MetricsConfig{
			EnableLatency: cfg.Metrics.EnableLatency,
			EnableProcess: cfg.Metrics.EnableProcess,
		})
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, logger)
		if err != nil {
			return nil, err
		}
		c.RedisClient = client
	}

	store, err := c.snapshotStore()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Cache = botcache.NewCache(logger, store, botcache.Options{
		Debounce: cfg.Cache.Debounce,
		MaxWait:  cfg.Cache.MaxWait,
	})
	if cfg.Cache.Sync {
		if c.RedisClient == nil {
			c.Close()
			return nil, errors.New("cache.sync requires redis.enabled")
		}
		c.Cache = c.syncCache(c.Cache)
	}
	prometheus.RegisterCacheSize(func() float64 {
		return float64(c.Cache.Stats().TotalCached)
	})

	var visitRepo visitor.VisitRepository
	if cfg.Database.Enabled {
		db, err := database.NewDB(logger, &database.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			DBName:       cfg.Database.DBName,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			c.Close()
			return nil, err
		}
		c.DB = db
		visitRepo = repository.NewVisitRepository(db)
	}

	if cfg.Kafka.Enabled {
		exporter, err := kafka.NewExporter(kafka.Config{
			Host:         cfg.Kafka.Host,
			Port:         cfg.Kafka.Port,
			CaptureTopic: cfg.Kafka.CaptureTopic,
			VisitTopic:   cfg.Kafka.VisitTopic,
		})
		if err != nil {
			c.Close()
			return nil, err
		}
		c.KafkaExporter = exporter
	}

	httpClient := httpx.NewFastHTTPClient(
		httpx.WithTimeout(cfg.Classifier.Timeout),
		httpx.WithUserAgent(version.UserAgent()),
	)

	dispatcher := c.dispatcher(httpClient, visitRepo)

	var remote decision.RemoteClassifier
	if cfg.Classifier.Endpoint != "" {
		remote = classifier.NewRemoteClassifier(
			classifier.Config{
				Endpoint: cfg.Classifier.Endpoint,
				Secret:   cfg.Classifier.Secret,
				Timeout:  cfg.Classifier.Timeout,
			},
			httpClient,
			httpx.NewLoggingCircuitBreaker(logger, "remote-classifier", cfg.Classifier.BreakerTimeout, uint32(cfg.Classifier.MaxFailures)),
			logger,
		)
	} else {
		logger.Warn("classifier.endpoint is empty, unresolved visitors default to HUMAN")
	}

	destinations := routing.Destinations{Human: cfg.Redirect.HumanURL, Bot: cfg.Redirect.BotURL}
	c.Orchestrator = decision.NewOrchestrator(
		logger,
		c.Cache,
		heuristic.NewClassifier(),
		remote,
		routing.NewRouter(destinations),
		dispatcher,
	)

	c.JWTManager = jwt.NewJwtManager(cfg.Server.SecretKey, cfg.Server.TokenTTL)
	c.MiddlewareTransport = middleware.NewTransport(
		middleware.NewPanicRecoverMiddleware(logger),
		middleware.NewAccessLogMiddleware(logger),
		middleware.NewAdminAuthMiddleware(logger, c.JWTManager),
	)

	c.HandlerTransport = handlers.HandlerTransport{
		RedirectHandler:         handlers.NewRedirectHandler(logger, c.Orchestrator, destinations.Human),
		GetCacheStatsHandler:    handlers.NewGetCacheStatsHandler(c.Cache),
		ListCacheEntriesHandler: handlers.NewListCacheEntriesHandler(c.Cache),
		GetCacheEntryHandler:    handlers.NewGetCacheEntryHandler(c.Cache),
		BanIPHandler:            handlers.NewBanIPHandler(logger, c.Cache),
		DeleteCacheEntryHandler: handlers.NewDeleteCacheEntryHandler(logger, c.Cache),
		ClearCacheHandler:       handlers.NewClearCacheHandler(logger, c.Cache),
		ListVisitsHandler:       handlers.NewListVisitsHandler(logger, visitRepo),
		GetVersionHandler:       handlers.NewGetVersionHandler(logger),
	}

	return c, nil
}

func (c *Container) snapshotStore() (classification.SnapshotStore, error) {
	switch c.Config.Cache.Store {
	case storeFile:
		return snapshot.NewFileStore(c.Config.Cache.FilePath), nil
	case storeRedis:
		if c.RedisClient == nil {
			return nil, errors.New("cache.store=redis requires redis.enabled")
		}
		key := c.Config.Cache.RedisKey
		if key == "" {
			key = snapshot.DefaultRedisKey
		}
		return snapshot.NewRedisStore(c.RedisClient, key), nil
	case storeNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache.store %q", c.Config.Cache.Store)
	}
}

func (c *Container) syncCache(inner botcache.Cache) botcache.Cache {
	origin := uuid.NewString()
	publisher := cache.NewRedisEventPublisher(c.RedisClient, channel.BotCacheEventsChannel)

	listener := cache.NewRedisEventListener(c.Logger, c.RedisClient, event.Registry)
	cache.RegisterEventSubscriber[event.BotCachedEvent](
		listener, subscriber.NewBotCachedEventSubscriber(c.Logger, inner, origin))
	cache.RegisterEventSubscriber[event.BotRemovedEvent](
		listener, subscriber.NewBotRemovedEventSubscriber(c.Logger, inner, origin))
	cache.RegisterEventSubscriber[event.BotCacheClearedEvent](
		listener, subscriber.NewBotCacheClearedEventSubscriber(c.Logger, inner, origin))
	c.EventListener = listener

	return cache.NewSyncedCache(inner, publisher, origin, c.Logger)
}

func (c *Container) dispatcher(client httpx.Client, visitRepo visitor.VisitRepository) visitor.Dispatcher {
	var (
		captureSinks []dispatch.CaptureSink
		visitSinks   []dispatch.VisitSink
	)
	if c.Config.Capture.Endpoint != "" {
		captureSinks = append(captureSinks, dispatch.NewHTTPCaptureSink(c.Config.Capture.Endpoint, client))
	}
	if visitRepo != nil {
		visitSinks = append(visitSinks, dispatch.NewRepositoryVisitSink(visitRepo))
	}
	if c.KafkaExporter != nil {
		captureSinks = append(captureSinks, c.KafkaExporter)
		visitSinks = append(visitSinks, c.KafkaExporter)
	}
	if len(captureSinks) == 0 && len(visitSinks) == 0 {
		return nil
	}

	c.Worker = dispatch.NewWorker(c.Logger, c.Config.Capture.QueueSize, c.Config.Capture.Timeout)
	c.Worker.StartWorkers(c.Config.Capture.Workers)
	return dispatch.NewDispatcher(c.Logger, c.Worker, captureSinks, visitSinks)
}

// StartListeners subscribes to peer cache events until ctx is done.
func (c *Container) StartListeners(ctx context.Context) {
	if c.EventListener == nil {
		return
	}
	go c.EventListener.Listen(ctx, channel.BotCacheEventsChannel)
}

// Shutdown flushes the cache snapshot and drains background work.
func (c *Container) Shutdown(ctx context.Context) {
	if c.Cache != nil {
		if err := c.Cache.Close(ctx); err != nil {
			c.Logger.WithError(err).Error("failed to flush bot cache")
		}
	}
	if c.Worker != nil {
		if err := c.Worker.Shutdown(ctx); err != nil {
			c.Logger.WithError(err).Warn("dispatch worker did not drain in time")
		}
	}
	c.Close()
}

// Close releases external connections.
func (c *Container) Close() {
	if c.KafkaExporter != nil {
		c.KafkaExporter.Close()
		c.KafkaExporter = nil
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.WithError(err).Warn("failed to close database")
		}
		c.DB = nil
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("failed to close redis client")
		}
		c.RedisClient = nil
	}
}

// LoadCache restores the persisted snapshot, bounded by timeout.
func (c *Container) LoadCache(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.Cache.Load(ctx)
}

// AdminToken mints a bearer token accepted by the admin server.
func AdminToken(cfg *config.Config, subject string) (string, error) {
	return jwt.NewJwtManager(cfg.Server.SecretKey, cfg.Server.TokenTTL).CreateToken(subject)
}
