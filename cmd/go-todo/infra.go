package main

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
	gormlib "gorm.io/gorm"

	"go-todo/internal/application/processor"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/gateway/queue"
	"go-todo/internal/domain/gateway/session"
	"go-todo/internal/domain/usecase/todosync"
	"go-todo/internal/infra/aws"
	"go-todo/internal/infra/database"
	"go-todo/internal/infra/database/gorm"
	"go-todo/internal/infra/database/sqlc"
	infraredis "go-todo/internal/infra/redis"
	"go-todo/pkg/log"
	"go-todo/pkg/msg"
	pkgredis "go-todo/pkg/redis"
	"go-todo/pkg/resource"
	"go-todo/pkg/sqs"
)

const (
	driverRedis  = "redis"
	driverMemory = "memory"
	driverSQS    = "sqs"
	driverNone   = "none"

	eventConsumerName = "todo-events"
)

// infra opens the drivers selected in application.yml, sharing connections between stores
type infra struct {
	sqlDB     *sql.DB
	gormDB    *gormlib.DB
	redis     *pkgredis.Client
	sqsClient sqs.SQSClient
}

func newInfra() *infra {
	return &infra{}
}

func invalidDriver(kind, value string) {
	log.Fatal(msg.GetMessage("app.invalid-driver", kind, value))
}

func (i *infra) openSQL(ctx context.Context) *sql.DB {
	if i.sqlDB == nil {
		conn, err := sqlc.Open(ctx, database.ConfigFromProperties())
		if err != nil {
			log.Fatal("failed to connect database", zap.Error(err))
		}
		i.sqlDB = conn
	}
	return i.sqlDB
}

func (i *infra) openGorm() *gormlib.DB {
	if i.gormDB == nil {
		conn, err := gorm.Open(database.ConfigFromProperties())
		if err != nil {
			log.Fatal("failed to connect database", zap.Error(err))
		}
		i.gormDB = conn
	}
	return i.gormDB
}

func (i *infra) redisClient() *pkgredis.Client {
	if i.redis == nil {
		if !resource.GetBool("app.redis.enabled") {
			log.Fatal("redis is required by the configuration but app.redis.enabled is false")
		}
		config := pkgredis.NewRedisConfig().
			WithHost(resource.GetString("app.redis.host")).
			WithPort(resource.GetInt("app.redis.port")).
			WithPassword(resource.GetString("app.redis.password")).
			WithDatabase(resource.GetInt("app.redis.database")).
			WithKeyPrefix(resource.GetString("app.name"))
		client, err := pkgredis.NewClient(config)
		if err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		i.redis = client
	}
	return i.redis
}

func (i *infra) openSQS(ctx context.Context) sqs.SQSClient {
	if i.sqsClient == nil {
		cloud := aws.CloudConfigFromProperties()
		cfg, err := aws.LoadConfig(ctx, cloud)
		if err != nil {
			log.Fatal("failed to load cloud config", zap.Error(err))
		}
		i.sqsClient = aws.NewSqsClient(cfg, cloud.Endpoint)
	}
	return i.sqsClient
}

// TodoStore returns the todo gateway and the health of its backing store
func (i *infra) TodoStore(ctx context.Context) (db.TodoGateway, db.HealthDBGateway) {
	switch driver := resource.GetString("app.store.driver"); driver {
	case db.DriverSQLC:
		conn := i.openSQL(ctx)
		return db.NewSQLCTodoGateway(conn), db.NewSQLCHealthDBGateway(conn)
	case db.DriverGorm:
		conn := i.openGorm()
		return db.NewGormTodoGateway(conn), db.NewGormHealthDBGateway(conn)
	case db.DriverMemory:
		return db.NewMemoryTodoGateway(), &db.MemoryHealthDBGateway{}
	default:
		invalidDriver("store", driver)
		return nil, nil
	}
}

func (i *infra) UserStore(ctx context.Context) db.UserGateway {
	switch driver := resource.GetString("app.auth.store"); driver {
	case db.DriverSQLC:
		return db.NewSQLCUserGateway(i.openSQL(ctx))
	case db.DriverGorm:
		return db.NewGormUserGateway(i.openGorm())
	case db.DriverMemory:
		return db.NewMemoryUserGateway()
	default:
		invalidDriver("auth store", driver)
		return nil
	}
}

// SessionStore returns token revocation, sign-in limiting and the cache health
func (i *infra) SessionStore() (session.RevocationGateway, session.AttemptLimiter, session.HealthGateway) {
	maxPerMinute := resource.GetInt("app.auth.sign-in.max-per-minute")

	switch driver := resource.GetString("app.auth.revocation"); driver {
	case driverRedis:
		client := i.redisClient()
		limiter, err := pkgredis.NewRateLimiter(client, pkgredis.NewRateLimiterOptions(maxPerMinute).
			WithWindow(time.Minute).
			WithNamespace("sign-in"))
		if err != nil {
			log.Fatal("invalid sign-in rate limit", zap.Error(err))
		}
		return session.NewRedisRevocationGateway(client),
			session.NewRedisAttemptLimiter(limiter),
			session.NewRedisHealthGateway(client)
	case driverMemory:
		var health session.HealthGateway = session.DisabledHealthGateway{}
		if resource.GetBool("app.redis.enabled") {
			health = session.NewRedisHealthGateway(i.redisClient())
		}
		return session.NewMemoryRevocationGateway(),
			session.NewMemoryAttemptLimiter(maxPerMinute, time.Minute),
			health
	default:
		invalidDriver("revocation", driver)
		return nil, nil, nil
	}
}

func (i *infra) eventPubSubConfig() *pkgredis.PubSubConfig {
	return pkgredis.NewPubSubConfig().
		WithPoolSize(resource.GetInt("app.events.pool-size")).
		WithChannelNamespace(resource.GetString("app.events.namespace"))
}

// EventPublisher returns where synchronizers publish todo events
func (i *infra) EventPublisher(ctx context.Context) queue.EventPublisher {
	switch transport := resource.GetString("app.events.transport"); transport {
	case driverSQS:
		return aws.NewSQSEventPublisher(i.openSQS(ctx), resource.GetString("app.events.queue"))
	case driverRedis:
		publisher := pkgredis.NewPublisher(i.redisClient(), i.eventPubSubConfig())
		return infraredis.NewEventPublisher(publisher, resource.GetString("app.events.channel"))
	case driverNone:
		return queue.NoopEventPublisher{}
	default:
		invalidDriver("events transport", transport)
		return nil
	}
}

// StartEventConsumer resyncs sessions from the event transport until ctx is done
func (i *infra) StartEventConsumer(ctx context.Context, registry *todosync.Registry, health queue.HealthGateway) {
	eventProcessor := processor.NewTodoEventProcessor(registry)

	switch resource.GetString("app.events.transport") {
	case driverSQS:
		worker, err := sqs.NewWorker(ctx, i.openSQS(ctx), resource.GetString("app.events.queue"), eventProcessor, &sqs.WorkerConfig{
			PoolSize: resource.GetInt("app.events.pool-size"),
		})
		if err != nil {
			log.Fatal("failed to create event worker", zap.Error(err))
		}
		health.RegisterConsumer(eventConsumerName, worker)
		go worker.Start(ctx)
	case driverRedis:
		subscriber, err := pkgredis.NewSubscriber(i.redisClient(),
			pkgredis.HandlerFunc(eventProcessor.HandleRedisMessage),
			i.eventPubSubConfig(),
			resource.GetString("app.events.channel"))
		if err != nil {
			log.Fatal("failed to create event subscriber", zap.Error(err))
		}
		health.RegisterConsumer(eventConsumerName, subscriber)
		go subscriber.Start(ctx)
	}
}

func (i *infra) Close() {
	if i.sqlDB != nil {
		_ = i.sqlDB.Close()
	}
	if i.gormDB != nil {
		if conn, err := i.gormDB.DB(); err == nil {
			_ = conn.Close()
		}
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
}
