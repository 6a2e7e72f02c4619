package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Nandinikorlakanti/know-ai-space/internal/ai"
	appsvc "github.com/Nandinikorlakanti/know-ai-space/internal/app"
	"github.com/Nandinikorlakanti/know-ai-space/internal/cache"
	"github.com/Nandinikorlakanti/know-ai-space/internal/config"
	"github.com/Nandinikorlakanti/know-ai-space/internal/index"
	"github.com/Nandinikorlakanti/know-ai-space/internal/model"
	mysqlClient "github.com/Nandinikorlakanti/know-ai-space/internal/platform/mysql"
	rabbitmqClient "github.com/Nandinikorlakanti/know-ai-space/internal/platform/rabbitmq"
	redisClient "github.com/Nandinikorlakanti/know-ai-space/internal/platform/redis"
	"github.com/Nandinikorlakanti/know-ai-space/internal/repository"
	"github.com/Nandinikorlakanti/know-ai-space/internal/worker"
)

// App holds every constructed dependency. MySQL, Redis and MQConn stay
// nil when the matching backend is not configured; the memory store and
// the degraded code paths cover those cases.
type App struct {
	Config *config.Config

	Workspaces *appsvc.WorkspaceService
	Knowledge  *appsvc.KnowledgeService

	MySQL          *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	ActivityWorker *worker.ActivityWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{Config: cfg, StartedAt: time.Now()}

	var store repository.PageStore
	var recorder repository.ActivityRecorder
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&model.Workspace{}, &model.Page{}, &model.ActivityEvent{}); err != nil {
			return nil, fmt.Errorf("auto migrate tables failed: %w", err)
		}
		app.MySQL = db
		store = repository.NewGormStore(db)
		recorder = repository.NewActivityRepository(db)
	case "", "memory":
		store = repository.NewMemoryStore()
		recorder = repository.NewMemoryActivityLog()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	inference := ai.NewInferenceClient(ai.InferenceConfig{
		BaseURL:         cfg.Inference.BaseURL,
		APIKey:          cfg.Inference.APIKey,
		QAModel:         cfg.Inference.QAModel,
		EmbeddingModel:  cfg.Inference.EmbeddingModel,
		ClassifierModel: cfg.Inference.ClassifierModel,
	})
	var qa ai.Answerer
	var embedder ai.Embedder
	var classifier ai.Classifier
	if cfg.Inference.QAModel != "" {
		qa = inference
	}
	if cfg.Inference.EmbeddingModel != "" {
		embedder = inference
	}
	if cfg.Inference.ClassifierModel != "" {
		classifier = inference
	}

	var answers *cache.AnswerCache
	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.Redis = redisCli
		answers = cache.NewAnswerCache(
			redisCli,
			time.Duration(cfg.Redis.AnswerTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.AnswerDirtyTTLSeconds)*time.Second,
		)
	}

	var publisher appsvc.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		app.MQConn = mqConn
		publisher = rabbitmqClient.NewEventPublisher(mqConn, cfg.RabbitMQ.ActivityQueue)

		app.ActivityWorker = worker.NewActivityWorker(mqConn, recorder, cfg.RabbitMQ.ActivityQueue)
		if err := app.ActivityWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start activity worker failed: %w", err)
		}
	}

	simIndex := index.New()
	app.Workspaces = appsvc.NewWorkspaceService(store, embedder, simIndex, answers, publisher)
	app.Knowledge = appsvc.NewKnowledgeService(store, qa, embedder, classifier, simIndex, answers)

	// Persistent stores carry vectors across restarts; reload them.
	if app.MySQL != nil {
		if err := app.Workspaces.RebuildIndex(ctx); err != nil {
			return nil, fmt.Errorf("rebuild similarity index failed: %w", err)
		}
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
