package app

import (
	"context"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/internal/gateway/grpc/backend"
	"courier-engine/internal/handlers/tasks/discovery_scan"
	"courier-engine/internal/handlers/tasks/offline_drain"
	"courier-engine/internal/pkg/broker"
	"courier-engine/internal/pkg/config"
	"courier-engine/internal/pkg/kafka"
	"courier-engine/internal/pkg/locationfeed"
	offlineRepo "courier-engine/internal/repository/offline"
	stateRepo "courier-engine/internal/repository/state"
	deliveryService "courier-engine/internal/service/delivery"
	offlineService "courier-engine/internal/service/offline"
	trackerService "courier-engine/internal/service/tracker"
	"courier-engine/internal/service/verification"
	"courier-engine/pkg/background"
	"courier-engine/pkg/logger"
	"courier-engine/pkg/querier"
	retrierconfig "courier-engine/pkg/retrier"
	"courier-engine/pkg/retrier/backoff_adapter"
	"courier-engine/pkg/tx"
	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
)

const (
	// расписание повторов офлайн очереди: 5с, 10с, 20с ... не больше 10 минут
	offlineInitialInterval = 5 * time.Second
	offlineMaxInterval     = 10 * time.Minute
	offlineMultiplier      = 2

	eventBusBufferSize = 64
)

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideStateRepository(querier *querier.Querier) *stateRepo.Repository {
	return stateRepo.New(querier)
}

func provideOfflineRepository(querier *querier.Querier) *offlineRepo.Repository {
	return offlineRepo.New(querier)
}

func provideBackendGateway(conn *grpc.ClientConn, cfg *config.Config) *backend.Gateway {
	return backend.New(conn, cfg.Engine.CourierID)
}

func provideLocationFeed() *locationfeed.Feed {
	return locationfeed.New()
}

func provideTracker(source trackerService.Source, log logger.Logger) *trackerService.Tracker {
	return trackerService.New(source, log)
}

func provideVerificationGate(cfg *config.Config) *verification.Gate {
	return verification.New(entities.VerificationPolicy{
		MinPickupPhotos:  cfg.Verification.MinPickupPhotos,
		MinDropoffPhotos: cfg.Verification.MinDropoffPhotos,
		VideoMandatory:   cfg.Verification.VideoMandatory,
	})
}

func provideOfflineScheduler() *backoff_adapter.Retrier {
	return backoff_adapter.New(retrierconfig.Config{
		InitialInterval: offlineInitialInterval,
		MaxInterval:     offlineMaxInterval,
		Multiplier:      offlineMultiplier,
	})
}

func provideOfflineQueue(
	repository offlineService.Repository,
	gateway offlineService.Backend,
	scheduler offlineService.Scheduler,
	log logger.Logger,
	cfg *config.Config,
) *offlineService.Queue {
	return offlineService.New(repository, gateway, scheduler, log, offlineService.Config{
		MaxRetries: cfg.Offline.MaxRetries,
		BatchSize:  cfg.Offline.BatchSize,
	})
}

func provideEventBus() *broker.Memory {
	return broker.NewMemory(eventBusBufferSize)
}

func provideRedisBroker(client *redis.Client, log logger.Logger, cfg *config.Config) *broker.Redis {
	if client == nil {
		return nil
	}
	return broker.NewRedis(client, cfg.Redis.EventsChannel, log)
}

func provideKafkaProducer(producer sarama.SyncProducer, log logger.Logger, cfg *config.Config) *kafka.Producer {
	if producer == nil {
		return nil
	}
	return kafka.NewProducer(producer, cfg.Kafka.EventsTopic, log)
}

// providePublisher с Redis события идут через канал и возвращаются в шину
// процесса через Relay, без Redis публикуются в шину напрямую.
func providePublisher(bus *broker.Memory, redisBroker *broker.Redis, producer *kafka.Producer) *broker.Multi {
	var publishers []broker.Publisher
	if redisBroker != nil {
		publishers = append(publishers, redisBroker)
	} else {
		publishers = append(publishers, bus)
	}
	if producer != nil {
		publishers = append(publishers, producer)
	}
	return broker.NewMulti(publishers...)
}

func provideEngine(
	cfg *config.Config,
	gateway deliveryService.Backend,
	repository deliveryService.Repository,
	txManager deliveryService.TxManager,
	tracker deliveryService.Tracker,
	queue deliveryService.OfflineQueue,
	publisher *broker.Multi,
	gate deliveryService.Gate,
	log logger.Logger,
) *deliveryService.Engine {
	return deliveryService.New(
		deliveryService.Config{
			CourierID:          cfg.Engine.CourierID,
			CompletionDelay:    cfg.Engine.CompletionDelay,
			CancelResetDelay:   cfg.Engine.CancelResetDelay,
			NavigationDebounce: cfg.Engine.NavigationDebounce,
			HistorySize:        cfg.Engine.HistorySize,
			ScanRadiusKm:       cfg.Engine.ScanRadiusKm,
		},
		gateway,
		repository,
		txManager,
		tracker,
		queue,
		publisher,
		gate,
		log,
	)
}

func provideOfflineDrainTask(log logger.Logger, queue offline_drain.Queue, cfg *config.Config) *offline_drain.OfflineDrain {
	return offline_drain.NewOfflineDrain(log, queue, cfg.Tasks.OfflineDrainInterval)
}

func provideDiscoveryScanTask(log logger.Logger, service discovery_scan.Service, cfg *config.Config) *discovery_scan.DiscoveryScan {
	return discovery_scan.NewDiscoveryScan(log, service, cfg.Tasks.DiscoveryScanInterval)
}

func provideTaskList(
	offlineDrainTask *offline_drain.OfflineDrain,
	discoveryScanTask *discovery_scan.DiscoveryScan,
) []background.Task {
	return []background.Task{
		offlineDrainTask,
		discoveryScanTask,
	}
}

// NewBackgroundWorker запускается после Engine.Start, иначе прогрев
// сканирования увидит еще не восстановленное состояние.
func NewBackgroundWorker(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
