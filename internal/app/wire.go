//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"courier-engine/internal/gateway/grpc/backend"
	"courier-engine/internal/pkg/config"
	"courier-engine/pkg/logger"
	"courier-engine/pkg/retrier/backoff_adapter"
	"courier-engine/pkg/tx"

	offlineRepo "courier-engine/internal/repository/offline"
	stateRepo "courier-engine/internal/repository/state"
	deliveryService "courier-engine/internal/service/delivery"
	offlineService "courier-engine/internal/service/offline"
	trackerService "courier-engine/internal/service/tracker"
	"courier-engine/internal/service/verification"

	"courier-engine/internal/handlers/tasks/discovery_scan"
	"courier-engine/internal/handlers/tasks/offline_drain"
	"courier-engine/internal/pkg/locationfeed"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
)

// InitializeApplication собирает движок доставки. redisClient и producer
// равны nil, если Redis и Kafka не настроены.
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	conn *grpc.ClientConn,
	redisClient *redis.Client,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,

		provideStateRepository,
		provideOfflineRepository,

		provideBackendGateway,
		provideLocationFeed,
		provideTracker,
		provideVerificationGate,
		provideOfflineScheduler,
		provideOfflineQueue,

		provideEventBus,
		provideRedisBroker,
		provideKafkaProducer,
		providePublisher,

		provideEngine,

		provideOfflineDrainTask,
		provideDiscoveryScanTask,
		provideTaskList,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceDelivery), new(*deliveryService.Engine)),

		wire.Bind(new(deliveryService.Backend), new(*backend.Gateway)),
		wire.Bind(new(deliveryService.Repository), new(*stateRepo.Repository)),
		wire.Bind(new(deliveryService.TxManager), new(*tx.Manager)),
		wire.Bind(new(deliveryService.Tracker), new(*trackerService.Tracker)),
		wire.Bind(new(deliveryService.OfflineQueue), new(*offlineService.Queue)),
		wire.Bind(new(deliveryService.Gate), new(*verification.Gate)),

		wire.Bind(new(offlineService.Repository), new(*offlineRepo.Repository)),
		wire.Bind(new(offlineService.Backend), new(*backend.Gateway)),
		wire.Bind(new(offlineService.Scheduler), new(*backoff_adapter.Retrier)),

		wire.Bind(new(trackerService.Source), new(*locationfeed.Feed)),

		wire.Bind(new(offline_drain.Queue), new(*offlineService.Queue)),
		wire.Bind(new(discovery_scan.Service), new(*deliveryService.Engine)),
	)
	return &Application{}, nil
}
