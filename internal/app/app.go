package app

import (
	"courier-engine/internal/handlers/rest/accept_post"
	"courier-engine/internal/handlers/rest/arrive_post"
	"courier-engine/internal/handlers/rest/cancel_post"
	"courier-engine/internal/handlers/rest/complete_post"
	"courier-engine/internal/handlers/rest/delivery_get"
	"courier-engine/internal/handlers/rest/discovery_offers_get"
	"courier-engine/internal/handlers/rest/discovery_put"
	"courier-engine/internal/handlers/rest/finalize_post"
	"courier-engine/internal/handlers/rest/history_get"
	"courier-engine/internal/handlers/rest/issue_post"
	"courier-engine/internal/handlers/rest/navigation_delete"
	"courier-engine/internal/handlers/rest/navigation_post"
	"courier-engine/internal/handlers/rest/pickup_post"
	"courier-engine/internal/handlers/rest/sos_put"
	"courier-engine/internal/handlers/rest/token_post"
	"courier-engine/internal/handlers/rest/transitions_get"
	"courier-engine/internal/handlers/rest/verification_patch"
	"courier-engine/internal/pkg/broker"
	"courier-engine/internal/pkg/kafka"
	"courier-engine/internal/pkg/locationfeed"
	deliveryService "courier-engine/internal/service/delivery"
	"courier-engine/internal/service/verification"
	"courier-engine/pkg/background"
)

// Application компоненты, которыми управляет main. EventsRelay и Producer
// равны nil, если Redis и Kafka не настроены.
type Application struct {
	ServiceDelivery ServiceDelivery
	Engine          *deliveryService.Engine
	Gate            *verification.Gate
	Feed            *locationfeed.Feed
	Events          *broker.Memory
	EventsRelay     *broker.Redis
	Producer        *kafka.Producer
	Tasks           []background.Task
}

type ServiceDelivery interface {
	delivery_get.Service
	accept_post.Service
	arrive_post.Service
	verification_patch.Service
	token_post.Service
	pickup_post.Service
	complete_post.Service
	cancel_post.Service
	finalize_post.Service
	navigation_post.Service
	navigation_delete.Service
	issue_post.Service
	sos_put.Service
	transitions_get.Service
	discovery_put.Service
	discovery_offers_get.Service
	history_get.Service
}
