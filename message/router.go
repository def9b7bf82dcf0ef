package message

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	"ticketescrow/entities"
	"ticketescrow/message/event"
	"ticketescrow/message/outbox"
)

func NewWatermillRouter(
	pgSubscriber message.Subscriber,
	dataLakeSubscriber message.Subscriber,
	redisPublisher message.Publisher,
	eventProcessorConfig cqrs.EventProcessorConfig,
	eventHandler event.Handler,
	registry prometheus.Registerer,
	watermillLogger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	useMiddlewares(router, watermillLogger)

	metrics.NewPrometheusMetricsBuilder(registry, "ticket_escrow", "").AddPrometheusRouterMetrics(router)

	if _, err := outbox.NewForwarder(pgSubscriber, redisPublisher, watermillLogger, router); err != nil {
		return nil, fmt.Errorf("could not create forwarder: %w", err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		return nil, err
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"SummaryOnEventCreated",
			eventHandler.ProjectEventCreated,
		),
		cqrs.NewEventHandler(
			"SummaryOnTicketCreated",
			eventHandler.ProjectTicketCreated,
		),
		cqrs.NewEventHandler(
			"SummaryOnJoinedEvent",
			eventHandler.ProjectJoinedEvent,
		),
		cqrs.NewEventHandler(
			"SummaryOnCheckedIn",
			eventHandler.ProjectCheckedIn,
		),
		cqrs.NewEventHandler(
			"SummaryOnWithdrawn",
			eventHandler.ProjectWithdrawn,
		),
	)
	if err != nil {
		return nil, err
	}

	for _, name := range entities.NotificationNames {
		router.AddNoPublisherHandler(
			"StoreInDataLake"+name,
			event.Topic(name),
			dataLakeSubscriber,
			eventHandler.StoreInDataLake,
		)
	}

	return router, nil
}
