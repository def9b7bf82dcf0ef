package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/entities"
)

type DataLake interface {
	GetAll(ctx context.Context) ([]entities.StoredNotification, error)
}

type ReadModel interface {
	Reset(ctx context.Context) error
}

type Projector interface {
	ProjectEventCreated(ctx context.Context, event *entities.EventCreated) error
	ProjectTicketCreated(ctx context.Context, event *entities.TicketCreated) error
	ProjectJoinedEvent(ctx context.Context, event *entities.JoinedEvent) error
	ProjectCheckedIn(ctx context.Context, event *entities.CheckedIn) error
	ProjectWithdrawn(ctx context.Context, event *entities.Withdrawn) error
}

// RebuildEventSummaries replays the data lake, oldest first, into an emptied read model.
func RebuildEventSummaries(ctx context.Context, dl DataLake, rm ReadModel, projector Projector) error {
	logger := log.FromContext(ctx)
	logger.Info("Rebuilding event summaries")

	notifications, err := dl.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("could not get notifications from data lake: %w", err)
	}

	if err := rm.Reset(ctx); err != nil {
		return err
	}

	logger.WithField("notifications_count", len(notifications)).Info("Has notifications to replay")

	for _, notification := range notifications {
		start := time.Now()

		logger := log.FromContext(ctx).WithFields(logrus.Fields{
			"notification_name": notification.Name,
			"notification_id":   notification.NotificationID,
		})

		if err := replay(ctx, notification, projector); err != nil {
			return fmt.Errorf("could not replay %s (%s): %w", notification.NotificationID, notification.Name, err)
		}

		logger.WithField("duration", time.Since(start)).Debug("Notification replayed")
	}

	return nil
}

func replay(ctx context.Context, notification entities.StoredNotification, projector Projector) error {
	switch notification.Name {
	case "EventCreated":
		return project(ctx, notification, projector.ProjectEventCreated)
	case "TicketCreated":
		return project(ctx, notification, projector.ProjectTicketCreated)
	case "JoinedEvent":
		return project(ctx, notification, projector.ProjectJoinedEvent)
	case "CheckedIn":
		return project(ctx, notification, projector.ProjectCheckedIn)
	case "Withdrawn":
		return project(ctx, notification, projector.ProjectWithdrawn)
	default:
		return fmt.Errorf("unknown notification %s", notification.Name)
	}
}

func project[T any](ctx context.Context, notification entities.StoredNotification, fn func(context.Context, *T) error) error {
	instance := new(T)

	if err := json.Unmarshal(notification.Payload, instance); err != nil {
		return fmt.Errorf("could not unmarshal notification %s: %w", notification.Name, err)
	}

	return fn(ctx, instance)
}
