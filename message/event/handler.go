package event

import (
	"context"
	"time"

	"ticketescrow/entities"
)

type SummaryReadModel interface {
	OnEventCreated(ctx context.Context, event *entities.EventCreated) error
	OnTicketIssued(ctx context.Context, event, ticket entities.Address, issued entities.SummaryTicket, at time.Time) error
	OnCheckedIn(ctx context.Context, event *entities.CheckedIn) error
	OnWithdrawn(ctx context.Context, event *entities.Withdrawn) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification entities.StoredNotification) error
}

type Handler struct {
	programID entities.Address
	readModel SummaryReadModel
	dataLake  NotificationRepository
}

func NewHandler(programID entities.Address, readModel SummaryReadModel, dataLake NotificationRepository) Handler {
	if readModel == nil {
		panic("missing readModel")
	}
	if dataLake == nil {
		panic("missing dataLake")
	}

	return Handler{
		programID: programID,
		readModel: readModel,
		dataLake:  dataLake,
	}
}
