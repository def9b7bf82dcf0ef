package event

import (
	"context"
	"fmt"

	"ticketescrow/entities"
	"ticketescrow/ledger"
)

const (
	TicketSourceGranted = "granted"
	TicketSourceJoined  = "joined"
)

func (h Handler) ProjectEventCreated(ctx context.Context, event *entities.EventCreated) error {
	return h.readModel.OnEventCreated(ctx, event)
}

func (h Handler) ProjectTicketCreated(ctx context.Context, event *entities.TicketCreated) error {
	return h.readModel.OnTicketIssued(
		ctx,
		event.Event,
		event.Ticket,
		entities.SummaryTicket{Owner: event.Owner, Source: TicketSourceGranted},
		event.Header.PublishedAt,
	)
}

// ProjectJoinedEvent derives the ticket address, as the notification only
// carries the event and the attendee.
func (h Handler) ProjectJoinedEvent(ctx context.Context, event *entities.JoinedEvent) error {
	ticket, _, err := ledger.FindTicketAddress(h.programID, event.Event, event.Attendee)
	if err != nil {
		return fmt.Errorf("could not derive ticket of %s: %w", event.Attendee, err)
	}

	return h.readModel.OnTicketIssued(
		ctx,
		event.Event,
		ticket,
		entities.SummaryTicket{Owner: event.Attendee, Source: TicketSourceJoined},
		event.Header.PublishedAt,
	)
}

func (h Handler) ProjectCheckedIn(ctx context.Context, event *entities.CheckedIn) error {
	return h.readModel.OnCheckedIn(ctx, event)
}

func (h Handler) ProjectWithdrawn(ctx context.Context, event *entities.Withdrawn) error {
	return h.readModel.OnWithdrawn(ctx, event)
}
