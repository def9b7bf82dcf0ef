package ledger

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

type CreateEventParams struct {
	EventID     uint64
	Price       uint64
	Title       string
	Description string
}

func (p CreateEventParams) validate() error {
	if len(p.Title) > entities.EventTitleMaxLength {
		return ErrTitleTooLong
	}
	if len(p.Description) > entities.EventDescriptionMaxLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// CreateEvent opens the escrow account of a new event; the caller becomes its
// organizer and funds the account reserve. Reusing an event id fails with
// ErrAccountExists.
func (p *Program) CreateEvent(ctx context.Context, caller entities.Address, params CreateEventParams) (entities.Address, error) {
	if err := params.validate(); err != nil {
		return entities.Address{}, err
	}

	addr, bump, err := FindEventAddress(p.id, caller, params.EventID)
	if err != nil {
		return entities.Address{}, err
	}

	err = p.store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		err := accounts.Create(
			ctx, tx, caller, addr,
			entities.AccountKindEvent,
			entities.EventSpace,
			p.reserve.MinimumBalance(entities.EventSpace),
			entities.Event{
				Price:       params.Price,
				Title:       params.Title,
				Description: params.Description,
				Organizer:   caller,
				EventID:     params.EventID,
				Bump:        bump,
			},
		)
		if err != nil {
			return err
		}

		return tx.Publish(ctx, entities.EventCreated{
			Header:    entities.NewEventHeader(),
			Event:     addr,
			Organizer: caller,
			EventID:   params.EventID,
		})
	})
	if err != nil {
		return entities.Address{}, fmt.Errorf("could not create event %d: %w", params.EventID, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"event":     addr.String(),
		"organizer": caller.String(),
		"event_id":  params.EventID,
		"price":     params.Price,
	}).Info("Event created")

	return addr, nil
}
