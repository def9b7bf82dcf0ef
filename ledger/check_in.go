package ledger

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

// CheckIn marks a ticket as used. Only the event organizer may do it, only for a
// ticket of that event, and only once.
func (p *Program) CheckIn(ctx context.Context, caller, event, ticket entities.Address) error {
	var at int64

	err := p.store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		_, eventRecord, err := p.loadEvent(ctx, tx, event)
		if err != nil {
			return err
		}

		// both accounts must load before any rule applies, so a bad ticket
		// address fails with its load error even for a non-organizer
		ticketAccount, ticketRecord, err := p.loadTicket(ctx, tx, ticket)
		if err != nil {
			return err
		}

		if eventRecord.Organizer != caller {
			return ErrUnauthorized
		}
		if ticketRecord.Event != event {
			return ErrWrongEvent
		}
		if ticketRecord.CheckedIn {
			return ErrAlreadyCheckedIn
		}

		ticketRecord.CheckedIn = true
		if err := accounts.Save(ctx, tx, ticketAccount, ticketRecord); err != nil {
			return err
		}

		at = p.clock.Now().Unix()

		return tx.Publish(ctx, entities.CheckedIn{
			Header: entities.NewEventHeader(),
			Ticket: ticket,
			At:     at,
		})
	})
	if err != nil {
		return fmt.Errorf("could not check in ticket %s: %w", ticket, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"event":  event.String(),
		"ticket": ticket.String(),
		"at":     at,
	}).Info("Ticket checked in")

	return nil
}
