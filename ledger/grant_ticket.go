package ledger

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

// GrantTicket issues an unminted ticket of event to owner. The caller only pays
// for the account: there is no price check and no restriction on who may call.
func (p *Program) GrantTicket(ctx context.Context, caller, event, owner entities.Address) (entities.Address, error) {
	var ticketAddr entities.Address

	err := p.store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		if _, _, err := p.loadEvent(ctx, tx, event); err != nil {
			return err
		}

		var err error
		ticketAddr, err = p.createTicket(ctx, tx, caller, event, owner, entities.ZeroAddress)
		if err != nil {
			return err
		}

		return tx.Publish(ctx, entities.TicketCreated{
			Header: entities.NewEventHeader(),
			Ticket: ticketAddr,
			Event:  event,
			Owner:  owner,
		})
	})
	if err != nil {
		return entities.Address{}, fmt.Errorf("could not grant ticket of %s to %s: %w", event, owner, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"event":  event.String(),
		"ticket": ticketAddr.String(),
		"owner":  owner.String(),
		"caller": caller.String(),
	}).Info("Ticket granted")

	return ticketAddr, nil
}
