package ledger

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

// Withdraw pays escrow out to the organizer and returns the amount sent.
//
// Only the balance above the reserve is available. An amount of 0, or one above
// what is available, is clamped down to everything available rather than
// rejected; ErrNoFunds is returned only when nothing is available.
func (p *Program) Withdraw(ctx context.Context, caller, event entities.Address, amount uint64) (uint64, error) {
	var sent uint64

	err := p.store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		eventAccount, eventRecord, err := p.loadEvent(ctx, tx, event)
		if err != nil {
			return err
		}

		if caller != eventRecord.Organizer {
			return ErrUnauthorized
		}

		available := p.available(eventAccount)
		if available == 0 {
			return ErrNoFunds
		}

		sent = amount
		if amount == 0 || amount > available {
			sent = available
		}

		// both accounts belong to this program, so the balances move directly
		eventAccount.Lamports -= sent
		if err := tx.UpdateAccount(ctx, eventAccount); err != nil {
			return err
		}
		if err := accounts.Credit(ctx, tx, caller, sent); err != nil {
			return err
		}

		return tx.Publish(ctx, entities.Withdrawn{
			Header: entities.NewEventHeader(),
			Event:  event,
			To:     caller,
			Amount: sent,
		})
	})
	if err != nil {
		return 0, fmt.Errorf("could not withdraw from %s: %w", event, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"event":     event.String(),
		"organizer": caller.String(),
		"requested": amount,
		"sent":      sent,
	}).Info("Escrow withdrawn")

	return sent, nil
}

func (p *Program) available(account entities.Account) uint64 {
	reserve := p.reserve.MinimumBalance(account.Space)
	if account.Lamports <= reserve {
		return 0
	}
	return account.Lamports - reserve
}
