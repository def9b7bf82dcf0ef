package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/accounts"
	"ticketescrow/addressing"
	"ticketescrow/entities"
)

type JoinEventParams struct {
	Event         entities.Address
	Mint          entities.Address
	MintAuthority entities.Address
	TokenAccount  entities.Address
}

// JoinEvent sells a ticket to the caller: it pays the event price into escrow,
// mints one token of Mint into TokenAccount and issues a ticket bound to that mint.
// Mint must have no supply yet and TokenAccount must belong to the caller, so
// every ticket token is one of one and held by whoever paid for it.
//
// Payment, minting and issuance share one transaction. If minting fails after
// the payment went through, the payment is rolled back with everything else.
func (p *Program) JoinEvent(ctx context.Context, caller entities.Address, params JoinEventParams) (entities.Address, error) {
	authority, authorityBump, err := FindMintAuthorityAddress(p.id, params.Mint)
	if err != nil {
		return entities.Address{}, err
	}
	if authority != params.MintAuthority {
		return entities.Address{}, fmt.Errorf("got %s, expected %s: %w", params.MintAuthority, authority, ErrInvalidMintAuthority)
	}

	ticketAddr, _, err := FindTicketAddress(p.id, params.Event, caller)
	if err != nil {
		return entities.Address{}, err
	}

	var price uint64

	err = p.store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		_, event, err := p.loadEvent(ctx, tx, params.Event)
		if err != nil {
			return err
		}
		price = event.Price

		_, err = tx.Account(ctx, ticketAddr)
		if err == nil {
			return fmt.Errorf("ticket %s: %w", ticketAddr, ErrAccountExists)
		}
		if !errors.Is(err, accounts.ErrAccountNotFound) {
			return err
		}

		if err := p.checkTicketToken(ctx, tx, caller, params.Mint, params.TokenAccount); err != nil {
			return err
		}

		if event.Price > 0 {
			if err := p.transfers.Transfer(ctx, tx, caller, params.Event, event.Price); err != nil {
				return fmt.Errorf("could not pay for ticket: %w", err)
			}
		}

		signer := addressing.Signer{
			ProgramID: p.id,
			Seeds:     mintAuthoritySeeds(params.Mint),
			Bump:      authorityBump,
		}
		if err := p.minter.MintTo(ctx, tx, params.Mint, params.TokenAccount, signer, 1); err != nil {
			return fmt.Errorf("could not mint ticket token: %w", err)
		}

		if _, err := p.createTicket(ctx, tx, caller, params.Event, caller, params.Mint); err != nil {
			return err
		}

		return tx.Publish(ctx, entities.JoinedEvent{
			Header:   entities.NewEventHeader(),
			Event:    params.Event,
			Attendee: caller,
		})
	})
	if err != nil {
		return entities.Address{}, fmt.Errorf("could not join event %s: %w", params.Event, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"event":    params.Event.String(),
		"ticket":   ticketAddr.String(),
		"attendee": caller.String(),
		"mint":     params.Mint.String(),
		"paid":     price,
	}).Info("Joined event")

	return ticketAddr, nil
}

func (p *Program) checkTicketToken(ctx context.Context, tx accounts.Getter, caller, mint, holding entities.Address) error {
	_, mintRecord, err := accounts.Load[entities.Mint](ctx, tx, mint, entities.AccountKindMint)
	if err != nil {
		return fmt.Errorf("mint %s: %w", mint, err)
	}
	if mintRecord.Supply > 0 {
		return fmt.Errorf("mint %s has supply %d: %w", mint, mintRecord.Supply, ErrMintAlreadyUsed)
	}

	_, holdingRecord, err := accounts.Load[entities.TokenHolding](ctx, tx, holding, entities.AccountKindTokenHolding)
	if err != nil {
		return fmt.Errorf("token account %s: %w", holding, err)
	}
	if holdingRecord.Owner != caller {
		return fmt.Errorf("token account %s is owned by %s: %w", holding, holdingRecord.Owner, ErrHoldingOwnerMismatch)
	}

	return nil
}
