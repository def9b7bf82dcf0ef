package ledger

import (
	"context"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

// loadEvent loads an event account and checks it sits at its derived address.
func (p *Program) loadEvent(ctx context.Context, r accounts.Getter, addr entities.Address) (entities.Account, entities.Event, error) {
	account, event, err := accounts.Load[entities.Event](ctx, r, addr, entities.AccountKindEvent)
	if err != nil {
		return entities.Account{}, entities.Event{}, err
	}

	if err := verifyAddress(addr, eventSeeds(event.Organizer, event.EventID), event.Bump, p.id); err != nil {
		return entities.Account{}, entities.Event{}, err
	}

	return account, event, nil
}

// loadTicket loads a ticket account and checks it sits at the address derived
// from its own event and owner.
func (p *Program) loadTicket(ctx context.Context, r accounts.Getter, addr entities.Address) (entities.Account, entities.Ticket, error) {
	account, ticket, err := accounts.Load[entities.Ticket](ctx, r, addr, entities.AccountKindTicket)
	if err != nil {
		return entities.Account{}, entities.Ticket{}, err
	}

	if err := verifyAddress(addr, ticketSeeds(ticket.Event, ticket.Owner), ticket.Bump, p.id); err != nil {
		return entities.Account{}, entities.Ticket{}, err
	}

	return account, ticket, nil
}

func (p *Program) createTicket(
	ctx context.Context,
	tx accounts.Tx,
	payer entities.Address,
	event entities.Address,
	owner entities.Address,
	mint entities.Address,
) (entities.Address, error) {
	addr, bump, err := FindTicketAddress(p.id, event, owner)
	if err != nil {
		return entities.Address{}, err
	}

	err = accounts.Create(
		ctx, tx, payer, addr,
		entities.AccountKindTicket,
		entities.TicketSpace,
		p.reserve.MinimumBalance(entities.TicketSpace),
		entities.Ticket{
			Event:     event,
			Owner:     owner,
			Mint:      mint,
			CheckedIn: false,
			Bump:      bump,
		},
	)
	if err != nil {
		return entities.Address{}, err
	}

	return addr, nil
}
