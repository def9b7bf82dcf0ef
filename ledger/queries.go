package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

type EventView struct {
	Address   entities.Address `json:"address"`
	Lamports  uint64           `json:"lamports"`
	Available uint64           `json:"available"`

	entities.Event
}

type TicketView struct {
	Address entities.Address `json:"address"`

	entities.Ticket
}

func (p *Program) GetEvent(ctx context.Context, addr entities.Address) (EventView, error) {
	account, event, err := p.loadEvent(ctx, p.store, addr)
	if err != nil {
		return EventView{}, err
	}

	return p.eventView(account, event), nil
}

func (p *Program) ListEvents(ctx context.Context, organizer *entities.Address) ([]EventView, error) {
	var filters []accounts.DataFilter
	if organizer != nil {
		filters = append(filters, accounts.DataFilter{Field: "organizer", Value: organizer.String()})
	}

	found, err := p.store.AccountsByKind(ctx, entities.AccountKindEvent, filters...)
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}

	views := make([]EventView, 0, len(found))
	for _, account := range found {
		event, err := accounts.Decode[entities.Event](account, entities.AccountKindEvent)
		if err != nil {
			return nil, err
		}
		views = append(views, p.eventView(account, event))
	}

	return views, nil
}

func (p *Program) GetTicket(ctx context.Context, addr entities.Address) (TicketView, error) {
	_, ticket, err := p.loadTicket(ctx, p.store, addr)
	if err != nil {
		return TicketView{}, err
	}

	return TicketView{Address: addr, Ticket: ticket}, nil
}

func (p *Program) TicketsByOwner(ctx context.Context, owner entities.Address) ([]TicketView, error) {
	found, err := p.store.AccountsByKind(
		ctx,
		entities.AccountKindTicket,
		accounts.DataFilter{Field: "owner", Value: owner.String()},
	)
	if err != nil {
		return nil, fmt.Errorf("could not list tickets of %s: %w", owner, err)
	}

	views := make([]TicketView, 0, len(found))
	for _, account := range found {
		ticket, err := accounts.Decode[entities.Ticket](account, entities.AccountKindTicket)
		if err != nil {
			return nil, err
		}
		views = append(views, TicketView{Address: account.Address, Ticket: ticket})
	}

	return lo.Filter(views, func(v TicketView, _ int) bool {
		return v.Owner == owner
	}), nil
}

// Balance returns the lamports held at addr; an unknown address holds nothing.
func (p *Program) Balance(ctx context.Context, addr entities.Address) (uint64, error) {
	account, err := p.store.Account(ctx, addr)
	if errors.Is(err, accounts.ErrAccountNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return account.Lamports, nil
}

func (p *Program) eventView(account entities.Account, event entities.Event) EventView {
	return EventView{
		Address:   account.Address,
		Lamports:  account.Lamports,
		Available: p.available(account),
		Event:     event,
	}
}
