// Package ledger implements the event ticketing program: events holding escrow,
// tickets bound to events, single-use check-in and organizer withdrawals.
//
// Every operation takes the caller identity explicitly and runs as one
// accounts.Store transaction, so a failure at any step leaves no trace.
package ledger

import (
	"context"

	"ticketescrow/accounts"
	"ticketescrow/addressing"
	"ticketescrow/clock"
	"ticketescrow/entities"
)

// TransferService moves native currency between accounts.
type TransferService interface {
	Transfer(ctx context.Context, tx accounts.Tx, from, to entities.Address, amount uint64) error
}

// MintService issues tokens. MintTo is authorized by a derived signer, never by a user key.
type MintService interface {
	CreateMint(ctx context.Context, tx accounts.Tx, payer, mint, authority entities.Address) error
	CreateHolding(ctx context.Context, tx accounts.Tx, payer, owner, mint entities.Address) (entities.Address, error)
	MintTo(ctx context.Context, tx accounts.Tx, mint, holding entities.Address, signer addressing.Signer, amount uint64) error
}

type Program struct {
	id        entities.Address
	store     accounts.Store
	transfers TransferService
	minter    MintService
	reserve   accounts.ReserveRule
	clock     clock.Clock
}

func NewProgram(
	id entities.Address,
	store accounts.Store,
	transfers TransferService,
	minter MintService,
	reserve accounts.ReserveRule,
	clk clock.Clock,
) *Program {
	if store == nil {
		panic("store is required")
	}
	if transfers == nil {
		panic("transfer service is required")
	}
	if minter == nil {
		panic("mint service is required")
	}
	if reserve == nil {
		panic("reserve rule is required")
	}
	if clk == nil {
		panic("clock is required")
	}

	return &Program{
		id:        id,
		store:     store,
		transfers: transfers,
		minter:    minter,
		reserve:   reserve,
		clock:     clk,
	}
}

func (p *Program) ID() entities.Address {
	return p.id
}
