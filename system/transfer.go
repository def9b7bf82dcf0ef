// Package system is the native-currency transfer service.
package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

var ErrTransferFromNonWallet = errors.New("transfer source is not a wallet account")

type Service struct{}

func NewService() Service {
	return Service{}
}

// Transfer moves amount lamports from a wallet to any account. It either moves
// the full amount or fails without touching either balance.
func (s Service) Transfer(ctx context.Context, tx accounts.Tx, from, to entities.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}

	source, err := tx.Account(ctx, from)
	if errors.Is(err, accounts.ErrAccountNotFound) {
		return fmt.Errorf("transfer of %d from %s: %w", amount, from, accounts.ErrInsufficientFunds)
	}
	if err != nil {
		return err
	}
	if source.Kind != entities.AccountKindWallet {
		return fmt.Errorf("transfer from %s (%s): %w", from, source.Kind, ErrTransferFromNonWallet)
	}

	if err := accounts.Debit(ctx, tx, from, amount); err != nil {
		return fmt.Errorf("transfer of %d from %s: %w", amount, from, err)
	}
	if err := accounts.Credit(ctx, tx, to, amount); err != nil {
		return fmt.Errorf("transfer of %d to %s: %w", amount, to, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"from":   from.String(),
		"to":     to.String(),
		"amount": amount,
	}).Debug("Transferred lamports")

	return nil
}

// Airdrop credits lamports out of thin air. Only wired when the faucet is enabled.
func (s Service) Airdrop(ctx context.Context, tx accounts.Tx, to entities.Address, amount uint64) error {
	return accounts.Credit(ctx, tx, to, amount)
}

type Faucet struct {
	store   accounts.Store
	service Service
}

func NewFaucet(store accounts.Store, service Service) Faucet {
	if store == nil {
		panic("store is required")
	}

	return Faucet{store: store, service: service}
}

func (f Faucet) Airdrop(ctx context.Context, to entities.Address, amount uint64) error {
	return f.store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		return f.service.Airdrop(ctx, tx, to, amount)
	})
}
