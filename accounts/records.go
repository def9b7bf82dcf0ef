package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"

	"ticketescrow/entities"
)

func Decode[T any](account entities.Account, kind entities.AccountKind) (T, error) {
	var record T
	if account.Kind != kind {
		return record, fmt.Errorf("account %s is %q, expected %q: %w", account.Address, account.Kind, kind, ErrAccountKindMismatch)
	}
	if err := json.Unmarshal(account.Data, &record); err != nil {
		return record, fmt.Errorf("could not decode %s account %s: %w", kind, account.Address, err)
	}
	return record, nil
}

func Load[T any](ctx context.Context, r Getter, addr entities.Address, kind entities.AccountKind) (entities.Account, T, error) {
	var record T

	account, err := r.Account(ctx, addr)
	if err != nil {
		return entities.Account{}, record, err
	}

	record, err = Decode[T](account, kind)
	if err != nil {
		return entities.Account{}, record, err
	}

	return account, record, nil
}

// Save writes record into account and persists it, keeping the balance as is.
func Save[T any](ctx context.Context, tx Tx, account entities.Account, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not encode %s account %s: %w", account.Kind, account.Address, err)
	}
	account.Data = data

	return tx.UpdateAccount(ctx, account)
}

// Create allocates a new account funded with reserve lamports taken from payer.
func Create[T any](
	ctx context.Context,
	tx Tx,
	payer entities.Address,
	addr entities.Address,
	kind entities.AccountKind,
	space int,
	reserve uint64,
	record T,
) error {
	_, err := tx.Account(ctx, addr)
	if err == nil {
		return fmt.Errorf("address %s: %w", addr, ErrAccountExists)
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return err
	}

	if err := Debit(ctx, tx, payer, reserve); err != nil {
		return fmt.Errorf("could not fund %s account: %w", kind, err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not encode %s account %s: %w", kind, addr, err)
	}

	return tx.CreateAccount(ctx, entities.Account{
		Address:  addr,
		Kind:     kind,
		Lamports: reserve,
		Space:    space,
		Data:     data,
	})
}

// Debit takes amount lamports from addr. A missing account holds nothing.
func Debit(ctx context.Context, tx Tx, addr entities.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}

	account, err := tx.Account(ctx, addr)
	if errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("%s has 0, needs %d: %w", addr, amount, ErrInsufficientFunds)
	}
	if err != nil {
		return err
	}

	if account.Lamports < amount {
		return fmt.Errorf("%s has %d, needs %d: %w", addr, account.Lamports, amount, ErrInsufficientFunds)
	}
	account.Lamports -= amount

	return tx.UpdateAccount(ctx, account)
}

// Credit adds amount lamports to addr, opening a wallet account if none exists.
func Credit(ctx context.Context, tx Tx, addr entities.Address, amount uint64) error {
	account, err := tx.Account(ctx, addr)
	if errors.Is(err, ErrAccountNotFound) {
		return tx.CreateAccount(ctx, entities.Account{
			Address:  addr,
			Kind:     entities.AccountKindWallet,
			Lamports: amount,
			Data:     []byte("{}"),
		})
	}
	if err != nil {
		return err
	}

	sum, carry := bits.Add64(account.Lamports, amount, 0)
	if carry != 0 {
		return fmt.Errorf("crediting %d to %s: %w", amount, addr, ErrBalanceOverflow)
	}
	account.Lamports = sum

	return tx.UpdateAccount(ctx, account)
}
