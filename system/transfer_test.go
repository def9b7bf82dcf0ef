package system_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketescrow/accounts"
	"ticketescrow/db"
	"ticketescrow/entities"
	"ticketescrow/system"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	service := system.NewService()

	from := address(1)
	to := address(2)

	require.NoError(t, system.NewFaucet(store, service).Airdrop(ctx, from, 100))

	testCases := []struct {
		Name         string
		Amount       uint64
		ExpectedErr  error
		ExpectedFrom uint64
		ExpectedTo   uint64
	}{
		{
			Name:         "moves_amount",
			Amount:       30,
			ExpectedFrom: 70,
			ExpectedTo:   30,
		},
		{
			Name:         "more_than_balance",
			Amount:       71,
			ExpectedErr:  accounts.ErrInsufficientFunds,
			ExpectedFrom: 70,
			ExpectedTo:   30,
		},
		{
			Name:         "zero_is_noop",
			Amount:       0,
			ExpectedFrom: 70,
			ExpectedTo:   30,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
				return service.Transfer(ctx, tx, from, to, tc.Amount)
			})
			if tc.ExpectedErr != nil {
				assert.ErrorIs(t, err, tc.ExpectedErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tc.ExpectedFrom, balance(t, store, from))
			assert.Equal(t, tc.ExpectedTo, balance(t, store, to))
		})
	}
}

func TestTransfer_only_from_wallets(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	event := address(3)
	store.Put(entities.Account{Address: event, Kind: entities.AccountKindEvent, Lamports: 100, Data: []byte("{}")})

	err := store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		return system.NewService().Transfer(ctx, tx, event, address(4), 10)
	})
	assert.ErrorIs(t, err, system.ErrTransferFromNonWallet)

	err = store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		return system.NewService().Transfer(ctx, tx, address(5), address(4), 10)
	})
	assert.ErrorIs(t, err, accounts.ErrInsufficientFunds)
}

func balance(t *testing.T, store *db.MemoryStore, addr entities.Address) uint64 {
	t.Helper()

	account, err := store.Account(context.Background(), addr)
	require.NoError(t, err)

	return account.Lamports
}

func address(b byte) entities.Address {
	var a entities.Address
	a[0] = b
	return a
}
