package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketescrow/accounts"
	"ticketescrow/db"
	"ticketescrow/entities"
)

func TestMemoryStore_update_is_all_or_nothing(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	addr := testAddress(1)
	failure := errors.New("boom")

	err := store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		err := tx.CreateAccount(ctx, entities.Account{
			Address:  addr,
			Kind:     entities.AccountKindWallet,
			Lamports: 10,
			Data:     []byte("{}"),
		})
		require.NoError(t, err)

		require.NoError(t, tx.Publish(ctx, entities.Withdrawn{Amount: 10}))

		// visible inside the transaction
		account, err := tx.Account(ctx, addr)
		require.NoError(t, err)
		assert.EqualValues(t, 10, account.Lamports)

		return failure
	})
	require.ErrorIs(t, err, failure)

	_, err = store.Account(ctx, addr)
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
	assert.Empty(t, store.Notifications())
}

func TestMemoryStore_create_existing_account(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	account := entities.Account{
		Address: testAddress(2),
		Kind:    entities.AccountKindWallet,
		Data:    []byte("{}"),
	}
	store.Put(account)

	err := store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		return tx.CreateAccount(ctx, account)
	})
	assert.ErrorIs(t, err, accounts.ErrAccountExists)
}

func TestMemoryStore_update_keeps_kind_and_space(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	addr := testAddress(3)
	store.Put(entities.Account{
		Address:  addr,
		Kind:     entities.AccountKindTicket,
		Lamports: 5,
		Space:    entities.TicketSpace,
		Data:     []byte(`{"checked_in":false}`),
	})

	err := store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		return tx.UpdateAccount(ctx, entities.Account{
			Address:  addr,
			Kind:     entities.AccountKindWallet,
			Lamports: 7,
			Data:     []byte(`{"checked_in":true}`),
		})
	})
	require.NoError(t, err)

	account, err := store.Account(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, entities.AccountKindTicket, account.Kind)
	assert.Equal(t, entities.TicketSpace, account.Space)
	assert.EqualValues(t, 7, account.Lamports)
	assert.JSONEq(t, `{"checked_in":true}`, string(account.Data))
}

func TestMemoryStore_accounts_by_kind_with_filters(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	owner := testAddress(10)
	other := testAddress(11)

	store.Put(entities.Account{Address: testAddress(20), Kind: entities.AccountKindTicket, Data: []byte(`{"owner":"` + owner.String() + `","bump":254}`)})
	store.Put(entities.Account{Address: testAddress(21), Kind: entities.AccountKindTicket, Data: []byte(`{"owner":"` + other.String() + `","bump":255}`)})
	store.Put(entities.Account{Address: testAddress(22), Kind: entities.AccountKindEvent, Data: []byte(`{"organizer":"` + owner.String() + `"}`)})

	tickets, err := store.AccountsByKind(ctx, entities.AccountKindTicket)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	owned, err := store.AccountsByKind(ctx, entities.AccountKindTicket, accounts.DataFilter{Field: "owner", Value: owner.String()})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, testAddress(20), owned[0].Address)

	byBump, err := store.AccountsByKind(ctx, entities.AccountKindTicket, accounts.DataFilter{Field: "bump", Value: "255"})
	require.NoError(t, err)
	require.Len(t, byBump, 1)
	assert.Equal(t, testAddress(21), byBump[0].Address)
}

func testAddress(b byte) entities.Address {
	var a entities.Address
	a[0] = b
	a[31] = b
	return a
}
