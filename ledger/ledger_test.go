package ledger_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketescrow/accounts"
	"ticketescrow/clock"
	"ticketescrow/db"
	"ticketescrow/entities"
	"ticketescrow/ledger"
	"ticketescrow/system"
	"ticketescrow/token"
)

var (
	programID = entities.MustParseAddress("HK43FpG11qhqwHZT8ZuKqn8FPFpbYJj59QL1qvFpm1tx")
	now       = time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
)

type countingTransfers struct {
	system.Service
	calls int
}

func (c *countingTransfers) Transfer(ctx context.Context, tx accounts.Tx, from, to entities.Address, amount uint64) error {
	c.calls++
	return c.Service.Transfer(ctx, tx, from, to, amount)
}

type fixture struct {
	store     *db.MemoryStore
	transfers *countingTransfers
	program   *ledger.Program
	reserve   accounts.ReserveRule
}

func newFixture(t *testing.T, reserve accounts.ReserveRule) *fixture {
	t.Helper()

	store := db.NewMemoryStore()
	transfers := &countingTransfers{Service: system.NewService()}

	return &fixture{
		store:     store,
		transfers: transfers,
		reserve:   reserve,
		program: ledger.NewProgram(
			programID,
			store,
			transfers,
			token.NewService(reserve),
			reserve,
			clock.NewFixed(now),
		),
	}
}

func newWallet(t *testing.T) entities.Address {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	addr, err := entities.AddressFromBytes(pub)
	require.NoError(t, err)

	return addr
}

func (f *fixture) fund(t *testing.T, addr entities.Address, amount uint64) {
	t.Helper()

	err := f.store.Update(context.Background(), func(ctx context.Context, tx accounts.Tx) error {
		return accounts.Credit(ctx, tx, addr, amount)
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, addr entities.Address) uint64 {
	t.Helper()

	balance, err := f.program.Balance(context.Background(), addr)
	require.NoError(t, err)

	return balance
}

func (f *fixture) createEvent(t *testing.T, organizer entities.Address, eventID uint64, price uint64) entities.Address {
	t.Helper()

	addr, err := f.program.CreateEvent(context.Background(), organizer, ledger.CreateEventParams{
		EventID:     eventID,
		Price:       price,
		Title:       "Summer Festival",
		Description: "Three days of music",
	})
	require.NoError(t, err)

	return addr
}

func (f *fixture) prepareMint(t *testing.T, owner entities.Address) ledger.MintSetup {
	t.Helper()

	setup, err := f.program.PrepareMint(context.Background(), owner, newWallet(t))
	require.NoError(t, err)

	return setup
}

func (f *fixture) join(t *testing.T, attendee, event entities.Address) (entities.Address, ledger.MintSetup, error) {
	t.Helper()

	setup := f.prepareMint(t, attendee)

	ticket, err := f.program.JoinEvent(context.Background(), attendee, ledger.JoinEventParams{
		Event:         event,
		Mint:          setup.Mint,
		MintAuthority: setup.MintAuthority,
		TokenAccount:  setup.TokenAccount,
	})

	return ticket, setup, err
}

func (f *fixture) ticket(t *testing.T, addr entities.Address) ledger.TicketView {
	t.Helper()

	ticket, err := f.program.GetTicket(context.Background(), addr)
	require.NoError(t, err)

	return ticket
}

func (f *fixture) holding(t *testing.T, addr entities.Address) entities.TokenHolding {
	t.Helper()

	_, holding, err := accounts.Load[entities.TokenHolding](context.Background(), f.store, addr, entities.AccountKindTokenHolding)
	require.NoError(t, err)

	return holding
}

func (f *fixture) mint(t *testing.T, addr entities.Address) entities.Mint {
	t.Helper()

	_, mint, err := accounts.Load[entities.Mint](context.Background(), f.store, addr, entities.AccountKindMint)
	require.NoError(t, err)

	return mint
}

func lastNotification[T entities.IEvent](t *testing.T, store *db.MemoryStore) T {
	t.Helper()

	notifications := store.Notifications()
	for i := len(notifications) - 1; i >= 0; i-- {
		if n, ok := notifications[i].(T); ok {
			return n
		}
	}

	var zero T
	t.Fatalf("no %T notification published", zero)
	return zero
}

func TestCreateEvent(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()
	organizer := newWallet(t)

	params := ledger.CreateEventParams{
		EventID:     42,
		Price:       1_500,
		Title:       "Summer Festival",
		Description: "Three days of music",
	}

	addr, err := f.program.CreateEvent(ctx, organizer, params)
	require.NoError(t, err)

	expected, _, err := ledger.FindEventAddress(programID, organizer, 42)
	require.NoError(t, err)
	assert.Equal(t, expected, addr)

	event, err := f.program.GetEvent(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, organizer, event.Organizer)
	assert.EqualValues(t, 42, event.EventID)
	assert.EqualValues(t, 1_500, event.Price)
	assert.Equal(t, params.Title, event.Title)
	assert.Equal(t, params.Description, event.Description)

	created := lastNotification[entities.EventCreated](t, f.store)
	assert.Equal(t, addr, created.Event)
	assert.Equal(t, organizer, created.Organizer)
	assert.EqualValues(t, 42, created.EventID)

	_, err = f.program.CreateEvent(ctx, organizer, params)
	assert.ErrorIs(t, err, ledger.ErrAccountExists)
	assert.Len(t, f.store.Notifications(), 1)

	// the same id is free for another organizer
	_, err = f.program.CreateEvent(ctx, newWallet(t), params)
	assert.NoError(t, err)
}

func TestCreateEvent_validation(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()
	organizer := newWallet(t)

	longest := make([]byte, entities.EventTitleMaxLength)
	for i := range longest {
		longest[i] = 'a'
	}

	testCases := []struct {
		Name        string
		Title       string
		Description string
		ExpectedErr error
	}{
		{
			Name:  "title_at_limit",
			Title: string(longest),
		},
		{
			Name:        "title_too_long",
			Title:       string(longest) + "a",
			ExpectedErr: ledger.ErrTitleTooLong,
		},
		{
			Name:        "description_too_long",
			Title:       "ok",
			Description: string(make([]byte, entities.EventDescriptionMaxLength+1)),
			ExpectedErr: ledger.ErrDescriptionTooLong,
		},
	}

	for i, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := f.program.CreateEvent(ctx, organizer, ledger.CreateEventParams{
				EventID:     uint64(i),
				Title:       tc.Title,
				Description: tc.Description,
			})
			if tc.ExpectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.ExpectedErr)
			}
		})
	}
}

func TestCreateEvent_funds_reserve_from_organizer(t *testing.T) {
	reserve := accounts.DefaultRentRule()
	f := newFixture(t, reserve)
	ctx := context.Background()
	organizer := newWallet(t)

	eventReserve := reserve.MinimumBalance(entities.EventSpace)

	_, err := f.program.CreateEvent(ctx, organizer, ledger.CreateEventParams{EventID: 1})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	f.fund(t, organizer, eventReserve+100)

	addr, err := f.program.CreateEvent(ctx, organizer, ledger.CreateEventParams{EventID: 1})
	require.NoError(t, err)

	assert.EqualValues(t, 100, f.balance(t, organizer))
	assert.Equal(t, eventReserve, f.balance(t, addr))

	event, err := f.program.GetEvent(ctx, addr)
	require.NoError(t, err)
	assert.Zero(t, event.Available)
}

func TestGrantTicket(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	organizer := newWallet(t)
	stranger := newWallet(t)
	owner := newWallet(t)

	event := f.createEvent(t, organizer, 1, 1_000)

	// anybody may grant, without paying the price
	ticketAddr, err := f.program.GrantTicket(ctx, stranger, event, owner)
	require.NoError(t, err)

	expected, _, err := ledger.FindTicketAddress(programID, event, owner)
	require.NoError(t, err)
	assert.Equal(t, expected, ticketAddr)

	ticket := f.ticket(t, ticketAddr)
	assert.Equal(t, event, ticket.Event)
	assert.Equal(t, owner, ticket.Owner)
	assert.True(t, ticket.Mint.IsZero())
	assert.False(t, ticket.IsMinted())
	assert.False(t, ticket.CheckedIn)

	created := lastNotification[entities.TicketCreated](t, f.store)
	assert.Equal(t, ticketAddr, created.Ticket)
	assert.Equal(t, event, created.Event)
	assert.Equal(t, owner, created.Owner)

	assert.Zero(t, f.balance(t, event))

	_, err = f.program.GrantTicket(ctx, organizer, event, owner)
	assert.ErrorIs(t, err, ledger.ErrAccountExists)
}

func TestGrantTicket_unknown_event(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})

	_, err := f.program.GrantTicket(context.Background(), newWallet(t), newWallet(t), newWallet(t))
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	assert.Empty(t, f.store.Notifications())
}

func TestCheckIn(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	organizer := newWallet(t)
	event := f.createEvent(t, organizer, 1, 0)
	ticketAddr, err := f.program.GrantTicket(ctx, organizer, event, newWallet(t))
	require.NoError(t, err)

	require.False(t, f.ticket(t, ticketAddr).CheckedIn)

	err = f.program.CheckIn(ctx, organizer, event, ticketAddr)
	require.NoError(t, err)
	assert.True(t, f.ticket(t, ticketAddr).CheckedIn)

	checkedIn := lastNotification[entities.CheckedIn](t, f.store)
	assert.Equal(t, ticketAddr, checkedIn.Ticket)
	assert.Equal(t, now.Unix(), checkedIn.At)

	err = f.program.CheckIn(ctx, organizer, event, ticketAddr)
	assert.ErrorIs(t, err, ledger.ErrAlreadyCheckedIn)
	assert.True(t, f.ticket(t, ticketAddr).CheckedIn)
}

func TestCheckIn_unauthorized(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	organizer := newWallet(t)
	owner := newWallet(t)
	event := f.createEvent(t, organizer, 1, 0)
	ticketAddr, err := f.program.GrantTicket(ctx, organizer, event, owner)
	require.NoError(t, err)

	for _, caller := range []entities.Address{owner, newWallet(t)} {
		err = f.program.CheckIn(ctx, caller, event, ticketAddr)
		assert.ErrorIs(t, err, ledger.ErrUnauthorized)
	}

	assert.False(t, f.ticket(t, ticketAddr).CheckedIn)
}

func TestCheckIn_missing_ticket_fails_before_authorization(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})

	event := f.createEvent(t, newWallet(t), 1, 0)

	err := f.program.CheckIn(context.Background(), newWallet(t), event, newWallet(t))
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	assert.NotErrorIs(t, err, ledger.ErrUnauthorized)
}

func TestCheckIn_wrong_event(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	organizer := newWallet(t)
	eventA := f.createEvent(t, organizer, 1, 0)
	eventB := f.createEvent(t, organizer, 2, 0)

	ticketOfB, err := f.program.GrantTicket(ctx, organizer, eventB, newWallet(t))
	require.NoError(t, err)

	err = f.program.CheckIn(ctx, organizer, eventA, ticketOfB)
	assert.ErrorIs(t, err, ledger.ErrWrongEvent)
	assert.False(t, f.ticket(t, ticketOfB).CheckedIn)

	// the organizer check comes first
	err = f.program.CheckIn(ctx, newWallet(t), eventA, ticketOfB)
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)
}

func TestJoinEvent_paid(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})

	organizer := newWallet(t)
	attendee := newWallet(t)
	event := f.createEvent(t, organizer, 1, 250)
	f.fund(t, attendee, 1_000)

	ticketAddr, setup, err := f.join(t, attendee, event)
	require.NoError(t, err)

	assert.EqualValues(t, 750, f.balance(t, attendee))
	assert.EqualValues(t, 250, f.balance(t, event))
	assert.Equal(t, 1, f.transfers.calls)

	assert.EqualValues(t, 1, f.holding(t, setup.TokenAccount).Amount)
	assert.EqualValues(t, 1, f.mint(t, setup.Mint).Supply)

	ticket := f.ticket(t, ticketAddr)
	assert.Equal(t, event, ticket.Event)
	assert.Equal(t, attendee, ticket.Owner)
	assert.Equal(t, setup.Mint, ticket.Mint)
	assert.False(t, ticket.CheckedIn)

	joined := lastNotification[entities.JoinedEvent](t, f.store)
	assert.Equal(t, event, joined.Event)
	assert.Equal(t, attendee, joined.Attendee)
}

func TestJoinEvent_free(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})

	attendee := newWallet(t)
	event := f.createEvent(t, newWallet(t), 1, 0)

	ticketAddr, setup, err := f.join(t, attendee, event)
	require.NoError(t, err)

	assert.Zero(t, f.transfers.calls)
	assert.EqualValues(t, 1, f.holding(t, setup.TokenAccount).Amount)
	assert.Equal(t, setup.Mint, f.ticket(t, ticketAddr).Mint)
}

func TestJoinEvent_insufficient_funds(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})

	attendee := newWallet(t)
	event := f.createEvent(t, newWallet(t), 1, 500)
	f.fund(t, attendee, 499)

	ticketAddr, _, _ := ledger.FindTicketAddress(programID, event, attendee)

	_, setup, err := f.join(t, attendee, event)
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	assert.EqualValues(t, 499, f.balance(t, attendee))
	assert.Zero(t, f.balance(t, event))
	assert.Zero(t, f.mint(t, setup.Mint).Supply)

	_, err = f.program.GetTicket(context.Background(), ticketAddr)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestJoinEvent_mint_failure_rolls_back_payment(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	attendee := newWallet(t)
	event := f.createEvent(t, newWallet(t), 1, 300)
	f.fund(t, attendee, 1_000)

	setup := f.prepareMint(t, attendee)
	otherSetup := f.prepareMint(t, attendee)

	// token account of a different mint makes minting fail after the payment
	_, err := f.program.JoinEvent(ctx, attendee, ledger.JoinEventParams{
		Event:         event,
		Mint:          setup.Mint,
		MintAuthority: setup.MintAuthority,
		TokenAccount:  otherSetup.TokenAccount,
	})
	require.ErrorIs(t, err, token.ErrMintMismatch)

	assert.EqualValues(t, 1_000, f.balance(t, attendee))
	assert.Zero(t, f.balance(t, event))
	assert.Zero(t, f.mint(t, setup.Mint).Supply)

	tickets, err := f.program.TicketsByOwner(ctx, attendee)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestJoinEvent_invalid_mint_authority(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})

	attendee := newWallet(t)
	event := f.createEvent(t, newWallet(t), 1, 0)
	setup := f.prepareMint(t, attendee)

	_, err := f.program.JoinEvent(context.Background(), attendee, ledger.JoinEventParams{
		Event:         event,
		Mint:          setup.Mint,
		MintAuthority: attendee,
		TokenAccount:  setup.TokenAccount,
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidMintAuthority)
}

func TestJoinEvent_mint_with_foreign_authority(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	attendee := newWallet(t)
	event := f.createEvent(t, newWallet(t), 1, 0)

	mint := newWallet(t)
	authority, _, err := ledger.FindMintAuthorityAddress(programID, mint)
	require.NoError(t, err)

	// the mint is controlled by the attendee, not by the derived authority
	var holding entities.Address
	err = f.store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		minter := token.NewService(accounts.ZeroReserve{})
		if err := minter.CreateMint(ctx, tx, attendee, mint, attendee); err != nil {
			return err
		}
		holding, err = minter.CreateHolding(ctx, tx, attendee, attendee, mint)
		return err
	})
	require.NoError(t, err)

	_, err = f.program.JoinEvent(ctx, attendee, ledger.JoinEventParams{
		Event:         event,
		Mint:          mint,
		MintAuthority: authority,
		TokenAccount:  holding,
	})
	assert.ErrorIs(t, err, token.ErrAuthorityMismatch)
}

func TestJoinEvent_twice(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})

	attendee := newWallet(t)
	event := f.createEvent(t, newWallet(t), 1, 100)
	f.fund(t, attendee, 1_000)

	_, _, err := f.join(t, attendee, event)
	require.NoError(t, err)

	_, _, err = f.join(t, attendee, event)
	assert.ErrorIs(t, err, ledger.ErrAccountExists)

	assert.EqualValues(t, 900, f.balance(t, attendee))
	assert.EqualValues(t, 100, f.balance(t, event))
}

func TestJoinEvent_token_account_of_another_owner(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	alice := newWallet(t)
	bob := newWallet(t)
	event := f.createEvent(t, newWallet(t), 1, 100)
	f.fund(t, bob, 1_000)

	aliceSetup := f.prepareMint(t, alice)

	_, err := f.program.JoinEvent(ctx, bob, ledger.JoinEventParams{
		Event:         event,
		Mint:          aliceSetup.Mint,
		MintAuthority: aliceSetup.MintAuthority,
		TokenAccount:  aliceSetup.TokenAccount,
	})
	require.ErrorIs(t, err, ledger.ErrHoldingOwnerMismatch)

	assert.EqualValues(t, 1_000, f.balance(t, bob))
	assert.Zero(t, f.balance(t, event))
	assert.Zero(t, f.transfers.calls)
	assert.Zero(t, f.holding(t, aliceSetup.TokenAccount).Amount)
	assert.Zero(t, f.mint(t, aliceSetup.Mint).Supply)

	tickets, err := f.program.TicketsByOwner(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestJoinEvent_mint_backs_one_ticket(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	attendee := newWallet(t)
	organizer := newWallet(t)
	firstEvent := f.createEvent(t, organizer, 1, 100)
	secondEvent := f.createEvent(t, organizer, 2, 100)
	f.fund(t, attendee, 1_000)

	setup := f.prepareMint(t, attendee)
	params := ledger.JoinEventParams{
		Event:         firstEvent,
		Mint:          setup.Mint,
		MintAuthority: setup.MintAuthority,
		TokenAccount:  setup.TokenAccount,
	}

	_, err := f.program.JoinEvent(ctx, attendee, params)
	require.NoError(t, err)

	params.Event = secondEvent
	_, err = f.program.JoinEvent(ctx, attendee, params)
	require.ErrorIs(t, err, ledger.ErrMintAlreadyUsed)

	assert.EqualValues(t, 900, f.balance(t, attendee))
	assert.Zero(t, f.balance(t, secondEvent))
	assert.EqualValues(t, 1, f.mint(t, setup.Mint).Supply)
	assert.EqualValues(t, 1, f.holding(t, setup.TokenAccount).Amount)

	tickets, err := f.program.TicketsByOwner(ctx, attendee)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, firstEvent, tickets[0].Event)
}

func TestWithdraw_scenario(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	organizer := newWallet(t)
	attendee := newWallet(t)

	event := f.createEvent(t, organizer, 7, 1_000_000)
	f.fund(t, attendee, 1_000_000)

	_, _, err := f.join(t, attendee, event)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, f.balance(t, event))
	assert.Zero(t, f.balance(t, attendee))

	sent, err := f.program.Withdraw(ctx, organizer, event, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, sent)
	assert.EqualValues(t, 1_000_000, f.balance(t, organizer))
	assert.Zero(t, f.balance(t, event))

	withdrawn := lastNotification[entities.Withdrawn](t, f.store)
	assert.Equal(t, event, withdrawn.Event)
	assert.Equal(t, organizer, withdrawn.To)
	assert.EqualValues(t, 1_000_000, withdrawn.Amount)

	_, err = f.program.Withdraw(ctx, organizer, event, 0)
	assert.ErrorIs(t, err, ledger.ErrNoFunds)
}

func TestWithdraw_amounts(t *testing.T) {
	reserve := accounts.DefaultRentRule()
	eventReserve := reserve.MinimumBalance(entities.EventSpace)

	testCases := []struct {
		Name         string
		Requested    uint64
		ExpectedSent uint64
	}{
		{
			Name:         "zero_means_everything",
			Requested:    0,
			ExpectedSent: 1_000,
		},
		{
			Name:         "partial",
			Requested:    400,
			ExpectedSent: 400,
		},
		{
			Name:         "exact",
			Requested:    1_000,
			ExpectedSent: 1_000,
		},
		{
			Name:         "clamped",
			Requested:    1_000_000,
			ExpectedSent: 1_000,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			f := newFixture(t, reserve)
			ctx := context.Background()

			organizer := newWallet(t)
			f.fund(t, organizer, eventReserve)
			event := f.createEvent(t, organizer, 1, 0)
			require.Zero(t, f.balance(t, organizer))

			// escrow arrives as a plain transfer into the event account
			f.fund(t, event, 1_000)

			sent, err := f.program.Withdraw(ctx, organizer, event, tc.Requested)
			require.NoError(t, err)

			assert.Equal(t, tc.ExpectedSent, sent)
			assert.Equal(t, tc.ExpectedSent, f.balance(t, organizer))
			assert.Equal(t, eventReserve+1_000-tc.ExpectedSent, f.balance(t, event))
			assert.GreaterOrEqual(t, f.balance(t, event), eventReserve)
		})
	}
}

func TestWithdraw_no_funds_above_reserve(t *testing.T) {
	reserve := accounts.DefaultRentRule()
	f := newFixture(t, reserve)

	organizer := newWallet(t)
	f.fund(t, organizer, reserve.MinimumBalance(entities.EventSpace))
	event := f.createEvent(t, organizer, 1, 0)

	_, err := f.program.Withdraw(context.Background(), organizer, event, 10)
	assert.ErrorIs(t, err, ledger.ErrNoFunds)
	assert.Equal(t, reserve.MinimumBalance(entities.EventSpace), f.balance(t, event))
}

func TestWithdraw_unauthorized(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})

	organizer := newWallet(t)
	stranger := newWallet(t)
	event := f.createEvent(t, organizer, 1, 0)
	f.fund(t, event, 5_000)

	_, err := f.program.Withdraw(context.Background(), stranger, event, 0)
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)

	assert.EqualValues(t, 5_000, f.balance(t, event))
	assert.Zero(t, f.balance(t, stranger))
	assert.Zero(t, f.balance(t, organizer))
}

func TestOperations_reject_wrong_account_kind(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	organizer := newWallet(t)
	event := f.createEvent(t, organizer, 1, 0)
	ticketAddr, err := f.program.GrantTicket(ctx, organizer, event, newWallet(t))
	require.NoError(t, err)

	_, err = f.program.Withdraw(ctx, organizer, ticketAddr, 0)
	assert.ErrorIs(t, err, ledger.ErrAccountKindMismatch)

	err = f.program.CheckIn(ctx, organizer, event, event)
	assert.ErrorIs(t, err, ledger.ErrAccountKindMismatch)
}

func TestOperations_reject_event_at_foreign_address(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	organizer := newWallet(t)
	event := f.createEvent(t, organizer, 1, 0)

	original, err := f.store.Account(ctx, event)
	require.NoError(t, err)

	// same record copied to an address that its seeds do not derive
	forged := original
	forged.Address = newWallet(t)
	forged.Lamports = 10_000
	f.store.Put(forged)

	_, err = f.program.Withdraw(ctx, organizer, forged.Address, 0)
	assert.ErrorIs(t, err, ledger.ErrAddressMismatch)
}

func TestQueries(t *testing.T) {
	f := newFixture(t, accounts.ZeroReserve{})
	ctx := context.Background()

	organizer := newWallet(t)
	owner := newWallet(t)

	first := f.createEvent(t, organizer, 1, 0)
	second := f.createEvent(t, organizer, 2, 0)
	f.createEvent(t, newWallet(t), 1, 0)

	all, err := f.program.ListEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := f.program.ListEvents(ctx, &organizer)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.ElementsMatch(t, []entities.Address{first, second}, []entities.Address{own[0].Address, own[1].Address})

	for _, event := range []entities.Address{first, second} {
		_, err := f.program.GrantTicket(ctx, organizer, event, owner)
		require.NoError(t, err)
	}

	tickets, err := f.program.TicketsByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	none, err := f.program.TicketsByOwner(ctx, organizer)
	require.NoError(t, err)
	assert.Empty(t, none)

	balance, err := f.program.Balance(ctx, newWallet(t))
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestNewProgram_requires_dependencies(t *testing.T) {
	assert.Panics(t, func() {
		ledger.NewProgram(programID, nil, system.NewService(), token.NewService(accounts.ZeroReserve{}), accounts.ZeroReserve{}, clock.NewSystem())
	})
}

func TestErrors_are_distinct(t *testing.T) {
	errs := []error{
		ledger.ErrUnauthorized,
		ledger.ErrNoFunds,
		ledger.ErrWrongEvent,
		ledger.ErrAlreadyCheckedIn,
		ledger.ErrMintAlreadyUsed,
		ledger.ErrHoldingOwnerMismatch,
	}

	for i, a := range errs {
		for j, b := range errs {
			if i != j {
				assert.False(t, errors.Is(a, b))
			}
		}
	}
}
