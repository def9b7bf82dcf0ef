package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

// MemoryStore is an accounts.Store kept in process memory. Transactions are
// serialized; their writes are staged and applied only on success.
type MemoryStore struct {
	mu sync.Mutex

	accounts      map[entities.Address]entities.Account
	notifications []entities.IEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: map[entities.Address]entities.Account{},
	}
}

func (s *MemoryStore) Account(_ context.Context, addr entities.Address) (entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[addr]
	if !ok {
		return entities.Account{}, fmt.Errorf("%s: %w", addr, accounts.ErrAccountNotFound)
	}

	return copyAccount(account), nil
}

func (s *MemoryStore) AccountsByKind(
	_ context.Context,
	kind entities.AccountKind,
	filters ...accounts.DataFilter,
) ([]entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []entities.Account
	for _, account := range s.accounts {
		if account.Kind != kind {
			continue
		}

		ok, err := matchFilters(account.Data, filters)
		if err != nil {
			return nil, fmt.Errorf("could not filter account %s: %w", account.Address, err)
		}
		if ok {
			found = append(found, copyAccount(account))
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Address.String() < found[j].Address.String()
	})

	return found, nil
}

func (s *MemoryStore) Update(ctx context.Context, fn func(ctx context.Context, tx accounts.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		committed: s.accounts,
		staged:    map[entities.Address]entities.Account{},
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	for addr, account := range tx.staged {
		s.accounts[addr] = account
	}
	s.notifications = append(s.notifications, tx.notifications...)

	return nil
}

// Notifications returns everything published by committed transactions, oldest first.
func (s *MemoryStore) Notifications() []entities.IEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]entities.IEvent(nil), s.notifications...)
}

// Put stores account as is, outside of any transaction.
func (s *MemoryStore) Put(account entities.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.Address] = copyAccount(account)
}

type memoryTx struct {
	committed     map[entities.Address]entities.Account
	staged        map[entities.Address]entities.Account
	notifications []entities.IEvent
}

func (t *memoryTx) Account(_ context.Context, addr entities.Address) (entities.Account, error) {
	if account, ok := t.staged[addr]; ok {
		return copyAccount(account), nil
	}
	if account, ok := t.committed[addr]; ok {
		return copyAccount(account), nil
	}

	return entities.Account{}, fmt.Errorf("%s: %w", addr, accounts.ErrAccountNotFound)
}

func (t *memoryTx) CreateAccount(ctx context.Context, account entities.Account) error {
	_, err := t.Account(ctx, account.Address)
	if err == nil {
		return fmt.Errorf("address %s: %w", account.Address, accounts.ErrAccountExists)
	}
	if !errors.Is(err, accounts.ErrAccountNotFound) {
		return err
	}

	t.staged[account.Address] = copyAccount(account)

	return nil
}

func (t *memoryTx) UpdateAccount(ctx context.Context, account entities.Account) error {
	existing, err := t.Account(ctx, account.Address)
	if err != nil {
		return err
	}

	// only the balance and the record change after creation
	existing.Lamports = account.Lamports
	existing.Data = account.Data
	t.staged[account.Address] = copyAccount(existing)

	return nil
}

func (t *memoryTx) Publish(_ context.Context, notification entities.IEvent) error {
	t.notifications = append(t.notifications, notification)
	return nil
}

func copyAccount(account entities.Account) entities.Account {
	account.Data = bytes.Clone(account.Data)
	return account
}

func matchFilters(data []byte, filters []accounts.DataFilter) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	record := map[string]any{}
	if err := decoder.Decode(&record); err != nil {
		return false, err
	}

	return lo.EveryBy(filters, func(f accounts.DataFilter) bool {
		value, ok := record[f.Field]
		return ok && fmt.Sprint(value) == f.Value
	}), nil
}
