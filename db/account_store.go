package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/jmoiron/sqlx"

	"ticketescrow/accounts"
	"ticketescrow/entities"
	"ticketescrow/message/event"
	"ticketescrow/message/outbox"
)

// AccountStore keeps accounts in Postgres. Notifications published inside a
// transaction go to the outbox table and become visible only after commit.
type AccountStore struct {
	db *DB
}

func NewAccountStore(db *DB) AccountStore {
	if db == nil {
		panic("db is nil")
	}

	return AccountStore{db: db}
}

type accountRow struct {
	Address  entities.Address     `db:"address"`
	Kind     entities.AccountKind `db:"kind"`
	Lamports string               `db:"lamports"`
	Space    int                  `db:"space"`
	Data     []byte               `db:"data"`
}

func (r accountRow) toAccount() (entities.Account, error) {
	lamports, err := strconv.ParseUint(r.Lamports, 10, 64)
	if err != nil {
		return entities.Account{}, fmt.Errorf("invalid lamports of %s: %w", r.Address, err)
	}

	return entities.Account{
		Address:  r.Address,
		Kind:     r.Kind,
		Lamports: lamports,
		Space:    r.Space,
		Data:     r.Data,
	}, nil
}

func (s AccountStore) Account(ctx context.Context, addr entities.Address) (entities.Account, error) {
	return getAccount(ctx, s.db.Conn, addr, false)
}

func (s AccountStore) AccountsByKind(
	ctx context.Context,
	kind entities.AccountKind,
	filters ...accounts.DataFilter,
) ([]entities.Account, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT address, kind, lamports::TEXT AS lamports, space, data
		FROM accounts
		WHERE kind = $1`)
	args := []any{kind}

	for _, f := range filters {
		args = append(args, f.Field, f.Value)
		fmt.Fprintf(&query, " AND data ->> $%d = $%d", len(args)-1, len(args))
	}
	query.WriteString(" ORDER BY address")

	var rows []accountRow
	if err := s.db.Conn.SelectContext(ctx, &rows, query.String(), args...); err != nil {
		return nil, fmt.Errorf("could not select %s accounts: %w", kind, err)
	}

	found := make([]entities.Account, 0, len(rows))
	for _, row := range rows {
		account, err := row.toAccount()
		if err != nil {
			return nil, err
		}
		found = append(found, account)
	}

	return found, nil
}

func (s AccountStore) Update(ctx context.Context, fn func(ctx context.Context, tx accounts.Tx) error) error {
	err := updateInTx(
		ctx,
		s.db.Conn,
		sql.LevelSerializable,
		func(ctx context.Context, tx *sqlx.Tx) error {
			publisher, err := outbox.NewPublisherForDb(ctx, tx)
			if err != nil {
				return fmt.Errorf("could not create outbox publisher: %w", err)
			}

			return fn(ctx, pgTx{tx: tx, bus: event.NewBus(publisher)})
		},
	)
	if isErrorSerializationFailure(err) {
		return fmt.Errorf("%w: %w", accounts.ErrConcurrentUpdate, err)
	}

	return err
}

type pgTx struct {
	tx  *sqlx.Tx
	bus *cqrs.EventBus
}

func (t pgTx) Account(ctx context.Context, addr entities.Address) (entities.Account, error) {
	return getAccount(ctx, t.tx, addr, true)
}

func (t pgTx) CreateAccount(ctx context.Context, account entities.Account) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO
			accounts (address, kind, lamports, space, data)
		VALUES
			($1, $2, $3, $4, $5)
	`, account.Address, account.Kind, strconv.FormatUint(account.Lamports, 10), account.Space, account.Data)
	if isErrorUniqueViolation(err) {
		return fmt.Errorf("address %s: %w", account.Address, accounts.ErrAccountExists)
	}
	if err != nil {
		return fmt.Errorf("could not create account %s: %w", account.Address, err)
	}

	return nil
}

func (t pgTx) UpdateAccount(ctx context.Context, account entities.Account) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE accounts
		SET lamports = $2, data = $3
		WHERE address = $1
	`, account.Address, strconv.FormatUint(account.Lamports, 10), account.Data)
	if err != nil {
		return fmt.Errorf("could not update account %s: %w", account.Address, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", account.Address, accounts.ErrAccountNotFound)
	}

	return nil
}

func (t pgTx) Publish(ctx context.Context, notification entities.IEvent) error {
	if err := t.bus.Publish(ctx, notification); err != nil {
		return fmt.Errorf("could not publish %T: %w", notification, err)
	}

	return nil
}

func getAccount(ctx context.Context, q sqlx.QueryerContext, addr entities.Address, forUpdate bool) (entities.Account, error) {
	query := `
		SELECT address, kind, lamports::TEXT AS lamports, space, data
		FROM accounts
		WHERE address = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var row accountRow
	err := sqlx.GetContext(ctx, q, &row, query, addr)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Account{}, fmt.Errorf("%s: %w", addr, accounts.ErrAccountNotFound)
	}
	if err != nil {
		return entities.Account{}, fmt.Errorf("could not get account %s: %w", addr, err)
	}

	return row.toAccount()
}
