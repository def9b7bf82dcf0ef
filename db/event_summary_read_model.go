package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"

	"ticketescrow/entities"
)

var ErrSummaryNotFound = errors.New("event summary not found")

type EventSummaryReadModel struct {
	conn *DB
}

func NewEventSummaryReadModel(db *DB) EventSummaryReadModel {
	if db == nil {
		panic("db is nil")
	}

	return EventSummaryReadModel{
		conn: db,
	}
}

func (r EventSummaryReadModel) OnEventCreated(ctx context.Context, event *entities.EventCreated) error {
	// this is the first notification of an event, so we create the read model
	err := r.createReadModel(ctx, entities.EventSummary{
		Event:      event.Event,
		Organizer:  event.Organizer,
		EventID:    event.EventID,
		CreatedAt:  event.Header.PublishedAt,
		Tickets:    map[string]entities.SummaryTicket{},
		LastUpdate: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("could not create read model: %w", err)
	}

	return nil
}

func (r EventSummaryReadModel) OnTicketIssued(
	ctx context.Context,
	event entities.Address,
	ticket entities.Address,
	issued entities.SummaryTicket,
	at time.Time,
) error {
	return r.updateEventReadModel(
		ctx,
		event,
		func(rm entities.EventSummary) (entities.EventSummary, error) {
			if existing, ok := rm.Tickets[ticket.String()]; ok {
				// redelivered notification; check-in may have been projected already
				issued.CheckedIn = existing.CheckedIn
				issued.CheckedInAt = existing.CheckedInAt
			}

			log.FromContext(ctx).
				WithField("ticket", ticket.String()).
				Debug("Adding ticket to event summary")

			rm.Tickets[ticket.String()] = issued

			return rm, nil
		},
	)
}

func (r EventSummaryReadModel) OnCheckedIn(ctx context.Context, event *entities.CheckedIn) error {
	return updateInTx(
		ctx,
		r.conn.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			rm, err := r.findModelByTicket(ctx, event.Ticket, tx)
			if errors.Is(err, sql.ErrNoRows) {
				// notifications arrived out of order - it should spin until the ticket is projected
				return fmt.Errorf("read model for ticket %s not exist yet", event.Ticket)
			} else if err != nil {
				return fmt.Errorf("could not find read model: %w", err)
			}

			ticket := rm.Tickets[event.Ticket.String()]
			ticket.CheckedIn = true
			ticket.CheckedInAt = time.Unix(event.At, 0).UTC()
			rm.Tickets[event.Ticket.String()] = ticket

			return r.updateModel(ctx, tx, rm)
		},
	)
}

func (r EventSummaryReadModel) OnWithdrawn(ctx context.Context, event *entities.Withdrawn) error {
	return r.updateEventReadModel(
		ctx,
		event.Event,
		func(rm entities.EventSummary) (entities.EventSummary, error) {
			key := event.Header.IdempotencyKey
			if key == "" {
				key = event.Header.ID
			}

			if !rm.ApplyWithdrawal(key, event.Amount) {
				log.FromContext(ctx).WithField("idempotency_key", key).Info("Withdrawal already projected, skipping")
			}

			return rm, nil
		},
	)
}

func (r EventSummaryReadModel) SummaryByEvent(ctx context.Context, event entities.Address) (entities.EventSummary, error) {
	var payload []byte

	err := r.conn.Conn.QueryRowContext(
		ctx,
		"SELECT payload FROM read_model_event_summaries WHERE event_address = $1",
		event,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.EventSummary{}, fmt.Errorf("%s: %w", event, ErrSummaryNotFound)
	}
	if err != nil {
		return entities.EventSummary{}, fmt.Errorf("could not get event summary: %w", err)
	}

	return r.unmarshalReadModelFromDB(payload)
}

func (r EventSummaryReadModel) AllSummaries(ctx context.Context) ([]entities.EventSummary, error) {
	var payloads [][]byte

	err := r.conn.Conn.SelectContext(ctx, &payloads, "SELECT payload FROM read_model_event_summaries ORDER BY event_address")
	if err != nil {
		return nil, fmt.Errorf("could not list event summaries: %w", err)
	}

	summaries := make([]entities.EventSummary, 0, len(payloads))
	for _, payload := range payloads {
		rm, err := r.unmarshalReadModelFromDB(payload)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, rm)
	}

	return summaries, nil
}

// Reset drops every summary, before a rebuild from the data lake.
func (r EventSummaryReadModel) Reset(ctx context.Context) error {
	if _, err := r.conn.Conn.ExecContext(ctx, "DELETE FROM read_model_event_summaries"); err != nil {
		return fmt.Errorf("could not reset event summaries: %w", err)
	}

	return nil
}

func (r EventSummaryReadModel) createReadModel(ctx context.Context, summary entities.EventSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	_, err = r.conn.Conn.ExecContext(ctx, `
		INSERT INTO
			read_model_event_summaries (payload, event_address)
		VALUES
			($1, $2)
		ON CONFLICT (event_address) DO NOTHING; -- read model may be already updated by another notification - we don't want to override
`, payload, summary.Event)
	if err != nil {
		return fmt.Errorf("could not create read model: %w", err)
	}

	return nil
}

func (r EventSummaryReadModel) updateEventReadModel(
	ctx context.Context,
	event entities.Address,
	updateFunc func(rm entities.EventSummary) (entities.EventSummary, error),
) error {
	return updateInTx(
		ctx,
		r.conn.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			rm, err := r.findModelByEvent(ctx, event, tx)
			if errors.Is(err, sql.ErrNoRows) {
				// notifications arrived out of order - it should spin until the read model is created
				return fmt.Errorf("read model for event %s not exist yet", event)
			} else if err != nil {
				return fmt.Errorf("could not find read model: %w", err)
			}

			updatedRm, err := updateFunc(rm)
			if err != nil {
				return err
			}

			return r.updateModel(ctx, tx, updatedRm)
		},
	)
}

func (r EventSummaryReadModel) updateModel(ctx context.Context, tx *sqlx.Tx, readModel entities.EventSummary) error {
	readModel.LastUpdate = time.Now()

	payload, err := json.Marshal(readModel)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO
			read_model_event_summaries (payload, event_address)
		VALUES
			($1, $2)
		ON CONFLICT (event_address) DO UPDATE SET payload = excluded.payload;
		`, payload, readModel.Event)
	if err != nil {
		return fmt.Errorf("could not update read model: %w", err)
	}

	return nil
}

func (r EventSummaryReadModel) findModelByEvent(ctx context.Context, event entities.Address, tx *sqlx.Tx) (entities.EventSummary, error) {
	var payload []byte

	err := tx.QueryRowContext(
		ctx,
		"SELECT payload FROM read_model_event_summaries WHERE event_address = $1 FOR UPDATE",
		event,
	).Scan(&payload)
	if err != nil {
		return entities.EventSummary{}, err
	}

	return r.unmarshalReadModelFromDB(payload)
}

func (r EventSummaryReadModel) findModelByTicket(ctx context.Context, ticket entities.Address, tx *sqlx.Tx) (entities.EventSummary, error) {
	var payload []byte

	err := tx.QueryRowContext(
		ctx,
		"SELECT payload FROM read_model_event_summaries WHERE payload -> 'tickets' ? $1 FOR UPDATE",
		ticket.String(),
	).Scan(&payload)
	if err != nil {
		return entities.EventSummary{}, err
	}

	return r.unmarshalReadModelFromDB(payload)
}

func (r EventSummaryReadModel) unmarshalReadModelFromDB(payload []byte) (entities.EventSummary, error) {
	var summary entities.EventSummary

	err := json.Unmarshal(payload, &summary)
	if err != nil {
		return entities.EventSummary{}, err
	}

	if summary.Tickets == nil {
		summary.Tickets = map[string]entities.SummaryTicket{}
	}
	return summary, nil
}
