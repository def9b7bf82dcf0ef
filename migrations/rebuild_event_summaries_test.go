package migrations_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketescrow/entities"
	"ticketescrow/migrations"
)

type dataLakeStub []entities.StoredNotification

func (d dataLakeStub) GetAll(context.Context) ([]entities.StoredNotification, error) {
	return d, nil
}

type projectorSpy struct {
	resets   int
	replayed []string
	amount   uint64
}

func (p *projectorSpy) Reset(context.Context) error {
	p.resets++
	return nil
}

func (p *projectorSpy) ProjectEventCreated(_ context.Context, e *entities.EventCreated) error {
	p.replayed = append(p.replayed, "EventCreated")
	return nil
}

func (p *projectorSpy) ProjectTicketCreated(_ context.Context, e *entities.TicketCreated) error {
	p.replayed = append(p.replayed, "TicketCreated")
	return nil
}

func (p *projectorSpy) ProjectJoinedEvent(_ context.Context, e *entities.JoinedEvent) error {
	p.replayed = append(p.replayed, "JoinedEvent")
	return nil
}

func (p *projectorSpy) ProjectCheckedIn(_ context.Context, e *entities.CheckedIn) error {
	p.replayed = append(p.replayed, "CheckedIn")
	return nil
}

func (p *projectorSpy) ProjectWithdrawn(_ context.Context, e *entities.Withdrawn) error {
	p.replayed = append(p.replayed, "Withdrawn")
	p.amount += e.Amount
	return nil
}

func stored(t *testing.T, name string, v entities.IEvent) entities.StoredNotification {
	t.Helper()

	payload, err := json.Marshal(v)
	require.NoError(t, err)

	return entities.StoredNotification{
		NotificationID: name,
		PublishedAt:    time.Now(),
		Name:           name,
		Payload:        payload,
	}
}

func TestRebuildEventSummaries(t *testing.T) {
	lake := dataLakeStub{
		stored(t, "EventCreated", entities.EventCreated{EventID: 1}),
		stored(t, "TicketCreated", entities.TicketCreated{}),
		stored(t, "JoinedEvent", entities.JoinedEvent{}),
		stored(t, "CheckedIn", entities.CheckedIn{At: 100}),
		stored(t, "Withdrawn", entities.Withdrawn{Amount: 70}),
	}
	spy := &projectorSpy{}

	err := migrations.RebuildEventSummaries(context.Background(), lake, spy, spy)
	require.NoError(t, err)

	assert.Equal(t, 1, spy.resets)
	assert.Equal(t, []string{"EventCreated", "TicketCreated", "JoinedEvent", "CheckedIn", "Withdrawn"}, spy.replayed)
	assert.EqualValues(t, 70, spy.amount)
}

func TestRebuildEventSummaries_unknown_notification(t *testing.T) {
	lake := dataLakeStub{{Name: "TicketResold", Payload: []byte("{}")}}
	spy := &projectorSpy{}

	err := migrations.RebuildEventSummaries(context.Background(), lake, spy, spy)
	assert.ErrorContains(t, err, "unknown notification TicketResold")
}
