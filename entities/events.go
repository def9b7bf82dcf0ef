package entities

import (
	"time"

	"github.com/google/uuid"
)

type IEvent interface {
	IsInternal() bool
}

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

type EventCreated struct {
	Header EventHeader `json:"header"`

	Event     Address `json:"event"`
	Organizer Address `json:"organizer"`
	EventID   uint64  `json:"event_id"`
}

func (EventCreated) IsInternal() bool { return false }

type TicketCreated struct {
	Header EventHeader `json:"header"`

	Ticket Address `json:"ticket"`
	Event  Address `json:"event"`
	Owner  Address `json:"owner"`
}

func (TicketCreated) IsInternal() bool { return false }

type CheckedIn struct {
	Header EventHeader `json:"header"`

	Ticket Address `json:"ticket"`
	// At is the ledger clock in unix seconds.
	At int64 `json:"at"`
}

func (CheckedIn) IsInternal() bool { return false }

type Withdrawn struct {
	Header EventHeader `json:"header"`

	Event  Address `json:"event"`
	To     Address `json:"to"`
	Amount uint64  `json:"amount"`
}

func (Withdrawn) IsInternal() bool { return false }

type JoinedEvent struct {
	Header EventHeader `json:"header"`

	Event    Address `json:"event"`
	Attendee Address `json:"attendee"`
}

func (JoinedEvent) IsInternal() bool { return false }

// NotificationNames lists every notification published by the ledger, by struct name.
var NotificationNames = []string{
	"EventCreated",
	"TicketCreated",
	"CheckedIn",
	"Withdrawn",
	"JoinedEvent",
}

// StoredNotification is a notification as kept in the data lake.
type StoredNotification struct {
	NotificationID string    `db:"notification_id"`
	PublishedAt    time.Time `db:"published_at"`
	Name           string    `db:"notification_name"`
	Payload        []byte    `db:"notification_payload"`
}
