package entities

import (
	"time"

	"github.com/samber/lo"
)

// EventSummary is the indexer read model kept for every event.
type EventSummary struct {
	Event     Address `json:"event"`
	Organizer Address `json:"organizer"`
	EventID   uint64  `json:"event_id"`

	CreatedAt time.Time `json:"created_at"`

	Tickets map[string]SummaryTicket `json:"tickets"`

	TotalWithdrawn uint64 `json:"total_withdrawn"`
	Withdrawals    int    `json:"withdrawals"`
	// WithdrawalKeys are the idempotency keys of the projected withdrawals.
	WithdrawalKeys []string `json:"withdrawal_keys,omitempty"`

	LastUpdate time.Time `json:"last_update"`
}

type SummaryTicket struct {
	Owner Address `json:"owner"`
	// Source is "granted" or "joined".
	Source      string    `json:"source"`
	CheckedIn   bool      `json:"checked_in"`
	CheckedInAt time.Time `json:"checked_in_at,omitempty"`
}

func (s EventSummary) TicketsIssued() int {
	return len(s.Tickets)
}

func (s EventSummary) CheckedInCount() int {
	n := 0
	for _, t := range s.Tickets {
		if t.CheckedIn {
			n++
		}
	}
	return n
}

// ApplyWithdrawal adds a withdrawal once per idempotency key. It reports false
// when the key was already applied.
func (s *EventSummary) ApplyWithdrawal(idempotencyKey string, amount uint64) bool {
	if lo.Contains(s.WithdrawalKeys, idempotencyKey) {
		return false
	}

	s.WithdrawalKeys = append(s.WithdrawalKeys, idempotencyKey)
	s.TotalWithdrawn += amount
	s.Withdrawals++

	return true
}
