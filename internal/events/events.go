// Package events publishes ledger changes to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type is the kind of change. It doubles as the AMQP routing key.
type Type string

const (
	GroupCreated   Type = "group.created"
	GroupDeleted   Type = "group.deleted"
	MemberAdded    Type = "member.added"
	EntryAdded     Type = "entry.added"
	EntryUpdated   Type = "entry.updated"
	EntryRemoved   Type = "entry.removed"
	BalanceSettled Type = "balance.settled"
)

// Event describes one change to a group. Fields that do not apply to the
// event type are left empty.
type Event struct {
	Type       Type      `json:"type"`
	GroupID    string    `json:"group_id"`
	EntryID    string    `json:"entry_id,omitempty"`
	Member     string    `json:"member,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
