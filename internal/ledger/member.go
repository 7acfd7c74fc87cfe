package ledger

import (
	"fmt"
	"time"

	"github.com/mmynk/splitpool/internal/currency"
)

// Member is a named participant of a group. It holds no balance of its own,
// only the IDs of the entries it takes part in.
type Member struct {
	group     *Group
	name      string
	createdAt time.Time

	paid     []string
	received []string
}

func (m *Member) Name() string         { return m.name }
func (m *Member) CreatedAt() time.Time { return m.createdAt }

func (m *Member) String() string {
	balance, err := m.Balance()
	if err != nil {
		return fmt.Sprintf("%s (%v)", m.name, err)
	}
	return fmt.Sprintf("%s (%s)", m.name, currency.FormatAmount(balance, m.group.base))
}

// Paid returns the entries this member paid for, oldest first.
func (m *Member) Paid() []*Entry {
	return m.group.lookup(m.paid)
}

// Received returns the entries this member is a recipient of, oldest first.
func (m *Member) Received() []*Entry {
	return m.group.lookup(m.received)
}

func (g *Group) lookup(ids []string) []*Entry {
	out := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.entries[id])
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, x := range ids {
		if x == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
