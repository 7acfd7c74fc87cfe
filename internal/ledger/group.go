package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitpool/internal/currency"
)

// Group is the top-level container of members, currency configuration and
// ledger entries.
type Group struct {
	id          string
	name        string
	description string
	base        currency.Currency
	rates       currency.Rates
	createdAt   time.Time
	now         func() time.Time

	members []*Member
	index   map[string]int

	entries map[string]*Entry
	order   []string
}

// GroupOption configures a Group at construction.
type GroupOption func(*Group)

// WithGroupID sets the group ID instead of generating one.
func WithGroupID(id string) GroupOption {
	return func(g *Group) { g.id = id }
}

// WithExchangeRates seeds the exchange-rate table. The table is copied.
func WithExchangeRates(rates currency.Rates) GroupOption {
	return func(g *Group) { g.rates = rates.Clone() }
}

// WithCreatedAt sets the group's creation stamp.
func WithCreatedAt(t time.Time) GroupOption {
	return func(g *Group) { g.createdAt = t }
}

// WithClock replaces time.Now for every stamp the group takes.
func WithClock(now func() time.Time) GroupOption {
	return func(g *Group) { g.now = now }
}

// New creates an empty group reporting balances in base.
func New(name, description string, base currency.Currency, opts ...GroupOption) *Group {
	g := &Group{
		id:          uuid.NewString(),
		name:        name,
		description: description,
		base:        base,
		rates:       currency.Rates{},
		now:         time.Now,
		index:       make(map[string]int),
		entries:     make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.createdAt.IsZero() {
		g.createdAt = g.now()
	}
	return g
}

func (g *Group) ID() string                  { return g.id }
func (g *Group) Name() string                { return g.name }
func (g *Group) Description() string         { return g.description }
func (g *Group) Currency() currency.Currency { return g.base }
func (g *Group) CreatedAt() time.Time        { return g.createdAt }

func (g *Group) String() string {
	if g.description == "" {
		return g.name
	}
	return fmt.Sprintf("%s (%s)", g.name, g.description)
}

// ExchangeRates returns a copy of the exchange-rate table.
func (g *Group) ExchangeRates() currency.Rates {
	return g.rates.Clone()
}

// SetExchangeRate stores how many units of c equal one unit of the base currency.
func (g *Group) SetExchangeRate(c currency.Currency, rate float64) error {
	if c == g.base {
		return fmt.Errorf("%w: %s is the base currency", ErrInvalidRate, c)
	}
	return g.rates.Set(c, rate)
}

// RemoveExchangeRate deletes the rate for c. It fails while any entry is
// denominated in c.
func (g *Group) RemoveExchangeRate(c currency.Currency) error {
	for _, id := range g.order {
		if g.entries[id].currency == c {
			return fmt.Errorf("%w: %s is used by entry %s", ErrRateInUse, c, id)
		}
	}
	delete(g.rates, c)
	return nil
}

// Convert converts amount from the given currency into the base currency.
func (g *Group) Convert(amount float64, from currency.Currency) (float64, error) {
	return currency.Convert(amount, from, g.base, g.rates)
}

// MemberOption configures a member when it is added.
type MemberOption func(*Member)

// WithMemberCreatedAt sets the member's creation stamp.
func WithMemberCreatedAt(t time.Time) MemberOption {
	return func(m *Member) { m.createdAt = t }
}

// AddMember registers a new member. Names are case-sensitive and must not be
// blank or already taken.
func (g *Group) AddMember(name string, opts ...MemberOption) (*Member, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMemberName, name)
	}
	if _, exists := g.index[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateMember, name)
	}

	m := &Member{group: g, name: name}
	for _, opt := range opts {
		opt(m)
	}
	if m.createdAt.IsZero() {
		m.createdAt = g.now()
	}

	g.index[name] = len(g.members)
	g.members = append(g.members, m)
	return m, nil
}

// Member looks a member up by name.
func (g *Group) Member(name string) (*Member, error) {
	i, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMember, name)
	}
	return g.members[i], nil
}

// Members returns the registry in insertion order.
func (g *Group) Members() []*Member {
	out := make([]*Member, len(g.members))
	copy(out, g.members)
	return out
}

// Entry looks an entry up by ID.
func (g *Group) Entry(id string) (*Entry, error) {
	e, ok := g.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}
	return e, nil
}

// Entries returns all entries in the order they were added.
func (g *Group) Entries() []*Entry {
	out := make([]*Entry, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.entries[id])
	}
	return out
}

// Purchases returns the purchase entries in the order they were added.
func (g *Group) Purchases() []*Entry {
	return g.entriesOfKind(Purchase)
}

// Transfers returns the transfer entries in the order they were added.
func (g *Group) Transfers() []*Entry {
	return g.entriesOfKind(Transfer)
}

func (g *Group) entriesOfKind(k Kind) []*Entry {
	var out []*Entry
	for _, id := range g.order {
		if e := g.entries[id]; e.kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Turnover is the sum of all purchases in the base currency.
func (g *Group) Turnover() (float64, error) {
	var total float64
	for _, e := range g.Purchases() {
		amount, err := e.ConvertedAmount()
		if err != nil {
			return 0, err
		}
		total += amount
	}
	return total, nil
}
