package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitpool/internal/calculator"
	"github.com/mmynk/splitpool/internal/currency"
)

// DefaultTitle is used for entries added without a title.
const DefaultTitle = "untitled"

// Kind distinguishes purchases from transfers. Both affect balances the same
// way; the kind only decides where an entry is listed and persisted.
type Kind int

const (
	Purchase Kind = iota
	Transfer
)

func (k Kind) String() string {
	switch k {
	case Purchase:
		return "purchase"
	case Transfer:
		return "transfer"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is a monetary flow from one payer to one or more recipients who
// share the amount equally.
type Entry struct {
	group       *Group
	id          string
	kind        Kind
	title       string
	description string

	// Indices into group.members.
	payer      int
	recipients []int

	amount    float64
	currency  currency.Currency
	date      time.Time
	createdAt time.Time
	updatedAt time.Time
}

func (e *Entry) ID() string                  { return e.id }
func (e *Entry) Kind() Kind                  { return e.kind }
func (e *Entry) Title() string               { return e.title }
func (e *Entry) Description() string         { return e.description }
func (e *Entry) Amount() float64             { return e.amount }
func (e *Entry) Currency() currency.Currency { return e.currency }
func (e *Entry) Date() time.Time             { return e.date }
func (e *Entry) CreatedAt() time.Time        { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time        { return e.updatedAt }

// Payer returns the name of the member who paid.
func (e *Entry) Payer() string {
	return e.group.members[e.payer].name
}

// Recipients returns the recipient names in the order they were given.
func (e *Entry) Recipients() []string {
	names := make([]string, len(e.recipients))
	for i, r := range e.recipients {
		names[i] = e.group.members[r].name
	}
	return names
}

// HasRecipient reports whether name shares this entry.
func (e *Entry) HasRecipient(name string) bool {
	i, ok := e.group.index[name]
	if !ok {
		return false
	}
	for _, r := range e.recipients {
		if r == i {
			return true
		}
	}
	return false
}

// ConvertedAmount is the amount in the group's base currency.
func (e *Entry) ConvertedAmount() (float64, error) {
	return e.group.Convert(e.amount, e.currency)
}

// ShareFor returns name's equal share of the converted amount, or 0 if name
// is not a recipient.
func (e *Entry) ShareFor(name string) (float64, error) {
	if !e.HasRecipient(name) {
		return 0, nil
	}
	amount, err := e.ConvertedAmount()
	if err != nil {
		return 0, err
	}
	return calculator.EqualShare(amount, len(e.recipients))
}

func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString(e.title)
	if e.description != "" {
		fmt.Fprintf(&b, " (%s)", e.description)
	}
	fmt.Fprintf(&b, " %s: %s -> %s", e.Payer(), currency.FormatAmount(e.amount, e.currency),
		strings.Join(e.Recipients(), ", "))
	return b.String()
}

// EntryOption sets an optional attribute of a new entry.
type EntryOption func(*entryConfig)

type entryConfig struct {
	id          string
	description string
	currency    currency.Currency
	date        time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// WithCurrency sets the entry currency. Defaults to the group's base currency.
func WithCurrency(c currency.Currency) EntryOption {
	return func(cfg *entryConfig) { cfg.currency = c }
}

// WithDate sets when the purchase or transfer happened. Defaults to the creation stamp.
func WithDate(t time.Time) EntryOption {
	return func(cfg *entryConfig) { cfg.date = t }
}

func WithDescription(d string) EntryOption {
	return func(cfg *entryConfig) { cfg.description = d }
}

// WithEntryCreatedAt sets the creation stamp, used when replaying stored entries.
func WithEntryCreatedAt(t time.Time) EntryOption {
	return func(cfg *entryConfig) { cfg.createdAt = t }
}

// WithID sets the entry ID instead of generating one.
func WithID(id string) EntryOption {
	return func(cfg *entryConfig) { cfg.id = id }
}

func withUpdatedAt(t time.Time) EntryOption {
	return func(cfg *entryConfig) { cfg.updatedAt = t }
}

// AddPurchase records a purchase paid by payer and shared equally by recipients.
// The payer may be one of the recipients.
func (g *Group) AddPurchase(title, payer string, recipients []string, amount float64, opts ...EntryOption) (*Entry, error) {
	return g.addEntry(Purchase, title, payer, recipients, amount, opts)
}

// AddTransfer records money handed from payer to recipient.
func (g *Group) AddTransfer(title, payer, recipient string, amount float64, opts ...EntryOption) (*Entry, error) {
	return g.addEntry(Transfer, title, payer, []string{recipient}, amount, opts)
}

// addEntry validates everything before touching any member, so an entry is
// either fully linked or not created at all.
func (g *Group) addEntry(kind Kind, title, payer string, recipients []string, amount float64, opts []EntryOption) (*Entry, error) {
	cfg := entryConfig{currency: g.base}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := currency.CheckAmount(amount); err != nil {
		return nil, err
	}

	payerIdx, ok := g.index[payer]
	if !ok {
		return nil, fmt.Errorf("payer: %w: %q", ErrUnknownMember, payer)
	}

	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	recipientIdx := make([]int, 0, len(recipients))
	seen := make(map[int]bool, len(recipients))
	for _, name := range recipients {
		i, ok := g.index[name]
		if !ok {
			return nil, fmt.Errorf("recipient: %w: %q", ErrUnknownMember, name)
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		recipientIdx = append(recipientIdx, i)
	}

	if !cfg.currency.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(cfg.currency))
	}
	if !g.rates.Supports(cfg.currency, g.base) {
		return nil, &currency.MissingExchangeRateError{From: cfg.currency, Base: g.base}
	}

	if cfg.id == "" {
		cfg.id = uuid.NewString()
	} else if _, exists := g.entries[cfg.id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, cfg.id)
	}

	if title == "" {
		title = DefaultTitle
	}
	if cfg.createdAt.IsZero() {
		cfg.createdAt = g.now()
	}
	if cfg.date.IsZero() {
		cfg.date = cfg.createdAt
	}
	if cfg.updatedAt.IsZero() {
		cfg.updatedAt = cfg.createdAt
	}

	e := &Entry{
		group:       g,
		id:          cfg.id,
		kind:        kind,
		title:       title,
		description: cfg.description,
		payer:       payerIdx,
		recipients:  recipientIdx,
		amount:      amount,
		currency:    cfg.currency,
		date:        cfg.date,
		createdAt:   cfg.createdAt,
		updatedAt:   cfg.updatedAt,
	}
	g.entries[e.id] = e
	g.order = append(g.order, e.id)
	g.link(e)
	return e, nil
}

func (g *Group) link(e *Entry) {
	payer := g.members[e.payer]
	payer.paid = append(payer.paid, e.id)
	for _, r := range e.recipients {
		m := g.members[r]
		m.received = append(m.received, e.id)
	}
}

func (g *Group) unlink(e *Entry) {
	payer := g.members[e.payer]
	payer.paid = removeID(payer.paid, e.id)
	for _, r := range e.recipients {
		m := g.members[r]
		m.received = removeID(m.received, e.id)
	}
}

// RemoveEntry deletes an entry and unlinks it from its payer and recipients.
func (g *Group) RemoveEntry(id string) error {
	e, ok := g.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}
	g.unlink(e)
	delete(g.entries, id)
	g.order = removeID(g.order, id)
	return nil
}

// EntryUpdate lists the fields to change on an existing entry. Nil fields are
// left untouched. Payer and recipients cannot be changed in place.
type EntryUpdate struct {
	Title       *string
	Description *string
	Amount      *float64
	Currency    *currency.Currency
	Date        *time.Time
}

// UpdateEntry applies u to the entry and bumps its last-modified stamp.
func (g *Group) UpdateEntry(id string, u EntryUpdate) (*Entry, error) {
	e, ok := g.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	if u.Amount != nil {
		if err := currency.CheckAmount(*u.Amount); err != nil {
			return nil, err
		}
	}
	if u.Currency != nil {
		c := *u.Currency
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(c))
		}
		if !g.rates.Supports(c, g.base) {
			return nil, &currency.MissingExchangeRateError{From: c, Base: g.base}
		}
	}

	if u.Title != nil {
		e.title = *u.Title
		if e.title == "" {
			e.title = DefaultTitle
		}
	}
	if u.Description != nil {
		e.description = *u.Description
	}
	if u.Amount != nil {
		e.amount = *u.Amount
	}
	if u.Currency != nil {
		e.currency = *u.Currency
	}
	if u.Date != nil {
		e.date = *u.Date
	}
	e.updatedAt = g.now()
	return e, nil
}
