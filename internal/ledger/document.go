package ledger

import (
	"fmt"

	"github.com/mmynk/splitpool/internal/currency"
	"github.com/mmynk/splitpool/internal/models"
)

// FromDocument rebuilds a group by replaying the document's members, then
// its purchases and transfers in the order they were recorded.
func FromDocument(doc *models.Group, opts ...GroupOption) (*Group, error) {
	base, err := currency.Parse(doc.Currency)
	if err != nil {
		return nil, fmt.Errorf("group currency: %w", err)
	}

	rates := currency.Rates{}
	for code, rate := range doc.ExchangeRates {
		c, err := currency.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("exchange rate: %w", err)
		}
		if c == base {
			continue
		}
		if err := rates.Set(c, rate); err != nil {
			return nil, fmt.Errorf("exchange rate: %w", err)
		}
	}

	groupOpts := []GroupOption{WithExchangeRates(rates), WithCreatedAt(doc.Stamp.Time)}
	if doc.ID != "" {
		groupOpts = append(groupOpts, WithGroupID(doc.ID))
	}
	g := New(doc.Name, doc.Description, base, append(groupOpts, opts...)...)

	for _, m := range doc.Members {
		if _, err := g.AddMember(m.Name, WithMemberCreatedAt(m.Stamp.Time)); err != nil {
			return nil, fmt.Errorf("load member: %w", err)
		}
	}

	// Purchases and transfers are stored apart. Replay them merged by
	// creation stamp so Entries keeps the order they were recorded in.
	purchases, transfers := doc.Purchases, doc.Transfers
	for i, j := 0, 0; i < len(purchases) || j < len(transfers); {
		if j == len(transfers) || (i < len(purchases) && !recordedBefore(transfers[j], purchases[i])) {
			if err := replayPurchase(g, purchases[i]); err != nil {
				return nil, fmt.Errorf("load purchase %d: %w", i, err)
			}
			i++
			continue
		}
		if err := replayTransfer(g, transfers[j]); err != nil {
			return nil, fmt.Errorf("load transfer %d: %w", j, err)
		}
		j++
	}

	return g, nil
}

// recordedBefore reports whether a was stamped strictly before b. Entries
// without a stamp keep their file order.
func recordedBefore(a, b models.Entry) bool {
	if a.Stamp.IsZero() || b.Stamp.IsZero() {
		return false
	}
	return a.Stamp.Before(b.Stamp.Time)
}

func replayPurchase(g *Group, p models.Entry) error {
	opts, err := replayOptions(p)
	if err != nil {
		return err
	}
	_, err = g.AddPurchase(p.Title, p.Purchaser, p.Recipients, p.Amount, opts...)
	return err
}

func replayTransfer(g *Group, t models.Entry) error {
	if len(t.Recipients) != 1 {
		return ErrTransferRecipients
	}
	opts, err := replayOptions(t)
	if err != nil {
		return err
	}
	_, err = g.AddTransfer(t.Title, t.Purchaser, t.Recipients[0], t.Amount, opts...)
	return err
}

func replayOptions(e models.Entry) ([]EntryOption, error) {
	var opts []EntryOption
	if e.Currency != "" {
		c, err := currency.Parse(e.Currency)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithCurrency(c))
	}
	if e.ID != "" {
		opts = append(opts, WithID(e.ID))
	}
	if e.Description != "" {
		opts = append(opts, WithDescription(e.Description))
	}
	if !e.Date.IsZero() {
		opts = append(opts, WithDate(e.Date.Time))
	}
	if !e.Stamp.IsZero() {
		opts = append(opts, WithEntryCreatedAt(e.Stamp.Time))
	}
	if !e.Modified.IsZero() {
		opts = append(opts, withUpdatedAt(e.Modified.Time))
	}
	return opts, nil
}

// Document exports the group in its persisted form.
func (g *Group) Document() *models.Group {
	doc := &models.Group{
		ID:            g.id,
		Name:          g.name,
		Description:   g.description,
		Currency:      string(g.base),
		ExchangeRates: make(map[string]float64, len(g.rates)),
		Members:       make([]models.Member, 0, len(g.members)),
		Purchases:     []models.Entry{},
		Transfers:     []models.Entry{},
		Stamp:         models.NewStamp(g.createdAt),
	}

	for c, rate := range g.rates {
		doc.ExchangeRates[string(c)] = rate
	}

	for _, m := range g.members {
		doc.Members = append(doc.Members, models.Member{Name: m.name, Stamp: models.NewStamp(m.createdAt)})
	}

	for _, id := range g.order {
		e := g.entries[id]
		rec := models.Entry{
			ID:          e.id,
			Title:       e.title,
			Description: e.description,
			Purchaser:   e.Payer(),
			Recipients:  e.Recipients(),
			Amount:      e.amount,
			Currency:    string(e.currency),
			Date:        models.NewStamp(e.date),
			Stamp:       models.NewStamp(e.createdAt),
			Modified:    models.NewStamp(e.updatedAt),
		}
		switch e.kind {
		case Transfer:
			doc.Transfers = append(doc.Transfers, rec)
		default:
			doc.Purchases = append(doc.Purchases, rec)
		}
	}

	return doc
}
