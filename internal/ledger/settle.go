package ledger

import (
	"fmt"
	"time"

	"github.com/mmynk/splitpool/internal/calculator"
	"github.com/mmynk/splitpool/internal/currency"
)

const (
	// SettlementTitle is the title of pending balances and of the transfers
	// they are promoted to.
	SettlementTitle    = "balance"
	pendingDescription = "pending"
)

// PendingBalance is a synthetic transfer from a debtor to a creditor that,
// together with the other pending balances, brings every balance to zero.
type PendingBalance struct {
	From      string
	To        string
	Amount    float64
	Currency  currency.Currency
	CreatedAt time.Time
}

func (p PendingBalance) Title() string       { return SettlementTitle }
func (p PendingBalance) Description() string { return pendingDescription }

func (p PendingBalance) String() string {
	return fmt.Sprintf("%s (%s) %s: %s -> %s", SettlementTitle, pendingDescription,
		p.From, currency.FormatAmount(p.Amount, p.Currency), p.To)
}

// Balances computes the pending balances for the current ledger, in emission
// order. A settled group yields an empty list.
func (g *Group) Balances() ([]PendingBalance, error) {
	balances, err := g.MemberBalances()
	if err != nil {
		return nil, err
	}

	edges := calculator.Settle(balances)
	now := g.now()
	pending := make([]PendingBalance, 0, len(edges))
	for _, e := range edges {
		pending = append(pending, PendingBalance{
			From:      e.From,
			To:        e.To,
			Amount:    e.Amount,
			Currency:  g.base,
			CreatedAt: now,
		})
	}
	return pending, nil
}

// SettleUp promotes a pending balance into a real transfer.
func (g *Group) SettleUp(p PendingBalance, opts ...EntryOption) (*Entry, error) {
	c := p.Currency
	if c == "" {
		c = g.base
	}
	opts = append([]EntryOption{WithCurrency(c)}, opts...)
	return g.AddTransfer(SettlementTitle, p.From, p.To, p.Amount, opts...)
}
