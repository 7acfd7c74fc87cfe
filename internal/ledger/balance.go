package ledger

import (
	"fmt"

	"github.com/mmynk/splitpool/internal/calculator"
)

// TotalPaid sums, in base currency, every entry this member paid for.
func (m *Member) TotalPaid() (float64, error) {
	var total float64
	for _, e := range m.Paid() {
		amount, err := e.ConvertedAmount()
		if err != nil {
			return 0, fmt.Errorf("entry %s: %w", e.id, err)
		}
		total += amount
	}
	return total, nil
}

// TotalOwed sums this member's shares of every entry it receives.
func (m *Member) TotalOwed() (float64, error) {
	var total float64
	for _, e := range m.Received() {
		share, err := e.ShareFor(m.name)
		if err != nil {
			return 0, fmt.Errorf("entry %s: %w", e.id, err)
		}
		total += share
	}
	return total, nil
}

// Balance is the member's net position in base currency: positive when the
// group owes the member money, negative when the member owes the group.
// A payer listed among the recipients of its own entry gains the full amount
// and loses its own share.
func (m *Member) Balance() (float64, error) {
	paid, err := m.TotalPaid()
	if err != nil {
		return 0, err
	}
	owed, err := m.TotalOwed()
	if err != nil {
		return 0, err
	}
	return paid - owed, nil
}

// MemberBalances computes every member's balance in registry order.
func (g *Group) MemberBalances() ([]calculator.MemberBalance, error) {
	balances := make([]calculator.MemberBalance, 0, len(g.members))
	for _, m := range g.members {
		paid, err := m.TotalPaid()
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.name, err)
		}
		owed, err := m.TotalOwed()
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.name, err)
		}
		balances = append(balances, calculator.MemberBalance{
			MemberName: m.name,
			NetBalance: paid - owed,
			TotalPaid:  paid,
			TotalOwed:  owed,
		})
	}
	return balances, nil
}
