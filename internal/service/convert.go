package service

import (
	"github.com/mmynk/splitpool/internal/calculator"
	"github.com/mmynk/splitpool/internal/currency"
	"github.com/mmynk/splitpool/internal/ledger"
	"github.com/mmynk/splitpool/internal/models"
	"github.com/mmynk/splitpool/pkg/api"
)

func toAPIGroup(g *ledger.Group) (*api.Group, error) {
	turnover, err := g.Turnover()
	if err != nil {
		return nil, err
	}

	members := g.Members()
	out := &api.Group{
		ID:            g.ID(),
		Name:          g.Name(),
		Description:   g.Description(),
		Currency:      g.Currency().String(),
		ExchangeRates: toAPIRates(g.ExchangeRates()),
		Members:       make([]*api.Member, 0, len(members)),
		Entries:       toAPIEntries(g.Entries()),
		Turnover:      turnover,
		CreatedAt:     g.CreatedAt(),
	}
	for _, m := range members {
		out.Members = append(out.Members, toAPIMember(m))
	}
	return out, nil
}

func toAPIMember(m *ledger.Member) *api.Member {
	return &api.Member{Name: m.Name(), CreatedAt: m.CreatedAt()}
}

func toAPIEntry(e *ledger.Entry) *api.Entry {
	// Entries are only accepted when their currency converts and have at
	// least one recipient, so neither call can fail.
	converted, _ := e.ConvertedAmount()
	shares, _ := calculator.SplitEqually(converted, e.Recipients())
	return &api.Entry{
		ID:              e.ID(),
		Kind:            e.Kind().String(),
		Title:           e.Title(),
		Description:     e.Description(),
		Payer:           e.Payer(),
		Recipients:      e.Recipients(),
		Amount:          e.Amount(),
		Currency:        e.Currency().String(),
		ConvertedAmount: converted,
		Shares:          shares,
		Date:            e.Date(),
		CreatedAt:       e.CreatedAt(),
		UpdatedAt:       e.UpdatedAt(),
	}
}

func toAPIEntries(entries []*ledger.Entry) []*api.Entry {
	out := make([]*api.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAPIEntry(e))
	}
	return out
}

func toAPIRates(rates currency.Rates) map[string]float64 {
	out := make(map[string]float64, len(rates))
	for c, rate := range rates {
		out[c.String()] = rate
	}
	return out
}

func toAPIBalances(balances []calculator.MemberBalance) []*api.MemberBalance {
	out := make([]*api.MemberBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, &api.MemberBalance{
			Name:       b.MemberName,
			NetBalance: b.NetBalance,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
		})
	}
	return out
}

func toAPIPending(pending []ledger.PendingBalance) []*api.PendingBalance {
	out := make([]*api.PendingBalance, 0, len(pending))
	for _, p := range pending {
		out = append(out, &api.PendingBalance{
			From:     p.From,
			To:       p.To,
			Amount:   p.Amount,
			Currency: p.Currency.String(),
		})
	}
	return out
}

func toAPISummary(s *models.GroupSummary) *api.GroupSummary {
	return &api.GroupSummary{
		ID:           s.ID,
		Name:         s.Name,
		Currency:     s.Currency,
		MembersCount: s.MembersCount,
		EntriesCount: s.EntriesCount,
		CreatedAt:    s.Stamp,
	}
}
