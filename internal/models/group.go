package models

import "time"

// Group is the persisted form of a group ledger.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id,omitempty"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// Description is free text shown under the name.
	Description string `json:"description"`

	// Currency is the base currency code all balances are reported in.
	Currency string `json:"currency"`

	// ExchangeRates maps a currency code to how many units of it equal one
	// unit of the base currency.
	ExchangeRates map[string]float64 `json:"exchange_rates"`

	// Members is the member registry in insertion order.
	Members []Member `json:"members"`

	// Purchases and Transfers are replayed in order when loading.
	Purchases []Entry `json:"purchases"`
	Transfers []Entry `json:"transfers"`

	// Stamp is when the group was created.
	Stamp Stamp `json:"stamp"`
}

// GroupSummary is the listing view of a stored group.
type GroupSummary struct {
	ID           string
	Name         string
	Currency     string
	MembersCount int
	EntriesCount int
	Stamp        time.Time
}

// Summary builds the listing view of g.
func (g *Group) Summary() *GroupSummary {
	return &GroupSummary{
		ID:           g.ID,
		Name:         g.Name,
		Currency:     g.Currency,
		MembersCount: len(g.Members),
		EntriesCount: len(g.Purchases) + len(g.Transfers),
		Stamp:        g.Stamp.Time,
	}
}
