package models

// Member is a persisted group member. Balances are never stored.
type Member struct {
	Name  string `json:"name"`
	Stamp Stamp  `json:"stamp"`
}
