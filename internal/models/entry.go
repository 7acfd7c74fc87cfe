package models

// Entry is a persisted purchase or transfer.
type Entry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string `json:"id,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Purchaser is the name of the member who paid.
	Purchaser string `json:"purchaser"`

	// Recipients are the member names sharing the amount equally.
	// A transfer always has exactly one.
	Recipients []string `json:"recipients"`

	// Amount is expressed in Currency, never pre-converted.
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`

	// Date is when the purchase or transfer happened.
	Date Stamp `json:"date"`

	// Stamp is when the entry was recorded, Modified when it last changed.
	Stamp    Stamp `json:"stamp"`
	Modified Stamp `json:"modified"`
}
