package api

import "time"

// Group is the full view of a group ledger.
type Group struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Currency      string             `json:"currency"`
	ExchangeRates map[string]float64 `json:"exchange_rates"`
	Members       []*Member          `json:"members"`
	Entries       []*Entry           `json:"entries"`
	Turnover      float64            `json:"turnover"`
	CreatedAt     time.Time          `json:"created_at"`
}

type GroupSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Currency     string    `json:"currency"`
	MembersCount int       `json:"members_count"`
	EntriesCount int       `json:"entries_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Member struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry is a purchase or transfer. Amount is in Currency; ConvertedAmount is
// the same amount in the group's base currency, and Shares splits it among
// the recipients.
type Entry struct {
	ID              string             `json:"id"`
	Kind            string             `json:"kind"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Payer           string             `json:"payer"`
	Recipients      []string           `json:"recipients"`
	Amount          float64            `json:"amount"`
	Currency        string             `json:"currency"`
	ConvertedAmount float64            `json:"converted_amount"`
	Shares          map[string]float64 `json:"shares"`
	Date            time.Time          `json:"date"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// MemberBalance is a member's position in the base currency. Positive means
// the group owes the member.
type MemberBalance struct {
	Name       string  `json:"name"`
	NetBalance float64 `json:"net_balance"`
	TotalPaid  float64 `json:"total_paid"`
	TotalOwed  float64 `json:"total_owed"`
}

// PendingBalance is a payment that would settle part of the group.
type PendingBalance struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type CreateGroupRequest struct {
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Currency      string             `json:"currency"`
	Members       []string           `json:"members,omitempty"`
	ExchangeRates map[string]float64 `json:"exchange_rates,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*GroupSummary `json:"groups"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

// AddPurchaseRequest records a purchase. Currency defaults to the group's
// base currency and Date to the time of the call.
type AddPurchaseRequest struct {
	GroupID     string     `json:"group_id"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Payer       string     `json:"payer"`
	Recipients  []string   `json:"recipients"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

type AddPurchaseResponse struct {
	Entry *Entry `json:"entry"`
}

type AddTransferRequest struct {
	GroupID     string     `json:"group_id"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Payer       string     `json:"payer"`
	Recipient   string     `json:"recipient"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

type AddTransferResponse struct {
	Entry *Entry `json:"entry"`
}

// UpdateEntryRequest changes the non-nil fields of an entry.
type UpdateEntryRequest struct {
	GroupID     string     `json:"group_id"`
	EntryID     string     `json:"entry_id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	Currency    *string    `json:"currency,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

type UpdateEntryResponse struct {
	Entry *Entry `json:"entry"`
}

type RemoveEntryRequest struct {
	GroupID string `json:"group_id"`
	EntryID string `json:"entry_id"`
}

type RemoveEntryResponse struct{}

// SetExchangeRateRequest stores Rate units of Currency per one base unit.
// With Remove set the rate is deleted instead.
type SetExchangeRateRequest struct {
	GroupID  string  `json:"group_id"`
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate,omitempty"`
	Remove   bool    `json:"remove,omitempty"`
}

type SetExchangeRateResponse struct {
	ExchangeRates map[string]float64 `json:"exchange_rates"`
}

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetBalancesResponse struct {
	Currency string            `json:"currency"`
	Turnover float64           `json:"turnover"`
	Members  []*MemberBalance  `json:"members"`
	Pending  []*PendingBalance `json:"pending"`
}

// SettleUpRequest promotes the pending balance from From to To into a
// transfer, or every pending balance when All is set.
type SettleUpRequest struct {
	GroupID string `json:"group_id"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	All     bool   `json:"all,omitempty"`
}

type SettleUpResponse struct {
	Transfers []*Entry `json:"transfers"`
}
