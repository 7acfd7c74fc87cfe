package ledger

import (
	"errors"

	"github.com/mmynk/splitpool/internal/currency"
)

var (
	ErrInvalidMemberName = errors.New("invalid member name")
	ErrDuplicateMember   = errors.New("duplicate member")
	ErrUnknownMember     = errors.New("unknown member")
	ErrNoRecipients      = errors.New("entry needs at least one recipient")
	ErrUnknownEntry      = errors.New("unknown entry")
	ErrDuplicateEntry    = errors.New("duplicate entry id")
	// ErrTransferRecipients is returned when a stored transfer does not name exactly one recipient.
	ErrTransferRecipients = errors.New("transfer must have exactly one recipient")
	// ErrRateInUse is returned when removing a rate that existing entries still need.
	ErrRateInUse = errors.New("exchange rate in use")

	ErrMissingExchangeRate = currency.ErrMissingExchangeRate
	ErrInvalidAmount       = currency.ErrInvalidAmount
	ErrUnknownCurrency     = currency.ErrUnknownCurrency
	ErrInvalidRate         = currency.ErrInvalidRate
)
