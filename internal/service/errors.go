package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpool/internal/ledger"
	"github.com/mmynk/splitpool/internal/storage"
)

var (
	errMissingGroupID   = errors.New("group_id is required")
	errMissingEntryID   = errors.New("entry_id is required")
	errMissingName      = errors.New("name is required")
	errSettleTarget     = errors.New("set from and to, or all")
	errNoPendingBalance = errors.New("no pending balance between these members")
)

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, ledger.ErrUnknownEntry):
		return connect.CodeNotFound

	case errors.Is(err, ledger.ErrDuplicateMember),
		errors.Is(err, ledger.ErrDuplicateEntry):
		return connect.CodeAlreadyExists

	case errors.Is(err, errMissingGroupID),
		errors.Is(err, errMissingEntryID),
		errors.Is(err, errMissingName),
		errors.Is(err, errSettleTarget),
		errors.Is(err, ledger.ErrInvalidMemberName),
		errors.Is(err, ledger.ErrUnknownMember),
		errors.Is(err, ledger.ErrNoRecipients),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnknownCurrency),
		errors.Is(err, ledger.ErrInvalidRate):
		return connect.CodeInvalidArgument

	case errors.Is(err, ledger.ErrMissingExchangeRate),
		errors.Is(err, ledger.ErrRateInUse),
		errors.Is(err, errNoPendingBalance):
		return connect.CodeFailedPrecondition

	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded

	default:
		return connect.CodeInternal
	}
}
