package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpool/internal/currency"
	"github.com/mmynk/splitpool/internal/events"
	"github.com/mmynk/splitpool/internal/ledger"
	"github.com/mmynk/splitpool/pkg/api"
)

// entryOptions turns the optional request fields into ledger options.
func entryOptions(description, code string, date *time.Time) ([]ledger.EntryOption, error) {
	var opts []ledger.EntryOption
	if code != "" {
		c, err := currency.Parse(code)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ledger.WithCurrency(c))
	}
	if description != "" {
		opts = append(opts, ledger.WithDescription(description))
	}
	if date != nil && !date.IsZero() {
		opts = append(opts, ledger.WithDate(*date))
	}
	return opts, nil
}

// AddPurchase records a purchase shared equally by its recipients.
func (s *LedgerService) AddPurchase(ctx context.Context, req *connect.Request[api.AddPurchaseRequest]) (*connect.Response[api.AddPurchaseResponse], error) {
	slog.Info("AddPurchase request received",
		"group_id", req.Msg.GroupID,
		"payer", req.Msg.Payer,
		"recipients_count", len(req.Msg.Recipients),
		"amount", req.Msg.Amount,
		"currency", req.Msg.Currency,
	)

	opts, err := entryOptions(req.Msg.Description, req.Msg.Currency, req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	var entry *api.Entry
	err = s.mutate(ctx, req.Msg.GroupID, func(g *ledger.Group) error {
		e, err := g.AddPurchase(req.Msg.Title, req.Msg.Payer, req.Msg.Recipients, req.Msg.Amount, opts...)
		if err != nil {
			return err
		}
		entry = toAPIEntry(e)
		return nil
	})
	if err != nil {
		slog.Error("AddPurchase failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.entryAdded(ctx, req.Msg.GroupID, entry)
	return connect.NewResponse(&api.AddPurchaseResponse{Entry: entry}), nil
}

// AddTransfer records money handed from one member to another.
func (s *LedgerService) AddTransfer(ctx context.Context, req *connect.Request[api.AddTransferRequest]) (*connect.Response[api.AddTransferResponse], error) {
	slog.Info("AddTransfer request received",
		"group_id", req.Msg.GroupID,
		"payer", req.Msg.Payer,
		"recipient", req.Msg.Recipient,
		"amount", req.Msg.Amount,
		"currency", req.Msg.Currency,
	)

	opts, err := entryOptions(req.Msg.Description, req.Msg.Currency, req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	var entry *api.Entry
	err = s.mutate(ctx, req.Msg.GroupID, func(g *ledger.Group) error {
		e, err := g.AddTransfer(req.Msg.Title, req.Msg.Payer, req.Msg.Recipient, req.Msg.Amount, opts...)
		if err != nil {
			return err
		}
		entry = toAPIEntry(e)
		return nil
	})
	if err != nil {
		slog.Error("AddTransfer failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.entryAdded(ctx, req.Msg.GroupID, entry)
	return connect.NewResponse(&api.AddTransferResponse{Entry: entry}), nil
}

func (s *LedgerService) entryAdded(ctx context.Context, groupID string, e *api.Entry) {
	slog.Info("Entry added",
		"group_id", groupID,
		"entry_id", e.ID,
		"kind", e.Kind,
		"converted_amount", e.ConvertedAmount,
	)
	if s.metrics != nil {
		s.metrics.Entries.WithLabelValues(e.Kind).Inc()
	}
	s.publish(ctx, events.Event{
		Type:     events.EntryAdded,
		GroupID:  groupID,
		EntryID:  e.ID,
		Member:   e.Payer,
		Amount:   e.Amount,
		Currency: e.Currency,
	})
}

// UpdateEntry edits the title, description, amount, currency or date of an entry.
func (s *LedgerService) UpdateEntry(ctx context.Context, req *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.UpdateEntryResponse], error) {
	slog.Info("UpdateEntry request received", "group_id", req.Msg.GroupID, "entry_id", req.Msg.EntryID)

	if req.Msg.EntryID == "" {
		return nil, toConnectError(errMissingEntryID)
	}

	update := ledger.EntryUpdate{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Date:        req.Msg.Date,
	}
	if req.Msg.Currency != nil {
		c, err := currency.Parse(*req.Msg.Currency)
		if err != nil {
			return nil, toConnectError(err)
		}
		update.Currency = &c
	}

	var entry *api.Entry
	err := s.mutate(ctx, req.Msg.GroupID, func(g *ledger.Group) error {
		e, err := g.UpdateEntry(req.Msg.EntryID, update)
		if err != nil {
			return err
		}
		entry = toAPIEntry(e)
		return nil
	})
	if err != nil {
		slog.Error("UpdateEntry failed", "group_id", req.Msg.GroupID, "entry_id", req.Msg.EntryID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Entry updated", "group_id", req.Msg.GroupID, "entry_id", entry.ID)
	s.publish(ctx, events.Event{
		Type:     events.EntryUpdated,
		GroupID:  req.Msg.GroupID,
		EntryID:  entry.ID,
		Member:   entry.Payer,
		Amount:   entry.Amount,
		Currency: entry.Currency,
	})

	return connect.NewResponse(&api.UpdateEntryResponse{Entry: entry}), nil
}

// RemoveEntry deletes an entry and unlinks it from its members.
func (s *LedgerService) RemoveEntry(ctx context.Context, req *connect.Request[api.RemoveEntryRequest]) (*connect.Response[api.RemoveEntryResponse], error) {
	slog.Info("RemoveEntry request received", "group_id", req.Msg.GroupID, "entry_id", req.Msg.EntryID)

	if req.Msg.EntryID == "" {
		return nil, toConnectError(errMissingEntryID)
	}

	err := s.mutate(ctx, req.Msg.GroupID, func(g *ledger.Group) error {
		return g.RemoveEntry(req.Msg.EntryID)
	})
	if err != nil {
		slog.Error("RemoveEntry failed", "group_id", req.Msg.GroupID, "entry_id", req.Msg.EntryID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Entry removed", "group_id", req.Msg.GroupID, "entry_id", req.Msg.EntryID)
	s.publish(ctx, events.Event{Type: events.EntryRemoved, GroupID: req.Msg.GroupID, EntryID: req.Msg.EntryID})

	return connect.NewResponse(&api.RemoveEntryResponse{}), nil
}
