package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpool/internal/events"
	"github.com/mmynk/splitpool/internal/ledger"
	"github.com/mmynk/splitpool/pkg/api"
)

// GetBalances returns every member's balance and the pending balances that
// would settle the group.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetBalances request received", "group_id", groupID)

	resp := &api.GetBalancesResponse{}
	err := s.view(ctx, groupID, func(g *ledger.Group) error {
		balances, err := g.MemberBalances()
		if err != nil {
			return err
		}
		pending, err := g.Balances()
		if err != nil {
			return err
		}
		turnover, err := g.Turnover()
		if err != nil {
			return err
		}

		resp.Currency = g.Currency().String()
		resp.Turnover = turnover
		resp.Members = toAPIBalances(balances)
		resp.Pending = toAPIPending(pending)
		return nil
	})
	if err != nil {
		slog.Error("GetBalances failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetBalances successful",
		"group_id", groupID,
		"members_count", len(resp.Members),
		"pending_count", len(resp.Pending),
	)

	return connect.NewResponse(resp), nil
}

// SettleUp promotes pending balances into transfers titled "balance".
func (s *LedgerService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("SettleUp request received",
		"group_id", groupID,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"all", req.Msg.All,
	)

	if !req.Msg.All && (req.Msg.From == "" || req.Msg.To == "") {
		return nil, toConnectError(errSettleTarget)
	}

	transfers := []*api.Entry{}
	err := s.mutate(ctx, groupID, func(g *ledger.Group) error {
		pending, err := g.Balances()
		if err != nil {
			return err
		}

		selected := pending
		if !req.Msg.All {
			selected = nil
			for _, p := range pending {
				if p.From == req.Msg.From && p.To == req.Msg.To {
					selected = append(selected, p)
				}
			}
			if len(selected) == 0 {
				return errNoPendingBalance
			}
		}

		for _, p := range selected {
			e, err := g.SettleUp(p)
			if err != nil {
				return err
			}
			transfers = append(transfers, toAPIEntry(e))
		}
		return nil
	})
	if err != nil {
		slog.Error("SettleUp failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	var total float64
	for _, t := range transfers {
		total += t.Amount
		s.publish(ctx, events.Event{
			Type:     events.BalanceSettled,
			GroupID:  groupID,
			EntryID:  t.ID,
			Member:   t.Payer,
			Amount:   t.Amount,
			Currency: t.Currency,
		})
	}
	if s.metrics != nil {
		s.metrics.Settlements.Add(float64(len(transfers)))
		s.metrics.Entries.WithLabelValues(ledger.Transfer.String()).Add(float64(len(transfers)))
	}

	slog.Info("Balances settled",
		"group_id", groupID,
		"transfers_count", len(transfers),
		"total", total,
	)

	return connect.NewResponse(&api.SettleUpResponse{Transfers: transfers}), nil
}
