package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpool/internal/currency"
	"github.com/mmynk/splitpool/internal/events"
	"github.com/mmynk/splitpool/internal/ledger"
	"github.com/mmynk/splitpool/pkg/api"
)

// CreateGroup creates a new group with optional initial members and rates.
// The base currency defaults to EUR.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"currency", req.Msg.Currency,
		"members_count", len(req.Msg.Members),
	)

	if strings.TrimSpace(req.Msg.Name) == "" {
		return nil, toConnectError(errMissingName)
	}

	base := currency.EUR
	if req.Msg.Currency != "" {
		c, err := currency.Parse(req.Msg.Currency)
		if err != nil {
			slog.Error("CreateGroup failed", "error", err)
			return nil, toConnectError(err)
		}
		base = c
	}

	g := ledger.New(req.Msg.Name, req.Msg.Description, base, ledger.WithClock(s.now))
	for code, rate := range req.Msg.ExchangeRates {
		c, err := currency.Parse(code)
		if err != nil {
			return nil, toConnectError(err)
		}
		if err := g.SetExchangeRate(c, rate); err != nil {
			return nil, toConnectError(err)
		}
	}
	for _, name := range req.Msg.Members {
		if _, err := g.AddMember(name); err != nil {
			slog.Error("CreateGroup failed", "member", name, "error", err)
			return nil, toConnectError(err)
		}
	}

	// New IDs are random, so no other call can hold this group yet.
	if err := s.store.SaveGroup(ctx, g.Document()); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	group, err := toAPIGroup(g)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", g.ID(), "currency", base)
	s.publish(ctx, events.Event{Type: events.GroupCreated, GroupID: g.ID(), Currency: base.String()})

	return connect.NewResponse(&api.CreateGroupResponse{Group: group}), nil
}

// GetGroup retrieves a group with its members and entries.
func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	var group *api.Group
	err := s.view(ctx, req.Msg.GroupID, func(g *ledger.Group) error {
		var err error
		group, err = toAPIGroup(g)
		return err
	})
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{Group: group}), nil
}

// ListGroups retrieves a summary of all groups.
func (s *LedgerService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	summaries, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	groups := make([]*api.GroupSummary, len(summaries))
	for i, sum := range summaries {
		groups[i] = toAPISummary(sum)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: groups}), nil
}

// DeleteGroup removes a group and all of its entries.
func (s *LedgerService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("DeleteGroup request received", "group_id", groupID)

	if groupID == "" {
		return nil, toConnectError(errMissingGroupID)
	}

	unlock := s.locks.lock(groupID)
	err := s.store.DeleteGroup(ctx, groupID)
	unlock()
	if err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	s.locks.forget(groupID)

	slog.Info("Group deleted", "group_id", groupID)
	s.publish(ctx, events.Event{Type: events.GroupDeleted, GroupID: groupID})

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMember registers a new member in a group.
func (s *LedgerService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	var member *api.Member
	err := s.mutate(ctx, req.Msg.GroupID, func(g *ledger.Group) error {
		m, err := g.AddMember(req.Msg.Name)
		if err != nil {
			return err
		}
		member = toAPIMember(m)
		return nil
	})
	if err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "group_id", req.Msg.GroupID, "name", member.Name)
	s.publish(ctx, events.Event{Type: events.MemberAdded, GroupID: req.Msg.GroupID, Member: member.Name})

	return connect.NewResponse(&api.AddMemberResponse{Member: member}), nil
}

// SetExchangeRate sets or removes the rate of one currency against the
// group's base currency.
func (s *LedgerService) SetExchangeRate(ctx context.Context, req *connect.Request[api.SetExchangeRateRequest]) (*connect.Response[api.SetExchangeRateResponse], error) {
	slog.Info("SetExchangeRate request received",
		"group_id", req.Msg.GroupID,
		"currency", req.Msg.Currency,
		"rate", req.Msg.Rate,
		"remove", req.Msg.Remove,
	)

	c, err := currency.Parse(req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}

	var rates map[string]float64
	err = s.mutate(ctx, req.Msg.GroupID, func(g *ledger.Group) error {
		var err error
		if req.Msg.Remove {
			err = g.RemoveExchangeRate(c)
		} else {
			err = g.SetExchangeRate(c, req.Msg.Rate)
		}
		if err != nil {
			return err
		}
		rates = toAPIRates(g.ExchangeRates())
		return nil
	})
	if err != nil {
		slog.Error("SetExchangeRate failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Exchange rates updated", "group_id", req.Msg.GroupID, "rates_count", len(rates))

	return connect.NewResponse(&api.SetExchangeRateResponse{ExchangeRates: rates}), nil
}
