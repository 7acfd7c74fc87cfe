package service

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitpool/internal/auth"
	"github.com/mmynk/splitpool/internal/events"
	"github.com/mmynk/splitpool/internal/metrics"
	"github.com/mmynk/splitpool/internal/middleware"
	"github.com/mmynk/splitpool/internal/storage"
	"github.com/mmynk/splitpool/internal/storage/jsonfile"
	"github.com/mmynk/splitpool/internal/storage/sqlite"
	"github.com/mmynk/splitpool/pkg/api"
)

const tolerance = 1e-9

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type testServer struct {
	client    api.LedgerServiceClient
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

func newSQLiteStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newJSONStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := jsonfile.New(filepath.Join(t.TempDir(), "groups"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

// setupTestServer serves a LedgerService over httptest and returns a client for it.
func setupTestServer(t *testing.T, store storage.Store, opts ...connect.HandlerOption) *testServer {
	t.Helper()

	publisher := &recordingPublisher{}
	m := metrics.New()
	svc := NewLedgerService(store, WithPublisher(publisher), WithMetrics(m))

	path, handler := api.NewLedgerServiceHandler(svc, opts...)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		client:    api.NewLedgerServiceClient(http.DefaultClient, server.URL),
		publisher: publisher,
		metrics:   m,
	}
}

func createGroup(t *testing.T, client api.LedgerServiceClient, req *api.CreateGroupRequest) *api.Group {
	t.Helper()
	resp, err := client.CreateGroup(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func getBalances(t *testing.T, client api.LedgerServiceClient, groupID string) *api.GetBalancesResponse {
	t.Helper()
	resp, err := client.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	return resp.Msg
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func balanceOf(resp *api.GetBalancesResponse, name string) float64 {
	for _, b := range resp.Members {
		if b.Name == name {
			return b.NetBalance
		}
	}
	return math.NaN()
}

func TestCreateGroup(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))

	group := createGroup(t, srv.client, &api.CreateGroupRequest{
		Name:          "Roommates",
		Description:   "flat 3b",
		Currency:      "usd",
		Members:       []string{"Alice", "Bob", "Charlie"},
		ExchangeRates: map[string]float64{"EUR": 0.84},
	})

	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", group.Name)
	}
	if group.Currency != "USD" {
		t.Errorf("currency: expected USD, got %s", group.Currency)
	}
	if len(group.Members) != 3 || group.Members[0].Name != "Alice" {
		t.Errorf("members: unexpected %+v", group.Members)
	}
	if group.ExchangeRates["EUR"] != 0.84 {
		t.Errorf("exchange rates: unexpected %v", group.ExchangeRates)
	}
	if group.CreatedAt.IsZero() {
		t.Error("expected non-zero CreatedAt")
	}

	if got := srv.publisher.types(); len(got) != 1 || got[0] != events.GroupCreated {
		t.Errorf("events: expected [group.created], got %v", got)
	}
}

func TestCreateGroup_DefaultsToEuro(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))

	group := createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Trip"})
	if group.Currency != "EUR" {
		t.Errorf("currency: expected EUR, got %s", group.Currency)
	}
	if len(group.Members) != 0 || len(group.Entries) != 0 {
		t.Errorf("expected empty group, got %+v", group)
	}
}

func TestCreateGroup_Invalid(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
		want connect.Code
	}{
		{"blank name", &api.CreateGroupRequest{Name: "  "}, connect.CodeInvalidArgument},
		{"unknown currency", &api.CreateGroupRequest{Name: "x", Currency: "XYZ"}, connect.CodeInvalidArgument},
		{"duplicate member", &api.CreateGroupRequest{Name: "x", Members: []string{"A", "A"}}, connect.CodeAlreadyExists},
		{"blank member", &api.CreateGroupRequest{Name: "x", Members: []string{""}}, connect.CodeInvalidArgument},
		{"rate for base", &api.CreateGroupRequest{Name: "x", ExchangeRates: map[string]float64{"EUR": 1}}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.client.CreateGroup(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, tt.want)
		})
	}

	resp, err := srv.client.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 0 {
		t.Errorf("rejected groups must not be stored, found %d", len(resp.Msg.Groups))
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))

	_, err := srv.client.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{GroupID: "nonexistent-id"}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = srv.client.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestListGroups(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))

	createGroup(t, srv.client, &api.CreateGroupRequest{Name: "One", Members: []string{"A"}})
	createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Two", Members: []string{"A", "B"}})

	resp, err := srv.client.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(resp.Msg.Groups))
	}

	counts := map[string]int{}
	for _, g := range resp.Msg.Groups {
		counts[g.Name] = g.MembersCount
	}
	if counts["One"] != 1 || counts["Two"] != 2 {
		t.Errorf("unexpected member counts: %v", counts)
	}
}

func TestDeleteGroup(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))
	ctx := context.Background()

	group := createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Temp"})

	if _, err := srv.client.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err := srv.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = srv.client.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestAddMember(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))
	ctx := context.Background()

	group := createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Trip", Members: []string{"Alice"}})

	resp, err := srv.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, Name: "Bob"}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if resp.Msg.Member.Name != "Bob" {
		t.Errorf("expected Bob, got %s", resp.Msg.Member.Name)
	}

	_, err = srv.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, Name: "Bob"}))
	expectCode(t, err, connect.CodeAlreadyExists)

	_, err = srv.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, Name: " "}))
	expectCode(t, err, connect.CodeInvalidArgument)

	got, err := srv.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Msg.Group.Members) != 2 {
		t.Errorf("expected 2 members after rejected adds, got %d", len(got.Msg.Group.Members))
	}
}

func TestAddMember_FileWithoutID(t *testing.T) {
	dir := t.TempDir()
	doc := `{"name": "Trip", "currency": "EUR", "members": [{"name": "Alice", "stamp": "23.06.2021 07:53:55"}], "stamp": "23.06.2021 07:53:55"}`
	if err := os.WriteFile(filepath.Join(dir, "trip.json"), []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write group file: %v", err)
	}
	store, err := jsonfile.New(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	srv := setupTestServer(t, store)
	ctx := context.Background()

	if _, err := srv.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: "trip", Name: "Bob"})); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	got, err := srv.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "trip"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Msg.Group.ID != "trip" {
		t.Errorf("expected id trip, got %q", got.Msg.Group.ID)
	}
	if len(got.Msg.Group.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(got.Msg.Group.Members))
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(files) != 1 || files[0].Name() != "trip.json" {
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Name())
		}
		t.Errorf("expected only trip.json, got %v", names)
	}
}

func TestBalancesAndSettlement(t *testing.T) {
	backends := []struct {
		name  string
		store func(*testing.T) storage.Store
	}{
		{"sqlite", newSQLiteStore},
		{"jsonfile", newJSONStore},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			srv := setupTestServer(t, backend.store(t))
			ctx := context.Background()

			group := createGroup(t, srv.client, &api.CreateGroupRequest{
				Name:    "Trip",
				Members: []string{"A", "B", "C"},
			})

			_, err := srv.client.AddPurchase(ctx, connect.NewRequest(&api.AddPurchaseRequest{
				GroupID:    group.ID,
				Title:      "Groceries",
				Payer:      "A",
				Recipients: []string{"A", "B", "C"},
				Amount:     90,
			}))
			if err != nil {
				t.Fatalf("AddPurchase failed: %v", err)
			}

			bal := getBalances(t, srv.client, group.ID)
			for name, want := range map[string]float64{"A": 60, "B": -30, "C": -30} {
				if got := balanceOf(bal, name); math.Abs(got-want) > tolerance {
					t.Errorf("balance %s: expected %.2f, got %.2f", name, want, got)
				}
			}
			if len(bal.Pending) != 2 {
				t.Fatalf("expected 2 pending balances, got %d", len(bal.Pending))
			}
			for _, p := range bal.Pending {
				if p.To != "A" || math.Abs(p.Amount-30) > tolerance {
					t.Errorf("unexpected pending balance %+v", p)
				}
			}
			if math.Abs(bal.Turnover-90) > tolerance {
				t.Errorf("turnover: expected 90, got %f", bal.Turnover)
			}

			settled, err := srv.client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{
				GroupID: group.ID,
				From:    "B",
				To:      "A",
			}))
			if err != nil {
				t.Fatalf("SettleUp failed: %v", err)
			}
			if len(settled.Msg.Transfers) != 1 || settled.Msg.Transfers[0].Title != "balance" {
				t.Fatalf("unexpected transfers: %+v", settled.Msg.Transfers)
			}

			bal = getBalances(t, srv.client, group.ID)
			if len(bal.Pending) != 1 || bal.Pending[0].From != "C" {
				t.Fatalf("expected only C to owe, got %+v", bal.Pending)
			}

			if _, err := srv.client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{GroupID: group.ID, All: true})); err != nil {
				t.Fatalf("SettleUp all failed: %v", err)
			}

			bal = getBalances(t, srv.client, group.ID)
			if len(bal.Pending) != 0 {
				t.Errorf("expected settled group, got %+v", bal.Pending)
			}
			for _, b := range bal.Members {
				if math.Abs(b.NetBalance) > tolerance {
					t.Errorf("balance %s: expected 0, got %f", b.Name, b.NetBalance)
				}
			}

			if got := testutil.ToFloat64(srv.metrics.Settlements); got != 2 {
				t.Errorf("settlements metric: expected 2, got %v", got)
			}
		})
	}
}

func TestAddPurchase_Currency(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))
	ctx := context.Background()

	group := createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Trip", Members: []string{"A", "B"}})

	purchase := &api.AddPurchaseRequest{
		GroupID:    group.ID,
		Payer:      "A",
		Recipients: []string{"A", "B"},
		Amount:     119,
		Currency:   "USD",
	}

	_, err := srv.client.AddPurchase(ctx, connect.NewRequest(purchase))
	expectCode(t, err, connect.CodeFailedPrecondition)

	if _, err := srv.client.SetExchangeRate(ctx, connect.NewRequest(&api.SetExchangeRateRequest{
		GroupID: group.ID, Currency: "USD", Rate: 1.19,
	})); err != nil {
		t.Fatalf("SetExchangeRate failed: %v", err)
	}

	resp, err := srv.client.AddPurchase(ctx, connect.NewRequest(purchase))
	if err != nil {
		t.Fatalf("AddPurchase failed: %v", err)
	}
	entry := resp.Msg.Entry
	if entry.Amount != 119 || entry.Currency != "USD" {
		t.Errorf("entry must keep its own currency, got %.2f %s", entry.Amount, entry.Currency)
	}
	if math.Abs(entry.ConvertedAmount-100) > tolerance {
		t.Errorf("converted amount: expected 100, got %f", entry.ConvertedAmount)
	}
	if math.Abs(entry.Shares["A"]-50) > tolerance || math.Abs(entry.Shares["B"]-50) > tolerance {
		t.Errorf("shares: expected 50 each, got %v", entry.Shares)
	}
	if entry.Title != "untitled" {
		t.Errorf("title: expected default, got %q", entry.Title)
	}

	bal := getBalances(t, srv.client, group.ID)
	if got := balanceOf(bal, "B"); math.Abs(got+50) > tolerance {
		t.Errorf("balance B: expected -50, got %f", got)
	}

	_, err = srv.client.SetExchangeRate(ctx, connect.NewRequest(&api.SetExchangeRateRequest{
		GroupID: group.ID, Currency: "USD", Remove: true,
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = srv.client.SetExchangeRate(ctx, connect.NewRequest(&api.SetExchangeRateRequest{
		GroupID: group.ID, Currency: "GBP", Rate: -2,
	}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestAddPurchase_Invalid(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))
	ctx := context.Background()

	group := createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Trip", Members: []string{"A", "B"}})

	tests := []struct {
		name string
		req  *api.AddPurchaseRequest
		want connect.Code
	}{
		{"unknown payer", &api.AddPurchaseRequest{GroupID: group.ID, Payer: "X", Recipients: []string{"A"}, Amount: 1}, connect.CodeInvalidArgument},
		{"unknown recipient", &api.AddPurchaseRequest{GroupID: group.ID, Payer: "A", Recipients: []string{"B", "X"}, Amount: 1}, connect.CodeInvalidArgument},
		{"no recipients", &api.AddPurchaseRequest{GroupID: group.ID, Payer: "A", Amount: 1}, connect.CodeInvalidArgument},
		{"negative amount", &api.AddPurchaseRequest{GroupID: group.ID, Payer: "A", Recipients: []string{"B"}, Amount: -5}, connect.CodeInvalidArgument},
		{"unknown currency", &api.AddPurchaseRequest{GroupID: group.ID, Payer: "A", Recipients: []string{"B"}, Amount: 1, Currency: "XYZ"}, connect.CodeInvalidArgument},
		{"unknown group", &api.AddPurchaseRequest{GroupID: "missing", Payer: "A", Recipients: []string{"B"}, Amount: 1}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.client.AddPurchase(ctx, connect.NewRequest(tt.req))
			expectCode(t, err, tt.want)
		})
	}

	got, err := srv.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Msg.Group.Entries) != 0 {
		t.Errorf("rejected entries must not be saved, found %d", len(got.Msg.Group.Entries))
	}
}

func TestUpdateAndRemoveEntry(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))
	ctx := context.Background()

	group := createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Trip", Members: []string{"A", "B"}})

	added, err := srv.client.AddTransfer(ctx, connect.NewRequest(&api.AddTransferRequest{
		GroupID:   group.ID,
		Title:     "Loan",
		Payer:     "A",
		Recipient: "B",
		Amount:    20,
	}))
	if err != nil {
		t.Fatalf("AddTransfer failed: %v", err)
	}
	entryID := added.Msg.Entry.ID
	if added.Msg.Entry.Kind != "transfer" {
		t.Errorf("kind: expected transfer, got %s", added.Msg.Entry.Kind)
	}

	amount := 50.0
	title := "Bigger loan"
	date := time.Date(2021, 6, 20, 0, 0, 0, 0, time.UTC)
	updated, err := srv.client.UpdateEntry(ctx, connect.NewRequest(&api.UpdateEntryRequest{
		GroupID: group.ID,
		EntryID: entryID,
		Title:   &title,
		Amount:  &amount,
		Date:    &date,
	}))
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if updated.Msg.Entry.Title != title || updated.Msg.Entry.Amount != 50 {
		t.Errorf("unexpected entry after update: %+v", updated.Msg.Entry)
	}
	if !updated.Msg.Entry.Date.Equal(date) {
		t.Errorf("date: expected %v, got %v", date, updated.Msg.Entry.Date)
	}

	bal := getBalances(t, srv.client, group.ID)
	if got := balanceOf(bal, "A"); math.Abs(got-50) > tolerance {
		t.Errorf("balance A: expected 50, got %f", got)
	}

	_, err = srv.client.UpdateEntry(ctx, connect.NewRequest(&api.UpdateEntryRequest{GroupID: group.ID, EntryID: "missing"}))
	expectCode(t, err, connect.CodeNotFound)

	if _, err := srv.client.RemoveEntry(ctx, connect.NewRequest(&api.RemoveEntryRequest{GroupID: group.ID, EntryID: entryID})); err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}

	bal = getBalances(t, srv.client, group.ID)
	if len(bal.Pending) != 0 {
		t.Errorf("expected no pending balances after removal, got %+v", bal.Pending)
	}

	_, err = srv.client.RemoveEntry(ctx, connect.NewRequest(&api.RemoveEntryRequest{GroupID: group.ID, EntryID: entryID}))
	expectCode(t, err, connect.CodeNotFound)

	want := []events.Type{events.GroupCreated, events.EntryAdded, events.EntryUpdated, events.EntryRemoved}
	got := srv.publisher.types()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events: expected %v, got %v", want, got)
	}
}

func TestSettleUp_Invalid(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))
	ctx := context.Background()

	group := createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Trip", Members: []string{"A", "B"}})

	_, err := srv.client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{GroupID: group.ID, From: "A"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = srv.client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{GroupID: group.ID, From: "B", To: "A"}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	resp, err := srv.client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{GroupID: group.ID, All: true}))
	if err != nil {
		t.Fatalf("SettleUp on settled group failed: %v", err)
	}
	if len(resp.Msg.Transfers) != 0 {
		t.Errorf("expected no transfers, got %d", len(resp.Msg.Transfers))
	}
}

func TestConcurrentPurchases(t *testing.T) {
	srv := setupTestServer(t, newSQLiteStore(t))
	ctx := context.Background()

	group := createGroup(t, srv.client, &api.CreateGroupRequest{Name: "Busy", Members: []string{"A", "B"}})

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := srv.client.AddPurchase(ctx, connect.NewRequest(&api.AddPurchaseRequest{
				GroupID:    group.ID,
				Payer:      "A",
				Recipients: []string{"B"},
				Amount:     1,
			}))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("AddPurchase failed: %v", err)
		}
	}

	got, err := srv.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Msg.Group.Entries) != n {
		t.Errorf("expected %d entries, got %d", n, len(got.Msg.Group.Entries))
	}
	if math.Abs(got.Msg.Group.Turnover-n) > tolerance {
		t.Errorf("turnover: expected %d, got %f", n, got.Msg.Group.Turnover)
	}
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	srv := setupTestServer(t, newSQLiteStore(t),
		connect.WithInterceptors(middleware.RequireAuth(manager)),
	)
	ctx := context.Background()

	_, err := srv.client.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)

	token, err := manager.Generate("tester")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	req := connect.NewRequest(&api.ListGroupsRequest{})
	req.Header().Set("Authorization", "Bearer "+token)
	if _, err := srv.client.ListGroups(ctx, req); err != nil {
		t.Fatalf("ListGroups with token failed: %v", err)
	}

	create := connect.NewRequest(&api.CreateGroupRequest{Name: "Trip", Members: []string{"A"}})
	create.Header().Set("Authorization", "Bearer "+token)
	created, err := srv.client.CreateGroup(ctx, create)
	if err != nil {
		t.Fatalf("CreateGroup with token failed: %v", err)
	}
	groupID := created.Msg.Group.ID

	scoped, err := manager.Generate("guest", groupID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	balances := connect.NewRequest(&api.GetBalancesRequest{GroupID: groupID})
	balances.Header().Set("Authorization", "Bearer "+scoped)
	if _, err := srv.client.GetBalances(ctx, balances); err != nil {
		t.Fatalf("GetBalances with scoped token failed: %v", err)
	}

	other := connect.NewRequest(&api.GetBalancesRequest{GroupID: "some-other-group"})
	other.Header().Set("Authorization", "Bearer "+scoped)
	_, err = srv.client.GetBalances(ctx, other)
	expectCode(t, err, connect.CodePermissionDenied)

	list := connect.NewRequest(&api.ListGroupsRequest{})
	list.Header().Set("Authorization", "Bearer "+scoped)
	_, err = srv.client.ListGroups(ctx, list)
	expectCode(t, err, connect.CodePermissionDenied)
}
