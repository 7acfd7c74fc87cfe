// Package api defines the LedgerService RPC surface: request and response
// messages, procedure names, and the Connect handler and client constructors.
// Messages are plain structs sent with a JSON codec.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "splitpool.v1.LedgerService"
)

// Procedure paths, mounted under "/" + LedgerServiceName + "/".
const (
	LedgerServiceCreateGroupProcedure     = "/splitpool.v1.LedgerService/CreateGroup"
	LedgerServiceGetGroupProcedure        = "/splitpool.v1.LedgerService/GetGroup"
	LedgerServiceListGroupsProcedure      = "/splitpool.v1.LedgerService/ListGroups"
	LedgerServiceDeleteGroupProcedure     = "/splitpool.v1.LedgerService/DeleteGroup"
	LedgerServiceAddMemberProcedure       = "/splitpool.v1.LedgerService/AddMember"
	LedgerServiceAddPurchaseProcedure     = "/splitpool.v1.LedgerService/AddPurchase"
	LedgerServiceAddTransferProcedure     = "/splitpool.v1.LedgerService/AddTransfer"
	LedgerServiceUpdateEntryProcedure     = "/splitpool.v1.LedgerService/UpdateEntry"
	LedgerServiceRemoveEntryProcedure     = "/splitpool.v1.LedgerService/RemoveEntry"
	LedgerServiceSetExchangeRateProcedure = "/splitpool.v1.LedgerService/SetExchangeRate"
	LedgerServiceGetBalancesProcedure     = "/splitpool.v1.LedgerService/GetBalances"
	LedgerServiceSettleUpProcedure        = "/splitpool.v1.LedgerService/SettleUp"
)

// LedgerServiceHandler is implemented by the server.
type LedgerServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	AddPurchase(context.Context, *connect.Request[AddPurchaseRequest]) (*connect.Response[AddPurchaseResponse], error)
	AddTransfer(context.Context, *connect.Request[AddTransferRequest]) (*connect.Response[AddTransferResponse], error)
	UpdateEntry(context.Context, *connect.Request[UpdateEntryRequest]) (*connect.Response[UpdateEntryResponse], error)
	RemoveEntry(context.Context, *connect.Request[RemoveEntryRequest]) (*connect.Response[RemoveEntryResponse], error)
	SetExchangeRate(context.Context, *connect.Request[SetExchangeRateRequest]) (*connect.Response[SetExchangeRateResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself. The JSON codec is always installed.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	handlers := map[string]http.Handler{
		LedgerServiceCreateGroupProcedure:     connect.NewUnaryHandler(LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		LedgerServiceGetGroupProcedure:        connect.NewUnaryHandler(LedgerServiceGetGroupProcedure, svc.GetGroup, opts...),
		LedgerServiceListGroupsProcedure:      connect.NewUnaryHandler(LedgerServiceListGroupsProcedure, svc.ListGroups, opts...),
		LedgerServiceDeleteGroupProcedure:     connect.NewUnaryHandler(LedgerServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		LedgerServiceAddMemberProcedure:       connect.NewUnaryHandler(LedgerServiceAddMemberProcedure, svc.AddMember, opts...),
		LedgerServiceAddPurchaseProcedure:     connect.NewUnaryHandler(LedgerServiceAddPurchaseProcedure, svc.AddPurchase, opts...),
		LedgerServiceAddTransferProcedure:     connect.NewUnaryHandler(LedgerServiceAddTransferProcedure, svc.AddTransfer, opts...),
		LedgerServiceUpdateEntryProcedure:     connect.NewUnaryHandler(LedgerServiceUpdateEntryProcedure, svc.UpdateEntry, opts...),
		LedgerServiceRemoveEntryProcedure:     connect.NewUnaryHandler(LedgerServiceRemoveEntryProcedure, svc.RemoveEntry, opts...),
		LedgerServiceSetExchangeRateProcedure: connect.NewUnaryHandler(LedgerServiceSetExchangeRateProcedure, svc.SetExchangeRate, opts...),
		LedgerServiceGetBalancesProcedure:     connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceSettleUpProcedure:        connect.NewUnaryHandler(LedgerServiceSettleUpProcedure, svc.SettleUp, opts...),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// LedgerServiceClient is a client for the LedgerService service.
type LedgerServiceClient interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	AddPurchase(context.Context, *connect.Request[AddPurchaseRequest]) (*connect.Response[AddPurchaseResponse], error)
	AddTransfer(context.Context, *connect.Request[AddTransferRequest]) (*connect.Response[AddTransferResponse], error)
	UpdateEntry(context.Context, *connect.Request[UpdateEntryRequest]) (*connect.Response[UpdateEntryResponse], error)
	RemoveEntry(context.Context, *connect.Request[RemoveEntryRequest]) (*connect.Response[RemoveEntryResponse], error)
	SetExchangeRate(context.Context, *connect.Request[SetExchangeRateRequest]) (*connect.Response[SetExchangeRateResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService service
// at baseURL, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &ledgerServiceClient{
		createGroup:     connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+LedgerServiceCreateGroupProcedure, opts...),
		getGroup:        connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+LedgerServiceGetGroupProcedure, opts...),
		listGroups:      connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+LedgerServiceListGroupsProcedure, opts...),
		deleteGroup:     connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+LedgerServiceDeleteGroupProcedure, opts...),
		addMember:       connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL+LedgerServiceAddMemberProcedure, opts...),
		addPurchase:     connect.NewClient[AddPurchaseRequest, AddPurchaseResponse](httpClient, baseURL+LedgerServiceAddPurchaseProcedure, opts...),
		addTransfer:     connect.NewClient[AddTransferRequest, AddTransferResponse](httpClient, baseURL+LedgerServiceAddTransferProcedure, opts...),
		updateEntry:     connect.NewClient[UpdateEntryRequest, UpdateEntryResponse](httpClient, baseURL+LedgerServiceUpdateEntryProcedure, opts...),
		removeEntry:     connect.NewClient[RemoveEntryRequest, RemoveEntryResponse](httpClient, baseURL+LedgerServiceRemoveEntryProcedure, opts...),
		setExchangeRate: connect.NewClient[SetExchangeRateRequest, SetExchangeRateResponse](httpClient, baseURL+LedgerServiceSetExchangeRateProcedure, opts...),
		getBalances:     connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		settleUp:        connect.NewClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL+LedgerServiceSettleUpProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createGroup     *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup        *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups      *connect.Client[ListGroupsRequest, ListGroupsResponse]
	deleteGroup     *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
	addMember       *connect.Client[AddMemberRequest, AddMemberResponse]
	addPurchase     *connect.Client[AddPurchaseRequest, AddPurchaseResponse]
	addTransfer     *connect.Client[AddTransferRequest, AddTransferResponse]
	updateEntry     *connect.Client[UpdateEntryRequest, UpdateEntryResponse]
	removeEntry     *connect.Client[RemoveEntryRequest, RemoveEntryResponse]
	setExchangeRate *connect.Client[SetExchangeRateRequest, SetExchangeRateResponse]
	getBalances     *connect.Client[GetBalancesRequest, GetBalancesResponse]
	settleUp        *connect.Client[SettleUpRequest, SettleUpResponse]
}

func (c *ledgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddPurchase(ctx context.Context, req *connect.Request[AddPurchaseRequest]) (*connect.Response[AddPurchaseResponse], error) {
	return c.addPurchase.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddTransfer(ctx context.Context, req *connect.Request[AddTransferRequest]) (*connect.Response[AddTransferResponse], error) {
	return c.addTransfer.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateEntry(ctx context.Context, req *connect.Request[UpdateEntryRequest]) (*connect.Response[UpdateEntryResponse], error) {
	return c.updateEntry.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveEntry(ctx context.Context, req *connect.Request[RemoveEntryRequest]) (*connect.Response[RemoveEntryResponse], error) {
	return c.removeEntry.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SetExchangeRate(ctx context.Context, req *connect.Request[SetExchangeRateRequest]) (*connect.Response[SetExchangeRateResponse], error) {
	return c.setExchangeRate.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

var errUnimplemented = errors.New("not implemented")

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) AddPurchase(context.Context, *connect.Request[AddPurchaseRequest]) (*connect.Response[AddPurchaseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) AddTransfer(context.Context, *connect.Request[AddTransferRequest]) (*connect.Response[AddTransferResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) UpdateEntry(context.Context, *connect.Request[UpdateEntryRequest]) (*connect.Response[UpdateEntryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) RemoveEntry(context.Context, *connect.Request[RemoveEntryRequest]) (*connect.Response[RemoveEntryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) SetExchangeRate(context.Context, *connect.Request[SetExchangeRateRequest]) (*connect.Response[SetExchangeRateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}
