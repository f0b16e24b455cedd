package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "fairshare.v1.LedgerService"

// Procedure paths, as mounted on an http.ServeMux.
const (
	LedgerServiceCreateGroupProcedure      = "/fairshare.v1.LedgerService/CreateGroup"
	LedgerServiceGetGroupProcedure         = "/fairshare.v1.LedgerService/GetGroup"
	LedgerServiceListGroupsProcedure       = "/fairshare.v1.LedgerService/ListGroups"
	LedgerServiceRenameGroupProcedure      = "/fairshare.v1.LedgerService/RenameGroup"
	LedgerServiceDeleteGroupProcedure      = "/fairshare.v1.LedgerService/DeleteGroup"
	LedgerServiceAddMemberProcedure        = "/fairshare.v1.LedgerService/AddMember"
	LedgerServiceAddExpenseProcedure       = "/fairshare.v1.LedgerService/AddExpense"
	LedgerServiceListExpensesProcedure     = "/fairshare.v1.LedgerService/ListExpenses"
	LedgerServiceDeleteExpenseProcedure    = "/fairshare.v1.LedgerService/DeleteExpense"
	LedgerServiceRecordSettlementProcedure = "/fairshare.v1.LedgerService/RecordSettlement"
	LedgerServiceListSettlementsProcedure  = "/fairshare.v1.LedgerService/ListSettlements"
	LedgerServiceDeleteSettlementProcedure = "/fairshare.v1.LedgerService/DeleteSettlement"
	LedgerServiceGetGroupBalancesProcedure = "/fairshare.v1.LedgerService/GetGroupBalances"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService.
type LedgerServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	RenameGroup(context.Context, *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error)
	GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	handlers := map[string]http.Handler{
		LedgerServiceCreateGroupProcedure:      connect.NewUnaryHandler(LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		LedgerServiceGetGroupProcedure:         connect.NewUnaryHandler(LedgerServiceGetGroupProcedure, svc.GetGroup, opts...),
		LedgerServiceListGroupsProcedure:       connect.NewUnaryHandler(LedgerServiceListGroupsProcedure, svc.ListGroups, opts...),
		LedgerServiceRenameGroupProcedure:      connect.NewUnaryHandler(LedgerServiceRenameGroupProcedure, svc.RenameGroup, opts...),
		LedgerServiceDeleteGroupProcedure:      connect.NewUnaryHandler(LedgerServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		LedgerServiceAddMemberProcedure:        connect.NewUnaryHandler(LedgerServiceAddMemberProcedure, svc.AddMember, opts...),
		LedgerServiceAddExpenseProcedure:       connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...),
		LedgerServiceListExpensesProcedure:     connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceDeleteExpenseProcedure:    connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		LedgerServiceRecordSettlementProcedure: connect.NewUnaryHandler(LedgerServiceRecordSettlementProcedure, svc.RecordSettlement, opts...),
		LedgerServiceListSettlementsProcedure:  connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...),
		LedgerServiceDeleteSettlementProcedure: connect.NewUnaryHandler(LedgerServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...),
		LedgerServiceGetGroupBalancesProcedure: connect.NewUnaryHandler(LedgerServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient struct {
	createGroup      *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup         *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups       *connect.Client[ListGroupsRequest, ListGroupsResponse]
	renameGroup      *connect.Client[RenameGroupRequest, RenameGroupResponse]
	deleteGroup      *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
	addMember        *connect.Client[AddMemberRequest, AddMemberResponse]
	addExpense       *connect.Client[AddExpenseRequest, AddExpenseResponse]
	listExpenses     *connect.Client[ListExpensesRequest, ListExpensesResponse]
	deleteExpense    *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	recordSettlement *connect.Client[RecordSettlementRequest, RecordSettlementResponse]
	listSettlements  *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	deleteSettlement *connect.Client[DeleteSettlementRequest, DeleteSettlementResponse]
	getGroupBalances *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)

	return &LedgerServiceClient{
		createGroup:      connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+LedgerServiceCreateGroupProcedure, opts...),
		getGroup:         connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+LedgerServiceGetGroupProcedure, opts...),
		listGroups:       connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+LedgerServiceListGroupsProcedure, opts...),
		renameGroup:      connect.NewClient[RenameGroupRequest, RenameGroupResponse](httpClient, baseURL+LedgerServiceRenameGroupProcedure, opts...),
		deleteGroup:      connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+LedgerServiceDeleteGroupProcedure, opts...),
		addMember:        connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL+LedgerServiceAddMemberProcedure, opts...),
		addExpense:       connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		listExpenses:     connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		deleteExpense:    connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		recordSettlement: connect.NewClient[RecordSettlementRequest, RecordSettlementResponse](httpClient, baseURL+LedgerServiceRecordSettlementProcedure, opts...),
		listSettlements:  connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		deleteSettlement: connect.NewClient[DeleteSettlementRequest, DeleteSettlementResponse](httpClient, baseURL+LedgerServiceDeleteSettlementProcedure, opts...),
		getGroupBalances: connect.NewClient[GetGroupBalancesRequest, GetGroupBalancesResponse](httpClient, baseURL+LedgerServiceGetGroupBalancesProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RenameGroup(ctx context.Context, req *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error) {
	return c.renameGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}
