package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// TableServiceName is the fully-qualified name of the TableService service.
const TableServiceName = "tablesplit.v1.TableService"

// Procedure paths for TableService RPCs.
const (
	TableServiceCreateTableProcedure     = "/" + TableServiceName + "/CreateTable"
	TableServiceGetTableProcedure        = "/" + TableServiceName + "/GetTable"
	TableServiceJoinTableProcedure       = "/" + TableServiceName + "/JoinTable"
	TableServiceSetConnectedProcedure    = "/" + TableServiceName + "/SetConnected"
	TableServiceListMenuProcedure        = "/" + TableServiceName + "/ListMenu"
	TableServiceAddOrderLineProcedure    = "/" + TableServiceName + "/AddOrderLine"
	TableServiceUpdateQuantityProcedure  = "/" + TableServiceName + "/UpdateQuantity"
	TableServiceSetSharingProcedure      = "/" + TableServiceName + "/SetSharing"
	TableServiceAssignOrderLineProcedure = "/" + TableServiceName + "/AssignOrderLine"
	TableServiceSetTipProcedure          = "/" + TableServiceName + "/SetTip"
	TableServiceGetBreakdownProcedure    = "/" + TableServiceName + "/GetBreakdown"
	TableServiceStartCheckoutProcedure   = "/" + TableServiceName + "/StartCheckout"
	TableServiceConfirmSplitProcedure    = "/" + TableServiceName + "/ConfirmSplit"
	TableServiceRequestChangeProcedure   = "/" + TableServiceName + "/RequestChange"
	TableServiceSettleUpProcedure        = "/" + TableServiceName + "/SettleUp"
	TableServiceCloseTableProcedure      = "/" + TableServiceName + "/CloseTable"
)

// TableServiceHandler is implemented by the server side of TableService.
type TableServiceHandler interface {
	CreateTable(context.Context, *connect.Request[CreateTableRequest]) (*connect.Response[CreateTableResponse], error)
	GetTable(context.Context, *connect.Request[GetTableRequest]) (*connect.Response[GetTableResponse], error)
	JoinTable(context.Context, *connect.Request[JoinTableRequest]) (*connect.Response[JoinTableResponse], error)
	SetConnected(context.Context, *connect.Request[SetConnectedRequest]) (*connect.Response[SetConnectedResponse], error)
	ListMenu(context.Context, *connect.Request[ListMenuRequest]) (*connect.Response[ListMenuResponse], error)
	AddOrderLine(context.Context, *connect.Request[AddOrderLineRequest]) (*connect.Response[OrderLineResponse], error)
	UpdateQuantity(context.Context, *connect.Request[UpdateQuantityRequest]) (*connect.Response[OrderLineResponse], error)
	SetSharing(context.Context, *connect.Request[SetSharingRequest]) (*connect.Response[OrderLineResponse], error)
	AssignOrderLine(context.Context, *connect.Request[AssignOrderLineRequest]) (*connect.Response[OrderLineResponse], error)
	SetTip(context.Context, *connect.Request[SetTipRequest]) (*connect.Response[SetTipResponse], error)
	GetBreakdown(context.Context, *connect.Request[GetBreakdownRequest]) (*connect.Response[GetBreakdownResponse], error)
	StartCheckout(context.Context, *connect.Request[StartCheckoutRequest]) (*connect.Response[StartCheckoutResponse], error)
	ConfirmSplit(context.Context, *connect.Request[ConfirmSplitRequest]) (*connect.Response[ConfirmSplitResponse], error)
	RequestChange(context.Context, *connect.Request[RequestChangeRequest]) (*connect.Response[RequestChangeResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
	CloseTable(context.Context, *connect.Request[CloseTableRequest]) (*connect.Response[CloseTableResponse], error)
}

// NewTableServiceHandler builds an HTTP handler for every TableService RPC.
// It returns the path to mount the handler on.
func NewTableServiceHandler(svc TableServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(TableServiceCreateTableProcedure, connect.NewUnaryHandler(TableServiceCreateTableProcedure, svc.CreateTable, opts...))
	mux.Handle(TableServiceGetTableProcedure, connect.NewUnaryHandler(TableServiceGetTableProcedure, svc.GetTable, opts...))
	mux.Handle(TableServiceJoinTableProcedure, connect.NewUnaryHandler(TableServiceJoinTableProcedure, svc.JoinTable, opts...))
	mux.Handle(TableServiceSetConnectedProcedure, connect.NewUnaryHandler(TableServiceSetConnectedProcedure, svc.SetConnected, opts...))
	mux.Handle(TableServiceListMenuProcedure, connect.NewUnaryHandler(TableServiceListMenuProcedure, svc.ListMenu, opts...))
	mux.Handle(TableServiceAddOrderLineProcedure, connect.NewUnaryHandler(TableServiceAddOrderLineProcedure, svc.AddOrderLine, opts...))
	mux.Handle(TableServiceUpdateQuantityProcedure, connect.NewUnaryHandler(TableServiceUpdateQuantityProcedure, svc.UpdateQuantity, opts...))
	mux.Handle(TableServiceSetSharingProcedure, connect.NewUnaryHandler(TableServiceSetSharingProcedure, svc.SetSharing, opts...))
	mux.Handle(TableServiceAssignOrderLineProcedure, connect.NewUnaryHandler(TableServiceAssignOrderLineProcedure, svc.AssignOrderLine, opts...))
	mux.Handle(TableServiceSetTipProcedure, connect.NewUnaryHandler(TableServiceSetTipProcedure, svc.SetTip, opts...))
	mux.Handle(TableServiceGetBreakdownProcedure, connect.NewUnaryHandler(TableServiceGetBreakdownProcedure, svc.GetBreakdown, opts...))
	mux.Handle(TableServiceStartCheckoutProcedure, connect.NewUnaryHandler(TableServiceStartCheckoutProcedure, svc.StartCheckout, opts...))
	mux.Handle(TableServiceConfirmSplitProcedure, connect.NewUnaryHandler(TableServiceConfirmSplitProcedure, svc.ConfirmSplit, opts...))
	mux.Handle(TableServiceRequestChangeProcedure, connect.NewUnaryHandler(TableServiceRequestChangeProcedure, svc.RequestChange, opts...))
	mux.Handle(TableServiceSettleUpProcedure, connect.NewUnaryHandler(TableServiceSettleUpProcedure, svc.SettleUp, opts...))
	mux.Handle(TableServiceCloseTableProcedure, connect.NewUnaryHandler(TableServiceCloseTableProcedure, svc.CloseTable, opts...))

	return "/" + TableServiceName + "/", mux
}

// TableServiceClient is a typed client for TableService.
type TableServiceClient struct {
	createTable     *connect.Client[CreateTableRequest, CreateTableResponse]
	getTable        *connect.Client[GetTableRequest, GetTableResponse]
	joinTable       *connect.Client[JoinTableRequest, JoinTableResponse]
	setConnected    *connect.Client[SetConnectedRequest, SetConnectedResponse]
	listMenu        *connect.Client[ListMenuRequest, ListMenuResponse]
	addOrderLine    *connect.Client[AddOrderLineRequest, OrderLineResponse]
	updateQuantity  *connect.Client[UpdateQuantityRequest, OrderLineResponse]
	setSharing      *connect.Client[SetSharingRequest, OrderLineResponse]
	assignOrderLine *connect.Client[AssignOrderLineRequest, OrderLineResponse]
	setTip          *connect.Client[SetTipRequest, SetTipResponse]
	getBreakdown    *connect.Client[GetBreakdownRequest, GetBreakdownResponse]
	startCheckout   *connect.Client[StartCheckoutRequest, StartCheckoutResponse]
	confirmSplit    *connect.Client[ConfirmSplitRequest, ConfirmSplitResponse]
	requestChange   *connect.Client[RequestChangeRequest, RequestChangeResponse]
	settleUp        *connect.Client[SettleUpRequest, SettleUpResponse]
	closeTable      *connect.Client[CloseTableRequest, CloseTableResponse]
}

// NewTableServiceClient creates a client for the TableService at baseURL
// (e.g. http://localhost:8080).
func NewTableServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TableServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &TableServiceClient{
		createTable:     connect.NewClient[CreateTableRequest, CreateTableResponse](httpClient, baseURL+TableServiceCreateTableProcedure, opts...),
		getTable:        connect.NewClient[GetTableRequest, GetTableResponse](httpClient, baseURL+TableServiceGetTableProcedure, opts...),
		joinTable:       connect.NewClient[JoinTableRequest, JoinTableResponse](httpClient, baseURL+TableServiceJoinTableProcedure, opts...),
		setConnected:    connect.NewClient[SetConnectedRequest, SetConnectedResponse](httpClient, baseURL+TableServiceSetConnectedProcedure, opts...),
		listMenu:        connect.NewClient[ListMenuRequest, ListMenuResponse](httpClient, baseURL+TableServiceListMenuProcedure, opts...),
		addOrderLine:    connect.NewClient[AddOrderLineRequest, OrderLineResponse](httpClient, baseURL+TableServiceAddOrderLineProcedure, opts...),
		updateQuantity:  connect.NewClient[UpdateQuantityRequest, OrderLineResponse](httpClient, baseURL+TableServiceUpdateQuantityProcedure, opts...),
		setSharing:      connect.NewClient[SetSharingRequest, OrderLineResponse](httpClient, baseURL+TableServiceSetSharingProcedure, opts...),
		assignOrderLine: connect.NewClient[AssignOrderLineRequest, OrderLineResponse](httpClient, baseURL+TableServiceAssignOrderLineProcedure, opts...),
		setTip:          connect.NewClient[SetTipRequest, SetTipResponse](httpClient, baseURL+TableServiceSetTipProcedure, opts...),
		getBreakdown:    connect.NewClient[GetBreakdownRequest, GetBreakdownResponse](httpClient, baseURL+TableServiceGetBreakdownProcedure, opts...),
		startCheckout:   connect.NewClient[StartCheckoutRequest, StartCheckoutResponse](httpClient, baseURL+TableServiceStartCheckoutProcedure, opts...),
		confirmSplit:    connect.NewClient[ConfirmSplitRequest, ConfirmSplitResponse](httpClient, baseURL+TableServiceConfirmSplitProcedure, opts...),
		requestChange:   connect.NewClient[RequestChangeRequest, RequestChangeResponse](httpClient, baseURL+TableServiceRequestChangeProcedure, opts...),
		settleUp:        connect.NewClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL+TableServiceSettleUpProcedure, opts...),
		closeTable:      connect.NewClient[CloseTableRequest, CloseTableResponse](httpClient, baseURL+TableServiceCloseTableProcedure, opts...),
	}
}

func (c *TableServiceClient) CreateTable(ctx context.Context, req *connect.Request[CreateTableRequest]) (*connect.Response[CreateTableResponse], error) {
	return c.createTable.CallUnary(ctx, req)
}

func (c *TableServiceClient) GetTable(ctx context.Context, req *connect.Request[GetTableRequest]) (*connect.Response[GetTableResponse], error) {
	return c.getTable.CallUnary(ctx, req)
}

func (c *TableServiceClient) JoinTable(ctx context.Context, req *connect.Request[JoinTableRequest]) (*connect.Response[JoinTableResponse], error) {
	return c.joinTable.CallUnary(ctx, req)
}

func (c *TableServiceClient) SetConnected(ctx context.Context, req *connect.Request[SetConnectedRequest]) (*connect.Response[SetConnectedResponse], error) {
	return c.setConnected.CallUnary(ctx, req)
}

func (c *TableServiceClient) ListMenu(ctx context.Context, req *connect.Request[ListMenuRequest]) (*connect.Response[ListMenuResponse], error) {
	return c.listMenu.CallUnary(ctx, req)
}

func (c *TableServiceClient) AddOrderLine(ctx context.Context, req *connect.Request[AddOrderLineRequest]) (*connect.Response[OrderLineResponse], error) {
	return c.addOrderLine.CallUnary(ctx, req)
}

func (c *TableServiceClient) UpdateQuantity(ctx context.Context, req *connect.Request[UpdateQuantityRequest]) (*connect.Response[OrderLineResponse], error) {
	return c.updateQuantity.CallUnary(ctx, req)
}

func (c *TableServiceClient) SetSharing(ctx context.Context, req *connect.Request[SetSharingRequest]) (*connect.Response[OrderLineResponse], error) {
	return c.setSharing.CallUnary(ctx, req)
}

func (c *TableServiceClient) AssignOrderLine(ctx context.Context, req *connect.Request[AssignOrderLineRequest]) (*connect.Response[OrderLineResponse], error) {
	return c.assignOrderLine.CallUnary(ctx, req)
}

func (c *TableServiceClient) SetTip(ctx context.Context, req *connect.Request[SetTipRequest]) (*connect.Response[SetTipResponse], error) {
	return c.setTip.CallUnary(ctx, req)
}

func (c *TableServiceClient) GetBreakdown(ctx context.Context, req *connect.Request[GetBreakdownRequest]) (*connect.Response[GetBreakdownResponse], error) {
	return c.getBreakdown.CallUnary(ctx, req)
}

func (c *TableServiceClient) StartCheckout(ctx context.Context, req *connect.Request[StartCheckoutRequest]) (*connect.Response[StartCheckoutResponse], error) {
	return c.startCheckout.CallUnary(ctx, req)
}

func (c *TableServiceClient) ConfirmSplit(ctx context.Context, req *connect.Request[ConfirmSplitRequest]) (*connect.Response[ConfirmSplitResponse], error) {
	return c.confirmSplit.CallUnary(ctx, req)
}

func (c *TableServiceClient) RequestChange(ctx context.Context, req *connect.Request[RequestChangeRequest]) (*connect.Response[RequestChangeResponse], error) {
	return c.requestChange.CallUnary(ctx, req)
}

func (c *TableServiceClient) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *TableServiceClient) CloseTable(ctx context.Context, req *connect.Request[CloseTableRequest]) (*connect.Response[CloseTableResponse], error) {
	return c.closeTable.CallUnary(ctx, req)
}
