package service

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/tablesplit/internal/menu"
	"github.com/mmynk/tablesplit/internal/metrics"
	"github.com/mmynk/tablesplit/internal/models"
	"github.com/mmynk/tablesplit/internal/storage/sqlite"
	"github.com/mmynk/tablesplit/pkg/api"
)

const (
	galbiID   = "1"
	bulgogiID = "2"
	nycTax    = 0.08875
)

// setupTestServer creates a test server backed by a temp SQLite database
// with the default menu loaded.
func setupTestServer(t *testing.T) (*api.TableServiceClient, *TableService, *metrics.Metrics) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "tablesplit-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := menu.Seed(context.Background(), store, menu.DefaultCatalog()); err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}

	m := metrics.New(prometheus.NewRegistry())
	svc := NewTableService(store, m, WithDefaultTaxRate(nycTax))
	path, handler := api.NewTableServiceHandler(svc)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return api.NewTableServiceClient(http.DefaultClient, server.URL), svc, m
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func createTable(t *testing.T, client *api.TableServiceClient, diners ...string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	resp, err := client.CreateTable(ctx, connect.NewRequest(&api.CreateTableRequest{Name: "Table 7"}))
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	tableID := resp.Msg.Table.ID

	ids := make([]string, len(diners))
	for i, name := range diners {
		joined, err := client.JoinTable(ctx, connect.NewRequest(&api.JoinTableRequest{TableID: tableID, Name: name}))
		if err != nil {
			t.Fatalf("JoinTable(%s) failed: %v", name, err)
		}
		ids[i] = joined.Msg.Diner.ID
	}
	return tableID, ids
}

func addLine(t *testing.T, client *api.TableServiceClient, tableID, itemID, dinerID string) *api.OrderLineResponse {
	t.Helper()
	resp, err := client.AddOrderLine(context.Background(), connect.NewRequest(&api.AddOrderLineRequest{
		TableID:    tableID,
		MenuItemID: itemID,
		DinerID:    dinerID,
	}))
	if err != nil {
		t.Fatalf("AddOrderLine failed: %v", err)
	}
	return resp.Msg
}

func findBreakdown(split api.Split, dinerID string) *api.Breakdown {
	for i := range split.Breakdowns {
		if split.Breakdowns[i].DinerID == dinerID {
			return &split.Breakdowns[i]
		}
	}
	return nil
}

func TestCreateTable(t *testing.T) {
	client, _, _ := setupTestServer(t)
	ctx := context.Background()

	resp, err := client.CreateTable(ctx, connect.NewRequest(&api.CreateTableRequest{}))
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	table := resp.Msg.Table
	if table.ID == "" {
		t.Error("expected table ID")
	}
	if table.Name == "" {
		t.Error("expected a generated table name")
	}
	if table.TaxRate != nycTax {
		t.Errorf("tax rate = %v, want default %v", table.TaxRate, nycTax)
	}
	if table.Status != string(models.TableOpen) {
		t.Errorf("status = %s, want open", table.Status)
	}

	zero := 0.0
	resp, err = client.CreateTable(ctx, connect.NewRequest(&api.CreateTableRequest{TaxRate: &zero}))
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if resp.Msg.Table.TaxRate != 0 {
		t.Errorf("tax rate = %v, want explicit 0", resp.Msg.Table.TaxRate)
	}

	negative := -0.1
	_, err = client.CreateTable(ctx, connect.NewRequest(&api.CreateTableRequest{TaxRate: &negative}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for negative tax, got %v", err)
	}
}

func TestGetTable_NotFound(t *testing.T) {
	client, _, _ := setupTestServer(t)

	_, err := client.GetTable(context.Background(), connect.NewRequest(&api.GetTableRequest{TableID: "missing"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
	_, err = client.GetTable(context.Background(), connect.NewRequest(&api.GetTableRequest{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestListMenu(t *testing.T) {
	client, _, _ := setupTestServer(t)

	resp, err := client.ListMenu(context.Background(), connect.NewRequest(&api.ListMenuRequest{}))
	if err != nil {
		t.Fatalf("ListMenu failed: %v", err)
	}
	if len(resp.Msg.Items) != len(menu.DefaultCatalog()) {
		t.Errorf("expected %d items, got %d", len(menu.DefaultCatalog()), len(resp.Msg.Items))
	}
}

func TestGetBreakdown_EmptyRoster(t *testing.T) {
	client, _, _ := setupTestServer(t)
	tableID, _ := createTable(t, client)

	resp, err := client.GetBreakdown(context.Background(), connect.NewRequest(&api.GetBreakdownRequest{TableID: tableID}))
	if err != nil {
		t.Fatalf("GetBreakdown failed: %v", err)
	}
	if len(resp.Msg.Split.Breakdowns) != 0 {
		t.Errorf("expected no breakdowns, got %d", len(resp.Msg.Split.Breakdowns))
	}
	if resp.Msg.Split.Totals.GrandTotal != 0 {
		t.Errorf("grand total = %v, want 0", resp.Msg.Split.Totals.GrandTotal)
	}
}

func TestOrderFlow(t *testing.T) {
	client, svc, m := setupTestServer(t)
	ctx := context.Background()
	tableID, ids := createTable(t, client, "Alice Kim", "Bob Park")
	alice, bob := ids[0], ids[1]

	// An unassigned individual line is charged to nobody
	galbi := addLine(t, client, tableID, galbiID, "")
	if galbi.Split.Reconciliation.Balanced {
		t.Error("expected unbalanced split with an unassigned line")
	}
	if len(galbi.Split.Reconciliation.Orphaned) != 1 {
		t.Errorf("orphaned = %v, want 1 line", galbi.Split.Reconciliation.Orphaned)
	}
	if got := testutil.ToFloat64(m.UnallocatedLines.WithLabelValues(tableID)); got != 1 {
		t.Errorf("unallocated lines metric = %v, want 1", got)
	}
	// Reads report the same state rather than adding to it
	for n := 0; n < 3; n++ {
		if _, err := client.GetBreakdown(ctx, connect.NewRequest(&api.GetBreakdownRequest{TableID: tableID})); err != nil {
			t.Fatalf("GetBreakdown failed: %v", err)
		}
	}
	if got := testutil.ToFloat64(m.UnallocatedLines.WithLabelValues(tableID)); got != 1 {
		t.Errorf("unallocated lines metric after reads = %v, want 1", got)
	}
	lineID := galbi.OrderLine.ID

	shared, err := client.SetSharing(ctx, connect.NewRequest(&api.SetSharingRequest{
		TableID: tableID, OrderLineID: lineID, Shared: true,
	}))
	if err != nil {
		t.Fatalf("SetSharing failed: %v", err)
	}
	if !shared.Msg.OrderLine.IsShared {
		t.Error("expected line to be shared")
	}
	if got := testutil.ToFloat64(m.UnallocatedLines.WithLabelValues(tableID)); got != 0 {
		t.Errorf("unallocated lines metric after sharing = %v, want 0", got)
	}

	if _, err := client.UpdateQuantity(ctx, connect.NewRequest(&api.UpdateQuantityRequest{
		TableID: tableID, OrderLineID: lineID, Quantity: 2,
	})); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	resp := addLine(t, client, tableID, bulgogiID, alice)

	tests := []struct {
		name         string
		dinerID      string
		validateFunc func(t *testing.T, b *api.Breakdown)
	}{
		{
			name:    "alice pays bulgogi and half the galbi",
			dinerID: alice,
			validateFunc: func(t *testing.T, b *api.Breakdown) {
				if !approx(b.Subtotal, 28.99+32.99) {
					t.Errorf("subtotal = %v, want 61.98", b.Subtotal)
				}
				if !approx(b.Tax, 61.98*nycTax) {
					t.Errorf("tax = %v, want %v", b.Tax, 61.98*nycTax)
				}
				if len(b.IndividualItems) != 1 || len(b.SharedItems) != 1 {
					t.Errorf("items = %d individual, %d shared", len(b.IndividualItems), len(b.SharedItems))
				}
				if b.Display.Total != "$67.48" {
					t.Errorf("display total = %s, want $67.48", b.Display.Total)
				}
			},
		},
		{
			name:    "bob pays half the galbi",
			dinerID: bob,
			validateFunc: func(t *testing.T, b *api.Breakdown) {
				if !approx(b.Subtotal, 32.99) {
					t.Errorf("subtotal = %v, want 32.99", b.Subtotal)
				}
				if len(b.SharedItems) != 1 || b.SharedItems[0].SplitBetween != 2 {
					t.Errorf("shared items = %+v", b.SharedItems)
				}
				if len(b.IndividualItems) != 0 {
					t.Errorf("expected no individual items, got %d", len(b.IndividualItems))
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := findBreakdown(resp.Split, tt.dinerID)
			if b == nil {
				t.Fatalf("missing breakdown for %s", tt.dinerID)
			}
			tt.validateFunc(t, b)
		})
	}

	if !resp.Split.Reconciliation.Balanced {
		t.Errorf("expected balanced split, got %+v", resp.Split.Reconciliation)
	}
	if !approx(resp.Split.Totals.Subtotal, 2*32.99+28.99) {
		t.Errorf("table subtotal = %v", resp.Split.Totals.Subtotal)
	}

	tip, err := client.SetTip(ctx, connect.NewRequest(&api.SetTipRequest{TableID: tableID, TipPercentage: 20}))
	if err != nil {
		t.Fatalf("SetTip failed: %v", err)
	}
	totals := tip.Msg.Split.Totals
	if !approx(totals.TipAmount, totals.Total*0.2) {
		t.Errorf("tip = %v, want %v", totals.TipAmount, totals.Total*0.2)
	}
	if !approx(totals.GrandTotal, totals.Total*1.2) {
		t.Errorf("grand total = %v, want %v", totals.GrandTotal, totals.Total*1.2)
	}

	deleted, err := client.UpdateQuantity(ctx, connect.NewRequest(&api.UpdateQuantityRequest{
		TableID: tableID, OrderLineID: lineID, Quantity: 0,
	}))
	if err != nil {
		t.Fatalf("UpdateQuantity(0) failed: %v", err)
	}
	if !deleted.Msg.Deleted || deleted.Msg.OrderLine != nil {
		t.Errorf("expected line deletion, got %+v", deleted.Msg)
	}
	got, err := client.GetTable(ctx, connect.NewRequest(&api.GetTableRequest{TableID: tableID}))
	if err != nil {
		t.Fatalf("GetTable failed: %v", err)
	}
	if len(got.Msg.Orders) != 1 {
		t.Errorf("expected 1 order line, got %d", len(got.Msg.Orders))
	}
	for _, d := range got.Msg.Diners {
		if d.ID == bob && d.Total != 0 {
			t.Errorf("bob total = %v, want 0", d.Total)
		}
	}

	summary, err := svc.Receipt(ctx, tableID)
	if err != nil {
		t.Fatalf("Receipt failed: %v", err)
	}
	if summary.TableName != "Table 7" || len(summary.Breakdowns) != 2 {
		t.Errorf("unexpected receipt summary: %+v", summary)
	}
	if summary.Confirmed != nil {
		t.Error("open table receipt should not carry confirmation status")
	}
}

func TestOrderValidation(t *testing.T) {
	client, _, _ := setupTestServer(t)
	ctx := context.Background()
	tableID, ids := createTable(t, client, "Alice Kim")
	line := addLine(t, client, tableID, galbiID, ids[0])

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{
			name: "unknown menu item",
			call: func() error {
				_, err := client.AddOrderLine(ctx, connect.NewRequest(&api.AddOrderLineRequest{TableID: tableID, MenuItemID: "99"}))
				return err
			},
			want: connect.CodeNotFound,
		},
		{
			name: "diner from another table",
			call: func() error {
				_, err := client.AddOrderLine(ctx, connect.NewRequest(&api.AddOrderLineRequest{TableID: tableID, MenuItemID: galbiID, DinerID: "stranger"}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "negative quantity",
			call: func() error {
				_, err := client.UpdateQuantity(ctx, connect.NewRequest(&api.UpdateQuantityRequest{TableID: tableID, OrderLineID: line.OrderLine.ID, Quantity: -1}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "unknown order line",
			call: func() error {
				_, err := client.SetSharing(ctx, connect.NewRequest(&api.SetSharingRequest{TableID: tableID, OrderLineID: "missing", Shared: true}))
				return err
			},
			want: connect.CodeNotFound,
		},
		{
			name: "assign to unknown diner",
			call: func() error {
				_, err := client.AssignOrderLine(ctx, connect.NewRequest(&api.AssignOrderLineRequest{TableID: tableID, OrderLineID: line.OrderLine.ID, DinerIDs: []string{"stranger"}}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "negative tip",
			call: func() error {
				_, err := client.SetTip(ctx, connect.NewRequest(&api.SetTipRequest{TableID: tableID, TipPercentage: -5}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "empty diner name",
			call: func() error {
				_, err := client.JoinTable(ctx, connect.NewRequest(&api.JoinTableRequest{TableID: tableID, Name: "  "}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(tt.call()); got != tt.want {
				t.Errorf("code = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignOrderLine_MultipleDiners(t *testing.T) {
	client, _, _ := setupTestServer(t)
	ctx := context.Background()
	tableID, ids := createTable(t, client, "Alice Kim", "Bob Park")
	line := addLine(t, client, tableID, bulgogiID, ids[0])

	resp, err := client.AssignOrderLine(ctx, connect.NewRequest(&api.AssignOrderLineRequest{
		TableID: tableID, OrderLineID: line.OrderLine.ID, DinerIDs: ids,
	}))
	if err != nil {
		t.Fatalf("AssignOrderLine failed: %v", err)
	}

	// Each assignee is charged the full line total
	for _, id := range ids {
		b := findBreakdown(resp.Msg.Split, id)
		if b == nil || !approx(b.Subtotal, 28.99) {
			t.Errorf("breakdown for %s = %+v, want subtotal 28.99", id, b)
		}
	}
	if !approx(resp.Msg.Split.Reconciliation.Unallocated, -28.99) {
		t.Errorf("unallocated = %v, want -28.99", resp.Msg.Split.Reconciliation.Unallocated)
	}
}

func TestCheckoutFlow(t *testing.T) {
	client, svc, _ := setupTestServer(t)
	ctx := context.Background()

	emptyID, _ := createTable(t, client)
	_, err := client.StartCheckout(ctx, connect.NewRequest(&api.StartCheckoutRequest{TableID: emptyID}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition without diners, got %v", err)
	}

	tableID, ids := createTable(t, client, "Alice Kim", "Bob Park")
	alice, bob := ids[0], ids[1]
	addLine(t, client, tableID, galbiID, alice)
	addLine(t, client, tableID, bulgogiID, bob)

	_, err = client.ConfirmSplit(ctx, connect.NewRequest(&api.ConfirmSplitRequest{TableID: tableID, DinerID: alice}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition before checkout, got %v", err)
	}

	checkout, err := client.StartCheckout(ctx, connect.NewRequest(&api.StartCheckoutRequest{TableID: tableID}))
	if err != nil {
		t.Fatalf("StartCheckout failed: %v", err)
	}
	if checkout.Msg.Table.Status != string(models.TableCheckout) {
		t.Errorf("status = %s, want checkout", checkout.Msg.Table.Status)
	}

	confirm, err := client.ConfirmSplit(ctx, connect.NewRequest(&api.ConfirmSplitRequest{TableID: tableID, DinerID: alice}))
	if err != nil {
		t.Fatalf("ConfirmSplit failed: %v", err)
	}
	if confirm.Msg.ConfirmedCount != 1 || confirm.Msg.AllConfirmed {
		t.Errorf("unexpected confirmation state: %+v", confirm.Msg)
	}
	if !approx(confirm.Msg.Diner.Total, 32.99*(1+nycTax)) {
		t.Errorf("confirmed total = %v", confirm.Msg.Diner.Total)
	}

	_, err = client.CloseTable(ctx, connect.NewRequest(&api.CloseTableRequest{TableID: tableID}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition with pending diners, got %v", err)
	}

	// An order change reopens the table and clears confirmations
	addLine(t, client, tableID, galbiID, bob)
	got, err := client.GetTable(ctx, connect.NewRequest(&api.GetTableRequest{TableID: tableID}))
	if err != nil {
		t.Fatalf("GetTable failed: %v", err)
	}
	if got.Msg.Table.Status != string(models.TableOpen) {
		t.Errorf("status = %s, want open after order change", got.Msg.Table.Status)
	}
	for _, d := range got.Msg.Diners {
		if d.HasConfirmed {
			t.Errorf("diner %s still confirmed after order change", d.Name)
		}
	}

	if _, err := client.StartCheckout(ctx, connect.NewRequest(&api.StartCheckoutRequest{TableID: tableID})); err != nil {
		t.Fatalf("StartCheckout failed: %v", err)
	}
	if _, err := client.ConfirmSplit(ctx, connect.NewRequest(&api.ConfirmSplitRequest{TableID: tableID, DinerID: alice})); err != nil {
		t.Fatalf("ConfirmSplit failed: %v", err)
	}

	change, err := client.RequestChange(ctx, connect.NewRequest(&api.RequestChangeRequest{TableID: tableID, DinerID: alice, Reason: "wrong drink"}))
	if err != nil {
		t.Fatalf("RequestChange failed: %v", err)
	}
	if change.Msg.Table.Status != string(models.TableOpen) || change.Msg.Diner.HasConfirmed {
		t.Errorf("unexpected state after change request: %+v", change.Msg)
	}

	if _, err := client.StartCheckout(ctx, connect.NewRequest(&api.StartCheckoutRequest{TableID: tableID})); err != nil {
		t.Fatalf("StartCheckout failed: %v", err)
	}
	for _, id := range ids {
		if _, err := client.ConfirmSplit(ctx, connect.NewRequest(&api.ConfirmSplitRequest{TableID: tableID, DinerID: id})); err != nil {
			t.Fatalf("ConfirmSplit(%s) failed: %v", id, err)
		}
	}

	summary, err := svc.Receipt(ctx, tableID)
	if err != nil {
		t.Fatalf("Receipt failed: %v", err)
	}
	if !summary.Confirmed[alice] || !summary.Confirmed[bob] {
		t.Errorf("receipt confirmations = %v", summary.Confirmed)
	}

	closed, err := client.CloseTable(ctx, connect.NewRequest(&api.CloseTableRequest{TableID: tableID}))
	if err != nil {
		t.Fatalf("CloseTable failed: %v", err)
	}
	if closed.Msg.Table.Status != string(models.TableClosed) {
		t.Errorf("status = %s, want closed", closed.Msg.Table.Status)
	}

	_, err = client.AddOrderLine(ctx, connect.NewRequest(&api.AddOrderLineRequest{TableID: tableID, MenuItemID: galbiID}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition on closed table, got %v", err)
	}
	_, err = client.JoinTable(ctx, connect.NewRequest(&api.JoinTableRequest{TableID: tableID, Name: "Late Larry"}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition joining closed table, got %v", err)
	}
}

func TestSetConnected(t *testing.T) {
	client, _, _ := setupTestServer(t)
	tableID, ids := createTable(t, client, "Alice Kim")

	resp, err := client.SetConnected(context.Background(), connect.NewRequest(&api.SetConnectedRequest{
		TableID: tableID, DinerID: ids[0], Connected: false,
	}))
	if err != nil {
		t.Fatalf("SetConnected failed: %v", err)
	}
	if resp.Msg.Diner.IsConnected {
		t.Error("expected diner to be disconnected")
	}

	_, err = client.SetConnected(context.Background(), connect.NewRequest(&api.SetConnectedRequest{
		TableID: tableID, DinerID: "missing",
	}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestSettleUp(t *testing.T) {
	client, _, _ := setupTestServer(t)
	ctx := context.Background()
	zero := 0.0
	created, err := client.CreateTable(ctx, connect.NewRequest(&api.CreateTableRequest{Name: "No Tax", TaxRate: &zero}))
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	tableID := created.Msg.Table.ID

	var ids []string
	for _, name := range []string{"Alice Kim", "Bob Park"} {
		joined, err := client.JoinTable(ctx, connect.NewRequest(&api.JoinTableRequest{TableID: tableID, Name: name}))
		if err != nil {
			t.Fatalf("JoinTable failed: %v", err)
		}
		ids = append(ids, joined.Msg.Diner.ID)
	}
	addLine(t, client, tableID, galbiID, ids[0])
	addLine(t, client, tableID, bulgogiID, ids[1])

	// Alice paid the whole check
	resp, err := client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{
		TableID:  tableID,
		Payments: map[string]float64{ids[0]: 32.99 + 28.99},
	}))
	if err != nil {
		t.Fatalf("SettleUp failed: %v", err)
	}
	if len(resp.Msg.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %+v", resp.Msg.Transfers)
	}
	tr := resp.Msg.Transfers[0]
	if tr.From != ids[1] || tr.To != ids[0] || !approx(tr.Amount, 28.99) {
		t.Errorf("transfer = %+v, want bob pays alice 28.99", tr)
	}
}

func TestCreateTable_NonFiniteRates(t *testing.T) {
	client, svc, _ := setupTestServer(t)
	ctx := context.Background()
	rate := func(v float64) *float64 { return &v }

	// NaN and infinities cannot be encoded as JSON, so call the handler directly
	tests := []struct {
		name string
		req  *api.CreateTableRequest
	}{
		{name: "NaN tax rate", req: &api.CreateTableRequest{TaxRate: rate(math.NaN())}},
		{name: "infinite tax rate", req: &api.CreateTableRequest{TaxRate: rate(math.Inf(1))}},
		{name: "huge tax rate", req: &api.CreateTableRequest{TaxRate: rate(1e308)}},
		{name: "NaN tip", req: &api.CreateTableRequest{TipPercentage: math.NaN()}},
		{name: "huge tip", req: &api.CreateTableRequest{TipPercentage: 1e308}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTable(ctx, connect.NewRequest(tt.req))
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}

	_, err := client.CreateTable(ctx, connect.NewRequest(&api.CreateTableRequest{TaxRate: rate(1e308)}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument over the wire, got %v", err)
	}
}

func TestSetTip_NonFinite(t *testing.T) {
	client, svc, _ := setupTestServer(t)
	ctx := context.Background()
	tableID, _ := createTable(t, client, "Alice Kim")

	for _, tip := range []float64{math.NaN(), math.Inf(1), 1e308} {
		_, err := svc.SetTip(ctx, connect.NewRequest(&api.SetTipRequest{TableID: tableID, TipPercentage: tip}))
		if connect.CodeOf(err) != connect.CodeInvalidArgument {
			t.Errorf("SetTip(%v): expected InvalidArgument, got %v", tip, err)
		}
	}

	resp, err := client.GetBreakdown(ctx, connect.NewRequest(&api.GetBreakdownRequest{TableID: tableID}))
	if err != nil {
		t.Fatalf("GetBreakdown failed: %v", err)
	}
	if resp.Msg.Split.TipPercentage != 0 {
		t.Errorf("tip = %v, want unchanged 0", resp.Msg.Split.TipPercentage)
	}
}

func TestOrderOverflow_LeavesTableUsable(t *testing.T) {
	client, svc, _ := setupTestServer(t)
	ctx := context.Background()

	huge := models.MenuItem{ID: "huge", Name: "Whole Restaurant", Price: 1e308, Category: "Specials"}
	if err := menu.Seed(ctx, svc.store, []models.MenuItem{huge}); err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	tableID, ids := createTable(t, client, "Alice Kim")
	line := addLine(t, client, tableID, huge.ID, ids[0])

	_, err := client.UpdateQuantity(ctx, connect.NewRequest(&api.UpdateQuantityRequest{
		TableID: tableID, OrderLineID: line.OrderLine.ID, Quantity: 2,
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("doubling the line: expected InvalidArgument, got %v", err)
	}
	_, err = client.AddOrderLine(ctx, connect.NewRequest(&api.AddOrderLineRequest{
		TableID: tableID, MenuItemID: huge.ID, DinerID: ids[0],
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("second line: expected InvalidArgument, got %v", err)
	}

	got, err := client.GetTable(ctx, connect.NewRequest(&api.GetTableRequest{TableID: tableID}))
	if err != nil {
		t.Fatalf("GetTable failed: %v", err)
	}
	if len(got.Msg.Orders) != 1 || got.Msg.Orders[0].Quantity != 1 {
		t.Errorf("orders = %+v, want the single original line", got.Msg.Orders)
	}
	resp, err := client.GetBreakdown(ctx, connect.NewRequest(&api.GetBreakdownRequest{TableID: tableID}))
	if err != nil {
		t.Fatalf("GetBreakdown failed: %v", err)
	}
	if total := resp.Msg.Split.Totals.GrandTotal; math.IsInf(total, 0) || math.IsNaN(total) {
		t.Errorf("grand total = %v, want finite", total)
	}
}

func TestConfirmSplit_SurvivesConnectivityChange(t *testing.T) {
	client, _, _ := setupTestServer(t)
	ctx := context.Background()
	tableID, ids := createTable(t, client, "Alice Kim", "Bob Park")
	alice := ids[0]
	addLine(t, client, tableID, galbiID, alice)

	if _, err := client.StartCheckout(ctx, connect.NewRequest(&api.StartCheckoutRequest{TableID: tableID})); err != nil {
		t.Fatalf("StartCheckout failed: %v", err)
	}
	if _, err := client.ConfirmSplit(ctx, connect.NewRequest(&api.ConfirmSplitRequest{TableID: tableID, DinerID: alice})); err != nil {
		t.Fatalf("ConfirmSplit failed: %v", err)
	}

	resp, err := client.SetConnected(ctx, connect.NewRequest(&api.SetConnectedRequest{
		TableID: tableID, DinerID: alice, Connected: false,
	}))
	if err != nil {
		t.Fatalf("SetConnected failed: %v", err)
	}
	if !resp.Msg.Diner.HasConfirmed || resp.Msg.Diner.IsConnected {
		t.Errorf("diner = %+v, want confirmed and disconnected", resp.Msg.Diner)
	}

	// A confirmation against a split that an order change has since replaced
	addLine(t, client, tableID, bulgogiID, ids[1])
	_, err = client.ConfirmSplit(ctx, connect.NewRequest(&api.ConfirmSplitRequest{TableID: tableID, DinerID: ids[1]}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition after reopen, got %v", err)
	}
}
