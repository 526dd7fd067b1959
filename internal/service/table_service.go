package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tablesplit/internal/calculator"
	"github.com/mmynk/tablesplit/internal/metrics"
	"github.com/mmynk/tablesplit/internal/models"
	"github.com/mmynk/tablesplit/internal/receipt"
	"github.com/mmynk/tablesplit/internal/storage"
	"github.com/mmynk/tablesplit/pkg/api"
)

// DefaultTaxRate is the NYC sales tax rate.
const DefaultTaxRate = 0.08875

// Upper bounds accepted for a table's rates.
const (
	MaxTaxRate       = 1.0
	MaxTipPercentage = 100.0
)

// ValidateTaxRate reports whether rate is a usable tax fraction.
func ValidateTaxRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("tax rate must be a finite number: %w", calculator.ErrInvalidInput)
	}
	if rate < 0 || rate > MaxTaxRate {
		return fmt.Errorf("tax rate %v outside [0, %v]: %w", rate, MaxTaxRate, calculator.ErrInvalidInput)
	}
	return nil
}

// ValidateTipPercentage reports whether pct is a usable tip percentage.
func ValidateTipPercentage(pct float64) error {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return fmt.Errorf("tip percentage must be a finite number: %w", calculator.ErrInvalidInput)
	}
	if pct < 0 || pct > MaxTipPercentage {
		return fmt.Errorf("tip percentage %v outside [0, %v]: %w", pct, MaxTipPercentage, calculator.ErrInvalidInput)
	}
	return nil
}

var _ api.TableServiceHandler = (*TableService)(nil)

// TableService implements the Connect TableService. It owns no state: the
// store holds the order set and every response recomputes the split.
type TableService struct {
	store          storage.Store
	metrics        *metrics.Metrics
	defaultTaxRate float64
	policy         calculator.AssignmentPolicy
}

// Option configures a TableService.
type Option func(*TableService)

// WithDefaultTaxRate sets the tax rate for tables created without one.
func WithDefaultTaxRate(rate float64) Option {
	return func(s *TableService) { s.defaultTaxRate = rate }
}

// WithAssignmentPolicy sets how lines with several assignees are charged.
func WithAssignmentPolicy(p calculator.AssignmentPolicy) Option {
	return func(s *TableService) { s.policy = p }
}

// NewTableService creates a new TableService with the given storage backend.
func NewTableService(store storage.Store, m *metrics.Metrics, opts ...Option) *TableService {
	s := &TableService{
		store:          store,
		metrics:        m,
		defaultTaxRate: DefaultTaxRate,
		policy:         calculator.AssignFull,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// toConnectError maps storage and calculator errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

func failedPrecondition(format string, args ...any) error {
	return connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf(format, args...))
}

// tableSplit is a table's state plus the split computed from it.
type tableSplit struct {
	table          *models.Table
	diners         []*models.Diner
	lines          []*models.OrderLine
	breakdowns     []calculator.BillBreakdown
	totals         calculator.GrandTotals
	reconciliation calculator.Reconciliation
}

// totalFor returns a diner's pre-tip total from the split.
func (ts *tableSplit) totalFor(dinerID string) float64 {
	for _, b := range ts.breakdowns {
		if b.DinerID == dinerID {
			return b.Total
		}
	}
	return 0
}

func (ts *tableSplit) toAPI() api.Split {
	breakdowns := make([]api.Breakdown, len(ts.breakdowns))
	for i, b := range ts.breakdowns {
		breakdowns[i] = toAPIBreakdown(b)
	}
	return api.Split{
		TaxRate:        ts.table.TaxRate,
		TipPercentage:  ts.table.TipPercentage,
		Breakdowns:     breakdowns,
		Totals:         toAPITotals(ts.totals),
		Reconciliation: toAPIReconciliation(ts.reconciliation),
	}
}

// loadTable fetches a table, rejecting an empty ID.
func (s *TableService) loadTable(ctx context.Context, tableID string) (*models.Table, error) {
	if tableID == "" {
		return nil, invalidArgument("table_id required")
	}
	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return table, nil
}

// computeSplit loads the roster and order lines and runs the calculator.
// A table nobody has joined yet gets an empty split rather than an error.
func (s *TableService) computeSplit(ctx context.Context, table *models.Table) (*tableSplit, error) {
	diners, err := s.store.ListDiners(ctx, table.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	lines, err := s.store.ListOrderLines(ctx, table.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	calcLines := toCalcLines(lines)
	var breakdowns []calculator.BillBreakdown
	if len(diners) > 0 {
		breakdowns, err = calculator.ComputeBreakdown(toCalcDiners(diners), calcLines, table.TaxRate,
			calculator.WithTip(table.TipPercentage),
			calculator.WithAssignmentPolicy(s.policy),
		)
		if err != nil {
			slog.Error("ComputeBreakdown failed", "table_id", table.ID, "error", err)
			return nil, toConnectError(err)
		}
		s.metrics.BreakdownsComputed.Inc()
	}

	rec := calculator.Reconcile(calcLines, breakdowns)
	if len(rec.Orphaned) > 0 {
		slog.Warn("Unallocated order lines",
			"table_id", table.ID,
			"line_ids", rec.Orphaned,
			"unallocated", rec.Unallocated,
		)
	}
	s.metrics.UnallocatedLines.WithLabelValues(table.ID).Set(float64(len(rec.Orphaned)))

	return &tableSplit{
		table:          table,
		diners:         diners,
		lines:          lines,
		breakdowns:     breakdowns,
		totals:         calculator.ComputeGrandTotals(breakdowns, table.TipPercentage),
		reconciliation: rec,
	}, nil
}

// beginOrderChange checks the table accepts order changes. The store
// repeats the check atomically with the write.
func beginOrderChange(table *models.Table) error {
	if table.Status == models.TableClosed {
		return failedPrecondition("table %s is closed", table.ID)
	}
	return nil
}

// reloadTable refetches a table after a write that may have changed its
// status. The store reopens a table in checkout on every order change and
// clears all confirmations.
func (s *TableService) reloadTable(ctx context.Context, table *models.Table) (*models.Table, error) {
	fresh, err := s.store.GetTable(ctx, table.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if table.Status == models.TableCheckout && fresh.Status == models.TableOpen {
		slog.Info("Table reopened after order change", "table_id", table.ID)
	}
	return fresh, nil
}

// checkOrderChange runs the calculator over the order set as it would be
// after replacing or adding changed, using table's rates. A change the split
// cannot be computed for is rejected before it reaches the store.
func (s *TableService) checkOrderChange(ctx context.Context, table *models.Table, changed *models.OrderLine) error {
	diners, err := s.store.ListDiners(ctx, table.ID)
	if err != nil {
		return toConnectError(err)
	}
	lines, err := s.store.ListOrderLines(ctx, table.ID)
	if err != nil {
		return toConnectError(err)
	}
	if changed != nil {
		next := make([]*models.OrderLine, 0, len(lines)+1)
		replaced := false
		for _, l := range lines {
			if l.ID == changed.ID {
				l, replaced = changed, true
			}
			next = append(next, l)
		}
		if !replaced {
			next = append(next, changed)
		}
		lines = next
	}

	calcLines := toCalcLines(lines)
	if len(diners) == 0 {
		err = calculator.ValidateOrder(calcLines)
	} else {
		_, err = calculator.ComputeBreakdown(toCalcDiners(diners), calcLines, table.TaxRate,
			calculator.WithTip(table.TipPercentage),
			calculator.WithAssignmentPolicy(s.policy),
		)
	}
	if err != nil {
		return toConnectError(err)
	}
	return nil
}

func findDiner(diners []*models.Diner, dinerID string) *models.Diner {
	for _, d := range diners {
		if d.ID == dinerID {
			return d
		}
	}
	return nil
}

// CreateTable opens a new table.
func (s *TableService) CreateTable(ctx context.Context, req *connect.Request[api.CreateTableRequest]) (*connect.Response[api.CreateTableResponse], error) {
	taxRate := s.defaultTaxRate
	if req.Msg.TaxRate != nil {
		taxRate = *req.Msg.TaxRate
	}
	if err := ValidateTaxRate(taxRate); err != nil {
		return nil, toConnectError(err)
	}
	if err := ValidateTipPercentage(req.Msg.TipPercentage); err != nil {
		return nil, toConnectError(err)
	}

	table := &models.Table{
		Name:          strings.TrimSpace(req.Msg.Name),
		TaxRate:       taxRate,
		TipPercentage: req.Msg.TipPercentage,
	}
	if err := s.store.CreateTable(ctx, table); err != nil {
		slog.Error("CreateTable failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Table created", "table_id", table.ID, "name", table.Name, "tax_rate", table.TaxRate)
	return connect.NewResponse(&api.CreateTableResponse{Table: toAPITable(table)}), nil
}

// GetTable returns a table with its diners and order lines.
func (s *TableService) GetTable(ctx context.Context, req *connect.Request[api.GetTableRequest]) (*connect.Response[api.GetTableResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return nil, err
	}

	diners := make([]api.Diner, len(split.diners))
	for i, d := range split.diners {
		diners[i] = toAPIDiner(d, split.totalFor(d.ID))
	}
	orders := make([]api.OrderLine, len(split.lines))
	for i, l := range split.lines {
		orders[i] = *toAPIOrderLine(l)
	}

	return connect.NewResponse(&api.GetTableResponse{
		Table:  toAPITable(table),
		Diners: diners,
		Orders: orders,
	}), nil
}

// JoinTable adds a connected diner to the table.
func (s *TableService) JoinTable(ctx context.Context, req *connect.Request[api.JoinTableRequest]) (*connect.Response[api.JoinTableResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	if err := beginOrderChange(table); err != nil {
		return nil, err
	}

	diner := &models.Diner{TableID: table.ID, Name: name, IsConnected: true}
	if err := s.store.AddDiner(ctx, diner); err != nil {
		slog.Error("JoinTable failed", "table_id", table.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Diner joined", "table_id", table.ID, "diner_id", diner.ID, "name", diner.Name)
	return connect.NewResponse(&api.JoinTableResponse{Diner: toAPIDiner(diner, 0)}), nil
}

// SetConnected updates a diner's connectivity flag.
func (s *TableService) SetConnected(ctx context.Context, req *connect.Request[api.SetConnectedRequest]) (*connect.Response[api.SetConnectedResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDinerConnected(ctx, table.ID, req.Msg.DinerID, req.Msg.Connected); err != nil {
		return nil, toConnectError(err)
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return nil, err
	}
	diner := findDiner(split.diners, req.Msg.DinerID)
	if diner == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("diner %s is not at table %s", req.Msg.DinerID, table.ID))
	}
	return connect.NewResponse(&api.SetConnectedResponse{Diner: toAPIDiner(diner, split.totalFor(diner.ID))}), nil
}

// ListMenu returns the catalog.
func (s *TableService) ListMenu(ctx context.Context, req *connect.Request[api.ListMenuRequest]) (*connect.Response[api.ListMenuResponse], error) {
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		slog.Error("ListMenu failed", "error", err)
		return nil, toConnectError(err)
	}
	out := make([]api.MenuItem, len(items))
	for i, item := range items {
		out[i] = toAPIMenuItem(item)
	}
	return connect.NewResponse(&api.ListMenuResponse{Items: out}), nil
}

// orderLineResponse recomputes the split after an order change.
func (s *TableService) orderLineResponse(ctx context.Context, table *models.Table, line *models.OrderLine) (*connect.Response[api.OrderLineResponse], error) {
	table, err := s.reloadTable(ctx, table)
	if err != nil {
		return nil, err
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return nil, err
	}
	resp := &api.OrderLineResponse{Split: split.toAPI()}
	if line == nil {
		resp.Deleted = true
	} else {
		resp.OrderLine = toAPIOrderLine(line)
	}
	return connect.NewResponse(resp), nil
}

// loadOrderLine fetches a table open for changes and one of its order lines.
func (s *TableService) loadOrderLine(ctx context.Context, tableID, lineID string) (*models.Table, *models.OrderLine, error) {
	table, err := s.loadTable(ctx, tableID)
	if err != nil {
		return nil, nil, err
	}
	if err := beginOrderChange(table); err != nil {
		return nil, nil, err
	}
	if lineID == "" {
		return nil, nil, invalidArgument("order_line_id required")
	}
	line, err := s.store.GetOrderLine(ctx, table.ID, lineID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	return table, line, nil
}

// AddOrderLine orders one of a menu item, assigned to a diner when one is given.
func (s *TableService) AddOrderLine(ctx context.Context, req *connect.Request[api.AddOrderLineRequest]) (*connect.Response[api.OrderLineResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	if err := beginOrderChange(table); err != nil {
		return nil, err
	}
	if req.Msg.MenuItemID == "" {
		return nil, invalidArgument("menu_item_id required")
	}
	item, err := s.store.GetMenuItem(ctx, req.Msg.MenuItemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	line := &models.OrderLine{TableID: table.ID, MenuItem: *item, Quantity: 1}
	if req.Msg.DinerID != "" {
		diners, err := s.store.ListDiners(ctx, table.ID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if findDiner(diners, req.Msg.DinerID) == nil {
			return nil, invalidArgument("diner %s is not at table %s", req.Msg.DinerID, table.ID)
		}
		line.AssignedTo = []string{req.Msg.DinerID}
	}
	if err := s.checkOrderChange(ctx, table, line); err != nil {
		return nil, err
	}

	if err := s.store.AddOrderLine(ctx, line); err != nil {
		slog.Error("AddOrderLine failed", "table_id", table.ID, "error", err)
		return nil, toConnectError(err)
	}
	slog.Debug("Order line added",
		"table_id", table.ID,
		"line_id", line.ID,
		"item", item.Name,
		"assigned_to", line.AssignedTo,
	)
	return s.orderLineResponse(ctx, table, line)
}

// UpdateQuantity changes a line's quantity. Zero deletes the line.
func (s *TableService) UpdateQuantity(ctx context.Context, req *connect.Request[api.UpdateQuantityRequest]) (*connect.Response[api.OrderLineResponse], error) {
	if req.Msg.Quantity < 0 {
		return nil, invalidArgument("quantity cannot be negative")
	}
	table, line, err := s.loadOrderLine(ctx, req.Msg.TableID, req.Msg.OrderLineID)
	if err != nil {
		return nil, err
	}

	if req.Msg.Quantity == 0 {
		if err := s.store.DeleteOrderLine(ctx, table.ID, line.ID); err != nil {
			return nil, toConnectError(err)
		}
		slog.Debug("Order line removed", "table_id", table.ID, "line_id", line.ID)
		return s.orderLineResponse(ctx, table, nil)
	}

	line.Quantity = req.Msg.Quantity
	if err := s.checkOrderChange(ctx, table, line); err != nil {
		return nil, err
	}
	if err := s.store.UpdateOrderLine(ctx, line); err != nil {
		return nil, toConnectError(err)
	}
	return s.orderLineResponse(ctx, table, line)
}

// SetSharing toggles whether a line is divided across the whole table.
// Turning sharing on clears the line's assignees.
func (s *TableService) SetSharing(ctx context.Context, req *connect.Request[api.SetSharingRequest]) (*connect.Response[api.OrderLineResponse], error) {
	table, line, err := s.loadOrderLine(ctx, req.Msg.TableID, req.Msg.OrderLineID)
	if err != nil {
		return nil, err
	}

	line.IsShared = req.Msg.Shared
	if line.IsShared {
		line.AssignedTo = nil
	}
	if err := s.checkOrderChange(ctx, table, line); err != nil {
		return nil, err
	}
	if err := s.store.UpdateOrderLine(ctx, line); err != nil {
		return nil, toConnectError(err)
	}
	return s.orderLineResponse(ctx, table, line)
}

// AssignOrderLine replaces the diners a line is charged to.
func (s *TableService) AssignOrderLine(ctx context.Context, req *connect.Request[api.AssignOrderLineRequest]) (*connect.Response[api.OrderLineResponse], error) {
	table, line, err := s.loadOrderLine(ctx, req.Msg.TableID, req.Msg.OrderLineID)
	if err != nil {
		return nil, err
	}
	diners, err := s.store.ListDiners(ctx, table.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, id := range req.Msg.DinerIDs {
		if findDiner(diners, id) == nil {
			return nil, invalidArgument("diner %s is not at table %s", id, table.ID)
		}
	}

	line.AssignedTo = req.Msg.DinerIDs
	if err := s.checkOrderChange(ctx, table, line); err != nil {
		return nil, err
	}
	if err := s.store.UpdateOrderLine(ctx, line); err != nil {
		return nil, toConnectError(err)
	}
	return s.orderLineResponse(ctx, table, line)
}

// SetTip changes the table's tip percentage.
func (s *TableService) SetTip(ctx context.Context, req *connect.Request[api.SetTipRequest]) (*connect.Response[api.SetTipResponse], error) {
	if err := ValidateTipPercentage(req.Msg.TipPercentage); err != nil {
		return nil, toConnectError(err)
	}
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	if err := beginOrderChange(table); err != nil {
		return nil, err
	}

	preview := *table
	preview.TipPercentage = req.Msg.TipPercentage
	if err := s.checkOrderChange(ctx, &preview, nil); err != nil {
		return nil, err
	}
	if err := s.store.SetTip(ctx, table.ID, req.Msg.TipPercentage); err != nil {
		return nil, toConnectError(err)
	}
	if table, err = s.reloadTable(ctx, table); err != nil {
		return nil, err
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.SetTipResponse{Split: split.toAPI()}), nil
}

// GetBreakdown computes the current split for a table.
func (s *TableService) GetBreakdown(ctx context.Context, req *connect.Request[api.GetBreakdownRequest]) (*connect.Response[api.GetBreakdownResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return nil, err
	}
	slog.Debug("Breakdown computed",
		"table_id", table.ID,
		"diners", len(split.breakdowns),
		"lines", len(split.lines),
		"grand_total", split.totals.GrandTotal,
	)
	return connect.NewResponse(&api.GetBreakdownResponse{Split: split.toAPI()}), nil
}

// StartCheckout sends the split to diners for confirmation.
func (s *TableService) StartCheckout(ctx context.Context, req *connect.Request[api.StartCheckoutRequest]) (*connect.Response[api.StartCheckoutResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	if table.Status != models.TableOpen {
		return nil, failedPrecondition("table %s is %s, not open", table.ID, table.Status)
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(split.diners) == 0 {
		return nil, failedPrecondition("no diners have joined table %s", table.ID)
	}

	if err := s.store.StartCheckout(ctx, table.ID); err != nil {
		return nil, toConnectError(err)
	}
	table.Status = models.TableCheckout

	slog.Info("Checkout started", "table_id", table.ID, "grand_total", split.totals.GrandTotal)
	return connect.NewResponse(&api.StartCheckoutResponse{
		Table: toAPITable(table),
		Split: split.toAPI(),
	}), nil
}

// ConfirmSplit records that a diner accepted their amount.
func (s *TableService) ConfirmSplit(ctx context.Context, req *connect.Request[api.ConfirmSplitRequest]) (*connect.Response[api.ConfirmSplitResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	if table.Status != models.TableCheckout {
		return nil, failedPrecondition("table %s is not in checkout", table.ID)
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return nil, err
	}
	diner := findDiner(split.diners, req.Msg.DinerID)
	if diner == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("diner %s is not at table %s", req.Msg.DinerID, table.ID))
	}

	// The store refuses the write if an order change reopened the table
	// after the split above was computed.
	if err := s.store.ConfirmDiner(ctx, table.ID, diner.ID); err != nil {
		return nil, toConnectError(err)
	}
	diner.HasConfirmed = true

	confirmed := 0
	for _, d := range split.diners {
		if d.HasConfirmed {
			confirmed++
		}
	}
	slog.Info("Split confirmed",
		"table_id", table.ID,
		"diner_id", diner.ID,
		"total", split.totalFor(diner.ID),
		"confirmed", confirmed,
		"diners", len(split.diners),
	)

	return connect.NewResponse(&api.ConfirmSplitResponse{
		Diner:          toAPIDiner(diner, split.totalFor(diner.ID)),
		ConfirmedCount: confirmed,
		DinerCount:     len(split.diners),
		AllConfirmed:   confirmed == len(split.diners),
	}), nil
}

// RequestChange withdraws a diner's confirmation and reopens the table for edits.
func (s *TableService) RequestChange(ctx context.Context, req *connect.Request[api.RequestChangeRequest]) (*connect.Response[api.RequestChangeResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	if table.Status == models.TableClosed {
		return nil, failedPrecondition("table %s is closed", table.ID)
	}
	diners, err := s.store.ListDiners(ctx, table.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	diner := findDiner(diners, req.Msg.DinerID)
	if diner == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("diner %s is not at table %s", req.Msg.DinerID, table.ID))
	}

	if err := s.store.WithdrawConfirmation(ctx, table.ID, diner.ID); err != nil {
		return nil, toConnectError(err)
	}
	diner.HasConfirmed = false
	table.Status = models.TableOpen

	slog.Info("Change requested", "table_id", table.ID, "diner_id", diner.ID, "reason", req.Msg.Reason)
	return connect.NewResponse(&api.RequestChangeResponse{
		Table: toAPITable(table),
		Diner: toAPIDiner(diner, 0),
	}), nil
}

// SettleUp works out transfers between diners from what each paid.
func (s *TableService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return nil, err
	}

	transfers, err := calculator.SettleUp(split.breakdowns, req.Msg.Payments, table.TipPercentage)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return connect.NewResponse(&api.SettleUpResponse{Transfers: out}), nil
}

// CloseTable archives a table once every diner has confirmed.
func (s *TableService) CloseTable(ctx context.Context, req *connect.Request[api.CloseTableRequest]) (*connect.Response[api.CloseTableResponse], error) {
	table, err := s.loadTable(ctx, req.Msg.TableID)
	if err != nil {
		return nil, err
	}
	if table.Status != models.TableCheckout {
		return nil, failedPrecondition("table %s is not in checkout", table.ID)
	}
	diners, err := s.store.ListDiners(ctx, table.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, d := range diners {
		if !d.HasConfirmed {
			return nil, failedPrecondition("diner %s has not confirmed", d.Name)
		}
	}

	if err := s.store.CloseTable(ctx, table.ID); err != nil {
		return nil, toConnectError(err)
	}
	table.Status = models.TableClosed
	s.metrics.UnallocatedLines.DeleteLabelValues(table.ID)
	slog.Info("Table closed", "table_id", table.ID)
	return connect.NewResponse(&api.CloseTableResponse{Table: toAPITable(table)}), nil
}

// Receipt builds a printable summary of the table's current split.
func (s *TableService) Receipt(ctx context.Context, tableID string) (receipt.Summary, error) {
	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return receipt.Summary{}, err
	}
	split, err := s.computeSplit(ctx, table)
	if err != nil {
		return receipt.Summary{}, err
	}

	summary := receipt.NewSummary(table.Name, table.TaxRate, table.TipPercentage, split.breakdowns)
	if table.Status != models.TableOpen {
		summary.Confirmed = make(map[string]bool, len(split.diners))
		for _, d := range split.diners {
			summary.Confirmed[d.ID] = d.HasConfirmed
		}
	}
	return summary, nil
}
