// Package api defines the tablesplit.v1 wire messages and the Connect
// handler and client for TableService.
package api

// Table is a shared check.
type Table struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TaxRate       float64 `json:"tax_rate"`
	TipPercentage float64 `json:"tip_percentage"`
	Status        string  `json:"status"`
	CreatedAt     int64   `json:"created_at"`
}

// Diner is a participant. Total is derived from the current split.
type Diner struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	IsConnected  bool    `json:"is_connected"`
	HasConfirmed bool    `json:"has_confirmed"`
	Total        float64 `json:"total"`
	JoinedAt     int64   `json:"joined_at"`
}

// MenuItem is a catalog entry.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
}

// OrderLine is an ordered quantity of a menu item.
type OrderLine struct {
	ID         string   `json:"id"`
	MenuItem   MenuItem `json:"menu_item"`
	Quantity   int      `json:"quantity"`
	IsShared   bool     `json:"is_shared"`
	AssignedTo []string `json:"assigned_to"`
}

// IndividualItem is a line charged to one diner.
type IndividualItem struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
	Total    float64  `json:"total"`
}

// SharedItem is one diner's portion of a shared line.
type SharedItem struct {
	Item         MenuItem `json:"item"`
	Quantity     int      `json:"quantity"`
	TotalPrice   float64  `json:"total_price"`
	PortionPrice float64  `json:"portion_price"`
	SplitBetween int      `json:"split_between"`
}

// Display holds amounts rounded and formatted for presentation.
type Display struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Tip      string `json:"tip"`
	Total    string `json:"total"`
}

// Breakdown is one diner's statement. Amounts are unrounded; use Display to show them.
type Breakdown struct {
	DinerID         string           `json:"diner_id"`
	DinerName       string           `json:"diner_name"`
	IndividualItems []IndividualItem `json:"individual_items"`
	SharedItems     []SharedItem     `json:"shared_items"`
	Subtotal        float64          `json:"subtotal"`
	Tax             float64          `json:"tax"`
	Total           float64          `json:"total"`
	Tip             float64          `json:"tip"`
	Display         Display          `json:"display"`
}

// Totals aggregates every diner's breakdown.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
	TipAmount  float64 `json:"tip_amount"`
	GrandTotal float64 `json:"grand_total"`
	Display    Display `json:"display"`
}

// Reconciliation reports order money that reached no diner.
type Reconciliation struct {
	OrderTotal  float64  `json:"order_total"`
	Allocated   float64  `json:"allocated"`
	Unallocated float64  `json:"unallocated"`
	Orphaned    []string `json:"orphaned_line_ids"`
	Balanced    bool     `json:"balanced"`
}

// Split is the full computed bill for a table.
type Split struct {
	TaxRate        float64        `json:"tax_rate"`
	TipPercentage  float64        `json:"tip_percentage"`
	Breakdowns     []Breakdown    `json:"breakdowns"`
	Totals         Totals         `json:"totals"`
	Reconciliation Reconciliation `json:"reconciliation"`
}

// Transfer is a settle-up payment from one diner to another.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type CreateTableRequest struct {
	Name string `json:"name"`
	// TaxRate falls back to the server default when omitted.
	TaxRate       *float64 `json:"tax_rate,omitempty"`
	TipPercentage float64  `json:"tip_percentage"`
}

type CreateTableResponse struct {
	Table Table `json:"table"`
}

type GetTableRequest struct {
	TableID string `json:"table_id"`
}

type GetTableResponse struct {
	Table  Table       `json:"table"`
	Diners []Diner     `json:"diners"`
	Orders []OrderLine `json:"orders"`
}

type JoinTableRequest struct {
	TableID string `json:"table_id"`
	Name    string `json:"name"`
}

type JoinTableResponse struct {
	Diner Diner `json:"diner"`
}

type SetConnectedRequest struct {
	TableID   string `json:"table_id"`
	DinerID   string `json:"diner_id"`
	Connected bool   `json:"connected"`
}

type SetConnectedResponse struct {
	Diner Diner `json:"diner"`
}

type ListMenuRequest struct{}

type ListMenuResponse struct {
	Items []MenuItem `json:"items"`
}

type AddOrderLineRequest struct {
	TableID    string `json:"table_id"`
	MenuItemID string `json:"menu_item_id"`
	// DinerID assigns the new line to this diner when set.
	DinerID string `json:"diner_id,omitempty"`
}

type UpdateQuantityRequest struct {
	TableID     string `json:"table_id"`
	OrderLineID string `json:"order_line_id"`
	Quantity    int    `json:"quantity"`
}

type SetSharingRequest struct {
	TableID     string `json:"table_id"`
	OrderLineID string `json:"order_line_id"`
	Shared      bool   `json:"shared"`
}

type AssignOrderLineRequest struct {
	TableID     string   `json:"table_id"`
	OrderLineID string   `json:"order_line_id"`
	DinerIDs    []string `json:"diner_ids"`
}

// OrderLineResponse answers every order mutation with the recomputed split.
// OrderLine is nil when the line was deleted.
type OrderLineResponse struct {
	OrderLine *OrderLine `json:"order_line,omitempty"`
	Deleted   bool       `json:"deleted"`
	Split     Split      `json:"split"`
}

type SetTipRequest struct {
	TableID       string  `json:"table_id"`
	TipPercentage float64 `json:"tip_percentage"`
}

type SetTipResponse struct {
	Split Split `json:"split"`
}

type GetBreakdownRequest struct {
	TableID string `json:"table_id"`
}

type GetBreakdownResponse struct {
	Split Split `json:"split"`
}

type StartCheckoutRequest struct {
	TableID string `json:"table_id"`
}

type StartCheckoutResponse struct {
	Table Table `json:"table"`
	Split Split `json:"split"`
}

type ConfirmSplitRequest struct {
	TableID string `json:"table_id"`
	DinerID string `json:"diner_id"`
}

type ConfirmSplitResponse struct {
	Diner          Diner `json:"diner"`
	ConfirmedCount int   `json:"confirmed_count"`
	DinerCount     int   `json:"diner_count"`
	AllConfirmed   bool  `json:"all_confirmed"`
}

type RequestChangeRequest struct {
	TableID string `json:"table_id"`
	DinerID string `json:"diner_id"`
	Reason  string `json:"reason,omitempty"`
}

type RequestChangeResponse struct {
	Table Table `json:"table"`
	Diner Diner `json:"diner"`
}

type SettleUpRequest struct {
	TableID string `json:"table_id"`
	// Payments maps diner IDs to what each put down at the register.
	Payments map[string]float64 `json:"payments"`
}

type SettleUpResponse struct {
	Transfers []Transfer `json:"transfers"`
}

type CloseTableRequest struct {
	TableID string `json:"table_id"`
}

type CloseTableResponse struct {
	Table Table `json:"table"`
}
