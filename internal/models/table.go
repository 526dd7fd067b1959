package models

// TableStatus is where a table is in the ordering/checkout workflow.
type TableStatus string

const (
	// TableOpen accepts order changes.
	TableOpen TableStatus = "open"
	// TableCheckout has sent the split to diners for confirmation.
	TableCheckout TableStatus = "checkout"
	// TableClosed is archived; no further changes are accepted.
	TableClosed TableStatus = "closed"
)

// Table is a shared check being split among diners.
type Table struct {
	// ID is the unique identifier for the table session (UUID format).
	ID string

	// Name is the display name (e.g., "Table 7").
	Name string

	// TaxRate is a non-negative fraction (0.08875 for 8.875%).
	TaxRate float64

	// TipPercentage is in percent units (20 means 20%). Zero means no tip.
	TipPercentage float64

	// Status is the workflow state.
	Status TableStatus

	// CreatedAt is the Unix timestamp when the table was opened.
	CreatedAt int64
}

// Diner is a participant at a table.
type Diner struct {
	// ID is the unique identifier for the diner (UUID format).
	ID string

	// TableID is the table the diner joined.
	TableID string

	// Name is the display name.
	Name string

	// IsConnected reports whether the diner's device is currently connected.
	IsConnected bool

	// HasConfirmed reports whether the diner accepted their computed total.
	// Cleared whenever the order changes.
	HasConfirmed bool

	// JoinedAt is the Unix timestamp when the diner joined.
	JoinedAt int64
}
