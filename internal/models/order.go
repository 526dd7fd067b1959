package models

// MenuItem is a catalog entry. Created by menu configuration, never mutated.
type MenuItem struct {
	ID          string
	Name        string
	Price       float64
	Category    string
	Description string
}

// OrderLine is one ordered quantity of a menu item for a table.
type OrderLine struct {
	// ID is the unique identifier for the line (UUID format).
	ID string

	// TableID is the table the line was ordered for.
	TableID string

	// MenuItem is the item as it was when ordered.
	MenuItem MenuItem

	// Quantity is at least 1. Setting it to 0 deletes the line.
	Quantity int

	// IsShared marks the line as divided across every diner at the table.
	IsShared bool

	// AssignedTo lists the diner IDs the line is charged to.
	// Only meaningful when IsShared is false; emptied when sharing is turned on.
	AssignedTo []string

	// CreatedAt is the Unix timestamp when the line was added.
	CreatedAt int64
}
