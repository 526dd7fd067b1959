// Package models defines the table-session models persisted by tablesplit.
//
// # Models
//
//   - Table: one check being split, with its tax rate, tip, and status
//   - Diner: a participant who joined the table
//   - MenuItem: an immutable catalog entry
//   - OrderLine: an ordered quantity of a menu item for the table
//
// Amounts owed are never stored. A diner's total is derived from the
// current order lines by the calculator package on every read, so stored
// state cannot drift from the computed split.
//
// # Relationships
//
// Models reference each other by ID strings rather than pointers. Order
// lines embed a copy of their MenuItem as it was when ordered.
package models
