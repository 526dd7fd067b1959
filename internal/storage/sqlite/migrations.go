package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Order lines snapshot the menu item they were ordered from, so catalog
// changes never rewrite an open check.
const schema = `
CREATE TABLE IF NOT EXISTS dining_tables (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    tax_rate REAL NOT NULL,
    tip_percentage REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS diners (
    id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    name TEXT NOT NULL,
    is_connected INTEGER NOT NULL DEFAULT 1,
    has_confirmed INTEGER NOT NULL DEFAULT 0,
    joined_at INTEGER NOT NULL,
    FOREIGN KEY (table_id) REFERENCES dining_tables(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS menu_items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    price REAL NOT NULL,
    category TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS order_lines (
    id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    item_name TEXT NOT NULL,
    item_price REAL NOT NULL,
    item_category TEXT NOT NULL,
    item_description TEXT NOT NULL DEFAULT '',
    quantity INTEGER NOT NULL,
    is_shared INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (table_id) REFERENCES dining_tables(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS order_assignments (
    line_id TEXT NOT NULL,
    diner_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (line_id, diner_id),
    FOREIGN KEY (line_id) REFERENCES order_lines(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_diners_table_id ON diners(table_id);
CREATE INDEX IF NOT EXISTS idx_order_lines_table_id ON order_lines(table_id);
CREATE INDEX IF NOT EXISTS idx_order_assignments_line_id ON order_assignments(line_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
