package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schema sets up the database. It runs on every startup and is idempotent.
// neighbors must be created before vehicles and payments due to the
// foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS neighbors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    address TEXT NOT NULL,
    search_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS vehicles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    license_plate TEXT NOT NULL,
    make TEXT NOT NULL,
    model TEXT NOT NULL,
    control_number TEXT NOT NULL,
    neighbor_id INTEGER NOT NULL,
    FOREIGN KEY (neighbor_id) REFERENCES neighbors(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    neighbor_id INTEGER NOT NULL,
    method TEXT NOT NULL,
    amount REAL NOT NULL,
    deposit_account TEXT,
    screenshot_path TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (neighbor_id) REFERENCES neighbors(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_neighbors_last_name ON neighbors(last_name);
CREATE INDEX IF NOT EXISTS idx_vehicles_neighbor_id ON vehicles(neighbor_id);
CREATE INDEX IF NOT EXISTS idx_payments_neighbor_created ON payments(neighbor_id, created_at);
`

// runMigrations executes the schema setup, then adds columns introduced
// after the first release to existing databases.
func runMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}

	hasKey, err := hasColumn(ctx, db, "neighbors", "search_key")
	if err != nil {
		return err
	}
	if !hasKey {
		if _, err := db.ExecContext(ctx,
			"ALTER TABLE neighbors ADD COLUMN search_key TEXT NOT NULL DEFAULT ''",
		); err != nil {
			return fmt.Errorf("failed to add search_key: %w", err)
		}
	}

	return backfillSearchKeys(ctx, db)
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info('"+table+"')")
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("failed to inspect %s: %w", table, err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
