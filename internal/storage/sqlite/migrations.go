package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: trips must be created before the tables that reference it.
const schema = `
CREATE TABLE IF NOT EXISTS trips (
    chat_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    currency TEXT NOT NULL,
    creator_id INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS participants (
    trip_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    handle TEXT NOT NULL DEFAULT '',
    display_name TEXT NOT NULL,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (trip_id, user_id),
    FOREIGN KEY (trip_id) REFERENCES trips(chat_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS debt_groups (
    id TEXT PRIMARY KEY,
    trip_id INTEGER NOT NULL,
    total REAL NOT NULL,
    currency TEXT NOT NULL,
    payer_id INTEGER NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    deleted INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (trip_id) REFERENCES trips(chat_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS debt_group_members (
    group_id TEXT NOT NULL,
    user_id INTEGER NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES debt_groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    trip_id INTEGER NOT NULL,
    debtor_id INTEGER NOT NULL,
    creditor_id INTEGER NOT NULL,
    amount REAL NOT NULL,
    currency TEXT NOT NULL,
    paid INTEGER NOT NULL DEFAULT 0,
    paid_at INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES debt_groups(id) ON DELETE CASCADE,
    FOREIGN KEY (trip_id) REFERENCES trips(chat_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS user_settings (
    user_id INTEGER PRIMARY KEY,
    notifications TEXT NOT NULL,
    language TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_trips (
    user_id INTEGER NOT NULL,
    trip_id INTEGER NOT NULL,
    active INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, trip_id),
    FOREIGN KEY (trip_id) REFERENCES trips(chat_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_participants_trip_id ON participants(trip_id);
CREATE INDEX IF NOT EXISTS idx_debt_groups_trip_id ON debt_groups(trip_id);
CREATE INDEX IF NOT EXISTS idx_debts_trip_id ON debts(trip_id);
CREATE INDEX IF NOT EXISTS idx_debts_group_id ON debts(group_id);
CREATE INDEX IF NOT EXISTS idx_debts_debtor ON debts(trip_id, debtor_id, paid);
CREATE INDEX IF NOT EXISTS idx_debts_creditor ON debts(trip_id, creditor_id, paid);
CREATE INDEX IF NOT EXISTS idx_user_trips_user ON user_trips(user_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
