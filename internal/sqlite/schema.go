package sqlite

// Schema DDL. Every statement is idempotent so Attach can run it against an
// existing database.
const (
	createEntries = `CREATE TABLE IF NOT EXISTS entries (
    bucket TEXT NOT NULL,
    key TEXT NOT NULL,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (bucket, key)
);`

	createOrders = `CREATE TABLE IF NOT EXISTS orders (
    bucket TEXT PRIMARY KEY,
    keys TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Index DDL.
const (
	idxEntriesUpdated = `CREATE INDEX IF NOT EXISTS idx_entries_updated ON entries(bucket, updated_at);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createEntries,
	createOrders,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxEntriesUpdated,
}
