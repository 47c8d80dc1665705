package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the event tables. Column layout matches files written by
// earlier releases, so existing stores open unchanged.
const Schema = `
CREATE TABLE IF NOT EXISTS rebalance_history (
    date INTEGER NOT NULL,
    from_node TEXT NOT NULL,
    to_node TEXT NOT NULL,
    amount INTEGER NOT NULL,
    rebalanced INTEGER DEFAULT 0,
    status INTEGER,
    extra TEXT DEFAULT NULL
);

CREATE TABLE IF NOT EXISTS failed_htlc (
    date INTEGER NOT NULL,
    from_chan TEXT NOT NULL,
    to_chan TEXT NOT NULL,
    sats INTEGER NOT NULL,
    extra TEXT DEFAULT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rebalance_history_date ON rebalance_history(date);
CREATE INDEX IF NOT EXISTS idx_failed_htlc_date ON failed_htlc(date);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the newest recorded schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertFailedHtlc = `
INSERT INTO failed_htlc (date, from_chan, to_chan, sats, extra)
VALUES (:date, :from_chan, :to_chan, :sats, :extra)
`

const insertRebalance = `
INSERT INTO rebalance_history (date, from_node, to_node, amount, rebalanced, status, extra)
VALUES (:date, :from_node, :to_node, :amount, :rebalanced, :status, :extra)
`

const selectFailedHtlcs = `SELECT date, from_chan, to_chan, sats, extra FROM failed_htlc`

const selectRebalances = `SELECT rowid AS id, date, from_node, to_node, amount, rebalanced, status, extra FROM rebalance_history`
