package db

// schema creates all tables used by the local store. Entity tables carry a
// uuid primary key and an owning user_uuid; deletions during sync are
// tombstones (is_deleted=1), never row removal.
const schema = `
CREATE TABLE IF NOT EXISTS website_groups (
	uuid        TEXT PRIMARY KEY,
	user_uuid   TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT,
	sort_order  INTEGER,
	is_deleted  INTEGER NOT NULL DEFAULT 0,
	updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_website_groups_user ON website_groups(user_uuid);

CREATE TABLE IF NOT EXISTS websites (
	uuid             TEXT PRIMARY KEY,
	user_uuid        TEXT NOT NULL,
	group_uuid       TEXT NOT NULL,
	title            TEXT NOT NULL,
	url              TEXT NOT NULL,
	url_lan          TEXT,
	default_icon     TEXT,
	local_icon_path  TEXT,
	background_color TEXT,
	description      TEXT,
	sort_order       INTEGER,
	is_deleted       INTEGER NOT NULL DEFAULT 0,
	updated_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_websites_user ON websites(user_uuid);
CREATE INDEX IF NOT EXISTS idx_websites_group ON websites(group_uuid);

CREATE TABLE IF NOT EXISTS asset_categories (
	uuid       TEXT PRIMARY KEY,
	user_uuid  TEXT NOT NULL,
	name       TEXT NOT NULL,
	is_default INTEGER NOT NULL DEFAULT 0,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_asset_categories_user ON asset_categories(user_uuid);

CREATE TABLE IF NOT EXISTS assets (
	uuid            TEXT PRIMARY KEY,
	user_uuid       TEXT NOT NULL,
	category_uuid   TEXT NOT NULL,
	name            TEXT NOT NULL,
	purchase_date   TEXT NOT NULL DEFAULT '',
	price           REAL NOT NULL DEFAULT 0,
	expiration_date TEXT,
	description     TEXT,
	is_deleted      INTEGER NOT NULL DEFAULT 0,
	updated_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	brand           TEXT,
	model           TEXT,
	serial_number   TEXT,
	status          TEXT NOT NULL DEFAULT 'active',
	sale_price      REAL,
	sale_date       TEXT,
	fees            REAL,
	buyer           TEXT,
	notes           TEXT,
	realized_profit REAL
);
CREATE INDEX IF NOT EXISTS idx_assets_user ON assets(user_uuid);
CREATE INDEX IF NOT EXISTS idx_assets_category ON assets(category_uuid);

CREATE TABLE IF NOT EXISTS search_engines (
	uuid            TEXT PRIMARY KEY,
	user_uuid       TEXT NOT NULL,
	name            TEXT NOT NULL,
	url_template    TEXT NOT NULL,
	default_icon    TEXT,
	local_icon_path TEXT,
	is_default      INTEGER NOT NULL DEFAULT 0,
	sort_order      INTEGER,
	updated_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_search_engines_user ON search_engines(user_uuid);

CREATE TABLE IF NOT EXISTS sync_metadata (
	user_uuid       TEXT PRIMARY KEY,
	last_synced_rev INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sync_logs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	user_uuid   TEXT NOT NULL,
	started_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	finished_at TEXT,
	status      TEXT NOT NULL DEFAULT 'running',
	summary     TEXT,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_sync_logs_user ON sync_logs(user_uuid);
`
