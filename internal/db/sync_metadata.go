package db

import (
	"database/sql"
	"fmt"
)

// LastSyncedRev returns the user's sync cursor, or 0 if the user has never
// completed a sync.
func (db *DB) LastSyncedRev(userUUID string) (int64, error) {
	var rev int64
	err := db.conn.QueryRow(
		`SELECT last_synced_rev FROM sync_metadata WHERE user_uuid = ?`,
		userUUID).Scan(&rev)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get last_synced_rev: %w", err)
	}
	return rev, nil
}

// SetLastSyncedRev persists the server-issued cursor for the user, creating
// the metadata row on first successful sync.
func (db *DB) SetLastSyncedRev(userUUID string, rev int64) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`
			INSERT INTO sync_metadata (user_uuid, last_synced_rev)
			VALUES (?, ?)
			ON CONFLICT(user_uuid) DO UPDATE SET last_synced_rev = excluded.last_synced_rev`,
			userUUID, rev)
		if err != nil {
			return fmt.Errorf("set last_synced_rev: %w", err)
		}
		return nil
	})
}
