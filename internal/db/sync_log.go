package db

import (
	"database/sql"
	"fmt"
)

// Sync log statuses.
const (
	SyncStatusRunning = "running"
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// SyncLogEntry is one audit row per sync attempt.
type SyncLogEntry struct {
	ID         int64
	SessionID  string
	UserUUID   string
	StartedAt  string
	FinishedAt *string
	Status     string
	Summary    string
	Error      string
}

// CreateSyncLog records the start of a sync attempt once a session id is
// known. The row stays in status "running" until finalized.
func (db *DB) CreateSyncLog(sessionID, userUUID string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`
			INSERT INTO sync_logs (session_id, user_uuid, status)
			VALUES (?, ?, ?)`,
			sessionID, userUUID, SyncStatusRunning)
		if err != nil {
			return fmt.Errorf("create sync log: %w", err)
		}
		return nil
	})
}

// FinalizeSyncLog closes the attempt's audit row with a terminal status,
// summary, and error text. A row still in "running" is finalized at most
// once; repeated calls for the same session are no-ops.
func (db *DB) FinalizeSyncLog(sessionID, status, summary, errText string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`
			UPDATE sync_logs
			SET finished_at = strftime('%Y-%m-%dT%H:%M:%fZ','now'),
			    status = ?, summary = ?, error = ?
			WHERE session_id = ? AND status = ?`,
			status, summary, errText, sessionID, SyncStatusRunning)
		if err != nil {
			return fmt.Errorf("finalize sync log: %w", err)
		}
		return nil
	})
}

// SyncLogTail returns the most recent attempts for the user, newest first.
func (db *DB) SyncLogTail(userUUID string, limit int) ([]SyncLogEntry, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_id, user_uuid, started_at, finished_at, status,
		       COALESCE(summary, ''), COALESCE(error, '')
		FROM sync_logs WHERE user_uuid = ?
		ORDER BY id DESC LIMIT ?`, userUUID, limit)
	if err != nil {
		return nil, fmt.Errorf("query sync_logs: %w", err)
	}
	defer rows.Close()

	var entries []SyncLogEntry
	for rows.Next() {
		var e SyncLogEntry
		var finished sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &e.UserUUID, &e.StartedAt,
			&finished, &e.Status, &e.Summary, &e.Error); err != nil {
			return nil, fmt.Errorf("scan sync_log: %w", err)
		}
		e.FinishedAt = nullStr(finished)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
