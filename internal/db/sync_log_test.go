package db

import "testing"

func TestSyncLogLifecycle(t *testing.T) {
	database := setupDB(t)

	if err := database.CreateSyncLog("s1", "u1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := database.SyncLogTail("u1", 10)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	if entries[0].Status != SyncStatusRunning {
		t.Fatalf("status: got %q, want running", entries[0].Status)
	}
	if entries[0].FinishedAt != nil {
		t.Fatal("finished_at should be unset while running")
	}

	if err := database.FinalizeSyncLog("s1", SyncStatusSuccess, "groups=1", ""); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	entries, _ = database.SyncLogTail("u1", 10)
	if entries[0].Status != SyncStatusSuccess {
		t.Fatalf("status: got %q, want success", entries[0].Status)
	}
	if entries[0].Summary != "groups=1" {
		t.Fatalf("summary: got %q", entries[0].Summary)
	}
	if entries[0].FinishedAt == nil {
		t.Fatal("finished_at should be set")
	}
}

func TestFinalizeSyncLogAtMostOnce(t *testing.T) {
	database := setupDB(t)
	if err := database.CreateSyncLog("s1", "u1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := database.FinalizeSyncLog("s1", SyncStatusFailed, "", "boom"); err != nil {
		t.Fatalf("first finalize: %v", err)
	}

	// A second finalize must not overwrite the settled row.
	if err := database.FinalizeSyncLog("s1", SyncStatusSuccess, "late", ""); err != nil {
		t.Fatalf("second finalize: %v", err)
	}

	entries, _ := database.SyncLogTail("u1", 10)
	if entries[0].Status != SyncStatusFailed {
		t.Fatalf("status: got %q, want failed", entries[0].Status)
	}
	if entries[0].Error != "boom" {
		t.Fatalf("error: got %q, want boom", entries[0].Error)
	}
}

func TestSyncLogTailNewestFirst(t *testing.T) {
	database := setupDB(t)
	for _, s := range []string{"s1", "s2", "s3"} {
		if err := database.CreateSyncLog(s, "u1"); err != nil {
			t.Fatalf("create %s: %v", s, err)
		}
	}

	entries, err := database.SyncLogTail("u1", 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0].SessionID != "s3" || entries[1].SessionID != "s2" {
		t.Fatalf("order: got %s, %s", entries[0].SessionID, entries[1].SessionID)
	}
}
