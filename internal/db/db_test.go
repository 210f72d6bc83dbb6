package db

import (
	"testing"
)

func setupDB(t *testing.T) *DB {
	t.Helper()
	database, err := Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("initialize db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func mustUpsert(t *testing.T, database *DB, spec TableSpec, rec map[string]any) {
	t.Helper()
	if err := database.UpsertRecord(spec, rec); err != nil {
		t.Fatalf("upsert %s: %v", spec.Name, err)
	}
}

func groupRec(uuid, user, name string) map[string]any {
	return map[string]any{
		"uuid": uuid, "user_uuid": user, "name": name,
		"is_deleted": 0, "updated_at": "2026-01-01T00:00:00Z",
	}
}

func websiteRec(uuid, user, group, title string) map[string]any {
	return map[string]any{
		"uuid": uuid, "user_uuid": user, "group_uuid": group,
		"title": title, "url": "https://example.com",
		"is_deleted": 0, "updated_at": "2026-01-01T00:00:00Z",
	}
}

func categoryRec(uuid, user, name string, isDefault int) map[string]any {
	return map[string]any{
		"uuid": uuid, "user_uuid": user, "name": name,
		"is_default": isDefault, "is_deleted": 0,
		"updated_at": "2026-01-01T00:00:00Z",
	}
}

func assetRec(uuid, user, category, name string) map[string]any {
	return map[string]any{
		"uuid": uuid, "user_uuid": user, "category_uuid": category,
		"name": name, "purchase_date": "2026-01-01", "price": 9.99,
		"is_deleted": 0, "updated_at": "2026-01-01T00:00:00Z",
		"status": "active",
	}
}

func engineRec(uuid, user, name string) map[string]any {
	return map[string]any{
		"uuid": uuid, "user_uuid": user, "name": name,
		"url_template": "https://example.com/?q=%s", "is_default": 0,
		"updated_at": "2026-01-01T00:00:00Z",
	}
}

func TestOpenRequiresInit(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("open of uninitialized dir should fail")
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	d1, err := Initialize(dir)
	if err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	d1.Close()
	d2, err := Initialize(dir)
	if err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	d2.Close()

	d3, err := Open(dir)
	if err != nil {
		t.Fatalf("open after initialize: %v", err)
	}
	d3.Close()
}
