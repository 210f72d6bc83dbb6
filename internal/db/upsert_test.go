package db

import (
	"strings"
	"testing"
)

func TestUpsertRecordInsertThenUpdate(t *testing.T) {
	database := setupDB(t)

	rec := groupRec("g1", "u1", "Tools")
	mustUpsert(t, database, WebsiteGroupsTable, rec)

	groups, err := database.ListWebsiteGroups("u1")
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Tools" {
		t.Fatalf("after insert: got %+v", groups)
	}

	rec["name"] = "Dev Tools"
	mustUpsert(t, database, WebsiteGroupsTable, rec)

	groups, err = database.ListWebsiteGroups("u1")
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("update created a new row: got %d rows", len(groups))
	}
	if groups[0].Name != "Dev Tools" {
		t.Fatalf("name: got %q, want 'Dev Tools'", groups[0].Name)
	}
}

func TestUpsertRecordIdempotent(t *testing.T) {
	database := setupDB(t)

	rec := categoryRec("c1", "u1", "default", 1)
	mustUpsert(t, database, AssetCategoriesTable, rec)
	mustUpsert(t, database, AssetCategoriesTable, rec)

	cats, err := database.ListAssetCategories("u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("rows: got %d, want 1", len(cats))
	}
}

func TestUpsertRecordRejectsUndeclaredColumn(t *testing.T) {
	database := setupDB(t)

	rec := groupRec("g1", "u1", "Tools")
	rec["evil; DROP TABLE website_groups"] = 1
	err := database.UpsertRecord(WebsiteGroupsTable, rec)
	if err == nil {
		t.Fatal("undeclared column should be rejected")
	}
	if !strings.Contains(err.Error(), "undeclared column") {
		t.Fatalf("error: got %v", err)
	}
}

func TestUpsertRecordRequiresKey(t *testing.T) {
	database := setupDB(t)

	err := database.UpsertRecord(WebsiteGroupsTable, map[string]any{"name": "no key"})
	if err == nil {
		t.Fatal("record without key column should be rejected")
	}
}

func TestUpsertRecordPartialColumns(t *testing.T) {
	database := setupDB(t)
	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g1", "u1", "Tools"))

	// A sparse update touches only the columns it carries. Columns with
	// NOT NULL and no default must still be present for the insert arm.
	mustUpsert(t, database, WebsiteGroupsTable, map[string]any{
		"uuid": "g1", "user_uuid": "u1", "name": "Renamed",
	})

	groups, err := database.ListWebsiteGroups("u1")
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Renamed" {
		t.Fatalf("after sparse update: got %+v", groups)
	}
}
