package db

import "testing"

func TestListFiltersByUser(t *testing.T) {
	database := setupDB(t)

	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g1", "u1", "Mine"))
	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g2", "u2", "Theirs"))

	groups, err := database.ListWebsiteGroups("u1")
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 1 || groups[0].UUID != "g1" {
		t.Fatalf("got %+v, want only g1", groups)
	}
	if groups[0].UserUUID != "u1" {
		t.Fatalf("owner: got %q, want u1", groups[0].UserUUID)
	}
}

func TestDefaultAssetCategories(t *testing.T) {
	database := setupDB(t)

	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c1", "u1", "default", 1))
	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c2", "u1", "other", 0))
	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c3", "u1", "stale default", 1))

	defaults, err := database.DefaultAssetCategories("u1")
	if err != nil {
		t.Fatalf("default categories: %v", err)
	}
	if len(defaults) != 2 {
		t.Fatalf("defaults: got %d, want 2", len(defaults))
	}
}

func TestDemoteAssetCategory(t *testing.T) {
	database := setupDB(t)
	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c1", "u1", "default", 1))

	if err := database.DemoteAssetCategory("c1", "default_deprecated_1"); err != nil {
		t.Fatalf("demote: %v", err)
	}

	cats, err := database.ListAssetCategories("u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if cats[0].IsDefault != 0 {
		t.Fatal("is_default should be cleared")
	}
	if cats[0].Name != "default_deprecated_1" {
		t.Fatalf("name: got %q", cats[0].Name)
	}
}

func TestRepointAssets(t *testing.T) {
	database := setupDB(t)
	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c1", "u1", "old", 0))
	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c2", "u1", "new", 1))
	mustUpsert(t, database, AssetsTable, assetRec("a1", "u1", "c1", "laptop"))
	mustUpsert(t, database, AssetsTable, assetRec("a2", "u1", "c1", "phone"))
	mustUpsert(t, database, AssetsTable, assetRec("a3", "u1", "c2", "desk"))

	moved, err := database.RepointAssets("c1", "c2")
	if err != nil {
		t.Fatalf("repoint: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved: got %d, want 2", moved)
	}

	assets, err := database.ListAssets("u1")
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	for _, a := range assets {
		if a.CategoryUUID != "c2" {
			t.Fatalf("asset %s still points at %s", a.UUID, a.CategoryUUID)
		}
	}
}

func TestRepointWebsites(t *testing.T) {
	database := setupDB(t)
	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g1", "u1", "old"))
	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g2", "u1", "new"))
	mustUpsert(t, database, WebsitesTable, websiteRec("w1", "u1", "g1", "a"))
	mustUpsert(t, database, WebsitesTable, websiteRec("w2", "u1", "g1", "b"))

	moved, err := database.RepointWebsites("g1", "g2")
	if err != nil {
		t.Fatalf("repoint: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved: got %d, want 2", moved)
	}
}

func TestDeleteAfterMigration(t *testing.T) {
	database := setupDB(t)
	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g1", "u1", "old"))
	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c1", "u1", "old", 0))

	if err := database.DeleteWebsiteGroup("g1"); err != nil {
		t.Fatalf("delete group: %v", err)
	}
	if err := database.DeleteAssetCategory("c1"); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	groups, _ := database.ListWebsiteGroups("u1")
	if len(groups) != 0 {
		t.Fatalf("groups remain: %+v", groups)
	}
	cats, _ := database.ListAssetCategories("u1")
	if len(cats) != 0 {
		t.Fatalf("categories remain: %+v", cats)
	}
}

func TestPurgeUserData(t *testing.T) {
	database := setupDB(t)
	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g1", "u1", "Mine"))
	mustUpsert(t, database, WebsitesTable, websiteRec("w1", "u1", "g1", "a"))
	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c1", "u1", "default", 1))
	mustUpsert(t, database, AssetsTable, assetRec("a1", "u1", "c1", "laptop"))
	mustUpsert(t, database, SearchEnginesTable, engineRec("s1", "u1", "ddg"))
	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g2", "u2", "Theirs"))
	if err := database.SetLastSyncedRev("u1", 7); err != nil {
		t.Fatalf("set rev: %v", err)
	}

	if err := database.PurgeUserData("u1"); err != nil {
		t.Fatalf("purge: %v", err)
	}

	for name, count := range map[string]int{
		"groups":     lenGroups(t, database, "u1"),
		"websites":   lenWebsites(t, database, "u1"),
		"categories": lenCategories(t, database, "u1"),
		"assets":     lenAssets(t, database, "u1"),
		"engines":    lenEngines(t, database, "u1"),
	} {
		if count != 0 {
			t.Errorf("%s remain after purge: %d", name, count)
		}
	}

	rev, err := database.LastSyncedRev("u1")
	if err != nil {
		t.Fatalf("rev after purge: %v", err)
	}
	if rev != 0 {
		t.Fatalf("cursor survived purge: %d", rev)
	}

	// Other users' data is untouched.
	other, _ := database.ListWebsiteGroups("u2")
	if len(other) != 1 {
		t.Fatalf("u2 data affected by purge: %+v", other)
	}
}

func TestClaimUserData(t *testing.T) {
	database := setupDB(t)
	mustUpsert(t, database, WebsiteGroupsTable, groupRec("g1", "anon", "Mine"))
	mustUpsert(t, database, AssetCategoriesTable, categoryRec("c1", "anon", "default", 1))

	if err := database.ClaimUserData("anon", "u1"); err != nil {
		t.Fatalf("claim: %v", err)
	}

	groups, _ := database.ListWebsiteGroups("u1")
	if len(groups) != 1 {
		t.Fatalf("claimed groups: got %d, want 1", len(groups))
	}
	orphans, _ := database.ListWebsiteGroups("anon")
	if len(orphans) != 0 {
		t.Fatalf("anon still owns %d groups", len(orphans))
	}
}

func lenGroups(t *testing.T, database *DB, user string) int {
	t.Helper()
	rows, err := database.ListWebsiteGroups(user)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	return len(rows)
}

func lenWebsites(t *testing.T, database *DB, user string) int {
	t.Helper()
	rows, err := database.ListWebsites(user)
	if err != nil {
		t.Fatalf("list websites: %v", err)
	}
	return len(rows)
}

func lenCategories(t *testing.T, database *DB, user string) int {
	t.Helper()
	rows, err := database.ListAssetCategories(user)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	return len(rows)
}

func lenAssets(t *testing.T, database *DB, user string) int {
	t.Helper()
	rows, err := database.ListAssets(user)
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	return len(rows)
}

func lenEngines(t *testing.T, database *DB, user string) int {
	t.Helper()
	rows, err := database.ListSearchEngines(user)
	if err != nil {
		t.Fatalf("list engines: %v", err)
	}
	return len(rows)
}
