package db

import (
	"fmt"
	"regexp"
	"strings"
)

// TableSpec declares the shape of a synchronized table for the generic
// upsert: table name, allowed columns, and the conflict key. Keeping the
// column list declarative avoids ad hoc SQL string building and makes
// unknown wire fields a hard error instead of a silent injection vector.
type TableSpec struct {
	Name    string
	Key     string
	Columns []string
}

var validColumnName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var (
	// WebsiteGroupsTable describes website_groups.
	WebsiteGroupsTable = TableSpec{
		Name: "website_groups",
		Key:  "uuid",
		Columns: []string{
			"uuid", "user_uuid", "name", "description", "sort_order",
			"is_deleted", "updated_at",
		},
	}

	// WebsitesTable describes websites.
	WebsitesTable = TableSpec{
		Name: "websites",
		Key:  "uuid",
		Columns: []string{
			"uuid", "user_uuid", "group_uuid", "title", "url", "url_lan",
			"default_icon", "local_icon_path", "background_color",
			"description", "sort_order", "is_deleted", "updated_at",
		},
	}

	// AssetCategoriesTable describes asset_categories.
	AssetCategoriesTable = TableSpec{
		Name: "asset_categories",
		Key:  "uuid",
		Columns: []string{
			"uuid", "user_uuid", "name", "is_default", "is_deleted",
			"updated_at",
		},
	}

	// AssetsTable describes assets.
	AssetsTable = TableSpec{
		Name: "assets",
		Key:  "uuid",
		Columns: []string{
			"uuid", "user_uuid", "category_uuid", "name", "purchase_date",
			"price", "expiration_date", "description", "is_deleted",
			"updated_at", "brand", "model", "serial_number", "status",
			"sale_price", "sale_date", "fees", "buyer", "notes",
			"realized_profit",
		},
	}

	// SearchEnginesTable describes search_engines.
	SearchEnginesTable = TableSpec{
		Name: "search_engines",
		Key:  "uuid",
		Columns: []string{
			"uuid", "user_uuid", "name", "url_template", "default_icon",
			"local_icon_path", "is_default", "sort_order", "updated_at",
		},
	}
)

// UpsertRecord inserts or updates one row keyed on spec.Key. Only columns
// declared in the spec are written; the spec's declaration order fixes the
// statement shape, so the same record always produces the same SQL. Fields
// in rec that are not declared columns are rejected. Idempotent: re-running
// with the same record is a no-op.
func (db *DB) UpsertRecord(spec TableSpec, rec map[string]any) error {
	if len(rec) == 0 {
		return fmt.Errorf("upsert %s: empty record", spec.Name)
	}
	if _, ok := rec[spec.Key]; !ok {
		return fmt.Errorf("upsert %s: record missing key column %q", spec.Name, spec.Key)
	}

	declared := make(map[string]bool, len(spec.Columns))
	for _, c := range spec.Columns {
		if !validColumnName.MatchString(c) {
			return fmt.Errorf("upsert %s: invalid column name %q in spec", spec.Name, c)
		}
		declared[c] = true
	}
	for k := range rec {
		if !declared[k] {
			return fmt.Errorf("upsert %s: undeclared column %q", spec.Name, k)
		}
	}

	var cols []string
	var vals []any
	var updates []string
	for _, c := range spec.Columns {
		v, ok := rec[c]
		if !ok {
			continue
		}
		cols = append(cols, c)
		vals = append(vals, v)
		if c != spec.Key {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		spec.Name, strings.Join(cols, ", "), placeholders, spec.Key,
		strings.Join(updates, ", "),
	)

	return db.withWriteLock(func() error {
		if _, err := db.conn.Exec(query, vals...); err != nil {
			return fmt.Errorf("upsert %s/%v: %w", spec.Name, rec[spec.Key], err)
		}
		return nil
	})
}
