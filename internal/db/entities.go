package db

import (
	"database/sql"
	"fmt"

	"github.com/gwj/vust/internal/models"
)

// ListWebsiteGroups returns all groups owned by the user, in sort order.
func (db *DB) ListWebsiteGroups(userUUID string) ([]models.WebsiteGroup, error) {
	rows, err := db.conn.Query(`
		SELECT uuid, name, description, sort_order, is_deleted, updated_at
		FROM website_groups WHERE user_uuid = ?
		ORDER BY sort_order, uuid`, userUUID)
	if err != nil {
		return nil, fmt.Errorf("query website_groups: %w", err)
	}
	defer rows.Close()

	var groups []models.WebsiteGroup
	for rows.Next() {
		var g models.WebsiteGroup
		var desc sql.NullString
		var order sql.NullInt64
		if err := rows.Scan(&g.UUID, &g.Name, &desc, &order, &g.IsDeleted, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan website_group: %w", err)
		}
		g.UserUUID = userUUID
		g.Description = nullStr(desc)
		g.SortOrder = nullInt(order)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListWebsites returns all website items owned by the user.
func (db *DB) ListWebsites(userUUID string) ([]models.Website, error) {
	rows, err := db.conn.Query(`
		SELECT uuid, group_uuid, title, url, url_lan, default_icon,
		       local_icon_path, background_color, description, sort_order,
		       is_deleted, updated_at
		FROM websites WHERE user_uuid = ?
		ORDER BY sort_order, uuid`, userUUID)
	if err != nil {
		return nil, fmt.Errorf("query websites: %w", err)
	}
	defer rows.Close()

	var sites []models.Website
	for rows.Next() {
		var w models.Website
		var urlLan, icon, localIcon, bg, desc sql.NullString
		var order sql.NullInt64
		if err := rows.Scan(&w.UUID, &w.GroupUUID, &w.Title, &w.URL, &urlLan,
			&icon, &localIcon, &bg, &desc, &order, &w.IsDeleted, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan website: %w", err)
		}
		w.UserUUID = userUUID
		w.URLLan = nullStr(urlLan)
		w.DefaultIcon = nullStr(icon)
		w.LocalIconPath = nullStr(localIcon)
		w.BackgroundColor = nullStr(bg)
		w.Description = nullStr(desc)
		w.SortOrder = nullInt(order)
		sites = append(sites, w)
	}
	return sites, rows.Err()
}

// ListAssetCategories returns all asset categories owned by the user.
func (db *DB) ListAssetCategories(userUUID string) ([]models.AssetCategory, error) {
	rows, err := db.conn.Query(`
		SELECT uuid, name, is_default, is_deleted, updated_at
		FROM asset_categories WHERE user_uuid = ?
		ORDER BY uuid`, userUUID)
	if err != nil {
		return nil, fmt.Errorf("query asset_categories: %w", err)
	}
	defer rows.Close()

	var cats []models.AssetCategory
	for rows.Next() {
		var c models.AssetCategory
		if err := rows.Scan(&c.UUID, &c.Name, &c.IsDefault, &c.IsDeleted, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan asset_category: %w", err)
		}
		c.UserUUID = userUUID
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// DefaultAssetCategories returns the user's categories flagged is_default=1.
// In steady state there is exactly one; the conflict resolver consumes this
// to repair violations.
func (db *DB) DefaultAssetCategories(userUUID string) ([]models.AssetCategory, error) {
	cats, err := db.ListAssetCategories(userUUID)
	if err != nil {
		return nil, err
	}
	defaults := cats[:0]
	for _, c := range cats {
		if c.IsDefault == 1 {
			defaults = append(defaults, c)
		}
	}
	return defaults, nil
}

// ListAssets returns all assets owned by the user.
func (db *DB) ListAssets(userUUID string) ([]models.Asset, error) {
	rows, err := db.conn.Query(`
		SELECT uuid, category_uuid, name, purchase_date, price,
		       expiration_date, description, is_deleted, updated_at, brand,
		       model, serial_number, status, sale_price, sale_date, fees,
		       buyer, notes, realized_profit
		FROM assets WHERE user_uuid = ?
		ORDER BY uuid`, userUUID)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		var expDate, desc, brand, model, serial, saleDate, buyer, notes sql.NullString
		var salePrice, fees, profit sql.NullFloat64
		if err := rows.Scan(&a.UUID, &a.CategoryUUID, &a.Name, &a.PurchaseDate,
			&a.Price, &expDate, &desc, &a.IsDeleted, &a.UpdatedAt, &brand,
			&model, &serial, &a.Status, &salePrice, &saleDate, &fees,
			&buyer, &notes, &profit); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.UserUUID = userUUID
		a.ExpirationDate = nullStr(expDate)
		a.Description = nullStr(desc)
		a.Brand = nullStr(brand)
		a.Model = nullStr(model)
		a.SerialNumber = nullStr(serial)
		a.SalePrice = nullFloat(salePrice)
		a.SaleDate = nullStr(saleDate)
		a.Fees = nullFloat(fees)
		a.Buyer = nullStr(buyer)
		a.Notes = nullStr(notes)
		a.RealizedProfit = nullFloat(profit)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// ListSearchEngines returns all search engines owned by the user.
func (db *DB) ListSearchEngines(userUUID string) ([]models.SearchEngine, error) {
	rows, err := db.conn.Query(`
		SELECT uuid, name, url_template, default_icon, local_icon_path,
		       is_default, sort_order, updated_at
		FROM search_engines WHERE user_uuid = ?
		ORDER BY sort_order, uuid`, userUUID)
	if err != nil {
		return nil, fmt.Errorf("query search_engines: %w", err)
	}
	defer rows.Close()

	var engines []models.SearchEngine
	for rows.Next() {
		var e models.SearchEngine
		var icon, localIcon sql.NullString
		var order sql.NullInt64
		if err := rows.Scan(&e.UUID, &e.Name, &e.URLTemplate, &icon,
			&localIcon, &e.IsDefault, &order, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan search_engine: %w", err)
		}
		e.UserUUID = userUUID
		e.DefaultIcon = nullStr(icon)
		e.LocalIconPath = nullStr(localIcon)
		e.SortOrder = nullInt(order)
		engines = append(engines, e)
	}
	return engines, rows.Err()
}

// DemoteAssetCategory clears is_default and renames the category in one
// statement, so uniqueness of the default flag is never violated mid-merge.
func (db *DB) DemoteAssetCategory(uuid, newName string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(
			`UPDATE asset_categories SET is_default = 0, name = ? WHERE uuid = ?`,
			newName, uuid)
		if err != nil {
			return fmt.Errorf("demote category %s: %w", uuid, err)
		}
		return nil
	})
}

// RepointAssets moves every asset from one category to another and reports
// how many rows moved.
func (db *DB) RepointAssets(fromCategory, toCategory string) (int64, error) {
	var moved int64
	err := db.withWriteLock(func() error {
		res, err := db.conn.Exec(
			`UPDATE assets SET category_uuid = ? WHERE category_uuid = ?`,
			toCategory, fromCategory)
		if err != nil {
			return fmt.Errorf("repoint assets %s -> %s: %w", fromCategory, toCategory, err)
		}
		moved, _ = res.RowsAffected()
		return nil
	})
	return moved, err
}

// DeleteAssetCategory removes a category row. Used only by the conflict
// resolver after its assets have been migrated.
func (db *DB) DeleteAssetCategory(uuid string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`DELETE FROM asset_categories WHERE uuid = ?`, uuid)
		if err != nil {
			return fmt.Errorf("delete category %s: %w", uuid, err)
		}
		return nil
	})
}

// RenameWebsiteGroup renames a group to free its name for an incoming
// server group.
func (db *DB) RenameWebsiteGroup(uuid, newName string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(
			`UPDATE website_groups SET name = ? WHERE uuid = ?`, newName, uuid)
		if err != nil {
			return fmt.Errorf("rename group %s: %w", uuid, err)
		}
		return nil
	})
}

// RepointWebsites moves every website item from one group to another and
// reports how many rows moved.
func (db *DB) RepointWebsites(fromGroup, toGroup string) (int64, error) {
	var moved int64
	err := db.withWriteLock(func() error {
		res, err := db.conn.Exec(
			`UPDATE websites SET group_uuid = ? WHERE group_uuid = ?`,
			toGroup, fromGroup)
		if err != nil {
			return fmt.Errorf("repoint websites %s -> %s: %w", fromGroup, toGroup, err)
		}
		moved, _ = res.RowsAffected()
		return nil
	})
	return moved, err
}

// DeleteWebsiteGroup removes a group row. Used only by the conflict
// resolver after its items have been migrated.
func (db *DB) DeleteWebsiteGroup(uuid string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`DELETE FROM website_groups WHERE uuid = ?`, uuid)
		if err != nil {
			return fmt.Errorf("delete group %s: %w", uuid, err)
		}
		return nil
	})
}

// PurgeUserData removes every row owned by the user across all entity
// tables and the sync cursor. Invoked when the server reports the account
// deleted.
func (db *DB) PurgeUserData(userUUID string) error {
	tables := []string{
		"website_groups", "websites", "asset_categories", "assets",
		"search_engines", "sync_metadata",
	}
	return db.withWriteLock(func() error {
		for _, t := range tables {
			if _, err := db.conn.Exec(
				fmt.Sprintf("DELETE FROM %s WHERE user_uuid = ?", t), userUUID); err != nil {
				return fmt.Errorf("purge %s: %w", t, err)
			}
		}
		return nil
	})
}

// ClaimUserData reassigns every row owned by fromUUID to toUUID. This is
// the explicit claim operation that adopts anonymous-owned local data into
// a signed-in account; ownership is never reassigned during sync.
func (db *DB) ClaimUserData(fromUUID, toUUID string) error {
	tables := []string{
		"website_groups", "websites", "asset_categories", "assets",
		"search_engines",
	}
	return db.withWriteLock(func() error {
		for _, t := range tables {
			if _, err := db.conn.Exec(
				fmt.Sprintf("UPDATE %s SET user_uuid = ? WHERE user_uuid = ?", t),
				toUUID, fromUUID); err != nil {
				return fmt.Errorf("claim %s: %w", t, err)
			}
		}
		return nil
	})
}
