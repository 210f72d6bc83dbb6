// Package models defines the synchronized entity types. Field names and JSON
// tags mirror the wire DTOs exchanged with the sync server, so a marshaled
// row is exactly what the server expects in a chunk payload. The owning
// user_uuid never travels over the wire; the server derives it from the
// session and the client re-attaches it when applying server snapshots.
package models

// WebsiteGroup is a named, ordered container of website items.
type WebsiteGroup struct {
	UUID        string  `json:"uuid"`
	UserUUID    string  `json:"-"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int64  `json:"sort_order"`
	IsDeleted   int     `json:"is_deleted"`
	UpdatedAt   string  `json:"updated_at"`
}

// Website is a single bookmarked site inside a group.
type Website struct {
	UUID            string  `json:"uuid"`
	UserUUID        string  `json:"-"`
	GroupUUID       string  `json:"group_uuid"`
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	URLLan          *string `json:"url_lan"`
	DefaultIcon     *string `json:"default_icon"`
	LocalIconPath   *string `json:"local_icon_path"`
	BackgroundColor *string `json:"background_color"`
	Description     *string `json:"description"`
	SortOrder       *int64  `json:"sort_order"`
	IsDeleted       int     `json:"is_deleted"`
	UpdatedAt       string  `json:"updated_at"`
}

// AssetCategory groups assets. Exactly one category per user carries
// is_default=1; the conflict resolver restores that invariant after merges.
type AssetCategory struct {
	UUID      string `json:"uuid"`
	UserUUID  string `json:"-"`
	Name      string `json:"name"`
	IsDefault int    `json:"is_default"`
	IsDeleted int    `json:"is_deleted"`
	UpdatedAt string `json:"updated_at"`
}

// Asset is a tracked possession, including the sale fields added by the
// sale-tracking migration.
type Asset struct {
	UUID           string   `json:"uuid"`
	UserUUID       string   `json:"-"`
	CategoryUUID   string   `json:"category_uuid"`
	Name           string   `json:"name"`
	PurchaseDate   string   `json:"purchase_date"`
	Price          float64  `json:"price"`
	ExpirationDate *string  `json:"expiration_date"`
	Description    *string  `json:"description"`
	IsDeleted      int      `json:"is_deleted"`
	UpdatedAt      string   `json:"updated_at"`
	Brand          *string  `json:"brand"`
	Model          *string  `json:"model"`
	SerialNumber   *string  `json:"serial_number"`
	Status         string   `json:"status"`
	SalePrice      *float64 `json:"sale_price"`
	SaleDate       *string  `json:"sale_date"`
	Fees           *float64 `json:"fees"`
	Buyer          *string  `json:"buyer"`
	Notes          *string  `json:"notes"`
	RealizedProfit *float64 `json:"realized_profit"`
}

// SearchEngine is a user-configured search provider. At most one per user
// carries is_default=1.
type SearchEngine struct {
	UUID          string  `json:"uuid"`
	UserUUID      string  `json:"-"`
	Name          string  `json:"name"`
	URLTemplate   string  `json:"url_template"`
	DefaultIcon   *string `json:"default_icon"`
	LocalIconPath *string `json:"local_icon_path"`
	IsDefault     int     `json:"is_default"`
	SortOrder     *int64  `json:"sort_order"`
	UpdatedAt     string  `json:"updated_at"`
}
