package syncclient

import "encoding/json"

// DataType tags a sync chunk so client and server agree on what the chunk
// contains.
type DataType string

// Chunk data types, transmitted in this order during upload.
const (
	DataTypeWebsiteGroups   DataType = "WebsiteGroups"
	DataTypeWebsites        DataType = "Websites"
	DataTypeAssetCategories DataType = "AssetCategories"
	DataTypeAssets          DataType = "Assets"
	DataTypeSearchEngines   DataType = "SearchEngines"
	DataTypeLocalIcons      DataType = "LocalIcons"
)

// ClientInfo identifies this client to the version and token checks.
type ClientInfo struct {
	AppVersion    string `json:"app_version"`
	Username      string `json:"username"`
	Token         string `json:"token"`
	ServerAddress string `json:"server_address"`
}

// CurrentUser is the server's view of the authenticated account.
type CurrentUser struct {
	Username string `json:"username"`
}

// VersionInfo is the server's reported version.
type VersionInfo struct {
	Version string `json:"version"`
}

// StartSyncRequest opens a sync session from the user's revision cursor.
type StartSyncRequest struct {
	UserUUID      string `json:"user_uuid"`
	LastSyncedRev int64  `json:"last_synced_rev"`
}

// StartSyncResponse carries the session id and, optionally, the chunk size
// the server prefers for this session.
type StartSyncResponse struct {
	SessionID          string `json:"session_id"`
	SuggestedChunkSize int    `json:"suggested_chunk_size,omitempty"`
}

// ChunkPayload is one bounded slice of records for a single data type.
type ChunkPayload struct {
	SessionID string            `json:"session_id"`
	DataType  DataType          `json:"data_type"`
	ChunkData []json.RawMessage `json:"chunk_data"`
}

// Record is a server snapshot row with dynamic columns. The conflict
// resolver inspects a few well-known fields and passes the rest through to
// the generic upsert untouched.
type Record map[string]any

// Str returns a string field, or "" when absent or not a string.
func (r Record) Str(key string) string {
	s, _ := r[key].(string)
	return s
}

// Int returns a numeric field as int64. JSON numbers decode as float64.
func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// UUID returns the row's global identity.
func (r Record) UUID() string { return r.Str("uuid") }

// Name returns the row's name field.
func (r Record) Name() string { return r.Str("name") }

// IsDefault reports whether the row carries the singleton default flag.
func (r Record) IsDefault() bool { return r.Int("is_default") == 1 }

// SyncData is the server's resolved snapshot for all entity tables.
type SyncData struct {
	WebsiteGroups   []Record `json:"website_groups"`
	Websites        []Record `json:"websites"`
	AssetCategories []Record `json:"asset_categories"`
	Assets          []Record `json:"assets"`
	SearchEngines   []Record `json:"search_engines"`
}

// ServerSyncData is the sync_complete response: the snapshot to apply, the
// icon transfer lists, the new revision cursor, and per-table counts for
// the audit summary.
type ServerSyncData struct {
	CurrentSyncedRev   int64     `json:"current_synced_rev"`
	SyncData           *SyncData `json:"sync_data"`
	IconsToUpload      []string  `json:"icons_to_upload"`
	IconsToDownload    []string  `json:"icons_to_download"`
	WebsiteGroupsCount int       `json:"website_groups_count"`
	WebsitesCount      int       `json:"websites_count"`
	CategoriesCount    int       `json:"categories_count"`
	AssetsCount        int       `json:"assets_count"`
	SearchEnginesCount int       `json:"search_engines_count"`
}
