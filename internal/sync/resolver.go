package sync

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gwj/vust/internal/db"
	"github.com/gwj/vust/internal/syncclient"
)

// resolver applies the server's resolved snapshot to the local database,
// repairing the two invariants the merge can violate: at most one default
// asset category per user, and unique website group names per user.
//
// The flow is demote, promote, migrate, cleanup: conflicting local rows
// are demoted (renamed with a deprecated suffix, default flag cleared),
// the server's authority row is promoted, child rows are migrated onto
// the authority row, and the emptied local rows are deleted last so a
// failure mid-flow never strands children on a missing parent.
type resolver struct {
	db     *db.DB
	events *publisher
	now    func() time.Time
}

func deprecatedName(name string, now time.Time) string {
	return fmt.Sprintf("%s_deprecated_%d", name, now.UnixMilli())
}

// apply merges the server snapshot into the user's local rows.
func (r *resolver) apply(userUUID string, data *syncclient.SyncData) error {
	if data == nil {
		return nil
	}

	excluded, err := r.resolveDefaultCategory(userUUID, data.AssetCategories)
	if err != nil {
		return err
	}
	groupsToClean, err := r.resolveGroupNames(userUUID, data.WebsiteGroups)
	if err != nil {
		return err
	}

	if err := r.upsertAll(userUUID, data, excluded); err != nil {
		return err
	}

	for _, uuid := range groupsToClean {
		if err := r.db.DeleteWebsiteGroup(uuid); err != nil {
			return err
		}
		slog.Info("sync: merged group removed", "uuid", uuid)
	}
	return nil
}

// resolveDefaultCategory repairs the default asset category invariant.
// When the snapshot names an authority default, every other local default
// is demoted, the authority row is upserted, and assets are migrated off
// the demoted rows before they are deleted. Returns the category uuids
// already handled here, which the bulk upsert must skip.
func (r *resolver) resolveDefaultCategory(userUUID string, serverCategories []syncclient.Record) (map[string]bool, error) {
	var serverDefault syncclient.Record
	for _, c := range serverCategories {
		if c.IsDefault() {
			serverDefault = c
			break
		}
	}
	if serverDefault == nil {
		return nil, nil
	}

	localDefaults, err := r.db.DefaultAssetCategories(userUUID)
	if err != nil {
		return nil, err
	}

	excluded := map[string]bool{serverDefault.UUID(): true}
	var conflicting []string
	for _, ld := range localDefaults {
		if ld.UUID == serverDefault.UUID() {
			continue
		}
		conflicting = append(conflicting, ld.UUID)
		excluded[ld.UUID] = true

		name := deprecatedName(ld.Name, r.now())
		slog.Warn("sync: demoting conflicting default category",
			"uuid", ld.UUID, "name", ld.Name, "renamed", name)
		if err := r.db.DemoteAssetCategory(ld.UUID, name); err != nil {
			return nil, err
		}
	}

	// The authority default is written even when nothing conflicted, so a
	// snapshot-only change to it is never dropped.
	if err := r.upsertRecord(db.AssetCategoriesTable, userUUID, serverDefault); err != nil {
		return nil, err
	}

	for _, uuid := range conflicting {
		moved, err := r.db.RepointAssets(uuid, serverDefault.UUID())
		if err != nil {
			return nil, err
		}
		slog.Info("sync: assets migrated to authority category",
			"from", uuid, "to", serverDefault.UUID(), "moved", moved)
		if err := r.db.DeleteAssetCategory(uuid); err != nil {
			return nil, err
		}
	}
	return excluded, nil
}

// resolveGroupNames repairs website group name collisions: a local group
// holding a server group's name under a different uuid is renamed with
// the deprecated suffix and its items are migrated to the server group.
// Deletion of the emptied locals is deferred to the caller, after the
// server groups have been upserted.
func (r *resolver) resolveGroupNames(userUUID string, serverGroups []syncclient.Record) ([]string, error) {
	if len(serverGroups) == 0 {
		return nil, nil
	}
	localGroups, err := r.db.ListWebsiteGroups(userUUID)
	if err != nil {
		return nil, err
	}

	var toClean []string
	for _, sg := range serverGroups {
		for _, lg := range localGroups {
			if lg.Name != sg.Name() || lg.UUID == sg.UUID() {
				continue
			}
			name := deprecatedName(lg.Name, r.now())
			slog.Warn("sync: merging group with colliding name",
				"name", lg.Name, "local", lg.UUID, "server", sg.UUID())
			if err := r.db.RenameWebsiteGroup(lg.UUID, name); err != nil {
				return nil, err
			}
			moved, err := r.db.RepointWebsites(lg.UUID, sg.UUID())
			if err != nil {
				return nil, err
			}
			slog.Info("sync: websites migrated to server group",
				"from", lg.UUID, "to", sg.UUID(), "moved", moved)
			toClean = append(toClean, lg.UUID)
		}
	}
	return toClean, nil
}

// upsertAll writes the snapshot's rows table by table, skipping the
// category uuids the default-repair phase already settled.
func (r *resolver) upsertAll(userUUID string, data *syncclient.SyncData, excludedCategories map[string]bool) error {
	categories := data.AssetCategories
	if len(excludedCategories) > 0 {
		kept := make([]syncclient.Record, 0, len(categories))
		for _, c := range categories {
			if !excludedCategories[c.UUID()] {
				kept = append(kept, c)
			}
		}
		categories = kept
	}

	tables := []struct {
		spec    db.TableSpec
		records []syncclient.Record
	}{
		{db.WebsiteGroupsTable, data.WebsiteGroups},
		{db.WebsitesTable, data.Websites},
		{db.AssetCategoriesTable, categories},
		{db.AssetsTable, data.Assets},
		{db.SearchEnginesTable, data.SearchEngines},
	}

	for _, t := range tables {
		if len(t.records) == 0 {
			continue
		}
		r.events.emit(StageApply, "applying %s (%d records)", t.spec.Name, len(t.records))
		for _, rec := range t.records {
			if err := r.upsertRecord(t.spec, userUUID, rec); err != nil {
				return err
			}
		}
		slog.Debug("sync: table applied", "table", t.spec.Name, "records", len(t.records))
	}
	return nil
}

// upsertRecord writes one snapshot row, stamping local ownership. The
// server never sends user_uuid; rows always belong to the syncing user.
func (r *resolver) upsertRecord(spec db.TableSpec, userUUID string, rec syncclient.Record) error {
	row := make(map[string]any, len(rec)+1)
	for k, v := range rec {
		row[k] = v
	}
	row["user_uuid"] = userUUID
	return r.db.UpsertRecord(spec, row)
}
