package sync

import (
	"log/slog"
	"os"
	"path/filepath"
)

// ListLocalIcons returns the file names in the local icons directory.
// A missing directory is not an error; the user simply has no icons yet.
func ListLocalIcons(iconsDir string) ([]string, error) {
	entries, err := os.ReadDir(iconsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// iconReconciler transfers the icon files the server asked for after a
// completed session. Icons are best-effort: a failed file is logged and
// skipped, never failing the sync, since the next session's reconciliation
// will ask for it again.
type iconReconciler struct {
	api      API
	iconsDir string
	events   *publisher
}

// upload sends the requested local icons to the server and reports how
// many made it.
func (ir *iconReconciler) upload(names []string) int {
	ok := 0
	for i, name := range names {
		ir.events.emitProgress(StageIcons, i+1, len(names), "uploading icon %s", name)
		path := filepath.Join(ir.iconsDir, name)
		if err := ir.api.UploadIcon(path, name); err != nil {
			slog.Warn("sync: icon upload failed", "file", name, "err", err)
			continue
		}
		ok++
	}
	return ok
}

// download fetches the requested icons from the server into the local
// icons directory and reports how many made it.
func (ir *iconReconciler) download(userUUID string, names []string) int {
	if len(names) > 0 {
		if err := os.MkdirAll(ir.iconsDir, 0755); err != nil {
			slog.Warn("sync: cannot create icons dir", "dir", ir.iconsDir, "err", err)
			return 0
		}
	}
	ok := 0
	for i, name := range names {
		ir.events.emitProgress(StageIcons, i+1, len(names), "downloading icon %s", name)
		if err := ir.api.DownloadIcon(userUUID, name, ir.iconsDir); err != nil {
			slog.Warn("sync: icon download failed", "file", name, "err", err)
			continue
		}
		ok++
	}
	return ok
}
