package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gwj/vust/internal/db"
	"github.com/gwj/vust/internal/session"
	"github.com/gwj/vust/internal/syncclient"
	"github.com/gwj/vust/internal/version"
)

// Sentinel errors returned by Run.
var (
	ErrNotSignedIn    = errors.New("not signed in")
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrServerTooOld   = errors.New("server version too old")
)

// Config assembles an Engine's collaborators.
type Config struct {
	DB         *db.DB
	Sessions   *session.Store
	API        API
	AppVersion string
	ChunkSize  int
	IconsDir   string
	RetryDelay time.Duration
	Events     chan<- Event
}

// Engine runs the full sync flow for the active account: prerequisite
// checks, local collection, a chunked upload session, application of the
// server's resolved snapshot, icon reconciliation, and the audit log.
type Engine struct {
	db         *db.DB
	sessions   *session.Store
	api        API
	appVersion string
	chunkSize  int
	iconsDir   string
	events     *publisher
	now        func() time.Time

	inFlight inFlight
	sender   *transmitter
	resolver *resolver
	icons    *iconReconciler
	accounts *accountHandler
}

// New creates an Engine from its collaborators.
func New(cfg Config) *Engine {
	pub := &publisher{ch: cfg.Events}
	e := &Engine{
		db:         cfg.DB,
		sessions:   cfg.Sessions,
		api:        cfg.API,
		appVersion: cfg.AppVersion,
		chunkSize:  cfg.ChunkSize,
		iconsDir:   cfg.IconsDir,
		events:     pub,
		now:        time.Now,
	}
	e.sender = &transmitter{api: cfg.API, retryDelay: cfg.RetryDelay, events: pub}
	e.resolver = &resolver{db: cfg.DB, events: pub, now: func() time.Time { return e.now() }}
	e.icons = &iconReconciler{api: cfg.API, iconsDir: cfg.IconsDir, events: pub}
	e.accounts = &accountHandler{db: cfg.DB, sessions: cfg.Sessions}
	return e
}

// Run executes one sync attempt for the active account. At most one
// attempt per user runs at a time; a concurrent call returns
// ErrSyncInProgress. The anonymous account cannot sync.
func (e *Engine) Run() error {
	user, err := e.sessions.Active()
	if err != nil {
		return err
	}
	if user.IsAnonymous() || !user.LoggedIn || user.Token == "" {
		return ErrNotSignedIn
	}
	if !e.inFlight.acquire(user.UUID) {
		return ErrSyncInProgress
	}
	defer e.inFlight.release(user.UUID)

	err = e.run(user)
	if err != nil {
		slog.Error("sync: attempt failed", "user", user.UUID, "err", err)
	}
	return err
}

// run is the attempt body; Run holds the per-user guard around it.
func (e *Engine) run(user session.User) error {
	start := e.now()

	// Prerequisite failures before a session exists normally leave no
	// audit row. Terminal account conditions are the exception: they are
	// always recorded, under a locally generated session id.
	if err := e.prerequisites(user); err != nil {
		if state := Classify(err); state != StateOrdinary {
			return e.terminate(user, uuid.NewString(), state, err, false)
		}
		return err
	}

	e.events.emit(StageCollect, "collecting local data")
	batches, err := e.collect(user.UUID)
	if err != nil {
		return err
	}
	localIcons, err := ListLocalIcons(e.iconsDir)
	if err != nil {
		slog.Warn("sync: cannot scan icons dir", "dir", e.iconsDir, "err", err)
	}

	e.events.emit(StageSession, "starting sync session")
	lastRev, err := e.db.LastSyncedRev(user.UUID)
	if err != nil {
		return err
	}
	resp, err := e.api.SyncStart(syncclient.StartSyncRequest{
		UserUUID:      user.UUID,
		LastSyncedRev: lastRev,
	})
	if err != nil {
		if state := Classify(err); state != StateOrdinary {
			return e.terminate(user, uuid.NewString(), state, err, false)
		}
		return fmt.Errorf("sync start: %w", err)
	}
	sessionID := resp.SessionID
	chunkSize := e.chunkSize
	if resp.SuggestedChunkSize > 0 {
		chunkSize = resp.SuggestedChunkSize
	}
	slog.Info("sync: session started",
		"session", sessionID, "last_rev", lastRev, "chunk_size", chunkSize)

	if err := e.db.CreateSyncLog(sessionID, user.UUID); err != nil {
		return err
	}

	serverData, err := e.exchange(user, sessionID, batches, localIcons, chunkSize)
	if err != nil {
		if state := Classify(err); state != StateOrdinary {
			return e.terminate(user, sessionID, state, err, true)
		}
		e.finalize(sessionID, db.SyncStatusFailed, "", err.Error())
		return err
	}

	iconsUp, iconsDown := e.reconcileIcons(user, serverData)

	if err := e.db.SetLastSyncedRev(user.UUID, serverData.CurrentSyncedRev); err != nil {
		e.finalize(sessionID, db.SyncStatusFailed, "", err.Error())
		return err
	}
	if err := e.sessions.BumpDataVersion(); err != nil {
		slog.Warn("sync: bump data version failed", "err", err)
	}

	summary := fmt.Sprintf(
		"groups=%d websites=%d categories=%d assets=%d engines=%d icons_up=%d icons_down=%d",
		serverData.WebsiteGroupsCount, serverData.WebsitesCount,
		serverData.CategoriesCount, serverData.AssetsCount,
		serverData.SearchEnginesCount, iconsUp, iconsDown)
	e.finalize(sessionID, db.SyncStatusSuccess, summary, "")

	e.events.emit(StageFinished, "sync finished in %s", e.now().Sub(start).Round(time.Millisecond))
	slog.Info("sync: success", "session", sessionID, "rev", serverData.CurrentSyncedRev, "summary", summary)
	return nil
}

// prerequisites verifies token, account, client compatibility, and the
// minimum server version before any session is opened.
func (e *Engine) prerequisites(user session.User) error {
	e.events.emit(StageVerify, "verifying account and server")
	info := syncclient.ClientInfo{
		AppVersion:    e.appVersion,
		Username:      user.Username,
		Token:         user.Token,
		ServerAddress: user.ServerAddress,
	}

	cu, err := e.api.CheckTokenAndUser(info)
	if err != nil {
		return fmt.Errorf("verify token: %w", err)
	}
	if cu.Username != "" && cu.Username != user.Username {
		slog.Info("sync: server renamed account", "old", user.Username, "new", cu.Username)
		if err := e.sessions.SetUsername(user.UUID, cu.Username); err != nil {
			return err
		}
	}

	if err := e.api.CheckClientVersion(info); err != nil {
		return fmt.Errorf("verify client version: %w", err)
	}

	vi, err := e.api.ServerVersion()
	if err != nil {
		return fmt.Errorf("fetch server version: %w", err)
	}
	if !version.IsAtLeast(vi.Version, version.MinServerVersion) {
		return fmt.Errorf("%w: server %q, need at least %s",
			ErrServerTooOld, vi.Version, version.MinServerVersion)
	}
	return nil
}

// batch is one data type's outbound records, already encoded.
type batch struct {
	dataType syncclient.DataType
	records  []json.RawMessage
}

// collect reads every entity table owned by the user and encodes the rows
// for transmission, preserving the fixed data type order.
func (e *Engine) collect(userUUID string) ([]batch, error) {
	groups, err := e.db.ListWebsiteGroups(userUUID)
	if err != nil {
		return nil, err
	}
	sites, err := e.db.ListWebsites(userUUID)
	if err != nil {
		return nil, err
	}
	cats, err := e.db.ListAssetCategories(userUUID)
	if err != nil {
		return nil, err
	}
	assets, err := e.db.ListAssets(userUUID)
	if err != nil {
		return nil, err
	}
	engines, err := e.db.ListSearchEngines(userUUID)
	if err != nil {
		return nil, err
	}

	batches := make([]batch, 0, 5)
	for _, b := range []struct {
		dataType syncclient.DataType
		rows     any
	}{
		{syncclient.DataTypeWebsiteGroups, groups},
		{syncclient.DataTypeWebsites, sites},
		{syncclient.DataTypeAssetCategories, cats},
		{syncclient.DataTypeAssets, assets},
		{syncclient.DataTypeSearchEngines, engines},
	} {
		records, err := encodeRows(b.rows)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", b.dataType, err)
		}
		batches = append(batches, batch{dataType: b.dataType, records: records})
	}
	return batches, nil
}

// encodeRows marshals a slice of rows element-wise.
func encodeRows(rows any) ([]json.RawMessage, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// exchange uploads all local data in chunks, closes the session, and
// applies the server's resolved snapshot.
func (e *Engine) exchange(user session.User, sessionID string, batches []batch, localIcons []string, chunkSize int) (*syncclient.ServerSyncData, error) {
	for _, b := range batches {
		if err := e.sender.send(sessionID, b.dataType, b.records, chunkSize); err != nil {
			return nil, err
		}
	}
	iconRecords, err := encodeRows(localIcons)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", syncclient.DataTypeLocalIcons, err)
	}
	if err := e.sender.send(sessionID, syncclient.DataTypeLocalIcons, iconRecords, chunkSize); err != nil {
		return nil, err
	}

	e.events.emit(StageSession, "completing session")
	serverData, err := e.api.SyncComplete(sessionID)
	if err != nil {
		return nil, fmt.Errorf("sync complete: %w", err)
	}

	if serverData.SyncData != nil {
		if err := e.resolver.apply(user.UUID, serverData.SyncData); err != nil {
			return nil, fmt.Errorf("apply server data: %w", err)
		}
	}
	return serverData, nil
}

// reconcileIcons performs the post-session icon transfers. Failures here
// never fail the sync.
func (e *Engine) reconcileIcons(user session.User, serverData *syncclient.ServerSyncData) (up, down int) {
	if len(serverData.IconsToUpload) > 0 {
		up = e.icons.upload(serverData.IconsToUpload)
	}
	if len(serverData.IconsToDownload) > 0 {
		down = e.icons.download(user.UUID, serverData.IconsToDownload)
	}
	return up, down
}

// terminate records and remediates a terminal account condition. When the
// failure happened before a session existed, logExists is false and an
// audit row is created under the given locally generated session id.
func (e *Engine) terminate(user session.User, sessionID string, state AccountState, cause error, logExists bool) error {
	slog.Warn("sync: terminal account state", "user", user.UUID, "state", state.String())
	if !logExists {
		if err := e.db.CreateSyncLog(sessionID, user.UUID); err != nil {
			slog.Error("sync: cannot create audit row", "err", err)
		}
	}
	e.finalize(sessionID, db.SyncStatusFailed, state.String(), cause.Error())

	if err := e.accounts.handle(state, user); err != nil {
		return &AccountStateError{State: state, cause: errors.Join(cause, err)}
	}
	return &AccountStateError{State: state, cause: cause}
}

// finalize closes the audit row. Logged but otherwise ignored on failure;
// the row's "running" guard makes repeated calls harmless.
func (e *Engine) finalize(sessionID, status, summary, errText string) {
	if err := e.db.FinalizeSyncLog(sessionID, status, summary, errText); err != nil {
		slog.Error("sync: finalize audit row failed", "session", sessionID, "err", err)
	}
}
