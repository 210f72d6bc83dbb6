// Package sync implements the session-oriented, chunked, bidirectional
// synchronization engine: prerequisite checks, chunked upload, server
// snapshot application with conflict repair, icon reconciliation, and
// account-lifecycle remediation.
package sync

import "github.com/gwj/vust/internal/syncclient"

// API is the remote boundary the engine drives. *syncclient.Client
// implements it; tests substitute fakes.
type API interface {
	CheckTokenAndUser(info syncclient.ClientInfo) (*syncclient.CurrentUser, error)
	CheckClientVersion(info syncclient.ClientInfo) error
	ServerVersion() (*syncclient.VersionInfo, error)
	SyncStart(req syncclient.StartSyncRequest) (*syncclient.StartSyncResponse, error)
	SyncChunk(payload syncclient.ChunkPayload) error
	SyncComplete(sessionID string) (*syncclient.ServerSyncData, error)
	UploadIcon(filePath, fileName string) error
	DownloadIcon(userUUID, fileName, destDir string) error
}
