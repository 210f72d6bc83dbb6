package sync

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gwj/vust/internal/syncclient"
)

const (
	// maxSendAttempts bounds retries for a single chunk; exhausting it
	// aborts the whole sync attempt.
	maxSendAttempts = 3
	// defaultRetryDelay is the linear backoff base between chunk retries.
	defaultRetryDelay = 200 * time.Millisecond
)

// transmitter uploads one data type's records as ordered, bounded chunks.
// Chunks are sent strictly sequentially; data types are never interleaved.
type transmitter struct {
	api        API
	retryDelay time.Duration
	events     *publisher
}

// send splits records into ceil(len/chunkSize) contiguous chunks and sends
// them in order. Empty input is a no-op. Each chunk is retried up to
// maxSendAttempts with linear backoff before the error propagates.
func (t *transmitter) send(sessionID string, dataType syncclient.DataType, records []json.RawMessage, chunkSize int) error {
	if len(records) == 0 {
		slog.Info("sync: nothing to send", "type", dataType)
		return nil
	}
	if chunkSize <= 0 {
		return fmt.Errorf("send %s: invalid chunk size %d", dataType, chunkSize)
	}

	totalChunks := (len(records) + chunkSize - 1) / chunkSize
	for i := 0; i < totalChunks; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		payload := syncclient.ChunkPayload{
			SessionID: sessionID,
			DataType:  dataType,
			ChunkData: records[start:end],
		}

		t.events.emitProgress(StageUpload, i+1, totalChunks, "sending %s", dataType)
		if err := t.sendChunk(payload); err != nil {
			return fmt.Errorf("send %s chunk %d/%d: %w", dataType, i+1, totalChunks, err)
		}
		slog.Debug("sync: chunk sent", "type", dataType, "chunk", i+1, "of", totalChunks, "records", end-start)
	}
	return nil
}

// sendChunk sends one chunk with bounded retry. Account-state errors are
// not retried; the classifier decides terminality, not the transport.
func (t *transmitter) sendChunk(payload syncclient.ChunkPayload) error {
	delay := t.retryDelay
	if delay == 0 {
		delay = defaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		lastErr = t.api.SyncChunk(payload)
		if lastErr == nil {
			return nil
		}
		if Classify(lastErr) != StateOrdinary {
			return lastErr
		}
		if attempt < maxSendAttempts {
			slog.Warn("sync: chunk send failed, retrying",
				"type", payload.DataType, "attempt", attempt, "err", lastErr)
			time.Sleep(time.Duration(attempt) * delay)
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxSendAttempts, lastErr)
}
