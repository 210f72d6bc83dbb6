package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gwj/vust/internal/syncclient"
)

func rawRecords(n int) []json.RawMessage {
	records := make([]json.RawMessage, n)
	for i := range records {
		records[i] = json.RawMessage(fmt.Sprintf(`{"uuid":"r%d"}`, i))
	}
	return records
}

func newTransmitter(api API) *transmitter {
	return &transmitter{api: api, retryDelay: time.Millisecond, events: &publisher{}}
}

func TestSendSplitsIntoOrderedChunks(t *testing.T) {
	api := &fakeAPI{}
	tr := newTransmitter(api)

	if err := tr.send("s1", syncclient.DataTypeAssets, rawRecords(250), 100); err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(api.chunks) != 3 {
		t.Fatalf("chunks: got %d, want 3", len(api.chunks))
	}
	for i, want := range []int{100, 100, 50} {
		if got := len(api.chunks[i].ChunkData); got != want {
			t.Errorf("chunk %d size: got %d, want %d", i, got, want)
		}
	}
	// Order is preserved across chunk boundaries.
	if string(api.chunks[0].ChunkData[0]) != `{"uuid":"r0"}` {
		t.Errorf("first record: got %s", api.chunks[0].ChunkData[0])
	}
	if string(api.chunks[2].ChunkData[49]) != `{"uuid":"r249"}` {
		t.Errorf("last record: got %s", api.chunks[2].ChunkData[49])
	}
	for _, c := range api.chunks {
		if c.SessionID != "s1" || c.DataType != syncclient.DataTypeAssets {
			t.Fatalf("chunk header: got %+v", c)
		}
	}
}

func TestSendExactMultiple(t *testing.T) {
	api := &fakeAPI{}
	tr := newTransmitter(api)

	if err := tr.send("s1", syncclient.DataTypeWebsites, rawRecords(200), 100); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(api.chunks) != 2 {
		t.Fatalf("chunks: got %d, want 2", len(api.chunks))
	}
}

func TestSendEmptyIsNoOp(t *testing.T) {
	api := &fakeAPI{}
	tr := newTransmitter(api)

	if err := tr.send("s1", syncclient.DataTypeWebsites, nil, 100); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(api.chunks) != 0 {
		t.Fatalf("empty input sent %d chunks", len(api.chunks))
	}
}

func TestSendRejectsInvalidChunkSize(t *testing.T) {
	tr := newTransmitter(&fakeAPI{})
	if err := tr.send("s1", syncclient.DataTypeWebsites, rawRecords(1), 0); err == nil {
		t.Fatal("chunk size 0 should be rejected")
	}
}

func TestSendChunkRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	api := &fakeAPI{syncChunkFn: func(syncclient.ChunkPayload) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}}
	tr := newTransmitter(api)

	if err := tr.send("s1", syncclient.DataTypeWebsites, rawRecords(1), 100); err != nil {
		t.Fatalf("send: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts: got %d, want 3", attempts)
	}
}

func TestSendChunkGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	api := &fakeAPI{syncChunkFn: func(syncclient.ChunkPayload) error {
		attempts++
		return errors.New("still down")
	}}
	tr := newTransmitter(api)

	err := tr.send("s1", syncclient.DataTypeWebsites, rawRecords(1), 100)
	if err == nil {
		t.Fatal("send should fail after exhausting retries")
	}
	if attempts != maxSendAttempts {
		t.Fatalf("attempts: got %d, want %d", attempts, maxSendAttempts)
	}
}

func TestSendChunkDoesNotRetryAccountStates(t *testing.T) {
	attempts := 0
	cause := &syncclient.StatusError{Code: 401, Message: "token expired"}
	api := &fakeAPI{syncChunkFn: func(syncclient.ChunkPayload) error {
		attempts++
		return cause
	}}
	tr := newTransmitter(api)

	err := tr.send("s1", syncclient.DataTypeWebsites, rawRecords(1), 100)
	if err == nil {
		t.Fatal("send should fail")
	}
	if attempts != 1 {
		t.Fatalf("attempts: got %d, want 1 (no retry on account states)", attempts)
	}
	var se *syncclient.StatusError
	if !errors.As(err, &se) || se.Code != 401 {
		t.Fatalf("error should carry the status: %v", err)
	}
}
