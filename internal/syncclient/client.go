// Package syncclient is the HTTP client for the vust sync server. Every
// response arrives in a uniform envelope {success, code, message, data};
// failures surface as *StatusError carrying the envelope code so callers
// can classify account-lifecycle conditions numerically.
package syncclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// StatusError is a server-reported failure: the envelope code (or the HTTP
// status when no envelope decoded) plus the server message.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d", e.Code)
}

// Client talks to one sync server on behalf of one account.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New creates a sync client for the given server and bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the uniform server response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// CheckTokenAndUser validates token and username freshness and returns the
// server's current view of the account.
func (c *Client) CheckTokenAndUser(info ClientInfo) (*CurrentUser, error) {
	var cu CurrentUser
	if err := c.do("GET", "/api/v1/auth/status", nil, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

// CheckClientVersion asks the server whether this client version is
// compatible.
func (c *Client) CheckClientVersion(info ClientInfo) error {
	return c.do("POST", "/api/v1/sync/verifying", info, nil)
}

// ServerVersion fetches the server's version for the minimum-version gate.
// The endpoint is unauthenticated.
func (c *Client) ServerVersion() (*VersionInfo, error) {
	var vi VersionInfo
	if err := c.do("GET", "/api/version", nil, &vi); err != nil {
		return nil, err
	}
	return &vi, nil
}

// SyncStart opens a sync session from the user's revision cursor.
func (c *Client) SyncStart(req StartSyncRequest) (*StartSyncResponse, error) {
	var resp StartSyncResponse
	if err := c.do("POST", "/api/v1/sync/start", req, &resp); err != nil {
		return nil, err
	}
	if resp.SessionID == "" {
		return nil, fmt.Errorf("sync start: server returned no session id")
	}
	return &resp, nil
}

// SyncChunk uploads one chunk of local records.
func (c *Client) SyncChunk(payload ChunkPayload) error {
	return c.do("POST", "/api/v1/sync/chunk", payload, nil)
}

// SyncComplete closes the session and returns the server's resolved
// snapshot, icon transfer lists, and the new cursor.
func (c *Client) SyncComplete(sessionID string) (*ServerSyncData, error) {
	body := map[string]string{"session_id": sessionID}
	var resp ServerSyncData
	if err := c.do("POST", "/api/v1/sync/complete", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadIcon sends one local icon file to the server as multipart form
// data.
func (c *Client) UploadIcon(filePath, fileName string) error {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read icon %s: %w", fileName, err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("icon", fileName)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(contents); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/api/v1/icons/upload", &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("upload icon %s: %w", fileName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	}
	return nil
}

// DownloadIcon fetches one icon from the server and writes it into
// destDir.
func (c *Client) DownloadIcon(userUUID, fileName, destDir string) error {
	url := fmt.Sprintf("%s/api/v1/icons/download/%s/%s", c.BaseURL, userUUID, fileName)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("download icon %s: %w", fileName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read icon %s: %w", fileName, err)
	}
	dest := filepath.Join(destDir, filepath.Base(fileName))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("write icon %s: %w", fileName, err)
	}
	return nil
}

// do executes a JSON request and decodes the envelope. Envelope failures
// and HTTP error statuses both become *StatusError.
func (c *Client) do(method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &StatusError{Code: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
		}
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	if !env.Success {
		code := env.Code
		if code == 0 {
			code = resp.StatusCode
		}
		return &StatusError{Code: code, Message: env.Message}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("unmarshal response data: %w", err)
		}
	}
	return nil
}
