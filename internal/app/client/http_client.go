package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"clipvault/internal/domain/note"
)

// HealthCheck verifies that the daemon is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("daemon is not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}

	return nil
}

// Capture stores a snippet and returns the new note id.
func (c *Client) Capture(ctx context.Context, req CaptureRequest) (int64, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/captures", req)
	if err != nil {
		return 0, err
	}

	var out captureResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return 0, err
	}

	return out.ID, nil
}

// List fetches a page of notes.
func (c *Client) List(ctx context.Context, limit, offset int) (*note.ListResult, error) {
	path := fmt.Sprintf("/api/v1/notes?limit=%d&offset=%d", limit, offset)

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out note.ListResult
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Search fetches notes matching a substring query.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*note.ListResult, error) {
	path := fmt.Sprintf("/api/v1/notes/search?q=%s&limit=%d&offset=%d",
		url.QueryEscape(query), limit, offset)

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out note.ListResult
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Count(ctx context.Context) (int, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/notes/count", nil)
	if err != nil {
		return 0, err
	}

	var out countResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return 0, err
	}

	return out.Count, nil
}

// Update replaces a note's content.
func (c *Client) Update(ctx context.Context, id int64, content string) (*note.Note, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}

	resp, err := c.doRequest(ctx, http.MethodPut, "/api/v1/notes/"+formatID(id), body)
	if err != nil {
		return nil, err
	}

	var out noteResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	return out.Note, nil
}

// Delete soft-deletes a note.
func (c *Client) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/v1/notes/"+formatID(id), nil)
	if err != nil {
		return nil, err
	}

	var out DeleteResult
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Purge permanently removes a note and its history.
func (c *Client) Purge(ctx context.Context, id int64) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/v1/notes/"+formatID(id)+"/permanent", nil)
	if err != nil {
		return err
	}

	return c.parseResponse(resp, nil)
}

// ToggleSensitive flips the sensitive flag and returns the new value.
func (c *Client) ToggleSensitive(ctx context.Context, id int64) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/notes/"+formatID(id)+"/sensitive", nil)
	if err != nil {
		return false, err
	}

	var out sensitiveResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return false, err
	}

	return out.IsSensitive, nil
}

// History fetches a note's version ledger, newest first.
func (c *Client) History(ctx context.Context, id int64) ([]note.VersionEntry, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/notes/"+formatID(id)+"/history", nil)
	if err != nil {
		return nil, err
	}

	var out historyResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	return out.Versions, nil
}

// Restore brings a note back to a past version.
func (c *Client) Restore(ctx context.Context, id int64, version int) (*note.Note, error) {
	body := struct {
		Version int `json:"version"`
	}{Version: version}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/notes/"+formatID(id)+"/restore", body)
	if err != nil {
		return nil, err
	}

	var out noteResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	return out.Note, nil
}

// VaultStatus reports the daemon's encryption state.
func (c *Client) VaultStatus(ctx context.Context) (*VaultStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/vault/status", nil)
	if err != nil {
		return nil, err
	}

	var out VaultStatus
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Unlock opens the store, creating the key on first use.
func (c *Client) Unlock(ctx context.Context, password string) (*UnlockResult, error) {
	body := struct {
		Password string `json:"password"`
	}{Password: password}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/vault/unlock", body)
	if err != nil {
		return nil, err
	}

	var out UnlockResult
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Lock drops the daemon's in-memory key.
func (c *Client) Lock(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/vault/lock", struct{}{})
	if err != nil {
		return err
	}

	return c.parseResponse(resp, nil)
}

// ChangePassword rotates the master password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}{OldPassword: oldPassword, NewPassword: newPassword}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/vault/change-password", body)
	if err != nil {
		return err
	}

	return c.parseResponse(resp, nil)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.log.Debug("sending request",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

func (c *Client) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("received response",
		"status", resp.StatusCode,
		"body", string(body),
	)

	if resp.StatusCode >= 400 {
		// RFC 7807 problem document
		var errResp struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("daemon error: %s", errResp.Detail)
		}
		if errResp.Title != "" {
			return fmt.Errorf("daemon error: %s", errResp.Title)
		}
		return fmt.Errorf("daemon error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
