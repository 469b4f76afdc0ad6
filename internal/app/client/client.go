package client

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"clipvault/internal/domain/note"
)

// Client talks to the local daemon over its loopback HTTP API.
type Client struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func New(serverAddress string, log *slog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:       log,
		baseURL:   "http://" + serverAddress,
		userAgent: "Clipvault-Client/1.0",
	}
}

type ctxKey struct{}

// WithContext attaches the client to a context so cobra commands can
// reach it.
func WithContext(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the client attached by WithContext, or nil.
func FromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(ctxKey{}).(*Client)

	return c
}

// CaptureRequest mirrors the daemon's capture payload.
type CaptureRequest struct {
	Content    string    `json:"content"`
	Source     string    `json:"source,omitempty"`
	URL        string    `json:"url,omitempty"`
	CapturedAt time.Time `json:"captured_at,omitempty"`
}

type captureResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type noteResponse struct {
	Status string     `json:"status"`
	Note   *note.Note `json:"note"`
}

// DeleteResult reports the outcome of a soft delete.
type DeleteResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

type sensitiveResponse struct {
	Status      string `json:"status"`
	IsSensitive bool   `json:"is_sensitive"`
}

type historyResponse struct {
	Versions []note.VersionEntry `json:"versions"`
}

type countResponse struct {
	Count int `json:"count"`
}

// VaultStatus mirrors the daemon's vault status payload.
type VaultStatus struct {
	IsEnabled bool `json:"is_enabled"`
	HasKey    bool `json:"has_key"`
	Unlocked  bool `json:"unlocked"`
}

// UnlockResult reports whether the unlock created a new key.
type UnlockResult struct {
	Success  bool `json:"success"`
	IsNewKey bool `json:"is_new_key"`
}
