package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
	"javelin-lab/pkg/logger"
)

// Client talks to the hosted analysis backend. Every call can fail
// (backend down, timeout); callers fall back to the local engine and
// never surface these errors.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// New creates a remote client from config. Returns nil when the remote
// backend is disabled; callers treat a nil client as always unavailable.
func New(cfg config.RemoteConfig, log *logger.Logger) *Client {
	if !cfg.Enabled || cfg.BaseURL == "" {
		return nil
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  log.WithComponent("remote"),
	}
}

// ScanURL asks the backend to score a URL
func (c *Client) ScanURL(ctx context.Context, rawURL string) (*models.ScoreResult, error) {
	var result models.ScoreResult
	err := c.post(ctx, "/api/v1/phishing/scan-url", map[string]string{"url": rawURL}, &result)
	if err != nil {
		return nil, err
	}
	result.Source = "remote"
	return &result, nil
}

// CheckFile asks the backend whether a file looks ransomware-encrypted
func (c *Client) CheckFile(ctx context.Context, filename string) (*models.EncryptionCheckResult, error) {
	var result models.EncryptionCheckResult
	err := c.post(ctx, "/api/v1/ransomware/check-encryption", map[string]string{"file_name": filename}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadFile registers file metadata with the backend vault
func (c *Client) UploadFile(ctx context.Context, name string, sizeBytes int64) (*models.VaultFile, error) {
	payload := map[string]any{"name": name, "size_bytes": sizeBytes}
	var result models.VaultFile
	if err := c.post(ctx, "/api/v1/ransomware/vault/upload", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote backend returned %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode remote response: %w", err)
	}
	return nil
}
