package immich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dupesweep/internal/logging"
)

// ErrUnauthorized is returned when the server rejects the API key.
var ErrUnauthorized = errors.New("API key rejected by server")

// APIError describes a non-2xx response from the server.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Body)
}

// HTTPDoer describes the HTTP client used by the Immich client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client communicates with the Immich API. It is both the duplicate source
// and the asset mutation service for a sweep run.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewClient creates an Immich API client with the given request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  &http.Client{Timeout: timeout},
		logger:  logging.NewComponentLogger(logger, "immich"),
	}
}

// NewClientWithDoer constructs a client over a caller-supplied HTTP doer.
func NewClientWithDoer(baseURL, apiKey string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  doer,
		logger:  logging.NewComponentLogger(logger, "immich"),
	}
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// FetchCurrentUser returns the user associated with the configured API key.
// Used as an authentication preflight before any group processing.
func (c *Client) FetchCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	c.logger.Debug("authenticated", "user", user.Name)
	return &user, nil
}

// FetchDuplicateGroups returns the server's duplicate groups. The grouping
// itself is trusted; no similarity check happens client-side.
func (c *Client) FetchDuplicateGroups(ctx context.Context) ([]DuplicateGroup, error) {
	var groups []DuplicateGroup
	if err := c.do(ctx, http.MethodGet, "/api/duplicates", nil, &groups); err != nil {
		return nil, fmt.Errorf("fetch duplicates: %w", err)
	}
	c.logger.Info("fetched duplicate groups", "count", len(groups))
	return groups, nil
}

// FetchAssetAlbums returns the albums containing the given asset.
func (c *Client) FetchAssetAlbums(ctx context.Context, assetID string) ([]Album, error) {
	var albums []Album
	path := "/api/albums?assetId=" + url.QueryEscape(assetID)
	if err := c.do(ctx, http.MethodGet, path, nil, &albums); err != nil {
		return nil, fmt.Errorf("fetch albums for asset %s: %w", assetID, err)
	}
	return albums, nil
}

// FetchAssetTags returns the tags attached to the given asset.
func (c *Client) FetchAssetTags(ctx context.Context, assetID string) ([]Tag, error) {
	var detail assetDetail
	if err := c.do(ctx, http.MethodGet, "/api/assets/"+url.PathEscape(assetID), nil, &detail); err != nil {
		return nil, fmt.Errorf("fetch tags for asset %s: %w", assetID, err)
	}
	return detail.Tags, nil
}

// UpdateAsset applies a sparse metadata patch to an asset.
func (c *Client) UpdateAsset(ctx context.Context, assetID string, patch AssetPatch) error {
	if patch.IsZero() {
		return nil
	}
	if err := c.do(ctx, http.MethodPut, "/api/assets/"+url.PathEscape(assetID), patch, nil); err != nil {
		return fmt.Errorf("update asset %s: %w", assetID, err)
	}
	return nil
}

// ClearAssetMetadata nulls the location and capture-date fields managed by
// the transfer planner. Memberships are intentionally untouched.
func (c *Client) ClearAssetMetadata(ctx context.Context, assetID string) error {
	body := map[string]any{
		"latitude":         nil,
		"longitude":        nil,
		"dateTimeOriginal": nil,
	}
	if err := c.do(ctx, http.MethodPut, "/api/assets/"+url.PathEscape(assetID), body, nil); err != nil {
		return fmt.Errorf("clear metadata on asset %s: %w", assetID, err)
	}
	return nil
}

// AddToAlbum adds an asset to an album.
func (c *Client) AddToAlbum(ctx context.Context, albumID, assetID string) error {
	body := bulkIDsRequest{IDs: []string{assetID}}
	if err := c.do(ctx, http.MethodPut, "/api/albums/"+url.PathEscape(albumID)+"/assets", body, nil); err != nil {
		return fmt.Errorf("add asset %s to album %s: %w", assetID, albumID, err)
	}
	return nil
}

// RemoveFromAlbum removes an asset from an album.
func (c *Client) RemoveFromAlbum(ctx context.Context, albumID, assetID string) error {
	body := bulkIDsRequest{IDs: []string{assetID}}
	if err := c.do(ctx, http.MethodDelete, "/api/albums/"+url.PathEscape(albumID)+"/assets", body, nil); err != nil {
		return fmt.Errorf("remove asset %s from album %s: %w", assetID, albumID, err)
	}
	return nil
}

// TagAssets attaches a tag to the given assets.
func (c *Client) TagAssets(ctx context.Context, tagID string, assetIDs []string) error {
	body := bulkIDsRequest{IDs: assetIDs}
	if err := c.do(ctx, http.MethodPut, "/api/tags/"+url.PathEscape(tagID)+"/assets", body, nil); err != nil {
		return fmt.Errorf("tag assets with %s: %w", tagID, err)
	}
	return nil
}

// UntagAssets removes a tag from the given assets.
func (c *Client) UntagAssets(ctx context.Context, tagID string, assetIDs []string) error {
	body := bulkIDsRequest{IDs: assetIDs}
	if err := c.do(ctx, http.MethodDelete, "/api/tags/"+url.PathEscape(tagID)+"/assets", body, nil); err != nil {
		return fmt.Errorf("untag assets with %s: %w", tagID, err)
	}
	return nil
}

// DeleteAssets deletes a bounded batch of assets. With force the server
// bypasses the trash and removes them permanently.
func (c *Client) DeleteAssets(ctx context.Context, ids []string, force bool) error {
	if len(ids) == 0 {
		return nil
	}
	body := deleteAssetsRequest{IDs: ids, Force: force}
	if err := c.do(ctx, http.MethodDelete, "/api/assets", body, nil); err != nil {
		return fmt.Errorf("delete %d assets: %w", len(ids), err)
	}
	c.logger.Info("deleted assets", "count", len(ids), "permanent", force)
	return nil
}
