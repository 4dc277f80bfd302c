package immich

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExifInfo carries the metadata payload attached to an asset. The typed
// fields are the ones the ranking and transfer policies reason about;
// Fields preserves the full payload for metadata-richness scoring.
type ExifInfo struct {
	DateTimeOriginal *time.Time
	FileSizeInByte   int64
	Latitude         *float64
	Longitude        *float64

	// Fields is the raw key to value mapping as returned by the server.
	Fields map[string]any
}

type exifWire struct {
	DateTimeOriginal *string  `json:"dateTimeOriginal"`
	FileSizeInByte   int64    `json:"fileSizeInByte"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// UnmarshalJSON decodes the typed fields and keeps the raw mapping. An
// unparseable capture date is treated as absent, matching how the server's
// own clients behave with malformed EXIF.
func (e *ExifInfo) UnmarshalJSON(data []byte) error {
	var wire exifWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	e.FileSizeInByte = wire.FileSizeInByte
	e.Latitude = wire.Latitude
	e.Longitude = wire.Longitude
	e.Fields = fields
	e.DateTimeOriginal = nil
	if wire.DateTimeOriginal != nil {
		if ts, err := parseTimestamp(*wire.DateTimeOriginal); err == nil {
			e.DateTimeOriginal = &ts
		}
	}
	return nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// Asset is an immutable snapshot of a server asset, as delivered inside a
// duplicate group. AlbumIDs and TagIDs are filled by enrichment calls when
// metadata transfer is enabled; the duplicates endpoint does not include
// memberships.
type Asset struct {
	ID               string   `json:"id"`
	OriginalFileName string   `json:"originalFileName"`
	OriginalPath     string   `json:"originalPath"`
	Type             string   `json:"type"`
	ExifInfo         ExifInfo `json:"exifInfo"`

	AlbumIDs []string `json:"-"`
	TagIDs   []string `json:"-"`
}

// Extension returns the lowercased file extension without the leading dot.
func (a Asset) Extension() string {
	name := a.OriginalFileName
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// CaptureTime returns the EXIF capture timestamp, or nil when absent.
func (a Asset) CaptureTime() *time.Time {
	return a.ExifInfo.DateTimeOriginal
}

// FileSize returns the asset size in bytes.
func (a Asset) FileSize() int64 {
	return a.ExifInfo.FileSizeInByte
}

// HasLocation reports whether the asset carries GPS coordinates.
func (a Asset) HasLocation() bool {
	return a.ExifInfo.Latitude != nil && a.ExifInfo.Longitude != nil
}

// ThumbnailURL returns the preview URL used in operator-facing log lines.
func (a Asset) ThumbnailURL(baseURL string) string {
	return fmt.Sprintf("%s/api/assets/%s/thumbnail?size=preview", strings.TrimRight(baseURL, "/"), a.ID)
}

// DuplicateGroup is a server-asserted cluster of assets considered copies
// of the same content.
type DuplicateGroup struct {
	DuplicateID string  `json:"duplicateId"`
	Assets      []Asset `json:"assets"`
}

// User represents the account behind the configured API key.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Album represents an album membership container.
type Album struct {
	ID        string `json:"id"`
	AlbumName string `json:"albumName"`
}

// Tag represents a tag attached to an asset.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AssetPatch is a sparse update for PUT /api/assets/{id}. Only non-nil
// fields are serialized, so a patch never clobbers data it does not name.
type AssetPatch struct {
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	DateTimeOriginal *string  `json:"dateTimeOriginal,omitempty"`
}

// IsZero reports whether the patch carries no changes.
func (p AssetPatch) IsZero() bool {
	return p.Latitude == nil && p.Longitude == nil && p.DateTimeOriginal == nil
}

type assetDetail struct {
	ID   string `json:"id"`
	Tags []Tag  `json:"tags"`
}

type bulkIDsRequest struct {
	IDs []string `json:"ids"`
}

type deleteAssetsRequest struct {
	IDs   []string `json:"ids"`
	Force bool     `json:"force"`
}
