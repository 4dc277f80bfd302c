package ranking

import (
	"strings"

	"dupesweep/internal/immich"
)

// Score counts the meaningful metadata fields present on an asset. Higher
// means richer metadata. Null values, blank strings, and zero numbers
// (placeholders written by scanners and exporters) do not count.
func Score(asset immich.Asset) int {
	count := 0
	for _, value := range asset.ExifInfo.Fields {
		if meaningful(value) {
			count++
		}
	}
	return count
}

func meaningful(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		// JSON numbers decode to float64.
		return v != 0
	default:
		return true
	}
}
