package transfer

import (
	"time"

	"dupesweep/internal/immich"
	"dupesweep/internal/ranking"
)

// Plan describes the metadata to migrate from a group's losers onto its
// winner. A plan only fills gaps and adds memberships; it never removes or
// replaces data the winner already has.
type Plan struct {
	// AlbumIDs are albums the winner should be added to.
	AlbumIDs []string
	// TagIDs are tags the winner should receive.
	TagIDs []string
	// Patch fills location and capture-date fields the winner lacks.
	Patch immich.AssetPatch
}

// IsZero reports whether applying the plan would be a no-op.
func (p Plan) IsZero() bool {
	return len(p.AlbumIDs) == 0 && len(p.TagIDs) == 0 && p.Patch.IsZero()
}

// Compute derives the transfer plan for a ranking decision: the union of the
// losers' album and tag memberships minus what the winner already has, plus
// a sparse patch for location and capture date when the winner's are absent.
// Losers are visited in decision order, so the first loser holding a missing
// field supplies its value.
func Compute(decision ranking.Decision) Plan {
	var plan Plan

	winnerAlbums := stringSet(decision.Winner.AlbumIDs)
	winnerTags := stringSet(decision.Winner.TagIDs)

	seenAlbums := map[string]struct{}{}
	seenTags := map[string]struct{}{}
	for _, loser := range decision.Losers {
		for _, albumID := range loser.AlbumIDs {
			if _, has := winnerAlbums[albumID]; has {
				continue
			}
			if _, dup := seenAlbums[albumID]; dup {
				continue
			}
			seenAlbums[albumID] = struct{}{}
			plan.AlbumIDs = append(plan.AlbumIDs, albumID)
		}
		for _, tagID := range loser.TagIDs {
			if _, has := winnerTags[tagID]; has {
				continue
			}
			if _, dup := seenTags[tagID]; dup {
				continue
			}
			seenTags[tagID] = struct{}{}
			plan.TagIDs = append(plan.TagIDs, tagID)
		}
	}

	if !decision.Winner.HasLocation() {
		for _, loser := range decision.Losers {
			if loser.HasLocation() {
				lat := *loser.ExifInfo.Latitude
				lon := *loser.ExifInfo.Longitude
				plan.Patch.Latitude = &lat
				plan.Patch.Longitude = &lon
				break
			}
		}
	}

	if decision.Winner.CaptureTime() == nil {
		for _, loser := range decision.Losers {
			if ts := loser.CaptureTime(); ts != nil {
				formatted := ts.Format(time.RFC3339)
				plan.Patch.DateTimeOriginal = &formatted
				break
			}
		}
	}

	return plan
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
