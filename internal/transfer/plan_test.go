package transfer_test

import (
	"testing"
	"time"

	"dupesweep/internal/immich"
	"dupesweep/internal/ranking"
	"dupesweep/internal/transfer"
)

func located(id string, lat, lon float64) immich.Asset {
	a := immich.Asset{ID: id}
	a.ExifInfo.Latitude = &lat
	a.ExifInfo.Longitude = &lon
	return a
}

func TestComputeUnionsMembershipsWithoutDuplicates(t *testing.T) {
	winner := immich.Asset{ID: "w", AlbumIDs: []string{"alb1"}, TagIDs: []string{"t1"}}
	loserA := immich.Asset{ID: "a", AlbumIDs: []string{"alb1", "alb2"}, TagIDs: []string{"t2"}}
	loserB := immich.Asset{ID: "b", AlbumIDs: []string{"alb2", "alb3"}, TagIDs: []string{"t1", "t2"}}

	plan := transfer.Compute(ranking.Decision{Winner: winner, Losers: []immich.Asset{loserA, loserB}})

	wantAlbums := []string{"alb2", "alb3"}
	if len(plan.AlbumIDs) != len(wantAlbums) {
		t.Fatalf("unexpected albums: %v", plan.AlbumIDs)
	}
	for i, id := range wantAlbums {
		if plan.AlbumIDs[i] != id {
			t.Fatalf("album %d: got %s want %s", i, plan.AlbumIDs[i], id)
		}
	}
	if len(plan.TagIDs) != 1 || plan.TagIDs[0] != "t2" {
		t.Fatalf("unexpected tags: %v", plan.TagIDs)
	}
}

func TestComputeNeverOverwritesWinnerLocation(t *testing.T) {
	winner := located("w", 1.0, 2.0)
	loser := located("l", 48.85, 2.35)

	plan := transfer.Compute(ranking.Decision{Winner: winner, Losers: []immich.Asset{loser}})
	if plan.Patch.Latitude != nil || plan.Patch.Longitude != nil {
		t.Fatalf("expected no location patch for located winner, got %+v", plan.Patch)
	}
}

func TestComputeAdoptsFirstLoserLocation(t *testing.T) {
	winner := immich.Asset{ID: "w"}
	unlocated := immich.Asset{ID: "a"}
	first := located("b", 48.85, 2.35)
	second := located("c", 40.0, -3.7)

	plan := transfer.Compute(ranking.Decision{
		Winner: winner,
		Losers: []immich.Asset{unlocated, first, second},
	})
	if plan.Patch.Latitude == nil || *plan.Patch.Latitude != 48.85 {
		t.Fatalf("expected first located loser to supply latitude, got %+v", plan.Patch)
	}
	if plan.Patch.Longitude == nil || *plan.Patch.Longitude != 2.35 {
		t.Fatalf("expected first located loser to supply longitude, got %+v", plan.Patch)
	}
}

func TestComputeFillsMissingCaptureDate(t *testing.T) {
	ts := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	winner := immich.Asset{ID: "w"}
	loser := immich.Asset{ID: "l"}
	loser.ExifInfo.DateTimeOriginal = &ts

	plan := transfer.Compute(ranking.Decision{Winner: winner, Losers: []immich.Asset{loser}})
	if plan.Patch.DateTimeOriginal == nil || *plan.Patch.DateTimeOriginal != "2021-03-14T15:09:26Z" {
		t.Fatalf("expected capture date adopted, got %+v", plan.Patch.DateTimeOriginal)
	}

	// A winner that already has a date keeps it.
	winner.ExifInfo.DateTimeOriginal = &ts
	plan = transfer.Compute(ranking.Decision{Winner: winner, Losers: []immich.Asset{loser}})
	if plan.Patch.DateTimeOriginal != nil {
		t.Fatal("winner date must not be replaced")
	}
}

func TestComputeZeroPlan(t *testing.T) {
	winner := located("w", 1, 2)
	ts := time.Now()
	winner.ExifInfo.DateTimeOriginal = &ts
	loser := immich.Asset{ID: "l"}

	plan := transfer.Compute(ranking.Decision{Winner: winner, Losers: []immich.Asset{loser}})
	if !plan.IsZero() {
		t.Fatalf("expected zero plan, got %+v", plan)
	}
}
