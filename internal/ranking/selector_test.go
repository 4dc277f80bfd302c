package ranking_test

import (
	"errors"
	"testing"
	"time"

	"dupesweep/internal/immich"
	"dupesweep/internal/ranking"
)

func asset(id, name string, captured string, size int64, fields map[string]any) immich.Asset {
	a := immich.Asset{
		ID:               id,
		OriginalFileName: name,
	}
	a.ExifInfo.FileSizeInByte = size
	a.ExifInfo.Fields = fields
	if captured != "" {
		ts, err := time.Parse(time.RFC3339, captured)
		if err != nil {
			panic(err)
		}
		a.ExifInfo.DateTimeOriginal = &ts
	}
	return a
}

func group(assets ...immich.Asset) immich.DuplicateGroup {
	return immich.DuplicateGroup{DuplicateID: "g", Assets: assets}
}

func fields(n int) map[string]any {
	m := make(map[string]any, n)
	keys := []string{"make", "model", "lensModel", "iso", "fNumber", "city"}
	for i := 0; i < n; i++ {
		m[keys[i]] = "v"
	}
	return m
}

func TestSelectRejectsSmallGroups(t *testing.T) {
	sel := ranking.Selector{PreferredFormat: "heic"}
	_, err := sel.Select(group(asset("a", "a.jpg", "", 1, nil)))
	if !errors.Is(err, ranking.ErrGroupTooSmall) {
		t.Fatalf("expected ErrGroupTooSmall, got %v", err)
	}
}

func TestEarliestDateWins(t *testing.T) {
	// Earlier date beats a larger file: date is the first rule.
	sel := ranking.Selector{PreferredFormat: "heic"}
	d, err := sel.Select(group(
		asset("new", "b.jpg", "2022-06-01T00:00:00Z", 9_000_000, nil),
		asset("old", "a.jpg", "2021-01-01T00:00:00Z", 1_000_000, nil),
	))
	if err != nil {
		t.Fatal(err)
	}
	if d.Winner.ID != "old" {
		t.Fatalf("expected earlier asset to win, got %s", d.Winner.ID)
	}
	if d.Reason != ranking.ReasonOlder {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestMissingDateLosesToAnyDate(t *testing.T) {
	sel := ranking.Selector{}
	d, err := sel.Select(group(
		asset("undated", "a.jpg", "", 9_000_000, nil),
		asset("dated", "b.jpg", "2023-01-01T00:00:00Z", 1_000, nil),
	))
	if err != nil {
		t.Fatal(err)
	}
	if d.Winner.ID != "dated" {
		t.Fatalf("expected dated asset to win, got %s", d.Winner.ID)
	}
}

func TestPreferredFormatBeatsSize(t *testing.T) {
	// Spec scenario: same date, heic preferred, smaller heic wins over
	// larger jpg.
	sel := ranking.Selector{PreferredFormat: "heic"}
	d, err := sel.Select(group(
		asset("1", "IMG.jpg", "2021-01-01T00:00:00Z", 2_000_000, fields(3)),
		asset("2", "IMG.heic", "2021-01-01T00:00:00Z", 1_500_000, fields(1)),
	))
	if err != nil {
		t.Fatal(err)
	}
	if d.Winner.ID != "2" {
		t.Fatalf("expected heic to win, got %s", d.Winner.ID)
	}
	if d.Reason != ranking.ReasonPreferredFormat {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestFormatRuleNoopWhenNoMatch(t *testing.T) {
	// Spec scenario: preferred format matches neither asset, so size
	// decides.
	sel := ranking.Selector{PreferredFormat: "png"}
	d, err := sel.Select(group(
		asset("1", "IMG.jpg", "2021-01-01T00:00:00Z", 2_000_000, fields(3)),
		asset("2", "IMG.heic", "2021-01-01T00:00:00Z", 1_500_000, fields(1)),
	))
	if err != nil {
		t.Fatal(err)
	}
	if d.Winner.ID != "1" {
		t.Fatalf("expected larger asset to win, got %s", d.Winner.ID)
	}
	if d.Reason != ranking.ReasonLargerSize {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestMetadataRichnessBreaksSizeTie(t *testing.T) {
	sel := ranking.Selector{}
	d, err := sel.Select(group(
		asset("sparse", "a.jpg", "2021-01-01T00:00:00Z", 1_000, fields(1)),
		asset("rich", "b.jpg", "2021-01-01T00:00:00Z", 1_000, fields(5)),
	))
	if err != nil {
		t.Fatal(err)
	}
	if d.Winner.ID != "rich" {
		t.Fatalf("expected richer asset to win, got %s", d.Winner.ID)
	}
	if d.Reason != ranking.ReasonRicherMetadata {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestFullTieKeepsFirstInGroupOrder(t *testing.T) {
	sel := ranking.Selector{PreferredFormat: "heic"}
	g := group(
		asset("first", "a.jpg", "2021-01-01T00:00:00Z", 1_000, fields(2)),
		asset("second", "b.jpg", "2021-01-01T00:00:00Z", 1_000, fields(2)),
	)
	d, err := sel.Select(g)
	if err != nil {
		t.Fatal(err)
	}
	if d.Winner.ID != "first" {
		t.Fatalf("expected first asset on full tie, got %s", d.Winner.ID)
	}
	if d.Reason != ranking.ReasonIdentical {
		t.Fatalf("unexpected reason %q", d.Reason)
	}

	// Determinism: same input, same winner.
	again, err := sel.Select(g)
	if err != nil {
		t.Fatal(err)
	}
	if again.Winner.ID != d.Winner.ID {
		t.Fatalf("selection not deterministic: %s vs %s", again.Winner.ID, d.Winner.ID)
	}
}

func TestLosersPreserveGroupOrder(t *testing.T) {
	sel := ranking.Selector{}
	d, err := sel.Select(group(
		asset("a", "a.jpg", "2022-01-01T00:00:00Z", 1, nil),
		asset("b", "b.jpg", "2021-01-01T00:00:00Z", 1, nil),
		asset("c", "c.jpg", "2023-01-01T00:00:00Z", 1, nil),
		asset("d", "d.jpg", "2023-06-01T00:00:00Z", 1, nil),
	))
	if err != nil {
		t.Fatal(err)
	}
	if d.Winner.ID != "b" {
		t.Fatalf("expected b to win, got %s", d.Winner.ID)
	}
	want := []string{"a", "c", "d"}
	if len(d.Losers) != len(want) {
		t.Fatalf("expected %d losers, got %d", len(want), len(d.Losers))
	}
	for i, id := range want {
		if d.Losers[i].ID != id {
			t.Fatalf("loser %d: got %s want %s", i, d.Losers[i].ID, id)
		}
	}
}

func TestFilterPairsOnly(t *testing.T) {
	pair := group(
		asset("a", "a.jpg", "", 1, nil),
		asset("b", "b.jpg", "", 1, nil),
	)
	triple := group(
		asset("a", "a.jpg", "", 1, nil),
		asset("b", "b.jpg", "", 1, nil),
		asset("c", "c.jpg", "", 1, nil),
	)

	strict := ranking.Filter{PairsOnly: true}
	if !strict.Admit(pair) {
		t.Fatal("pairs-only must admit a pair")
	}
	if strict.Admit(triple) {
		t.Fatal("pairs-only must reject a triple")
	}

	open := ranking.Filter{}
	if !open.Admit(triple) || !open.Admit(pair) {
		t.Fatal("default filter must admit everything")
	}
}

func TestScoreIgnoresPlaceholders(t *testing.T) {
	a := immich.Asset{}
	a.ExifInfo.Fields = map[string]any{
		"make":       "Apple",
		"model":      "  ",
		"iso":        float64(0),
		"fNumber":    1.8,
		"city":       nil,
		"favorite":   false,
		"timeZone":   "UTC+2",
		"projection": "",
	}
	if got := ranking.Score(a); got != 4 {
		t.Fatalf("expected score 4 (make, fNumber, favorite, timeZone), got %d", got)
	}
}
