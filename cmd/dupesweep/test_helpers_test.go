package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"dupesweep/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// isolateHome points HOME at a temp directory so the default config path,
// the journal, and log files never touch the developer's real home.
func isolateHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

// testServer is a minimal Immich stand-in that serves one duplicate group
// and fails the test on any mutating request.
type testServer struct {
	*httptest.Server
	mutations atomic.Int64
}

func newTestServer(t *testing.T, duplicates any) *testServer {
	t.Helper()

	ts := &testServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"id": "user-1", "name": "Tester", "email": "tester@example.com"})
	})
	mux.HandleFunc("/api/duplicates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, duplicates)
	})
	mux.HandleFunc("/api/albums", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []any{})
	})
	mux.HandleFunc("/api/assets/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": strings.TrimPrefix(r.URL.Path, "/api/assets/"), "tags": []any{}})
	})

	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			ts.mutations.Add(1)
			t.Errorf("unexpected mutating request: %s %s", r.Method, r.URL.Path)
			http.Error(w, "mutation in dry run", http.StatusForbidden)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	t.Setenv(config.EnvServer, ts.URL)
	t.Setenv(config.EnvAPIKey, "test-key")
	return ts
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func sampleDuplicates() any {
	return []map[string]any{
		{
			"duplicateId": "dup-1",
			"assets": []map[string]any{
				{
					"id":               "asset-old",
					"originalFileName": "IMG_0001.heic",
					"type":             "IMAGE",
					"exifInfo": map[string]any{
						"dateTimeOriginal": "2021-05-01T10:00:00Z",
						"fileSizeInByte":   2048000,
					},
				},
				{
					"id":               "asset-new",
					"originalFileName": "IMG_0001.jpg",
					"type":             "IMAGE",
					"exifInfo": map[string]any{
						"dateTimeOriginal": "2022-05-01T10:00:00Z",
						"fileSizeInByte":   1048576,
					},
				},
			},
		},
	}
}
