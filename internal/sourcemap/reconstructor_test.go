package sourcemap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsrecon/jsrecon/internal/fetch"
)

func testReconstructor(srv *httptest.Server) *Reconstructor {
	return NewReconstructor(fetch.NewFetcher(srv.Client(), fetch.WithRequestDelay(0)))
}

// TestReconstruct tests source tree recovery from source maps.
func TestReconstruct(t *testing.T) {
	t.Parallel()

	t.Run("inline content preferred, no fetch issued", func(t *testing.T) {
		t.Parallel()

		var sourceFetches int
		mux := http.NewServeMux()
		mux.HandleFunc("/app.js.map", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"sources": ["src/a.js", "src/b.js"],
				"sourcesContent": ["content of a", "content of b"]
			}`))
		})
		mux.HandleFunc("/src/", func(w http.ResponseWriter, r *http.Request) {
			sourceFetches++
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		tree := testReconstructor(srv).Reconstruct(context.Background(), srv.URL+"/app.js.map")
		if len(tree) != 2 {
			t.Fatalf("tree = %v", tree)
		}
		if tree["src/a.js"] != "content of a" || tree["src/b.js"] != "content of b" {
			t.Errorf("tree = %v", tree)
		}
		if sourceFetches != 0 {
			t.Errorf("issued %d fetches despite inline content", sourceFetches)
		}
	})

	t.Run("partial failure yields placeholders not abort", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/app.js.map", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"sources": ["src/ok.js", "src/gone.js", "src/also-ok.js"]}`))
		})
		mux.HandleFunc("/src/ok.js", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok body"))
		})
		mux.HandleFunc("/src/also-ok.js", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("also ok body"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		tree := testReconstructor(srv).Reconstruct(context.Background(), srv.URL+"/app.js.map")
		if len(tree) != 3 {
			t.Fatalf("tree has %d entries, want 3: %v", len(tree), tree)
		}
		if tree["src/ok.js"] != "ok body" || tree["src/also-ok.js"] != "also ok body" {
			t.Errorf("successful files wrong: %v", tree)
		}
		placeholder := tree["src/gone.js"]
		if !strings.Contains(placeholder, "Skipping missing source file") || !strings.Contains(placeholder, "Status: 404") {
			t.Errorf("placeholder = %q", placeholder)
		}
	})

	t.Run("map not found yields sentinel only", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		mapURL := srv.URL + "/missing.map"
		tree := testReconstructor(srv).Reconstruct(context.Background(), mapURL)
		if len(tree) != 1 {
			t.Fatalf("tree = %v", tree)
		}
		msg := tree[ErrorLogFile]
		if !strings.Contains(msg, "Source map not found") || !strings.Contains(msg, mapURL) {
			t.Errorf("sentinel = %q", msg)
		}
	})

	t.Run("missing sources array yields sentinel", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"version": 3, "mappings": ""}`))
		}))
		defer srv.Close()

		tree := testReconstructor(srv).Reconstruct(context.Background(), srv.URL+"/app.js.map")
		if len(tree) != 1 {
			t.Fatalf("tree = %v", tree)
		}
		if !strings.Contains(tree[ErrorLogFile], "does not contain a 'sources' array") {
			t.Errorf("sentinel = %q", tree[ErrorLogFile])
		}
	})

	t.Run("invalid JSON yields sentinel", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		tree := testReconstructor(srv).Reconstruct(context.Background(), srv.URL+"/app.js.map")
		if !strings.Contains(tree[ErrorLogFile], "not valid JSON") {
			t.Errorf("tree = %v", tree)
		}
	})

	t.Run("webpack-prefixed paths keep their key but are not fetched", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/app.js.map", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"sources": ["webpack://app/src/main.js"],
				"sourcesContent": [null]
			}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		tree := testReconstructor(srv).Reconstruct(context.Background(), srv.URL+"/app.js.map")
		got := tree["webpack://app/src/main.js"]
		if !strings.Contains(got, "Skipping unresolvable source file") {
			t.Errorf("tree = %v", tree)
		}
	})

	t.Run("sourceRoot is applied when resolving", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/maps/app.js.map", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"sourceRoot": "../src/", "sources": ["main.js"]}`))
		})
		mux.HandleFunc("/src/main.js", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("rooted body"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		tree := testReconstructor(srv).Reconstruct(context.Background(), srv.URL+"/maps/app.js.map")
		if tree["../src/main.js"] != "rooted body" {
			t.Errorf("tree = %v", tree)
		}
	})
}

// TestWriteTree tests tree materialization and path sanitization.
func TestWriteTree(t *testing.T) {
	t.Parallel()

	t.Run("writes nested files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		n, err := WriteTree(dir, map[string]string{
			"src/a.js":                "a",
			"webpack://app/b/c.js":    "c",
			ErrorLogFile:              "log",
			"../../etc/passwd-escape": "nope",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 4 {
			t.Errorf("written = %d, want 4", n)
		}

		body, err := os.ReadFile(filepath.Join(dir, "src", "a.js"))
		if err != nil || string(body) != "a" {
			t.Errorf("src/a.js = %q, %v", body, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "app", "b", "c.js")); err != nil {
			t.Errorf("webpack path not materialized: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "etc", "passwd-escape")); err != nil {
			t.Errorf("traversal path not neutralized into dir: %v", err)
		}
	})

	t.Run("sanitizePath", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			in   string
			want string
		}{
			{"src/a.js", filepath.Join("src", "a.js")},
			{"/abs/path.js", filepath.Join("abs", "path.js")},
			{"../../x.js", "x.js"},
			{"webpack://app/./y.js", filepath.Join("app", "y.js")},
			{"..", ""},
			{"", ""},
		}
		for _, tt := range tests {
			if got := sanitizePath(tt.in); got != tt.want {
				t.Errorf("sanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		}
	})
}
