package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

const petstore = `openapi: 3.0.3
info: {title: Pets, version: "1"}
paths: {}
`

func TestLoader_FileAndFS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(petstore), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := NewLoader(WithFileSystem(fstest.MapFS{"specs/api.yaml": {Data: []byte(petstore)}}))

	for name, src := range map[string]Source{
		"file": SourceFromFile(path),
		"fs":   SourceFromFS("specs/api.yaml"),
	} {
		data, err := loader.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if string(data) != petstore {
			t.Fatalf("%s: unexpected content %q", name, data)
		}
	}
}

func TestLoader_HTTPRequiresClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(petstore))
	}))
	defer srv.Close()

	src, err := ParseSource(srv.URL + "/api.yaml")
	if err != nil {
		t.Fatalf("parse source: %v", err)
	}
	if src.Kind() != SourceKindURL {
		t.Fatalf("expected url source, got %s", src.Kind())
	}

	if _, err := NewLoader().Load(context.Background(), src); err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected offline loader to refuse URLs, got %v", err)
	}

	data, err := NewLoader(WithHTTPFallback(time.Second)).Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load url: %v", err)
	}
	if string(data) != petstore {
		t.Fatalf("unexpected content %q", data)
	}

	missing, _ := ParseSource(srv.URL + "/missing.yaml")
	if _, err := NewLoader(WithHTTPClient(srv.Client())).Load(context.Background(), missing); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestParseSource(t *testing.T) {
	if _, err := ParseSource("  "); err == nil {
		t.Fatalf("expected error for empty source")
	}
	src, err := ParseSource("./specs/../api.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if src.Kind() != SourceKindFile || src.Location() != "api.yaml" {
		t.Fatalf("unexpected source %s %s", src.Kind(), src.Location())
	}
	if _, err := SourceFromURL("ftp://example.com/api.yaml"); err == nil {
		t.Fatalf("expected unsupported scheme error")
	}
}
