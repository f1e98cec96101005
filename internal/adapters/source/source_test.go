package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hotel_availability/internal/adapters/source"
	"hotel_availability/internal/domain"
)

type stubRemote struct{ calls []string }

func (s *stubRemote) Fetch(ctx context.Context, location string) ([]map[string]any, error) {
	s.calls = append(s.calls, location)
	return []map[string]any{{"id": "remote"}}, nil
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestFile_Fetch(t *testing.T) {
	p := writeFile(t, "hotels.json", `[{"id":"H1","rooms":[{"roomType":"SGL"}]}]`)

	got, err := source.File{}.Fetch(context.Background(), p)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "H1" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestFile_Fetch_Missing(t *testing.T) {
	_, err := source.File{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFile_Fetch_BadJSON(t *testing.T) {
	p := writeFile(t, "bad.json", `{"id":`)
	if _, err := (source.File{}).Fetch(context.Background(), p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRouter(t *testing.T) {
	remote := &stubRemote{}
	r := source.NewRouter(remote)
	p := writeFile(t, "b.json", `[]`)

	if _, err := r.Fetch(context.Background(), "https://example.test/hotels.json"); err != nil {
		t.Fatalf("remote: %v", err)
	}
	if len(remote.calls) != 1 {
		t.Fatalf("expected one remote call, got %v", remote.calls)
	}
	if _, err := r.Fetch(context.Background(), p); err != nil {
		t.Fatalf("file: %v", err)
	}
	if len(remote.calls) != 1 {
		t.Fatalf("file location went to remote")
	}

	if _, err := source.NewRouter(nil).Fetch(context.Background(), "http://x/y"); err == nil {
		t.Fatalf("expected error without remote fetcher")
	}
}

func TestExists(t *testing.T) {
	p := writeFile(t, "a.json", `[]`)
	if !source.Exists(p) {
		t.Fatalf("expected file to exist")
	}
	if source.Exists(filepath.Join(t.TempDir(), "missing.json")) {
		t.Fatalf("missing file reported as existing")
	}
	if source.Exists(t.TempDir()) {
		t.Fatalf("directory reported as document")
	}
	if !source.Exists("https://example.test/x.json") {
		t.Fatalf("urls are assumed to exist")
	}
}
