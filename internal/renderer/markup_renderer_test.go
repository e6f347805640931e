package renderer

import (
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/records"
	"github.com/fhuszti/image-optimiser-go/internal/rewriter"
)

const base = "https://example.com/wp-content/uploads"

func setupUploads(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRenderMarkup(t *testing.T) {
	dir := setupUploads(t, "2024/01/a.jpg", "2024/01/a.webp")
	r := NewMarkupRenderer(rewriter.New(dir, base, model.DefaultSettings()), base)
	in := `<p><img src="` + base + `/2024/01/a.jpg" alt=""></p>`

	t.Run("webp client", func(t *testing.T) {
		body, etag := r.RenderMarkup(context.Background(), in, model.ClientFormats{WebP: true})
		want := `<p><img src="` + base + `/2024/01/a.webp" alt=""></p>`
		if string(body) != want {
			t.Errorf("body mismatch:\n got %s\nwant %s", body, want)
		}
		if exp := fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE([]byte(want))); etag != exp {
			t.Errorf("etag mismatch: got %s want %s", etag, exp)
		}
	})

	t.Run("legacy client", func(t *testing.T) {
		body, etag := r.RenderMarkup(context.Background(), in, model.ClientFormats{})
		if string(body) != in {
			t.Errorf("expected markup unchanged, got %s", body)
		}
		webpBody, webpEtag := r.RenderMarkup(context.Background(), in, model.ClientFormats{WebP: true})
		if etag == webpEtag || string(body) == string(webpBody) {
			t.Error("expected different variants to carry different etags")
		}
	})
}

func TestResolveUpload(t *testing.T) {
	dir := setupUploads(t, "2024/01/a.jpg", "2024/01/a.webp", "2024/01/a.avif", "2024/01/b.png")
	r := NewMarkupRenderer(rewriter.New(dir, base, model.DefaultSettings()), base)
	ctx := context.Background()

	cases := []struct {
		name string
		rel  string
		caps model.ClientFormats
		want string
		ok   bool
	}{
		{"avif preferred", "2024/01/a.jpg", model.ClientFormats{WebP: true, AVIF: true}, "2024/01/a.avif", true},
		{"webp only", "2024/01/a.jpg", model.ClientFormats{WebP: true}, "2024/01/a.webp", true},
		{"legacy", "2024/01/a.jpg", model.ClientFormats{}, "2024/01/a.jpg", true},
		{"no sibling", "/2024/01/b.png", model.ClientFormats{WebP: true, AVIF: true}, "2024/01/b.png", true},
		{"missing", "2024/01/c.jpg", model.ClientFormats{WebP: true}, "", false},
		{"escape", "../secret.jpg", model.ClientFormats{}, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := r.ResolveUpload(ctx, c.rel, c.caps)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if !ok {
				return
			}
			if want := filepath.Join(dir, filepath.FromSlash(c.want)); got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestResolveUpload_HiddenAndNonImageFiles(t *testing.T) {
	dir := setupUploads(t, "2024/01/a.jpg", ".backups/2024/01/a.jpg", "2024/01/.a.opt-1.jpg", "2024/01/notes.txt")
	store, err := records.Open(filepath.Join(dir, ".records"), 10)
	if err != nil {
		t.Fatalf("open records: %v", err)
	}
	defer store.Close()
	if err := store.Append(context.Background(), model.Record{Source: "2024/01/a.jpg", Format: model.FormatJPEG}); err != nil {
		t.Fatalf("append: %v", err)
	}

	r := NewMarkupRenderer(rewriter.New(dir, base, model.DefaultSettings()), base)
	ctx := context.Background()

	entries, err := os.ReadDir(filepath.Join(dir, ".records"))
	if err != nil {
		t.Fatalf("read records dir: %v", err)
	}
	rels := []string{".backups/2024/01/a.jpg", "2024/01/.a.opt-1.jpg", "2024/01/notes.txt", "/.backups/2024/01/a.jpg"}
	for _, e := range entries {
		rels = append(rels, ".records/"+e.Name())
	}
	for _, rel := range rels {
		if file, ok := r.ResolveUpload(ctx, rel, model.ClientFormats{WebP: true}); ok {
			t.Errorf("ResolveUpload(%q) served %s", rel, file)
		}
	}

	if _, ok := r.ResolveUpload(ctx, "2024/01/a.jpg", model.ClientFormats{}); !ok {
		t.Error("expected a regular upload to stay servable")
	}
}
