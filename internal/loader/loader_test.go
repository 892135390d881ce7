package loader

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartlearn-ai/smartlearn/internal/classify"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestLoader(t *testing.T, cfg Config) *Loader {
	t.Helper()
	cfg.Logger = log.New(io.Discard, "", 0)
	return New(cfg, classify.New(classify.Options{}))
}

func docBySource(docs []Document, sourceID string) (Document, bool) {
	for _, d := range docs {
		if d.SourceID == sourceID {
			return d, true
		}
	}
	return Document{}, false
}

func TestLoader_LoadsSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "Plain prose about thermodynamics and heat transfer in systems.")
	writeFile(t, dir, "lecture.md", "# Week One\n\nIntro to cell biology.\n")
	writeFile(t, dir, "example.py", "def cell_area(r):\n    return 3.14 * r * r\n")
	writeFile(t, dir, "image.png", "not really a png")

	res, err := newTestLoader(t, Config{RootDir: dir}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Documents) != 3 {
		t.Fatalf("got %d documents, want 3", len(res.Documents))
	}

	if doc, ok := docBySource(res.Documents, "example.py"); !ok || doc.ContentType != classify.ContentCode {
		t.Errorf("example.py classified as %v, want code", doc.ContentType)
	}
	if doc, ok := docBySource(res.Documents, "notes.txt"); !ok || doc.ContentType != classify.ContentProse {
		t.Errorf("notes.txt classified as %v, want prose", doc.ContentType)
	}
}

func TestLoader_FlattensMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lecture.md", "# Osmosis\n\nWater moves across a **membrane** toward higher solute concentration.\n")

	res, err := newTestLoader(t, Config{RootDir: dir}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	doc, ok := docBySource(res.Documents, "lecture.md")
	if !ok {
		t.Fatal("lecture.md not loaded")
	}

	if strings.Contains(doc.RawText, "**") || strings.Contains(doc.RawText, "# ") {
		t.Errorf("markup survived flattening: %q", doc.RawText)
	}
	if !strings.Contains(doc.RawText, "Osmosis") || !strings.Contains(doc.RawText, "membrane") {
		t.Errorf("text content lost in flattening: %q", doc.RawText)
	}
}

func TestLoader_SkipsBinaryAndOversized(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.txt", "readable study notes")
	writeFile(t, dir, "bad.txt", "binary\x00content")
	writeFile(t, dir, "huge.txt", strings.Repeat("x", 100))

	l := newTestLoader(t, Config{RootDir: dir, MaxFileSize: 50})
	res, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(res.Documents) != 1 || res.Documents[0].SourceID != "good.txt" {
		t.Errorf("documents = %+v, want only good.txt", res.Documents)
	}
	if res.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", res.Skipped)
	}
}

func TestLoader_IncludeExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bio/notes.md", "# Biology\n\nCells.")
	writeFile(t, dir, "bio/draft.md", "# Draft\n\nUnfinished.")
	writeFile(t, dir, "chem/notes.md", "# Chemistry\n\nBonds.")

	l := newTestLoader(t, Config{
		RootDir: dir,
		Include: []string{"bio/**"},
		Exclude: []string{"**/draft.md"},
	})
	res, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(res.Documents) != 1 || res.Documents[0].SourceID != "bio/notes.md" {
		t.Errorf("documents = %+v, want only bio/notes.md", res.Documents)
	}
}

func TestLoader_SkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "keep me")
	writeFile(t, dir, ".git/config.txt", "drop me")
	writeFile(t, dir, "node_modules/pkg/readme.md", "drop me too")

	res, err := newTestLoader(t, Config{RootDir: dir}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Documents) != 1 || res.Documents[0].SourceID != "notes.txt" {
		t.Errorf("documents = %+v, want only notes.txt", res.Documents)
	}
}

func TestLoader_MissingRoot(t *testing.T) {
	l := newTestLoader(t, Config{RootDir: filepath.Join(t.TempDir(), "nope")})
	if _, err := l.Load(); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestMarkdownToText_CodeAndLists(t *testing.T) {
	src := "# Title\n\n- first point\n- second point\n\n```\nx = 1\n```\n"
	out, err := markdownToText(src)
	if err != nil {
		t.Fatalf("markdownToText: %v", err)
	}

	for _, want := range []string{"Title", "first point", "second point", "x = 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "```") || strings.Contains(out, "- ") {
		t.Errorf("markup survived: %q", out)
	}
	if strings.Contains(out, "\n\n\n") {
		t.Errorf("blank lines not collapsed: %q", out)
	}
}
