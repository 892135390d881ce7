// Package loader reads study material from a directory tree into documents
// ready for classification and chunking. Files are read as UTF-8 text;
// markdown is flattened to plain text before chunking.
package loader

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/smartlearn-ai/smartlearn/internal/classify"
)

// DefaultMaxFileSize is the largest file the loader will read (4 MB).
const DefaultMaxFileSize int64 = 4 << 20

// Document is one loaded source file. SourceID is the path relative to the
// ingestion root, unique within a run. Documents are immutable once
// classified.
type Document struct {
	SourceID    string
	RawText     string
	ContentType classify.ContentType
	Size        int64
}

// supportedExtensions lists the file types the loader reads. Source-code
// extensions are included so study material that contains code samples can
// be ingested alongside notes.
var supportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".text":     true,
	".rst":      true,
	".go":       true,
	".py":       true,
	".js":       true,
	".ts":       true,
	".java":     true,
	".c":        true,
	".cpp":      true,
	".rs":       true,
	".rb":       true,
}

// defaultExcludedDirs are directory names skipped during traversal.
var defaultExcludedDirs = []string{
	".git",
	"node_modules",
	"vendor",
	"__pycache__",
	".venv",
	".idea",
	".vscode",
	"dist",
	"build",
}

// Config controls directory traversal.
type Config struct {
	RootDir     string
	Include     []string // glob patterns, empty means everything
	Exclude     []string // glob patterns, empty means nothing
	MaxFileSize int64    // 0 means DefaultMaxFileSize
	Logger      *log.Logger
}

// Result pairs the loaded documents with a count of files that were skipped
// as unreadable, oversized, binary, or unsupported.
type Result struct {
	Documents []Document
	Skipped   int
}

// Loader walks a root directory and loads every supported file, classifying
// each document's content as it goes.
type Loader struct {
	cfg        Config
	classifier *classify.Classifier
}

// New creates a Loader. classifier decides each document's content type.
func New(cfg Config, classifier *classify.Classifier) *Loader {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Loader{cfg: cfg, classifier: classifier}
}

// Load traverses the root directory. Unreadable files are skipped with a
// logged warning, never a fatal error; only a broken root fails the call.
func (l *Loader) Load() (*Result, error) {
	root, err := filepath.Abs(l.cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve root: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("loader: stat root: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("loader: %s is not a directory", root)
	}

	res := &Result{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			l.cfg.Logger.Printf("warning: skipping %s: %v", path, walkErr)
			res.Skipped++
			return nil
		}

		if d.IsDir() {
			if excludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if !matchesInclude(relPath, l.cfg.Include) || matchesExclude(relPath, l.cfg.Exclude) {
			return nil
		}

		doc, ok := l.loadFile(path, relPath)
		if !ok {
			res.Skipped++
			return nil
		}
		res.Documents = append(res.Documents, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loader: traversal: %w", err)
	}

	return res, nil
}

// loadFile reads and classifies one file. It reports ok=false for anything
// that should be skipped.
func (l *Loader) loadFile(path, relPath string) (Document, bool) {
	info, err := os.Stat(path)
	if err != nil {
		l.cfg.Logger.Printf("warning: skipping %s: %v", relPath, err)
		return Document{}, false
	}
	if info.Size() > l.cfg.MaxFileSize {
		l.cfg.Logger.Printf("warning: skipping %s: exceeds size limit (%d bytes)", relPath, info.Size())
		return Document{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		l.cfg.Logger.Printf("warning: skipping %s: %v", relPath, err)
		return Document{}, false
	}
	if isBinary(data) {
		l.cfg.Logger.Printf("warning: skipping %s: binary content", relPath)
		return Document{}, false
	}
	if !utf8.Valid(data) {
		l.cfg.Logger.Printf("warning: skipping %s: not valid UTF-8", relPath)
		return Document{}, false
	}

	text := string(data)
	ctype := l.classifier.Detect(text)

	// Markdown is flattened to plain text unless it reads as code; code
	// fences dominate some study notes and those chunk better untouched.
	if isMarkdown(path) && ctype != classify.ContentCode {
		if plain, err := markdownToText(text); err == nil {
			text = plain
		}
	}

	if strings.TrimSpace(text) == "" {
		return Document{}, false
	}

	return Document{
		SourceID:    relPath,
		RawText:     text,
		ContentType: ctype,
		Size:        info.Size(),
	}, true
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// isBinary checks the first 512 bytes for NUL bytes.
func isBinary(data []byte) bool {
	n := len(data)
	if n > 512 {
		n = 512
	}
	for i := 0; i < n; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}

func excludedDir(name string) bool {
	for _, d := range defaultExcludedDirs {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}

func matchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

func matchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny matches relPath or its basename against glob patterns with **
// support.
func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(relPath)); err == nil && matched {
			return true
		}
	}
	return false
}
