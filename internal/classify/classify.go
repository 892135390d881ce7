// Package classify decides how a raw document should be chunked by
// inspecting its text. It distinguishes source code, structured (headed)
// text such as markdown or lecture notes, and plain prose.
package classify

import "strings"

// ContentType categorizes a document for chunking-strategy selection.
type ContentType string

const (
	ContentCode       ContentType = "code"
	ContentStructured ContentType = "structured"
	ContentProse      ContentType = "prose"
)

// codeMarkers are language-construct fragments whose presence suggests
// source code. The set is fixed; how many occurrences are required to
// classify as code is configurable (see Options.MinCodeMarkers).
var codeMarkers = []string{
	"func ",
	"def ",
	"class ",
	"import ",
	"package ",
	"#include",
	"public static",
	"fn ",
}

// Options holds the tunable classification thresholds. The reference
// behaviour (a single marker occurrence is enough to call a document code)
// is deliberately kept as the default, but both knobs are configuration
// rather than constants because the defaults are known to be coarse.
type Options struct {
	// MinCodeMarkers is the minimum total number of code-marker occurrences
	// required to classify text as code.
	MinCodeMarkers int
	// MinHeadingDensity is the minimum fraction of lines that must look like
	// headings for text to classify as structured.
	MinHeadingDensity float64
}

// DefaultOptions returns the thresholds used when none are configured.
func DefaultOptions() Options {
	return Options{
		MinCodeMarkers:    1,
		MinHeadingDensity: 0.05,
	}
}

// Classifier detects the content type of raw text. It carries no mutable
// state; Detect is a pure function of its input and the configured options.
type Classifier struct {
	opts Options
}

// New creates a Classifier with the given options. Non-positive thresholds
// fall back to the defaults.
func New(opts Options) *Classifier {
	def := DefaultOptions()
	if opts.MinCodeMarkers <= 0 {
		opts.MinCodeMarkers = def.MinCodeMarkers
	}
	if opts.MinHeadingDensity <= 0 {
		opts.MinHeadingDensity = def.MinHeadingDensity
	}
	return &Classifier{opts: opts}
}

// Detect returns exactly one content type for the given text. Empty input
// classifies as prose.
func (c *Classifier) Detect(text string) ContentType {
	if strings.TrimSpace(text) == "" {
		return ContentProse
	}

	if c.countCodeMarkers(text) >= c.opts.MinCodeMarkers {
		return ContentCode
	}

	if c.headingDensity(text) >= c.opts.MinHeadingDensity {
		return ContentStructured
	}

	return ContentProse
}

// countCodeMarkers sums the occurrences of all code markers in the text.
func (c *Classifier) countCodeMarkers(text string) int {
	total := 0
	for _, marker := range codeMarkers {
		total += strings.Count(text, marker)
	}
	return total
}

// headingDensity returns the fraction of non-blank lines that look like
// headings: ATX-style ("# ..."), or setext underlines ("===", "---")
// directly below a non-blank line.
func (c *Classifier) headingDensity(text string) float64 {
	lines := strings.Split(text, "\n")

	nonBlank := 0
	headings := 0
	prevNonBlank := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			prevNonBlank = false
			continue
		}
		nonBlank++

		switch {
		case strings.HasPrefix(trimmed, "#"):
			headings++
		case prevNonBlank && isSetextUnderline(trimmed):
			headings++
		}
		prevNonBlank = true
	}

	if nonBlank == 0 {
		return 0
	}
	return float64(headings) / float64(nonBlank)
}

// isSetextUnderline reports whether a line consists solely of '=' or '-'
// characters and is long enough to be an underline rather than a dash.
func isSetextUnderline(line string) bool {
	if len(line) < 3 {
		return false
	}
	first := line[0]
	if first != '=' && first != '-' {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != first {
			return false
		}
	}
	return true
}
