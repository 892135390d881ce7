package chunker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smartlearn-ai/smartlearn/internal/classify"
)

func newTestSplitter(t *testing.T, size, overlap int) *Splitter {
	t.Helper()
	s, err := NewSplitter(map[classify.ContentType]Config{
		classify.ContentProse:      {MaxChunkSize: size, Overlap: overlap},
		classify.ContentStructured: {MaxChunkSize: size, Overlap: overlap},
		classify.ContentCode:       {MaxChunkSize: size, Overlap: 0},
	})
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}
	return s
}

func TestSplit_EmptyInput(t *testing.T) {
	s := newTestSplitter(t, 1000, 200)
	chunks, err := s.Split(context.Background(), "", "doc.txt", classify.ContentProse)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks, want 0", len(chunks))
	}
}

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	s := newTestSplitter(t, 1000, 200)
	text := "A short note about thermodynamics."

	chunks, err := s.Split(context.Background(), text, "doc.txt", classify.ContentProse)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("chunk text = %q, want original", chunks[0].Text)
	}
	if chunks[0].ID != 0 || chunks[0].Position != 0 {
		t.Errorf("chunk id/position = %d/%d, want 0/0", chunks[0].ID, chunks[0].Position)
	}
	if chunks[0].Length != len(text) {
		t.Errorf("chunk length = %d, want %d", chunks[0].Length, len(text))
	}
}

func TestSplit_SlidingWindowScenario(t *testing.T) {
	// 2500 characters with no separators: windows cut hard at the size
	// limit, so offsets are exact.
	text := strings.Repeat("a", 2500)
	s := newTestSplitter(t, 1000, 200)

	chunks, err := s.Split(context.Background(), text, "doc.txt", classify.ContentProse)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}

	// Windows: [0,1000), [800,1800), [1600,2500).
	wantLens := []int{1000, 1000, 900}
	for i, want := range wantLens {
		if chunks[i].Length != want {
			t.Errorf("chunk[%d] length = %d, want %d", i, chunks[i].Length, want)
		}
		if chunks[i].Text == "" {
			t.Errorf("chunk[%d] is empty", i)
		}
	}

	// chunk[1] starts 800 characters into chunk[0]'s window.
	if got := text[800:1800]; chunks[1].Text != got {
		t.Errorf("chunk[1] does not start at offset 800")
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	// Concatenating chunks in order and dropping the configured overlap
	// recovers the input exactly.
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("The mitochondria is the powerhouse of the cell. ")
		if i%7 == 0 {
			b.WriteString("\n\n")
		}
	}
	text := b.String()

	const overlap = 50
	s := newTestSplitter(t, 300, overlap)

	chunks, err := s.Split(context.Background(), text, "bio.txt", classify.ContentProse)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	reconstructed := chunks[0].Text
	for _, c := range chunks[1:] {
		if len(c.Text) < overlap {
			t.Fatalf("chunk %d shorter than overlap", c.ID)
		}
		reconstructed += c.Text[overlap:]
	}
	if reconstructed != text {
		t.Errorf("round trip failed: got %d bytes, want %d", len(reconstructed), len(text))
	}
}

func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	para1 := strings.Repeat("x", 400)
	para2 := strings.Repeat("y", 400)
	text := para1 + "\n\n" + para2

	s := newTestSplitter(t, 500, 0)
	chunks, err := s.Split(context.Background(), text, "doc.txt", classify.ContentProse)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	// The first window covers [0,500); the paragraph break inside it is the
	// preferred cut, so chunk 0 ends right after it.
	if chunks[0].Text != para1+"\n\n" {
		t.Errorf("chunk[0] did not end at paragraph break (len=%d)", chunks[0].Length)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("Determinism matters for caching. ", 100)
	s := newTestSplitter(t, 256, 32)

	first, err := s.Split(context.Background(), text, "doc.txt", classify.ContentProse)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	second, err := s.Split(context.Background(), text, "doc.txt", classify.ContentProse)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_CodeBoundaries(t *testing.T) {
	code := `package sample

func Add(a, b int) int {
	return a + b
}

func Sub(a, b int) int {
	return a - b
}

var trailing = 1
`
	s := newTestSplitter(t, 1000, 0)
	chunks, err := s.Split(context.Background(), code, "sample.go", classify.ContentCode)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	// Boundary lines: the two func definitions. Blocks: preamble, Add (with
	// trailing blank line), Sub plus the trailing var.
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if !strings.HasPrefix(chunks[1].Text, "func Add") {
		t.Errorf("chunk[1] = %q, want func Add block", chunks[1].Text)
	}
	if !strings.HasPrefix(chunks[2].Text, "func Sub") {
		t.Errorf("chunk[2] = %q, want func Sub block", chunks[2].Text)
	}

	// Code chunks partition the input exactly: no overlap, no gaps.
	var joined strings.Builder
	for _, c := range chunks {
		joined.WriteString(c.Text)
	}
	if joined.String() != code {
		t.Errorf("code chunks do not partition the input")
	}
}

func TestSplit_CodeOversizedBlock(t *testing.T) {
	var b strings.Builder
	b.WriteString("def big():\n")
	for i := 0; i < 100; i++ {
		b.WriteString("    x = x + 1  # repeated line to inflate the body\n")
	}
	code := b.String()

	const maxSize = 500
	s := newTestSplitter(t, maxSize, 0)
	chunks, err := s.Split(context.Background(), code, "big.py", classify.ContentCode)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("oversized block was not subdivided")
	}
	var joined strings.Builder
	for _, c := range chunks {
		if c.Length > maxSize {
			t.Errorf("chunk %d length %d exceeds max %d", c.ID, c.Length, maxSize)
		}
		joined.WriteString(c.Text)
	}
	if joined.String() != code {
		t.Errorf("code chunks do not partition the input")
	}
}

func TestNewSplitter_OverlapTooLarge(t *testing.T) {
	_, err := NewSplitter(map[classify.ContentType]Config{
		classify.ContentProse: {MaxChunkSize: 100, Overlap: 100},
	})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("got %v, want ErrConfiguration", err)
	}
}

func TestSplit_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	s := newTestSplitter(t, 100, 10)
	_, err := s.Split(ctx, strings.Repeat("z", 10_000), "doc.txt", classify.ContentProse)
	if !errors.Is(err, ErrDeadlineExceeded) {
		t.Fatalf("got %v, want ErrDeadlineExceeded", err)
	}
}
