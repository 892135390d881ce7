package keyword

import (
	"context"
	"testing"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The  Mitochondria is\tthe POWERHOUSE\nof the cell")
	want := []string{"the", "mitochondria", "is", "the", "powerhouse", "of", "the", "cell"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestIndex_SearchScoresDistinctTerms(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()

	err := ix.AddBatch(ctx, []Entry{
		{ChunkID: 0, SourceID: "bio.md", Text: "the cell membrane regulates transport"},
		{ChunkID: 1, SourceID: "bio.md", Text: "mitochondria produce energy for the cell"},
		{ChunkID: 2, SourceID: "chem.md", Text: "energy is conserved in chemical reactions"},
	})
	if err != nil {
		t.Fatalf("AddBatch: %v", err)
	}

	matches, err := ix.Search(ctx, "cell energy", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}

	// Chunk 1 contains both terms; chunks 0 and 2 contain one each and tie,
	// resolved by ascending chunk id.
	if matches[0].ChunkID != 1 || matches[0].Score != 2 {
		t.Errorf("top match = chunk %d score %v, want chunk 1 score 2", matches[0].ChunkID, matches[0].Score)
	}
	if matches[1].ChunkID != 0 || matches[2].ChunkID != 2 {
		t.Errorf("tie order = [%d %d], want [0 2]", matches[1].ChunkID, matches[2].ChunkID)
	}
}

func TestIndex_SearchCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()

	if err := ix.Add(ctx, Entry{ChunkID: 0, SourceID: "a.md", Text: "Photosynthesis converts LIGHT"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	matches, err := ix.Search(ctx, "photosynthesis light", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 || matches[0].Score != 2 {
		t.Errorf("got %+v, want one match with score 2", matches)
	}
}

func TestIndex_DuplicateQueryTermsCountOnce(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()

	if err := ix.Add(ctx, Entry{ChunkID: 0, SourceID: "a.md", Text: "osmosis"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	matches, err := ix.Search(ctx, "osmosis osmosis osmosis", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 || matches[0].Score != 1 {
		t.Errorf("got %+v, want score 1 for repeated term", matches)
	}
}

func TestIndex_NoMatchesAndEmptyQuery(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()

	if err := ix.Add(ctx, Entry{ChunkID: 0, SourceID: "a.md", Text: "glycolysis"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	matches, err := ix.Search(ctx, "thermodynamics", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("unmatched query returned %d matches", len(matches))
	}

	matches, err = ix.Search(ctx, "   ", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("blank query returned %d matches", len(matches))
	}
}

func TestIndex_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()

	if err := ix.Add(ctx, Entry{ChunkID: 0, SourceID: "a.md", Text: "meiosis"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Re-adding the chunk id replaces the old terms entirely.
	if err := ix.Add(ctx, Entry{ChunkID: 0, SourceID: "a.md", Text: "mitosis"}); err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	if ix.Count() != 1 {
		t.Fatalf("count = %d, want 1", ix.Count())
	}

	matches, err := ix.Search(ctx, "meiosis", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("stale term still matches after replacement")
	}

	if err := ix.DeleteBySource(ctx, "a.md"); err != nil {
		t.Fatalf("DeleteBySource: %v", err)
	}
	if ix.Count() != 0 {
		t.Errorf("count = %d after delete, want 0", ix.Count())
	}
}

func TestIndex_KLimit(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()

	entries := make([]Entry, 10)
	for i := range entries {
		entries[i] = Entry{ChunkID: i, SourceID: "a.md", Text: "entropy"}
	}
	if err := ix.AddBatch(ctx, entries); err != nil {
		t.Fatalf("AddBatch: %v", err)
	}

	matches, err := ix.Search(ctx, "entropy", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	for i, m := range matches {
		if m.ChunkID != i {
			t.Errorf("match %d = chunk %d, want %d", i, m.ChunkID, i)
		}
	}
}
