package prompts

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartlearn-ai/smartlearn/internal/llm"
	"github.com/smartlearn-ai/smartlearn/internal/search"
)

func sampleResults() []search.Result {
	return []search.Result{
		{ChunkID: 0, SourceID: "bio/cells.md", Text: "Mitochondria produce ATP.", Score: 0.9},
		{ChunkID: 1, SourceID: "bio/energy.md", Text: "ATP stores chemical energy.", Score: 0.7},
	}
}

func TestBuilder_AssembleContext(t *testing.T) {
	b := NewBuilder(nil)
	out := b.AssembleContext(sampleResults())

	if !strings.Contains(out, "[Source: bio/cells.md]") || !strings.Contains(out, "Mitochondria produce ATP.") {
		t.Errorf("context missing first result: %q", out)
	}
	if !strings.Contains(out, "[Source: bio/energy.md]") {
		t.Errorf("context missing second result: %q", out)
	}
}

func TestBuilder_ContextBudgetTruncates(t *testing.T) {
	b := NewBuilder(nil)
	b.SetTokenBudget(15)

	results := []search.Result{
		{ChunkID: 0, SourceID: "a.md", Text: strings.Repeat("alpha ", 10)},
		{ChunkID: 1, SourceID: "b.md", Text: strings.Repeat("beta ", 10)},
	}
	out := b.AssembleContext(results)

	if !strings.Contains(out, "a.md") {
		t.Errorf("top-ranked result must survive truncation: %q", out)
	}
	if strings.Contains(out, "b.md") {
		t.Errorf("budget should have cut the second result: %q", out)
	}
}

func TestBuilder_AskIncludesQuestionAndProfile(t *testing.T) {
	profile := &StudyProfile{Subject: "Biology", Level: "undergraduate"}
	b := NewBuilder(profile)

	msgs := b.Ask("What do mitochondria do?", sampleResults())
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem {
		t.Errorf("first message role = %v, want system", msgs[0].Role)
	}

	user := msgs[1].Content
	for _, want := range []string{"What do mitochondria do?", "Biology", "undergraduate", "bio/cells.md"} {
		if !strings.Contains(user, want) {
			t.Errorf("user message missing %q", want)
		}
	}
}

func TestBuilder_StudyPlanAndQuizDefaults(t *testing.T) {
	b := NewBuilder(nil)

	plan := b.StudyPlan("photosynthesis", 0, sampleResults())
	if !strings.Contains(plan[1].Content, "7-day study plan") {
		t.Errorf("plan should default to 7 days: %q", plan[1].Content)
	}

	quiz := b.Quiz("photosynthesis", 0, sampleResults())
	if !strings.Contains(quiz[1].Content, "5 quiz questions") {
		t.Errorf("quiz should default to 5 questions: %q", quiz[1].Content)
	}
}

func TestStudyProfile_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")

	orig := &StudyProfile{Subject: "Chemistry", Goals: "pass finals"}
	if err := orig.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if loaded == nil || loaded.Subject != "Chemistry" || loaded.Goals != "pass finals" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadProfile_Missing(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p != nil {
		t.Errorf("got %+v, want nil for missing file", p)
	}
}
