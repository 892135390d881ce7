// Package prompts builds LLM prompts for grounded answers, study plans, and
// quizzes from retrieved chunks, optionally enriched with a learner profile.
package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// StudyProfile holds optional learner-level context provided by the user. It
// is injected into prompts so generated answers match the learner's level
// and goals.
type StudyProfile struct {
	Subject    string `json:"subject,omitempty"`
	Level      string `json:"level,omitempty"`
	Goals      string `json:"goals,omitempty"`
	WeakAreas  string `json:"weak_areas,omitempty"`
	Additional string `json:"additional,omitempty"`
}

// LoadProfile reads a StudyProfile from a JSON file. Returns nil and no
// error if the file does not exist or is empty.
func LoadProfile(path string) (*StudyProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var p StudyProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile file: %w", err)
	}

	if p.IsEmpty() {
		return nil, nil
	}
	return &p, nil
}

// Save writes the StudyProfile to a JSON file, creating parent directories
// as needed.
func (p *StudyProfile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile file: %w", err)
	}
	return nil
}

// IsEmpty returns true if no fields are populated.
func (p *StudyProfile) IsEmpty() bool {
	return p.Subject == "" &&
		p.Level == "" &&
		p.Goals == "" &&
		p.WeakAreas == "" &&
		p.Additional == ""
}

// ToPromptSection formats the profile as a text block suitable for injection
// into an LLM prompt.
func (p *StudyProfile) ToPromptSection() string {
	if p.IsEmpty() {
		return ""
	}

	var b strings.Builder
	if p.Subject != "" {
		fmt.Fprintf(&b, "Subject of study: %s\n", p.Subject)
	}
	if p.Level != "" {
		fmt.Fprintf(&b, "Learner level: %s\n", p.Level)
	}
	if p.Goals != "" {
		fmt.Fprintf(&b, "Learning goals: %s\n", p.Goals)
	}
	if p.WeakAreas != "" {
		fmt.Fprintf(&b, "Areas needing extra attention: %s\n", p.WeakAreas)
	}
	if p.Additional != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", p.Additional)
	}
	return b.String()
}

// CollectInteractive runs an interactive prompt session to gather a study
// profile. All questions are optional; pressing Enter skips them.
func CollectInteractive() (*StudyProfile, error) {
	fmt.Println("Provide optional study context to improve generated answers.")
	fmt.Println("Press Enter to skip any question.")
	fmt.Println()

	p := &StudyProfile{}

	subject, err := askOptional("What subject are you studying?")
	if err != nil {
		return nil, fmt.Errorf("subject prompt: %w", err)
	}
	p.Subject = subject

	level, err := askOptional("What is your current level (e.g. undergraduate, self-taught)?")
	if err != nil {
		return nil, fmt.Errorf("level prompt: %w", err)
	}
	p.Level = level

	goals, err := askOptional("What are your learning goals?")
	if err != nil {
		return nil, fmt.Errorf("goals prompt: %w", err)
	}
	p.Goals = goals

	weakAreas, err := askOptional("Any topics you find difficult?")
	if err != nil {
		return nil, fmt.Errorf("weak areas prompt: %w", err)
	}
	p.WeakAreas = weakAreas

	additional, err := askOptional("Any additional context?")
	if err != nil {
		return nil, fmt.Errorf("additional prompt: %w", err)
	}
	p.Additional = additional

	return p, nil
}

// askOptional displays a prompt and returns the user's input. An empty
// string is returned if the user presses Enter without typing anything.
func askOptional(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   "",
		AllowEdit: true,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return result, nil
}
