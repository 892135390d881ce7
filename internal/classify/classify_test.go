package classify

import "testing"

func TestDetect_Code(t *testing.T) {
	samples := []string{
		"package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n",
		"def add(a, b):\n    return a + b\n",
		"import os\n\nclass Loader:\n    pass\n",
		"#include <stdio.h>\nint main(void) { return 0; }\n",
	}

	c := New(DefaultOptions())
	for _, s := range samples {
		if got := c.Detect(s); got != ContentCode {
			t.Errorf("Detect(%q) = %s, want code", s[:20], got)
		}
	}
}

func TestDetect_Structured(t *testing.T) {
	text := "# Linear Algebra\n\nVectors and matrices.\n\n## Eigenvalues\n\nAn eigenvalue satisfies Av = lv.\n\n## Determinants\n\nThe determinant measures volume scaling.\n"

	c := New(DefaultOptions())
	if got := c.Detect(text); got != ContentStructured {
		t.Errorf("Detect = %s, want structured", got)
	}
}

func TestDetect_SetextHeadings(t *testing.T) {
	text := "Calculus Notes\n==============\n\nDerivatives measure rates of change.\n\nIntegrals\n---------\n\nIntegrals accumulate quantities.\n"

	c := New(DefaultOptions())
	if got := c.Detect(text); got != ContentStructured {
		t.Errorf("Detect = %s, want structured", got)
	}
}

func TestDetect_Prose(t *testing.T) {
	text := "Photosynthesis is the process by which plants convert light into chemical energy. " +
		"It occurs in the chloroplasts and produces oxygen as a byproduct. " +
		"The light-dependent reactions capture energy while the Calvin cycle fixes carbon."

	c := New(DefaultOptions())
	if got := c.Detect(text); got != ContentProse {
		t.Errorf("Detect = %s, want prose", got)
	}
}

func TestDetect_EmptyInput(t *testing.T) {
	c := New(DefaultOptions())
	if got := c.Detect(""); got != ContentProse {
		t.Errorf("Detect(\"\") = %s, want prose", got)
	}
	if got := c.Detect("   \n\t\n"); got != ContentProse {
		t.Errorf("Detect(whitespace) = %s, want prose", got)
	}
}

func TestDetect_ThresholdsAreTunable(t *testing.T) {
	// A single "import " mention in prose classifies as code with the
	// default threshold of 1, but not with a stricter threshold.
	text := "The import of foreign goods rose sharply last year according to the report."

	loose := New(DefaultOptions())
	if got := loose.Detect(text); got != ContentCode {
		t.Fatalf("loose Detect = %s, want code (reference behaviour)", got)
	}

	strict := New(Options{MinCodeMarkers: 3, MinHeadingDensity: 0.05})
	if got := strict.Detect(text); got != ContentProse {
		t.Errorf("strict Detect = %s, want prose", got)
	}
}

func TestDetect_HeadingDensityBelowThreshold(t *testing.T) {
	// One heading over many lines of prose stays prose.
	text := "# Title\n"
	for i := 0; i < 40; i++ {
		text += "A long paragraph line about the migration patterns of arctic terns.\n"
	}

	c := New(DefaultOptions())
	if got := c.Detect(text); got != ContentProse {
		t.Errorf("Detect = %s, want prose", got)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	c := New(DefaultOptions())
	text := "## Heading\nBody text here.\n## Another\nMore body.\n"
	first := c.Detect(text)
	for i := 0; i < 5; i++ {
		if got := c.Detect(text); got != first {
			t.Fatalf("Detect not deterministic: %s != %s", got, first)
		}
	}
}
