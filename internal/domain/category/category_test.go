package category_test

import (
	"errors"
	"testing"

	"github.com/careerprep/backend/internal/domain/category"
)

func TestParse(t *testing.T) {
	cases := map[string]category.Category{
		"soft-skills": category.SoftSkills,
		"Technical":   category.Technical,
		" general ":   category.General,
	}

	for in, want := range cases {
		got, err := category.Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := category.Parse("leadership")
	if !errors.Is(err, category.ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestParseOptional_Empty(t *testing.T) {
	got, err := category.ParseOptional("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil category, got %q", *got)
	}
}

func TestAll_AreValid(t *testing.T) {
	for _, c := range category.All() {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
}
