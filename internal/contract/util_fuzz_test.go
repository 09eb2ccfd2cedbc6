package contract

import (
	"strings"
	"testing"
)

// FuzzSplitList fuzzes SplitList with random comma-separated lists.
func FuzzSplitList(f *testing.F) {
	seeds := []string{
		"JavaScript,Python,Java",
		" C++ , PHP ,, Ruby ",
		",,,",
		"",
		"#3498db,#2ecc71",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		for _, item := range SplitList(s) {
			if item == "" || strings.Contains(item, ",") || strings.TrimSpace(item) != item {
				t.Fatalf("unexpected item %q from %q", item, s)
			}
		}
	})
}

// FuzzParseBoolString fuzzes ParseBoolString to make sure it never panics.
func FuzzParseBoolString(f *testing.F) {
	for _, seed := range []string{"yes", "No", "TRUE", "0", "maybe", ""} {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, s string) {
		_, _ = ParseBoolString(s)
	})
}
