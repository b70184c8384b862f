package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()
	want := []Topic{
		{Name: "keys", Title: "TUI keys"},
		{Name: "ordering", Title: "Ordering"},
		{Name: "presets", Title: "Presets"},
	}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v; want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()
	md, ok := Get(" Presets ")
	if !ok || !strings.HasPrefix(md, "# Presets") {
		t.Fatalf("Get(presets) = %q, %v", md, ok)
	}
	for _, name := range []string{"", "../docs", "content/keys", "keys.md"} {
		if _, ok := Get(name); ok {
			t.Fatalf("Get(%q): expected unknown topic", name)
		}
	}
}

func TestTitle_FallsBackToName(t *testing.T) {
	t.Parallel()
	if got := title("no heading here\n## sub", "misc"); got != "misc" {
		t.Fatalf("title = %q", got)
	}
	if got := title("\n#  Spaced  \nbody", "x"); got != "Spaced" {
		t.Fatalf("title = %q", got)
	}
}
