package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"handla-cli/internal/model"
)

func TestPrinter_Data(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		p    Printer
		meta map[string]any
		want string
	}{
		{name: "default", p: Printer{}, want: "{\"data\":[1,2]}\n"},
		{name: "empty meta", p: Printer{Format: "json"}, meta: map[string]any{}, want: "{\"data\":[1,2]}\n"},
		{name: "meta", p: Printer{Format: "json"}, meta: map[string]any{"found": true}, want: "{\"data\":[1,2],\"meta\":{\"found\":true}}\n"},
		{name: "pretty", p: Printer{Pretty: true}, want: "{\n  \"data\": [\n    1,\n    2\n  ]\n}\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := tt.p.Data(&buf, []int{1, 2}, tt.meta); err != nil {
			t.Fatalf("%s: Data: %v", tt.name, err)
		}
		if got := buf.String(); got != tt.want {
			t.Fatalf("%s: got %q; want %q", tt.name, got, tt.want)
		}
	}

	var unknown UnknownFormatError
	if err := (Printer{Format: "edn"}).Data(&bytes.Buffer{}, 1, nil); !errors.As(err, &unknown) || unknown.Format != "edn" {
		t.Fatalf("expected UnknownFormatError; got %v", err)
	}
}

func TestPrinter_CSVDropsEnvelope(t *testing.T) {
	t.Parallel()
	preset := model.NewPreset("Helg", []model.Product{{Name: "Te", ID: 1, Amount: 1}})
	var buf bytes.Buffer
	if err := (Printer{Format: "csv"}).Data(&buf, preset, map[string]any{"found": true}); err != nil {
		t.Fatalf("Data: %v", err)
	}
	want := "position,name,category,amount,completed,details,has_image\n1,Te,,1,false,,false\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q; want %q", got, want)
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()
	products := []model.Product{
		{Name: "Ost", ID: 1, Amount: 2, CategoryKey: model.CategoryDairy, Details: "Port salut, 750g"},
		{Name: "Te", ID: 2, Amount: 1, IsCompleted: true},
	}
	var buf bytes.Buffer
	if err := (Printer{Format: "csv"}).Raw(&buf, products); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows; got %q", buf.String())
	}
	if lines[0] != "position,name,category,amount,completed,details,has_image" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != `1,Ost,Mejeri & Ost,2,false,"Port salut, 750g",false` {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if lines[2] != "2,Te,,1,true,,false" {
		t.Fatalf("unexpected row: %q", lines[2])
	}

	if err := WriteCSV(&buf, map[string]any{"data": 1}); !errors.Is(err, ErrNotTabular) {
		t.Fatalf("expected ErrNotTabular; got %v", err)
	}
}
