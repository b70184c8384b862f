package format

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the JSON shape of every command result.
type Envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

type UnknownFormatError struct {
	Format string
}

func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format: %s (expected json|csv)", e.Format)
}

// Printer writes command results as json (the default) or csv.
type Printer struct {
	Format string
	Pretty bool
}

func (p Printer) csv() (bool, error) {
	switch p.Format {
	case "", "json":
		return false, nil
	case "csv":
		return true, nil
	}
	return false, UnknownFormatError{Format: p.Format}
}

// Data writes data wrapped in an Envelope. CSV has no envelope: data is written as rows
// and meta is dropped.
func (p Printer) Data(w io.Writer, data any, meta map[string]any) error {
	csv, err := p.csv()
	if err != nil {
		return err
	}
	if csv {
		return WriteCSV(w, data)
	}
	if len(meta) == 0 {
		meta = nil
	}
	return WriteJSON(w, Envelope{Data: data, Meta: meta}, p.Pretty)
}

// Raw writes v as is: JSON without an envelope, or CSV rows.
func (p Printer) Raw(w io.Writer, v any) error {
	csv, err := p.csv()
	if err != nil {
		return err
	}
	if csv {
		return WriteCSV(w, v)
	}
	return WriteJSON(w, v, p.Pretty)
}

// WriteJSON writes v followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	marshal := json.Marshal
	if pretty {
		marshal = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	}
	b, err := marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
