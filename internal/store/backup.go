package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"handla-cli/internal/model"
)

// BackupRecord is one line of a JSONL backup: a raw record and the collection it came from.
type BackupRecord struct {
	Collection Collection          `json:"collection"`
	Value      jsoniter.RawMessage `json:"value"`
}

// recordKey decodes raw as a record of collection c, validates it and returns its key.
func recordKey(c Collection, raw []byte) (string, error) {
	var (
		name string
		err  error
	)
	switch c {
	case Items:
		var p model.Product
		if err := unmarshal(raw, &p); err != nil {
			return "", err
		}
		name, err = p.Name, model.ValidateProduct(p)
	case Categories:
		var cat model.Category
		if err := unmarshal(raw, &cat); err != nil {
			return "", err
		}
		name, err = string(cat.Name), model.ValidateCategoryKey(cat.Name)
	case Presets:
		var p model.Preset
		if err := unmarshal(raw, &p); err != nil {
			return "", err
		}
		name, err = p.Name, model.ValidatePresetName(p.Name)
		for _, prod := range p.Data {
			if err != nil {
				break
			}
			err = model.ValidateProduct(prod)
		}
	default:
		return "", unknownCollectionError{name: string(c)}
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyKey
	}
	return name, nil
}

// FilterRecords keeps the records of the given collections. No collections keeps everything.
func FilterRecords(recs []BackupRecord, only ...Collection) []BackupRecord {
	if len(only) == 0 {
		return recs
	}
	keep := map[Collection]bool{}
	for _, c := range only {
		keep[c] = true
	}
	out := make([]BackupRecord, 0, len(recs))
	for _, r := range recs {
		if keep[r.Collection] {
			out = append(out, r)
		}
	}
	return out
}

// Dump returns every record of every collection, collection by collection in key order.
func (s *Store) Dump(ctx context.Context) ([]BackupRecord, error) {
	var out []BackupRecord
	for _, c := range Collections() {
		raws, err := s.engine.GetAll(ctx, c)
		if err != nil {
			return nil, errors.Wrapf(err, "dump %s", c)
		}
		for _, raw := range raws {
			out = append(out, BackupRecord{Collection: c, Value: append(jsoniter.RawMessage(nil), raw...)})
		}
	}
	return out, nil
}

// Restore writes recs back. With replace, every collection present in recs is cleared first.
// Records are decoded and validated before anything is written.
func (s *Store) Restore(ctx context.Context, recs []BackupRecord, replace bool) error {
	keys := make([]string, len(recs))
	seen := map[Collection]bool{}
	for i, r := range recs {
		k, err := recordKey(r.Collection, r.Value)
		if err != nil {
			return errors.Wrapf(err, "backup line %d", i+1)
		}
		keys[i] = k
		seen[r.Collection] = true
	}
	if replace {
		for _, c := range Collections() {
			if !seen[c] {
				continue
			}
			if err := s.engine.Clear(ctx, c); err != nil {
				return errors.Wrapf(err, "clear %s", c)
			}
		}
	}
	for i, r := range recs {
		if err := s.engine.Put(ctx, r.Collection, keys[i], r.Value); err != nil {
			return errors.Wrapf(err, "restore %s/%s", r.Collection, keys[i])
		}
	}
	return nil
}

func WriteBackupJSONL(path string, recs []BackupRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range recs {
		b, err := marshal(r)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func ReadBackupJSONL(path string) ([]BackupRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []BackupRecord
	sc := bufio.NewScanner(f)
	// Records may carry inline images.
	sc.Buffer(make([]byte, 0, 64*1024), 8<<20)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(strings.TrimSpace(string(b))) == 0 {
			continue
		}
		var r BackupRecord
		if err := unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
