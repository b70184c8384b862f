package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Collection is a named partition of the local key-value store.
type Collection string

const (
	Items      Collection = "items"
	Categories Collection = "categories"
	Presets    Collection = "presets"
)

// Collections lists every collection the store creates on open.
func Collections() []Collection {
	return []Collection{Items, Categories, Presets}
}

func (c Collection) Valid() bool {
	switch c {
	case Items, Categories, Presets:
		return true
	}
	return false
}

func ParseCollection(s string) (Collection, error) {
	c := Collection(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", unknownCollectionError{name: s}
	}
	return c, nil
}

var ErrEmptyKey = errors.New("empty key")

type unknownCollectionError struct {
	name string
}

func (e unknownCollectionError) Error() string {
	return fmt.Sprintf("unknown collection: %s", e.name)
}

// Engine is the raw per-collection key-value backend. Every method is one atomic
// unit against the underlying database; nothing spans calls.
type Engine interface {
	// GetAll returns every value in key order.
	GetAll(ctx context.Context, c Collection) ([][]byte, error)
	Get(ctx context.Context, c Collection, key string) ([]byte, bool, error)
	Put(ctx context.Context, c Collection, key string, value []byte) error
	// Delete removes key; a missing key is not an error.
	Delete(ctx context.Context, c Collection, key string) error
	Clear(ctx context.Context, c Collection) error
	Close() error
}

type EngineKind string

const (
	EngineSQLite EngineKind = "sqlite"
	EngineBolt   EngineKind = "bolt"
)

func ParseEngineKind(s string) (EngineKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(EngineSQLite):
		return EngineSQLite, nil
	case string(EngineBolt), "bbolt":
		return EngineBolt, nil
	default:
		return "", fmt.Errorf("unknown engine: %s (expected sqlite|bolt)", s)
	}
}

type Options struct {
	Dir    string
	Engine EngineKind
}

// Store wraps an Engine with JSON encoding and collection/key checks.
type Store struct {
	dir    string
	kind   EngineKind
	engine Engine
}

// Open creates dir if needed and opens the database file for the selected engine.
func Open(ctx context.Context, opts Options) (*Store, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, errors.New("store dir is required")
	}
	kind, err := ParseEngineKind(string(opts.Engine))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create store dir")
	}

	var e Engine
	switch kind {
	case EngineBolt:
		e, err = openBolt(ctx, filepath.Join(dir, "handla.bolt"))
	default:
		e, err = openSQLite(ctx, filepath.Join(dir, "handla.sqlite"))
	}
	if err != nil {
		return nil, err
	}
	zap.L().Debug("store opened", zap.String("dir", dir), zap.String("engine", string(kind)))
	return &Store{dir: dir, kind: kind, engine: e}, nil
}

// New wraps an already opened engine.
func New(e Engine) *Store {
	return &Store{engine: e}
}

func (s *Store) Dir() string            { return s.dir }
func (s *Store) EngineKind() EngineKind { return s.kind }

func (s *Store) Close() error {
	if s == nil || s.engine == nil {
		return nil
	}
	return s.engine.Close()
}

func checkArgs(c Collection, key string) error {
	if !c.Valid() {
		return unknownCollectionError{name: string(c)}
	}
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

// GetAll decodes every record in c. ok is false when the collection is empty;
// that is the empty signal, not an error.
func GetAll[T any](ctx context.Context, s *Store, c Collection) ([]T, bool, error) {
	if !c.Valid() {
		return nil, false, unknownCollectionError{name: string(c)}
	}
	raws, err := s.engine.GetAll(ctx, c)
	if err != nil {
		return nil, false, err
	}
	if len(raws) == 0 {
		return nil, false, nil
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := unmarshal(raw, &v); err != nil {
			return nil, false, errors.Wrapf(err, "decode %s record", c)
		}
		out = append(out, v)
	}
	return out, true, nil
}

// Get decodes the record stored under key. ok is false when the key is absent.
func Get[T any](ctx context.Context, s *Store, c Collection, key string) (T, bool, error) {
	var zero T
	if err := checkArgs(c, key); err != nil {
		return zero, false, err
	}
	raw, ok, err := s.engine.Get(ctx, c, key)
	if err != nil || !ok {
		return zero, false, err
	}
	var v T
	if err := unmarshal(raw, &v); err != nil {
		return zero, false, errors.Wrapf(err, "decode %s/%s", c, key)
	}
	return v, true, nil
}

func (s *Store) Put(ctx context.Context, c Collection, key string, record any) error {
	if err := checkArgs(c, key); err != nil {
		return err
	}
	raw, err := marshal(record)
	if err != nil {
		return errors.Wrapf(err, "encode %s/%s", c, key)
	}
	return s.engine.Put(ctx, c, key, raw)
}

func (s *Store) Delete(ctx context.Context, c Collection, key string) error {
	if err := checkArgs(c, key); err != nil {
		return err
	}
	return s.engine.Delete(ctx, c, key)
}

func (s *Store) Clear(ctx context.Context, c Collection) error {
	if !c.Valid() {
		return unknownCollectionError{name: string(c)}
	}
	return s.engine.Clear(ctx, c)
}
