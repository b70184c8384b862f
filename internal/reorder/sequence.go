// Package reorder holds the in-memory working order of a list while the user drags
// items around, and commits it back to the store with re-derived positions.
package reorder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

type State int

const (
	// Clean: nothing pending.
	Clean State = iota
	// Dirty: at least one item moved since the last commit.
	Dirty
	// Selected: the working order was replaced wholesale (preset applied).
	Selected
)

func (s State) String() string {
	switch s {
	case Dirty:
		return "dirty"
	case Selected:
		return "selected"
	default:
		return "clean"
	}
}

var (
	ErrNotDirty    = errors.New("nothing to commit: order is unchanged")
	ErrUpdateOrder = errors.New("failed to update order")
	ErrOutOfRange  = errors.New("position out of range")
)

type UnknownIDError struct {
	ID int
}

func (e UnknownIDError) Error() string {
	return fmt.Sprintf("no item with id %d in the working order", e.ID)
}

// DragEvent is a drag-end notification. Active and Over are the transient ids the drag
// source attached to the dragged element and the element it was dropped on; they may be
// ints, numeric strings or floats. A nil Over means the drop landed outside the list.
type DragEvent struct {
	Active any
	Over   any
}

// Accessor tells a Sequence how to read and re-derive the integer position id of T
// and how to copy T.
type Accessor[T any] struct {
	ID     func(T) int
	WithID func(T, int) T
	Clone  func(T) T
}

// CommitFunc persists a re-indexed sequence. It is called with ids already set to position+1.
type CommitFunc[T any] func(ctx context.Context, items []T) error

type Sequence[T any] struct {
	items  []T
	state  State
	acc    Accessor[T]
	commit CommitFunc[T]
}

// NewSequence orders items by their current id (stable; items without an id go last)
// and starts clean.
func NewSequence[T any](items []T, acc Accessor[T], commit CommitFunc[T]) *Sequence[T] {
	s := &Sequence[T]{acc: acc, commit: commit}
	s.items = s.cloneAll(items)
	sort.SliceStable(s.items, func(i, j int) bool {
		a, b := acc.ID(s.items[i]), acc.ID(s.items[j])
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
	s.normalizeIDs()
	return s
}

func (s *Sequence[T]) cloneAll(in []T) []T {
	out := make([]T, len(in))
	for i := range in {
		out[i] = s.acc.Clone(in[i])
	}
	return out
}

// normalizeIDs gives every element a unique non-zero id so drag ids can be matched back
// to positions. It only touches the working copy; nothing is written until Commit.
func (s *Sequence[T]) normalizeIDs() {
	seen := map[int]bool{}
	ok := true
	for _, it := range s.items {
		id := s.acc.ID(it)
		if id <= 0 || seen[id] {
			ok = false
			break
		}
		seen[id] = true
	}
	if ok {
		return
	}
	for i := range s.items {
		s.items[i] = s.acc.WithID(s.items[i], i+1)
	}
}

// Items returns a copy of the working order.
func (s *Sequence[T]) Items() []T { return s.cloneAll(s.items) }

func (s *Sequence[T]) Len() int { return len(s.items) }

func (s *Sequence[T]) State() State { return s.state }

// Pending reports whether Commit is permitted.
func (s *Sequence[T]) Pending() bool { return s.state != Clean }

func (s *Sequence[T]) indexOf(id int) int {
	for i, it := range s.items {
		if s.acc.ID(it) == id {
			return i
		}
	}
	return -1
}

// DragEnd applies a drag-end event. The event's ids are matched to positions by looking up
// the element carrying that id, never by treating them as indices.
func (s *Sequence[T]) DragEnd(ev DragEvent) (bool, error) {
	if ev.Over == nil || ev.Over == "" {
		return false, nil
	}
	activeID, err := dragID(ev.Active)
	if err != nil {
		return false, fmt.Errorf("drag active id: %w", err)
	}
	overID, err := dragID(ev.Over)
	if err != nil {
		return false, fmt.Errorf("drag over id: %w", err)
	}
	if activeID == overID {
		return false, nil
	}
	from := s.indexOf(activeID)
	if from < 0 {
		return false, UnknownIDError{ID: activeID}
	}
	to := s.indexOf(overID)
	if to < 0 {
		return false, UnknownIDError{ID: overID}
	}
	return s.Move(from, to)
}

// dragID coerces a drag id to an int. Strings are read as decimal, so "010" is 10;
// integral decimals such as "3.0" are accepted too.
func dragID(v any) (int, error) {
	s, ok := v.(string)
	if !ok {
		return cast.ToIntE(v)
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer id: %q", s)
	}
	return int(f), nil
}

// Move moves the element at index from to index to. Moving to the same index is a no-op.
func (s *Sequence[T]) Move(from, to int) (bool, error) {
	if from < 0 || from >= len(s.items) || to < 0 || to >= len(s.items) {
		return false, ErrOutOfRange
	}
	if from == to {
		return false, nil
	}
	s.items = ArrayMove(s.items, from, to)
	s.state = Dirty
	return true, nil
}

// Apply replaces the working order wholesale and marks it selected, so the normal commit
// path persists it.
func (s *Sequence[T]) Apply(items []T) {
	s.items = s.cloneAll(items)
	s.normalizeIDs()
	s.state = Selected
}

// Reset replaces the working order with items and discards any pending change.
func (s *Sequence[T]) Reset(items []T) {
	fresh := NewSequence(items, s.acc, s.commit)
	s.items = fresh.items
	s.state = Clean
}

// Commit re-derives every id as position+1 and persists the whole sequence.
// Committing with nothing pending is a usage error. On failure the pending state is kept.
func (s *Sequence[T]) Commit(ctx context.Context) error {
	if s.state == Clean {
		return ErrNotDirty
	}
	next := Reindex(s.items, s.acc)
	if s.commit != nil {
		if err := s.commit(ctx, next); err != nil {
			return err
		}
	}
	s.items = next
	s.state = Clean
	return nil
}

// Reindex returns copies of items with id = position+1.
func Reindex[T any](items []T, acc Accessor[T]) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = acc.WithID(acc.Clone(it), i+1)
	}
	return out
}

// ArrayMove returns a new slice with the element at from removed and re-inserted at to.
func ArrayMove[T any](in []T, from, to int) []T {
	out := make([]T, 0, len(in))
	out = append(out, in[:from]...)
	out = append(out, in[from+1:]...)
	moved := in[from]
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out
}
