// Package memory backs the repositories when no database is configured.
// Rows are copied on the way in and on the way out, so callers only ever
// see snapshots.
package memory

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrDuplicate = errors.New("duplicate key")

// Table is an insertion-ordered, mutex guarded row set.
type Table[T any] struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]T
	order []uuid.UUID
	clone func(T) T
}

func NewTable[T any](clone func(T) T) *Table[T] {
	return &Table[T]{
		rows:  make(map[uuid.UUID]T),
		clone: clone,
	}
}

func (t *Table[T]) Insert(id uuid.UUID, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; ok {
		return ErrDuplicate
	}
	t.rows[id] = t.clone(row)
	t.order = append(t.order, id)
	return nil
}

func (t *Table[T]) Get(id uuid.UUID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(row), true
}

// Replace overwrites an existing row. It reports false if id is unknown.
func (t *Table[T]) Replace(id uuid.UUID, row T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = t.clone(row)
	return true
}

func (t *Table[T]) Delete(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Select returns copies of the rows matching keep, in insertion order.
// A nil keep selects everything.
func (t *Table[T]) Select(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

// First returns the first row matching keep.
func (t *Table[T]) First(keep func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, id := range t.order {
		if row := t.rows[id]; keep(row) {
			return t.clone(row), true
		}
	}
	var zero T
	return zero, false
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// CloneMap deep copies decoded JSON.
func CloneMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return CloneMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return val
	}
}
