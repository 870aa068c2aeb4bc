package controller

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownControl is returned for a key that was never registered.
var ErrUnknownControl = errors.New("controller: unknown control")

// Controls is the host side of the binding: the named values OSC input
// drives and OSC output reports.
type Controls interface {
	// Valid reports whether key names a registered control.
	Valid(key ConfigKey) bool

	// Get returns the current value of a control.
	Get(key ConfigKey) (float64, error)

	// SetParameter sets a control and notifies its subscribers.
	SetParameter(key ConfigKey, v float64) error

	// Subscribe calls fn with the new value after every change of key. The
	// returned function cancels the subscription.
	Subscribe(key ConfigKey, fn func(float64)) (cancel func())
}

type control struct {
	value float64
	subs  map[int]func(float64)
}

// ControlTable is an in-memory Controls. It is safe for concurrent use.
// Subscribers run on the goroutine that changed the value, after the table's
// lock is released.
type ControlTable struct {
	mu       sync.RWMutex
	controls map[ConfigKey]*control
	nextSub  int
}

// NewControlTable returns a table holding the given controls, all at 0.
func NewControlTable(keys ...ConfigKey) *ControlTable {
	t := &ControlTable{controls: make(map[ConfigKey]*control)}
	for _, k := range keys {
		t.Register(k)
	}
	return t
}

// Register adds a control at 0. Registering a known key is a no-op.
func (t *ControlTable) Register(key ConfigKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.controls[key]; !ok {
		t.controls[key] = &control{subs: make(map[int]func(float64))}
	}
}

func (t *ControlTable) Valid(key ConfigKey) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.controls[key]
	return ok
}

func (t *ControlTable) Get(key ConfigKey) (float64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.controls[key]
	if !ok {
		return 0, fmt.Errorf("Get: %s: %w", key, ErrUnknownControl)
	}
	return c.value, nil
}

func (t *ControlTable) SetParameter(key ConfigKey, v float64) error {
	t.mu.Lock()
	c, ok := t.controls[key]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("SetParameter: %s: %w", key, ErrUnknownControl)
	}
	c.value = v
	subs := make([]func(float64), 0, len(c.subs))
	for _, id := range sortedIDs(c.subs) {
		subs = append(subs, c.subs[id])
	}
	t.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
	return nil
}

func (t *ControlTable) Subscribe(key ConfigKey, fn func(float64)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.controls[key]
	if !ok {
		return func() {}
	}

	id := t.nextSub
	t.nextSub++
	c.subs[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(c.subs, id)
	}
}

// Keys returns every registered key, sorted.
func (t *ControlTable) Keys() []ConfigKey {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]ConfigKey, 0, len(t.controls))
	for k := range t.controls {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b ConfigKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}

// sortedIDs keeps notification in subscription order.
func sortedIDs(subs map[int]func(float64)) []int {
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
