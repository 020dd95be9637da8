// Package store owns the editable palette state: the family table, the
// user-edited base colors and the foreground overrides.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/utils"
)

// EventKind identifies what changed.
type EventKind string

const (
	EventLoaded           EventKind = "loaded"
	EventFamiliesReloaded EventKind = "families"
	EventBaseChanged      EventKind = "base"
	EventOverrideChanged  EventKind = "override"
	EventOverridesReset   EventKind = "overrides-reset"
)

// Event is emitted once after every successful mutation.
type Event struct {
	Kind   EventKind
	Family string
	Key    palette.OverrideKey
	At     time.Time
}

// Persister saves palette edits across restarts.
type Persister interface {
	LoadOverrides() (palette.Overrides, error)
	SaveOverride(key palette.OverrideKey, ov palette.Override) error
	DeleteOverride(key palette.OverrideKey) error
	DeleteOverrides() error
	LoadBases() (map[string]palette.HSL, error)
	SaveBase(family string, hsl palette.HSL) error
	DeleteBase(family string) error
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	families  []palette.Family
	bases     map[string]palette.HSL
	overrides palette.Overrides
	persist   Persister

	listenerMu sync.Mutex
	listeners  map[int]func(Event)
	nextID     int

	now func() time.Time
}

// New creates a store over the configured families. A nil persister keeps
// everything in memory.
func New(families []palette.Family, p Persister) *Store {
	if len(families) == 0 {
		families = palette.DefaultFamilies()
	}
	return &Store{
		families:  append([]palette.Family(nil), families...),
		bases:     make(map[string]palette.HSL),
		overrides: make(palette.Overrides),
		persist:   p,
		listeners: make(map[int]func(Event)),
		now:       time.Now,
	}
}

// Load replaces in-memory edits with the persisted ones. Rows for families
// that are not configured, or with out-of-range values, are dropped.
func (s *Store) Load() error {
	if s.persist == nil {
		return nil
	}
	overrides, err := s.persist.LoadOverrides()
	if err != nil {
		return fmt.Errorf("load overrides: %w", err)
	}
	bases, err := s.persist.LoadBases()
	if err != nil {
		return fmt.Errorf("load base colors: %w", err)
	}

	s.mu.Lock()
	s.overrides = make(palette.Overrides, len(overrides))
	for k, ov := range overrides {
		if !s.knownLocked(k.Family) || !ov.Valid() {
			utils.Debug("store: skipping override %s", k)
			continue
		}
		s.overrides[k] = ov
	}
	s.bases = make(map[string]palette.HSL, len(bases))
	for id, hsl := range bases {
		if !s.knownLocked(id) {
			utils.Debug("store: skipping base color for %q", id)
			continue
		}
		s.bases[id] = palette.Clamp(hsl)
	}
	s.mu.Unlock()

	s.emit(Event{Kind: EventLoaded, At: s.now()})
	return nil
}

func (s *Store) knownLocked(id string) bool {
	for _, f := range s.families {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Families returns the effective families, base edits applied.
func (s *Store) Families() []palette.Family {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]palette.Family, len(s.families))
	for i, f := range s.families {
		if hsl, ok := s.bases[f.ID]; ok {
			f.HSL = hsl
		}
		out[i] = f
	}
	return out
}

// Family returns one effective family.
func (s *Store) Family(id string) (palette.Family, error) {
	return palette.FindFamily(s.Families(), id)
}

// Defaults returns the configured families without base edits.
func (s *Store) Defaults() []palette.Family {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]palette.Family(nil), s.families...)
}

// Edited reports whether a family carries a base edit.
func (s *Store) Edited(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bases[id]
	return ok
}

// Overrides returns a copy of the override map.
func (s *Store) Overrides() palette.Overrides {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overrides.Clone()
}

// Tree generates every family with current edits and overrides.
func (s *Store) Tree() palette.Tree {
	families := s.Families()
	return palette.GenerateAll(families, s.Overrides())
}

// RecordOverride stores an override and persists it.
func (s *Store) RecordOverride(key palette.OverrideKey, ov palette.Override) error {
	if !ov.Valid() {
		return fmt.Errorf("override %s: lightness out of range", key)
	}
	if ov.Updated.IsZero() {
		ov.Updated = s.now()
	}

	s.mu.Lock()
	if !s.knownLocked(key.Family) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", palette.ErrUnknownFamily, key.Family)
	}
	if s.persist != nil {
		if err := s.persist.SaveOverride(key, ov); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("save override %s: %w", key, err)
		}
	}
	s.overrides[key] = ov
	s.mu.Unlock()

	s.emit(Event{Kind: EventOverrideChanged, Family: key.Family, Key: key, At: ov.Updated})
	return nil
}

// DeleteOverride removes one override. Removing a missing key is not an error.
func (s *Store) DeleteOverride(key palette.OverrideKey) error {
	s.mu.Lock()
	if _, ok := s.overrides[key]; !ok {
		s.mu.Unlock()
		return nil
	}
	if s.persist != nil {
		if err := s.persist.DeleteOverride(key); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("delete override %s: %w", key, err)
		}
	}
	delete(s.overrides, key)
	s.mu.Unlock()

	s.emit(Event{Kind: EventOverrideChanged, Family: key.Family, Key: key, At: s.now()})
	return nil
}

// ResetOverrides drops every override.
func (s *Store) ResetOverrides() error {
	s.mu.Lock()
	if s.persist != nil {
		if err := s.persist.DeleteOverrides(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("reset overrides: %w", err)
		}
	}
	s.overrides = make(palette.Overrides)
	s.mu.Unlock()

	s.emit(Event{Kind: EventOverridesReset, At: s.now()})
	return nil
}

// SetBase edits a family's base color. Values are clamped to their ranges.
func (s *Store) SetBase(id string, hsl palette.HSL) (palette.Family, error) {
	f, err := palette.FindFamily(s.Defaults(), id)
	if err != nil {
		return palette.Family{}, err
	}
	hsl = palette.Clamp(hsl)

	s.mu.Lock()
	if s.persist != nil {
		if err := s.persist.SaveBase(f.ID, hsl); err != nil {
			s.mu.Unlock()
			return palette.Family{}, fmt.Errorf("save base color %s: %w", f.ID, err)
		}
	}
	s.bases[f.ID] = hsl
	s.mu.Unlock()

	f.HSL = hsl
	s.emit(Event{Kind: EventBaseChanged, Family: f.ID, At: s.now()})
	return f, nil
}

// ResetBase restores a family's configured base color.
func (s *Store) ResetBase(id string) (palette.Family, error) {
	f, err := palette.FindFamily(s.Defaults(), id)
	if err != nil {
		return palette.Family{}, err
	}

	s.mu.Lock()
	if _, ok := s.bases[f.ID]; !ok {
		s.mu.Unlock()
		return f, nil
	}
	if s.persist != nil {
		if err := s.persist.DeleteBase(f.ID); err != nil {
			s.mu.Unlock()
			return palette.Family{}, fmt.Errorf("delete base color %s: %w", f.ID, err)
		}
	}
	delete(s.bases, f.ID)
	s.mu.Unlock()

	s.emit(Event{Kind: EventBaseChanged, Family: f.ID, At: s.now()})
	return f, nil
}

// SetFamilies swaps the configured family table, e.g. after a settings
// reload. Edits for families that disappear are kept in storage but hidden.
func (s *Store) SetFamilies(families []palette.Family) {
	if len(families) == 0 {
		families = palette.DefaultFamilies()
	}
	s.mu.Lock()
	s.families = append([]palette.Family(nil), families...)
	s.mu.Unlock()

	s.emit(Event{Kind: EventFamiliesReloaded, At: s.now()})
}

// Subscribe registers fn for change events. Listeners run synchronously on
// the mutating goroutine and must not call back into mutating methods.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenerMu.Lock()
			delete(s.listeners, id)
			s.listenerMu.Unlock()
		})
	}
}

func (s *Store) emit(ev Event) {
	s.listenerMu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
