// Package testutil holds helpers shared by package tests.
package testutil

import (
	"sync"
	"testing"

	"github.com/tonekit/tonekit/internal/config"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/state"
)

// Isolate points every tonekit path at a fresh temp dir, creates the
// directories and configures the state database there. It returns the dir.
func Isolate(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)
	if err := config.EnsureDirs(); err != nil {
		t.Fatalf("create config dirs: %v", err)
	}

	state.CloseDB()
	state.Configure(config.GetDBPath())
	t.Cleanup(state.CloseDB)
	return dir
}

// MemPersister keeps overrides and base edits in memory. A non-nil Err is
// returned by every call and blocks writes.
type MemPersister struct {
	mu        sync.Mutex
	Overrides palette.Overrides
	Bases     map[string]palette.HSL
	Err       error
}

func NewMemPersister() *MemPersister {
	return &MemPersister{Overrides: palette.Overrides{}, Bases: map[string]palette.HSL{}}
}

func (m *MemPersister) LoadOverrides() (palette.Overrides, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Overrides.Clone(), m.Err
}

func (m *MemPersister) SaveOverride(k palette.OverrideKey, ov palette.Override) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Overrides[k] = ov
	return nil
}

func (m *MemPersister) DeleteOverride(k palette.OverrideKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Overrides, k)
	return nil
}

func (m *MemPersister) DeleteOverrides() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Overrides = palette.Overrides{}
	return nil
}

func (m *MemPersister) LoadBases() (map[string]palette.HSL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]palette.HSL, len(m.Bases))
	for k, v := range m.Bases {
		out[k] = v
	}
	return out, m.Err
}

func (m *MemPersister) SaveBase(id string, hsl palette.HSL) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Bases[id] = hsl
	return nil
}

func (m *MemPersister) DeleteBase(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Bases, id)
	return nil
}
