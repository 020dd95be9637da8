package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/testutil"
)

func record(t *testing.T, s *Store) *[]Event {
	t.Helper()
	var events []Event
	unsub := s.Subscribe(func(ev Event) { events = append(events, ev) })
	t.Cleanup(unsub)
	return &events
}

func TestStore_DefaultsWhenNoFamilies(t *testing.T) {
	s := New(nil, nil)
	assert.Equal(t, palette.DefaultFamilies(), s.Families())
}

func TestStore_SetBaseClampsAndEmitsOnce(t *testing.T) {
	s := New(nil, nil)
	events := record(t, s)

	f, err := s.SetBase("primary", palette.HSL{H: 400, S: 120, L: -5})
	require.NoError(t, err)
	assert.Equal(t, palette.HSL{H: 360, S: 100, L: 0}, f.HSL)

	got, err := s.Family("primary")
	require.NoError(t, err)
	assert.Equal(t, f.HSL, got.HSL)
	assert.True(t, s.Edited("primary"))

	require.Len(t, *events, 1)
	assert.Equal(t, EventBaseChanged, (*events)[0].Kind)
	assert.Equal(t, "primary", (*events)[0].Family)
}

func TestStore_ResetBase(t *testing.T) {
	p := testutil.NewMemPersister()
	s := New(nil, p)
	_, err := s.SetBase("danger", palette.HSL{H: 10, S: 80, L: 45})
	require.NoError(t, err)
	assert.Contains(t, p.Bases, "alerts-danger")

	f, err := s.ResetBase("alerts-danger")
	require.NoError(t, err)
	assert.Equal(t, palette.HSL{H: 0, S: 99, L: 50}, f.HSL)
	assert.NotContains(t, p.Bases, "alerts-danger")
	assert.False(t, s.Edited("alerts-danger"))
}

func TestStore_UnknownFamily(t *testing.T) {
	s := New(nil, nil)
	_, err := s.SetBase("accent", palette.HSL{})
	assert.ErrorIs(t, err, palette.ErrUnknownFamily)

	err = s.RecordOverride(palette.OverrideKey{Family: "accent", Step: palette.StepBase, Variant: palette.VariantOn}, palette.Override{Light: 10, Dark: 10})
	assert.ErrorIs(t, err, palette.ErrUnknownFamily)
}

func TestStore_RecordOverride(t *testing.T) {
	p := testutil.NewMemPersister()
	s := New(nil, p)
	events := record(t, s)
	key := palette.OverrideKey{Family: "neutral", Step: palette.StepMinusTwo, Variant: palette.VariantAlt}

	require.NoError(t, s.RecordOverride(key, palette.Override{Light: 24, Dark: 90}))

	ov, ok := s.Overrides()[key]
	require.True(t, ok)
	assert.Equal(t, 24.0, ov.Light)
	assert.False(t, ov.Updated.IsZero())
	assert.Contains(t, p.Overrides, key)
	require.Len(t, *events, 1)
	assert.Equal(t, key, (*events)[0].Key)

	sw, ok := s.Tree().Families[1].Swatch(palette.StepMinusTwo, palette.ModeLight)
	require.True(t, ok)
	assert.Equal(t, 24.0, sw.OnAltLightness)
}

func TestStore_RecordOverrideRejectsOutOfRange(t *testing.T) {
	s := New(nil, nil)
	key := palette.OverrideKey{Family: "primary", Step: palette.StepBase, Variant: palette.VariantOn}
	assert.Error(t, s.RecordOverride(key, palette.Override{Light: 101, Dark: 0}))
	assert.Empty(t, s.Overrides())
}

func TestStore_PersistFailureLeavesStateUntouched(t *testing.T) {
	p := testutil.NewMemPersister()
	p.Err = errors.New("read-only")
	s := New(nil, p)
	events := record(t, s)
	key := palette.OverrideKey{Family: "primary", Step: palette.StepBase, Variant: palette.VariantOn}

	err := s.RecordOverride(key, palette.Override{Light: 0, Dark: 0})
	assert.ErrorIs(t, err, p.Err)
	assert.Empty(t, s.Overrides())
	assert.Empty(t, *events)
}

func TestStore_ResetOverrides(t *testing.T) {
	s := New(nil, nil)
	key := palette.OverrideKey{Family: "primary", Step: palette.StepBase, Variant: palette.VariantOn}
	require.NoError(t, s.RecordOverride(key, palette.Override{Light: 0, Dark: 100}))
	events := record(t, s)

	require.NoError(t, s.ResetOverrides())
	assert.Empty(t, s.Overrides())
	require.Len(t, *events, 1)
	assert.Equal(t, EventOverridesReset, (*events)[0].Kind)
}

func TestStore_DeleteOverride(t *testing.T) {
	s := New(nil, nil)
	key := palette.OverrideKey{Family: "primary", Step: palette.StepBase, Variant: palette.VariantOn}
	require.NoError(t, s.RecordOverride(key, palette.Override{Light: 0, Dark: 100}))
	events := record(t, s)

	require.NoError(t, s.DeleteOverride(key))
	require.NoError(t, s.DeleteOverride(key))
	assert.Empty(t, s.Overrides())
	assert.Len(t, *events, 1)
}

func TestStore_LoadDropsUnknownAndInvalid(t *testing.T) {
	p := testutil.NewMemPersister()
	good := palette.OverrideKey{Family: "primary", Step: palette.StepBase, Variant: palette.VariantOn}
	p.Overrides[good] = palette.Override{Light: 4, Dark: 96, Updated: time.Unix(1, 0)}
	p.Overrides[palette.OverrideKey{Family: "gone", Step: palette.StepBase, Variant: palette.VariantOn}] = palette.Override{Light: 4, Dark: 96}
	p.Overrides[palette.OverrideKey{Family: "neutral", Step: palette.StepBase, Variant: palette.VariantOn}] = palette.Override{Light: 400, Dark: 96}
	p.Bases["alerts-info"] = palette.HSL{H: 200, S: 50, L: 50}
	p.Bases["gone"] = palette.HSL{H: 1, S: 1, L: 1}

	s := New(nil, p)
	events := record(t, s)
	require.NoError(t, s.Load())

	assert.Equal(t, palette.Overrides{good: p.Overrides[good]}, s.Overrides())
	f, err := s.Family("info")
	require.NoError(t, err)
	assert.Equal(t, palette.HSL{H: 200, S: 50, L: 50}, f.HSL)
	assert.Len(t, *events, 1)
}

func TestStore_SetFamilies(t *testing.T) {
	s := New(nil, nil)
	events := record(t, s)
	s.SetFamilies([]palette.Family{{ID: "brand", Name: "Brand", HSL: palette.HSL{H: 300, S: 40, L: 50}}})

	assert.Len(t, s.Families(), 1)
	_, err := s.Family("primary")
	assert.ErrorIs(t, err, palette.ErrUnknownFamily)
	assert.Len(t, *events, 1)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := New(nil, nil)
	calls := 0
	unsub := s.Subscribe(func(Event) { calls++ })
	_, err := s.SetBase("primary", palette.HSL{H: 1, S: 1, L: 1})
	require.NoError(t, err)
	unsub()
	unsub()
	_, err = s.SetBase("primary", palette.HSL{H: 2, S: 2, L: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
