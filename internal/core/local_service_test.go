package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/preview"
	"github.com/tonekit/tonekit/internal/store"
	"github.com/tonekit/tonekit/internal/testutil"
)

func newLocal(t *testing.T) (*LocalPaletteService, *store.Store, *preview.Service) {
	t.Helper()
	st := store.New(nil, nil)
	pv := preview.NewService(st, time.Hour)
	t.Cleanup(pv.Close)
	return NewLocalPaletteService(st, pv), st, pv
}

var warningPlusOne = FixRequest{
	Family:  "alerts-warning",
	Step:    palette.StepPlusOne,
	Variant: palette.VariantOn,
	Mode:    palette.ModeLight,
}

func TestLocalPaletteService_Families(t *testing.T) {
	svc, _, _ := newLocal(t)

	families, err := svc.Families()
	require.NoError(t, err)
	require.Len(t, families, len(palette.DefaultFamilies()))
	assert.Equal(t, "primary", families[0].ID)
	assert.Equal(t, families[0].HSL, families[0].Default)
	assert.False(t, families[0].Edited)
}

func TestLocalPaletteService_SetBaseFlushesPreview(t *testing.T) {
	svc, _, pv := newLocal(t)
	before := pv.Snapshot().Version

	info, err := svc.SetBase("primary", palette.HSL{H: 200, S: 50, L: 45})
	require.NoError(t, err)
	assert.True(t, info.Edited)
	assert.Equal(t, palette.HSL{H: 200, S: 50, L: 45}, info.HSL)
	assert.Equal(t, palette.HSL{H: 216, S: 58, L: 48}, info.Default)

	snap := pv.Snapshot()
	assert.Greater(t, snap.Version, before)
	fp, ok := snap.Tree.Family("primary")
	require.True(t, ok)
	assert.Equal(t, 200.0, fp.Family.H)

	info, err = svc.ResetBase("primary")
	require.NoError(t, err)
	assert.False(t, info.Edited)
	assert.Equal(t, info.Default, info.HSL)
}

func TestLocalPaletteService_SetBaseUnknownFamily(t *testing.T) {
	svc, _, _ := newLocal(t)

	_, err := svc.SetBase("accent", palette.HSL{H: 1, S: 2, L: 3})
	assert.True(t, errors.Is(err, palette.ErrUnknownFamily))
}

func TestLocalPaletteService_Fix(t *testing.T) {
	svc, st, pv := newLocal(t)

	res, err := svc.Fix(warningPlusOne)
	require.NoError(t, err)
	assert.True(t, res.Result.Changed)
	assert.True(t, res.Result.Passed)
	assert.Equal(t, "alerts-warning-plus-one-on", res.Key)

	key := palette.OverrideKey{Family: "alerts-warning", Step: palette.StepPlusOne, Variant: palette.VariantOn}
	ov, ok := st.Overrides()[key]
	require.True(t, ok)
	assert.Equal(t, res.Result.Lightness, ov.Light)
	assert.Equal(t, palette.ForegroundLightness(palette.StepPlusOne, palette.ModeDark, palette.VariantOn), ov.Dark)

	fp, _ := pv.Snapshot().Tree.Family("alerts-warning")
	sw, ok := fp.Swatch(palette.StepPlusOne, palette.ModeLight)
	require.True(t, ok)
	assert.Equal(t, res.Result.Lightness, sw.OnLightness)
}

func TestLocalPaletteService_FixShortAlertName(t *testing.T) {
	svc, _, _ := newLocal(t)

	req := warningPlusOne
	req.Family = "warning"
	res, err := svc.Fix(req)
	require.NoError(t, err)
	assert.Equal(t, "alerts-warning", res.Family)
}

func TestLocalPaletteService_FixRejectsOriginal(t *testing.T) {
	svc, _, _ := newLocal(t)

	req := warningPlusOne
	req.Step = palette.StepOriginal
	_, err := svc.Fix(req)
	assert.ErrorIs(t, err, ErrNoContrastPair)

	req.Step = "plus-nine"
	_, err = svc.Fix(req)
	assert.ErrorIs(t, err, palette.ErrUnknownStep)
}

func TestLocalPaletteService_FixAll(t *testing.T) {
	svc, _, pv := newLocal(t)
	require.Greater(t, pv.Snapshot().Failing(palette.ModeLight), 0)

	fixed, err := svc.FixAll(palette.ModeLight)
	require.NoError(t, err)
	assert.NotEmpty(t, fixed)
	for _, f := range fixed {
		assert.Equal(t, palette.ModeLight, f.Mode)
	}
	assert.Equal(t, 0, pv.Snapshot().Failing(palette.ModeLight))
}

func TestLocalPaletteService_Overrides(t *testing.T) {
	svc, _, _ := newLocal(t)

	err := svc.SetOverride(OverrideEntry{Family: "danger", Step: palette.StepBase, Variant: "on-alt", Light: 98, Dark: 4})
	require.NoError(t, err)
	_, err = svc.Fix(warningPlusOne)
	require.NoError(t, err)

	entries, err := svc.Overrides()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alerts-danger-base-alt", entries[0].Key)
	assert.Equal(t, 98.0, entries[0].Light)
	assert.Equal(t, 4.0, entries[0].Dark)
	assert.Equal(t, "alerts-warning-plus-one-on", entries[1].Key)

	require.NoError(t, svc.DeleteOverride(palette.OverrideKey{Family: "danger", Step: palette.StepBase, Variant: palette.VariantAlt}))
	entries, _ = svc.Overrides()
	assert.Len(t, entries, 1)

	require.NoError(t, svc.ResetOverrides())
	entries, _ = svc.Overrides()
	assert.Empty(t, entries)
}

func TestLocalPaletteService_SetOverrideValidates(t *testing.T) {
	svc, _, _ := newLocal(t)

	err := svc.SetOverride(OverrideEntry{Family: "primary", Step: palette.StepBase, Variant: "on", Light: 120})
	assert.Error(t, err)

	err = svc.SetOverride(OverrideEntry{Family: "primary", Step: palette.StepOriginal, Variant: "on", Light: 10})
	assert.ErrorIs(t, err, ErrNoContrastPair)

	err = svc.SetOverride(OverrideEntry{Family: "accent", Step: palette.StepBase, Variant: "on", Light: 10})
	assert.ErrorIs(t, err, palette.ErrUnknownFamily)
}

func TestLocalPaletteService_StreamEvents(t *testing.T) {
	svc, _, _ := newLocal(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, cleanup, err := svc.StreamEvents(ctx)
	require.NoError(t, err)
	defer cleanup()

	_, err = svc.SetBase("neutral", palette.HSL{H: 100, S: 10, L: 50})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, preview.EventPalette, ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestLocalPaletteService_StreamEventsWithoutPreview(t *testing.T) {
	svc := NewLocalPaletteService(store.New(nil, nil), nil)

	_, _, err := svc.StreamEvents(context.Background())
	assert.Error(t, err)

	// Mutations still work without a preview.
	_, err = svc.SetBase("primary", palette.HSL{H: 10, S: 20, L: 30})
	assert.NoError(t, err)
}

func TestLocalPaletteService_PersistsEdits(t *testing.T) {
	p := testutil.NewMemPersister()
	svc := NewLocalPaletteService(store.New(nil, p), nil)

	_, err := svc.Fix(warningPlusOne)
	require.NoError(t, err)
	_, err = svc.SetBase("notice", palette.HSL{H: 140, S: 55, L: 40})
	require.NoError(t, err)

	reopened := store.New(nil, p)
	require.NoError(t, reopened.Load())
	assert.Len(t, reopened.Overrides(), 1)
	assert.True(t, reopened.Edited("alerts-notice"))

	p.Err = errors.New("disk full")
	_, err = svc.SetBase("primary", palette.HSL{H: 1, S: 1, L: 1})
	assert.Error(t, err)
	assert.False(t, reopened.Edited("primary"))
}
