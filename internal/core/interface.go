package core

import (
	"context"

	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/preview"
)

// PaletteService defines the palette operations shared by every surface.
// This abstraction lets the CLI edit the embedded store directly or go
// through a running preview server so the page updates live.
type PaletteService interface {
	// Families lists the configured families with their current base color.
	Families() ([]FamilyInfo, error)

	// SetBase edits a family's base color. Values are clamped.
	SetBase(family string, hsl palette.HSL) (FamilyInfo, error)

	// ResetBase drops a base color edit.
	ResetBase(family string) (FamilyInfo, error)

	// Fix corrects one foreground in one mode.
	Fix(req FixRequest) (FixResponse, error)

	// FixAll corrects every failing foreground in one mode.
	FixAll(mode palette.Mode) ([]FixResponse, error)

	// Overrides lists recorded foreground overrides, sorted by key.
	Overrides() ([]OverrideEntry, error)

	// SetOverride records an override for both modes.
	SetOverride(entry OverrideEntry) error

	// DeleteOverride removes one override.
	DeleteOverride(key palette.OverrideKey) error

	// ResetOverrides removes every override.
	ResetOverrides() error

	// StreamEvents returns a channel of snapshot events and a cleanup func.
	// For local mode, this is the preview broadcast.
	// For remote mode, this is sourced from SSE.
	StreamEvents(ctx context.Context) (<-chan preview.Event, func(), error)
}
