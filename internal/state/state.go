// Package state persists palette edits (overrides and base colors) in SQLite.
package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/utils"
)

// Repo adapts the package database to store.Persister.
type Repo struct{}

// NewRepo returns a repo over the configured database.
func NewRepo() *Repo { return &Repo{} }

func (Repo) LoadOverrides() (palette.Overrides, error) { return LoadOverrides() }

func (Repo) SaveOverride(k palette.OverrideKey, ov palette.Override) error {
	return SaveOverride(k, ov)
}

func (Repo) DeleteOverride(k palette.OverrideKey) error { return DeleteOverride(k) }

func (Repo) DeleteOverrides() error { return DeleteOverrides() }

func (Repo) LoadBases() (map[string]palette.HSL, error) { return LoadBases() }

func (Repo) SaveBase(family string, hsl palette.HSL) error { return SaveBase(family, hsl) }

func (Repo) DeleteBase(family string) error { return DeleteBase(family) }

// SaveOverride upserts one override row
func SaveOverride(key palette.OverrideKey, ov palette.Override) error {
	updated := ov.Updated
	if updated.IsZero() {
		updated = time.Now()
	}
	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO overrides (key, family, step, variant, light, dark, updated)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				family=excluded.family,
				step=excluded.step,
				variant=excluded.variant,
				light=excluded.light,
				dark=excluded.dark,
				updated=excluded.updated
		`, key.String(), key.Family, string(key.Step), string(key.Variant), ov.Light, ov.Dark, updated.UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to upsert override: %w", err)
		}
		return nil
	})
}

// LoadOverrides reads every override. Rows with NULL or out-of-range fields
// are skipped.
func LoadOverrides() (palette.Overrides, error) {
	d, err := GetDB()
	if err != nil {
		return nil, err
	}

	rows, err := d.Query("SELECT key, family, step, variant, light, dark, updated FROM overrides")
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(palette.Overrides)
	for rows.Next() {
		var (
			key                 string
			family, step, varnt sql.NullString
			light, dark         sql.NullFloat64
			updated             sql.NullInt64
		)
		if err := rows.Scan(&key, &family, &step, &varnt, &light, &dark, &updated); err != nil {
			utils.Debug("state: unreadable override row: %v", err)
			continue
		}
		if !family.Valid || !step.Valid || !varnt.Valid || !light.Valid || !dark.Valid {
			utils.Debug("state: skipping incomplete override %q", key)
			continue
		}
		s, err := palette.ParseStep(step.String)
		if err != nil {
			utils.Debug("state: skipping override %q: %v", key, err)
			continue
		}
		v, err := palette.ParseVariant(varnt.String)
		if err != nil {
			utils.Debug("state: skipping override %q: %v", key, err)
			continue
		}
		ov := palette.Override{Light: light.Float64, Dark: dark.Float64}
		if updated.Valid {
			ov.Updated = time.UnixMilli(updated.Int64)
		}
		if !ov.Valid() {
			utils.Debug("state: skipping out-of-range override %q", key)
			continue
		}
		out[palette.OverrideKey{Family: family.String, Step: s, Variant: v}] = ov
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}
	return out, nil
}

// DeleteOverride removes one override row
func DeleteOverride(key palette.OverrideKey) error {
	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM overrides WHERE key = ?", key.String())
		return err
	})
}

// DeleteOverrides removes every override row
func DeleteOverrides() error {
	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM overrides")
		return err
	})
}

// SaveBase upserts a family's edited base color
func SaveBase(family string, hsl palette.HSL) error {
	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO base_hsl (family, h, s, l, updated)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(family) DO UPDATE SET
				h=excluded.h,
				s=excluded.s,
				l=excluded.l,
				updated=excluded.updated
		`, family, hsl.H, hsl.S, hsl.L, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to upsert base color: %w", err)
		}
		return nil
	})
}

// LoadBases reads every edited base color. Rows with NULL or out-of-range
// components are skipped.
func LoadBases() (map[string]palette.HSL, error) {
	d, err := GetDB()
	if err != nil {
		return nil, err
	}

	rows, err := d.Query("SELECT family, h, s, l FROM base_hsl")
	if err != nil {
		return nil, fmt.Errorf("failed to query base colors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]palette.HSL)
	for rows.Next() {
		var (
			family  string
			h, s, l sql.NullFloat64
		)
		if err := rows.Scan(&family, &h, &s, &l); err != nil {
			utils.Debug("state: unreadable base row: %v", err)
			continue
		}
		if !h.Valid || !s.Valid || !l.Valid {
			utils.Debug("state: skipping incomplete base color %q", family)
			continue
		}
		hsl := palette.HSL{H: h.Float64, S: s.Float64, L: l.Float64}
		if hsl != palette.Clamp(hsl) {
			utils.Debug("state: skipping out-of-range base color %q", family)
			continue
		}
		out[family] = hsl
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read base colors: %w", err)
	}
	return out, nil
}

// DeleteBase removes a family's edited base color
func DeleteBase(family string) error {
	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM base_hsl WHERE family = ?", family)
		return err
	})
}
