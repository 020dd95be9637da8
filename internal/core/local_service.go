package core

import (
	"context"
	"errors"
	"sort"

	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/preview"
	"github.com/tonekit/tonekit/internal/store"
	"github.com/tonekit/tonekit/internal/utils"
)

// LocalPaletteService implements PaletteService over an embedded store.
type LocalPaletteService struct {
	store     *store.Store
	corrector *a11y.Corrector
	preview   *preview.Service
}

// NewLocalPaletteService binds a service to a store. pv may be nil when no
// preview is running; mutations then skip the snapshot flush.
func NewLocalPaletteService(st *store.Store, pv *preview.Service) *LocalPaletteService {
	return &LocalPaletteService{
		store:     st,
		corrector: a11y.NewCorrector(st),
		preview:   pv,
	}
}

// flush makes the preview snapshot reflect the mutation that just happened.
func (s *LocalPaletteService) flush() {
	if s.preview != nil {
		s.preview.Flush()
	}
}

func (s *LocalPaletteService) info(f palette.Family) FamilyInfo {
	info := FamilyInfo{Family: f, Default: f.HSL, Edited: s.store.Edited(f.ID)}
	if def, err := palette.FindFamily(s.store.Defaults(), f.ID); err == nil {
		info.Default = def.HSL
	}
	return info
}

func (s *LocalPaletteService) Families() ([]FamilyInfo, error) {
	families := s.store.Families()
	out := make([]FamilyInfo, len(families))
	for i, f := range families {
		out[i] = s.info(f)
	}
	return out, nil
}

func (s *LocalPaletteService) SetBase(family string, hsl palette.HSL) (FamilyInfo, error) {
	f, err := s.store.SetBase(family, hsl)
	if err != nil {
		return FamilyInfo{}, err
	}
	s.flush()
	utils.Debug("core: %s base set to %s", f.ID, f.HSL)
	return s.info(f), nil
}

func (s *LocalPaletteService) ResetBase(family string) (FamilyInfo, error) {
	f, err := s.store.ResetBase(family)
	if err != nil {
		return FamilyInfo{}, err
	}
	s.flush()
	return s.info(f), nil
}

func (s *LocalPaletteService) Fix(req FixRequest) (FixResponse, error) {
	req, err := req.Normalize()
	if err != nil {
		return FixResponse{}, err
	}
	f, err := s.store.Family(req.Family)
	if err != nil {
		return FixResponse{}, err
	}
	req.Family = f.ID

	res, err := s.corrector.Fix(req.Family, req.Step, req.Variant, req.Mode)
	if err != nil {
		return FixResponse{}, err
	}
	s.flush()
	return fixResponse(req, res), nil
}

func (s *LocalPaletteService) FixAll(mode palette.Mode) ([]FixResponse, error) {
	fixed, err := s.corrector.FixAll(mode)
	s.flush()
	out := make([]FixResponse, 0, len(fixed))
	for _, fr := range fixed {
		out = append(out, fixResponse(FixRequest{
			Family:  fr.Key.Family,
			Step:    fr.Key.Step,
			Variant: fr.Key.Variant,
			Mode:    mode,
		}, fr.Result))
	}
	return out, err
}

func (s *LocalPaletteService) Overrides() ([]OverrideEntry, error) {
	overrides := s.store.Overrides()
	out := make([]OverrideEntry, 0, len(overrides))
	for key, ov := range overrides {
		out = append(out, entryFor(key, ov))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *LocalPaletteService) SetOverride(entry OverrideEntry) error {
	key, err := entry.OverrideKey()
	if err != nil {
		return err
	}
	f, err := s.store.Family(key.Family)
	if err != nil {
		return err
	}
	key.Family = f.ID

	ov, err := entry.Override()
	if err != nil {
		return err
	}
	if err := s.store.RecordOverride(key, ov); err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s *LocalPaletteService) DeleteOverride(key palette.OverrideKey) error {
	if f, err := s.store.Family(key.Family); err == nil {
		key.Family = f.ID
	}
	if err := s.store.DeleteOverride(key); err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s *LocalPaletteService) ResetOverrides() error {
	if err := s.store.ResetOverrides(); err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s *LocalPaletteService) StreamEvents(ctx context.Context) (<-chan preview.Event, func(), error) {
	if s.preview == nil {
		return nil, nil, errors.New("no preview running")
	}
	ctx, cancel := context.WithCancel(ctx)
	return s.preview.StreamEvents(ctx), cancel, nil
}
