package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/config"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/refresh"
	"github.com/tonekit/tonekit/internal/store"
	"github.com/tonekit/tonekit/internal/tokens"
)

type UIState int

const (
	BrowseState  UIState = iota // Swatch list
	EditHSLState                // Editing the family's base color
	ConfirmState                // Confirming override reset
)

// Field order of the HSL inputs.
const (
	fieldH = iota
	fieldS
	fieldL
)

// tickMsg drives the refresh coalescer.
type tickMsg time.Time

type indicatorKey struct {
	family string
	step   palette.Step
	mode   palette.Mode
}

// Options wires the editor to its state.
type Options struct {
	Store    *store.Store
	Settings *config.Settings
	// FallbackPath receives copied text when no clipboard is available.
	FallbackPath string
}

type RootModel struct {
	store     *store.Store
	corrector *a11y.Corrector
	coalescer *refresh.Coalescer
	unsub     func()

	tokenOpts    tokens.Options
	interval     time.Duration
	largeText    bool
	fallbackPath string

	// Regenerated on ticks that carry work
	families   []palette.Family
	tree       palette.Tree
	indicators map[indicatorKey]a11y.Indicator
	passes     int

	state        UIState
	familyIdx    int
	stepIdx      int
	mode         palette.Mode
	variant      palette.Variant
	inputs       []textinput.Model
	focusedInput int

	// Restored when an HSL edit is cancelled
	editStart  palette.HSL
	editEdited bool

	keys     KeyMap
	help     help.Model
	status   string
	errorMsg string
	width    int
	height   int
}

// InitialRootModel builds the editor and takes its first snapshot.
func InitialRootModel(opts Options) RootModel {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}

	inputs := make([]textinput.Model, 3)
	for i, placeholder := range []string{"0-360", "0-100", "0-100"} {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 6
		in.Width = 8
		in.Prompt = ""
		inputs[i] = in
	}

	c := refresh.New()
	m := RootModel{
		store:        opts.Store,
		corrector:    a11y.NewCorrector(opts.Store),
		coalescer:    c,
		tokenOpts:    tokens.Options{Prefix: settings.General.CSSPrefix},
		interval:     settings.Editor.RefreshInterval,
		largeText:    settings.Editor.LargeText,
		fallbackPath: opts.FallbackPath,
		state:        BrowseState,
		stepIdx:      indexOfStep(palette.StepBase),
		mode:         settings.Mode(),
		variant:      palette.VariantOn,
		inputs:       inputs,
		keys:         Keys,
		help:         help.New(),
	}
	if m.interval <= 0 {
		m.interval = refresh.DefaultInterval
	}

	// The store may be mutated from other goroutines (settings watcher);
	// the coalescer is the only thing touched here.
	m.unsub = opts.Store.Subscribe(func(store.Event) {
		c.Request(refresh.Flags{Regenerate: true, UpdateIndicators: true})
	})
	m.regenerate(refresh.Flags{Regenerate: true, UpdateIndicators: true})
	return m
}

func indexOfStep(step palette.Step) int {
	for i, s := range palette.Steps {
		if s == step {
			return i
		}
	}
	return 0
}

func (m RootModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m RootModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Close detaches the editor from the store.
func (m RootModel) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// regenerate rebuilds whatever the flags ask for. It is the single place the
// tree and indicators are recomputed.
func (m *RootModel) regenerate(f refresh.Flags) {
	if f.Regenerate || m.indicators == nil {
		m.families = m.store.Families()
		m.tree = palette.GenerateAll(m.families, m.store.Overrides())
		if m.familyIdx >= len(m.families) {
			m.familyIdx = 0
		}
	}
	if f.Regenerate || f.UpdateIndicators || m.indicators == nil {
		m.indicators = make(map[indicatorKey]a11y.Indicator)
		for _, mode := range palette.Modes {
			for _, ind := range a11y.CheckTree(m.tree, mode) {
				m.indicators[indicatorKey{ind.Family, ind.Step, ind.Mode}] = ind
			}
		}
	}
	m.passes++
}

func (m RootModel) currentFamily() palette.Family {
	if len(m.families) == 0 {
		return palette.Family{}
	}
	return m.families[m.familyIdx]
}

func (m RootModel) currentStep() palette.Step {
	return palette.Steps[m.stepIdx]
}

func (m RootModel) failing(familyID string, mode palette.Mode) int {
	n := 0
	for _, step := range palette.Steps {
		ind, ok := m.indicators[indicatorKey{familyID, step, mode}]
		if !ok {
			continue
		}
		if !ind.On.Passing() {
			n++
		}
		if !ind.OnAlt.Passing() {
			n++
		}
	}
	return n
}
