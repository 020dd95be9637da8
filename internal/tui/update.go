package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tonekit/tonekit/internal/clipboard"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/tokens"
	"github.com/tonekit/tonekit/internal/utils"
)

// Update handles messages and updates the model
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if f, ok := m.coalescer.Take(); ok {
			m.regenerate(f)
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch m.state {
		case EditHSLState:
			return m.updateHSL(msg)
		case ConfirmState:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

// flush applies pending store changes now instead of on the next tick.
func (m *RootModel) flush() {
	if f, ok := m.coalescer.Take(); ok {
		m.regenerate(f)
	}
}

func (m *RootModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.errorMsg = ""
}

func (m *RootModel) setError(err error) {
	m.errorMsg = err.Error()
	m.status = ""
	utils.Debug("tui: %v", err)
}

func (m RootModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Editor
	switch {
	case key.Matches(msg, k.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, k.PrevFamily):
		if n := len(m.families); n > 0 {
			m.familyIdx = (m.familyIdx - 1 + n) % n
		}
	case key.Matches(msg, k.NextFamily):
		if n := len(m.families); n > 0 {
			m.familyIdx = (m.familyIdx + 1) % n
		}
	case key.Matches(msg, k.Up):
		if m.stepIdx > 0 {
			m.stepIdx--
		}
	case key.Matches(msg, k.Down):
		if m.stepIdx < len(palette.Steps)-1 {
			m.stepIdx++
		}
	case key.Matches(msg, k.Mode):
		if m.mode == palette.ModeLight {
			m.mode = palette.ModeDark
		} else {
			m.mode = palette.ModeLight
		}
	case key.Matches(msg, k.Variant):
		if m.variant == palette.VariantOn {
			m.variant = palette.VariantAlt
		} else {
			m.variant = palette.VariantOn
		}

	case key.Matches(msg, k.Fix):
		m.fixSelected()
	case key.Matches(msg, k.FixAll):
		fixed, err := m.corrector.FixAll(m.mode)
		if err != nil {
			m.setError(err)
			break
		}
		m.flush()
		m.setStatus("fixed %d pair(s) in %s mode", len(fixed), m.mode)

	case key.Matches(msg, k.EditHSL):
		m.startHSLEdit()
	case key.Matches(msg, k.Paste):
		hsl, ok := clipboard.ReadColor()
		if !ok {
			m.setError(fmt.Errorf("clipboard does not hold a color"))
			break
		}
		f, err := m.store.SetBase(m.currentFamily().ID, hsl)
		if err != nil {
			m.setError(err)
			break
		}
		m.flush()
		m.setStatus("%s set to %s", f.Name, f.HSL)
	case key.Matches(msg, k.ResetBase):
		f, err := m.store.ResetBase(m.currentFamily().ID)
		if err != nil {
			m.setError(err)
			break
		}
		m.flush()
		m.setStatus("%s reset to %s", f.Name, f.HSL)
	case key.Matches(msg, k.ResetAll):
		m.state = ConfirmState

	case key.Matches(msg, k.CopyCSS):
		m.copy("css", tokens.Stylesheet(m.families, m.store.Overrides(), m.tokenOpts))
	case key.Matches(msg, k.CopyBase):
		m.copy("hsl block", tokens.BaseBlock(m.families, m.tokenOpts))

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *RootModel) fixSelected() {
	f := m.currentFamily()
	step := m.currentStep()
	if step == palette.StepOriginal {
		m.setError(fmt.Errorf("the original step has no contrast pair"))
		return
	}
	res, err := m.corrector.Fix(f.ID, step, m.variant, m.mode)
	if err != nil {
		m.setError(err)
		return
	}
	m.flush()
	switch {
	case !res.Changed:
		m.setStatus("%s %s %s already passes (%.2f:1)", f.ID, step, m.variant, res.Ratio)
	case !res.Passed:
		m.setStatus("%s %s %s snapped to %.0f%% (%.2f:1, still failing)", f.ID, step, m.variant, res.Lightness, res.Ratio)
	default:
		m.setStatus("%s %s %s: %.0f%% -> %.0f%% (%.2f:1)", f.ID, step, m.variant, res.Previous, res.Lightness, res.Ratio)
	}
}

func (m *RootModel) copy(what, text string) {
	var fallback io.Writer
	if m.fallbackPath != "" {
		fallback = clipboard.FileFallback(m.fallbackPath)
	}
	method, err := clipboard.Copy(text, fallback)
	if err != nil {
		m.setError(err)
		return
	}
	if method == clipboard.MethodFallback {
		m.setStatus("no clipboard; %s written to %s", what, m.fallbackPath)
		return
	}
	m.setStatus("%s copied to clipboard", what)
}

func formatComponent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (m *RootModel) startHSLEdit() {
	f := m.currentFamily()
	for i, v := range []float64{f.H, f.S, f.L} {
		m.inputs[i].SetValue(formatComponent(v))
		m.inputs[i].Blur()
	}
	m.focusedInput = fieldH
	m.inputs[fieldH].Focus()
	m.editStart = f.HSL
	m.editEdited = m.store.Edited(f.ID)
	m.state = EditHSLState
}

// inputHSL reads the three inputs. Blank or invalid fields keep the
// family's current value.
func (m RootModel) inputHSL() palette.HSL {
	cur := m.currentFamily().HSL
	vals := []float64{cur.H, cur.S, cur.L}
	for i := range vals {
		if v, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[i].Value()), 64); err == nil {
			vals[i] = v
		}
	}
	return palette.Clamp(palette.HSL{H: vals[0], S: vals[1], L: vals[2]})
}

func (m RootModel) updateHSL(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.HSL
	switch {
	case key.Matches(msg, k.Cancel):
		m.state = BrowseState
		m.revertHSLEdit()
		return m, nil

	case key.Matches(msg, k.Apply):
		f, err := m.store.SetBase(m.currentFamily().ID, m.inputHSL())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.flush()
		m.state = BrowseState
		m.setStatus("%s set to %s", f.Name, f.HSL)
		return m, nil

	case key.Matches(msg, k.Next), key.Matches(msg, k.Prev):
		m.inputs[m.focusedInput].Blur()
		if key.Matches(msg, k.Next) {
			m.focusedInput = (m.focusedInput + 1) % len(m.inputs)
		} else {
			m.focusedInput = (m.focusedInput - 1 + len(m.inputs)) % len(m.inputs)
		}
		m.inputs[m.focusedInput].Focus()
		return m, nil

	case key.Matches(msg, k.Inc), key.Matches(msg, k.Dec):
		// Nudges apply live; the coalescer folds rapid repeats into one
		// regeneration per tick.
		delta := 1.0
		if key.Matches(msg, k.Dec) {
			delta = -1
		}
		hsl := m.inputHSL()
		switch m.focusedInput {
		case fieldH:
			hsl.H += delta
		case fieldS:
			hsl.S += delta
		case fieldL:
			hsl.L += delta
		}
		hsl = palette.Clamp(hsl)
		m.inputs[fieldH].SetValue(formatComponent(hsl.H))
		m.inputs[fieldS].SetValue(formatComponent(hsl.S))
		m.inputs[fieldL].SetValue(formatComponent(hsl.L))
		if _, err := m.store.SetBase(m.currentFamily().ID, hsl); err != nil {
			m.setError(err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusedInput], cmd = m.inputs[m.focusedInput].Update(msg)
	return m, cmd
}

// revertHSLEdit undoes live nudges made since the editor opened.
func (m *RootModel) revertHSLEdit() {
	id := m.currentFamily().ID
	var err error
	if m.editEdited {
		_, err = m.store.SetBase(id, m.editStart)
	} else if m.store.Edited(id) {
		_, err = m.store.ResetBase(id)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.flush()
}

func (m RootModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Confirm
	switch {
	case key.Matches(msg, k.Yes):
		m.state = BrowseState
		if err := m.store.ResetOverrides(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.flush()
		m.setStatus("all contrast fixes cleared")
	case key.Matches(msg, k.No):
		m.state = BrowseState
	}
	return m, nil
}
