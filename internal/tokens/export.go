// Package tokens renders a generated palette as design-token JSON and as
// CSS custom properties.
package tokens

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tonekit/tonekit/internal/palette"
)

// DefaultPrefix namespaces every generated custom property.
const DefaultPrefix = "op"

var allScopes = []string{"ALL_SCOPES"}

// Options controls naming of the generated tokens.
type Options struct {
	Prefix string
}

func (o Options) prefix() string {
	if o.Prefix == "" {
		return DefaultPrefix
	}
	return o.Prefix
}

// CodeSyntax holds per-platform code references.
type CodeSyntax struct {
	WEB string `json:"WEB"`
}

// Leaf is a single design token.
type Leaf struct {
	CodeSyntax     CodeSyntax `json:"$codeSyntax"`
	Scopes         []string   `json:"$scopes,omitempty"`
	Type           string     `json:"$type"`
	LibraryName    *string    `json:"$libraryName,omitempty"`
	CollectionName string     `json:"$collectionName,omitempty"`
	Value          any        `json:"$value"`
}

func colorLeaf(ref, hex string) Leaf {
	return Leaf{CodeSyntax: CodeSyntax{WEB: ref}, Scopes: allScopes, Type: "color", Value: hex}
}

func (o Options) ref(name string) string {
	return fmt.Sprintf("var(--%s-%s)", o.prefix(), name)
}

// Document is the exported token file: a one-element array of collections.
type Document []*Node

// Marshal renders the document as indented JSON.
func (d Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Build assembles the full token export. Overrides are applied per mode.
func Build(families []palette.Family, overrides palette.OverrideSource, opts Options) Document {
	root := NewNode()
	root.Set("Color Styles", NewNode().Set("modes", colorStyles(families, overrides, opts)))
	root.Set("Components", NewNode().Set("modes", NewNode().Set("Mode 1", components(opts))))
	root.Set("Primitive Colors", NewNode().Set("modes", NewNode().Set("Light Theme", primitiveColors(families, opts))))
	root.Set("Primitive Variables", NewNode().Set("modes", NewNode().Set("Value", primitiveVariables(opts))))
	return Document{root}
}

func colorStyles(families []palette.Family, overrides palette.OverrideSource, opts Options) *Node {
	modes := NewNode()
	for _, mode := range palette.Modes {
		byFamily := NewNode()
		var alerts *Node
		for _, f := range families {
			p := palette.Generate(f, overrides)
			scale := scaleNode(p, mode, opts)
			if !f.Alert() {
				byFamily.Set(f.ID, scale)
				continue
			}
			if alerts == nil {
				alerts = NewNode()
				byFamily.Set("alerts", alerts)
			}
			alerts.Set(f.ShortID(), scale)
		}
		modes.Set(modeLabel(mode), byFamily)
	}
	return modes
}

func modeLabel(m palette.Mode) string {
	if m == palette.ModeDark {
		return "Dark"
	}
	return "Light"
}

func scaleNode(p palette.FamilyPalette, mode palette.Mode, opts Options) *Node {
	id := p.Family.ID
	colorRef := func(suffix string) string { return opts.ref("color-" + id + "-" + suffix) }

	scale := NewNode()
	plus, minus := NewNode(), NewNode()
	on := NewNode()
	onPlus, onMinus := NewNode(), NewNode()

	var original, base *palette.Swatch
	swatches := p.Modes[mode]
	for i := range swatches {
		sw := swatches[i]
		switch sw.Step.Group() {
		case "original":
			original = &swatches[i]
		case "base":
			base = &swatches[i]
		case "plus", "minus":
			group, onGroup := plus, onPlus
			if sw.Step.Group() == "minus" {
				group, onGroup = minus, onMinus
			}
			rung := sw.Step.Rung()
			group.Set(rung, colorLeaf(colorRef(string(sw.Step)), sw.Background))
			onGroup.Set(rung, colorLeaf(colorRef("on-"+string(sw.Step)), sw.On))
			onGroup.Set(rung+"-alt", colorLeaf(colorRef("on-"+string(sw.Step)+"-alt"), sw.OnAlt))
		}
	}

	if original != nil {
		scale.Set("original", colorLeaf(colorRef("original"), original.Background))
	}
	scale.Set("plus", plus)
	scale.Set("minus", minus)
	on.Set("plus", onPlus)
	on.Set("minus", onMinus)
	if base != nil {
		scale.Set("base", colorLeaf(colorRef("base"), base.Background))
		on.Set("base", colorLeaf(colorRef("on-base"), base.On))
		on.Set("base-alt", colorLeaf(colorRef("on-base-alt"), base.OnAlt))
	}
	scale.Set("on", on)
	return scale
}

func components(opts Options) *Node {
	empty := ""
	font := NewNode()
	for _, size := range []string{"small", "medium", "large"} {
		font.Set(size, Leaf{
			CodeSyntax:     CodeSyntax{WEB: fmt.Sprintf("var(--_%s-text-pair-font-size-%s)", opts.prefix(), size)},
			Scopes:         []string{"FONT_SIZE"},
			Type:           "float",
			LibraryName:    &empty,
			CollectionName: "Primitive Variables",
			Value:          fmt.Sprintf("{%s-font.%s}", opts.prefix(), size),
		})
	}
	return NewNode().Set("text pair", NewNode().Set("font", font))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func primitiveColors(families []palette.Family, opts Options) *Node {
	n := NewNode()
	n.Set(opts.prefix()+"-color", NewNode().
		Set("white", colorLeaf(opts.ref("color-white"), "#ffffff")).
		Set("black", colorLeaf(opts.ref("color-black"), "#000000")))

	for _, f := range families {
		name := "color-" + f.ID
		n.Set(opts.prefix()+"-"+name, NewNode().
			Set("h", Leaf{CodeSyntax: CodeSyntax{WEB: opts.ref(name + "-h")}, Scopes: allScopes, Type: "float", Value: f.H}).
			Set("s", Leaf{CodeSyntax: CodeSyntax{WEB: opts.ref(name + "-s")}, Scopes: allScopes, Type: "string", Value: formatNumber(f.S) + "%"}).
			Set("l", Leaf{CodeSyntax: CodeSyntax{WEB: opts.ref(name + "-l")}, Scopes: allScopes, Type: "string", Value: formatNumber(f.L) + "%"}))
	}
	return n
}

type scaleEntry struct {
	name  string
	value float64
}

var (
	spaceScale = []scaleEntry{
		{"3x-small", 2}, {"2x-small", 4}, {"x-small", 8}, {"small", 12}, {"medium", 16},
		{"large", 24}, {"x-large", 32}, {"2x-large", 40}, {"3x-large", 48},
	}
	fontScale = []scaleEntry{
		{"2x-small", 10}, {"x-small", 12}, {"small", 14}, {"medium", 16}, {"large", 18},
		{"x-large", 20}, {"2x-large", 24}, {"3x-large", 30}, {"4x-large", 36},
		{"5x-large", 48}, {"6x-large", 60},
	}
	zIndexScale = []scaleEntry{
		{"hide", -1}, {"auto", 0}, {"base", 1}, {"docked", 10}, {"dropdown", 900},
		{"sticky", 100}, {"banner", 200}, {"overlay", 300}, {"modal", 400},
		{"popover", 600}, {"skipLink", 700}, {"toast", 800}, {"tooltip", 1000},
	}
	spaceScopes = []string{"WIDTH_HEIGHT", "GAP", "PARAGRAPH_SPACING", "PARAGRAPH_INDENT"}
)

func primitiveVariables(opts Options) *Node {
	build := func(group string, entries []scaleEntry, scopes []string) *Node {
		n := NewNode()
		for _, e := range entries {
			n.Set(e.name, Leaf{
				CodeSyntax: CodeSyntax{WEB: opts.ref(group + "-" + e.name)},
				Scopes:     scopes,
				Type:       "float",
				Value:      e.value,
			})
		}
		return n
	}

	p := opts.prefix()
	return NewNode().
		Set(p+"-space", build("space", spaceScale, spaceScopes)).
		Set(p+"-font", build("font", fontScale, []string{"FONT_SIZE"})).
		Set(p+"-z-index", build("z-index", zIndexScale, nil))
}
