package a11y

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tonekit/tonekit/internal/palette"
)

func TestContrastRatio_BlackWhite(t *testing.T) {
	assert.InDelta(t, 21.0, ContrastRatio("#000000", "#ffffff"), 1e-9)
}

func TestContrastRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"#2b5aa1", "#ffffff"},
		{"#e6b800", "#000000"},
		{"#356899", "#f0f4f8"},
		{"#808080", "#050000"},
	}
	for _, p := range pairs {
		assert.Equal(t, ContrastRatio(p[0], p[1]), ContrastRatio(p[1], p[0]), "%s/%s", p[0], p[1])
	}
}

func TestContrastRatio_SelfIsOne(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#2b5aa1", "#7a7a7a"} {
		assert.Equal(t, 1.0, ContrastRatio(hex, hex))
	}
}

func TestContrastRatio_InvalidInput(t *testing.T) {
	assert.Equal(t, 1.0, ContrastRatio("nope", "#ffffff"))
	assert.Equal(t, 1.0, ContrastRatio("#ffffff", ""))
}

func TestContrastRatio_PrimaryBase(t *testing.T) {
	bg := palette.HSLToHex(216, 58, 40)
	assert.Equal(t, "#2b5aa1", bg)
	assert.InDelta(t, 6.82, ContrastRatio("#ffffff", bg), 0.05)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ratio float64
		large bool
		want  Level
	}{
		{ratio: 21, want: LevelAAA},
		{ratio: 7, want: LevelAAA},
		{ratio: 6.99, want: LevelAA},
		{ratio: 4.5, want: LevelAA},
		{ratio: 4.49, want: LevelFail},
		{ratio: 4.5, large: true, want: LevelAAA},
		{ratio: 3, large: true, want: LevelAA},
		{ratio: 2.99, large: true, want: LevelFail},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.ratio, tt.large), "ratio=%v large=%v", tt.ratio, tt.large)
	}
}

func TestCheckTree_SkipsOriginal(t *testing.T) {
	tree := palette.GenerateAll(palette.DefaultFamilies(), nil)
	inds := CheckTree(tree, palette.ModeLight)

	assert.Len(t, inds, len(palette.DefaultFamilies())*(len(palette.Steps)-1))
	for _, ind := range inds {
		assert.NotEqual(t, palette.StepOriginal, ind.Step)
		assert.Equal(t, palette.ModeLight, ind.Mode)
		assert.Equal(t, Classify(ind.On.Ratio, false), ind.On.Level)
	}
}
