package mapgen

import (
	"image"
	"image/color"
	"sort"

	"github.com/bodgit/mapgen/province"
	"github.com/ericpauley/go-quantize/quantize"
)

// Province IDs are 16-bit
const maxProvinces = 1 << 16

func countColors(m image.Image) map[color.NRGBA]int {
	colors := make(map[color.NRGBA]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)]++
		}
	}
	return colors
}

// Group the colors around at most max quantized colors and pick the most
// frequent real color of each group, returned with its own frequency
func quantizeColors(m image.Image, colors map[color.NRGBA]int, max int) map[color.NRGBA]int {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, max), m)

	best := make(map[int]color.NRGBA, len(p))
	for c, n := range colors {
		i := p.Index(c)
		b, ok := best[i]
		if !ok || n > colors[b] || (n == colors[b] && packColor(c) < packColor(b)) {
			best[i] = c
		}
	}

	reduced := make(map[color.NRGBA]int, len(best))
	for _, c := range best {
		reduced[c] = colors[c]
	}
	return reduced
}

// Suggest returns a starting color table for the image m with no more than
// max provinces. Every color in the table occurs in m. If m has too many
// colors they are grouped by quantizing and only the most common color of
// each group is used. The most common color, usually the background, becomes
// province 0.
func Suggest(m image.Image, max int) *province.Table {
	switch {
	case max < 1:
		max = 1
	case max > maxProvinces:
		max = maxProvinces
	}

	colors := countColors(m)
	if len(colors) > max {
		colors = quantizeColors(m, colors, max)
	}

	keys := make([]color.NRGBA, 0, len(colors))
	for c := range colors {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		if colors[keys[i]] != colors[keys[j]] {
			return colors[keys[i]] > colors[keys[j]]
		}
		return packColor(keys[i]) < packColor(keys[j])
	})

	t, _ := province.NewTable()
	for i, c := range keys {
		// Colors are unique map keys so this can't fail
		_ = t.Add(province.Province{ID: uint16(i), Color: c})
	}
	return t
}
