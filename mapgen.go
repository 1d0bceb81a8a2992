/*
Package mapgen is a library for generating the binary province map used by a
map-based game from an artist-authored, color-coded image.
*/
package mapgen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sort"

	"github.com/bodgit/mapgen/province"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultInput is the source image read when no other is given
	DefaultInput = "map.png"
	// DefaultOutput is the province map written when no other is given
	DefaultOutput = "map.bin"
)

type Generator struct {
	table  *province.Table
	strict bool
	logger logrus.FieldLogger
}

// New returns a Generator using the given table, or the built-in table if
// nil. If strict is set, unknown colors are an error rather than being
// written as province 0.
func New(table *province.Table, strict bool, logger logrus.FieldLogger) *Generator {
	if table == nil {
		table = province.DefaultTable()
	}
	return &Generator{
		table:  table,
		strict: strict,
		logger: logger,
	}
}

// Table returns the color table in use
func (g *Generator) Table() *province.Table {
	return g.table
}

func decodeImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", file, err)
	}
	return m, nil
}

// Encode reads the image file and returns it as a province map.
func (g *Generator) Encode(file string) ([]byte, error) {
	m, err := decodeImage(file)
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	g.logger.Debugf("Read %s, %dx%d pixels", file, b.Dx(), b.Dy())

	unknown := make(map[color.NRGBA]int)
	buf := new(bytes.Buffer)
	if err := province.Encode(buf, m, &province.Options{
		Table:  g.table,
		Strict: g.strict,
		Unknown: func(_ image.Point, c color.NRGBA) {
			unknown[c]++
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to encode %s: %w", file, err)
	}

	if len(unknown) > 0 {
		g.warnUnknown(file, unknown)
	}

	return buf.Bytes(), nil
}

func (g *Generator) warnUnknown(file string, unknown map[color.NRGBA]int) {
	colors := make([]color.NRGBA, 0, len(unknown))
	pixels := 0
	for c, n := range unknown {
		colors = append(colors, c)
		pixels += n
	}
	sort.Slice(colors, func(i, j int) bool {
		if unknown[colors[i]] != unknown[colors[j]] {
			return unknown[colors[i]] > unknown[colors[j]]
		}
		return packColor(colors[i]) < packColor(colors[j])
	})

	g.logger.WithFields(logrus.Fields{
		"pixels": pixels,
		"colors": len(colors),
	}).Warnf("%s contains colors not in the table, using province 0", file)

	for _, c := range colors {
		g.logger.Debugf("Unknown color %s, %d pixels", province.FormatColor(c), unknown[c])
	}
}

// Write writes the province map to file, replacing it if it exists.
func (g *Generator) Write(b []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	g.logger.Debugf("Wrote %s, %d bytes, CRC %s", file, len(b), crc(b))

	return nil
}

// Generate encodes the image in to a province map written to out.
func (g *Generator) Generate(in, out string) error {
	b, err := g.Encode(in)
	if err != nil {
		return err
	}
	return g.Write(b, out)
}

// Inspect reads the province map in file.
func Inspect(file string) (*province.Map, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := province.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", file, err)
	}
	return m, nil
}

// Render writes the province map m to file as a PNG image using the first
// color t has for each province ID.
func Render(m *province.Map, t *province.Table, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := png.Encode(f, m.Image(t)); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func packColor(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}
