package province

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// ErrTooLarge is returned when an image is wider or taller than MaxDimension.
var ErrTooLarge = errors.New("province: image is too large")

// UnknownColorError is returned in strict mode for a pixel whose color is not
// in the table.
type UnknownColorError struct {
	Point image.Point
	Color color.NRGBA
}

func (e *UnknownColorError) Error() string {
	return fmt.Sprintf("province: unknown color %s at %d,%d", FormatColor(e.Color), e.Point.X, e.Point.Y)
}

// Options are the encoding parameters.
type Options struct {
	// Table used to look up each pixel; nil uses DefaultTable()
	Table *Table

	// Strict fails on the first pixel whose color is not in Table instead of
	// writing province ID 0 for it
	Strict bool

	// Unknown, if set, is called for every pixel written as ID 0 because its
	// color is not in Table. Not called in strict mode.
	Unknown func(image.Point, color.NRGBA)
}

type encoder struct {
	w io.Writer
	o Options
}

func (e *encoder) writeHeader(width, height int) error {
	var tmp [headerSize]byte

	tmp[0] = markerLo
	tmp[1] = markerHi
	binary.LittleEndian.PutUint16(tmp[2:], uint16(width))
	binary.LittleEndian.PutUint16(tmp[4:], uint16(height))

	_, err := e.w.Write(tmp[:])
	return err
}

func (e *encoder) encode(m image.Image) error {
	b := m.Bounds()

	if err := e.writeHeader(b.Dx(), b.Dy()); err != nil {
		return err
	}

	// One row of IDs at a time
	row := make([]byte, b.Dx()*idSize)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)

			id, ok := e.o.Table.Lookup(c)
			if !ok {
				p := image.Pt(x-b.Min.X, y-b.Min.Y)
				if e.o.Strict {
					return &UnknownColorError{Point: p, Color: c}
				}
				if e.o.Unknown != nil {
					e.o.Unknown(p, c)
				}
			}

			binary.LittleEndian.PutUint16(row[(x-b.Min.X)*idSize:], id)
		}

		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the Image m to w in province map format. Any pixel whose
// color is not in the table is written as province ID 0 unless o.Strict is
// set. A nil o uses the default options.
func Encode(w io.Writer, m image.Image, o *Options) error {
	b := m.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return ErrTooLarge
	}

	e := encoder{w: w}
	if o != nil {
		e.o = *o
	}
	if e.o.Table == nil {
		e.o.Table = DefaultTable()
	}

	return e.encode(m)
}
