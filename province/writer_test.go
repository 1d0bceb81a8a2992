package province

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImage(w, h int, pixels ...color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, c := range pixels {
		m.SetNRGBA(i%w, i/w, c)
	}
	return m
}

func encode(t *testing.T, m image.Image, o *Options) []byte {
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m, o))
	return b.Bytes()
}

func TestEncode(t *testing.T) {
	tables := []struct {
		name  string
		image image.Image
		want  []byte
	}{
		{
			"known colors",
			newImage(2, 1, color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 255, 255}),
			[]byte{6, 0, 2, 0, 1, 0, 0, 0, 1, 0},
		},
		{
			"unknown color",
			newImage(1, 1, color.NRGBA{1, 2, 3, 255}),
			[]byte{6, 0, 1, 0, 1, 0, 0, 0},
		},
		{
			"row major",
			newImage(2, 2,
				color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 255, 0, 255},
				color.NRGBA{0, 0, 127, 255}, color.NRGBA{204, 204, 204, 255}),
			[]byte{6, 0, 2, 0, 2, 0, 3, 0, 5, 0, 9, 0, 18, 0},
		},
		{
			"transparent is not white",
			newImage(1, 1, color.NRGBA{255, 255, 255, 0}),
			[]byte{6, 0, 1, 0, 1, 0, 0, 0},
		},
		{
			"empty",
			image.NewNRGBA(image.Rect(0, 0, 0, 0)),
			[]byte{6, 0, 0, 0, 0, 0},
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, encode(t, table.image, nil))
		})
	}
}

func TestEncodeLength(t *testing.T) {
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 1, 1),
		image.Rect(0, 0, 7, 3),
		image.Rect(0, 0, 256, 1),
		image.Rect(0, 0, 3, 300),
	} {
		b := encode(t, image.NewNRGBA(r), nil)
		w, h := r.Dx(), r.Dy()

		assert.Len(t, b, headerSize+idSize*w*h)
		assert.Equal(t, []byte{6, 0}, b[0:2])
		assert.Equal(t, []byte{byte(w), byte(w >> 8)}, b[2:4])
		assert.Equal(t, []byte{byte(h), byte(h >> 8)}, b[4:6])
	}
}

func TestEncodeWidth256(t *testing.T) {
	b := encode(t, image.NewNRGBA(image.Rect(0, 0, 256, 1)), nil)
	assert.Equal(t, []byte{0, 1}, b[2:4])
	assert.Equal(t, []byte{1, 0}, b[4:6])
}

func TestEncodeEveryDefaultColor(t *testing.T) {
	table := DefaultTable()
	provinces := table.Provinces()

	m := image.NewNRGBA(image.Rect(0, 0, len(provinces), 1))
	for x, p := range provinces {
		m.SetNRGBA(x, 0, p.Color)
	}

	b := encode(t, m, &Options{Table: table})
	for x, p := range provinces {
		o := headerSize + idSize*x
		assert.Equal(t, []byte{byte(p.ID), byte(p.ID >> 8)}, b[o:o+2], "pixel %d", x)
	}
}

func TestEncodeOffsetBounds(t *testing.T) {
	m := image.NewNRGBA(image.Rect(10, 20, 12, 21))
	m.SetNRGBA(10, 20, color.NRGBA{0, 0, 255, 255})
	m.SetNRGBA(11, 20, color.NRGBA{255, 255, 0, 255})

	assert.Equal(t, []byte{6, 0, 2, 0, 1, 0, 1, 0, 2, 0}, encode(t, m, nil))
}

func TestEncodeOpaqueRGBA(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 1, 1))
	m.SetRGBA(0, 0, color.RGBA{0, 148, 255, 255})

	assert.Equal(t, []byte{6, 0, 1, 0, 1, 0, 13, 0}, encode(t, m, nil))
}

func TestEncodeCustomTable(t *testing.T) {
	table, err := NewTable(Province{ID: 0x1234, Color: color.NRGBA{1, 2, 3, 255}})
	require.NoError(t, err)

	m := newImage(2, 1, color.NRGBA{1, 2, 3, 255}, color.NRGBA{0, 0, 255, 255})

	assert.Equal(t, []byte{6, 0, 2, 0, 1, 0, 0x34, 0x12, 0, 0}, encode(t, m, &Options{Table: table}))
}

func TestEncodeUnknown(t *testing.T) {
	m := newImage(3, 1, color.NRGBA{1, 2, 3, 255}, color.NRGBA{0, 0, 255, 255}, color.NRGBA{4, 5, 6, 7})

	var points []image.Point
	var colors []color.NRGBA
	b := encode(t, m, &Options{
		Unknown: func(p image.Point, c color.NRGBA) {
			points = append(points, p)
			colors = append(colors, c)
		},
	})

	assert.Equal(t, []byte{6, 0, 3, 0, 1, 0, 0, 0, 1, 0, 0, 0}, b)
	assert.Equal(t, []image.Point{{0, 0}, {2, 0}}, points)
	assert.Equal(t, []color.NRGBA{{1, 2, 3, 255}, {4, 5, 6, 7}}, colors)
}

func TestEncodeStrict(t *testing.T) {
	m := newImage(2, 1, color.NRGBA{0, 0, 255, 255}, color.NRGBA{1, 2, 3, 255})

	err := Encode(new(bytes.Buffer), m, &Options{Strict: true})
	require.Error(t, err)

	var uce *UnknownColorError
	require.True(t, errors.As(err, &uce))
	assert.Equal(t, image.Pt(1, 0), uce.Point)
	assert.Equal(t, color.NRGBA{1, 2, 3, 255}, uce.Color)
	assert.Equal(t, "province: unknown color #010203FF at 1,0", err.Error())
}

func TestEncodeTooLarge(t *testing.T) {
	// Bounds are checked before any pixel is read
	m := image.NewNRGBA(image.Rectangle{})
	m.Rect = image.Rect(0, 0, MaxDimension+1, 1)

	b := new(bytes.Buffer)
	assert.Equal(t, ErrTooLarge, Encode(b, m, nil))
	assert.Zero(t, b.Len())
}

func TestEncodeDeterministic(t *testing.T) {
	m := newImage(3, 2,
		color.NRGBA{255, 127, 0, 255}, color.NRGBA{9, 9, 9, 255}, color.NRGBA{127, 51, 0, 255},
		color.NRGBA{252, 205, 229, 255}, color.NRGBA{128, 128, 128, 255}, color.NRGBA{87, 0, 127, 255})

	assert.Equal(t, encode(t, m, nil), encode(t, m, nil))
}
