package province

import (
	"encoding/binary"
	"errors"
	"image"
	"io"
)

var (
	// ErrBadMarker is returned when the data does not start with the marker bytes
	ErrBadMarker = errors.New("province: invalid marker")
	// ErrNotEnough is returned when the data ends before every pixel is read
	ErrNotEnough = errors.New("province: not enough map data")
	// ErrTooMuch is returned when data remains after the last pixel
	ErrTooMuch = errors.New("province: too much map data")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	config Config
	m      *Map

	tmp [headerSize]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return err
	}

	if d.tmp[0] != markerLo || d.tmp[1] != markerHi {
		return ErrBadMarker
	}

	d.config.Width = int(binary.LittleEndian.Uint16(d.tmp[2:]))
	d.config.Height = int(binary.LittleEndian.Uint16(d.tmp[4:]))

	return nil
}

// The header alone can claim up to 8 GiB of IDs so only allocate as rows
// are actually read
func (d *decoder) readIDs() error {
	m := &Map{
		Width:  d.config.Width,
		Height: d.config.Height,
	}

	row := make([]byte, d.config.Width*idSize)
	for y := 0; y < d.config.Height; y++ {
		if err := readFull(d.r, row); err != nil {
			return err
		}
		for x := 0; x < d.config.Width; x++ {
			m.IDs = append(m.IDs, binary.LittleEndian.Uint16(row[x*idSize:]))
		}
	}

	d.m = m

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	if configOnly {
		return nil
	}

	if err := d.readIDs(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	if n, err := r.Read(d.tmp[:1]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return err
		}
		return ErrTooMuch
	}

	return nil
}

// Decode reads a province map from r.
func Decode(r io.Reader) (*Map, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.m, nil
}

// DecodeConfig returns the dimensions of a province map without decoding the
// entire map.
func DecodeConfig(r io.Reader) (Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Config{}, err
	}
	return d.config, nil
}

// Image renders the map using the first color t has for each province ID.
// IDs missing from t are left transparent.
func (m *Map) Image(t *Table) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))

	colors := t.colorsByID()

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if c, ok := colors[m.At(x, y)]; ok {
				img.SetNRGBA(x, y, c)
			}
		}
	}

	return img
}
