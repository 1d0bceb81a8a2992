package province

import (
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/ioutil"
	"strings"
)

var errDuplicateColor = errors.New("province: duplicate color in table")

// Province associates a color in the source image with a province ID.
type Province struct {
	ID    uint16
	Name  string
	Color color.NRGBA
}

// Table is the color to province ID lookup used when encoding. Colors match
// exactly on all four channels.
type Table struct {
	provinces []Province
	ids       map[color.NRGBA]uint16
}

// NewTable returns a Table containing the given provinces.
func NewTable(provinces ...Province) (*Table, error) {
	t := &Table{
		ids: make(map[color.NRGBA]uint16, len(provinces)),
	}
	for _, p := range provinces {
		if err := t.Add(p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// DefaultTable returns a copy of the built-in table
func DefaultTable() *Table {
	t, _ := NewTable(
		Province{ID: 0, Color: color.NRGBA{255, 255, 255, 255}},
		Province{ID: 1, Color: color.NRGBA{0, 0, 255, 255}},
		Province{ID: 2, Color: color.NRGBA{255, 255, 0, 255}},
		Province{ID: 3, Color: color.NRGBA{255, 0, 0, 255}},
		Province{ID: 4, Color: color.NRGBA{64, 64, 64, 255}},
		Province{ID: 5, Color: color.NRGBA{0, 255, 0, 255}},
		Province{ID: 6, Color: color.NRGBA{255, 127, 0, 255}},
		Province{ID: 7, Color: color.NRGBA{0, 127, 0, 255}},
		Province{ID: 8, Color: color.NRGBA{127, 0, 0, 255}},
		Province{ID: 9, Color: color.NRGBA{0, 0, 127, 255}},
		Province{ID: 10, Color: color.NRGBA{0, 255, 255, 255}},
		Province{ID: 11, Color: color.NRGBA{87, 0, 127, 255}},
		Province{ID: 12, Color: color.NRGBA{178, 0, 255, 255}},
		Province{ID: 13, Color: color.NRGBA{0, 148, 255, 255}},
		Province{ID: 14, Color: color.NRGBA{255, 0, 110, 255}},
		Province{ID: 15, Color: color.NRGBA{127, 51, 0, 255}},
		Province{ID: 16, Color: color.NRGBA{252, 205, 229, 255}},
		Province{ID: 17, Color: color.NRGBA{128, 128, 128, 255}},
		Province{ID: 18, Color: color.NRGBA{204, 204, 204, 255}},
	)
	return t
}

// Add appends a province to the table. Each color may only be added once.
func (t *Table) Add(p Province) error {
	if _, ok := t.ids[p.Color]; ok {
		return fmt.Errorf("%w: %s", errDuplicateColor, FormatColor(p.Color))
	}
	t.ids[p.Color] = p.ID
	t.provinces = append(t.provinces, p)
	return nil
}

// Len returns the number of colors in the table
func (t *Table) Len() int {
	return len(t.provinces)
}

// Lookup returns the province ID for c.
func (t *Table) Lookup(c color.Color) (uint16, bool) {
	id, ok := t.ids[color.NRGBAModel.Convert(c).(color.NRGBA)]
	return id, ok
}

// The first color registered for each ID
func (t *Table) colorsByID() map[uint16]color.NRGBA {
	colors := make(map[uint16]color.NRGBA)
	for _, p := range t.provinces {
		if _, ok := colors[p.ID]; !ok {
			colors[p.ID] = p.Color
		}
	}
	return colors
}

// Color returns the first color registered for id.
func (t *Table) Color(id uint16) (color.NRGBA, bool) {
	c, ok := t.colorsByID()[id]
	return c, ok
}

// Provinces returns the table entries in the order they were added.
func (t *Table) Provinces() []Province {
	return append([]Province(nil), t.provinces...)
}

// ParseColor parses a color written as #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return color.NRGBA{}, fmt.Errorf("province: invalid color %q", s)
	}

	b, err := hex.DecodeString(s[1:])
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("province: invalid color %q: %v", s, err)
	}

	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// FormatColor returns c as #RRGGBBAA.
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

type xmlTable struct {
	XMLName   xml.Name      `xml:"ColorTable"`
	Provinces []xmlProvince `xml:"Province"`
}

type xmlProvince struct {
	XMLName xml.Name `xml:"Province"`
	ID      uint16   `xml:"ID"`
	Name    string   `xml:"Name,omitempty"`
	Color   string   `xml:"Color"`
}

// ReadXML reads a table from r.
func ReadXML(r io.Reader) (*Table, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var x xmlTable
	if err := xml.Unmarshal(b, &x); err != nil {
		return nil, err
	}

	t, _ := NewTable()
	for _, p := range x.Provinces {
		c, err := ParseColor(p.Color)
		if err != nil {
			return nil, err
		}
		if err := t.Add(Province{ID: p.ID, Name: p.Name, Color: c}); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// WriteXML writes the table to w in the format read by ReadXML.
func (t *Table) WriteXML(w io.Writer) error {
	x := xmlTable{
		Provinces: make([]xmlProvince, 0, len(t.provinces)),
	}
	for _, p := range t.provinces {
		x.Provinces = append(x.Provinces, xmlProvince{
			ID:    p.ID,
			Name:  p.Name,
			Color: FormatColor(p.Color),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	e := xml.NewEncoder(w)
	e.Indent("", "  ")
	if err := e.Encode(x); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}
