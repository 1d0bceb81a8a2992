/*
Package province implements the province map encoder and decoder.

A province map assigns a 16-bit province ID to every pixel of a color-coded
source image using a Table of exact color matches. The file is written as a
two byte marker of 6 and 0, the width and height as little-endian 16-bit
values, followed by one little-endian 16-bit ID per pixel, row by row from the
top left. There is no compression so the resulting file is always exactly
6 + 2 * width * height bytes in size.
*/
package province

const (
	markerLo   = 6
	markerHi   = 0
	headerSize = 6
	idSize     = 2

	// MaxDimension is the largest width or height that can be stored
	MaxDimension = 1<<16 - 1
)

// Config holds the dimensions of a province map.
type Config struct {
	Width  int
	Height int
}

// Map is a decoded province map.
type Map struct {
	Width  int
	Height int
	IDs    []uint16
}

// At returns the province ID of the pixel at (x, y).
func (m *Map) At(x, y int) uint16 {
	return m.IDs[y*m.Width+x]
}

// Counts returns the number of pixels assigned to each province ID.
func (m *Map) Counts() map[uint16]int {
	counts := make(map[uint16]int)
	for _, id := range m.IDs {
		counts[id]++
	}
	return counts
}
