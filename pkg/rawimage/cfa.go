package rawimage

import "github.com/jpfielding/rawspeed.go/pkg/point"

// CFAColor names one of the four sensor photosite colors a Bayer (or
// X-Trans) color filter array can assign to a position.
type CFAColor int

const (
	CFAUnknown CFAColor = iota
	CFARed
	CFAGreen
	CFABlue
	CFAGreen2 // second green, distinguished for white-balance purposes
)

func (c CFAColor) String() string {
	switch c {
	case CFARed:
		return "red"
	case CFAGreen:
		return "green"
	case CFABlue:
		return "blue"
	case CFAGreen2:
		return "green2"
	default:
		return "unknown"
	}
}

// ColorFilterArray describes the repeating color pattern laid over the
// sensor, e.g. the classic 2x2 Bayer RGGB tile.
type ColorFilterArray struct {
	Size    point.Point
	Colors  []CFAColor // row-major, len == Size.Area()
}

// NewBayerCFA builds a 2x2 CFA from its four positions given in
// row-major order (top-left, top-right, bottom-left, bottom-right).
func NewBayerCFA(tl, tr, bl, br CFAColor) ColorFilterArray {
	return ColorFilterArray{
		Size:   point.Point{X: 2, Y: 2},
		Colors: []CFAColor{tl, tr, bl, br},
	}
}

// ColorAt returns the CFA color for an absolute sensor position,
// wrapping around the repeating tile.
func (c ColorFilterArray) ColorAt(x, y int) CFAColor {
	if c.Size.X == 0 || c.Size.Y == 0 {
		return CFAUnknown
	}
	col := x % c.Size.X
	row := y % c.Size.Y
	return c.Colors[row*c.Size.X+col]
}
