// Package cr2 implements the CR2 lossless-JPEG decompressor: Canon's
// per-slice, per-component Huffman-coded prediction scheme, including
// its four subsampling layouts and the frame-width predictor reset
// that has no justification beyond "that's what the encoder does".
//
// The original RawSpeed implementation specializes decompressN_X_Y as
// a compile-time template over (N_COMP, X_S_F, Y_S_F) to get a
// monomorphic inner loop per format. Go has no equivalent zero-cost
// specialization convention in this codebase, so the four formats
// share one runtime-parameterized loop; the per-format arithmetic and
// the predictor-reset rule are carried over unchanged.
package cr2

import (
	"fmt"

	"github.com/jpfielding/rawspeed.go/pkg/huffman"
	"github.com/jpfielding/rawspeed.go/pkg/point"
	"github.com/jpfielding/rawspeed.go/pkg/rawimage"
)

// MaxWidth and MaxHeight bound the image dimensions CR2 is known to
// ever produce; a header claiming more than this is corrupt.
const (
	MaxWidth  = 19440
	MaxHeight = 5920
)

// Format is the (componentCount, xSamplingFactor, ySamplingFactor)
// tuple selecting one of CR2's four supported layouts.
type Format struct {
	NComp int
	XSF   int
	YSF   int
}

var validFormats = []Format{
	{3, 2, 2}, // sRaw1/mRaw
	{3, 2, 1}, // sRaw2/sRaw
	{2, 1, 1},
	{4, 1, 1},
}

func (f Format) valid() bool {
	for _, v := range validFormats {
		if v == f {
			return true
		}
	}
	return false
}

func (f Format) subSampled() bool {
	return f.XSF != 1 || f.YSF != 1
}

// Slicing describes how the entropy-coded stream is split into
// independently-decodable vertical slices.
type Slicing struct {
	NumSlices      int
	SliceWidth     int
	LastSliceWidth int
}

// WidthOfSlice returns the pixel-group width of slice i.
func (s Slicing) WidthOfSlice(i int) int {
	if i == s.NumSlices-1 {
		return s.LastSliceWidth
	}
	return s.SliceWidth
}

// TotalWidth returns the sum of every slice's width.
func (s Slicing) TotalWidth() int {
	if s.NumSlices == 0 {
		return 0
	}
	return (s.NumSlices-1)*s.SliceWidth + s.LastSliceWidth
}

// PerComponentRecipe pairs a component's full-decode Huffman table
// with the predictor value the first pixel group of the frame is
// seeded from; every later frame row is re-seeded from the row above.
type PerComponentRecipe struct {
	HT       *huffman.Table
	InitPred uint16
}

// Decompressor decodes one CR2 entropy-coded scan into an already
// allocated rawimage.Image.
type Decompressor struct {
	img     rawimage.Image
	format  Format
	frame   point.Point // unsliced frame size; X advances by XSF per pixel group
	slicing Slicing
	rec     []PerComponentRecipe
	input   []byte
}

// New validates its arguments the way the constructor in the original
// does, up front, before any bytes are decoded.
func New(img rawimage.Image, format Format, frame point.Point, slicing Slicing, rec []PerComponentRecipe, input []byte) (*Decompressor, error) {
	if img.DataType() != rawimage.TypeU16 {
		return nil, fmt.Errorf("%w: cr2 requires a 16-bit image", rawimage.ErrValidation)
	}
	if img.Cpp() != 1 || img.Bpp() != 2 {
		return nil, fmt.Errorf("%w: unexpected cpp=%d bpp=%d", rawimage.ErrValidation, img.Cpp(), img.Bpp())
	}
	dim := img.Dim()
	if dim.X == 0 || dim.Y == 0 || dim.X > MaxWidth || dim.Y > MaxHeight {
		return nil, fmt.Errorf("%w: unexpected image dimensions %v", rawimage.ErrValidation, dim)
	}
	for i := 0; i < slicing.NumSlices; i++ {
		if slicing.WidthOfSlice(i) <= 0 {
			return nil, fmt.Errorf("%w: bad slice width at index %d", rawimage.ErrValidation, i)
		}
	}
	if format.subSampled() == img.IsCFA() {
		return nil, fmt.Errorf("%w: cannot decode subsampled image to CFA data or vice versa", rawimage.ErrValidation)
	}
	if !format.valid() {
		return nil, fmt.Errorf("%w: unknown format %+v", rawimage.ErrValidation, format)
	}
	if len(rec) != format.NComp {
		return nil, fmt.Errorf("%w: %d recipes for %d components", rawimage.ErrValidation, len(rec), format.NComp)
	}
	for i, r := range rec {
		if r.HT == nil {
			return nil, fmt.Errorf("%w: component %d missing huffman table", rawimage.ErrValidation, i)
		}
	}
	return &Decompressor{img: img, format: format, frame: frame, slicing: slicing, rec: rec, input: input}, nil
}

// Decompress runs the single runtime-parameterized decode loop for
// this decompressor's format.
func (d *Decompressor) Decompress() error {
	return d.decompressNXY()
}
