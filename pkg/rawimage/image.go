// Package rawimage implements the mutable pixel buffer shared by both
// decompressors: a reference-counted handle (Image) around an
// allocation (imageData) that tracks crop geometry, bad pixels, a
// dither-aware lookup table, and per-image warnings.
package rawimage

import (
	"fmt"
	"sync"

	"github.com/jpfielding/rawspeed.go/pkg/point"
)

// DataType is the sample representation backing an Image.
type DataType int

const (
	TypeU16 DataType = iota
	TypeF32
)

// MaxDim bounds the largest uncropped dimension New will accept,
// a safety valve against a corrupt header claiming an absurd image size.
const MaxDim = 1 << 16

// ImageMetaData carries the ancillary per-image metadata the decoders
// populate from the bitstream but that isn't itself pixel data.
type ImageMetaData struct {
	PixelAspectRatio float64
	WBCoeffs         [4]float64
	FujiRotationPos  uint32
	Subsampling      point.Point
	Make, Model      string
	CanonicalMake    string
	CanonicalModel   string
	ISOSpeed         int
}

// imageData is the actual pixel allocation. It is never used directly
// by callers — always through an Image handle — so that sharing via
// BlitFrom / subFrame composes correctly with the refcount.
type imageData struct {
	ErrorLog

	mu          sync.Mutex
	refCount    int
	dataType    DataType
	dim         point.Point // cropped dimension, in pixels
	uncropped   point.Point
	offset      point.Point // crop offset into the uncropped buffer
	pitch       int         // bytes per row of the uncropped buffer
	padding     int         // bytes of padding after each row
	cpp         int         // components per pixel
	bpp         int         // bytes per component
	data        []byte

	isCFA            bool
	cfa              ColorFilterArray
	blackLevel       int
	blackLevelSep    [4]int
	whitePoint       int

	badPixelMu        sync.Mutex
	badPixelPositions []uint32 // x | y<<16
	badPixelMap       []byte
	badPixelMapPitch  int

	ditherScale bool
	table       *tableLookUp

	metadata ImageMetaData
}

// Image is a reference-counted handle onto an imageData allocation.
// Copying an Image (via Clone) shares the same underlying buffer,
// mirroring the original's RawImage smart-pointer semantics: many
// handles, one allocation, released when the last handle drops it.
type Image struct {
	data *imageData
}

// New allocates a fresh image of the given cropped dimension. Uncropped
// dimension and crop offset start out equal to dim and the zero point
// respectively; call SubFrame afterwards to crop further.
func New(dim point.Point, dataType DataType, cpp int) (Image, error) {
	if dim.X <= 0 || dim.Y <= 0 {
		return Image{}, fmt.Errorf("%w: non-positive dimension %v", ErrValidation, dim)
	}
	if dim.X > MaxDim || dim.Y > MaxDim {
		return Image{}, fmt.Errorf("%w: dimension %v exceeds max %d", ErrResourceExhaustion, dim, MaxDim)
	}
	if cpp <= 0 || cpp > 4 {
		return Image{}, fmt.Errorf("%w: invalid components-per-pixel %d", ErrValidation, cpp)
	}

	bpp := 2
	if dataType == TypeF32 {
		bpp = 4
	}

	d := &imageData{
		refCount:   1,
		dataType:   dataType,
		dim:        dim,
		uncropped:  dim,
		cpp:        cpp,
		bpp:        bpp,
		isCFA:      cpp == 1,
		blackLevel: -1,
		whitePoint: 65536,
		ditherScale: true,
	}
	d.createData()
	return Image{data: d}, nil
}

func (d *imageData) createData() {
	rowBytes := d.cpp * d.bpp * d.uncropped.X
	d.pitch = rowBytes
	d.data = make([]byte, d.pitch*d.uncropped.Y)
}

// Clone returns a new handle sharing the same allocation, incrementing
// the reference count.
func (img Image) Clone() Image {
	img.data.mu.Lock()
	img.data.refCount++
	img.data.mu.Unlock()
	return img
}

// Release decrements the reference count. The Go garbage collector
// reclaims the backing array once every handle and slice view into it
// is gone; Release exists so callers can mirror the original's
// ownership discipline and reason about when a buffer is still shared.
func (img Image) Release() {
	img.data.mu.Lock()
	img.data.refCount--
	img.data.mu.Unlock()
}

// RefCount reports how many live handles share this allocation.
func (img Image) RefCount() int {
	img.data.mu.Lock()
	defer img.data.mu.Unlock()
	return img.data.refCount
}

func (img Image) Dim() point.Point          { return img.data.dim }
func (img Image) UncroppedDim() point.Point { return img.data.uncropped }
func (img Image) CropOffset() point.Point   { return img.data.offset }
func (img Image) Cpp() int                  { return img.data.cpp }
func (img Image) Bpp() int                  { return img.data.bpp }
func (img Image) DataType() DataType        { return img.data.dataType }
func (img Image) Pitch() int                { return img.data.pitch }

func (img Image) CFA() ColorFilterArray      { return img.data.cfa }
func (img Image) SetCFA(cfa ColorFilterArray) { img.data.cfa = cfa }
func (img Image) IsCFA() bool                { return img.data.isCFA }
func (img Image) SetIsCFA(v bool)            { img.data.isCFA = v }

func (img Image) BlackLevel() int     { return img.data.blackLevel }
func (img Image) SetBlackLevel(v int) { img.data.blackLevel = v }
func (img Image) WhitePoint() int     { return img.data.whitePoint }
func (img Image) SetWhitePoint(v int) { img.data.whitePoint = v }

func (img Image) Metadata() *ImageMetaData { return &img.data.metadata }

func (img Image) ErrorLogger() *ErrorLog { return &img.data.ErrorLog }

// SubFrame crops the visible rectangle without reallocating; the
// uncropped buffer keeps every row and column, only the cropped
// dimension and offset change.
func (img Image) SubFrame(crop point.Rectangle) error {
	full := point.Rectangle{Dim: img.data.uncropped}
	if !full.Contains(crop) {
		return fmt.Errorf("%w: crop %v outside uncropped %v", ErrValidation, crop, full)
	}
	img.data.offset = crop.Pos
	img.data.dim = crop.Dim
	return nil
}

// offsetBytes returns the byte offset of pixel (x, y) in uncropped
// buffer coordinates.
func (d *imageData) offsetBytes(x, y int) int {
	return y*d.pitch + x*d.cpp*d.bpp
}

// GetU16 reads one component of a cropped-coordinate pixel from a
// uint16 image. It is bounds-checked and intended for setup/debug use,
// not the hot decode loop (which writes through Set16()).
func (img Image) GetU16(x, y, component int) uint16 {
	d := img.data
	ax, ay := x+d.offset.X, y+d.offset.Y
	off := d.offsetBytes(ax, ay) + component*d.bpp
	return uint16(d.data[off]) | uint16(d.data[off+1])<<8
}

// SetU16 writes one component of a cropped-coordinate pixel.
func (img Image) SetU16(x, y, component int, value uint16) {
	d := img.data
	ax, ay := x+d.offset.X, y+d.offset.Y
	off := d.offsetBytes(ax, ay) + component*d.bpp
	d.data[off] = byte(value)
	d.data[off+1] = byte(value >> 8)
}

// At16 reads the raw uint16 element at uncropped (row, col), where col
// is a component-addressed column (pixel*cpp + component) — the same
// indexing an Array2DRef<uint16_t> over the uncropped buffer gives.
// Used by decompressors whose inner loop addresses pixels this way.
func (img Image) At16(row, col int) uint16 {
	d := img.data
	off := row*d.pitch + col*2
	return uint16(d.data[off]) | uint16(d.data[off+1])<<8
}

// Set16 writes the raw uint16 element at uncropped (row, col); see At16.
func (img Image) Set16(row, col int, v uint16) {
	d := img.data
	off := row*d.pitch + col*2
	d.data[off] = byte(v)
	d.data[off+1] = byte(v >> 8)
}

// Row returns the uncropped-coordinate byte slice for row y, sized to
// exactly one pitch. RowU16/PutRowU16 and the row-range workers go
// through this; the decompressors write single elements via Set16.
func (img Image) Row(y int) []byte {
	d := img.data
	start := y * d.pitch
	return d.data[start : start+d.pitch]
}

// RowU16 is Row reinterpreted as a uint16 slice, for TypeU16 images.
func (img Image) RowU16(y int) []uint16 {
	raw := img.Row(y)
	out := make([]uint16, len(raw)/2)
	for i := range out {
		out[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
	}
	return out
}

// PutRowU16 writes a full uncropped row back from a uint16 slice.
func (img Image) PutRowU16(y int, row []uint16) {
	raw := img.Row(y)
	for i, v := range row {
		raw[2*i] = byte(v)
		raw[2*i+1] = byte(v >> 8)
	}
}

// ClearArea zeroes (or fills with value) every byte in the given
// uncropped-coordinate rectangle.
func (img Image) ClearArea(area point.Rectangle, value byte) {
	d := img.data
	rowBytes := area.Dim.X * d.cpp * d.bpp
	for y := area.Pos.Y; y < area.Pos.Y+area.Dim.Y; y++ {
		start := y*d.pitch + area.Pos.X*d.cpp*d.bpp
		row := d.data[start : start+rowBytes]
		for i := range row {
			row[i] = value
		}
	}
}

// BlitFrom copies a size-rectangle of pixels from src (at srcPos) into
// img (at destPos), both given in uncropped coordinates.
func BlitFrom(dst, src Image, srcPos, size, destPos point.Point) error {
	if dst.data.cpp != src.data.cpp || dst.data.bpp != src.data.bpp {
		return fmt.Errorf("%w: blit between incompatible images", ErrValidation)
	}
	rowBytes := size.X * dst.data.cpp * dst.data.bpp
	for row := 0; row < size.Y; row++ {
		srcStart := (srcPos.Y+row)*src.data.pitch + srcPos.X*src.data.cpp*src.data.bpp
		dstStart := (destPos.Y+row)*dst.data.pitch + destPos.X*dst.data.cpp*dst.data.bpp
		copy(dst.data.data[dstStart:dstStart+rowBytes], src.data.data[srcStart:srcStart+rowBytes])
	}
	return nil
}

// ExpandBorder replicates the outermost valid row/column of validData
// into the uncropped border around it, so edge-handling code (VC-5's
// wavelet boundary extension in particular) never has to special-case
// reads just outside the known-good region.
func (img Image) ExpandBorder(validData point.Rectangle) {
	d := img.data
	full := point.Point{X: d.uncropped.X, Y: d.uncropped.Y}

	// Expand left/right edges first so the subsequent top/bottom pass
	// also replicates the corners.
	if validData.Pos.X > 0 {
		for y := validData.Pos.Y; y < validData.Pos.Y+validData.Dim.Y; y++ {
			src := img.Row(y)[validData.Pos.X*d.cpp*d.bpp : (validData.Pos.X+1)*d.cpp*d.bpp]
			for x := 0; x < validData.Pos.X; x++ {
				copy(img.Row(y)[x*d.cpp*d.bpp:(x+1)*d.cpp*d.bpp], src)
			}
		}
	}
	rightEdge := validData.Pos.X + validData.Dim.X
	if rightEdge < full.X {
		lastCol := rightEdge - 1
		for y := validData.Pos.Y; y < validData.Pos.Y+validData.Dim.Y; y++ {
			src := img.Row(y)[lastCol*d.cpp*d.bpp : (lastCol+1)*d.cpp*d.bpp]
			for x := rightEdge; x < full.X; x++ {
				copy(img.Row(y)[x*d.cpp*d.bpp:(x+1)*d.cpp*d.bpp], src)
			}
		}
	}
	if validData.Pos.Y > 0 {
		src := img.Row(validData.Pos.Y)
		for y := 0; y < validData.Pos.Y; y++ {
			copy(img.Row(y), src)
		}
	}
	bottomEdge := validData.Pos.Y + validData.Dim.Y
	if bottomEdge < full.Y {
		src := img.Row(bottomEdge - 1)
		for y := bottomEdge; y < full.Y; y++ {
			copy(img.Row(y), src)
		}
	}
}
