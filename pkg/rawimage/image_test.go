package rawimage

import (
	"testing"

	"github.com/jpfielding/rawspeed.go/pkg/point"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageRejectsBadDimensions(t *testing.T) {
	_, err := New(point.Point{X: 0, Y: 10}, TypeU16, 1)
	require.ErrorIs(t, err, ErrValidation)

	_, err = New(point.Point{X: MaxDim + 1, Y: 10}, TypeU16, 1)
	require.ErrorIs(t, err, ErrResourceExhaustion)
}

func TestSetGetU16RoundTrip(t *testing.T) {
	img, err := New(point.Point{X: 4, Y: 4}, TypeU16, 1)
	require.NoError(t, err)

	img.SetU16(2, 1, 0, 1234)
	assert.Equal(t, uint16(1234), img.GetU16(2, 1, 0))
}

func TestSubFrameCropsWithoutCopy(t *testing.T) {
	img, err := New(point.Point{X: 10, Y: 10}, TypeU16, 1)
	require.NoError(t, err)

	require.NoError(t, img.SubFrame(point.Rectangle{Pos: point.Point{X: 2, Y: 2}, Dim: point.Point{X: 4, Y: 4}}))
	assert.Equal(t, point.Point{X: 4, Y: 4}, img.Dim())
	assert.Equal(t, point.Point{X: 10, Y: 10}, img.UncroppedDim())

	// writing through the cropped coordinate space lands at the
	// expected uncropped offset.
	img.SetU16(0, 0, 0, 42)
	assert.Equal(t, uint16(42), img.GetU16(0, 0, 0))
	assert.Equal(t, uint16(42), img.At16(2, 2))
}

func TestSubFrameRejectsOutOfBounds(t *testing.T) {
	img, err := New(point.Point{X: 10, Y: 10}, TypeU16, 1)
	require.NoError(t, err)
	err = img.SubFrame(point.Rectangle{Pos: point.Point{X: 8, Y: 8}, Dim: point.Point{X: 4, Y: 4}})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRefCounting(t *testing.T) {
	img, err := New(point.Point{X: 2, Y: 2}, TypeU16, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, img.RefCount())

	clone := img.Clone()
	assert.Equal(t, 2, img.RefCount())
	clone.Release()
	assert.Equal(t, 1, img.RefCount())
}

func TestBadPixelFixInterpolatesFromNeighbors(t *testing.T) {
	img, err := New(point.Point{X: 8, Y: 8}, TypeU16, 1)
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetU16(x, y, 0, 1000)
		}
	}
	img.SetU16(4, 4, 0, 0)
	img.AddBadPixel(4, 4)
	img.FixBadPixels()
	assert.Equal(t, uint16(1000), img.GetU16(4, 4, 0))
}

func TestExpandBorderReplicatesEdges(t *testing.T) {
	img, err := New(point.Point{X: 6, Y: 6}, TypeU16, 1)
	require.NoError(t, err)
	for x := 1; x < 5; x++ {
		img.SetU16(x, 1, 0, 77)
	}
	img.ExpandBorder(point.Rectangle{Pos: point.Point{X: 1, Y: 1}, Dim: point.Point{X: 4, Y: 4}})
	assert.Equal(t, uint16(77), img.GetU16(0, 1, 0))
}

func TestLookupTableDitherDeterministic(t *testing.T) {
	curve := make([]uint16, 256)
	for i := range curve {
		curve[i] = uint16(i * 2)
	}
	tbl := newTableLookUp(curve, true)
	var r1, r2 uint32 = 12345, 12345
	a := tbl.lookup(100, &r1)
	b := tbl.lookup(100, &r2)
	assert.Equal(t, a, b, "same seed must produce same dithered output")
}
