package cr2

import (
	"testing"

	"github.com/jpfielding/rawspeed.go/pkg/huffman"
	"github.com/jpfielding/rawspeed.go/pkg/point"
	"github.com/jpfielding/rawspeed.go/pkg/rawimage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allZeroTable returns a table with a single 1-bit code "0" mapped to
// magnitude class 0, so DecodeDifference always yields 0.
func allZeroTable(t *testing.T) *huffman.Table {
	t.Helper()
	var counts [huffman.MaxCodeLength]int
	counts[0] = 1
	tbl, err := huffman.New(counts, []byte{0})
	require.NoError(t, err)
	return tbl
}

func TestDecompress2_1_1AllZeroDifference(t *testing.T) {
	img, err := rawimage.New(point.Point{X: 4, Y: 2}, rawimage.TypeU16, 1)
	require.NoError(t, err)

	ht := allZeroTable(t)
	rec := []PerComponentRecipe{
		{HT: ht, InitPred: 100},
		{HT: ht, InitPred: 200},
	}

	format := Format{NComp: 2, XSF: 1, YSF: 1}
	frame := point.Point{X: 2, Y: 2}
	slicing := Slicing{NumSlices: 1, SliceWidth: 4, LastSliceWidth: 4}

	input := []byte{0x00, 0x00}

	dec, err := New(img, format, frame, slicing, rec, input)
	require.NoError(t, err)
	require.NoError(t, dec.Decompress())

	for row := 0; row < 2; row++ {
		assert.Equal(t, uint16(100), img.At16(row, 0))
		assert.Equal(t, uint16(200), img.At16(row, 1))
		assert.Equal(t, uint16(100), img.At16(row, 2))
		assert.Equal(t, uint16(200), img.At16(row, 3))
	}
}

func TestNewRejectsWrongRecipeCount(t *testing.T) {
	img, err := rawimage.New(point.Point{X: 4, Y: 2}, rawimage.TypeU16, 1)
	require.NoError(t, err)
	ht := allZeroTable(t)
	_, err = New(img, Format{NComp: 2, XSF: 1, YSF: 1}, point.Point{X: 2, Y: 2},
		Slicing{NumSlices: 1, SliceWidth: 4, LastSliceWidth: 4},
		[]PerComponentRecipe{{HT: ht, InitPred: 0}}, []byte{0})
	require.ErrorIs(t, err, rawimage.ErrValidation)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	img, err := rawimage.New(point.Point{X: 4, Y: 2}, rawimage.TypeU16, 1)
	require.NoError(t, err)
	ht := allZeroTable(t)
	_, err = New(img, Format{NComp: 5, XSF: 1, YSF: 1}, point.Point{X: 2, Y: 2},
		Slicing{NumSlices: 1, SliceWidth: 4, LastSliceWidth: 4},
		[]PerComponentRecipe{{HT: ht}, {HT: ht}, {HT: ht}, {HT: ht}, {HT: ht}}, []byte{0})
	require.ErrorIs(t, err, rawimage.ErrValidation)
}

func TestSlicingWidthOfSliceAndTotalWidth(t *testing.T) {
	s := Slicing{NumSlices: 3, SliceWidth: 10, LastSliceWidth: 4}
	assert.Equal(t, 10, s.WidthOfSlice(0))
	assert.Equal(t, 10, s.WidthOfSlice(1))
	assert.Equal(t, 4, s.WidthOfSlice(2))
	assert.Equal(t, 24, s.TotalWidth())
}
