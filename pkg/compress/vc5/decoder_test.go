package vc5

import (
	"testing"

	"github.com/jpfielding/rawspeed.go/pkg/point"
	"github.com/jpfielding/rawspeed.go/pkg/rawimage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatTransform builds a 3-level pyramid whose every subband is a
// flat, fully-valid, unquantized constant, so synthesis should
// reproduce that constant across the whole reconstructed plane.
func flatTransform(t *testing.T, imgW, imgH int, constant int16) Transform {
	t.Helper()
	var tr Transform
	w, h := imgW, imgH
	for lvl := 0; lvl < numLevels; lvl++ {
		w = (w + 1) / 2
		h = (h + 1) / 2
		tr.Wavelet[lvl].Initialize(w, h)
		for b := 0; b < NumBands; b++ {
			tr.Wavelet[lvl].Quant[b] = 1
			tr.Wavelet[lvl].SetBandValid(b)
		}
		for i := range tr.Wavelet[lvl].Band(0) {
			tr.Wavelet[lvl].Band(0)[i] = constant
		}
	}
	return tr
}

func TestDecodeFinalWaveletReproducesFlatPlane(t *testing.T) {
	d := &Decoder{}
	d.state.imgWidth, d.state.imgHeight = 2, 2
	d.state.bpc = 12
	d.logTable = buildLogTable(12)
	d.transforms[0] = flatTransform(t, 2, 2, 100)

	require.NoError(t, d.decodeFinalWavelet(0, 4095))
	assert.NotEmpty(t, d.transforms[0].reconstructed)
	// synthesis keeps the plane at 100; the log curve then maps every
	// sample to the same table entry.
	for _, v := range d.transforms[0].reconstructed {
		assert.Equal(t, int16(d.logTable[100]), v)
	}
}

func TestDecodeFinalWaveletClampsToWhitePoint(t *testing.T) {
	d := &Decoder{}
	d.state.imgWidth, d.state.imgHeight = 2, 2
	d.state.bpc = 12
	d.logTable = buildLogTable(12)
	d.transforms[0] = flatTransform(t, 2, 2, 4095)

	require.NoError(t, d.decodeFinalWavelet(0, 100))
	for _, v := range d.transforms[0].reconstructed {
		assert.LessOrEqual(t, v, int16(100))
		assert.GreaterOrEqual(t, v, int16(0))
	}
}

func TestAssembleWritesBayerMosaic(t *testing.T) {
	d := &Decoder{}
	d.state.imgWidth, d.state.imgHeight = 1, 1
	for ch := range d.transforms {
		d.transforms[ch].reconstructed = []int16{int16(ch + 1)}
		d.transforms[ch].reconstructedWidth = 1
	}

	img, err := rawimage.New(point.Point{X: 2, Y: 2}, rawimage.TypeU16, 1)
	require.NoError(t, err)

	require.NoError(t, d.assemble(img, 0, 0))
	assert.Equal(t, uint16(1), img.At16(0, 0))
	assert.Equal(t, uint16(2), img.At16(0, 1))
	assert.Equal(t, uint16(3), img.At16(1, 0))
	assert.Equal(t, uint16(4), img.At16(1, 1))
}

func TestLevelAndBandFromSubband(t *testing.T) {
	cases := []struct {
		subband   int
		lvl, band int
	}{
		{0, 2, 0},
		{1, 2, 1},
		{2, 2, 2},
		{3, 2, 3},
		{4, 1, 1},
		{5, 1, 2},
		{6, 1, 3},
		{7, 0, 1},
		{8, 0, 2},
		{9, 0, 3},
	}
	for _, c := range cases {
		lvl, band := levelAndBandFromSubband(c.subband)
		assert.Equal(t, c.lvl, lvl, "subband %d level", c.subband)
		assert.Equal(t, c.band, band, "subband %d band", c.subband)
	}
}
