package vc5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveletBandValidity(t *testing.T) {
	var w Wavelet
	w.Initialize(4, 4)
	assert.False(t, w.AllBandsValid())
	for b := 0; b < NumBands; b++ {
		assert.False(t, w.IsBandValid(b))
		w.SetBandValid(b)
	}
	assert.True(t, w.AllBandsValid())
}

func TestReconstructLowbandRejectsIncompleteBands(t *testing.T) {
	var w Wavelet
	w.Initialize(2, 2)
	w.SetBandValid(0)
	dest := make([]int16, 4*4)
	err := w.ReconstructLowband(dest, 4, 0, false)
	require.Error(t, err)
}

func TestReconstructLowbandFlatLowpassReproducesConstant(t *testing.T) {
	var w Wavelet
	w.Initialize(2, 2)
	for b := 0; b < NumBands; b++ {
		w.Quant[b] = 1
		w.SetBandValid(b)
	}
	// a flat lowpass band with zero high-frequency bands should
	// reconstruct to a constant plane at the lowpass value.
	for i := range w.Band(0) {
		w.Band(0)[i] = 10
	}

	dest := make([]int16, 4*4)
	require.NoError(t, w.ReconstructLowband(dest, 4, 0, false))
	for _, v := range dest {
		assert.Equal(t, int16(10), v)
	}
}

func TestDequantizeScalesCoefficients(t *testing.T) {
	in := []int16{1, 2, 3}
	out := make([]int16, 3)
	dequantize(out, in, 4)
	assert.Equal(t, []int16{4, 8, 12}, out)

	dequantize(out, in, 0)
	assert.Equal(t, []int16{1, 2, 3}, out)
}

func TestBuildLogTableMonotonic(t *testing.T) {
	tbl := buildLogTable(12)
	require.Equal(t, 1<<logTableBitwidth, len(tbl))
	for i := 1; i < len(tbl); i++ {
		assert.GreaterOrEqual(t, tbl[i], tbl[i-1])
	}
}
