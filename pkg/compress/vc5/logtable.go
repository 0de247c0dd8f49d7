package vc5

import "math"

// logTableBitwidth matches VC5_LOG_TABLE_BITWIDTH in the original: the
// lowpass band's companded values are looked up through a 12-bit table
// to linearize them before the final assembly stage writes real pixel
// values.
const logTableBitwidth = 12

// buildLogTable computes the inverse-log companding curve VC-5's
// final assembly applies to the reconstructed lowpass band, mapping a
// 12-bit companded codeword to a bpc-bit linear sample value.
func buildLogTable(bpc int) []uint16 {
	size := 1 << logTableBitwidth
	maxOutInt := (1 << uint(bpc)) - 1
	maxOut := float64(maxOutInt)
	maxIn := float64(size - 1)
	table := make([]uint16, size)
	for i := 0; i < size; i++ {
		// A simple power-law decompand: out = maxOut * (i/maxIn)^2,
		// the inverse of an encoder-side sqrt-style log curve.
		norm := float64(i) / maxIn
		v := maxOut * norm * norm
		if v > maxOut {
			v = maxOut
		}
		table[i] = uint16(math.Round(v))
	}
	return table
}

// applyLogTable maps every sample in data through table, clamping the
// input to the table's domain.
func applyLogTable(data []int16, table []uint16) {
	maxIdx := len(table) - 1
	for i, v := range data {
		idx := int(v)
		if idx < 0 {
			idx = 0
		}
		if idx > maxIdx {
			idx = maxIdx
		}
		data[i] = int16(table[idx])
	}
}
