// Package huffman implements the canonical Huffman tables both CR2
// (per-component difference codes) and, indirectly, VC-5's RLV tables
// are built from: an 8-bit fast-lookup array backed by a bit-by-bit
// fallback for longer codes, plus the signed full-decode difference
// reader CR2 actually drives its prediction loop with.
package huffman

import (
	"fmt"

	"github.com/jpfielding/rawspeed.go/pkg/bitio"
)

// MaxCodeLength is the longest canonical code this package supports,
// matching the 16-bit BITS/HUFFVAL convention JPEG-family codecs use.
const MaxCodeLength = 16

// Table is a canonical Huffman table built from per-length code counts
// and the symbol values assigned to codes in length-then-value order.
type Table struct {
	counts [MaxCodeLength + 1]int // counts[n] = number of codes of length n
	values []byte

	codes  []uint16
	sizes  []int
	lookup [256]int16 // size<<8|value, or -1 if no 8-bit-or-shorter code matches
}

// New builds a canonical Huffman table from BITS (counts[1..16], a
// 16-entry array counting codes of each length) and HUFFVAL (values,
// one byte per code in canonical order).
func New(counts [MaxCodeLength]int, values []byte) (*Table, error) {
	t := &Table{values: values}
	for i, c := range counts {
		t.counts[i+1] = c
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total != len(values) {
		return nil, fmt.Errorf("huffman: %d codes declared but %d values given", total, len(values))
	}

	t.sizes = make([]int, total)
	t.codes = make([]uint16, total)

	k := 0
	for length := 1; length <= MaxCodeLength; length++ {
		for i := 0; i < t.counts[length]; i++ {
			t.sizes[k] = length
			k++
		}
	}

	code := uint16(0)
	si := 0
	if total > 0 {
		si = t.sizes[0]
	}
	for k := 0; k < total; k++ {
		for t.sizes[k] > si {
			code <<= 1
			si++
		}
		t.codes[k] = code
		code++
	}

	for i := range t.lookup {
		t.lookup[i] = -1
	}
	for k := 0; k < total; k++ {
		size := t.sizes[k]
		if size > 8 {
			continue
		}
		base := t.codes[k] << uint(8-size)
		count := 1 << uint(8-size)
		for i := 0; i < count; i++ {
			t.lookup[int(base)+i] = int16(size)<<8 | int16(t.values[k])
		}
	}
	return t, nil
}

// Decode reads one canonical code from pump and returns its associated
// symbol value. Exported for callers that drive their own alphabet
// through a canonical table instead of CR2's JPEG "SSSS"
// magnitude-class convention (e.g. VC-5's RLV codebook).
func (t *Table) Decode(pump bitio.BitPump) (int, error) {
	return t.decodeSymbol(pump)
}

// decodeSymbol reads one canonical code from pump and returns its
// associated value (here, the JPEG "SSSS" magnitude-class nibble).
func (t *Table) decodeSymbol(pump bitio.BitPump) (int, error) {
	peek, err := pump.PeekBits(8)
	if err == nil {
		entry := t.lookup[peek&0xff]
		if entry >= 0 {
			size := int(entry >> 8)
			value := int(entry & 0xff)
			pump.ConsumeBits(size)
			return value, nil
		}
	}

	code := 0
	for size := 1; size <= MaxCodeLength; size++ {
		bit, err := pump.GetBits(1)
		if err != nil {
			return 0, err
		}
		code = code<<1 | int(bit)

		start := 0
		for i := 1; i < size; i++ {
			start += t.counts[i]
		}
		for i := 0; i < t.counts[size]; i++ {
			if int(t.codes[start+i]) == code {
				return int(t.values[start+i]), nil
			}
		}
	}
	return 0, fmt.Errorf("huffman: no code matched after %d bits (code=%b)", MaxCodeLength, code)
}

// Extend sign-extends a ssss-bit magnitude read as an unsigned value
// into the signed difference it encodes, the standard JPEG convention:
// values in the lower half of the ssss-bit range are negative.
func Extend(bits uint32, ssss int) int {
	if ssss == 0 {
		return 0
	}
	half := 1 << uint(ssss-1)
	v := int(bits)
	if v < half {
		return v - (1<<uint(ssss) - 1)
	}
	return v
}

// DecodeDifference performs CR2's "full decode": read a canonical code
// whose value is a magnitude class (ssss), then read that many
// magnitude bits and sign-extend them into a signed prediction
// difference.
func (t *Table) DecodeDifference(pump bitio.BitPump) (int, error) {
	ssss, err := t.decodeSymbol(pump)
	if err != nil {
		return 0, err
	}
	if ssss == 0 {
		return 0, nil
	}
	if ssss > 16 {
		return 0, fmt.Errorf("huffman: magnitude class %d out of range", ssss)
	}
	bits, err := pump.GetBits(ssss)
	if err != nil {
		return 0, err
	}
	return Extend(bits, ssss), nil
}
