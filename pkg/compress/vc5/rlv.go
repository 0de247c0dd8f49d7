package vc5

import (
	"errors"
	"fmt"

	"github.com/jpfielding/rawspeed.go/pkg/bitio"
	"github.com/jpfielding/rawspeed.go/pkg/huffman"
)

// MagnitudeBits is the fixed width of a non-zero RLV coefficient's
// magnitude field.
const MagnitudeBits = 12

// escapeRunBits is the width of the explicit run-length field an
// escape-run code is followed by, for runs longer than the 14 literal
// run-length symbols cover.
const escapeRunBits = 16

// The 17 symbols of VC-5's fixed RLV alphabet: 14 literal short
// zero-run lengths, an escape for longer runs, a single-nonzero-value
// marker, and a dedicated band-end code. Symbol IDs double as the
// HUFFVAL byte values fed to huffman.New, in the exact order their
// canonical codes are assigned (shortest code first).
const (
	rlvRun1 byte = iota
	rlvRun2
	rlvRun3
	rlvRun4
	rlvRun5
	rlvRun6
	rlvValue
	rlvRun7
	rlvRun8
	rlvRun9
	rlvRun10
	rlvRun11
	rlvRun12
	rlvEscapeRun
	rlvBandEnd
	rlvRun13
	rlvRun14
)

// runLengths maps a literal run-length symbol to the zero-run count it
// represents.
var runLengths = map[byte]int{
	rlvRun1: 1, rlvRun2: 2, rlvRun3: 3, rlvRun4: 4, rlvRun5: 5, rlvRun6: 6,
	rlvRun7: 7, rlvRun8: 8, rlvRun9: 9, rlvRun10: 10, rlvRun11: 11,
	rlvRun12: 12, rlvRun13: 13, rlvRun14: 14,
}

// rlvTable is VC-5's fixed RLV code-length table (BITS) and alphabet
// (HUFFVAL), built once at startup the same way CR2's per-component
// Huffman tables are built from (counts, values) — except here the
// alphabet is fixed by the VC-5 spec rather than supplied per image.
// Code lengths: 1 symbol of length 2, 2 of length 3, 4 of length 4, 4
// of length 5, 4 of length 6, 2 of length 7 (17 total), assigned to
// symbols in the order above so the most common short runs and the
// value marker get the shortest codes.
var rlvTable = mustBuildRLVTable()

func mustBuildRLVTable() *huffman.Table {
	var counts [16]int
	counts[1] = 1 // length 2
	counts[2] = 2 // length 3
	counts[3] = 4 // length 4
	counts[4] = 4 // length 5
	counts[5] = 4 // length 6
	counts[6] = 2 // length 7
	values := []byte{
		rlvRun1,
		rlvRun2, rlvRun3,
		rlvRun4, rlvRun5, rlvRun6, rlvValue,
		rlvRun7, rlvRun8, rlvRun9, rlvRun10,
		rlvRun11, rlvRun12, rlvEscapeRun, rlvBandEnd,
		rlvRun13, rlvRun14,
	}
	t, err := huffman.New(counts, values)
	if err != nil {
		panic(fmt.Sprintf("vc5: building RLV table: %v", err))
	}
	return t
}

// ErrBandEnd is returned by getRLV when the dedicated band-end code is
// decoded, signalling the subband's entropy-coded payload is complete.
var ErrBandEnd = errors.New("vc5: band-end code")

// getRLV reads one run-length/value pair from the entropy-coded
// subband stream via VC-5's fixed RLV codebook: most codes select a
// literal short zero-run length, one escapes to an explicit 16-bit run
// count for longer runs, one introduces a single nonzero coefficient
// (sign bit plus a fixed-width magnitude), and one marks the end of
// the band. This matches the original's getRLV signature
// (BitPumpMSB*, *value, *count) translated to a (value, count, error)
// return; ErrBandEnd surfaces the terminator instead of a count.
func getRLV(pump bitio.BitPump) (value int, count int, err error) {
	sym, err := rlvTable.Decode(pump)
	if err != nil {
		return 0, 0, fmt.Errorf("vc5: decoding RLV symbol: %w", err)
	}

	switch byte(sym) {
	case rlvBandEnd:
		return 0, 0, ErrBandEnd
	case rlvValue:
		sign, err := pump.GetBits(1)
		if err != nil {
			return 0, 0, fmt.Errorf("vc5: reading RLV sign: %w", err)
		}
		mag, err := pump.GetBits(MagnitudeBits)
		if err != nil {
			return 0, 0, fmt.Errorf("vc5: reading RLV magnitude: %w", err)
		}
		v := int(mag)
		if sign == 1 {
			v = -v
		}
		return v, 1, nil
	case rlvEscapeRun:
		n, err := pump.GetBits(escapeRunBits)
		if err != nil {
			return 0, 0, fmt.Errorf("vc5: reading escaped run length: %w", err)
		}
		return 0, int(n), nil
	default:
		run, ok := runLengths[byte(sym)]
		if !ok {
			return 0, 0, fmt.Errorf("vc5: unrecognized RLV symbol %d", sym)
		}
		return 0, run, nil
	}
}
