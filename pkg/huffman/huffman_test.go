package huffman

import (
	"testing"

	"github.com/jpfielding/rawspeed.go/pkg/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a tiny canonical table: symbol 0 -> code "0", symbol 1 -> code "10",
// symbol 2 -> code "11".
func tinyTable(t *testing.T) *Table {
	t.Helper()
	var counts [MaxCodeLength]int
	counts[0] = 1 // one 1-bit code
	counts[1] = 2 // two 2-bit codes
	tbl, err := New(counts, []byte{0, 1, 2})
	require.NoError(t, err)
	return tbl
}

func TestDecodeSymbolShortCodes(t *testing.T) {
	tbl := tinyTable(t)

	pump := bitio.NewBitPumpMSB([]byte{0b0_10_11_000})
	v, err := tbl.decodeSymbol(pump)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	v, err = tbl.decodeSymbol(pump)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = tbl.decodeSymbol(pump)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestExtendSignExtension(t *testing.T) {
	assert.Equal(t, 0, Extend(0, 0))
	assert.Equal(t, -1, Extend(0, 1))
	assert.Equal(t, 1, Extend(1, 1))
	assert.Equal(t, -3, Extend(0, 2))
	assert.Equal(t, 3, Extend(3, 2))
}

func TestDecodeDifferenceRoundTrip(t *testing.T) {
	var counts [MaxCodeLength]int
	counts[1] = 1 // single 2-bit code (ssss=3) at symbol value 3
	tbl, err := New(counts, []byte{3})
	require.NoError(t, err)

	// code "00" (2 bits) selects ssss=3, then 3 magnitude bits "011" -> Extend(3,3) = -4
	pump := bitio.NewBitPumpMSB([]byte{0b00_011_000})
	diff, err := tbl.DecodeDifference(pump)
	require.NoError(t, err)
	assert.Equal(t, -4, diff)
}

func TestNewRejectsCountMismatch(t *testing.T) {
	var counts [MaxCodeLength]int
	counts[0] = 2
	_, err := New(counts, []byte{1})
	require.Error(t, err)
}
