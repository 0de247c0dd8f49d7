package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitPumpMSBReadsAcrossByteBoundary(t *testing.T) {
	// 0b10110010 0b01101100
	pump := NewBitPumpMSB([]byte{0xb2, 0x6c})
	v, err := pump.GetBits(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b1011), v)
	v, err = pump.GetBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b00100110), v)
}

func TestBitPumpMSBPeekThenConsume(t *testing.T) {
	pump := NewBitPumpMSB([]byte{0xff, 0x00})
	peeked, err := pump.PeekBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xff), peeked)
	pump.ConsumeBits(8)
	v, err := pump.GetBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00), v)
}

func TestBitPumpJPEGDestuffs(t *testing.T) {
	// 0xFF 0x00 is a stuffed literal 0xFF byte.
	pump := NewBitPumpJPEG([]byte{0xff, 0x00, 0x12})
	v, err := pump.GetBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xff), v)
	v, err = pump.GetBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12), v)
}

func TestBitPumpJPEGStopsAtMarker(t *testing.T) {
	pump := NewBitPumpJPEG([]byte{0x12, 0xff, 0xd9})
	v, err := pump.GetBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12), v)
	_, err = pump.GetBits(8)
	require.Error(t, err)
	assert.True(t, pump.AtMarker())
}

func TestByteStreamCheckpointRestore(t *testing.T) {
	s := NewByteStream([]byte{1, 2, 3, 4, 5})
	mark := s.Checkpoint()
	b, err := s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(1), b)
	s.Restore(mark)
	b, err = s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(1), b)
}

func TestByteStreamReadUint16(t *testing.T) {
	s := NewByteStream([]byte{0x01, 0x02})
	v, err := s.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), v)
}

func TestByteStreamUnexpectedEOF(t *testing.T) {
	s := NewByteStream([]byte{0x01})
	_, err := s.ReadUint16()
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}
