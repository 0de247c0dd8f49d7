// Package bitio implements the byte- and bit-level cursors both
// decompressors read their compressed payload through: a slice-backed
// ByteStream with save/restore checkpoints, an MSB-first bit pump for
// VC-5's tag/value stream, and a JPEG-stuffed bit pump for CR2's
// entropy-coded scan data.
package bitio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnexpectedEOF marks a read that ran past the end of the buffer.
var ErrUnexpectedEOF = errors.New("bitio: unexpected end of input")

// ByteStream is a random-access cursor over an in-memory buffer, with
// checkpoint/restore so a caller can speculatively read ahead (e.g.
// while probing a slice boundary) and back out cleanly.
type ByteStream struct {
	buf []byte
	pos int
}

// NewByteStream wraps buf for sequential reading starting at offset 0.
// buf is not copied; callers must not mutate it while a ByteStream is
// in use.
func NewByteStream(buf []byte) *ByteStream {
	return &ByteStream{buf: buf}
}

// Len returns the number of unread bytes remaining.
func (s *ByteStream) Len() int { return len(s.buf) - s.pos }

// Pos returns the current byte offset.
func (s *ByteStream) Pos() int { return s.pos }

// Checkpoint returns an opaque mark that Restore can rewind to.
func (s *ByteStream) Checkpoint() int { return s.pos }

// Restore rewinds the cursor to a mark returned by Checkpoint.
func (s *ByteStream) Restore(mark int) { s.pos = mark }

// Skip advances the cursor by n bytes without reading them.
func (s *ByteStream) Skip(n int) error {
	if n < 0 || s.pos+n > len(s.buf) {
		return fmt.Errorf("%w: skip %d bytes at offset %d of %d", ErrUnexpectedEOF, n, s.pos, len(s.buf))
	}
	s.pos += n
	return nil
}

// ReadByte reads and returns a single byte.
func (s *ByteStream) ReadByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, fmt.Errorf("%w: read byte at offset %d", ErrUnexpectedEOF, s.pos)
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

// ReadUint16 reads a big-endian uint16.
func (s *ByteStream) ReadUint16() (uint16, error) {
	if s.pos+2 > len(s.buf) {
		return 0, fmt.Errorf("%w: read uint16 at offset %d", ErrUnexpectedEOF, s.pos)
	}
	v := binary.BigEndian.Uint16(s.buf[s.pos:])
	s.pos += 2
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (s *ByteStream) ReadUint32() (uint32, error) {
	if s.pos+4 > len(s.buf) {
		return 0, fmt.Errorf("%w: read uint32 at offset %d", ErrUnexpectedEOF, s.pos)
	}
	v := binary.BigEndian.Uint32(s.buf[s.pos:])
	s.pos += 4
	return v, nil
}

// ReadBytes returns the next n bytes as a sub-slice of the underlying
// buffer (no copy) and advances the cursor past them.
func (s *ByteStream) ReadBytes(n int) ([]byte, error) {
	if n < 0 || s.pos+n > len(s.buf) {
		return nil, fmt.Errorf("%w: read %d bytes at offset %d", ErrUnexpectedEOF, n, s.pos)
	}
	b := s.buf[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

// PeekByte returns the next byte without advancing the cursor.
func (s *ByteStream) PeekByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, fmt.Errorf("%w: peek byte at offset %d", ErrUnexpectedEOF, s.pos)
	}
	return s.buf[s.pos], nil
}

// Remaining returns every byte not yet consumed, as a sub-slice (no
// copy) of the underlying buffer.
func (s *ByteStream) Remaining() []byte {
	return s.buf[s.pos:]
}
