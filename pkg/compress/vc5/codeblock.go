package vc5

import (
	"errors"
	"fmt"

	"github.com/jpfielding/rawspeed.go/pkg/bitio"
	"github.com/jpfielding/rawspeed.go/pkg/rawimage"
)

// decodeCodeblock fills one subband of one wavelet level by reading
// RLV pairs until every coefficient has been written, the Go
// counterpart of decodeLargeCodeblock scanning one "large chunk"
// payload in the original. Encountering the band-end code before the
// band is full is malformed input; a band-end reached exactly when
// full, or the payload simply running out right after, are both
// treated as the normal terminator.
func decodeCodeblock(buf []byte, w *Wavelet, band int) error {
	pump := bitio.NewBitPumpMSB(buf)
	coeffs := w.Band(band)
	i := 0
	for i < len(coeffs) {
		value, count, err := getRLV(pump)
		if err != nil {
			if errors.Is(err, ErrBandEnd) {
				return fmt.Errorf("%w: band %d band-end code after only %d of %d coefficients",
					rawimage.ErrMalformedInput, band, i, len(coeffs))
			}
			return fmt.Errorf("vc5: decoding band %d at coefficient %d: %w", band, i, err)
		}
		if count <= 0 {
			return fmt.Errorf("vc5: zero-length run decoding band %d at coefficient %d", band, i)
		}
		if i+count > len(coeffs) {
			return fmt.Errorf("vc5: run of %d overruns band %d (only %d coefficients left)", count, band, len(coeffs)-i)
		}
		for n := 0; n < count; n++ {
			coeffs[i] = int16(value)
			i++
		}
	}
	w.SetBandValid(band)
	return nil
}

// decodeRawLowband reads the coarsest level's lowpass subband (subband
// 0) directly: 16-bit signed coefficients, big-endian, no entropy
// coding, per spec. lowpassPrecision governs the linear range the
// values occupy but not their on-the-wire width.
func decodeRawLowband(buf []byte, w *Wavelet) error {
	coeffs := w.Band(0)
	need := len(coeffs) * 2
	if len(buf) < need {
		return fmt.Errorf("%w: raw lowpass band needs %d bytes, got %d", rawimage.ErrUnexpectedEOF, need, len(buf))
	}
	for i := range coeffs {
		coeffs[i] = int16(uint16(buf[2*i])<<8 | uint16(buf[2*i+1]))
	}
	w.SetBandValid(0)
	return nil
}
