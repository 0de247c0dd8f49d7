// Package vc5 implements GoPro's VC-5 wavelet decompressor: a TLV
// tag/value header stream, four-channel 3-level wavelet pyramids
// entropy-coded with run-length/value pairs, and inverse 5/3-style
// lifting synthesis back to linear samples.
package vc5

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jpfielding/rawspeed.go/pkg/bitio"
	"github.com/jpfielding/rawspeed.go/pkg/point"
	"github.com/jpfielding/rawspeed.go/pkg/rawimage"
)

// NumChannels is the fixed number of Bayer-plane channels VC-5 always
// decodes: two green, one red, one blue.
const NumChannels = 4

const numLevels = 3

// state mirrors the anonymous mVC5 struct in the original: header
// fields accumulated while walking the tag stream before any
// codeblock can be decoded.
type state struct {
	imgWidth, imgHeight     int
	imgFormat               int
	patternWidth, patternHeight int
	cps, bpc                int
	lowpassPrecision        int
	sequenceIdentifier      uuid.UUID
	sequenceNumber          uint32
	quantization            int16
}

// Decoder holds the parsed header and per-channel wavelet pyramids for
// one VC-5 payload.
type Decoder struct {
	bs    *bitio.ByteStream
	state state

	transforms [NumChannels]Transform
	logTable   []uint16
}

// New parses nothing yet beyond wrapping buf; call Decode to walk the
// tag stream and reconstruct the image.
func New(buf []byte) *Decoder {
	return &Decoder{bs: bitio.NewByteStream(buf)}
}

// Decode walks the TLV tag stream, decodes every channel's wavelet
// pyramid, runs final-wavelet synthesis per channel, and writes the
// Bayer-interleaved result into img starting at (offsetX, offsetY).
func (d *Decoder) Decode(img rawimage.Image, offsetX, offsetY int) error {
	currentChannel := -1
	currentSubband := 0

	for d.bs.Len() >= 4 {
		tagRaw, err := d.bs.ReadUint16()
		if err != nil {
			return fmt.Errorf("%w: reading tag: %v", rawimage.ErrUnexpectedEOF, err)
		}
		tag := Tag(int16(tagRaw))

		if tag.IsLarge() {
			size, err := d.bs.ReadUint16()
			if err != nil {
				return fmt.Errorf("%w: reading large chunk size: %v", rawimage.ErrUnexpectedEOF, err)
			}
			payload, err := d.bs.ReadBytes(int(size))
			if err != nil {
				return fmt.Errorf("%w: reading large chunk payload: %v", rawimage.ErrUnexpectedEOF, err)
			}
			if currentChannel < 0 || currentChannel >= NumChannels {
				return fmt.Errorf("%w: codeblock before channel selected", rawimage.ErrMalformedInput)
			}
			level, band := levelAndBandFromSubband(currentSubband)
			w := &d.transforms[currentChannel].Wavelet[level]
			if currentSubband == 0 {
				if err := decodeRawLowband(payload, w); err != nil {
					return err
				}
			} else if err := decodeCodeblock(payload, w, band); err != nil {
				return err
			}
			continue
		}

		value, err := d.bs.ReadUint16()
		if err != nil {
			return fmt.Errorf("%w: reading tag value: %v", rawimage.ErrUnexpectedEOF, err)
		}

		switch tag {
		case TagImageWidth:
			d.state.imgWidth = int(value)
		case TagImageHeight:
			d.state.imgHeight = int(value)
		case TagImageFormat:
			d.state.imgFormat = int(value)
		case TagPatternWidth:
			d.state.patternWidth = int(value)
		case TagPatternHeight:
			d.state.patternHeight = int(value)
		case TagComponentsPerSample:
			d.state.cps = int(value)
		case TagBitsPerComponent:
			d.state.bpc = int(value)
		case TagLowpassPrecision:
			d.state.lowpassPrecision = int(value)
		case TagChannelNumber:
			currentChannel = int(value)
			if currentChannel < 0 || currentChannel >= NumChannels {
				return fmt.Errorf("%w: channel number %d out of range", rawimage.ErrValidation, currentChannel)
			}
			d.ensureLevels(currentChannel)
		case TagSubbandNumber:
			currentSubband = int(value)
		case TagQuantization:
			level, _ := levelAndBandFromSubband(currentSubband)
			d.applyQuantization(currentChannel, level, int16(value))
		case TagImageSequenceNumber:
			d.state.sequenceNumber = uint32(value)
		case TagSequenceIdentifier:
			raw, err := d.bs.ReadBytes(16)
			if err != nil {
				return fmt.Errorf("%w: reading sequence identifier: %v", rawimage.ErrUnexpectedEOF, err)
			}
			id, err := uuid.FromBytes(raw)
			if err == nil {
				d.state.sequenceIdentifier = id
			}
		}
	}

	if d.state.bpc == 0 {
		d.state.bpc = 16
	}
	d.logTable = buildLogTable(d.state.bpc)

	for ch := 0; ch < NumChannels; ch++ {
		if err := d.decodeFinalWavelet(ch, img.WhitePoint()); err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
	}

	return d.assemble(img, offsetX, offsetY)
}

func (d *Decoder) ensureLevels(channel int) {
	t := &d.transforms[channel]
	if t.Wavelet[0].Width != 0 {
		return
	}
	w, h := d.state.imgWidth, d.state.imgHeight
	for lvl := 0; lvl < numLevels; lvl++ {
		w = (w + 1) / 2
		h = (h + 1) / 2
		t.Wavelet[lvl].Initialize(w, h)
	}
}

func (d *Decoder) applyQuantization(channel, level int, q int16) {
	if channel < 0 || channel >= NumChannels {
		return
	}
	w := &d.transforms[channel].Wavelet[level]
	for b := 0; b < NumBands; b++ {
		w.Quant[b] = q
	}
}

// levelAndBandFromSubband translates VC-5's flat subband index (0..9:
// subband 0 is the level-2 lowpass, subbands 1-9 are three high-pass
// bands — LH, HL, HH, i.e. bands 1-3 — per level, ordered coarsest
// level first) into (level, band) coordinates.
func levelAndBandFromSubband(subband int) (level, band int) {
	if subband == 0 {
		return numLevels - 1, 0
	}
	idx := subband - 1
	level = numLevels - 1 - idx/3
	band = idx%3 + 1
	return level, band
}

// decodeFinalWavelet runs inverse lifting synthesis level by level,
// from the smallest (most-decomposed) wavelet up to image resolution,
// feeding each level's reconstructed lowband in as the next level's
// band-0 input — mirroring the original's decodeFinalWavelet pass.
// whitePoint bounds the post-log-curve saturation clamp; a
// non-positive value (caller never set one) falls back to the bpc-wide
// maximum.
func (d *Decoder) decodeFinalWavelet(channel int, whitePoint int) error {
	t := &d.transforms[channel]

	var lowband []int16
	lowPitch := 0
	for lvl := numLevels - 1; lvl >= 0; lvl-- {
		w := &t.Wavelet[lvl]
		if lvl != numLevels-1 {
			copy(w.Band(0), lowband)
		}
		if !w.AllBandsValid() {
			return fmt.Errorf("%w: level %d missing subbands", rawimage.ErrMalformedInput, lvl)
		}
		destW, destH := w.Width*2, w.Height*2
		dest := make([]int16, destW*destH)
		clamp := lvl == 0
		if err := w.ReconstructLowband(dest, destW, t.Prescale[lvl], clamp); err != nil {
			return err
		}
		lowband = dest
		lowPitch = destW
	}
	_ = lowPitch
	applyLogTable(lowband, d.logTable)
	if whitePoint <= 0 {
		whitePoint = (1 << uint(d.state.bpc)) - 1
	}
	clampToWhitePoint(lowband, whitePoint)
	t.reconstructed = lowband
	t.reconstructedWidth = d.state.imgWidth
	return nil
}

// clampToWhitePoint saturates every sample to [0, whitePoint], the
// final step of VC-5 assembly after the log-curve lookup. Each sample
// holds a uint16 log-table output, so it is compared as that uint16.
func clampToWhitePoint(data []int16, whitePoint int) {
	for i, v := range data {
		if int(uint16(v)) > whitePoint {
			data[i] = int16(uint16(whitePoint))
		}
	}
}

// assemble writes each channel's reconstructed plane into img's CFA
// mosaic at (offsetX, offsetY), matching the classic 2x2 Bayer
// channel order this decoder fills the four transforms in: channel 0
// is the first green, 1 is red, 2 is blue, 3 is the second green.
func (d *Decoder) assemble(img rawimage.Image, offsetX, offsetY int) error {
	w, h := d.state.imgWidth, d.state.imgHeight
	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			g1 := d.transforms[0].reconstructed[cy*w+cx]
			r := d.transforms[1].reconstructed[cy*w+cx]
			b := d.transforms[2].reconstructed[cy*w+cx]
			g2 := d.transforms[3].reconstructed[cy*w+cx]

			x := offsetX + 2*cx
			y := offsetY + 2*cy
			img.Set16(y, x, uint16(g1))
			img.Set16(y, x+1, uint16(r))
			img.Set16(y+1, x, uint16(b))
			img.Set16(y+1, x+1, uint16(g2))
		}
	}
	return nil
}

// ImageDim returns the plane dimension (before Bayer expansion) the
// header declared.
func (d *Decoder) ImageDim() point.Point {
	return point.Point{X: d.state.imgWidth, Y: d.state.imgHeight}
}

// SequenceIdentifier returns the 16-byte sequence identifier tag
// surfaced as a UUID via uuid.FromBytes.
func (d *Decoder) SequenceIdentifier() uuid.UUID { return d.state.sequenceIdentifier }
