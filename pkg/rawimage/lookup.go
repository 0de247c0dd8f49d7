package rawimage

// tableLookUp is the per-image 16-bit value remapping table. When
// dither is enabled each entry is packed as base|delta<<16 so the hot
// path can interpolate between two adjacent curve points instead of
// quantizing to one, which is what keeps a steep highlight rolloff
// from banding.
type tableLookUp struct {
	dither bool
	plain  []uint16 // used when dither == false: direct value -> value
	packed []uint32 // used when dither == true: base|delta<<16
}

// newTableLookUp builds a lookup table from a monotonic curve. curve
// must have one entry per possible input sample value (e.g. 65536
// entries for a 16-bit sensor).
func newTableLookUp(curve []uint16, dither bool) *tableLookUp {
	t := &tableLookUp{dither: dither}
	if !dither {
		t.plain = append([]uint16(nil), curve...)
		return t
	}
	packed := make([]uint32, len(curve))
	for i, base := range curve {
		var next uint16
		if i+1 < len(curve) {
			next = curve[i+1]
		} else {
			next = base
		}
		delta := uint32(next) - uint32(base)
		packed[i] = uint32(base) | delta<<16
	}
	t.packed = packed
	return t
}

// identityTableLookUp installs a no-op 16-bit curve, used when a
// camera path needs deterministic dithering behavior even though the
// value itself is not being remapped.
func identityTableLookUp(bpp int) *tableLookUp {
	n := 1 << uint(bpp*8)
	if n > 1<<16 {
		n = 1 << 16
	}
	curve := make([]uint16, n)
	for i := range curve {
		curve[i] = uint16(i)
	}
	return newTableLookUp(curve, true)
}

// lookup applies the table (if any) to value, consuming and updating
// the per-call random state used for dithering. random must start
// from any nonzero seed and is threaded across consecutive calls by
// the caller, exactly like the RawImage dither counter.
func (t *tableLookUp) lookup(value uint16, random *uint32) uint16 {
	if t == nil {
		return value
	}
	if !t.dither {
		return t.plain[value]
	}
	lookup := t.packed[value]
	base := lookup & 0xffff
	delta := lookup >> 16
	r := *random
	pix := base + ((delta*(r&2047) + 1024) >> 12)
	*random = 15700*(r&65535) + (r >> 16)
	return uint16(pix)
}

// InstallCurve scopes curve to a block the way the original's
// RawImageCurveGuard does. Unless uncorrectedRawValues is set it
// installs curve as a dithered table now and the returned closer
// removes the table; with uncorrectedRawValues set it installs nothing
// now and the closer installs curve as a plain (non-dithered) table.
func (img *Image) InstallCurve(curve []uint16, uncorrectedRawValues bool) CurveGuard {
	if !uncorrectedRawValues {
		img.data.table = newTableLookUp(curve, true)
	}
	return func() {
		if uncorrectedRawValues {
			img.data.table = newTableLookUp(curve, false)
		} else {
			img.data.table = nil
		}
	}
}

// CurveGuard is the closer InstallCurve returns; it does not save or
// restore whatever table was installed before InstallCurve ran.
type CurveGuard func()

// InstallIdentityLookup installs a dithered pass-through 16-bit table,
// matching sixteenBitLookup in the original.
func (img *Image) InstallIdentityLookup() {
	img.data.table = identityTableLookUp(img.data.bpp)
}

// ClearLookup removes any installed lookup table.
func (img *Image) ClearLookup() {
	img.data.table = nil
}
