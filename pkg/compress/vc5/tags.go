package vc5

// VC-5 encodes its per-channel wavelet data as a stream of 16-bit
// (tag, value) pairs, optionally followed by a variable-length payload
// when the tag is a "large chunk" marker. The tag space here mirrors
// the named-constant-plus-dispatch-loop idiom
// pkg/compress/jpeg2k/markers.go and codestream.go use for JPEG 2000's
// marker segments, generalized from fixed 0xFFxx markers to VC-5's
// signed/unsigned small-int tags.
type Tag int16

const (
	TagChannelCount        Tag = 20
	TagImageWidth          Tag = 21
	TagImageHeight         Tag = 22
	TagPatternWidth         Tag = 24
	TagPatternHeight        Tag = 25
	TagComponentsPerSample  Tag = 26
	TagBitsPerComponent     Tag = 27
	TagChannelNumber        Tag = 30
	TagImageFormat          Tag = 31
	TagSubbandNumber        Tag = 33
	TagQuantization         Tag = 34
	TagLowpassPrecision     Tag = 35
	TagImageSequenceNumber Tag = 40
	TagSequenceIdentifier  Tag = 41 // value field is followed by 16 raw bytes
	TagLargeCodeblock      Tag = -100
)

// IsLarge reports whether tag introduces a variable-length payload
// (a "large chunk") rather than carrying its data in the 16-bit value
// field, mirroring VC-5's convention that negative tags are large
// chunks. The 16-bit field after a large tag is the payload's byte
// count.
func (t Tag) IsLarge() bool {
	return t < 0
}
