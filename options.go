package tagstore

// ReplaceOption configures behavior when replacing a tag.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := tag.Replace(frames,
//	    tagstore.WithPadding(2048),
//	    tagstore.WithUnsynchronisation(),
//	)
type ReplaceOption func(*replaceOptions)

// replaceOptions holds configuration for replacing a tag.
type replaceOptions struct {
	padding    int64 // Explicit padding size in bytes
	hasPadding bool  // Whether padding was set explicitly
	unsynch    bool  // Apply the unsynchronisation scheme to the payload
	version    byte  // ID3v2 major version to write (3 or 4)
}

// defaultReplaceOptions returns the default configuration for a tag.
//
// The written version follows the existing tag when there is one that this
// package can write; files without a tag, or with an ID3v2.2 tag, get 2.4.
func defaultReplaceOptions(t *Tag) *replaceOptions {
	version := byte(4)
	if t.present && t.header.Version >= 3 {
		version = t.header.Version
	}
	return &replaceOptions{version: version}
}

// WithPadding reserves exactly n bytes of zero padding after the payload.
//
// Padding lets the next Replace fit a slightly larger tag without moving
// the audio data. Without this option, Replace keeps the current region
// size when the payload fits and grows to an exact fit when it does not.
//
// Example:
//
//	err := tag.Replace(frames, tagstore.WithPadding(2048))
func WithPadding(n int) ReplaceOption {
	return func(o *replaceOptions) {
		if n < 0 {
			n = 0
		}
		o.padding = int64(n)
		o.hasPadding = true
	}
}

// WithUnsynchronisation applies the unsynchronisation scheme to the payload
// before it is stored and sets the tag-level flag, so players that
// resynchronise on raw byte patterns cannot misfire inside the tag.
//
// Bytes() reverses the scheme transparently on read.
func WithUnsynchronisation() ReplaceOption {
	return func(o *replaceOptions) {
		o.unsynch = true
	}
}

// WithVersion selects the ID3v2 major version to write: 3 or 4.
//
// Replace fails for any other value. The default follows the existing tag,
// falling back to 4.
func WithVersion(version byte) ReplaceOption {
	return func(o *replaceOptions) {
		o.version = version
	}
}
