package block

import "errors"

// Error kinds returned by the decoder. They're sentinel values so callers
// can use errors.Is; decodeGeneric also wraps them with fmt.Errorf for a
// human-readable position when one is available.
var (
	// ErrMalformedInput covers variable-length overflow, a literal or
	// match length whose cursor arithmetic would wrap, an input cursor
	// that would cross input end in safe mode, a match ending inside the
	// last-literals window, a malformed empty block, or input exhausted
	// before the block terminator in full mode.
	ErrMalformedInput = errors.New("lz4block: malformed input")

	// ErrOffsetOutOfRange is returned when a match's back-reference
	// points before the earliest legal source (match + dictSize < lowPrefix).
	ErrOffsetOutOfRange = errors.New("lz4block: match offset out of range")

	// ErrOutputOverflow is returned when a literal run or match would
	// write past the end of the caller's output buffer.
	ErrOutputOverflow = errors.New("lz4block: output would overflow capacity")

	// ErrUnderconsumed is returned by DecompressSafe (full mode) when the
	// block decodes successfully but does not consume the entire input.
	ErrUnderconsumed = errors.New("lz4block: input not fully consumed")

	// ErrOverconsumed is returned by DecompressFast (full mode) when the
	// block decodes successfully but does not fill the entire output.
	ErrOverconsumed = errors.New("lz4block: output not fully written")
)
