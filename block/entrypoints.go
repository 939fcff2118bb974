package block

import "fmt"

// DecompressSafe decodes a single LZ4 block from src into output, trusting
// neither buffer's contents: every read and write is checked against the
// actual slice bounds (§1, decompress_safe). It returns the number of
// bytes written to output. The whole of src must be consumed; anything
// left over is reported as ErrUnderconsumed.
func DecompressSafe(src, output []byte) (int, error) {
	_, op, err := decodeGeneric(src, output, nil, endOnInput, decodeFull, noDict)
	return op, err
}

// DecompressSafePartial behaves like DecompressSafe but stops the moment
// output has been filled, even if src still has sequences left undecoded
// (decompress_safe_partial). It returns the number of bytes written,
// which may be less than len(output) if src ran out first.
func DecompressSafePartial(src, output []byte) (int, error) {
	_, op, err := decodeGeneric(src, output, nil, endOnInput, decodePartial, noDict)
	return op, err
}

// DecompressFast decodes a single LZ4 block from src into output, trusting
// src to be well-formed and output to be sized exactly to the original,
// uncompressed length (decompress_fast). dict is an optional 64 KiB
// prefix dictionary; pass nil for none. Because src isn't bounds-checked
// against its own length, a malformed or truncated src can make this
// function read past its end or return a wrong byte count - callers that
// cannot vouch for src should use DecompressSafe instead.
//
// When dict is non-nil it must be exactly 64 KiB: offsets up to 65535 are
// only guaranteed to stay within dict+output without an explicit range
// check when the dictionary is the full prefix window the format assumes.
func DecompressFast(src, output, dict []byte) (int, error) {
	dictMode := noDict
	if dict != nil {
		if len(dict) != prefix64kSize {
			return 0, fmt.Errorf("%w: prefix dictionary must be exactly %d bytes, got %d", ErrMalformedInput, prefix64kSize, len(dict))
		}
		dictMode = withPrefix64k
	}
	ip, _, err := decodeGeneric(src, output, dict, endOnOutput, decodeFull, dictMode)
	return ip, err
}

// DecodeLegacyABI decodes src into output using DecompressSafe's
// semantics, but reports its result using the C decoder's return
// convention (§7): the byte count written on success, or
// -(bytesConsumed)-1 on failure, where bytesConsumed is how far the input
// cursor reached before the error. This exists purely to let callers
// ported from that ABI keep their existing branch-on-sign logic; new code
// should call DecompressSafe directly.
func DecodeLegacyABI(src, output []byte) int {
	ip, op, err := decodeGeneric(src, output, nil, endOnInput, decodeFull, noDict)
	if err != nil {
		return -ip - 1
	}
	return op
}
