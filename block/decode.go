package block

import "fmt"

// decodeGeneric is the one routine that implements every public entry
// point in this package, parameterised by the four directives from §4.1:
// end (which side of the call is authoritative for the block's end),
// partial (stop early once output is full, or require an exact finish)
// and dictMode (plain, or a 64 KiB prefix dictionary supplied via dict).
//
// src is the compressed block. output is the region new bytes are
// written into, starting at index 0 (this package's "low_prefix" is
// always output[0] - a separate dict slice stands in for the reference
// decoder's "bytes physically preceding low_prefix in memory", since Go
// slices can't be indexed before their own start). dict may be nil.
//
// Returns the input and output cursor positions reached, plus an error.
// Callers use endResult to pick the cursor their own contract promises:
// output bytes written in endOnInput mode, input bytes consumed in
// endOnOutput mode - matching what DecompressSafe/DecompressFast/
// DecompressSafePartial each promise. Returning both cursors lets a
// caller (DecodeLegacyABI) report how far decoding got even on failure.
func decodeGeneric(src, output, dict []byte, end endCondition, partial earlyEnd, dictMode dictDirective) (ip, op int, err error) {
	dictSize := len(dict)
	checkOffset := end == endOnInput && dictSize < prefix64kSize

	iend := len(src)
	oend := len(output)

	// Empty-output and empty-input special cases (§4.6).
	if end == endOnInput && oend == 0 {
		if iend == 1 && src[0] == 0 {
			return 1, 0, nil
		}
		return 0, 0, fmt.Errorf("%w: empty output requires a single zero byte of input", ErrMalformedInput)
	}
	if end == endOnOutput && oend == 0 {
		if iend >= 1 && src[0] == 0 {
			return 1, 0, nil
		}
		return 0, 0, fmt.Errorf("%w: empty output requires a single zero byte of input", ErrMalformedInput)
	}
	if end == endOnInput && iend == 0 {
		return 0, 0, fmt.Errorf("%w: empty input in safe mode", ErrMalformedInput)
	}

	ip, op = 0, 0
	var done bool

	if fastLoopEnabled() && oend-op >= fastloopSafeDistance {
		ip, op, done, err = runFastLoop(src, output, dict, ip, op, iend, oend, dictSize, end, partial, dictMode, checkOffset)
		if err != nil {
			return ip, op, err
		}
	}

	if !done {
		ip, op, done, err = runSafeLoop(src, output, dict, ip, op, iend, oend, dictSize, end, partial, dictMode, checkOffset)
		if err != nil {
			return ip, op, err
		}
	}

	if partial == decodeFull && !done {
		// The loop only exits without `done` in full mode by falling off
		// its own bounds, which runSafeLoop never allows silently - this
		// is a defensive backstop, not a reachable path.
		return ip, op, fmt.Errorf("%w: decode loop exited without reaching block end", ErrMalformedInput)
	}

	if partial == decodeFull {
		if end == endOnInput && ip != iend {
			return ip, op, fmt.Errorf("%w: %d trailing input bytes", ErrUnderconsumed, iend-ip)
		}
		if end == endOnOutput && op != oend {
			return ip, op, fmt.Errorf("%w: %d bytes short", ErrOverconsumed, oend-op)
		}
	}

	return ip, op, nil
}

func endResult(end endCondition, ip, op int) int {
	if end == endOnInput {
		return op
	}
	return ip
}

// matchPointerValid reports whether a back-reference's source is within
// the legal window (the dictionary plus everything emitted so far).
func matchPointerValid(checkOffset bool, matchIdx, dictSize int) bool {
	if !checkOffset {
		return true
	}
	return matchIdx+dictSize >= 0
}
