package block

import "fmt"

// runFastLoop decodes whole sequences while the output cursor has at
// least fastloopSafeDistance bytes of headroom before oend. It checks
// that headroom once per sequence rather than bounding every literal and
// match copy individually - the trade the reference makes with its wide
// wildcopy overshoot. This package's copy primitives never overshoot, so
// the headroom here exists to keep this loop simple (no partial-mode
// clamping, no last-literals tail logic) rather than to license unsafe
// writes; see the design note on wildcopy discipline in doc.go.
//
// Critically, it never commits a literal copy on the assumption that a
// match necessarily follows: the block's final sequence is always a
// match-less literal run, and the only way to tell in advance is to
// require the same margin the reference's fast path does (32 bytes of
// both input and output headroom for endOnInput, 8 bytes of output
// headroom for endOnOutput) before treating "read an offset next" as
// safe. Whenever that margin isn't there, it hands the sequence back to
// runSafeLoop untouched, at a clean token boundary - which is also how
// it reaches the block's actual end correctly.
//
// done reports whether decoding reached a legitimate end while still
// inside the fast loop (only possible in partial mode, when a clamped
// match copy exactly fills output); callers must not invoke runSafeLoop
// afterward when done is true.
func runFastLoop(src, output, dict []byte, ip, op, iend, oend, dictSize int, end endCondition, partial earlyEnd, dictMode dictDirective, checkOffset bool) (int, int, bool, error) {
	for oend-op >= fastloopSafeDistance {
		tokenIP := ip

		if end == endOnInput && ip >= iend {
			return ip, op, false, fmt.Errorf("%w: truncated token", ErrMalformedInput)
		}
		if ip >= len(src) {
			return ip, op, false, fmt.Errorf("%w: truncated token", ErrMalformedInput)
		}

		token := src[ip]
		ip++
		litLen := int(token >> mlBits)

		if litLen == runMask {
			limit := len(src)
			if end == endOnInput {
				limit = iend - runMask
			}
			extra, newIP, verr := readVariableLength(src, ip, limit, end == endOnInput, end == endOnInput)
			ip = newIP
			if verr == varLenInitial {
				return ip, op, false, fmt.Errorf("%w: truncated literal-length extension", ErrMalformedInput)
			}
			if verr == varLenOverflow {
				return ip, op, false, fmt.Errorf("%w: literal-length extension overflow", ErrMalformedInput)
			}
			litLen += extra
			if end == endOnInput && (wraps(op, litLen) || wraps(ip, litLen)) {
				return ip, op, false, fmt.Errorf("%w: literal length overflow", ErrMalformedInput)
			}
		}

		cpy := op + litLen
		fitsFastLiteral := false
		if end == endOnInput {
			fitsFastLiteral = cpy <= oend-32 && ip+litLen <= iend-32
		} else {
			fitsFastLiteral = cpy <= oend-8
		}
		if !fitsFastLiteral {
			// Might be the block's terminal literal run, or simply too
			// close to either end to trust unconditionally - either way
			// this is runSafeLoop's job. Rewind to the token and stop.
			return tokenIP, op, false, nil
		}

		if ip+litLen > len(src) {
			return ip, op, false, fmt.Errorf("%w: literal run runs past input", ErrMalformedInput)
		}
		copyLiterals(output, op, src, ip, litLen)
		ip += litLen
		op = cpy

		if ip+2 > len(src) {
			return ip, op, false, fmt.Errorf("%w: missing match offset", ErrMalformedInput)
		}
		offset := int(src[ip]) | int(src[ip+1])<<8
		ip += 2
		if offset == 0 {
			return ip, op, false, fmt.Errorf("%w: zero match offset", ErrMalformedInput)
		}
		matchIdx := op - offset

		if checkOffset && !matchPointerValid(checkOffset, matchIdx, dictSize) {
			return ip, op, false, fmt.Errorf("%w: match references before start of buffer", ErrOffsetOutOfRange)
		}
		if dictMode != withPrefix64k && matchIdx < 0 {
			return ip, op, false, fmt.Errorf("%w: match references before start of buffer", ErrOffsetOutOfRange)
		}

		matchLen := int(token & mlMask)
		if matchLen == mlMask {
			extra, newIP, verr := readVariableLength(src, ip, iend-lastLiterals+1, end == endOnInput, end == endOnInput)
			ip = newIP
			if verr == varLenInitial {
				return ip, op, false, fmt.Errorf("%w: truncated match-length extension", ErrMalformedInput)
			}
			if verr == varLenOverflow {
				return ip, op, false, fmt.Errorf("%w: match-length extension overflow", ErrMalformedInput)
			}
			matchLen += extra
			if end == endOnInput && wraps(op, matchLen) {
				return ip, op, false, fmt.Errorf("%w: match length overflow", ErrMalformedInput)
			}
		}
		matchLen += minMatch

		if op+matchLen >= oend-fastloopSafeDistance {
			// The offset is already consumed, so there's no clean token
			// boundary left to rewind to - finish this one match exactly
			// as runSafeLoop would, then let the loop's own headroom
			// check decide whether another fast iteration is safe.
			newOp, done, err := applyMatch(output, dict, op, oend, partial, matchIdx, offset, matchLen)
			if err != nil {
				return ip, op, false, err
			}
			op = newOp
			if done {
				return ip, op, true, nil
			}
			continue
		}

		copyMatch(output, dict, op, matchIdx, offset, matchLen)
		op += matchLen
	}

	return ip, op, false, nil
}

// wraps reports whether base+length overflows an int, the Go analogue of
// the reference's uptrval pointer-wrap check.
func wraps(base, length int) bool {
	return base+length < base
}
