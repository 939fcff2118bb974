package block

import "fmt"

// runSafeLoop is the universal fallback (§2, §4.4): the two-stage
// shortcut for the common case, and a fully bounds-checked general path
// for everything else, including partial-mode early termination. It
// always runs for the tail of a block, and for the whole block whenever
// runFastLoop wasn't entered or wasn't enabled.
//
// done reports whether the block reached a legitimate end (a terminal
// literal run, or output filled in partial mode). err is non-nil exactly
// when decoding must stop with an error.
func runSafeLoop(src, output, dict []byte, ip, op, iend, oend, dictSize int, end endCondition, partial earlyEnd, dictMode dictDirective, checkOffset bool) (int, int, bool, error) {
	maxLL := 8
	if end == endOnInput {
		maxLL = 14
	}
	shortIEnd := iend - maxLL - 2
	shortOEnd := oend - maxLL - 18

	for {
		if end == endOnInput && ip >= iend {
			return ip, op, false, fmt.Errorf("%w: truncated token", ErrMalformedInput)
		}
		if ip >= len(src) {
			return ip, op, false, fmt.Errorf("%w: truncated token", ErrMalformedInput)
		}

		token := src[ip]
		ip++
		litLen := int(token >> mlBits)

		shortcut := false
		if end == endOnInput {
			shortcut = litLen != runMask && ip < shortIEnd && op <= shortOEnd
		} else {
			shortcut = litLen <= 8 && op <= shortOEnd
		}

		if shortcut {
			n := 8
			if end == endOnInput {
				n = 16
			}
			copyLiterals(output, op, src, ip, n)
			op += litLen
			ip += litLen

			matchLen := int(token & mlMask)
			offset := int(src[ip]) | int(src[ip+1])<<8
			ip += 2
			if offset == 0 {
				return ip, op, false, fmt.Errorf("%w: zero match offset", ErrMalformedInput)
			}
			matchIdx := op - offset

			if matchLen != mlMask && offset >= 8 && matchIdx >= 0 {
				length := matchLen + minMatch
				if op+length > oend {
					return ip, op, false, fmt.Errorf("%w: match runs past output", ErrOutputOverflow)
				}
				copyMatch(output, dict, op, matchIdx, offset, length)
				op += length
				continue
			}

			if err := checkMatchStart(checkOffset, dictMode, matchIdx, dictSize); err != nil {
				return ip, op, false, err
			}

			var done bool
			var err error
			ip, op, done, err = finishMatch(src, output, dict, ip, op, iend, oend, end, partial, matchIdx, offset, matchLen)
			if err != nil || done {
				return ip, op, done, err
			}
			continue
		}

		// General literal path: decode the length fully, then decide
		// whether a plain bounded copy suffices or the tail/partial
		// rules in §4.4 apply.
		length := litLen
		if length == runMask {
			extra, newIP, verr := readVariableLength(src, ip, iend-runMask, end == endOnInput, end == endOnInput)
			ip = newIP
			switch verr {
			case varLenInitial:
				return ip, op, false, fmt.Errorf("%w: truncated literal-length extension", ErrMalformedInput)
			case varLenOverflow:
				return ip, op, false, fmt.Errorf("%w: literal-length extension overflow", ErrMalformedInput)
			}
			length += extra
			if end == endOnInput && (wraps(op, length) || wraps(ip, length)) {
				return ip, op, false, fmt.Errorf("%w: literal length overflow", ErrMalformedInput)
			}
		}

		cpy := op + length
		overLimit := false
		if end == endOnInput {
			overLimit = cpy > oend-mfLimit || ip+length > iend-(2+1+lastLiterals)
		} else {
			overLimit = cpy > oend-wildcopyLength
		}

		if overLimit {
			if partial == decodePartial {
				if cpy > oend {
					cpy = oend
					length = oend - op
				}
				if end == endOnInput && ip+length > iend {
					return ip, op, false, fmt.Errorf("%w: literal run reads past input", ErrMalformedInput)
				}
			} else {
				// Reaching here in full mode means this is necessarily
				// the block's terminal (match-less) literal run: a
				// well-formed block never follows a match with less than
				// matchSafeguardDistance bytes of output headroom, so
				// nothing but a closing literal run can land this close
				// to either end.
				if end == endOnInput {
					if cpy > oend {
						return ip, op, false, fmt.Errorf("%w: literal run exceeds output capacity", ErrOutputOverflow)
					}
					if ip+length > iend {
						return ip, op, false, fmt.Errorf("%w: literal run reads past input", ErrMalformedInput)
					}
					if ip+length < iend {
						return ip, op, false, fmt.Errorf("%w: %d trailing input bytes", ErrUnderconsumed, iend-ip-length)
					}
				}
				if end == endOnOutput {
					if cpy > oend {
						return ip, op, false, fmt.Errorf("%w: literal run exceeds output capacity", ErrOutputOverflow)
					}
					if cpy < oend {
						return ip, op, false, fmt.Errorf("%w: %d bytes short", ErrOverconsumed, oend-cpy)
					}
				}
			}

			if ip+length > len(src) || ip+length < 0 {
				return ip, op, false, fmt.Errorf("%w: literal run reads past input", ErrMalformedInput)
			}
			copyLiterals(output, op, src, ip, length)
			ip += length
			op += length

			// Necessarily EOF in full mode. In partial mode, EOF exactly
			// when the output cap has been hit or there isn't enough
			// input left to read a following offset.
			if partial == decodeFull || cpy == oend || ip >= iend-2 {
				return ip, op, true, nil
			}
			// Otherwise fall through with the *current* ip/op to decode
			// the sequence's match half, exactly as the reference does.
		} else {
			if ip+length > len(src) {
				return ip, op, false, fmt.Errorf("%w: literal run reads past input", ErrMalformedInput)
			}
			copyLiterals(output, op, src, ip, length)
			ip += length
			op = cpy
		}

		if ip+2 > len(src) {
			return ip, op, false, fmt.Errorf("%w: missing match offset", ErrMalformedInput)
		}
		offset := int(src[ip]) | int(src[ip+1])<<8
		ip += 2
		if offset == 0 {
			return ip, op, false, fmt.Errorf("%w: zero match offset", ErrMalformedInput)
		}
		matchIdx := op - offset
		matchLen := int(token & mlMask)

		if err := checkMatchStart(checkOffset, dictMode, matchIdx, dictSize); err != nil {
			return ip, op, false, err
		}

		var done bool
		var err error
		ip, op, done, err = finishMatch(src, output, dict, ip, op, iend, oend, end, partial, matchIdx, offset, matchLen)
		if err != nil || done {
			return ip, op, done, err
		}
	}
}

// checkMatchStart validates a freshly decoded offset against the legal
// back-reference window (§4.5 preconditions), before any length
// extension or copying is attempted.
func checkMatchStart(checkOffset bool, dictMode dictDirective, matchIdx, dictSize int) error {
	if !matchPointerValid(checkOffset, matchIdx, dictSize) {
		return fmt.Errorf("%w: match references before start of buffer", ErrOffsetOutOfRange)
	}
	if dictMode != withPrefix64k && matchIdx < 0 {
		return fmt.Errorf("%w: match references before start of buffer", ErrOffsetOutOfRange)
	}
	return nil
}

// finishMatch decodes the match-length extension if present, then defers
// to applyMatch for the partial-mode clamp-and-stop rule, the
// last-literals tail check, and the copy itself. ip/op reflect the
// position just after the offset field on entry.
func finishMatch(src, output, dict []byte, ip, op, iend, oend int, end endCondition, partial earlyEnd, matchIdx, offset, length int) (int, int, bool, error) {
	if length == mlMask {
		extra, newIP, verr := readVariableLength(src, ip, iend-lastLiterals+1, end == endOnInput, end == endOnInput)
		ip = newIP
		switch verr {
		case varLenInitial:
			return ip, op, false, fmt.Errorf("%w: truncated match-length extension", ErrMalformedInput)
		case varLenOverflow:
			return ip, op, false, fmt.Errorf("%w: match-length extension overflow", ErrMalformedInput)
		}
		length += extra
		if end == endOnInput && wraps(op, length) {
			return ip, op, false, fmt.Errorf("%w: match length overflow", ErrMalformedInput)
		}
	}
	length += minMatch

	op, done, err := applyMatch(output, dict, op, oend, partial, matchIdx, offset, length)
	return ip, op, done, err
}

// applyMatch validates a fully resolved match (its length already
// includes minMatch and any extension) against the output bound, clamps
// and stops in partial mode when it would run past the last-literals
// safety margin, and performs the copy. It is the one place both
// runSafeLoop and runFastLoop finish a match, so a sequence decoded
// partway by the fast loop is completed with exactly the same rules the
// slow loop would have applied to it.
func applyMatch(output, dict []byte, op, oend int, partial earlyEnd, matchIdx, offset, length int) (int, bool, error) {
	cpy := op + length

	if partial == decodePartial && cpy > oend-matchSafeguardDistance {
		mlen := length
		if oend-op < mlen {
			mlen = oend - op
		}
		copyMatch(output, dict, op, matchIdx, offset, mlen)
		op += mlen
		return op, op == oend, nil
	}

	if cpy > oend {
		return op, false, fmt.Errorf("%w: match runs past output", ErrOutputOverflow)
	}
	if partial == decodeFull && cpy > oend-lastLiterals {
		return op, false, fmt.Errorf("%w: match ends within the last %d bytes", ErrMalformedInput, lastLiterals)
	}

	copyMatch(output, dict, op, matchIdx, offset, length)
	return cpy, false, nil
}
