package block

// varLenError distinguishes why readVariableLength stopped short,
// mirroring the reference decoder's variable_length_error enum.
type varLenError int

const (
	varLenOK varLenError = iota
	// varLenInitial means the cursor reached ipLimit (or the end of src)
	// before a terminating non-0xFF byte was read - a short-input
	// condition, not an overflow.
	varLenInitial
	// varLenOverflow means the accumulator exceeded what this package is
	// willing to trust, even though bytes remained to read.
	varLenOverflow
)

// maxVarLen bounds the accumulator against a pathological input driving
// the length past any size this package could plausibly address.
const maxVarLen = 0x7FFFFFFF

// readVariableLength reads a run of 0xFF bytes terminated by a non-0xFF
// byte starting at src[ip], summing into a running length. It returns the
// accumulated length and the cursor just past the terminating byte. In
// safe mode (checkBounds) it refuses to read at or past ipLimit. When
// checkOverflow is set it also detects accumulator overflow, reported
// distinctly from a short input.
func readVariableLength(src []byte, ip, ipLimit int, checkBounds, checkOverflow bool) (length, newIP int, verr varLenError) {
	for {
		if checkBounds && ip >= ipLimit {
			return length, ip, varLenInitial
		}
		if ip >= len(src) {
			return length, ip, varLenInitial
		}

		s := src[ip]
		ip++
		length += int(s)

		if checkOverflow && length > maxVarLen {
			return length, ip, varLenOverflow
		}

		if s != 0xFF {
			return length, ip, varLenOK
		}
	}
}
