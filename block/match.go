package block

// copyMatch writes length bytes to output[op:] sourced from a back
// reference that may start inside the prefix dictionary (matchIdx < 0,
// meaning dict[len(dict)+matchIdx:]) and/or inside output itself
// (matchIdx >= 0). offset is op-matchIdx and stays constant throughout -
// it is passed separately because matchIdx walks forward as bytes are
// emitted.
//
// This is MatchCopier: it is the only place that deals with LZ4's
// overlapping-copy semantics, so every other caller can treat it as an
// opaque "copy length bytes from offset bytes back" primitive.
func copyMatch(output, dict []byte, op, matchIdx, offset, length int) {
	// Cross the dictionary/output boundary byte-by-byte: cheap, since a
	// match can straddle the boundary for at most dictSize bytes and
	// dictSize only matters near the very start of a fast-mode block.
	for matchIdx < 0 && length > 0 {
		output[op] = dict[len(dict)+matchIdx]
		op++
		matchIdx++
		length--
	}
	if length == 0 {
		return
	}

	switch {
	case offset >= 16:
		copyMatchWide(output, op, matchIdx, length)
	case offset >= 8:
		copyMatchNarrow(output, op, matchIdx, length)
	default:
		copyMatchOverlapping(output, op, matchIdx, length)
	}
}

// copyMatchWide handles offset >= 16: 16-byte strides are always
// disjoint from their own source, so a plain forward copy per stride is
// both correct and matches the reference's "two 16-byte memcpys" shape.
func copyMatchWide(output []byte, op, match, length int) {
	for length > 0 {
		n := length
		if n > 16 {
			n = 16
		}
		copy(output[op:op+n], output[match:match+n])
		op += n
		match += n
		length -= n
	}
}

// copyMatchNarrow handles 8 <= offset < 16: identical reasoning to the
// wide case, just with an 8-byte stride (mirrors the reference's
// "two 8-byte memcpys then wildcopy by 8").
func copyMatchNarrow(output []byte, op, match, length int) {
	for length > 0 {
		n := length
		if n > 8 {
			n = 8
		}
		copy(output[op:op+n], output[match:match+n])
		op += n
		match += n
		length -= n
	}
}

// copyMatchOverlapping handles offset < 8, where source and destination
// genuinely overlap: output[match+i] may itself be a byte this same call
// writes a few iterations earlier. The reference (LZ4_memcpy_using_offset_base)
// exploits exactly that aliasing, continuing the copy from a rolling
// dst-offset source via LZ4_wildCopy8. A fixed 8-byte pattern stamped
// repeatedly does NOT reproduce that: for offset values that don't divide
// 8 (3, 5, 6, 7), the byte at stride s, position i is seed[(8s+i)%offset],
// which only equals the first stride's seed[i%offset] when offset divides
// 8. So this copies one byte at a time, in order, each write immediately
// visible to later reads at match+i - the same rolling self-reference the
// reference relies on, just expressed without pointer aliasing.
func copyMatchOverlapping(output []byte, op, match, length int) {
	for i := 0; i < length; i++ {
		output[op+i] = output[match+i]
	}
}
