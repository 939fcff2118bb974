//go:build amd64
// +build amd64

package simd

// SSEMatchFinder implements match finding using SSE4.1 instructions
type SSEMatchFinder struct {
	// Configuration
	minMatch   int
	maxOffset  int
	maxMatches int

	// Hash table for position lookup
	hashTable []int

	// Input data
	data []byte
}

// NewSSEMatchFinder creates a new SSE-accelerated match finder
func NewSSEMatchFinder(windowSize int, minMatch int) *SSEMatchFinder {
	if minMatch < 4 {
		minMatch = 4 // LZ4 minimum match length
	}

	// Create small hash table for initial implementation
	// In a real implementation, the size would be larger and tunable
	hashSize := 1 << 16 // 64KB hash table

	return &SSEMatchFinder{
		minMatch:   minMatch,
		maxOffset:  windowSize,
		maxMatches: 64, // Maximum matches to consider
		hashTable:  make([]int, hashSize),
	}
}

// Reset prepares the match finder for a new input
func (m *SSEMatchFinder) Reset(data []byte) {
	m.data = data

	// Clear hash table
	for i := range m.hashTable {
		m.hashTable[i] = 0
	}
}

// Hash4 computes a 4-byte hash at position p
func (m *SSEMatchFinder) Hash4(p int) int {
	// Simple 4-byte hash function
	h := uint32(m.data[p]) | (uint32(m.data[p+1]) << 8) |
		(uint32(m.data[p+2]) << 16) | (uint32(m.data[p+3]) << 24)
	h = (h * 2654435761) & 0xFFFF // multiplicative hash truncated to 16 bits
	return int(h)
}

// FindMatchSSE uses SSE instructions to find the longest match at position p
// In a real implementation, this would use assembly or Go's SIMD intrinsics
func (m *SSEMatchFinder) FindMatchSSE(p int) (offset, length int) {
	// Ensure we have enough bytes
	if p+m.minMatch > len(m.data) {
		return 0, 0
	}

	// Get hash for current position
	h := m.Hash4(p)

	// Get the previous position with the same hash
	prev := m.hashTable[h]

	// Update hash table
	m.hashTable[h] = p

	// If no previous match or too far back, return no match
	if prev == 0 || p-prev > m.maxOffset {
		return 0, 0
	}

	// Now find the longest match at this position
	// In a real implementation, this would use SSE instructions for comparing
	// blocks of bytes at a time

	// Simple implementation for now
	matchLen := 0
	maxLen := len(m.data) - p

	// Compare bytes
	for matchLen < maxLen && m.data[prev+matchLen] == m.data[p+matchLen] {
		matchLen++

		// LZ4 length encoding has a maximum length per token
		if matchLen >= 65535 {
			break
		}
	}

	// Return match if long enough
	if matchLen >= m.minMatch {
		return p - prev, matchLen
	}

	return 0, 0
}

// In a complete implementation, we would have the following assembly functions:
// - compareSSE: Use SSE4.1 for comparing 16 bytes at a time
// - countMatchingBytesSSE: Use SSE4.1 to count matching byte prefix
// - findLongestMatchSSE: Main SSE accelerated match finder
