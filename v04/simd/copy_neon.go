//go:build arm64
// +build arm64

package simd

// NEONCopier implements fast memory copy operations using ARM NEON instructions
type NEONCopier struct {
	// Configuration
	bufferSize int
}

// NewNEONCopier creates a new NEON-optimized copier
func NewNEONCopier() *NEONCopier {
	return &NEONCopier{
		bufferSize: 16, // NEON register size (128-bit)
	}
}

// WildCopy copies from src to dst without bounds checking
// The implementation uses NEON instructions for speed
// In a real implementation, this would be written in assembly
func (c *NEONCopier) WildCopy(dst, src []byte, length int) {
	// This is a placeholder for the assembly version
	// In a real implementation, this would use NEON instructions
	// to copy 16 bytes at a time

	// Simple copy for now
	copy(dst, src[:length])
}

// SafeCopy is like WildCopy but with bounds checking
func (c *NEONCopier) SafeCopy(dst, src []byte, length int) {
	if length > len(src) {
		length = len(src)
	}
	if length > len(dst) {
		length = len(dst)
	}

	copy(dst, src[:length])
}

// RepeatCopy16 is a specialized function for the LZ4 repeat copy pattern
// It copies from dst+offset to dst+pos, which means it copies already written bytes
// This is used for the LZ4 match copy operation where we reference earlier bytes
func (c *NEONCopier) RepeatCopy16(dst []byte, pos, offset, length int) {
	// Ensure bounds
	if pos+length > len(dst) || pos-offset < 0 {
		return
	}

	// Special cases for very small offsets where we can't use NEON
	if offset < 16 {
		// For small offsets we need special handling as we might overlap
		for i := 0; i < length; i++ {
			dst[pos+i] = dst[pos-offset+i]
		}
		return
	}

	// In a real implementation, this would use NEON instructions
	// to copy 16 bytes at a time, handling the edge cases
	for i := 0; i < length; i++ {
		dst[pos+i] = dst[pos-offset+i]
	}
}

// IncrementalCopy incrementally copies bytes from src to dst
// It's used when the source and destination may overlap
func (c *NEONCopier) IncrementalCopy(dst []byte, dstPos int, srcPos int, length int) {
	// Ensure we don't go out of bounds
	if dstPos+length > len(dst) || srcPos+length > len(dst) {
		return
	}

	// Copy one byte at a time to handle potential overlap
	for i := 0; i < length; i++ {
		dst[dstPos+i] = dst[srcPos+i]
	}
}

// In a complete implementation, we would have the following assembly functions:
// - copyNEON: Use NEON for bulk memory copy
// - repeatCopyNEON: Use NEON for the LZ4 match copy operation
// - prefetchNEON: Prefetch memory regions for better cache utilization
