package block_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/blockcodec/lz4block/block"
	"github.com/blockcodec/lz4block/compress"
)

// compressibleWithUniqueTail builds data that compresses well (a repeating
// pattern) but ends in bytes that can't have occurred earlier, so the
// block's final sequence is always a literal run with no risk of a match
// landing within the format's trailing safety margin.
func compressibleWithUniqueTail(patternReps, tailLen int) []byte {
	pattern := []byte("the quick brown fox jumps over the lazy dog, ")
	var buf bytes.Buffer
	for i := 0; i < patternReps; i++ {
		buf.Write(pattern)
	}
	tail := make([]byte, tailLen)
	rand.Read(tail)
	buf.Write(tail)
	return buf.Bytes()
}

func TestRoundTripCompressBlockThenDecompressSafe(t *testing.T) {
	original := compressibleWithUniqueTail(200, 32)

	compressed, err := compress.CompressBlock(original, nil)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}

	dst := make([]byte, len(original))
	n, err := block.DecompressSafe(compressed, dst)
	if err != nil {
		t.Fatalf("DecompressSafe: %v", err)
	}
	if !bytes.Equal(dst[:n], original) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", n, len(original))
	}
}

func TestRoundTripCompressBlockThenDecompressBlock(t *testing.T) {
	original := compressibleWithUniqueTail(50, 32)

	compressed, err := compress.CompressBlock(original, nil)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}

	decompressed, err := compress.DecompressBlock(compressed, nil, len(original))
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Fatalf("round trip mismatch via compress.DecompressBlock")
	}
}

func TestRoundTripRandomIncompressibleData(t *testing.T) {
	original := make([]byte, 256)
	if _, err := rand.Read(original); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	compressed, err := compress.CompressBlock(original, nil)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}

	dst := make([]byte, len(original))
	n, err := block.DecompressSafe(compressed, dst)
	if err != nil {
		t.Fatalf("DecompressSafe: %v", err)
	}
	if !bytes.Equal(dst[:n], original) {
		t.Fatalf("round trip mismatch on incompressible data")
	}
}

// FuzzDecompressSafe feeds DecompressSafe both genuine compressed blocks
// and bit-flipped variants of them. It never asserts a particular error -
// malformed input is expected to surface one of this package's sentinel
// errors, never a panic.
func FuzzDecompressSafe(f *testing.F) {
	seeds := [][]byte{
		compressibleWithUniqueTail(10, 16),
		compressibleWithUniqueTail(1, 20),
	}
	for _, s := range seeds {
		compressed, err := compress.CompressBlock(s, nil)
		if err != nil {
			f.Fatalf("CompressBlock: %v", err)
		}
		f.Add(compressed)
	}
	f.Add([]byte{0x00})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		dst := make([]byte, 4096)
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("DecompressSafe panicked on %x: %v", data, r)
			}
		}()
		block.DecompressSafe(data, dst)
	})
}
