package block

import (
	"sync"

	"github.com/blockcodec/lz4block/v04/simd"
)

// FastLoop is only worth its extra bookkeeping when the CPU can move 8-
// and 16-byte chunks cheaply; §2 of the design calls this out explicitly
// ("enabled when target CPU benefits from wide unaligned copies"). Reuse
// the same detector the compressor already relies on (v04/simd) instead
// of introducing a second feature-probe - it already distinguishes a
// genuine SIMD-capable build from a fallback one via BestImplementation.
var (
	fastLoopGateOnce sync.Once
	fastLoopGateOn   bool
)

func fastLoopEnabled() bool {
	fastLoopGateOnce.Do(func() {
		fastLoopGateOn = simd.BestImplementation() != simd.ImplGeneric
	})
	return fastLoopGateOn
}
