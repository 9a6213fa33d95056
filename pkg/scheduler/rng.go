package scheduler

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
)

// newAttemptRand returns a fresh PRNG seeded from the operating system's
// CSPRNG. The Least-Load-Random and Load-Weighted-Random policies each
// get their own generator per scheduling attempt: there is no shared,
// mutex-guarded package-level rand.Rand, so policy evaluation never
// serializes concurrent Schedule calls on a lock they don't otherwise
// need.
func newAttemptRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand.Read failing means the OS entropy source is
		// broken; there is no sane degraded mode for a scheduler
		// that must stay tie-break-fair under load.
		panic(fmt.Sprintf("scheduler: crypto/rand unavailable: %v", err))
	}
	return rand.New(rand.NewChaCha8(seed))
}
