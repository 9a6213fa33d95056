package scheduler

import "github.com/cespare/xxhash/v2"

// hostnameHash maps a hostname to a stable value in [0, 1). It is used to
// perturb Load-Weighted-Random's weights so that nodes tied on remaining
// capacity do not always lose the same way to floating-point rounding.
//
// The hash must be stable across process restarts and across replicas of
// the scheduler, since two replicas computing different weights for the
// same hostname would make Load-Weighted-Random's distribution diverge
// between them. xxhash.Sum64String gives that stability for free; do not
// replace it with anything seeded at runtime (such as maphash) without a
// migration plan, since that would break the property within this
// process's own lifetime too, between one schedule call and the next.
//
// Only the top 53 bits of the hash are kept, so the division by 2^53 is
// exact and the result never rounds up to 1.
func hostnameHash(hostname string) float64 {
	return float64(xxhash.Sum64String(hostname)>>11) / (1 << 53)
}
