package signal

import (
	"math/rand"
	"runtime"
	"sync"
)

// GenerateParallel synthesizes howMany sequences on up to workers goroutines.
// A non-positive workers value uses GOMAXPROCS.
//
// Each worker owns a math/rand source seeded with a distinct value drawn from
// the generator's source and fills a contiguous block of the batch. For a
// fixed seed and worker count the result is deterministic, but it differs
// from Generate with the same seed.
func (g *Generator) GenerateParallel(howMany, workers int, includeEnvelope bool) (*Batch, error) {
	if howMany <= 0 {
		return nil, configError("how_many", howMany, "must be > 0")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > howMany {
		workers = howMany
	}

	seeds := g.workerSeeds(workers)
	b := newBatch(howMany, includeEnvelope)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * howMany / workers
		hi := (w + 1) * howMany / workers
		wg.Add(1)
		go func(seed int64, lo, hi int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := lo; i < hi; i++ {
				g.sequence(rng, b, i)
			}
		}(seeds[w], lo, hi)
	}
	wg.Wait()
	g.finish(b)

	g.logger.Debug("generated batch",
		"sequences", howMany,
		"samples", len(g.times),
		"workers", workers)

	return b, nil
}

// seedModulus is the period math/rand.NewSource reduces seeds by. Seeds in
// [1, seedModulus) select pairwise distinct streams.
const seedModulus = 1<<31 - 1

// workerSeeds draws n pairwise distinct seeds in [1, seedModulus) from the
// generator's source.
func (g *Generator) workerSeeds(n int) []int64 {
	seeds := make([]int64, 0, n)
	seen := make(map[int64]struct{}, n)
	for len(seeds) < n {
		s := 1 + g.rng.Int63()%(seedModulus-1)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		seeds = append(seeds, s)
	}
	return seeds
}
