// Package rng provides the single seeded random source threaded through a
// build (spec.md §3 invariant 7, Design Notes §9: "all uniform, shuffle,
// weighted_sample calls go through the same instance").
package rng

import (
	"math/rand/v2"
)

// Source is the one RNG instance a build owns. It must never be reseeded
// mid-build.
type Source struct {
	r *rand.Rand
}

// New creates a deterministic RNG seeded from a single integer seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9E3779B97F4A7C15))}
}

// Uniform returns a float64 uniformly distributed in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Float64()*(hi-lo)
}

// IntN returns a uniform integer in [0, n).
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}

// Shuffle permutes a slice of length n in place using the shared source.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Weighted is a named candidate with a nonnegative weight for sampling.
type Weighted struct {
	Name   string
	Weight float64
}

// WeightedSampleWithoutReplacement draws up to k distinct items from cands,
// weighted proportionally, without replacement. Deterministic for a fixed
// RNG state and input order (spec.md P6).
func (s *Source) WeightedSampleWithoutReplacement(cands []Weighted, k int) []Weighted {
	pool := make([]Weighted, len(cands))
	copy(pool, cands)

	out := make([]Weighted, 0, k)
	for len(out) < k && len(pool) > 0 {
		total := 0.0
		for _, c := range pool {
			if c.Weight > 0 {
				total += c.Weight
			}
		}
		if total <= 0 {
			// No positive weight remains; fall back to uniform pick so the
			// draw still terminates deterministically.
			idx := s.IntN(len(pool))
			out = append(out, pool[idx])
			pool = append(pool[:idx], pool[idx+1:]...)
			continue
		}
		target := s.Uniform(0, total)
		acc := 0.0
		chosen := len(pool) - 1
		for i, c := range pool {
			w := c.Weight
			if w < 0 {
				w = 0
			}
			acc += w
			if target < acc {
				chosen = i
				break
			}
		}
		out = append(out, pool[chosen])
		pool = append(pool[:chosen], pool[chosen+1:]...)
	}
	return out
}

// WeightedShuffle returns a full weighted-random permutation of cands
// (spec.md §4.3.5 "weighted shuffle by (rank + 1)").
func (s *Source) WeightedShuffle(cands []Weighted) []Weighted {
	return s.WeightedSampleWithoutReplacement(cands, len(cands))
}

// Bonus returns a random bonus fraction in [0, maxFrac] applied to an ideal
// count (spec.md §4.5 "random bonus of [0, 20%] of target").
func (s *Source) Bonus(ideal int, maxFrac float64) int {
	return int(float64(ideal) * s.Uniform(0, maxFrac))
}
