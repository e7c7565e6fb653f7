package rng

import "testing"

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 50; i++ {
		va := a.Uniform(0, 1)
		vb := b.Uniform(0, 1)
		if va != vb {
			t.Fatalf("iteration %d: same seed diverged: %f != %f", i, va, vb)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.Uniform(0, 1) != b.Uniform(0, 1) {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different sequences")
	}
}

func TestUniformRespectsBounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 200; i++ {
		v := s.Uniform(3, 5)
		if v < 3 || v >= 5 {
			t.Fatalf("Uniform(3,5) out of range: %f", v)
		}
	}
}

func TestUniformDegenerateRange(t *testing.T) {
	s := New(7)
	if got := s.Uniform(5, 5); got != 5 {
		t.Fatalf("Uniform(5,5) = %f, want 5", got)
	}
	if got := s.Uniform(5, 2); got != 5 {
		t.Fatalf("Uniform(5,2) = %f, want lo=5", got)
	}
}

func TestIntNZeroAndNegative(t *testing.T) {
	s := New(1)
	if got := s.IntN(0); got != 0 {
		t.Fatalf("IntN(0) = %d, want 0", got)
	}
	if got := s.IntN(-3); got != 0 {
		t.Fatalf("IntN(-3) = %d, want 0", got)
	}
}

func TestWeightedSampleWithoutReplacementDistinct(t *testing.T) {
	s := New(9)
	cands := []Weighted{
		{Name: "a", Weight: 1},
		{Name: "b", Weight: 5},
		{Name: "c", Weight: 0},
		{Name: "d", Weight: 2},
	}
	out := s.WeightedSampleWithoutReplacement(cands, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	seen := map[string]bool{}
	for _, o := range out {
		if seen[o.Name] {
			t.Fatalf("duplicate name in sample: %s", o.Name)
		}
		seen[o.Name] = true
	}
}

func TestWeightedSampleAllZeroWeightStillTerminates(t *testing.T) {
	s := New(3)
	cands := []Weighted{{Name: "a", Weight: 0}, {Name: "b", Weight: 0}, {Name: "c", Weight: 0}}
	out := s.WeightedSampleWithoutReplacement(cands, 5)
	if len(out) != 3 {
		t.Fatalf("expected 3 (capped by input size), got %d", len(out))
	}
}

func TestWeightedSampleKGreaterThanPoolCaps(t *testing.T) {
	s := New(3)
	cands := []Weighted{{Name: "a", Weight: 1}, {Name: "b", Weight: 1}}
	out := s.WeightedSampleWithoutReplacement(cands, 10)
	if len(out) != 2 {
		t.Fatalf("expected sample capped at pool size 2, got %d", len(out))
	}
}

func TestWeightedShuffleIsPermutation(t *testing.T) {
	s := New(11)
	cands := []Weighted{
		{Name: "a", Weight: 3},
		{Name: "b", Weight: 1},
		{Name: "c", Weight: 2},
		{Name: "d", Weight: 4},
	}
	out := s.WeightedShuffle(cands)
	if len(out) != len(cands) {
		t.Fatalf("expected full permutation of length %d, got %d", len(cands), len(out))
	}
	seen := map[string]bool{}
	for _, o := range out {
		seen[o.Name] = true
	}
	for _, c := range cands {
		if !seen[c.Name] {
			t.Fatalf("permutation missing %s", c.Name)
		}
	}
}

func TestBonusWithinMaxFrac(t *testing.T) {
	s := New(5)
	for i := 0; i < 100; i++ {
		b := s.Bonus(10, 0.2)
		if b < 0 || b > 2 {
			t.Fatalf("Bonus(10, 0.2) = %d, want in [0,2]", b)
		}
	}
}

func TestShufflePermutesInPlace(t *testing.T) {
	s := New(4)
	data := []int{0, 1, 2, 3, 4, 5, 6, 7}
	orig := append([]int(nil), data...)
	s.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })
	seen := map[int]bool{}
	for _, v := range data {
		seen[v] = true
	}
	for _, v := range orig {
		if !seen[v] {
			t.Fatalf("shuffle lost value %d", v)
		}
	}
}
