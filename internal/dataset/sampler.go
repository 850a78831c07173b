package dataset

// IntSource yields uniformly distributed ints in [0, n).
// *math/rand.Rand satisfies it.
type IntSource interface {
	Intn(n int) int
}

// Sampler draws examples uniformly at random, with replacement, by index.
type Sampler struct {
	data *Dataset
	rng  IntSource
}

// NewSampler creates a Sampler over data driven by rng.
func NewSampler(data *Dataset, rng IntSource) *Sampler {
	return &Sampler{data: data, rng: rng}
}

// NextIndex returns the index of the next sampled example.
func (s *Sampler) NextIndex() int {
	return s.rng.Intn(s.data.Len())
}

// Next returns the next sampled example.
func (s *Sampler) Next() Example {
	return s.data.At(s.NextIndex())
}
