package dataset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = New([]Example{{Input: nil, Target: []float64{1}}})
	assert.ErrorIs(t, err, ErrInconsistentExample)

	_, err = New([]Example{
		{Input: []float64{1, 2}, Target: []float64{1}},
		{Input: []float64{1}, Target: []float64{1}},
	})
	assert.ErrorIs(t, err, ErrInconsistentExample)

	_, err = New([]Example{
		{Input: []float64{1, 2}, Target: []float64{1}},
		{Input: []float64{1, 2}, Target: []float64{1, 0}},
	})
	assert.ErrorIs(t, err, ErrInconsistentExample)
}

func TestNew_Sizes(t *testing.T) {
	d, err := New([]Example{
		{Input: []float64{1, 2, 3}, Target: []float64{1, 0}},
		{Input: []float64{4, 5, 6}, Target: []float64{0, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 3, d.InputSize())
	assert.Equal(t, 2, d.TargetSize())
	assert.Equal(t, []float64{4, 5, 6}, d.At(1).Input)
}

func TestXOR(t *testing.T) {
	d := XOR()
	require.Equal(t, 4, d.Len())
	assert.Equal(t, 2, d.InputSize())
	assert.Equal(t, 1, d.TargetSize())

	for i := 0; i < d.Len(); i++ {
		ex := d.At(i)
		want := 0.0
		if (ex.Input[0] == 1) != (ex.Input[1] == 1) {
			want = 1
		}
		assert.Equal(t, want, ex.Target[0], "example %d", i)
	}
}

func TestSplit(t *testing.T) {
	examples := make([]Example, 10)
	for i := range examples {
		examples[i] = Example{Input: []float64{float64(i)}, Target: []float64{0}}
	}
	d, err := New(examples)
	require.NoError(t, err)

	train, holdout, err := d.Split(0.3, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 7, train.Len())
	assert.Equal(t, 3, holdout.Len())

	seen := make(map[float64]bool)
	for _, part := range []*Dataset{train, holdout} {
		for i := 0; i < part.Len(); i++ {
			v := part.At(i).Input[0]
			assert.False(t, seen[v], "example %v in both parts", v)
			seen[v] = true
		}
	}
	assert.Len(t, seen, 10)

	_, _, err = d.Split(0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
	_, _, err = XOR().Split(0.01, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
}

func TestSampler(t *testing.T) {
	d := XOR()
	s := NewSampler(d, rand.New(rand.NewSource(3)))

	counts := make([]int, d.Len())
	for i := 0; i < 4000; i++ {
		idx := s.NextIndex()
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, d.Len())
		counts[idx]++
	}
	for i, c := range counts {
		assert.InDelta(t, 1000, c, 150, "index %d drawn %d times", i, c)
	}
}

func TestSampler_SharesData(t *testing.T) {
	d := XOR()
	s := NewSampler(d, rand.New(rand.NewSource(4)))

	ex := s.Next()
	found := false
	for i := 0; i < d.Len(); i++ {
		if &d.At(i).Input[0] == &ex.Input[0] {
			found = true
		}
	}
	assert.True(t, found, "sampled example must reference dataset storage")
}
