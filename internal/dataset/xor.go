package dataset

// XOR returns the four XOR examples:
//
//	[0 0] → [0]
//	[0 1] → [1]
//	[1 0] → [1]
//	[1 1] → [0]
func XOR() *Dataset {
	return &Dataset{
		examples: []Example{
			{Input: []float64{0, 0}, Target: []float64{0}, Label: "0"},
			{Input: []float64{0, 1}, Target: []float64{1}, Label: "1"},
			{Input: []float64{1, 0}, Target: []float64{1}, Label: "1"},
			{Input: []float64{1, 1}, Target: []float64{0}, Label: "0"},
		},
		inputSize:  2,
		targetSize: 1,
	}
}
