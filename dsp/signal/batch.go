package signal

import "fmt"

// Batch is the output of one generation call. All slices are parallel and in
// generation order.
type Batch struct {
	// Data holds the generated sequences.
	Data [][]float64
	// Labels holds the first NumOutputs component frequencies of each sequence.
	Labels [][]float64
	// Envelopes holds the noise envelope of each sequence when requested.
	Envelopes [][]float64
	// Params holds the random draws behind each sequence.
	Params []Params
	// Temporal is Data regrouped to (time, 1) when the generator is temporal.
	// It shares storage with Data.
	Temporal [][][]float64
}

func newBatch(n int, includeEnvelope bool) *Batch {
	b := &Batch{
		Data:   make([][]float64, n),
		Labels: make([][]float64, n),
		Params: make([]Params, n),
	}
	if includeEnvelope {
		b.Envelopes = make([][]float64, n)
	}
	return b
}

// Len returns the number of sequences in the batch.
func (b *Batch) Len() int {
	return len(b.Data)
}

// Scalars returns the labels as one frequency per sequence. It fails when the
// labels carry more than one output.
func (b *Batch) Scalars() ([]float64, error) {
	out := make([]float64, len(b.Labels))
	for i, l := range b.Labels {
		if len(l) != 1 {
			return nil, fmt.Errorf("signal: label %d has %d outputs, want 1", i, len(l))
		}
		out[i] = l[0]
	}
	return out, nil
}

// Reshape3D regroups every sequence into single-sample frames, giving the
// (batch, time, 1) layout sequence models expect. Frames alias data.
func Reshape3D(data [][]float64) [][][]float64 {
	out := make([][][]float64, len(data))
	for i, seq := range data {
		frames := make([][]float64, len(seq))
		for t := range seq {
			frames[t] = seq[t : t+1 : t+1]
		}
		out[i] = frames
	}
	return out
}
