// Package signal synthesizes labeled time series for frequency-estimation
// training data.
//
// A [Generator] is configured once and then produces batches of sequences.
// Each sequence is a sum of randomly parameterized sinusoids with geometrically
// decaying amplitudes plus zero-mean Gaussian noise. When VariantOverTime is
// set, the noise intensity follows a smooth envelope drawn from a
// [noise.Source]. Every sequence is labeled with the first NumOutputs of the
// component frequencies it was built from, in Hz and in draw order.
//
// All randomness comes from a single [Rand] owned by the generator, so a fixed
// seed reproduces a batch bit for bit.
package signal
