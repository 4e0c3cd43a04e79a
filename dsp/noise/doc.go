// Package noise provides smooth one-dimensional pseudo-random noise fields.
//
// A [Source] maps a real coordinate and an integer seed to a deterministic
// value in [-1, 1]. Equal (coordinate, seed) pairs always return the same
// value, the field is continuous in the coordinate, and different seeds give
// unrelated fields. [Perlin] is the default implementation; [Func] adapts any
// conforming function, which is convenient for deterministic stubs in tests.
package noise
