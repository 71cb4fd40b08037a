package uniform

// RingBuilderOption is a functional option used to configure a Ring during construction.
type RingBuilderOption func(*ringImpl)

// WithFramesInFlight sets the number of ring slots.
//
// Parameters:
//   - n: the number of frames the CPU may run ahead of the GPU
//
// Returns:
//   - RingBuilderOption: a function that sets the slot count
func WithFramesInFlight(n int) RingBuilderOption {
	return func(r *ringImpl) {
		r.slots = n
	}
}

// WithMaxDraws sets how many records of each kind one frame may write.
//
// Parameters:
//   - n: the draw capacity per frame
//
// Returns:
//   - RingBuilderOption: a function that sets the draw capacity
func WithMaxDraws(n int) RingBuilderOption {
	return func(r *ringImpl) {
		r.maxDraws = n
	}
}

// WithOffsetAlignment sets the dynamic offset alignment reported by the device limits.
// Zero keeps DefaultOffsetAlignment.
//
// Parameters:
//   - alignment: the alignment in bytes, a power of two
//
// Returns:
//   - RingBuilderOption: a function that sets the offset alignment
func WithOffsetAlignment(alignment uint64) RingBuilderOption {
	return func(r *ringImpl) {
		if alignment > 0 {
			r.alignment = alignment
		}
	}
}
