package gpu

// Parity selects which buffer of the accumulation pair is read as history
// in a given frame. The other buffer is the write target.
type Parity uint8

const (
	// BufferAIsHistory reads buffer A (index 0) and writes buffer B.
	BufferAIsHistory Parity = iota
	// BufferBIsHistory reads buffer B (index 1) and writes buffer A.
	BufferBIsHistory
)

// ParityOf returns the parity of the frame dispatched while the frame
// counter advances from n to n+1.
func ParityOf(n uint32) Parity {
	return Parity(n % 2)
}

// History returns the index of the buffer read this frame.
func (p Parity) History() int {
	return int(p)
}

// Target returns the index of the buffer written this frame.
// It is always the opposite of History.
func (p Parity) Target() int {
	return 1 - int(p)
}

// Next returns the parity of the following frame.
func (p Parity) Next() Parity {
	return 1 - p
}

// String returns a human-readable name for the parity.
func (p Parity) String() string {
	switch p {
	case BufferAIsHistory:
		return "A->B"
	case BufferBIsHistory:
		return "B->A"
	default:
		return "invalid"
	}
}
