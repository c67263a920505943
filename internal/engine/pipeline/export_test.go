package pipeline

// TailBuffer exposes tailBuffer for tests.
type TailBuffer = tailBuffer

// NewTailBuffer creates a tailBuffer with the given limit.
func NewTailBuffer(limit int) *TailBuffer {
	return &tailBuffer{limit: limit}
}
