package uniform

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// of the frame bind group at a given byte offset. Offset is also the dynamic offset to
// bind when drawing with the written record.
type BufferWrite struct {
	Slot    int
	Binding int
	Offset  uint64
	Data    []byte
}
