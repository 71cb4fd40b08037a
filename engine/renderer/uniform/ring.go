// Package uniform rotates the FrameData and MaterialData buffers across frames in flight,
// so the CPU never writes a region the GPU may still be reading.
package uniform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-variants/common"
	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
)

// MaxFramesInFlight is the default number of ring slots.
const MaxFramesInFlight = 3

// DefaultOffsetAlignment is the WebGPU default for minUniformBufferOffsetAlignment and
// minStorageBufferOffsetAlignment.
const DefaultOffsetAlignment = 256

var (
	// ErrSlotNotInUse is returned when writing to or releasing a slot that Begin did not hand out.
	ErrSlotNotInUse = errors.New("uniform: slot not in use")

	// ErrDrawOutOfRange is returned when a draw index is at or beyond the ring's draw capacity.
	ErrDrawOutOfRange = errors.New("uniform: draw index out of range")
)

type ringImpl struct {
	mu *sync.Mutex

	slots     int
	maxDraws  int
	alignment uint64

	// tokens holds one value per free slot.
	tokens chan struct{}
	inUse  []bool
	next   int
}

// Ring hands out one buffer region per frame in flight. Begin blocks until the GPU has
// released a slot, the frame's records are written into that slot, and Release frees it
// once the GPU signals the frame's command buffer has completed.
type Ring interface {
	// Begin acquires the next slot, blocking until one is free or ctx is done.
	//
	// Parameters:
	//   - ctx: cancels the wait
	//
	// Returns:
	//   - int: the slot index
	//   - error: ctx.Err() if ctx was done before a slot became free
	Begin(ctx context.Context) (int, error)

	// Release returns a slot to the ring.
	//
	// Parameters:
	//   - slot: the slot handed out by Begin
	//
	// Returns:
	//   - error: ErrSlotNotInUse if the slot is not currently acquired
	Release(slot int) error

	// WriteFrame marshals a FrameData record for one draw into the slot.
	//
	// Parameters:
	//   - slot: the slot handed out by Begin
	//   - draw: the draw index within the frame
	//   - d: the record
	//
	// Returns:
	//   - BufferWrite: the write to queue on the FrameData buffer
	//   - error: ErrSlotNotInUse or ErrDrawOutOfRange
	WriteFrame(slot, draw int, d *layout.GPUFrameData) (BufferWrite, error)

	// WriteMaterial marshals a MaterialData record for one draw into the slot.
	//
	// Parameters:
	//   - slot: the slot handed out by Begin
	//   - draw: the draw index within the frame
	//   - m: the record
	//
	// Returns:
	//   - BufferWrite: the write to queue on the MaterialData buffer
	//   - error: ErrSlotNotInUse or ErrDrawOutOfRange
	WriteMaterial(slot, draw int, m *layout.GPUMaterialData) (BufferWrite, error)

	// BufferSize returns the byte size the GPU buffer for a record binding must have.
	//
	// Parameters:
	//   - b: BufferIndexFrameData or BufferIndexMaterialData
	//
	// Returns:
	//   - uint64: the buffer size, zero for vertex buffer indices
	BufferSize(b layout.BufferIndex) uint64

	// Slots returns the number of frames in flight.
	//
	// Returns:
	//   - int: the slot count
	Slots() int
}

var _ Ring = &ringImpl{}

// NewRing creates a Ring with MaxFramesInFlight slots, room for one draw per slot and
// DefaultOffsetAlignment.
//
// Parameters:
//   - options: a variadic list of RingBuilderOption functions to configure the ring
//
// Returns:
//   - Ring: the ring
func NewRing(options ...RingBuilderOption) Ring {
	r := &ringImpl{
		mu:        &sync.Mutex{},
		slots:     MaxFramesInFlight,
		maxDraws:  1,
		alignment: DefaultOffsetAlignment,
	}
	for _, option := range options {
		option(r)
	}
	if r.slots < 1 {
		panic(fmt.Sprintf("uniform: ring needs at least one slot, got %d", r.slots))
	}
	if r.maxDraws < 1 {
		panic(fmt.Sprintf("uniform: ring needs at least one draw per slot, got %d", r.maxDraws))
	}
	r.tokens = make(chan struct{}, r.slots)
	for i := 0; i < r.slots; i++ {
		r.tokens <- struct{}{}
	}
	r.inUse = make([]bool, r.slots)
	return r
}

func (r *ringImpl) Begin(ctx context.Context) (int, error) {
	select {
	case <-r.tokens:
	case <-ctx.Done():
		return -1, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A token guarantees at least one free slot; take the next free one in rotation.
	for i := 0; i < r.slots; i++ {
		slot := (r.next + i) % r.slots
		if !r.inUse[slot] {
			r.inUse[slot] = true
			r.next = (slot + 1) % r.slots
			return slot, nil
		}
	}
	panic("uniform: token acquired with no free slot")
}

func (r *ringImpl) Release(slot int) error {
	r.mu.Lock()
	if slot < 0 || slot >= r.slots || !r.inUse[slot] {
		r.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrSlotNotInUse, slot)
	}
	r.inUse[slot] = false
	r.mu.Unlock()
	r.tokens <- struct{}{}
	return nil
}

func (r *ringImpl) WriteFrame(slot, draw int, d *layout.GPUFrameData) (BufferWrite, error) {
	return r.write(slot, draw, layout.BufferIndexFrameData, layout.GPUFrameDataSize, d.Marshal)
}

func (r *ringImpl) WriteMaterial(slot, draw int, m *layout.GPUMaterialData) (BufferWrite, error) {
	return r.write(slot, draw, layout.BufferIndexMaterialData, layout.GPUMaterialDataSize, m.Marshal)
}

func (r *ringImpl) BufferSize(b layout.BufferIndex) uint64 {
	switch b {
	case layout.BufferIndexFrameData:
		return r.slotStride(layout.GPUFrameDataSize) * uint64(r.slots)
	case layout.BufferIndexMaterialData:
		return r.slotStride(layout.GPUMaterialDataSize) * uint64(r.slots)
	default:
		return 0
	}
}

func (r *ringImpl) Slots() int {
	return r.slots
}

// write validates the slot and draw and places the marshalled record at its aligned offset.
func (r *ringImpl) write(slot, draw int, b layout.BufferIndex, size uint64, marshal func() []byte) (BufferWrite, error) {
	r.mu.Lock()
	acquired := slot >= 0 && slot < r.slots && r.inUse[slot]
	r.mu.Unlock()
	if !acquired {
		return BufferWrite{}, fmt.Errorf("%w: %d", ErrSlotNotInUse, slot)
	}
	if draw < 0 || draw >= r.maxDraws {
		return BufferWrite{}, fmt.Errorf("%w: %d of %d", ErrDrawOutOfRange, draw, r.maxDraws)
	}

	offset := uint64(slot)*r.slotStride(size) + uint64(draw)*r.recordStride(size)
	common.Logger().Debug("uniform write", "binding", b, "slot", slot, "draw", draw, "offset", offset)
	return BufferWrite{
		Slot:    slot,
		Binding: int(b),
		Offset:  offset,
		Data:    marshal(),
	}, nil
}

// recordStride is the record size rounded up to the offset alignment.
func (r *ringImpl) recordStride(size uint64) uint64 {
	return (size + r.alignment - 1) / r.alignment * r.alignment
}

// slotStride is the space one frame occupies in a buffer.
func (r *ringImpl) slotStride(size uint64) uint64 {
	return r.recordStride(size) * uint64(r.maxDraws)
}
