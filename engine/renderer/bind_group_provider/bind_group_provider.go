package bind_group_provider

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNotInGroup is returned when a resource is assigned to a binding the registry does not
	// declare in the provider's group, or to a binding of another resource kind.
	ErrNotInGroup = errors.New("bind group provider: binding not in group")

	// ErrMissingResource is returned when building entries while a registry binding has no resource.
	ErrMissingResource = errors.New("bind group provider: missing resource")
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string
	// group is the registry bind group this provider fills.
	group int
	// layoutEntries are the registry entries of group, in binding order.
	layoutEntries []wgpu.BindGroupLayoutEntry

	// The following fields are GPU allocated resources owned by the caller until Release.

	// bindGroup is the GPU bind group created from Descriptor, or nil before creation.
	bindGroup *wgpu.BindGroup
	// buffers holds the record buffers, keyed by binding index.
	buffers map[uint32]*wgpu.Buffer
	// textureViews holds the texture views, keyed by binding index.
	textureViews map[uint32]*wgpu.TextureView
	// samplers holds the samplers, keyed by binding index.
	samplers map[uint32]*wgpu.Sampler
}

// BindGroupProvider collects the GPU resources for one registry bind group and turns them
// into bind group entries. Every binding the registry declares for the group must be
// filled: a variant compiled without a texture map still declares that map, so the
// pipeline layout requires it.
//
// Usage pattern:
//  1. Create one provider per group with NewBindGroupProvider
//  2. Assign resources with SetBuffer, SetTextureView and SetSampler
//  3. Create the bind group from Descriptor and store it with SetBindGroup
//  4. Each draw, bind it with the offsets from DynamicOffsets
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Group returns the registry bind group index this provider fills.
	//
	// Returns:
	//   - int: the @group index
	Group() int

	// BindGroup returns the created bind group, or nil before SetBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// SetBindGroup stores the bind group created from Descriptor.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer assigns the buffer backing a record binding.
	//
	// Parameters:
	//   - b: BufferIndexFrameData or BufferIndexMaterialData
	//   - buf: the buffer, sized by uniform.Ring.BufferSize
	//
	// Returns:
	//   - error: ErrNotInGroup if the group has no buffer binding at b
	SetBuffer(b layout.BufferIndex, buf *wgpu.Buffer) error

	// SetTextureView assigns the view bound at a texture slot.
	//
	// Parameters:
	//   - t: the texture slot
	//   - tv: the view, a cube view for the irradiance map
	//
	// Returns:
	//   - error: ErrNotInGroup if the group has no texture binding at t
	SetTextureView(t layout.TextureIndex, tv *wgpu.TextureView) error

	// SetSampler assigns a sampler binding.
	//
	// Parameters:
	//   - binding: the @binding index
	//   - s: the sampler
	//
	// Returns:
	//   - error: ErrNotInGroup if the group has no sampler binding there
	SetSampler(binding uint32, s *wgpu.Sampler) error

	// Missing lists the registry bindings of the group that have no resource yet.
	//
	// Returns:
	//   - []uint32: binding indices in ascending order
	Missing() []uint32

	// Entries builds the bind group entries in registry order. Record buffers are bound
	// with the record size so a dynamic offset selects one record.
	//
	// Returns:
	//   - []wgpu.BindGroupEntry: one entry per registry binding
	//   - error: ErrMissingResource naming the first unfilled binding
	Entries() ([]wgpu.BindGroupEntry, error)

	// Descriptor builds the descriptor to create the bind group with.
	//
	// Parameters:
	//   - bgl: the bind group layout created from the registry descriptor for this group
	//
	// Returns:
	//   - *wgpu.BindGroupDescriptor: the descriptor
	//   - error: ErrMissingResource if a binding is unfilled
	Descriptor(bgl *wgpu.BindGroupLayout) (*wgpu.BindGroupDescriptor, error)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider for a registry bind group. It panics if
// group is not one of layout.BindGroupFrame, layout.BindGroupTextures or
// layout.BindGroupSamplers.
//
// Parameters:
//   - label: the debug label
//   - group: the registry @group index
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, group int, options ...BindGroupProviderOption) BindGroupProvider {
	desc, ok := layout.BindGroupLayoutDescriptors(wgpu.ShaderStageVertex | wgpu.ShaderStageFragment)[group]
	if !ok {
		panic(fmt.Sprintf("bind group provider: group %d is not in the registry", group))
	}
	p := &bindGroupProvider{
		label:         label,
		group:         group,
		layoutEntries: desc.Entries,
		buffers:       make(map[uint32]*wgpu.Buffer),
		textureViews:  make(map[uint32]*wgpu.TextureView),
		samplers:      make(map[uint32]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Group() int {
	return p.group
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(b layout.BufferIndex, buf *wgpu.Buffer) error {
	e, ok := p.entry(uint32(b))
	if !ok || e.Buffer.Type == wgpu.BufferBindingTypeUndefined {
		return fmt.Errorf("%w: %s at @group(%d) @binding(%d)", ErrNotInGroup, b, p.group, b)
	}
	p.buffers[uint32(b)] = buf
	return nil
}

func (p *bindGroupProvider) SetTextureView(t layout.TextureIndex, tv *wgpu.TextureView) error {
	e, ok := p.entry(uint32(t))
	if !ok || e.Texture.SampleType == wgpu.TextureSampleTypeUndefined {
		return fmt.Errorf("%w: %s at @group(%d) @binding(%d)", ErrNotInGroup, t, p.group, t)
	}
	p.textureViews[uint32(t)] = tv
	return nil
}

func (p *bindGroupProvider) SetSampler(binding uint32, s *wgpu.Sampler) error {
	e, ok := p.entry(binding)
	if !ok || e.Sampler.Type == wgpu.SamplerBindingTypeUndefined {
		return fmt.Errorf("%w: sampler at @group(%d) @binding(%d)", ErrNotInGroup, p.group, binding)
	}
	p.samplers[binding] = s
	return nil
}

func (p *bindGroupProvider) Missing() []uint32 {
	var missing []uint32
	for _, e := range p.layoutEntries {
		if !p.filled(e.Binding) {
			missing = append(missing, e.Binding)
		}
	}
	return missing
}

func (p *bindGroupProvider) Entries() ([]wgpu.BindGroupEntry, error) {
	entries := make([]wgpu.BindGroupEntry, 0, len(p.layoutEntries))
	for _, e := range p.layoutEntries {
		if !p.filled(e.Binding) {
			return nil, fmt.Errorf("%w: %s @group(%d) @binding(%d)", ErrMissingResource, p.label, p.group, e.Binding)
		}
		switch {
		case e.Buffer.Type != wgpu.BufferBindingTypeUndefined:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: e.Binding,
				Buffer:  p.buffers[e.Binding],
				Offset:  0,
				Size:    e.Buffer.MinBindingSize,
			})
		case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: e.Binding,
				Sampler: p.samplers[e.Binding],
			})
		default:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     e.Binding,
				TextureView: p.textureViews[e.Binding],
			})
		}
	}
	return entries, nil
}

func (p *bindGroupProvider) Descriptor(bgl *wgpu.BindGroupLayout) (*wgpu.BindGroupDescriptor, error) {
	entries, err := p.Entries()
	if err != nil {
		return nil, err
	}
	return &wgpu.BindGroupDescriptor{
		Label:   p.label + " Bind Group",
		Layout:  bgl,
		Entries: entries,
	}, nil
}

func (p *bindGroupProvider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
}

// entry finds the registry entry at binding.
func (p *bindGroupProvider) entry(binding uint32) (wgpu.BindGroupLayoutEntry, bool) {
	for _, e := range p.layoutEntries {
		if e.Binding == binding {
			return e, true
		}
	}
	return wgpu.BindGroupLayoutEntry{}, false
}

// filled reports whether a resource was assigned at binding.
func (p *bindGroupProvider) filled(binding uint32) bool {
	if p.buffers[binding] != nil {
		return true
	}
	if p.textureViews[binding] != nil {
		return true
	}
	return p.samplers[binding] != nil
}

// DynamicOffsets returns the dynamic offsets to bind the frame group with for one draw.
// WebGPU applies them in binding order, so the FrameData offset comes first.
//
// Parameters:
//   - frame: the FrameData write returned by uniform.Ring.WriteFrame
//   - material: the MaterialData write returned by uniform.Ring.WriteMaterial
//
// Returns:
//   - []uint32: the offsets for FrameData and MaterialData
//   - error: if the writes target other bindings or different ring slots
func DynamicOffsets(frame, material uniform.BufferWrite) ([]uint32, error) {
	if frame.Binding != int(layout.BufferIndexFrameData) || material.Binding != int(layout.BufferIndexMaterialData) {
		return nil, fmt.Errorf("bind group provider: writes target bindings %d and %d, want %d and %d",
			frame.Binding, material.Binding, layout.BufferIndexFrameData, layout.BufferIndexMaterialData)
	}
	if frame.Slot != material.Slot {
		return nil, fmt.Errorf("bind group provider: writes from slots %d and %d", frame.Slot, material.Slot)
	}
	return []uint32{uint32(frame.Offset), uint32(material.Offset)}, nil
}
