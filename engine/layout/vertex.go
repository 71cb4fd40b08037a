package layout

import (
	_ "embed"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// Vertex buffer strides in bytes. Vertex attributes are tightly packed, unlike
// buffer-bound structs.
const (
	GPUMeshPositionStride = 12
	GPUMeshGenericStride  = 44
)

// GPUMeshPositionSource is the canonical WGSL definition of the MeshPositionInput struct.
//
//go:embed assets/mesh_position.wgsl
var GPUMeshPositionSource string

// GPUMeshPosition is a single vertex in the BufferIndexMeshPositions vertex buffer.
// Positions live in their own buffer so depth-only passes can bind them alone.
// Size: 12 bytes.
type GPUMeshPosition struct {
	Position [3]float32 `wgsl:"position"` // offset 0, @location(0)
}

// Size returns the size of the GPUMeshPosition struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (12)
func (g *GPUMeshPosition) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the vertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 12-byte buffer
func (g *GPUMeshPosition) Marshal() []byte {
	buf := make([]byte, GPUMeshPositionStride)
	putFloat32s(buf, 0, g.Position[:])
	return buf
}

// GPUMeshGenericSource is the canonical WGSL definition of the MeshGenericInput struct.
//
//go:embed assets/mesh_generic.wgsl
var GPUMeshGenericSource string

// GPUMeshGeneric is a single vertex in the BufferIndexMeshGenerics vertex buffer
// carrying every attribute except position.
// Size: 44 bytes.
type GPUMeshGeneric struct {
	Texcoord  [2]float32 `wgsl:"texcoord"`  // offset  0, @location(1)
	Normal    [3]float32 `wgsl:"normal"`    // offset  8, @location(2)
	Tangent   [3]float32 `wgsl:"tangent"`   // offset 20, @location(3)
	Bitangent [3]float32 `wgsl:"bitangent"` // offset 32, @location(4)
}

// Size returns the size of the GPUMeshGeneric struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (44)
func (g *GPUMeshGeneric) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the vertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 44-byte buffer
func (g *GPUMeshGeneric) Marshal() []byte {
	buf := make([]byte, GPUMeshGenericStride)
	putFloat32s(buf, 0, g.Texcoord[:])
	putFloat32s(buf, 8, g.Normal[:])
	putFloat32s(buf, 20, g.Tangent[:])
	putFloat32s(buf, 32, g.Bitangent[:])
	return buf
}

// VertexBufferLayouts returns the vertex buffer layouts indexed by vertex buffer slot
// (BufferIndexMeshPositions, BufferIndexMeshGenerics). Every attribute's ShaderLocation
// equals its VertexAttribute value.
//
// Returns:
//   - []wgpu.VertexBufferLayout: two layouts, in slot order
func VertexBufferLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		BufferIndexMeshPositions: {
			ArrayStride: GPUMeshPositionStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: uint32(VertexAttributePosition)},
			},
		},
		BufferIndexMeshGenerics: {
			ArrayStride: GPUMeshGenericStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: uint32(VertexAttributeTexcoord)},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 8, ShaderLocation: uint32(VertexAttributeNormal)},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 20, ShaderLocation: uint32(VertexAttributeTangent)},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 32, ShaderLocation: uint32(VertexAttributeBitangent)},
			},
		},
	}
}

// VertexBufferForAttribute returns the vertex buffer slot that carries an attribute.
// Position is alone in BufferIndexMeshPositions; every other attribute is interleaved
// in BufferIndexMeshGenerics.
//
// Parameters:
//   - a: the vertex attribute
//
// Returns:
//   - BufferIndex: the vertex buffer slot holding a
//   - bool: false if a is not a valid vertex attribute
func VertexBufferForAttribute(a VertexAttribute) (BufferIndex, bool) {
	switch {
	case !a.Valid():
		return 0, false
	case a == VertexAttributePosition:
		return BufferIndexMeshPositions, true
	default:
		return BufferIndexMeshGenerics, true
	}
}
