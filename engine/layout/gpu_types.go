package layout

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"
)

// ErrShortBuffer is returned by Unmarshal when the input is smaller than the record.
var ErrShortBuffer = errors.New("layout: buffer too short for record")

// GPUFrameDataSize is the byte size of FrameData in both Go and WGSL.
const GPUFrameDataSize = 240

// GPUFrameDataSource is the canonical WGSL definition of the FrameData struct.
// Matches GPUFrameData layout exactly (240 bytes, 16-byte aligned).
//
//go:embed assets/frame_data.wgsl
var GPUFrameDataSource string

// GPUFrameData is the GPU-aligned per-frame uniform block: camera, mesh transforms and
// light properties. Matches the WGSL FrameData struct layout exactly (see
// GPUFrameDataSource). vec3<f32> fields are 16-byte aligned in WGSL, so each is followed
// by an explicit pad word unless a scalar fills the slot. The 3x3 normal matrix is
// stored as three columns of four floats.
// Size: 240 bytes.
type GPUFrameData struct {
	// Per frame
	CameraPos [3]float32 `wgsl:"camera_pos"` // offset   0
	_pad0     float32    // offset  12

	// Per mesh
	ModelMatrix               [16]float32 `wgsl:"model_matrix"`                 // offset  16: column-major mat4x4
	ModelViewProjectionMatrix [16]float32 `wgsl:"model_view_projection_matrix"` // offset  80: column-major mat4x4
	NormalMatrix              [12]float32 `wgsl:"normal_matrix"`                // offset 144: mat3x3, columns padded to 16 bytes

	// Per light
	DirectionalLightInvDirection [3]float32 `wgsl:"directional_light_inv_direction"` // offset 192
	_pad1                        float32    // offset 204
	LightPosition                [3]float32 `wgsl:"light_position"` // offset 208
	_pad2                        float32    // offset 220

	IrradiatedColor     [3]float32 `wgsl:"irradiated_color"`      // offset 224
	IrradianceMapWeight float32    `wgsl:"irradiance_map_weight"` // offset 236
}

// Size returns the size of the GPUFrameData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (240)
func (g *GPUFrameData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// SetNormalMatrix stores a tightly packed column-major 3x3 matrix into the padded
// NormalMatrix field.
//
// Parameters:
//   - m: the 3x3 normal matrix, column-major
func (g *GPUFrameData) SetNormalMatrix(m [9]float32) {
	for col := range 3 {
		copy(g.NormalMatrix[col*4:col*4+3], m[col*3:col*3+3])
		g.NormalMatrix[col*4+3] = 0
	}
}

// NormalMatrix3 returns the normal matrix without column padding.
//
// Returns:
//   - [9]float32: the 3x3 normal matrix, column-major
func (g *GPUFrameData) NormalMatrix3() [9]float32 {
	var m [9]float32
	for col := range 3 {
		copy(m[col*3:col*3+3], g.NormalMatrix[col*4:col*4+3])
	}
	return m
}

// Marshal serializes the GPUFrameData struct into a byte buffer suitable for GPU upload.
// Padding words are always written as zero.
//
// Returns:
//   - []byte: 240-byte buffer ready for GPU upload
func (g *GPUFrameData) Marshal() []byte {
	buf := make([]byte, GPUFrameDataSize)
	putFloat32s(buf, 0, g.CameraPos[:])
	putFloat32s(buf, 16, g.ModelMatrix[:])
	putFloat32s(buf, 80, g.ModelViewProjectionMatrix[:])
	for col := range 3 {
		putFloat32s(buf, 144+col*16, g.NormalMatrix[col*4:col*4+3])
	}
	putFloat32s(buf, 192, g.DirectionalLightInvDirection[:])
	putFloat32s(buf, 208, g.LightPosition[:])
	putFloat32s(buf, 224, g.IrradiatedColor[:])
	binary.LittleEndian.PutUint32(buf[236:240], math.Float32bits(g.IrradianceMapWeight))
	return buf
}

// Unmarshal decodes a buffer produced by Marshal (or read back from the GPU) into g.
// Padding words are ignored.
//
// Parameters:
//   - buf: at least GPUFrameDataSize bytes
//
// Returns:
//   - error: ErrShortBuffer if buf is too small
func (g *GPUFrameData) Unmarshal(buf []byte) error {
	if len(buf) < GPUFrameDataSize {
		return fmt.Errorf("%w: frame data needs %d bytes, got %d", ErrShortBuffer, GPUFrameDataSize, len(buf))
	}
	*g = GPUFrameData{}
	getFloat32s(buf, 0, g.CameraPos[:])
	getFloat32s(buf, 16, g.ModelMatrix[:])
	getFloat32s(buf, 80, g.ModelViewProjectionMatrix[:])
	for col := range 3 {
		getFloat32s(buf, 144+col*16, g.NormalMatrix[col*4:col*4+3])
	}
	getFloat32s(buf, 192, g.DirectionalLightInvDirection[:])
	getFloat32s(buf, 208, g.LightPosition[:])
	getFloat32s(buf, 224, g.IrradiatedColor[:])
	g.IrradianceMapWeight = math.Float32frombits(binary.LittleEndian.Uint32(buf[236:240]))
	return nil
}

// materialDataTailPad is the number of pad words after MapWeights that round the
// record up to its 16-byte alignment.
const materialDataTailPad = (4 - int(NumMeshTextureIndices)%4) % 4

// GPUMaterialDataSize is the byte size of MaterialData in both Go and WGSL. It is kept
// untyped so it converts to every size type; static_assert.go ties it to
// NumMeshTextureIndices.
const GPUMaterialDataSize = 96

//go:embed assets/material_data.wgsl
var materialDataTemplate string

// GPUMaterialDataSource is the canonical WGSL definition of the MaterialData struct.
// Matches GPUMaterialData layout exactly (96 bytes, 16-byte aligned). The map_weights
// element count is filled in from NumMeshTextureIndices.
var GPUMaterialDataSource = strings.ReplaceAll(materialDataTemplate,
	"NUM_MESH_TEXTURE_INDICES", strconv.Itoa(int(NumMeshTextureIndices)))

// GPUMaterialData is the GPU-aligned per-material block. MapWeights holds one blend
// weight per mesh texture slot, indexed by TextureIndex; its length is
// NumMeshTextureIndices by construction. Matches the WGSL MaterialData struct layout
// exactly (see GPUMaterialDataSource).
// Size: 96 bytes.
type GPUMaterialData struct {
	BaseColor        [3]float32                     `wgsl:"base_color"` // offset  0
	_pad0            float32                        // offset 12
	IrradiatedColor  [3]float32                     `wgsl:"irradiated_color"` // offset 16
	_pad1            float32                        // offset 28
	Roughness        [3]float32                     `wgsl:"roughness"` // offset 32
	_pad2            float32                        // offset 44
	Metalness        [3]float32                     `wgsl:"metalness"`         // offset 48
	AmbientOcclusion float32                        `wgsl:"ambient_occlusion"` // offset 60
	MapWeights       [NumMeshTextureIndices]float32 `wgsl:"map_weights"`       // offset 64
	_pad3            [materialDataTailPad]float32   // offset 84: tail padding to 96
}

// Size returns the size of the GPUMaterialData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUMaterialData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MapWeight returns the blend weight for a mesh texture slot, or 0 for slots outside
// the per-mesh range.
//
// Parameters:
//   - t: the texture slot
//
// Returns:
//   - float32: the weight
func (g *GPUMaterialData) MapWeight(t TextureIndex) float32 {
	if !t.IsMeshTexture() {
		return 0
	}
	return g.MapWeights[t]
}

// SetMapWeight sets the blend weight for a mesh texture slot. Slots outside the
// per-mesh range are ignored and reported with false.
//
// Parameters:
//   - t: the texture slot
//   - w: the weight, usually in [0, 1]
//
// Returns:
//   - bool: false if t has no weight slot
func (g *GPUMaterialData) SetMapWeight(t TextureIndex, w float32) bool {
	if !t.IsMeshTexture() {
		return false
	}
	g.MapWeights[t] = w
	return true
}

// Marshal serializes the GPUMaterialData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPUMaterialData) Marshal() []byte {
	buf := make([]byte, GPUMaterialDataSize)
	putFloat32s(buf, 0, g.BaseColor[:])
	putFloat32s(buf, 16, g.IrradiatedColor[:])
	putFloat32s(buf, 32, g.Roughness[:])
	putFloat32s(buf, 48, g.Metalness[:])
	binary.LittleEndian.PutUint32(buf[60:64], math.Float32bits(g.AmbientOcclusion))
	putFloat32s(buf, 64, g.MapWeights[:])
	return buf
}

// Unmarshal decodes a buffer produced by Marshal into g.
//
// Parameters:
//   - buf: at least GPUMaterialDataSize bytes
//
// Returns:
//   - error: ErrShortBuffer if buf is too small
func (g *GPUMaterialData) Unmarshal(buf []byte) error {
	if len(buf) < GPUMaterialDataSize {
		return fmt.Errorf("%w: material data needs %d bytes, got %d", ErrShortBuffer, GPUMaterialDataSize, len(buf))
	}
	*g = GPUMaterialData{}
	getFloat32s(buf, 0, g.BaseColor[:])
	getFloat32s(buf, 16, g.IrradiatedColor[:])
	getFloat32s(buf, 32, g.Roughness[:])
	getFloat32s(buf, 48, g.Metalness[:])
	g.AmbientOcclusion = math.Float32frombits(binary.LittleEndian.Uint32(buf[60:64]))
	getFloat32s(buf, 64, g.MapWeights[:])
	return nil
}

func putFloat32s(buf []byte, offset int, v []float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(f))
	}
}

func getFloat32s(buf []byte, offset int, v []float32) {
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[offset+i*4:]))
	}
}
