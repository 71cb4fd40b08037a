// Package layout is the single source of truth for the binary contract shared between
// host code and WGSL shaders: binding slot indices, vertex attribute locations,
// function-constant (override) identifiers, variant selectors, and the fixed-layout
// records uploaded into uniform and storage buffers.
//
// Every enumeration is zero based, dense, and append-only. The integer value of an
// entry is the raw slot passed to the graphics API, so existing entries must never be
// renumbered. Each enumeration ends with a Num* sentinel equal to its entry count; the
// sentinel is never a valid entry.
package layout

// BufferIndex identifies a buffer slot. MeshPositions and MeshGenerics are vertex
// buffer slots; FrameData and MaterialData are @binding indices within BindGroupFrame.
type BufferIndex uint32

const (
	BufferIndexMeshPositions BufferIndex = iota
	BufferIndexMeshGenerics
	BufferIndexFrameData
	BufferIndexMaterialData

	NumBufferIndices
)

// VertexAttribute identifies a vertex attribute. The value is the WGSL @location.
type VertexAttribute uint32

const (
	VertexAttributePosition VertexAttribute = iota
	VertexAttributeTexcoord
	VertexAttributeNormal
	VertexAttributeTangent
	VertexAttributeBitangent

	NumVertexAttributes
)

// TextureIndex identifies a texture slot. The value is the @binding index within
// BindGroupTextures.
type TextureIndex uint32

const (
	TextureIndexBaseColor TextureIndex = iota
	TextureIndexMetallic
	TextureIndexRoughness
	TextureIndexNormal
	TextureIndexAmbientOcclusion
	TextureIndexIrradianceMap

	// NumTextureIndices counts every texture slot including the scene-level irradiance map.
	NumTextureIndices
)

// NumMeshTextureIndices counts the per-mesh texture maps. The irradiance map belongs to
// the scene rather than the mesh, so it sits past this bound. GPUMaterialData.MapWeights
// is sized by this constant.
const NumMeshTextureIndices = TextureIndexAmbientOcclusion + 1

// FunctionConstant identifies a pipeline-overridable constant. The value is the WGSL
// @id of the override declaration, so each identifier occupies exactly one slot.
type FunctionConstant uint32

const (
	FunctionConstantBaseColorMap FunctionConstant = iota
	FunctionConstantNormalMap
	FunctionConstantMetallicMap
	FunctionConstantRoughnessMap
	FunctionConstantAmbientOcclusionMap
	FunctionConstantIrradianceMap

	NumFunctionConstants
)

// Viewport selects one eye of a stereo render target.
type Viewport uint32

const (
	ViewportLeft Viewport = iota
	ViewportRight

	NumViewports
)

// QualityLevel selects a precompiled pipeline variant. Lower values are higher quality.
type QualityLevel uint32

const (
	QualityLevelHigh QualityLevel = iota
	QualityLevelMedium
	QualityLevelLow

	NumQualityLevels
)

// Bind group indices used by the shared shaders.
const (
	// BindGroupFrame holds FrameData and MaterialData at @binding == BufferIndex.
	BindGroupFrame = 0

	// BindGroupTextures holds one texture per TextureIndex at @binding == TextureIndex.
	BindGroupTextures = 1

	// BindGroupSamplers holds the shared filtering sampler at @binding 0.
	BindGroupSamplers = 2
)

// textureFunctionConstants maps each texture slot to the override that enables it.
// The two enumerations are ordered differently, so the mapping is explicit.
var textureFunctionConstants = [NumTextureIndices]FunctionConstant{
	TextureIndexBaseColor:        FunctionConstantBaseColorMap,
	TextureIndexMetallic:         FunctionConstantMetallicMap,
	TextureIndexRoughness:        FunctionConstantRoughnessMap,
	TextureIndexNormal:           FunctionConstantNormalMap,
	TextureIndexAmbientOcclusion: FunctionConstantAmbientOcclusionMap,
	TextureIndexIrradianceMap:    FunctionConstantIrradianceMap,
}

// FunctionConstantForTexture returns the function constant that toggles sampling of
// the given texture slot.
//
// Parameters:
//   - t: the texture slot
//
// Returns:
//   - FunctionConstant: the matching function constant
//   - bool: false if t is not a valid texture slot
func FunctionConstantForTexture(t TextureIndex) (FunctionConstant, bool) {
	if !t.Valid() {
		return 0, false
	}
	return textureFunctionConstants[t], true
}

// TextureForFunctionConstant is the inverse of FunctionConstantForTexture.
//
// Parameters:
//   - fc: the function constant
//
// Returns:
//   - TextureIndex: the texture slot toggled by fc
//   - bool: false if fc is not a valid function constant
func TextureForFunctionConstant(fc FunctionConstant) (TextureIndex, bool) {
	for t, c := range textureFunctionConstants {
		if c == fc {
			return TextureIndex(t), true
		}
	}
	return 0, false
}

// Valid reports whether b is a real buffer slot (not the sentinel).
func (b BufferIndex) Valid() bool { return b < NumBufferIndices }

// Valid reports whether a is a real vertex attribute (not the sentinel).
func (a VertexAttribute) Valid() bool { return a < NumVertexAttributes }

// Valid reports whether t is a real texture slot (not the sentinel).
func (t TextureIndex) Valid() bool { return t < NumTextureIndices }

// IsMeshTexture reports whether t is one of the per-mesh maps weighted by
// GPUMaterialData.MapWeights.
func (t TextureIndex) IsMeshTexture() bool { return t < NumMeshTextureIndices }

// Valid reports whether fc is a real function constant (not the sentinel).
func (fc FunctionConstant) Valid() bool { return fc < NumFunctionConstants }

// Valid reports whether v is a real viewport (not the sentinel).
func (v Viewport) Valid() bool { return v < NumViewports }

// Valid reports whether q is a real quality level (not the sentinel).
func (q QualityLevel) Valid() bool { return q < NumQualityLevels }

// AllBufferIndices returns every buffer slot in declaration order.
func AllBufferIndices() []BufferIndex {
	return enumerate[BufferIndex](NumBufferIndices)
}

// AllVertexAttributes returns every vertex attribute in declaration order.
func AllVertexAttributes() []VertexAttribute {
	return enumerate[VertexAttribute](NumVertexAttributes)
}

// AllTextureIndices returns every texture slot in declaration order.
func AllTextureIndices() []TextureIndex {
	return enumerate[TextureIndex](NumTextureIndices)
}

// AllFunctionConstants returns every function constant in declaration order.
func AllFunctionConstants() []FunctionConstant {
	return enumerate[FunctionConstant](NumFunctionConstants)
}

// AllViewports returns every viewport in declaration order.
func AllViewports() []Viewport {
	return enumerate[Viewport](NumViewports)
}

// AllQualityLevels returns every quality level from highest to lowest.
func AllQualityLevels() []QualityLevel {
	return enumerate[QualityLevel](NumQualityLevels)
}

func enumerate[T ~uint32](n T) []T {
	out := make([]T, 0, n)
	for i := T(0); i < n; i++ {
		out = append(out, i)
	}
	return out
}
