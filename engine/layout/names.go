package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownName is returned by the Lookup functions when a name is not registered.
var ErrUnknownName = errors.New("layout: unknown name")

var bufferIndexNames = [NumBufferIndices]string{
	BufferIndexMeshPositions: "mesh_positions",
	BufferIndexMeshGenerics:  "mesh_generics",
	BufferIndexFrameData:     "frame_data",
	BufferIndexMaterialData:  "material_data",
}

var vertexAttributeNames = [NumVertexAttributes]string{
	VertexAttributePosition:  "position",
	VertexAttributeTexcoord:  "texcoord",
	VertexAttributeNormal:    "normal",
	VertexAttributeTangent:   "tangent",
	VertexAttributeBitangent: "bitangent",
}

var textureIndexNames = [NumTextureIndices]string{
	TextureIndexBaseColor:        "base_color",
	TextureIndexMetallic:         "metallic",
	TextureIndexRoughness:        "roughness",
	TextureIndexNormal:           "normal",
	TextureIndexAmbientOcclusion: "ambient_occlusion",
	TextureIndexIrradianceMap:    "irradiance_map",
}

// functionConstantNames are also the WGSL override identifiers.
var functionConstantNames = [NumFunctionConstants]string{
	FunctionConstantBaseColorMap:        "has_base_color_map",
	FunctionConstantNormalMap:           "has_normal_map",
	FunctionConstantMetallicMap:         "has_metallic_map",
	FunctionConstantRoughnessMap:        "has_roughness_map",
	FunctionConstantAmbientOcclusionMap: "has_ambient_occlusion_map",
	FunctionConstantIrradianceMap:       "has_irradiance_map",
}

var viewportNames = [NumViewports]string{
	ViewportLeft:  "left",
	ViewportRight: "right",
}

var qualityLevelNames = [NumQualityLevels]string{
	QualityLevelHigh:   "high",
	QualityLevelMedium: "medium",
	QualityLevelLow:    "low",
}

func (b BufferIndex) String() string {
	if !b.Valid() {
		return fmt.Sprintf("BufferIndex(%d)", uint32(b))
	}
	return bufferIndexNames[b]
}

func (a VertexAttribute) String() string {
	if !a.Valid() {
		return fmt.Sprintf("VertexAttribute(%d)", uint32(a))
	}
	return vertexAttributeNames[a]
}

func (t TextureIndex) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TextureIndex(%d)", uint32(t))
	}
	return textureIndexNames[t]
}

func (fc FunctionConstant) String() string {
	if !fc.Valid() {
		return fmt.Sprintf("FunctionConstant(%d)", uint32(fc))
	}
	return functionConstantNames[fc]
}

func (v Viewport) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Viewport(%d)", uint32(v))
	}
	return viewportNames[v]
}

func (q QualityLevel) String() string {
	if !q.Valid() {
		return fmt.Sprintf("QualityLevel(%d)", uint32(q))
	}
	return qualityLevelNames[q]
}

// LookupBufferIndex resolves a buffer slot by name. Names are snake_case; spaces and
// hyphens are accepted in place of underscores ("mesh positions" resolves to 0).
//
// Parameters:
//   - name: the slot name
//
// Returns:
//   - BufferIndex: the slot
//   - error: ErrUnknownName if no slot has that name
func LookupBufferIndex(name string) (BufferIndex, error) {
	return lookup[BufferIndex](bufferIndexNames[:], name)
}

// LookupVertexAttribute resolves a vertex attribute by name.
//
// Parameters:
//   - name: the attribute name
//
// Returns:
//   - VertexAttribute: the attribute
//   - error: ErrUnknownName if no attribute has that name
func LookupVertexAttribute(name string) (VertexAttribute, error) {
	return lookup[VertexAttribute](vertexAttributeNames[:], name)
}

// LookupTextureIndex resolves a texture slot by name.
//
// Parameters:
//   - name: the slot name
//
// Returns:
//   - TextureIndex: the slot
//   - error: ErrUnknownName if no slot has that name
func LookupTextureIndex(name string) (TextureIndex, error) {
	return lookup[TextureIndex](textureIndexNames[:], name)
}

// LookupFunctionConstant resolves a function constant by its WGSL override name.
//
// Parameters:
//   - name: the override name, e.g. "has_normal_map"
//
// Returns:
//   - FunctionConstant: the function constant
//   - error: ErrUnknownName if no function constant has that name
func LookupFunctionConstant(name string) (FunctionConstant, error) {
	return lookup[FunctionConstant](functionConstantNames[:], name)
}

// LookupQualityLevel resolves a quality level by name.
//
// Parameters:
//   - name: "high", "medium" or "low"
//
// Returns:
//   - QualityLevel: the quality level
//   - error: ErrUnknownName if the name is not a quality level
func LookupQualityLevel(name string) (QualityLevel, error) {
	return lookup[QualityLevel](qualityLevelNames[:], name)
}

// LookupViewport resolves a viewport by name.
//
// Parameters:
//   - name: "left" or "right"
//
// Returns:
//   - Viewport: the viewport
//   - error: ErrUnknownName if the name is not a viewport
func LookupViewport(name string) (Viewport, error) {
	return lookup[Viewport](viewportNames[:], name)
}

func lookup[T ~uint32](names []string, name string) (T, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for i, n := range names {
		if n == key {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownName, name)
}
