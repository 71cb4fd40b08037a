package variant

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// variant is the implementation of the Variant interface.
// It holds the specialized shaders of one quality level and the fixed-function state
// used to build its render pipeline.
type variant struct {
	// key is the unique identifier for this variant, used for caching and lookups
	key   string
	label string

	quality   layout.QualityLevel
	available []layout.TextureIndex
	spec      shader.Specialization

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the renderer compiles the variant
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
}

// Variant is one specialization of the shared PBR shaders for a quality level. It carries
// the processed shaders, the function constant values baked into them, and the state needed
// to describe its render pipeline.
type Variant interface {
	// Key returns the unique key of the variant, derived from its specialization so two
	// quality levels that end up sampling the same maps share one key.
	//
	// Returns:
	//   - string: the variant key
	Key() string

	// Label returns the human-readable label used for GPU object names.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Quality returns the quality level the variant was built for.
	//
	// Returns:
	//   - layout.QualityLevel: the quality level
	Quality() layout.QualityLevel

	// Specialization returns the function constant values baked into the shaders.
	//
	// Returns:
	//   - shader.Specialization: the constant values
	Specialization() shader.Specialization

	// Textures returns the texture slots the variant samples, in slot order.
	//
	// Returns:
	//   - []layout.TextureIndex: the sampled slots
	Textures() []layout.TextureIndex

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// Constants returns the override values to pass when creating the pipeline.
	//
	// Returns:
	//   - []shader.Constant: one entry per function constant in @id order
	Constants() []shader.Constant

	// RenderPipelineDescriptor describes the render pipeline for the variant. The vertex
	// buffers come from the layout registry.
	//
	// Parameters:
	//   - vs: the compiled vertex shader module
	//   - fs: the compiled fragment shader module
	//   - pipelineLayout: the pipeline layout built from layout.BindGroupLayoutDescriptors
	//   - format: the color target format
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	RenderPipelineDescriptor(vs, fs *wgpu.ShaderModule, pipelineLayout *wgpu.PipelineLayout, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor

	// RenderPipeline returns the compiled pipeline, nil until SetRenderPipeline is called.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the compiled pipeline.
	//
	// Parameters:
	//   - p: the compiled pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// DepthTestEnabled returns whether depth testing is enabled for this variant.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this variant.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// CullMode returns the cull mode configured for this variant.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this variant.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this variant.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order
	FrontFace() wgpu.FrontFace
}

var _ Variant = &variant{}

// NewVariant specializes the vertex and fragment sources for quality level q and checks
// both shaders against the layout registry.
//
// Parameters:
//   - q: the quality level
//   - vertexSource: the annotated WGSL vertex source
//   - fragmentSource: the annotated WGSL fragment source
//   - opts: a variadic list of VariantBuilderOption functions to configure the variant
//
// Returns:
//   - Variant: the built variant
//   - error: an error if q is invalid, either source fails to parse, or a shader disagrees with the registry
func NewVariant(q layout.QualityLevel, vertexSource, fragmentSource string, opts ...VariantBuilderOption) (Variant, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("variant: invalid quality level %d", uint32(q))
	}
	v := &variant{
		quality:           q,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeBack,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.spec = SpecializationFor(q, v.available)
	v.key = "pbr:" + v.spec.Key()
	if v.label == "" {
		v.label = "pbr_" + q.String()
	}

	var err error
	v.vertexShader, err = shader.NewShader(v.label+"_vert", shader.ShaderTypeVertex, vertexSource, v.spec)
	if err != nil {
		return nil, fmt.Errorf("variant: %s: %w", v.label, err)
	}
	v.fragmentShader, err = shader.NewShader(v.label+"_frag", shader.ShaderTypeFragment, fragmentSource, v.spec)
	if err != nil {
		return nil, fmt.Errorf("variant: %s: %w", v.label, err)
	}
	for _, s := range []shader.Shader{v.vertexShader, v.fragmentShader} {
		if err := shader.CheckBindings(s); err != nil {
			return nil, fmt.Errorf("variant: %s: %w", v.label, err)
		}
	}
	return v, nil
}

func (v *variant) Key() string {
	return v.key
}

func (v *variant) Label() string {
	return v.label
}

func (v *variant) Quality() layout.QualityLevel {
	return v.quality
}

func (v *variant) Specialization() shader.Specialization {
	return v.spec
}

func (v *variant) Textures() []layout.TextureIndex {
	var out []layout.TextureIndex
	for _, t := range layout.AllTextureIndices() {
		if v.spec.TextureEnabled(t) {
			out = append(out, t)
		}
	}
	return out
}

func (v *variant) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return v.vertexShader
	case shader.ShaderTypeFragment:
		return v.fragmentShader
	default:
		return nil
	}
}

func (v *variant) Constants() []shader.Constant {
	return v.spec.Constants()
}

func (v *variant) RenderPipelineDescriptor(vs, fs *wgpu.ShaderModule, pipelineLayout *wgpu.PipelineLayout, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	depthCompare := wgpu.CompareFunctionLess
	if !v.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}
	return &wgpu.RenderPipelineDescriptor{
		Label:  v.label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: v.vertexShader.EntryPoint(),
			Buffers:    layout.VertexBufferLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: v.fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{Format: format, WriteMask: v.writeMask},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  v.topology,
			FrontFace: v.frontFace,
			CullMode:  v.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: v.depthWriteEnabled,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}
}

func (v *variant) RenderPipeline() *wgpu.RenderPipeline {
	return v.renderPipeline
}

func (v *variant) SetRenderPipeline(p *wgpu.RenderPipeline) {
	v.renderPipeline = p
}

func (v *variant) DepthTestEnabled() bool {
	return v.depthTestEnabled
}

func (v *variant) DepthWriteEnabled() bool {
	return v.depthWriteEnabled
}

func (v *variant) CullMode() wgpu.CullMode {
	return v.cullMode
}

func (v *variant) Topology() wgpu.PrimitiveTopology {
	return v.topology
}

func (v *variant) FrontFace() wgpu.FrontFace {
	return v.frontFace
}

// sortedTextures returns a sorted, de-duplicated copy of ts keeping only valid slots.
func sortedTextures(ts []layout.TextureIndex) []layout.TextureIndex {
	out := make([]layout.TextureIndex, 0, len(ts))
	for _, t := range ts {
		if t.Valid() {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
