package variant

import (
	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// VariantBuilderOption is a functional option used to configure a Variant during construction.
type VariantBuilderOption func(*variant)

// WithAvailableTextures limits the variant to the texture slots a material actually has.
// Slots the quality level samples but the material lacks are compiled out.
//
// Parameters:
//   - textures: the texture slots the material provides
//
// Returns:
//   - VariantBuilderOption: a function that sets the available textures for this variant
func WithAvailableTextures(textures ...layout.TextureIndex) VariantBuilderOption {
	return func(v *variant) {
		v.available = sortedTextures(textures)
	}
}

// WithLabel sets the label used for shader keys and GPU object names.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - VariantBuilderOption: a function that sets the label for this variant
func WithLabel(label string) VariantBuilderOption {
	return func(v *variant) {
		v.label = label
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this variant.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - VariantBuilderOption: a function that sets the depth test enabled state for this variant
func WithDepthTestEnabled(enabled bool) VariantBuilderOption {
	return func(v *variant) {
		v.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this variant.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - VariantBuilderOption: a function that sets the depth write enabled state for this variant
func WithDepthWriteEnabled(enabled bool) VariantBuilderOption {
	return func(v *variant) {
		v.depthWriteEnabled = enabled
	}
}

// WithCullMode sets the cull mode for this variant.
//
// Parameters:
//   - mode: the cull mode to use (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
//
// Returns:
//   - VariantBuilderOption: a function that sets the cull mode for this variant
func WithCullMode(mode wgpu.CullMode) VariantBuilderOption {
	return func(v *variant) {
		v.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this variant.
//
// Parameters:
//   - topology: the primitive topology to use
//
// Returns:
//   - VariantBuilderOption: a function that sets the primitive topology for this variant
func WithTopology(topology wgpu.PrimitiveTopology) VariantBuilderOption {
	return func(v *variant) {
		v.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this variant.
//
// Parameters:
//   - frontFace: the front face to use (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
//
// Returns:
//   - VariantBuilderOption: a function that sets the front face for this variant
func WithFrontFace(frontFace wgpu.FrontFace) VariantBuilderOption {
	return func(v *variant) {
		v.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask for this variant.
//
// Parameters:
//   - writeMask: the color write mask to use
//
// Returns:
//   - VariantBuilderOption: a function that sets the color write mask for this variant
func WithWriteMask(writeMask wgpu.ColorWriteMask) VariantBuilderOption {
	return func(v *variant) {
		v.writeMask = writeMask
	}
}
