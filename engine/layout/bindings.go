package layout

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupLayoutDescriptors returns the bind group layouts every shader built on this
// registry must declare, keyed by group index. Buffer bindings carry the record size as
// MinBindingSize so a mismatched shader struct is rejected by the API as well, and take a
// dynamic offset selecting the record for the current frame and draw.
//
// Parameters:
//   - visibility: the shader stages that can see the bindings
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func BindGroupLayoutDescriptors(visibility wgpu.ShaderStage) map[int]wgpu.BindGroupLayoutDescriptor {
	frame := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(BufferIndexFrameData),
		Visibility: visibility,
	}
	frame.Buffer.Type = wgpu.BufferBindingTypeUniform
	frame.Buffer.MinBindingSize = GPUFrameDataSize
	frame.Buffer.HasDynamicOffset = true

	material := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(BufferIndexMaterialData),
		Visibility: visibility,
	}
	material.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	material.Buffer.MinBindingSize = GPUMaterialDataSize
	material.Buffer.HasDynamicOffset = true

	textures := make([]wgpu.BindGroupLayoutEntry, 0, NumTextureIndices)
	for _, t := range AllTextureIndices() {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(t),
			Visibility: visibility,
		}
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = TextureViewDimension(t)
		textures = append(textures, entry)
	}

	sampler := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: visibility,
	}
	sampler.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	return map[int]wgpu.BindGroupLayoutDescriptor{
		BindGroupFrame:    {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{frame, material}},
		BindGroupTextures: {Label: "textures", Entries: textures},
		BindGroupSamplers: {Label: "samplers", Entries: []wgpu.BindGroupLayoutEntry{sampler}},
	}
}

// TextureViewDimension returns the view dimension bound at a texture slot. The
// irradiance map is a cube map; every mesh map is 2D.
//
// Parameters:
//   - t: the texture slot
//
// Returns:
//   - wgpu.TextureViewDimension: the expected view dimension
func TextureViewDimension(t TextureIndex) wgpu.TextureViewDimension {
	if t == TextureIndexIrradianceMap {
		return wgpu.TextureViewDimensionCube
	}
	return wgpu.TextureViewDimension2D
}

// WGSLTextureType returns the WGSL type declared for a texture slot.
//
// Parameters:
//   - t: the texture slot
//
// Returns:
//   - string: "texture_cube<f32>" for the irradiance map, "texture_2d<f32>" otherwise
func WGSLTextureType(t TextureIndex) string {
	if t == TextureIndexIrradianceMap {
		return "texture_cube<f32>"
	}
	return "texture_2d<f32>"
}

// Rect is a viewport rectangle in pixels.
type Rect struct {
	X, Y          uint32
	Width, Height uint32
}

// ViewportRect returns the region of a side-by-side stereo target drawn for one eye.
// The left eye gets the left half; the right eye gets the remaining columns, so odd
// widths never drop a pixel. An invalid viewport yields the full target.
//
// Parameters:
//   - v: the eye
//   - width, height: the drawable size in pixels
//
// Returns:
//   - Rect: the viewport rectangle
func ViewportRect(v Viewport, width, height uint32) Rect {
	half := width / 2
	switch v {
	case ViewportLeft:
		return Rect{X: 0, Y: 0, Width: half, Height: height}
	case ViewportRight:
		return Rect{X: half, Y: 0, Width: width - half, Height: height}
	default:
		return Rect{Width: width, Height: height}
	}
}
