package layout

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindGroupLayoutDescriptors(t *testing.T) {
	groups := BindGroupLayoutDescriptors(wgpu.ShaderStageFragment)
	require.Len(t, groups, 3)

	frame := groups[BindGroupFrame]
	require.Len(t, frame.Entries, 2)
	assert.EqualValues(t, BufferIndexFrameData, frame.Entries[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, frame.Entries[0].Buffer.Type)
	assert.EqualValues(t, GPUFrameDataSize, frame.Entries[0].Buffer.MinBindingSize)
	assert.EqualValues(t, BufferIndexMaterialData, frame.Entries[1].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, frame.Entries[1].Buffer.Type)
	assert.EqualValues(t, GPUMaterialDataSize, frame.Entries[1].Buffer.MinBindingSize)
	assert.True(t, frame.Entries[0].Buffer.HasDynamicOffset)
	assert.True(t, frame.Entries[1].Buffer.HasDynamicOffset)

	textures := groups[BindGroupTextures]
	require.Len(t, textures.Entries, int(NumTextureIndices))
	for i, e := range textures.Entries {
		assert.EqualValues(t, i, e.Binding)
		assert.Equal(t, wgpu.ShaderStageFragment, e.Visibility)
	}
	assert.Equal(t, wgpu.TextureViewDimensionCube, textures.Entries[TextureIndexIrradianceMap].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureViewDimension2D, textures.Entries[TextureIndexBaseColor].Texture.ViewDimension)

	samplers := groups[BindGroupSamplers]
	require.Len(t, samplers.Entries, 1)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, samplers.Entries[0].Sampler.Type)
}

func TestWGSLTextureType(t *testing.T) {
	assert.Equal(t, "texture_cube<f32>", WGSLTextureType(TextureIndexIrradianceMap))
	assert.Equal(t, "texture_2d<f32>", WGSLTextureType(TextureIndexNormal))
}

func TestVertexBufferLayouts(t *testing.T) {
	layouts := VertexBufferLayouts()
	require.Len(t, layouts, 2)
	assert.EqualValues(t, GPUMeshPositionStride, layouts[BufferIndexMeshPositions].ArrayStride)
	assert.EqualValues(t, GPUMeshGenericStride, layouts[BufferIndexMeshGenerics].ArrayStride)

	locations := map[uint32]bool{}
	for _, l := range layouts {
		for _, a := range l.Attributes {
			assert.False(t, locations[a.ShaderLocation], "location %d used twice", a.ShaderLocation)
			locations[a.ShaderLocation] = true
		}
	}
	assert.Len(t, locations, int(NumVertexAttributes))
	assert.EqualValues(t, VertexAttributePosition, layouts[0].Attributes[0].ShaderLocation)
}

func TestVertexBufferForAttribute(t *testing.T) {
	layouts := VertexBufferLayouts()
	for _, a := range AllVertexAttributes() {
		slot, ok := VertexBufferForAttribute(a)
		require.True(t, ok, a.String())
		found := false
		for _, attr := range layouts[slot].Attributes {
			if attr.ShaderLocation == uint32(a) {
				found = true
			}
		}
		assert.True(t, found, "%s not in vertex buffer %s", a, slot)
	}

	_, ok := VertexBufferForAttribute(NumVertexAttributes)
	assert.False(t, ok)
}

func TestViewportRect(t *testing.T) {
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 640, Height: 720}, ViewportRect(ViewportLeft, 1280, 720))
	assert.Equal(t, Rect{X: 640, Y: 0, Width: 640, Height: 720}, ViewportRect(ViewportRight, 1280, 720))

	left := ViewportRect(ViewportLeft, 1281, 10)
	right := ViewportRect(ViewportRight, 1281, 10)
	assert.Equal(t, uint32(1281), left.Width+right.Width)
	assert.Equal(t, left.Width, right.X)

	assert.Equal(t, Rect{Width: 100, Height: 50}, ViewportRect(NumViewports, 100, 50))
}
