package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-variants/common"
	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureFormat returns the format a texture slot is created with. Base color is stored
// in sRGB; every other map holds linear data.
//
// Parameters:
//   - t: the texture slot
//
// Returns:
//   - wgpu.TextureFormat: the texture format
func TextureFormat(t layout.TextureIndex) wgpu.TextureFormat {
	if t == layout.TextureIndexBaseColor {
		return wgpu.TextureFormatRGBA8UnormSrgb
	}
	return wgpu.TextureFormatRGBA8Unorm
}

// TextureDescriptor builds the descriptor for the texture bound at a slot, checking that the
// staged data has the layer count the slot's view dimension needs.
//
// Parameters:
//   - t: the texture slot
//   - data: the staged pixels
//
// Returns:
//   - *wgpu.TextureDescriptor: the descriptor
//   - error: if t is not a texture slot or the layer count is wrong
func TextureDescriptor(t layout.TextureIndex, data common.TextureStagingData) (*wgpu.TextureDescriptor, error) {
	if t >= layout.NumTextureIndices {
		return nil, fmt.Errorf("%w: %s", ErrNotInGroup, t)
	}
	want := uint32(1)
	if layout.TextureViewDimension(t) == wgpu.TextureViewDimensionCube {
		want = 6
	}
	if data.Layers != want {
		return nil, fmt.Errorf("bind group provider: %s needs %d layers, got %d", t, want, data.Layers)
	}
	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("bind group provider: %s has an empty image", t)
	}
	if uint64(len(data.Pixels)) != uint64(data.BytesPerRow())*uint64(data.Height)*uint64(data.Layers) {
		return nil, fmt.Errorf("bind group provider: %s has %d bytes for %dx%dx%d", t, len(data.Pixels), data.Width, data.Height, data.Layers)
	}
	return &wgpu.TextureDescriptor{
		Label:     t.String() + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: data.Layers,
		},
		Format:        TextureFormat(t),
		MipLevelCount: 1,
		SampleCount:   1,
	}, nil
}

// TextureViewDescriptor builds the view bound at a slot: a cube view over six layers for
// the irradiance map, a 2D view otherwise.
//
// Parameters:
//   - t: the texture slot
//
// Returns:
//   - *wgpu.TextureViewDescriptor: the view descriptor
func TextureViewDescriptor(t layout.TextureIndex) *wgpu.TextureViewDescriptor {
	dim := layout.TextureViewDimension(t)
	layers := uint32(1)
	if dim == wgpu.TextureViewDimensionCube {
		layers = 6
	}
	return &wgpu.TextureViewDescriptor{
		Label:           t.String() + " View",
		Format:          TextureFormat(t),
		Dimension:       dim,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: layers,
		Aspect:          wgpu.TextureAspectAll,
	}
}
