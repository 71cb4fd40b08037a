// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture slot pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, layers stored one after another.
	Pixels []byte
	// Width is the width of one layer in pixels.
	Width uint32
	// Height is the height of one layer in pixels.
	Height uint32
	// Layers is the number of array layers: 1 for a 2D map, 6 for a cube map.
	Layers uint32
}

// BytesPerRow returns the row pitch of the staged pixels.
//
// Returns:
//   - uint32: Width * 4
func (t TextureStagingData) BytesPerRow() uint32 {
	return t.Width * 4
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// Descriptor builds the sampler descriptor, filling unset fields with the defaults.
// Comparison samplers are never produced: the shared sampler binding is a filtering one.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - *wgpu.SamplerDescriptor: the descriptor
func (s SamplerStagingData) Descriptor(label string) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  Coalesce(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  Coalesce(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  Coalesce(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   Coalesce(s.LodMinClamp, 0.0),
		LodMaxClamp:   Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: Coalesce(s.MaxAnisotropy, 1),
	}
}

// TextureSource is an image for one texture slot, either embedded bytes or a file on disk.
type TextureSource struct {
	// Name is an identifier for this texture (e.g., "rock base color").
	Name string

	// Path is the file path for external images (empty for embedded).
	Path string

	// Data contains raw image bytes (PNG/JPEG).
	Data []byte
}

// Decode decodes the source to a single RGBA layer. Data takes precedence over Path.
// PNG, JPEG, BMP, TIFF and WebP images are accepted.
//
// Returns:
//   - TextureStagingData: the decoded layer
//   - error: error if the source is nil, empty, unreadable or in an unknown format
func (t *TextureSource) Decode() (TextureStagingData, error) {
	if t == nil {
		return TextureStagingData{}, fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode embedded image %s: %w", t.Name, err)
		}
	} else if t.Path != "" {
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	} else {
		return TextureStagingData{}, fmt.Errorf("texture %s has neither data nor path", t.Name)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Layers: 1,
	}, nil
}

// DecodeCube decodes six faces in +X, -X, +Y, -Y, +Z, -Z order into one cube map staging
// buffer. Every face must be square and the same size.
//
// Parameters:
//   - faces: the face sources
//
// Returns:
//   - TextureStagingData: the six layers
//   - error: error if a face fails to decode or the sizes disagree
func DecodeCube(faces [6]*TextureSource) (TextureStagingData, error) {
	var cube TextureStagingData
	for i, face := range faces {
		layer, err := face.Decode()
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("cube face %d: %w", i, err)
		}
		if layer.Width != layer.Height {
			return TextureStagingData{}, fmt.Errorf("cube face %d: %dx%d is not square", i, layer.Width, layer.Height)
		}
		if i == 0 {
			cube.Width, cube.Height = layer.Width, layer.Height
			cube.Pixels = make([]byte, 0, len(layer.Pixels)*6)
		} else if layer.Width != cube.Width {
			return TextureStagingData{}, fmt.Errorf("cube face %d: size %d, want %d", i, layer.Width, cube.Width)
		}
		cube.Pixels = append(cube.Pixels, layer.Pixels...)
	}
	cube.Layers = 6
	return cube, nil
}
