package variant

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/shader"
	"github.com/chewxy/math32"
)

// qualityTextures lists the texture slots sampled at each quality level.
var qualityTextures = [layout.NumQualityLevels][]layout.TextureIndex{
	layout.QualityLevelHigh: layout.AllTextureIndices(),
	layout.QualityLevelMedium: {
		layout.TextureIndexBaseColor,
		layout.TextureIndexNormal,
		layout.TextureIndexMetallic,
		layout.TextureIndexRoughness,
	},
	layout.QualityLevelLow: {
		layout.TextureIndexBaseColor,
	},
}

// QualityTextures returns the texture slots sampled at quality level q, in slot order.
// Invalid levels sample nothing.
//
// Parameters:
//   - q: the quality level
//
// Returns:
//   - []layout.TextureIndex: the sampled slots
func QualityTextures(q layout.QualityLevel) []layout.TextureIndex {
	if !q.Valid() {
		return nil
	}
	out := slices.Clone(qualityTextures[q])
	slices.Sort(out)
	return out
}

// SpecializationFor returns the function constant values for quality level q, limited to
// the textures the material actually provides. A nil available list means every texture
// is present.
//
// Parameters:
//   - q: the quality level
//   - available: the texture slots the material has, or nil for all
//
// Returns:
//   - shader.Specialization: the constant values for the variant
func SpecializationFor(q layout.QualityLevel, available []layout.TextureIndex) shader.Specialization {
	var enabled []layout.FunctionConstant
	for _, t := range QualityTextures(q) {
		if available != nil && !slices.Contains(available, t) {
			continue
		}
		if fc, ok := layout.FunctionConstantForTexture(t); ok {
			enabled = append(enabled, fc)
		}
	}
	return shader.NewSpecialization(enabled...)
}

// Thresholds are the camera distances at which rendering drops from one quality level to
// the next: index 0 is High to Medium, index 1 is Medium to Low.
type Thresholds [layout.NumQualityLevels - 1]float32

// DefaultThresholds are the switch distances used when none are configured.
var DefaultThresholds = Thresholds{10, 30}

// QualityForDistance picks the quality level for an object at distance d from the camera.
// A distance equal to a threshold already uses the lower level.
//
// Parameters:
//   - d: the camera distance
//   - thresholds: the switch distances, ascending
//
// Returns:
//   - layout.QualityLevel: the level to render with
func QualityForDistance(d float32, thresholds Thresholds) layout.QualityLevel {
	for i, t := range thresholds {
		if d < t {
			return layout.QualityLevel(i)
		}
	}
	return layout.QualityLevel(len(thresholds))
}

// dropLevel returns the first quality level that no longer samples t, or NumQualityLevels
// if every level samples it.
func dropLevel(t layout.TextureIndex) layout.QualityLevel {
	for _, q := range layout.AllQualityLevels() {
		if !slices.Contains(qualityTextures[q], t) {
			return q
		}
	}
	return layout.NumQualityLevels
}

// BlendWeights returns the per-mesh-texture weights for an object at distance d. A map
// fades linearly from 1 to 0 across the band of width band that ends at the threshold
// where its quality level stops sampling it, so the switch to the cheaper variant is
// invisible. Maps sampled at every level keep weight 1. A band of zero switches abruptly.
//
// Parameters:
//   - d: the camera distance
//   - thresholds: the switch distances, ascending
//   - band: the fade width in distance units
//
// Returns:
//   - [layout.NumMeshTextureIndices]float32: weights indexed by TextureIndex
func BlendWeights(d float32, thresholds Thresholds, band float32) [layout.NumMeshTextureIndices]float32 {
	var w [layout.NumMeshTextureIndices]float32
	for i := range w {
		drop := dropLevel(layout.TextureIndex(i))
		if drop == layout.QualityLevelHigh {
			continue
		}
		if drop == layout.NumQualityLevels {
			w[i] = 1
			continue
		}
		end := thresholds[drop-1]
		switch {
		case d >= end:
			w[i] = 0
		case band <= 0 || d <= end-band:
			w[i] = 1
		default:
			w[i] = math32.Min(1, math32.Max(0, (end-d)/band))
		}
	}
	return w
}

// ApplyBlendWeights writes BlendWeights into a material record.
//
// Parameters:
//   - m: the material record to update
//   - d: the camera distance
//   - thresholds: the switch distances, ascending
//   - band: the fade width in distance units
func ApplyBlendWeights(m *layout.GPUMaterialData, d float32, thresholds Thresholds, band float32) {
	m.MapWeights = BlendWeights(d, thresholds, band)
}
