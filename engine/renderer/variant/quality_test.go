package variant

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/stretchr/testify/assert"
)

func TestQualityTextures(t *testing.T) {
	assert.Equal(t, layout.AllTextureIndices(), QualityTextures(layout.QualityLevelHigh))
	assert.Equal(t, []layout.TextureIndex{
		layout.TextureIndexBaseColor,
		layout.TextureIndexMetallic,
		layout.TextureIndexRoughness,
		layout.TextureIndexNormal,
	}, QualityTextures(layout.QualityLevelMedium))
	assert.Equal(t, []layout.TextureIndex{layout.TextureIndexBaseColor}, QualityTextures(layout.QualityLevelLow))
	assert.Nil(t, QualityTextures(layout.NumQualityLevels))

	// Callers get a copy.
	medium := QualityTextures(layout.QualityLevelMedium)
	medium[0] = layout.TextureIndexIrradianceMap
	assert.Equal(t, layout.TextureIndexBaseColor, QualityTextures(layout.QualityLevelMedium)[0])
}

func TestQualityLevelsAreNested(t *testing.T) {
	levels := layout.AllQualityLevels()
	for i := 1; i < len(levels); i++ {
		higher := QualityTextures(levels[i-1])
		for _, tex := range QualityTextures(levels[i]) {
			assert.Contains(t, higher, tex, "%s samples %s but %s does not", levels[i], tex, levels[i-1])
		}
	}
}

func TestSpecializationFor(t *testing.T) {
	assert.Equal(t, "fc:111111", SpecializationFor(layout.QualityLevelHigh, nil).Key())
	assert.Equal(t, "fc:111100", SpecializationFor(layout.QualityLevelMedium, nil).Key())
	assert.Equal(t, "fc:100000", SpecializationFor(layout.QualityLevelLow, nil).Key())

	available := []layout.TextureIndex{layout.TextureIndexBaseColor, layout.TextureIndexNormal}
	assert.Equal(t, "fc:110000", SpecializationFor(layout.QualityLevelHigh, available).Key())
	assert.Equal(t, "fc:110000", SpecializationFor(layout.QualityLevelMedium, available).Key())
	assert.Equal(t, "fc:000000", SpecializationFor(layout.QualityLevelLow, []layout.TextureIndex{}).Key())
}

func TestQualityForDistance(t *testing.T) {
	tests := []struct {
		d    float32
		want layout.QualityLevel
	}{
		{0, layout.QualityLevelHigh},
		{9.99, layout.QualityLevelHigh},
		{10, layout.QualityLevelMedium},
		{29.99, layout.QualityLevelMedium},
		{30, layout.QualityLevelLow},
		{1e6, layout.QualityLevelLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QualityForDistance(tt.d, DefaultThresholds), "distance %v", tt.d)
	}
}

func TestBlendWeights(t *testing.T) {
	ao := layout.TextureIndexAmbientOcclusion
	normal := layout.TextureIndexNormal
	base := layout.TextureIndexBaseColor

	w := BlendWeights(0, DefaultThresholds, 2)
	assert.Equal(t, [layout.NumMeshTextureIndices]float32{1, 1, 1, 1, 1}, w)

	w = BlendWeights(9, DefaultThresholds, 2)
	assert.InDelta(t, 0.5, w[ao], 1e-6)
	assert.Equal(t, float32(1), w[normal])

	w = BlendWeights(10, DefaultThresholds, 2)
	assert.Zero(t, w[ao])
	assert.Equal(t, float32(1), w[normal])

	w = BlendWeights(29.5, DefaultThresholds, 2)
	assert.InDelta(t, 0.25, w[normal], 1e-6)
	assert.InDelta(t, 0.25, w[layout.TextureIndexMetallic], 1e-6)
	assert.InDelta(t, 0.25, w[layout.TextureIndexRoughness], 1e-6)

	w = BlendWeights(100, DefaultThresholds, 2)
	assert.Equal(t, [layout.NumMeshTextureIndices]float32{1, 0, 0, 0, 0}, w)
	assert.Equal(t, float32(1), w[base])
}

func TestBlendWeightsWithoutBand(t *testing.T) {
	w := BlendWeights(9.99, DefaultThresholds, 0)
	assert.Equal(t, float32(1), w[layout.TextureIndexAmbientOcclusion])
	w = BlendWeights(10, DefaultThresholds, 0)
	assert.Zero(t, w[layout.TextureIndexAmbientOcclusion])
}

func TestBlendWeightsMatchQualityLevel(t *testing.T) {
	// Every map a level samples has a non-zero weight, every map it drops has zero.
	for _, d := range []float32{0, 5, 9.5, 10, 20, 29.5, 30, 50} {
		q := QualityForDistance(d, DefaultThresholds)
		w := BlendWeights(d, DefaultThresholds, 2)
		for _, tex := range layout.AllTextureIndices() {
			if !tex.IsMeshTexture() {
				continue
			}
			sampled := SpecializationFor(q, nil).TextureEnabled(tex)
			assert.Equal(t, sampled, w[tex] > 0, "distance %v texture %s", d, tex)
		}
	}
}

func TestApplyBlendWeights(t *testing.T) {
	m := layout.GPUMaterialData{BaseColor: [3]float32{1, 0, 0}}
	ApplyBlendWeights(&m, 100, DefaultThresholds, 2)
	assert.Equal(t, float32(1), m.MapWeight(layout.TextureIndexBaseColor))
	assert.Zero(t, m.MapWeight(layout.TextureIndexNormal))
	assert.Equal(t, [3]float32{1, 0, 0}, m.BaseColor)
}
