package variant

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLibraryDefault(t *testing.T) {
	lib, err := NewLibrary(WithWorkers(2))
	require.NoError(t, err)

	assert.Equal(t, DefaultThresholds, lib.Thresholds())
	variants := lib.Variants()
	require.Len(t, variants, 3)
	for i, v := range variants {
		assert.Equal(t, layout.QualityLevel(i), v.Quality())
		assert.Same(t, lib.Get(layout.QualityLevel(i)), v)
	}
	assert.Nil(t, lib.Get(layout.NumQualityLevels))

	assert.Equal(t, layout.QualityLevelHigh, lib.ForDistance(1).Quality())
	assert.Equal(t, layout.QualityLevelMedium, lib.ForDistance(15).Quality())
	assert.Equal(t, layout.QualityLevelLow, lib.ForDistance(300).Quality())
}

func TestNewLibrarySharesIdenticalVariants(t *testing.T) {
	lib, err := NewLibrary(WithVariantOptions(WithAvailableTextures(layout.TextureIndexBaseColor)))
	require.NoError(t, err)

	require.Len(t, lib.Variants(), 1)
	high := lib.Get(layout.QualityLevelHigh)
	assert.Same(t, high, lib.Get(layout.QualityLevelMedium))
	assert.Same(t, high, lib.Get(layout.QualityLevelLow))
	assert.Equal(t, "pbr:fc:100000", high.Key())
}

func TestNewLibraryPartialSharing(t *testing.T) {
	// Without an AO map or irradiance map, high and medium specialize identically.
	lib, err := NewLibrary(WithVariantOptions(WithAvailableTextures(
		layout.TextureIndexBaseColor,
		layout.TextureIndexNormal,
		layout.TextureIndexMetallic,
		layout.TextureIndexRoughness,
	)))
	require.NoError(t, err)
	require.Len(t, lib.Variants(), 2)
	assert.Same(t, lib.Get(layout.QualityLevelHigh), lib.Get(layout.QualityLevelMedium))
	assert.NotEqual(t, lib.Get(layout.QualityLevelHigh).Key(), lib.Get(layout.QualityLevelLow).Key())
}

func TestNewLibraryThresholds(t *testing.T) {
	lib, err := NewLibrary(WithThresholds(Thresholds{5, 50}), WithBlendBand(0))
	require.NoError(t, err)
	assert.Equal(t, layout.QualityLevelMedium, lib.ForDistance(5).Quality())

	var m layout.GPUMaterialData
	lib.ApplyBlendWeights(&m, 4.99)
	assert.Equal(t, float32(1), m.MapWeight(layout.TextureIndexAmbientOcclusion))
	lib.ApplyBlendWeights(&m, 5)
	assert.Zero(t, m.MapWeight(layout.TextureIndexAmbientOcclusion))
	assert.Equal(t, float32(1), m.MapWeight(layout.TextureIndexNormal))

	_, err = NewLibrary(WithThresholds(Thresholds{40, 20}))
	assert.Error(t, err)
}

func TestNewLibraryBuildError(t *testing.T) {
	_, err := NewLibrary(WithSources(DefaultVertexSource, "//@oxy:include nothing"))
	assert.Error(t, err)

	assert.Panics(t, func() {
		_, _ = NewLibrary(WithSources("", ""))
	})
}
