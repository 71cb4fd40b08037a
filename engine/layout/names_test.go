package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBufferIndex(t *testing.T) {
	b, err := LookupBufferIndex("mesh positions")
	require.NoError(t, err)
	assert.EqualValues(t, 0, b)

	b, err = LookupBufferIndex("frame data")
	require.NoError(t, err)
	assert.EqualValues(t, 2, b)

	b, err = LookupBufferIndex("Material-Data")
	require.NoError(t, err)
	assert.Equal(t, BufferIndexMaterialData, b)

	_, err = LookupBufferIndex("index_buffer")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestLookupRoundTrip(t *testing.T) {
	for _, v := range AllVertexAttributes() {
		got, err := LookupVertexAttribute(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	for _, tex := range AllTextureIndices() {
		got, err := LookupTextureIndex(tex.String())
		require.NoError(t, err)
		assert.Equal(t, tex, got)
	}
	for _, fc := range AllFunctionConstants() {
		got, err := LookupFunctionConstant(fc.String())
		require.NoError(t, err)
		assert.Equal(t, fc, got)
	}
	for _, q := range AllQualityLevels() {
		got, err := LookupQualityLevel(q.String())
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
	for _, v := range AllViewports() {
		got, err := LookupViewport(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := LookupTextureIndex("specular")
	assert.ErrorIs(t, err, ErrUnknownName)
	_, err = LookupFunctionConstant("has_specular_map")
	assert.ErrorIs(t, err, ErrUnknownName)
	_, err = LookupQualityLevel("ultra")
	assert.ErrorIs(t, err, ErrUnknownName)
	_, err = LookupViewport("center")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestStringSentinel(t *testing.T) {
	assert.Equal(t, "BufferIndex(4)", NumBufferIndices.String())
	assert.Equal(t, "TextureIndex(6)", NumTextureIndices.String())
	assert.Equal(t, "QualityLevel(3)", NumQualityLevels.String())
	assert.Equal(t, "has_irradiance_map", FunctionConstantIrradianceMap.String())
}
