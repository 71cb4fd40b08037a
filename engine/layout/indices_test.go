package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerationsAreDense(t *testing.T) {
	for i, b := range AllBufferIndices() {
		assert.Equal(t, BufferIndex(i), b)
		assert.True(t, b.Valid())
	}
	assert.Len(t, AllBufferIndices(), int(NumBufferIndices))
	assert.False(t, NumBufferIndices.Valid())

	for i, a := range AllVertexAttributes() {
		assert.Equal(t, VertexAttribute(i), a)
	}
	assert.Len(t, AllVertexAttributes(), int(NumVertexAttributes))
	assert.False(t, NumVertexAttributes.Valid())

	assert.Len(t, AllTextureIndices(), int(NumTextureIndices))
	assert.False(t, NumTextureIndices.Valid())
	assert.Len(t, AllFunctionConstants(), int(NumFunctionConstants))
	assert.False(t, NumFunctionConstants.Valid())
	assert.Len(t, AllViewports(), int(NumViewports))
	assert.False(t, NumViewports.Valid())
	assert.Len(t, AllQualityLevels(), int(NumQualityLevels))
	assert.False(t, NumQualityLevels.Valid())
}

func TestRawValues(t *testing.T) {
	assert.EqualValues(t, 0, BufferIndexMeshPositions)
	assert.EqualValues(t, 1, BufferIndexMeshGenerics)
	assert.EqualValues(t, 2, BufferIndexFrameData)
	assert.EqualValues(t, 3, BufferIndexMaterialData)

	assert.EqualValues(t, 0, VertexAttributePosition)
	assert.EqualValues(t, 4, VertexAttributeBitangent)

	assert.EqualValues(t, 0, TextureIndexBaseColor)
	assert.EqualValues(t, 4, TextureIndexAmbientOcclusion)
	assert.EqualValues(t, 5, TextureIndexIrradianceMap)
	assert.EqualValues(t, 5, NumMeshTextureIndices)

	assert.EqualValues(t, 0, FunctionConstantBaseColorMap)
	assert.EqualValues(t, 5, FunctionConstantIrradianceMap)

	assert.EqualValues(t, 0, QualityLevelHigh)
	assert.EqualValues(t, 2, QualityLevelLow)
}

func TestMeshTextures(t *testing.T) {
	for _, tex := range AllTextureIndices() {
		assert.Equal(t, tex != TextureIndexIrradianceMap, tex.IsMeshTexture(), tex.String())
	}
}

func TestFunctionConstantForTexture(t *testing.T) {
	seen := map[FunctionConstant]bool{}
	for _, tex := range AllTextureIndices() {
		fc, ok := FunctionConstantForTexture(tex)
		require.True(t, ok)
		assert.False(t, seen[fc], "function constant %s mapped twice", fc)
		seen[fc] = true

		back, ok := TextureForFunctionConstant(fc)
		require.True(t, ok)
		assert.Equal(t, tex, back)
	}
	assert.Len(t, seen, int(NumFunctionConstants))

	fc, ok := FunctionConstantForTexture(TextureIndexNormal)
	assert.True(t, ok)
	assert.Equal(t, FunctionConstantNormalMap, fc)

	_, ok = FunctionConstantForTexture(NumTextureIndices)
	assert.False(t, ok)
	_, ok = TextureForFunctionConstant(NumFunctionConstants)
	assert.False(t, ok)
}
