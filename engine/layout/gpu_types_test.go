package layout

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSizes(t *testing.T) {
	var f GPUFrameData
	var m GPUMaterialData
	assert.Equal(t, GPUFrameDataSize, f.Size())
	assert.Equal(t, GPUMaterialDataSize, m.Size())
	assert.Len(t, m.MapWeights, int(NumMeshTextureIndices))
	assert.Zero(t, f.Size()%16)
	assert.Zero(t, m.Size()%16)

	var p GPUMeshPosition
	var g GPUMeshGeneric
	assert.Equal(t, GPUMeshPositionStride, p.Size())
	assert.Equal(t, GPUMeshGenericStride, g.Size())
}

func TestFrameDataFieldOffsets(t *testing.T) {
	var f GPUFrameData
	assert.EqualValues(t, 0, unsafe.Offsetof(f.CameraPos))
	assert.EqualValues(t, 16, unsafe.Offsetof(f.ModelMatrix))
	assert.EqualValues(t, 80, unsafe.Offsetof(f.ModelViewProjectionMatrix))
	assert.EqualValues(t, 144, unsafe.Offsetof(f.NormalMatrix))
	assert.EqualValues(t, 192, unsafe.Offsetof(f.DirectionalLightInvDirection))
	assert.EqualValues(t, 208, unsafe.Offsetof(f.LightPosition))
	assert.EqualValues(t, 224, unsafe.Offsetof(f.IrradiatedColor))
	assert.EqualValues(t, 236, unsafe.Offsetof(f.IrradianceMapWeight))
}

func TestFrameDataCameraAndModel(t *testing.T) {
	var f GPUFrameData
	f.CameraPos = [3]float32{1.5, -2, 3.25}
	for i := range f.ModelMatrix {
		f.ModelMatrix[i] = float32(i) + 0.5
	}

	buf := f.Marshal()
	require.Len(t, buf, GPUFrameDataSize)

	var got GPUFrameData
	require.NoError(t, got.Unmarshal(buf))
	assert.Equal(t, f.CameraPos, got.CameraPos)
	assert.Equal(t, f.ModelMatrix, got.ModelMatrix)

	// Camera position ends before the model matrix starts.
	camEnd := unsafe.Offsetof(f.CameraPos) + unsafe.Sizeof(f.CameraPos)
	assert.LessOrEqual(t, camEnd, unsafe.Offsetof(f.ModelMatrix))
	assert.Equal(t, float32(3.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])))
}

func TestFrameDataNormalMatrixPadding(t *testing.T) {
	var f GPUFrameData
	n := [9]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	f.SetNormalMatrix(n)
	assert.Equal(t, n, f.NormalMatrix3())
	assert.Zero(t, f.NormalMatrix[3])
	assert.Zero(t, f.NormalMatrix[7])
	assert.Zero(t, f.NormalMatrix[11])

	buf := f.Marshal()
	// Column 1 starts 16 bytes after column 0.
	assert.Equal(t, float32(4), math.Float32frombits(binary.LittleEndian.Uint32(buf[160:164])))
}

func TestFrameDataMatchesStructBytes(t *testing.T) {
	f := GPUFrameData{
		CameraPos:                    [3]float32{1, 2, 3},
		DirectionalLightInvDirection: [3]float32{0, 1, 0},
		LightPosition:                [3]float32{4, 5, 6},
		IrradiatedColor:              [3]float32{0.5, 0.5, 0.5},
		IrradianceMapWeight:          0.75,
	}
	f.ModelMatrix[0], f.ModelMatrix[5], f.ModelMatrix[10], f.ModelMatrix[15] = 1, 1, 1, 1
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&f)), unsafe.Sizeof(f))
	assert.Equal(t, raw, f.Marshal())
}

func TestMaterialDataMapWeights(t *testing.T) {
	var m GPUMaterialData
	require.True(t, m.SetMapWeight(4, 0.25))
	for i := TextureIndex(0); i < 4; i++ {
		require.True(t, m.SetMapWeight(i, float32(i)+1))
	}
	assert.Equal(t, float32(0.25), m.MapWeight(4))
	assert.Equal(t, float32(0.25), m.MapWeights[TextureIndexAmbientOcclusion])

	assert.False(t, m.SetMapWeight(TextureIndexIrradianceMap, 1))
	assert.Zero(t, m.MapWeight(TextureIndexIrradianceMap))

	var got GPUMaterialData
	require.NoError(t, got.Unmarshal(m.Marshal()))
	assert.Equal(t, m.MapWeights, got.MapWeights)
}

func TestMaterialDataSourceWeightCount(t *testing.T) {
	want := fmt.Sprintf("map_weights: array<f32, %d>", NumMeshTextureIndices)
	assert.Contains(t, GPUMaterialDataSource, want)
	assert.NotContains(t, GPUMaterialDataSource, "NUM_MESH_TEXTURE_INDICES")
	assert.Len(t, GPUMaterialData{}.MapWeights, int(NumMeshTextureIndices))
}

func TestMaterialDataRoundTrip(t *testing.T) {
	m := GPUMaterialData{
		BaseColor:        [3]float32{0.8, 0.1, 0.1},
		IrradiatedColor:  [3]float32{1, 1, 1},
		Roughness:        [3]float32{0.5, 0.5, 0.5},
		Metalness:        [3]float32{0, 0, 0},
		AmbientOcclusion: 0.9,
		MapWeights:       [NumMeshTextureIndices]float32{1, 1, 1, 0.5, 0},
	}
	buf := m.Marshal()
	require.Len(t, buf, GPUMaterialDataSize)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&m)), unsafe.Sizeof(m))
	assert.Equal(t, raw, buf)

	var got GPUMaterialData
	require.NoError(t, got.Unmarshal(buf))
	assert.Equal(t, m, got)
}

func TestUnmarshalShortBuffer(t *testing.T) {
	var f GPUFrameData
	assert.ErrorIs(t, f.Unmarshal(make([]byte, GPUFrameDataSize-1)), ErrShortBuffer)
	var m GPUMaterialData
	assert.ErrorIs(t, m.Unmarshal(nil), ErrShortBuffer)
}

func TestVertexMarshal(t *testing.T) {
	p := GPUMeshPosition{Position: [3]float32{1, 2, 3}}
	assert.Len(t, p.Marshal(), GPUMeshPositionStride)

	g := GPUMeshGeneric{
		Texcoord:  [2]float32{0.25, 0.75},
		Normal:    [3]float32{0, 0, 1},
		Tangent:   [3]float32{1, 0, 0},
		Bitangent: [3]float32{0, 1, 0},
	}
	buf := g.Marshal()
	require.Len(t, buf, GPUMeshGenericStride)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[36:40])))
}
