package layout

import "unsafe"

// Compile-time layout checks. Each expression indexes a one-element array with a
// constant that is zero only when the Go layout matches the WGSL offsets; any drift
// fails the build with an out-of-range index.
var (
	_ = [1]struct{}{}[unsafe.Sizeof(GPUFrameData{})-GPUFrameDataSize]
	_ = [1]struct{}{}[GPUFrameDataSize-unsafe.Sizeof(GPUFrameData{})]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUFrameData{}.ModelMatrix)-16]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUFrameData{}.ModelViewProjectionMatrix)-80]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUFrameData{}.NormalMatrix)-144]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUFrameData{}.DirectionalLightInvDirection)-192]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUFrameData{}.LightPosition)-208]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUFrameData{}.IrradiatedColor)-224]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUFrameData{}.IrradianceMapWeight)-236]

	_ = [1]struct{}{}[unsafe.Sizeof(GPUMaterialData{})-GPUMaterialDataSize]
	_ = [1]struct{}{}[GPUMaterialDataSize-unsafe.Sizeof(GPUMaterialData{})]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialData{}.IrradiatedColor)-16]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialData{}.Roughness)-32]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialData{}.Metalness)-48]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialData{}.AmbientOcclusion)-60]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialData{}.MapWeights)-64]
	_ = [1]struct{}{}[len(GPUMaterialData{}.MapWeights)-int(NumMeshTextureIndices)]
	_ = [1]struct{}{}[GPUMaterialDataSize-(64+4*(int(NumMeshTextureIndices)+materialDataTailPad))]
	_ = [1]struct{}{}[(64+4*(int(NumMeshTextureIndices)+materialDataTailPad))-GPUMaterialDataSize]

	_ = [1]struct{}{}[unsafe.Sizeof(GPUMeshPosition{})-GPUMeshPositionStride]
	_ = [1]struct{}{}[unsafe.Sizeof(GPUMeshGeneric{})-GPUMeshGenericStride]
)
