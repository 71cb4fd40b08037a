package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `//@oxy:include mesh_position
//@oxy:include mesh_generic
//@oxy:include frame_data
//@oxy:group 0 2 storage_uniform frame frame_data

@vertex
fn vs_main(pos: MeshPositionInput, attrs: MeshGenericInput) -> @builtin(position) vec4<f32> {
    return frame.model_view_projection_matrix * vec4<f32>(pos.position, 1.0);
}
`

const testFragmentSource = `//@oxy:include material_data
//@oxy:group 0 3 storage_read material material_data
//@oxy:texture base_color base_color_map
//@oxy:texture irradiance_map irradiance_map
//@oxy:sampler samp
//@oxy:constant has_base_color_map
//@oxy:constant has_irradiance_map

@fragment
fn fs_main(@location(1) uv: vec2<f32>) -> @location(0) vec4<f32> {
    var c = material.base_color;
    if has_base_color_map {
        c = textureSample(base_color_map, samp, uv).rgb;
    }
    return vec4<f32>(c, 1.0);
}
`

func TestNewVertexShader(t *testing.T) {
	s, err := NewShader("test_vs", ShaderTypeVertex, testVertexSource, Specialization{})
	require.NoError(t, err)
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	require.NotNil(t, s.Module())
	assert.Equal(t, "test_vs", s.Module().Label)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)
	assert.EqualValues(t, layout.GPUMeshPositionStride, s.VertexLayout(0)[0].ArrayStride)
	assert.EqualValues(t, layout.GPUMeshGenericStride, s.VertexLayout(1)[0].ArrayStride)

	frame := s.BindGroupLayoutDescriptor(layout.BindGroupFrame)
	require.Len(t, frame.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, frame.Entries[0].Buffer.Type)
	assert.EqualValues(t, layout.GPUFrameDataSize, frame.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, frame.Entries[0].Visibility)
	assert.Equal(t, "frame", s.BindGroupVarName(layout.BindGroupFrame, int(layout.BufferIndexFrameData)))

	fd, ok := s.StructLayout("FrameData")
	require.True(t, ok)
	assert.EqualValues(t, layout.GPUFrameDataSize, fd.Size)

	assert.NoError(t, CheckBindings(s))
}

func TestPositionOnlyVertexShader(t *testing.T) {
	src := `//@oxy:include mesh_position
//@oxy:include frame_data
//@oxy:group 0 2 storage_uniform frame frame_data

@vertex
fn vs_main(pos: MeshPositionInput) -> @builtin(position) vec4<f32> {
    return frame.model_view_projection_matrix * vec4<f32>(pos.position, 1.0);
}
`
	s, err := NewShader("depth_vs", ShaderTypeVertex, src, Specialization{})
	require.NoError(t, err)
	require.Len(t, s.VertexLayouts(), 1)
	assert.EqualValues(t, layout.GPUMeshPositionStride, s.VertexLayout(int(layout.BufferIndexMeshPositions))[0].ArrayStride)
	assert.NoError(t, CheckBindings(s))
}

func TestVertexShaderIncludeOrder(t *testing.T) {
	src := strings.Replace(testVertexSource, "//@oxy:include mesh_position\n//@oxy:include mesh_generic", "//@oxy:include mesh_generic\n//@oxy:include mesh_position", 1)
	require.NotEqual(t, testVertexSource, src)
	s, err := NewShader("swapped_vs", ShaderTypeVertex, src, Specialization{})
	require.NoError(t, err)
	assert.EqualValues(t, layout.GPUMeshGenericStride, s.VertexLayout(int(layout.BufferIndexMeshGenerics))[0].ArrayStride)
	assert.NoError(t, CheckBindings(s))
}

func TestNewFragmentShader(t *testing.T) {
	spec := NewSpecialization(layout.FunctionConstantBaseColorMap)
	s, err := NewShader("test_fs", ShaderTypeFragment, testFragmentSource, spec)
	require.NoError(t, err)
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())
	assert.Equal(t, spec, s.Specialization())

	binding, ok := s.BindGroupFromVarName(layout.BindGroupTextures, "irradiance_map")
	require.True(t, ok)
	assert.Equal(t, int(layout.TextureIndexIrradianceMap), binding)
	_, ok = s.BindGroupFromVarName(layout.BindGroupTextures, "missing")
	assert.False(t, ok)

	textures := s.BindGroupLayoutDescriptor(layout.BindGroupTextures)
	require.Len(t, textures.Entries, 2)
	assert.Equal(t, wgpu.TextureViewDimensionCube, textures.Entries[1].Texture.ViewDimension)

	overrides := s.Overrides()
	require.Len(t, overrides, 2)
	assert.Equal(t, Override{ID: 0, Name: "has_base_color_map", Type: "bool", Default: "true"}, overrides[0])
	assert.Equal(t, "false", overrides[1].Default)

	assert.Len(t, s.Declarations(), 6)
	assert.NoError(t, CheckBindings(s))
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("empty", ShaderTypeVertex, "", Specialization{})
	assert.Error(t, err)

	_, err = NewShader("no_entry", ShaderTypeFragment, testVertexSource, Specialization{})
	assert.ErrorContains(t, err, "no @fragment entry point")

	_, err = NewShader("bad", ShaderTypeVertex, "//@oxy:include nothing\n"+testVertexSource, Specialization{})
	assert.ErrorContains(t, err, "line 1")
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frag.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testFragmentSource), 0o644))

	s, err := NewShaderFromPath("from_path", ShaderTypeFragment, path, AllEnabled())
	require.NoError(t, err)
	assert.Equal(t, "from_path", s.Key())

	_, err = NewShaderFromPath("missing", ShaderTypeFragment, filepath.Join(t.TempDir(), "nope.wgsl"), AllEnabled())
	assert.Error(t, err)
}

func TestCheckBindingsRejectsHandWrittenDrift(t *testing.T) {
	src := `struct Small { x: f32, }
@group(0) @binding(2) var<uniform> frame: Small;
@group(1) @binding(5) var irradiance_map: texture_2d<f32>;
@group(1) @binding(9) var extra_map: texture_2d<f32>;
@id(2) override has_normal_map: bool = true;
@id(2) override has_metallic_map: bool = true;
@id(7) override has_height_map: bool = true;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`
	s, err := NewShader("drift", ShaderTypeFragment, src, Specialization{})
	require.NoError(t, err)

	err = CheckBindings(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLayoutMismatch)

	var lm *LayoutMismatchError
	require.ErrorAs(t, err, &lm)
	problems := strings.Join(lm.Problems, "\n")
	assert.Contains(t, problems, "@group(0) @binding(2): size 4, want 240")
	assert.Contains(t, problems, "@group(1) @binding(5): texture dimension")
	assert.Contains(t, problems, "@group(1) @binding(9): not in registry")
	assert.Contains(t, problems, "@id(2): named has_normal_map, want has_metallic_map")
	assert.Contains(t, problems, "@id(2): declared by has_normal_map and has_metallic_map")
	assert.Contains(t, problems, "@id(7) has_height_map: not a function constant")
}

func TestShaderTypeString(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "ShaderType(9)", ShaderType(9).String())
	assert.Equal(t, wgpu.ShaderStageNone, ShaderType(9).Visibility())
}
