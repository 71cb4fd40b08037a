package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotationIgnoresPlainLines(t *testing.T) {
	for _, line := range []string{
		"",
		"fn main() {}",
		"// an ordinary comment",
		"let x = 1; // @oxy: not a comment line",
	} {
		a, err := parseAnnotation(line, 1)
		assert.NoError(t, err, line)
		assert.Nil(t, a, line)
	}
}

func TestParseAnnotationInclude(t *testing.T) {
	a, err := parseAnnotation("  //@oxy:include material_data", 4)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, annotationTypeInclude, a.Type)
	assert.Equal(t, []AnnotationArg{AnnotationArgMaterialData}, a.Args)
	assert.Equal(t, 4, a.Line)
	assert.Nil(t, a.Group)

	_, err = parseAnnotation("//@oxy:include light_data", 1)
	assert.Error(t, err)
	_, err = parseAnnotation("//@oxy:include", 1)
	assert.Error(t, err)
}

func TestParseGroupAnnotation(t *testing.T) {
	a, err := parseAnnotation("//@oxy:group 0 2 storage_uniform frame frame_data", 7)
	require.NoError(t, err)
	require.NotNil(t, a.Group)
	require.NotNil(t, a.Binding)
	assert.Equal(t, layout.BindGroupFrame, *a.Group)
	assert.Equal(t, int(layout.BufferIndexFrameData), *a.Binding)
	assert.Equal(t, []AnnotationArg{annotationArgStorageTypeUniform, "frame", AnnotationArgFrameData}, a.Args)

	tests := []struct {
		name string
		line string
	}{
		{"wrong binding", "//@oxy:group 0 0 storage_uniform frame frame_data"},
		{"wrong group", "//@oxy:group 1 2 storage_uniform frame frame_data"},
		{"wrong address space", "//@oxy:group 0 3 storage_uniform material material_data"},
		{"vertex struct", "//@oxy:group 0 0 storage_read pos mesh_position"},
		{"unknown address space", "//@oxy:group 0 2 push_constant frame frame_data"},
		{"bad number", "//@oxy:group zero 2 storage_uniform frame frame_data"},
		{"missing args", "//@oxy:group 0 2 storage_uniform frame"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAnnotation(tt.line, 1)
			assert.Error(t, err)
		})
	}
}

func TestParseTextureAndSamplerAnnotations(t *testing.T) {
	a, err := parseAnnotation("//@oxy:texture irradiance_map irr", 2)
	require.NoError(t, err)
	assert.Equal(t, AnnotationTypeTexture, a.Type)
	assert.Equal(t, layout.BindGroupTextures, *a.Group)
	assert.Equal(t, int(layout.TextureIndexIrradianceMap), *a.Binding)

	_, err = parseAnnotation("//@oxy:texture specular spec_map", 2)
	assert.ErrorIs(t, err, layout.ErrUnknownName)

	a, err = parseAnnotation("//@oxy:sampler s", 3)
	require.NoError(t, err)
	assert.Equal(t, AnnotationTypeSampler, a.Type)
	assert.Equal(t, layout.BindGroupSamplers, *a.Group)
	assert.Equal(t, 0, *a.Binding)
}

func TestParseConstantAnnotation(t *testing.T) {
	a, err := parseAnnotation("//@oxy:constant has_normal_map", 1)
	require.NoError(t, err)
	assert.Equal(t, AnnotationTypeConstant, a.Type)
	assert.Equal(t, []AnnotationArg{"has_normal_map"}, a.Args)

	_, err = parseAnnotation("//@oxy:constant has_specular_map", 1)
	assert.ErrorIs(t, err, layout.ErrUnknownName)
}

func TestParseAnnotationUnknownType(t *testing.T) {
	_, err := parseAnnotation("//@oxy:define FOO", 9)
	assert.ErrorContains(t, err, "line 9")
	_, err = parseAnnotation("//@oxy:", 1)
	assert.Error(t, err)
}
