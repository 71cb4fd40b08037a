package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, variant.DefaultThresholds, s.Thresholds())

	_, fixed := s.FixedQuality()
	assert.False(t, fixed)

	// Editing the defaults must not leak into the package thresholds.
	s.Variants.Thresholds[0] = 99
	assert.Equal(t, float32(10), variant.DefaultThresholds[0])
}

func TestParseOverrides(t *testing.T) {
	s, err := Parse([]byte(`
log_level = "debug"

[render]
quality = "medium"
max_draws = 8

[stereo]
enabled = true
eye_separation = 0.07

[variants]
thresholds = [5.0, 50.0]
blend_band = 0.0
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 8, s.Render.MaxDraws)
	assert.Equal(t, 3, s.Render.FramesInFlight)
	assert.Equal(t, uint32(1280), s.Render.Width)
	assert.True(t, s.Stereo.Enabled)
	assert.InDelta(t, 0.07, s.Stereo.EyeSeparation, 1e-6)
	assert.Equal(t, variant.Thresholds{5, 50}, s.Thresholds())
	assert.Zero(t, s.Variants.BlendBand)

	q, fixed := s.FixedQuality()
	assert.True(t, fixed)
	assert.Equal(t, layout.QualityLevelMedium, q)
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[render]\ncolour = \"blue\"\n"))
	assert.Error(t, err)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("[render\n"))
	assert.ErrorContains(t, err, "config: decode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		want   string
	}{
		{"log level", func(s *Settings) { s.LogLevel = "loud" }, "log_level"},
		{"quality", func(s *Settings) { s.Render.Quality = "ultra" }, "render.quality"},
		{"frames in flight", func(s *Settings) { s.Render.FramesInFlight = 0 }, "render.frames_in_flight"},
		{"max draws", func(s *Settings) { s.Render.MaxDraws = -1 }, "render.max_draws"},
		{"eye separation", func(s *Settings) { s.Stereo.Enabled = true; s.Stereo.EyeSeparation = -1 }, "stereo.eye_separation"},
		{"threshold count", func(s *Settings) { s.Variants.Thresholds = []float32{1} }, "need 2 values"},
		{"threshold order", func(s *Settings) { s.Variants.Thresholds = []float32{30, 10} }, "not ascending"},
		{"blend band", func(s *Settings) { s.Variants.BlendBand = -0.5 }, "variants.blend_band"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, ErrInvalid)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	s := Default()
	s.Render.Quality = "low"
	s.Stereo.Enabled = true

	data, err := s.Encode()
	require.NoError(t, err)
	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oxy.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\nframes_in_flight = 2\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Render.FramesInFlight)
	assert.Len(t, s.RingOptions(), 2)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestLibraryOptions(t *testing.T) {
	s := Default()
	opts, err := s.LibraryOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	dir := t.TempDir()
	frag := filepath.Join(dir, "frag.wgsl")
	require.NoError(t, os.WriteFile(frag, []byte(variant.DefaultFragmentSource), 0o644))
	s.Shaders.Fragment = frag
	opts, err = s.LibraryOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	lib, err := variant.NewLibrary(opts...)
	require.NoError(t, err)
	assert.Len(t, lib.Variants(), 3)

	s.Shaders.Vertex = filepath.Join(dir, "missing.wgsl")
	_, err = s.LibraryOptions()
	assert.Error(t, err)
}

func TestFrameOptions(t *testing.T) {
	s := Default()
	assert.Len(t, s.FrameOptions(), 1)
	s.Stereo.Enabled = true
	assert.Len(t, s.FrameOptions(), 2)
}
