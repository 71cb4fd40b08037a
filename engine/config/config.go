// Package config loads the TOML settings that choose quality levels, stereo rendering,
// ring sizes and shader sources.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/Carmen-Shannon/oxy-variants/common"
	"github.com/Carmen-Shannon/oxy-variants/engine/frame"
	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/variant"
	"github.com/pelletier/go-toml/v2"
)

// QualityAuto selects the quality level per object from its camera distance.
const QualityAuto = "auto"

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("config: invalid settings")

// Settings is the root of the TOML document.
type Settings struct {
	LogLevel string   `toml:"log_level"`
	Render   Render   `toml:"render"`
	Stereo   Stereo   `toml:"stereo"`
	Variants Variants `toml:"variants"`
	Shaders  Shaders  `toml:"shaders"`
}

// Render holds per-frame settings.
type Render struct {
	// Quality is "auto" or a quality level name ("high", "medium", "low").
	Quality        string `toml:"quality"`
	FramesInFlight int    `toml:"frames_in_flight"`
	MaxDraws       int    `toml:"max_draws"`
	Width          uint32 `toml:"width"`
	Height         uint32 `toml:"height"`
}

// Stereo holds side-by-side stereo settings.
type Stereo struct {
	Enabled       bool    `toml:"enabled"`
	EyeSeparation float32 `toml:"eye_separation"`
}

// Variants holds the quality switching settings.
type Variants struct {
	Thresholds []float32 `toml:"thresholds"`
	BlendBand  float32   `toml:"blend_band"`
	Workers    int       `toml:"workers"`
}

// Shaders holds optional paths replacing the built-in PBR shaders.
type Shaders struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

// Default returns the settings used when no file is given.
//
// Returns:
//   - Settings: the defaults
func Default() Settings {
	return Settings{
		LogLevel: "info",
		Render: Render{
			Quality:        QualityAuto,
			FramesInFlight: uniform.MaxFramesInFlight,
			MaxDraws:       64,
			Width:          1280,
			Height:         720,
		},
		Stereo: Stereo{
			EyeSeparation: 0.065,
		},
		Variants: Variants{
			Thresholds: slices.Clone(variant.DefaultThresholds[:]),
			BlendBand:  2,
		},
	}
}

// Load reads a TOML file over the defaults. Keys the file omits keep their default
// values; unknown keys are an error.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Settings: the merged, validated settings
//   - error: an error if the file cannot be read, decoded or validated
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Settings: the merged, validated settings
//   - error: an error if the document cannot be decoded or validated
func Parse(data []byte) (Settings, error) {
	s := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Settings{}, fmt.Errorf("config: %s", strict.String())
		}
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	s.fillDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Encode renders the settings as TOML.
//
// Returns:
//   - []byte: the TOML document
//   - error: an error if encoding fails
func (s Settings) Encode() ([]byte, error) {
	return toml.Marshal(s)
}

// fillDefaults replaces zero values that cannot be meaningful with their defaults.
func (s *Settings) fillDefaults() {
	d := Default()
	s.LogLevel = common.Coalesce(s.LogLevel, d.LogLevel)
	s.Render.Quality = common.Coalesce(s.Render.Quality, d.Render.Quality)
	s.Render.FramesInFlight = common.Coalesce(s.Render.FramesInFlight, d.Render.FramesInFlight)
	s.Render.MaxDraws = common.Coalesce(s.Render.MaxDraws, d.Render.MaxDraws)
	s.Render.Width = common.Coalesce(s.Render.Width, d.Render.Width)
	s.Render.Height = common.Coalesce(s.Render.Height, d.Render.Height)
	if len(s.Variants.Thresholds) == 0 {
		s.Variants.Thresholds = d.Variants.Thresholds
	}
}

// Validate reports every invalid setting.
//
// Returns:
//   - error: nil if the settings are usable, otherwise an error matching ErrInvalid
func (s Settings) Validate() error {
	var problems []error
	if err := common.ValidateLogLevel(s.LogLevel); err != nil {
		problems = append(problems, fmt.Errorf("log_level: %w", err))
	}
	if s.Render.Quality != QualityAuto {
		if _, err := layout.LookupQualityLevel(s.Render.Quality); err != nil {
			problems = append(problems, fmt.Errorf("render.quality: %w", err))
		}
	}
	if s.Render.FramesInFlight < 1 {
		problems = append(problems, fmt.Errorf("render.frames_in_flight: %d is below 1", s.Render.FramesInFlight))
	}
	if s.Render.MaxDraws < 1 {
		problems = append(problems, fmt.Errorf("render.max_draws: %d is below 1", s.Render.MaxDraws))
	}
	if s.Stereo.Enabled && s.Stereo.EyeSeparation < 0 {
		problems = append(problems, fmt.Errorf("stereo.eye_separation: %g is negative", s.Stereo.EyeSeparation))
	}
	if len(s.Variants.Thresholds) != len(variant.Thresholds{}) {
		problems = append(problems, fmt.Errorf("variants.thresholds: need %d values, got %d", len(variant.Thresholds{}), len(s.Variants.Thresholds)))
	} else {
		for i := 1; i < len(s.Variants.Thresholds); i++ {
			if s.Variants.Thresholds[i] < s.Variants.Thresholds[i-1] {
				problems = append(problems, fmt.Errorf("variants.thresholds: %v is not ascending", s.Variants.Thresholds))
				break
			}
		}
	}
	if s.Variants.BlendBand < 0 {
		problems = append(problems, fmt.Errorf("variants.blend_band: %g is negative", s.Variants.BlendBand))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
	}
	return nil
}

// FixedQuality returns the configured quality level, or false when quality is "auto".
//
// Returns:
//   - layout.QualityLevel: the fixed level
//   - bool: false for distance-based selection
func (s Settings) FixedQuality() (layout.QualityLevel, bool) {
	if s.Render.Quality == QualityAuto {
		return 0, false
	}
	q, err := layout.LookupQualityLevel(s.Render.Quality)
	if err != nil {
		return 0, false
	}
	return q, true
}

// Thresholds returns the quality switch distances.
//
// Returns:
//   - variant.Thresholds: the switch distances, the defaults if the list has the wrong length
func (s Settings) Thresholds() variant.Thresholds {
	var t variant.Thresholds
	if len(s.Variants.Thresholds) != len(t) {
		return variant.DefaultThresholds
	}
	copy(t[:], s.Variants.Thresholds)
	return t
}

// LibraryOptions converts the settings into variant library options, reading the shader
// files if any are configured.
//
// Returns:
//   - []variant.LibraryBuilderOption: the options
//   - error: an error if a shader file cannot be read
func (s Settings) LibraryOptions() ([]variant.LibraryBuilderOption, error) {
	opts := []variant.LibraryBuilderOption{
		variant.WithThresholds(s.Thresholds()),
		variant.WithBlendBand(s.Variants.BlendBand),
		variant.WithWorkers(s.Variants.Workers),
	}
	if s.Shaders.Vertex == "" && s.Shaders.Fragment == "" {
		return opts, nil
	}
	vert, frag := variant.DefaultVertexSource, variant.DefaultFragmentSource
	if s.Shaders.Vertex != "" {
		data, err := os.ReadFile(s.Shaders.Vertex)
		if err != nil {
			return nil, fmt.Errorf("config: read vertex shader: %w", err)
		}
		vert = string(data)
	}
	if s.Shaders.Fragment != "" {
		data, err := os.ReadFile(s.Shaders.Fragment)
		if err != nil {
			return nil, fmt.Errorf("config: read fragment shader: %w", err)
		}
		frag = string(data)
	}
	return append(opts, variant.WithSources(vert, frag)), nil
}

// RingOptions converts the settings into uniform ring options.
//
// Returns:
//   - []uniform.RingBuilderOption: the options
func (s Settings) RingOptions() []uniform.RingBuilderOption {
	return []uniform.RingBuilderOption{
		uniform.WithFramesInFlight(s.Render.FramesInFlight),
		uniform.WithMaxDraws(s.Render.MaxDraws),
	}
}

// FrameOptions converts the settings into frame options.
//
// Returns:
//   - []frame.FrameBuilderOption: the options
func (s Settings) FrameOptions() []frame.FrameBuilderOption {
	opts := []frame.FrameBuilderOption{
		frame.WithDrawableSize(s.Render.Width, s.Render.Height),
	}
	if s.Stereo.Enabled {
		opts = append(opts, frame.WithStereo(s.Stereo.EyeSeparation))
	}
	return opts
}
