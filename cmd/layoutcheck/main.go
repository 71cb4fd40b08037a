package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Carmen-Shannon/oxy-variants/common"
	"github.com/Carmen-Shannon/oxy-variants/engine/config"
	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/variant"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to a TOML settings file (optional)")
		shaderFile = flag.String("shader", "", "WGSL file to pre-process and check against the registry")
		stage      = flag.String("stage", "fragment", "Shader stage of -shader: vertex or fragment")
		quality    = flag.String("quality", "", "Quality level used to specialize -shader (default: the configured render quality, else high)")
		watch      = flag.Bool("watch", false, "Re-check -shader every time it changes")
		registry   = flag.Bool("registry", false, "Print the layout registry and exit")
		variants   = flag.Bool("variants", false, "Build the variant library and print each variant")
		emit       = flag.Bool("emit", false, "Print the pre-processed WGSL of -shader")
	)
	flag.Parse()

	settings := config.Default()
	if *configFile != "" {
		var err error
		settings, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := common.SetLogLevel(settings.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *registry {
		printRegistry(os.Stdout)
		return
	}

	if err := run(settings, *shaderFile, *stage, *quality, *watch, *variants, *emit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(settings config.Settings, shaderFile, stageName, qualityName string, watch, listVariants, emit bool) error {
	logger := common.Logger()

	if err := shader.VerifyRegistry(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	logger.Info("layout registry verified",
		"frame_data", layout.GPUFrameDataSize,
		"material_data", layout.GPUMaterialDataSize,
		"map_weights", int(layout.NumMeshTextureIndices))

	if listVariants {
		opts, err := settings.LibraryOptions()
		if err != nil {
			return err
		}
		lib, err := variant.NewLibrary(opts...)
		if err != nil {
			return fmt.Errorf("variants: %w", err)
		}
		for _, q := range layout.AllQualityLevels() {
			v := lib.Get(q)
			fmt.Printf("%-6s %s  maps=%s\n", q, v.Key(), v.Specialization())
		}
	}

	if shaderFile == "" {
		return nil
	}

	shaderType, err := parseStage(stageName)
	if err != nil {
		return err
	}
	q, err := shaderQuality(settings, qualityName)
	if err != nil {
		return err
	}
	spec := variant.SpecializationFor(q, nil)

	if !watch {
		s, err := shader.NewShaderFromPath(shaderFile, shaderType, shaderFile, spec)
		if err != nil {
			return err
		}
		if emit {
			fmt.Println(s.Source())
		}
		if err := shader.CheckBindings(s); err != nil {
			return err
		}
		logger.Info("shader matches registry", "path", shaderFile, "stage", shaderType, "constants", spec)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := shader.NewWatcher(shaderFile, shaderType, shaderFile, spec)
	if err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	for r := range w.Results() {
		if r.Err != nil {
			var lm *shader.LayoutMismatchError
			if errors.As(r.Err, &lm) {
				for _, p := range lm.Problems {
					fmt.Printf("  %s\n", p)
				}
			}
			continue
		}
		if emit {
			fmt.Println(r.Shader.Source())
		}
	}
	return <-errCh
}

// shaderQuality picks the quality level that specializes -shader. An explicit name wins,
// then a fixed render quality from the settings, then high.
func shaderQuality(settings config.Settings, name string) (layout.QualityLevel, error) {
	if name != "" {
		q, err := layout.LookupQualityLevel(name)
		if err != nil {
			return 0, fmt.Errorf("quality: %w", err)
		}
		return q, nil
	}
	if q, ok := settings.FixedQuality(); ok {
		return q, nil
	}
	return layout.QualityLevelHigh, nil
}

func parseStage(name string) (shader.ShaderType, error) {
	switch strings.ToLower(name) {
	case "vertex", "vert", "vs":
		return shader.ShaderTypeVertex, nil
	case "fragment", "frag", "fs":
		return shader.ShaderTypeFragment, nil
	default:
		return 0, fmt.Errorf("unknown stage %q", name)
	}
}

func printRegistry(w io.Writer) {
	fmt.Fprintln(w, "Buffer indices:")
	for _, b := range layout.AllBufferIndices() {
		fmt.Fprintf(w, "  %d  %s\n", b, b)
	}
	fmt.Fprintln(w, "Vertex attributes:")
	for _, a := range layout.AllVertexAttributes() {
		fmt.Fprintf(w, "  %d  %s\n", a, a)
	}
	fmt.Fprintln(w, "Texture indices:")
	for _, t := range layout.AllTextureIndices() {
		fc, _ := layout.FunctionConstantForTexture(t)
		fmt.Fprintf(w, "  %d  %-18s %-18s toggled by %s\n", t, t, layout.WGSLTextureType(t), fc)
	}
	fmt.Fprintln(w, "Function constants:")
	for _, fc := range layout.AllFunctionConstants() {
		fmt.Fprintf(w, "  %d  %s\n", fc, fc)
	}
	fmt.Fprintln(w, "Quality levels:")
	for _, q := range layout.AllQualityLevels() {
		names := make([]string, 0, layout.NumTextureIndices)
		for _, t := range variant.QualityTextures(q) {
			names = append(names, t.String())
		}
		fmt.Fprintf(w, "  %d  %-6s %s\n", q, q, strings.Join(names, ", "))
	}
	fmt.Fprintln(w, "Viewports:")
	for _, v := range layout.AllViewports() {
		fmt.Fprintf(w, "  %d  %s\n", v, v)
	}
	fmt.Fprintf(w, "FrameData: %d bytes, MaterialData: %d bytes, map weights: %d\n",
		layout.GPUFrameDataSize, layout.GPUMaterialDataSize, layout.NumMeshTextureIndices)
}
