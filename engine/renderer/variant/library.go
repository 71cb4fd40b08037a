package variant

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-variants/common"
	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/Carmen-Shannon/oxy-variants/engine/renderer/shader"
)

// DefaultVertexSource is the shared PBR vertex stage.
//
//go:embed assets/pbr_vert.wgsl
var DefaultVertexSource string

// DefaultFragmentSource is the material fragment stage with one override per texture map.
//
//go:embed assets/pbr_frag.wgsl
var DefaultFragmentSource string

// library is the implementation of the Library interface.
type library struct {
	vertexSource, fragmentSource string

	thresholds Thresholds
	blendBand  float32
	workers    int
	variantOpt []VariantBuilderOption

	// byQuality maps every quality level to its variant; levels that specialize
	// identically point at the same variant.
	byQuality [layout.NumQualityLevels]Variant
	byKey     map[string]Variant
}

// Library holds one Variant per quality level for a material and picks between them by
// camera distance.
type Library interface {
	// Get returns the variant for quality level q, nil for an invalid level.
	//
	// Parameters:
	//   - q: the quality level
	//
	// Returns:
	//   - Variant: the variant
	Get(q layout.QualityLevel) Variant

	// ForDistance returns the variant for an object at distance d from the camera.
	//
	// Parameters:
	//   - d: the camera distance
	//
	// Returns:
	//   - Variant: the variant
	ForDistance(d float32) Variant

	// Variants returns the distinct variants, one per specialization, in quality order.
	//
	// Returns:
	//   - []Variant: the distinct variants
	Variants() []Variant

	// ApplyBlendWeights writes the map weights for distance d into a material record.
	//
	// Parameters:
	//   - m: the material record to update
	//   - d: the camera distance
	ApplyBlendWeights(m *layout.GPUMaterialData, d float32)

	// Thresholds returns the quality switch distances.
	//
	// Returns:
	//   - Thresholds: the switch distances
	Thresholds() Thresholds
}

var _ Library = &library{}

// LibraryBuilderOption is a functional option used to configure a Library during construction.
type LibraryBuilderOption func(*library)

// WithSources replaces the default PBR shader sources.
//
// Parameters:
//   - vertexSource: the annotated WGSL vertex source
//   - fragmentSource: the annotated WGSL fragment source
//
// Returns:
//   - LibraryBuilderOption: a function that sets the shader sources for this library
func WithSources(vertexSource, fragmentSource string) LibraryBuilderOption {
	return func(l *library) {
		l.vertexSource = vertexSource
		l.fragmentSource = fragmentSource
	}
}

// WithThresholds sets the quality switch distances.
//
// Parameters:
//   - t: the switch distances, ascending
//
// Returns:
//   - LibraryBuilderOption: a function that sets the thresholds for this library
func WithThresholds(t Thresholds) LibraryBuilderOption {
	return func(l *library) {
		l.thresholds = t
	}
}

// WithBlendBand sets the distance over which a dropped map fades out.
//
// Parameters:
//   - band: the fade width, zero for an abrupt switch
//
// Returns:
//   - LibraryBuilderOption: a function that sets the blend band for this library
func WithBlendBand(band float32) LibraryBuilderOption {
	return func(l *library) {
		l.blendBand = band
	}
}

// WithWorkers sets how many variants are built concurrently.
//
// Parameters:
//   - n: the worker count, values below 1 use runtime.NumCPU
//
// Returns:
//   - LibraryBuilderOption: a function that sets the worker count for this library
func WithWorkers(n int) LibraryBuilderOption {
	return func(l *library) {
		l.workers = n
	}
}

// WithVariantOptions passes options to every variant the library builds.
//
// Parameters:
//   - opts: the variant options
//
// Returns:
//   - LibraryBuilderOption: a function that appends variant options for this library
func WithVariantOptions(opts ...VariantBuilderOption) LibraryBuilderOption {
	return func(l *library) {
		l.variantOpt = append(l.variantOpt, opts...)
	}
}

// NewLibrary builds the variants of every quality level. Levels that produce the same
// specialization share one variant, and distinct variants are built concurrently on a
// worker pool.
//
// Parameters:
//   - opts: a variadic list of LibraryBuilderOption functions to configure the library
//
// Returns:
//   - Library: the built library
//   - error: every variant build failure joined, a registry layout mismatch, or an error if the
//     thresholds are not ascending
func NewLibrary(opts ...LibraryBuilderOption) (Library, error) {
	l := &library{
		vertexSource:   DefaultVertexSource,
		fragmentSource: DefaultFragmentSource,
		thresholds:     DefaultThresholds,
		blendBand:      2,
		byKey:          make(map[string]Variant),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.vertexSource == "" || l.fragmentSource == "" {
		panic("variant: NewLibrary requires non-empty vertex and fragment sources")
	}
	for i := 1; i < len(l.thresholds); i++ {
		if l.thresholds[i] < l.thresholds[i-1] {
			return nil, fmt.Errorf("variant: thresholds %v are not ascending", l.thresholds)
		}
	}
	if l.workers < 1 {
		l.workers = runtime.NumCPU()
	}
	if err := shader.VerifyRegistry(); err != nil {
		return nil, err
	}

	configured := &variant{}
	for _, opt := range l.variantOpt {
		opt(configured)
	}

	// One build per distinct specialization; the first level to need it builds it.
	keys := make([]string, 0, layout.NumQualityLevels)
	owners := make(map[string]layout.QualityLevel)
	levelKeys := [layout.NumQualityLevels]string{}
	for _, q := range layout.AllQualityLevels() {
		key := "pbr:" + SpecializationFor(q, configured.available).Key()
		levelKeys[q] = key
		if _, ok := owners[key]; ok {
			common.Logger().Debug("sharing variant", "quality", q, "key", key)
			continue
		}
		owners[key] = q
		keys = append(keys, key)
	}

	pool := worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for id, key := range keys {
		q := owners[key]
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				v, err := NewVariant(q, l.vertexSource, l.fragmentSource, l.variantOpt...)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return nil, err
				}
				l.byKey[key] = v
				return v, nil
			},
		})
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for _, q := range layout.AllQualityLevels() {
		l.byQuality[q] = l.byKey[levelKeys[q]]
	}
	common.Logger().Info("variant library built", "variants", len(l.byKey), "thresholds", l.thresholds)
	return l, nil
}

func (l *library) Get(q layout.QualityLevel) Variant {
	if !q.Valid() {
		return nil
	}
	return l.byQuality[q]
}

func (l *library) ForDistance(d float32) Variant {
	return l.Get(QualityForDistance(d, l.thresholds))
}

func (l *library) Variants() []Variant {
	out := make([]Variant, 0, len(l.byKey))
	seen := make(map[string]bool, len(l.byKey))
	for _, v := range l.byQuality {
		if v == nil || seen[v.Key()] {
			continue
		}
		seen[v.Key()] = true
		out = append(out, v)
	}
	return out
}

func (l *library) ApplyBlendWeights(m *layout.GPUMaterialData, d float32) {
	ApplyBlendWeights(m, d, l.thresholds, l.blendBand)
}

func (l *library) Thresholds() Thresholds {
	return l.thresholds
}
