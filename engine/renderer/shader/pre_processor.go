// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader
// source code for @oxy: annotations, replaces them with generated WGSL declarations
// or injected struct source, and collects a declarations list that pipeline variants
// use to wire GPU resources to bind groups without manual string lookups.
//
// The pre-processor maintains two registries:
//   - structRegistry: maps AnnotationArg keys to the embedded WGSL struct sources of the
//     layout package and their WGSL type names. Used by @oxy:include (to inject the struct
//     source) and @oxy:group (to resolve the WGSL type name in the generated declaration).
//   - addressSpaceRegistry: maps address space argument keys to WGSL var<> syntax strings.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
)

// registryEntry pairs a WGSL struct source string (embedded from a .wgsl asset file)
// with the resolved WGSL type name used in generated @group/@binding declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted in @oxy:group declarations (e.g. "FrameData").
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps struct type argument keys to their embedded WGSL source and type name.
	structRegistry map[AnnotationArg]registryEntry

	// addressSpaceRegistry maps address space argument keys to WGSL var<> syntax strings.
	addressSpaceRegistry map[AnnotationArg]string

	// spec supplies the default value of every emitted override.
	spec Specialization

	// declarations accumulates binding and constant annotations during a Process call.
	// Reset at the start of each Process invocation.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source code containing @oxy: annotations,
// replacing them with generated declarations or injected struct sources while collecting
// a declarations list for downstream resource wiring.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and pre-processes it by replacing
	// @oxy: annotations with their corresponding WGSL output. @oxy:include annotations
	// are replaced with embedded struct source text, once per struct. @oxy:group,
	// @oxy:texture and @oxy:sampler annotations are replaced with generated
	// @group/@binding variable declarations. @oxy:constant annotations are replaced with
	// an `@id(n) override` declaration defaulted from the specialization.
	//
	// The declarations list is reset at the start of each call and can be retrieved
	// via Declarations() after Process returns.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed, two annotations claim the same
	//     slot, or a function constant is declared twice
	Process(source string) (string, error)

	// Declarations returns the binding and constant annotations collected during the
	// most recent call to Process, in source-order. Returns nil if Process has not been called.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation

	// Specialization returns the function constant values emitted as override defaults.
	//
	// Returns:
	//   - Specialization: the active specialization
	Specialization() Specialization
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with all registered layout structs and
// address space mappings pre-populated.
//
// Parameters:
//   - spec: the function constant values baked into @oxy:constant declarations
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(spec Specialization) PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgFrameData:    {Source: layout.GPUFrameDataSource, Type: "FrameData"},
			AnnotationArgMaterialData: {Source: layout.GPUMaterialDataSource, Type: "MaterialData"},
			AnnotationArgMeshPosition: {Source: layout.GPUMeshPositionSource, Type: "MeshPositionInput"},
			AnnotationArgMeshGeneric:  {Source: layout.GPUMeshGenericSource, Type: "MeshGenericInput"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
		spec: spec,
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[AnnotationArg]bool)
	bound := make(map[[2]int]int)
	constants := make(map[layout.FunctionConstant]int)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		if a.Group != nil && a.Binding != nil {
			slot := [2]int{*a.Group, *a.Binding}
			if prev, ok := bound[slot]; ok {
				return "", fmt.Errorf("line %d: @group(%d) @binding(%d) already declared on line %d", a.Line, slot[0], slot[1], prev)
			}
			bound[slot] = a.Line
		}

		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", a.Line, a.Args[0])
			}
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, entry.Source)
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			entry := p.structRegistry[a.Args[2]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeTexture:
			t, err := layout.LookupTextureIndex(string(a.Args[0]))
			if err != nil {
				return "", fmt.Errorf("line %d: %w", a.Line, err)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) var %s: %s;", *a.Group, *a.Binding, a.Args[1], layout.WGSLTextureType(t)))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeSampler:
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) var %s: sampler;", *a.Group, *a.Binding, a.Args[0]))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeConstant:
			fc, err := layout.LookupFunctionConstant(string(a.Args[0]))
			if err != nil {
				return "", fmt.Errorf("line %d: %w", a.Line, err)
			}
			if prev, ok := constants[fc]; ok {
				return "", fmt.Errorf("line %d: function constant %s already declared on line %d", a.Line, fc, prev)
			}
			constants[fc] = a.Line
			out = append(out, p.spec.overrideDecl(fc))
			p.declarations = append(p.declarations, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", a.Line, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) Specialization() Specialization {
	return p.spec
}
