// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @oxy: that inject the canonical layout structs, emit bindings at the slots the
// layout registry assigns, and declare function-constant overrides. Binding indices are
// never written by hand in annotated shaders, so host and shader cannot disagree on them.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered layout struct at the
	// annotation site. A struct included twice is emitted once.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include frame_data
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding buffer declaration. The
	// group and binding must equal the registry slot for the struct type.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <struct_type>
	//
	// Example: //@oxy:group 0 2 storage_uniform frame frame_data
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeTexture generates a texture declaration in the texture bind group at
	// @binding == TextureIndex.
	//
	// Syntax: //@oxy:texture <texture_name> <var_name>
	//
	// Example: //@oxy:texture normal normal_map
	AnnotationTypeTexture AnnotationType = "texture"

	// AnnotationTypeSampler generates the shared sampler declaration.
	//
	// Syntax: //@oxy:sampler <var_name>
	AnnotationTypeSampler AnnotationType = "sampler"

	// AnnotationTypeConstant generates an `@id(n) override` declaration whose id is the
	// FunctionConstant value and whose default is the active specialization's value.
	//
	// Syntax: //@oxy:constant <function_constant_name>
	//
	// Example: //@oxy:constant has_normal_map
	AnnotationTypeConstant AnnotationType = "constant"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
// Group, texture, sampler and constant annotations are recorded in the PreProcessor's
// declarations list.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key (e.g. "frame_data")
	//   - group:    [0] = address space, [1] = var name, [2] = struct type key
	//   - texture:  [0] = texture name (e.g. "base_color"), [1] = var name
	//   - sampler:  [0] = var name
	//   - constant: [0] = function constant name (e.g. "has_normal_map")
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source where this annotation
	// was found. Used for error reporting.
	Line int

	// Group is the @group index for binding annotations. Nil for include and constant.
	Group *int

	// Binding is the @binding index for binding annotations. Nil for include and constant.
	Binding *int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// Struct type arguments. Each maps to a layout record with an embedded .wgsl asset.
const (
	// AnnotationArgFrameData identifies the FrameData struct (layout.GPUFrameDataSource).
	AnnotationArgFrameData AnnotationArg = "frame_data"

	// AnnotationArgMaterialData identifies the MaterialData struct (layout.GPUMaterialDataSource).
	AnnotationArgMaterialData AnnotationArg = "material_data"

	// AnnotationArgMeshPosition identifies the MeshPositionInput vertex struct.
	AnnotationArgMeshPosition AnnotationArg = "mesh_position"

	// AnnotationArgMeshGeneric identifies the MeshGenericInput vertex struct.
	AnnotationArgMeshGeneric AnnotationArg = "mesh_generic"
)

// Address space arguments for @oxy:group annotations.
const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"
)

// validStructTypes lists all AnnotationArg values accepted by @oxy:include.
var validStructTypes = []AnnotationArg{
	AnnotationArgFrameData,
	AnnotationArgMaterialData,
	AnnotationArgMeshPosition,
	AnnotationArgMeshGeneric,
}

// bufferStructSlots maps the struct types accepted by @oxy:group to their buffer slot
// and the only address space the record's layout is valid in.
var bufferStructSlots = map[AnnotationArg]struct {
	slot         layout.BufferIndex
	addressSpace AnnotationArg
}{
	AnnotationArgFrameData:    {layout.BufferIndexFrameData, annotationArgStorageTypeUniform},
	AnnotationArgMaterialData: {layout.BufferIndexMaterialData, annotationArgStorageTypeRead},
}

// validAddressSpaces lists all AnnotationArg values that are accepted as address
// space arguments in @oxy:group annotations.
var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix. Returns
// a populated Annotation for valid annotations, or an error describing the problem for
// malformed annotations with correct prefix but invalid syntax, unknown arguments, or
// slots that disagree with the layout registry.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		return parseGroupAnnotation(args, lineNum)
	case AnnotationTypeTexture:
		if len(args) != 3 {
			return nil, fmt.Errorf("line %d: @oxy texture annotation requires exactly two arguments (texture name, var name)", lineNum)
		}
		t, err := layout.LookupTextureIndex(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		group, binding := layout.BindGroupTextures, int(t)
		return &Annotation{
			Type:    AnnotationTypeTexture,
			Args:    []AnnotationArg{AnnotationArg(args[1]), AnnotationArg(args[2])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case AnnotationTypeSampler:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy sampler annotation requires exactly one argument (var name)", lineNum)
		}
		group, binding := layout.BindGroupSamplers, 0
		return &Annotation{
			Type:    AnnotationTypeSampler,
			Args:    []AnnotationArg{AnnotationArg(args[1])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case AnnotationTypeConstant:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy constant annotation requires exactly one argument", lineNum)
		}
		if _, err := layout.LookupFunctionConstant(args[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		return &Annotation{
			Type: AnnotationTypeConstant,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

// parseGroupAnnotation parses the arguments of an @oxy:group annotation and checks the
// declared slot against the layout registry.
func parseGroupAnnotation(args []string, lineNum int) (*Annotation, error) {
	if len(args) != 6 {
		return nil, fmt.Errorf("line %d: @oxy group annotation requires exactly five arguments (group, binding, address space, var name, struct type)", lineNum)
	}
	groupInt, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid group number %q in @oxy group annotation: %v", lineNum, args[1], err)
	}
	bindingInt, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid binding number %q in @oxy group annotation: %v", lineNum, args[2], err)
	}
	space := AnnotationArg(args[3])
	if !slices.Contains(validAddressSpaces, space) {
		return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
	}
	typeArg := AnnotationArg(args[5])
	slot, ok := bufferStructSlots[typeArg]
	if !ok {
		return nil, fmt.Errorf("line %d: struct type %q cannot be bound as a buffer", lineNum, args[5])
	}
	if groupInt != layout.BindGroupFrame || bindingInt != int(slot.slot) {
		return nil, fmt.Errorf("line %d: %s must be bound at @group(%d) @binding(%d), got @group(%d) @binding(%d)",
			lineNum, typeArg, layout.BindGroupFrame, slot.slot, groupInt, bindingInt)
	}
	if space != slot.addressSpace {
		return nil, fmt.Errorf("line %d: %s must use address space %s, got %s", lineNum, typeArg, slot.addressSpace, space)
	}
	return &Annotation{
		Type:    AnnotationTypeBindingGroup,
		Args:    []AnnotationArg{space, AnnotationArg(args[4]), typeArg},
		Line:    lineNum,
		Group:   &groupInt,
		Binding: &bindingInt,
	}, nil
}
