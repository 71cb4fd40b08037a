package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslPrimitiveLayoutMap holds size and alignment of the host-shareable WGSL types a
// registry record or vertex struct may use.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"f16":  {2, 2},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},
	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec3<u32>": {12, 16},
	"vec3u":     {12, 16},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},

	// A matCxR is C columns, each padded like a vecR.
	"mat2x2<f32>": {16, 8},
	"mat2x3<f32>": {32, 16},
	"mat2x4<f32>": {32, 16},
	"mat3x2<f32>": {24, 8},
	"mat3x3<f32>": {48, 16},
	"mat3x4<f32>": {48, 16},
	"mat4x2<f32>": {32, 8},
	"mat4x3<f32>": {64, 16},
	"mat4x4<f32>": {64, 16},
	"mat3x3f":     {48, 16},
	"mat4x4f":     {64, 16},

	"atomic<u32>": {4, 4},
	"atomic<i32>": {4, 4},
}

// roundUpAlign returns value rounded up to a power-of-two alignment. Zero alignment
// leaves value unchanged.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// arrayType splits "array<T, N>" into its element type and count. A runtime-sized
// "array<T>" reports count 0 with sized false.
func arrayType(typeName string) (elem string, count uint64, sized bool, ok bool) {
	base, params := splitTypeParams(typeName)
	if base != "array" || params == "" {
		return "", 0, false, false
	}
	elem, n, hasCount := strings.Cut(params, ",")
	elem = strings.TrimSpace(elem)
	if !hasCount {
		return elem, 0, false, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(n), 10, 64)
	if err != nil {
		return "", 0, false, false
	}
	return elem, count, true, true
}

// resolveTypeLayout looks up the size and alignment of a WGSL type among the primitives
// and the structs resolved so far. A runtime-sized array resolves to one element stride,
// the smallest binding that still holds a record.
//
// Parameters:
//   - typeName: the WGSL type name, e.g. "f32", "FrameData", "array<f32, 5>"
//   - knownTypes: struct layouts resolved so far
//
// Returns:
//   - wgslTypeLayout: the layout
//   - bool: false for an unknown type
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if l, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return l, true
	}
	if l, ok := knownTypes[typeName]; ok {
		return l, true
	}

	elem, count, sized, ok := arrayType(typeName)
	if !ok {
		return wgslTypeLayout{}, false
	}
	el, ok := resolveTypeLayout(elem, knownTypes)
	if !ok {
		return wgslTypeLayout{}, false
	}
	stride := roundUpAlign(el.align, el.size)
	if !sized {
		return wgslTypeLayout{stride, el.align}, true
	}
	return wgslTypeLayout{count * stride, el.align}, true
}

// computeStructLayout places every member of one struct: each at the next offset aligned
// for its type or its @align, whichever is larger, and advanced by its type size or its
// @size. The total is rounded up to the widest member alignment. @builtin
// members carry no storage and are skipped. A trailing runtime-sized array contributes
// its offset but no size.
//
// Parameters:
//   - ps: the parsed struct
//   - knownTypes: struct layouts resolved so far
//
// Returns:
//   - StructLayout: the layout with per-member offsets
//   - bool: false while a member type is still unresolved
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (StructLayout, bool) {
	out := StructLayout{Name: ps.name, Align: 1, Fields: make([]FieldLayout, 0, len(ps.fields))}
	var offset uint64

	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		l, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return StructLayout{}, false
		}
		align := max(l.align, field.align)
		if align > out.Align {
			out.Align = align
		}
		offset = roundUpAlign(align, offset)

		if _, _, sized, isArray := arrayType(field.typeName); isArray && !sized {
			out.Fields = append(out.Fields, FieldLayout{Name: field.name, Offset: offset})
			out.Size = roundUpAlign(out.Align, offset)
			if out.Size == 0 {
				out.Size = l.size
			}
			return out, true
		}

		out.Fields = append(out.Fields, FieldLayout{Name: field.name, Offset: offset, Size: l.size})
		offset += max(l.size, field.size)
	}

	out.Size = roundUpAlign(out.Align, offset)
	return out, true
}

// computeStructLayouts lays out every parsed struct. A struct that embeds another struct
// resolves on a later pass; structs that never resolve are left out.
//
// Parameters:
//   - structs: the parsed struct blocks
//
// Returns:
//   - map[string]StructLayout: layouts keyed by struct name
func computeStructLayouts(structs []parsedStruct) map[string]StructLayout {
	known := make(map[string]wgslTypeLayout, len(structs))
	resolved := make(map[string]StructLayout, len(structs))
	pending := append([]parsedStruct(nil), structs...)

	for len(pending) > 0 {
		var unresolved []parsedStruct
		for _, ps := range pending {
			l, ok := computeStructLayout(ps, known)
			if !ok {
				unresolved = append(unresolved, ps)
				continue
			}
			resolved[ps.name] = l
			known[ps.name] = wgslTypeLayout{l.Size, l.Align}
		}
		if len(unresolved) == len(pending) {
			break
		}
		pending = unresolved
	}

	return resolved
}

// computeStructSizes reduces computeStructLayouts to size and alignment per struct name.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	layouts := computeStructLayouts(structs)
	sizes := make(map[string]wgslTypeLayout, len(layouts))
	for name, l := range layouts {
		sizes[name] = wgslTypeLayout{l.Size, l.Align}
	}
	return sizes
}

// classifyResource builds the layout entry for one `@group @binding var` declaration.
// Buffers are told apart by address space; handle types by their type name.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the stage visibility
//   - addressSpace: the var qualifier, e.g. "uniform" or "storage, read"; empty for handles
//   - typeName: the declared type, e.g. "FrameData" or "texture_cube<f32>"
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the entry
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage") && strings.Contains(addressSpace, "read_write"):
		entry.Buffer.Type = wgpu.BufferBindingTypeStorage
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	case addressSpace != "":
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_depth_"):
		classifyDepthTexture(typeName, &entry)
	case strings.HasPrefix(typeName, "texture_"):
		classifySampledTexture(typeName, &entry)
	}

	return entry
}

// classifySampledTexture fills the texture fields for a type like "texture_2d<f32>".
func classifySampledTexture(typeName string, entry *wgpu.BindGroupLayoutEntry) {
	base, param := splitTypeParams(typeName)
	if info, ok := wgslSampledTextureMap[base]; ok {
		entry.Texture.ViewDimension = info.viewDimension
		entry.Texture.Multisampled = info.multisampled
	}
	if st, ok := wgslSampleTypeMap[param]; ok {
		entry.Texture.SampleType = st
	}
}

// classifyDepthTexture fills the texture fields for a type like "texture_depth_cube".
func classifyDepthTexture(typeName string, entry *wgpu.BindGroupLayoutEntry) {
	entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
	if info, ok := wgslSampledTextureMap[typeName]; ok {
		entry.Texture.ViewDimension = info.viewDimension
		entry.Texture.Multisampled = info.multisampled
	}
}

// splitTypeParams splits "texture_2d<f32>" into ("texture_2d", "f32"). A type without
// parameters returns an empty params string.
//
// Parameters:
//   - typeName: the WGSL type
//
// Returns:
//   - base: the name before the first '<'
//   - params: the trimmed text inside the outer angle brackets
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// stripComments removes // and nested /* */ comments from WGSL source in one pass.
// Line breaks are kept so later line-based parsing sees the same line count.
//
// Parameters:
//   - source: raw WGSL source
//
// Returns:
//   - string: source without comments
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		c := source[i]
		var next byte
		if i+1 < len(source) {
			next = source[i+1]
		}

		switch {
		case c == '/' && next == '*':
			depth++
			i++
		case depth > 0 && c == '*' && next == '/':
			depth--
			i++
		case depth > 0:
			if c == '\n' {
				sb.WriteByte(c)
			}
		case c == '/' && next == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			if i < len(source) {
				sb.WriteByte('\n')
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// isVertexInputStruct reports whether a struct feeds the vertex stage: it has @location
// members and no @builtin member. Vertex output structs carry @builtin(position).
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// lowestLocation returns the smallest @location among a struct's members, or -1.
func lowestLocation(ps parsedStruct) int {
	lowest := -1
	for _, f := range ps.fields {
		if f.location >= 0 && (lowest < 0 || f.location < lowest) {
			lowest = f.location
		}
	}
	return lowest
}

// buildVertexBufferLayout packs the members of a vertex input struct tightly in
// declaration order, one attribute per @location.
//
// Parameters:
//   - ps: the vertex input struct
//
// Returns:
//   - wgpu.VertexBufferLayout: the buffer layout
//   - bool: false if a member type has no vertex format
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64

	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += info.size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// splitAtTopLevelCommas splits a struct body at commas outside angle brackets, so
// array<f32, 5> stays one member.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
