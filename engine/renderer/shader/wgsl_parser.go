package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap gives the vertex format and packed size of each WGSL type a vertex
// attribute may use.
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"vec4u":     {wgpu.VertexFormatUint32x4, 16},
}

// wgslSampledTextureMap gives the view dimension of each WGSL texture type.
var wgslSampledTextureMap = map[string]sampledTextureInfo{
	"texture_1d":                    {wgpu.TextureViewDimension1D, false},
	"texture_2d":                    {wgpu.TextureViewDimension2D, false},
	"texture_2d_array":              {wgpu.TextureViewDimension2DArray, false},
	"texture_3d":                    {wgpu.TextureViewDimension3D, false},
	"texture_cube":                  {wgpu.TextureViewDimensionCube, false},
	"texture_cube_array":            {wgpu.TextureViewDimensionCubeArray, false},
	"texture_multisampled_2d":       {wgpu.TextureViewDimension2D, true},
	"texture_depth_2d":              {wgpu.TextureViewDimension2D, false},
	"texture_depth_cube":            {wgpu.TextureViewDimensionCube, false},
	"texture_depth_multisampled_2d": {wgpu.TextureViewDimension2D, true},
}

// wgslSampleTypeMap gives the sample type of a texture's scalar parameter.
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	sizeAttrRegex  = regexp.MustCompile(`@size\((\d+)\)`)
	alignAttrRegex = regexp.MustCompile(`@align\((\d+)\)`)

	// fieldRegex captures member name and type after any attributes. The type capture is
	// greedy so array<T, N> survives.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, address space, name and type of
	//   @group(0) @binding(2) var<uniform> frame: FrameData;
	//   @group(1) @binding(0) var base_color_map: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	// overrideDeclRegex captures id, name, type and initializer of
	//   @id(3) override has_roughness_map: bool = true;
	overrideDeclRegex = regexp.MustCompile(`@id\((\d+)\)\s*override\s+(\w+)\s*(?::\s*([\w<>]+))?\s*(?:=\s*([^;]+?))?\s*;`)
)

// parseVertexLayouts turns each vertex input struct into its own vertex buffer layout,
// keyed by the vertex buffer slot that carries the struct's lowest @location. A struct
// whose lowest location is not a registered vertex attribute is keyed by that location.
// Structs with a member that has no vertex format are skipped.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - map[int][]wgpu.VertexBufferLayout: the layouts declared for each slot
func parseVertexLayouts(source string) map[int][]wgpu.VertexBufferLayout {
	result := make(map[int][]wgpu.VertexBufferLayout)
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		l, ok := buildVertexBufferLayout(ps)
		if !ok {
			continue
		}
		key := lowestLocation(ps)
		if slot, ok := layout.VertexBufferForAttribute(layout.VertexAttribute(key)); ok {
			key = int(slot)
		}
		result[key] = append(result[key], l)
	}
	return result
}

// parseBindGroupLayouts collects every resource declaration by group, entries sorted by
// binding. Buffer entries get the declared struct size as MinBindingSize.
//
// Parameters:
//   - source: the WGSL source
//   - visibility: the stage applied to every entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group
//   - map[int]map[int]string: variable names keyed by group then binding
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	cleaned := stripComments(source)
	sizes := computeStructSizes(parseStructBlocks(cleaned))

	result := make(map[int]wgpu.BindGroupLayoutDescriptor)
	varNames := make(map[int]map[int]string)
	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		typeName := strings.TrimSpace(m[5])

		entry := classifyResource(uint32(binding), visibility, strings.TrimSpace(m[3]), typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := resolveTypeLayout(typeName, sizes); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}

		desc := result[group]
		desc.Entries = append(desc.Entries, entry)
		result[group] = desc

		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = m[4]
	}

	for _, desc := range result {
		sort.Slice(desc.Entries, func(i, j int) bool {
			return desc.Entries[i].Binding < desc.Entries[j].Binding
		})
	}
	return result, varNames
}

// parseOverrides extracts every `@id(n) override` declaration in declaration order.
// Overrides without an @id cannot be set by number and are ignored.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - []Override: the declared overrides
func parseOverrides(source string) []Override {
	matches := overrideDeclRegex.FindAllStringSubmatch(stripComments(source), -1)
	out := make([]Override, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			continue
		}
		out = append(out, Override{
			ID:      uint32(id),
			Name:    m[2],
			Type:    strings.TrimSpace(m[3]),
			Default: strings.TrimSpace(m[4]),
		})
	}
	return out
}

// parseEntryPoint returns the name of the first @vertex or @fragment function, or ""
// if the stage has none.
func parseEntryPoint(source string, shaderType ShaderType) string {
	re := vertexEntryRegex
	switch shaderType {
	case ShaderTypeVertex:
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}
	if m := re.FindStringSubmatch(stripComments(source)); m != nil {
		return m[1]
	}
	return ""
}

// parseStructBlocks finds every struct in comment-free source.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		structs = append(structs, parsedStruct{name: m[1], fields: parseStructFields(m[2])})
	}
	return structs
}

// parseStructFields splits a struct body into members with their @location (or -1),
// explicit @size and @align, and whether they are @builtin.
func parseStructFields(body string) []parsedField {
	members := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(members))

	for _, member := range members {
		member = strings.TrimSpace(member)
		fm := fieldRegex.FindStringSubmatch(member)
		if member == "" || fm == nil {
			continue
		}

		field := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			location:  -1,
			isBuiltin: builtinRegex.MatchString(member),
		}
		if lm := locationRegex.FindStringSubmatch(member); lm != nil {
			if loc, err := strconv.Atoi(lm[1]); err == nil {
				field.location = loc
			}
		}
		field.size = attrValue(sizeAttrRegex, member)
		field.align = attrValue(alignAttrRegex, member)
		fields = append(fields, field)
	}

	return fields
}

// attrValue returns the integer argument of the attribute matched by re, or 0.
func attrValue(re *regexp.Regexp, member string) uint64 {
	m := re.FindStringSubmatch(member)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
