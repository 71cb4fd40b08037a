package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo holds the view dimension and multisampled flag for a sampled texture type
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
// Used to compute MinBindingSize for buffer bindings and per-field offsets for layout checks.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// FieldLayout is the placement of one struct member in a buffer.
type FieldLayout struct {
	// Name is the WGSL member name (or the Go `wgsl` tag when produced from a Go record).
	Name string

	// Offset is the byte offset of the member from the start of the struct.
	Offset uint64

	// Size is the byte size of the member, excluding any trailing padding.
	Size uint64
}

// StructLayout is the computed buffer layout of a struct.
type StructLayout struct {
	// Name is the WGSL struct name or the Go type name.
	Name string

	// Size is the total struct size including tail padding.
	Size uint64

	// Align is the struct alignment.
	Align uint64

	// Fields lists the members in declaration order.
	Fields []FieldLayout
}

// Field returns the member with the given name.
//
// Parameters:
//   - name: the member name
//
// Returns:
//   - FieldLayout: the member layout
//   - bool: false if no member has that name
func (l StructLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Override is a pipeline-overridable constant declared with `@id(n) override name`.
type Override struct {
	// ID is the numeric @id of the override.
	ID uint32

	// Name is the WGSL identifier.
	Name string

	// Type is the declared WGSL type, empty if inferred.
	Type string

	// Default is the initializer expression text, empty if none.
	Default string
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool

	// size and align hold explicit @size and @align values, 0 when absent.
	size  uint64
	align uint64
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}
