package shader

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrLayoutMismatch is matched by every error reporting that a host record and a shader
// declaration disagree.
var ErrLayoutMismatch = errors.New("shader: layout mismatch")

// LayoutMismatchError lists every divergence found between a Go record and the WGSL
// struct it mirrors, or between a shader's declarations and the layout registry.
type LayoutMismatchError struct {
	// Record is the Go type name, or the shader key for binding checks.
	Record string

	// WGSLType is the WGSL struct name, empty for binding checks.
	WGSLType string

	// Problems holds one human-readable line per divergence.
	Problems []string
}

func (e *LayoutMismatchError) Error() string {
	target := e.WGSLType
	if target == "" {
		target = "layout registry"
	}
	return fmt.Sprintf("shader: %s does not match %s: %s", e.Record, target, strings.Join(e.Problems, "; "))
}

// Is reports ErrLayoutMismatch as a match so callers can use errors.Is.
func (e *LayoutMismatchError) Is(target error) bool {
	return target == ErrLayoutMismatch
}

// GoLayout computes the layout of a Go record from its `wgsl` struct tags. Untagged fields
// (padding) are skipped but still count toward offsets and the total size.
//
// Parameters:
//   - record: a struct value or pointer to one
//
// Returns:
//   - StructLayout: the layout with field names taken from the tags
//   - error: an error if record is not a struct
func GoLayout(record any) (StructLayout, error) {
	t := reflect.TypeOf(record)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return StructLayout{}, fmt.Errorf("shader: %T is not a struct", record)
	}

	out := StructLayout{Name: t.Name(), Size: uint64(t.Size()), Align: uint64(t.Align())}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, ok := f.Tag.Lookup("wgsl")
		if !ok || name == "" || name == "-" {
			continue
		}
		out.Fields = append(out.Fields, FieldLayout{
			Name:   name,
			Offset: uint64(f.Offset),
			Size:   uint64(f.Type.Size()),
		})
	}
	return out, nil
}

// WGSLLayout computes the buffer layout of a struct declared in WGSL source.
//
// Parameters:
//   - source: WGSL source containing the struct
//   - wgslType: the struct name
//
// Returns:
//   - StructLayout: the computed layout
//   - error: an error if the struct is missing or contains an unknown type
func WGSLLayout(source, wgslType string) (StructLayout, error) {
	structs := parseStructBlocks(stripComments(source))
	found := false
	for _, ps := range structs {
		if ps.name == wgslType {
			found = true
			break
		}
	}
	if !found {
		return StructLayout{}, fmt.Errorf("shader: struct %s not declared", wgslType)
	}
	l, ok := computeStructLayouts(structs)[wgslType]
	if !ok {
		return StructLayout{}, fmt.Errorf("shader: struct %s contains a type with unknown layout", wgslType)
	}
	return l, nil
}

// VerifyLayout checks that a Go record has the same total size as the WGSL struct and that
// every WGSL member has a tagged Go field at the same offset with the same size.
//
// Parameters:
//   - source: WGSL source containing the struct
//   - wgslType: the struct name
//   - record: the Go record (value or pointer)
//
// Returns:
//   - error: nil on agreement, a *LayoutMismatchError listing every divergence, or a plain
//     error if either layout could not be computed
func VerifyLayout(source, wgslType string, record any) error {
	want, err := WGSLLayout(source, wgslType)
	if err != nil {
		return err
	}
	got, err := GoLayout(record)
	if err != nil {
		return err
	}

	var problems []string
	if got.Size != want.Size {
		problems = append(problems, fmt.Sprintf("size %d, want %d", got.Size, want.Size))
	}
	for _, wf := range want.Fields {
		gf, ok := got.Field(wf.Name)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: no Go field tagged wgsl:%q", wf.Name, wf.Name))
			continue
		}
		if gf.Offset != wf.Offset {
			problems = append(problems, fmt.Sprintf("%s: offset %d, want %d", wf.Name, gf.Offset, wf.Offset))
		}
		if gf.Size != wf.Size {
			problems = append(problems, fmt.Sprintf("%s: size %d, want %d", wf.Name, gf.Size, wf.Size))
		}
	}
	for _, gf := range got.Fields {
		if _, ok := want.Field(gf.Name); !ok {
			problems = append(problems, fmt.Sprintf("%s: not declared in WGSL", gf.Name))
		}
	}

	if len(problems) > 0 {
		return &LayoutMismatchError{Record: got.Name, WGSLType: wgslType, Problems: problems}
	}
	return nil
}

// verifyVertexLayouts compares vertex layouts parsed from WGSL against the registry's
// layouts slot by slot. Only the declared slots are compared unless requireAll is set,
// so a shader may bind a subset of the vertex buffers.
func verifyVertexLayouts(record string, parsed map[int][]wgpu.VertexBufferLayout, requireAll bool) error {
	want := layout.VertexBufferLayouts()
	var problems []string
	if requireAll {
		for slot := range want {
			if _, ok := parsed[slot]; !ok {
				problems = append(problems, fmt.Sprintf("vertex buffer %s: missing", layout.BufferIndex(slot)))
			}
		}
	}
	for _, slot := range slices.Sorted(maps.Keys(parsed)) {
		p := parsed[slot]
		switch {
		case slot < 0 || slot >= len(want):
			problems = append(problems, fmt.Sprintf("vertex input at @location(%d): no vertex buffer in registry", slot))
		case len(p) != 1:
			problems = append(problems, fmt.Sprintf("vertex buffer %s: declared by %d structs", layout.BufferIndex(slot), len(p)))
		default:
			problems = append(problems, compareVertexBufferLayout(layout.BufferIndex(slot), p[0], want[slot])...)
		}
	}
	if len(problems) > 0 {
		return &LayoutMismatchError{Record: record, Problems: problems}
	}
	return nil
}

// compareVertexBufferLayout lists the differences between two vertex buffer layouts.
func compareVertexBufferLayout(slot layout.BufferIndex, got, want wgpu.VertexBufferLayout) []string {
	var problems []string
	if got.ArrayStride != want.ArrayStride {
		problems = append(problems, fmt.Sprintf("vertex buffer %s: stride %d, want %d", slot, got.ArrayStride, want.ArrayStride))
	}
	if len(got.Attributes) != len(want.Attributes) {
		problems = append(problems, fmt.Sprintf("vertex buffer %s: %d attributes, want %d", slot, len(got.Attributes), len(want.Attributes)))
		return problems
	}
	for i := range want.Attributes {
		g, w := got.Attributes[i], want.Attributes[i]
		if g != w {
			problems = append(problems, fmt.Sprintf("vertex buffer %s attribute %d: %+v, want %+v", slot, i, g, w))
		}
	}
	return problems
}

// VerifyRegistry checks every record of the layout package against its embedded WGSL
// source, and the vertex buffer layouts against the vertex input structs.
//
// Returns:
//   - error: nil if everything agrees, otherwise every failure joined
func VerifyRegistry() error {
	var errs []error
	records := []struct {
		source, wgslType string
		record           any
	}{
		{layout.GPUFrameDataSource, "FrameData", layout.GPUFrameData{}},
		{layout.GPUMaterialDataSource, "MaterialData", layout.GPUMaterialData{}},
	}
	for _, r := range records {
		if err := VerifyLayout(r.source, r.wgslType, r.record); err != nil {
			errs = append(errs, err)
		}
	}

	vertexSource := layout.GPUMeshPositionSource + "\n" + layout.GPUMeshGenericSource
	if err := verifyVertexLayouts("vertex records", parseVertexLayouts(vertexSource), true); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CheckBindings verifies a processed shader against the layout registry: every declared
// bind group entry must exist in the registry with the same resource kind, every override
// id must name the matching function constant exactly once, and a vertex shader's input
// structs must produce the registry's vertex buffer layouts.
//
// Parameters:
//   - s: the shader to check
//
// Returns:
//   - error: nil if the shader agrees with the registry, otherwise a *LayoutMismatchError
func CheckBindings(s Shader) error {
	registry := layout.BindGroupLayoutDescriptors(s.ShaderType().Visibility())
	var problems []string

	for group, desc := range s.BindGroupLayoutDescriptors() {
		want, ok := registry[group]
		if !ok {
			problems = append(problems, fmt.Sprintf("@group(%d): not in registry", group))
			continue
		}
		for _, entry := range desc.Entries {
			problems = append(problems, checkEntry(group, entry, want.Entries)...)
		}
	}

	seen := make(map[uint32]string)
	for _, o := range s.Overrides() {
		if prev, dup := seen[o.ID]; dup {
			problems = append(problems, fmt.Sprintf("@id(%d): declared by %s and %s", o.ID, prev, o.Name))
			continue
		}
		seen[o.ID] = o.Name
		fc := layout.FunctionConstant(o.ID)
		if !fc.Valid() {
			problems = append(problems, fmt.Sprintf("@id(%d) %s: not a function constant", o.ID, o.Name))
			continue
		}
		if o.Name != fc.String() {
			problems = append(problems, fmt.Sprintf("@id(%d): named %s, want %s", o.ID, o.Name, fc))
		}
		if o.Type != "" && o.Type != "bool" {
			problems = append(problems, fmt.Sprintf("@id(%d) %s: type %s, want bool", o.ID, o.Name, o.Type))
		}
	}

	if s.ShaderType() == ShaderTypeVertex && len(s.VertexLayouts()) > 0 {
		if err := verifyVertexLayouts(s.Key(), s.VertexLayouts(), false); err != nil {
			var lm *LayoutMismatchError
			if errors.As(err, &lm) {
				problems = append(problems, lm.Problems...)
			}
		}
	}

	if len(problems) > 0 {
		return &LayoutMismatchError{Record: s.Key(), Problems: problems}
	}
	return nil
}

// checkEntry compares one parsed bind group entry with the registry entry at the same binding.
func checkEntry(group int, got wgpu.BindGroupLayoutEntry, registry []wgpu.BindGroupLayoutEntry) []string {
	for _, want := range registry {
		if want.Binding != got.Binding {
			continue
		}
		var problems []string
		if got.Buffer.Type != want.Buffer.Type {
			problems = append(problems, fmt.Sprintf("@group(%d) @binding(%d): buffer type %v, want %v", group, got.Binding, got.Buffer.Type, want.Buffer.Type))
		}
		if want.Buffer.Type != wgpu.BufferBindingTypeUndefined && got.Buffer.MinBindingSize != want.Buffer.MinBindingSize {
			problems = append(problems, fmt.Sprintf("@group(%d) @binding(%d): size %d, want %d", group, got.Binding, got.Buffer.MinBindingSize, want.Buffer.MinBindingSize))
		}
		if got.Texture.ViewDimension != want.Texture.ViewDimension {
			problems = append(problems, fmt.Sprintf("@group(%d) @binding(%d): texture dimension %v, want %v", group, got.Binding, got.Texture.ViewDimension, want.Texture.ViewDimension))
		}
		if got.Sampler.Type != want.Sampler.Type {
			problems = append(problems, fmt.Sprintf("@group(%d) @binding(%d): sampler type %v, want %v", group, got.Binding, got.Sampler.Type, want.Sampler.Type))
		}
		return problems
	}
	return []string{fmt.Sprintf("@group(%d) @binding(%d): not in registry", group, got.Binding)}
}
