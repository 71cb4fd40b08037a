package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
)

// Specialization holds the boolean value of every function constant for one pipeline
// variant. It is a comparable value type and can be used as a map key.
type Specialization struct {
	values [layout.NumFunctionConstants]bool
}

// Constant is one resolved override value.
type Constant struct {
	// ID is the @id slot, equal to the FunctionConstant value.
	ID uint32

	// Name is the WGSL override identifier.
	Name string

	// Value is the baked boolean.
	Value bool
}

// NewSpecialization returns a Specialization with the given function constants set to
// true and every other constant false. Invalid constants are ignored.
//
// Parameters:
//   - enabled: the function constants to enable
//
// Returns:
//   - Specialization: the specialization
func NewSpecialization(enabled ...layout.FunctionConstant) Specialization {
	var s Specialization
	for _, fc := range enabled {
		if fc.Valid() {
			s.values[fc] = true
		}
	}
	return s
}

// AllEnabled returns a Specialization with every function constant set to true.
//
// Returns:
//   - Specialization: the specialization
func AllEnabled() Specialization {
	return NewSpecialization(layout.AllFunctionConstants()...)
}

// With returns a copy of s with fc set to v.
//
// Parameters:
//   - fc: the function constant
//   - v: the new value
//
// Returns:
//   - Specialization: the updated copy
func (s Specialization) With(fc layout.FunctionConstant, v bool) Specialization {
	if fc.Valid() {
		s.values[fc] = v
	}
	return s
}

// Enabled reports the value of fc. Invalid constants report false.
//
// Parameters:
//   - fc: the function constant
//
// Returns:
//   - bool: the baked value
func (s Specialization) Enabled(fc layout.FunctionConstant) bool {
	return fc.Valid() && s.values[fc]
}

// TextureEnabled reports whether sampling of texture slot t is compiled in.
//
// Parameters:
//   - t: the texture slot
//
// Returns:
//   - bool: true if the function constant for t is set
func (s Specialization) TextureEnabled(t layout.TextureIndex) bool {
	fc, ok := layout.FunctionConstantForTexture(t)
	return ok && s.Enabled(fc)
}

// Mask packs the values into a bitmask, bit n holding FunctionConstant n.
//
// Returns:
//   - uint32: the bitmask
func (s Specialization) Mask() uint32 {
	var m uint32
	for i, v := range s.values {
		if v {
			m |= 1 << i
		}
	}
	return m
}

// Key returns a stable cache key for the specialization, e.g. "fc:101011".
//
// Returns:
//   - string: the key
func (s Specialization) Key() string {
	var sb strings.Builder
	sb.WriteString("fc:")
	for _, v := range s.values {
		if v {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Constants lists every function constant in @id order.
//
// Returns:
//   - []Constant: one entry per function constant
func (s Specialization) Constants() []Constant {
	out := make([]Constant, 0, len(s.values))
	for _, fc := range layout.AllFunctionConstants() {
		out = append(out, Constant{ID: uint32(fc), Name: fc.String(), Value: s.values[fc]})
	}
	return out
}

// overrideDecl renders the WGSL override declaration for fc with its baked default.
func (s Specialization) overrideDecl(fc layout.FunctionConstant) string {
	return fmt.Sprintf("@id(%d) override %s: bool = %t;", uint32(fc), fc.String(), s.Enabled(fc))
}

func (s Specialization) String() string {
	var enabled []string
	for _, fc := range layout.AllFunctionConstants() {
		if s.values[fc] {
			enabled = append(enabled, fc.String())
		}
	}
	if len(enabled) == 0 {
		return "none"
	}
	return strings.Join(enabled, ",")
}
