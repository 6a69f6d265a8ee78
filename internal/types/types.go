package types

import "fmt"

// Type represents a type in the Marax type system. The set is closed:
// six primitives plus fixed-dimension matrices.
type Type interface {
	String() string
	// IsType is a marker method to ensure type safety.
	IsType()
}

// PrimitiveKind represents the kind of a primitive type.
type PrimitiveKind string

const (
	Int    PrimitiveKind = "int"
	Float  PrimitiveKind = "float"
	Bool   PrimitiveKind = "bool"
	String PrimitiveKind = "string"
	Void   PrimitiveKind = "void"
	// Auto is a pre-analysis placeholder resolved from an initializer.
	// Its presence after analysis is an internal-error condition.
	Auto PrimitiveKind = "auto"
)

// Primitive represents a primitive type.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) String() string { return string(p.Kind) }
func (p *Primitive) IsType()        {}

// Common primitive instances. The checker and generator only ever use
// these singletons.
var (
	TypeInt    = &Primitive{Kind: Int}
	TypeFloat  = &Primitive{Kind: Float}
	TypeBool   = &Primitive{Kind: Bool}
	TypeString = &Primitive{Kind: String}
	TypeVoid   = &Primitive{Kind: Void}
	TypeAuto   = &Primitive{Kind: Auto}
)

// Matrix represents a fixed-dimension matrix type. Dimensions are
// compile-time non-negative integers. Matrix values are nullable
// references at runtime.
type Matrix struct {
	Elem Type
	Rows int
	Cols int
}

func (m *Matrix) String() string {
	return fmt.Sprintf("mat[%s,%d,%d]", m.Elem, m.Rows, m.Cols)
}
func (m *Matrix) IsType() {}

// Equal reports whether two types are identical. Matrices are equal
// only when element type and both dimensions match exactly.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		return ok && at.Kind == bt.Kind
	case *Matrix:
		bt, ok := b.(*Matrix)
		return ok && at.Rows == bt.Rows && at.Cols == bt.Cols && Equal(at.Elem, bt.Elem)
	default:
		return false
	}
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && (p.Kind == Int || p.Kind == Float)
}

// IsBool reports whether t is Bool.
func IsBool(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == Bool
}

// IsVoid reports whether t is Void.
func IsVoid(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == Void
}

// IsAuto reports whether t is the pre-analysis placeholder.
func IsAuto(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == Auto
}
