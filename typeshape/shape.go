/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package typeshape models the shape of types seen by the resolver and
// answers the structural questions resolution needs: which type parameters
// a type binds across its super type lattice, whether a parameter declared
// by a candidate is compatible with the parameter of an operation, and
// whether a runtime value is acceptable for an expected type.
//
// Shapes are a small tagged variant:
//
//   - *Nominal        a named type, optionally generic and backed by a Go type
//   - *Parameterized  a generic nominal applied to type arguments
//   - *Variable       a type parameter with bounds
//   - *Wildcard       a bounded wildcard argument
//   - *Array          an array of some component shape
//
// All predicates are pure and hold no shared mutable state. Shapes are
// treated as immutable once handed to the resolver.
package typeshape

import (
	"reflect"
	"strings"
)

// Kind tags the variant of a Type.
type Kind uint8

const (
	// Invalid is the zero Kind.
	Invalid Kind = iota
	// NominalKind tags *Nominal.
	NominalKind
	// ParameterizedKind tags *Parameterized.
	ParameterizedKind
	// VariableKind tags *Variable.
	VariableKind
	// WildcardKind tags *Wildcard.
	WildcardKind
	// ArrayKind tags *Array.
	ArrayKind
)

// String returns a short name for k.
func (k Kind) String() string {
	switch k {
	case NominalKind:
		return "nominal"
	case ParameterizedKind:
		return "parameterized"
	case VariableKind:
		return "variable"
	case WildcardKind:
		return "wildcard"
	case ArrayKind:
		return "array"
	default:
		return "invalid"
	}
}

// Type is one shape in the variant.
type Type interface {
	// Kind reports the variant tag.
	Kind() Kind
	// String renders the shape for diagnostics and signatures.
	String() string
}

// Nominal is a named type.
//
// Super and Interfaces hold the generic form of the direct super types, so
// that a type declared as "B extends A<int>" carries
// &Parameterized{Raw: A, Args: []Type{Int}} as its Super.
type Nominal struct {
	// Name is the simple name.
	Name string
	// Pkg is an optional package qualifier.
	Pkg string
	// Params are the declared type parameters, in order.
	Params []*Variable
	// Super is the generic super type, nil for roots.
	Super Type
	// Interfaces are the generic super interfaces.
	Interfaces []Type
	// Owner is the enclosing type of a member type.
	Owner *Nominal
	// Interface marks abstract interface-like nominals.
	Interface bool
	// Go is the backing Go type, if any.
	Go reflect.Type
}

// Kind implements Type.
func (*Nominal) Kind() Kind { return NominalKind }

// String returns "pkg.Name" or "Name".
func (n *Nominal) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Pkg == "" {
		return n.Name
	}
	return n.Pkg + "." + n.Name
}

// Parameterized is a generic nominal applied to arguments.
type Parameterized struct {
	// Raw is the generic nominal being applied.
	Raw *Nominal
	// Owner is the owner shape for member types, may be nil.
	Owner Type
	// Args are the actual type arguments, one per Raw.Params entry.
	Args []Type
}

// Kind implements Type.
func (*Parameterized) Kind() Kind { return ParameterizedKind }

// String renders "Raw[A, B]".
func (p *Parameterized) String() string {
	var b strings.Builder
	b.WriteString(p.Raw.String())
	b.WriteByte('[')
	for i, a := range p.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(str(a))
	}
	b.WriteByte(']')
	return b.String()
}

// Variable is a declared type parameter. Identity is by pointer: two
// variables with the same name declared by different types are distinct.
type Variable struct {
	// Name is the parameter name, e.g. "T".
	Name string
	// Decl names the declaring type or method, for diagnostics.
	Decl string
	// Bounds are the upper bounds; empty means Any.
	Bounds []Type
}

// Kind implements Type.
func (*Variable) Kind() Kind { return VariableKind }

// String returns the variable name.
func (v *Variable) String() string { return v.Name }

// Wildcard is a bounded wildcard type argument.
type Wildcard struct {
	// Upper are the upper bounds; empty means Any.
	Upper []Type
	// Lower are the lower bounds.
	Lower []Type
}

// Kind implements Type.
func (*Wildcard) Kind() Kind { return WildcardKind }

// String renders "?", "? extends X" or "? super X".
func (w *Wildcard) String() string {
	switch {
	case len(w.Lower) > 0:
		return "? super " + joinTypes(w.Lower, " & ")
	case len(w.Upper) > 0:
		return "? extends " + joinTypes(w.Upper, " & ")
	default:
		return "?"
	}
}

// Array is an array (or Go slice) of Elem.
type Array struct {
	// Elem is the component shape.
	Elem Type
}

// Kind implements Type.
func (*Array) Kind() Kind { return ArrayKind }

// String renders "[]Elem".
func (a *Array) String() string { return "[]" + str(a.Elem) }

// Option configures a Nominal built by NewNominal.
type Option func(*Nominal)

// NewNominal builds a Nominal named name with the given options.
func NewNominal(name string, opts ...Option) *Nominal {
	n := &Nominal{Name: name}
	for _, o := range opts {
		o(n)
	}
	return n
}

// InPackage sets the package qualifier.
func InPackage(pkg string) Option {
	return func(n *Nominal) { n.Pkg = pkg }
}

// WithParams declares type parameters. Each variable's Decl is set to the
// nominal's name when empty.
func WithParams(params ...*Variable) Option {
	return func(n *Nominal) {
		for _, p := range params {
			if p.Decl == "" {
				p.Decl = n.Name
			}
		}
		n.Params = append(n.Params, params...)
	}
}

// Extends sets the generic super type.
func Extends(super Type) Option {
	return func(n *Nominal) { n.Super = super }
}

// Implements appends generic super interfaces.
func Implements(ifaces ...Type) Option {
	return func(n *Nominal) { n.Interfaces = append(n.Interfaces, ifaces...) }
}

// OwnedBy sets the enclosing type.
func OwnedBy(owner *Nominal) Option {
	return func(n *Nominal) { n.Owner = owner }
}

// AsInterface marks the nominal as an interface.
func AsInterface() Option {
	return func(n *Nominal) { n.Interface = true }
}

// BackedBy attaches a Go type.
func BackedBy(t reflect.Type) Option {
	return func(n *Nominal) { n.Go = t }
}

// Var builds a type parameter with optional bounds.
func Var(name string, bounds ...Type) *Variable {
	return &Variable{Name: name, Bounds: bounds}
}

// Of applies raw to args.
func Of(raw *Nominal, args ...Type) *Parameterized {
	return &Parameterized{Raw: raw, Args: args}
}

// ArrayOf builds an array shape.
func ArrayOf(elem Type) *Array {
	return &Array{Elem: elem}
}

// Extending builds "? extends upper".
func Extending(upper ...Type) *Wildcard {
	return &Wildcard{Upper: upper}
}

// Super builds "? super lower".
func Super(lower ...Type) *Wildcard {
	return &Wildcard{Lower: lower}
}

func str(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = str(t)
	}
	return strings.Join(parts, sep)
}
