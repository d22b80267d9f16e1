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

package apis

import (
	"strings"

	"dirpx.dev/implx/typeshape"
)

// Callable is the uniform call contract shared by implementation, validity
// and priority methods. recv is the live provider instance. Validity and
// priority methods receive their remapped arguments; an implementation
// method receives the call arguments verbatim.
type Callable func(recv any, args []any) (any, error)

// Operation is one abstract method of an AbstractType.
type Operation struct {
	// Name is the operation name.
	Name string
	// Alias is an optional alternative identification usable by bindings.
	Alias string
	// Params are the generic parameter shapes, in order.
	Params []typeshape.Type
	// Result is the optional result shape.
	Result typeshape.Type
	// NotImplementable excludes the operation from resolution.
	NotImplementable bool
}

// Arity returns the number of parameters.
func (o *Operation) Arity() int { return len(o.Params) }

// Signature renders "Name(P1, P2)". It identifies the operation within its
// abstract type independently of resolution order.
func (o *Operation) Signature() string {
	var b strings.Builder
	b.WriteString(o.Name)
	b.WriteByte('(')
	for i, p := range o.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p == nil {
			b.WriteString("<nil>")
			continue
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Identifies reports whether id names o by name, alias or signature.
func (o *Operation) Identifies(id string) bool {
	return id == o.Name || (o.Alias != "" && id == o.Alias) || id == o.Signature()
}

// String returns the signature.
func (o *Operation) String() string { return o.Signature() }

// AbstractType declares operations to be fulfilled by providers.
type AbstractType struct {
	// Type is the nominal of the abstract type.
	Type *typeshape.Nominal
	// Operations are the declared operations, in declaration order.
	Operations []*Operation
}

// Name returns the nominal name.
func (a *AbstractType) Name() string { return a.Type.String() }

// Lookup returns every operation identified by id.
func (a *AbstractType) Lookup(id string) []*Operation {
	var out []*Operation
	for _, op := range a.Operations {
		if op.Identifies(id) {
			out = append(out, op)
		}
	}
	return out
}

// Binding is the explicit binding marker of a method.
type Binding struct {
	// Target identifies the operation by name, alias or signature.
	// Empty means the method's own name.
	Target string
}

// PriorityMarker declares a constant priority, a priority method, or both.
// When Method is set its result wins over Value.
type PriorityMarker struct {
	// Value is the constant priority.
	Value int64
	// Method names a method on the same provider returning a number.
	Method string
}

// Method is one method declared by a provider.
type Method struct {
	// Name is the simple method name.
	Name string
	// Params are the declared parameter shapes.
	Params []typeshape.Type
	// Pins optionally pins parameter i to operation position Pins[i].
	// A negative entry leaves the parameter unpinned.
	Pins []int
	// Result is the optional result shape.
	Result typeshape.Type
	// Func invokes the method.
	Func Callable
	// Bind is the explicit binding marker, if any.
	Bind *Binding
	// Validity names the validity predicate method, if any.
	Validity string
	// Priority is the priority marker, if any.
	Priority *PriorityMarker
}

// Arity returns the number of declared parameters.
func (m *Method) Arity() int { return len(m.Params) }

// Pin returns the pinned operation position of parameter i.
func (m *Method) Pin(i int) (int, bool) {
	if i < 0 || i >= len(m.Pins) || m.Pins[i] < 0 {
		return 0, false
	}
	return m.Pins[i], true
}

// ProviderType is a concrete type registered as a candidate provider.
type ProviderType struct {
	// Type is the provider nominal. Pools are keyed by it.
	Type *typeshape.Nominal
	// ProviderOf lists abstract types the provider declares itself a
	// provider of, enabling binding by simple name.
	ProviderOf []*typeshape.Nominal
	// Methods are the declared methods, in declaration order.
	Methods []*Method
}

// Name returns the nominal name.
func (p *ProviderType) Name() string { return p.Type.String() }

// Provides reports whether p declares itself a provider of a.
func (p *ProviderType) Provides(a *typeshape.Nominal) bool {
	for _, n := range p.ProviderOf {
		if typeshape.Identical(n, a) {
			return true
		}
	}
	return false
}

// MethodsNamed returns the methods named name, in declaration order.
func (p *ProviderType) MethodsNamed(name string) []*Method {
	var out []*Method
	for _, m := range p.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// CandidateMethod is one provider method resolved for one operation.
// It is immutable once resolved.
type CandidateMethod struct {
	// Provider declares the method.
	Provider *ProviderType
	// Method is the implementing method.
	Method *Method
	// ParamTypes are the erased declared parameter shapes.
	ParamTypes []typeshape.Type
	// GenericParamTypes are the declared parameter shapes.
	GenericParamTypes []typeshape.Type
	// ParamIndexes maps each declared parameter to an operation position.
	ParamIndexes []int
	// Validity is the validity predicate method, if any.
	Validity *Method
	// ValidityIndexes maps the validity method's parameters.
	ValidityIndexes []int
	// PriorityMethod is the priority method, if any.
	PriorityMethod *Method
	// PriorityIndexes maps the priority method's parameters.
	PriorityIndexes []int
	// PriorityValue is the constant priority.
	PriorityValue int64
	// Order is the position in the operation's candidate list.
	Order int
}

// String renders "Provider.Method".
func (c *CandidateMethod) String() string {
	return c.Provider.Name() + "." + c.Method.Name
}

// Markers are the declarative markers of a provider type, as supplied by
// the provider itself (Marked) or by a manifest.
type Markers struct {
	// ProviderOf names abstract types the provider is a provider of.
	ProviderOf []string
	// Methods holds per-method markers keyed by method name.
	Methods map[string]MethodMarkers
}

// MethodMarkers are the markers of one method.
type MethodMarkers struct {
	// Bound marks an explicit binding. Implement names the target; empty
	// means the method's own name.
	Bound     bool
	Implement string
	// Pins are per-parameter operation positions; negative is unpinned.
	Pins []int
	// Validity names the validity predicate method.
	Validity string
	// Priority is the constant priority.
	Priority int64
	// PriorityMethod names the priority method.
	PriorityMethod string
}

// Marked is implemented by provider types that declare their own markers.
type Marked interface {
	ImplementationMarkers() Markers
}
