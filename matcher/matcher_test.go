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

package matcher_test

import (
	"errors"
	"slices"
	"testing"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/matcher"
	"dirpx.dev/implx/strategy"
	"dirpx.dev/implx/typeshape"
)

func chain() apis.Matcher {
	return matcher.New(
		strategy.NewExplicitStrategy(),
		nil,
		strategy.NewImplicitStrategy(),
		strategy.NewOverrideStrategy(),
	)
}

func calc() (*apis.AbstractType, *apis.Operation) {
	op := &apis.Operation{Name: "Combine", Params: []typeshape.Type{typeshape.Number, typeshape.Number}, Result: typeshape.Number}
	abs := &apis.AbstractType{Type: typeshape.NewNominal("Calc", typeshape.AsInterface()), Operations: []*apis.Operation{op}}
	return abs, op
}

func provider(abs *apis.AbstractType, methods ...*apis.Method) *apis.ProviderType {
	return &apis.ProviderType{
		Type:       typeshape.NewNominal("P"),
		ProviderOf: []*typeshape.Nominal{abs.Type},
		Methods:    methods,
	}
}

func ctx(abs *apis.AbstractType, op *apis.Operation, p *apis.ProviderType, m *apis.Method) apis.BindContext {
	return apis.BindContext{Abstract: abs, Operation: op, Provider: p, Method: m}
}

func TestMatch_ImplicitCandidate(t *testing.T) {
	abs, op := calc()
	m := &apis.Method{Name: "Combine", Params: []typeshape.Type{typeshape.Int, typeshape.Float64}}
	p := provider(abs, m)

	cand, err := chain().Match(ctx(abs, op, p, m))
	if err != nil || cand == nil {
		t.Fatalf("Match: got (%v,%v), want candidate", cand, err)
	}
	if !slices.Equal(cand.ParamIndexes, []int{0, 1}) {
		t.Fatalf("ParamIndexes = %v, want [0 1]", cand.ParamIndexes)
	}
	if cand.ParamTypes[0] != typeshape.Int || cand.GenericParamTypes[1] != typeshape.Float64 {
		t.Fatalf("param types = %v / %v", cand.ParamTypes, cand.GenericParamTypes)
	}
	if cand.Validity != nil || cand.PriorityMethod != nil || cand.PriorityValue != 0 {
		t.Fatalf("unexpected markers on %v", cand)
	}
}

func TestMatch_Excluded(t *testing.T) {
	abs, op := calc()
	cases := []struct {
		name string
		m    *apis.Method
	}{
		{"different name", &apis.Method{Name: "Other", Params: []typeshape.Type{typeshape.Int}}},
		{"incompatible param", &apis.Method{Name: "Combine", Params: []typeshape.Type{typeshape.String}}},
		{"too many params", &apis.Method{Name: "Combine", Params: []typeshape.Type{typeshape.Int, typeshape.Int, typeshape.Int}}},
		{"bound elsewhere", &apis.Method{Name: "Combine", Bind: &apis.Binding{Target: "Split"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cand, err := chain().Match(ctx(abs, op, provider(abs, tc.m), tc.m))
			if err != nil || cand != nil {
				t.Fatalf("Match: got (%v,%v), want (nil,nil)", cand, err)
			}
		})
	}
}

func TestMatch_ExplicitPinned(t *testing.T) {
	abs, op := calc()
	m := &apis.Method{Name: "handleSecond", Params: []typeshape.Type{typeshape.Int}, Pins: []int{1}, Bind: &apis.Binding{Target: "Combine"}}
	cand, err := chain().Match(ctx(abs, op, &apis.ProviderType{Type: typeshape.NewNominal("C"), Methods: []*apis.Method{m}}, m))
	if err != nil || cand == nil {
		t.Fatalf("Match: got (%v,%v)", cand, err)
	}
	if !slices.Equal(cand.ParamIndexes, []int{1}) {
		t.Fatalf("ParamIndexes = %v, want [1]", cand.ParamIndexes)
	}
}

func TestMatch_ExplicitUnreconcilable(t *testing.T) {
	abs, op := calc()
	m := &apis.Method{Name: "Combine", Params: []typeshape.Type{typeshape.Int, typeshape.Int, typeshape.Int}, Bind: &apis.Binding{}}
	_, err := chain().Match(ctx(abs, op, provider(abs, m), m))
	if !errors.Is(err, apis.ErrUnreconcilableRemap) {
		t.Fatalf("err = %v, want ErrUnreconcilableRemap", err)
	}
	var re *apis.ResolutionError
	if !errors.As(err, &re) || re.Abstract != "Calc" || re.Method != "Combine" || re.Operation != op.Signature() {
		t.Fatalf("ResolutionError = %+v", re)
	}
}

func TestMatch_Validity(t *testing.T) {
	abs, op := calc()
	valid := &apis.Method{Name: "isValid", Params: []typeshape.Type{typeshape.Number}, Pins: []int{1}, Result: typeshape.Bool}
	m := &apis.Method{Name: "Combine", Params: []typeshape.Type{typeshape.Number, typeshape.Number}, Validity: "isValid"}
	cand, err := chain().Match(ctx(abs, op, provider(abs, m, valid), m))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if cand.Validity != valid || !slices.Equal(cand.ValidityIndexes, []int{1}) {
		t.Fatalf("validity = %v %v", cand.Validity, cand.ValidityIndexes)
	}
}

func TestMatch_ValidityOverloadSelection(t *testing.T) {
	abs, op := calc()
	tooWide := &apis.Method{Name: "ok", Params: []typeshape.Type{typeshape.Int, typeshape.Int, typeshape.Int}, Result: typeshape.Bool}
	fits := &apis.Method{Name: "ok", Params: []typeshape.Type{typeshape.Number}, Result: typeshape.Bool}
	m := &apis.Method{Name: "Combine", Validity: "ok"}
	cand, err := chain().Match(ctx(abs, op, provider(abs, m, tooWide, fits), m))
	if err != nil || cand.Validity != fits {
		t.Fatalf("Match: got (%v,%v), want the fitting overload", cand, err)
	}
}

func TestMatch_MarkerErrors(t *testing.T) {
	abs, op := calc()
	cases := []struct {
		name    string
		methods []*apis.Method
		want    error
	}{
		{
			"unknown validity",
			[]*apis.Method{{Name: "Combine", Validity: "missing"}},
			apis.ErrUnknownValidity,
		},
		{
			"non boolean validity",
			[]*apis.Method{{Name: "Combine", Validity: "v"}, {Name: "v", Result: typeshape.Int}},
			apis.ErrValidityResult,
		},
		{
			"unknown priority",
			[]*apis.Method{{Name: "Combine", Priority: &apis.PriorityMarker{Method: "missing"}}},
			apis.ErrUnknownPriority,
		},
		{
			"non numeric priority",
			[]*apis.Method{{Name: "Combine", Priority: &apis.PriorityMarker{Method: "p"}}, {Name: "p", Result: typeshape.String}},
			apis.ErrPriorityResult,
		},
		{
			"unreconcilable marker",
			[]*apis.Method{{Name: "Combine", Validity: "v"}, {Name: "v", Params: []typeshape.Type{typeshape.Int, typeshape.Int, typeshape.Int}, Result: typeshape.Bool}},
			apis.ErrUnreconcilableRemap,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := provider(abs, tc.methods...)
			_, err := chain().Match(ctx(abs, op, p, tc.methods[0]))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMatch_Priority(t *testing.T) {
	abs, op := calc()
	pm := &apis.Method{Name: "rank", Params: []typeshape.Type{typeshape.Number}, Result: typeshape.Float64}
	m := &apis.Method{Name: "Combine", Priority: &apis.PriorityMarker{Value: 5, Method: "rank"}}
	cand, err := chain().Match(ctx(abs, op, provider(abs, m, pm), m))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if cand.PriorityValue != 5 || cand.PriorityMethod != pm || !slices.Equal(cand.PriorityIndexes, []int{0}) {
		t.Fatalf("priority = %d %v %v", cand.PriorityValue, cand.PriorityMethod, cand.PriorityIndexes)
	}

	constant := &apis.Method{Name: "Combine", Priority: &apis.PriorityMarker{Value: -3}}
	cand, err = chain().Match(ctx(abs, op, provider(abs, constant), constant))
	if err != nil || cand.PriorityValue != -3 || cand.PriorityMethod != nil {
		t.Fatalf("constant priority: got (%v,%v)", cand, err)
	}
}

func TestMatch_Widening(t *testing.T) {
	op := &apis.Operation{Name: "Scale", Params: []typeshape.Type{typeshape.Int32}}
	abs := &apis.AbstractType{Type: typeshape.NewNominal("Scaler", typeshape.AsInterface()), Operations: []*apis.Operation{op}}
	m := &apis.Method{Name: "Scale", Params: []typeshape.Type{typeshape.Int64}}
	p := provider(abs, m)

	if cand, _ := chain().Match(ctx(abs, op, p, m)); cand != nil {
		t.Fatalf("int64 candidate for int32 operation matched without widening")
	}
	c := ctx(abs, op, p, m)
	c.Config.AllowWidening = true
	if cand, err := chain().Match(c); err != nil || cand == nil {
		t.Fatalf("widening match: got (%v,%v)", cand, err)
	}
}

func TestMatch_GenericSubstitution(t *testing.T) {
	tv := typeshape.Var("T")
	box := typeshape.NewNominal("Box", typeshape.AsInterface(), typeshape.WithParams(tv))
	op := &apis.Operation{Name: "Put", Params: []typeshape.Type{tv}}
	abs := &apis.AbstractType{Type: box, Operations: []*apis.Operation{op}}

	put := &apis.Method{Name: "Put", Params: []typeshape.Type{typeshape.Int}}
	intBox := &apis.ProviderType{Type: typeshape.NewNominal("IntBox", typeshape.Implements(typeshape.Of(box, typeshape.Int))), Methods: []*apis.Method{put}}
	strBox := &apis.ProviderType{Type: typeshape.NewNominal("StrBox", typeshape.Implements(typeshape.Of(box, typeshape.String))), Methods: []*apis.Method{put}}

	m := chain()
	if cand, err := m.Match(ctx(abs, op, intBox, put)); err != nil || cand == nil {
		t.Fatalf("IntBox.Put: got (%v,%v), want candidate", cand, err)
	}
	if cand, err := m.Match(ctx(abs, op, strBox, put)); err != nil || cand != nil {
		t.Fatalf("StrBox.Put(int): got (%v,%v), want (nil,nil)", cand, err)
	}
}
