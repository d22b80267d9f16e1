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
	"errors"
	"strings"
	"testing"

	"dirpx.dev/implx/typeshape"
)

func fixture() (*AbstractType, []*ProviderType) {
	abs := &AbstractType{
		Type: typeshape.NewNominal("Calc", typeshape.InPackage("demo"), typeshape.AsInterface()),
		Operations: []*Operation{
			{Name: "Plus", Alias: "add", Params: []typeshape.Type{typeshape.Int, typeshape.Int}, Result: typeshape.Int},
			{Name: "Neg", Params: []typeshape.Type{typeshape.Int}, Result: typeshape.Int},
		},
	}
	p1 := &ProviderType{Type: typeshape.NewNominal("P1"), Methods: []*Method{{Name: "Plus"}}}
	p2 := &ProviderType{Type: typeshape.NewNominal("P2"), Methods: []*Method{{Name: "Plus"}, {Name: "Neg"}}}
	return abs, []*ProviderType{p1, p2}
}

func TestOperationIdentity(t *testing.T) {
	abs, _ := fixture()
	op := abs.Operations[0]

	if got, want := op.Signature(), "Plus(int, int)"; got != want {
		t.Fatalf("Signature() = %q, want %q", got, want)
	}
	if op.Arity() != 2 {
		t.Fatalf("Arity() = %d, want 2", op.Arity())
	}
	for _, id := range []string{"Plus", "add", "Plus(int, int)"} {
		if !op.Identifies(id) {
			t.Fatalf("Identifies(%q) = false, want true", id)
		}
	}
	for _, id := range []string{"plus", "", "Plus(int)"} {
		if op.Identifies(id) {
			t.Fatalf("Identifies(%q) = true, want false", id)
		}
	}
	if got := abs.Lookup("Neg"); len(got) != 1 || got[0] != abs.Operations[1] {
		t.Fatalf("Lookup(Neg) = %v", got)
	}
	if abs.Name() != "demo.Calc" {
		t.Fatalf("Name() = %q", abs.Name())
	}
}

func TestMethodPin(t *testing.T) {
	m := &Method{Params: []typeshape.Type{typeshape.Int, typeshape.Int}, Pins: []int{-1, 3}}
	if _, ok := m.Pin(0); ok {
		t.Fatalf("Pin(0) should be unpinned")
	}
	if p, ok := m.Pin(1); !ok || p != 3 {
		t.Fatalf("Pin(1) = %d, %v; want 3, true", p, ok)
	}
	if _, ok := m.Pin(7); ok {
		t.Fatalf("Pin(7) out of range should be unpinned")
	}
}

func TestProviderLookup(t *testing.T) {
	abs, ps := fixture()
	ps[0].ProviderOf = []*typeshape.Nominal{abs.Type}
	if !ps[0].Provides(abs.Type) || ps[1].Provides(abs.Type) {
		t.Fatalf("Provides mismatch")
	}
	if got := ps[1].MethodsNamed("Neg"); len(got) != 1 {
		t.Fatalf("MethodsNamed(Neg) = %d methods, want 1", len(got))
	}
}

func TestImplementationLookupAndEqual(t *testing.T) {
	abs, ps := fixture()
	plus, neg := abs.Operations[0], abs.Operations[1]
	c1 := &CandidateMethod{Provider: ps[0], Method: ps[0].Methods[0], ParamIndexes: []int{0, 1}}
	c2 := &CandidateMethod{Provider: ps[1], Method: ps[1].Methods[0], ParamIndexes: []int{0, 1}}
	c3 := &CandidateMethod{Provider: ps[1], Method: ps[1].Methods[1], ParamIndexes: []int{0}}

	a := NewImplementation(abs, ps, []ImplementEntry{
		{Operation: plus, Candidates: []*CandidateMethod{c1, c2}},
		{Operation: neg, Candidates: []*CandidateMethod{c3}},
	})
	b := NewImplementation(abs, []*ProviderType{ps[1], ps[0]}, []ImplementEntry{
		{Operation: plus, Candidates: []*CandidateMethod{c2, c1}},
		{Operation: neg, Candidates: []*CandidateMethod{c3}},
	})
	if !a.Equal(b) || !b.Equal(a) {
		t.Fatalf("permuted implementations should be equal")
	}

	c := NewImplementation(abs, ps, []ImplementEntry{
		{Operation: plus, Candidates: []*CandidateMethod{c1}},
		{Operation: neg, Candidates: []*CandidateMethod{c3}},
	})
	if a.Equal(c) {
		t.Fatalf("implementations with different candidates should differ")
	}
	if a.Equal(nil) {
		t.Fatalf("Equal(nil) should be false")
	}

	if op, ok := a.Operation("add"); !ok || op != plus {
		t.Fatalf("Operation(add) = %v, %v", op, ok)
	}
	if op, ok := a.Operation("Neg(int)"); !ok || op != neg {
		t.Fatalf("Operation(Neg(int)) = %v, %v", op, ok)
	}
	if _, ok := a.Operation("Missing"); ok {
		t.Fatalf("Operation(Missing) should fail")
	}
	if got := a.Candidates(plus); len(got) != 2 || got[0] != c1 {
		t.Fatalf("Candidates(plus) = %v", got)
	}
	if got := a.Candidates(&Operation{Name: "Plus"}); got != nil {
		t.Fatalf("Candidates(foreign) = %v, want nil", got)
	}
	if !strings.Contains(a.String(), "Plus(int, int) -> [P1.Plus, P2.Plus]") {
		t.Fatalf("String() = %q", a.String())
	}
}

func TestImplementationIsolatedFromInputs(t *testing.T) {
	abs, ps := fixture()
	c1 := &CandidateMethod{Provider: ps[0], Method: ps[0].Methods[0]}
	cands := []*CandidateMethod{c1}
	impl := NewImplementation(abs, ps, []ImplementEntry{{Operation: abs.Operations[0], Candidates: cands}})

	cands[0] = nil
	ps[0] = nil
	if impl.Candidates(abs.Operations[0])[0] != c1 {
		t.Fatalf("candidates aliased caller slice")
	}
	if impl.Providers()[0] == nil {
		t.Fatalf("providers aliased caller slice")
	}
}

func TestResolutionError(t *testing.T) {
	err := error(&ResolutionError{Abstract: "demo.Calc", Provider: "P1", Method: "Plus", Operation: "Plus(int, int)", Err: ErrUnknownValidity})
	if !errors.Is(err, ErrUnknownValidity) {
		t.Fatalf("errors.Is should match the sentinel")
	}
	var re *ResolutionError
	if !errors.As(err, &re) || re.Method != "Plus" {
		t.Fatalf("errors.As failed: %v", err)
	}
	want := "implx: resolve demo.Calc: P1.Plus for Plus(int, int): implx: unknown validity method"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestInvocationInvokePassesArgsVerbatim(t *testing.T) {
	var seen []any
	m := &Method{Name: "Plus", Func: func(recv any, args []any) (any, error) {
		seen = args
		return recv, nil
	}}
	inv := Invocation{Candidate: &CandidateMethod{Method: m}, Instance: "recv", Args: []any{1, 2, 3}}
	got, err := inv.Invoke()
	if err != nil || got != "recv" {
		t.Fatalf("Invoke() = %v, %v", got, err)
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Fatalf("args = %v, want [1 2 3]", seen)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{OutcomeSelected: "selected", OutcomeNotFound: "not_found", OutcomeFailed: "failed", Outcome(9): "unknown"}
	for o, want := range cases {
		if o.String() != want {
			t.Fatalf("Outcome(%d).String() = %q, want %q", o, o.String(), want)
		}
	}
}
