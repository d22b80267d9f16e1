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

package implx

import (
	"errors"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/builder"
	"dirpx.dev/implx/config"
	"dirpx.dev/implx/typeshape"
)

// ---------------------- Helpers ----------------------

// resetWithBuilder replaces builder and config, unpins both layers and
// restores the defaults when the test ends.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config) {
	tb.Helper()
	SetAll(&cfg, b, nil, nil)
	tb.Cleanup(func() {
		def := config.DefaultConfig()
		SetAll(&def, builder.New(), nil, nil)
	})
}

// ---------------------- Test doubles (mocks) ----------------------

type mockResolver struct{ id string }

func (r *mockResolver) Resolve(*apis.AbstractType, ...*apis.ProviderType) (*apis.Implementation, error) {
	return nil, errors.New(r.id)
}

type mockEvaluator struct{ id string }

func (e *mockEvaluator) Evaluate(*apis.Implementation, *apis.Operation, apis.Pool, []any) (apis.Invocation, error) {
	return apis.Invocation{}, errors.New(e.id)
}

type mockBuilder struct {
	mu          sync.Mutex
	lastCfg     apis.Config
	lastPrevRes string
	lastPrevEv  string
	resCounter  int
	evalCounter int
	nilResolver bool
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, prev apis.Resolver) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevRes = mr.id
	}
	if b.nilResolver {
		return nil
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

func (b *mockBuilder) BuildEvaluator(cfg apis.Config, prev apis.Evaluator) apis.Evaluator {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if me, ok := prev.(*mockEvaluator); ok {
		b.lastPrevEv = me.id
	}
	b.evalCounter++
	return &mockEvaluator{id: "eval#" + strconv.Itoa(b.evalCounter)}
}

func (b *mockBuilder) counters() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resCounter, b.evalCounter
}

// ---------------------- Tests ----------------------

func TestDefaults(t *testing.T) {
	cfg := Config()
	if cfg.Universe == nil {
		t.Fatalf("default config must carry a universe")
	}
	if cfg.MaxDepth != config.DefaultMaxDepth || !cfg.ExcludeIdentity {
		t.Fatalf("unexpected default config: %+v", cfg)
	}
	if Builder() == nil || Resolver() == nil || Evaluator() == nil {
		t.Fatalf("default snapshot is incomplete")
	}
	if IsResolverPinned() || IsEvaluatorPinned() {
		t.Fatalf("default layers must not be pinned")
	}
}

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	res1, ev1 := Resolver(), Evaluator()
	SetConfig(config.NewConfig(config.WithRejectAmbiguous(true)))

	if Resolver() == res1 {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}
	if Evaluator() == ev1 {
		t.Fatalf("evaluator was not rebuilt on SetConfig (unpinned)")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.lastCfg.RejectAmbiguous {
		t.Fatalf("builder received wrong cfg: %+v", b.lastCfg)
	}
	if b.lastCfg.Universe != universe {
		t.Fatalf("builder must receive the process universe when none is set")
	}
	if b.lastPrevRes != res1.(*mockResolver).id || b.lastPrevEv != ev1.(*mockEvaluator).id {
		t.Fatalf("builder did not receive previous layers: %q %q", b.lastPrevRes, b.lastPrevEv)
	}
}

func TestSetConfig_KeepsCustomUniverse(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	u := typeshape.NewUniverse()
	SetConfig(config.NewConfig(config.WithUniverse(u)))
	if Universe() != u {
		t.Fatalf("custom universe was replaced")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	custom := &mockResolver{id: "custom"}
	SetResolver(custom)
	if !IsResolverPinned() {
		t.Fatalf("SetResolver must pin the resolver")
	}
	evBefore := Evaluator()

	SetConfig(config.NewConfig(config.WithAllowWidening(true)))

	if Resolver() != custom {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Evaluator() == evBefore {
		t.Fatalf("evaluator was not rebuilt on SetConfig when resolver is pinned")
	}
}

func TestSetEvaluator_PinsEvaluator(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	custom := &mockEvaluator{id: "custom"}
	SetEvaluator(custom)
	resBefore := Resolver()

	SetBuilder(&mockBuilder{})

	if Evaluator() != custom {
		t.Fatalf("pinned evaluator was rebuilt unexpectedly")
	}
	if Resolver() == resBefore {
		t.Fatalf("resolver was not rebuilt by the new builder")
	}
	if _, err := Dispatch(nil, nil, nil); err == nil || err.Error() != "custom" {
		t.Fatalf("Dispatch must use the pinned evaluator, got %v", err)
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, config.DefaultConfig())
	PinResolver()
	resBefore := Resolver()

	b := &mockBuilder{}
	SetBuilder(b)

	if Builder() != b {
		t.Fatalf("builder was not replaced")
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	if r, e := b.counters(); r != 0 || e != 1 {
		t.Fatalf("new builder counters = (%d,%d), want (0,1)", r, e)
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	PinResolver()
	PinEvaluator()
	res1, ev1 := Resolver(), Evaluator()
	SetConfig(config.NewConfig(config.WithMaxDepth(4)))
	if Resolver() != res1 || Evaluator() != ev1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinResolver()
	UnpinEvaluator()
	SetConfig(config.NewConfig(config.WithMaxDepth(6)))
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
	if Evaluator() == ev1 {
		t.Fatalf("evaluator should rebuild after UnpinEvaluator+SetConfig")
	}
}

func TestSetAll_PinsGivenLayers(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	res := &mockResolver{id: "given"}
	SetAll(nil, nil, res, nil)
	if Resolver() != res || !IsResolverPinned() {
		t.Fatalf("SetAll must install and pin a given resolver")
	}
	if IsEvaluatorPinned() {
		t.Fatalf("SetAll must unpin a rebuilt evaluator")
	}
	if _, err := Resolve(nil); err == nil || err.Error() != "given" {
		t.Fatalf("Resolve must use the installed resolver, got %v", err)
	}
}

func TestRebuild_NilResolverPanics(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())
	before := Resolver()

	b.mu.Lock()
	b.nilResolver = true
	b.mu.Unlock()

	defer func() {
		if r := recover(); r != ErrNilResolver {
			t.Fatalf("recover() = %v, want ErrNilResolver", r)
		}
		if Resolver() != before {
			t.Fatalf("a failed rebuild must not publish a snapshot")
		}
	}()
	SetConfig(config.DefaultConfig())
}

func TestResolve_Concurrent_With_SetConfig(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig())

	greet := &apis.Operation{Name: "Greet", Params: []typeshape.Type{typeshape.String}, Result: typeshape.String}
	abs := &apis.AbstractType{Type: typeshape.NewNominal("Greeter", typeshape.AsInterface()), Operations: []*apis.Operation{greet}}
	prov := &apis.ProviderType{
		Type:       typeshape.NewNominal("english"),
		ProviderOf: []*typeshape.Nominal{abs.Type},
		Methods: []*apis.Method{{
			Name:   "Greet",
			Params: []typeshape.Type{typeshape.String},
			Result: typeshape.String,
			Func:   func(_ any, args []any) (any, error) { return "hello " + args[0].(string), nil },
		}},
	}
	pool := apis.PoolFunc(func(n *typeshape.Nominal) []any {
		if n == prov.Type {
			return []any{struct{}{}}
		}
		return nil
	})

	done := make(chan struct{})
	var wg sync.WaitGroup
	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				impl, err := Resolve(abs, prov)
				if err != nil {
					t.Errorf("Resolve: %v", err)
					return
				}
				out, err := Dispatch(impl, greet, pool, "ann")
				if err != nil || out != "hello ann" {
					t.Errorf("Dispatch = (%v,%v)", out, err)
					return
				}
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(
				config.WithAllowWidening(i%2 == 0),
				config.WithMaxDepth(4+i%5),
			))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}
