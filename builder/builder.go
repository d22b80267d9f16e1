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

package builder

import (
	"log/slog"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/evaluator"
	"dirpx.dev/implx/matcher"
	"dirpx.dev/implx/resolver"
)

// Option customizes the builder.
type Option func(*builder)

// WithLogger logs resolution summaries at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithStrategies replaces the default binding rules of built resolvers.
func WithStrategies(s ...apis.Strategy) Option {
	return func(b *builder) { b.strategies = s }
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder holds the logger and strategy chain shared by everything it builds.
type builder struct {
	log        *slog.Logger
	strategies []apis.Strategy
}

// BuildResolver builds and returns a new apis.Resolver for cfg. Resolvers
// keep no state worth migrating, so prev is ignored.
func (b *builder) BuildResolver(cfg apis.Config, _ apis.Resolver) apis.Resolver {
	s := b.strategies
	if len(s) == 0 {
		s = resolver.DefaultStrategies()
	}
	return &loggedResolver{
		next: resolver.New(cfg, matcher.New(s...)),
		log:  b.log,
	}
}

// BuildEvaluator builds and returns a new apis.Evaluator for cfg. Evaluators
// are stateless, so prev is ignored.
func (b *builder) BuildEvaluator(cfg apis.Config, _ apis.Evaluator) apis.Evaluator {
	return evaluator.New(cfg)
}

// loggedResolver reports every resolution outcome.
type loggedResolver struct {
	next apis.Resolver
	log  *slog.Logger
}

func (r *loggedResolver) Resolve(abstract *apis.AbstractType, providers ...*apis.ProviderType) (*apis.Implementation, error) {
	impl, err := r.next.Resolve(abstract, providers...)
	if err != nil {
		r.log.Debug("resolution failed", "providers", len(providers), "reason", err.Error())
		return nil, err
	}
	candidates := 0
	for _, e := range impl.Entries() {
		candidates += len(e.Candidates)
	}
	r.log.Debug("resolved",
		"abstract", abstract.Name(),
		"providers", len(impl.Providers()),
		"operations", len(impl.Entries()),
		"candidates", candidates,
	)
	return impl, nil
}

var _ apis.Builder = (*builder)(nil)
