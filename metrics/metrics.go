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

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/implx/apis"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "implx"

// Observer records dispatch outcomes as Prometheus metrics. It implements
// apis.Observer and is safe for concurrent use.
type Observer struct {
	dispatches *prometheus.CounterVec
	selections *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// Ensure Observer implements apis.Observer.
var _ apis.Observer = (*Observer)(nil)

// Option customizes an Observer.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets overrides the duration histogram buckets (seconds).
func WithBuckets(b ...float64) Option {
	return func(o *options) { o.buckets = b }
}

// New creates an Observer and registers its collectors with reg. A nil reg
// means prometheus.DefaultRegisterer. Collectors already registered under
// the same names are reused.
func New(reg prometheus.Registerer, opts ...Option) (*Observer, error) {
	o := options{
		namespace: DefaultNamespace,
		buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2, 1e-1},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      "dispatch_total",
		Help:      "Dispatches by abstract type, operation and outcome.",
	}, []string{"abstract", "operation", "outcome"})
	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      "selection_total",
		Help:      "Selected candidates by abstract type, operation and candidate.",
	}, []string{"abstract", "operation", "candidate"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: o.namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent evaluating and invoking a dispatch.",
		Buckets:   o.buckets,
	}, []string{"abstract", "operation"})

	var err error
	if dispatches, err = register(reg, dispatches); err != nil {
		return nil, err
	}
	if selections, err = register(reg, selections); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &Observer{dispatches: dispatches, selections: selections, duration: duration}, nil
}

// register registers c, or returns the collector already registered in its place.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveDispatch implements apis.Observer.
func (o *Observer) ObserveDispatch(ev apis.DispatchEvent) {
	o.dispatches.WithLabelValues(ev.Abstract, ev.Operation, ev.Outcome.String()).Inc()
	o.duration.WithLabelValues(ev.Abstract, ev.Operation).Observe(ev.Duration.Seconds())
	if ev.Outcome == apis.OutcomeSelected && ev.Candidate != "" {
		o.selections.WithLabelValues(ev.Abstract, ev.Operation, ev.Candidate).Inc()
	}
}
