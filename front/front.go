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

package front

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/evaluator"
)

var (
	// ErrUnsupportedOperation is returned when no valid implementation exists
	// for a call. It is always joined with apis.ErrNotFound.
	ErrUnsupportedOperation = errors.New("implx(front): unsupported operation")
	// ErrResultType is returned by typed adapters when the winner's result
	// does not have the adapter's result type.
	ErrResultType = errors.New("implx(front): unexpected result type")
)

// Front exposes the call surface of one resolved abstract type. Every call
// is evaluated against the live pool and the winner is invoked exactly once
// with the call arguments. A Front is safe for concurrent use.
type Front struct {
	impl *apis.Implementation
	pool apis.Pool
	eval apis.Evaluator
	obs  apis.Observer
	log  *slog.Logger
}

// Option customizes a Front.
type Option func(*Front)

// WithObserver reports every dispatch to obs.
func WithObserver(obs apis.Observer) Option {
	return func(f *Front) { f.obs = obs }
}

// WithLogger logs dispatches at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(f *Front) {
		if l != nil {
			f.log = l
		}
	}
}

// New builds a Front. A nil eval means evaluator.New with a zero config.
func New(impl *apis.Implementation, pool apis.Pool, eval apis.Evaluator, opts ...Option) *Front {
	if eval == nil {
		eval = evaluator.New(apis.Config{})
	}
	f := &Front{
		impl: impl,
		pool: pool,
		eval: eval,
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Implementation returns the resolved implementation behind f.
func (f *Front) Implementation() *apis.Implementation { return f.impl }

// Call dispatches the operation identified by id (signature, name or alias).
func (f *Front) Call(id string, args ...any) (any, error) {
	op, ok := f.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w %s: %w", ErrUnsupportedOperation, id, apis.ErrNotFound)
	}
	return f.CallOperation(op, args...)
}

// CallOperation dispatches op. Failures of the selected callable are
// returned unmodified.
func (f *Front) CallOperation(op *apis.Operation, args ...any) (any, error) {
	if op == nil {
		return nil, fmt.Errorf("%w: nil operation: %w", ErrUnsupportedOperation, apis.ErrNotFound)
	}
	start := time.Now()
	inv, err := f.eval.Evaluate(f.impl, op, f.pool, args)
	if err != nil {
		if errors.Is(err, apis.ErrNotFound) {
			f.report(op, "", apis.OutcomeNotFound, err, start)
			return nil, fmt.Errorf("%w %s: %w", ErrUnsupportedOperation, op.Signature(), err)
		}
		f.report(op, "", apis.OutcomeFailed, err, start)
		return nil, err
	}

	res, err := inv.Invoke()
	outcome := apis.OutcomeSelected
	if err != nil {
		outcome = apis.OutcomeFailed
	}
	f.report(op, inv.Candidate.String(), outcome, err, start)
	return res, err
}

func (f *Front) lookup(id string) (*apis.Operation, bool) {
	if f.impl == nil {
		return nil, false
	}
	return f.impl.Operation(id)
}

func (f *Front) report(op *apis.Operation, candidate string, outcome apis.Outcome, err error, start time.Time) {
	ev := apis.DispatchEvent{
		Operation: op.Signature(),
		Candidate: candidate,
		Outcome:   outcome,
		Err:       err,
		Duration:  time.Since(start),
	}
	if f.impl != nil {
		ev.Abstract = f.impl.Abstract().Name()
	}
	if f.obs != nil {
		f.obs.ObserveDispatch(ev)
	}
	if err != nil {
		f.log.Debug("dispatch failed", "abstract", ev.Abstract, "operation", ev.Operation, "outcome", outcome.String(), "reason", err.Error())
		return
	}
	f.log.Debug("dispatch", "abstract", ev.Abstract, "operation", ev.Operation, "candidate", candidate, "duration", ev.Duration)
}
