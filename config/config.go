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

package config

import (
	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/typeshape"
)

const (
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 32 is far deeper than any practical generic nesting.
	DefaultMaxDepth = typeshape.DefaultMaxDepth
	// DefaultAllowWidening represents the default for AllowWidening.
	// When false, numeric widening does not relate parameters at resolution time.
	DefaultAllowWidening = false
	// DefaultRejectAmbiguous represents the default for RejectAmbiguous.
	// When false, the earliest of equally ranked candidates wins.
	DefaultRejectAmbiguous = false
	// DefaultExcludeIdentity represents the default for ExcludeIdentity.
	// When true, Equal/Hash/String/GoString operations are not resolved.
	DefaultExcludeIdentity = true
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxDepth is valid.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxDepth:        DefaultMaxDepth,
		AllowWidening:   DefaultAllowWidening,
		RejectAmbiguous: DefaultRejectAmbiguous,
		ExcludeIdentity: DefaultExcludeIdentity,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}

// WithAllowWidening sets the AllowWidening option.
func WithAllowWidening(allow bool) Option {
	return func(c *apis.Config) {
		c.AllowWidening = allow
	}
}

// WithRejectAmbiguous sets the RejectAmbiguous option.
func WithRejectAmbiguous(reject bool) Option {
	return func(c *apis.Config) {
		c.RejectAmbiguous = reject
	}
}

// WithExcludeIdentity sets the ExcludeIdentity option.
func WithExcludeIdentity(exclude bool) Option {
	return func(c *apis.Config) {
		c.ExcludeIdentity = exclude
	}
}

// WithUniverse sets the Universe option.
func WithUniverse(u *typeshape.Universe) Option {
	return func(c *apis.Config) {
		c.Universe = u
	}
}
