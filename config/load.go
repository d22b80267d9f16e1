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
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dirpx.dev/implx/apis"
)

// ErrInvalidMaxDepth is returned when a file sets a negative max_depth.
var ErrInvalidMaxDepth = errors.New("implx(config): max_depth must not be negative")

// File is the YAML form of apis.Config. Absent keys keep their defaults.
//
//	max_depth: 16
//	allow_widening: true
//	reject_ambiguous: false
//	exclude_identity: true
type File struct {
	MaxDepth        *int  `yaml:"max_depth"`
	AllowWidening   *bool `yaml:"allow_widening"`
	RejectAmbiguous *bool `yaml:"reject_ambiguous"`
	ExcludeIdentity *bool `yaml:"exclude_identity"`
}

// Options converts the keys present in f into options.
func (f File) Options() []Option {
	var opts []Option
	if f.MaxDepth != nil {
		opts = append(opts, WithMaxDepth(*f.MaxDepth))
	}
	if f.AllowWidening != nil {
		opts = append(opts, WithAllowWidening(*f.AllowWidening))
	}
	if f.RejectAmbiguous != nil {
		opts = append(opts, WithRejectAmbiguous(*f.RejectAmbiguous))
	}
	if f.ExcludeIdentity != nil {
		opts = append(opts, WithExcludeIdentity(*f.ExcludeIdentity))
	}
	return opts
}

// Load reads a YAML configuration from r. Unknown keys are rejected. opts
// are applied after the file, so callers can pin values such as Universe.
// An empty document yields the defaults.
func Load(r io.Reader, opts ...Option) (apis.Config, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return apis.Config{}, fmt.Errorf("implx(config): decode: %w", err)
	}
	if f.MaxDepth != nil && *f.MaxDepth < 0 {
		return apis.Config{}, ErrInvalidMaxDepth
	}
	return NewConfig(append(f.Options(), opts...)...), nil
}

// LoadFile reads a YAML configuration from path.
func LoadFile(path string, opts ...Option) (apis.Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("implx(config): open: %w", err)
	}
	defer fh.Close()
	return Load(fh, opts...)
}
