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

// Package manifest declares implementation markers in YAML, for provider
// types that cannot (or should not) implement apis.Marked themselves.
//
//	providers:
//	  - type: demo.Special
//	    provides: [demo.Service]
//	    methods:
//	      Handle:
//	        validity: IsValid
//	        priority: 2
//	      HandleInt:
//	        implement: Handle
//	        pins: [1]
//
// Provider and abstract types are named the way typeshape.Universe names
// them ("pkg.Type" with the last import path element).
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/typeshape"
	uref "dirpx.dev/implx/utils/reflect"
)

var (
	// ErrDuplicateProvider is returned when a provider type is declared twice.
	ErrDuplicateProvider = errors.New("implx(manifest): duplicate provider type")
	// ErrEmptyType is returned when a provider entry has no type.
	ErrEmptyType = errors.New("implx(manifest): provider entry without type")
	// ErrInvalidPin is returned when a pin is below -1.
	ErrInvalidPin = errors.New("implx(manifest): pins must be -1 or a position")
)

// Manifest is a parsed marker file.
type Manifest struct {
	Providers []Provider `yaml:"providers"`

	index map[string]int
}

// Provider declares the markers of one provider type.
type Provider struct {
	Type     string            `yaml:"type"`
	Provides []string          `yaml:"provides,omitempty"`
	Methods  map[string]Method `yaml:"methods,omitempty"`
}

// Method declares the markers of one method.
type Method struct {
	Implement      string `yaml:"implement,omitempty"`
	Bound          bool   `yaml:"bound,omitempty"`
	Pins           []int  `yaml:"pins,omitempty"`
	Validity       string `yaml:"validity,omitempty"`
	Priority       int64  `yaml:"priority,omitempty"`
	PriorityMethod string `yaml:"priority_method,omitempty"`
}

// Parse reads and validates a manifest. An empty document is an empty manifest.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("implx(manifest): decode: %w", err)
	}
	if err := m.build(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseFile reads a manifest from path.
func ParseFile(path string) (*Manifest, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("implx(manifest): open: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

func (m *Manifest) build() error {
	m.index = make(map[string]int, len(m.Providers))
	for i, p := range m.Providers {
		if p.Type == "" {
			return ErrEmptyType
		}
		if _, dup := m.index[p.Type]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateProvider, p.Type)
		}
		for name, meth := range p.Methods {
			for _, pin := range meth.Pins {
				if pin < -1 {
					return fmt.Errorf("%w: %s.%s", ErrInvalidPin, p.Type, name)
				}
			}
		}
		m.index[p.Type] = i
	}
	return nil
}

// Markers returns the markers declared for the provider type named name.
func (m *Manifest) Markers(name string) (*apis.Markers, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	p := m.Providers[i]
	mk := &apis.Markers{
		ProviderOf: append([]string(nil), p.Provides...),
		Methods:    make(map[string]apis.MethodMarkers, len(p.Methods)),
	}
	for name, meth := range p.Methods {
		mk.Methods[name] = apis.MethodMarkers{
			Bound:          meth.Bound,
			Implement:      meth.Implement,
			Pins:           append([]int(nil), meth.Pins...),
			Validity:       meth.Validity,
			Priority:       meth.Priority,
			PriorityMethod: meth.PriorityMethod,
		}
	}
	return mk, true
}

// Describe derives provider types for the given Go types. A type listed in
// the manifest takes its markers from there; any other type falls back to
// its own markers, if it has any.
func (m *Manifest) Describe(u *typeshape.Universe, types ...reflect.Type) ([]*apis.ProviderType, error) {
	if u == nil {
		return nil, uref.ErrReflectNilUniverse
	}
	out := make([]*apis.ProviderType, 0, len(types))
	for _, t := range types {
		if t == nil {
			return nil, uref.ErrReflectNilType
		}
		mk, _ := m.Markers(u.Ensure(t).String())
		p, err := uref.DescribeProvider(u, t, mk)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
