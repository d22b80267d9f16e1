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

package typeshape

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Substitution maps type parameters to the shapes bound to them somewhere
// in a type's super type lattice. A parameter that nothing binds maps to
// itself.
type Substitution map[*Variable]Type

// Lookup returns the shape bound to v, or v itself when unbound.
func (s Substitution) Lookup(v *Variable) Type {
	if t, ok := s[v]; ok && t != nil {
		return t
	}
	return v
}

// Substitutions computes the substitution of t by walking its interfaces,
// its super type chain and its enclosing types. For
//
//	A[T]; B extends A[int]; C[U] extends A[U]; D extends C[int]
//
// Substitutions(D) yields T -> U, U -> int, and FinalType(T) is int.
func Substitutions(t Type) Substitution {
	s := make(Substitution)
	collect(t, s, make(map[*Nominal]bool))
	return s
}

func collect(t Type, s Substitution, seen map[*Nominal]bool) {
	switch x := t.(type) {
	case *Nominal:
		if x == nil || seen[x] {
			return
		}
		seen[x] = true
		for _, p := range x.Params {
			if _, ok := s[p]; !ok {
				s[p] = p
			}
		}
		for _, it := range x.Interfaces {
			collect(it, s, seen)
		}
		if x.Super != nil {
			collect(x.Super, s, seen)
		}
		if x.Owner != nil {
			collect(x.Owner, s, seen)
		}
	case *Parameterized:
		if x == nil || x.Raw == nil {
			return
		}
		for i, p := range x.Raw.Params {
			if i < len(x.Args) && x.Args[i] != nil {
				s[p] = x.Args[i]
			}
		}
		if x.Owner != nil {
			collect(x.Owner, s, seen)
		}
		collect(x.Raw, s, seen)
	}
}

// FinalType follows v through s until it reaches a non-variable shape, an
// unbound variable, or a cycle.
func FinalType(v *Variable, s Substitution) Type {
	var t Type = v
	if s == nil {
		return t
	}
	seen := make(map[*Variable]bool)
	for {
		cur, ok := t.(*Variable)
		if !ok || seen[cur] {
			return t
		}
		seen[cur] = true
		next, ok := s[cur]
		if !ok || next == nil {
			return t
		}
		t = next
	}
}

// Cache memoizes substitutions per nominal. Returned maps are shared and
// must be treated as read-only.
type Cache struct {
	m sync.Map // *Nominal -> Substitution
	g singleflight.Group
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Substitutions returns the memoized substitution of n.
func (c *Cache) Substitutions(n *Nominal) Substitution {
	if n == nil {
		return Substitution{}
	}
	if v, ok := c.m.Load(n); ok {
		return v.(Substitution)
	}
	v, _, _ := c.g.Do(fmt.Sprintf("%p", n), func() (any, error) {
		if v, ok := c.m.Load(n); ok {
			return v, nil
		}
		s := Substitutions(n)
		c.m.Store(n, s)
		return s, nil
	})
	return v.(Substitution)
}
