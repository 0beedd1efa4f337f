// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"time"
)

// PropertySet is a flat mapping from namespace property name to a typed
// value. Keys are fixed by the namespace schema; values must satisfy the
// schema's declared type and optionality before the archive core accepts the
// set.
type PropertySet map[string]any

// Text returns the string value for name, if present and a string.
func (p PropertySet) Text(name string) (string, bool) {
	v, ok := p[name].(string)

	return v, ok
}

// Int returns the integer value for name, if present and an int.
func (p PropertySet) Int(name string) (int, bool) {
	v, ok := p[name].(int)

	return v, ok
}

// Has reports whether name is present in the set.
func (p PropertySet) Has(name string) bool {
	_, ok := p[name]

	return ok
}

// Clone returns a shallow copy of the set.
func (p PropertySet) Clone() PropertySet {
	out := make(PropertySet, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// CoreProperties is the archive-core-level subset derived from a validated
// PropertySet. Identity is logical (the composed product name), never a
// generated UUID, so the derivation stays deterministic.
type CoreProperties struct {
	ProductType   string    `json:"product_type"`
	ProductName   string    `json:"product_name"`
	PhysicalName  string    `json:"physical_name"`
	ValidityStart time.Time `json:"validity_start"`
	ValidityStop  time.Time `json:"validity_stop"`
	CreationDate  time.Time `json:"creation_date"`
	RemoteURL     string    `json:"remote_url,omitempty"`
}

// RemoteLocator is an opaque, round-trippable reference to a remote product:
// the canonical string form plus the physical file name it stages to.
type RemoteLocator struct {
	URL          string `json:"url"`
	PhysicalName string `json:"physical_name"`
}

func (l RemoteLocator) String() string { return l.URL }
