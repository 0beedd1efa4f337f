// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
)

// RemoteBackend is the pull capability this extension provides to the host
// archive. Given the canonical locator of a product whose only known
// location is remote, Pull materializes a byte-for-byte copy at destination
// and returns the staged path.
//
// Implementations must be safe for concurrent calls on distinct locators;
// the host is responsible for not issuing two concurrent pulls for the same
// locator to the same destination.
type RemoteBackend interface {
	Pull(ctx context.Context, locator string, destination string) (string, error)
}

// PropertyType is the declared runtime type of a namespace property.
type PropertyType int

const (
	Text PropertyType = iota
	Integer
)

func (t PropertyType) String() string {
	switch t {
	case Text:
		return "text"
	case Integer:
		return "integer"
	default:
		return "unknown"
	}
}

// Property declares one field of a namespace schema.
type Property struct {
	Name     string
	Type     PropertyType
	Optional bool
	Index    bool
}

// Schema is the ordered, immutable set of properties a namespace indexes.
// Schema changes require external migration and are out of scope here.
type Schema []Property

// NamespaceDefinition bundles what the host archive's namespace-registration
// mechanism consumes: the property schema and the translation of extracted
// properties into archive core fields.
type NamespaceDefinition struct {
	Schema                Schema
	ComputeCoreProperties func(productType string, properties PropertySet) (CoreProperties, error)
}

// NamespaceRegistry is the host archive's namespace-registration hook.
type NamespaceRegistry interface {
	RegisterNamespace(name string, def NamespaceDefinition) error
}

// RemoteBackendRegistry is the host archive's remote-backend-registration
// hook, keyed by locator scheme.
type RemoteBackendRegistry interface {
	RegisterRemoteBackend(scheme string, backend RemoteBackend) error
}
