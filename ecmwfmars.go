// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package ecmwfmars extends a product archive with ECMWF MARS support: it
// extracts the ecmwfmars property namespace from GRIB files, derives archive
// core properties and remote locators from those properties, and provides
// the ecmwfapi remote backend that retrieves products from the MARS service
// on demand.
package ecmwfmars

import (
	"fmt"

	"github.com/stcorp/muninn-ecmwfmars/backend"
	"github.com/stcorp/muninn-ecmwfmars/extension"
	"github.com/stcorp/muninn-ecmwfmars/grib"
	"github.com/stcorp/muninn-ecmwfmars/mars"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

// Scheme is the locator scheme of the remote backend.
const Scheme = mars.Scheme

// Namespace is the name of the property namespace this extension registers.
const Namespace = extension.Name

// ExtractGribMetadata reads every GRIB message in the file at path and folds
// them into one ecmwfmars property set.
func ExtractGribMetadata(path string) (types.PropertySet, error) {
	return grib.ExtractFile(path)
}

// GetRemoteURL composes the canonical remote locator for a product with the
// given physical name and properties.
func GetRemoteURL(physicalName string, properties types.PropertySet) (string, error) {
	req, err := mars.FromProperties(properties)
	if err != nil {
		return "", err
	}

	loc, err := mars.BuildLocator(physicalName, []mars.Request{req})
	if err != nil {
		return "", err
	}

	return loc.URL, nil
}

// GetCoreProperties derives the archive core properties for a product of
// productType from its ecmwfmars properties. When the properties carry a
// level type and parameter list, the remote locator is attached so the host
// can re-retrieve the product.
func GetCoreProperties(productType string, properties types.PropertySet) (types.CoreProperties, error) {
	core, err := extension.ComputeCoreProperties(productType, properties)
	if err != nil {
		return types.CoreProperties{}, err
	}

	if properties.Has("levtype") && properties.Has("param") {
		url, err := GetRemoteURL(core.PhysicalName, properties)
		if err != nil {
			return types.CoreProperties{}, err
		}

		core.RemoteURL = url
	}

	return core, nil
}

// Register wires the extension into a host archive: the ecmwfmars namespace
// into the namespace registry and the ecmwfapi backend into the remote
// backend registry.
func Register(nr types.NamespaceRegistry, br types.RemoteBackendRegistry, cfg backend.Config) error {
	if err := nr.RegisterNamespace(Namespace, extension.Definition()); err != nil {
		return fmt.Errorf("failed to register namespace %s: %w", Namespace, err)
	}

	b, err := backend.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create remote backend: %w", err)
	}

	if err := br.RegisterRemoteBackend(Scheme, b); err != nil {
		return fmt.Errorf("failed to register remote backend %s: %w", Scheme, err)
	}

	return nil
}
