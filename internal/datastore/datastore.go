// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package datastore provides key-value datastore providers for the pull
// journal: a badger-backed store for persistence across processes and an
// in-memory store for tests.
package datastore

import (
	"fmt"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/sync"
	badger "github.com/ipfs/go-ds-badger"
)

// Datastore is the interface consumed by the pull journal.
type Datastore interface {
	datastore.Batching
}

type options struct {
	fsPath string
}

// Option configures the datastore provider.
type Option func(*options)

// WithFsProvider stores data on the local filesystem under path.
func WithFsProvider(path string) Option {
	return func(o *options) {
		o.fsPath = path
	}
}

// New creates a datastore. Without options an in-memory store is returned.
func New(opts ...Option) (Datastore, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.fsPath == "" {
		return sync.MutexWrap(datastore.NewMapDatastore()), nil
	}

	ds, err := badger.NewDatastore(o.fsPath, &badger.DefaultOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger datastore at %s: %w", o.fsPath, err)
	}

	return ds, nil
}
