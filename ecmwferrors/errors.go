// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package ecmwferrors defines the typed error taxonomy shared by the GRIB
// extraction pipeline and the MARS remote backend. Every failure in the core
// paths is returned as one of these types; nothing is logged-and-ignored.
package ecmwferrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FormatError reports an unreadable or truncated GRIB byte stream. Records
// fully decoded before the failure have already been yielded by the reader;
// the caller decides whether partial metadata is acceptable.
type FormatError struct {
	Path   string
	Offset int64
	Err    error
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("grib: %s: invalid format at offset %d: %v", e.Path, e.Offset, e.Err)
	}

	return fmt.Sprintf("grib: invalid format at offset %d: %v", e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// EmptyProductError reports a record sequence with no messages at all.
type EmptyProductError struct {
	Path string
}

func (e *EmptyProductError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("grib: %s: product contains no messages", e.Path)
	}

	return "grib: product contains no messages"
}

// InconsistentRecordsError reports messages that disagree on a
// product-identity field. Disagreement is a hard error, never a best-effort
// merge.
type InconsistentRecordsError struct {
	Field string
	Got   string
	Want  string
}

func (e *InconsistentRecordsError) Error() string {
	return fmt.Sprintf("grib: not all messages share the same %s (%s) (%s)", e.Field, e.Got, e.Want)
}

// SchemaViolationError reports a property set that violates the namespace
// contract: a mandatory property is absent or a value has the wrong runtime
// type.
type SchemaViolationError struct {
	Property string
	Reason   string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("namespace: property %q: %s", e.Property, e.Reason)
}

// MalformedLocatorError reports a locator string not produced by this
// builder.
type MalformedLocatorError struct {
	Locator string
	Reason  string
}

func (e *MalformedLocatorError) Error() string {
	return fmt.Sprintf("locator %q: %s", e.Locator, e.Reason)
}

// DataUnavailableError reports an explicit request rejection by the MARS
// service (invalid parameter combination, no data for the period). It is
// never retried.
type DataUnavailableError struct {
	Reason string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("mars: data unavailable: %s", e.Reason)
}

// RetrievalFailedError reports an exhausted transient-error budget. It
// carries the last underlying cause.
type RetrievalFailedError struct {
	Attempts int
	Err      error
}

func (e *RetrievalFailedError) Error() string {
	return fmt.Sprintf("mars: retrieval failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetrievalFailedError) Unwrap() error { return e.Err }

// TimeoutError reports a caller deadline that elapsed while polling or
// downloading. The remote job has been aborted best-effort and temporary
// files removed before this is returned.
type TimeoutError struct {
	Elapsed time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("mars: deadline exceeded after %s: %v", e.Elapsed, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsRejection reports whether err is an explicit service rejection, which
// must surface immediately without consuming retries.
func IsRejection(err error) bool {
	var due *DataUnavailableError

	return errors.As(err, &due)
}

// IsTransient reports whether err is worth retrying. Rejections, malformed
// locators, schema violations and dead caller contexts are permanent;
// everything reaching the backend's retry loop that is not explicitly
// permanent is treated as transient so flaky networks get their budget.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if IsRejection(err) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var (
		mle *MalformedLocatorError
		sve *SchemaViolationError
	)
	if errors.As(err, &mle) || errors.As(err, &sve) {
		return false
	}

	return true
}
