// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package mars

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

// Scheme is the locator scheme handled by this extension.
const Scheme = "ecmwfapi"

const (
	schemePrefix = Scheme + ":"

	// concatSeparator joins sub-requests whose results are concatenated
	// into one product file.
	concatSeparator = "&concatenate&"
)

// BuildLocator encodes one or more requests into the canonical remote
// locator for physicalName:
//
//	ecmwfapi:<filename>?k=v&k=v[&concatenate&k=v&...]
//
// Key order within each sub-request is fixed, so equal requests always
// produce equal locators. Every request must carry the six identity keys
// plus a level type and parameter list.
func BuildLocator(physicalName string, requests []Request) (types.RemoteLocator, error) {
	if physicalName == "" {
		return types.RemoteLocator{}, &ecmwferrors.SchemaViolationError{
			Property: "physical_name",
			Reason:   "empty",
		}
	}

	if len(requests) == 0 {
		return types.RemoteLocator{}, &ecmwferrors.SchemaViolationError{
			Property: "levtype",
			Reason:   "no requests to construct a locator from",
		}
	}

	var sb strings.Builder

	sb.WriteString(schemePrefix)
	sb.WriteString(physicalName)
	sb.WriteByte('?')

	for i, req := range requests {
		for _, key := range append(mandatoryKeys, "levtype", "param") {
			if req.get(key) == "" {
				return types.RemoteLocator{}, &ecmwferrors.SchemaViolationError{
					Property: key,
					Reason:   "missing from request",
				}
			}
		}

		if i > 0 {
			sb.WriteString(concatSeparator)
		}

		for j, kv := range req.pairs() {
			if j > 0 {
				sb.WriteByte('&')
			}

			sb.WriteString(kv[0])
			sb.WriteByte('=')
			sb.WriteString(kv[1])
		}
	}

	return types.RemoteLocator{URL: sb.String(), PhysicalName: physicalName}, nil
}

// ParseLocator decodes a remote locator back into its physical file name and
// sub-requests. It accepts exactly what BuildLocator produces plus any
// key order; unknown keys or missing identity keys are malformed.
func ParseLocator(locator string) (string, []Request, error) {
	malformed := func(format string, args ...any) error {
		return &ecmwferrors.MalformedLocatorError{
			Locator: locator,
			Reason:  fmt.Sprintf(format, args...),
		}
	}

	rest, ok := strings.CutPrefix(locator, schemePrefix)
	if !ok {
		return "", nil, malformed("missing %q scheme", schemePrefix)
	}

	filename, query, ok := strings.Cut(rest, "?")
	if !ok {
		return "", nil, malformed("missing query")
	}

	if filename == "" {
		return "", nil, malformed("missing filename")
	}

	if query == "" {
		return "", nil, malformed("empty query")
	}

	var requests []Request

	for _, sub := range strings.Split(query, concatSeparator) {
		req, err := parseSubRequest(sub, malformed)
		if err != nil {
			return "", nil, err
		}

		requests = append(requests, req)
	}

	return filename, requests, nil
}

func parseSubRequest(query string, malformed func(string, ...any) error) (Request, error) {
	fields := make(map[string]string)

	for _, pair := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" || value == "" {
			return Request{}, malformed("malformed key/value pair %q", pair)
		}

		if _, dup := fields[key]; dup {
			return Request{}, malformed("duplicate key %q", key)
		}

		fields[key] = value
	}

	var req Request

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &req,
		ErrorUnused: true,
	})
	if err != nil {
		return Request{}, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(fields); err != nil {
		return Request{}, malformed("undecodable request: %v", err)
	}

	for _, key := range mandatoryKeys {
		if fields[key] == "" {
			return Request{}, malformed("missing mandatory key %q", key)
		}
	}

	return req, nil
}
