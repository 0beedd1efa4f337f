// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package grib

import (
	"sort"
	"strconv"
	"strings"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

// Extract folds a slice of decoded records into a single ecmwfmars property
// set. Identity fields (class, stream, type, expver, reference time, level
// type, grid) must agree across all records; value fields (step, parameter,
// level) are aggregated into sorted, de-duplicated lists.
func Extract(records []*Record) (types.PropertySet, error) {
	if len(records) == 0 {
		return nil, &ecmwferrors.EmptyProductError{}
	}

	first := records[0]

	steps := []int{first.Step}
	params := append([]string(nil), first.Parameters...)
	levels := append([]int(nil), first.Levels...)

	for _, rec := range records[1:] {
		if err := checkIdentity(first, rec); err != nil {
			return nil, err
		}

		steps = appendUniqueInt(steps, rec.Step)
		for _, p := range rec.Parameters {
			params = appendUnique(params, p)
		}

		for _, l := range rec.Levels {
			levels = appendUniqueInt(levels, l)
		}
	}

	sort.Ints(steps)
	sort.Ints(levels)

	props := types.PropertySet{
		"marsclass": first.Class,
		"stream":    first.Stream,
		"expver":    first.Expver,
		"type":      first.Type,
		"date":      first.Date(),
		"time":      first.Time(),
		"levtype":   first.LevelType,
		"param":     strings.Join(params, "/"),
	}

	if len(steps) == 1 {
		if steps[0] != 0 {
			props["step"] = steps[0]
		}
	} else {
		props["steps"] = joinInts(steps)
	}

	if len(levels) > 0 {
		props["levelist"] = joinInts(levels)
	}

	if first.Grid != nil {
		props["area"] = first.Grid.AreaString()
		if g := first.Grid.GridString(); g != "" {
			props["grid"] = g
		}
	}

	return props, nil
}

func checkIdentity(want, got *Record) error {
	mismatch := func(field, g, w string) error {
		return &ecmwferrors.InconsistentRecordsError{Field: field, Got: g, Want: w}
	}

	switch {
	case got.Class != want.Class:
		return mismatch("MARS class", got.Class, want.Class)
	case got.Stream != want.Stream:
		return mismatch("MARS stream", got.Stream, want.Stream)
	case got.Type != want.Type:
		return mismatch("MARS type", got.Type, want.Type)
	case got.Expver != want.Expver:
		return mismatch("MARS experiment version", got.Expver, want.Expver)
	case !got.ReferenceTime.Equal(want.ReferenceTime):
		return mismatch("reference time",
			got.ReferenceTime.Format("2006-01-02 15:04:05"),
			want.ReferenceTime.Format("2006-01-02 15:04:05"))
	case got.LevelType != want.LevelType:
		return mismatch("level type", got.LevelType, want.LevelType)
	}

	if want.Grid != nil && got.Grid != nil && *got.Grid != *want.Grid {
		return mismatch("grid", got.Grid.Type, want.Grid.Type)
	}

	return nil
}

// ExtractFile reads every message in path and folds them into one property
// set. A decode failure partway through the file fails the extraction; no
// partial property set is returned.
func ExtractFile(path string) (types.PropertySet, error) {
	records, err := ReadAll(path)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, &ecmwferrors.EmptyProductError{Path: path}
	}

	return Extract(records)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, "/")
}
