// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package grib

import (
	"fmt"
	"time"
)

// GridDescriptor describes the horizontal grid of a message, when the
// message carries one.
type GridDescriptor struct {
	// Type is the grid template name, e.g. "regular_ll" or "regular_gg".
	Type string
	// Ni, Nj are the number of points along a parallel and a meridian.
	Ni int
	Nj int
	// Area is the bounding box in degrees, MARS order: north/west/south/east.
	Area [4]float64
	// Di, Dj are the grid increments in degrees. Zero when not encoded.
	Di float64
	Dj float64
}

// AreaString renders the bounding box in MARS area notation.
func (g *GridDescriptor) AreaString() string {
	return fmt.Sprintf("%g/%g/%g/%g", g.Area[0], g.Area[1], g.Area[2], g.Area[3])
}

// GridString renders the increments in MARS grid notation. Empty when the
// message did not encode increments.
func (g *GridDescriptor) GridString() string {
	if g.Di == 0 && g.Dj == 0 {
		return ""
	}

	return fmt.Sprintf("%g/%g", g.Di, g.Dj)
}

// Record is one decoded GRIB message. It is ephemeral: it exists only while
// extraction is running and is never stored.
type Record struct {
	Edition int

	// MARS product identity, decoded from the ECMWF local-use section and
	// mapped through the MARS code tables.
	Class  string
	Type   string
	Stream string
	Expver string

	// ReferenceTime is the issue (base) time of the model run.
	ReferenceTime time.Time

	// Step is the forecast step in hours. Zero for analyses.
	Step int

	// Parameters holds the parameter identifiers of all fields in the
	// message ("param.table" for edition 1, "discipline.category.number"
	// for edition 2).
	Parameters []string

	// LevelType is the MARS level type (sfc, pl, ml, pt, pv, dp).
	LevelType string

	// Levels holds the level values of all fields in the message. Empty
	// for surface fields.
	Levels []int

	// Grid is the horizontal grid descriptor, nil when the message has
	// no grid description section.
	Grid *GridDescriptor
}

// Date renders the reference date the way MARS requests expect it.
func (r *Record) Date() string {
	return r.ReferenceTime.Format("2006-01-02")
}

// Time renders the reference time of day the way MARS requests expect it.
func (r *Record) Time() string {
	return r.ReferenceTime.Format("15:04:05")
}
