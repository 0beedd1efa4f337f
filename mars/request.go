// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package mars builds MARS retrieval requests from ecmwfmars properties,
// encodes them as remote locators and talks to the MARS web service.
package mars

import (
	"strconv"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

// Request is one MARS retrieval request. The string fields mirror the MARS
// request language; list-valued fields (param, levelist, step) hold
// slash-separated values.
type Request struct {
	Class    string `json:"class"              mapstructure:"class"`
	Stream   string `json:"stream"             mapstructure:"stream"`
	Expver   string `json:"expver"             mapstructure:"expver"`
	Type     string `json:"type"               mapstructure:"type"`
	Date     string `json:"date"               mapstructure:"date"`
	Time     string `json:"time"               mapstructure:"time"`
	Step     string `json:"step,omitempty"     mapstructure:"step"`
	Resol    string `json:"resol,omitempty"    mapstructure:"resol"`
	Grid     string `json:"grid,omitempty"     mapstructure:"grid"`
	Area     string `json:"area,omitempty"     mapstructure:"area"`
	Packing  string `json:"packing,omitempty"  mapstructure:"packing"`
	Levtype  string `json:"levtype"            mapstructure:"levtype"`
	Param    string `json:"param"              mapstructure:"param"`
	Levelist string `json:"levelist,omitempty" mapstructure:"levelist"`
}

// mandatoryKeys are the request keys every locator sub-request must carry.
var mandatoryKeys = []string{"class", "stream", "expver", "type", "date", "time"}

// pairs returns the request as key/value pairs in canonical locator order.
// Optional empty fields are omitted.
func (r Request) pairs() [][2]string {
	all := [][2]string{
		{"class", r.Class},
		{"stream", r.Stream},
		{"expver", r.Expver},
		{"type", r.Type},
		{"date", r.Date},
		{"time", r.Time},
		{"step", r.Step},
		{"resol", r.Resol},
		{"grid", r.Grid},
		{"area", r.Area},
		{"packing", r.Packing},
		{"levtype", r.Levtype},
		{"param", r.Param},
		{"levelist", r.Levelist},
	}

	out := all[:0]

	for _, kv := range all {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}

	return out
}

func (r Request) get(key string) string {
	for _, kv := range r.pairs() {
		if kv[0] == key {
			return kv[1]
		}
	}

	return ""
}

// FromProperties derives the retrieval request for a validated ecmwfmars
// property set. The identity properties and a level type with at least one
// parameter must be present; anything less cannot name a retrievable
// product.
func FromProperties(props types.PropertySet) (Request, error) {
	var req Request

	mandatory := []struct {
		name string
		dst  *string
	}{
		{"marsclass", &req.Class},
		{"stream", &req.Stream},
		{"expver", &req.Expver},
		{"type", &req.Type},
		{"date", &req.Date},
		{"time", &req.Time},
		{"levtype", &req.Levtype},
		{"param", &req.Param},
	}

	for _, m := range mandatory {
		v, ok := props.Text(m.name)
		if !ok || v == "" {
			return Request{}, &ecmwferrors.SchemaViolationError{
				Property: m.name,
				Reason:   "missing or not a text value",
			}
		}

		*m.dst = v
	}

	if step, ok := props.Int("step"); ok {
		req.Step = strconv.Itoa(step)
	} else if steps, ok := props.Text("steps"); ok {
		req.Step = steps
	}

	req.Resol, _ = props.Text("resol")
	req.Grid, _ = props.Text("grid")
	req.Area, _ = props.Text("area")
	req.Levelist, _ = props.Text("levelist")

	return req, nil
}
