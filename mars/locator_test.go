// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package mars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

func forecastRequest() Request {
	return Request{
		Class:   "od",
		Stream:  "oper",
		Expver:  "0001",
		Type:    "fc",
		Date:    "2024-03-01",
		Time:    "12:00:00",
		Step:    "6",
		Levtype: "sfc",
		Param:   "167.128",
	}
}

func TestBuildLocator(t *testing.T) {
	loc, err := BuildLocator("product.grib", []Request{forecastRequest()})
	require.NoError(t, err)

	assert.Equal(t, "ecmwfapi:product.grib?"+
		"class=od&stream=oper&expver=0001&type=fc&date=2024-03-01&time=12:00:00&"+
		"step=6&levtype=sfc&param=167.128", loc.URL)
	assert.Equal(t, "product.grib", loc.PhysicalName)
}

func TestBuildLocator_Concatenated(t *testing.T) {
	surface := forecastRequest()

	pressure := forecastRequest()
	pressure.Levtype = "pl"
	pressure.Param = "130.128"
	pressure.Levelist = "500/850"

	loc, err := BuildLocator("product.grib", []Request{surface, pressure})
	require.NoError(t, err)
	assert.Contains(t, loc.URL, "&concatenate&")

	filename, requests, err := ParseLocator(loc.URL)
	require.NoError(t, err)
	assert.Equal(t, "product.grib", filename)
	require.Len(t, requests, 2)
	assert.Equal(t, surface, requests[0])
	assert.Equal(t, pressure, requests[1])
}

func TestBuildLocator_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"class", func(r *Request) { r.Class = "" }},
		{"date", func(r *Request) { r.Date = "" }},
		{"levtype", func(r *Request) { r.Levtype = "" }},
		{"param", func(r *Request) { r.Param = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := forecastRequest()
			tc.mutate(&req)

			_, err := BuildLocator("product.grib", []Request{req})
			require.Error(t, err)

			var sve *ecmwferrors.SchemaViolationError
			require.ErrorAs(t, err, &sve)
			assert.Equal(t, tc.name, sve.Property)
		})
	}
}

func TestBuildLocator_NoRequests(t *testing.T) {
	_, err := BuildLocator("product.grib", nil)
	require.Error(t, err)

	var sve *ecmwferrors.SchemaViolationError
	assert.ErrorAs(t, err, &sve)
}

func TestParseLocator_RoundTrip(t *testing.T) {
	req := forecastRequest()
	req.Grid = "1/1"
	req.Area = "90/-180/-90/179"

	loc, err := BuildLocator("product.grib", []Request{req})
	require.NoError(t, err)

	filename, requests, err := ParseLocator(loc.URL)
	require.NoError(t, err)
	assert.Equal(t, "product.grib", filename)
	require.Len(t, requests, 1)
	assert.Equal(t, req, requests[0])
}

func TestParseLocator_Malformed(t *testing.T) {
	cases := []struct {
		name    string
		locator string
	}{
		{"wrong scheme", "https://example.com/product.grib"},
		{"no query", "ecmwfapi:product.grib"},
		{"no filename", "ecmwfapi:?class=od"},
		{"empty query", "ecmwfapi:product.grib?"},
		{"bare key", "ecmwfapi:product.grib?class"},
		{"empty value", "ecmwfapi:product.grib?class="},
		{"unknown key", "ecmwfapi:product.grib?class=od&stream=oper&expver=0001&type=fc&date=2024-03-01&time=12:00:00&nope=1"},
		{"duplicate key", "ecmwfapi:product.grib?class=od&class=od&stream=oper&expver=0001&type=fc&date=2024-03-01&time=12:00:00"},
		{"missing mandatory", "ecmwfapi:product.grib?class=od&stream=oper"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseLocator(tc.locator)
			require.Error(t, err)

			var mle *ecmwferrors.MalformedLocatorError
			assert.ErrorAs(t, err, &mle)
		})
	}
}

func TestFromProperties(t *testing.T) {
	props := types.PropertySet{
		"marsclass": "od",
		"stream":    "oper",
		"expver":    "0001",
		"type":      "fc",
		"date":      "2024-03-01",
		"time":      "12:00:00",
		"step":      6,
		"levtype":   "pl",
		"param":     "130.128",
		"levelist":  "500/850",
	}

	req, err := FromProperties(props)
	require.NoError(t, err)
	assert.Equal(t, "6", req.Step)
	assert.Equal(t, "pl", req.Levtype)
	assert.Equal(t, "500/850", req.Levelist)
}

func TestFromProperties_MultiStep(t *testing.T) {
	props := types.PropertySet{
		"marsclass": "od",
		"stream":    "oper",
		"expver":    "0001",
		"type":      "fc",
		"date":      "2024-03-01",
		"time":      "12:00:00",
		"steps":     "0/6/12",
		"levtype":   "sfc",
		"param":     "167.128",
	}

	req, err := FromProperties(props)
	require.NoError(t, err)
	assert.Equal(t, "0/6/12", req.Step)
}

func TestFromProperties_Missing(t *testing.T) {
	props := types.PropertySet{
		"marsclass": "od",
		"stream":    "oper",
	}

	_, err := FromProperties(props)
	require.Error(t, err)

	var sve *ecmwferrors.SchemaViolationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "expver", sve.Property)
}
