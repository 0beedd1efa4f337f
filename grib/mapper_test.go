// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package grib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/grib/gribtest"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

func forecastRecord(step int, params []string, levels []int) *Record {
	return &Record{
		Edition:       1,
		Class:         "od",
		Type:          "fc",
		Stream:        "oper",
		Expver:        "0001",
		ReferenceTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Step:          step,
		Parameters:    params,
		LevelType:     "pl",
		Levels:        levels,
	}
}

func TestExtract_Empty(t *testing.T) {
	_, err := Extract(nil)
	require.Error(t, err)

	var epe *ecmwferrors.EmptyProductError
	assert.ErrorAs(t, err, &epe)
}

func TestExtract_SingleRecord(t *testing.T) {
	props, err := Extract([]*Record{
		forecastRecord(6, []string{"130.128"}, []int{500, 850}),
	})
	require.NoError(t, err)

	assert.Equal(t, types.PropertySet{
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
	}, props)
}

func TestExtract_AnalysisOmitsStep(t *testing.T) {
	props, err := Extract([]*Record{
		forecastRecord(0, []string{"130.128"}, []int{850}),
	})
	require.NoError(t, err)
	assert.False(t, props.Has("step"))
	assert.False(t, props.Has("steps"))
}

func TestExtract_MultiStepBundle(t *testing.T) {
	props, err := Extract([]*Record{
		forecastRecord(12, []string{"130.128"}, []int{850}),
		forecastRecord(0, []string{"131.128"}, []int{850}),
		forecastRecord(6, []string{"130.128"}, []int{500}),
	})
	require.NoError(t, err)

	steps, ok := props.Text("steps")
	require.True(t, ok)
	assert.Equal(t, "0/6/12", steps)
	assert.False(t, props.Has("step"))

	param, _ := props.Text("param")
	assert.Equal(t, "130.128/131.128", param)

	levelist, _ := props.Text("levelist")
	assert.Equal(t, "500/850", levelist)
}

func TestExtract_IdentityMismatch(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"class", func(r *Record) { r.Class = "ea" }},
		{"stream", func(r *Record) { r.Stream = "enfo" }},
		{"type", func(r *Record) { r.Type = "an" }},
		{"expver", func(r *Record) { r.Expver = "0002" }},
		{"reference time", func(r *Record) { r.ReferenceTime = r.ReferenceTime.Add(time.Hour) }},
		{"level type", func(r *Record) { r.LevelType = "sfc"; r.Levels = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other := forecastRecord(6, []string{"130.128"}, []int{850})
			tc.mutate(other)

			_, err := Extract([]*Record{
				forecastRecord(6, []string{"130.128"}, []int{850}),
				other,
			})
			require.Error(t, err)

			var ire *ecmwferrors.InconsistentRecordsError
			assert.ErrorAs(t, err, &ire)
		})
	}
}

func TestExtract_GridProperties(t *testing.T) {
	rec := forecastRecord(6, []string{"130.128"}, []int{850})
	rec.Grid = &GridDescriptor{
		Type: "regular_ll",
		Ni:   361, Nj: 181,
		Area: [4]float64{90, -180, -90, 179},
		Di:   1, Dj: 1,
	}

	props, err := Extract([]*Record{rec})
	require.NoError(t, err)

	area, _ := props.Text("area")
	assert.Equal(t, "90/-180/-90/179", area)

	grid, _ := props.Text("grid")
	assert.Equal(t, "1/1", grid)
}

func TestExtractFile(t *testing.T) {
	m1 := gribtest.DefaultGrib1()
	m1.TimeUnit = 1
	m1.P1 = 6

	m2 := gribtest.DefaultGrib1()
	m2.TimeUnit = 1
	m2.P1 = 12
	m2.Param = 168

	data := append(m1.Bytes(), m2.Bytes()...)

	props, err := ExtractFile(writeTemp(t, data))
	require.NoError(t, err)

	steps, ok := props.Text("steps")
	require.True(t, ok)
	assert.Equal(t, "6/12", steps)

	param, _ := props.Text("param")
	assert.Equal(t, "167.128/168.128", param)

	levtype, _ := props.Text("levtype")
	assert.Equal(t, "sfc", levtype)
	assert.False(t, props.Has("levelist"))
}

func TestExtractFile_Empty(t *testing.T) {
	_, err := ExtractFile(writeTemp(t, nil))
	require.Error(t, err)

	var epe *ecmwferrors.EmptyProductError
	assert.ErrorAs(t, err, &epe)
}
