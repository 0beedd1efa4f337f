// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package extension

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

func validProperties() types.PropertySet {
	return types.PropertySet{
		"marsclass": "od",
		"stream":    "oper",
		"expver":    "0001",
		"type":      "fc",
		"date":      "2024-03-01",
		"time":      "12:00:00",
		"step":      6,
		"levtype":   "sfc",
		"param":     "167.128",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(validProperties()))
}

func TestValidate_MissingMandatory(t *testing.T) {
	props := validProperties()
	delete(props, "expver")

	err := Validate(props)
	require.Error(t, err)

	var sve *ecmwferrors.SchemaViolationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "expver", sve.Property)
}

func TestValidate_WrongType(t *testing.T) {
	props := validProperties()
	props["step"] = "6"

	err := Validate(props)
	require.Error(t, err)

	var sve *ecmwferrors.SchemaViolationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "step", sve.Property)
}

func TestValidate_UnknownProperty(t *testing.T) {
	props := validProperties()
	props["shoesize"] = "44"

	err := Validate(props)
	require.Error(t, err)

	var sve *ecmwferrors.SchemaViolationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "shoesize", sve.Property)
}

func TestComputeCoreProperties(t *testing.T) {
	core, err := ComputeCoreProperties("T2M", validProperties())
	require.NoError(t, err)

	assert.Equal(t, "T2M", core.ProductType)
	assert.Equal(t, "T2M_od_oper_0001_fc_20240301T120000_006", core.ProductName)
	assert.Equal(t, "T2M_od_oper_0001_fc_20240301T120000_006.grib", core.PhysicalName)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, base, core.CreationDate)
	assert.Equal(t, base.Add(6*time.Hour), core.ValidityStart)
	assert.Equal(t, core.ValidityStart, core.ValidityStop)
}

func TestComputeCoreProperties_Deterministic(t *testing.T) {
	a, err := ComputeCoreProperties("T2M", validProperties())
	require.NoError(t, err)

	b, err := ComputeCoreProperties("T2M", validProperties())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestComputeCoreProperties_NoStep(t *testing.T) {
	props := validProperties()
	delete(props, "step")

	core, err := ComputeCoreProperties("T2M", props)
	require.NoError(t, err)

	assert.Equal(t, "T2M_od_oper_0001_fc_20240301T120000", core.ProductName)
	assert.Equal(t, core.CreationDate, core.ValidityStart)
	assert.Equal(t, core.ValidityStart, core.ValidityStop)
}

func TestComputeCoreProperties_StepRange(t *testing.T) {
	props := validProperties()
	delete(props, "step")
	props["steps"] = "0/6/12"

	core, err := ComputeCoreProperties("T2M", props)
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, base, core.ValidityStart)
	assert.Equal(t, base.Add(12*time.Hour), core.ValidityStop)
	assert.True(t, !core.ValidityStop.Before(core.ValidityStart))
}

func TestComputeCoreProperties_CompactDateTime(t *testing.T) {
	props := validProperties()
	props["date"] = "20240301"
	props["time"] = "12"

	core, err := ComputeCoreProperties("T2M", props)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), core.CreationDate)
}

func TestComputeCoreProperties_BadDate(t *testing.T) {
	props := validProperties()
	props["date"] = "not-a-date"

	_, err := ComputeCoreProperties("T2M", props)
	require.Error(t, err)

	var sve *ecmwferrors.SchemaViolationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "date", sve.Property)
}
