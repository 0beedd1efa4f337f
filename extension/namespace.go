// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package extension defines the ecmwfmars namespace: the property schema,
// its validation rules and the derivation of archive core properties from a
// validated property set.
package extension

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

// Name is the namespace name under which the schema registers.
const Name = "ecmwfmars"

// Schema returns the ordered property schema of the ecmwfmars namespace.
// The first six properties identify the model run and are mandatory;
// everything else refines the retrieval request.
func Schema() types.Schema {
	return types.Schema{
		{Name: "marsclass", Type: types.Text, Index: true},
		{Name: "stream", Type: types.Text, Index: true},
		{Name: "expver", Type: types.Text, Index: true},
		{Name: "type", Type: types.Text, Index: true},
		{Name: "date", Type: types.Text, Index: true},
		{Name: "time", Type: types.Text, Index: true},
		{Name: "step", Type: types.Integer, Optional: true, Index: true},
		{Name: "steps", Type: types.Text, Optional: true},
		{Name: "resol", Type: types.Text, Optional: true},
		{Name: "grid", Type: types.Text, Optional: true},
		{Name: "area", Type: types.Text, Optional: true},
		{Name: "levtype", Type: types.Text, Optional: true},
		{Name: "param", Type: types.Text, Optional: true},
		{Name: "levelist", Type: types.Text, Optional: true},
	}
}

// Validate checks props against the namespace schema: every mandatory
// property present, every present property of the declared runtime type,
// no properties outside the schema.
func Validate(props types.PropertySet) error {
	schema := Schema()

	known := make(map[string]types.Property, len(schema))
	for _, p := range schema {
		known[p.Name] = p
	}

	for name := range props {
		if _, ok := known[name]; !ok {
			return &ecmwferrors.SchemaViolationError{
				Property: name,
				Reason:   "not part of the ecmwfmars namespace",
			}
		}
	}

	for _, p := range schema {
		v, present := props[p.Name]
		if !present {
			if p.Optional {
				continue
			}

			return &ecmwferrors.SchemaViolationError{Property: p.Name, Reason: "missing"}
		}

		switch p.Type {
		case types.Text:
			if _, ok := v.(string); !ok {
				return &ecmwferrors.SchemaViolationError{
					Property: p.Name,
					Reason:   fmt.Sprintf("expected text, got %T", v),
				}
			}
		case types.Integer:
			if _, ok := v.(int); !ok {
				return &ecmwferrors.SchemaViolationError{
					Property: p.Name,
					Reason:   fmt.Sprintf("expected integer, got %T", v),
				}
			}
		}
	}

	return nil
}

// ComputeCoreProperties derives the archive core properties from a validated
// property set. The derivation is pure: identity is the composed product
// name, the creation date is the model base time, and validity covers the
// forecast step range. Equal inputs always yield equal outputs.
func ComputeCoreProperties(productType string, props types.PropertySet) (types.CoreProperties, error) {
	if err := Validate(props); err != nil {
		return types.CoreProperties{}, err
	}

	date, _ := props.Text("date")
	timeOfDay, _ := props.Text("time")

	base, err := parseBaseTime(date, timeOfDay)
	if err != nil {
		return types.CoreProperties{}, err
	}

	marsclass, _ := props.Text("marsclass")
	stream, _ := props.Text("stream")
	expver, _ := props.Text("expver")
	marstype, _ := props.Text("type")

	name := fmt.Sprintf("%s_%s_%s_%s_%s_%s", productType, marsclass, stream, expver,
		marstype, base.Format("20060102T150405"))

	minStep, maxStep := 0, 0

	if step, ok := props.Int("step"); ok {
		name += fmt.Sprintf("_%03d", step)
		minStep, maxStep = step, step
	} else if steps, ok := props.Text("steps"); ok {
		minStep, maxStep, err = stepRange(steps)
		if err != nil {
			return types.CoreProperties{}, err
		}
	}

	core := types.CoreProperties{
		ProductType:   productType,
		ProductName:   name,
		PhysicalName:  name + ".grib",
		ValidityStart: base.Add(time.Duration(minStep) * time.Hour),
		ValidityStop:  base.Add(time.Duration(maxStep) * time.Hour),
		CreationDate:  base,
	}

	return core, nil
}

// Definition bundles the schema and derivation for registration with a host
// archive.
func Definition() types.NamespaceDefinition {
	return types.NamespaceDefinition{
		Schema:                Schema(),
		ComputeCoreProperties: ComputeCoreProperties,
	}
}

// parseBaseTime combines the date and time properties into the model base
// time. Dates are accepted with or without dashes, times with or without
// colons; seconds may be omitted.
func parseBaseTime(date, timeOfDay string) (time.Time, error) {
	violation := func(property, value string) error {
		return &ecmwferrors.SchemaViolationError{
			Property: property,
			Reason:   fmt.Sprintf("unparseable value %q", value),
		}
	}

	d := strings.ReplaceAll(date, "-", "")

	base, err := time.Parse("20060102", d)
	if err != nil {
		return time.Time{}, violation("date", date)
	}

	t := strings.ReplaceAll(timeOfDay, ":", "")
	for len(t) < 6 {
		t += "0"
	}

	clock, err := time.Parse("150405", t)
	if err != nil {
		return time.Time{}, violation("time", timeOfDay)
	}

	return base.Add(time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second), nil
}

func stepRange(steps string) (int, int, error) {
	parts := strings.Split(steps, "/")

	min, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, &ecmwferrors.SchemaViolationError{
			Property: "steps",
			Reason:   fmt.Sprintf("unparseable value %q", steps),
		}
	}

	max := min

	for _, p := range parts[1:] {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, &ecmwferrors.SchemaViolationError{
				Property: "steps",
				Reason:   fmt.Sprintf("unparseable value %q", steps),
			}
		}

		if v < min {
			min = v
		}

		if v > max {
			max = v
		}
	}

	return min, max, nil
}
