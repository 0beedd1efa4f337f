// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package grib

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
)

// grib2Message accumulates section contents while walking one edition-2
// message. Sections 3 to 7 may repeat within a message, so parameter, level
// and step fields are collected per product-definition section.
type grib2Message struct {
	discipline int

	haveIdent bool
	refTime   time.Time

	haveLocal bool
	class     int
	marstype  int
	stream    int
	expver    string

	grid *GridDescriptor

	haveStep  bool
	step      int
	levelType string
	params    []string
	levels    []int
}

func decodeGrib2(discipline int, body []byte) (*Record, error) {
	msg := &grib2Message{discipline: discipline}

	pos := 0

	for {
		rem := body[pos:]
		if len(rem) >= 4 && string(rem[0:4]) == "7777" {
			break
		}

		if len(rem) < 5 {
			return nil, errors.New("message ends without end section")
		}

		secLen := int(u32(rem[0:4]))
		if secLen < 5 || secLen > len(rem) {
			return nil, errors.New("section length exceeds message")
		}

		sec := rem[:secLen]

		var err error

		switch sec[4] {
		case 1:
			err = msg.readIdentification(sec)
		case 2:
			err = msg.readLocalUse(sec)
		case 3:
			err = msg.readGridDefinition(sec)
		case 4:
			err = msg.readProductDefinition(sec)
		case 5, 6, 7:
			// Packed data sections carry no request metadata.
		default:
			err = fmt.Errorf("unexpected section number %d", sec[4])
		}

		if err != nil {
			return nil, err
		}

		pos += secLen
	}

	return msg.record()
}

func (m *grib2Message) readIdentification(sec []byte) error {
	if len(sec) < 19 {
		return errors.New("identification section truncated")
	}

	m.refTime = time.Date(u16(sec[12:14]), time.Month(sec[14]), int(sec[15]),
		int(sec[16]), int(sec[17]), int(sec[18]), 0, time.UTC)
	m.haveIdent = true

	return nil
}

// readLocalUse decodes the ECMWF local-use payload: two leading octets, then
// class, type and stream as 16-bit integers and a four-character experiment
// version.
func (m *grib2Message) readLocalUse(sec []byte) error {
	local := sec[5:]
	if len(local) < 12 {
		return errors.New("local-use section has no ECMWF local definition")
	}

	m.class = u16(local[2:4])
	m.marstype = u16(local[4:6])
	m.stream = u16(local[6:8])
	m.expver = strings.TrimSpace(string(local[8:12]))
	m.haveLocal = true

	return nil
}

func (m *grib2Message) readGridDefinition(sec []byte) error {
	if len(sec) < 14 {
		return errors.New("grid definition section truncated")
	}

	gridType := u16(sec[12:14])

	name, ok := grib2GridTypes[gridType]
	if !ok {
		name = fmt.Sprintf("unknown_%d", gridType)
	}

	grid := &GridDescriptor{Type: name}

	if (gridType == 0 || gridType == 40) && len(sec) >= 71 {
		grid.Ni = int(u32(sec[30:34]))
		grid.Nj = int(u32(sec[34:38]))

		la1 := float64(s32(sec[46:50])) / 1e6
		lo1 := float64(s32(sec[50:54])) / 1e6
		la2 := float64(s32(sec[55:59])) / 1e6
		lo2 := float64(s32(sec[59:63])) / 1e6
		grid.Area = [4]float64{la1, lo1, la2, lo2}
		grid.Di = float64(u32(sec[63:67])) / 1e6
		grid.Dj = float64(u32(sec[67:71])) / 1e6
	}

	// Identical repeated grid sections are the common case for
	// multi-field messages; the first one wins.
	if m.grid == nil {
		m.grid = grid
	}

	return nil
}

func (m *grib2Message) readProductDefinition(sec []byte) error {
	if len(sec) < 28 {
		return errors.New("product definition section truncated")
	}

	// Templates 4.0 (instant) and its ensemble/statistical variants share
	// the leading layout decoded here.
	param := fmt.Sprintf("%d.%d.%d", m.discipline, sec[9], sec[10])
	m.params = appendUnique(m.params, param)

	step, err := grib2Step(int(sec[17]), u32(sec[18:22]))
	if err != nil {
		return err
	}

	// Fields with a zero forecast time carry analysis data and do not
	// participate in the step consistency check.
	if step != 0 {
		if m.haveStep && step != m.step {
			return &ecmwferrors.InconsistentRecordsError{
				Field: "step",
				Got:   strconv.Itoa(step),
				Want:  strconv.Itoa(m.step),
			}
		}

		m.step = step
		m.haveStep = true
	}

	levelType, level, err := grib2Level(sec[22], sec[23], u32(sec[24:28]))
	if err != nil {
		return err
	}

	if m.levelType != "" && levelType != m.levelType {
		return &ecmwferrors.InconsistentRecordsError{
			Field: "level type",
			Got:   levelType,
			Want:  m.levelType,
		}
	}

	m.levelType = levelType

	if levelType != "sfc" {
		m.levels = appendUniqueInt(m.levels, level)
	}

	return nil
}

// grib2Step converts a forecast time in the section's declared unit into
// hours.
func grib2Step(unit int, forecastTime int64) (int, error) {
	if forecastTime == 0 {
		return 0, nil
	}

	var seconds int64

	switch unit {
	case 0:
		seconds = 60 * forecastTime
	case 1:
		seconds = 3600 * forecastTime
	case 2:
		seconds = 24 * 3600 * forecastTime
	case 10:
		seconds = 3 * 3600 * forecastTime
	case 11:
		seconds = 6 * 3600 * forecastTime
	case 12:
		seconds = 12 * 3600 * forecastTime
	case 13:
		seconds = forecastTime
	default:
		return 0, fmt.Errorf("unsupported indicatorOfUnitOfTimeRange: %d", unit)
	}

	return int(seconds / 3600), nil
}

// grib2Level maps the first fixed surface onto a MARS level type and value.
// Isobaric surfaces are encoded in Pascal and reported in hPa, the unit MARS
// level lists use.
func grib2Level(surfaceType, scaleFactor byte, scaledValue int64) (string, int, error) {
	levelType, ok := grib2LevelTypes[int(surfaceType)]
	if !ok {
		return "", 0, fmt.Errorf("unsupported level type (%d)", surfaceType)
	}

	value := float64(scaledValue)
	for i := 0; i < s8(scaleFactor); i++ {
		value /= 10
	}

	for i := 0; i > s8(scaleFactor); i-- {
		value *= 10
	}

	if levelType == "pl" {
		value /= 100
	}

	return levelType, int(value), nil
}

func (m *grib2Message) record() (*Record, error) {
	if !m.haveIdent {
		return nil, errors.New("message has no identification section")
	}

	if !m.haveLocal {
		return nil, errors.New("message has no ECMWF local-use section")
	}

	if len(m.params) == 0 {
		return nil, errors.New("message has no product definition section")
	}

	rec := &Record{
		Edition:       2,
		ReferenceTime: m.refTime,
		Step:          m.step,
		Parameters:    m.params,
		LevelType:     m.levelType,
		Levels:        m.levels,
		Grid:          m.grid,
	}

	var ok bool

	rec.Class, ok = marsClasses[m.class]
	if !ok {
		return nil, fmt.Errorf("unsupported MARS class (%d)", m.class)
	}

	rec.Type, ok = marsTypes[m.marstype]
	if !ok {
		return nil, fmt.Errorf("unsupported MARS type (%d)", m.marstype)
	}

	rec.Stream, ok = marsStreams[m.stream]
	if !ok {
		return nil, fmt.Errorf("unsupported MARS stream (%d)", m.stream)
	}

	rec.Expver = m.expver

	return rec, nil
}

func appendUnique(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}

	return append(list, v)
}

func appendUniqueInt(list []int, v int) []int {
	for _, e := range list {
		if e == v {
			return list
		}
	}

	return append(list, v)
}
