// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package grib

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Product definition section offsets (0-based into the PDS). The ECMWF
// local-use extension starts at octet 41; octet 42 is the MARS class, 43 the
// type, 44-45 the stream and 46-49 the four-character experiment version.
const (
	pds1TableVersion  = 3
	pds1GridFlags     = 7
	pds1Parameter     = 8
	pds1LevelType     = 9
	pds1Level         = 10
	pds1YearOfCentury = 12
	pds1Month         = 13
	pds1Day           = 14
	pds1Hour          = 15
	pds1Minute        = 16
	pds1TimeUnit      = 17
	pds1P1            = 18
	pds1Century       = 24
	pds1LocalClass    = 41
	pds1LocalType     = 42
	pds1LocalStream   = 43
	pds1LocalExpver   = 45
	pds1LocalEnd      = 49
)

func decodeGrib1(body []byte) (*Record, error) {
	if len(body) < 3 {
		return nil, errors.New("product definition section missing")
	}

	pdsLen := u24(body[0:3])
	if pdsLen > len(body) {
		return nil, errors.New("product definition section exceeds message")
	}

	if pdsLen < pds1LocalEnd {
		return nil, errors.New("product definition section has no ECMWF local definition")
	}

	pds := body[:pdsLen]

	rec := &Record{Edition: 1}

	// Reference (issue) time. The century octet counts from one, so the
	// operational era is century 21.
	year := (int(pds[pds1Century])-1)*100 + int(pds[pds1YearOfCentury])
	rec.ReferenceTime = time.Date(year, time.Month(pds[pds1Month]), int(pds[pds1Day]),
		int(pds[pds1Hour]), int(pds[pds1Minute]), 0, 0, time.UTC)

	step, err := grib1Step(int(pds[pds1TimeUnit]), int(pds[pds1P1]))
	if err != nil {
		return nil, err
	}

	rec.Step = step

	var ok bool

	rec.Class, ok = marsClasses[int(pds[pds1LocalClass])]
	if !ok {
		return nil, fmt.Errorf("unsupported MARS class (%d)", pds[pds1LocalClass])
	}

	rec.Type, ok = marsTypes[int(pds[pds1LocalType])]
	if !ok {
		return nil, fmt.Errorf("unsupported MARS type (%d)", pds[pds1LocalType])
	}

	rec.Stream, ok = marsStreams[u16(pds[pds1LocalStream:pds1LocalStream+2])]
	if !ok {
		return nil, fmt.Errorf("unsupported MARS stream (%d)", u16(pds[pds1LocalStream:pds1LocalStream+2]))
	}

	rec.Expver = strings.TrimSpace(string(pds[pds1LocalExpver:pds1LocalEnd]))

	rec.Parameters = []string{fmt.Sprintf("%d.%d", pds[pds1Parameter], pds[pds1TableVersion])}

	rec.LevelType, ok = grib1LevelTypes[int(pds[pds1LevelType])]
	if !ok {
		return nil, fmt.Errorf("unsupported level type (%d)", pds[pds1LevelType])
	}

	if rec.LevelType != "sfc" {
		rec.Levels = []int{u16(pds[pds1Level : pds1Level+2])}
	}

	// Grid description section, when flagged present, follows the PDS.
	if pds[pds1GridFlags]&0x80 != 0 {
		grid, err := decodeGrib1Grid(body[pdsLen:])
		if err != nil {
			return nil, err
		}

		rec.Grid = grid
	}

	return rec, nil
}

// grib1Step converts the PDS time unit and period into hours. A zero time
// unit leaves the step at zero (analysis fields).
func grib1Step(unit, p1 int) (int, error) {
	if unit == 0 {
		return 0, nil
	}

	switch unit {
	case 1:
		return p1, nil
	case 2:
		return 24 * p1, nil
	case 10:
		return 3 * p1, nil
	case 11:
		return 6 * p1, nil
	case 13:
		return 12 * p1, nil
	default:
		return 0, fmt.Errorf("unsupported unitOfTimeRange: %d", unit)
	}
}

func decodeGrib1Grid(gds []byte) (*GridDescriptor, error) {
	if len(gds) < 6 {
		return nil, errors.New("grid description section truncated")
	}

	gdsLen := u24(gds[0:3])
	if gdsLen > len(gds) {
		return nil, errors.New("grid description section exceeds message")
	}

	gridType := int(gds[5])

	name, ok := grib1GridTypes[gridType]
	if !ok {
		name = fmt.Sprintf("unknown_%d", gridType)
	}

	grid := &GridDescriptor{Type: name}

	// Bounding box and increments are only defined for latitude/longitude
	// style templates.
	if (gridType == 0 || gridType == 4 || gridType == 10 || gridType == 14) && gdsLen >= 27 {
		grid.Ni = u16(gds[6:8])
		grid.Nj = u16(gds[8:10])

		la1 := float64(s24(gds[10:13])) / 1000
		lo1 := float64(s24(gds[13:16])) / 1000
		la2 := float64(s24(gds[17:20])) / 1000
		lo2 := float64(s24(gds[20:23])) / 1000
		grid.Area = [4]float64{la1, lo1, la2, lo2}

		// 0xFFFF marks increments as not given.
		if di := u16(gds[23:25]); di != 0xFFFF {
			grid.Di = float64(di) / 1000
		}

		if dj := u16(gds[25:27]); dj != 0xFFFF {
			grid.Dj = float64(dj) / 1000
		}
	}

	return grid, nil
}
