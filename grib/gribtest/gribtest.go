// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package gribtest builds minimal synthetic GRIB messages for tests. Only
// the sections and octets the decoder reads are populated; packed data is
// replaced by an empty data section.
package gribtest

import (
	"time"
)

// Grib1 describes a synthetic edition-1 message.
type Grib1 struct {
	RefTime  time.Time
	TimeUnit byte
	P1       byte

	Table byte
	Param byte

	LevelType byte
	Level     int

	Class  byte
	Type   byte
	Stream int
	Expver string

	WithGrid bool
	GridType byte
	Ni, Nj   int
	Area     [4]float64 // north/west/south/east, degrees
	Di, Dj   float64    // degrees, zero encodes as "not given"
}

// DefaultGrib1 returns an operational surface forecast at step zero.
func DefaultGrib1() Grib1 {
	return Grib1{
		RefTime:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Table:     128,
		Param:     167, // 2 metre temperature
		LevelType: 1,
		Class:     1,    // od
		Type:      9,    // fc
		Stream:    1025, // oper
		Expver:    "0001",
	}
}

// Bytes renders the message, indicator section through end section.
func (m Grib1) Bytes() []byte {
	pds := make([]byte, 52)
	be24(pds[0:3], len(pds))
	pds[3] = m.Table
	if m.WithGrid {
		pds[7] = 0x80
	}

	pds[8] = m.Param
	pds[9] = m.LevelType
	be16(pds[10:12], m.Level)

	year := m.RefTime.Year()
	century := (year-1)/100 + 1
	pds[12] = byte(year - (century-1)*100)
	pds[13] = byte(m.RefTime.Month())
	pds[14] = byte(m.RefTime.Day())
	pds[15] = byte(m.RefTime.Hour())
	pds[16] = byte(m.RefTime.Minute())
	pds[17] = m.TimeUnit
	pds[18] = m.P1
	pds[24] = byte(century)

	// ECMWF local definition 1.
	pds[41] = m.Class
	pds[42] = m.Type
	be16(pds[43:45], m.Stream)
	copy(pds[45:49], pad4(m.Expver))

	var gds []byte
	if m.WithGrid {
		gds = make([]byte, 32)
		be24(gds[0:3], len(gds))
		gds[5] = m.GridType
		be16(gds[6:8], m.Ni)
		be16(gds[8:10], m.Nj)
		sm24(gds[10:13], int(m.Area[0]*1000))
		sm24(gds[13:16], int(m.Area[1]*1000))
		gds[16] = 0x80
		sm24(gds[17:20], int(m.Area[2]*1000))
		sm24(gds[20:23], int(m.Area[3]*1000))

		if m.Di == 0 && m.Dj == 0 {
			be16(gds[23:25], 0xFFFF)
			be16(gds[25:27], 0xFFFF)
		} else {
			be16(gds[23:25], int(m.Di*1000))
			be16(gds[25:27], int(m.Dj*1000))
		}
	}

	total := 8 + len(pds) + len(gds) + 4

	msg := make([]byte, 0, total)
	msg = append(msg, 'G', 'R', 'I', 'B')
	msg = append(msg, byte(total>>16), byte(total>>8), byte(total))
	msg = append(msg, 1)
	msg = append(msg, pds...)
	msg = append(msg, gds...)
	msg = append(msg, '7', '7', '7', '7')

	return msg
}

// Grib2Field describes one product-definition section within an edition-2
// message.
type Grib2Field struct {
	Category byte
	Number   byte

	TimeUnit     byte
	ForecastTime int

	SurfaceType byte
	ScaleFactor int
	ScaledValue int
}

// Grib2 describes a synthetic edition-2 message. Fields may be empty, in
// which case Bytes emits a single default field.
type Grib2 struct {
	Discipline byte
	RefTime    time.Time

	Class  int
	Type   int
	Stream int
	Expver string

	WithGrid     bool
	GridTemplate int
	Ni, Nj       int
	Area         [4]float64
	Di, Dj       float64

	Fields []Grib2Field
}

// DefaultGrib2 returns an ERA5 pressure-level analysis with one field.
func DefaultGrib2() Grib2 {
	return Grib2{
		RefTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Class:   23,   // ea
		Type:    2,    // an
		Stream:  1025, // oper
		Expver:  "0001",
		Fields: []Grib2Field{
			{Category: 0, Number: 0, TimeUnit: 1, SurfaceType: 100, ScaledValue: 85000},
		},
	}
}

// Bytes renders the message, indicator section through end section.
func (m Grib2) Bytes() []byte {
	var body []byte

	sec1 := make([]byte, 21)
	be32(sec1[0:4], len(sec1))
	sec1[4] = 1
	be16(sec1[12:14], m.RefTime.Year())
	sec1[14] = byte(m.RefTime.Month())
	sec1[15] = byte(m.RefTime.Day())
	sec1[16] = byte(m.RefTime.Hour())
	sec1[17] = byte(m.RefTime.Minute())
	sec1[18] = byte(m.RefTime.Second())
	body = append(body, sec1...)

	sec2 := make([]byte, 17)
	be32(sec2[0:4], len(sec2))
	sec2[4] = 2
	be16(sec2[5:7], 1) // local definition number
	be16(sec2[7:9], m.Class)
	be16(sec2[9:11], m.Type)
	be16(sec2[11:13], m.Stream)
	copy(sec2[13:17], pad4(m.Expver))
	body = append(body, sec2...)

	if m.WithGrid {
		sec3 := make([]byte, 72)
		be32(sec3[0:4], len(sec3))
		sec3[4] = 3
		be16(sec3[12:14], m.GridTemplate)
		be32(sec3[30:34], m.Ni)
		be32(sec3[34:38], m.Nj)
		sm32(sec3[46:50], int(m.Area[0]*1e6))
		sm32(sec3[50:54], int(m.Area[1]*1e6))
		sm32(sec3[55:59], int(m.Area[2]*1e6))
		sm32(sec3[59:63], int(m.Area[3]*1e6))
		be32(sec3[63:67], int(m.Di*1e6))
		be32(sec3[67:71], int(m.Dj*1e6))
		body = append(body, sec3...)
	}

	fields := m.Fields
	if len(fields) == 0 {
		fields = []Grib2Field{{TimeUnit: 1, SurfaceType: 1}}
	}

	for _, f := range fields {
		sec4 := make([]byte, 34)
		be32(sec4[0:4], len(sec4))
		sec4[4] = 4
		sec4[9] = f.Category
		sec4[10] = f.Number
		sec4[17] = f.TimeUnit
		be32(sec4[18:22], f.ForecastTime)
		sec4[22] = f.SurfaceType
		sec4[23] = sm8(f.ScaleFactor)
		be32(sec4[24:28], f.ScaledValue)
		body = append(body, sec4...)

		// Empty data section standing in for the packed values.
		sec7 := []byte{0, 0, 0, 5, 7}
		body = append(body, sec7...)
	}

	total := 16 + len(body) + 4

	msg := make([]byte, 0, total)
	msg = append(msg, 'G', 'R', 'I', 'B', 0, 0)
	msg = append(msg, m.Discipline, 2)
	msg = append(msg, make([]byte, 4)...)
	msg = append(msg, byte(total>>24), byte(total>>16), byte(total>>8), byte(total))
	msg = append(msg, body...)
	msg = append(msg, '7', '7', '7', '7')

	return msg
}

// pad4 right-pads an experiment version to the four ASCII characters the
// local-use sections encode.
func pad4(s string) []byte {
	b := []byte("    ")
	copy(b, s)

	return b
}

func be16(b []byte, v int) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func be24(b []byte, v int) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func be32(b []byte, v int) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// GRIB signed integers are sign-magnitude: high bit set means negative.

func sm24(b []byte, v int) {
	sign := byte(0)
	if v < 0 {
		sign = 0x80
		v = -v
	}

	b[0] = byte(v>>16) | sign
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func sm32(b []byte, v int) {
	sign := byte(0)
	if v < 0 {
		sign = 0x80
		v = -v
	}

	b[0] = byte(v>>24) | sign
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func sm8(v int) byte {
	if v < 0 {
		return byte(-v) | 0x80
	}

	return byte(v)
}
