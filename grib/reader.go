// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package grib decodes the metadata sections of GRIB edition 1 and edition 2
// files and reduces them to the ecmwfmars property namespace. Only the
// sections needed for MARS request construction are decoded; packed field
// values are skipped, so reading stays cheap for large multi-message
// products.
package grib

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
)

const indicatorMagic = "GRIB"

// Reader yields one Record per GRIB message, lazily and in one pass. It is
// not restartable: reopening the source is required to read again. The
// source is never mutated or moved.
//
// Usage follows the scanner idiom:
//
//	r, err := grib.Open(path)
//	for r.Scan() {
//	    rec := r.Record()
//	    ...
//	}
//	if err := r.Err(); err != nil { ... }
type Reader struct {
	br     *bufio.Reader
	closer io.Closer
	path   string

	offset int64
	rec    *Record
	err    error
	done   bool
}

// Open opens a GRIB file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := NewReader(f, path)
	r.closer = f

	return r, nil
}

// NewReader reads GRIB messages from r. The path is used in error messages
// only and may be empty.
func NewReader(r io.Reader, path string) *Reader {
	return &Reader{
		br:   bufio.NewReaderSize(r, 64*1024),
		path: path,
	}
}

// Close releases the underlying file, if Open created one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}

// Record returns the message decoded by the last successful Scan.
func (r *Reader) Record() *Record { return r.rec }

// Err returns the error that terminated scanning, if any. A truncated file
// yields all fully-decoded preceding records before Err reports the
// FormatError.
func (r *Reader) Err() error { return r.err }

// Scan advances to the next message. It returns false at end of input or on
// the first error.
func (r *Reader) Scan() bool {
	if r.err != nil || r.done {
		return false
	}

	if !r.seekIndicator() {
		return false
	}

	msgStart := r.offset

	// First eight octets are common to both editions; the eighth is the
	// edition number.
	hdr := make([]byte, 8)
	if _, err := io.ReadFull(r.br, hdr); err != nil {
		r.err = r.formatErr(msgStart, errors.New("truncated message header"))

		return false
	}

	r.offset += 8

	switch hdr[7] {
	case 1:
		return r.scanGrib1(hdr, msgStart)
	case 2:
		return r.scanGrib2(hdr, msgStart)
	default:
		r.err = r.formatErr(msgStart, errors.New("unsupported GRIB edition"))

		return false
	}
}

// seekIndicator positions the reader at the next "GRIB" magic. Reaching a
// clean end of input returns false with no error; trailing bytes that never
// form an indicator are a format error.
func (r *Reader) seekIndicator() bool {
	skipped := int64(0)

	for {
		b, perr := r.br.Peek(len(indicatorMagic))
		if len(b) == len(indicatorMagic) && string(b) == indicatorMagic {
			return true
		}

		if perr != nil {
			if len(b) == 0 && skipped == 0 {
				r.done = true

				return false
			}

			r.err = r.formatErr(r.offset, errors.New("no GRIB indicator found before end of input"))

			return false
		}

		if _, err := r.br.Discard(1); err != nil {
			r.err = r.formatErr(r.offset, err)

			return false
		}

		r.offset++
		skipped++
	}
}

func (r *Reader) scanGrib1(hdr []byte, msgStart int64) bool {
	total := int64(u24(hdr[4:7]))
	if total < 8 {
		r.err = r.formatErr(msgStart, errors.New("message length smaller than header"))

		return false
	}

	body := make([]byte, total-8)
	if _, err := io.ReadFull(r.br, body); err != nil {
		r.err = r.formatErr(msgStart, errors.New("truncated mid-message"))

		return false
	}

	r.offset += total - 8

	rec, err := decodeGrib1(body)
	if err != nil {
		r.err = r.wrapDecodeErr(msgStart, err)

		return false
	}

	r.rec = rec

	return true
}

func (r *Reader) scanGrib2(hdr []byte, msgStart int64) bool {
	lenBytes := make([]byte, 8)
	if _, err := io.ReadFull(r.br, lenBytes); err != nil {
		r.err = r.formatErr(msgStart, errors.New("truncated message header"))

		return false
	}

	r.offset += 8

	total := int64(u64(lenBytes))
	if total < 16 {
		r.err = r.formatErr(msgStart, errors.New("message length smaller than header"))

		return false
	}

	body := make([]byte, total-16)
	if _, err := io.ReadFull(r.br, body); err != nil {
		r.err = r.formatErr(msgStart, errors.New("truncated mid-message"))

		return false
	}

	r.offset += total - 16

	rec, err := decodeGrib2(int(hdr[6]), body)
	if err != nil {
		r.err = r.wrapDecodeErr(msgStart, err)

		return false
	}

	r.rec = rec

	return true
}

func (r *Reader) formatErr(offset int64, err error) error {
	return &ecmwferrors.FormatError{Path: r.path, Offset: offset, Err: err}
}

// wrapDecodeErr keeps data-quality errors (inconsistent fields within one
// message) typed as such; everything else becomes a FormatError.
func (r *Reader) wrapDecodeErr(offset int64, err error) error {
	var ire *ecmwferrors.InconsistentRecordsError
	if errors.As(err, &ire) {
		return err
	}

	return r.formatErr(offset, err)
}

// ReadAll decodes every message of the file at path. On failure it returns
// the records fully decoded before the error together with the error, so
// callers can decide whether partial metadata is acceptable.
func ReadAll(path string) ([]*Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var records []*Record
	for r.Scan() {
		records = append(records, r.Record())
	}

	return records, r.Err()
}

// Big-endian helpers. GRIB1 signed fields use sign-magnitude encoding, not
// two's complement.

func u16(b []byte) int { return int(b[0])<<8 | int(b[1]) }

func u24(b []byte) int { return int(b[0])<<16 | int(b[1])<<8 | int(b[2]) }

func u32(b []byte) int64 {
	return int64(b[0])<<24 | int64(b[1])<<16 | int64(b[2])<<8 | int64(b[3])
}

func u64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v
}

func s24(b []byte) int {
	v := u24(b)
	if v&0x800000 != 0 {
		return -(v & 0x7fffff)
	}

	return v
}

func s32(b []byte) int64 {
	v := u32(b)
	if v&0x80000000 != 0 {
		return -(v & 0x7fffffff)
	}

	return v
}

func s8(b byte) int {
	if b&0x80 != 0 {
		return -int(b & 0x7f)
	}

	return int(b)
}
