// This file is part of TIASound.
//
// TIASound is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TIASound is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with TIASound.  If not, see <https://www.gnu.org/licenses/>.

// Package serializer writes and reads the basic types that make up a saved
// machine state. Values are stored little-endian in a fixed field order; the
// reader must request fields in exactly the order the writer put them. That
// rigidity is the compatibility contract.
//
// Writer and Reader carry a sticky error. Callers can chain Put/Get calls and
// check Error() once at the end.
package serializer

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/jetsetilly/tiasound/curated"
)

// Error is the pattern for all errors originating in the serializer package.
const Error = "serializer: %v"

// booleans are stored as one of two bit patterns rather than 0x00/0x01. any
// other byte in a boolean slot means the stream is corrupt.
const (
	trueByte  = 0xfe
	falseByte = 0x01
)

// Writer serialises basic types to an underlying io.Writer.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter is the preferred method of initialisation for the Writer type.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Error returns the first error encountered by the Writer, or nil.
func (s *Writer) Error() error {
	return s.err
}

func (s *Writer) put(v interface{}) {
	if s.err != nil {
		return
	}
	if err := binary.Write(s.w, binary.LittleEndian, v); err != nil {
		s.err = curated.Errorf(Error, err)
	}
}

// PutByte writes a single byte.
func (s *Writer) PutByte(v uint8) {
	s.put(v)
}

// PutBool writes a boolean as one of the two recognised bit patterns.
func (s *Writer) PutBool(v bool) {
	if v {
		s.put(uint8(trueByte))
	} else {
		s.put(uint8(falseByte))
	}
}

// PutInt writes a 32bit signed integer.
func (s *Writer) PutInt(v int32) {
	s.put(v)
}

// PutDouble writes a 64bit float.
func (s *Writer) PutDouble(v float64) {
	s.put(math.Float64bits(v))
}

// PutString writes a length-prefixed string.
func (s *Writer) PutString(v string) {
	s.put(int32(len(v)))
	if s.err != nil {
		return
	}
	if _, err := io.WriteString(s.w, v); err != nil {
		s.err = curated.Errorf(Error, err)
	}
}

// Reader deserialises basic types from an underlying io.Reader. Fields must
// be requested in the order they were written.
type Reader struct {
	r   io.Reader
	err error
}

// NewReader is the preferred method of initialisation for the Reader type.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Error returns the first error encountered by the Reader, or nil.
func (s *Reader) Error() error {
	return s.err
}

func (s *Reader) get(v interface{}) {
	if s.err != nil {
		return
	}
	if err := binary.Read(s.r, binary.LittleEndian, v); err != nil {
		s.err = curated.Errorf(Error, err)
	}
}

// GetByte reads a single byte.
func (s *Reader) GetByte() uint8 {
	var v uint8
	s.get(&v)
	return v
}

// GetBool reads a boolean, failing if the stored byte is neither of the two
// recognised bit patterns.
func (s *Reader) GetBool() bool {
	var v uint8
	s.get(&v)
	if s.err != nil {
		return false
	}

	switch v {
	case trueByte:
		return true
	case falseByte:
		return false
	}

	s.err = curated.Errorf(Error, "invalid boolean pattern in stream")
	return false
}

// GetInt reads a 32bit signed integer.
func (s *Reader) GetInt() int32 {
	var v int32
	s.get(&v)
	return v
}

// GetDouble reads a 64bit float.
func (s *Reader) GetDouble() float64 {
	var v uint64
	s.get(&v)
	return math.Float64frombits(v)
}

// maximum allowed length prefix for GetString. generous. a larger prefix
// means the stream is corrupt, not that the string is long.
const maxStringLen = 1024 * 1024

// GetString reads a length-prefixed string.
func (s *Reader) GetString() string {
	l := s.GetInt()
	if s.err != nil {
		return ""
	}

	if l < 0 || l > maxStringLen {
		s.err = curated.Errorf(Error, "invalid string length in stream")
		return ""
	}

	b := make([]byte, l)
	if _, err := io.ReadFull(s.r, b); err != nil {
		s.err = curated.Errorf(Error, err)
		return ""
	}

	return string(b)
}
