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

// Package script reads register-write transcripts. A transcript is a text
// file with one write per line:
//
//	cycle register value
//
// The cycle is the absolute CPU cycle of the write, and must not decrease
// from line to line. The register is one of the TIA audio register names
// (AUDC0, AUDC1, AUDF0, AUDF1, AUDV0, AUDV1) or a raw address. Values and
// addresses accept the prefixes recognised by the Go syntax (0x, 0o, 0b).
// Blank lines and lines starting with # are skipped.
package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/tiasound/curated"
	"github.com/jetsetilly/tiasound/tia"
)

// Error is the pattern for errors originating in the script package.
const Error = "script: %v"

// Write is a single entry in a transcript.
type Write struct {
	Cycle int64
	Addr  uint16
	Value uint8
}

var registers = map[string]uint16{
	"AUDC0": tia.AUDC0,
	"AUDC1": tia.AUDC1,
	"AUDF0": tia.AUDF0,
	"AUDF1": tia.AUDF1,
	"AUDV0": tia.AUDV0,
	"AUDV1": tia.AUDV1,
}

// Parse reads a transcript from an io.Reader.
func Parse(r io.Reader) ([]Write, error) {
	var writes []Write

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		flds := strings.Fields(s)
		if len(flds) != 3 {
			return nil, curated.Errorf(Error, fmt.Sprintf("line %d: expected 'cycle register value'", line))
		}

		cycle, err := strconv.ParseInt(flds[0], 0, 64)
		if err != nil || cycle < 0 {
			return nil, curated.Errorf(Error, fmt.Sprintf("line %d: bad cycle %q", line, flds[0]))
		}
		if len(writes) > 0 && cycle < writes[len(writes)-1].Cycle {
			return nil, curated.Errorf(Error, fmt.Sprintf("line %d: cycle %d out of order", line, cycle))
		}

		addr, ok := registers[strings.ToUpper(flds[1])]
		if !ok {
			a, err := strconv.ParseUint(flds[1], 0, 16)
			if err != nil {
				return nil, curated.Errorf(Error, fmt.Sprintf("line %d: unknown register %q", line, flds[1]))
			}
			addr = uint16(a)
		}

		value, err := strconv.ParseUint(flds[2], 0, 8)
		if err != nil {
			return nil, curated.Errorf(Error, fmt.Sprintf("line %d: bad value %q", line, flds[2]))
		}

		writes = append(writes, Write{Cycle: cycle, Addr: addr, Value: uint8(value)})
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(Error, err)
	}

	return writes, nil
}

// Load reads a transcript from a file.
func Load(filename string) ([]Write, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf(Error, err)
	}
	defer f.Close()

	return Parse(f)
}
