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

package tia

import (
	"strings"

	"github.com/jetsetilly/tiasound/tia/mix"
)

// SampleFreq is the frequency at which Process() expects to generate
// samples. The TIA updates channel volume at two points in every scanline,
// giving a sample frequency of double the horizontal scan rate, 15700Hz.
const SampleFreq = 31400

// The audio registers of the TIA, as addressed by the CPU.
const (
	AUDC0 uint16 = 0x15
	AUDC1 uint16 = 0x16
	AUDF0 uint16 = 0x17
	AUDF1 uint16 = 0x18
	AUDV0 uint16 = 0x19
	AUDV1 uint16 = 0x1a
)

// Audio is the implementation of the TIA audio sub-system.
type Audio struct {
	// From the "Stella Programmer's Guide":
	//
	// "There are two audio circuits for generating sound. They are identical
	// but completely independent and can be operated simultaneously [...]"
	channel0 channel
	channel1 channel

	// count to three over successive ticks for the reduced 10Khz clock
	tenKhzCt uint8
}

// NewAudio is the preferred method of initialisation for the Audio sub-system.
func NewAudio() *Audio {
	return &Audio{}
}

// Snapshot creates a copy of the Audio sub-system in its current state.
func (au *Audio) Snapshot() *Audio {
	n := *au
	return &n
}

// Reset restores all registers and oscillator state to power-on values.
func (au *Audio) Reset() {
	*au = Audio{}
}

func (au *Audio) String() string {
	s := strings.Builder{}
	s.WriteString("ch0: ")
	s.WriteString(au.channel0.String())
	s.WriteString("  ch1: ")
	s.WriteString(au.channel1.String())
	return s.String()
}

// Set changes the value of one of the six audio registers. Writes to
// addresses outside of the audio register range are ignored, so the caller
// can forward every chip write without filtering.
func (au *Audio) Set(addr uint16, value uint8) {
	switch addr {
	case AUDC0:
		au.channel0.regControl = value & 0x0f
	case AUDC1:
		au.channel1.regControl = value & 0x0f
	case AUDF0:
		au.channel0.regFreq = value & 0x1f
	case AUDF1:
		au.channel1.regFreq = value & 0x1f
	case AUDV0:
		au.channel0.regVolume = value & 0x0f
	case AUDV1:
		au.channel1.regVolume = value & 0x0f
	default:
		return
	}

	au.channel0.react()
	au.channel1.react()
}

// Process fills stream with the requested number of frames, interleaved
// according to the channels argument (1 or 2). Samples are mixed from the
// two channel circuits as they stand; register changes between calls are the
// caller's concern.
//
// The stream slice must be at least frames*channels in length.
func (au *Audio) Process(stream []int16, frames int, channels int) {
	for i := 0; i < frames; i++ {
		au.tenKhzCt++
		tenKhz := au.tenKhzCt >= 3
		if tenKhz {
			au.tenKhzCt = 0
		}

		au.channel0.tick(tenKhz)
		au.channel1.tick(tenKhz)

		if channels == 2 {
			l, r := mix.Stereo(au.channel0.actualVol, au.channel1.actualVol)
			stream[i*2] = l
			stream[i*2+1] = r
		} else {
			stream[i] = mix.Mono(au.channel0.actualVol, au.channel1.actualVol)
		}
	}
}
