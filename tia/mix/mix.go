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

// Package mix combines the two TIA channel volumes into a mono or stereo
// 16-bit PCM signal.
//
// The levels are not a straight linear map of the 4-bit channel volumes. The
// console mixes the channels through a resistor network, which compresses the
// higher volume levels. The lookup table below approximates that curve, as
// described in the document "TIA Sounding Off In The Digital Domain" by Chris
// Brenner, with the simplification found by Thomas Jentzsch:
//
// https://atariage.com/forums/topic/249865-tia-sounding-off-in-the-digital-domain/
package mix

// the maximum summed volume of the two channels, each contributing 4 bits
const maxVolume = 0x1e

var mono [maxVolume + 1]int16

// Mono mixes the two channel volumes into a single sample.
func Mono(channel0 uint8, channel1 uint8) int16 {
	return mono[channel0+channel1] >> 1
}

// Stereo mixes the two channel volumes into a pair of samples, one channel
// per speaker.
func Stereo(channel0 uint8, channel1 uint8) (int16, int16) {
	return Mono(channel0, 0), Mono(0, channel1)
}

func init() {
	for vol := 0; vol < len(mono); vol++ {
		mono[vol] = int16(0x7fff * float32(vol) / float32(maxVolume) * (30 + 1*float32(maxVolume)) / (30 + 1*float32(vol)))
	}
}
