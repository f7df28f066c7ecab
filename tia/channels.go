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

import "fmt"

type channel struct {
	// the raw register values, masked on write
	regControl uint8 // AUDCx & 0x0f
	regFreq    uint8 // AUDFx & 0x1f
	regVolume  uint8 // AUDVx & 0x0f

	// which bit of each polynomial counter to use next
	poly4ct int
	poly5ct int
	poly9ct int
	div3ct  uint8

	// the different musical notes available to the 2600 are achieved with a
	// frequency clock. the easiest way to think of this is to think of a
	// filter on the 30Khz clock signal.
	freqCt uint8

	// the frequency of the channel. this is either the value that's in the
	// frequency register (regFreq) or zero if the channel is in one of the
	// volume-only modes.
	//
	// this is the value we count to with freqCt in order to generate the
	// correct sound
	freq uint8

	// if bits 2 and 3 of the control register are set (ie. mask 0x0c) then we
	// use a 10Khz clock rather than a 30Khz clock
	useTenKhz bool

	// the different tones are achieved by adjusting the volume between zero
	// (silence) and the value in the volume register. actualVol is a record
	// of that value.
	actualVol uint8
}

func (ch *channel) String() string {
	return fmt.Sprintf("AUDC=%#02x AUDF=%#02x AUDV=%#02x", ch.regControl, ch.regFreq, ch.regVolume)
}

// volume-only modes output the volume register directly, with no oscillation
func (ch *channel) volumeOnly() bool {
	return ch.regControl == 0x00 || ch.regControl == 0x0b
}

// react is called whenever one of the channel's registers has changed.
func (ch *channel) react() {
	// from TIASound.c: "when bits D2 and D3 are set, the input source is
	// switched to the 1.19MHz clock, so the '30KHz' source clock is reduced
	// to approximately 10KHz"
	ch.useTenKhz = ch.regControl&0x0c == 0x0c && ch.regControl != 0x0f

	if ch.volumeOnly() {
		ch.actualVol = ch.regVolume
		ch.freq = 0
	} else {
		ch.freq = ch.regFreq
	}
}

// tick is called at a frequency of 30Khz. the tenKhz argument is true on
// every third call.
func (ch *channel) tick(tenKhz bool) {
	// filter out 30Khz signal if channel is set to use the 10Khz signal
	if ch.useTenKhz && !tenKhz {
		return
	}

	// nothing to do in the volume-only modes. actualVol has already been
	// changed by react(), which is called whenever an audio register changes
	if ch.volumeOnly() {
		return
	}

	// tick main frequency clock
	if ch.freqCt == ch.freq || ch.freqCt == 31 {
		ch.freqCt = 0
	} else {
		ch.freqCt++
	}

	// update output volume only when the counter reaches the target frequency value
	if ch.freqCt != ch.freq {
		return
	}

	// the 5-bit polynomial clock toggles volume on change of bit. note the
	// current bit so we can compare
	var prevBit5 = poly5bit[ch.poly5ct]

	// advance 5-bit polynomial clock
	ch.poly5ct++
	if ch.poly5ct >= len(poly5bit) {
		ch.poly5ct = 0
	}

	// check for clock tick
	if (ch.regControl&0x02 == 0x0) ||
		((ch.regControl&0x01 == 0x0) && div31[ch.poly5ct] != 0) ||
		((ch.regControl&0x01 == 0x1) && poly5bit[ch.poly5ct] != 0) ||
		((ch.regControl&0x0f == 0xf) && poly5bit[ch.poly5ct] != prevBit5) {

		if ch.regControl&0x04 == 0x04 {
			// use pure clock

			if ch.regControl&0x0f == 0x0f {
				// use poly5/div3
				if poly5bit[ch.poly5ct] != prevBit5 {
					ch.div3ct++
					if ch.div3ct == 3 {
						ch.div3ct = 0

						// toggle volume
						if ch.actualVol != 0 {
							ch.actualVol = 0
						} else {
							ch.actualVol = ch.regVolume
						}
					}
				}
			} else {
				// toggle volume
				if ch.actualVol != 0 {
					ch.actualVol = 0
				} else {
					ch.actualVol = ch.regVolume
				}
			}
		} else if ch.regControl&0x08 == 0x08 {
			// use poly5/poly9

			if ch.regControl == 0x08 {
				// use poly9
				ch.poly9ct++
				if ch.poly9ct >= len(poly9bit) {
					ch.poly9ct = 0
				}

				// toggle volume
				if poly9bit[ch.poly9ct] != 0 {
					ch.actualVol = ch.regVolume
				} else {
					ch.actualVol = 0
				}
			} else if ch.regControl&0x02 != 0 {
				if ch.actualVol != 0 || ch.regControl&0x01 == 0x01 {
					ch.actualVol = 0
				} else {
					ch.actualVol = ch.regVolume
				}
			} else {
				// use poly5. we've already bumped the poly5 counter forward

				// toggle volume
				if poly5bit[ch.poly5ct] == 1 {
					ch.actualVol = ch.regVolume
				} else {
					ch.actualVol = 0
				}
			}
		} else {
			// use poly4
			ch.poly4ct++
			if ch.poly4ct >= len(poly4bit) {
				ch.poly4ct = 0
			}

			if poly4bit[ch.poly4ct] == 1 {
				ch.actualVol = ch.regVolume
			} else {
				ch.actualVol = 0
			}
		}
	}
}
