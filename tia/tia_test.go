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

package tia_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/tiasound/serializer"
	"github.com/jetsetilly/tiasound/test"
	"github.com/jetsetilly/tiasound/tia"
)

func TestSilenceAtPowerOn(t *testing.T) {
	au := tia.NewAudio()

	buf := make([]int16, 256)
	au.Process(buf, 256, 1)

	for i := range buf {
		if buf[i] != 0 {
			t.Fatalf("non-zero sample at power-on (index %d)", i)
		}
	}
}

func TestVolumeOnlyMode(t *testing.T) {
	au := tia.NewAudio()

	// control 0x00 routes the volume register straight to the output
	au.Set(tia.AUDC0, 0x00)
	au.Set(tia.AUDV0, 0x0f)

	buf := make([]int16, 128)
	au.Process(buf, 128, 1)

	for i := 1; i < len(buf); i++ {
		if buf[i] != buf[0] {
			t.Fatalf("volume-only output not constant (index %d)", i)
		}
	}
	if buf[0] == 0 {
		t.Fatalf("volume-only output silent despite non-zero volume register")
	}
}

func TestPureTone(t *testing.T) {
	au := tia.NewAudio()

	au.Set(tia.AUDC0, 0x04) // pure clock
	au.Set(tia.AUDF0, 0x02)
	au.Set(tia.AUDV0, 0x0f)

	buf := make([]int16, 512)
	au.Process(buf, 512, 1)

	// a pure tone oscillates between silence and the volume level
	var zero, nonZero int
	for i := range buf {
		if buf[i] == 0 {
			zero++
		} else {
			nonZero++
		}
	}
	test.ExpectedSuccess(t, zero > 0)
	test.ExpectedSuccess(t, nonZero > 0)
}

func TestRegisterMasking(t *testing.T) {
	au := tia.NewAudio()

	// upper bits of register values must be discarded. two writes differing
	// only in masked bits leave the chip in identical states
	au.Set(tia.AUDC0, 0xf4)
	au.Set(tia.AUDF0, 0xe2)
	au.Set(tia.AUDV0, 0xff)

	bu := tia.NewAudio()
	bu.Set(tia.AUDC0, 0x04)
	bu.Set(tia.AUDF0, 0x02)
	bu.Set(tia.AUDV0, 0x0f)

	a := make([]int16, 256)
	b := make([]int16, 256)
	au.Process(a, 256, 1)
	bu.Process(b, 256, 1)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("masked and unmasked writes diverge (index %d)", i)
		}
	}
}

func TestNonAudioAddressIgnored(t *testing.T) {
	au := tia.NewAudio()
	bu := au.Snapshot()

	// VSYNC, VBLANK et al. are not our concern
	au.Set(0x00, 0xff)
	au.Set(0x02, 0xff)

	test.Equate(t, au.String(), bu.String())
}

func TestStereoInterleave(t *testing.T) {
	au := tia.NewAudio()

	// only channel 0 is set. in the stereo mix the right speaker stays silent
	au.Set(tia.AUDC0, 0x00)
	au.Set(tia.AUDV0, 0x0f)

	buf := make([]int16, 64*2)
	au.Process(buf, 64, 2)

	for i := 0; i < 64; i++ {
		if buf[i*2] == 0 {
			t.Fatalf("left sample silent (frame %d)", i)
		}
		if buf[i*2+1] != 0 {
			t.Fatalf("right sample not silent (frame %d)", i)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	au := tia.NewAudio()

	au.Set(tia.AUDC0, 0x08) // poly9
	au.Set(tia.AUDF0, 0x05)
	au.Set(tia.AUDV0, 0x0a)
	au.Set(tia.AUDC1, 0x04)
	au.Set(tia.AUDF1, 0x1f)
	au.Set(tia.AUDV1, 0x07)

	// advance the oscillators away from their power-on phase
	scratch := make([]int16, 777)
	au.Process(scratch, 777, 1)

	b := &bytes.Buffer{}
	w := serializer.NewWriter(b)
	test.ExpectedSuccess(t, au.Save(w))

	bu := tia.NewAudio()
	r := serializer.NewReader(b)
	test.ExpectedSuccess(t, bu.Load(r))

	// both instances must now produce bit-identical output
	a2 := make([]int16, 1024)
	b2 := make([]int16, 1024)
	au.Process(a2, 1024, 1)
	bu.Process(b2, 1024, 1)

	for i := range a2 {
		if a2[i] != b2[i] {
			t.Fatalf("output diverges after load (index %d)", i)
		}
	}
}

func TestLoadTruncated(t *testing.T) {
	au := tia.NewAudio()

	b := &bytes.Buffer{}
	w := serializer.NewWriter(b)
	test.ExpectedSuccess(t, au.Save(w))

	trunc := b.Bytes()[:b.Len()-4]
	bu := tia.NewAudio()
	r := serializer.NewReader(bytes.NewReader(trunc))
	test.ExpectedFailure(t, bu.Load(r))
}

func TestReset(t *testing.T) {
	au := tia.NewAudio()
	au.Set(tia.AUDC0, 0x04)
	au.Set(tia.AUDV0, 0x0f)

	scratch := make([]int16, 100)
	au.Process(scratch, 100, 1)

	au.Reset()

	buf := make([]int16, 128)
	au.Process(buf, 128, 1)
	for i := range buf {
		if buf[i] != 0 {
			t.Fatalf("non-zero sample after reset (index %d)", i)
		}
	}
}
