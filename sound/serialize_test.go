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

package sound

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/tiasound/curated"
	"github.com/jetsetilly/tiasound/serializer"
	"github.com/jetsetilly/tiasound/test"
	"github.com/jetsetilly/tiasound/tia"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s1 := openSynth(t, Spec{Channels: 2})

	// put the sub-system into a non-default state
	s1.SetVolume(55)
	s1.Set(tia.AUDC0, 0x08, 0)
	s1.Set(tia.AUDF0, 0x05, 10)
	s1.Set(tia.AUDV0, 0x0a, 20)

	// the fragment applies the writes, advancing the chip away from its
	// power-on state and draining the queue
	buf := make([]int16, 512*2)
	s1.ProcessFragment(buf, 512)

	b := &bytes.Buffer{}
	w := serializer.NewWriter(b)
	test.ExpectedSuccess(t, s1.Save(w))

	s2 := openSynth(t, Spec{})
	r := serializer.NewReader(b)
	test.ExpectedSuccess(t, s2.Load(r))

	test.Equate(t, s2.volume, 55)
	test.Equate(t, s2.muted, false)
	test.Equate(t, s2.spec.Channels, 2)
	test.Equate(t, s2.enabled, true)
	test.Equate(t, s2.lastSetCycle, s1.lastSetCycle)

	// identical subsequent writes must produce bit-identical output
	cycle := int32(3000)
	s1.Set(tia.AUDV0, 0x0c, cycle)
	s2.Set(tia.AUDV0, 0x0c, cycle)

	b1 := make([]int16, 512*2)
	b2 := make([]int16, 512*2)
	s1.ProcessFragment(b1, 512)
	s2.ProcessFragment(b2, 512)

	for i := range b1 {
		if b1[i] != b2[i] {
			t.Fatalf("output diverges after load (index %d)", i)
		}
	}
}

func TestLoadFailureLeavesStateUnchanged(t *testing.T) {
	s := openSynth(t, Spec{})
	s.SetVolume(70)
	s.Mute(true)
	s.Set(tia.AUDV0, 0x0f, 100)

	// not a save state at all
	r := serializer.NewReader(bytes.NewReader([]byte("garbage")))
	err := s.Load(r)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Has(err, SerializationError))

	test.Equate(t, s.volume, 70)
	test.Equate(t, s.muted, true)
	test.Equate(t, s.queue.size(), 1)
}

func TestLoadTruncated(t *testing.T) {
	s := openSynth(t, Spec{})
	s.SetVolume(70)

	b := &bytes.Buffer{}
	w := serializer.NewWriter(b)
	test.ExpectedSuccess(t, s.Save(w))

	trunc := b.Bytes()[:b.Len()-2]
	s2 := openSynth(t, Spec{})
	r := serializer.NewReader(bytes.NewReader(trunc))
	test.ExpectedFailure(t, s2.Load(r))

	// prior state intact
	test.Equate(t, s2.volume, 100)
}

func TestLoadWrongMarker(t *testing.T) {
	b := &bytes.Buffer{}
	w := serializer.NewWriter(b)
	w.PutString("NotASoundState")

	s := openSynth(t, Spec{})
	test.ExpectedFailure(t, s.Load(serializer.NewReader(b)))
}

func TestLoadClearsQueue(t *testing.T) {
	s1 := openSynth(t, Spec{})
	b := &bytes.Buffer{}
	test.ExpectedSuccess(t, s1.Save(serializer.NewWriter(b)))

	s2 := openSynth(t, Spec{})
	s2.Set(tia.AUDV0, 0x0f, 100)
	test.Equate(t, s2.queue.size(), 1)

	test.ExpectedSuccess(t, s2.Load(serializer.NewReader(b)))
	test.Equate(t, s2.queue.size(), 0)
}
