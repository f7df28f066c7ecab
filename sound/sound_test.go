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
	"math"
	"testing"

	"github.com/jetsetilly/tiasound/test"
	"github.com/jetsetilly/tiasound/tia"
)

// openSynth returns a Synth with no playback device, opened and ready.
func openSynth(t *testing.T, spec Spec) *Synth {
	t.Helper()
	s := NewSynth(spec, nil)
	if err := s.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return s
}

// cycleAfter returns a cycle number seconds further on from the cycle given.
func cycleAfter(cycle int32, seconds float64) int32 {
	return cycle + int32(seconds*ClockRate)
}

func allZero(stream []int16) bool {
	for i := range stream {
		if stream[i] != 0 {
			return false
		}
	}
	return true
}

func TestFrameCountContract(t *testing.T) {
	s := openSynth(t, Spec{})

	// sentinel values beyond the requested frame count must survive
	buf := make([]int16, 1024)
	for i := range buf {
		buf[i] = 0x7f
	}

	s.ProcessFragment(buf, 600)

	for i := 0; i < 600; i++ {
		if buf[i] == 0x7f {
			// an unwritten frame would retain the sentinel. the chip is
			// silent so every written frame is zero
			t.Fatalf("frame %d not written", i)
		}
	}
	for i := 600; i < len(buf); i++ {
		if buf[i] != 0x7f {
			t.Fatalf("sample beyond requested frame count written (index %d)", i)
		}
	}
}

func TestWriteAppliedMidFragment(t *testing.T) {
	s := openSynth(t, Spec{})

	// a volume-only write due half way through the fragment. everything
	// before it is silence, everything after is a constant level
	s.Set(tia.AUDV0, 0x0f, cycleAfter(0, 256.0/float64(s.spec.SampleFreq)))

	buf := make([]int16, 512)
	s.ProcessFragment(buf, 512)

	first := -1
	for i := range buf {
		if buf[i] != 0 {
			first = i
			break
		}
	}

	if first == -1 {
		t.Fatalf("write never took effect")
	}
	if first < 254 || first > 257 {
		t.Fatalf("write took effect at frame %d, not mid-fragment", first)
	}
	for i := first; i < len(buf); i++ {
		if buf[i] == 0 {
			t.Fatalf("output fell silent after write (frame %d)", i)
		}
	}
}

func TestFractionalCarry(t *testing.T) {
	s := openSynth(t, Spec{})

	// a run of writes whose deltas do not align to sample boundaries. the
	// fragment must still account for every frame exactly once
	step := 13.7 / float64(s.spec.SampleFreq)
	cycle := int32(0)
	for i := 0; i < 30; i++ {
		cycle = cycleAfter(cycle, step)
		v := uint8(i) & 0x0f
		s.Set(tia.AUDV0, v, cycle)
	}

	buf := make([]int16, 512)
	for i := range buf {
		buf[i] = 0x7f
	}
	s.ProcessFragment(buf, 512)

	for i := range buf {
		if buf[i] == 0x7f {
			t.Fatalf("frame %d not written", i)
		}
	}
	test.Equate(t, s.queue.size(), 0)
}

func TestMuteSilence(t *testing.T) {
	s := openSynth(t, Spec{})

	// put the chip into a constant tone
	s.Set(tia.AUDV0, 0x0f, 0)
	buf := make([]int16, 512)
	s.ProcessFragment(buf, 512)
	test.ExpectedFailure(t, allZero(buf))

	s.Mute(true)
	s.ProcessFragment(buf, 512)
	test.ExpectedSuccess(t, allZero(buf))

	// writes made while muted still reach the chip, so unmuting resumes
	// with the new register values
	s.Set(tia.AUDV0, 0x07, 100)
	s.ProcessFragment(buf, 512)
	test.ExpectedSuccess(t, allZero(buf))

	s.Mute(false)
	s.ProcessFragment(buf, 512)
	test.ExpectedFailure(t, allZero(buf))
}

func TestVolume(t *testing.T) {
	s := openSynth(t, Spec{})
	s.Set(tia.AUDV0, 0x0f, 0)

	buf := make([]int16, 512)

	// zero volume yields silence without muting
	s.SetVolume(0)
	s.ProcessFragment(buf, 512)
	test.ExpectedSuccess(t, allZero(buf))

	// out-of-range values do not change the volume
	s.SetVolume(50)
	test.Equate(t, s.Volume(), 50)
	s.SetVolume(-5)
	test.Equate(t, s.Volume(), 50)
	s.SetVolume(150)
	test.Equate(t, s.Volume(), 50)

	// scaling is linear on amplitude
	s.SetVolume(100)
	full := make([]int16, 512)
	s.ProcessFragment(full, 512)

	s.SetVolume(50)
	half := make([]int16, 512)
	s.ProcessFragment(half, 512)

	// constant tone, so any frame will do for the comparison
	test.Equate(t, half[0], full[0]/2)
}

func TestAdjustVolume(t *testing.T) {
	s := openSynth(t, Spec{})

	s.SetVolume(99)
	s.AdjustVolume(1)
	test.Equate(t, s.Volume(), 100)
	s.AdjustVolume(1)
	test.Equate(t, s.Volume(), 100)

	s.SetVolume(1)
	s.AdjustVolume(-1)
	test.Equate(t, s.Volume(), 0)
	s.AdjustVolume(-1)
	test.Equate(t, s.Volume(), 0)

	s.AdjustVolume(1)
	test.Equate(t, s.Volume(), volumeStep)
}

func TestCycleAdjustTransparency(t *testing.T) {
	s := openSynth(t, Spec{})

	s.Set(tia.AUDV0, 0x0f, 1000)
	d1 := s.queue.duration()

	// the emulation rebases its cycle counter by -800. the write that would
	// have arrived at cycle 3000 now arrives at 2200. the computed delta
	// must be the same either way
	s.AdjustCycleCounter(-800)
	s.Set(tia.AUDV0, 0x07, 2200)

	d2 := s.queue.duration() - d1
	expected := 2000.0 / ClockRate
	if math.Abs(d2-expected) > 1e-12 {
		t.Errorf("cycle adjustment not transparent to timing (%e - wanted %e)", d2, expected)
	}
}

func TestCycleAdjustWhileClosed(t *testing.T) {
	// adjustment is pure bookkeeping and works before the sub-system is
	// even opened
	s := NewSynth(Spec{}, nil)
	s.AdjustCycleCounter(500)

	if err := s.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	s.Set(tia.AUDV0, 0x0f, 1500)
	expected := 1000.0 / ClockRate
	if math.Abs(s.queue.duration()-expected) > 1e-12 {
		t.Errorf("adjustment while closed was lost (%e - wanted %e)", s.queue.duration(), expected)
	}
}

func TestNegativeDeltaClamped(t *testing.T) {
	s := openSynth(t, Spec{})

	s.Set(tia.AUDV0, 0x0f, 1000)
	// a write from the past. timing input is malformed but must not corrupt
	// the queue
	s.Set(tia.AUDV0, 0x07, 500)

	test.Equate(t, s.queue.size(), 2)
	if s.queue.duration() < 0 {
		t.Errorf("negative delta left in queue")
	}
}

func TestDisabled(t *testing.T) {
	s := openSynth(t, Spec{})

	s.Set(tia.AUDV0, 0x0f, 0)
	buf := make([]int16, 512)
	s.ProcessFragment(buf, 512)
	test.ExpectedFailure(t, allZero(buf))

	s.SetEnabled(false)

	// writes are dropped while disabled
	s.Set(tia.AUDV0, 0x05, 1000)
	test.Equate(t, s.queue.size(), 0)

	// fragments are silent while disabled
	s.ProcessFragment(buf, 512)
	test.ExpectedSuccess(t, allZero(buf))

	s.SetEnabled(true)
	s.ProcessFragment(buf, 512)
	test.ExpectedFailure(t, allZero(buf))
}

func TestUninitialized(t *testing.T) {
	s := NewSynth(Spec{}, nil)

	// writes before Open() are dropped
	s.Set(tia.AUDV0, 0x0f, 0)
	test.Equate(t, s.queue.size(), 0)

	buf := make([]int16, 512)
	s.ProcessFragment(buf, 512)
	test.ExpectedSuccess(t, allZero(buf))
}

func TestReset(t *testing.T) {
	s := openSynth(t, Spec{})

	s.Set(tia.AUDV0, 0x0f, 0)
	buf := make([]int16, 512)
	s.ProcessFragment(buf, 512)
	test.ExpectedFailure(t, allZero(buf))

	s.Set(tia.AUDV0, 0x03, 50000)
	s.Reset()

	test.Equate(t, s.queue.size(), 0)
	test.Equate(t, s.lastSetCycle, 0)
	test.Equate(t, s.enabled, true)
	test.Equate(t, s.initialized, true)

	s.ProcessFragment(buf, 512)
	test.ExpectedSuccess(t, allZero(buf))
}

func TestBacklogTrim(t *testing.T) {
	s := openSynth(t, Spec{})

	// half a second of writes is far more than the trim threshold of eight
	// fragments
	cycle := int32(0)
	for i := 0; i < 10; i++ {
		cycle = cycleAfter(cycle, 0.05)
		s.Set(tia.AUDV0, uint8(i)&0x0f, cycle)
	}

	buf := make([]int16, 512)
	s.ProcessFragment(buf, 512)

	limit := float64(512) / float64(s.spec.SampleFreq) * overflowFragments
	if s.queue.duration() > limit {
		t.Errorf("backlog not trimmed (%.3fs remaining)", s.queue.duration())
	}
}

func TestStereoFragment(t *testing.T) {
	s := openSynth(t, Spec{Channels: 2})

	// only channel 0 sounds. in stereo the right samples stay silent
	s.Set(tia.AUDV0, 0x0f, 0)

	buf := make([]int16, 512*2)
	s.ProcessFragment(buf, 512)

	for i := 0; i < 512; i++ {
		if buf[i*2] == 0 {
			t.Fatalf("left sample silent (frame %d)", i)
		}
		if buf[i*2+1] != 0 {
			t.Fatalf("right sample not silent (frame %d)", i)
		}
	}
}

func TestSetChannels(t *testing.T) {
	s := openSynth(t, Spec{})
	test.Equate(t, s.Spec().Channels, 1)

	s.SetChannels(2)
	test.Equate(t, s.Spec().Channels, 2)

	// invalid channel counts are ignored
	s.SetChannels(3)
	test.Equate(t, s.Spec().Channels, 2)
	s.SetChannels(0)
	test.Equate(t, s.Spec().Channels, 2)

	s.SetChannels(1)
	test.Equate(t, s.Spec().Channels, 1)
}

func TestNull(t *testing.T) {
	n := NewNull()
	test.ExpectedSuccess(t, n.Open())

	buf := make([]int16, 256)
	for i := range buf {
		buf[i] = 0x7f
	}

	n.Set(tia.AUDV0, 0x0f, 0)
	n.ProcessFragment(buf, 256)
	test.ExpectedSuccess(t, allZero(buf))

	n.Close()
}
