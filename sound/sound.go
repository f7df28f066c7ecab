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
	"fmt"
	"sync"

	"github.com/jetsetilly/tiasound/curated"
	"github.com/jetsetilly/tiasound/logger"
	"github.com/jetsetilly/tiasound/serializer"
	"github.com/jetsetilly/tiasound/tia"
)

// Error patterns for the sound package.
const (
	Error               = "sound: %v"
	InitializationError = "sound: initialization: %v"
	SerializationError  = "sound: serialization: %v"
)

// ClockRate is the rate of the clock stamping register writes - the 6507 CPU
// clock of the console. It is a property of the emulated hardware, not a
// configuration value.
const ClockRate = 1193191.66666667

// AdjustVolume moves the volume by this many percentage points per call.
const volumeStep = 2

// the backlog trim kicks in when the queue holds more than this many
// fragments worth of writes, and trims down to half of it. see
// trimBacklog()
const overflowFragments = 8

// Spec describes the PCM stream a Synth produces.
type Spec struct {
	// frames per second. zero means tia.SampleFreq
	SampleFreq int

	// frames per fragment. used by devices to size their buffers and by the
	// backlog trim. zero means 512
	Fragment int

	// 1 (mono) or 2 (stereo)
	Channels int
}

func (sp Spec) String() string {
	return fmt.Sprintf("%dHz %dch fragment=%d", sp.SampleFreq, sp.Channels, sp.Fragment)
}

// Sound is the capability required of a sound sub-system, as seen by the
// emulation. The Synth type is the real implementation and the Null type is
// a no-op for headless operation. Which to use is decided at construction.
type Sound interface {
	Set(addr uint16, value uint8, cycle int32)
	ProcessFragment(stream []int16, frames int)
	Open() error
	Close()
	Reset()
	SetEnabled(enable bool)
	Mute(muted bool)
	SetChannels(channels int)
	SetVolume(percent int)
	AdjustVolume(direction int)
	AdjustCycleCounter(amount int32)
	Save(w *serializer.Writer) error
	Load(r *serializer.Reader) error
}

// FragmentSource is the view of a Synth that a playback Device needs: a way
// to pull fragments, and the stream parameters to open the device with.
type FragmentSource interface {
	ProcessFragment(stream []int16, frames int)
	Spec() Spec
}

// Device is a playback backend. Open() should begin pulling fragments from
// the source at its own cadence; Close() must stop pulling, and must not
// return while a pull is in flight.
type Device interface {
	Open(src FragmentSource) error
	Close() error
}

// Synth is the working implementation of the Sound interface.
type Synth struct {
	// crit guards everything below it. Set() and ProcessFragment() arrive
	// from different goroutines
	crit sync.Mutex

	spec   Spec
	device Device

	gen   *tia.Audio
	queue regWriteQueue

	enabled     bool
	initialized bool
	muted       bool
	volume      int

	// the cycle at which a register was last set. deltas for incoming writes
	// are measured from here
	lastSetCycle int32
}

// NewSynth is the preferred method of initialisation for the Synth type.
//
// The device argument may be nil, in which case Open() succeeds without
// acquiring any backend resources and fragments are produced only when the
// caller asks for them. Useful for offline synthesis and for testing.
func NewSynth(spec Spec, device Device) *Synth {
	if spec.SampleFreq <= 0 {
		spec.SampleFreq = tia.SampleFreq
	}
	if spec.Fragment <= 0 {
		spec.Fragment = 512
	}
	if spec.Channels != 2 {
		spec.Channels = 1
	}

	return &Synth{
		spec:    spec,
		device:  device,
		gen:     tia.NewAudio(),
		queue:   newRegWriteQueue(defaultQueueCapacity),
		enabled: true,
		volume:  100,
	}
}

// Spec implements the FragmentSource interface.
func (s *Synth) Spec() Spec {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.spec
}

func (s *Synth) String() string {
	s.crit.Lock()
	defer s.crit.Unlock()
	return fmt.Sprintf("%s vol=%d%% muted=%v enabled=%v pending=%d",
		s.spec, s.volume, s.muted, s.enabled, s.queue.size())
}

// Open acquires the playback backend and starts audio production. If the
// backend cannot be acquired the Synth stays uninitialized: subsequent Set()
// and ProcessFragment() calls degrade to no-ops rather than erroring.
func (s *Synth) Open() error {
	s.crit.Lock()
	if s.initialized {
		s.crit.Unlock()
		return nil
	}
	s.crit.Unlock()

	// the device is opened outside of the critical section. it may start
	// pulling fragments immediately and a pull must not deadlock against us.
	// fragments pulled before initialized is set are silent, which is fine
	var err error
	if s.device != nil {
		err = s.device.Open(s)
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	if err != nil {
		s.initialized = false
		return curated.Errorf(InitializationError, err)
	}

	s.initialized = true
	logger.Logf("sound", "open: %s", s.spec)
	return nil
}

// Close suspends audio production and releases the playback backend.
// Playback state is retained for a subsequent Open().
func (s *Synth) Close() {
	s.crit.Lock()
	wasInitialized := s.initialized
	s.initialized = false
	s.crit.Unlock()

	if !wasInitialized {
		return
	}

	if s.device != nil {
		if err := s.device.Close(); err != nil {
			logger.Logf("sound", "close: %v", err)
		}
	}
	logger.Log("sound", "closed")
}

// Reset clears the pending write queue and returns the chip to its power-on
// state. The enabled and initialized flags are not changed.
func (s *Synth) Reset() {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.queue.clear()
	s.gen.Reset()
	s.lastSetCycle = 0
}

// Set queues a change to one of the chip's registers, stamped with the cycle
// at which the emulated CPU performed the write. The chip itself is not
// touched until the write's moment comes around during fragment synthesis.
//
// A no-op if the sub-system is uninitialized or disabled.
func (s *Synth) Set(addr uint16, value uint8, cycle int32) {
	s.crit.Lock()
	defer s.crit.Unlock()

	if !s.initialized || !s.enabled {
		return
	}

	// cycle arithmetic wraps. a delta can only be negative if the cycle
	// counter was rebased without AdjustCycleCounter() being called; clamp
	// rather than corrupt the queue
	delta := float64(cycle-s.lastSetCycle) / ClockRate
	if delta < 0 {
		delta = 0
	}

	s.queue.enqueue(regWrite{addr: addr, value: value, delta: delta})
	s.lastSetCycle = cycle
}

// AdjustCycleCounter must be called whenever the emulation rebases its cycle
// counter (frame wraparound, state load, etc). The reference cycle moves by
// the same amount so the next Set() produces the delta it would have without
// the rebase.
//
// This is pure bookkeeping, not audio production - it works even while the
// sub-system is disabled or closed. A missed adjustment corrupts the next
// write's timing permanently.
func (s *Synth) AdjustCycleCounter(amount int32) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.lastSetCycle += amount
}

// SetEnabled toggles whether the sub-system participates at all. While
// disabled, register writes are dropped and fragments are silent.
func (s *Synth) SetEnabled(enable bool) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.enabled = enable
}

// Mute silences output without stopping the sub-system: register writes are
// still accepted and still reach the chip on schedule, so unmuting resumes
// in a musically continuous state.
func (s *Synth) Mute(muted bool) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.muted = muted
}

// SetChannels sets the interleave of subsequent fragments to mono (1) or
// stereo (2). Any other value is ignored.
func (s *Synth) SetChannels(channels int) {
	s.crit.Lock()
	defer s.crit.Unlock()
	if channels != 1 && channels != 2 {
		return
	}
	s.spec.Channels = channels
}

// SetVolume sets the volume as a percentage. Values outside of 0 to 100 mean
// "leave the volume alone" - they are ignored, not clamped.
func (s *Synth) SetVolume(percent int) {
	s.crit.Lock()
	defer s.crit.Unlock()
	if percent < 0 || percent > 100 {
		return
	}
	s.volume = percent
}

// AdjustVolume moves the volume one step in the given direction (1 or -1),
// clamping at the ends of the range.
func (s *Synth) AdjustVolume(direction int) {
	s.crit.Lock()
	defer s.crit.Unlock()

	v := s.volume
	if direction > 0 {
		v += volumeStep
	} else if direction < 0 {
		v -= volumeStep
	}

	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	s.volume = v
}

// Volume returns the current volume percentage.
func (s *Synth) Volume() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.volume
}

// ProcessFragment produces exactly the requested number of frames into
// stream, interleaved according to the channel count. Pending register
// writes that fall within the fragment's time budget are applied to the chip
// at their correct sample offset.
//
// If the sub-system is uninitialized or disabled the stream is zero-filled.
func (s *Synth) ProcessFragment(stream []int16, frames int) {
	s.crit.Lock()
	defer s.crit.Unlock()

	channels := s.spec.Channels
	if frames*channels > len(stream) {
		frames = len(stream) / channels
	}
	stream = stream[:frames*channels]

	if !s.initialized || !s.enabled {
		zeroFill(stream)
		return
	}

	s.trimBacklog(frames)

	// position and remaining walk the fragment in units of frames but are
	// floating point: register writes rarely land on a sample boundary and
	// the fractional part must carry from write to write, never truncate
	position := 0.0
	remaining := float64(frames)

	for remaining > 0 {
		if s.queue.size() == 0 {
			// no more pending writes. the current chip settings play out to
			// the end of the fragment
			s.synthesize(stream, int(position), frames-int(position))

			// the emulation is now behind the audio. deltas resume from
			// zero so that emulator idle time is not added to the backlog
			s.lastSetCycle = 0
			break
		}

		w := s.queue.front()

		// how long the remaining samples of the fragment take to play
		budget := remaining / float64(s.spec.SampleFreq)

		if w.delta > budget {
			// the write is due in a later fragment. finish this fragment
			// with the current settings and note how much of the write's
			// delay this fragment has consumed
			s.synthesize(stream, int(position), frames-int(position))
			w.delta -= budget
			break
		}

		if w.delta > 0 {
			// synthesize up to the point of the write. the sample count is
			// rounded so that the integer samples emitted always bracket
			// the exact fractional position
			samples := float64(s.spec.SampleFreq) * w.delta
			count := int(samples) + int(position+samples) - (int(position) + int(samples))
			s.synthesize(stream, int(position), count)
			position += samples
			remaining -= samples
		}

		s.gen.Set(w.addr, w.value)
		s.queue.dequeue()
	}
}

// synthesize generates count frames at the given frame offset, honouring the
// mute and volume settings. counts that fall outside the stream (possible at
// the fragment edge after fractional arithmetic) are clipped.
func (s *Synth) synthesize(stream []int16, offset int, count int) {
	channels := s.spec.Channels
	frames := len(stream) / channels

	if offset < 0 {
		offset = 0
	}
	if offset+count > frames {
		count = frames - offset
	}
	if count <= 0 {
		return
	}

	region := stream[offset*channels : (offset+count)*channels]

	// mute skips synthesis altogether. the chip's registers still advance,
	// through the writes applied by ProcessFragment, so unmuting is
	// musically continuous
	if s.muted {
		zeroFill(region)
		return
	}

	s.gen.Process(region, count, channels)

	if s.volume != 100 {
		for i := range region {
			region[i] = int16(int32(region[i]) * int32(s.volume) / 100)
		}
	}
}

// trimBacklog applies and discards the oldest queued writes when the queue
// represents more time than the consumer can catch up on. without the trim,
// an emulation running faster than real time would grow the queue without
// bound and the audio would lag ever further behind.
func (s *Synth) trimBacklog(frames int) {
	fragDur := float64(frames) / float64(s.spec.SampleFreq)
	if s.queue.duration() <= fragDur*overflowFragments {
		return
	}

	for s.queue.size() > 0 && s.queue.duration() > fragDur*overflowFragments/2 {
		w := s.queue.front()
		s.gen.Set(w.addr, w.value)
		s.queue.dequeue()
	}

	logger.Logf("sound", "backlog trimmed to %.0fms", s.queue.duration()*1000)
}

func zeroFill(stream []int16) {
	for i := range stream {
		stream[i] = 0
	}
}
