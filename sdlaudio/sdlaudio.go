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

// Package sdlaudio plays synthesized fragments through SDL.
package sdlaudio

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/tiasound/curated"
	"github.com/jetsetilly/tiasound/logger"
	"github.com/jetsetilly/tiasound/sound"
)

// Error is the pattern for errors originating in the sdlaudio package.
const Error = "sdlaudio: %v"

// no more than this many fragments sit in the device queue at once. a small
// number keeps latency down; too small and an uneven pull cadence causes
// underruns. found through trial and error, the precise value is not
// critical.
const queuedFragmentLimit = 3

// Device pulls fragments from a sound.FragmentSource and queues them on an
// SDL audio device. It implements the sound.Device interface.
type Device struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	quit chan struct{}
	done chan struct{}
}

// NewDevice is the preferred method of initialisation for the Device type.
func NewDevice() *Device {
	return &Device{}
}

// Open implements the sound.Device interface. The device starts pulling
// fragments immediately.
func (dev *Device) Open(src sound.FragmentSource) error {
	if dev.quit != nil {
		return curated.Errorf(Error, "device already open")
	}

	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return curated.Errorf(Error, err)
	}

	spec := src.Spec()

	request := &sdl.AudioSpec{
		Freq:     int32(spec.SampleFreq),
		Format:   sdl.AUDIO_S16LSB,
		Channels: uint8(spec.Channels),
		Samples:  uint16(spec.Fragment),
	}

	var actual sdl.AudioSpec

	id, err := sdl.OpenAudioDevice("", false, request, &actual, 0)
	if err != nil {
		return curated.Errorf(Error, err)
	}

	dev.id = id
	dev.spec = actual
	dev.quit = make(chan struct{})
	dev.done = make(chan struct{})

	go dev.pump(src, spec)

	sdl.PauseAudioDevice(dev.id, false)

	logger.Logf("sdlaudio", "open: %dHz %dch fragment=%d", actual.Freq, actual.Channels, actual.Samples)
	return nil
}

// pump pulls one fragment per fragment period, skipping a pull whenever the
// device queue is already full enough.
func (dev *Device) pump(src sound.FragmentSource, spec sound.Spec) {
	defer close(dev.done)

	stream := make([]int16, spec.Fragment*spec.Channels)
	raw := make([]byte, len(stream)*2)

	period := time.Duration(float64(spec.Fragment) / float64(spec.SampleFreq) * float64(time.Second))
	tck := time.NewTicker(period)
	defer tck.Stop()

	for {
		select {
		case <-dev.quit:
			return
		case <-tck.C:
		}

		if sdl.GetQueuedAudioSize(dev.id) > uint32(len(raw)*queuedFragmentLimit) {
			continue
		}

		src.ProcessFragment(stream, spec.Fragment)

		for i, v := range stream {
			raw[i*2] = byte(v)
			raw[i*2+1] = byte(uint16(v) >> 8)
		}

		if err := sdl.QueueAudio(dev.id, raw); err != nil {
			logger.Logf("sdlaudio", "queue: %v", err)
		}
	}
}

// Close implements the sound.Device interface. It does not return until the
// pull goroutine has stopped.
func (dev *Device) Close() error {
	if dev.quit == nil {
		return nil
	}

	close(dev.quit)
	<-dev.done
	dev.quit = nil

	sdl.PauseAudioDevice(dev.id, true)
	sdl.ClearQueuedAudio(dev.id)
	sdl.CloseAudioDevice(dev.id)

	logger.Log("sdlaudio", "closed")
	return nil
}
