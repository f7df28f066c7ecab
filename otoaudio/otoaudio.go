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

// Package otoaudio plays synthesized fragments through the oto library. An
// alternative to the sdlaudio package for hosts without SDL.
package otoaudio

import (
	"github.com/ebitengine/oto/v3"

	"github.com/jetsetilly/tiasound/curated"
	"github.com/jetsetilly/tiasound/logger"
	"github.com/jetsetilly/tiasound/sound"
)

// Error is the pattern for errors originating in the otoaudio package.
const Error = "otoaudio: %v"

// oto allows only one context per process. the context survives a
// Close()/Open() sequence of the Device.
var ctx *oto.Context
var ctxSampleFreq int
var ctxChannels int

// Device feeds an oto player that pulls fragments through the io.Reader it
// is constructed with. It implements the sound.Device interface.
type Device struct {
	player *oto.Player
}

// NewDevice is the preferred method of initialisation for the Device type.
func NewDevice() *Device {
	return &Device{}
}

// fragmentReader adapts a sound.FragmentSource to the io.Reader the oto
// player pulls from.
type fragmentReader struct {
	src    sound.FragmentSource
	stream []int16
	spec   sound.Spec
}

func (r *fragmentReader) Read(p []byte) (int, error) {
	frames := len(p) / (2 * r.spec.Channels)
	if frames > r.spec.Fragment {
		frames = r.spec.Fragment
	}
	if frames == 0 {
		return 0, nil
	}

	stream := r.stream[:frames*r.spec.Channels]
	r.src.ProcessFragment(stream, frames)

	for i, v := range stream {
		p[i*2] = byte(v)
		p[i*2+1] = byte(uint16(v) >> 8)
	}

	return frames * r.spec.Channels * 2, nil
}

// Open implements the sound.Device interface. The device starts pulling
// fragments as soon as the player is running.
func (dev *Device) Open(src sound.FragmentSource) error {
	if dev.player != nil {
		return curated.Errorf(Error, "device already open")
	}

	spec := src.Spec()

	if ctx != nil && (ctxSampleFreq != spec.SampleFreq || ctxChannels != spec.Channels) {
		return curated.Errorf(Error, "oto context cannot be reopened with a different spec")
	}

	if ctx == nil {
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   spec.SampleFreq,
			ChannelCount: spec.Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return curated.Errorf(Error, err)
		}
		<-ready
		ctx = c
		ctxSampleFreq = spec.SampleFreq
		ctxChannels = spec.Channels
	}

	dev.player = ctx.NewPlayer(&fragmentReader{
		src:    src,
		stream: make([]int16, spec.Fragment*spec.Channels),
		spec:   spec,
	})
	dev.player.Play()

	logger.Logf("otoaudio", "open: %dHz %dch fragment=%d", spec.SampleFreq, spec.Channels, spec.Fragment)
	return nil
}

// Close implements the sound.Device interface.
func (dev *Device) Close() error {
	if dev.player == nil {
		return nil
	}

	err := dev.player.Close()
	dev.player = nil

	logger.Log("otoaudio", "closed")

	if err != nil {
		return curated.Errorf(Error, err)
	}
	return nil
}
