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

// Package wavwriter allows writing of synthesized audio to disk as a WAV
// file. Note that audio data is buffered in memory in its entirety and
// written to disk by EndWriting(). It is therefore probably only suitable
// for capturing short transcripts and for testing purposes.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/tiasound/curated"
	"github.com/jetsetilly/tiasound/logger"
	"github.com/jetsetilly/tiasound/sound"
)

// Error is the pattern for errors originating in the wavwriter package.
const Error = "wavwriter: %v"

// WavWriter accumulates synthesized fragments and encodes them as a WAV
// file.
type WavWriter struct {
	filename string
	spec     sound.Spec
	buffer   []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string, spec sound.Spec) *WavWriter {
	return &WavWriter{
		filename: filename,
		spec:     spec,
		buffer:   make([]int, 0, spec.SampleFreq*spec.Channels),
	}
}

// Write appends a stream of interleaved samples to the in-memory buffer.
func (aw *WavWriter) Write(stream []int16) {
	for _, v := range stream {
		aw.buffer = append(aw.buffer, int(v))
	}
}

// EndWriting encodes the buffered samples and writes them to disk.
func (aw *WavWriter) EndWriting() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf(Error, err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf(Error, err)
		}
	}()

	enc := wav.NewEncoder(f, aw.spec.SampleFreq, 16, aw.spec.Channels, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: aw.spec.Channels,
			SampleRate:  aw.spec.SampleFreq,
		},
		Data:           aw.buffer,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return curated.Errorf(Error, err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf(Error, err)
	}

	logger.Logf("wavwriter", "%d frames written to %s",
		len(aw.buffer)/aw.spec.Channels, aw.filename)

	return nil
}
