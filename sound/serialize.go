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
	"github.com/jetsetilly/tiasound/curated"
	"github.com/jetsetilly/tiasound/serializer"
	"github.com/jetsetilly/tiasound/tia"
)

// every saved state opens with this marker. field order after the marker is
// fixed: chip state, volume, muted, channels, enabled, lastSetCycle.
const saveStateName = "TIASound"

// Save writes the state of the sub-system to the serializer: the full chip
// state plus the playback parameters. The pending write queue is transient
// synthesis backlog and is not saved.
func (s *Synth) Save(w *serializer.Writer) error {
	s.crit.Lock()
	defer s.crit.Unlock()

	w.PutString(saveStateName)
	if err := s.gen.Save(w); err != nil {
		return curated.Errorf(SerializationError, err)
	}
	w.PutInt(int32(s.volume))
	w.PutBool(s.muted)
	w.PutByte(uint8(s.spec.Channels))
	w.PutBool(s.enabled)
	w.PutInt(s.lastSetCycle)

	if err := w.Error(); err != nil {
		return curated.Errorf(SerializationError, err)
	}
	return nil
}

// Load replaces the state of the sub-system with a state previously written
// by Save. On failure the sub-system is left exactly as it was; the new
// state is read and validated in full before any of it is committed.
//
// Loading clears the pending write queue.
func (s *Synth) Load(r *serializer.Reader) error {
	s.crit.Lock()
	defer s.crit.Unlock()

	if r.GetString() != saveStateName {
		if err := r.Error(); err != nil {
			return curated.Errorf(SerializationError, err)
		}
		return curated.Errorf(SerializationError, "not a sound save state")
	}

	gen := tia.NewAudio()
	if err := gen.Load(r); err != nil {
		return curated.Errorf(SerializationError, err)
	}

	volume := int(r.GetInt())
	muted := r.GetBool()
	channels := int(r.GetByte())
	enabled := r.GetBool()
	lastSetCycle := r.GetInt()

	if err := r.Error(); err != nil {
		return curated.Errorf(SerializationError, err)
	}

	if volume < 0 || volume > 100 {
		return curated.Errorf(SerializationError, "volume out of range in saved state")
	}
	if channels != 1 && channels != 2 {
		return curated.Errorf(SerializationError, "channel count out of range in saved state")
	}

	// commit
	s.gen = gen
	s.volume = volume
	s.muted = muted
	s.spec.Channels = channels
	s.enabled = enabled
	s.lastSetCycle = lastSetCycle
	s.queue.clear()

	return nil
}
