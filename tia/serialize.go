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

import (
	"github.com/jetsetilly/tiasound/curated"
	"github.com/jetsetilly/tiasound/serializer"
)

// Error is the pattern for errors originating in the tia package.
const Error = "tia: %v"

func (ch *channel) save(w *serializer.Writer) {
	w.PutByte(ch.regControl)
	w.PutByte(ch.regFreq)
	w.PutByte(ch.regVolume)
	w.PutInt(int32(ch.poly4ct))
	w.PutInt(int32(ch.poly5ct))
	w.PutInt(int32(ch.poly9ct))
	w.PutByte(ch.div3ct)
	w.PutByte(ch.freqCt)
	w.PutByte(ch.actualVol)
}

func (ch *channel) load(r *serializer.Reader) error {
	ch.regControl = r.GetByte() & 0x0f
	ch.regFreq = r.GetByte() & 0x1f
	ch.regVolume = r.GetByte() & 0x0f
	ch.poly4ct = int(r.GetInt())
	ch.poly5ct = int(r.GetInt())
	ch.poly9ct = int(r.GetInt())
	ch.div3ct = r.GetByte()
	ch.freqCt = r.GetByte()

	// freq and useTenKhz are derived from the registers, not stored
	ch.react()

	// actualVol must be restored after react(), which changes it in the
	// volume-only modes
	ch.actualVol = r.GetByte()

	if err := r.Error(); err != nil {
		return err
	}

	if ch.poly4ct < 0 || ch.poly4ct >= len(poly4bit) ||
		ch.poly5ct < 0 || ch.poly5ct >= len(poly5bit) ||
		ch.poly9ct < 0 || ch.poly9ct >= len(poly9bit) {
		return curated.Errorf(Error, "polynomial counter out of range in saved state")
	}

	return nil
}

// Save writes the state of the Audio sub-system, including oscillator phase,
// to the serializer.
func (au *Audio) Save(w *serializer.Writer) error {
	au.channel0.save(w)
	au.channel1.save(w)
	w.PutByte(au.tenKhzCt)
	return w.Error()
}

// Load replaces the state of the Audio sub-system with the state in the
// serializer. On failure the Audio instance is in an undefined state; callers
// wanting atomicity should Load into a fresh instance and commit on success.
func (au *Audio) Load(r *serializer.Reader) error {
	if err := au.channel0.load(r); err != nil {
		return err
	}
	if err := au.channel1.load(r); err != nil {
		return err
	}
	au.tenKhzCt = r.GetByte()
	return r.Error()
}
