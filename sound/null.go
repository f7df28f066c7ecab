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
	"github.com/jetsetilly/tiasound/serializer"
)

// Null is a Sound implementation that does nothing at all. For headless
// operation, when the host has no audio or the user wants none. Fragments
// are zero-filled so callers depending on the frame-count contract still
// work.
type Null struct{}

// NewNull is the preferred method of initialisation for the Null type.
func NewNull() *Null {
	return &Null{}
}

// Set implements the Sound interface.
func (n *Null) Set(_ uint16, _ uint8, _ int32) {
}

// ProcessFragment implements the Sound interface.
func (n *Null) ProcessFragment(stream []int16, _ int) {
	zeroFill(stream)
}

// Open implements the Sound interface.
func (n *Null) Open() error {
	return nil
}

// Close implements the Sound interface.
func (n *Null) Close() {
}

// Reset implements the Sound interface.
func (n *Null) Reset() {
}

// SetEnabled implements the Sound interface.
func (n *Null) SetEnabled(_ bool) {
}

// Mute implements the Sound interface.
func (n *Null) Mute(_ bool) {
}

// SetChannels implements the Sound interface.
func (n *Null) SetChannels(_ int) {
}

// SetVolume implements the Sound interface.
func (n *Null) SetVolume(_ int) {
}

// AdjustVolume implements the Sound interface.
func (n *Null) AdjustVolume(_ int) {
}

// AdjustCycleCounter implements the Sound interface.
func (n *Null) AdjustCycleCounter(_ int32) {
}

// Save implements the Sound interface.
func (n *Null) Save(_ *serializer.Writer) error {
	return nil
}

// Load implements the Sound interface.
func (n *Null) Load(_ *serializer.Reader) error {
	return nil
}

// interface sanity checks
var _ Sound = (*Synth)(nil)
var _ Sound = (*Null)(nil)
var _ FragmentSource = (*Synth)(nil)
