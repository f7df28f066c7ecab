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

// Package sound converts a stream of timestamped chip register writes into a
// continuous 16-bit PCM signal.
//
// The difficulty is that the two callers of this package run at independent,
// uncorrelated cadences. The emulated CPU calls Set() whenever it happens to
// touch an audio register; the playback device calls ProcessFragment()
// whenever its buffer runs low. The bridge between them is a queue of
// register writes, each stamped with the time elapsed since the write before
// it. When a fragment is synthesized, each due write is applied to the chip
// at its correct sample offset within the fragment - not at the fragment
// boundary - so a burst of writes between two fragments is still heard with
// its original timing.
//
// The Synth type is the working implementation. The Null type is a complete
// no-op, for running without audio at all. Both satisfy the Sound interface.
// Playback devices satisfy the Device interface and pull fragments through
// FragmentSource; the sdlaudio and otoaudio packages provide the real ones.
package sound
