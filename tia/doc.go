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

// Package tia implements the audio generation of the TIA chip. The polynomial
// counter approach is taken from Ron Fries' original TIASound.c (easily
// searchable) with modifications matching those made over the years in the
// Stella project. TIASound.c is published under the GNU Library GPL v2.0,
// Stella under the GNU GPL v2.0.
//
// The Audio type holds the two independent channel circuits. Process() fills
// a sample buffer from the current register state; Set() changes a register.
// When and in what order those two functions are called is the concern of the
// sound package, not of this one.
package tia
