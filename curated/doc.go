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

// Package curated is the error type used throughout the project. A curated
// error remembers the pattern string it was created with, meaning that errors
// can be tested by identity rather than by fragile string matching.
//
// Creation with the Errorf() function looks like error creation with the fmt
// package:
//
//	err := curated.Errorf("sound: %v", err)
//
// The Is() function compares an error against a pattern. The Has() function
// does the same but walks the chain of wrapped curated errors.
package curated
