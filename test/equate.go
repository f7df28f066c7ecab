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

package test

import (
	"testing"
)

// Equate is used to test equality between one value and another. Generally,
// both values must be of the same type but if a is of type uint16, uint8 or
// int32, b can be an untyped int. The reason for this is that a literal
// number value is of type int and it is convenient to write something like
// this, without having to cast the expected value:
//
//	var r uint16
//	r = someFunction()
//	test.Equate(t, r, 10)
func Equate(t *testing.T, value, expectedValue interface{}) {
	t.Helper()

	switch v := value.(type) {
	default:
		t.Fatalf("unhandled type for Equate() function (%T)", v)

	case int:
		if ev, ok := expectedValue.(int); !ok || v != ev {
			t.Errorf("equation of type %T failed (%d - wanted %v)", v, v, expectedValue)
		}

	case int32:
		switch ev := expectedValue.(type) {
		case int:
			if v != int32(ev) {
				t.Errorf("equation of type %T failed (%d - wanted %d)", v, v, ev)
			}
		case int32:
			if v != ev {
				t.Errorf("equation of type %T failed (%d - wanted %d)", v, v, ev)
			}
		default:
			t.Fatalf("values for Equate() are not compatible (%T and %T)", v, ev)
		}

	case int16:
		switch ev := expectedValue.(type) {
		case int:
			if v != int16(ev) {
				t.Errorf("equation of type %T failed (%d - wanted %d)", v, v, ev)
			}
		case int16:
			if v != ev {
				t.Errorf("equation of type %T failed (%d - wanted %d)", v, v, ev)
			}
		default:
			t.Fatalf("values for Equate() are not compatible (%T and %T)", v, ev)
		}

	case uint16:
		switch ev := expectedValue.(type) {
		case int:
			if v != uint16(ev) {
				t.Errorf("equation of type %T failed (%d - wanted %d)", v, v, ev)
			}
		case uint16:
			if v != ev {
				t.Errorf("equation of type %T failed (%d - wanted %d)", v, v, ev)
			}
		default:
			t.Fatalf("values for Equate() are not compatible (%T and %T)", v, ev)
		}

	case uint8:
		switch ev := expectedValue.(type) {
		case int:
			if v != uint8(ev) {
				t.Errorf("equation of type %T failed (%d - wanted %d)", v, v, ev)
			}
		case uint8:
			if v != ev {
				t.Errorf("equation of type %T failed (%d - wanted %d)", v, v, ev)
			}
		default:
			t.Fatalf("values for Equate() are not compatible (%T and %T)", v, ev)
		}

	case float64:
		switch ev := expectedValue.(type) {
		case int:
			if v != float64(ev) {
				t.Errorf("equation of type %T failed (%f - wanted %d)", v, v, ev)
			}
		case float64:
			if v != ev {
				t.Errorf("equation of type %T failed (%f - wanted %f)", v, v, ev)
			}
		default:
			t.Fatalf("values for Equate() are not compatible (%T and %T)", v, ev)
		}

	case string:
		if ev, ok := expectedValue.(string); !ok || v != ev {
			t.Errorf("equation of type %T failed (%s - wanted %v)", v, v, expectedValue)
		}

	case bool:
		if ev, ok := expectedValue.(bool); !ok || v != ev {
			t.Errorf("equation of type %T failed (%v - wanted %v)", v, v, expectedValue)
		}
	}
}
