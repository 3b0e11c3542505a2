/*
Copyright © 2017 the geophy authors.
This file is part of geophy.

geophy is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

geophy is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with geophy.  If not, see <http://www.gnu.org/licenses/>.
*/

package geophy

import (
	"fmt"
	"math"
)

// VegetationRoughness holds the base roughness length [m] of each of the
// 26 vegetation types, indexed from 1.
var VegetationRoughness = [26]float64{
	0.001, 0.001, 0.001, 1.5, 3.5, 1.0, 2.0, 3.0, 0.8, 0.05,
	0.15, 0.15, 0.02, 0.08, 0.08, 0.08, 0.35, 0.25, 0.1, 0.08,
	1.35, 0.01, 0.05, 0.05, 1.5, 0.05,
}

// VegetationIndexError is returned for a vegetation type that is not in
// VegetationRoughness. I and J are the grid cell holding it, or -1 when
// the value did not come from a grid.
type VegetationIndexError struct {
	Value float64
	I, J  int
}

func (e *VegetationIndexError) Error() string {
	if e.I < 0 || e.J < 0 {
		return fmt.Sprintf("geophy: invalid vegetation type %g; valid types are 1 to %d",
			e.Value, len(VegetationRoughness))
	}
	return fmt.Sprintf("geophy: invalid vegetation type %g at grid cell (%d,%d); valid types are 1 to %d",
		e.Value, e.I, e.J, len(VegetationRoughness))
}

// vegetationIndex converts a vegetation type stored as a float to a
// zero-based index into VegetationRoughness.
func vegetationIndex(v float64) (int, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	k := int(math.Floor(v + 0.5))
	if k < 1 || k > len(VegetationRoughness) {
		return 0, false
	}
	return k - 1, true
}

// VegetationRoughnessLength returns the base roughness length [m] of
// vegetation type v.
func VegetationRoughnessLength(v float64) (float64, error) {
	k, ok := vegetationIndex(v)
	if !ok {
		return math.NaN(), &VegetationIndexError{Value: v, I: -1, J: -1}
	}
	return VegetationRoughness[k], nil
}

// checkVegetation returns an error for the first grid cell of vege holding
// an invalid vegetation type.
func checkVegetation(vege *Field) error {
	for j := 0; j < vege.NJ(); j++ {
		for i := 0; i < vege.NI(); i++ {
			v := vege.Get(i, j)
			if _, ok := vegetationIndex(v); !ok {
				return &VegetationIndexError{Value: v, I: i, J: j}
			}
		}
	}
	return nil
}
