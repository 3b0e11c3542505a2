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
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestRegularGrid(t *testing.T) {
	dx, dy := RegularGrid{Dx: 1000, Dy: 2000}.Resolution(5, 7)
	if dx != 1000 || dy != 2000 {
		t.Errorf("have (%g, %g), want (1000, 2000)", dx, dy)
	}
}

func TestLatLonGrid(t *testing.T) {
	degree := EarthRadius * math.Pi / 180
	g := LatLonGrid{Xo: -10, Yo: 0, Dlon: 1, Dlat: 0.5, NI: 20}

	// Equator.
	dx, dy := g.Resolution(10, 0)
	if !scalar.EqualWithinAbsOrRel(dx, degree, 1e-6, 1e-9) {
		t.Errorf("equator dx: have %g, want %g", dx, degree)
	}
	if !scalar.EqualWithinAbsOrRel(dy, degree/2, 1e-6, 1e-9) {
		t.Errorf("equator dy: have %g, want %g", dy, degree/2)
	}

	// 60°N: meridians are half as far apart.
	dx, dy = g.Resolution(3, 120)
	if !scalar.EqualWithinAbsOrRel(dx, degree/2, 1e-3, 1e-4) {
		t.Errorf("60°N dx: have %g, want %g", dx, degree/2)
	}
	if !scalar.EqualWithinAbsOrRel(dy, degree/2, 1e-6, 1e-9) {
		t.Errorf("60°N dy: have %g, want %g", dy, degree/2)
	}
}

func TestLatLonGridPole(t *testing.T) {
	g := LatLonGrid{Xo: 0, Yo: 90, Dlon: 2, Dlat: 1, NI: 180}
	dx, dy := g.Resolution(4, 0)
	if want := math.Pi * dy / 180; dx != want {
		t.Errorf("pole dx: have %g, want %g", dx, want)
	}
}

func TestProjGridLongLat(t *testing.T) {
	const ni, nj = 4, 3
	g, err := NewProjGrid("+proj=longlat", 9.5, 44.5, 1, 1, ni, nj)
	if err != nil {
		t.Fatal(err)
	}
	ll := LatLonGrid{Xo: 10, Yo: 45, Dlon: 1, Dlat: 1, NI: ni}
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			dx, dy := g.Resolution(i, j)
			wdx, wdy := ll.Resolution(i, j)
			if !scalar.EqualWithinAbsOrRel(dx, wdx, 1e-3, 1e-6) || !scalar.EqualWithinAbsOrRel(dy, wdy, 1e-3, 1e-6) {
				t.Errorf("(%d,%d): have (%g, %g), want (%g, %g)", i, j, dx, dy, wdx, wdy)
			}
		}
	}
}

func TestProjGridLambert(t *testing.T) {
	const lcc = "+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 +lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1"
	const d = 12000.
	g, err := NewProjGrid(lcc, -2*d, -2*d, d, d, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			dx, dy := g.Resolution(i, j)
			// Distances on the ground differ from projected distances by
			// the map scale factor, which is close to one here.
			if !scalar.EqualWithinRel(dx, d, 0.05) || !scalar.EqualWithinRel(dy, d, 0.05) {
				t.Errorf("(%d,%d): have (%g, %g), want about %g", i, j, dx, dy, d)
			}
		}
	}
}

func TestProjGridInvalid(t *testing.T) {
	if _, err := NewProjGrid("+proj=notaprojection", 0, 0, 1, 1, 2, 2); err == nil {
		t.Error("invalid projection should cause an error")
	}
}
