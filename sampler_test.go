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
)

func TestSubgridSampleCorners(t *testing.T) {
	for _, n := range []int{2, 3, 4, 7} {
		f := NewField("ME", 3, 3)
		f.SubSample = n
		for j := 0; j < 3; j++ {
			for i := 0; i < 3; i++ {
				f.Set(float64(10*j+i*i), i, j)
			}
		}
		dst := make([]float64, n*n)

		f.SubgridSample(0, 1, dst)
		corners := map[int]float64{
			0:           f.Get(0, 1),
			n - 1:       f.Get(1, 1),
			n * (n - 1): f.Get(0, 2),
			n*n - 1:     f.Get(1, 2),
		}
		for k, want := range corners {
			if dst[k] != want {
				t.Errorf("n=%d sample %d: have %g, want %g", n, k, dst[k], want)
			}
		}

		// The last cell has no upper neighbours and its patch is flat.
		f.SubgridSample(2, 2, dst)
		for k, v := range dst {
			if v != f.Get(2, 2) {
				t.Errorf("n=%d sample %d: have %g, want %g", n, k, v, f.Get(2, 2))
			}
		}
	}
}

func TestSubgridSampleBilinear(t *testing.T) {
	const n = 5
	f := NewField("ME", 4, 3)
	f.SubSample = n
	val := func(x, y float64) float64 { return 3*x - 2*y + 0.5*x*y + 7 }
	for j := 0; j < 3; j++ {
		for i := 0; i < 4; i++ {
			f.Set(val(float64(i), float64(j)), i, j)
		}
	}
	dst := make([]float64, n*n)
	f.SubgridSample(1, 0, dst)
	for jj := 0; jj < n; jj++ {
		for ii := 0; ii < n; ii++ {
			x := 1 + float64(ii)/(n-1)
			y := float64(jj) / (n - 1)
			if have, want := dst[jj*n+ii], val(x, y); math.Abs(have-want) > 1e-12 {
				t.Errorf("(%d,%d): have %g, want %g", ii, jj, have, want)
			}
		}
	}
}

func TestSubgridSampleEdges(t *testing.T) {
	const n = 3
	f := NewField("ME", 3, 2)
	f.SubSample = n
	for j := 0; j < 2; j++ {
		for i := 0; i < 3; i++ {
			f.Set(float64(i+5*j), i, j)
		}
	}
	dst := make([]float64, n*n)

	// Top row: the upper corners fall back onto the row itself, so the
	// patch only varies in the i direction.
	f.SubgridSample(0, 1, dst)
	want := []float64{5, 5.5, 6, 5, 5.5, 6, 5, 5.5, 6}
	for k := range want {
		if math.Abs(dst[k]-want[k]) > 1e-12 {
			t.Errorf("top row sample %d: have %g, want %g", k, dst[k], want[k])
		}
	}

	// Last column: only the j direction varies.
	f.SubgridSample(2, 0, dst)
	want = []float64{2, 2, 2, 4.5, 4.5, 4.5, 7, 7, 7}
	for k := range want {
		if math.Abs(dst[k]-want[k]) > 1e-12 {
			t.Errorf("last column sample %d: have %g, want %g", k, dst[k], want[k])
		}
	}
}
