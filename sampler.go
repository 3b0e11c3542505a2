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

// upperCorner returns the index of the upper interpolation corner for cell
// i on an axis of n cells. The last cell has no upper neighbour so the
// corner steps back onto the cell itself, as does a single-cell axis.
func upperCorner(i, n int) int {
	if i+1 > n-1 {
		return i
	}
	return i + 1
}

// SubgridSample fills dst with the bilinear interpolation of f between
// grid cell (i, j) and its upper neighbours onto an n×n patch, where n is
// f.SubSample. dst is row-major with the i direction varying fastest and
// must have length n*n. The four corner values are reproduced exactly at
// the patch corners.
func (f *Field) SubgridSample(i, j int, dst []float64) {
	n := f.SubSample
	i1 := upperCorner(i, f.NI())
	j1 := upperCorner(j, f.NJ())

	v0 := f.Get(i, j)
	v1 := f.Get(i1, j)
	v2 := f.Get(i, j1)
	v3 := f.Get(i1, j1)
	dv := v2 - v0

	d := 1 / float64(n-1)
	idx := 0
	for jj := 0; jj < n; jj++ {
		dj := d * float64(jj)
		for ii := 0; ii < n; ii++ {
			di := d * float64(ii)
			dst[idx] = v0 + (v1-v0)*di + (dv+(v3-v1-dv)*di)*dj
			idx++
		}
	}
}
