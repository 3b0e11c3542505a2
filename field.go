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

// Package geophy calculates geophysical fields for numerical weather
// prediction models. Its main product is the sub-grid orographic
// roughness length of Grant and Mason, derived from a fine-resolution
// sampling of the terrain inside each model grid cell.
package geophy

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// DefaultNoData is the value marking invalid samples in fields that do
// not specify their own.
const DefaultNoData = -99999.

// Field is a two-dimensional gridded variable. Data is stored with shape
// [NJ, NI], so that the fastest-varying index is the West-East (i) index.
type Field struct {
	// Name is the variable name, used when reading and writing files.
	Name string

	// Data holds the gridded values.
	Data *sparse.DenseArray

	// NoData marks invalid values in Data.
	NoData float64

	// SubNoData marks invalid values in Sub. SetSubgrid initializes it
	// to NoData.
	SubNoData float64

	// SubSample is the number of sub-grid samples along each axis of a
	// grid cell. It is zero when no sub-grid data has been set.
	SubSample int

	// Sub holds the sub-grid samples with shape [NJ, NI, SubSample, SubSample].
	Sub *sparse.DenseArray
}

// NewField returns an empty field with ni West-East and nj South-North
// grid cells.
func NewField(name string, ni, nj int) *Field {
	return &Field{
		Name:   name,
		Data:   sparse.ZerosDense(nj, ni),
		NoData: DefaultNoData,
	}
}

// NI is the number of grid cells in the West-East direction.
func (f *Field) NI() int { return f.Data.Shape[1] }

// NJ is the number of grid cells in the South-North direction.
func (f *Field) NJ() int { return f.Data.Shape[0] }

// Get returns the value at grid index (i, j).
func (f *Field) Get(i, j int) float64 { return f.Data.Get(j, i) }

// Set sets the value at grid index (i, j).
func (f *Field) Set(v float64, i, j int) { f.Data.Set(v, j, i) }

// Valid returns whether v is not the NoData marker.
func (f *Field) Valid(v float64) bool { return v != f.NoData }

// ValidSub returns whether sub-grid sample v is not the SubNoData marker.
func (f *Field) ValidSub(v float64) bool { return v != f.SubNoData }

// SetSubgrid installs sub-grid samples for f. sub must have the shape
// [NJ, NI, n, n] with n >= 2.
func (f *Field) SetSubgrid(sub *sparse.DenseArray) error {
	if sub == nil {
		return fmt.Errorf("geophy: field %s: nil sub-grid data", f.Name)
	}
	if len(sub.Shape) != 4 {
		return fmt.Errorf("geophy: field %s: sub-grid data must have 4 dimensions but has %d",
			f.Name, len(sub.Shape))
	}
	if sub.Shape[0] != f.NJ() || sub.Shape[1] != f.NI() {
		return fmt.Errorf("geophy: field %s: sub-grid data shape %v doesn't match grid %dx%d",
			f.Name, sub.Shape, f.NI(), f.NJ())
	}
	n := sub.Shape[2]
	if sub.Shape[3] != n {
		return fmt.Errorf("geophy: field %s: sub-grid samples must be square but are %dx%d",
			f.Name, sub.Shape[3], n)
	}
	if n < 2 {
		return fmt.Errorf("geophy: field %s: need at least 2 sub-grid samples per axis, have %d",
			f.Name, n)
	}
	f.Sub = sub
	f.SubSample = n
	f.SubNoData = f.NoData
	return nil
}

// subPatch returns the sub-grid samples of grid cell (i, j) in row-major
// order. The returned slice shares memory with f.Sub.
func (f *Field) subPatch(i, j int) []float64 {
	s := f.SubSample * f.SubSample
	start := (j*f.NI() + i) * s
	return f.Sub.Elements[start : start+s]
}

// sameShape returns whether f and o cover the same grid.
func (f *Field) sameShape(o *Field) bool {
	return f.NI() == o.NI() && f.NJ() == o.NJ()
}

// Copy returns a deep copy of f.
func (f *Field) Copy() *Field {
	o := &Field{
		Name:      f.Name,
		Data:      f.Data.Copy(),
		NoData:    f.NoData,
		SubNoData: f.SubNoData,
		SubSample: f.SubSample,
	}
	if f.Sub != nil {
		o.Sub = f.Sub.Copy()
	}
	return o
}
