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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Names of the input variables in NetCDF files.
const (
	TopographyVar = "ME"  // grid-cell topography [m], dims [y, x]
	VegetationVar = "VG"  // vegetation type, dims [y, x]
	SubgridVar    = "SUB" // sub-grid topography [m], dims [y, x, suby, subx]
)

// noDataAttribute is the variable attribute holding the NoData marker.
const noDataAttribute = "missing_value"

// LoadRoughnessInputs reads the topography, with its sub-grid samples,
// and the vegetation type from a NetCDF file.
func LoadRoughnessInputs(rw cdf.ReaderWriterAt) (topo, vege *Field, err error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, nil, fmt.Errorf("geophy: opening roughness inputs: %v", err)
	}
	if topo, err = ReadField(f, TopographyVar); err != nil {
		return nil, nil, err
	}
	if vege, err = ReadField(f, VegetationVar); err != nil {
		return nil, nil, err
	}
	sub, err := readArray(f, SubgridVar)
	if err != nil {
		return nil, nil, err
	}
	if err = topo.SetSubgrid(sub); err != nil {
		return nil, nil, err
	}
	if v, ok := noDataValue(f, SubgridVar); ok {
		topo.SubNoData = v
	}
	return topo, vege, nil
}

// ReadField reads the two-dimensional variable name from f.
func ReadField(f *cdf.File, name string) (*Field, error) {
	data, err := readArray(f, name)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 2 {
		return nil, fmt.Errorf("geophy: variable %s has %d dimensions but should have 2", name, len(data.Shape))
	}
	fld := &Field{Name: name, Data: data, NoData: DefaultNoData}
	if v, ok := noDataValue(f, name); ok {
		fld.NoData = v
	}
	return fld, nil
}

// noDataValue returns the NoData marker of variable name, if it has one.
func noDataValue(f *cdf.File, name string) (float64, bool) {
	switch v := f.Header.GetAttribute(name, noDataAttribute).(type) {
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []int32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int16:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []uint8:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	}
	return 0, false
}

// readArray reads variable name from f, whatever its numeric type.
func readArray(f *cdf.File, name string) (*sparse.DenseArray, error) {
	found := false
	for _, v := range f.Header.Variables() {
		if v == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("geophy: variable %s is not in the input file", name)
	}
	data := sparse.ZerosDense(f.Header.Lengths(name)...)
	r := f.Reader(name, nil, nil)
	buf := r.Zero(len(data.Elements))
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("geophy: reading variable %s: %v", name, err)
	}
	switch b := buf.(type) {
	case []float32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []float64:
		copy(data.Elements, b)
	case []int32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []int16:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []uint8:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("geophy: variable %s has unsupported type %T", name, buf)
	}
	return data, nil
}

// WriteFields writes fields to NetCDF file w. All fields must cover the
// same grid. Sub-grid samples are written as the variable SUB when the
// first field has them.
func WriteFields(w *os.File, fields ...*Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("geophy: no fields to write")
	}
	first := fields[0]
	for _, fld := range fields[1:] {
		if !first.sameShape(fld) {
			return fmt.Errorf("geophy: field %s grid %dx%d doesn't match field %s grid %dx%d",
				fld.Name, fld.NI(), fld.NJ(), first.Name, first.NI(), first.NJ())
		}
	}

	dims := []string{"x", "y"}
	lengths := []int{first.NI(), first.NJ()}
	if first.Sub != nil {
		dims = append(dims, "subx", "suby")
		lengths = append(lengths, first.SubSample, first.SubSample)
	}
	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "geophy geophysical fields")
	h.AddAttribute("", "nx", []int32{int32(first.NI())})
	h.AddAttribute("", "ny", []int32{int32(first.NJ())})
	for _, fld := range fields {
		h.AddVariable(fld.Name, []string{"y", "x"}, []float32{0})
		h.AddAttribute(fld.Name, noDataAttribute, []float32{float32(fld.NoData)})
	}
	if first.Sub != nil {
		h.AddVariable(SubgridVar, []string{"y", "x", "suby", "subx"}, []float32{0})
		h.AddAttribute(SubgridVar, noDataAttribute, []float32{float32(first.SubNoData)})
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("geophy: creating netcdf file: %v", err)
	}
	for _, fld := range fields {
		if err = writeNCF(f, fld.Name, fld.Data); err != nil {
			return fmt.Errorf("geophy: writing variable %s to netcdf file: %v", fld.Name, err)
		}
	}
	if first.Sub != nil {
		if err = writeNCF(f, SubgridVar, first.Sub); err != nil {
			return fmt.Errorf("geophy: writing variable %s to netcdf file: %v", SubgridVar, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeNCF(f *cdf.File, name string, data *sparse.DenseArray) error {
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	_, err := f.Writer(name, start, end).Write(data32)
	return err
}
