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
	"io/ioutil"
	"os"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

func TestWriteLoadRoughnessInputs(t *testing.T) {
	topo, vege := roughnessInputs(t, 3, 2, 4, 7, func(i, j, ii, jj int) float64 {
		return float64(ii - jj)
	})
	// Values must survive conversion to float32.
	for k, v := range topo.Sub.Elements {
		topo.Sub.Elements[k] = float64(float32(v))
	}
	topo.Sub.Elements[5] = topo.NoData

	f, err := ioutil.TempFile("", "geophy_inputs")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err = WriteFields(f, topo, vege); err != nil {
		t.Fatal(err)
	}
	topo2, vege2, err := LoadRoughnessInputs(f)
	if err != nil {
		t.Fatal(err)
	}
	if topo2.SubSample != 4 {
		t.Errorf("subsample: have %d, want 4", topo2.SubSample)
	}
	if topo2.NoData != topo.NoData {
		t.Errorf("nodata: have %g, want %g", topo2.NoData, topo.NoData)
	}
	if topo2.SubNoData != topo.SubNoData {
		t.Errorf("sub-grid nodata: have %g, want %g", topo2.SubNoData, topo.SubNoData)
	}
	for _, c := range []struct {
		name       string
		have, want []float64
	}{
		{"ME", topo2.Data.Elements, topo.Data.Elements},
		{"VG", vege2.Data.Elements, vege.Data.Elements},
		{"SUB", topo2.Sub.Elements, topo.Sub.Elements},
	} {
		if len(c.have) != len(c.want) {
			t.Fatalf("%s: have %d elements, want %d", c.name, len(c.have), len(c.want))
		}
		for k := range c.want {
			if c.have[k] != c.want[k] {
				t.Errorf("%s element %d: have %g, want %g", c.name, k, c.have[k], c.want[k])
			}
		}
	}
}

func TestLoadRoughnessInputsMissing(t *testing.T) {
	f, err := ioutil.TempFile("", "geophy_missing")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	// No sub-grid samples and no vegetation.
	if err = WriteFields(f, NewField(TopographyVar, 2, 2)); err != nil {
		t.Fatal(err)
	}
	if _, _, err = LoadRoughnessInputs(f); err == nil {
		t.Error("missing variables should cause an error")
	}
}

func TestReadFieldDimensions(t *testing.T) {
	topo, vege := roughnessInputs(t, 2, 2, 2, 1, noBump)
	f, err := ioutil.TempFile("", "geophy_dims")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()
	if err = WriteFields(f, topo, vege); err != nil {
		t.Fatal(err)
	}
	cf, err := cdf.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = ReadField(cf, SubgridVar); err == nil {
		t.Error("reading a 4-D variable as a field should cause an error")
	}
}

func TestWriteFieldsMismatch(t *testing.T) {
	f, err := ioutil.TempFile("", "geophy_mismatch")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()
	if err = WriteFields(f, NewField("A", 2, 2), NewField("B", 3, 2)); err == nil {
		t.Error("fields with different grids should cause an error")
	}
}

// writeShortInputs writes a ni×nj grid with int16 topography and
// vegetation and float32 sub-grid samples, each variable with its own
// missing_value.
func writeShortInputs(t *testing.T, w *os.File, ni, nj, n int, me, vg int16, sub []float32, meMissing int16, subMissing float32) {
	h := cdf.NewHeader([]string{"x", "y", "subx", "suby"}, []int{ni, nj, n, n})
	h.AddVariable(TopographyVar, []string{"y", "x"}, []int16{0})
	h.AddAttribute(TopographyVar, noDataAttribute, []int16{meMissing})
	h.AddVariable(VegetationVar, []string{"y", "x"}, []int16{0})
	h.AddVariable(SubgridVar, []string{"y", "x", "suby", "subx"}, []float32{0})
	h.AddAttribute(SubgridVar, noDataAttribute, []float32{subMissing})
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	meData := make([]int16, ni*nj)
	vgData := make([]int16, ni*nj)
	for k := range meData {
		meData[k] = me
		vgData[k] = vg
	}
	meData[0] = meMissing
	for _, v := range []struct {
		name string
		data interface{}
	}{
		{TopographyVar, meData},
		{VegetationVar, vgData},
		{SubgridVar, sub},
	} {
		end := f.Header.Lengths(v.name)
		if _, err = f.Writer(v.name, make([]int, len(end)), end).Write(v.data); err != nil {
			t.Fatalf("writing %s: %v", v.name, err)
		}
	}
	if err = cdf.UpdateNumRecs(w); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRoughnessInputsNoData(t *testing.T) {
	const (
		ni, nj, n  = 2, 2, 3
		meMissing  = int16(-32768)
		subMissing = float32(-1e30)
	)
	sub := make([]float32, ni*nj*n*n)
	for k := range sub {
		sub[k] = 100
	}
	sub[4] = subMissing
	sub[len(sub)-1] = subMissing

	f, err := ioutil.TempFile("", "geophy_nodata")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()
	writeShortInputs(t, f, ni, nj, n, 100, 10, sub, meMissing, subMissing)

	topo, vege, err := LoadRoughnessInputs(f)
	if err != nil {
		t.Fatal(err)
	}
	if topo.NoData != float64(meMissing) {
		t.Errorf("topography nodata: have %g, want %d", topo.NoData, meMissing)
	}
	if topo.Valid(topo.Get(0, 0)) {
		t.Errorf("topography value %g should be invalid", topo.Get(0, 0))
	}
	if topo.SubNoData != float64(subMissing) {
		t.Errorf("sub-grid nodata: have %g, want %g", topo.SubNoData, subMissing)
	}
	if vege.NoData != DefaultNoData {
		t.Errorf("vegetation nodata: have %g, want %g", vege.NoData, DefaultNoData)
	}

	// Give the topography a valid flat surface so that only the sub-grid
	// markers could disturb the result.
	topo.Data = sparse.ZerosDense(nj, ni)
	for k := range topo.Data.Elements {
		topo.Data.Elements[k] = 100
	}
	o := NewOrographicRoughness(RegularGrid{Dx: 1000, Dy: 1000})
	o.Log = quietLogger()
	r, err := o.Compute(topo, vege)
	if err != nil {
		t.Fatal(err)
	}
	wantZZ := RoughnessLength(0, 0, VegetationRoughness[9])
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			if dh := r.DH.Get(i, j); dh != 0 {
				t.Errorf("DH(%d,%d): have %g, want 0", i, j, dh)
			}
			if lh := r.LH.Get(i, j); lh != 0 {
				t.Errorf("LH(%d,%d): have %g, want 0", i, j, lh)
			}
			if zz := r.ZZ.Get(i, j); zz != wantZZ {
				t.Errorf("ZZ(%d,%d): have %g, want %g", i, j, zz, wantZZ)
			}
		}
	}
}
