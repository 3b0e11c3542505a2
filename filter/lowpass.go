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

package filter

import (
	"fmt"
	"math"

	"github.com/spatialmodel/geophy"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Smooth applies a low-pass filter to f and returns the filtered field.
// The filter removes wavelengths shorter than s.LowPassCutoff grid lengths
// with a response of order s.LowPassOrder, whose amplitude at wave number
// k is 1 / (1 + (k/kc)^(2p)). If mask is nil, the filter is applied
// everywhere. Otherwise s.MaskOperator selects the grid cells that take
// the filtered value.
func Smooth(f, mask *geophy.Field, s Settings) (*geophy.Field, error) {
	if f == nil || f.Data == nil {
		return nil, fmt.Errorf("filter: missing field to smooth")
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	op := s.MaskOperator
	if mask == nil || mask.Data == nil {
		op = 0
	} else if mask.NI() != f.NI() || mask.NJ() != f.NJ() {
		return nil, fmt.Errorf("filter: mask grid %dx%d doesn't match field grid %dx%d",
			mask.NI(), mask.NJ(), f.NI(), f.NJ())
	}

	ni, nj := f.NI(), f.NJ()
	filtered := lowPass(f.Data.Elements, ni, nj, 1/s.LowPassCutoff, s.LowPassOrder)

	if s.ApplyMinMax {
		lo, hi := floats.Min(f.Data.Elements), floats.Max(f.Data.Elements)
		for k, v := range filtered {
			filtered[k] = math.Min(math.Max(v, lo), hi)
		}
	}

	o := f.Copy()
	for k, v := range filtered {
		switch op {
		case 1:
			if mask.Data.Elements[k] < s.MaskThreshold {
				continue
			}
		case 2:
			if mask.Data.Elements[k] >= s.MaskThreshold {
				continue
			}
		}
		o.Data.Elements[k] = v
	}
	return o, nil
}

// lowPass filters the ni×nj row-major data v in the frequency domain
// with cutoff frequency kc [cycles per grid length].
func lowPass(v []float64, ni, nj int, kc float64, order int) []float64 {
	nc := ni/2 + 1
	rowFFT := fourier.NewFFT(ni)
	colFFT := fourier.NewCmplxFFT(nj)

	// Forward transform: rows, then columns.
	coeff := make([]complex128, nc*nj)
	for j := 0; j < nj; j++ {
		rowFFT.Coefficients(coeff[j*nc:(j+1)*nc], v[j*ni:(j+1)*ni])
	}
	col := make([]complex128, nj)
	for i := 0; i < nc; i++ {
		for j := 0; j < nj; j++ {
			col[j] = coeff[j*nc+i]
		}
		colFFT.Coefficients(col, col)
		fx := rowFFT.Freq(i)
		for j := 0; j < nj; j++ {
			k := math.Hypot(fx, colFFT.Freq(j))
			col[j] *= complex(1/(1+math.Pow(k/kc, 2*float64(order))), 0)
		}
		colFFT.Sequence(col, col)
		for j := 0; j < nj; j++ {
			coeff[j*nc+i] = col[j]
		}
	}

	// Inverse transform. Both directions are unnormalized.
	o := make([]float64, ni*nj)
	norm := float64(ni * nj)
	for j := 0; j < nj; j++ {
		row := o[j*ni : (j+1)*ni]
		rowFFT.Sequence(row, coeff[j*nc:(j+1)*nc])
		for i := range row {
			row[i] /= norm
		}
	}
	return o
}
