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
)

// grid is a working copy of the filtered part of a field, stored with
// the West-East index varying fastest.
type grid struct {
	ni, nj   int
	periodic bool
	v        []float64
}

// filterGrid copies the part of f that is filtered into a grid. Global
// grids repeat their first column as their last one, which is left out.
func filterGrid(f *geophy.Field, limitedArea bool) *grid {
	g := &grid{ni: f.NI(), nj: f.NJ(), periodic: !limitedArea}
	if g.periodic && g.ni > 1 {
		g.ni--
	}
	g.v = make([]float64, g.ni*g.nj)
	for j := 0; j < g.nj; j++ {
		for i := 0; i < g.ni; i++ {
			g.v[j*g.ni+i] = f.Get(i, j)
		}
	}
	return g
}

// toField copies g back into f, restoring the repeated column of global
// grids.
func (g *grid) toField(f *geophy.Field) {
	for j := 0; j < g.nj; j++ {
		for i := 0; i < g.ni; i++ {
			f.Set(g.v[j*g.ni+i], i, j)
		}
		if g.ni < f.NI() {
			f.Set(g.v[j*g.ni], f.NI()-1, j)
		}
	}
}

func (g *grid) clipNegative() {
	for k, v := range g.v {
		if v < 0 {
			g.v[k] = 0
		}
	}
}

// convolve applies the symmetric weights w, where w[0] is the center
// weight, along each row (x direction) or column of g. Rows of global
// grids wrap around. Elsewhere the weights are truncated at the grid edge
// and, if normalize is true, rescaled to sum to the full weight total.
func (g *grid) convolve(w []float64, x, normalize bool) {
	n, lines, stride, step := g.ni, g.nj, 1, g.ni
	wrap := g.periodic
	if !x {
		n, lines, stride, step = g.nj, g.ni, g.ni, 1
		wrap = false
	}
	total := w[0]
	for _, v := range w[1:] {
		total += 2 * v
	}
	line := make([]float64, n)
	for l := 0; l < lines; l++ {
		start := l * step
		for k := 0; k < n; k++ {
			line[k] = g.v[start+k*stride]
		}
		for k := 0; k < n; k++ {
			sum := w[0] * line[k]
			wsum := w[0]
			for m := 1; m < len(w); m++ {
				for _, kk := range [2]int{k - m, k + m} {
					if wrap {
						kk = ((kk % n) + n) % n
					} else if kk < 0 || kk >= n {
						continue
					}
					sum += w[m] * line[kk]
					wsum += w[m]
				}
			}
			if normalize && wsum != 0 {
				sum *= total / wsum
			}
			g.v[start+k*stride] = sum
		}
	}
}

// digitalWeights returns the weights of a low-pass digital filter that
// passes wavelengths longer than cutoff grid lengths. The ideal response
// is truncated to halfWidth points on each side and smoothed by a Lanczos
// window raised to windowPower.
func digitalWeights(halfWidth int, cutoff, windowPower float64, normalize bool) []float64 {
	w := make([]float64, halfWidth+1)
	w[0] = 2 / cutoff
	sum := w[0]
	for k := 1; k <= halfWidth; k++ {
		x := float64(k)
		ideal := math.Sin(2*math.Pi*x/cutoff) / (math.Pi * x)
		s := float64(k) / float64(halfWidth+1)
		window := math.Sin(math.Pi*s) / (math.Pi * s)
		w[k] = ideal * math.Pow(window, windowPower)
		sum += 2 * w[k]
	}
	if normalize {
		for k := range w {
			w[k] /= sum
		}
	}
	return w
}

// Topography applies the digital and 2-Δ filters enabled in s to the
// topography field f and returns the filtered field. f is returned
// unchanged when neither filter is enabled.
func Topography(f *geophy.Field, s Settings) (*geophy.Field, error) {
	if f == nil || f.Data == nil {
		return nil, geophy.ErrNoTopography
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	if !s.DigitalFilter && !s.TwoDeltaFilter {
		return f, nil
	}
	g := filterGrid(f, s.limitedArea())
	if s.DigitalFilter {
		if s.ClipOrography {
			g.clipNegative()
		}
		w := digitalWeights(s.DigitalHalfWidth, s.DigitalCutoff, s.DigitalWindowPower, s.DigitalNormalize)
		g.convolve(w, true, s.DigitalNormalize)
		g.convolve(w, false, s.DigitalNormalize)
	}
	if s.TwoDeltaFilter {
		if s.ClipOrography {
			g.clipNegative()
		}
		c := s.TwoDeltaCoefficient
		w := []float64{1 - c, c / 2}
		g.twoDelta(w, true)
		g.twoDelta(w, false)
	}
	o := f.Copy()
	g.toField(o)
	return o, nil
}

// twoDelta applies the 1-2-1 type smoother w along x or y. Points on
// non-periodic edges are left unchanged.
func (g *grid) twoDelta(w []float64, x bool) {
	n, lines, stride, step := g.ni, g.nj, 1, g.ni
	wrap := g.periodic
	if !x {
		n, lines, stride, step = g.nj, g.ni, g.ni, 1
		wrap = false
	}
	if n < 3 {
		return
	}
	line := make([]float64, n)
	for l := 0; l < lines; l++ {
		start := l * step
		for k := 0; k < n; k++ {
			line[k] = g.v[start+k*stride]
		}
		for k := 0; k < n; k++ {
			km, kp := k-1, k+1
			if wrap {
				km, kp = (km+n)%n, kp%n
			} else if km < 0 || kp >= n {
				continue
			}
			g.v[start+k*stride] = w[0]*line[k] + w[1]*(line[km]+line[kp])
		}
	}
}

// Kind is a type of filter.
type Kind int

// Filter kinds.
const (
	Digital Kind = iota
	TwoDelta
	LowPass
)

func (k Kind) String() string {
	switch k {
	case Digital:
		return "digital"
	case TwoDelta:
		return "two-delta"
	case LowPass:
		return "low-pass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind returns the filter kind named s.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Digital, TwoDelta, LowPass} {
		if s == k.String() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("filter: unknown filter kind %q", s)
}

// Apply applies one kind of filter to f and returns a new field with the
// same shape. The filter parameters and the negative clipping are taken
// from s. mask is only used by the low-pass filter and may be nil.
func Apply(f *geophy.Field, kind Kind, s Settings, mask *geophy.Field) (*geophy.Field, error) {
	switch kind {
	case Digital:
		s.DigitalFilter, s.TwoDeltaFilter = true, false
	case TwoDelta:
		s.DigitalFilter, s.TwoDeltaFilter = false, true
	case LowPass:
		if s.ClipOrography && f != nil && f.Data != nil {
			f = f.Copy()
			for k, v := range f.Data.Elements {
				if v < 0 {
					f.Data.Elements[k] = 0
				}
			}
		}
		return Smooth(f, mask, s)
	default:
		return nil, fmt.Errorf("filter: unknown filter kind %v", kind)
	}
	return Topography(f, s)
}
