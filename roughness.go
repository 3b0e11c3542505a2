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
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

const (
	vonKarman = 0.4 // von Kármán constant
	dragCoeff = 0.5 // obstacle drag coefficient
)

// minObstacleHeight is the smallest characteristic obstacle height [m]
// used in the roughness length calculation.
const minObstacleHeight = math.E

var (
	// ErrNoTopography is returned when no topography field is given.
	ErrNoTopography = errors.New("geophy: missing topography field")

	// ErrNoVegetation is returned when no vegetation field is given.
	ErrNoVegetation = errors.New("geophy: missing vegetation field")

	// ErrNoSubgrid is returned when the topography field does not have
	// sub-grid samples.
	ErrNoSubgrid = errors.New("geophy: topography field has no sub-grid samples")

	// ErrNoResolution is returned when no ResolutionProvider is set.
	ErrNoResolution = errors.New("geophy: missing grid resolution provider")

	// ErrEmptyGrid is returned when the topography grid has no cells.
	ErrEmptyGrid = errors.New("geophy: topography grid has no cells")
)

// RoughnessFields holds the results of an orographic roughness
// calculation.
type RoughnessFields struct {
	// ZZ is the roughness length [m].
	ZZ *Field

	// LH is twice the standard deviation of the sub-grid height [m].
	LH *Field

	// DH is the mean difference between the observed sub-grid height and
	// the height interpolated from the grid [m].
	DH *Field

	// HX2, HY2 and HXY are the sub-grid slope moments.
	HX2, HY2, HXY *Field
}

// Fields returns the result fields in output order.
func (r *RoughnessFields) Fields() []*Field {
	return []*Field{r.ZZ, r.LH, r.DH, r.HX2, r.HY2, r.HXY}
}

// OrographicRoughness calculates the roughness length caused by sub-grid
// orography and vegetation, following Grant and Mason (1990).
type OrographicRoughness struct {
	// Resolution gives the size of each grid cell.
	Resolution ResolutionProvider

	// Workers is the number of goroutines used for the calculation.
	// If it is less than 1, runtime.GOMAXPROCS(0) is used.
	Workers int

	Log logrus.FieldLogger
}

// NewOrographicRoughness returns a roughness calculator for a grid with
// the given resolution.
func NewOrographicRoughness(res ResolutionProvider) *OrographicRoughness {
	return &OrographicRoughness{
		Resolution: res,
		Log:        logrus.StandardLogger(),
	}
}

// check validates the inputs of Compute.
func (o *OrographicRoughness) check(topo, vege *Field) error {
	if topo == nil || topo.Data == nil {
		return ErrNoTopography
	}
	if vege == nil || vege.Data == nil {
		return ErrNoVegetation
	}
	if topo.NI() == 0 || topo.NJ() == 0 {
		return ErrEmptyGrid
	}
	if topo.Sub == nil || topo.SubSample == 0 {
		return ErrNoSubgrid
	}
	if topo.SubSample < 2 {
		return fmt.Errorf("geophy: need at least 2 sub-grid samples per axis, have %d", topo.SubSample)
	}
	if len(topo.Sub.Elements) != topo.NI()*topo.NJ()*topo.SubSample*topo.SubSample {
		return fmt.Errorf("geophy: sub-grid buffer has %d samples but should have %d",
			len(topo.Sub.Elements), topo.NI()*topo.NJ()*topo.SubSample*topo.SubSample)
	}
	if !topo.sameShape(vege) {
		return fmt.Errorf("geophy: topography grid %dx%d doesn't match vegetation grid %dx%d",
			topo.NI(), topo.NJ(), vege.NI(), vege.NJ())
	}
	if o.Resolution == nil {
		return ErrNoResolution
	}
	return checkVegetation(vege)
}

// Compute calculates the orographic roughness fields from topography topo,
// which must have sub-grid samples, and vegetation types vege.
func (o *OrographicRoughness) Compute(topo, vege *Field) (*RoughnessFields, error) {
	if err := o.check(topo, vege); err != nil {
		return nil, err
	}
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	nprocs := o.Workers
	if nprocs < 1 {
		nprocs = runtime.GOMAXPROCS(0)
	}
	ni, nj, n := topo.NI(), topo.NJ(), topo.SubSample

	r := &RoughnessFields{
		ZZ:  NewField("ZZ", ni, nj),
		LH:  NewField("LH", ni, nj),
		DH:  NewField("DH", ni, nj),
		HX2: NewField("HX2", ni, nj),
		HY2: NewField("HY2", ni, nj),
		HXY: NewField("HXY", ni, nj),
	}

	log.WithFields(logrus.Fields{
		"ni":        ni,
		"nj":        nj,
		"subsample": n,
		"workers":   nprocs,
	}).Info("geophy: calculating orographic roughness")
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			a := newSubgridAnalyzer(n)
			sampled := make([]float64, n*n)
			patch := make([]float64, n*n)
			for idx := pp; idx < ni*nj; idx += nprocs {
				i, j := idx%ni, idx/ni
				o.gridCell(a, topo, vege, r, i, j, sampled, patch)
			}
		}(pp)
	}
	wg.Wait()

	log.WithFields(logrus.Fields{
		"elapsed": time.Since(start),
		"zz_min":  floats.Min(r.ZZ.Data.Elements),
		"zz_max":  floats.Max(r.ZZ.Data.Elements),
	}).Info("geophy: finished orographic roughness")
	return r, nil
}

// gridCell calculates the roughness of grid cell (i, j) and stores it in r.
// sampled and patch are scratch space of length n*n.
func (o *OrographicRoughness) gridCell(a *subgridAnalyzer, topo, vege *Field, r *RoughnessFields, i, j int, sampled, patch []float64) {
	n := topo.SubSample
	dx, dy := o.Resolution.Resolution(i, j)

	topo.SubgridSample(i, j, sampled)
	var sum float64
	for k, h := range topo.subPatch(i, j) {
		if topo.ValidSub(h) {
			patch[k] = h - sampled[k]
		} else {
			patch[k] = 0
		}
		sum += patch[k]
	}

	s := a.analyze(patch, dx, dy)
	k, _ := vegetationIndex(vege.Get(i, j)) // validated by check

	r.ZZ.Set(RoughnessLength(s.HTOT, s.ASTOT, VegetationRoughness[k]), i, j)
	r.LH.Set(2*s.VAR, i, j)
	r.DH.Set(sum/float64(n*n), i, j)
	r.HX2.Set(s.HX2, i, j)
	r.HY2.Set(s.HY2, i, j)
	r.HXY.Set(s.HXY, i, j)
}

// RoughnessLength returns the effective roughness length [m] of terrain
// with characteristic obstacle height htot [m], frontal area to spacing
// ratio astot and base (vegetation) roughness length rugv [m].
func RoughnessLength(htot, astot, rugv float64) float64 {
	htot = math.Max(htot, minObstacleHeight)
	silh := 0.25 * dragCoeff * astot
	l := math.Log(htot / (2 * rugv))
	b := vonKarman * vonKarman / (l * l)
	a := vonKarman * vonKarman / (silh + b)
	return htot / (2 * math.Exp(math.Sqrt(a)))
}
