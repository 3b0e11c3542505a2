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

	"gonum.org/v1/gonum/stat"
)

// SubgridStatistics holds the statistics of the unresolved (sub-grid)
// terrain height within one grid cell.
type SubgridStatistics struct {
	// HX2 and HY2 are the mean squared slopes in the x and y directions,
	// and HXY is the mean product of the x and y slopes [m2/m2].
	HX2, HY2, HXY float64

	// HTOT is the characteristic height of the sub-grid obstacles,
	// averaged over both directions [m].
	HTOT float64

	// ASTOT is the frontal area to spacing ratio (A/S), averaged over
	// both directions [m/m].
	ASTOT float64

	// VAR is the standard deviation of the sub-grid height [m].
	VAR float64
}

// trend is the height change between two adjacent samples.
type trend int8

const (
	level trend = iota
	rising
	falling
)

func trendOf(a, b float64) trend {
	switch {
	case b == a:
		return level
	case b > a:
		return rising
	default:
		return falling
	}
}

// subgridAnalyzer calculates SubgridStatistics. It holds scratch space
// sized for n×n patches and must not be shared between goroutines.
type subgridAnalyzer struct {
	n      int
	line   []float64
	trends []trend
	turns  []int
}

func newSubgridAnalyzer(n int) *subgridAnalyzer {
	return &subgridAnalyzer{
		n:      n,
		line:   make([]float64, n),
		trends: make([]trend, n-1),
		turns:  make([]int, 0, n),
	}
}

// AnalyzeSubgrid calculates the statistics of h, a row-major n×n patch of
// sub-grid height differences [m] within a grid cell with size dx by dy [m].
// n must be at least 2.
func AnalyzeSubgrid(h []float64, n int, dx, dy float64) (SubgridStatistics, error) {
	if n < 2 {
		return SubgridStatistics{}, fmt.Errorf("geophy: need at least 2 sub-grid samples per axis, have %d", n)
	}
	if len(h) != n*n {
		return SubgridStatistics{}, fmt.Errorf("geophy: sub-grid patch has %d samples but should have %d", len(h), n*n)
	}
	return newSubgridAnalyzer(n).analyze(h, dx, dy), nil
}

// analyze calculates the statistics of patch h (see AnalyzeSubgrid).
func (a *subgridAnalyzer) analyze(h []float64, dx, dy float64) SubgridStatistics {
	n := a.n
	last := n - 1
	sdx := dx / float64(last)
	sdy := dy / float64(last)
	nsq := float64(n * n)

	var s SubgridStatistics

	// Second order (leapfrog) differences inside the patch and first
	// order differences on its edges.
	var dhdx2, dhdy2, dhdxdy float64
	for j := 0; j < n; j++ {
		row := j * n
		for i := 0; i < n; i++ {
			idx := row + i
			var dhdx, dhdy float64
			switch i {
			case 0:
				dhdx = (h[idx+1] - h[idx]) / sdx
			case last:
				dhdx = (h[idx] - h[idx-1]) / sdx
			default:
				dhdx = (h[idx+1] - h[idx-1]) / (2 * sdx)
			}
			switch j {
			case 0:
				dhdy = (h[idx+n] - h[idx]) / sdy
			case last:
				dhdy = (h[idx] - h[idx-n]) / sdy
			default:
				dhdy = (h[idx+n] - h[idx-n]) / (2 * sdy)
			}
			dhdx2 += dhdx * dhdx
			dhdy2 += dhdy * dhdy
			dhdxdy += dhdx * dhdy
		}
	}
	s.HX2 = dhdx2 / nsq
	s.HY2 = dhdy2 / nsq
	s.HXY = dhdxdy / nsq

	// Obstacle heights and A/S along the rows (x direction).
	var hx, asx float64
	for j := 0; j < n; j++ {
		copy(a.line, h[j*n:(j+1)*n])
		asx += a.frontalHeight()
		hx += a.lineHeight(sdx)
	}

	// And along the columns (y direction).
	var hy, asy float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.line[j] = h[j*n+i]
		}
		asy += a.frontalHeight()
		hy += a.lineHeight(sdy)
	}

	s.HTOT = (hx/float64(n) + hy/float64(n)) / 2
	s.ASTOT = (asx/(dx*float64(n)) + asy/(dy*float64(n))) / 2
	s.VAR = stat.PopStdDev(h, nil)
	return s
}

// frontalHeight returns the sum of the absolute height changes along the
// current line.
func (a *subgridAnalyzer) frontalHeight() float64 {
	var sum float64
	for k := 1; k < len(a.line); k++ {
		sum += math.Abs(a.line[k] - a.line[k-1])
	}
	return sum
}

// lineHeight returns the characteristic obstacle height of the current
// line, whose samples are spacing meters apart. The line is split into
// monotonic runs at its turning points: the maxima, the minima, and the
// ends of plateaus. Each run contributes its height change weighted by its
// length. A line without at least two turning points contributes nothing.
func (a *subgridAnalyzer) lineHeight(spacing float64) float64 {
	line := a.line
	last := len(line) - 1

	for k := 0; k < last; k++ {
		a.trends[k] = trendOf(line[k], line[k+1])
	}
	turns := a.turns[:0]
	// A leading plateau is folded into the first change of trend.
	if a.trends[0] != level {
		turns = append(turns, 0)
	}
	for k := 1; k < last; k++ {
		if a.trends[k] != a.trends[k-1] {
			turns = append(turns, k)
		}
	}
	if a.trends[last-1] != level {
		turns = append(turns, last)
	}
	a.turns = turns

	if len(turns) < 2 {
		return 0
	}
	var hh, ll float64
	for l := 1; l < len(turns); l++ {
		d := float64(turns[l] - turns[l-1])
		hh += math.Abs(line[turns[l]]-line[turns[l-1]]) * d * spacing
		ll += d
	}
	return hh / (ll * spacing)
}
