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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/sparse"
)

// EarthRadius is the radius of the earth used for distance calculations [m].
const EarthRadius = 6371000.

// ResolutionProvider returns the physical size of grid cell (i, j) in
// the West-East (dx) and South-North (dy) directions [m].
type ResolutionProvider interface {
	Resolution(i, j int) (dx, dy float64)
}

// RegularGrid is a grid with constant cell size [m].
type RegularGrid struct {
	Dx, Dy float64
}

// Resolution implements ResolutionProvider.
func (g RegularGrid) Resolution(_, _ int) (dx, dy float64) { return g.Dx, g.Dy }

// LatLonGrid is a geographic grid. Xo and Yo are the longitude and
// latitude of the center of grid cell (0, 0), and Dlon and Dlat are the
// cell sizes, all in degrees. NI is the number of West-East grid cells.
type LatLonGrid struct {
	Xo, Yo, Dlon, Dlat float64
	NI                 int
}

// Resolution implements ResolutionProvider. The cell size is measured
// along the great circles joining the midpoints of opposite cell edges.
func (g LatLonGrid) Resolution(i, j int) (dx, dy float64) {
	lon := g.Xo + float64(i)*g.Dlon
	lat := g.Yo + float64(j)*g.Dlat
	dx = greatCircle(lon-g.Dlon/2, lat, lon+g.Dlon/2, lat)
	dy = greatCircle(lon, lat-g.Dlat/2, lon, lat+g.Dlat/2)
	return poleFallback(dx, dy, g.NI), dy
}

// degenerateDistance is the largest distance [m] treated as zero.
const degenerateDistance = 1e-6

// poleFallback replaces a null West-East distance, which happens when the
// cell is centered on a pole, by the length of a latitude band divided by
// the number of grid cells.
func poleFallback(dx, dy float64, ni int) float64 {
	if dx <= degenerateDistance {
		return math.Pi * dy / float64(ni)
	}
	return dx
}

// greatCircle returns the distance [m] between two points given in
// degrees longitude and latitude.
func greatCircle(lon0, lat0, lon1, lat1 float64) float64 {
	const deg2rad = math.Pi / 180
	φ0, φ1 := lat0*deg2rad, lat1*deg2rad
	λ0, λ1 := lon0*deg2rad, lon1*deg2rad
	sφ := math.Sin((φ1 - φ0) / 2)
	sλ := math.Sin((λ1 - λ0) / 2)
	h := sφ*sφ + math.Cos(φ0)*math.Cos(φ1)*sλ*sλ
	return EarthRadius * 2 * math.Asin(math.Min(math.Sqrt(h), 1))
}

// ProjGrid is a grid defined in a projected coordinate system. Cell
// sizes are computed once, when the grid is created.
type ProjGrid struct {
	dx, dy *sparse.DenseArray
}

// NewProjGrid creates a ProjGrid with ni×nj cells. xo and yo are the
// coordinates of the lower-left corner of the grid and dx and dy are the
// cell sizes, all in the units of the projection gridProj, which
// should be in Proj4 or WKT format.
func NewProjGrid(gridProj string, xo, yo, dx, dy float64, ni, nj int) (*ProjGrid, error) {
	sr, err := proj.Parse(gridProj)
	if err != nil {
		return nil, fmt.Errorf("geophy: parsing grid projection: %v", err)
	}
	ll, err := proj.Parse("+proj=longlat")
	if err != nil {
		return nil, fmt.Errorf("geophy: parsing geographic projection: %v", err)
	}
	t, err := sr.NewTransform(ll)
	if err != nil {
		return nil, fmt.Errorf("geophy: creating grid projection transform: %v", err)
	}
	toLonLat := func(x, y float64) (geom.Point, error) {
		g, err := geom.Point{X: x, Y: y}.Transform(t)
		if err != nil {
			return geom.Point{}, err
		}
		return g.(geom.Point), nil
	}

	g := &ProjGrid{
		dx: sparse.ZerosDense(nj, ni),
		dy: sparse.ZerosDense(nj, ni),
	}
	for j := 0; j < nj; j++ {
		yc := yo + (float64(j)+0.5)*dy
		for i := 0; i < ni; i++ {
			xc := xo + (float64(i)+0.5)*dx
			var edges [4]geom.Point
			for k, xy := range [4][2]float64{
				{xc - dx/2, yc}, {xc + dx/2, yc}, // West and East edges
				{xc, yc - dy/2}, {xc, yc + dy/2}, // South and North edges
			} {
				edges[k], err = toLonLat(xy[0], xy[1])
				if err != nil {
					return nil, fmt.Errorf("geophy: projecting grid cell (%d,%d): %v", i, j, err)
				}
			}
			cdy := greatCircle(edges[2].X, edges[2].Y, edges[3].X, edges[3].Y)
			cdx := greatCircle(edges[0].X, edges[0].Y, edges[1].X, edges[1].Y)
			g.dx.Set(poleFallback(cdx, cdy, ni), j, i)
			g.dy.Set(cdy, j, i)
		}
	}
	return g, nil
}

// Resolution implements ResolutionProvider.
func (g *ProjGrid) Resolution(i, j int) (dx, dy float64) {
	return g.dx.Get(j, i), g.dy.Get(j, i)
}
