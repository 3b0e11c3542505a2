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

package geophyutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/geophy"
	"github.com/spatialmodel/geophy/filter"
	"github.com/spf13/cast"
)

// checkInputFile expands any environment variables in the input file path.
func checkInputFile(f string) string {
	return os.ExpandEnv(f)
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("geophy: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// Grid holds the configuration of the model grid.
type Grid struct {
	Type           string
	Xo, Yo, Dx, Dy float64
	Proj           string
}

// GridConfig unmarshals a viper configuration for the model grid.
func GridConfig(cfg *viper.Viper) *Grid {
	return &Grid{
		Type: strings.ToLower(os.ExpandEnv(cfg.GetString("Grid.Type"))),
		Xo:   cfg.GetFloat64("Grid.Xo"),
		Yo:   cfg.GetFloat64("Grid.Yo"),
		Dx:   cfg.GetFloat64("Grid.Dx"),
		Dy:   cfg.GetFloat64("Grid.Dy"),
		Proj: os.ExpandEnv(cfg.GetString("Grid.Proj")),
	}
}

// Resolution returns the resolution provider for a grid with ni×nj cells.
func (g *Grid) Resolution(ni, nj int) (geophy.ResolutionProvider, error) {
	vars := []float64{g.Dx, g.Dy}
	varNames := []string{"Grid.Dx", "Grid.Dy"}
	for i, v := range vars {
		if !(v > 0) {
			return nil, fmt.Errorf("parsing grid configuration: %s=%g but should be >0", varNames[i], v)
		}
	}
	switch g.Type {
	case "regular":
		return geophy.RegularGrid{Dx: g.Dx, Dy: g.Dy}, nil
	case "latlon":
		return geophy.LatLonGrid{Xo: g.Xo, Yo: g.Yo, Dlon: g.Dx, Dlat: g.Dy, NI: ni}, nil
	case "proj":
		if g.Proj == "" {
			return nil, fmt.Errorf("you need to specify the grid projection in the " +
				"'Grid.Proj' configuration variable.")
		}
		return geophy.NewProjGrid(g.Proj, g.Xo, g.Yo, g.Dx, g.Dy, ni, nj)
	default:
		return nil, fmt.Errorf("the Grid.Type configuration variable needs to be set to "+
			"either regular, latlon, or proj, but is currently set to `%s`", g.Type)
	}
}

// topographyFilter is the name of the filter that applies the topography
// filters enabled in the settings file.
const topographyFilter = "topography"

// filterKinds converts the Filter.Kinds configuration into a list of
// filter names, checking that each one is valid.
func filterKinds(v interface{}) ([]string, error) {
	kinds, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("Filter.Kinds: %v", err)
	}
	if len(kinds) == 1 && strings.Contains(kinds[0], ",") {
		kinds = strings.Split(kinds[0], ",")
	}
	for i, k := range kinds {
		kinds[i] = strings.TrimSpace(k)
		if kinds[i] == topographyFilter {
			continue
		}
		if _, err := filter.ParseKind(kinds[i]); err != nil {
			return nil, fmt.Errorf("Filter.Kinds: %v", err)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("Filter.Kinds: no filters are specified")
	}
	return kinds, nil
}
