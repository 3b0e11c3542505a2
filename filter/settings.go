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

// Package filter smooths geophysical fields before they are used by a
// numerical weather prediction model. The filters are configured with the
// keys of the model's settings file.
package filter

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Settings holds the filter configuration. Field tags are the
// settings-file keys.
type Settings struct {
	// GridType is the two-letter model grid type. "LU" grids are limited
	// area grids; all others are global grids whose last column repeats
	// the first one.
	GridType string `toml:"GRD_TYP_S"`

	// DigitalFilter enables the digital topography filter.
	DigitalFilter bool `toml:"TOPO_DGFMX_L"`

	// TwoDeltaFilter enables the 2-Δ topography filter.
	TwoDeltaFilter bool `toml:"TOPO_FILMX_L"`

	// ClipOrography sets negative topography to zero before each
	// topography filter is applied.
	ClipOrography bool `toml:"TOPO_CLIP_ORO_L"`

	// DigitalHalfWidth is the number of points on each side of the center
	// of the digital filter.
	DigitalHalfWidth int `toml:"TOPO_DGFM_I"`

	// DigitalCutoff is the shortest wavelength, in grid lengths, passed by
	// the digital filter.
	DigitalCutoff float64 `toml:"TOPO_DGFM_MLR"`

	// DigitalWindowPower is the exponent of the Lanczos window applied to
	// the digital filter weights.
	DigitalWindowPower float64 `toml:"TOPO_DGFM_LCFAC"`

	// DigitalNormalize makes the digital filter weights sum to one.
	DigitalNormalize bool `toml:"TOPO_DGFM_NORM_L"`

	// TwoDeltaCoefficient is the weight given to the neighbors by the
	// 2-Δ filter. 0.5 removes 2-Δ waves completely.
	TwoDeltaCoefficient float64 `toml:"TOPO_FRCO"`

	// LowPassCutoff is the cutoff wavelength of the low-pass filter, in
	// grid lengths.
	LowPassCutoff float64 `toml:"LPASSFLT_RC_DELTAX"`

	// LowPassOrder is the order of the low-pass filter response.
	LowPassOrder int `toml:"LPASSFLT_P"`

	// MaskOperator selects where the low-pass filter applies: 0 everywhere,
	// 1 where the mask is at least MaskThreshold and 2 where it is below.
	MaskOperator int `toml:"LPASSFLT_MASK_OPERATOR"`

	// MaskThreshold is the mask value separating filtered and unfiltered
	// grid cells.
	MaskThreshold float64 `toml:"LPASSFLT_MASK_THRESHOLD"`

	// ApplyMinMax limits the low-pass filtered values to the range of the
	// input field.
	ApplyMinMax bool `toml:"LPASSFLT_APPLY_MINMAX"`
}

// DefaultSettings returns the default filter configuration. No filter is
// enabled by default.
func DefaultSettings() Settings {
	return Settings{
		GridType:            "GU",
		DigitalHalfWidth:    5,
		DigitalCutoff:       3,
		DigitalWindowPower:  2,
		DigitalNormalize:    true,
		TwoDeltaCoefficient: 0.5,
		LowPassCutoff:       3,
		LowPassOrder:        20,
		MaskOperator:        1,
		MaskThreshold:       0.01,
	}
}

// ReadSettings reads a TOML settings file from r. Keys that are not
// present keep their default value.
func ReadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	if _, err := toml.DecodeReader(r, &s); err != nil {
		return s, fmt.Errorf("filter: reading settings: %v", err)
	}
	return s, s.Check()
}

// Check returns an error if s holds invalid values.
func (s Settings) Check() error {
	if len(s.GridType) != 2 {
		return fmt.Errorf("filter: invalid grid type %q", s.GridType)
	}
	if s.DigitalHalfWidth < 1 {
		return fmt.Errorf("filter: digital filter half width must be positive, is %d", s.DigitalHalfWidth)
	}
	if s.DigitalCutoff < 2 {
		return fmt.Errorf("filter: digital filter cutoff must be at least 2 grid lengths, is %g", s.DigitalCutoff)
	}
	if s.TwoDeltaCoefficient < 0 || s.TwoDeltaCoefficient > 1 {
		return fmt.Errorf("filter: 2-Δ filter coefficient must be between 0 and 1, is %g", s.TwoDeltaCoefficient)
	}
	if s.LowPassCutoff <= 0 {
		return fmt.Errorf("filter: low-pass cutoff must be positive, is %g", s.LowPassCutoff)
	}
	if s.LowPassOrder < 1 {
		return fmt.Errorf("filter: low-pass order must be positive, is %d", s.LowPassOrder)
	}
	if s.MaskOperator < 0 || s.MaskOperator > 2 {
		return fmt.Errorf("filter: invalid mask operator %d", s.MaskOperator)
	}
	return nil
}

// limitedArea returns whether s describes a limited area grid.
func (s Settings) limitedArea() bool { return s.GridType == "LU" }
