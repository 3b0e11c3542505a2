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

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/geophy"
	"github.com/spatialmodel/geophy/filter"
)

// Roughness calculates the orographic roughness fields from the inputs
// in inputFile and writes them to outputFile. grid describes the model
// grid and workers sets the number of concurrent calculations.
func Roughness(inputFile, outputFile string, grid *Grid, workers int) error {
	log := logrus.WithField("cmd", "roughness")

	f, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("geophy: opening input file: %v", err)
	}
	defer f.Close()
	topo, vege, err := geophy.LoadRoughnessInputs(f)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file": inputFile,
		"ni":   topo.NI(),
		"nj":   topo.NJ(),
	}).Info("geophy: loaded inputs")

	res, err := grid.Resolution(topo.NI(), topo.NJ())
	if err != nil {
		return err
	}
	o := geophy.NewOrographicRoughness(res)
	o.Workers = workers
	o.Log = log
	r, err := o.Compute(topo, vege)
	if err != nil {
		return err
	}
	if err = writeFields(outputFile, r.Fields()...); err != nil {
		return err
	}
	log.WithField("file", outputFile).Info("geophy: wrote roughness fields")
	return nil
}

// Filter applies the filters named in kinds, in order, to the variable
// named variable in inputFile and writes the result to outputFile.
// The filters are configured by the settings file settingsFile, or by
// the default settings if it is empty. If maskVariable is not empty,
// it names the variable in inputFile used as the low-pass filter mask.
func Filter(inputFile, outputFile, variable, settingsFile, maskVariable string, kinds []string) error {
	log := logrus.WithField("cmd", "filter")

	s := filter.DefaultSettings()
	if settingsFile != "" {
		sf, err := os.Open(settingsFile)
		if err != nil {
			return fmt.Errorf("geophy: opening filter settings: %v", err)
		}
		s, err = filter.ReadSettings(sf)
		sf.Close()
		if err != nil {
			return err
		}
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("geophy: opening input file: %v", err)
	}
	defer f.Close()
	cf, err := cdf.Open(f)
	if err != nil {
		return fmt.Errorf("geophy: opening input file: %v", err)
	}
	fld, err := geophy.ReadField(cf, variable)
	if err != nil {
		return err
	}
	var mask *geophy.Field
	if maskVariable != "" {
		if mask, err = geophy.ReadField(cf, maskVariable); err != nil {
			return err
		}
	}

	for _, k := range kinds {
		if k == topographyFilter {
			fld, err = filter.Topography(fld, s)
		} else {
			var kind filter.Kind
			if kind, err = filter.ParseKind(k); err != nil {
				return err
			}
			fld, err = filter.Apply(fld, kind, s, mask)
		}
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"variable": variable,
			"filter":   k,
		}).Info("geophy: applied filter")
	}
	return writeFields(outputFile, fld)
}

// writeFields creates outputFile and writes fields to it.
func writeFields(outputFile string, fields ...*geophy.Field) error {
	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("geophy: creating output file: %v", err)
	}
	if err = geophy.WriteFields(w, fields...); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
