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

// Package geophyutil contains the command-line interface for the geophy
// geophysical field calculations.
package geophyutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/geophy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to geophy.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum level of the log messages
              that are printed: one of debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile specifies the path to the NetCDF file holding the
              input fields. For the roughness command, the file must hold the
              topography (ME), the sub-grid topography (SUB) and the
              vegetation type (VG).`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags(), filterCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path to the NetCDF file where the
              results are written.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags(), filterCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers specifies the number of grid cells processed at the
              same time. Values less than 1 use all available processors.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags()},
		},
		{
			name: "Grid.Type",
			usage: `
              Grid.Type specifies how the size of the grid cells is determined.
              'regular' grids have constant cell sizes Grid.Dx and Grid.Dy in meters.
              'latlon' grids are geographic grids where Grid.Xo and Grid.Yo are the
              longitude and latitude of the center of the first grid cell and
              Grid.Dx and Grid.Dy are in degrees. 'proj' grids are in the
              projection Grid.Proj, where Grid.Xo and Grid.Yo are the
              coordinates of the lower-left corner of the grid.`,
			defaultVal: "regular",
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags()},
		},
		{
			name: "Grid.Xo",
			usage: `
              Grid.Xo specifies the X coordinate of the grid origin (see Grid.Type).`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags()},
		},
		{
			name: "Grid.Yo",
			usage: `
              Grid.Yo specifies the Y coordinate of the grid origin (see Grid.Type).`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags()},
		},
		{
			name: "Grid.Dx",
			usage: `
              Grid.Dx specifies the West-East edge length of the grid cells,
              in meters, degrees or projection units depending on Grid.Type.`,
			defaultVal: 10000.0,
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags()},
		},
		{
			name: "Grid.Dy",
			usage: `
              Grid.Dy specifies the South-North edge length of the grid cells,
              in meters, degrees or projection units depending on Grid.Type.`,
			defaultVal: 10000.0,
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags()},
		},
		{
			name: "Grid.Proj",
			usage: `
              Grid.Proj gives projection info for 'proj' grids in Proj4 or WKT format.`,
			defaultVal: "+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 +lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1",
			flagsets:   []*pflag.FlagSet{roughnessCmd.Flags()},
		},
		{
			name: "Filter.Variable",
			usage: `
              Filter.Variable specifies the name of the variable to filter.`,
			defaultVal: geophy.TopographyVar,
			flagsets:   []*pflag.FlagSet{filterCmd.Flags()},
		},
		{
			name: "Filter.Settings",
			usage: `
              Filter.Settings specifies the path to the TOML file holding the
              filter settings (for example GRD_TYP_S, TOPO_DGFMX_L, TOPO_FILMX_L,
              TOPO_CLIP_ORO_L, LPASSFLT_RC_DELTAX). If it is empty, the default
              settings are used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{filterCmd.Flags()},
		},
		{
			name: "Filter.Kinds",
			usage: `
              Filter.Kinds specifies the filters to apply, in order. 'topography'
              applies the digital and 2-delta filters enabled in the settings.
              'digital', 'two-delta', and 'low-pass' apply one filter regardless
              of the settings.`,
			defaultVal: []string{"topography"},
			flagsets:   []*pflag.FlagSet{filterCmd.Flags()},
		},
		{
			name: "Filter.MaskVariable",
			usage: `
              Filter.MaskVariable specifies the name of the variable in InputFile
              used as the low-pass filter mask. If it is empty, no mask is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{filterCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GEOPHY")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
			case int:
				set.Int(option.name, option.defaultVal.(int), option.usage)
			case float64:
				set.Float64(option.name, option.defaultVal.(float64), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(roughnessCmd)
	Root.AddCommand(filterCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("geophy: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("geophy: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "geophy",
	Short: "Geophysical fields for numerical weather prediction.",
	Long: `geophy calculates geophysical fields for numerical weather prediction
models, such as the sub-grid orographic roughness length, and filters
topography fields. Use the subcommands specified below to access the
functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GEOPHY_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of geophy.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("geophy v%s\n", geophy.Version)
	},
	DisableAutoGenTag: true,
}

// roughnessCmd calculates the orographic roughness.
var roughnessCmd = &cobra.Command{
	Use:   "roughness",
	Short: "Calculate the sub-grid orographic roughness length.",
	Long: `roughness calculates the roughness length caused by sub-grid orography
and vegetation, along with the sub-grid slope moments, height variance
and mean height difference. The results are written to the variables
ZZ, LH, DH, HX2, HY2, and HXY of OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Roughness(
			checkInputFile(Cfg.GetString("InputFile")),
			outputFile,
			GridConfig(Cfg),
			Cfg.GetInt("Workers"),
		)
	},
	DisableAutoGenTag: true,
}

// filterCmd filters a field.
var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter a topography field.",
	Long: `filter applies the digital, 2-delta, and low-pass filters to a
field, as described by Filter.Kinds and the filter settings file,
and writes the filtered field to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		kinds, err := filterKinds(Cfg.Get("Filter.Kinds"))
		if err != nil {
			return err
		}
		return Filter(
			checkInputFile(Cfg.GetString("InputFile")),
			outputFile,
			os.ExpandEnv(Cfg.GetString("Filter.Variable")),
			os.ExpandEnv(Cfg.GetString("Filter.Settings")),
			os.ExpandEnv(Cfg.GetString("Filter.MaskVariable")),
			kinds,
		)
	},
	DisableAutoGenTag: true,
}
