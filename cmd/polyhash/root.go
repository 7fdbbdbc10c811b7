package main

import (
	"fmt"
	"strings"

	"github.com/bsm/polyhash/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds the configuration of all commands.
var Cfg *viper.Viper

// Root is the main command.
var Root = &cobra.Command{
	Use:   "polyhash",
	Short: "Cover polygons with geohash cells.",
	Long: `polyhash covers polygons with geohash cells, reduces the covers to
mixed-precision sets within an area error budget and dissolves them back into
geometries. Results can be written as GeoJSON or into point lookup indexes.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'POLYHASH_VAR' where 'VAR'
is the upper-cased flag name with dashes replaced by underscores.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setup() },
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Root.AddCommand(encodeCmd)
	Root.AddCommand(decodeCmd)
	Root.AddCommand(neighborsCmd)
	Root.AddCommand(coverCmd)
	Root.AddCommand(optimizeCmd)
	Root.AddCommand(geometryCmd)
	Root.AddCommand(lookupCmd)

	processing := []*pflag.FlagSet{coverCmd.Flags(), optimizeCmd.Flags(), geometryCmd.Flags()}
	optimizing := []*pflag.FlagSet{optimizeCmd.Flags(), geometryCmd.Flags()}
	sinks := []*pflag.FlagSet{coverCmd.Flags(), optimizeCmd.Flags()}

	options := []option{
		{
			name:       "config",
			usage:      "configuration file location",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name:       "log-level",
			usage:      "log level, one of: debug, info, warn, error",
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name:       "log-format",
			usage:      "log format, one of: text, json",
			defaultVal: "text",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name:       "precision",
			usage:      "geohash precision of encoded points and base covers",
			shorthand:  "p",
			defaultVal: 6,
			flagsets:   append([]*pflag.FlagSet{encodeCmd.Flags()}, processing...),
		},
		{
			name:       "input",
			usage:      "input file, GeoJSON (.geojson, .json) or OSM XML (.osm, .xml), '-' for stdin",
			shorthand:  "i",
			defaultVal: "-",
			flagsets:   processing,
		},
		{
			name:       "input-format",
			usage:      "input format, one of: geojson, osm; detected from the file extension if blank",
			defaultVal: "",
			flagsets:   processing,
		},
		{
			name:       "inner",
			usage:      "only include cells which are fully contained by the geometries",
			defaultVal: false,
			flagsets:   processing,
		},
		{
			name:       "concurrency",
			usage:      "number of rows to process in parallel, defaults to the number of CPUs",
			defaultVal: 0,
			flagsets:   processing,
		},
		{
			name:       "skip-errors",
			usage:      "log and skip rows which fail to process",
			defaultVal: false,
			flagsets:   processing,
		},
		{
			name:       "min-precision",
			usage:      "the coarsest precision of optimized cells",
			defaultVal: 1,
			flagsets:   optimizing,
		},
		{
			name:       "max-precision",
			usage:      "the finest precision of optimized cells",
			defaultVal: 12,
			flagsets:   optimizing,
		},
		{
			name:       "input-precision",
			usage:      "the precision of the cells passed to the optimizer, defaults to --precision",
			defaultVal: 0,
			flagsets:   optimizing,
		},
		{
			name:       "percentage-error",
			usage:      "the percentage of area the optimizer may add",
			defaultVal: table.DefaultPercentageError,
			flagsets:   optimizing,
		},
		{
			name:       "force-upscale",
			usage:      "merge all cells up to --min-precision regardless of the error budget",
			defaultVal: false,
			flagsets:   optimizing,
		},
		{
			name:       "output",
			usage:      "GeoJSON output file, '-' for stdout",
			shorthand:  "o",
			defaultVal: "",
			flagsets:   processing,
		},
		{
			name:       "tab",
			usage:      "tab-separated index output file, '.gz' suffix enables compression, '-' for stdout",
			defaultVal: "",
			flagsets:   sinks,
		},
		{
			name:       "sst",
			usage:      "leveldb table index file",
			defaultVal: "",
			flagsets:   append(sinks, lookupCmd.Flags()),
		},
		{
			name:       "cellstore",
			usage:      "cell store index file",
			defaultVal: "",
			flagsets:   append(sinks, lookupCmd.Flags()),
		},
		{
			name:       "tmp-dir",
			usage:      "directory for temporary sort files, defaults to the system temp dir",
			defaultVal: "",
			flagsets:   sinks,
		},
		{
			name:       "redis-url",
			usage:      "redis index URL, i.e. redis://localhost:6379/0",
			defaultVal: "",
			flagsets:   sinks,
		},
		{
			name:       "redis-prefix",
			usage:      "key prefix of redis index entries",
			defaultVal: "polyhash:",
			flagsets:   sinks,
		},
		{
			name:       "nearby",
			usage:      "return the given number of cells closest to the point instead, requires --cellstore",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{lookupCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("POLYHASH")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			if err := Cfg.BindPFlag(option.name, set.Lookup(option.name)); err != nil {
				panic(err)
			}
		}
	}
}

// setup reads in the configuration file, if there is one, and configures
// logging.
func setup() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("polyhash: problem reading configuration file: %w", err)
		}
	}

	level, err := logrus.ParseLevel(Cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("polyhash: %w", err)
	}
	logrus.SetLevel(level)

	switch format := Cfg.GetString("log-format"); format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("polyhash: invalid log format %q", format)
	}
	return nil
}
