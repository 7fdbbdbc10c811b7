package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsm/polyhash/optimize"
	"github.com/bsm/polyhash/osmx"
	"github.com/bsm/polyhash/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Cover geometries with cells",
	Long: `cover reads geometries and covers each of them with geohash cells of
the configured --precision. By default, all cells intersecting a geometry are
included, --inner restricts the cover to fully contained cells.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t, err := cover(cmd.Context())
		if err != nil {
			return err
		}
		logrus.WithField("cells", t.Count(table.HashListColumn)).Info("covered geometries")
		return writeCells(cmd, t, table.HashListColumn)
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Cover geometries with optimized mixed-precision cells",
	Long: `optimize covers geometries like cover does and reduces each cover to a
mixed-precision set. Complete groups of sibling cells are always merged, partial
groups are merged while the added area stays within --percentage-error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t, err := coverAndOptimize(cmd.Context())
		if err != nil {
			return err
		}
		return writeCells(cmd, t, table.OptimizedColumn)
	},
}

var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Dissolve optimized covers into geometries",
	Long: `geometry covers and optimizes geometries like optimize does and writes
the union of each row's cells as a single GeoJSON feature.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		t, err := coverAndOptimize(ctx)
		if err != nil {
			return err
		}

		geoms, err := t.Geometries(ctx, table.OptimizedColumn, tableOptions())
		if err != nil {
			return err
		}
		return writeOutput(cmd, func(w io.Writer) error {
			return table.WriteGeometries(w, t, table.OptimizedColumn, geoms)
		})
	},
}

func tableOptions() *table.Options {
	return &table.Options{
		Concurrency: Cfg.GetInt("concurrency"),
		SkipErrors:  Cfg.GetBool("skip-errors"),
		Logger:      logrus.StandardLogger(),
	}
}

func optimizeOptions() *optimize.Options {
	inputPrecision := Cfg.GetInt("input-precision")
	if inputPrecision == 0 {
		inputPrecision = Cfg.GetInt("precision")
	}
	return &optimize.Options{
		InputPrecision:  inputPrecision,
		MinPrecision:    Cfg.GetInt("min-precision"),
		MaxPrecision:    Cfg.GetInt("max-precision"),
		PercentageError: Cfg.GetFloat64("percentage-error"),
		ForceUpscale:    Cfg.GetBool("force-upscale"),
	}
}

func cover(ctx context.Context) (*table.Table, error) {
	t, err := readInput(Cfg.GetString("input"), Cfg.GetString("input-format"))
	if err != nil {
		return nil, err
	}
	logrus.WithField("rows", t.Len()).Debug("read input")

	return t.CreateHashList(ctx, table.HashListColumn, Cfg.GetInt("precision"), Cfg.GetBool("inner"), tableOptions())
}

func coverAndOptimize(ctx context.Context) (*table.Table, error) {
	t, err := cover(ctx)
	if err != nil {
		return nil, err
	}

	t, err = t.Optimize(ctx, table.HashListColumn, table.OptimizedColumn, optimizeOptions(), tableOptions())
	if err != nil {
		return nil, err
	}

	summary := table.Summary(t, table.HashListColumn, table.OptimizedColumn)
	logrus.WithFields(logrus.Fields{
		"initial":   summary.Initial,
		"final":     summary.Final,
		"reduction": fmt.Sprintf("%.2f%%", summary.Reduction()),
	}).Info("optimized cells")
	return t, nil
}

// readInput reads a table from a GeoJSON or an OSM XML file.
func readInput(fname, format string) (*table.Table, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(fname)) {
		case ".osm", ".xml":
			format = "osm"
		default:
			format = "geojson"
		}
	}

	var r io.Reader = os.Stdin
	if fname != "-" {
		f, err := os.Open(fname)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	switch format {
	case "geojson":
		return table.ReadGeoJSON(r)
	case "osm":
		return readOSM(r)
	default:
		return nil, fmt.Errorf("polyhash: invalid input format %q", format)
	}
}

// readOSM reads the first boundary relation into a single-row table.
func readOSM(r io.Reader) (*table.Table, error) {
	m, err := osmx.Decode(r)
	if err != nil {
		return nil, err
	}

	mp, err := m.MultiPolygon()
	if err != nil {
		return nil, err
	}

	props := map[string]interface{}{"name": m.Name()}
	if s := m.CountryAlpha2(); s != "" {
		props["alpha2"] = s
	}
	if s := m.CountryAlpha3(); s != "" {
		props["alpha3"] = s
	}

	return table.New(table.Row{
		ID:         fmt.Sprint(m.Rel().ID),
		Geometry:   mp,
		Properties: props,
	}), nil
}
