package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bsm/polyhash/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ReadGeoJSON reads a feature collection. Row IDs are taken from the feature
// ID, an "id" property or the position of the feature, in that order.
func ReadGeoJSON(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("table: invalid feature collection: %w", err)
	}

	t := &Table{Rows: make([]Row, 0, len(fc.Features))}
	for i, f := range fc.Features {
		t.Rows = append(t.Rows, Row{
			ID:         featureID(f, i),
			Geometry:   f.Geometry,
			Properties: f.Properties,
		})
	}
	return t, nil
}

func featureID(f *geojson.Feature, pos int) string {
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	if v, ok := f.Properties["id"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return strconv.Itoa(pos)
}

// WriteCells writes one feature per cell of column.
func WriteCells(w io.Writer, t *Table, column string) error {
	fc := geojson.NewFeatureCollection()
	for i := range t.Rows {
		row := &t.Rows[i]
		for _, h := range row.Columns[column] {
			poly, err := geo.CellPolygon(h)
			if err != nil {
				return err
			}

			f := geojson.NewFeature(poly)
			f.Properties["row"] = row.ID
			f.Properties["geohash"] = string(h)
			f.Properties["precision"] = len(h)
			fc.Append(f)
		}
	}
	return writeJSON(w, fc)
}

// WriteGeometries writes one feature per row, with geometries as returned
// by Geometries. Rows without geometries are skipped.
func WriteGeometries(w io.Writer, t *Table, column string, geoms []orb.MultiPolygon) error {
	if len(geoms) != len(t.Rows) {
		return fmt.Errorf("table: expected %d geometries, got %d", len(t.Rows), len(geoms))
	}

	fc := geojson.NewFeatureCollection()
	for i := range t.Rows {
		if geoms[i] == nil {
			continue
		}

		row := &t.Rows[i]
		f := geojson.NewFeature(geoms[i])
		f.ID = row.ID
		for k, v := range row.Properties {
			f.Properties[k] = v
		}
		f.Properties["cells"] = len(row.Columns[column])
		fc.Append(f)
	}
	return writeJSON(w, fc)
}

func writeJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
