package main

import (
	"fmt"
	"strconv"

	"github.com/bsm/polyhash/geohash"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode LAT LNG",
	Short: "Encode a point",
	Long: `encode prints the geohash of the cell containing the point.
Precede negative coordinates with --, i.e. polyhash encode -- -33.86 151.21.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseLatLng(args)
		if err != nil {
			return err
		}

		h, err := geohash.Encode(lat, lng, Cfg.GetInt("precision"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode HASH...",
	Short: "Decode geohashes",
	Long: `decode prints the bounding box, the center, the planar area in square
degrees and the estimated surface area in km² of each cell.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "hash\tmin_lat\tmin_lng\tmax_lat\tmax_lng\tlat\tlng\tarea_deg2\tarea_km2")
		for _, arg := range args {
			c, err := geohash.Decode(geohash.Hash(arg))
			if err != nil {
				return err
			}

			lat, lng := c.Center()
			fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%.3f\n",
				c.Hash, c.Lat.Lo, c.Lng.Lo, c.Lat.Hi, c.Lng.Hi, lat, lng, c.Area(), c.GeodesicArea())
		}
		return nil
	},
}

var neighborsCmd = &cobra.Command{
	Use:   "neighbors HASH",
	Short: "Print the neighbors of a geohash",
	Long: `neighbors prints the eight adjacent cells, clockwise from north.
Longitudes wrap around the antimeridian, cells at the poles have themselves
as northern or southern neighbors.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hs, err := geohash.Hash(args[0]).Neighbors()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for d, h := range hs {
			fmt.Fprintf(w, "%s\t%s\n", geohash.Direction(d), h)
		}
		return nil
	},
}

func parseLatLng(args []string) (lat, lng float64, err error) {
	if lat, err = strconv.ParseFloat(args[0], 64); err != nil {
		return 0, 0, fmt.Errorf("polyhash: invalid latitude %q", args[0])
	}
	if lng, err = strconv.ParseFloat(args[1], 64); err != nil {
		return 0, 0, fmt.Errorf("polyhash: invalid longitude %q", args[1])
	}
	return lat, lng, nil
}
