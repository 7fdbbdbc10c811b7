package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bsm/polyhash/cellstore"
	"github.com/bsm/polyhash/index"
	"github.com/bsm/polyhash/index/lsst"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup LAT LNG",
	Short: "Find the rows covering a point",
	Long: `lookup prints all cells of an index which contain the point, coarsest
first, together with the IDs of the rows they belong to. With --nearby, the
cells of a cell store closest to the point are printed instead.
Precede negative coordinates with --.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseLatLng(args)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if fname := Cfg.GetString("cellstore"); fname != "" {
			return lookupCellStore(w, fname, lat, lng, Cfg.GetInt("nearby"))
		}
		if fname := Cfg.GetString("sst"); fname != "" {
			return lookupSST(w, fname, lat, lng)
		}
		return errors.New("polyhash: lookup requires --cellstore or --sst")
	},
}

func lookupCellStore(w io.Writer, fname string, lat, lng float64, nearby int) error {
	f, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	r, err := cellstore.NewReader(f, fi.Size())
	if err != nil {
		return err
	}

	if nearby > 0 {
		it, err := r.Nearby(lat, lng, nearby)
		if err != nil {
			return err
		}
		defer it.Release()

		for it.Next() {
			fmt.Fprintf(w, "%s\t%.6f\t%s\n", it.Hash(), it.Distance(), joinIDs(it.Value()))
		}
		return it.Err()
	}

	ents, err := r.Lookup(lat, lng)
	if err != nil {
		return err
	}
	for _, ent := range ents {
		fmt.Fprintf(w, "%s\t%s\n", ent.Hash, joinIDs(ent.Value))
	}
	return nil
}

func lookupSST(w io.Writer, fname string, lat, lng float64) error {
	store, err := lsst.OpenFile(fname, nil)
	if err != nil {
		return err
	}

	r := index.NewReader(store)
	defer r.Close()

	ents, err := r.Lookup(lat, lng)
	if err != nil {
		return err
	}
	for _, ent := range ents {
		fmt.Fprintf(w, "%s\t%s\n", ent.Hash, joinIDs(ent.Value))
	}
	return nil
}

func joinIDs(val []byte) []byte {
	return bytes.ReplaceAll(val, newline, comma)
}

var (
	newline = []byte{'\n'}
	comma   = []byte{','}
)
