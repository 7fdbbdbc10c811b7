package main

import (
	"io"
	"os"

	"github.com/bsm/polyhash/cellstore"
	"github.com/bsm/polyhash/index"
	"github.com/bsm/polyhash/index/lsst"
	"github.com/bsm/polyhash/index/rstore"
	"github.com/bsm/polyhash/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// writeCells writes the cells of column to all configured outputs. Without
// any, GeoJSON is written to stdout.
func writeCells(cmd *cobra.Command, t *table.Table, column string) error {
	written := false

	if fname := Cfg.GetString("tab"); fname != "" {
		w, err := index.AppendTab(fname)
		if err != nil {
			return err
		}
		if err := writeIndex(w, t, column); err != nil {
			return err
		}
		logrus.WithField("file", fname).Info("wrote tab index")
		written = true
	}

	if fname := Cfg.GetString("sst"); fname != "" {
		store, err := lsst.CreateFile(fname, nil)
		if err != nil {
			return err
		}
		if err := writeIndex(index.NewWriter(store), t, column); err != nil {
			return err
		}
		logrus.WithField("file", fname).Info("wrote sst index")
		written = true
	}

	if url := Cfg.GetString("redis-url"); url != "" {
		store, err := rstore.Open(url, &rstore.Options{Prefix: Cfg.GetString("redis-prefix")})
		if err != nil {
			return err
		}
		if err := writeIndex(index.NewWriter(store), t, column); err != nil {
			return err
		}
		logrus.Info("wrote redis index")
		written = true
	}

	if fname := Cfg.GetString("cellstore"); fname != "" {
		if err := writeCellStore(fname, t, column); err != nil {
			return err
		}
		logrus.WithField("file", fname).Info("wrote cell store")
		written = true
	}

	if !written || Cfg.GetString("output") != "" {
		return writeOutput(cmd, func(w io.Writer) error {
			return table.WriteCells(w, t, column)
		})
	}
	return nil
}

func writeIndex(w index.HashWriter, t *table.Table, column string) error {
	if err := table.WriteIndex(w, t, column); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func writeCellStore(fname string, t *table.Table, column string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	w := cellstore.NewWriter(f, nil)
	if err := table.WriteCellStore(w, t, column, &cellstore.SorterOptions{TempDir: Cfg.GetString("tmp-dir")}); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

// writeOutput writes to the --output file or to stdout.
func writeOutput(cmd *cobra.Command, fn func(io.Writer) error) error {
	fname := Cfg.GetString("output")
	if fname == "" || fname == "-" {
		return fn(cmd.OutOrStdout())
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	return f.Close()
}
