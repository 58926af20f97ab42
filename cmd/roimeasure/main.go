// seehuhn.de/go/measure - area measurements for tiled raster images
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Roimeasure measures class proportions and areas of regions of interest
// over a directory of classified tiles.
//
// Usage:
//
//	roimeasure measure --config measure.yaml --roi regions.yaml
//	roimeasure names --config measure.yaml
//
// Measurements are written to standard output as tab-separated values,
// one row per region.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"seehuhn.de/go/measure"
	"seehuhn.de/go/measure/config"
	"seehuhn.de/go/measure/roi"
	"seehuhn.de/go/measure/tiles"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configFile string
	verbose    bool

	roiFile    string
	cachedOnly bool
	wholeImage bool

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opt := &options{}

	root := &cobra.Command{
		Use:   "roimeasure",
		Short: "Measure classified pixels inside regions of interest.",
		Long: `Roimeasure counts the output of a pixel classifier inside regions of
interest and reports class percentages and areas.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opt.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&opt.configFile, "config", "./measure.yaml", "configuration file location")
	root.PersistentFlags().BoolVarP(&opt.verbose, "verbose", "v", false, "log debug messages")

	measureCmd := &cobra.Command{
		Use:   "measure",
		Short: "Measure the regions listed in a YAML file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opt.runMeasure(cmd.Context(), cmd.OutOrStdout())
		},
	}
	measureCmd.Flags().StringVar(&opt.roiFile, "roi", "", "YAML file listing the regions to measure")
	measureCmd.Flags().BoolVar(&opt.cachedOnly, "cached-only", false, "diagnostics: only use tiles already decoded by this process, so a fresh run leaves all rows empty")
	measureCmd.Flags().BoolVar(&opt.wholeImage, "whole-image", false, "add a row for the whole image")
	measureCmd.MarkFlagRequired("roi")

	namesCmd := &cobra.Command{
		Use:   "names",
		Short: "List the measurement names for the configured classifier.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opt.manager()
			if err != nil {
				return err
			}
			for _, name := range m.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	root.AddCommand(measureCmd, namesCmd)
	return root
}

// setup reads the configuration and prepares the logger.
func (opt *options) setup(logOut io.Writer) error {
	cfg, err := config.Load(opt.configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	opt.cfg = cfg

	level, _ := cfg.LogLevel()
	if opt.verbose {
		level = logrus.DebugLevel
	}
	opt.log = logrus.New()
	opt.log.SetOutput(logOut)
	opt.log.SetLevel(level)
	opt.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func (opt *options) manager() (*measure.Manager, error) {
	meta, err := opt.cfg.Metadata()
	if err != nil {
		return nil, err
	}
	src, err := tiles.NewDir(opt.cfg.Source.Dir, opt.cfg.Source.Pattern, meta, opt.cfg.Cache.Tiles)
	if err != nil {
		return nil, err
	}
	src.Log = opt.log

	cache := measure.NewCache(opt.cfg.Cache.MaxSources)
	cache.Log = opt.log
	return measure.NewManager(src, measure.WithCache(cache), measure.WithLogger(opt.log)), nil
}

func (opt *options) runMeasure(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rois, err := readROIs(opt.roiFile)
	if err != nil {
		return err
	}
	m, err := opt.manager()
	if err != nil {
		return err
	}
	names := m.Names()

	var sb strings.Builder
	sb.WriteString("Name\tType")
	for _, name := range names {
		sb.WriteByte('\t')
		sb.WriteString(name)
	}
	sb.WriteByte('\n')

	row := func(label, kind string, l *measure.List, ok bool) {
		sb.WriteString(label)
		sb.WriteByte('\t')
		sb.WriteString(kind)
		for _, name := range names {
			sb.WriteByte('\t')
			if !ok {
				continue
			}
			v, _ := l.Get(name)
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteByte('\n')
	}

	if opt.wholeImage {
		if root := m.Root(); root != nil {
			l, ok := m.Calculate(ctx, root, opt.cachedOnly)
			row("Image", "image", l, ok)
		} else {
			opt.log.Warn("image has no single plane for whole-image measurements")
		}
	}

	missing := 0
	for _, r := range rois {
		l, ok := m.Calculate(ctx, r.roi, opt.cachedOnly)
		if !ok {
			missing++
			opt.log.WithField("roi", r.name).Warn("no measurements")
		}
		row(r.name, kindOf(r.roi), l, ok)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	if missing > 0 {
		opt.log.WithFields(logrus.Fields{
			"missing": missing,
			"total":   len(rois),
		}).Info("some regions could not be measured")
	}
	return nil
}

func kindOf(r roi.ROI) string {
	switch {
	case r.IsPoint():
		return "points"
	case r.IsLine():
		return "line"
	default:
		return "area"
	}
}
