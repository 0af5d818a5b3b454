// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gosimple/slug"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/l3montree-dev/sunshine/cmd/sunshine/config"
	"github.com/l3montree-dev/sunshine/cmd/sunshine/printer"
	"github.com/l3montree-dev/sunshine/dtos"
	"github.com/l3montree-dev/sunshine/normalize"
	"github.com/l3montree-dev/sunshine/sbomgraph"
	"github.com/l3montree-dev/sunshine/transformer"
)

func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "analyze <sbom file>...",
		Short:             "Analyze the dependency graph and vulnerabilities of SBOMs",
		DisableAutoGenTag: true,
		Long: `Analyze one or more CycloneDX JSON documents.

Every component reference is resolved, the dependency graph is built and the
vulnerabilities of every component are propagated to all components depending
on it. Documents are analyzed concurrently and printed in the order they were
passed.`,
		Example: `  # Print tables of all components and vulnerabilities
  sunshine analyze bom.json

  # Print the dependency tree of the vulnerable components only
  sunshine analyze bom.json --format tree --only-vulnerable

  # Write one json report per document
  sunshine analyze a.json b.json --format json --out-dir ./reports`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringP("format", "f", config.FormatTable, "Output format. Options: table, tree, json, yaml")
	cmd.Flags().Bool("only-vulnerable", false, "Only show components which are vulnerable themselves or depend on a vulnerable component")
	cmd.Flags().Bool("lenient", false, "Accept documents which declare dependencies and vulnerabilities inline on components")
	cmd.Flags().String("out-dir", "", "Write one report per document into this directory instead of stdout")
	cmd.Flags().Int("reference-cache-size", normalize.DefaultReferenceCacheSize, "Size of the reference resolution cache of each document")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Parse(viper.GetViper())
	if err != nil {
		return err
	}

	reports, err := analyzeFiles(cmd.Context(), cfg, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.OutDir != "" || !isTerminal(out) {
		// reports written to files or pipes never contain escape sequences
		text.DisableColors()
	}

	for _, report := range reports {
		if cfg.OutDir != "" {
			if err := writeReport(cfg, report); err != nil {
				return err
			}
			continue
		}
		if err := printer.Render(out, cfg.Format, report); err != nil {
			return errors.Wrap(err, "could not render report")
		}
	}
	return nil
}

// analyzeFiles analyzes every file in its own goroutine. The reports keep the
// order of paths.
func analyzeFiles(ctx context.Context, cfg config.Config, paths []string) ([]printer.Report, error) {
	reports := make([]printer.Report, len(paths))

	// stdout is free while writing to files, show the progress on stderr
	var bar *progressbar.ProgressBar
	if cfg.OutDir != "" {
		bar = progressbar.Default(int64(len(paths)), "analyzing")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := analyzeFile(cfg, path)
			if err != nil {
				return err
			}
			reports[i] = report
			if bar != nil {
				bar.Add(1) // nolint
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func analyzeFile(cfg config.Config, path string) (printer.Report, error) {
	doc, err := readDocument(path, cfg.Lenient)
	if err != nil {
		return printer.Report{}, err
	}

	logger := slog.Default().With("source", path)
	logger.Debug("analyzing document", "components", len(doc.Components), "vulnerabilities", len(doc.Vulnerabilities))

	res := sbomgraph.Analyze(doc,
		sbomgraph.WithLogger(logger),
		sbomgraph.WithReferenceCacheSize(cfg.ReferenceCacheSize),
	)
	if len(res.Diagnostics) > 0 {
		logger.Info("document analyzed with diagnostics", "diagnostics", len(res.Diagnostics))
	}

	return printer.NewReport(path, res, cfg.OnlyVulnerable), nil
}

func readDocument(path string, lenient bool) (dtos.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return dtos.Document{}, errors.Wrap(err, "could not open sbom")
	}
	defer f.Close()

	var doc dtos.Document
	if lenient {
		doc, err = transformer.DecodeLenient(f)
	} else {
		doc, err = transformer.DecodeCycloneDX(f)
	}
	if err != nil {
		return dtos.Document{}, errors.Wrapf(err, "could not read %s", path)
	}
	return doc, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func reportFileName(source, format string) string {
	ext := format
	if format == config.FormatTable || format == config.FormatTree {
		ext = "txt"
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return slug.Make(base) + "." + ext
}

func writeReport(cfg config.Config, report printer.Report) error {
	target := filepath.Join(cfg.OutDir, reportFileName(report.Source, cfg.Format))
	f, err := os.Create(target)
	if err != nil {
		return errors.Wrap(err, "could not create report file")
	}
	defer f.Close()

	if err := printer.Render(f, cfg.Format, report); err != nil {
		return errors.Wrap(err, "could not render report")
	}
	slog.Info("report written", "source", report.Source, "path", target)
	return nil
}
