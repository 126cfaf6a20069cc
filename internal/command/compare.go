// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/filters"
	"github.com/scrapediff/scrapediff/internal/loader"
	"github.com/scrapediff/scrapediff/internal/meta"
	"github.com/scrapediff/scrapediff/internal/output"
	"github.com/scrapediff/scrapediff/internal/source"
	"github.com/scrapediff/scrapediff/internal/util"
)

// compareCommandAction is the action handler for the "compare" subcommand. It
// compares every older snapshot of each entity against its latest snapshot
// and writes one report.
func compareCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	src, err := openSource(ctx, cmd, cmd.String("extracted-dir"), ".json")
	if err != nil {
		return err
	}
	defer source.PurgeCache()

	outDir, err := util.EnsureWritableDir(cmd.String("output-dir"))
	if err != nil {
		return &ConfigError{Err: err}
	}

	l := loader.New(src, cmd.String("prefix"))
	entity := cmd.String("room-id")

	entities := []string{entity}
	if entity == "" {
		if entities, err = l.Entities(ctx); err != nil {
			return err
		}
	}
	log.Debugf("comparing %d entities from %s", len(entities), src)

	d, err := newDetector(cmd)
	if err != nil {
		return err
	}
	report := output.NewReport(entity, m.StartedAt)

	for _, id := range entities {
		snaps, err := l.Load(ctx, id)
		if err != nil {
			return err
		}
		results, err := filters.Results(d.CompareEntity(snaps), cmd.String("filter"))
		if err != nil {
			return err
		}
		report.Add(id, results)
	}

	path, err := output.Write(outDir, report, cmd.String("report-format"))
	if err != nil {
		return err
	}

	w := writer(cmd)
	fmt.Fprintf(w, "Relatório gerado com sucesso: %s\n", path)
	if !cmd.Bool("quiet") {
		output.Summary(w, report, output.SummaryOptions{
			Color: useColor(cmd),
			Sort:  cmd.String("sort"),
		})
	}

	return nil
}

// compareCommandBuilder constructs the cli.Command for "compare", wiring
// metadata, flags, and action handlers.
func compareCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "report how each entity changed since its older snapshots",
		UsageText: "scrapediff compare [--room-id ID] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewRoomIDFlag(false),
			NewExtractedDirFlag("compare"),
			NewOutputDirFlag("compare", "./comparison_reports"),
			NameSpacedValueChainFlagFromConfigFile("compare", &cli.StringFlag{
				Name:    "report-format",
				Aliases: []string{"f"},
				Usage:   "report encoding: json, txt, html, yaml or xlsx",
				Value:   "json",
			}),
			NewFilterFlag(),
			NewPrefixFlag("compare"),
			NewToleranceFlag(),
			NewFieldsFlag(),
			NewColorFlag(),
			&cli.StringFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "summary order, e.g. -changes,entity",
				Value:   "entity",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "skip the summary table",
			},
		}, NewS3Flags("compare")...),
		Action: compareCommandAction,
	}
}
