// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/differ"
	"github.com/scrapediff/scrapediff/internal/filters"
	"github.com/scrapediff/scrapediff/internal/loader"
	"github.com/scrapediff/scrapediff/internal/meta"
	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// diffCommandAction compares two snapshots of one entity. The pair comes from
// up to two snapshot specs, the interactive picker, or defaults to the two
// most recent snapshots.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	specs := cmd.Args().Slice()
	if len(specs) > 2 {
		return configErrorf("at most two snapshot specs, got %d", len(specs))
	}

	src, err := openSource(ctx, cmd, cmd.String("extracted-dir"), ".json")
	if err != nil {
		return err
	}

	entity := cmd.String("room-id")
	l := loader.New(src, cmd.String("prefix"))
	snaps, err := l.Load(ctx, entity)
	if err != nil {
		return err
	}
	if len(snaps) < 2 {
		return fmt.Errorf("entity %s has %d comparable snapshot(s), at least 2 needed", entity, len(snaps))
	}

	w := writer(cmd)

	var pair []snapshot.Snapshot
	if cmd.Bool("pick") {
		pair, err = differ.SelectSnapshots(snaps, reader(cmd), w)
	} else {
		if len(specs) == 1 {
			specs = append(specs, "latest~0")
		}
		pair, err = loader.Resolve(snaps, specs...)
	}
	if err != nil {
		return err
	}
	older, newer := pair[0], pair[1]

	d, err := newDetector(cmd)
	if err != nil {
		return err
	}
	res := d.Pair(older, newer)
	if res.Changes, err = filters.Changes(res.Changes, cmd.String("filter")); err != nil {
		return err
	}

	fmt.Fprintf(w, "Comparando %s → %s\n", older.Source(), newer.Source())
	if len(res.Changes) == 0 {
		fmt.Fprintln(w, "Nenhuma mudança detectada.")
	}
	for _, c := range res.Changes {
		fmt.Fprintf(w, "  - %s\n", c.Formatted)
	}

	if !cmd.Bool("raw") {
		return nil
	}

	a, _, err := src.Read(ctx, older.Source())
	if err != nil {
		return err
	}
	b, _, err := src.Read(ctx, newer.Source())
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	_, err = differ.RawDiff(a, b, w, differ.RawDiffOptions{
		Ignore: splitList(cmd.String("ignore")),
		Color:  useColor(cmd),
	})
	return err
}

// reader returns where interactive input comes from.
func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "show the changes between two snapshots of one entity",
		UsageText: `scrapediff diff --room-id ID [SPEC_A] [SPEC_B] [options]

A SPEC is latest~N, -N, a timestamp prefix such as 2025-03-01 or a source
name. One SPEC is compared against the latest snapshot, none compares the two
most recent snapshots.`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewRoomIDFlag(true),
			NewExtractedDirFlag("diff"),
			NewPrefixFlag("diff"),
			NewToleranceFlag(),
			NewFieldsFlag(),
			NewColorFlag(),
			NewFilterFlag(),
			&cli.BoolFlag{
				Name:    "pick",
				Aliases: []string{"p"},
				Usage:   "choose the two snapshots interactively",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "also show the structural diff of the two record files",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "ignore",
				Usage: "comma-separated top-level record keys left out of the structural diff",
				Value: "content",
			},
		}, NewS3Flags("diff")...),
		Action: diffCommandAction,
	}
}
