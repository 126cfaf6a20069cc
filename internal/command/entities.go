// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/loader"
	"github.com/scrapediff/scrapediff/internal/meta"
)

// entitiesCommandAction prints the distinct entity ids of a source, one per
// line.
func entitiesCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	src, err := openSource(ctx, cmd, cmd.String("extracted-dir"), cmd.String("ext"))
	if err != nil {
		return err
	}

	ids, err := loader.New(src, cmd.String("prefix")).Entities(ctx)
	if err != nil {
		return err
	}

	w := writer(cmd)
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

func entitiesCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "entities",
		Usage:     "list the entity ids found in a source",
		UsageText: "scrapediff entities [--extracted-dir DIR] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewExtractedDirFlag("entities"),
			NewPrefixFlag("entities"),
			&cli.StringFlag{
				Name:  "ext",
				Usage: "extension of the files to consider, e.g. .html for raw scrapes",
				Value: ".json",
			},
		}, NewS3Flags("entities")...),
		Action: entitiesCommandAction,
	}
}
