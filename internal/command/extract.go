// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/config"
	"github.com/scrapediff/scrapediff/internal/extract"
	"github.com/scrapediff/scrapediff/internal/meta"
	"github.com/scrapediff/scrapediff/internal/store"
	"github.com/scrapediff/scrapediff/internal/util"
)

// extractCommandAction is the action handler for the "extract" subcommand. It
// extracts a single file or every .html source of a directory and hands the
// records to the selected store.
func extractCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	input, inputDir := cmd.String("input"), cmd.String("input-dir")
	if (input == "") == (inputDir == "") {
		return configErrorf("exactly one of --input or --input-dir is required")
	}

	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.WithError(err).Warn("failed to close store")
		}
	}()

	x := extract.New(
		extract.WithPrefix(cmd.String("prefix")),
		extract.WithMinBody(cmd.Int("min-body")),
	)
	w := writer(cmd)

	if input != "" {
		if _, err := util.ExistingFile(input); err != nil {
			return &ConfigError{Err: err}
		}
		rec, err := x.ExtractFile(input)
		if err != nil {
			return err
		}
		if err := st.Put(ctx, rec); err != nil {
			return err
		}
		fmt.Fprintf(w, "Processado: %s\n", rec.Metadata.SourceFile)
		return nil
	}

	src, err := openSource(ctx, cmd, inputDir, ".html")
	if err != nil {
		return err
	}

	stats, err := x.Run(ctx, src, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Processados: %d, bloqueados: %d, falhas: %d\n", stats.Processed, stats.Blocked, stats.Failed)

	return nil
}

// openStore builds the store selected by --store. Stores that cannot be set
// up are configuration errors.
func openStore(ctx context.Context, cmd *cli.Command) (store.Store, error) {
	kind := cmd.String("store")
	dsn := cmd.String("dsn")
	if kind == "postgres" && dsn == "" {
		dsn, _ = config.GetString("postgres.dsn", "")
		if dsn == "" {
			return nil, configErrorf("--store postgres needs --dsn or postgres.dsn")
		}
	}

	st, err := store.New(ctx, kind, store.Settings{
		Dir:    cmd.String("output-dir"),
		Format: cmd.String("format"),
		DSN:    dsn,
	})
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return st, nil
}

// extractCommandBuilder constructs the cli.Command for "extract", wiring
// metadata, flags, and action handlers.
func extractCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "turn scraped HTML into structured records",
		UsageText: "scrapediff extract [--input FILE | --input-dir DIR] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "a single HTML file to extract",
			},
			&cli.StringFlag{
				Name:    "input-dir",
				Aliases: []string{"d"},
				Usage:   "directory or s3://bucket/prefix with HTML files to extract",
			},
			NewOutputDirFlag("extract", "./extracted"),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "artifacts to write: json, text or both",
				Value:   "both",
				Validator: func(value string) error {
					return FlagValidators(value, FormatValidator)
				},
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "where records go: file or postgres",
				Value: "file",
				Validator: func(value string) error {
					return FlagValidators(value, StoreValidator)
				},
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "postgres connection string for --store postgres",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("SCRAPEDIFF_DSN"),
					cli.EnvVar("DATABASE_URL"),
				),
			},
			NewPrefixFlag("extract"),
			NewMinBodyFlag(),
		}, NewS3Flags("extract")...),
		Action: extractCommandAction,
	}
}
