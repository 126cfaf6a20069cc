// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/config"
	"github.com/scrapediff/scrapediff/internal/meta"
)

// InitApp loads the environment and configuration and builds the command
// tree. Errors returned here are configuration errors.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// Values in .env never override the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// The arg[1] immediately following the binary is the subcommand and also
	// the namespace used when retrieving config values. arg[1] could be
	// -h/--help, so ignore it if it appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load(ns)
	if err != nil {
		// A config file that exists but cannot be parsed, or an explicit
		// SCRAPEDIFF_CFG_FILE that is unusable, is fatal. No file at all is not.
		if _, ferr := config.File(); ferr == nil || os.Getenv("SCRAPEDIFF_CFG_FILE") != "" {
			return nil, err
		}
		log.Debugf("no config file: %v", err)
		config.Config.Namespace = ns
		cfg = config.Config
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
		StartedAt:   time.Now(),
	}

	app := &cli.Command{
		Name:  "scrapediff",
		Usage: "extract scraped listings and report how they change",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "scrapediff version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		extractCommandBuilder(meta),
		compareCommandBuilder(meta),
		entitiesCommandBuilder(meta),
		diffCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
