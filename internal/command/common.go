// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/attrs"
	awsx "github.com/scrapediff/scrapediff/internal/aws"
	"github.com/scrapediff/scrapediff/internal/config"
	"github.com/scrapediff/scrapediff/internal/differ"
	"github.com/scrapediff/scrapediff/internal/meta"
	"github.com/scrapediff/scrapediff/internal/output"
	"github.com/scrapediff/scrapediff/internal/source"
)

// ConfigError marks a failure caused by how the run was configured, such as
// a missing input directory or an output directory that cannot be written.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// configErrorf wraps a formatted error in a ConfigError.
func configErrorf(format string, args ...any) error {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

// ExitStatus maps a run error to the process exit status: 0 for success, 1
// for configuration errors and 2 for anything else.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return 1
	}
	return 2
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// writer returns where command output goes.
func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// useColor honours an explicit --color and otherwise colors terminals only.
func useColor(cmd *cli.Command) bool {
	if cmd.IsSet("color") {
		return cmd.Bool("color")
	}
	return output.IsTerminal(writer(cmd))
}

// newDetector builds a change detector from --tolerance and --fields.
func newDetector(cmd *cli.Command) (*differ.Detector, error) {
	fields := attrs.Defaults()
	if err := fields.Set(cmd.String("fields")); err != nil {
		return nil, &ConfigError{Err: err}
	}
	keys := fields.Keys()
	if len(keys) == 0 {
		return nil, configErrorf("--fields %q leaves nothing to compare", cmd.String("fields"))
	}
	log.Debugf("comparing fields %v", keys)

	return differ.NewDetector(
		differ.WithTolerance(cmd.Float("tolerance")),
		differ.WithFields(keys...),
	), nil
}

// s3Settings collects the S3 flags and config keys.
func s3Settings(cmd *cli.Command) awsx.Settings {
	retries, _ := config.GetInt("s3.max_retries", 0)
	return awsx.Settings{
		Profile:    cmd.String("profile"),
		Region:     cmd.String("region"),
		Endpoint:   cmd.String("endpoint"),
		MaxRetries: retries,
	}
}

// openSource opens spec as a source of ext files. A spec that names nothing
// usable is a configuration error.
func openSource(ctx context.Context, cmd *cli.Command, spec, ext string) (source.Source, error) {
	src, err := source.New(ctx, spec, ext, s3Settings(cmd))
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return src, nil
}
