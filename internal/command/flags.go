// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/config"
	"github.com/scrapediff/scrapediff/internal/differ"
	"github.com/scrapediff/scrapediff/internal/extract"
	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// NewPrefixFlag constructs the --prefix flag. Sources are the environment,
// then "<ns>.prefix" and "prefix" in the config file.
func NewPrefixFlag(ns string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, &cli.StringFlag{
		Name:  "prefix",
		Usage: "source-name prefix that precedes the entity id",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SCRAPEDIFF_PREFIX"),
		),
		Value: snapshot.DefaultPrefix,
	})
}

// NewExtractedDirFlag constructs the --extracted-dir flag, a directory or
// s3://bucket/prefix holding structured records.
func NewExtractedDirFlag(ns string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, &cli.StringFlag{
		Name:    "extracted-dir",
		Aliases: []string{"e"},
		Usage:   "directory or s3://bucket/prefix with structured records",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SCRAPEDIFF_EXTRACTED_DIR"),
		),
		Value: "./extracted",
	})
}

// NewOutputDirFlag constructs the --output-dir flag with a command specific
// default.
func NewOutputDirFlag(ns, value string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, &cli.StringFlag{
		Name:    "output-dir",
		Aliases: []string{"o"},
		Usage:   "directory to write output to, created when missing",
		Value:   value,
	})
}

// NewRoomIDFlag constructs the --room-id flag.
func NewRoomIDFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "room-id",
		Aliases:  []string{"r"},
		Usage:    "limit the run to one entity id",
		Required: required,
	}
}

// NewColorFlag constructs the --color flag. Color defaults to on when stdout
// is a terminal.
func NewColorFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   "enable colored text output (default: stdout is a terminal)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SCRAPEDIFF_COLOR"),
		),
	}
}

// NewFieldsFlag constructs the --fields flag, e.g. "!rating" or
// "!*,price,price_text".
func NewFieldsFlag() *cli.StringFlag {
	value, _ := config.GetString("compare.fields", "")
	return &cli.StringFlag{
		Name:  "fields",
		Usage: "listing fields to compare, ! excludes, * means all monitored fields",
		Value: value,
	}
}

// NewFilterFlag constructs the --filter flag, e.g. "field=price,new_value>500".
func NewFilterFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"F"},
		Usage:   "keep only changes matching key-operator-value filters, comma separated",
	}
}

// NewToleranceFlag constructs the --tolerance flag. The default comes from
// compare.tolerance in the config file.
func NewToleranceFlag() *cli.FloatFlag {
	value, _ := config.GetFloat("compare.tolerance", differ.DefaultTolerance)
	return &cli.FloatFlag{
		Name:  "tolerance",
		Usage: "relative numeric change treated as noise",
		Value: value,
		Validator: func(value float64) error {
			return FlagValidators(value, ToleranceValidator)
		},
	}
}

// NewMinBodyFlag constructs the --min-body flag. The default comes from
// extract.min_body_length in the config file.
func NewMinBodyFlag() *cli.IntFlag {
	value, _ := config.GetInt("extract.min_body_length", extract.DefaultMinBody)
	return &cli.IntFlag{
		Name:  "min-body",
		Usage: "body length below which the fallback extraction runs",
		Value: value,
	}
}

// NewS3Flags constructs the flags that tune access to s3:// sources.
func NewS3Flags(ns string) []cli.Flag {
	return []cli.Flag{
		withConfigKey(&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region of s3:// sources",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWS_REGION"),
				cli.EnvVar("AWS_DEFAULT_REGION"),
			),
		}, "s3.region"),
		withConfigKey(&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile for s3:// sources",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWS_PROFILE"),
			),
		}, "s3.profile"),
		withConfigKey(&cli.StringFlag{
			Name:  "endpoint",
			Usage: "S3-compatible endpoint, implies path-style addressing",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SCRAPEDIFF_S3_ENDPOINT"),
			),
		}, "s3.endpoint"),
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, flag *cli.StringFlag) *cli.StringFlag {
	path, err := config.File()
	if err != nil {
		return flag
	}

	if ns != "" {
		src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// withConfigKey appends a single config file key to the flag's sources.
func withConfigKey(flag *cli.StringFlag, key string) *cli.StringFlag {
	path, err := config.File()
	if err != nil {
		return flag
	}
	flag.Sources.Chain = append(flag.Sources.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
	return flag
}
