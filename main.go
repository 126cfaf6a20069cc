// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/scrapediff/scrapediff/internal/command"
	"github.com/scrapediff/scrapediff/internal/config"
	"github.com/scrapediff/scrapediff/internal/log"
	"github.com/scrapediff/scrapediff/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// hasHelp reports whether --help or -h appears anywhere in args.
func hasHelp(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return command.ExitStatus(err)
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	if !hasHelp(args) && args[1] != "completion" {
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands the first @name argument after the subcommand into
// the argument set stored under "<command>.<name>" in the config file. Each
// entry of the set may hold several space separated arguments.
func processSetOnly(args []string) []string {
	return expandSet(args, func(key string) []string {
		entries, _ := config.GetStringSlice(key)
		return entries
	})
}

func expandSet(args []string, lookup func(string) []string) []string {
	if len(args) < 3 {
		return args
	}

	at := -1
	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") && len(args[i]) > 1 {
			at = i
			break
		}
	}
	if at == -1 {
		return args
	}

	var expanded []string
	for _, entry := range lookup(args[1] + "." + args[at][1:]) {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)-1+len(expanded))
	out = append(out, args[:at]...)
	out = append(out, expanded...)
	out = append(out, args[at+1:]...)
	return out
}
