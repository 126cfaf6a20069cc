// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/meta"
)

const bashCompletionScript = `# bash completion for scrapediff
_scrapediff()
{
    local cur cmd opts
    COMPREPLY=()
    cur=${COMP_WORDS[COMP_CWORD]}

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "%s --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    case "$cmd" in
%s
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}
complete -F _scrapediff scrapediff
`

const zshCompletionPrelude = `#compdef scrapediff
autoload -U +X bashcompinit && bashcompinit
`

// completionScript renders the bash script from the live command tree so
// that new flags are completed without edits here.
func completionScript(root *cli.Command) string {
	var names []string
	var cases strings.Builder
	for _, c := range root.Commands {
		if c.Hidden {
			continue
		}
		names = append(names, c.Name)

		var opts []string
		for _, f := range c.Flags {
			for _, n := range f.Names() {
				if len(n) == 1 {
					opts = append(opts, "-"+n)
				} else {
					opts = append(opts, "--"+n)
				}
			}
		}
		if c.Name == "completion" {
			opts = []string{"bash", "zsh"}
		}
		fmt.Fprintf(&cases, "    %s)\n        opts=%q\n        ;;\n", c.Name, strings.Join(opts, " "))
	}

	return fmt.Sprintf(bashCompletionScript, strings.Join(names, " "), strings.TrimRight(cases.String(), "\n"))
}

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	w := writer(cmd)

	switch shell {
	case "", "bash":
		fmt.Fprint(w, completionScript(cmd.Root()))
	case "zsh":
		fmt.Fprint(w, zshCompletionPrelude+completionScript(cmd.Root()))
	default:
		return configErrorf("unsupported shell %q, want bash or zsh", shell)
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "print a shell completion script",
		UsageText: "scrapediff completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
