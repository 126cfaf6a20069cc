package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/scrapediff/scrapediff/internal/command"
)

const commandTemplate = `# scrapediff {{ .Name }}

{{ .Usage }}

` + "```" + `
{{ .UsageText }}
` + "```" + `
{{ if .Flags }}
## Flags

| Flag | Description | Default |
|---|---|---|
{{- range .Flags }}
| {{ .Syntax }} | {{ .Usage }} | {{ .Default }} |
{{- end }}
{{ end }}
_Generated {{ .Date }} for {{ .Version }}._
`

type Flag struct {
	Syntax  string
	Usage   string
	Default string
}

type TemplateData struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []Flag
	Date      string
	Version   string
}

// usager is satisfied by the urfave flag types.
type usager interface {
	GetUsage() string
}

type defaulter interface {
	GetValue() string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs-dir>")
		os.Exit(1)
	}
	folder := filepath.Join(os.Args[1], "commands")

	app, err := command.InitApp(context.Background(), []string{"scrapediff"})
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		panic(err)
	}

	version := getVersion()
	for _, cmd := range app.Commands {
		path := filepath.Join(folder, cmd.Name+".md")
		fmt.Println("Generating", path)

		file, err := os.Create(path)
		if err != nil {
			panic(err)
		}
		if err := render(file, cmd, version); err != nil {
			panic(err)
		}
		file.Close()
	}
}

// render writes the markdown reference page of one command.
func render(w io.Writer, cmd *cli.Command, version string) error {
	tmpl, err := template.New(cmd.Name).Parse(commandTemplate)
	if err != nil {
		return err
	}

	data := TemplateData{
		Name:      cmd.Name,
		Usage:     cmd.Usage,
		UsageText: cmd.UsageText,
		Date:      time.Now().Format("January 2, 2006"),
		Version:   version,
	}
	if data.UsageText == "" {
		data.UsageText = "scrapediff " + cmd.Name
	}

	for _, f := range cmd.Flags {
		var syntax []string
		for _, n := range f.Names() {
			if len(n) == 1 {
				syntax = append(syntax, "-"+n)
			} else {
				syntax = append(syntax, "--"+n)
			}
		}
		flag := Flag{Syntax: "`" + strings.Join(syntax, ", ") + "`"}
		if u, ok := f.(usager); ok {
			flag.Usage = u.GetUsage()
		}
		if d, ok := f.(defaulter); ok {
			flag.Default = d.GetValue()
		}
		data.Flags = append(data.Flags, flag)
	}
	sort.Slice(data.Flags, func(i, j int) bool {
		return data.Flags[i].Syntax < data.Flags[j].Syntax
	})

	return tmpl.Execute(w, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "v")
}
