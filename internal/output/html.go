// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"html/template"
	"io"

	"github.com/scrapediff/scrapediff/internal/differ"
	"github.com/scrapediff/scrapediff/internal/snapshot"
)

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":         func(i int) int { return i + 1 },
	"changeClass": changeClass,
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Relatório de Comparação de Anúncios</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        h1 { color: #FF5A5F; }
        .room { margin-bottom: 30px; border: 1px solid #ddd; padding: 15px; border-radius: 5px; }
        .room-header { background-color: #f8f8f8; padding: 10px; margin-bottom: 15px; border-radius: 3px; }
        .comparison { margin-bottom: 20px; padding-bottom: 10px; border-bottom: 1px dashed #ccc; }
        .changes { margin-left: 20px; }
        .change-item { margin: 5px 0; }
        .price-increase { color: #e74c3c; }
        .price-decrease { color: #27ae60; }
        .timestamp { color: #7f8c8d; font-size: 0.9em; }
        .no-changes { color: #7f8c8d; font-style: italic; }
    </style>
</head>
<body>
    <h1>Relatório de Comparação de Anúncios</h1>
    <p>Gerado em: {{ .Generated }}</p>
{{- if not .Entities }}
<p class="no-changes">Nenhuma mudança detectada.</p>
{{- end }}
{{- range .Entities }}
<div class="room">
<div class="room-header"><h2>Room ID: {{ .ID }}</h2><p>Total de comparações: {{ len .Results }}</p></div>
{{- range $i, $res := .Results }}
<div class="comparison">
<h3>Comparação {{ inc $i }}</h3>
<p>Arquivo antigo: <code>{{ $res.OldSource }}</code></p>
<p>Arquivo novo: <code>{{ $res.NewSource }}</code></p>
<p class="timestamp">Período: {{ $res.OldTimestamp }} → {{ $res.NewTimestamp }}</p>
<h4>Mudanças detectadas:</h4>
<ul class="changes">
{{- range $res.Changes }}
<li class="change-item {{ changeClass . }}">{{ .Formatted }}</li>
{{- end }}
</ul>
</div>
{{- end }}
</div>
{{- end }}
</body>
</html>
`))

type htmlEntity struct {
	ID      string
	Results []differ.ComparisonResult
}

// changeClass marks numeric price changes by direction.
func changeClass(c differ.ChangeRecord) string {
	if c.Field != "price" || c.OldValue.Kind() != snapshot.Number || c.NewValue.Kind() != snapshot.Number {
		return ""
	}
	switch {
	case c.NewValue.Num() > c.OldValue.Num():
		return "price-increase"
	case c.NewValue.Num() < c.OldValue.Num():
		return "price-decrease"
	}
	return ""
}

func renderHTML(w io.Writer, r *Report) error {
	data := struct {
		Generated string
		Entities  []htmlEntity
	}{Generated: r.GeneratedAt.Format(generatedLayout)}

	for _, id := range r.Entities() {
		data.Entities = append(data.Entities, htmlEntity{ID: id, Results: r.Results[id]})
	}

	return htmlReport.Execute(w, data)
}
