package render

import (
	"fmt"
	"html/template"
	"io"

	"sentinel/internal/domain"
)

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":     func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
	"level":   func(c domain.ScoredCollision) string { return string(c.Level()) },
	"when":    Temporal,
	"why":     Why,
	"display": func(r domain.Relation) string { return r.Display() },
	"empty":   EmptyState,
	"trigger": func(c domain.ScoredCollision) string { return c.Trigger().Name },
	"impact":  func(c domain.ScoredCollision) string { return c.Impact().Name },
	"ordinal": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>sentinel: energy collisions</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; color: #1F2937; }
.card { border: 2px solid #6B7280; border-radius: 8px; padding: 0.75rem 1rem; margin-bottom: 1rem; }
.HIGH { border-color: #EF4444; } .MEDIUM { border-color: #F59E0B; } .LOW { border-color: #6B7280; }
.acked { opacity: 0.6; }
.rel { color: #6B7280; font-style: italic; }
.meta { color: #6B7280; font-size: 0.9rem; }
</style>
</head>
<body>
<h1>Energy collisions</h1>
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}. Minimum confidence {{pct .MinConfidence}}.</p>
{{if not .Collisions}}<p>{{empty .}}</p>{{end}}
{{range $i, $c := .Collisions}}
<div class="card {{level $c}}{{if $c.Acknowledged}} acked{{end}}">
<h2>#{{ordinal $i}} {{trigger $c}} &rarr; {{impact $c}} <small>[{{level $c}}] {{pct $c.Confidence}}</small></h2>
<p>{{range $j, $s := $c.Path}}{{if $s.Via}} <span class="rel">{{if $s.Reversed}}&larr; {{display $s.Via.Relation}} &larr;{{else}}&rarr; {{display $s.Via.Relation}} &rarr;{{end}}</span> {{end}}<strong>{{$s.Node.Name}}</strong>{{end}}</p>
{{with when $c}}<p class="meta">When: {{.}}</p>{{end}}
<p class="meta">Why: {{why $c}}</p>
</div>
{{end}}
<p class="meta">Analyzed {{.RelationshipsAnalyzed}} relationship(s) from {{.Triggers}} trigger(s); {{.HiddenLowConfidence}} below threshold and {{.HiddenAcknowledged}} acknowledged hidden.</p>
</body>
</html>
`))

// WriteHTML renders r as a standalone HTML page
func WriteHTML(w io.Writer, r Report) error {
	return htmlReport.Execute(w, r)
}
