package assistant

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/hazyhaar/uxrefactor/pipeline"
)

var reportTmpl = template.Must(template.New("report").Parse(`<h1>UI analysis: {{if .Title}}{{.Title}}{{else}}{{or .URL "pasted markup"}}{{end}}</h1>
<table>
<tr><th>Field</th><th>Value</th></tr>
<tr><td>Analysis</td><td>{{.ID}}</td></tr>
{{- if .URL}}<tr><td>URL</td><td>{{.URL}}</td></tr>{{end}}
<tr><td>Captured</td><td>{{.Timestamp.Format "2006-01-02 15:04:05 MST"}}</td></tr>
<tr><td>Capture level</td><td>{{.Level}}</td></tr>
<tr><td>Brand profile</td><td>{{.ProfileID}}</td></tr>
<tr><td>Findings</td><td>{{len .Findings}}</td></tr>
<tr><td>Changed lines</td><td>{{len .Diff.Changes}}</td></tr>
</table>
<h2>Elements</h2>
<table>
<tr><th>Total</th><th>Buttons</th><th>Inputs</th><th>Links</th><th>Headings</th><th>Paragraphs</th></tr>
<tr><td>{{.Stats.Total}}</td><td>{{.Stats.Buttons}}</td><td>{{.Stats.Inputs}}</td><td>{{.Stats.Links}}</td><td>{{.Stats.Headings}}</td><td>{{.Stats.Paragraphs}}</td></tr>
</table>
<h2>Findings</h2>
{{- range .Groups}}
<h3>{{.Severity}} ({{.Count}})</h3>
{{- range .Types}}
<h4>{{.Type}}</h4>
<ol>
{{- range .Findings}}
<li><p><strong>&lt;{{.Tag}}&gt;</strong> {{.Suggestion}}{{if .Principle}} <em>({{.Category}}: {{.Principle}})</em>{{end}}</p>
<pre><code>{{.OriginalCode}}</code></pre>
{{- if .SuggestedCode}}<pre><code>{{.SuggestedCode}}</code></pre>{{end}}</li>
{{- end}}
</ol>
{{- end}}
{{- else}}
<p>No findings.</p>
{{- end}}
<h2>Revised markup</h2>
<pre><code>{{.Generated}}</code></pre>
{{- if .Diff.UnifiedDiff}}
<h2>Diff</h2>
<pre><code>{{.Diff.UnifiedDiff}}</code></pre>
{{- end}}
`))

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Report renders an analysis as Markdown.
func Report(a *pipeline.Analysis) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, a); err != nil {
		return "", fmt.Errorf("assistant: render report: %w", err)
	}
	md, err := mdConverter.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("assistant: convert report: %w", err)
	}
	return md, nil
}
