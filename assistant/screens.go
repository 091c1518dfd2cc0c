package assistant

import (
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/pipeline"
	"github.com/hazyhaar/uxrefactor/shield"
	"github.com/hazyhaar/uxrefactor/store"
)

var screens = template.Must(template.New("screens").Funcs(template.FuncMap{
	"ago":  func(t time.Time) string { return humanize.Time(t) },
	"join": func(ss []string) string { return strings.Join(ss, ", ") },
	"scale": func(fs []float64) string {
		parts := make([]string, len(fs))
		for i, f := range fs {
			parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strings.Join(parts, ", ")
	},
}).Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.}} · uxrefactor</title>
<style>
body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#1f2937;background:#f9fafb}
nav a{margin-right:1rem}
h1{font-size:1.4rem;border-bottom:2px solid #e5e7eb;padding-bottom:.5rem}
.card{background:#fff;border:1px solid #e5e7eb;border-radius:6px;padding:1rem;margin-bottom:1rem}
.error{border-left:4px solid #ef4444}.warn{border-left:4px solid #f59e0b}
.flash-success{background:#ecfdf5;padding:.5rem 1rem}.flash-error{background:#fef2f2;padding:.5rem 1rem}
pre{background:#111827;color:#f9fafb;padding:.75rem;overflow:auto;border-radius:4px}
.muted{color:#6b7280;font-size:.85rem}
textarea,input[type=text],input[type=url],select{width:100%;box-sizing:border-box}
img.shot{max-width:100%;border:1px solid #e5e7eb}
</style></head><body>
<nav><a href="/">Analyze</a><a href="/profiles">Brand profiles</a></nav>
{{end}}

{{define "flash"}}{{with .}}<p class="flash-{{.Type}}">{{.Message}}</p>{{end}}{{end}}

{{define "foot"}}<script src="/assets/app.js"></script></body></html>{{end}}

{{define "index"}}{{template "head" "Analyze"}}
<h1>Analyze a page</h1>
{{template "flash" .Flash}}
<form method="post" action="/analyze" class="card">
<p><label>Page URL<br><input type="url" name="url" placeholder="https://example.com/"></label></p>
<p><label>Or paste markup<br><textarea name="html" rows="8"></textarea></label></p>
<p><label>Brand profile<br><select name="profile_id">
{{- range .Profiles}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
</select></label></p>
<button type="submit">Analyze</button>
</form>
<h2>History</h2>
{{- range .History}}
<div class="card"><a href="/analyses/{{.ID}}">{{if .Title}}{{.Title}}{{else}}{{or .URL .ID}}{{end}}</a>
<div class="muted">{{.Findings}} findings · {{.Changes}} changed lines · {{.Level}} · {{ago .CreatedAt}}</div></div>
{{- else}}
<p class="muted">No analyses yet.</p>
{{- end}}
{{template "foot"}}{{end}}

{{define "results"}}{{template "head" "Results"}}
{{with .Analysis}}
<h1>{{if .Title}}{{.Title}}{{else}}{{or .URL "Pasted markup"}}{{end}}</h1>
<p class="muted">{{.ID}} · {{.Level}} · profile {{.ProfileID}} · {{ago .Timestamp}}{{if $.Stored}} · <a href="/api/analyses/{{.ID}}/report.md">Markdown report</a>{{end}}</p>
<p class="muted">{{.Stats.Total}} elements: {{.Stats.Buttons}} buttons, {{.Stats.Inputs}} inputs, {{.Stats.Links}} links, {{.Stats.Headings}} headings, {{.Stats.Paragraphs}} paragraphs</p>
{{end}}
{{with .Screenshot}}<img class="shot" alt="Page screenshot" src="{{.}}">{{end}}
<h2>Findings</h2>
{{- range .Analysis.Groups}}
<h3>{{.Severity}} ({{.Count}})</h3>
{{- $sev := .Severity}}
{{- range .Types}}
<h4>{{.Type}}</h4>
{{- range .Findings}}
<div class="card {{$sev}}"><strong>&lt;{{.Tag}}&gt;</strong> {{.Suggestion}}
{{- if .Principle}}<div class="muted">{{.Category}} · {{.Principle}}</div>{{end}}
<pre>{{.OriginalCode}}</pre>
{{- if .SuggestedCode}}<pre>{{.SuggestedCode}}</pre>{{end}}
</div>
{{- end}}
{{- end}}
{{- else}}
<p class="muted">No findings.</p>
{{- end}}
<h2>Revised markup <button type="button" data-copy="generated">Copy</button></h2>
<pre id="generated">{{.Analysis.Generated}}</pre>
<h2>Diff <button type="button" data-copy="diff">Copy</button></h2>
<pre id="diff">{{or .Analysis.Diff.UnifiedDiff "No changes."}}</pre>
{{template "foot"}}{{end}}

{{define "profiles"}}{{template "head" "Brand profiles"}}
<h1>Brand profiles</h1>
{{template "flash" .Flash}}
{{- range .Profiles}}
<form method="post" action="/profiles" class="card">
<input type="hidden" name="id" value="{{.ID}}">
{{template "profile-fields" .}}
<button type="submit" name="action" value="save">Save</button>
<button type="submit" name="action" value="delete">Delete</button>
</form>
{{- end}}
<h2>New profile</h2>
<form method="post" action="/profiles" class="card">
{{template "profile-fields" .New}}
<button type="submit" name="action" value="save">Create</button>
</form>
{{template "foot"}}{{end}}

{{define "profile-fields"}}
<p><label>Name<br><input type="text" name="name" value="{{.Name}}"></label></p>
<p><label>Primary color<br><input type="text" name="primary_color" value="{{.Primary}}"></label></p>
<p><label>Secondary color<br><input type="text" name="secondary_color" value="{{.Secondary}}"></label></p>
<p><label>Accent colors<br><input type="text" name="accent_colors" value="{{join .Accents}}"></label></p>
<p><label>Font family<br><input type="text" name="font_family" value="{{.FontFamily}}"></label></p>
<p><label>Spacing scale (px)<br><input type="text" name="spacing_scale" value="{{scale .SpacingScale}}"></label></p>
{{end}}
`))

const appScript = `document.querySelectorAll('[data-copy]').forEach(function (b) {
  b.addEventListener('click', function () {
    var el = document.getElementById(b.dataset.copy);
    if (!el || !navigator.clipboard) return;
    navigator.clipboard.writeText(el.textContent).then(function () {
      b.textContent = 'Copied';
      setTimeout(function () { b.textContent = 'Copy'; }, 1500);
    });
  });
});
`

func serveScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write([]byte(appScript))
}

func render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := screens.ExecuteTemplate(w, name, data); err != nil {
		shield.GetLogger(r.Context()).Error("assistant: render screen", "screen", name, "error", err)
	}
}

func (a *Assistant) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := a.store.GetDefault(ctx); err != nil {
		a.fail(w, r, err)
		return
	}
	profiles, err := a.store.ListProfiles(ctx)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	history, err := a.store.ListAnalyses(ctx, a.cfg.HistoryLimit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	render(w, r, "index", map[string]any{
		"Flash":    shield.GetFlash(ctx),
		"Profiles": profiles,
		"History":  history,
	})
}

func (a *Assistant) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		shield.SetFlash(w, "error", "Could not read the form.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	var (
		an  *pipeline.Analysis
		err error
	)
	pageURL, markup, profileID := r.PostFormValue("url"), r.PostFormValue("html"), r.PostFormValue("profile_id")
	if strings.TrimSpace(markup) != "" {
		an, err = a.AnalyzeHTML(r.Context(), pageURL, markup, profileID)
	} else {
		an, err = a.AnalyzeURL(r.Context(), pageURL, profileID)
	}
	if err != nil {
		shield.GetLogger(r.Context()).Info("assistant: analysis failed", "url", pageURL, "error", err)
		shield.SetFlash(w, "error", flashMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	a.renderResults(w, r, an)
}

func (a *Assistant) handleAnalysisScreen(w http.ResponseWriter, r *http.Request) {
	an, err := a.store.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.renderResults(w, r, an)
}

func (a *Assistant) renderResults(w http.ResponseWriter, r *http.Request, an *pipeline.Analysis) {
	var shot template.URL
	if len(an.Screenshot) > 0 {
		shot = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(an.Screenshot))
	}
	render(w, r, "results", map[string]any{
		"Analysis":   an,
		"Screenshot": shot,
		"Stored":     a.cfg.KeepHistory,
	})
}

func (a *Assistant) handleProfilesScreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := a.store.GetDefault(ctx); err != nil {
		a.fail(w, r, err)
		return
	}
	profiles, err := a.store.ListProfiles(ctx)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	fresh := brand.Default()
	fresh.ID, fresh.Name = "", ""
	render(w, r, "profiles", map[string]any{
		"Flash":    shield.GetFlash(ctx),
		"Profiles": profiles,
		"New":      fresh,
	})
}

func (a *Assistant) handleProfileForm(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/profiles", http.StatusSeeOther)
	if err := r.ParseForm(); err != nil {
		shield.SetFlash(w, "error", "Could not read the form.")
		return
	}
	id := r.PostFormValue("id")
	if r.PostFormValue("action") == "delete" {
		if err := a.store.DeleteProfile(r.Context(), id); err != nil {
			shield.SetFlash(w, "error", flashMessage(err))
			return
		}
		shield.SetFlash(w, "success", "Profile deleted.")
		return
	}

	p, err := profileFromForm(r)
	if err == nil {
		p.ID = id
		err = a.store.SaveProfile(r.Context(), &p)
	}
	if err != nil {
		shield.SetFlash(w, "error", flashMessage(err))
		return
	}
	shield.SetFlash(w, "success", "Profile "+p.Name+" saved.")
}

func profileFromForm(r *http.Request) (brand.Profile, error) {
	p := brand.Profile{
		Name:       r.PostFormValue("name"),
		Primary:    r.PostFormValue("primary_color"),
		Secondary:  r.PostFormValue("secondary_color"),
		FontFamily: r.PostFormValue("font_family"),
		Accents:    splitList(r.PostFormValue("accent_colors")),
	}
	for _, s := range splitList(r.PostFormValue("spacing_scale")) {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		if err != nil {
			return p, &brand.ValidationError{Fields: map[string]string{"spacing_scale": strconv.Quote(s) + " is not a number"}}
		}
		p.SpacingScale = append(p.SpacingScale, f)
	}
	return p, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// flashMessage hides internal errors from the screens.
func flashMessage(err error) string {
	if statusOf(err) == http.StatusInternalServerError {
		return "Something went wrong, see the server log."
	}
	return err.Error()
}
