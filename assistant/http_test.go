package assistant

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/pipeline"
	"github.com/hazyhaar/uxrefactor/store"
)

func server(t *testing.T) (*httptest.Server, *Assistant) {
	t.Helper()
	a, _ := newTestAssistant(t, DefaultConfig())
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv, a
}

func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestAPI_AnalyzeAndHistory(t *testing.T) {
	srv, _ := server(t)

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json",
		strings.NewReader(`{"url":"https://shop.test/checkout"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Trace-ID") == "" || resp.Header.Get("Content-Security-Policy") == "" {
		t.Error("shield middleware not applied")
	}
	an := decode[pipeline.Analysis](t, resp)
	if an.ID == "" || len(an.Findings) == 0 || an.Generated == "" {
		t.Fatalf("analysis: %+v", an)
	}

	resp, _ = http.Get(srv.URL + "/api/analyses")
	list := decode[[]store.Summary](t, resp)
	if len(list) != 1 || list[0].ID != an.ID {
		t.Fatalf("history: %+v", list)
	}

	resp, _ = http.Get(srv.URL + "/api/analyses/" + an.ID)
	got := decode[pipeline.Analysis](t, resp)
	if got.SourceHash != an.SourceHash {
		t.Errorf("get: %+v", got)
	}

	resp, _ = http.Get(srv.URL + "/api/analyses/" + an.ID + "/report.md")
	body := readAll(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/markdown") {
		t.Fatalf("report: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, "# UI analysis") {
		t.Errorf("report body: %s", body)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/analyses", nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("clear: %d", resp.StatusCode)
	}
	resp, _ = http.Get(srv.URL + "/api/analyses/" + an.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("after clear: %d", resp.StatusCode)
	}
}

func TestAPI_AnalyzeHTML(t *testing.T) {
	srv, _ := server(t)
	body, _ := json.Marshal(map[string]string{"html": `<div style="margin:10px;padding:10px">x</div>`})
	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(string(body)))
	if err != nil {
		t.Fatal(err)
	}
	an := decode[pipeline.Analysis](t, resp)
	for _, f := range an.Findings {
		if f.Type == "spacing" {
			t.Errorf("unexpected spacing finding: %+v", f)
		}
	}
}

func TestAPI_Errors(t *testing.T) {
	srv, _ := server(t)
	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/analyze", `not json`, http.StatusBadRequest},
		{http.MethodPost, "/api/analyze", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/analyze", `{"url":"ftp://x.test/"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/analyze", `{"url":"https://x.test/","profile_id":"bp_nope"}`, http.StatusNotFound},
		{http.MethodGet, "/api/analyses/ana_nope", ``, http.StatusNotFound},
		{http.MethodDelete, "/api/profiles/bp_nope", ``, http.StatusNotFound},
		{http.MethodPost, "/api/profiles", `{"name":"x","primary_color":"red"}`, http.StatusBadRequest},
		{http.MethodGet, "/api/principles?category=acessibility", ``, http.StatusNotFound},
	}
	for _, c := range cases {
		req, _ := http.NewRequest(c.method, srv.URL+c.path, strings.NewReader(c.body))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		e := decode[map[string]string](t, resp)
		if resp.StatusCode != c.want || e["error"] == "" {
			t.Errorf("%s %s: %d %v, want %d", c.method, c.path, resp.StatusCode, e, c.want)
		}
	}
}

func TestAPI_Profiles(t *testing.T) {
	srv, _ := server(t)

	resp, _ := http.Get(srv.URL + "/api/profiles")
	ps := decode[[]brand.Profile](t, resp)
	if len(ps) != 1 || ps[0].ID != brand.DefaultID {
		t.Fatalf("profiles: %+v", ps)
	}

	p := brand.Default()
	p.ID, p.Name = "", "Dark"
	body, _ := json.Marshal(p)
	resp, _ = http.Post(srv.URL+"/api/profiles", "application/json", strings.NewReader(string(body)))
	saved := decode[brand.Profile](t, resp)
	if !strings.HasPrefix(saved.ID, "bp_") {
		t.Fatalf("saved: %+v", saved)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/profiles/"+saved.ID, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
}

func TestAPI_Principles(t *testing.T) {
	srv, _ := server(t)
	resp, _ := http.Get(srv.URL + "/api/principles?category=Accessibility")
	ps := decode[[]map[string]any](t, resp)
	if len(ps) != 3 {
		t.Fatalf("accessibility principles: %d", len(ps))
	}
}

func TestScreens_AnalyzeForm(t *testing.T) {
	srv, _ := server(t)

	resp, _ := http.Get(srv.URL + "/")
	page := readAll(t, resp)
	if !strings.Contains(page, `name="profile_id"`) || !strings.Contains(page, "No analyses yet") {
		t.Fatalf("index:\n%s", page)
	}

	resp, err := http.PostForm(srv.URL+"/analyze", url.Values{"url": {"https://shop.test/checkout"}})
	if err != nil {
		t.Fatal(err)
	}
	page = readAll(t, resp)
	for _, want := range []string{"Checkout", "<h3>error", "contrast", `id="generated"`, `data-copy="diff"`, "data:image/png;base64,", "report.md"} {
		if !strings.Contains(page, want) {
			t.Errorf("results missing %q", want)
		}
	}

	resp, _ = http.Get(srv.URL + "/")
	if page := readAll(t, resp); !strings.Contains(page, "Checkout") {
		t.Error("history should list the analysis")
	}
}

func TestScreens_AnalyzeFormError(t *testing.T) {
	srv, _ := server(t)
	resp, err := noRedirect().PostForm(srv.URL+"/analyze", url.Values{"url": {""}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var flash bool
	for _, c := range resp.Cookies() {
		flash = flash || c.Name == "flash"
	}
	if !flash {
		t.Error("expected a flash cookie")
	}
}

func TestScreens_ProfileEditor(t *testing.T) {
	srv, a := server(t)
	client := noRedirect()

	resp, err := client.PostForm(srv.URL+"/profiles", url.Values{
		"action":          {"save"},
		"name":            {"Acme"},
		"primary_color":   {"#FF5500"},
		"secondary_color": {"#222"},
		"accent_colors":   {"#0ea5e9, #a855f7"},
		"font_family":     {"Roboto"},
		"spacing_scale":   {"4, 8px, 16"},
	})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/profiles" {
		t.Fatalf("save: %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	ps, _ := a.Store().ListProfiles(t.Context())
	var acme *brand.Profile
	for i := range ps {
		if ps[i].Name == "Acme" {
			acme = &ps[i]
		}
	}
	if acme == nil || acme.Primary != "#ff5500" || len(acme.Accents) != 2 || len(acme.SpacingScale) != 3 {
		t.Fatalf("saved profile: %+v", ps)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/profiles", nil)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	resp, _ = client.Do(req)
	page := readAll(t, resp)
	if !strings.Contains(page, "Profile Acme saved.") || !strings.Contains(page, `value="4, 8, 16"`) {
		t.Errorf("editor:\n%s", page)
	}

	resp, _ = client.PostForm(srv.URL+"/profiles", url.Values{"action": {"save"}, "name": {"Bad"}, "primary_color": {"#000"}, "secondary_color": {"#fff"}, "spacing_scale": {"4, wide"}})
	resp.Body.Close()
	var msg string
	for _, c := range resp.Cookies() {
		if c.Name == "flash" {
			msg, _ = url.QueryUnescape(c.Value)
		}
	}
	if !strings.HasPrefix(msg, "error:") || !strings.Contains(msg, "spacing_scale") {
		t.Errorf("flash: %q", msg)
	}
}

func TestScript(t *testing.T) {
	srv, _ := server(t)
	resp, _ := http.Get(srv.URL + "/assets/app.js")
	if body := readAll(t, resp); !strings.Contains(body, "clipboard") {
		t.Errorf("script: %s", body)
	}
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
