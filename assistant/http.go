package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/capture"
	"github.com/hazyhaar/uxrefactor/pipeline"
	"github.com/hazyhaar/uxrefactor/shield"
	"github.com/hazyhaar/uxrefactor/store"
)

// Handler returns the HTTP surface: screens under /, JSON under /api.
func (a *Assistant) Handler() http.Handler {
	r := chi.NewRouter()
	sc := shield.DefaultConfig()
	sc.MaxBody = a.cfg.MaxBody
	sc.Limits = a.cfg.RateLimits
	for _, mw := range shield.Stack(sc) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Get("/assets/app.js", serveScript)

	r.Get("/", a.handleIndex)
	r.Post("/analyze", a.handleAnalyzeForm)
	r.Get("/analyses/{id}", a.handleAnalysisScreen)
	r.Get("/profiles", a.handleProfilesScreen)
	r.Post("/profiles", a.handleProfileForm)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", a.handleAnalyzeJSON)
		r.Get("/analyses", a.handleListAnalyses)
		r.Delete("/analyses", a.handleClearAnalyses)
		r.Get("/analyses/{id}", a.handleGetAnalysis)
		r.Get("/analyses/{id}/report.md", a.handleReport)
		r.Get("/profiles", a.handleListProfiles)
		r.Post("/profiles", a.handleSaveProfile)
		r.Delete("/profiles/{id}", a.handleDeleteProfile)
		r.Get("/principles", a.handlePrinciples)
	})
	return r
}

type analyzeRequest struct {
	URL       string `json:"url"`
	HTML      string `json:"html"`
	ProfileID string `json:"profile_id"`
}

func (a *Assistant) handleAnalyzeJSON(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}
	var (
		an  *pipeline.Analysis
		err error
	)
	if strings.TrimSpace(req.HTML) != "" {
		an, err = a.AnalyzeHTML(r.Context(), req.URL, req.HTML, req.ProfileID)
	} else {
		an, err = a.AnalyzeURL(r.Context(), req.URL, req.ProfileID)
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	jsonOK(w, http.StatusCreated, an)
}

func (a *Assistant) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := a.cfg.HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	list, err := a.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, list)
}

func (a *Assistant) handleClearAnalyses(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Clear(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Assistant) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	an, err := a.store.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, an)
}

func (a *Assistant) handleReport(w http.ResponseWriter, r *http.Request) {
	an, err := a.store.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	md, err := Report(an)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+an.ID+`.md"`)
	w.Write([]byte(md))
}

func (a *Assistant) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if _, err := a.store.GetDefault(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	ps, err := a.store.ListProfiles(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, ps)
}

func (a *Assistant) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var p brand.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := a.store.SaveProfile(r.Context(), &p); err != nil {
		a.fail(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, p)
}

func (a *Assistant) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Assistant) handlePrinciples(w http.ResponseWriter, r *http.Request) {
	ps, err := Principles(r.URL.Query().Get("category"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, ps)
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var (
		ve  *brand.ValidationError
		ce  *capture.CaptureError
		uce *UnknownCategoryError
	)
	switch {
	case errors.Is(err, store.ErrNotFound), errors.As(err, &uce):
		return http.StatusNotFound
	case errors.As(err, &ve), errors.Is(err, capture.ErrNoTarget),
		errors.Is(err, capture.ErrUnsafeScheme), errors.Is(err, capture.ErrPrivateTarget):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *Assistant) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	log := shield.GetLogger(r.Context())
	if code == http.StatusInternalServerError {
		log.Error("assistant: request failed", "error", err)
		jsonErr(w, "internal error", code)
		return
	}
	log.Info("assistant: request rejected", "status", code, "error", err)
	jsonErr(w, err.Error(), code)
}

func jsonOK(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	jsonOK(w, code, map[string]string{"error": msg})
}
