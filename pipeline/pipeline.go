// Package pipeline runs one analysis cycle over a capture result: findings,
// remediation and diff. A cycle is synchronous and shares nothing with
// other cycles.
package pipeline

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/capture"
	"github.com/hazyhaar/uxrefactor/heuristics"
	"github.com/hazyhaar/uxrefactor/idgen"
	"github.com/hazyhaar/uxrefactor/remedy"
	"github.com/hazyhaar/uxrefactor/snapshot"
)

// IDPrefix marks analysis identifiers.
const IDPrefix = "ana_"

// Analysis is the record of one cycle.
type Analysis struct {
	ID         string               `json:"id"`
	URL        string               `json:"url"`
	Title      string               `json:"title"`
	Level      capture.Level        `json:"level"`
	Timestamp  time.Time            `json:"timestamp"`
	SourceHash string               `json:"source_hash"`
	ProfileID  string               `json:"profile_id"`
	Source     string               `json:"source"`
	Findings   []heuristics.Finding `json:"findings"`
	Generated  string               `json:"generated"`
	Diff       remedy.DiffResult    `json:"diff"`
	Stats      snapshot.Stats       `json:"stats"`
	Screenshot []byte               `json:"-"`
}

// Groups returns the findings grouped by severity then type.
func (a *Analysis) Groups() []heuristics.SeverityGroup {
	return heuristics.Group(a.Findings)
}

type options struct {
	engine *heuristics.Engine
	newID  idgen.Generator
	now    func() time.Time
	logger *slog.Logger
}

// Option configures Run.
type Option func(*options)

// WithEngine sets the analysis engine.
func WithEngine(e *heuristics.Engine) Option { return func(o *options) { o.engine = e } }

// WithIDGenerator sets the analysis ID generator.
func WithIDGenerator(g idgen.Generator) Option { return func(o *options) { o.newID = g } }

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Run analyzes res against profile and returns the cycle's record.
func Run(res capture.Result, profile brand.Profile, opts ...Option) *Analysis {
	o := options{
		newID:  idgen.Prefixed(IDPrefix, idgen.Default),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.engine == nil {
		o.engine = heuristics.NewEngine(heuristics.WithLogger(o.logger))
	}
	profile = profile.Normalize()

	findings := o.engine.Analyze(res.Elements, profile)
	generated := remedy.Remediate(res.Source, findings, profile)
	a := &Analysis{
		ID:         o.newID(),
		URL:        res.URL,
		Title:      res.Title,
		Level:      res.Level,
		Timestamp:  o.now().UTC(),
		SourceHash: Hash(res.Source),
		ProfileID:  profile.ID,
		Source:     res.Source,
		Findings:   findings,
		Generated:  generated,
		Diff:       remedy.Diff(res.Source, generated),
		Stats:      snapshot.Count(res.Elements),
		Screenshot: res.Screenshot,
	}
	o.logger.Info("pipeline: analysis complete",
		"id", a.ID, "url", a.URL, "findings", len(findings), "changes", len(a.Diff.Changes))
	return a
}

// Hash fingerprints source text so repeated captures of an unchanged page
// can be recognised.
func Hash(source string) string {
	return strconv.FormatUint(xxh3.HashString(source), 16)
}
