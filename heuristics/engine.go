package heuristics

import (
	"log/slog"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/idgen"
	"github.com/hazyhaar/uxrefactor/snapshot"
)

// Engine evaluates the rule set over a page's elements.
type Engine struct {
	rules  []Rule
	newID  idgen.Generator
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator sets the finding ID strategy. Default: "fnd_" + UUIDv7.
func WithIDGenerator(g idgen.Generator) Option { return func(e *Engine) { e.newID = g } }

// WithRules replaces the rule set.
func WithRules(rules ...Rule) Option { return func(e *Engine) { e.rules = rules } }

// WithLogger sets the logger used for rule failures.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// NewEngine returns an engine over Rules().
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:  Rules(),
		newID:  idgen.Prefixed("fnd_", idgen.Default),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Analyze runs every rule against every inspected element, in traversal
// order, and returns all findings. The result is never nil.
func (e *Engine) Analyze(elements []snapshot.Element, p brand.Profile) []Finding {
	findings := make([]Finding, 0)
	for _, el := range elements {
		if !snapshot.Inspected(el.Tag) {
			continue
		}
		for _, r := range e.rules {
			f := e.run(r, el, p)
			if f == nil {
				continue
			}
			f.ID = e.newID()
			f.Rule = r.ID
			f.Tag = el.Tag
			findings = append(findings, *f)
		}
	}
	return findings
}

// run treats a panicking rule as one that found nothing.
func (e *Engine) run(r Rule, el snapshot.Element, p brand.Profile) (f *Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn("heuristics: rule panicked", "rule", r.ID, "tag", el.Tag, "panic", rec)
			f = nil
		}
	}()
	return r.Check(el, p)
}
