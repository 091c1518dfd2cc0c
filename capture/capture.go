// Package capture obtains what an analysis needs from a page: a screenshot,
// the extracted source text and the computed element snapshots.
//
// Three strategies exist: a live headless browser (Browser), a plain HTTP
// GET resolved statically (Fetcher), and static markup supplied by the
// caller (FromHTML). Auto picks between the first two.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hazyhaar/uxrefactor/snapshot"
)

// ErrNoTarget is returned when there is no page to capture.
var ErrNoTarget = errors.New("capture: no target")

// CaptureError reports a failed capture step.
type CaptureError struct {
	Op  string // "fetch", "navigate", "screenshot", "snapshot", "extract"
	URL string
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Result is everything captured from one page.
type Result struct {
	URL        string             `json:"url"`
	Title      string             `json:"title"`
	Level      Level              `json:"level"`
	Screenshot []byte             `json:"-"`
	Source     string             `json:"source"`
	Elements   []snapshot.Element `json:"elements"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Capturer captures a page by URL.
type Capturer interface {
	Capture(ctx context.Context, pageURL string) (*Result, error)
}

// Level selects a capture strategy.
type Level string

const (
	LevelHTTP     Level = "http"
	LevelHeadless Level = "headless"
	LevelAuto     Level = "auto"
	LevelStatic   Level = "static"
)

// ParseLevel validates a configured level name.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelHTTP, LevelHeadless, LevelAuto:
		return l, nil
	case "":
		return LevelAuto, nil
	default:
		return "", fmt.Errorf("capture: unknown level %q (want http, headless or auto)", s)
	}
}

func checkURL(pageURL string) error {
	if strings.TrimSpace(pageURL) == "" {
		return ErrNoTarget
	}
	return nil
}
