package capture

import (
	"context"
	"log/slog"
)

// Auto fetches over HTTP first and escalates to the browser when the
// markup looks like a script-rendered shell or the fetch fails. Without a
// Browser it keeps whatever HTTP returned.
type Auto struct {
	HTTP    *Fetcher
	Browser *Browser
	Logger  *slog.Logger
}

// Capture implements Capturer.
func (a *Auto) Capture(ctx context.Context, pageURL string) (*Result, error) {
	if err := checkURL(pageURL); err != nil {
		return nil, err
	}
	log := a.Logger
	if log == nil {
		log = slog.Default()
	}
	body, err := a.HTTP.get(ctx, pageURL)
	if err == nil && (IsSufficient(body) || a.Browser == nil) {
		return a.HTTP.resolve(pageURL, body)
	}
	if a.Browser == nil {
		return nil, err
	}
	if err != nil {
		log.Info("capture: http fetch failed, escalating", "url", pageURL, "error", err)
	} else {
		log.Info("capture: markup insufficient, escalating", "url", pageURL, "bytes", len(body))
	}
	return a.Browser.Capture(ctx, pageURL)
}
