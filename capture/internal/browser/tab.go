package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Tab is one stealth page navigated to a URL. Close must be called to
// free its slot.
type Tab struct {
	Page   *rod.Page
	URL    string
	mgr    *Manager
	router *rod.HijackRouter
}

// OpenTab waits for a free slot, opens a stealth page, installs the init
// scripts, blocks configured resources and navigates to pageURL.
func (m *Manager) OpenTab(ctx context.Context, pageURL string, initScripts ...string) (*Tab, error) {
	select {
	case m.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	b, err := m.acquire()
	if err != nil {
		<-m.slots
		return nil, err
	}
	t := &Tab{URL: pageURL, mgr: m}

	page, err := stealth.Page(b)
	if err != nil {
		m.release()
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	t.Page = page

	for _, js := range initScripts {
		if _, err := page.EvalOnNewDocument(js); err != nil {
			t.Close()
			return nil, fmt.Errorf("browser: init script: %w", err)
		}
	}

	if len(m.blocked) > 0 {
		t.router = interceptRequests(page, m.blocked)
	}

	navCtx, cancel := context.WithTimeout(ctx, m.cfg.NavigateTimeout)
	defer cancel()
	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		t.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		m.cfg.Logger.Warn("browser: wait load", "url", pageURL, "error", err)
	}
	return t, nil
}

// Eval runs a JS function in the page and returns its string result.
func (t *Tab) Eval(ctx context.Context, js string) (string, error) {
	res, err := t.Page.Context(ctx).Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// EvalBool runs a JS predicate in the page.
func (t *Tab) EvalBool(ctx context.Context, js string) (bool, error) {
	res, err := t.Page.Context(ctx).Eval(js)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// Screenshot captures the viewport as PNG.
func (t *Tab) Screenshot(ctx context.Context) ([]byte, error) {
	return t.Page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Close stops request interception, closes the page and frees the slot.
func (t *Tab) Close() error {
	var err error
	if t.router != nil {
		if stopErr := t.router.Stop(); stopErr != nil {
			t.mgr.cfg.Logger.Debug("browser: stop interception", "url", t.URL, "error", stopErr)
		}
		t.router = nil
	}
	if t.Page != nil {
		err = t.Page.Close()
		t.Page = nil
	}
	if t.mgr != nil {
		t.mgr.release()
		t.mgr = nil
	}
	return err
}
