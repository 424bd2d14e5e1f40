package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// controlsScript enumerates visible interactive controls in the page and
// builds a structural selector for each, so the negotiator can refer back to
// them without holding node handles.
const controlsScript = `(() => {
	const els = Array.from(document.querySelectorAll(
		"button, a, input[type=submit], input[type=button], [role=button]"));
	const path = (el) => {
		if (el.id) return "#" + CSS.escape(el.id);
		const parts = [];
		while (el && el.nodeType === 1 && el.tagName !== "BODY") {
			if (el.id) { parts.unshift("#" + CSS.escape(el.id)); break; }
			let i = 1, s = el;
			while ((s = s.previousElementSibling)) i++;
			parts.unshift(el.tagName.toLowerCase() + ":nth-child(" + i + ")");
			el = el.parentElement;
		}
		return parts.join(" > ");
	};
	return els.map((el) => {
		const r = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		const visible = r.width > 0 && r.height > 0 &&
			style.visibility !== "hidden" && style.display !== "none";
		const text = (el.innerText || el.value || el.getAttribute("aria-label") || "").trim();
		return { selector: path(el), text: text, visible: visible, enabled: !el.disabled };
	});
})()`

// SessionOptions configure a Chrome session.
type SessionOptions struct {
	Headless bool
	// NavTimeout bounds navigation and snapshot operations.
	NavTimeout time.Duration
}

// Session is a chromedp-backed Driver. One session per run.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
	opts    SessionOptions
}

// NewSession starts a headless browser session. Requires Chrome/Chromium to
// be installed on the system.
func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
		opts:    opts,
	}

	// Start the browser eagerly so a missing Chrome binary fails here, not
	// mid-run.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return s, nil
}

// NewFactory returns a Factory producing independent sessions.
func NewFactory(opts SessionOptions) Factory {
	return func(ctx context.Context) (Driver, error) {
		return NewSession(ctx, opts)
	}
}

func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	go func() {
		// Propagate caller cancellation into the session-scoped context.
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()
	return chromedp.Run(runCtx, actions...)
}

// Navigate opens a URL and waits for the document body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, s.opts.NavTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
}

// CurrentURL returns the resolved location after any redirects.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var location string
	err := s.run(ctx, s.opts.NavTimeout, chromedp.Location(&location))
	return location, err
}

// HTML returns a snapshot of the rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, s.opts.NavTimeout, chromedp.OuterHTML("html", &html))
	return html, err
}

// FindControls enumerates visible interactive controls.
func (s *Session) FindControls(ctx context.Context) ([]Control, error) {
	var controls []Control
	err := s.run(ctx, s.opts.NavTimeout, chromedp.Evaluate(controlsScript, &controls))
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate controls: %w", err)
	}
	return controls, nil
}

// Click activates the element at a selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	return s.run(ctx, s.opts.NavTimeout, chromedp.Click(selector, chromedp.ByQuery))
}

// TypeText clears and types into the element at a selector.
func (s *Session) TypeText(ctx context.Context, selector, text string) error {
	return s.run(ctx, s.opts.NavTimeout,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
}

// SelectOption sets a dropdown's value and dispatches input and change
// events; some hosts clear the selection without the explicit confirmation.
func (s *Session) SelectOption(ctx context.Context, selector, value string) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.value = %q;
		el.dispatchEvent(new Event("input", { bubbles: true }));
		el.dispatchEvent(new Event("change", { bubbles: true }));
		return true;
	})()`, selector, value)

	var ok bool
	if err := s.run(ctx, s.opts.NavTimeout, chromedp.Evaluate(script, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("select element not found: %s", selector)
	}
	return nil
}

// SetChecked toggles a checkbox or radio control.
func (s *Session) SetChecked(ctx context.Context, selector string, checked bool) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.checked = %t;
		el.dispatchEvent(new Event("change", { bubbles: true }));
		return true;
	})()`, selector, checked)

	var ok bool
	if err := s.run(ctx, s.opts.NavTimeout, chromedp.Evaluate(script, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("checkable element not found: %s", selector)
	}
	return nil
}

// ControlValue reads the element's current value.
func (s *Session) ControlValue(ctx context.Context, selector string) (string, error) {
	var value string
	err := s.run(ctx, s.opts.NavTimeout, chromedp.Value(selector, &value, chromedp.ByQuery))
	return value, err
}

// SetFileInput attaches a local file to a file input.
func (s *Session) SetFileInput(ctx context.Context, selector, path string) error {
	return s.run(ctx, s.opts.NavTimeout,
		chromedp.SetUploadFiles(selector, []string{path}, chromedp.ByQuery))
}

// WaitVisible waits until an element is visible or the bound expires.
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Close tears down the session.
func (s *Session) Close() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	return nil
}
