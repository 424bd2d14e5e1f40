// Package driver defines the automation capability surface the negotiator
// depends on, and provides a headless-Chrome implementation. The negotiator
// never depends on a specific driver, only this interface.
package driver

import (
	"context"
	"time"
)

// Control is a visible interactive element (button, link, submit input) with
// the text it presents and a selector that resolves back to it.
type Control struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
	Visible  bool   `json:"visible"`
	Enabled  bool   `json:"enabled"`
}

// Driver is the capability set consumed by the negotiator. Implementations
// own one page session; methods are not required to be concurrency-safe
// within a session since each run owns its session exclusively.
type Driver interface {
	// Navigate opens a URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// CurrentURL returns the resolved location after any redirects.
	CurrentURL(ctx context.Context) (string, error)
	// HTML returns a snapshot of the rendered document.
	HTML(ctx context.Context) (string, error)
	// FindControls enumerates visible interactive controls.
	FindControls(ctx context.Context) ([]Control, error)
	// Click activates the element at a selector.
	Click(ctx context.Context, selector string) error
	// TypeText clears and types into the element at a selector.
	TypeText(ctx context.Context, selector, text string) error
	// SelectOption chooses a dropdown option by value and confirms the
	// selection with an explicit change event.
	SelectOption(ctx context.Context, selector, value string) error
	// SetChecked toggles a checkbox or radio control.
	SetChecked(ctx context.Context, selector string, checked bool) error
	// ControlValue reads the element's current value.
	ControlValue(ctx context.Context, selector string) (string, error)
	// SetFileInput attaches a local file to a file input.
	SetFileInput(ctx context.Context, selector, path string) error
	// WaitVisible waits until an element is visible or the bound expires.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Close tears down the session.
	Close() error
}

// Factory creates one independent session per run.
type Factory func(ctx context.Context) (Driver, error)
