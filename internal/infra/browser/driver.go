package browser

import "time"

// Cell is one grid cell read from a lookup table: its visible text and the
// column identifier attribute it belongs to.
type Cell struct {
	Text  string
	ColID string
}

// Driver is the remote UI capability every screen navigator depends on. One
// driver wraps one live browser session; there is no concurrency within it.
//
// Absence of an expected element is a first-class outcome: IsPresent never
// returns an error and WaitVisible reports a timeout as an error value the
// caller branches on, not a fatal condition.
type Driver interface {
	// Goto navigates the session to the given URL.
	Goto(url string) error
	// Click clicks the element, retrying a bounded number of times with a
	// scripted-click fallback when the element is not interactable.
	Click(sel string) error
	// SetText replaces the element's value with the given text.
	SetText(sel, value string) error
	// Press sends a single key (e.g. "Tab", "ArrowDown", "Enter", "Space")
	// to the element.
	Press(sel, key string) error
	// ReadValue returns the element's current value attribute.
	ReadValue(sel string) (string, error)
	// ReadText returns the element's visible text content.
	ReadText(sel string) (string, error)
	// IsPresent reports whether the element currently exists. Never errors.
	IsPresent(sel string) bool
	// IsChecked reports a checkbox's state.
	IsChecked(sel string) (bool, error)
	// WaitVisible blocks until the element is visible or the timeout
	// elapses; a timeout is returned as an error for the caller to branch on.
	WaitVisible(sel string, timeout time.Duration) error
	// WaitStale blocks until the element detaches from the DOM (page
	// transition after a save action).
	WaitStale(sel string, timeout time.Duration) error
	// WaitValue polls until the element's value equals expected; reports
	// whether it did within the timeout.
	WaitValue(sel, expected string, timeout time.Duration) bool
	// Texts returns the visible text of every element matching sel.
	Texts(sel string) ([]string, error)
	// GridCells returns text plus col-id attribute for every element
	// matching sel, in document order.
	GridCells(sel string) ([]Cell, error)
	// ScrollIntoView scrolls the virtualized grid window so the element's
	// backing node exists and is in view.
	ScrollIntoView(sel string) error
	// Screenshot writes a full-page capture to path.
	Screenshot(path string) error
	// Close tears down the browser session. Always safe to call.
	Close() error
}
