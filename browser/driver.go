// Package browser is the automation boundary: everything the controller asks
// of the browser goes through Driver.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by immediate lookups when no element matches.
var ErrNotFound = errors.New("element not found")

// ErrTimeout is returned by bounded waits whose condition never held.
var ErrTimeout = errors.New("wait timed out")

// Element is a handle to a rendered DOM element.
type Element interface {
	// Text returns the visible text of the element.
	Text() (string, error)

	// Click clicks the element once with the left button.
	Click() error

	// Input types text into the element. When submit is true, Enter is
	// pressed afterwards.
	Input(text string, submit bool) error
}

// Driver is a single browser tab under automated control. It is not safe for
// concurrent use.
type Driver interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the URL the tab is showing.
	CurrentURL(ctx context.Context) (string, error)

	// Element returns the first element matching xpath without waiting.
	// It returns ErrNotFound when nothing matches.
	Element(ctx context.Context, xpath string) (Element, error)

	// Elements returns every element matching xpath without waiting.
	// No match is an empty slice, not an error.
	Elements(ctx context.Context, xpath string) ([]Element, error)

	// WaitURL blocks until the tab URL equals url.
	WaitURL(ctx context.Context, url string, timeout time.Duration) error

	// WaitVisible blocks until an element matching xpath is visible.
	WaitVisible(ctx context.Context, xpath string, timeout time.Duration) (Element, error)

	// WaitClickable blocks until an element matching xpath is visible and enabled.
	WaitClickable(ctx context.Context, xpath string, timeout time.Duration) (Element, error)

	// Close releases the tab and the browser process.
	Close() error
}
