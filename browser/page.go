package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/jobpilot/models"
	"github.com/ysmood/gson"
)

// actionTimeout is the per-action deadline for clicks and typing.
const actionTimeout = 10 * time.Second

// RodDriver implements Driver on a single Rod page.
type RodDriver struct {
	browser    *rod.Browser
	page       *rod.Page
	router     *rod.HijackRouter
	navTimeout time.Duration
}

var _ Driver = (*RodDriver)(nil)

// Navigate loads url and waits for the load event, bounded by the
// navigation timeout.
func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, d.navTimeout)
	defer cancel()

	p := d.page.Context(navCtx)
	if err := p.Navigate(url); err != nil {
		return categorizeError(err, "navigation to "+url+" failed")
	}
	if err := p.WaitLoad(); err != nil {
		return categorizeError(err, "waiting for "+url+" to load failed")
	}
	return nil
}

// CurrentURL reads the tab's URL from the target info.
func (d *RodDriver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("read current url: %w", err)
	}
	return info.URL, nil
}

// Element performs an immediate XPath lookup.
func (d *RodDriver) Element(ctx context.Context, xpath string) (Element, error) {
	has, el, err := d.page.Context(ctx).HasX(xpath)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", xpath, err)
	}
	if !has {
		return nil, ErrNotFound
	}
	return &rodElement{el: el}, nil
}

// Elements performs an immediate XPath lookup of every match.
func (d *RodDriver) Elements(ctx context.Context, xpath string) ([]Element, error) {
	els, err := d.page.Context(ctx).ElementsX(xpath)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", xpath, err)
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out, nil
}

// WaitURL polls location.href until it equals url.
func (d *RodDriver) WaitURL(ctx context.Context, url string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := d.page.Context(waitCtx).Wait(rod.Eval(`(u) => window.location.href === u`, url))
	if err != nil {
		return waitError(err, "url "+url)
	}
	return nil
}

// WaitVisible waits for an element matching xpath to exist and be visible.
func (d *RodDriver) WaitVisible(ctx context.Context, xpath string, timeout time.Duration) (Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := d.page.Context(waitCtx).ElementX(xpath)
	if err != nil {
		return nil, waitError(err, xpath)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, waitError(err, xpath)
	}
	// Detach the handle from the wait deadline.
	return &rodElement{el: el.Context(ctx)}, nil
}

// WaitClickable waits for an element matching xpath to be visible and enabled.
func (d *RodDriver) WaitClickable(ctx context.Context, xpath string, timeout time.Duration) (Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := d.page.Context(waitCtx).ElementX(xpath)
	if err != nil {
		return nil, waitError(err, xpath)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, waitError(err, xpath)
	}
	if err := el.WaitEnabled(); err != nil {
		return nil, waitError(err, xpath)
	}
	return &rodElement{el: el.Context(ctx)}, nil
}

// rodElement adapts *rod.Element to Element.
type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Click() error {
	el := e.el.Timeout(actionTimeout)
	defer el.CancelTimeout()
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Input(text string, submit bool) error {
	el := e.el.Timeout(actionTimeout)
	defer el.CancelTimeout()
	if err := el.Input(text); err != nil {
		return err
	}
	if submit {
		return el.Type(input.Enter)
	}
	return nil
}

// waitError maps a failed bounded wait to ErrTimeout when the deadline
// expired, keeping other failures intact.
func waitError(err error, what string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrTimeout, what)
	}
	return fmt.Errorf("wait for %s: %w", what, err)
}

// categorizeError wraps raw navigation errors into typed models.Errors.
func categorizeError(err error, msg string) *models.Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewError(models.ErrCodeNavigation, msg, fmt.Errorf("%w: %w", ErrTimeout, err))
	case errors.Is(err, context.Canceled):
		return models.NewError(models.ErrCodeNavigation, "navigation canceled", err)
	default:
		return models.NewError(models.ErrCodeNavigation, msg, err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
