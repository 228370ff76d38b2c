package catho

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/use-agent/jobpilot/browser"
	"github.com/use-agent/jobpilot/config"
	"github.com/use-agent/jobpilot/site"
)

const testBase = "https://www.catho.com.br"

// fakeElement records what the controller did to it.
type fakeElement struct {
	text     string
	clicks   int
	inputs   []string
	submits  int
	onClick  func()
	onSubmit func()
}

func (e *fakeElement) Text() (string, error) { return e.text, nil }

func (e *fakeElement) Click() error {
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) Input(text string, submit bool) error {
	e.inputs = append(e.inputs, text)
	if submit {
		e.submits++
		if e.onSubmit != nil {
			e.onSubmit()
		}
	}
	return nil
}

// fakePage is the DOM of one results page, keyed by xpath.
type fakePage struct {
	elements map[string][]*fakeElement
}

func newFakePage() *fakePage {
	return &fakePage{elements: map[string][]*fakeElement{}}
}

func (p *fakePage) set(xpath string, els ...*fakeElement) {
	p.elements[xpath] = els
}

func (p *fakePage) remove(xpath string) {
	delete(p.elements, xpath)
}

func (p *fakePage) first(xpath string) *fakeElement {
	if els := p.elements[xpath]; len(els) > 0 {
		return els[0]
	}
	return nil
}

// setPager renders page buttons 1..n.
func (p *fakePage) setPager(n int) {
	btns := make([]*fakeElement, n)
	for i := range btns {
		btns[i] = &fakeElement{text: strconv.Itoa(i + 1)}
	}
	p.set(site.PageButtons, btns...)
}

type postingOpts struct {
	label         string // apply button label; empty means no button
	marker        string // already-applied marker
	questionnaire bool   // clicking apply opens the questionnaire
}

// addPosting renders a posting at the next index and returns its apply button.
func (p *fakePage) addPosting(employer, title string, o postingOpts) *fakeElement {
	items := append(p.elements[site.PostingList], &fakeElement{})
	p.set(site.PostingList, items...)
	idx := len(items)

	p.set(site.Employer(idx), &fakeElement{text: employer + " " + site.EmployerNoise})
	p.set(site.Title(idx), &fakeElement{text: title})
	if o.marker != "" {
		p.set(site.AlreadyApplied(idx), &fakeElement{text: o.marker})
	}
	if o.label == "" {
		return nil
	}
	btn := &fakeElement{text: o.label}
	if o.questionnaire {
		btn.onClick = func() { p.openQuestionnaire() }
	}
	p.set(site.ApplyButton(idx), btn)
	return btn
}

// truncate drops every posting after the first n.
func (p *fakePage) truncate(n int) {
	items := p.elements[site.PostingList]
	for idx := n + 1; idx <= len(items); idx++ {
		p.remove(site.Employer(idx))
		p.remove(site.Title(idx))
		p.remove(site.AlreadyApplied(idx))
		p.remove(site.ApplyButton(idx))
	}
	p.set(site.PostingList, items[:n]...)
}

// openQuestionnaire shows the questionnaire modal; its close control hides it.
func (p *fakePage) openQuestionnaire() {
	p.set(site.QuestionnaireTitle, &fakeElement{text: site.QuestionnaireHeading})
	if p.first(site.QuestionnaireClose) == nil {
		p.set(site.QuestionnaireClose, &fakeElement{})
	}
	p.first(site.QuestionnaireClose).onClick = func() {
		p.remove(site.QuestionnaireTitle)
	}
}

// fakeDriver serves one fakePage per value of the page query parameter.
type fakeDriver struct {
	pages   map[int]*fakePage
	current string
	visited []string
	errs    map[string]error
	closed  bool
}

var _ browser.Driver = (*fakeDriver)(nil)

func newFakeDriver(pages ...*fakePage) *fakeDriver {
	d := &fakeDriver{pages: map[int]*fakePage{}, errs: map[string]error{}}
	for i, p := range pages {
		d.pages[i+1] = p
	}
	return d
}

func (d *fakeDriver) page() *fakePage {
	n := 1
	if u, err := url.Parse(d.current); err == nil {
		if v, err := strconv.Atoi(u.Query().Get(site.PageParam)); err == nil {
			n = v
		}
	}
	if p, ok := d.pages[n]; ok {
		return p
	}
	return newFakePage()
}

func (d *fakeDriver) Navigate(_ context.Context, u string) error {
	d.current = u
	d.visited = append(d.visited, u)
	return nil
}

func (d *fakeDriver) CurrentURL(context.Context) (string, error) {
	return d.current, nil
}

func (d *fakeDriver) Element(_ context.Context, xpath string) (browser.Element, error) {
	if err, ok := d.errs[xpath]; ok {
		return nil, err
	}
	if el := d.page().first(xpath); el != nil {
		return el, nil
	}
	return nil, browser.ErrNotFound
}

func (d *fakeDriver) Elements(_ context.Context, xpath string) ([]browser.Element, error) {
	if err, ok := d.errs[xpath]; ok {
		return nil, err
	}
	els := d.page().elements[xpath]
	out := make([]browser.Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out, nil
}

func (d *fakeDriver) WaitURL(_ context.Context, u string, _ time.Duration) error {
	if d.current == u {
		return nil
	}
	return browser.ErrTimeout
}

func (d *fakeDriver) WaitVisible(ctx context.Context, xpath string, _ time.Duration) (browser.Element, error) {
	el, err := d.Element(ctx, xpath)
	if err == browser.ErrNotFound {
		return nil, browser.ErrTimeout
	}
	return el, err
}

func (d *fakeDriver) WaitClickable(ctx context.Context, xpath string, timeout time.Duration) (browser.Element, error) {
	return d.WaitVisible(ctx, xpath, timeout)
}

func (d *fakeDriver) Close() error {
	d.closed = true
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Credentials: config.Credentials{
			Username: "me@example.com",
			Password: "secret",
			BaseURL:  testBase,
			LoginURL: testBase + "/signin",
		},
		Timeouts: config.TimeoutConfig{
			Login:         10 * time.Second,
			Dialog:        10 * time.Second,
			Questionnaire: 5 * time.Second,
			Snackbar:      2 * time.Second,
			Close:         5 * time.Second,
			Navigation:    30 * time.Second,
		},
	}
}
