package catho

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/use-agent/jobpilot/browser"
	"github.com/use-agent/jobpilot/models"
	"github.com/use-agent/jobpilot/site"
)

// ApplyAll walks up to maxPages result pages, starting from the page the
// tab shows, and applies to every posting whose employer is not in
// blacklist and that was not applied to before.
//
// When a page shows no postings at all the walk stops and ApplyAll returns
// a nil slice with a models.ErrCodePostingsNotFound error; a page whose
// postings are all skipped is not an error.
func (s *Session) ApplyAll(ctx context.Context, maxPages int, blacklist map[string]struct{}) ([]models.Application, error) {
	total, err := s.pageCount(ctx)
	if err != nil {
		return nil, err
	}
	limit := min(maxPages, total)
	slog.Info("applying", "requestedPages", maxPages, "sitePages", total, "pages", limit)

	applications := []models.Application{}
	for page := 1; page <= limit; page++ {
		n, err := s.postingCount(ctx)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, models.NewError(models.ErrCodePostingsNotFound,
				fmt.Sprintf("no postings found on page %d", page), nil)
		}
		slog.Info("processing page", "page", page, "postings", n)

		// The list can re-render after each apply, so the count is read
		// again before every index.
		for idx := 1; idx <= n; idx++ {
			app, ok, err := s.processPosting(ctx, idx, page, blacklist)
			if err != nil {
				return nil, err
			}
			if ok {
				applications = append(applications, app)
			}
			if n, err = s.postingCount(ctx); err != nil {
				return nil, err
			}
		}

		if page < limit {
			if err := s.goToPage(ctx, page+1); err != nil {
				return nil, err
			}
		}
	}
	return applications, nil
}

// processPosting handles one posting. ok is false when the posting was
// skipped and produces no record.
func (s *Session) processPosting(ctx context.Context, idx, page int, blacklist map[string]struct{}) (models.Application, bool, error) {
	p, err := s.posting(ctx, idx)
	if err != nil {
		return models.Application{}, false, err
	}
	if _, blocked := blacklist[p.Employer]; blocked {
		slog.Debug("skipping blacklisted employer", "index", p.Index, "employer", p.Employer, "title", p.Title)
		return models.Application{}, false, nil
	}
	applied, err := s.alreadyApplied(ctx, p.Index)
	if err != nil {
		return models.Application{}, false, err
	}
	if applied {
		slog.Debug("skipping posting already applied to", "index", p.Index, "employer", p.Employer, "title", p.Title)
		return models.Application{}, false, nil
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return models.Application{}, false, err
	}
	outcome, err := s.Apply(ctx, p.Index)
	if err != nil {
		return models.Application{}, false, fmt.Errorf("apply to %q at %s: %w", p.Title, p.Employer, err)
	}
	app := models.NewApplication(p, page, outcome)

	status := "OK"
	if !app.Applied {
		status = "CANCELADO"
	}
	fmt.Fprintf(s.progress, "%s | %s | %s\n", p.Employer, p.Title, status)
	slog.Info("posting processed",
		"page", page,
		"index", p.Index,
		"employer", p.Employer,
		"title", p.Title,
		"outcome", outcome.String(),
	)

	if err := s.dismissSnackbar(ctx); err != nil {
		return models.Application{}, false, err
	}
	return app, true, nil
}

// pageCount reads the total number of result pages from the pager.
// A results page without a pager has a single page.
func (s *Session) pageCount(ctx context.Context) (int, error) {
	btns, err := s.driver.Elements(ctx, site.PageButtons)
	if err != nil {
		return 0, err
	}
	if len(btns) == 0 {
		return 1, nil
	}
	text, err := btns[len(btns)-1].Text()
	if err != nil {
		return 0, err
	}
	n, err := site.ParsePageCount(text)
	if err != nil {
		return 0, models.NewError(models.ErrCodePagination, "failed to read page count", err)
	}
	return n, nil
}

func (s *Session) postingCount(ctx context.Context) (int, error) {
	items, err := s.driver.Elements(ctx, site.PostingList)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// posting reads employer and title of the posting at the 1-based index.
// Confidential postings render no employer line; their employer is empty.
func (s *Session) posting(ctx context.Context, idx int) (models.Posting, error) {
	employer, err := s.text(ctx, site.Employer(idx))
	if err != nil && !errors.Is(err, browser.ErrNotFound) {
		return models.Posting{}, err
	}
	title, err := s.text(ctx, site.Title(idx))
	if err != nil {
		return models.Posting{}, err
	}
	return models.Posting{
		Index:    idx,
		Employer: site.CleanEmployer(employer),
		Title:    title,
	}, nil
}

func (s *Session) text(ctx context.Context, xpath string) (string, error) {
	el, err := s.driver.Element(ctx, xpath)
	if err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			return "", models.NewError(models.ErrCodeElementNotFound, xpath, err)
		}
		return "", err
	}
	return el.Text()
}

// alreadyApplied reports whether the posting carries an application marker.
// Only a missing marker means "not applied"; lookup failures are returned.
func (s *Session) alreadyApplied(ctx context.Context, idx int) (bool, error) {
	_, err := s.driver.Element(ctx, site.AlreadyApplied(idx))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, browser.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// goToPage rewrites the page parameter of the current URL and loads it.
func (s *Session) goToPage(ctx context.Context, page int) error {
	cur, err := s.driver.CurrentURL(ctx)
	if err != nil {
		return err
	}
	next, err := site.PageURL(cur, page)
	if err != nil {
		return models.NewError(models.ErrCodePagination, "failed to build next page url", err)
	}
	slog.Debug("next page", "page", page, "url", next)
	return s.driver.Navigate(ctx, next)
}
