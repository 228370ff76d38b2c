package catho

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/use-agent/jobpilot/browser"
	"github.com/use-agent/jobpilot/models"
	"github.com/use-agent/jobpilot/site"
)

// Apply runs the apply protocol for the posting at the 1-based index.
//
// A missing apply button and a questionnaire are outcomes, not errors.
// An error means the site did not answer the way it always does (for
// instance the confirmation dialog never opened) and the run should stop.
func (s *Session) Apply(ctx context.Context, idx int) (models.Outcome, error) {
	btn, err := s.driver.Element(ctx, site.ApplyButton(idx))
	if errors.Is(err, browser.ErrNotFound) {
		return models.OutcomeNoButton, nil
	}
	if err != nil {
		return 0, err
	}

	// Read the label before clicking: the button may re-render afterwards.
	label, err := btn.Text()
	if err != nil {
		return 0, err
	}
	if err := btn.Click(); err != nil {
		return 0, err
	}

	if strings.TrimSpace(label) == site.LabelApply {
		if err := s.confirmDialog(ctx); err != nil {
			return 0, err
		}
	}

	cancelled, err := s.closeQuestionnaire(ctx)
	if err != nil {
		return 0, err
	}
	if cancelled {
		return models.OutcomeQuestionnaire, nil
	}
	return models.OutcomeApplied, nil
}

// confirmDialog confirms the "Quero me candidatar" dialog, then closes the
// message that follows it.
func (s *Session) confirmDialog(ctx context.Context) error {
	if err := s.clickWhenReady(ctx, site.ConfirmButton, "confirmation dialog"); err != nil {
		return err
	}
	return s.clickWhenReady(ctx, site.InfoCloseButton, "confirmation message")
}

func (s *Session) clickWhenReady(ctx context.Context, xpath, what string) error {
	btn, err := s.driver.WaitClickable(ctx, xpath, s.timeouts.Dialog)
	if err != nil {
		if errors.Is(err, browser.ErrTimeout) {
			return models.NewError(models.ErrCodeDialogTimeout, what+" did not open", err)
		}
		return err
	}
	return btn.Click()
}

// closeQuestionnaire cancels the application when the site asks for a
// questionnaire. It reports whether it did.
func (s *Session) closeQuestionnaire(ctx context.Context) (bool, error) {
	_, err := s.driver.WaitVisible(ctx, site.QuestionnaireTitle, s.timeouts.Questionnaire)
	if errors.Is(err, browser.ErrTimeout) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	slog.Debug("questionnaire required, cancelling")
	btn, err := s.driver.WaitClickable(ctx, site.QuestionnaireClose, s.timeouts.Close)
	if err != nil {
		if errors.Is(err, browser.ErrTimeout) {
			return false, models.NewError(models.ErrCodeDialogTimeout, "questionnaire close button not clickable", err)
		}
		return false, err
	}
	if err := btn.Click(); err != nil {
		return false, err
	}
	return true, nil
}

// dismissSnackbar closes the toast shown after an attempt, if any.
func (s *Session) dismissSnackbar(ctx context.Context) error {
	_, err := s.driver.WaitVisible(ctx, site.Snackbar, s.timeouts.Snackbar)
	if errors.Is(err, browser.ErrTimeout) {
		return nil
	}
	if err != nil {
		return err
	}

	btn, err := s.driver.WaitClickable(ctx, site.SnackbarClose, s.timeouts.Close)
	if err != nil {
		if errors.Is(err, browser.ErrTimeout) {
			return models.NewError(models.ErrCodeDialogTimeout, "snackbar close button not clickable", err)
		}
		return err
	}
	return btn.Click()
}
