package models

import "time"

// Posting is a snapshot of one job posting as rendered on a results page.
type Posting struct {
	// Index is the 1-based position of the posting in the live result list.
	// It is only valid until the DOM re-renders.
	Index    int
	Employer string
	Title    string
}

// Outcome is the result of one apply attempt that did not fail.
type Outcome int

const (
	// OutcomeApplied means the application was submitted.
	OutcomeApplied Outcome = iota
	// OutcomeNoButton means the posting offers no apply button.
	OutcomeNoButton
	// OutcomeQuestionnaire means the posting asked for a questionnaire and
	// the attempt was cancelled.
	OutcomeQuestionnaire
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNoButton:
		return "no_button"
	case OutcomeQuestionnaire:
		return "questionnaire"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Application is one record of the batch.
type Application struct {
	Employer string  `json:"employer"`
	Title    string  `json:"title"`
	Applied  bool    `json:"applied"`
	Outcome  Outcome `json:"outcome"`
	Page     int     `json:"page"`
}

// NewApplication builds the record for a posting; Applied follows the outcome.
func NewApplication(p Posting, page int, o Outcome) Application {
	return Application{
		Employer: p.Employer,
		Title:    p.Title,
		Applied:  o == OutcomeApplied,
		Outcome:  o,
		Page:     page,
	}
}

// Batch is the ordered result of one run.
type Batch struct {
	RunID        string        `json:"run_id"`
	Term         string        `json:"term"`
	Location     string        `json:"location,omitempty"`
	Pages        int           `json:"pages"`
	Applications []Application `json:"applications"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// Applied returns how many records were submitted.
func (b *Batch) Applied() int {
	n := 0
	for _, a := range b.Applications {
		if a.Applied {
			n++
		}
	}
	return n
}

// Cancelled returns how many records were attempted but not submitted.
func (b *Batch) Cancelled() int {
	return len(b.Applications) - b.Applied()
}
