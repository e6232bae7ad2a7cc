package report

import (
	"context"
	"time"

	"pipetrack/api"
	"pipetrack/common"
	"pipetrack/models"
)

// FeedbackClient is the slice of the gateway the gate needs.
type FeedbackClient interface {
	GetFeedback(ctx context.Context, reportID string) (*models.Feedback, error)
	CreateFeedback(ctx context.Context, args api.CreateFeedbackArgs) error
}

// FeedbackGate enforces at-most-one feedback per resolved report from the
// client side. The existence check before opening the form is advisory, not
// transactional: a concurrent session can still win the race, which shows up
// as a server rejection on submit and is resolved by re-querying.
type FeedbackGate struct {
	client FeedbackClient
	now    func() time.Time
}

func NewFeedbackGate(c FeedbackClient) *FeedbackGate {
	return &FeedbackGate{client: c, now: time.Now}
}

// FeedbackForm is the state of the feedback modal for one report. When
// ReadOnly, Existing holds what to display and the input form stays hidden.
type FeedbackForm struct {
	ReadOnly bool
	Existing *models.Feedback

	gate   *FeedbackGate
	report models.Report
}

// Open checks eligibility and queries existing feedback before the form is
// shown. Resolved reports with feedback render read-only; without, editable.
func (g *FeedbackGate) Open(ctx context.Context, r models.Report) (*FeedbackForm, error) {
	if !FeedbackEligible(r) {
		return nil, &common.PolicyError{Reason: "Feedback is only available for resolved reports."}
	}

	existing, err := g.client.GetFeedback(ctx, r.ReportID.String())
	if err != nil {
		return nil, err
	}

	return &FeedbackForm{
		ReadOnly: existing != nil,
		Existing: existing,
		gate:     g,
		report:   r,
	}, nil
}

// Submit validates locally, sends once, and on success flips the form to
// read-only using the just-submitted values with no re-fetch. On a server
// rejection (someone else already submitted) the form re-queries and adopts
// the winning feedback, still returning the rejection to the caller.
func (f *FeedbackForm) Submit(ctx context.Context, message string, rating int) error {
	if f.ReadOnly {
		return &common.PolicyError{Reason: "Feedback has already been submitted for this report."}
	}
	if message == "" {
		return &common.ValidationError{Reason: "please enter a review before submitting"}
	}
	if rating < 1 || rating > 5 {
		return &common.ValidationError{Reason: "please select a star rating from 1 to 5"}
	}

	err := f.gate.client.CreateFeedback(ctx, api.CreateFeedbackArgs{
		UserID:   f.report.UserID.String(),
		ReportID: f.report.ReportID.String(),
		Message:  message,
		Rating:   rating,
	})
	if err != nil {
		if common.IsServerRejected(err) {
			if existing, qerr := f.gate.client.GetFeedback(ctx, f.report.ReportID.String()); qerr == nil && existing != nil {
				f.ReadOnly = true
				f.Existing = existing
			}
		}
		return err
	}

	f.ReadOnly = true
	f.Existing = &models.Feedback{
		Message: message,
		Rating:  rating,
		Date:    f.gate.now().Format("2006-01-02 15:04:05"),
	}
	return nil
}
