package report

import (
	"context"
	"testing"
	"time"

	"pipetrack/api"
	"pipetrack/common"
	"pipetrack/models"
)

type fakeFeedbackClient struct {
	existing    *models.Feedback
	getErr      error
	createErr   error
	getCalls    int
	createCalls int
	lastCreate  api.CreateFeedbackArgs
}

func (f *fakeFeedbackClient) GetFeedback(context.Context, string) (*models.Feedback, error) {
	f.getCalls++
	return f.existing, f.getErr
}

func (f *fakeFeedbackClient) CreateFeedback(_ context.Context, args api.CreateFeedbackArgs) error {
	f.createCalls++
	f.lastCreate = args
	if f.createErr == nil {
		f.existing = &models.Feedback{Message: args.Message, Rating: args.Rating, Date: "2025-06-01 10:30:00"}
	}
	return f.createErr
}

func gateWith(fc *fakeFeedbackClient) *FeedbackGate {
	return &FeedbackGate{
		client: fc,
		now:    func() time.Time { return time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC) },
	}
}

func TestOpenRequiresResolved(t *testing.T) {
	fc := &fakeFeedbackClient{}
	g := gateWith(fc)

	_, err := g.Open(context.Background(), mkReport(models.StatusInProgress, false, false))
	if !common.IsPolicyBlocked(err) {
		t.Fatalf("Open(in_progress) = %v, want policy error", err)
	}
	if fc.getCalls != 0 {
		t.Error("ineligible report still queried feedback")
	}
}

func TestOpenExistingFeedbackIsReadOnly(t *testing.T) {
	fc := &fakeFeedbackClient{
		existing: &models.Feedback{Message: "fixed fast", Rating: 5, Date: "2025-05-01 09:00:00"},
	}
	form, err := gateWith(fc).Open(context.Background(), mkReport(models.StatusResolved, false, false))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !form.ReadOnly || form.Existing == nil || form.Existing.Rating != 5 {
		t.Errorf("form = %+v, want read-only with existing feedback", form)
	}

	if err := form.Submit(context.Background(), "again", 3); !common.IsPolicyBlocked(err) {
		t.Errorf("Submit on read-only form = %v, want policy error", err)
	}
	if fc.createCalls != 0 {
		t.Error("read-only form reached the network")
	}
}

func TestSubmitValidation(t *testing.T) {
	testCases := []struct {
		name    string
		message string
		rating  int
	}{
		{"empty message", "", 4},
		{"zero rating", "good job", 0},
		{"rating too high", "good job", 6},
	}

	for _, testCase := range testCases {
		fc := &fakeFeedbackClient{}
		form, err := gateWith(fc).Open(context.Background(), mkReport(models.StatusResolved, false, false))
		if err != nil {
			t.Fatalf("%s: Open: %v", testCase.name, err)
		}
		if err := form.Submit(context.Background(), testCase.message, testCase.rating); !common.IsValidation(err) {
			t.Errorf("%s: Submit = %v, want validation failure", testCase.name, err)
		}
		if fc.createCalls != 0 {
			t.Errorf("%s: invalid submission reached the network", testCase.name)
		}
	}
}

func TestSubmitSuccessFlipsToReadOnlyWithoutRefetch(t *testing.T) {
	fc := &fakeFeedbackClient{}
	form, err := gateWith(fc).Open(context.Background(), mkReport(models.StatusResolved, false, false))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if form.ReadOnly {
		t.Fatal("form with no feedback should be editable")
	}
	getCallsAfterOpen := fc.getCalls

	if err := form.Submit(context.Background(), "water is back, thanks", 4); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if !form.ReadOnly {
		t.Error("form still editable after successful submit")
	}
	if form.Existing == nil || form.Existing.Rating != 4 || form.Existing.Message != "water is back, thanks" {
		t.Errorf("displayed feedback = %+v, want just-submitted values", form.Existing)
	}
	if fc.getCalls != getCallsAfterOpen {
		t.Error("successful submit re-fetched feedback")
	}
	if fc.lastCreate.ReportID != "5" || fc.lastCreate.UserID != "9" {
		t.Errorf("create args = %+v", fc.lastCreate)
	}
}

func TestSubmitRaceAdoptsWinningFeedback(t *testing.T) {
	fc := &fakeFeedbackClient{
		createErr: &common.ServerError{Message: "Feedback already submitted"},
		existing:  nil,
	}
	form, err := gateWith(fc).Open(context.Background(), mkReport(models.StatusResolved, false, false))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Another session wins between open and submit.
	fc.existing = &models.Feedback{Message: "someone else", Rating: 2, Date: "2025-06-01 10:29:00"}

	err = form.Submit(context.Background(), "mine", 4)
	if !common.IsServerRejected(err) {
		t.Fatalf("Submit = %v, want server rejection", err)
	}
	if !form.ReadOnly || form.Existing == nil || form.Existing.Message != "someone else" {
		t.Errorf("form = %+v, want winning feedback adopted", form)
	}
}
