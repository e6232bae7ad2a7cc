package report

import (
	"encoding/json"
	"math"
	"testing"

	"pipetrack/common"
	"pipetrack/models"
)

func mkReport(status models.Status, archived, deleted bool) models.Report {
	return models.Report{
		ReportID: "5",
		UserID:   "9",
		TicketNo: "TKT-0005",
		Type:     "leaking_pipe",
		Status:   status,
		Archived: models.Flag(archived),
		Deleted:  models.Flag(deleted),
	}
}

func TestVisibleIn(t *testing.T) {
	testCases := []struct {
		name    string
		report  models.Report
		track   bool
		history bool
	}{
		{"pending", mkReport(models.StatusPending, false, false), false, false},
		{"in_progress", mkReport(models.StatusInProgress, false, false), true, false},
		{"resolved", mkReport(models.StatusResolved, false, false), true, true},
		{"rejected", mkReport(models.StatusRejected, false, false), false, true},
		{"resolved deleted", mkReport(models.StatusResolved, false, true), false, true},
		{"resolved archived", mkReport(models.StatusResolved, true, false), true, false},
		{"unknown status", mkReport(models.Status("weird"), false, false), false, false},
	}

	for _, testCase := range testCases {
		if got := VisibleIn(TrackView, testCase.report); got != testCase.track {
			t.Errorf("%s: track visibility = %v, want %v", testCase.name, got, testCase.track)
		}
		if got := VisibleIn(HistoryView, testCase.report); got != testCase.history {
			t.Errorf("%s: history visibility = %v, want %v", testCase.name, got, testCase.history)
		}
	}
}

func TestVisibleInNormalizesWireStatus(t *testing.T) {
	var r models.Report
	raw := `{"report_id":"5","user_id":"9","status":"In_Progress","is_deleted":0}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !VisibleIn(TrackView, r) {
		t.Error("wire-cased in_progress report not visible in tracking view")
	}
}

func TestCanDelete(t *testing.T) {
	testCases := []struct {
		status  models.Status
		blocked bool
	}{
		{models.StatusPending, true},
		{models.StatusInProgress, true},
		{models.StatusResolved, false},
		{models.StatusRejected, false},
	}

	for _, testCase := range testCases {
		err := CanDelete(mkReport(testCase.status, false, false))
		if testCase.blocked != (err != nil) {
			t.Errorf("CanDelete(%s) = %v, blocked want %v", testCase.status, err, testCase.blocked)
		}
		if err != nil && !common.IsPolicyBlocked(err) {
			t.Errorf("CanDelete(%s) returned %T, want policy error", testCase.status, err)
		}
	}
}

func TestCanArchive(t *testing.T) {
	if err := CanArchive(mkReport(models.StatusResolved, false, false)); err != nil {
		t.Errorf("resolved: %v", err)
	}
	if err := CanArchive(mkReport(models.StatusRejected, false, false)); err != nil {
		t.Errorf("rejected: %v", err)
	}
	if err := CanArchive(mkReport(models.StatusInProgress, false, false)); !common.IsPolicyBlocked(err) {
		t.Errorf("in_progress: err = %v, want policy error", err)
	}
}

func TestFeedbackEligible(t *testing.T) {
	if !FeedbackEligible(mkReport(models.StatusResolved, false, false)) {
		t.Error("resolved report should be feedback-eligible")
	}
	for _, status := range []models.Status{models.StatusPending, models.StatusInProgress, models.StatusRejected} {
		if FeedbackEligible(mkReport(status, false, false)) {
			t.Errorf("%s report should not be feedback-eligible", status)
		}
	}
}

func TestPinnedLocation(t *testing.T) {
	var r models.Report
	raw := `{"report_id":"5","location_lat":"14.03","location_lng":120.65}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	ll, ok := PinnedLocation(r)
	if !ok {
		t.Fatal("report with wire coordinates has no pin")
	}
	if math.Abs(ll.Lat.Degrees()-14.03) > 1e-9 || math.Abs(ll.Lng.Degrees()-120.65) > 1e-9 {
		t.Errorf("pin = %v, want 14.03,120.65", ll)
	}

	if _, ok := PinnedLocation(mkReport(models.StatusResolved, false, false)); ok {
		t.Error("report without coordinates produced a pin")
	}

	var bad models.Report
	if err := json.Unmarshal([]byte(`{"location_lat":"95.0","location_lng":"10.0"}`), &bad); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := PinnedLocation(bad); ok {
		t.Error("out-of-range coordinates produced a pin")
	}
}

func TestMatchesSearch(t *testing.T) {
	r := mkReport(models.StatusResolved, false, false)
	testCases := []struct {
		text string
		want bool
	}{
		{"", true},
		{"tkt-0005", true},
		{"0005", true},
		{"LEAKING", true},
		{"burst", false},
	}
	for _, testCase := range testCases {
		if got := MatchesSearch(r, testCase.text); got != testCase.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", testCase.text, got, testCase.want)
		}
	}
}

func TestMatchesDate(t *testing.T) {
	r := mkReport(models.StatusResolved, false, false)
	r.Date = "2025-06-01 10:30:00"
	if !MatchesDate(r, "2025-06-01") {
		t.Error("same day should match")
	}
	if MatchesDate(r, "2025-06-02") {
		t.Error("other day should not match")
	}
	if !MatchesDate(r, "") {
		t.Error("empty filter should match everything")
	}
}
