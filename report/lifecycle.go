package report

import (
	"strings"

	"github.com/golang/geo/s2"

	"pipetrack/common"
	"pipetrack/coords"
	"pipetrack/models"
)

// View selects which status subset a screen observes.
type View int

const (
	// TrackView: reports the utility accepted and is working on or has
	// finished. Soft-deleted entries are hidden.
	TrackView View = iota

	// HistoryView: closed reports (resolved or rejected). Archived entries
	// are hidden.
	HistoryView
)

// VisibleIn is the visibility predicate over (status, archived, deleted).
// Soft flags filter, they never replace status. Pending reports appear in
// neither view; they become visible once the admin moves them forward.
func VisibleIn(v View, r models.Report) bool {
	switch v {
	case TrackView:
		if r.Deleted {
			return false
		}
		return r.Status == models.StatusInProgress || r.Status == models.StatusResolved
	case HistoryView:
		if r.Archived {
			return false
		}
		return r.Status == models.StatusResolved || r.Status == models.StatusRejected
	}
	return false
}

// CanDelete gates the tracking view's delete action before any network call.
// In-progress reports are refused with the user-facing explanation; pending
// reports never show in the tracking list, so deleting one is a policy
// violation too.
func CanDelete(r models.Report) error {
	switch r.Status {
	case models.StatusInProgress:
		return &common.PolicyError{
			Reason: "This report is already approved and being processed by a technician.",
		}
	case models.StatusResolved, models.StatusRejected:
		return nil
	default:
		return &common.PolicyError{Reason: "This report cannot be deleted yet."}
	}
}

// CanArchive gates the history view's archive action. Only closed reports
// archive.
func CanArchive(r models.Report) error {
	if r.Status.Terminal() {
		return nil
	}
	return &common.PolicyError{Reason: "Only resolved or rejected reports can be archived."}
}

// FeedbackEligible: exactly the resolved state. Rejected reports never take
// feedback.
func FeedbackEligible(r models.Report) bool {
	return r.Status == models.StatusResolved
}

// PinnedLocation resolves the report's map pin for the detail modal. Reports
// submitted without location capture, or with unparseable wire values, have
// no pin.
func PinnedLocation(r models.Report) (s2.LatLng, bool) {
	return coords.FromReport(&r)
}

// MatchesSearch implements the tracking view's search box: case-insensitive
// substring match on ticket number or issue type.
func MatchesSearch(r models.Report, text string) bool {
	if text == "" {
		return true
	}
	t := strings.ToLower(text)
	return strings.Contains(strings.ToLower(r.TicketNo), t) ||
		strings.Contains(strings.ToLower(r.Type), t)
}

// MatchesDate filters on the creation date's day, using the backend's
// "2006-01-02 15:04:05" timestamp format.
func MatchesDate(r models.Report, day string) bool {
	if day == "" {
		return true
	}
	return strings.HasPrefix(r.Date, day)
}
