// Package report implements the client-side report lifecycle: drafting and
// submission, status-driven action gating, the polling cache, and the
// one-feedback-per-resolved-report gate.
package report

import (
	"context"
	"strconv"
	"time"

	"github.com/golang/geo/s2"

	"pipetrack/api"
	"pipetrack/common"
	"pipetrack/coords"
)

// Issue types accepted by the backend. The draft builder does not enforce
// membership; any non-empty type passes validation, same as the original
// client. The list exists for pickers.
const (
	IssueLeakingPipe   = "leaking_pipe"
	IssueNoWaterSupply = "no_water_supply"
	IssueDirtyWater    = "dirty_water"
	IssueBurstPipe     = "burst_pipe"
	IssueLowPressure   = "low_pressure"
	IssueOthers        = "others"
)

func IssueTypes() []string {
	return []string{
		IssueLeakingPipe, IssueNoWaterSupply, IssueDirtyWater,
		IssueBurstPipe, IssueLowPressure, IssueOthers,
	}
}

// Draft is an unsaved report being assembled by the user. Zero value is an
// empty form.
type Draft struct {
	IssueType   string
	Description string
	Address     string
	Location    *s2.LatLng
	Image       *api.ImageFile
}

// SetLocation pins the draft to the picked map location. Raw values pass
// through the coordinate normalization boundary, so a NaN or out-of-range
// pin never reaches the payload; a failed set leaves the current pin alone.
func (d *Draft) SetLocation(lat, lng float64) error {
	ll, err := coords.Normalize(lat, lng)
	if err != nil {
		return err
	}
	d.Location = &ll
	return nil
}

// Validate checks completeness only: type, description, address and pinned
// coordinates are required, the photo is optional. Lengths, coordinate
// plausibility and address shape are deliberately not checked.
func (d *Draft) Validate() error {
	var missing []string
	if d.IssueType == "" {
		missing = append(missing, "issue type")
	}
	if d.Description == "" {
		missing = append(missing, "description")
	}
	if d.Address == "" {
		missing = append(missing, "address")
	}
	if d.Location == nil {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return &common.ValidationError{Missing: missing}
	}
	return nil
}

// payload freezes the draft into the multipart arguments. Status is always
// forced to pending; the backend owns every later transition.
func (d *Draft) payload(userID string, now time.Time) api.CreateReportArgs {
	return api.CreateReportArgs{
		UserID:      userID,
		ReportType:  d.IssueType,
		Status:      "pending",
		Description: d.Description,
		Address:     d.Address,
		LocationLat: strconv.FormatFloat(d.Location.Lat.Degrees(), 'f', -1, 64),
		LocationLng: strconv.FormatFloat(d.Location.Lng.Degrees(), 'f', -1, 64),
		CreatedAt:   now.UTC().Format(time.RFC3339),
		Image:       d.Image,
	}
}

// Submitter is the slice of the gateway the form needs.
type Submitter interface {
	CreateReport(ctx context.Context, args api.CreateReportArgs) error
}

// Form owns one draft. Submit validates, sends once, and clears the draft
// only on confirmed success; any failure leaves the draft untouched so the
// user can retry manually.
type Form struct {
	Draft Draft

	submitter Submitter
	now       func() time.Time
}

func NewForm(s Submitter) *Form {
	return &Form{submitter: s, now: time.Now}
}

func (f *Form) Submit(ctx context.Context, userID string) error {
	if err := f.Draft.Validate(); err != nil {
		return err
	}
	if err := f.submitter.CreateReport(ctx, f.Draft.payload(userID, f.now())); err != nil {
		return err
	}
	f.Draft = Draft{}
	return nil
}
