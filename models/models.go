package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the report lifecycle state as assigned by the backend. The wire
// is case-insensitive ("In_Progress", "RESOLVED"); decoding normalizes, so
// values compare directly against the constants below. Anything outside the
// known set is kept as-is after lowercasing and simply matches no state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

func NormalizeStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports no further status change from the backend. This is a
// client assumption; the polling cache still applies whatever the server
// sends.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NormalizeStatus(raw)
	return nil
}

// ID is an identifier that may arrive as a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Coordinate tolerates the backend sending latitude/longitude as either a
// number or a decimal string. Empty strings and nulls decode as unset.
type Coordinate struct {
	val decimal.Decimal
	ok  bool
}

func ParseCoordinate(s string) (Coordinate, error) {
	if strings.TrimSpace(s) == "" {
		return Coordinate{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Coordinate{}, fmt.Errorf("bad coordinate %q: %w", s, err)
	}
	return Coordinate{val: d, ok: true}, nil
}

func (c Coordinate) Float64() (float64, bool) {
	if !c.ok {
		return 0, false
	}
	f, _ := c.val.Float64()
	return f, true
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*c = Coordinate{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("bad coordinate %s: %w", data, err)
	}
	*c = Coordinate{val: d, ok: true}
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.ok {
		return []byte(`""`), nil
	}
	// The PHP backend stores and returns coordinates as strings.
	return json.Marshal(c.val.String())
}

// Flag is a soft-state boolean that arrives as true/false, 0/1 or "0"/"1".
// Decoding never fails: one odd row must not blank a whole report list poll.
// Unrecognized numbers follow PHP truthiness, anything else is unset.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "", "null", "false", "0":
		*f = false
	case "true", "1":
		*f = true
	default:
		n, err := strconv.ParseFloat(s, 64)
		*f = err == nil && n != 0
	}
	return nil
}

// Report is one citizen-submitted issue as returned by the backend.
// report_id is the stable internal identifier; ticketNo is the human-facing
// number used for search and for delete calls. is_archived and is_deleted
// are visibility flags layered on top of the status, never statuses
// themselves.
type Report struct {
	ReportID    ID         `json:"report_id"`
	UserID      ID         `json:"user_id"`
	TicketNo    string     `json:"ticketNo"`
	Type        string     `json:"type"`
	Date        string     `json:"date"`
	Address     string     `json:"address"`
	Status      Status     `json:"status"`
	Description string     `json:"description"`
	LocationLat Coordinate `json:"location_lat"`
	LocationLng Coordinate `json:"location_lng"`
	ImagePath   string     `json:"image_path,omitempty"`
	Archived    Flag       `json:"is_archived,omitempty"`
	Deleted     Flag       `json:"is_deleted,omitempty"`
}

// Feedback is the single post-resolution rating a citizen may leave on a
// resolved report. Immutable once created.
type Feedback struct {
	Message string `json:"message"`
	Rating  int    `json:"rating"`
	Date    string `json:"date"`
}

// SessionProfile is the locally cached snapshot of the logged-in user.
type SessionProfile struct {
	UserID        ID     `json:"user_id"`
	Fullname      string `json:"fullname"`
	ContactNumber string `json:"contact_number"`
	Sex           string `json:"sex"`
	Street        string `json:"street"`
	Barangay      string `json:"barangay"`
	City          string `json:"city"`
	Email         string `json:"email"`
	AccountStatus string `json:"account_status"`
	Profile       string `json:"profile"` // avatar reference
}
