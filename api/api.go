// Package api pins down the wire contract between the client and the
// backend: endpoint paths, request arguments and response envelopes. The
// backend answers HTTP 200 for business failures and signals them with
// success:false, so every envelope carries the success/message pair.
package api

import (
	"pipetrack/models"
)

const (
	LoginEndpoint          = "/login.php"
	RegisterEndpoint       = "/register.php"
	ForgotPasswordEndpoint = "/forgot_password.php"
	ChangePasswordEndpoint = "/change_password.php"
	UpdateProfileEndpoint  = "/update_profile.php"
	UploadAvatarEndpoint   = "/upload_avatar.php"

	CreateReportEndpoint   = "/reports/create.php"
	ListReportsEndpoint    = "/reports/list.php"
	UserReportsEndpoint    = "/reports/get_user_reports.php"
	ArchiveReportEndpoint  = "/reports/archive_report.php"
	DeleteReportEndpoint   = "/reports/delete_report.php"
	GetFeedbackEndpoint    = "/reports/get_feedback.php"
	CreateFeedbackEndpoint = "/reports/create_feedback.php"

	// UploadsPrefix is where report and avatar images are served from.
	UploadsPrefix = "/uploads/"
)

type LoginArgs struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterArgs struct {
	Fullname      string `json:"fullname"`
	ContactNumber string `json:"contact_number"`
	Sex           string `json:"sex"`
	Street        string `json:"street"`
	Barangay      string `json:"barangay"`
	City          string `json:"city"`
	Email         string `json:"email"`
	Password      string `json:"password"`
}

type ForgotPasswordArgs struct {
	Email string `json:"email"`
}

type ChangePasswordArgs struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

type UpdateProfileArgs struct {
	UserID        string `json:"user_id"`
	Fullname      string `json:"fullname"`
	ContactNumber string `json:"contact_number"`
	Sex           string `json:"sex"`
	Street        string `json:"street"`
	Barangay      string `json:"barangay"`
	City          string `json:"city"`
}

// UploadAvatarArgs carries the avatar as base64 JSON, not multipart.
type UploadAvatarArgs struct {
	UserID string `json:"user_id"`
	Image  string `json:"image"`
}

// ImageFile is a picked image to attach to a report submission.
type ImageFile struct {
	Name    string
	Content []byte
}

// CreateReportArgs is encoded as multipart/form-data, one field per member,
// with the image as a file part under image_path.
type CreateReportArgs struct {
	UserID      string
	ReportType  string
	Status      string
	Description string
	Address     string
	LocationLat string
	LocationLng string
	CreatedAt   string
	Image       *ImageFile
}

type UserReportsArgs struct {
	UserID string `json:"user_id"`
}

// ArchiveReportArgs addresses the report by its internal id.
type ArchiveReportArgs struct {
	ReportID string `json:"report_id"`
}

// DeleteReportArgs addresses the report by its human-facing ticket number.
type DeleteReportArgs struct {
	TicketNo string `json:"ticket_no"`
}

type CreateFeedbackArgs struct {
	UserID   string `json:"user_id"`
	ReportID string `json:"report_id"`
	Message  string `json:"message"`
	Rating   int    `json:"rating"`
}

// StatusResponse is the plain success/message envelope most endpoints answer
// with.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    *models.SessionProfile `json:"data"`
}

type ReportListResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    []models.Report `json:"data"`
}

type FeedbackResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Feedback *models.Feedback `json:"feedback"`
}
