package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/apex/log"

	"pipetrack/api"
	"pipetrack/models"
)

// CreateReport submits a validated draft payload as multipart/form-data.
// The status field is always forced to pending by the draft builder before
// it gets here; this function only encodes and sends.
func (c *Client) CreateReport(ctx context.Context, args api.CreateReportArgs) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"user_id":      args.UserID,
		"report_type":  args.ReportType,
		"status":       args.Status,
		"description":  args.Description,
		"address":      args.Address,
		"location_lat": args.LocationLat,
		"location_lng": args.LocationLng,
		"created_at":   args.CreatedAt,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to encode field %s: %w", name, err)
		}
	}

	if args.Image != nil {
		part, err := w.CreatePart(mimeHeaderForImage(args.Image.Name))
		if err != nil {
			return fmt.Errorf("failed to attach image: %w", err)
		}
		if _, err := part.Write(args.Image.Content); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+api.CreateReportEndpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp api.StatusResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if err := serverChecked(resp.Success, resp.Message); err != nil {
		return err
	}
	log.Infof("Submitted report for user %s at %s,%s", args.UserID, args.LocationLat, args.LocationLng)
	return nil
}

// ListReports fetches every report in the system; the polling cache filters
// down to the session user.
func (c *Client) ListReports(ctx context.Context) ([]models.Report, error) {
	var resp api.ReportListResponse
	if err := c.getJSON(ctx, api.ListReportsEndpoint, &resp); err != nil {
		return nil, err
	}
	if err := serverChecked(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UserReports fetches only the given user's reports, used by the
// profile/history view.
func (c *Client) UserReports(ctx context.Context, userID string) ([]models.Report, error) {
	var resp api.ReportListResponse
	if err := c.postJSON(ctx, api.UserReportsEndpoint, api.UserReportsArgs{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	if err := serverChecked(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ArchiveReport asks the backend to hide the report from the history view.
// Soft state only; nothing is erased.
func (c *Client) ArchiveReport(ctx context.Context, reportID string) error {
	var resp api.StatusResponse
	if err := c.postJSON(ctx, api.ArchiveReportEndpoint, api.ArchiveReportArgs{ReportID: reportID}, &resp); err != nil {
		return err
	}
	return serverChecked(resp.Success, resp.Message)
}

// DeleteReport soft-deletes by ticket number, per the existing wire contract.
func (c *Client) DeleteReport(ctx context.Context, ticketNo string) error {
	var resp api.StatusResponse
	if err := c.postJSON(ctx, api.DeleteReportEndpoint, api.DeleteReportArgs{TicketNo: ticketNo}, &resp); err != nil {
		return err
	}
	return serverChecked(resp.Success, resp.Message)
}

// ImageURL resolves a stored image_path to the full uploads URL.
func (c *Client) ImageURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return c.baseURL + api.UploadsPrefix + url.PathEscape(imagePath)
}

// ImageContentType mirrors the original client's extension sniffing:
// "photo.jpg" becomes image/jpg, anything without a known extension is sent
// as plain "image".
func ImageContentType(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "image"
	}
	return "image/" + strings.ToLower(ext)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func mimeHeaderForImage(name string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image_path"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", ImageContentType(name))
	return h
}
