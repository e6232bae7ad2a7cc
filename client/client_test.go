package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pipetrack/api"
	"pipetrack/common"
	"pipetrack/config"
)

func testClient(baseURL string) *Client {
	return New(&config.Config{BaseURL: baseURL, HTTPTimeout: 2 * time.Second})
}

func TestMalformedResponseClassification(t *testing.T) {
	// A misconfigured PHP host answers with an HTML error page, not JSON.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>500 Internal Server Error</h1></body></html>")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListReports(context.Background())
	if !errors.Is(err, common.ErrMalformedResponse) {
		t.Errorf("err = %v, want malformed response", err)
	}
}

func TestNetworkFailureClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := testClient(srv.URL).ListReports(context.Background())
	if !errors.Is(err, common.ErrNetwork) {
		t.Errorf("err = %v, want network failure", err)
	}
}

func TestTimeoutIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(&config.Config{BaseURL: srv.URL, HTTPTimeout: 50 * time.Millisecond})
	_, err := c.ListReports(context.Background())
	if !errors.Is(err, common.ErrNetwork) {
		t.Errorf("err = %v, want network failure on timeout", err)
	}
}

func TestServerRejectedCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":false,"message":"Not found"}`)
	}))
	defer srv.Close()

	err := testClient(srv.URL).ArchiveReport(context.Background(), "5")
	var se *common.ServerError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want server rejection", err)
	}
	if se.Message != "Not found" {
		t.Errorf("message = %q, want \"Not found\"", se.Message)
	}
}

func TestCreateReportMultipartEncoding(t *testing.T) {
	var gotFields map[string]string
	var gotImageType string
	var gotImage []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not multipart: %v", err)
		}
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				gotFields[k] = v[0]
			}
		}
		if files := r.MultipartForm.File["image_path"]; len(files) == 1 {
			gotImageType = files[0].Header.Get("Content-Type")
			f, _ := files[0].Open()
			defer f.Close()
			buf := make([]byte, 16)
			n, _ := f.Read(buf)
			gotImage = buf[:n]
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"message":"Report submitted successfully."}`)
	}))
	defer srv.Close()

	args := api.CreateReportArgs{
		UserID:      "9",
		ReportType:  "burst_pipe",
		Status:      "pending",
		Description: "Water gushing near gate",
		Address:     "123 Rizal St",
		LocationLat: "14.03",
		LocationLng: "120.65",
		CreatedAt:   "2025-06-01T10:30:00Z",
		Image:       &api.ImageFile{Name: "leak.jpg", Content: []byte{0xFF, 0xD8, 0xFF}},
	}
	if err := testClient(srv.URL).CreateReport(context.Background(), args); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	want := map[string]string{
		"user_id":      "9",
		"report_type":  "burst_pipe",
		"status":       "pending",
		"description":  "Water gushing near gate",
		"address":      "123 Rizal St",
		"location_lat": "14.03",
		"location_lng": "120.65",
		"created_at":   "2025-06-01T10:30:00Z",
	}
	for k, v := range want {
		if gotFields[k] != v {
			t.Errorf("field %s = %q, want %q", k, gotFields[k], v)
		}
	}
	if gotImageType != "image/jpg" {
		t.Errorf("image content type = %q, want image/jpg", gotImageType)
	}
	if len(gotImage) != 3 || gotImage[0] != 0xFF {
		t.Errorf("image bytes = %v", gotImage)
	}
}

func TestGetFeedbackNullMeansNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("report_id"); got != "5" {
			t.Errorf("report_id = %q, want 5", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"feedback":null}`)
	}))
	defer srv.Close()

	f, err := testClient(srv.URL).GetFeedback(context.Background(), "5")
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if f != nil {
		t.Errorf("feedback = %+v, want nil", f)
	}
}

func TestLoginValidation(t *testing.T) {
	c := testClient("http://unused")
	if _, err := c.Login(context.Background(), "", "secret"); !common.IsValidation(err) {
		t.Errorf("empty email: err = %v, want validation failure", err)
	}
	if _, err := c.Login(context.Background(), "a@b.c", ""); !common.IsValidation(err) {
		t.Errorf("empty password: err = %v, want validation failure", err)
	}
}

func TestLoginParsesProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{
			"user_id": 9, "fullname": "Juan dela Cruz", "contact_number": "09171234567",
			"sex": "M", "street": "Rizal St", "barangay": "Poblacion 1", "city": "Lian",
			"email": "juan@example.com", "account_status": "approved", "profile": ""}}`)
	}))
	defer srv.Close()

	p, err := testClient(srv.URL).Login(context.Background(), "juan@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if p.UserID != "9" || p.Fullname != "Juan dela Cruz" || p.AccountStatus != "approved" {
		t.Errorf("profile = %+v", p)
	}
}

func TestImageContentType(t *testing.T) {
	testCases := []struct {
		name string
		want string
	}{
		{"photo.jpg", "image/jpg"},
		{"photo.PNG", "image/png"},
		{"photo", "image"},
	}
	for _, testCase := range testCases {
		if got := ImageContentType(testCase.name); got != testCase.want {
			t.Errorf("ImageContentType(%q) = %q, want %q", testCase.name, got, testCase.want)
		}
	}
}
