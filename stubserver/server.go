// Package stubserver is a stand-in for the production PHP backend, covering
// the full wire contract the client consumes. It backs development setups
// and the client test suite; it is not the production service.
package stubserver

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pipetrack/api"
	"pipetrack/config"
	"pipetrack/models"
)

type Server struct {
	store      *Store
	uploadsDir string

	// AutoApprove skips the admin approval step so dev setups can log in
	// right after registering. Tests exercising the approval workflow turn
	// it off.
	AutoApprove bool
}

func NewServer(store *Store, uploadsDir string) *Server {
	return &Server{store: store, uploadsDir: uploadsDir, AutoApprove: true}
}

func (s *Server) Store() *Store { return s.store }

// Router builds the gin engine with every endpoint of the wire contract.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowOrigins:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST(api.LoginEndpoint, s.login)
	router.POST(api.RegisterEndpoint, s.register)
	router.POST(api.ForgotPasswordEndpoint, s.forgotPassword)
	router.POST(api.ChangePasswordEndpoint, s.changePassword)
	router.POST(api.UpdateProfileEndpoint, s.updateProfile)
	router.POST(api.UploadAvatarEndpoint, s.uploadAvatar)
	router.POST(api.CreateReportEndpoint, s.createReport)
	router.GET(api.ListReportsEndpoint, s.listReports)
	router.POST(api.UserReportsEndpoint, s.userReports)
	router.POST(api.ArchiveReportEndpoint, s.archiveReport)
	router.POST(api.DeleteReportEndpoint, s.deleteReport)
	router.GET(api.GetFeedbackEndpoint, s.getFeedback)
	router.POST(api.CreateFeedbackEndpoint, s.createFeedback)
	router.Static(strings.TrimSuffix(api.UploadsPrefix, "/"), s.uploadsDir)

	return router
}

// StartService runs the stub backend until the process exits.
func StartService(cfg *config.Config) error {
	store, err := OpenStore(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create uploads dir: %w", err)
	}

	log.Info("Starting the stub backend...")
	srv := NewServer(store, cfg.UploadsDir)
	return srv.Router().Run(fmt.Sprintf(":%d", cfg.ServerPort))
}

func ok(c *gin.Context, message string) {
	c.JSON(http.StatusOK, api.StatusResponse{Success: true, Message: message})
}

func fail(c *gin.Context, message string) {
	// The PHP backend answers 200 with success:false for business failures.
	c.JSON(http.StatusOK, api.StatusResponse{Success: false, Message: message})
}

func (s *Server) login(c *gin.Context) {
	var args api.LoginArgs
	if err := c.BindJSON(&args); err != nil {
		log.Errorf("Failed to get the argument in %s call: %v", api.LoginEndpoint, err)
		return
	}

	p, err := s.store.AuthUser(args.Email, args.Password)
	if err != nil {
		log.Errorf("Login query failed: %v", err)
		fail(c, "Server error.")
		return
	}
	if p == nil {
		fail(c, "Invalid credentials.")
		return
	}
	c.JSON(http.StatusOK, api.LoginResponse{Success: true, Data: p})
}

func (s *Server) register(c *gin.Context) {
	var args api.RegisterArgs
	if err := c.BindJSON(&args); err != nil {
		log.Errorf("Failed to get the argument in %s call: %v", api.RegisterEndpoint, err)
		return
	}

	exists, err := s.store.UserExists(args.Email)
	if err != nil {
		log.Errorf("Register lookup failed: %v", err)
		fail(c, "Server error.")
		return
	}
	if exists {
		fail(c, "Email already registered.")
		return
	}

	status := "pending"
	if s.AutoApprove {
		status = "approved"
	}
	if err := s.store.CreateUser(args, status); err != nil {
		fail(c, "Failed to register.")
		return
	}
	ok(c, "Registration submitted for approval.")
}

func (s *Server) forgotPassword(c *gin.Context) {
	var args api.ForgotPasswordArgs
	if err := c.BindJSON(&args); err != nil {
		return
	}
	exists, err := s.store.UserExists(args.Email)
	if err != nil || !exists {
		fail(c, "Email not found.")
		return
	}
	// No mailer in the stub; the contract only promises a success flag.
	ok(c, "Check your email for the reset link.")
}

func (s *Server) changePassword(c *gin.Context) {
	var args api.ChangePasswordArgs
	if err := c.BindJSON(&args); err != nil {
		return
	}
	if err := s.store.ChangePassword(args.UserID, args.NewPassword); err != nil {
		fail(c, "Failed to change password.")
		return
	}
	ok(c, "Password updated.")
}

func (s *Server) updateProfile(c *gin.Context) {
	var args api.UpdateProfileArgs
	if err := c.BindJSON(&args); err != nil {
		return
	}
	if err := s.store.UpdateProfile(args); err != nil {
		fail(c, "Failed to update profile.")
		return
	}
	ok(c, "Profile updated.")
}

// uploadAvatar decodes the base64 payload into a file under uploads and
// records the path as the user's avatar reference. Later logins return the
// path, never the image bytes.
func (s *Server) uploadAvatar(c *gin.Context) {
	var args api.UploadAvatarArgs
	if err := c.BindJSON(&args); err != nil {
		return
	}
	img, err := base64.StdEncoding.DecodeString(args.Image)
	if err != nil {
		fail(c, "Invalid image data.")
		return
	}

	avatarPath := fmt.Sprintf("avatar_%s.jpg", uuid.NewString()[:8])
	if err := os.WriteFile(filepath.Join(s.uploadsDir, avatarPath), img, 0o644); err != nil {
		log.Errorf("Failed to save avatar: %v", err)
		fail(c, "Failed to upload avatar.")
		return
	}
	if err := s.store.SaveAvatar(args.UserID, avatarPath); err != nil {
		fail(c, "Failed to upload avatar.")
		return
	}
	ok(c, "Avatar updated.")
}

func (s *Server) createReport(c *gin.Context) {
	args := api.CreateReportArgs{
		UserID:      c.PostForm("user_id"),
		ReportType:  c.PostForm("report_type"),
		Status:      c.PostForm("status"),
		Description: c.PostForm("description"),
		Address:     c.PostForm("address"),
		LocationLat: c.PostForm("location_lat"),
		LocationLng: c.PostForm("location_lng"),
		CreatedAt:   c.PostForm("created_at"),
	}
	if args.UserID == "" || args.ReportType == "" {
		fail(c, "Missing required fields.")
		return
	}

	// New reports enter the lifecycle as pending no matter what the client
	// claims.
	args.Status = string(models.StatusPending)
	if t, err := time.Parse(time.RFC3339, args.CreatedAt); err == nil {
		args.CreatedAt = t.UTC().Format("2006-01-02 15:04:05")
	}

	imagePath := ""
	if file, err := c.FormFile("image_path"); err == nil {
		imagePath = fmt.Sprintf("%s_%s", uuid.NewString()[:8], filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, filepath.Join(s.uploadsDir, imagePath)); err != nil {
			log.Errorf("Failed to save uploaded image: %v", err)
			fail(c, "Failed to save image.")
			return
		}
	}

	ticketNo := "TKT-" + strings.ToUpper(uuid.NewString()[:8])
	if err := s.store.InsertReport(ticketNo, args, imagePath); err != nil {
		fail(c, "Failed to save the report.")
		return
	}
	ok(c, "Report submitted successfully.")
}

func (s *Server) listReports(c *gin.Context) {
	reports, err := s.store.ListReports()
	if err != nil {
		log.Errorf("Could not retrieve reports: %v", err)
		fail(c, "Failed to fetch reports.")
		return
	}
	c.JSON(http.StatusOK, api.ReportListResponse{Success: true, Data: reports})
}

func (s *Server) userReports(c *gin.Context) {
	var args api.UserReportsArgs
	if err := c.BindJSON(&args); err != nil {
		return
	}
	reports, err := s.store.UserReports(args.UserID)
	if err != nil {
		log.Errorf("Could not retrieve reports for user %s: %v", args.UserID, err)
		fail(c, "Failed to fetch reports.")
		return
	}
	c.JSON(http.StatusOK, api.ReportListResponse{Success: true, Data: reports})
}

func (s *Server) archiveReport(c *gin.Context) {
	var args api.ArchiveReportArgs
	if err := c.BindJSON(&args); err != nil {
		return
	}
	if err := s.store.ArchiveReport(args.ReportID); err != nil {
		fail(c, "Not found")
		return
	}
	ok(c, "Report has been archived.")
}

func (s *Server) deleteReport(c *gin.Context) {
	var args api.DeleteReportArgs
	if err := c.BindJSON(&args); err != nil {
		return
	}
	if err := s.store.DeleteReport(args.TicketNo); err != nil {
		fail(c, "Not found")
		return
	}
	ok(c, "Report successfully marked as deleted.")
}

func (s *Server) getFeedback(c *gin.Context) {
	reportID := c.Query("report_id")
	f, err := s.store.GetFeedback(reportID)
	if err != nil {
		log.Errorf("Could not retrieve feedback for report %s: %v", reportID, err)
		fail(c, "Failed to fetch feedback.")
		return
	}
	c.JSON(http.StatusOK, api.FeedbackResponse{Success: true, Feedback: f})
}

func (s *Server) createFeedback(c *gin.Context) {
	var args api.CreateFeedbackArgs
	if err := c.BindJSON(&args); err != nil {
		return
	}
	if args.Message == "" || args.Rating < 1 || args.Rating > 5 {
		fail(c, "Message and a 1-5 rating are required.")
		return
	}

	existing, err := s.store.GetFeedback(args.ReportID)
	if err != nil {
		fail(c, "Failed to check feedback.")
		return
	}
	if existing != nil {
		fail(c, "Feedback already submitted")
		return
	}

	date := time.Now().UTC().Format("2006-01-02 15:04:05")
	if err := s.store.CreateFeedback(args, date); err != nil {
		// Racing submission loses on the UNIQUE constraint.
		fail(c, "Feedback already submitted")
		return
	}
	ok(c, "Thank you for your feedback!")
}
