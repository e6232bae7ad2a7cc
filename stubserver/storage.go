package stubserver

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
	_ "modernc.org/sqlite"

	"pipetrack/api"
	"pipetrack/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id        INTEGER PRIMARY KEY AUTOINCREMENT,
	fullname       TEXT NOT NULL,
	contact_number TEXT NOT NULL DEFAULT '',
	sex            TEXT NOT NULL DEFAULT '',
	street         TEXT NOT NULL DEFAULT '',
	barangay       TEXT NOT NULL DEFAULT '',
	city           TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL UNIQUE,
	password       TEXT NOT NULL,
	account_status TEXT NOT NULL DEFAULT 'pending',
	profile        TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS reports (
	report_id    INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      INTEGER NOT NULL,
	ticket_no    TEXT NOT NULL UNIQUE,
	report_type  TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	description  TEXT NOT NULL,
	address      TEXT NOT NULL,
	location_lat TEXT NOT NULL DEFAULT '',
	location_lng TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	image_path   TEXT NOT NULL DEFAULT '',
	is_archived  INTEGER NOT NULL DEFAULT 0,
	is_deleted   INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS feedback (
	feedback_id INTEGER PRIMARY KEY AUTOINCREMENT,
	report_id   INTEGER NOT NULL UNIQUE,
	user_id     INTEGER NOT NULL,
	message     TEXT NOT NULL,
	rating      INTEGER NOT NULL,
	date        TEXT NOT NULL
);
`

// Store is the stub backend's persistence layer on an embedded sqlite
// database.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", path, err)
	}
	s := &Store{db: db}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

// NewStoreWithDB wraps an existing handle; used by tests with sqlmock.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

func validateResult(r sql.Result, err error, checkRowsAffected bool) error {
	if err != nil {
		log.Errorf("Query failed: %v", err)
		return err
	}
	rows, err := r.RowsAffected()
	if err != nil {
		log.Errorf("Failed to get status of db op: %v", err)
		return err
	}
	if checkRowsAffected && rows != 1 {
		log.Warnf("Expected to affect 1 row, affected %d", rows)
		return fmt.Errorf("expected to affect 1 row, affected %d", rows)
	}
	return nil
}

func (s *Store) CreateUser(args api.RegisterArgs, status string) error {
	result, err := s.db.Exec(`INSERT INTO users
		(fullname, contact_number, sex, street, barangay, city, email, password, account_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args.Fullname, args.ContactNumber, args.Sex, args.Street, args.Barangay,
		args.City, args.Email, args.Password, status)
	return validateResult(result, err, true)
}

func (s *Store) ApproveUser(email string) error {
	result, err := s.db.Exec(`UPDATE users SET account_status = 'approved' WHERE email = ?`, email)
	return validateResult(result, err, true)
}

func (s *Store) AuthUser(email, password string) (*models.SessionProfile, error) {
	row := s.db.QueryRow(`SELECT user_id, fullname, contact_number, sex, street, barangay,
		city, email, account_status, profile
		FROM users WHERE email = ? AND password = ?`, email, password)

	var p models.SessionProfile
	var id int64
	err := row.Scan(&id, &p.Fullname, &p.ContactNumber, &p.Sex, &p.Street,
		&p.Barangay, &p.City, &p.Email, &p.AccountStatus, &p.Profile)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.UserID = models.ID(fmt.Sprintf("%d", id))
	return &p, nil
}

func (s *Store) UserExists(email string) (bool, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email)
	var cnt int
	if err := row.Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *Store) ChangePassword(userID, newPassword string) error {
	result, err := s.db.Exec(`UPDATE users SET password = ? WHERE user_id = ?`, newPassword, userID)
	return validateResult(result, err, true)
}

func (s *Store) UpdateProfile(args api.UpdateProfileArgs) error {
	result, err := s.db.Exec(`UPDATE users
		SET fullname = ?, contact_number = ?, sex = ?, street = ?, barangay = ?, city = ?
		WHERE user_id = ?`,
		args.Fullname, args.ContactNumber, args.Sex, args.Street, args.Barangay,
		args.City, args.UserID)
	return validateResult(result, err, true)
}

// SaveAvatar records the uploads-relative path of the stored avatar image.
func (s *Store) SaveAvatar(userID, avatarPath string) error {
	result, err := s.db.Exec(`UPDATE users SET profile = ? WHERE user_id = ?`, avatarPath, userID)
	return validateResult(result, err, true)
}

func (s *Store) InsertReport(ticketNo string, args api.CreateReportArgs, imagePath string) error {
	result, err := s.db.Exec(`INSERT INTO reports
		(user_id, ticket_no, report_type, status, description, address,
		 location_lat, location_lng, created_at, image_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args.UserID, ticketNo, args.ReportType, args.Status, args.Description,
		args.Address, args.LocationLat, args.LocationLng, args.CreatedAt, imagePath)
	return validateResult(result, err, true)
}

const reportColumns = `report_id, user_id, ticket_no, report_type, status, description,
	address, location_lat, location_lng, created_at, image_path, is_archived, is_deleted`

func scanReports(rows *sql.Rows) ([]models.Report, error) {
	out := []models.Report{}
	for rows.Next() {
		var (
			reportID, userID  int64
			lat, lng          string
			archived, deleted int
			r                 models.Report
		)
		if err := rows.Scan(&reportID, &userID, &r.TicketNo, &r.Type, (*string)(&r.Status),
			&r.Description, &r.Address, &lat, &lng, &r.Date, &r.ImagePath,
			&archived, &deleted); err != nil {
			log.Errorf("Cannot scan a report row: %v", err)
			continue
		}
		r.ReportID = models.ID(fmt.Sprintf("%d", reportID))
		r.UserID = models.ID(fmt.Sprintf("%d", userID))
		var err error
		if r.LocationLat, err = models.ParseCoordinate(lat); err != nil {
			log.Warnf("Report %d has %v", reportID, err)
		}
		if r.LocationLng, err = models.ParseCoordinate(lng); err != nil {
			log.Warnf("Report %d has %v", reportID, err)
		}
		r.Status = models.NormalizeStatus(string(r.Status))
		r.Archived = models.Flag(archived == 1)
		r.Deleted = models.Flag(deleted == 1)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListReports() ([]models.Report, error) {
	rows, err := s.db.Query(`SELECT ` + reportColumns + ` FROM reports ORDER BY report_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (s *Store) UserReports(userID string) ([]models.Report, error) {
	rows, err := s.db.Query(`SELECT `+reportColumns+` FROM reports
		WHERE user_id = ? ORDER BY report_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (s *Store) ArchiveReport(reportID string) error {
	result, err := s.db.Exec(`UPDATE reports SET is_archived = 1 WHERE report_id = ?`, reportID)
	return validateResult(result, err, true)
}

func (s *Store) DeleteReport(ticketNo string) error {
	result, err := s.db.Exec(`UPDATE reports SET is_deleted = 1 WHERE ticket_no = ?`, ticketNo)
	return validateResult(result, err, true)
}

// SetReportStatus is the stand-in for the admin dashboard moving a report
// through its lifecycle.
func (s *Store) SetReportStatus(reportID string, status models.Status) error {
	result, err := s.db.Exec(`UPDATE reports SET status = ? WHERE report_id = ?`, string(status), reportID)
	return validateResult(result, err, true)
}

func (s *Store) GetFeedback(reportID string) (*models.Feedback, error) {
	row := s.db.QueryRow(`SELECT message, rating, date FROM feedback WHERE report_id = ?`, reportID)
	var f models.Feedback
	err := row.Scan(&f.Message, &f.Rating, &f.Date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFeedback relies on the UNIQUE constraint on report_id to enforce
// one feedback per report even across racing sessions.
func (s *Store) CreateFeedback(args api.CreateFeedbackArgs, date string) error {
	result, err := s.db.Exec(`INSERT INTO feedback (report_id, user_id, message, rating, date)
		VALUES (?, ?, ?, ?, ?)`,
		args.ReportID, args.UserID, args.Message, args.Rating, date)
	return validateResult(result, err, true)
}
