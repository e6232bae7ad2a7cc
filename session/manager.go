package session

import (
	"context"
	"errors"
	"strings"

	"github.com/apex/log"

	"pipetrack/api"
	"pipetrack/models"
)

var (
	// ErrAccountPending: registered but not yet approved by the admin.
	ErrAccountPending = errors.New("account is awaiting approval")

	// ErrAccountRejected: the admin rejected the registration.
	ErrAccountRejected = errors.New("account has been rejected")
)

// Authenticator is the slice of the gateway the session flow needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.SessionProfile, error)
	UpdateProfile(ctx context.Context, args api.UpdateProfileArgs) error
	UploadAvatar(ctx context.Context, userID, imageBase64 string) error
}

// Manager runs the login/approval workflow and keeps the store in sync with
// profile mutations.
type Manager struct {
	auth  Authenticator
	store *Store
}

func NewManager(auth Authenticator, store *Store) *Manager {
	return &Manager{auth: auth, store: store}
}

// Login authenticates and branches on account_status: only approved accounts
// get a stored session. Pending and rejected accounts authenticate but are
// refused a session, mirroring the admin approval workflow.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.SessionProfile, error) {
	p, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(p.AccountStatus)) {
	case "approved":
		if err := m.store.Save(p); err != nil {
			return nil, err
		}
		return p, nil
	case "pending":
		return nil, ErrAccountPending
	case "rejected":
		return nil, ErrAccountRejected
	default:
		return nil, errors.New("unknown account status: " + p.AccountStatus)
	}
}

// SaveProfile pushes edited profile fields to the backend and, on success,
// overwrites the local snapshot with the same values.
func (m *Manager) SaveProfile(ctx context.Context, args api.UpdateProfileArgs) error {
	if err := m.auth.UpdateProfile(ctx, args); err != nil {
		return err
	}

	p := m.store.Current()
	if p == nil {
		log.Warnf("Profile updated for user %s with no active session", args.UserID)
		return nil
	}
	p.Fullname = args.Fullname
	p.ContactNumber = args.ContactNumber
	p.Sex = args.Sex
	p.Street = args.Street
	p.Barangay = args.Barangay
	p.City = args.City
	return m.store.Save(p)
}

// SaveAvatar uploads the picked image. The avatar reference on the profile
// is a server-side path, so the local snapshot is left alone and picks up
// the new path on the next login.
func (m *Manager) SaveAvatar(ctx context.Context, imageBase64 string) error {
	p := m.store.Current()
	if p == nil {
		return errors.New("not logged in")
	}
	return m.auth.UploadAvatar(ctx, p.UserID.String(), imageBase64)
}

// Logout destroys the session snapshot.
func (m *Manager) Logout() error {
	return m.store.Clear()
}
