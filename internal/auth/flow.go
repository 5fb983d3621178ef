package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/strongcode/gymbook/internal/logger"
	"github.com/strongcode/gymbook/internal/session"
	"github.com/strongcode/gymbook/pkg/domain"
)

// ErrLoginFailed is the only error a failed login reports. Its message is
// shown verbatim on the login form.
var ErrLoginFailed = errors.New("Login failed") //nolint:staticcheck // user-facing text

// State is the login form's progress.
type State int

const (
	StateIdle State = iota
	StatePending
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Location is a navigation target.
type Location int

const (
	LocationNone Location = iota
	LocationLanding
	LocationDashboard
)

func (l Location) String() string {
	switch l {
	case LocationLanding:
		return "landing"
	case LocationDashboard:
		return "dashboard"
	}
	return "none"
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
}

// Flow runs login and logout against a session store.
type Flow struct {
	auth  Authenticator
	store session.Store
	log   *zap.Logger
}

// NewFlow creates a Flow. A nil logger discards output.
func NewFlow(a Authenticator, store session.Store, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{auth: a, store: store, log: log}
}

// Login submits the credentials as given. On success the response token is
// stored and the dashboard is returned. On any failure the store is left
// untouched and ErrLoginFailed is returned.
func (f *Flow) Login(ctx context.Context, email, password string) (Location, error) {
	resp, err := f.auth.Login(ctx, domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		f.log.Info("login rejected", logger.Action("login"), zap.Error(err))
		return LocationNone, ErrLoginFailed
	}
	if err := f.store.SetToken(resp.Token); err != nil {
		f.log.Error("persist token", logger.Action("login"), zap.Error(err))
		return LocationNone, ErrLoginFailed
	}
	f.log.Info("logged in", logger.Action("login"), logger.Location(LocationDashboard.String()))
	return LocationDashboard, nil
}

// Logout clears the stored token and returns the landing location. It does
// not wait for or cancel requests already in flight.
func (f *Flow) Logout() (Location, error) {
	if err := f.store.Clear(); err != nil {
		return LocationLanding, fmt.Errorf("auth.Logout: %w", err)
	}
	f.log.Info("logged out", logger.Action("logout"), logger.Location(LocationLanding.String()))
	return LocationLanding, nil
}
