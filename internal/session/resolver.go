package session

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Target is a named navigation target the client dispatches on.
type Target string

const (
	TargetRiderMain   Target = "MainApp"
	TargetDriverMain  Target = "DriverMainApp"
	TargetRoleSelect  Target = "Options"
	TargetRiderLogin  Target = "U_Login"
	TargetDriverLogin Target = "D_Login"
)

// LoginTarget returns the login screen for the role.
func LoginTarget(role Role) Target {
	if role == RoleDriver {
		return TargetDriverLogin
	}
	return TargetRiderLogin
}

// ErrNoAccount is returned by a Directory when no account matches the email.
var ErrNoAccount = errors.New("no account for email")

// Directory is the external account lookup, queried by email per role.
type Directory interface {
	RiderByEmail(ctx context.Context, email string) (Account, error)
	DriverByEmail(ctx context.Context, email string) (Account, error)
}

// Account is the slice of an account record the resolver cares about.
type Account struct {
	Email         string
	Name          string
	VehicleNumber string
}

// Resolver decides, from persisted session state, where a device lands,
// and keeps that decision consistent with the directory.
type Resolver struct {
	store *Store
	dir   Directory
}

func NewResolver(store *Store, dir Directory) *Resolver {
	return &Resolver{store: store, dir: dir}
}

// Resolve picks the initial target for a device. The rider key is checked
// first, so a device that somehow holds both sessions lands on the rider
// screen. Any storage fault is treated the same as no session: resolution
// must never strand a user, it fails open to role selection.
func (r *Resolver) Resolve(ctx context.Context, device string) Target {
	if _, ok, err := r.store.Lookup(ctx, RoleRider, device); err == nil && ok {
		return TargetRiderMain
	} else if err != nil {
		logrus.WithError(err).Warn("session resolve: rider lookup failed")
	}

	if _, ok, err := r.store.Lookup(ctx, RoleDriver, device); err == nil && ok {
		return TargetDriverMain
	} else if err != nil {
		logrus.WithError(err).Warn("session resolve: driver lookup failed")
	}

	return TargetRoleSelect
}

// Validate checks the session's email against the directory. Not-found
// and lookup failure collapse into one outcome: the stale session key is
// removed and the caller redirects to the role's login screen. Only a
// confirmed account keeps the session alive.
func (r *Resolver) Validate(ctx context.Context, role Role, device, email string) bool {
	var err error
	switch role {
	case RoleDriver:
		_, err = r.dir.DriverByEmail(ctx, email)
	default:
		_, err = r.dir.RiderByEmail(ctx, email)
	}

	if err != nil {
		if !errors.Is(err, ErrNoAccount) {
			logrus.WithError(err).WithField("role", role).Warn("session validate: directory lookup failed")
		}
		if rmErr := r.store.Remove(ctx, role, device); rmErr != nil {
			logrus.WithError(rmErr).Warn("session validate: could not remove stale session")
		}
		return false
	}
	return true
}
