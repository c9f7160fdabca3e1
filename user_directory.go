package authapi

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MaxLoginAttempts is the maximum number of failed attempts a user gets
// inside the cool down window.
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which failed attempts accumulate.
var CoolDownPeriod = "24h"

// DirectoryProvider is the default UserDirectory implementation, backed by
// the Users repository with bcrypt credential checks.
type DirectoryProvider struct {
	store  Users
	logger Logger
}

var _ UserDirectory = (*DirectoryProvider)(nil)

// NewUserDirectory will create a new DirectoryProvider
func NewUserDirectory(store Users) *DirectoryProvider {
	return &DirectoryProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (d *DirectoryProvider) WithLogger(l Logger) *DirectoryProvider {
	d.logger = l
	return d
}

// Authenticate verifies a username/password pair and returns the matching
// record. Unknown users and bad passwords produce the same rejection.
func (d *DirectoryProvider) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := d.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			user.LoginAttempts = 0
		}
	}

	// if we have too many attempts in the given window, cool off!
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := d.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, ErrMismatchedHashAndPassword
	}

	if err := d.store.TrackSuccessfulLogin(ctx, user); err != nil {
		d.logger.Error("failed to track successful login", "error", err)
	}

	return user, nil
}

// FindByID resolves a token subject back to the directory's current record.
func (d *DirectoryProvider) FindByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrIdentityNotFound
	}

	user, err := d.store.GetByUserID(ctx, uid)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by id")
	}

	return user, nil
}
