package remote

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when the caller cancelled the call or its
	// deadline passed.
	ErrCancelled = errors.New("remote call cancelled")
	// ErrNotSignedIn is returned by calls that need a signed-in user.
	ErrNotSignedIn = errors.New("no user is signed in")
	// ErrReportNotFound is returned when the addressed report does not exist.
	ErrReportNotFound = errors.New("report not found")
	// ErrEmailTaken is returned by SignUp for an existing account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned by SignIn for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Failure is any other error raised by the remote, tagged with the operation.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("remote %s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Translate maps err from operation op into the remote error taxonomy.
// Known sentinels pass through, context errors become ErrCancelled and
// everything else is wrapped in a *Failure.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrCancelled):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, ErrCancelled)
	case errors.Is(err, ErrNotSignedIn),
		errors.Is(err, ErrReportNotFound),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrInvalidCredentials):
		return err
	}
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	return &Failure{Op: op, Err: err}
}

// IsCancelled reports whether err is a cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
