package types

import (
	"errors"
	"fmt"
)

var (
	// ErrLoginFailed means the verification probe stayed negative after a login attempt
	ErrLoginFailed = errors.New("login failed, please check your credentials")
	// ErrNoCredentials means automated login was needed but no email/password is configured
	ErrNoCredentials = errors.New("SUPERVALU_EMAIL and SUPERVALU_PASSWORD must be set for automated login")
	// ErrNoProducts means a search page yielded no usable product cards
	ErrNoProducts = errors.New("no products found")
)

// DriverError wraps a failure of the browser driver
type DriverError struct {
	Op     string
	Target string
	Err    error
}

func (e *DriverError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("browser %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("browser %s %s failed: %v", e.Op, e.Target, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}
