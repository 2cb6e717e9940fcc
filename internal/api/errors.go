package api

import (
	"errors"
	"fmt"
)

// Transport failure sentinels. The UI messages these two differently:
// a timeout suggests "try again", unreachability suggests a connectivity
// problem on the caller's side.
var (
	ErrTimeout     = errors.New("request timeout: server not responding")
	ErrUnreachable = errors.New("cannot connect to server, check your internet connection")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.Code)
}

// ServerError carries a success:false message from the backend, passed
// through verbatim to the user.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// IsTimeout reports whether err is the timeout category.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsUnreachable reports whether err is the connectivity category.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// UserMessage reduces any client error to the single human-readable string
// the UI surfaces.
func UserMessage(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Error()
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Server error (%d). Please try again later.", statusErr.Code)
	}
	switch {
	case IsTimeout(err):
		return "Request timeout - Server not responding"
	case IsUnreachable(err):
		return "Cannot connect to server. Please check your internet connection."
	case err != nil:
		return err.Error()
	}
	return ""
}
