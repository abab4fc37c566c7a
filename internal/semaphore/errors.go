package semaphore

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNotFound is returned when a project or branch name has no matching
// identifier.
var ErrNotFound = errors.New("not found")

// FetchError is returned when a request could not be sent or the API replied
// with a non-2xx status code. StatusCode is zero for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("couldn't fetch %s: invalid status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("couldn't fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is returned when the API response body is not the expected JSON.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("couldn't unmarshal response body from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// redactURL masks the auth token so URLs can be logged and returned in errors.
func redactURL(u *url.URL) string {
	cp := *u
	q := cp.Query()
	if q.Has(authTokenParam) {
		q.Set(authTokenParam, "REDACTED")
		cp.RawQuery = q.Encode()
	}
	return cp.String()
}
