package activity

import (
	"errors"
	"fmt"
)

// ErrPageCeiling is returned when a paginated listing keeps reporting more
// items than a sane number of pages could hold.
var ErrPageCeiling = errors.New("pagination exceeded page ceiling")

// DiscoveryError is fatal: a partial issue list would silently produce an
// incomplete report.
type DiscoveryError struct {
	ProjectKey string
	Offset     int
	Err        error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("issue discovery for project %s failed at offset %d: %v", e.ProjectKey, e.Offset, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// DetailFetchError is recorded per issue; the issue is left out of the
// action stream and the run continues.
type DetailFetchError struct {
	Key string
	Err error
}

func (e *DetailFetchError) Error() string {
	return fmt.Sprintf("fetch issue %s: %v", e.Key, e.Err)
}

func (e *DetailFetchError) Unwrap() error { return e.Err }
