package nbastats

import "fmt"

// SourceUnavailableError indicates the stats provider could not be reached
// or returned a non-200 response. Callers that retry should retry on this
// error only.
type SourceUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Endpoint, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// SourceFormatError indicates the provider responded but the payload is
// missing expected result sets or columns. Not retried.
type SourceFormatError struct {
	Endpoint string
	Reason   string
}

func (e *SourceFormatError) Error() string {
	return fmt.Sprintf("unexpected source format: %s: %s", e.Endpoint, e.Reason)
}

// InvalidConferenceError indicates a conference filter outside
// Overall/East/West.
type InvalidConferenceError struct {
	Conference string
}

func (e *InvalidConferenceError) Error() string {
	return fmt.Sprintf("invalid conference %q: expected one of Overall, East, West", e.Conference)
}
