// Package respond writes the API's JSON responses: plain object payloads,
// provider-backed payloads with ETag and cache headers, and the error
// envelope shared by every failure path.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Error codes emitted by the API. Handlers pick from this set so clients can
// switch on a stable string instead of parsing messages.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidSeason     = "INVALID_SEASON"
	CodeInvalidConference = "INVALID_CONFERENCE"
	CodeInvalidPlayerID   = "INVALID_PLAYER_ID"
	CodeMissingName       = "MISSING_NAME"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeSourceFormat      = "SOURCE_FORMAT"
	CodeDBUnavailable     = "DB_UNAVAILABLE"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL"
)

// ErrorBody is the code-and-message pair inside the error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for all API errors.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteJSONObject marshals a storage-backed value and writes it. These
// responses are not cached; freshness comes straight from Postgres.
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteCached writes a provider-backed payload (roster, standings,
// scoreboard) with its ETag and cache headers. hit records whether the bytes
// came from the in-memory cache or a fresh provider call.
func WriteCached(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, hit bool) {
	maxAge := int(ttl.Seconds())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified sends a 304 with the matching ETag.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteError sends the error envelope. code should be one of the Code
// constants above.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}
