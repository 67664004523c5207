package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCachedHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCached(rec, []byte(`{"ok":true}`), `W/"abc"`, time.Hour, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `W/"abc"`, rec.Header().Get("ETag"))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "public, max-age=3600, stale-while-revalidate=1800",
		rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteCached(rec, []byte(`{}`), `W/"abc"`, time.Minute, true)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, CodeNotFound, "no such team")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.Equal(t, "no such team", resp.Error.Message)
}
