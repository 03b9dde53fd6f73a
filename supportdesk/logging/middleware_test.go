package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RequestLogger(&StructuredLogger{Logger: logger}))
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		assert.NoError(t, err)
	})

	server := httptest.NewServer(r)
	defer server.Close()

	resp, err := http.Get(server.URL + "/test")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)

	assert.Equal(t, "request started", entries[0].Message)
	assert.Equal(t, "GET", entries[0].Data["http_method"])
	assert.NotEmpty(t, entries[0].Data["req_id"])

	assert.Equal(t, "request complete", entries[1].Message)
	assert.Equal(t, 200, entries[1].Data["resp_status"])
	assert.Equal(t, 2, entries[1].Data["resp_bytes_length"])
}
